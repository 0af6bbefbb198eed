// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFrame(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 30, 45, 123000000, time.UTC)

	tests := []struct {
		name     string
		body     []byte
		contains []string
	}{
		{"empty", nil, []string{"EMPTY FRAME"}},
		{"telecommand", EncodeSetWheelSpeed(XYZ16{X: 1}), []string{"12:30:45.123", "TC SET_WHEEL_SPEED (17) len=7"}},
		{"acknowledgement", []byte{IDSetWheelSpeed, byte(StatusCRCError)}, []string{"ACK SET_WHEEL_SPEED", "status=CRC_ERROR"}},
		{"two byte telecommand", EncodeReset(), []string{"TC RESET (1) len=2"}},
		{"telemetry request", []byte{IDGetCurrentState}, []string{"TM REQUEST CURRENT_STATE (190)"}},
		{"telemetry reply", []byte{IDGetBootloaderState, 0x69, 0x1E, 0x27, 0x01, 0, 0},
			[]string{"TM BOOTLOADER_STATE", "Uptime: 7785 s", "Flags: 11100100100"}},
		{"short reply", []byte{IDGetBootloaderState, 0x01, 0x02}, []string{"len=2", "01 02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatFrame(tt.body, ts)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestFormatTelemetry(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		contains string
	}{
		{"nil", nil, "(no payload)"},
		{"tc ack", &TCAck{LastTCID: IDSetWheelSpeed, Processed: true, Status: StatusInvalidID},
			"Last TC: SET_WHEEL_SPEED (17), Processed: true, Status: INVALID_ID"},
		{"reflected struct", &BootIndex{ProgramIndex: 2, BootStatus: 1}, "ProgramIndex: 2"},
		{"reflected flags", &CubeACPState{Flags: []bool{true, false, true}}, "Flags: 101"},
		{"scalar", uint16(512), "512"},
		{"vector", &XYZ{X: 1, Y: 2, Z: 3}, "X: 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, FormatTelemetry(tt.value), tt.contains)
		})
	}
}

func TestFormatRecord(t *testing.T) {
	r := &Record{Name: "boot_index", ID: IDGetBootIndex, Time: 0, Raw: []byte{1, 0}}
	out := FormatRecord(r)
	assert.Contains(t, out, "BOOT_INDEX")
	assert.Contains(t, out, "ProgramIndex: 1")

	r.Raw = []byte{1}
	assert.Contains(t, FormatRecord(r), "INCORRECT_LENGTH")
}

func TestFormatFlags(t *testing.T) {
	assert.Equal(t, "", FormatFlags(nil))
	assert.Equal(t, "1001", FormatFlags([]bool{true, false, false, true}))
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

// recordingLink acknowledges every telecommand with status
type recordingLink struct {
	sent   [][]byte
	status adcs.Status
}

func (l *recordingLink) Telecommand(cmd []byte) (adcs.Status, error) {
	l.sent = append(l.sent, append([]byte(nil), cmd...))
	return l.status, nil
}

func (l *recordingLink) Telemetry(id uint8, length int) ([]byte, error) {
	return nil, adcs.ErrTimeout
}

func TestParseTelecommand_Encodes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []byte
	}{
		{"wheel speed", "set_wheel_speed 630 786 912", []byte{17, 0x76, 0x02, 0x12, 0x03, 0x90, 0x03}},
		{"erase all", "erase_file 15 1 true", []byte{108, 15, 1, 1}},
		{"hex argument", "set_attitude_estimate_mode 0x04", []byte{14, 4}},
		{"negative int16", "set_magnetorquer_output -1 0 1", []byte{16, 0xFF, 0xFF, 0, 0, 1, 0}},
		{"no arguments", "save_config", []byte{63}},
		{"explicit unix time", "set_unix_time 1 2", []byte{2, 1, 0, 0, 0, 2, 0}},
		{"unix time without millis", "set_unix_time 1", []byte{2, 1, 0, 0, 0, 0, 0}},
		{"clear latched", "clear_latched_errs 1 0", []byte{12, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := &recordingLink{}
			s := newSession(adcs.NewClient(link), "test")

			name, err := runTelecommandLine(s, tt.line)
			require.NoError(t, err)
			assert.Equal(t, strings.Fields(tt.line)[0], name)
			require.Len(t, link.sent, 1)
			assert.Equal(t, tt.want, link.sent[0])
		})
	}
}

func TestParseTelecommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr string
	}{
		{"unknown", "fly_to_moon", "unknown telecommand"},
		{"missing argument", "set_wheel_speed 1 2", "missing argument <speed-z>"},
		{"extra argument", "save_config 1", "unexpected argument"},
		{"out of range", "set_attitude_estimate_mode 256", "invalid <mode>"},
		{"bad bool", "erase_file 15 1 maybe", "invalid <erase-all>"},
		{"bad float", "set_attitude_angle 1 x 3", "invalid <angle-y>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := &recordingLink{}
			s := newSession(adcs.NewClient(link), "test")

			_, err := runTelecommandLine(s, tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, link.sent, "nothing is sent for a bad command line")
		})
	}
}

func TestRunTelecommandLine_Empty(t *testing.T) {
	s := newSession(adcs.NewClient(&recordingLink{}), "test")
	_, err := runTelecommandLine(s, "   ")
	assert.Error(t, err)
}

func TestRunTelecommandLine_Status(t *testing.T) {
	link := &recordingLink{status: adcs.StatusInvalidParameters}
	s := newSession(adcs.NewClient(link), "test")

	_, err := runTelecommandLine(s, "set_cache_enabled true")
	status, ok := adcs.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, adcs.StatusInvalidParameters, status)
}

func TestFormatStatusLine(t *testing.T) {
	tests := []struct {
		name     string
		status   adcs.Status
		expected string
	}{
		{"reset", adcs.StatusOK, "RESET: OK\n"},
		{"set_wheel_speed", adcs.StatusCRCError, "SET_WHEEL_SPEED: CRC_ERROR\n"},
		{"set_boot_index", adcs.StatusInvalidParameters, "SET_BOOT_INDEX: INVALID_PARAMETERS\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatStatusLine(tt.name, tt.status))
		})
	}
}

func TestRunTelecommandLine_StatusLine(t *testing.T) {
	link := &recordingLink{status: adcs.StatusInvalidID}
	s := newSession(adcs.NewClient(link), "test")

	name, err := runTelecommandLine(s, "reset")
	status, ok := adcs.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, "RESET: INVALID_ID\n", formatStatusLine(name, status))
}

func TestTelecommands_MatchTable(t *testing.T) {
	for _, name := range telecommandNames() {
		info, ok := adcs.LookupCommand(name)
		if assert.True(t, ok, "%s is not in the command table", name) {
			assert.Equal(t, adcs.KindTelecommand, info.Kind, name)
		}
	}
}

func TestFormatCommandList(t *testing.T) {
	all := formatCommandList("")
	assert.Contains(t, all, "set_wheel_speed")
	assert.Contains(t, all, "current_state")
	assert.Contains(t, all, "<x> <y> <z> (rpm)")

	tc := formatCommandList("tc")
	assert.Contains(t, tc, "erase_file")
	assert.NotContains(t, tc, "current_state")

	tm := formatCommandList("TM")
	assert.Contains(t, tm, "bootloader_state")
	assert.NotContains(t, tm, "erase_file")
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{90 * time.Second, "1 minute and 30 seconds"},
		{26*time.Hour + 5*time.Second, "1 day, 2 hours and 5 seconds"},
		{7785 * time.Second, "2 hours, 9 minutes and 45 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatUptime(tt.d))
		})
	}
}

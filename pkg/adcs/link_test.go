// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPort records writes and serves queued reads. Each queued chunk
// is returned by one Read; once the queue is empty Read returns 0 bytes
// the way an expired serial read does.
type scriptedPort struct {
	written bytes.Buffer
	reads   [][]byte
	readErr error
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		if p.readErr != nil {
			return 0, p.readErr
		}
		return 0, nil
	}
	n := copy(b, p.reads[0])
	if n < len(p.reads[0]) {
		p.reads[0] = p.reads[0][n:]
	} else {
		p.reads = p.reads[1:]
	}
	return n, nil
}

func (p *scriptedPort) queue(chunks ...[]byte) {
	p.reads = append(p.reads, chunks...)
}

// ============================================================
// UART link
// ============================================================

func TestUARTLink_Telecommand(t *testing.T) {
	tests := []struct {
		name     string
		reply    []byte
		expected Status
	}{
		{"ok", []byte{IDSetWheelSpeed, 0}, StatusOK},
		{"invalid id", []byte{IDSetWheelSpeed, 1}, StatusInvalidID},
		{"incorrect length", []byte{IDSetWheelSpeed, 2}, StatusIncorrectLength},
		{"invalid parameters", []byte{IDSetWheelSpeed, 3}, StatusInvalidParameters},
		{"crc error", []byte{IDSetWheelSpeed, 4}, StatusCRCError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &scriptedPort{}
			port.queue(EncodeFrame(tt.reply))
			link := NewUARTLink(port)

			cmd := EncodeSetWheelSpeed(XYZ16{X: 630, Y: 786, Z: 912})
			status, err := link.Telecommand(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
			assert.Equal(t, EncodeFrame(cmd), port.written.Bytes())
		})
	}
}

func TestUARTLink_TelecommandSplitReply(t *testing.T) {
	port := &scriptedPort{}
	frame := EncodeFrame([]byte{IDReset, 0})
	port.queue([]byte{0x00, 0x55}, frame[:2], frame[2:3], frame[3:])
	link := NewUARTLink(port)

	status, err := link.Telecommand(EncodeReset())
	require.NoError(t, err)
	assert.Equal(t, StatusOK, status)
}

func TestUARTLink_TelecommandAckMismatch(t *testing.T) {
	port := &scriptedPort{}
	port.queue(EncodeFrame([]byte{IDReset, 0}))
	link := NewUARTLink(port)

	_, err := link.Telecommand(EncodeSetWheelSpeed(XYZ16{}))
	assert.ErrorIs(t, err, ErrUnexpectedReply)
}

func TestUARTLink_TelecommandShortAck(t *testing.T) {
	port := &scriptedPort{}
	port.queue(EncodeFrame([]byte{IDReset}))
	link := NewUARTLink(port)

	_, err := link.Telecommand(EncodeReset())
	assert.ErrorIs(t, err, ErrFrame)
}

func TestUARTLink_Timeout(t *testing.T) {
	tests := []struct {
		name    string
		readErr error
	}{
		{"zero byte read", nil},
		{"eof", io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &scriptedPort{readErr: tt.readErr}
			link := NewUARTLink(port)

			_, err := link.Telecommand(EncodeReset())
			assert.ErrorIs(t, err, ErrTimeout)

			_, err = link.Telemetry(IDGetCurrentState, LenCurrentState)
			assert.ErrorIs(t, err, ErrTimeout)
		})
	}
}

func TestUARTLink_ReadError(t *testing.T) {
	boom := errors.New("port closed")
	port := &scriptedPort{readErr: boom}
	link := NewUARTLink(port)

	_, err := link.Telemetry(IDGetUnixTime, LenUnixTime)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestUARTLink_Telemetry(t *testing.T) {
	payload := []byte{0x1F, 0x7F, 0xFF, 0x00, 0x1F, 0x1F}
	port := &scriptedPort{}
	port.queue(EncodeFrame(append([]byte{IDGetUnixTime}, payload...)))
	link := NewUARTLink(port)

	got, err := link.Telemetry(IDGetUnixTime, LenUnixTime)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, []byte{EscChar, SOM, IDGetUnixTime, EscChar, EOM}, port.written.Bytes())
}

func TestUARTLink_TelemetryIncorrectLength(t *testing.T) {
	port := &scriptedPort{}
	port.queue(EncodeFrame([]byte{IDGetUnixTime, 1, 2, 3}))
	link := NewUARTLink(port)

	_, err := link.Telemetry(IDGetUnixTime, LenUnixTime)
	status, ok := StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, StatusIncorrectLength, status)
}

func TestUARTLink_TelemetryWrongID(t *testing.T) {
	port := &scriptedPort{}
	port.queue(EncodeFrame([]byte{IDGetBootIndex, 1, 2}))
	link := NewUARTLink(port)

	_, err := link.Telemetry(IDGetSRAMScrubSize, LenSRAMScrubSize)
	assert.ErrorIs(t, err, ErrUnexpectedReply)
}

// ============================================================
// I2C link
// ============================================================

func TestI2CLink_Telecommand(t *testing.T) {
	dev := &scriptedPort{}
	dev.queue([]byte{IDSetWheelSpeed, 0x01, byte(StatusInvalidParameters), 2})
	link := NewI2CLink(dev, 0)

	cmd := EncodeSetWheelSpeed(XYZ16{X: 1, Y: 2, Z: 3})
	status, err := link.Telecommand(cmd)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalidParameters, status)

	// Command followed by the acknowledge request, both unframed
	expected := append(append([]byte{}, cmd...), IDGetTCAck)
	assert.Equal(t, expected, dev.written.Bytes())
}

func TestI2CLink_TelecommandWaitsForProcessed(t *testing.T) {
	dev := &scriptedPort{}
	dev.queue(
		[]byte{IDSetWheelSpeed, 0x00, 0, 0},
		[]byte{IDSetWheelSpeed, 0x01, byte(StatusCRCError), 0},
	)
	link := NewI2CLink(dev, time.Second)

	cmd := EncodeSetWheelSpeed(XYZ16{})
	status, err := link.Telecommand(cmd)
	require.NoError(t, err)
	assert.Equal(t, StatusCRCError, status)

	// One command write, then two acknowledge requests
	expected := append(append([]byte{}, cmd...), IDGetTCAck, IDGetTCAck)
	assert.Equal(t, expected, dev.written.Bytes())
}

func TestI2CLink_TelecommandNotProcessed(t *testing.T) {
	dev := &scriptedPort{}
	dev.queue([]byte{IDSetWheelSpeed, 0x00, 0, 0})
	link := NewI2CLink(dev, 0)

	status, err := link.Telecommand(EncodeSetWheelSpeed(XYZ16{X: 1}))
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, Status(0), status)
	_, isStatus := StatusOf(err)
	assert.False(t, isStatus)
}

func TestI2CLink_TelecommandAckMismatch(t *testing.T) {
	dev := &scriptedPort{}
	dev.queue([]byte{IDReset, 0x01, 0, 0})
	link := NewI2CLink(dev, 0)

	_, err := link.Telecommand(EncodeSetWheelSpeed(XYZ16{}))
	assert.ErrorIs(t, err, ErrUnexpectedReply)
}

func TestI2CLink_Telemetry(t *testing.T) {
	dev := &scriptedPort{}
	dev.queue([]byte{0x69, 0x1E}, []byte{0x27, 0x01, 0x00, 0x00})
	link := NewI2CLink(dev, 0)

	got, err := link.Telemetry(IDGetBootloaderState, LenBootloaderState)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x69, 0x1E, 0x27, 0x01, 0x00, 0x00}, got)
	assert.Equal(t, []byte{IDGetBootloaderState}, dev.written.Bytes())
}

func TestI2CLink_ShortRead(t *testing.T) {
	dev := &scriptedPort{readErr: io.EOF}
	dev.queue([]byte{0x01})
	link := NewI2CLink(dev, 0)

	_, err := link.Telemetry(IDGetUnixTime, LenUnixTime)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

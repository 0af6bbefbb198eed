// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLink records telecommands and serves telemetry payloads by ID.
type fakeLink struct {
	sent      [][]byte
	requested []uint8
	status    Status
	tcErr     error
	telemetry map[uint8][]byte
	tmErr     error
}

func newFakeLink() *fakeLink {
	return &fakeLink{telemetry: make(map[uint8][]byte)}
}

func (l *fakeLink) Telecommand(cmd []byte) (Status, error) {
	l.sent = append(l.sent, append([]byte(nil), cmd...))
	return l.status, l.tcErr
}

func (l *fakeLink) Telemetry(id uint8, length int) ([]byte, error) {
	l.requested = append(l.requested, id)
	if l.tmErr != nil {
		return nil, l.tmErr
	}
	payload, ok := l.telemetry[id]
	if !ok {
		return nil, ErrTimeout
	}
	if len(payload) != length {
		return nil, StatusIncorrectLength
	}
	return payload, nil
}

func (l *fakeLink) last() []byte {
	if len(l.sent) == 0 {
		return nil
	}
	return l.sent[len(l.sent)-1]
}

// ============================================================
// Telecommand encoding through the client
// ============================================================

func TestClient_SetWheelSpeed(t *testing.T) {
	link := newFakeLink()
	c := NewClient(link)

	require.NoError(t, c.SetWheelSpeed(XYZ16{X: 630, Y: 786, Z: 912}))
	assert.Equal(t, []byte{17, 0x76, 0x02, 0x12, 0x03, 0x90, 0x03}, link.last())
}

func TestClient_EraseFile(t *testing.T) {
	link := newFakeLink()
	c := NewClient(link)

	require.NoError(t, c.EraseFile(15, 1, true))
	assert.Equal(t, []byte{108, 15, 1, 1}, link.last())
}

func TestClient_TriggerADCSLoopSim(t *testing.T) {
	link := newFakeLink()
	c := NewClient(link)

	var data SimSensorData
	data[0] = 0xAB
	data[len(data)-1] = 0xCD
	require.NoError(t, c.TriggerADCSLoopSim(data))

	sent := link.last()
	require.Len(t, sent, 1+simSensorSize)
	assert.Equal(t, byte(IDTriggerADCSLoopSim), sent[0])
	assert.Equal(t, byte(0xAB), sent[1])
	assert.Equal(t, byte(0xCD), sent[simSensorSize])

	// The zero value is a valid all-zero sensor frame
	assert.Equal(t, make([]byte, simSensorSize), EncodeTriggerADCSLoopSim(SimSensorData{})[1:])
}

func TestClient_Telecommands(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		expected []byte
	}{
		{"reset", func(c *Client) error { return c.Reset() }, []byte{1, 0x5A}},
		{"format sd", func(c *Client) error { return c.FormatSDCard() }, []byte{33, 0x5A}},
		{"set unix time", func(c *Client) error { return c.SetUnixTime(0x01020304, 500) },
			[]byte{2, 0x04, 0x03, 0x02, 0x01, 0xF4, 0x01}},
		{"cache enabled", func(c *Client) error { return c.SetCacheEnabled(true) }, []byte{3, 1}},
		{"reset log pointer", func(c *Client) error { return c.ResetLogPointer() }, []byte{4}},
		{"scrub size", func(c *Client) error { return c.SetSRAMScrubSize(0x1234) }, []byte{8, 0x34, 0x12}},
		{"time save config", func(c *Client) error {
			return c.SetUnixTimeSaveConfig(UnixTimeSaveConfig{SaveNow: true, SavePeriodic: true, Period: 60})
		}, []byte{9, 0x05, 60}},
		{"boot index", func(c *Client) error { return c.SetBootIndex(1) }, []byte{100, 1}},
		{"read program info", func(c *Client) error { return c.ReadProgramInfo(18) }, []byte{102, 18}},
		{"enabled state", func(c *Client) error { return c.SetEnabledState(RunMode(1)) }, []byte{10, 1}},
		{"ctrl mode", func(c *Client) error { return c.SetAttitudeCtrlMode(2, 0xFFFF) }, []byte{13, 2, 0xFF, 0xFF}},
		{"magnetorquer", func(c *Client) error {
			return c.SetMagnetorquerOutput(XYZ16{X: -1, Y: 0, Z: 256})
		}, []byte{16, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x01}},
		{"attitude angle", func(c *Client) error {
			return c.SetAttitudeAngle(XYZ{X: 1.5, Y: -1.5, Z: 0})
		}, []byte{15, 0x96, 0x00, 0x6A, 0xFF, 0x00, 0x00}},
		{"initiate upload", func(c *Client) error { return c.InitiateFileUpload(UploadDest(2), 64) }, []byte{114, 2, 64}},
		{"download block", func(c *Client) error { return c.LoadFileDownloadBlock(2, 3, 0x100, 0x200) },
			[]byte{112, 2, 3, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02}},
		{"clear latched", func(c *Client) error { return c.ClearLatchedErrs(false, true) }, []byte{12, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := newFakeLink()
			c := NewClient(link)
			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.expected, link.last())
		})
	}
}

func TestClient_RejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) error
	}{
		{"boot index", func(c *Client) error { return c.SetBootIndex(2) }},
		{"program info", func(c *Client) error { return c.ReadProgramInfo(19) }},
		{"copy program", func(c *Client) error { return c.CopyProgramInternalFlash(19, false) }},
		{"hole map low", func(c *Client) error { return c.SetHoleMap(0, HoleMap{}) }},
		{"hole map high", func(c *Client) error { return c.SetHoleMap(9, HoleMap{}) }},
		{"log config", func(c *Client) error { return c.SetLogConfig(3, LogConfig{}) }},
		{"mtm config", func(c *Client) error { return c.SetMTMConfig(0, MTMConfig{}) }},
		{"upload chunk", func(c *Client) error { return c.FileUploadPacket(0, make([]byte, 21)) }},
		{"power state", func(c *Client) error { return c.SetPowerControl(PowerNodes{0, 4}) }},
		{"get hole map", func(c *Client) error { _, err := c.GetHoleMap(9); return err }},
		{"get log config", func(c *Client) error { _, err := c.GetLogConfig(0); return err }},
		{"get mtm config", func(c *Client) error { _, err := c.GetMTMConfig(3); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := newFakeLink()
			c := NewClient(link)
			err := tt.call(c)
			assert.Equal(t, StatusInvalidParameters, err)
			assert.Empty(t, link.sent)
			assert.Empty(t, link.requested)
			assert.Equal(t, uint64(1), c.Stats().Rejected)
		})
	}
}

func TestClient_StatusPassThrough(t *testing.T) {
	for status := StatusOK; status <= StatusCRCError; status++ {
		link := newFakeLink()
		link.status = status
		c := NewClient(link)

		err := c.TriggerADCSLoop()
		got, ok := StatusOf(err)
		require.True(t, ok)
		assert.Equal(t, status, got)
	}
}

func TestClient_TransportErrorWrapped(t *testing.T) {
	link := newFakeLink()
	link.tcErr = ErrTimeout
	c := NewClient(link)

	err := c.Reset()
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "RESET")
	_, ok := StatusOf(err)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Timeouts)
}

func TestClient_EmptyTelecommand(t *testing.T) {
	c := NewClient(newFakeLink())
	assert.ErrorIs(t, c.Telecommand(nil), ErrFrame)
}

func TestClient_UploadBlock(t *testing.T) {
	link := newFakeLink()
	c := NewClient(link)

	data := make([]byte, 45)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, c.UploadBlock(data))
	require.Len(t, link.sent, 3)

	for i, cmd := range link.sent {
		require.Len(t, cmd, 23)
		assert.Equal(t, uint8(IDFileUploadPacket), cmd[0])
		assert.Equal(t, uint16(i), Uint16FromBytes(cmd[1], cmd[2]))
	}
	assert.Equal(t, data[40:45], link.sent[2][3:8])
	assert.Equal(t, make([]byte, 15), link.sent[2][8:])
}

func TestClient_UploadBlockStopsOnError(t *testing.T) {
	link := newFakeLink()
	link.status = StatusCRCError
	c := NewClient(link)

	err := c.UploadBlock(make([]byte, 60))
	assert.Equal(t, StatusCRCError, err)
	assert.Len(t, link.sent, 1)
}

// ============================================================
// Telemetry through the client
// ============================================================

func TestClient_GetBootloaderState(t *testing.T) {
	link := newFakeLink()
	link.telemetry[IDGetBootloaderState] = []byte{0x69, 0x1E, 0x27, 0x01, 0x00, 0x00}
	c := NewClient(link)

	st, err := c.GetBootloaderState()
	require.NoError(t, err)
	assert.Equal(t, uint16(7785), st.Uptime)
	assert.Equal(t, []bool{true, true, true, false, false, true, false, false, true, false, false}, st.Flags)
	assert.Equal(t, uint64(1), c.Stats().Acknowledged)
}

func TestClient_TelemetryIncorrectLength(t *testing.T) {
	link := newFakeLink()
	link.telemetry[IDGetUnixTime] = []byte{1, 2, 3}
	c := NewClient(link)

	ut, err := c.GetUnixTime()
	assert.Nil(t, ut)
	assert.Equal(t, StatusIncorrectLength, err)
	assert.Equal(t, uint64(1), c.Stats().StatusErrors[StatusIncorrectLength])
}

func TestClient_TelemetryTransportError(t *testing.T) {
	boom := errors.New("link down")
	link := newFakeLink()
	link.tmErr = boom
	c := NewClient(link)

	_, err := c.GetCurrentState()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1), c.Stats().TransportErrors)
}

func TestClient_GetHoleMap(t *testing.T) {
	link := newFakeLink()
	payload := make([]byte, LenHoleMap)
	payload[0] = 0xAA
	link.telemetry[IDGetHoleMap+2] = payload
	c := NewClient(link)

	m, err := c.GetHoleMap(3)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), m[0])
	assert.Equal(t, []uint8{IDGetHoleMap + 2}, link.requested)
}

func TestClient_GetMTMConfigSelectsID(t *testing.T) {
	link := newFakeLink()
	link.telemetry[IDGetMTMConfig+1] = make([]byte, LenMTMConfig)
	c := NewClient(link)

	_, err := c.GetMTMConfig(2)
	require.NoError(t, err)
	assert.Equal(t, []uint8{IDGetMTMConfig + 1}, link.requested)
}

func TestClient_VerifyUpload(t *testing.T) {
	block := []byte("123456789")

	link := newFakeLink()
	link.telemetry[IDGetUploadCRC16] = []byte{0xB1, 0x29}
	c := NewClient(link)
	require.NoError(t, c.VerifyUpload(block))

	link.telemetry[IDGetUploadCRC16] = []byte{0x00, 0x00}
	err := c.VerifyUpload(block)
	assert.ErrorIs(t, err, StatusCRCError)
}

func TestCalculateCRC16(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{"empty", nil, 0xFFFF},
		{"check string", []byte("123456789"), 0x29B1},
		{"single zero", []byte{0x00}, 0xE1F0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateCRC16(tt.data))
		})
	}
}

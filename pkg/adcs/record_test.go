// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	now := time.UnixMilli(1735689600123)
	raw := []byte{0x69, 0x1E, 0x27, 0x01, 0x00, 0x00}

	r, err := NewRecord("bench", "bootloader_state", raw, now)
	require.NoError(t, err)
	assert.Equal(t, "bench", r.Source)
	assert.Equal(t, uint8(IDGetBootloaderState), r.ID)
	assert.Equal(t, int64(1735689600123), r.Time)
	assert.True(t, r.Timestamp().Equal(now))

	// The record owns its payload
	raw[0] = 0
	assert.Equal(t, byte(0x69), r.Raw[0])
}

func TestNewRecord_Invalid(t *testing.T) {
	_, err := NewRecord("bench", "bootloader_state", []byte{1, 2}, time.Now())
	assert.ErrorIs(t, err, StatusIncorrectLength)

	_, err = NewRecord("bench", "set_wheel_speed", make([]byte, 6), time.Now())
	assert.Error(t, err)
}

func TestRecord_MarshalRoundTrip(t *testing.T) {
	r, err := NewRecord("bench", "unix_time", []byte{1, 2, 3, 4, 5, 6}, time.UnixMilli(42))
	require.NoError(t, err)

	data, err := r.Marshal()
	require.NoError(t, err)
	// Integer keys: the map starts with key 1, not a field name
	assert.Equal(t, []byte{0xA5, 0x01}, data[:2])

	got, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	v, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, &UnixTime{Seconds: 0x04030201, Millis: 0x0605}, v)
}

func TestUnmarshalRecord_Errors(t *testing.T) {
	_, err := UnmarshalRecord(nil)
	assert.Error(t, err)

	_, err = UnmarshalRecord([]byte{0xFF, 0x00})
	assert.Error(t, err)
}

func TestRecord_DecodeRejectsCorruptLength(t *testing.T) {
	r := &Record{Name: "unix_time", Raw: []byte{1}}
	_, err := r.Decode()
	assert.ErrorIs(t, err, StatusIncorrectLength)
}

func TestSourceID(t *testing.T) {
	id := SourceID()
	assert.NotEmpty(t, id)
	assert.LessOrEqual(t, len(id), 16)
	assert.Equal(t, id, SourceID())
}

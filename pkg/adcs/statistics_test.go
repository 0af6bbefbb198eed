// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatistics_Update(t *testing.T) {
	s := NewStatistics()

	s.Update(KindTelecommand, StatusOK, nil)
	s.Update(KindTelecommand, StatusInvalidParameters, nil)
	s.Update(KindTelemetry, StatusOK, nil)
	s.Update(KindTelemetry, 0, fmt.Errorf("wrapped: %w", ErrTimeout))
	s.Update(KindTelemetry, 0, ErrFrame)
	s.Update(KindTelecommand, 0, ErrUnexpectedReply)
	s.Update(KindTelecommand, 0, errors.New("broken pipe"))
	s.Update(KindTelecommand, Status(200), nil)

	assert.Equal(t, uint64(5), s.Telecommands)
	assert.Equal(t, uint64(3), s.TelemetryFrames)
	assert.Equal(t, uint64(8), s.Total())
	assert.Equal(t, uint64(2), s.Acknowledged)
	assert.Equal(t, uint64(1), s.StatusErrors[StatusInvalidParameters])
	assert.Equal(t, uint64(1), s.Timeouts)
	assert.Equal(t, uint64(1), s.FrameErrors)
	assert.Equal(t, uint64(1), s.UnexpectedReplies)
	assert.Equal(t, uint64(2), s.TransportErrors)
	assert.Equal(t, uint64(6), s.Errors())
}

func TestStatistics_StringAndReset(t *testing.T) {
	s := NewStatistics()
	s.Update(KindTelecommand, StatusCRCError, nil)
	s.Update(KindTelemetry, 0, ErrTimeout)
	s.Rejected = 2
	s.AddAnomalies([]Anomaly{{}, {}, {}})

	out := s.String()
	assert.Contains(t, out, "Link Statistics")
	assert.Contains(t, out, "CRC_ERROR:")
	assert.Contains(t, out, "Timeouts:")
	assert.Contains(t, out, "Rejected:")
	assert.Contains(t, out, "Anomalous Values:       3")

	s.Reset()
	assert.Equal(t, uint64(0), s.Total())
	assert.Equal(t, uint64(0), s.AnomalousValues)
	assert.False(t, s.StartTime.IsZero())
}

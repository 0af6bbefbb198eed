// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

func TestIsConnectionLost(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"device status", adcs.StatusInvalidID, false},
		{"timeout", fmt.Errorf("CURRENT_STATE: %w", adcs.ErrTimeout), false},
		{"frame error", adcs.ErrFrame, false},
		{"unexpected reply", adcs.ErrUnexpectedReply, false},
		{"closed websocket", fmt.Errorf("read frame: %w", ErrConnectionClosed), true},
		{"serial failure", errors.New("read frame: input/output error"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConnectionLost(tt.err))
		})
	}
}

func TestSessionStatsSnapshot(t *testing.T) {
	link := &recordingLink{}
	s := newSession(adcs.NewClient(link), "test")

	assert.NoError(t, s.do(func(c *adcs.Client) error { return c.SaveConfig() }))
	st := s.stats()
	assert.Equal(t, uint64(1), st.Telecommands)
	assert.Equal(t, uint64(1), st.Acknowledged)

	// The snapshot is a copy
	st.Telecommands = 99
	assert.Equal(t, uint64(1), s.stats().Telecommands)
	assert.NoError(t, s.Close())
}

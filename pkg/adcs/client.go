// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"fmt"
)

// Client issues typed telecommands and telemetry requests over a Link.
//
// Every call is one blocking exchange. The device processes a single
// transaction at a time, so a Client must not be shared between goroutines
// without external locking.
type Client struct {
	link  Link
	stats *Statistics
}

// NewClient creates a client over link
func NewClient(link Link) *Client {
	return &Client{
		link:  link,
		stats: NewStatistics(),
	}
}

// Stats returns the exchange counters
func (c *Client) Stats() *Statistics {
	return c.stats
}

// newCommand allocates a telecommand buffer of the given total length
// with the ID in byte 0.
func newCommand(id uint8, length int) []byte {
	cmd := make([]byte, length)
	cmd[0] = id
	return cmd
}

// Telecommand sends a pre-encoded telecommand. The device status is
// returned unchanged: nil for OK, otherwise the Status value.
func (c *Client) Telecommand(cmd []byte) error {
	if len(cmd) == 0 {
		return fmt.Errorf("%w: empty telecommand", ErrFrame)
	}
	status, err := c.link.Telecommand(cmd)
	c.stats.Update(KindTelecommand, status, err)
	if err != nil {
		return fmt.Errorf("%s: %w", FormatID(KindTelecommand, cmd[0]), err)
	}
	return status.Err()
}

// Telemetry requests a telemetry frame and returns its raw payload
func (c *Client) Telemetry(id uint8, length int) ([]byte, error) {
	raw, err := c.link.Telemetry(id, length)
	if err != nil {
		status, ok := StatusOf(err)
		if ok {
			c.stats.Update(KindTelemetry, status, nil)
			return nil, status
		}
		c.stats.Update(KindTelemetry, 0, err)
		return nil, fmt.Errorf("%s: %w", FormatID(KindTelemetry, id), err)
	}
	c.stats.Update(KindTelemetry, StatusOK, nil)
	return raw, nil
}

// send encodes and transmits a telecommand. An encoder error is a client
// side rejection and nothing is transmitted.
func (c *Client) send(cmd []byte, encErr error) error {
	if encErr != nil {
		c.stats.Rejected++
		return encErr
	}
	return c.Telecommand(cmd)
}

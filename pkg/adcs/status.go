// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"errors"
	"fmt"
)

// Status is the acknowledgement outcome of a telecommand or telemetry
// request. Non-OK values are returned as errors.
type Status uint8

// Status values as reported by the device
const (
	StatusOK                Status = 0
	StatusInvalidID         Status = 1
	StatusIncorrectLength   Status = 2
	StatusInvalidParameters Status = 3
	StatusCRCError          Status = 4
)

// String returns the upper-case status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidID:
		return "INVALID_ID"
	case StatusIncorrectLength:
		return "INCORRECT_LENGTH"
	case StatusInvalidParameters:
		return "INVALID_PARAMETERS"
	case StatusCRCError:
		return "CRC_ERROR"
	default:
		return fmt.Sprintf("STATUS_%d", uint8(s))
	}
}

// Error implements the error interface. It matches String so a status
// prints the same whether formatted as a value or as an error.
func (s Status) Error() string {
	return s.String()
}

// Err returns nil for StatusOK and the status itself otherwise.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	return s
}

// StatusOf recovers the device status carried by err. A nil error is
// StatusOK. The second result is false when err is a transport failure
// rather than a device status.
func StatusOf(err error) (Status, bool) {
	if err == nil {
		return StatusOK, true
	}
	var s Status
	if errors.As(err, &s) {
		return s, true
	}
	return 0, false
}

// Transport and framing errors
var (
	ErrTimeout         = errors.New("adcs: reply timeout")
	ErrFrame           = errors.New("adcs: malformed frame")
	ErrUnexpectedReply = errors.New("adcs: unexpected reply")
)

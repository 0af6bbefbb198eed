// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// Link carries one telecommand or telemetry exchange at a time.
//
// Telecommand sends cmd (ID byte first) and returns the acknowledged
// status. Telemetry requests id and returns exactly length payload bytes.
// A non-nil error means the exchange itself failed; a device status other
// than OK is reported through the Status result for telecommands and as a
// Status error for telemetry.
type Link interface {
	Telecommand(cmd []byte) (Status, error)
	Telemetry(id uint8, length int) ([]byte, error)
}

// UARTLink speaks the escaped frame protocol over a byte stream such as a
// serial port or a WebSocket bridge. Reads returning zero bytes are treated
// as a timeout, which is how go.bug.st/serial reports an expired read.
type UARTLink struct {
	rw      io.ReadWriter
	decoder *FrameDecoder
	buf     []byte
}

// NewUARTLink creates a link over rw
func NewUARTLink(rw io.ReadWriter) *UARTLink {
	return &UARTLink{
		rw:      rw,
		decoder: NewFrameDecoder(),
		buf:     make([]byte, 64),
	}
}

// Telecommand sends a framed telecommand and waits for [id, status]
func (l *UARTLink) Telecommand(cmd []byte) (Status, error) {
	if len(cmd) == 0 {
		return 0, fmt.Errorf("%w: empty telecommand", ErrFrame)
	}
	if err := l.send(cmd); err != nil {
		return 0, err
	}

	body, err := l.receive()
	if err != nil {
		return 0, err
	}
	if len(body) < 2 {
		return 0, fmt.Errorf("%w: short acknowledgement (%d bytes)", ErrFrame, len(body))
	}
	if body[0] != cmd[0] {
		return 0, fmt.Errorf("%w: ack for %d while waiting for %d", ErrUnexpectedReply, body[0], cmd[0])
	}
	return Status(body[1]), nil
}

// Telemetry sends a framed telemetry request and waits for [id, payload...]
func (l *UARTLink) Telemetry(id uint8, length int) ([]byte, error) {
	if err := l.send([]byte{id}); err != nil {
		return nil, err
	}

	body, err := l.receive()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty telemetry reply", ErrFrame)
	}
	if body[0] != id {
		return nil, fmt.Errorf("%w: telemetry %d while waiting for %d", ErrUnexpectedReply, body[0], id)
	}
	payload := body[1:]
	if len(payload) != length {
		glog.Warningf("adcs: telemetry %s returned %d bytes, expected %d",
			FormatID(KindTelemetry, id), len(payload), length)
		return nil, StatusIncorrectLength
	}
	return payload, nil
}

func (l *UARTLink) send(body []byte) error {
	frame := EncodeFrame(body)
	if glog.V(2) {
		glog.Infof("adcs: tx % X", frame)
	}
	if _, err := l.rw.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// receive reads until a complete frame arrives. Bytes preceding the
// reply are discarded.
func (l *UARTLink) receive() ([]byte, error) {
	l.decoder.Reset()
	for {
		n, err := l.rw.Read(l.buf)
		if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
			if errors.Is(err, io.EOF) {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("read frame: %w", err)
		}
		if n == 0 {
			return nil, ErrTimeout
		}

		for i := 0; i < n; i++ {
			body, decErr := l.decoder.DecodeByte(l.buf[i])
			if decErr != nil {
				glog.V(1).Infof("adcs: %v", decErr)
				continue
			}
			if body != nil {
				if glog.V(2) {
					glog.Infof("adcs: rx body % X", body)
				}
				return body, nil
			}
		}
	}
}

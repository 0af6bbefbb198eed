// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"fmt"
)

// Decoder states
const (
	stateIdle = iota
	stateEscape
	stateFrame
	stateFrameEscape
)

// EncodeFrame wraps body in ESC SOM ... ESC EOM. ESC bytes inside the body
// are doubled so the receiver can tell data from markers.
func EncodeFrame(body []byte) []byte {
	frame := make([]byte, 0, len(body)*2+4)
	frame = append(frame, EscChar, SOM)
	for _, b := range body {
		if b == EscChar {
			frame = append(frame, EscChar, EscChar)
		} else {
			frame = append(frame, b)
		}
	}
	frame = append(frame, EscChar, EOM)
	return frame
}

// FrameDecoder extracts frame bodies from a byte stream
type FrameDecoder struct {
	state     int
	body      []byte
	rawBuffer []byte
}

// NewFrameDecoder creates a new frame decoder
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{
		state:     stateIdle,
		body:      make([]byte, 0, MaxPayloadSize),
		rawBuffer: make([]byte, 0, MaxFrameSize),
	}
}

// Reset returns the decoder to idle and drops any partial frame
func (d *FrameDecoder) Reset() {
	d.state = stateIdle
	d.body = d.body[:0]
	d.rawBuffer = d.rawBuffer[:0]
}

// GetRawBytes returns the bytes accumulated for the current frame
func (d *FrameDecoder) GetRawBytes() []byte {
	return d.rawBuffer
}

// DecodeByte feeds one byte through the state machine.
// Returns the frame body once ESC EOM is seen, or nil while incomplete.
// The returned slice is a copy owned by the caller.
func (d *FrameDecoder) DecodeByte(b byte) ([]byte, error) {
	switch d.state {
	case stateIdle:
		if b == EscChar {
			d.rawBuffer = append(d.rawBuffer[:0], b)
			d.state = stateEscape
		}
		return nil, nil

	case stateEscape:
		if b == SOM {
			d.rawBuffer = append(d.rawBuffer, b)
			d.body = d.body[:0]
			d.state = stateFrame
			return nil, nil
		}
		if b == EscChar {
			d.rawBuffer = append(d.rawBuffer[:0], b)
			return nil, nil
		}
		d.Reset()
		return nil, nil

	case stateFrame:
		d.rawBuffer = append(d.rawBuffer, b)
		if b == EscChar {
			d.state = stateFrameEscape
			return nil, nil
		}
		return nil, d.appendBody(b)

	case stateFrameEscape:
		d.rawBuffer = append(d.rawBuffer, b)
		switch b {
		case EscChar:
			d.state = stateFrame
			return nil, d.appendBody(EscChar)
		case EOM:
			body := make([]byte, len(d.body))
			copy(body, d.body)
			d.Reset()
			return body, nil
		case SOM:
			// Restart on a new start marker; the partial frame is lost
			d.rawBuffer = append(d.rawBuffer[:0], EscChar, SOM)
			d.body = d.body[:0]
			d.state = stateFrame
			return nil, fmt.Errorf("%w: start marker inside frame", ErrFrame)
		default:
			d.Reset()
			return nil, fmt.Errorf("%w: invalid escape 0x%02X", ErrFrame, b)
		}

	default:
		d.Reset()
		return nil, fmt.Errorf("%w: invalid state %d", ErrFrame, d.state)
	}
}

func (d *FrameDecoder) appendBody(b byte) error {
	if len(d.body) >= MaxPayloadSize+1 {
		d.Reset()
		return fmt.Errorf("%w: frame exceeds %d bytes", ErrFrame, MaxPayloadSize+1)
	}
	d.body = append(d.body, b)
	return nil
}

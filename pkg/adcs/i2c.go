// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
)

// ackPollInterval spaces TC acknowledge reads while the device is busy
const ackPollInterval = 10 * time.Millisecond

// I2CLink exchanges unframed commands with an addressed I2C device.
// Telecommand acknowledgements are fetched through the TC acknowledge
// telemetry since an I2C write carries no reply.
type I2CLink struct {
	dev     io.ReadWriter
	timeout time.Duration
}

// NewI2CLink creates a link over an addressed I2C device. timeout bounds
// how long a telecommand waits for the device to report it processed; a
// zero timeout reads the acknowledgement once.
func NewI2CLink(dev io.ReadWriter, timeout time.Duration) *I2CLink {
	return &I2CLink{dev: dev, timeout: timeout}
}

// Telecommand writes cmd and polls the TC acknowledge telemetry until the
// device marks the command processed
func (l *I2CLink) Telecommand(cmd []byte) (Status, error) {
	if len(cmd) == 0 {
		return 0, fmt.Errorf("%w: empty telecommand", ErrFrame)
	}
	if glog.V(2) {
		glog.Infof("adcs: i2c tx % X", cmd)
	}
	if _, err := l.dev.Write(cmd); err != nil {
		return 0, fmt.Errorf("i2c write: %w", err)
	}

	deadline := time.Now().Add(l.timeout)
	var ack *TCAck
	for {
		raw, err := l.read(IDGetTCAck, LenTCAck)
		if err != nil {
			return 0, err
		}
		ack = DecodeTCAck(raw)
		if ack.Processed {
			break
		}
		if !time.Now().Before(deadline) {
			return 0, fmt.Errorf("%w: telecommand %d not processed", ErrTimeout, cmd[0])
		}
		time.Sleep(ackPollInterval)
	}
	if ack.LastTCID != cmd[0] {
		return 0, fmt.Errorf("%w: ack for %d while waiting for %d", ErrUnexpectedReply, ack.LastTCID, cmd[0])
	}
	return ack.Status, nil
}

// Telemetry writes the telemetry ID and reads length bytes
func (l *I2CLink) Telemetry(id uint8, length int) ([]byte, error) {
	return l.read(id, length)
}

func (l *I2CLink) read(id uint8, length int) ([]byte, error) {
	if _, err := l.dev.Write([]byte{id}); err != nil {
		return nil, fmt.Errorf("i2c write: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(l.dev, buf); err != nil {
		return nil, fmt.Errorf("i2c read %d: %w", id, err)
	}
	if glog.V(2) {
		glog.Infof("adcs: i2c rx %d % X", id, buf)
	}
	return buf, nil
}

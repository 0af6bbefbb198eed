// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build linux

package adcs

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// i2cSlave is the I2C_SLAVE ioctl request from linux/i2c-dev.h
const i2cSlave = 0x0703

// I2CDevice is an open /dev/i2c-N handle bound to one slave address
type I2CDevice struct {
	fd   int
	bus  int
	addr uint8
}

// OpenI2C opens /dev/i2c-<bus> and selects the 7-bit slave address
func OpenI2C(bus int, addr uint8) (*I2CDevice, error) {
	path := fmt.Sprintf("/dev/i2c-%d", bus)
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to select address 0x%02X on %s: %w", addr, path, err)
	}
	return &I2CDevice{fd: fd, bus: bus, addr: addr}, nil
}

func (d *I2CDevice) Read(p []byte) (int, error) {
	return unix.Read(d.fd, p)
}

func (d *I2CDevice) Write(p []byte) (int, error) {
	return unix.Write(d.fd, p)
}

func (d *I2CDevice) Close() error {
	return unix.Close(d.fd)
}

func (d *I2CDevice) String() string {
	return fmt.Sprintf("/dev/i2c-%d @ 0x%02X", d.bus, d.addr)
}

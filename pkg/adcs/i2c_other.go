// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build !linux

package adcs

import "errors"

// I2CDevice is unavailable outside linux
type I2CDevice struct{}

// OpenI2C reports that I2C is unsupported on this platform
func OpenI2C(bus int, addr uint8) (*I2CDevice, error) {
	return nil, errors.New("adcs: i2c is only supported on linux")
}

func (d *I2CDevice) Read(p []byte) (int, error)  { return 0, errors.ErrUnsupported }
func (d *I2CDevice) Write(p []byte) (int, error) { return 0, errors.ErrUnsupported }
func (d *I2CDevice) Close() error                { return nil }
func (d *I2CDevice) String() string              { return "i2c (unsupported)" }

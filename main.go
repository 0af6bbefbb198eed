// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// adcsctl - ADCS Command and Telemetry Tool
//
// A CLI tool for commanding a CubeSat ADCS node and decoding its
// telemetry over UART, a WebSocket bridge or I2C.

package main

import (
	"os"

	"github.com/golang/glog"

	"github.com/Thermoquad/adcsctl/cmd"
)

func main() {
	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"flag"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// I2C connection flags
	i2cBus  int
	i2cAddr uint8

	// Reply timeout for a single exchange
	replyTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "adcsctl",
	Short: "ADCS command and telemetry tool",
	Long: `adcsctl - A CLI tool for commanding an ADCS node and decoding its telemetry.

Provides typed telecommands, telemetry requests, a passive frame sniffer,
link health checks, a housekeeping monitor and a telemetry archive.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]
  I2C:       --i2c-bus 1 [--i2c-addr 0x57]

For WebSocket authentication, the password is read from the ADCS_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.

Diagnostics are written through glog; use -v=2 --logtostderr to trace frames.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its settings from the go flag set; mark it parsed so
		// the values cobra already set are used as-is
		return flag.CommandLine.Parse(nil)
	},
	SilenceUsage: true,
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// I2C connection flags
	rootCmd.PersistentFlags().IntVar(&i2cBus, "i2c-bus", -1, "I2C bus number (/dev/i2c-N)")
	rootCmd.PersistentFlags().Uint8Var(&i2cAddr, "i2c-addr", adcs.DefaultI2CAddress, "7-bit I2C device address")

	rootCmd.PersistentFlags().DurationVar(&replyTimeout, "timeout", time.Second, "Reply timeout per exchange")

	// glog flags (-v, --logtostderr, --log_dir, ...)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

var tcCmd = &cobra.Command{
	Use:   "tc <name> [args...]",
	Short: "Send a telecommand",
	Long: `Send one typed telecommand and report the acknowledged status.

Arguments are positional and validated before anything is transmitted.
Integers accept 0x prefixes; booleans accept true/false/1/0.

Examples:
  adcsctl -p /dev/ttyUSB0 tc set_wheel_speed 630 786 912
  adcsctl -p /dev/ttyUSB0 tc erase_file 15 1 true
  adcsctl -p /dev/ttyUSB0 tc set_unix_time now

Run 'adcsctl list' for every telecommand and its arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTC,
}

func init() {
	rootCmd.AddCommand(tcCmd)
}

func runTC(cmd *cobra.Command, args []string) error {
	fn, err := parseTelecommand(args[0], args[1:])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	err = s.do(fn)
	status, ok := adcs.StatusOf(err)
	if !ok {
		return err
	}

	fmt.Print(formatStatusLine(args[0], status))
	if status != adcs.StatusOK {
		os.Exit(1)
	}
	return nil
}

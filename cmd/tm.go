// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

var tmRaw bool

var tmCmd = &cobra.Command{
	Use:   "tm <name> [name...]",
	Short: "Request and decode telemetry",
	Long: `Request one or more telemetry frames and print their decoded fields.

Use 'all' to read every telemetry frame in ID order.

Examples:
  adcsctl -p /dev/ttyUSB0 tm current_state
  adcsctl -p /dev/ttyUSB0 tm --raw bootloader_state power_temp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTM,
}

func init() {
	tmCmd.Flags().BoolVar(&tmRaw, "raw", false, "Also print the raw payload")
	rootCmd.AddCommand(tmCmd)
}

func runTM(cmd *cobra.Command, args []string) error {
	names := args
	if len(args) == 1 && args[0] == "all" {
		names = adcs.TelemetryNames()
	}
	for _, name := range names {
		if _, ok := adcs.LookupTelemetry(name); !ok {
			return fmt.Errorf("unknown telemetry %q (see 'adcsctl list')", name)
		}
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	failed := 0
	for _, name := range names {
		var raw []byte
		var value any
		err := s.do(func(c *adcs.Client) error {
			var err error
			raw, value, err = c.Request(name)
			return err
		})
		if err != nil {
			fmt.Printf("%s: %v\n", name, err)
			failed++
			continue
		}

		fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), name)
		if tmRaw {
			fmt.Printf("  Raw: % X\n", raw)
		}
		fmt.Print(adcs.FormatTelemetry(value))
		for _, a := range adcs.ValidateTelemetry(value) {
			fmt.Printf("  ! %s\n", a)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(names))
	}
	return nil
}

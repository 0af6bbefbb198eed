// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test connectivity by reading the node identification",
	Long: `Request the node identification telemetry and wait for the reply.

The request fails after --timeout without a valid frame.

Exit codes:
  0 - Node identification received before timeout
  1 - Timeout or device status error
  2 - Connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()

	fmt.Printf("adcsctl - Ping\n")
	fmt.Printf("Connection: %s\n", s.info)
	fmt.Printf("Timeout: %s\n\n", replyTimeout)

	type reply struct {
		id  *adcs.NodeIdentification
		err error
	}
	replies := make(chan reply, 1)
	start := time.Now()

	// I2C reads do not time out on their own
	go func() {
		var r reply
		r.err = s.do(func(c *adcs.Client) error {
			var err error
			r.id, err = c.GetNodeIdentification()
			return err
		})
		replies <- r
	}()

	select {
	case r := <-replies:
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "FAILED: %v\n", r.err)
			if _, ok := adcs.StatusOf(r.err); ok || errors.Is(r.err, adcs.ErrTimeout) {
				os.Exit(1)
			}
			os.Exit(2)
		}
		fmt.Printf("SUCCESS: Reply in %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Print(adcs.FormatTelemetry(r.id))
		os.Exit(0)

	case <-time.After(replyTimeout + time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No reply within %s\n", replyTimeout)
		os.Exit(1)
	}

	return nil
}

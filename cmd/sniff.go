// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

var sniffRaw bool

var sniffCmd = &cobra.Command{
	Use:   "sniff",
	Short: "Passively decode frames on a UART link",
	Long: `Continuously decode and display ADCS frames as they pass on the link.

Nothing is transmitted. Each frame is printed with a timestamp, the
telecommand or telemetry it most likely belongs to and the decoded body.

Supports both serial and WebSocket connections.`,
	RunE: runSniff,
}

func init() {
	sniffCmd.Flags().BoolVar(&sniffRaw, "raw", false, "Also print the framed bytes")
	rootCmd.AddCommand(sniffCmd)
}

func runSniff(cmd *cobra.Command, args []string) error {
	// Reads block until data arrives
	conn, connInfo, err := OpenConnection(0)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("adcsctl - Frame Sniffer\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := adcs.NewFrameDecoder()
	buf := make([]byte, 128)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// For WebSocket connections, a read error usually means
			// the connection is permanently closed - exit gracefully
			if errors.Is(err, ErrConnectionClosed) {
				glog.Infof("connection closed")
				return nil
			}
			glog.Warningf("read error: %v", err)
			continue
		}

		for i := 0; i < n; i++ {
			body, err := decoder.DecodeByte(buf[i])
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			if body != nil {
				fmt.Print(adcs.FormatFrame(body, time.Now()))
				if sniffRaw {
					fmt.Printf("  Raw: % X\n", adcs.EncodeFrame(body))
				}
			}
		}
	}
}

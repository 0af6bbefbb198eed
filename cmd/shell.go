// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

const sessionKey = "$session"

var shellCmd = &cobra.Command{
	Use:   "shell [command...]",
	Short: "Interactive command shell",
	Long: `Open an interactive shell on one connection.

Shell commands:
  tc <name> [args...]   Send a telecommand
  tm <name> [name...]   Request and decode telemetry
  hk                    Read the housekeeping set
  list [tc|tm]          List telecommands or telemetry
  stats [reset]         Show or reset link statistics

Arguments after 'shell' are run as a single command without entering the
interactive prompt.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// sessionFrom gets the session from an ishell context
func sessionFrom(c *ishell.Context) *session {
	return c.Get(sessionKey).(*session)
}

var shellCommands = []*ishell.Cmd{
	{
		Name:    "tc",
		Aliases: []string{"c"},
		Help:    "NAME [ARGS...]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("telecommand name expected"))
				return
			}
			name, err := runTelecommandLine(sessionFrom(c), strings.Join(c.Args, " "))
			if status, ok := adcs.StatusOf(err); ok {
				c.Print(formatStatusLine(name, status))
				return
			}
			c.Err(err)
		},
	},
	{
		Name:    "tm",
		Aliases: []string{"t"},
		Help:    "NAME [NAME...]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("telemetry name expected"))
				return
			}
			for _, name := range c.Args {
				var value any
				err := sessionFrom(c).do(func(cl *adcs.Client) error {
					var err error
					_, value, err = cl.Request(name)
					return err
				})
				if err != nil {
					c.Err(fmt.Errorf("%s: %w", name, err))
					continue
				}
				c.Println(name)
				c.Print(adcs.FormatTelemetry(value))
				for _, a := range adcs.ValidateTelemetry(value) {
					c.Printf("  ! %s\n", a)
				}
			}
		},
	},
	{
		Name: "hk",
		Help: "",
		Func: func(c *ishell.Context) {
			var hk *adcs.Housekeeping
			err := sessionFrom(c).do(func(cl *adcs.Client) error {
				var err error
				hk, err = cl.GetHousekeeping()
				return err
			})
			if err != nil {
				c.Err(err)
				return
			}
			c.Print(adcs.FormatTelemetry(hk))
		},
	},
	{
		Name:    "list",
		Aliases: []string{"l"},
		Help:    "[tc|tm]",
		Func: func(c *ishell.Context) {
			kind := ""
			if len(c.Args) > 0 {
				kind = c.Args[0]
			}
			c.Print(formatCommandList(kind))
		},
	},
	{
		Name: "stats",
		Help: "[reset]",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			if len(c.Args) > 0 && c.Args[0] == "reset" {
				s.do(func(cl *adcs.Client) error {
					cl.Stats().Reset()
					return nil
				})
				return
			}
			st := s.stats()
			c.Print(st.String())
		},
	},
}

func runShell(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	sh := ishell.New()
	sh.Set(sessionKey, s)
	sh.SetPrompt("adcs > ")
	for _, c := range shellCommands {
		sh.AddCmd(c)
	}

	if len(args) > 0 {
		return sh.Process(args...)
	}

	sh.Printf("adcsctl shell on %s, type 'help' for commands\n", s.info)
	sh.Run()
	return nil
}

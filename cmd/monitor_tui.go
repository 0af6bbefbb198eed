// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// eventLogEntry is one line of the event log
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for notices
}

// monitorModel is the Bubble Tea model for the housekeeping monitor
type monitorModel struct {
	sess     *session
	interval time.Duration

	// Latest poll results
	hk        *adcs.Housekeeping
	node      *adcs.NodeIdentification
	anomalies []adcs.Anomaly
	stats     adcs.Statistics
	lastPoll  time.Time
	polling   bool

	// Event log
	eventLog      []eventLogEntry
	maxLogEntries int

	// Command line
	input   textinput.Model
	spinner spinner.Model
	pending string

	// UI state
	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type monitorTickMsg time.Time

type housekeepingMsg struct {
	hk        *adcs.Housekeeping
	node      *adcs.NodeIdentification
	anomalies []adcs.Anomaly
	err       error
}

type commandResultMsg struct {
	name string
	err  error
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialMonitorModel(s *session, interval time.Duration) monitorModel {
	ti := textinput.New()
	ti.Placeholder = "telecommand, e.g. set_attitude_estimate_mode 4"
	ti.CharLimit = 256
	ti.Width = 60
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return monitorModel{
		sess:          s,
		interval:      interval,
		stats:         s.stats(),
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		input:         ti,
		spinner:       sp,
		polling:       true,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		pollHousekeeping(m.sess),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// pollHousekeeping reads one housekeeping set off the UI goroutine
func pollHousekeeping(s *session) tea.Cmd {
	return func() tea.Msg {
		var msg housekeepingMsg
		msg.err = s.do(func(c *adcs.Client) error {
			hk, err := c.GetHousekeeping()
			if err != nil {
				return err
			}
			msg.hk = hk
			msg.anomalies = adcs.ValidateTelemetry(hk)
			c.Stats().AddAnomalies(msg.anomalies)

			node, err := c.GetNodeIdentification()
			if err != nil {
				return err
			}
			msg.node = node
			return nil
		})
		return msg
	}
}

func monitorTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

// sendCommand runs a telecommand line off the UI goroutine
func sendCommand(s *session, line string) tea.Cmd {
	return func() tea.Msg {
		name, err := runTelecommandLine(s, line)
		return commandResultMsg{name: name, err: err}
	}
}

//////////////////////////////////////////////////////////////
// Update
//////////////////////////////////////////////////////////////

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.input.Reset()
			return m, nil
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" || m.pending != "" {
				return m, nil
			}
			m.pending = line
			return m, sendCommand(m.sess, line)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-8)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case monitorTickMsg:
		m.polling = true
		return m, pollHousekeeping(m.sess)

	case housekeepingMsg:
		m.polling = false
		m.lastPoll = time.Now()
		m.stats = m.sess.stats()
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("POLL FAILED: %v", msg.err), true)
		} else {
			m.hk = msg.hk
			m.node = msg.node
			m.anomalies = msg.anomalies
			for _, a := range msg.anomalies {
				m.addLogEntry(fmt.Sprintf("%s: %s", a.Field, a.Message), true)
			}
		}
		return m, monitorTickCmd(m.interval)

	case commandResultMsg:
		m.pending = ""
		m.stats = m.sess.stats()
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("%s: %v", strings.ToUpper(msg.name), msg.err), true)
		} else {
			m.addLogEntry(fmt.Sprintf("%s: OK", strings.ToUpper(msg.name)), false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Background(lipgloss.Color("235")).Padding(0, 1)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("ADCSCTL - HOUSEKEEPING MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Poll every %s | Press ctrl+c to quit", m.sess.info, m.interval)))
	s.WriteString("\n\n")

	if m.polling {
		s.WriteString(m.spinner.View())
		s.WriteString(warningStyle.Render(" Polling housekeeping..."))
	} else if !m.lastPoll.IsZero() {
		s.WriteString(valueStyle.Render("✓ Last poll " + m.lastPoll.Format("15:04:05")))
	}
	s.WriteString("\n\n")

	s.WriteString(m.renderStatistics())
	s.WriteString("\n")

	if m.hk != nil {
		s.WriteString(labelStyle.Render("Latest Housekeeping:"))
		s.WriteString("\n")
		s.WriteString(m.renderHousekeeping())
		s.WriteString("\n")
	}

	s.WriteString(m.renderEventLog())
	s.WriteString("\n")

	if m.pending != "" {
		s.WriteString(m.spinner.View())
		s.WriteString(headerStyle.Render(" Sending " + m.pending))
		s.WriteString("\n")
	}
	s.WriteString(m.input.View())
	s.WriteString("\n")

	return s.String()
}

func (m monitorModel) renderStatistics() string {
	st := m.stats
	total := st.Total()
	errs := st.Errors()
	var okPercent, errPercent float64
	if total > 0 {
		okPercent = float64(st.Acknowledged) * 100.0 / float64(total)
		errPercent = float64(errs) * 100.0 / float64(total)
	}

	var c strings.Builder
	c.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Exchanges:"), valueStyle.Render(fmt.Sprintf("%d", total)),
		labelStyle.Render("OK:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", st.Acknowledged, okPercent)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", errs, errPercent)),
	))

	if st.Timeouts > 0 || st.FrameErrors > 0 || st.UnexpectedReplies > 0 {
		c.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			labelStyle.Render("Timeouts:"), errorStyle.Render(fmt.Sprintf("%d", st.Timeouts)),
			labelStyle.Render("Frame:"), errorStyle.Render(fmt.Sprintf("%d", st.FrameErrors)),
			labelStyle.Render("Unexpected:"), errorStyle.Render(fmt.Sprintf("%d", st.UnexpectedReplies)),
		))
	}

	if st.AnomalousValues > 0 {
		c.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render("Anomalous:"), warningStyle.Render(fmt.Sprintf("%d", st.AnomalousValues)),
		))
	}

	errRate := valueStyle.Render(fmt.Sprintf("%.1f err/s", st.ErrorRate))
	if st.ErrorRate > 0 {
		errRate = errorStyle.Render(fmt.Sprintf("%.1f err/s", st.ErrorRate))
	}
	c.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Exchange Rate:"), valueStyle.Render(fmt.Sprintf("%.1f /s", st.ExchangeRate)),
		labelStyle.Render("Error Rate:"), errRate,
	))

	return boxStyle.Render(c.String())
}

func (m monitorModel) renderHousekeeping() string {
	var c strings.Builder
	st, ms, pt := m.hk.State, m.hk.Measurements, m.hk.PowerTemp

	if m.node != nil {
		uptime := time.Duration(m.node.RuntimeSeconds)*time.Second +
			time.Duration(m.node.RuntimeMillis)*time.Millisecond
		c.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Firmware:"), valueStyle.Render(fmt.Sprintf("%d.%d", m.node.FirmwareMajor, m.node.FirmwareMinor)),
			labelStyle.Render("Uptime:"), valueStyle.Render(formatUptime(uptime)),
		))
	}

	c.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Estimation:"), valueStyle.Render(fmt.Sprintf("%d", st.EstimateMode)),
		labelStyle.Render("Control:"), valueStyle.Render(fmt.Sprintf("%d", st.ControlMode)),
		labelStyle.Render("Run:"), valueStyle.Render(fmt.Sprintf("%d", st.RunMode)),
	))
	c.WriteString(fmt.Sprintf("%s %s deg\n", labelStyle.Render("Attitude:"), valueStyle.Render(st.Angles.String())))
	c.WriteString(fmt.Sprintf("%s %s deg/s\n", labelStyle.Render("Rate:"), valueStyle.Render(st.AngularRate.String())))
	c.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("LLH:"), valueStyle.Render(st.LLH.String())))
	c.WriteString(fmt.Sprintf("%s %s uT\n", labelStyle.Render("Mag Field:"), valueStyle.Render(ms.MagneticField.String())))
	c.WriteString(fmt.Sprintf("%s %s rpm\n", labelStyle.Render("Wheels:"), valueStyle.Render(ms.WheelSpeed.String())))
	c.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("MCU:"), valueStyle.Render(fmt.Sprintf("%.0f°C", pt.MCUTemp)),
		labelStyle.Render("MTM:"), valueStyle.Render(fmt.Sprintf("%.1f°C", pt.MTMTemp)),
	))
	c.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Flags:"), headerStyle.Render(adcs.FormatFlags(st.Flags))))

	return boxStyle.Render(c.String())
}

func (m monitorModel) renderEventLog() string {
	var c strings.Builder
	c.WriteString(labelStyle.Render("Event Log:"))
	c.WriteString("\n")

	// Fit the log into the space left under the fixed sections
	rows := m.height - 28
	if rows < 3 {
		rows = 3
	}
	entries := m.eventLog
	if len(entries) > rows {
		entries = entries[len(entries)-rows:]
	}

	if len(entries) == 0 {
		c.WriteString(headerStyle.Render("(no events)"))
	}
	for i, e := range entries {
		line := fmt.Sprintf("[%s] %s", e.timestamp.Format("15:04:05"), e.message)
		if e.isError {
			c.WriteString(errorStyle.Render(line))
		} else {
			c.WriteString(valueStyle.Render(line))
		}
		if i < len(entries)-1 {
			c.WriteString("\n")
		}
	}

	return boxStyle.Render(c.String())
}

// formatUptime renders a duration as "1 day, 2 hours and 5 seconds"
func formatUptime(d time.Duration) string {
	units := []struct {
		name string
		size time.Duration
	}{
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
		{"second", time.Second},
	}

	var parts []string
	for _, u := range units {
		n := d / u.size
		d -= n * u.size
		switch {
		case n == 1:
			parts = append(parts, "1 "+u.name)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", n, u.name))
		}
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

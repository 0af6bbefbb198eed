// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks exchange outcomes and error rates
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	Telecommands      uint64
	TelemetryFrames   uint64
	Acknowledged      uint64
	StatusErrors      [StatusCRCError + 1]uint64
	Timeouts          uint64
	FrameErrors       uint64
	UnexpectedReplies uint64
	TransportErrors   uint64
	Rejected          uint64
	AnomalousValues   uint64

	// Rates (calculated)
	ExchangeRate float64 // exchanges/sec
	ErrorRate    float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records one exchange. status is ignored when err is non-nil.
func (s *Statistics) Update(kind Kind, status Status, err error) {
	if kind == KindTelemetry {
		s.TelemetryFrames++
	} else {
		s.Telecommands++
	}
	s.LastUpdateTime = time.Now()

	if err != nil {
		switch {
		case errors.Is(err, ErrTimeout):
			s.Timeouts++
		case errors.Is(err, ErrFrame):
			s.FrameErrors++
		case errors.Is(err, ErrUnexpectedReply):
			s.UnexpectedReplies++
		default:
			s.TransportErrors++
		}
		return
	}

	if status == StatusOK {
		s.Acknowledged++
		return
	}
	if int(status) < len(s.StatusErrors) {
		s.StatusErrors[status]++
	} else {
		s.TransportErrors++
	}
}

// AddAnomalies records validation findings against decoded telemetry
func (s *Statistics) AddAnomalies(anomalies []Anomaly) {
	s.AnomalousValues += uint64(len(anomalies))
}

// Total returns the number of exchanges attempted
func (s *Statistics) Total() uint64 {
	return s.Telecommands + s.TelemetryFrames
}

// Errors returns the number of failed exchanges
func (s *Statistics) Errors() uint64 {
	total := s.Timeouts + s.FrameErrors + s.UnexpectedReplies + s.TransportErrors
	for _, n := range s.StatusErrors[StatusInvalidID:] {
		total += n
	}
	return total
}

// CalculateRates calculates exchange and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.ExchangeRate = float64(s.Total()) / elapsed
		s.ErrorRate = float64(s.Errors()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	total := s.Total()
	percent := func(n uint64) float64 {
		if total == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(total)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Link Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Exchanges:       %8d (TC %d, TM %d)\n", total, s.Telecommands, s.TelemetryFrames)
	result += fmt.Sprintf("Acknowledged:    %8d (%.1f%%)\n", s.Acknowledged, percent(s.Acknowledged))

	for status := StatusInvalidID; status <= StatusCRCError; status++ {
		if n := s.StatusErrors[status]; n > 0 {
			result += fmt.Sprintf("  %-18s %5d (%.1f%%)\n", status.String()+":", n, percent(n))
		}
	}
	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d (%.1f%%)\n", s.Timeouts, percent(s.Timeouts))
	}
	if s.FrameErrors > 0 {
		result += fmt.Sprintf("Frame Errors:    %8d (%.1f%%)\n", s.FrameErrors, percent(s.FrameErrors))
	}
	if s.UnexpectedReplies > 0 {
		result += fmt.Sprintf("Unexpected:      %8d (%.1f%%)\n", s.UnexpectedReplies, percent(s.UnexpectedReplies))
	}
	if s.TransportErrors > 0 {
		result += fmt.Sprintf("Transport Errors:%8d (%.1f%%)\n", s.TransportErrors, percent(s.TransportErrors))
	}
	if s.Rejected > 0 {
		result += fmt.Sprintf("Rejected:        %8d\n", s.Rejected)
	}
	if s.AnomalousValues > 0 {
		result += fmt.Sprintf("Anomalous Values:%8d\n", s.AnomalousValues)
	}

	result += fmt.Sprintf("Exchange Rate:   %8.1f /sec\n", s.ExchangeRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "======================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}

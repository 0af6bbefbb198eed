// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"fmt"
	"math"
)

// AnomalyType classifies implausible decoded telemetry
type AnomalyType int

const (
	AnomalyInvalidValue AnomalyType = iota
	AnomalyOutOfRange
	AnomalyNotUnitVector
	AnomalyTemperature
	AnomalyWheelSpeed
)

func (t AnomalyType) String() string {
	switch t {
	case AnomalyInvalidValue:
		return "INVALID_VALUE"
	case AnomalyOutOfRange:
		return "OUT_OF_RANGE"
	case AnomalyNotUnitVector:
		return "NOT_UNIT_VECTOR"
	case AnomalyTemperature:
		return "TEMPERATURE"
	case AnomalyWheelSpeed:
		return "WHEEL_SPEED"
	default:
		return "UNKNOWN"
	}
}

// Anomaly describes one implausible field
type Anomaly struct {
	Type    AnomalyType
	Field   string
	Message string
}

// Error implements the error interface
func (a Anomaly) Error() string {
	return fmt.Sprintf("%s: %s", a.Field, a.Message)
}

// Plausibility limits
const (
	maxWheelSpeedRPM = 8000
	unitTolerance    = 0.05
	minMCUTemp       = -40
	maxMCUTemp       = 125
	minSensorTemp    = -40
	maxSensorTemp    = 85
)

// ValidateTelemetry checks a decoded telemetry structure for implausible
// values. Unknown types yield no anomalies.
func ValidateTelemetry(v any) []Anomaly {
	anomalies := []Anomaly{}

	switch t := v.(type) {
	case *CurrentState:
		anomalies = append(anomalies, validateCurrentState(t)...)
	case *Measurements:
		anomalies = append(anomalies, validateMeasurements(t)...)
	case *PowerTemp:
		anomalies = append(anomalies, validatePowerTemp(t)...)
	case *TCAck:
		if t.Status > StatusCRCError {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyInvalidValue,
				Field:   "tc_ack.status",
				Message: fmt.Sprintf("unknown status %d", uint8(t.Status)),
			})
		}
	case *Housekeeping:
		anomalies = append(anomalies, validateCurrentState(t.State)...)
		anomalies = append(anomalies, validateMeasurements(t.Measurements)...)
		anomalies = append(anomalies, validatePowerTemp(t.PowerTemp)...)
	}

	return anomalies
}

func validateCurrentState(s *CurrentState) []Anomaly {
	anomalies := []Anomaly{}
	if s == nil {
		return anomalies
	}

	if math.Abs(s.LLH.X) > 90 {
		anomalies = append(anomalies, Anomaly{
			Type:    AnomalyOutOfRange,
			Field:   "current_state.latitude",
			Message: fmt.Sprintf("latitude %.2f outside +/-90", s.LLH.X),
		})
	}
	if math.Abs(s.LLH.Y) > 180 {
		anomalies = append(anomalies, Anomaly{
			Type:    AnomalyOutOfRange,
			Field:   "current_state.longitude",
			Message: fmt.Sprintf("longitude %.2f outside +/-180", s.LLH.Y),
		})
	}
	return anomalies
}

func validateMeasurements(m *Measurements) []Anomaly {
	anomalies := []Anomaly{}
	if m == nil {
		return anomalies
	}

	unit := []struct {
		field string
		v     XYZ
	}{
		{"measurements.coarse_sun", m.CoarseSun},
		{"measurements.sun", m.Sun},
		{"measurements.nadir", m.Nadir},
	}
	for _, u := range unit {
		n := norm(u.v)
		// All-zero vectors mean the sensor had no solution
		if n == 0 {
			continue
		}
		if math.Abs(n-1) > unitTolerance {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyNotUnitVector,
				Field:   u.field,
				Message: fmt.Sprintf("norm %.4f", n),
			})
		}
	}

	for axis, rpm := range []float64{m.WheelSpeed.X, m.WheelSpeed.Y, m.WheelSpeed.Z} {
		if math.Abs(rpm) > maxWheelSpeedRPM {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyWheelSpeed,
				Field:   fmt.Sprintf("measurements.wheel_speed.%c", 'x'+axis),
				Message: fmt.Sprintf("%.0f rpm exceeds %d", rpm, maxWheelSpeedRPM),
			})
		}
	}
	return anomalies
}

func validatePowerTemp(p *PowerTemp) []Anomaly {
	anomalies := []Anomaly{}
	if p == nil {
		return anomalies
	}

	if p.MCUTemp < minMCUTemp || p.MCUTemp > maxMCUTemp {
		anomalies = append(anomalies, Anomaly{
			Type:    AnomalyTemperature,
			Field:   "power_temp.mcu",
			Message: fmt.Sprintf("%.1f C outside %d..%d", p.MCUTemp, minMCUTemp, maxMCUTemp),
		})
	}
	sensors := []struct {
		field string
		temp  float64
	}{
		{"power_temp.cubestar", p.CubeStarTemp},
		{"power_temp.mtm", p.MTMTemp},
		{"power_temp.mtm2", p.MTM2Temp},
	}
	for _, s := range sensors {
		if s.temp < minSensorTemp || s.temp > maxSensorTemp {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyTemperature,
				Field:   s.field,
				Message: fmt.Sprintf("%.1f C outside %d..%d", s.temp, minSensorTemp, maxSensorTemp),
			})
		}
	}
	return anomalies
}

func norm(v XYZ) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

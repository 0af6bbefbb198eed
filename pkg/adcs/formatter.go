// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// FormatRecord formats a captured record into a human-readable string
func FormatRecord(r *Record) string {
	timestamp := r.Timestamp().Format("15:04:05.000")
	result := fmt.Sprintf("[%s] %s (%d) len=%d\n", timestamp, strings.ToUpper(r.Name), r.ID, len(r.Raw))

	v, err := r.Decode()
	if err != nil {
		return result + fmt.Sprintf("  (%v)\n", err)
	}
	return result + FormatTelemetry(v)
}

// FormatFrame describes a frame body seen on the wire. Direction is
// inferred from the ID range and the body length.
func FormatFrame(body []byte, t time.Time) string {
	timestamp := t.Format("15:04:05.000")
	if len(body) == 0 {
		return fmt.Sprintf("[%s] EMPTY FRAME\n", timestamp)
	}

	id := body[0]
	if id < IDGetNodeIdentification {
		name := FormatID(KindTelecommand, id)
		if len(body) == 2 && !isTelecommandLength(id, 2) {
			return fmt.Sprintf("[%s] ACK %s (%d) status=%s\n", timestamp, name, id, Status(body[1]))
		}
		return fmt.Sprintf("[%s] TC %s (%d) len=%d\n  % X\n", timestamp, name, id, len(body), body[1:])
	}

	name := FormatID(KindTelemetry, id)
	if len(body) == 1 {
		return fmt.Sprintf("[%s] TM REQUEST %s (%d)\n", timestamp, name, id)
	}

	result := fmt.Sprintf("[%s] TM %s (%d) len=%d\n", timestamp, name, id, len(body)-1)
	def, ok := LookupTelemetry(strings.ToLower(strings.SplitN(name, "/", 2)[0]))
	if !ok || def.Length != len(body)-1 {
		return result + fmt.Sprintf("  % X\n", body[1:])
	}
	return result + FormatTelemetry(def.Decode(body[1:]))
}

func isTelecommandLength(id uint8, length int) bool {
	for _, name := range namesByID[KindTelecommand][id] {
		if commandsByName[name].Length == length {
			return true
		}
	}
	return false
}

// FormatTelemetry formats a decoded telemetry structure
func FormatTelemetry(v any) string {
	switch t := v.(type) {
	case *CurrentState:
		return fmt.Sprintf("  Modes: estimate=%d control=%d run=%d asgp4=%d mtm=%d\n", t.EstimateMode, t.ControlMode, t.RunMode, t.ASGP4Mode, t.MTMSampleMode) +
			fmt.Sprintf("  Angles: %s deg, Rate: %s deg/s\n", t.Angles, t.AngularRate) +
			fmt.Sprintf("  Quaternion: %s, ECEF: %s\n", t.Quaternion, t.ECEF) +
			fmt.Sprintf("  ECI pos: %s km, vel: %s m/s\n", t.ECIPosition, t.ECIVelocity) +
			fmt.Sprintf("  LLH: %s\n", t.LLH) +
			fmt.Sprintf("  Flags: %s\n", FormatFlags(t.Flags))

	case *Measurements:
		return fmt.Sprintf("  Mag: %s uT\n", t.MagneticField) +
			fmt.Sprintf("  Coarse sun: %s, Sun: %s, Nadir: %s\n", t.CoarseSun, t.Sun, t.Nadir) +
			fmt.Sprintf("  Rate: %s deg/s, Wheels: %s rpm\n", t.AngularRate, t.WheelSpeed)

	case *PowerTemp:
		return fmt.Sprintf("  CubeSense: %.1f/%.1f/%.1f/%.1f mA\n", t.CubeSense1Current3V3, t.CubeSense1CurrentSRAM, t.CubeSense2Current3V3, t.CubeSense2CurrentSRAM) +
			fmt.Sprintf("  CubeControl: 3V3 %.1f mA, 5V %.1f mA, VBat %.1f mA\n", t.CubeControl3V3, t.CubeControl5V, t.CubeControlVBat) +
			fmt.Sprintf("  Wheels: %.2f/%.2f/%.2f mA, CubeStar %.2f mA, MTQ %.1f mA\n", t.Wheel1Current, t.Wheel2Current, t.Wheel3Current, t.CubeStarCurrent, t.MagnetorquerCurrent) +
			fmt.Sprintf("  Temps: MCU %.0f C, CubeStar %.2f C, MTM %.1f C, MTM2 %.1f C, Rate %s\n", t.MCUTemp, t.CubeStarTemp, t.MTMTemp, t.MTM2Temp, t.RateSensorTemp)

	case *BootloaderState:
		return fmt.Sprintf("  Uptime: %d s, Flags: %s\n", t.Uptime, FormatFlags(t.Flags))

	case *TCAck:
		return fmt.Sprintf("  Last TC: %s (%d), Processed: %v, Status: %s, Index: %d\n",
			FormatID(KindTelecommand, t.LastTCID), t.LastTCID, t.Processed, t.Status, t.ErrorIndex)

	case *NodeIdentification:
		return fmt.Sprintf("  Node type: %d, Interface: %d, Firmware: %d.%d, Runtime: %s\n",
			t.NodeType, t.InterfaceVersion, t.FirmwareMajor, t.FirmwareMinor,
			time.Duration(t.RuntimeSeconds)*time.Second+time.Duration(t.RuntimeMillis)*time.Millisecond)

	case *UnixTime:
		return fmt.Sprintf("  Time: %s\n", t.Time().Format(time.RFC3339Nano))

	case *Housekeeping:
		return fmt.Sprintf("  Captured: %s\n", t.Time.Format("15:04:05.000")) +
			FormatTelemetry(t.State) + FormatTelemetry(t.Measurements) + FormatTelemetry(t.PowerTemp)

	case nil:
		return "  (no payload)\n"

	default:
		return formatFields(v)
	}
}

// formatFields prints exported fields one per line
func formatFields(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "  (nil)\n"
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprintf("  %v\n", rv.Interface())
	}

	var sb strings.Builder
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		val := rv.Field(i).Interface()
		if flags, ok := val.([]bool); ok {
			val = FormatFlags(flags)
		}
		fmt.Fprintf(&sb, "  %s: %v\n", f.Name, val)
	}
	return sb.String()
}

// FormatFlags renders a flag array as a compact bit string, LSB first
func FormatFlags(flags []bool) string {
	var sb strings.Builder
	for _, f := range flags {
		if f {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

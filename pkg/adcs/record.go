// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"fmt"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/fxamacker/cbor/v2"
)

// appID salts the machine ID so the raw host ID is never published
const appID = "adcsctl"

// Record is one telemetry frame as captured, keyed by its table name.
// Records are the unit stored in the archive and published over MQTT.
type Record struct {
	Source string `cbor:"1,keyasint"`
	Name   string `cbor:"2,keyasint"`
	ID     uint8  `cbor:"3,keyasint"`
	Time   int64  `cbor:"4,keyasint"` // unix milliseconds
	Raw    []byte `cbor:"5,keyasint"`
}

// NewRecord captures raw telemetry for name at t.
func NewRecord(source, name string, raw []byte, t time.Time) (*Record, error) {
	def, ok := LookupTelemetry(name)
	if !ok {
		return nil, fmt.Errorf("unknown telemetry %q", name)
	}
	if len(raw) != def.Length {
		return nil, fmt.Errorf("%s: %w (%d bytes, expected %d)", name, StatusIncorrectLength, len(raw), def.Length)
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &Record{
		Source: source,
		Name:   name,
		ID:     def.ID,
		Time:   t.UnixMilli(),
		Raw:    buf,
	}, nil
}

// Timestamp returns the capture time.
func (r *Record) Timestamp() time.Time {
	return time.UnixMilli(r.Time)
}

// Decode runs the registered decoder over the raw payload.
func (r *Record) Decode() (any, error) {
	def, ok := LookupTelemetry(r.Name)
	if !ok {
		return nil, fmt.Errorf("unknown telemetry %q", r.Name)
	}
	if len(r.Raw) != def.Length {
		return nil, fmt.Errorf("%s: %w (%d bytes, expected %d)", r.Name, StatusIncorrectLength, len(r.Raw), def.Length)
	}
	return def.Decode(r.Raw), nil
}

// Marshal encodes the record as a CBOR map with integer keys.
func (r *Record) Marshal() ([]byte, error) {
	data, err := cbor.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// UnmarshalRecord decodes a record produced by Marshal.
func UnmarshalRecord(data []byte) (*Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty CBOR record")
	}
	var r Record
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &r, nil
}

// SourceID returns a stable identifier for this host, derived from the
// machine ID. Hosts without a readable machine ID fall back to "unknown".
func SourceID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		return "unknown"
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return id
}

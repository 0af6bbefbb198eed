// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archive

import (
	"time"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

// TelemetryRecord is one archived telemetry frame. Payload holds the
// CBOR encoding of the adcs.Record so the raw bytes round-trip exactly.
type TelemetryRecord struct {
	ID          uint      `gorm:"primarykey"`
	Source      string    `gorm:"index;size:32"`
	Name        string    `gorm:"index:idx_name_time;size:48;not null"`
	TelemetryID uint8     `gorm:"not null"`
	CapturedAt  time.Time `gorm:"index:idx_name_time;not null"`
	Anomalies   int
	Payload     []byte `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (TelemetryRecord) TableName() string {
	return "telemetry_records"
}

// FromRecord builds an archive row from a captured record
func FromRecord(r *adcs.Record, anomalies int) (*TelemetryRecord, error) {
	payload, err := r.Marshal()
	if err != nil {
		return nil, err
	}
	return &TelemetryRecord{
		Source:      r.Source,
		Name:        r.Name,
		TelemetryID: r.ID,
		CapturedAt:  r.Timestamp(),
		Anomalies:   anomalies,
		Payload:     payload,
	}, nil
}

// Record decodes the stored CBOR payload
func (t *TelemetryRecord) Record() (*adcs.Record, error) {
	return adcs.UnmarshalRecord(t.Payload)
}

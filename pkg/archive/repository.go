// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package archive

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no record matches a query
var ErrNotFound = errors.New("archive: record not found")

// Repository provides archive operations
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save stores a single record
func (r *Repository) Save(rec *TelemetryRecord) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if rec.Name == "" {
		return fmt.Errorf("record has no telemetry name")
	}
	return r.db.Create(rec).Error
}

// SaveBatch stores records in one transaction
func (r *Repository) SaveBatch(recs []*TelemetryRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range recs {
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Latest returns the newest record for a telemetry name
func (r *Repository) Latest(name string) (*TelemetryRecord, error) {
	var rec TelemetryRecord
	err := r.db.Where("name = ?", name).Order("captured_at DESC, id DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Range returns records for name captured in [from, to), oldest first.
// An empty name matches every telemetry item. limit <= 0 means no limit.
func (r *Repository) Range(name string, from, to time.Time, limit int) ([]TelemetryRecord, error) {
	query := r.db.Where("captured_at >= ? AND captured_at < ?", from, to)
	if name != "" {
		query = query.Where("name = ?", name)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recs []TelemetryRecord
	if err := query.Order("captured_at ASC, id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Count returns the number of records stored for name, or all records
// when name is empty
func (r *Repository) Count(name string) (int64, error) {
	var count int64
	query := r.db.Model(&TelemetryRecord{})
	if name != "" {
		query = query.Where("name = ?", name)
	}
	err := query.Count(&count).Error
	return count, err
}

// Prune deletes records captured before cutoff and returns how many
// were removed
func (r *Repository) Prune(cutoff time.Time) (int64, error) {
	result := r.db.Where("captured_at < ?", cutoff).Delete(&TelemetryRecord{})
	return result.RowsAffected, result.Error
}

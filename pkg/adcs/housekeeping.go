// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import "time"

// Housekeeping bundles the periodic health telemetry.
type Housekeeping struct {
	Time         time.Time
	State        *CurrentState
	Measurements *Measurements
	PowerTemp    *PowerTemp
}

// GetHousekeeping reads the attitude state, measurements and power and
// temperature blocks in sequence. The first failing request aborts.
func (c *Client) GetHousekeeping() (*Housekeeping, error) {
	hk := &Housekeeping{Time: time.Now()}

	var err error
	if hk.State, err = c.GetCurrentState(); err != nil {
		return nil, err
	}
	if hk.Measurements, err = c.GetMeasurements(); err != nil {
		return nil, err
	}
	if hk.PowerTemp, err = c.GetPowerTemp(); err != nil {
		return nil, err
	}
	return hk, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

// Scale coefficients for configuration fields
const (
	coefMountAngle    = 0.01
	coefChannelOffset = 0.001
	coefSensitivity   = 0.001
	coefRateOffset    = 0.001
	coefDetumbleRate  = 0.001
)

// RateGyroConfig assigns gyro axes and sensor offsets.
type RateGyroConfig struct {
	Axes       XYZu8
	Offset     XYZ // deg/s
	Multiplier uint8
}

// MTMConfig is the magnetometer mounting and calibration.
type MTMConfig struct {
	MountingAngles XYZ // deg
	ChannelOffsets XYZ
	Sensitivity    Matrix3
}

// DetumbleConfig holds the B-dot detumbling gains.
type DetumbleConfig struct {
	SpinGain     float32
	DampingGain  float32
	ReferenceRPS float64 // deg/s, packed at 0.001
	FastBDotGain float32
}

// YWheelConfig holds the Y-momentum controller gains.
type YWheelConfig struct {
	ControlGain       float32
	DampingGain       float32
	ProportionalGain  float32
	DerivativeGain    float32
	ReferenceMomentum float32
}

// RWheelConfig holds the reaction wheel controller gains.
type RWheelConfig struct {
	ProportionalGain float32
	DerivativeGain   float32
	BiasMomentum     float32
	AxisFlags        uint8
}

// TrackingConfig holds the target tracking controller gains.
type TrackingConfig struct {
	ProportionalGain float32
	DerivativeGain   float32
	IntegralGain     float32
	TargetFacet      uint8
}

// MoIMatrix is the satellite moment of inertia in kg.m^2.
type MoIMatrix struct {
	Ixx, Iyy, Izz float32
	Ixy, Ixz, Iyz float32
}

// SGP4OrbitParams are the orbit elements used by the onboard propagator.
type SGP4OrbitParams struct {
	Inclination  float64
	Eccentricity float64
	RAAN         float64
	ArgPerigee   float64
	BStar        float64
	MeanMotion   float64
	MeanAnomaly  float64
	Epoch        float64
}

func (p *SGP4OrbitParams) elements() [sgp4ElementCount]*float64 {
	return [sgp4ElementCount]*float64{
		&p.Inclination, &p.Eccentricity, &p.RAAN, &p.ArgPerigee,
		&p.BStar, &p.MeanMotion, &p.MeanAnomaly, &p.Epoch,
	}
}

// ============================================================
// Configuration telecommand encoders
// ============================================================

// EncodeSetMTQConfig assigns magnetorquer axes.
func EncodeSetMTQConfig(axes XYZu8) []byte {
	cmd := newCommand(IDSetMTQConfig, 4)
	cmd[1], cmd[2], cmd[3] = axes.X, axes.Y, axes.Z
	return cmd
}

// EncodeSetRWConfig assigns wheel axes for wheels 1..3 and the momentum wheel.
func EncodeSetRWConfig(axes [4]uint8) []byte {
	cmd := newCommand(IDSetRWConfig, 5)
	copy(cmd[1:], axes[:])
	return cmd
}

func EncodeSetRateGyroConfig(cfg RateGyroConfig) []byte {
	cmd := newCommand(IDSetRateGyroConfig, 11)
	cmd[1], cmd[2], cmd[3] = cfg.Axes.X, cfg.Axes.Y, cfg.Axes.Z
	putXYZScaled(cmd[4:], cfg.Offset, coefRateOffset)
	cmd[10] = cfg.Multiplier
	return cmd
}

// EncodeSetMTMConfig configures magnetometer 1 or 2.
func EncodeSetMTMConfig(mtm uint8, cfg MTMConfig) ([]byte, error) {
	if mtm < 1 || mtm > 2 {
		return nil, StatusInvalidParameters
	}
	cmd := newCommand(IDSetMTMConfig+mtm-1, 1+LenMTMConfig)
	encodeMTMConfig(cmd[1:], cfg)
	return cmd, nil
}

func encodeMTMConfig(b []byte, cfg MTMConfig) {
	putXYZScaled(b[0:], cfg.MountingAngles, coefMountAngle)
	putXYZScaled(b[6:], cfg.ChannelOffsets, coefChannelOffset)
	putMatrix(b[12:], cfg.Sensitivity, coefSensitivity)
}

func EncodeSetDetumbleConfig(cfg DetumbleConfig) []byte {
	cmd := newCommand(IDSetDetumbleConfig, 15)
	putFloat32(cmd[1:], cfg.SpinGain)
	putFloat32(cmd[5:], cfg.DampingGain)
	putScaled(cmd[9:], cfg.ReferenceRPS, coefDetumbleRate)
	putFloat32(cmd[11:], cfg.FastBDotGain)
	return cmd
}

func EncodeSetYWheelConfig(cfg YWheelConfig) []byte {
	cmd := newCommand(IDSetYWheelConfig, 21)
	putFloat32(cmd[1:], cfg.ControlGain)
	putFloat32(cmd[5:], cfg.DampingGain)
	putFloat32(cmd[9:], cfg.ProportionalGain)
	putFloat32(cmd[13:], cfg.DerivativeGain)
	putFloat32(cmd[17:], cfg.ReferenceMomentum)
	return cmd
}

func EncodeSetRWheelConfig(cfg RWheelConfig) []byte {
	cmd := newCommand(IDSetRWheelConfig, 14)
	putFloat32(cmd[1:], cfg.ProportionalGain)
	putFloat32(cmd[5:], cfg.DerivativeGain)
	putFloat32(cmd[9:], cfg.BiasMomentum)
	cmd[13] = cfg.AxisFlags
	return cmd
}

func EncodeSetTrackingConfig(cfg TrackingConfig) []byte {
	cmd := newCommand(IDSetTrackingConfig, 14)
	putFloat32(cmd[1:], cfg.ProportionalGain)
	putFloat32(cmd[5:], cfg.DerivativeGain)
	putFloat32(cmd[9:], cfg.IntegralGain)
	cmd[13] = cfg.TargetFacet
	return cmd
}

func EncodeSetMoIMatrix(m MoIMatrix) []byte {
	cmd := newCommand(IDSetMoIMatrix, 25)
	for i, v := range []float32{m.Ixx, m.Iyy, m.Izz, m.Ixy, m.Ixz, m.Iyz} {
		putFloat32(cmd[1+4*i:], v)
	}
	return cmd
}

func EncodeSetSGP4OrbitParams(p SGP4OrbitParams) []byte {
	cmd := newCommand(IDSetSGP4OrbitParams, 1+8*sgp4ElementCount)
	for i, v := range p.elements() {
		putFloat64(cmd[1+8*i:], *v)
	}
	return cmd
}

// ============================================================
// Configuration telecommands
// ============================================================

func (c *Client) SetMTQConfig(axes XYZu8) error {
	return c.Telecommand(EncodeSetMTQConfig(axes))
}

func (c *Client) SetRWConfig(axes [4]uint8) error {
	return c.Telecommand(EncodeSetRWConfig(axes))
}

func (c *Client) SetRateGyroConfig(cfg RateGyroConfig) error {
	return c.Telecommand(EncodeSetRateGyroConfig(cfg))
}

func (c *Client) SetMTMConfig(mtm uint8, cfg MTMConfig) error {
	return c.send(EncodeSetMTMConfig(mtm, cfg))
}

func (c *Client) SetDetumbleConfig(cfg DetumbleConfig) error {
	return c.Telecommand(EncodeSetDetumbleConfig(cfg))
}

func (c *Client) SetYWheelConfig(cfg YWheelConfig) error {
	return c.Telecommand(EncodeSetYWheelConfig(cfg))
}

func (c *Client) SetRWheelConfig(cfg RWheelConfig) error {
	return c.Telecommand(EncodeSetRWheelConfig(cfg))
}

func (c *Client) SetTrackingConfig(cfg TrackingConfig) error {
	return c.Telecommand(EncodeSetTrackingConfig(cfg))
}

func (c *Client) SetMoIMatrix(m MoIMatrix) error {
	return c.Telecommand(EncodeSetMoIMatrix(m))
}

func (c *Client) SetSGP4OrbitParams(p SGP4OrbitParams) error {
	return c.Telecommand(EncodeSetSGP4OrbitParams(p))
}

// ============================================================
// Configuration telemetry
// ============================================================

func DecodeMTMConfig(b []byte) *MTMConfig {
	return &MTMConfig{
		MountingAngles: GetXYZ(b[0:], coefMountAngle),
		ChannelOffsets: GetXYZ(b[6:], coefChannelOffset),
		Sensitivity:    GetMatrix(b[12:], coefSensitivity),
	}
}

func DecodeSGP4OrbitParams(b []byte) *SGP4OrbitParams {
	p := &SGP4OrbitParams{}
	for i, v := range p.elements() {
		*v = float64At(b[8*i:])
	}
	return p
}

func DecodeLogConfig(b []byte) *LogConfig {
	cfg := &LogConfig{
		Period:      uint16At(b[logFlagBytes:]),
		Destination: b[logFlagBytes+2],
	}
	copy(cfg.Flags[:], unpackFlagBytes(b[:logFlagBytes], logFlagCount))
	return cfg
}

// GetMTMConfig reads the configuration of magnetometer 1 or 2.
func (c *Client) GetMTMConfig(mtm uint8) (*MTMConfig, error) {
	if mtm < 1 || mtm > 2 {
		c.stats.Rejected++
		return nil, StatusInvalidParameters
	}
	b, err := c.Telemetry(IDGetMTMConfig+mtm-1, LenMTMConfig)
	if err != nil {
		return nil, err
	}
	return DecodeMTMConfig(b), nil
}

func (c *Client) GetSGP4OrbitParams() (*SGP4OrbitParams, error) {
	b, err := c.Telemetry(IDGetSGP4OrbitParams, LenSGP4OrbitParams)
	if err != nil {
		return nil, err
	}
	return DecodeSGP4OrbitParams(b), nil
}

// GetLogConfig reads the configuration of log 1 or 2.
func (c *Client) GetLogConfig(log uint8) (*LogConfig, error) {
	if log < 1 || log > 2 {
		c.stats.Rejected++
		return nil, StatusInvalidParameters
	}
	b, err := c.Telemetry(IDGetLogConfig+log-1, LenLogConfig)
	if err != nil {
		return nil, err
	}
	return DecodeLogConfig(b), nil
}

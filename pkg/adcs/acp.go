// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

// Scale coefficients for telecommand fixed-point fields
const (
	coefAttitudeAngle   = 0.01
	coefInertialRef     = 0.0001
	coefTrackController = 0.01
)

// PowerNodes holds the 2-bit power selection for each controllable node:
// CubeControl signal and motor, CubeSense 1 and 2, CubeStar, CubeWheel 1
// to 3, motor and GPS.
type PowerNodes [powerNodeCount]PowerState

// SimSensorData is the raw sensor blob injected by a simulated loop trigger.
type SimSensorData [simSensorSize]byte

// ============================================================
// Control telecommand encoders
// ============================================================

func EncodeDeployMagnetometerBoom(timeout uint8) []byte {
	cmd := newCommand(IDDeployMagnetometerBoom, 2)
	cmd[1] = timeout
	return cmd
}

func EncodeSetEnabledState(mode RunMode) []byte {
	cmd := newCommand(IDSetEnabledState, 2)
	cmd[1] = uint8(mode)
	return cmd
}

// EncodeSetPowerControl packs ten 2-bit states LSB-first, four per byte.
func EncodeSetPowerControl(nodes PowerNodes) ([]byte, error) {
	cmd := newCommand(IDSetPowerControl, 4)
	for i, state := range nodes {
		if state > 3 {
			return nil, StatusInvalidParameters
		}
		cmd[1+i/4] |= uint8(state) << uint(2*(i%4))
	}
	return cmd, nil
}

func EncodeClearLatchedErrs(adcs, hk bool) []byte {
	cmd := newCommand(IDClearLatchedErrs, 2)
	cmd[1] = boolByte(adcs) | boolByte(hk)<<1
	return cmd
}

// EncodeSetAttitudeCtrlMode selects a control mode for timeout seconds
// (0xFFFF for no timeout).
func EncodeSetAttitudeCtrlMode(mode uint8, timeout uint16) []byte {
	cmd := newCommand(IDSetAttitudeCtrlMode, 4)
	cmd[1] = mode
	putUint16(cmd[2:], timeout)
	return cmd
}

func EncodeSetAttitudeEstimateMode(mode uint8) []byte {
	cmd := newCommand(IDSetAttitudeEstimateMode, 2)
	cmd[1] = mode
	return cmd
}

// EncodeSetAttitudeAngle packs commanded roll, pitch and yaw in degrees.
func EncodeSetAttitudeAngle(angles XYZ) []byte {
	cmd := newCommand(IDSetAttitudeAngle, 7)
	putXYZScaled(cmd[1:], angles, coefAttitudeAngle)
	return cmd
}

// EncodeSetMagnetorquerOutput packs raw duty cycles per axis.
func EncodeSetMagnetorquerOutput(duty XYZ16) []byte {
	cmd := newCommand(IDSetMagnetorquerOutput, 7)
	putXYZ16(cmd[1:], duty)
	return cmd
}

// EncodeSetWheelSpeed packs wheel speed commands in rpm.
func EncodeSetWheelSpeed(speed XYZ16) []byte {
	cmd := newCommand(IDSetWheelSpeed, 7)
	putXYZ16(cmd[1:], speed)
	return cmd
}

func EncodeTriggerADCSLoopSim(data SimSensorData) []byte {
	cmd := newCommand(IDTriggerADCSLoopSim, 1+simSensorSize)
	copy(cmd[1:], data[:])
	return cmd
}

func EncodeSetASGP4RunMode(mode uint8) []byte {
	cmd := newCommand(IDSetASGP4RunMode, 2)
	cmd[1] = mode
	return cmd
}

// EncodeSetInertialRef packs the inertial pointing reference unit vector.
func EncodeSetInertialRef(ref XYZ) []byte {
	cmd := newCommand(IDSetInertialRef, 7)
	putXYZScaled(cmd[1:], ref, coefInertialRef)
	return cmd
}

// EncodeSetTrackController packs the target longitude, latitude and altitude.
func EncodeSetTrackController(target XYZ) []byte {
	cmd := newCommand(IDSetTrackController, 7)
	putXYZScaled(cmd[1:], target, coefTrackController)
	return cmd
}

func EncodeSetMTMOpMode(mode uint8) []byte {
	cmd := newCommand(IDSetMTMOpMode, 2)
	cmd[1] = mode
	return cmd
}

func EncodeConvertToJPG(source, qualityFactor, whiteBalance uint8) []byte {
	cmd := newCommand(IDConvertToJPG, 4)
	cmd[1] = source
	cmd[2] = qualityFactor
	cmd[3] = whiteBalance
	return cmd
}

func EncodeSaveImage(camera, size uint8) []byte {
	cmd := newCommand(IDSaveImage, 3)
	cmd[1] = camera
	cmd[2] = size
	return cmd
}

// LogConfig selects which telemetry items are logged and how often.
type LogConfig struct {
	Flags       [logFlagCount]bool
	Period      uint16
	Destination uint8
}

// EncodeSetLogConfig configures log 1 or 2. Flags are packed eight per
// byte, LSB-first.
func EncodeSetLogConfig(log uint8, cfg LogConfig) ([]byte, error) {
	if log < 1 || log > 2 {
		return nil, StatusInvalidParameters
	}
	cmd := newCommand(IDSetLogConfig, 5+logFlagBytes)
	packFlagBytes(cmd[1:1+logFlagBytes], cfg.Flags[:])
	putUint16(cmd[1+logFlagBytes:], cfg.Period)
	cmd[3+logFlagBytes] = cfg.Destination
	cmd[4+logFlagBytes] = log
	return cmd, nil
}

// ============================================================
// Control telecommands
// ============================================================

func (c *Client) DeployMagnetometerBoom(timeout uint8) error {
	return c.Telecommand(EncodeDeployMagnetometerBoom(timeout))
}

func (c *Client) SetEnabledState(mode RunMode) error {
	return c.Telecommand(EncodeSetEnabledState(mode))
}

func (c *Client) SetPowerControl(nodes PowerNodes) error {
	return c.send(EncodeSetPowerControl(nodes))
}

func (c *Client) ClearLatchedErrs(adcs, hk bool) error {
	return c.Telecommand(EncodeClearLatchedErrs(adcs, hk))
}

func (c *Client) SetAttitudeCtrlMode(mode uint8, timeout uint16) error {
	return c.Telecommand(EncodeSetAttitudeCtrlMode(mode, timeout))
}

func (c *Client) SetAttitudeEstimateMode(mode uint8) error {
	return c.Telecommand(EncodeSetAttitudeEstimateMode(mode))
}

func (c *Client) SetAttitudeAngle(angles XYZ) error {
	return c.Telecommand(EncodeSetAttitudeAngle(angles))
}

// SetMagnetorquerOutput requires the run mode to be triggered.
func (c *Client) SetMagnetorquerOutput(duty XYZ16) error {
	return c.Telecommand(EncodeSetMagnetorquerOutput(duty))
}

// SetWheelSpeed requires the run mode to be triggered.
func (c *Client) SetWheelSpeed(speed XYZ16) error {
	return c.Telecommand(EncodeSetWheelSpeed(speed))
}

func (c *Client) TriggerADCSLoop() error {
	return c.Telecommand(newCommand(IDTriggerADCSLoop, 1))
}

func (c *Client) TriggerADCSLoopSim(data SimSensorData) error {
	return c.Telecommand(EncodeTriggerADCSLoopSim(data))
}

func (c *Client) SetASGP4RunMode(mode uint8) error {
	return c.Telecommand(EncodeSetASGP4RunMode(mode))
}

func (c *Client) TriggerASGP4() error {
	return c.Telecommand(newCommand(IDTriggerASGP4, 1))
}

func (c *Client) SetInertialRef(ref XYZ) error {
	return c.Telecommand(EncodeSetInertialRef(ref))
}

func (c *Client) SetTrackController(target XYZ) error {
	return c.Telecommand(EncodeSetTrackController(target))
}

func (c *Client) SetMTMOpMode(mode uint8) error {
	return c.Telecommand(EncodeSetMTMOpMode(mode))
}

func (c *Client) ConvertToJPG(source, qualityFactor, whiteBalance uint8) error {
	return c.Telecommand(EncodeConvertToJPG(source, qualityFactor, whiteBalance))
}

func (c *Client) SaveConfig() error {
	return c.Telecommand(newCommand(IDSaveConfig, 1))
}

func (c *Client) SaveOrbitParams() error {
	return c.Telecommand(newCommand(IDSaveOrbitParams, 1))
}

func (c *Client) SaveImage(camera, size uint8) error {
	return c.Telecommand(EncodeSaveImage(camera, size))
}

func (c *Client) SetLogConfig(log uint8, cfg LogConfig) error {
	return c.send(EncodeSetLogConfig(log, cfg))
}

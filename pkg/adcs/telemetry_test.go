// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// State and bootloader
// ============================================================

func TestDecodeBootloaderState(t *testing.T) {
	b := make([]byte, LenBootloaderState)
	putUint16(b[0:], 7785)
	putUint32(b[2:], 0x127)

	st := DecodeBootloaderState(b)
	assert.Equal(t, uint16(7785), st.Uptime)

	expected := []int{1, 1, 1, 0, 0, 1, 0, 0, 1, 0, 0}
	require.Len(t, st.Flags, len(expected))
	for i, want := range expected {
		assert.Equal(t, want == 1, st.Flags[i], "flag %d", i)
	}
}

func TestDecodeCurrentState(t *testing.T) {
	b := make([]byte, LenCurrentState)
	b[0] = 4 | 4<<4
	b[1] = 0x01 | 0x02<<2 | 0xA<<4
	putUint32(b[2:], 0x80000001)
	putUint32(b[6:], 0x00038001)
	putInt16(b[12:], 1000)
	putInt16(b[42:], -3000)
	putInt16(b[44:], 12000)
	putInt16(b[46:], 5000)

	s := DecodeCurrentState(b)
	assert.Equal(t, uint8(4), s.EstimateMode)
	assert.Equal(t, uint8(4), s.ControlMode)
	assert.Equal(t, RunMode(1), s.RunMode)
	assert.Equal(t, uint8(2), s.ASGP4Mode)
	assert.Equal(t, uint8(3), s.MTMSampleMode)
	assert.InDelta(t, 10.0, s.Angles.X, 1e-9)
	assert.InDelta(t, -30.0, s.LLH.X, 1e-9)
	assert.InDelta(t, 120.0, s.LLH.Y, 1e-9)

	require.Len(t, s.Flags, stateFlagCount)
	assert.Equal(t, []bool{false, true, false, true}, s.Flags[0:4])
	assert.True(t, s.Flags[4])
	assert.True(t, s.Flags[35])
	assert.False(t, s.Flags[5])
	assert.True(t, s.Flags[36])
	assert.True(t, s.Flags[51])
	assert.False(t, s.Flags[37])
}

func TestDecodeCurrentState_ModeNibbles(t *testing.T) {
	for est := 0; est < 16; est++ {
		for ctrl := 0; ctrl < 16; ctrl++ {
			b := make([]byte, LenCurrentState)
			b[0] = byte(est | ctrl<<4)
			s := DecodeCurrentState(b)
			require.Equal(t, uint8(est), s.EstimateMode)
			require.Equal(t, uint8(ctrl), s.ControlMode)
		}
	}
}

// ============================================================
// Sensors
// ============================================================

func TestDecodeMeasurements(t *testing.T) {
	b := make([]byte, LenMeasurements)
	putXYZ16(b[0:], XYZ16{X: 2500, Y: -2500, Z: 100})
	putXYZ16(b[6:], XYZ16{X: 10000, Y: 0, Z: 0})
	putXYZ16(b[30:], XYZ16{X: 1200, Y: -1200, Z: 0})

	m := DecodeMeasurements(b)
	assert.InDelta(t, 25.0, m.MagneticField.X, 1e-9)
	assert.InDelta(t, -25.0, m.MagneticField.Y, 1e-9)
	assert.InDelta(t, 1.0, m.CoarseSun.X, 1e-9)
	assert.InDelta(t, 1200.0, m.WheelSpeed.X, 1e-9)
	assert.InDelta(t, -1200.0, m.WheelSpeed.Y, 1e-9)
}

func TestDecodeRawSensor(t *testing.T) {
	b := make([]byte, LenRawSensor)
	putInt16(b[0:], -100)
	putInt16(b[2:], 200)
	b[4] = 1
	b[5] = 7
	putInt16(b[6:], 300)
	b[11] = 9
	for i := 0; i < cssCount; i++ {
		b[12+i] = byte(i * 10)
	}
	putXYZ16(b[22:], XYZ16{X: -1, Y: -2, Z: -3})
	putXYZ16(b[28:], XYZ16{X: 4, Y: 5, Z: 6})

	r := DecodeRawSensor(b)
	assert.Equal(t, CameraSample{CentroidX: -100, CentroidY: 200, CaptureStatus: 1, DetectResult: 7}, r.Cameras[0])
	assert.Equal(t, int16(300), r.Cameras[1].CentroidX)
	assert.Equal(t, uint8(9), r.Cameras[1].DetectResult)
	assert.Equal(t, uint8(90), r.CSS[9])
	assert.Equal(t, XYZ16{X: -1, Y: -2, Z: -3}, r.MTM)
	assert.Equal(t, XYZ16{X: 4, Y: 5, Z: 6}, r.AngularRate)
}

func TestDecodeRawGPS(t *testing.T) {
	b := make([]byte, LenRawGPS)
	b[0] = 1
	b[1] = 12
	b[2] = 9
	putUint16(b[6:], 2300)
	putUint32(b[8:], 123456789)
	putUint32(b[12:], uint32(0xFFFE1DC0)) // -123456
	putInt16(b[16:], -7500)
	putUint32(b[18:], 6378137)
	putInt16(b[28:], 42)
	b[30], b[31], b[32] = 10, 20, 30
	b[33], b[34], b[35] = 1, 2, 3

	g := DecodeRawGPS(b)
	assert.Equal(t, uint8(12), g.TrackedSatellites)
	assert.Equal(t, uint16(2300), g.ReferenceWeek)
	assert.Equal(t, uint32(123456789), g.TimeMillis)
	assert.Equal(t, GPSAxis{Position: -123456, Velocity: -7500}, g.ECEF[0])
	assert.Equal(t, int32(6378137), g.ECEF[1].Position)
	assert.Equal(t, int16(42), g.ECEF[2].Velocity)
	assert.InDelta(t, 1.0, g.PositionStdDev.X, 1e-9)
	assert.InDelta(t, 3.0, g.PositionStdDev.Z, 1e-9)
	assert.Equal(t, XYZu8{X: 1, Y: 2, Z: 3}, g.VelocityStdDev)
}

func TestDecodeStarTracker(t *testing.T) {
	b := make([]byte, LenStarTracker)
	b[0] = 5
	b[6] = 0x81
	putUint16(b[7:], 250)
	for i := 0; i < starRecordCount; i++ {
		b[9+i] = byte(90 + i)
		putUint16(b[12+2*i:], uint16(1000+i))
		putUint16(b[18+6*i:], uint16(2000+i))
		putInt16(b[20+6*i:], int16(-100-i))
		putInt16(b[22+6*i:], int16(100+i))
	}
	putUint16(b[36:], 11)
	putUint16(b[38:], 22)
	putUint16(b[40:], 33)
	putXYZ16(b[42:], XYZ16{X: 10000})
	putXYZ16(b[48:], XYZ16{Z: -4500})

	st := DecodeStarTracker(b)
	assert.Equal(t, uint8(5), st.DetectedStars)
	assert.Equal(t, uint16(250), st.SampleTime)
	assert.True(t, st.Flags[0])
	assert.True(t, st.Flags[7])
	assert.False(t, st.Flags[1])
	for i := 0; i < starRecordCount; i++ {
		assert.Equal(t, StarRecord{
			Confidence: uint8(90 + i),
			Magnitude:  uint16(1000 + i),
			Catalogue:  uint16(2000 + i),
			CentroidX:  int16(-100 - i),
			CentroidY:  int16(100 + i),
		}, st.Stars[i], "star %d", i)
	}
	assert.Equal(t, uint16(11), st.CaptureTime)
	assert.Equal(t, uint16(22), st.DetectionTime)
	assert.Equal(t, uint16(33), st.IdentificationTime)
	assert.InDelta(t, 1.0, st.EstimatedRate.X, 1e-9)
	assert.InDelta(t, -45.0, st.EstimatedAttitude.Z, 1e-9)
}

func TestDecodePowerTemp(t *testing.T) {
	b := make([]byte, LenPowerTemp)
	putUint16(b[0:], 1234)
	putUint16(b[8:], 1024)
	putUint16(b[14:], 5000)
	putInt16(b[24:], -2550)
	putInt16(b[26:], 41)
	putInt16(b[28:], 255)
	putXYZ16(b[32:], XYZ16{X: 20, Y: 21, Z: 22})

	p := DecodePowerTemp(b)
	assert.InDelta(t, 123.4, p.CubeSense1Current3V3, 1e-9)
	assert.InDelta(t, 500.0, p.CubeControl3V3, 1e-9)
	assert.InDelta(t, 50.0, p.Wheel1Current, 1e-9)
	assert.InDelta(t, -25.5, p.CubeStarTemp, 1e-9)
	assert.InDelta(t, 41.0, p.MCUTemp, 1e-9)
	assert.InDelta(t, 25.5, p.MTMTemp, 1e-9)
	assert.Equal(t, XYZ16{X: 20, Y: 21, Z: 22}, p.RateSensorTemp)
}

func TestDecodeASGP4(t *testing.T) {
	b := make([]byte, LenASGP4)
	b[0] = 0x01 | 3<<1
	for i := 0; i < sgp4ElementCount; i++ {
		putFloat32(b[1+4*i:], float32(i)+0.5)
	}

	a := DecodeASGP4(b)
	assert.True(t, a.Complete)
	assert.Equal(t, uint8(3), a.Error)
	for i, v := range a.Elements {
		assert.Equal(t, float32(i)+0.5, v)
	}
}

func TestDecodeTCAck(t *testing.T) {
	ack := DecodeTCAck([]byte{IDSetWheelSpeed, 0x01, byte(StatusIncorrectLength), 5})
	assert.Equal(t, &TCAck{LastTCID: IDSetWheelSpeed, Processed: true, Status: StatusIncorrectLength, ErrorIndex: 5}, ack)
}

// ============================================================
// Encode/decode pairs
// ============================================================

func TestPowerControl_RoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	for i := 0; i < getFuzzRounds(); i++ {
		var nodes PowerNodes
		for j := range nodes {
			nodes[j] = PowerState(rng.Intn(3))
		}
		cmd, err := EncodeSetPowerControl(nodes)
		require.NoError(t, err)
		require.Len(t, cmd, 4)
		assert.Equal(t, &nodes, DecodePowerControl(cmd[1:]))
	}
}

func TestPowerControl_Packing(t *testing.T) {
	nodes := PowerNodes{PowerOn, PowerOff, PowerKeep, PowerOn, PowerOn}
	cmd, err := EncodeSetPowerControl(nodes)
	require.NoError(t, err)
	// Node 0 in bits 0-1, node 3 in bits 6-7, node 4 starts the second byte
	expected := byte(PowerOn) | byte(PowerKeep)<<4 | byte(PowerOn)<<6
	assert.Equal(t, []byte{IDSetPowerControl, expected, byte(PowerOn), 0}, cmd)
}

func TestLogConfig_RoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	for i := 0; i < getFuzzRounds(); i++ {
		var cfg LogConfig
		for j := range cfg.Flags {
			cfg.Flags[j] = rng.Intn(2) == 1
		}
		cfg.Period = uint16(rng.Intn(65536))
		cfg.Destination = uint8(rng.Intn(256))

		cmd, err := EncodeSetLogConfig(2, cfg)
		require.NoError(t, err)
		require.Len(t, cmd, 1+LenLogConfig+1)
		assert.Equal(t, uint8(2), cmd[len(cmd)-1])
		assert.Equal(t, &cfg, DecodeLogConfig(cmd[1:1+LenLogConfig]))
	}
}

func TestMTMConfig_RoundTrip(t *testing.T) {
	cfg := MTMConfig{
		MountingAngles: XYZ{X: 90, Y: -45, Z: 180},
		ChannelOffsets: XYZ{X: 0.125, Y: -0.25, Z: 1},
		Sensitivity:    Matrix3{{1, 0.5, 0}, {0, 1, -0.5}, {0.25, 0, 1}},
	}
	cmd, err := EncodeSetMTMConfig(2, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint8(IDSetMTMConfig+1), cmd[0])

	got := DecodeMTMConfig(cmd[1:])
	assert.InDelta(t, cfg.MountingAngles.Y, got.MountingAngles.Y, 2*coefMountAngle)
	assert.InDelta(t, cfg.ChannelOffsets.Y, got.ChannelOffsets.Y, 2*coefChannelOffset)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			assert.InDelta(t, cfg.Sensitivity[row][col], got.Sensitivity[row][col], 2*coefSensitivity)
		}
	}
}

func TestSGP4OrbitParams_RoundTrip(t *testing.T) {
	p := SGP4OrbitParams{
		Inclination:  97.4,
		Eccentricity: 0.0012,
		RAAN:         123.456,
		ArgPerigee:   -1,
		BStar:        1.5e-5,
		MeanMotion:   15.2,
		MeanAnomaly:  math.Pi,
		Epoch:        25001.5,
	}
	cmd := EncodeSetSGP4OrbitParams(p)
	require.Len(t, cmd, 1+LenSGP4OrbitParams)
	assert.Equal(t, &p, DecodeSGP4OrbitParams(cmd[1:]))
}

func TestEncodeFileUploadPacket(t *testing.T) {
	cmd, err := EncodeFileUploadPacket(0x0102, []byte{0xAA, 0xBB})
	require.NoError(t, err)
	require.Len(t, cmd, 23)
	assert.Equal(t, []byte{IDFileUploadPacket, 0x02, 0x01, 0xAA, 0xBB}, cmd[:5])

	_, err = EncodeFileUploadPacket(0, make([]byte, uploadChunkSize+1))
	assert.Equal(t, StatusInvalidParameters, err)
}

func TestEncodeSetHoleMap(t *testing.T) {
	var m HoleMap
	m[15] = 0x80
	for num := 1; num <= holeMapCount; num++ {
		cmd, err := EncodeSetHoleMap(num, m)
		require.NoError(t, err)
		assert.Equal(t, uint8(IDSetHoleMap+num-1), cmd[0])
		assert.Equal(t, byte(0x80), cmd[16])
	}
}

func TestEncodeSetInertialRef(t *testing.T) {
	cmd := EncodeSetInertialRef(XYZ{X: 0.5, Y: -0.5, Z: 1})
	assert.Equal(t, []byte{IDSetInertialRef, 0x88, 0x13, 0x78, 0xEC, 0x10, 0x27}, cmd)
}

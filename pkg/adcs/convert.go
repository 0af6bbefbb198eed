// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"encoding/binary"
	"math"
)

// Int16FromBytes reconstructs a signed 16-bit value from its low and high
// bytes. Negative values are rebuilt through two's-complement inversion so
// that 0x8000 decodes to -32768.
func Int16FromBytes(b1, b2 byte) int16 {
	raw := uint16(b2)<<8 | uint16(b1)
	if b2&0x80 != 0 {
		return int16(-int32(^raw + 1))
	}
	return int16(raw)
}

// Int32FromBytes reconstructs a signed 32-bit value from four little-endian
// bytes using the same two's-complement rule as Int16FromBytes.
func Int32FromBytes(b []byte) int32 {
	raw := uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	if b[3]&0x80 != 0 {
		return int32(-int64(^raw + 1))
	}
	return int32(raw)
}

// Uint16FromBytes combines a little-endian byte pair without sign handling.
func Uint16FromBytes(b1, b2 byte) uint16 {
	return uint16(b2)<<8 | uint16(b1)
}

// Uint32FromBytes combines four little-endian bytes.
func Uint32FromBytes(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// putInt16 packs v little-endian at b[0:2].
func putInt16(b []byte, v int16) {
	b[0] = byte(uint16(v) & 0xFF)
	b[1] = byte(uint16(v) >> 8)
}

// putUint16 packs v little-endian at b[0:2].
func putUint16(b []byte, v uint16) {
	b[0] = byte(v & 0xFF)
	b[1] = byte(v >> 8)
}

// putUint32 packs v little-endian at b[0:4].
func putUint32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// scaleToInt16 divides a physical value by its coefficient and truncates.
// Range is the caller's responsibility.
func scaleToInt16(value, coef float64) int16 {
	return int16(value / coef)
}

// putScaled packs value/coef as a little-endian int16 at b[0:2].
func putScaled(b []byte, value, coef float64) {
	putInt16(b, scaleToInt16(value, coef))
}

// putXYZScaled packs three scaled int16 values at b[0:6].
func putXYZScaled(b []byte, v XYZ, coef float64) {
	putScaled(b[0:], v.X, coef)
	putScaled(b[2:], v.Y, coef)
	putScaled(b[4:], v.Z, coef)
}

// putXYZ16 packs three raw int16 values at b[0:6].
func putXYZ16(b []byte, v XYZ16) {
	putInt16(b[0:], v.X)
	putInt16(b[2:], v.Y)
	putInt16(b[4:], v.Z)
}

// putFloat32 packs an IEEE-754 single little-endian at b[0:4].
func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// putFloat64 packs an IEEE-754 double little-endian at b[0:8].
func putFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

func float32At(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func float64At(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// int16At reads the signed pair at b[0:2].
func int16At(b []byte) int16 {
	return Int16FromBytes(b[0], b[1])
}

// uint16At reads the unsigned pair at b[0:2].
func uint16At(b []byte) uint16 {
	return Uint16FromBytes(b[0], b[1])
}

// GetXYZ decodes three consecutive signed 16-bit values starting at b[0]
// and multiplies each by coef. Every axis block in the telemetry goes
// through here.
func GetXYZ(b []byte, coef float64) XYZ {
	return XYZ{
		X: coef * float64(int16At(b[0:])),
		Y: coef * float64(int16At(b[2:])),
		Z: coef * float64(int16At(b[4:])),
	}
}

// GetXYZ16 decodes three consecutive signed 16-bit values without scaling.
func GetXYZ16(b []byte) XYZ16 {
	return XYZ16{
		X: int16At(b[0:]),
		Y: int16At(b[2:]),
		Z: int16At(b[4:]),
	}
}

// getXYZu8 reads three unsigned bytes.
func getXYZu8(b []byte) XYZu8 {
	return XYZu8{X: b[0], Y: b[1], Z: b[2]}
}

// GetMatrix decodes a row-major 3x3 matrix of scaled int16 values.
func GetMatrix(b []byte, coef float64) Matrix3 {
	var m Matrix3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m[row][col] = coef * float64(int16At(b[2*(3*row+col):]))
		}
	}
	return m
}

// putMatrix packs a row-major 3x3 matrix as scaled int16 values.
func putMatrix(b []byte, m Matrix3, coef float64) {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			putScaled(b[2*(3*row+col):], m[row][col], coef)
		}
	}
}

// UnpackFlags extracts n flags LSB-first from word.
func UnpackFlags(word uint32, n int) []bool {
	flags := make([]bool, n)
	for i := 0; i < n; i++ {
		flags[i] = (word>>uint(i))&1 == 1
	}
	return flags
}

// unpackFlagBytes extracts n flags LSB-first across consecutive bytes.
func unpackFlagBytes(b []byte, n int) []bool {
	flags := make([]bool, n)
	for i := 0; i < n; i++ {
		flags[i] = (b[i/8]>>uint(i%8))&1 == 1
	}
	return flags
}

// packFlagBytes ORs flag<<position into consecutive bytes, LSB-first.
func packFlagBytes(b []byte, flags []bool) {
	for i, f := range flags {
		if f {
			b[i/8] |= 1 << uint(i%8)
		}
	}
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

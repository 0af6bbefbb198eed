// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import "fmt"

// XYZ is a scaled 3-axis value in physical units.
type XYZ struct {
	X float64 `cbor:"x" json:"x"`
	Y float64 `cbor:"y" json:"y"`
	Z float64 `cbor:"z" json:"z"`
}

func (v XYZ) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// XYZ16 is a raw signed 3-axis sample.
type XYZ16 struct {
	X int16 `cbor:"x" json:"x"`
	Y int16 `cbor:"y" json:"y"`
	Z int16 `cbor:"z" json:"z"`
}

func (v XYZ16) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// XYZu8 is an unsigned 3-axis byte triple.
type XYZu8 struct {
	X uint8 `cbor:"x" json:"x"`
	Y uint8 `cbor:"y" json:"y"`
	Z uint8 `cbor:"z" json:"z"`
}

func (v XYZu8) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// Matrix3 is a row-major 3x3 matrix.
type Matrix3 [3][3]float64

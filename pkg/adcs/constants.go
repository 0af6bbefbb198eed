// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package adcs implements the command and telemetry codec for the CubeADCS
// attitude determination and control subsystem.
//
// Telecommands are packed into fixed-length byte buffers prefixed with the
// command ID, framed with ESC/SOM/EOM markers and exchanged for an
// acknowledgement status. Telemetry is requested by ID and the fixed-length
// reply is decoded field by field into typed structures. The package keeps no
// state between calls.
package adcs

// Protocol framing bytes
const (
	EscChar = 0x1F
	SOM     = 0x7F
	EOM     = 0xFF
)

// MagicNumber guards destructive telecommands (reset, SD format).
const MagicNumber = 0x5A

// Default 7-bit I2C address (0xAE write / 0xAF read on the wire).
const DefaultI2CAddress = 0x57

// Frame size limits
const (
	MaxPayloadSize = 128
	MaxFrameSize   = 2*MaxPayloadSize + 4
)

// CRC-16-CCITT configuration
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// FileType selects a file in the ADCS file system.
type FileType uint8

// File type values
const (
	FileTypeTelemetryLog FileType = 2
	FileTypeJPGImage     FileType = 3
	FileTypeBMPImage     FileType = 4
	FileTypeIndex        FileType = 15
)

// UploadDest selects where an uploaded file is written.
type UploadDest uint8

// Upload destination values
const (
	UploadDestEEPROM UploadDest = 2
	UploadDestFlash1 UploadDest = 3
	UploadDestFlash2 UploadDest = 4
	UploadDestFlash3 UploadDest = 5
	UploadDestFlash4 UploadDest = 6
	UploadDestFlash5 UploadDest = 7
	UploadDestFlash6 UploadDest = 8
	UploadDestFlash7 UploadDest = 9
	UploadDestSD1    UploadDest = 10
	UploadDestSD2    UploadDest = 11
	UploadDestSD3    UploadDest = 12
	UploadDestSD4    UploadDest = 13
	UploadDestSD5    UploadDest = 14
	UploadDestSD6    UploadDest = 15
	UploadDestSD7    UploadDest = 16
	UploadDestSD8    UploadDest = 17
)

// RunMode is the ADCS loop enabled state.
type RunMode uint8

// Run mode values
const (
	RunModeOff       RunMode = 0
	RunModeEnabled   RunMode = 1
	RunModeTriggered RunMode = 2
	RunModeSimulated RunMode = 3
)

// PowerState is the 2-bit selection used by the power control telecommand.
type PowerState uint8

// Power state values
const (
	PowerOff  PowerState = 0
	PowerOn   PowerState = 1
	PowerKeep PowerState = 2
)

// Client-side parameter limits
const (
	maxProgramIndex  = 18
	fixedBootIndex   = 1
	holeMapCount     = 8
	holeMapSize      = 16
	logFlagCount     = 80
	logFlagBytes     = logFlagCount / 8
	powerNodeCount   = 10
	simSensorSize    = 127
	uploadChunkSize  = 20
	downloadPktSize  = 20
	sgp4ElementCount = 8
)

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

const bootloaderFlagCount = 11

// EncodeSetBootIndex builds the boot index telecommand. Only the fixed
// boot index is accepted.
func EncodeSetBootIndex(index uint8) ([]byte, error) {
	if index != fixedBootIndex {
		return nil, StatusInvalidParameters
	}
	cmd := newCommand(IDSetBootIndex, 2)
	cmd[1] = index
	return cmd, nil
}

// EncodeReadProgramInfo requests program information for index 0..18.
func EncodeReadProgramInfo(index uint8) ([]byte, error) {
	if index > maxProgramIndex {
		return nil, StatusInvalidParameters
	}
	cmd := newCommand(IDReadProgramInfo, 2)
	cmd[1] = index
	return cmd, nil
}

// EncodeCopyProgramInternalFlash copies program index 0..18 to internal flash.
func EncodeCopyProgramInternalFlash(index uint8, overwriteBootloader bool) ([]byte, error) {
	if index > maxProgramIndex {
		return nil, StatusInvalidParameters
	}
	cmd := newCommand(IDCopyProgramInternalFlash, 3)
	cmd[1] = index
	cmd[2] = boolByte(overwriteBootloader)
	return cmd, nil
}

func (c *Client) ClearErrFlags() error {
	return c.Telecommand(newCommand(IDClearErrFlags, 1))
}

func (c *Client) SetBootIndex(index uint8) error {
	return c.send(EncodeSetBootIndex(index))
}

func (c *Client) RunSelectedProgram() error {
	return c.Telecommand(newCommand(IDRunSelectedProgram, 1))
}

func (c *Client) ReadProgramInfo(index uint8) error {
	return c.send(EncodeReadProgramInfo(index))
}

func (c *Client) CopyProgramInternalFlash(index uint8, overwriteBootloader bool) error {
	return c.send(EncodeCopyProgramInternalFlash(index, overwriteBootloader))
}

// BootloaderState is the bootloader uptime and its eleven status flags,
// LSB-first from the 32-bit word at offset 2.
type BootloaderState struct {
	Uptime uint16
	Flags  []bool
}

func DecodeBootloaderState(b []byte) *BootloaderState {
	return &BootloaderState{
		Uptime: uint16At(b[0:]),
		Flags:  UnpackFlags(Uint32FromBytes(b[2:6]), bootloaderFlagCount),
	}
}

// ProgramInfo describes the program read by ReadProgramInfo.
type ProgramInfo struct {
	Index uint8
	Busy  bool
	Size  uint32
	CRC16 uint16
}

func DecodeProgramInfo(b []byte) *ProgramInfo {
	return &ProgramInfo{
		Index: b[0],
		Busy:  b[1]&0x01 != 0,
		Size:  Uint32FromBytes(b[2:6]),
		CRC16: uint16At(b[6:]),
	}
}

// CopyInternalFlashProgress reports a running internal flash copy.
type CopyInternalFlashProgress struct {
	Busy  bool
	Error bool
}

func DecodeCopyInternalFlashProgress(b []byte) *CopyInternalFlashProgress {
	return &CopyInternalFlashProgress{Busy: b[0]&0x01 != 0, Error: b[0]&0x02 != 0}
}

func (c *Client) GetBootloaderState() (*BootloaderState, error) {
	b, err := c.Telemetry(IDGetBootloaderState, LenBootloaderState)
	if err != nil {
		return nil, err
	}
	return DecodeBootloaderState(b), nil
}

func (c *Client) GetProgramInfo() (*ProgramInfo, error) {
	b, err := c.Telemetry(IDGetProgramInfo, LenProgramInfo)
	if err != nil {
		return nil, err
	}
	return DecodeProgramInfo(b), nil
}

func (c *Client) GetCopyInternalFlashProgress() (*CopyInternalFlashProgress, error) {
	b, err := c.Telemetry(IDGetCopyInternalFlashProgress, LenCopyInternalFlashProgress)
	if err != nil {
		return nil, err
	}
	return DecodeCopyInternalFlashProgress(b), nil
}

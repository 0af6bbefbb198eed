// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"time"
)

// ============================================================
// Common telecommand encoders
// ============================================================

// EncodeReset builds the reset telecommand guarded by the magic number.
func EncodeReset() []byte {
	cmd := newCommand(IDReset, 2)
	cmd[1] = MagicNumber
	return cmd
}

// EncodeSetUnixTime builds the current-time telecommand.
func EncodeSetUnixTime(seconds uint32, millis uint16) []byte {
	cmd := newCommand(IDSetUnixTime, 7)
	putUint32(cmd[1:], seconds)
	putUint16(cmd[5:], millis)
	return cmd
}

func EncodeSetCacheEnabled(enabled bool) []byte {
	cmd := newCommand(IDSetCacheEnabled, 2)
	cmd[1] = boolByte(enabled)
	return cmd
}

func EncodeSetSRAMScrubSize(size uint16) []byte {
	cmd := newCommand(IDSetSRAMScrubSize, 3)
	putUint16(cmd[1:], size)
	return cmd
}

// UnixTimeSaveConfig controls when the device persists its clock.
type UnixTimeSaveConfig struct {
	SaveNow      bool
	SaveOnUpdate bool
	SavePeriodic bool
	Period       uint8 // seconds
}

func EncodeSetUnixTimeSaveConfig(cfg UnixTimeSaveConfig) []byte {
	cmd := newCommand(IDSetUnixTimeSaveConfig, 3)
	cmd[1] = boolByte(cfg.SaveNow) | boolByte(cfg.SaveOnUpdate)<<1 | boolByte(cfg.SavePeriodic)<<2
	cmd[2] = cfg.Period
	return cmd
}

// EncodeFormatSDCard builds the SD format telecommand guarded by the magic number.
func EncodeFormatSDCard() []byte {
	cmd := newCommand(IDFormatSDCard, 2)
	cmd[1] = MagicNumber
	return cmd
}

// ============================================================
// Common telecommands
// ============================================================

// Reset restarts the ADCS node.
func (c *Client) Reset() error {
	return c.Telecommand(EncodeReset())
}

// SetUnixTime sets the device clock.
func (c *Client) SetUnixTime(seconds uint32, millis uint16) error {
	return c.Telecommand(EncodeSetUnixTime(seconds, millis))
}

// SetTime sets the device clock from t.
func (c *Client) SetTime(t time.Time) error {
	return c.SetUnixTime(uint32(t.Unix()), uint16(t.Nanosecond()/int(time.Millisecond)))
}

func (c *Client) SetCacheEnabled(enabled bool) error {
	return c.Telecommand(EncodeSetCacheEnabled(enabled))
}

func (c *Client) ResetLogPointer() error {
	return c.Telecommand(newCommand(IDResetLogPointer, 1))
}

func (c *Client) AdvanceLogPointer() error {
	return c.Telecommand(newCommand(IDAdvanceLogPointer, 1))
}

func (c *Client) ResetBootRegisters() error {
	return c.Telecommand(newCommand(IDResetBootRegisters, 1))
}

func (c *Client) SetSRAMScrubSize(size uint16) error {
	return c.Telecommand(EncodeSetSRAMScrubSize(size))
}

func (c *Client) SetUnixTimeSaveConfig(cfg UnixTimeSaveConfig) error {
	return c.Telecommand(EncodeSetUnixTimeSaveConfig(cfg))
}

// FormatSDCard erases the SD card file system.
func (c *Client) FormatSDCard() error {
	return c.Telecommand(EncodeFormatSDCard())
}

// ============================================================
// Common telemetry
// ============================================================

// NodeIdentification identifies the node firmware and uptime.
type NodeIdentification struct {
	NodeType         uint8
	InterfaceVersion uint8
	FirmwareMajor    uint8
	FirmwareMinor    uint8
	RuntimeSeconds   uint16
	RuntimeMillis    uint16
}

func DecodeNodeIdentification(b []byte) *NodeIdentification {
	return &NodeIdentification{
		NodeType:         b[0],
		InterfaceVersion: b[1],
		FirmwareMajor:    b[2],
		FirmwareMinor:    b[3],
		RuntimeSeconds:   uint16At(b[4:]),
		RuntimeMillis:    uint16At(b[6:]),
	}
}

// BootProgramStat reports why and how the running program was started.
type BootProgramStat struct {
	ResetCause    uint8
	BootCause     uint8
	BootCount     uint16
	BootIndex     uint8
	FirmwareMajor uint8
	FirmwareMinor uint8
}

func DecodeBootProgramStat(b []byte) *BootProgramStat {
	return &BootProgramStat{
		ResetCause:    b[0] & 0x0F,
		BootCause:     b[0] >> 4,
		BootCount:     uint16At(b[1:]),
		BootIndex:     b[3],
		FirmwareMajor: b[4],
		FirmwareMinor: b[5],
	}
}

// BootIndex is the selected program index and last boot status.
type BootIndex struct {
	ProgramIndex uint8
	BootStatus   uint8
}

func DecodeBootIndex(b []byte) *BootIndex {
	return &BootIndex{ProgramIndex: b[0], BootStatus: b[1]}
}

// UnixTime is the device clock.
type UnixTime struct {
	Seconds uint32
	Millis  uint16
}

// Time converts the device clock to a time.Time.
func (u UnixTime) Time() time.Time {
	return time.Unix(int64(u.Seconds), int64(u.Millis)*int64(time.Millisecond)).UTC()
}

func DecodeUnixTime(b []byte) *UnixTime {
	return &UnixTime{Seconds: Uint32FromBytes(b[0:4]), Millis: uint16At(b[4:])}
}

// LastLoggedEvent is the most recent entry in the event log.
type LastLoggedEvent struct {
	Time    uint32
	EventID uint8
	Param   uint8
}

func DecodeLastLoggedEvent(b []byte) *LastLoggedEvent {
	return &LastLoggedEvent{Time: Uint32FromBytes(b[0:4]), EventID: b[4], Param: b[5]}
}

// SRAMLatchupCount counts latch-up events per SRAM bank.
type SRAMLatchupCount struct {
	SRAM1 uint16
	SRAM2 uint16
}

func DecodeSRAMLatchupCount(b []byte) *SRAMLatchupCount {
	return &SRAMLatchupCount{SRAM1: uint16At(b[0:]), SRAM2: uint16At(b[2:])}
}

// EDACErrCount counts corrected and uncorrectable memory errors.
type EDACErrCount struct {
	SingleSRAM uint16
	DoubleSRAM uint16
	MultiSRAM  uint16
}

func DecodeEDACErrCount(b []byte) *EDACErrCount {
	return &EDACErrCount{
		SingleSRAM: uint16At(b[0:]),
		DoubleSRAM: uint16At(b[2:]),
		MultiSRAM:  uint16At(b[4:]),
	}
}

// CommsStat counts processed frames. Flags are TC buffer overrun,
// UART protocol error, UART incomplete, I2C TM error, I2C overrun and
// CAN TM error.
type CommsStat struct {
	TCCount uint16
	TMCount uint16
	Flags   []bool
}

const commsFlagCount = 6

func DecodeCommsStat(b []byte) *CommsStat {
	return &CommsStat{
		TCCount: uint16At(b[0:]),
		TMCount: uint16At(b[2:]),
		Flags:   UnpackFlags(uint32(b[4]), commsFlagCount),
	}
}

func DecodeUnixTimeSaveConfig(b []byte) *UnixTimeSaveConfig {
	when := b[0] & 0x0F
	return &UnixTimeSaveConfig{
		SaveNow:      when&0x01 != 0,
		SaveOnUpdate: when&0x02 != 0,
		SavePeriodic: when&0x04 != 0,
		Period:       b[1],
	}
}

// SDFormatProgress reports an in-flight format or erase.
type SDFormatProgress struct {
	FormatBusy bool
	EraseAll   bool
}

func DecodeSDFormatProgress(b []byte) *SDFormatProgress {
	return &SDFormatProgress{FormatBusy: b[0]&0x01 != 0, EraseAll: b[0]&0x02 != 0}
}

// TCAck acknowledges the last telecommand received.
type TCAck struct {
	LastTCID   uint8
	Processed  bool
	Status     Status
	ErrorIndex uint8
}

func DecodeTCAck(b []byte) *TCAck {
	return &TCAck{
		LastTCID:   b[0],
		Processed:  b[1]&0x01 != 0,
		Status:     Status(b[2]),
		ErrorIndex: b[3],
	}
}

func (c *Client) GetNodeIdentification() (*NodeIdentification, error) {
	b, err := c.Telemetry(IDGetNodeIdentification, LenNodeIdentification)
	if err != nil {
		return nil, err
	}
	return DecodeNodeIdentification(b), nil
}

func (c *Client) GetBootProgramStat() (*BootProgramStat, error) {
	b, err := c.Telemetry(IDGetBootProgramStat, LenBootProgramStat)
	if err != nil {
		return nil, err
	}
	return DecodeBootProgramStat(b), nil
}

func (c *Client) GetBootIndex() (*BootIndex, error) {
	b, err := c.Telemetry(IDGetBootIndex, LenBootIndex)
	if err != nil {
		return nil, err
	}
	return DecodeBootIndex(b), nil
}

func (c *Client) GetCacheEnabled() (bool, error) {
	b, err := c.Telemetry(IDGetCacheEnabled, LenCacheEnabled)
	if err != nil {
		return false, err
	}
	return b[0]&0x01 != 0, nil
}

func (c *Client) GetSRAMScrubSize() (uint16, error) {
	b, err := c.Telemetry(IDGetSRAMScrubSize, LenSRAMScrubSize)
	if err != nil {
		return 0, err
	}
	return uint16At(b), nil
}

func (c *Client) GetUnixTime() (*UnixTime, error) {
	b, err := c.Telemetry(IDGetUnixTime, LenUnixTime)
	if err != nil {
		return nil, err
	}
	return DecodeUnixTime(b), nil
}

func (c *Client) GetLastLoggedEvent() (*LastLoggedEvent, error) {
	b, err := c.Telemetry(IDGetLastLoggedEvent, LenLastLoggedEvent)
	if err != nil {
		return nil, err
	}
	return DecodeLastLoggedEvent(b), nil
}

func (c *Client) GetSRAMLatchupCount() (*SRAMLatchupCount, error) {
	b, err := c.Telemetry(IDGetSRAMLatchupCount, LenSRAMLatchupCount)
	if err != nil {
		return nil, err
	}
	return DecodeSRAMLatchupCount(b), nil
}

func (c *Client) GetEDACErrCount() (*EDACErrCount, error) {
	b, err := c.Telemetry(IDGetEDACErrCount, LenEDACErrCount)
	if err != nil {
		return nil, err
	}
	return DecodeEDACErrCount(b), nil
}

func (c *Client) GetCommsStat() (*CommsStat, error) {
	b, err := c.Telemetry(IDGetCommsStat, LenCommsStat)
	if err != nil {
		return nil, err
	}
	return DecodeCommsStat(b), nil
}

func (c *Client) GetUnixTimeSaveConfig() (*UnixTimeSaveConfig, error) {
	b, err := c.Telemetry(IDGetUnixTimeSaveConfig, LenUnixTimeSaveConfig)
	if err != nil {
		return nil, err
	}
	return DecodeUnixTimeSaveConfig(b), nil
}

func (c *Client) GetSDFormatProgress() (*SDFormatProgress, error) {
	b, err := c.Telemetry(IDGetSDFormatProgress, LenSDFormatProgress)
	if err != nil {
		return nil, err
	}
	return DecodeSDFormatProgress(b), nil
}

func (c *Client) GetTCAck() (*TCAck, error) {
	b, err := c.Telemetry(IDGetTCAck, LenTCAck)
	if err != nil {
		return nil, err
	}
	return DecodeTCAck(b), nil
}

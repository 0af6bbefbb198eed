// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

// HoleMap marks received download packets, one bit per packet.
type HoleMap [holeMapSize]byte

// ============================================================
// File system telecommand encoders
// ============================================================

// EncodeEraseFile builds the erase telecommand. eraseAll ignores the
// type and counter and clears every file.
func EncodeEraseFile(fileType FileType, counter uint8, eraseAll bool) []byte {
	cmd := newCommand(IDEraseFile, 4)
	cmd[1] = uint8(fileType)
	cmd[2] = counter
	cmd[3] = boolByte(eraseAll)
	return cmd
}

// EncodeLoadFileDownloadBlock selects a file block for download.
func EncodeLoadFileDownloadBlock(fileType FileType, counter uint8, offset uint32, length uint16) []byte {
	cmd := newCommand(IDLoadFileDownloadBlock, 9)
	cmd[1] = uint8(fileType)
	cmd[2] = counter
	putUint32(cmd[3:], offset)
	putUint16(cmd[7:], length)
	return cmd
}

func EncodeInitiateFileUpload(dest UploadDest, blockSize uint8) []byte {
	cmd := newCommand(IDInitiateFileUpload, 3)
	cmd[1] = uint8(dest)
	cmd[2] = blockSize
	return cmd
}

// EncodeFileUploadPacket carries one upload chunk. Short chunks are zero
// padded; chunks longer than the packet window are rejected.
func EncodeFileUploadPacket(packetNo uint16, chunk []byte) ([]byte, error) {
	if len(chunk) > uploadChunkSize {
		return nil, StatusInvalidParameters
	}
	cmd := newCommand(IDFileUploadPacket, 3+uploadChunkSize)
	putUint16(cmd[1:], packetNo)
	copy(cmd[3:], chunk)
	return cmd, nil
}

func EncodeFinalizeUploadBlock(dest UploadDest, offset uint32, length uint16) []byte {
	cmd := newCommand(IDFinalizeUploadBlock, 8)
	cmd[1] = uint8(dest)
	putUint32(cmd[2:], offset)
	putUint16(cmd[6:], length)
	return cmd
}

func EncodeInitiateDownloadBurst(msgLength uint8, ignoreHoleMap bool) []byte {
	cmd := newCommand(IDInitiateDownloadBurst, 3)
	cmd[1] = msgLength
	cmd[2] = boolByte(ignoreHoleMap)
	return cmd
}

// EncodeSetHoleMap writes hole map num (1..8).
func EncodeSetHoleMap(num int, m HoleMap) ([]byte, error) {
	if num < 1 || num > holeMapCount {
		return nil, StatusInvalidParameters
	}
	cmd := newCommand(uint8(IDSetHoleMap+num-1), 1+holeMapSize)
	copy(cmd[1:], m[:])
	return cmd, nil
}

// ============================================================
// File system telecommands
// ============================================================

func (c *Client) EraseFile(fileType FileType, counter uint8, eraseAll bool) error {
	return c.Telecommand(EncodeEraseFile(fileType, counter, eraseAll))
}

func (c *Client) LoadFileDownloadBlock(fileType FileType, counter uint8, offset uint32, length uint16) error {
	return c.Telecommand(EncodeLoadFileDownloadBlock(fileType, counter, offset, length))
}

func (c *Client) AdvanceFileListReadPointer() error {
	return c.Telecommand(newCommand(IDAdvanceFileListReadPointer, 1))
}

func (c *Client) ResetFileListReadPointer() error {
	return c.Telecommand(newCommand(IDResetFileListReadPointer, 1))
}

func (c *Client) InitiateFileUpload(dest UploadDest, blockSize uint8) error {
	return c.Telecommand(EncodeInitiateFileUpload(dest, blockSize))
}

func (c *Client) FileUploadPacket(packetNo uint16, chunk []byte) error {
	return c.send(EncodeFileUploadPacket(packetNo, chunk))
}

func (c *Client) FinalizeUploadBlock(dest UploadDest, offset uint32, length uint16) error {
	return c.Telecommand(EncodeFinalizeUploadBlock(dest, offset, length))
}

func (c *Client) ResetUploadBlock() error {
	return c.Telecommand(newCommand(IDResetUploadBlock, 1))
}

func (c *Client) InitiateDownloadBurst(msgLength uint8, ignoreHoleMap bool) error {
	return c.Telecommand(EncodeInitiateDownloadBurst(msgLength, ignoreHoleMap))
}

func (c *Client) SetHoleMap(num int, m HoleMap) error {
	return c.send(EncodeSetHoleMap(num, m))
}

// UploadBlock streams data as consecutive upload packets starting at
// packet 0. It stops at the first failed exchange.
func (c *Client) UploadBlock(data []byte) error {
	var packetNo uint16
	for off := 0; off < len(data); off += uploadChunkSize {
		end := off + uploadChunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := c.FileUploadPacket(packetNo, data[off:end]); err != nil {
			return err
		}
		packetNo++
	}
	return nil
}

// ============================================================
// File system telemetry
// ============================================================

// FileDownloadBuffer is one downloaded packet.
type FileDownloadBuffer struct {
	PacketCounter uint16
	Data          [downloadPktSize]byte
}

func DecodeFileDownloadBuffer(b []byte) *FileDownloadBuffer {
	buf := &FileDownloadBuffer{PacketCounter: uint16At(b[0:])}
	copy(buf.Data[:], b[2:2+downloadPktSize])
	return buf
}

// FileDownloadBlockStat reports the block loaded for download.
type FileDownloadBlockStat struct {
	Ready      bool
	ParamError bool
	CRC16      uint16
	Length     uint16
}

func DecodeFileDownloadBlockStat(b []byte) *FileDownloadBlockStat {
	return &FileDownloadBlockStat{
		Ready:      b[0]&0x01 != 0,
		ParamError: b[0]&0x02 != 0,
		CRC16:      uint16At(b[1:]),
		Length:     uint16At(b[3:]),
	}
}

// FileInfo is the file list entry under the read pointer.
type FileInfo struct {
	Type     FileType
	Updating bool
	Counter  uint8
	Size     uint32
	Time     uint32
	CRC16    uint16
}

func DecodeFileInfo(b []byte) *FileInfo {
	return &FileInfo{
		Type:     FileType(b[0] & 0x0F),
		Updating: b[0]&0x10 != 0,
		Counter:  b[1],
		Size:     Uint32FromBytes(b[2:6]),
		Time:     Uint32FromBytes(b[6:10]),
		CRC16:    uint16At(b[10:]),
	}
}

// UploadStat reports upload initialisation or finalisation progress.
type UploadStat struct {
	Busy  bool
	Error bool
}

func DecodeUploadStat(b []byte) *UploadStat {
	return &UploadStat{Busy: b[0]&0x01 != 0, Error: b[0]&0x02 != 0}
}

func DecodeHoleMap(b []byte) *HoleMap {
	var m HoleMap
	copy(m[:], b)
	return &m
}

func (c *Client) GetFileDownloadBuffer() (*FileDownloadBuffer, error) {
	b, err := c.Telemetry(IDGetFileDownloadBuffer, LenFileDownloadBuffer)
	if err != nil {
		return nil, err
	}
	return DecodeFileDownloadBuffer(b), nil
}

func (c *Client) GetFileDownloadBlockStat() (*FileDownloadBlockStat, error) {
	b, err := c.Telemetry(IDGetFileDownloadBlockStat, LenFileDownloadBlockStat)
	if err != nil {
		return nil, err
	}
	return DecodeFileDownloadBlockStat(b), nil
}

func (c *Client) GetFileInfo() (*FileInfo, error) {
	b, err := c.Telemetry(IDGetFileInfo, LenFileInfo)
	if err != nil {
		return nil, err
	}
	return DecodeFileInfo(b), nil
}

func (c *Client) GetInitUploadStat() (*UploadStat, error) {
	b, err := c.Telemetry(IDGetInitUploadStat, LenInitUploadStat)
	if err != nil {
		return nil, err
	}
	return DecodeUploadStat(b), nil
}

func (c *Client) GetFinalizeUploadStat() (*UploadStat, error) {
	b, err := c.Telemetry(IDGetFinalizeUploadStat, LenFinalizeUploadStat)
	if err != nil {
		return nil, err
	}
	return DecodeUploadStat(b), nil
}

func (c *Client) GetUploadCRC16() (uint16, error) {
	b, err := c.Telemetry(IDGetUploadCRC16, LenUploadCRC16)
	if err != nil {
		return 0, err
	}
	return uint16At(b), nil
}

// GetHoleMap reads hole map num (1..8).
func (c *Client) GetHoleMap(num int) (*HoleMap, error) {
	if num < 1 || num > holeMapCount {
		c.stats.Rejected++
		return nil, StatusInvalidParameters
	}
	b, err := c.Telemetry(uint8(IDGetHoleMap+num-1), LenHoleMap)
	if err != nil {
		return nil, err
	}
	return DecodeHoleMap(b), nil
}

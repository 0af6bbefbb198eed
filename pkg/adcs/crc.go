// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import "fmt"

// CalculateCRC16 computes the CRC-16-CCITT checksum the device reports
// for uploaded and downloaded blocks.
func CalculateCRC16(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// VerifyUpload compares the local checksum of block with the upload CRC
// reported by the device.
func (c *Client) VerifyUpload(block []byte) error {
	remote, err := c.GetUploadCRC16()
	if err != nil {
		return err
	}
	local := CalculateCRC16(block)
	if local != remote {
		return fmt.Errorf("%w: upload crc 0x%04X, expected 0x%04X", StatusCRCError, remote, local)
	}
	return nil
}

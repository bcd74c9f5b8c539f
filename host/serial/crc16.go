package serial

// crc16 is the CRC-16/MCRF4XX checksum closing every counter reply. It is
// the same CRC Klipper-style MCUs already compute for their frames.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

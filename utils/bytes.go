package utils

import "encoding/binary"

// Uint16FromBytesLE decodes a little endian uint16 from the first two bytes.
func Uint16FromBytesLE(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// BytesFromUint16LE encodes v as two little endian bytes.
func BytesFromUint16LE(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

// Int16FromBytesLE decodes a little endian two's complement int16.
func Int16FromBytesLE(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

// Uint32FromBytesLE decodes a little endian uint32 from the first four bytes.
func Uint32FromBytesLE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// BytesFromUint32LE encodes v as four little endian bytes.
func BytesFromUint32LE(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// Int32FromBytesLE decodes a little endian two's complement int32.
func Int32FromBytesLE(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

// Uint64FromBytesLE decodes a little endian uint64 from the first eight bytes.
func Uint64FromBytesLE(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// BytesFromUint64LE encodes v as eight little endian bytes.
func BytesFromUint64LE(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

// UintFromBytesLE decodes up to four little endian bytes into a uint32.
func UintFromBytesLE(b []byte) uint32 {
	var v uint32
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}

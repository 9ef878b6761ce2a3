// Package endian provides byte order detection and byte-swap utilities
// for binary log decoding. The swap helpers return the swapped value;
// they do not modify their argument.
//
// EndianEngine combines ByteOrder and AppendByteOrder so the same value
// can be used both to parse a fixed header and to append its encoded
// fields. A log handle also needs, once it has detected that the file
// was written on a host of the opposite byte order, per-field swap
// helpers for the job record, the record map, and module counters; those
// live here alongside the engine.
package endian

import (
	"encoding/binary"
	"math"
	"math/bits"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	// Check the first byte at the lowest memory address
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// NativeEngine returns the engine matching the host's byte order. Logs
// are always written using this engine; a reader uses it to compute the
// native-order magic number before it knows whether the file needs
// swapping.
func NativeEngine() EndianEngine {
	if IsNativeBigEndian() {
		return GetBigEndianEngine()
	}

	return GetLittleEndianEngine()
}

// SwapU16 reverses the byte order of v.
func SwapU16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// SwapU32 reverses the byte order of v.
func SwapU32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// SwapU64 reverses the byte order of v.
func SwapU64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// SwapI32 reverses the byte order of v, treating it as a signed 32-bit integer.
func SwapI32(v int32) int32 { return int32(SwapU32(uint32(v))) }

// SwapI64 reverses the byte order of v, treating it as a signed 64-bit integer.
func SwapI64(v int64) int64 { return int64(SwapU64(uint64(v))) }

// SwapF64 reverses the byte order of the IEEE-754 bit pattern underlying v.
func SwapF64(v float64) float64 {
	return math.Float64frombits(SwapU64(math.Float64bits(v)))
}

// Package word contains endian-safe word access and alignment helpers shared
// by the heap packages. Header and footer words are little-endian uint32;
// free-list links are little-endian uint64 offsets.
package word

import "encoding/binary"

const (
	// Size is the width of a header/footer word in bytes.
	Size = 4

	// DSize is the double-word width. Block sizes and payload addresses are
	// aligned to this granularity.
	DSize = 8

	alignMask = DSize - 1
)

// Align8 returns n rounded up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + alignMask) & ^alignMask
}

// AlignUp returns n rounded up to the next multiple of step.
// step must be a power of two.
func AlignUp(n, step int) int {
	return (n + step - 1) & ^(step - 1)
}

// U32 reads a little-endian uint32 at off.
func U32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

// PutU32 writes a little-endian uint32 at off.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

// U64 reads a little-endian uint64 at off.
func U64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off:])
}

// PutU64 writes a little-endian uint64 at off.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:], v)
}

// Package endian provides the byte order engine used for slot headers and
// reference payloads.
//
// Slot headers never leave process memory, so pixstore always uses
// little-endian encoding. The big-endian engine exists for callers that
// serialize headers for inspection on other hosts.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// engines are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine encodes in little-endian order.
func IsLittleEndian(engine EndianEngine) bool {
	var probe [2]byte
	engine.PutUint16(probe[:], 0x0102)

	return probe[0] == 0x02
}

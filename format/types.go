package format

import (
	"fmt"
	"strings"
)

// CompressionType identifies how a slot payload is compressed.
//
// The value is stored in three bits of the slot flags, so it must stay below 8.
// The zero value means no compression, which keeps an empty flag set meaningful.
type CompressionType uint8

const (
	CompressionNone    CompressionType = 0x0 // CompressionNone stores raw bytes.
	CompressionRLEDiff CompressionType = 0x1 // CompressionRLEDiff is the delta run-length codec.
	CompressionZlib    CompressionType = 0x2 // CompressionZlib is zlib (deflate) compression.
	CompressionLZ4     CompressionType = 0x3 // CompressionLZ4 is LZ4 block compression.
	CompressionS2      CompressionType = 0x4 // CompressionS2 is S2 block compression.
	CompressionZstd    CompressionType = 0x5 // CompressionZstd is Zstandard compression.

	// MaxCompressionType is the largest value that fits in the flag field.
	MaxCompressionType CompressionType = 0x7
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionRLEDiff:
		return "RLEDiff"
	case CompressionZlib:
		return "Zlib"
	case CompressionLZ4:
		return "LZ4"
	case CompressionS2:
		return "S2"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is a known compression type.
func (c CompressionType) IsValid() bool {
	return c <= CompressionZstd
}

// ParseCompressionType parses a compression name as produced by String.
// Matching is case-insensitive.
func ParseCompressionType(name string) (CompressionType, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return CompressionNone, nil
	case "rlediff", "rle":
		return CompressionRLEDiff, nil
	case "zlib":
		return CompressionZlib, nil
	case "lz4":
		return CompressionLZ4, nil
	case "s2":
		return CompressionS2, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression type: %q", name)
	}
}

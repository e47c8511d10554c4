package section

import (
	"strings"

	"github.com/arloliu/pixstore/format"
)

// Flag is the packed flag word stored in every slot header.
//
// Bit 0 marks the slot in use, bit 1 marks a reference slot whose payload is
// another storage ID, bit 2 selects the bitmap sub-mode of the RLE diff codec,
// bit 3 is reserved and bits 4-6 hold the compression kind.
// A free slot has all bits cleared.
type Flag uint16

// Flags recognized by the storage engine.
const (
	FlagUsed      Flag = UsedMask
	FlagReference Flag = ReferenceMask
	FlagBitmap    Flag = BitmapMask
)

// FlagCompression returns a flag word selecting the given compression kind.
func FlagCompression(c format.CompressionType) Flag {
	return Flag(uint16(c)<<compressionShift) & CompressionMask
}

// IsFree reports whether the flag word describes a free slot.
func (f Flag) IsFree() bool {
	return f == 0
}

// IsUsed returns whether the in-use bit is set.
func (f Flag) IsUsed() bool {
	return f&UsedMask != 0
}

// IsReference returns whether the slot payload is a reference to another record.
func (f Flag) IsReference() bool {
	return f&ReferenceMask != 0
}

// IsBitmap returns whether the bitmap sub-mode is selected.
func (f Flag) IsBitmap() bool {
	return f&BitmapMask != 0
}

// HasInternal reports whether any engine-only bit is set.
func (f Flag) HasInternal() bool {
	return f&InternalMask != 0
}

// Compression returns the compression kind from bits 4-6.
func (f Flag) Compression() format.CompressionType {
	return format.CompressionType((f & CompressionMask) >> compressionShift)
}

// WithCompression returns f with the compression kind replaced.
func (f Flag) WithCompression(c format.CompressionType) Flag {
	return f&^CompressionMask | FlagCompression(c)
}

// WithoutCompression returns f with the compression kind and bitmap bit cleared.
func (f Flag) WithoutCompression() Flag {
	return f &^ (CompressionMask | BitmapMask)
}

func (f Flag) String() string {
	if f.IsFree() {
		return "free"
	}

	parts := make([]string, 0, 4)
	if f.IsUsed() {
		parts = append(parts, "used")
	}
	if f.IsReference() {
		parts = append(parts, "ref")
	}
	if c := f.Compression(); c != format.CompressionNone {
		parts = append(parts, c.String())
	}
	if f.IsBitmap() {
		parts = append(parts, "bitmap")
	}

	return strings.Join(parts, "|")
}

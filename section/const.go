package section

const (
	// Bit masks of the slot flag word.
	UsedMask        = 0x0001 // Mask for the in-use bit (bit 0)
	ReferenceMask   = 0x0002 // Mask for the reference bit (bit 1)
	BitmapMask      = 0x0004 // Mask for the bitmap sub-mode bit (bit 2)
	ReservedMask    = 0x0008 // Mask for the reserved bit (bit 3)
	CompressionMask = 0x0070 // Mask for the compression kind (bits 4-6)

	compressionShift = 4

	// InternalMask covers the bits only the storage engine may set.
	InternalMask = UsedMask | ReferenceMask | ReservedMask
)

// Slot layout sizes in bytes.
const (
	HeaderSize = 16 // fixed slot header size
	Alignment  = 16 // payload alignment inside a block

	RefPayloadSize = 4 // size of a reference slot payload (one storage ID)
)

// UsableSize returns the payload bytes a slot of the given stored size
// occupies, rounded up to Alignment.
func UsableSize(size int) int {
	return (size + Alignment - 1) &^ (Alignment - 1)
}

// FullSize returns the bytes a slot of the given stored size occupies in its
// block, header included.
func FullSize(size int) int {
	return UsableSize(size) + HeaderSize
}

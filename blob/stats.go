package blob

// Stats is a point-in-time summary of a Storage.
type Stats struct {
	// Blocks is the number of allocated blocks.
	Blocks int
	// Slots is the number of live slots, references included.
	Slots int
	// UsedMemory is the total size of all block memory in bytes.
	UsedMemory int64
	// FreeBytes is the usable space of all free slots.
	FreeBytes int64

	// CompressedBytes is the stored size of every record that was compressed.
	CompressedBytes int64
	// UncompressedBytes is the original size of the same records.
	UncompressedBytes int64

	// Defragmentations counts block compactions, including those of released
	// blocks.
	Defragmentations int

	DedupHits       int
	DedupCollisions int
}

// CompressionRatio returns compressed size / original size over all
// compressed stores. Values below 1.0 mean space was saved.
//
// Returns 0.0 when nothing was compressed.
func (s Stats) CompressionRatio() float64 {
	if s.UncompressedBytes == 0 {
		return 0.0
	}

	return float64(s.CompressedBytes) / float64(s.UncompressedBytes)
}

// SpaceSavings returns the space saved by compression as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.UncompressedBytes == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

package blob

import (
	"github.com/arloliu/pixstore/format"
	"github.com/arloliu/pixstore/section"
)

// Block and slot table sizing.
const (
	// PageSize is the allocation granularity of block memory.
	PageSize = 4096
	// DefaultBlockSize is the payload capacity requested for a new block.
	DefaultBlockSize = 256 * 1024
	// MaxBlockSize is the largest value accepted by WithDefaultBlockSize.
	MaxBlockSize = 1 << 30

	// SlotsBatch is the number of slot table entries added at a time.
	SlotsBatch = 1024
	// MaxSlotsPerBlock is the slot table capacity of one block.
	MaxSlotsPerBlock = slotLimit - 1

	// BlocksBatch is the number of block entries added at a time.
	BlocksBatch = 16
	// MaxBlocks is the number of blocks one storage can address.
	MaxBlocks = blockLimit - 1
)

// Compression defaults.
const (
	// CompressionFloor is the largest record size stored without compression
	// regardless of the requested kind.
	CompressionFloor = 8

	// DefaultBitmapThreshold applies when Store is called with threshold 0.
	DefaultBitmapThreshold = 0x7F
	// DefaultBitmapValue applies when Fetch is called with bitmap value 0.
	DefaultBitmapValue = 0xFF
)

// Flag is the store flag word; see section.Flag.
type Flag = section.Flag

// FlagBitmap selects the lossy bitmap mode of the RLE diff codec.
const FlagBitmap = section.FlagBitmap

// FlagCompression returns a store flag word selecting compression kind c.
func FlagCompression(c format.CompressionType) Flag {
	return section.FlagCompression(c)
}

const (
	headerSize = section.HeaderSize

	// maxRefDepth bounds reference chains followed by Fetch.
	maxRefDepth = 4
)

// Package blob implements the record storage engine.
//
// A Storage keeps variable-length byte records, typically image channel
// planes, inside large blocks of memory and hands out 32-bit IDs for them.
//
// # Blocks and Slots
//
// Each block is a contiguous region tiled by slots. A slot is a 16-byte
// header (see section.SlotHeader) followed by its payload padded to 16 bytes.
// Free slots are split on allocation, merged with free neighbours when a
// request does not fit, and the whole block is compacted when no run of free
// slots is large enough. A slot table gives every slot a stable index, so an
// ID survives compaction even though the bytes move.
//
// Blocks are allocated on demand, sized to the configured block size or to
// the record, and released as soon as their last record is forgotten.
//
// # Compression
//
// A record may be stored with one of the compression kinds of the format
// package:
//
//	id, err := s.Store(plane, blob.FlagCompression(format.CompressionRLEDiff), 0)
//
// CompressionRLEDiff is a delta run-length codec for smoothly varying data.
// With FlagBitmap it becomes a lossy two-level codec: bytes above a threshold
// decode to the value passed to Fetch, all others to 0. The general purpose
// kinds use the codecs of the compress package. Data the codec cannot shrink
// is stored raw.
//
// # Aliasing
//
// Dup returns a second ID for a record without copying it. The record keeps
// an alias count and is freed when the last ID is forgotten. With WithDedup,
// Store itself aliases records whose bytes are already present.
//
// # Default Instance
//
// All Storage methods accept a nil receiver standing for the process-wide
// instance returned by Default.
package blob

package section

import (
	"github.com/arloliu/pixstore/endian"
	"github.com/arloliu/pixstore/errs"
)

// SlotHeader is the fixed-size header in front of every slot payload.
//
// Layout (16 bytes):
//   - byte 0-1: Flags
//   - byte 2-3: RefCount
//   - byte 4-7: Size
//   - byte 8-11: UncompressedSize
//   - byte 12-15: Index
type SlotHeader struct {
	// Flags describes the slot state and payload encoding. Zero means free.
	Flags Flag
	// RefCount is the number of reference slots aliasing this payload.
	// It is only meaningful for reference targets.
	RefCount uint16
	// Size is the number of payload bytes actually stored. For a free slot it
	// is the usable hole size.
	Size uint32
	// UncompressedSize is the logical size of the record (0 for free slots).
	UncompressedSize uint32
	// Index is the slot's own position in the block slot table.
	Index uint32
}

// Parse decodes the header from the first HeaderSize bytes of data.
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is shorter than HeaderSize
func (h *SlotHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flags = Flag(engine.Uint16(data[0:2]))
	h.RefCount = engine.Uint16(data[2:4])
	h.Size = engine.Uint32(data[4:8])
	h.UncompressedSize = engine.Uint32(data[8:12])
	h.Index = engine.Uint32(data[12:16])

	return nil
}

// Put encodes the header into the first HeaderSize bytes of data.
// Panics if data is shorter than HeaderSize.
func (h *SlotHeader) Put(data []byte, engine endian.EndianEngine) {
	_ = data[HeaderSize-1]

	engine.PutUint16(data[0:2], uint16(h.Flags))
	engine.PutUint16(data[2:4], h.RefCount)
	engine.PutUint32(data[4:8], h.Size)
	engine.PutUint32(data[8:12], h.UncompressedSize)
	engine.PutUint32(data[12:16], h.Index)
}

// Bytes serializes the header into a new HeaderSize byte slice.
func (h *SlotHeader) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, HeaderSize)
	h.Put(b, engine)

	return b
}

// UsableSize returns the aligned payload size the slot spans.
func (h *SlotHeader) UsableSize() int {
	return UsableSize(int(h.Size))
}

// FullSize returns the bytes the slot spans in its block, header included.
func (h *SlotHeader) FullSize() int {
	return FullSize(int(h.Size))
}

// ParseSlotHeader parses a SlotHeader from a byte slice.
func ParseSlotHeader(data []byte, engine endian.EndianEngine) (SlotHeader, error) {
	var h SlotHeader
	if err := h.Parse(data, engine); err != nil {
		return SlotHeader{}, err
	}

	return h, nil
}

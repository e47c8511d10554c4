package blob

import "strconv"

// ID is a compact handle to a stored record.
//
// The high 18 bits hold the 1-based block number and the low 14 bits the
// 1-based slot number inside that block. Slot numbers are stable for the life
// of a record, even when defragmentation moves its bytes.
type ID uint32

// NoID is the invalid handle. It never addresses a record.
const NoID ID = 0

const (
	slotBits  = 14
	slotLimit = 1 << slotBits
	slotMask  = slotLimit - 1

	blockBits  = 18
	blockLimit = 1 << blockBits
)

// MakeID packs a 1-based block number and 1-based slot number into an ID.
// It returns NoID if either is out of range.
func MakeID(block, slot int) ID {
	if block <= 0 || block >= blockLimit || slot <= 0 || slot >= slotLimit {
		return NoID
	}

	return ID(uint32(block)<<slotBits | uint32(slot))
}

// IsValid reports whether id has a non-zero block and slot part.
func (id ID) IsValid() bool {
	return id>>slotBits != 0 && id&slotMask != 0
}

// BlockIndex returns the 0-based block index, or -1 for an invalid ID.
func (id ID) BlockIndex() int {
	if !id.IsValid() {
		return -1
	}

	return int(id>>slotBits) - 1
}

// SlotIndex returns the 0-based slot index, or -1 for an invalid ID.
func (id ID) SlotIndex() int {
	if !id.IsValid() {
		return -1
	}

	return int(id&slotMask) - 1
}

func (id ID) String() string {
	if !id.IsValid() {
		return "none"
	}

	return strconv.Itoa(int(id>>slotBits)) + ":" + strconv.Itoa(int(id&slotMask))
}

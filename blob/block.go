package blob

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/pixstore/endian"
	"github.com/arloliu/pixstore/errs"
	"github.com/arloliu/pixstore/section"
)

var engine = endian.GetLittleEndianEngine()

// emptySlot marks an unassigned slot table entry.
const emptySlot = -1

// block is one contiguous memory region subdivided into slots.
//
// Slots tile mem completely in address order: the slot after the one at
// offset off starts at off+FullSize(size). The slot table maps stable slot
// indexes to current offsets; offsets change only during defragment.
//
// Invariants:
//   - totalFree is the sum of the usable sizes of all free slots
//   - every non-empty entry i holds an offset whose header index is i
//   - lastUsed is the highest non-empty entry, or -1
//   - unused counts empty entries below lastUsed
//   - used counts slots with non-zero flags
type block struct {
	mem       []byte
	slots     []int32
	totalFree int
	lastUsed  int
	firstFree int
	unused    int
	used      int
	defrags   int

	num    int // 1-based block number, for logging
	logger *slog.Logger
}

// newBlock formats mem as a block holding a single free slot.
func newBlock(mem []byte, num int, logger *slog.Logger) *block {
	b := &block{
		mem:       mem,
		slots:     make([]int32, SlotsBatch),
		totalFree: len(mem) - headerSize,
		num:       num,
		logger:    logger,
	}
	for i := range b.slots {
		b.slots[i] = emptySlot
	}

	h := section.SlotHeader{Size: uint32(b.totalFree)}
	h.Put(mem, engine)
	b.slots[0] = 0

	return b
}

func (b *block) header(off int) section.SlotHeader {
	var h section.SlotHeader
	_ = h.Parse(b.mem[off:], engine)

	return h
}

func (b *block) putHeader(off int, h *section.SlotHeader) {
	h.Put(b.mem[off:], engine)
}

// payload returns the stored bytes of the slot at off.
func (b *block) payload(off int, h *section.SlotHeader) []byte {
	start := off + headerSize
	return b.mem[start : start+int(h.Size)]
}

// find returns the offset of the in-use slot at index idx.
func (b *block) find(idx int) (int, bool) {
	if idx < 0 || idx >= len(b.slots) || b.slots[idx] == emptySlot {
		return 0, false
	}

	off := int(b.slots[idx])
	if b.header(off).Flags.IsFree() {
		return 0, false
	}

	return off, true
}

// occupy bookkeeps the assignment of the previously empty entry idx.
func (b *block) occupy(idx int) {
	if idx > b.lastUsed {
		b.unused += idx - b.lastUsed - 1
		b.lastUsed = idx
	} else {
		b.unused--
	}
}

// release empties the table entry idx.
func (b *block) release(idx int) {
	b.slots[idx] = emptySlot
	if idx != b.lastUsed {
		b.unused++
		return
	}

	i := idx - 1
	for i >= 0 && b.slots[i] == emptySlot {
		b.unused--
		i--
	}
	b.lastUsed = i
}

// growSlots extends the slot table by one batch. It fails at MaxSlotsPerBlock.
func (b *block) growSlots() bool {
	n := min(len(b.slots)+SlotsBatch, MaxSlotsPerBlock)
	if n <= len(b.slots) {
		return false
	}

	for range n - len(b.slots) {
		b.slots = append(b.slots, emptySlot)
	}

	return true
}

// allocIndex picks a table entry for a new slot.
//
// Appending after lastUsed is preferred while the table has few holes;
// otherwise the first hole is reused, and the table grows only when full.
func (b *block) allocIndex() (int, bool) {
	idx := -1
	if b.unused < len(b.slots)/10 && b.lastUsed < len(b.slots)-1 {
		idx = b.lastUsed + 1
	} else {
		for i, off := range b.slots {
			if off == emptySlot {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = len(b.slots)
			if !b.growSlots() {
				return 0, false
			}
		}
	}

	b.occupy(idx)

	return idx, true
}

// join merges the free slots following from, up to and including to, into
// the free slot at from.
func (b *block) join(from, to int) {
	h := b.header(from)
	cur := from + h.FullSize()
	for {
		next := b.header(cur)
		h.Size += uint32(headerSize + next.UsableSize())
		b.totalFree += headerSize
		b.release(int(next.Index))
		if cur >= to {
			break
		}
		cur += next.FullSize()
	}
	b.putHeader(from, &h)
}

// selectSlot finds a free slot with at least r usable bytes, coalescing
// adjacent free slots or defragmenting the block when necessary.
func (b *block) selectSlot(r int) (int, bool) {
	for i := b.firstFree; i <= b.lastUsed; i++ {
		if b.slots[i] == emptySlot {
			continue
		}

		off := int(b.slots[i])
		need := r
		for cur := off; cur < len(b.mem); {
			h := b.header(cur)
			if !h.Flags.IsFree() {
				break
			}

			usable := h.UsableSize()
			if usable >= r {
				return cur, true
			}
			if usable >= need {
				b.join(off, cur)
				return off, true
			}
			need -= headerSize + usable
			cur += headerSize + usable
		}
	}

	b.defragment()

	i := b.firstFree
	if i > b.lastUsed || b.slots[i] == emptySlot {
		return 0, false
	}
	off := int(b.slots[i])
	if h := b.header(off); !h.Flags.IsFree() || h.UsableSize() < r {
		return 0, false
	}

	return off, true
}

// split shrinks the free slot at off to r usable bytes and turns the rest
// into a new free slot.
func (b *block) split(off, r int) bool {
	h := b.header(off)
	remainder := h.UsableSize() - r - headerSize

	idx, ok := b.allocIndex()
	if !ok {
		return false
	}

	nextOff := off + headerSize + r
	next := section.SlotHeader{Size: uint32(remainder), Index: uint32(idx)}
	b.putHeader(nextOff, &next)
	b.slots[idx] = int32(nextOff)

	h.Size = uint32(r)
	b.putHeader(off, &h)

	b.totalFree -= headerSize
	b.firstFree = min(b.firstFree, idx)

	return true
}

// store writes payload into a free slot and returns the slot index.
func (b *block) store(payload []byte, size int, flags section.Flag) (int, bool) {
	r := section.UsableSize(len(payload))

	off, ok := b.selectSlot(r)
	if !ok {
		return 0, false
	}

	h := b.header(off)
	if h.UsableSize() >= r+headerSize {
		if !b.split(off, r) {
			return 0, false
		}
	}

	h = section.SlotHeader{
		Flags:            flags | section.FlagUsed,
		Size:             uint32(len(payload)),
		UncompressedSize: uint32(size),
		Index:            h.Index,
	}
	b.putHeader(off, &h)
	copy(b.mem[off+headerSize:], payload)

	b.totalFree -= r
	b.used++

	idx := int(h.Index)
	if idx == b.firstFree {
		i := idx + 1
		for ; i < b.lastUsed; i++ {
			if b.slots[i] != emptySlot && b.header(int(b.slots[i])).Flags.IsFree() {
				break
			}
		}
		b.firstFree = i
	}

	return idx, true
}

// free turns the in-use slot at index idx into a free slot.
func (b *block) free(idx int) {
	off := int(b.slots[idx])
	h := b.header(off)
	usable := h.UsableSize()

	h = section.SlotHeader{Size: uint32(usable), Index: h.Index}
	b.putHeader(off, &h)

	b.totalFree += usable
	b.firstFree = min(b.firstFree, idx)
	b.used--
}

// defragment moves all in-use slots to the start of the block, keeping their
// indexes, and coalesces the remaining space into one trailing free slot.
func (b *block) defragment() {
	firstEmpty := -1
	for i := 0; i <= b.lastUsed; i++ {
		if b.slots[i] != emptySlot && b.header(int(b.slots[i])).Flags.IsFree() {
			b.slots[i] = emptySlot
		}
		if b.slots[i] == emptySlot && firstEmpty < 0 {
			firstEmpty = i
		}
	}

	b.lastUsed, b.unused = -1, 0
	for i := range b.slots {
		if b.slots[i] != emptySlot {
			b.unused += i - b.lastUsed - 1
			b.lastUsed = i
		}
	}

	brk := 0
	for off := 0; off < len(b.mem); {
		h := b.header(off)
		full := h.FullSize()
		if !h.Flags.IsFree() {
			if int(h.Index) >= len(b.slots) {
				b.violation(fmt.Sprintf("slot header index %d out of range", h.Index), int(h.Index))
			}
			if off != brk {
				copy(b.mem[brk:brk+full], b.mem[off:off+full])
				b.slots[h.Index] = int32(brk)
			}
			brk += full
		}
		off += full
	}

	b.totalFree = 0
	b.firstFree = b.lastUsed + 1
	if rem := len(b.mem) - brk; rem >= headerSize {
		idx := firstEmpty
		if idx < 0 {
			idx = b.lastUsed + 1
			if idx >= len(b.slots) && !b.growSlots() {
				b.violation("no slot index for free space", idx)
			}
		}
		b.occupy(idx)

		h := section.SlotHeader{Size: uint32(rem - headerSize), Index: uint32(idx)}
		b.putHeader(brk, &h)
		b.slots[idx] = int32(brk)

		b.totalFree = rem - headerSize
		b.firstFree = idx
	}

	b.defrags++
	b.logger.Debug("block defragmented",
		"block", b.num,
		"free", b.totalFree,
		"used_slots", b.used,
		"last_used", b.lastUsed,
	)

	b.checkIntegrity()
}

// checkIntegrity verifies that every assigned slot records its own index.
func (b *block) checkIntegrity() {
	for i := 0; i <= b.lastUsed; i++ {
		if b.slots[i] == emptySlot {
			continue
		}
		if h := b.header(int(b.slots[i])); int(h.Index) != i {
			b.violation(fmt.Sprintf("slot header index %d", h.Index), i)
		}
	}
}

func (b *block) violation(msg string, idx int) {
	b.logger.Error("storage integrity check failed",
		"block", b.num,
		"slot", idx,
		"reason", msg,
	)
	panic(fmt.Errorf("%w: block %d slot %d: %s", errs.ErrIntegrityViolation, b.num, idx, msg))
}

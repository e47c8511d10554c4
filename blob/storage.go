package blob

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/arloliu/pixstore/compress"
	"github.com/arloliu/pixstore/encoding"
	"github.com/arloliu/pixstore/errs"
	"github.com/arloliu/pixstore/format"
	"github.com/arloliu/pixstore/internal/dedup"
	"github.com/arloliu/pixstore/internal/hash"
	"github.com/arloliu/pixstore/internal/options"
	"github.com/arloliu/pixstore/internal/pool"
	"github.com/arloliu/pixstore/section"
)

// Storage is a self-managed store of binary records.
//
// Records are packed into blocks of memory and addressed by ID. A Storage is
// not safe for concurrent use; callers sharing one across goroutines must
// serialize access.
//
// All methods accept a nil receiver, which stands for the process-wide
// default storage returned by Default.
type Storage struct {
	blocks  []*block
	cfg     *StorageConfig
	logger  *slog.Logger
	alloc   allocator
	scratch *pool.ByteBuffer
	dedup   *dedup.Index

	usedMemory        int64
	compressedBytes   int64
	uncompressedBytes int64
	releasedDefrags   int
	closed            bool
}

// location is a resolved slot.
type location struct {
	blk *block
	bi  int
	si  int
	off int
	hdr section.SlotHeader
}

// New creates an empty Storage. No memory is allocated until the first Store.
//
// Returns an error wrapping errs.ErrInvalidOption if an option is rejected.
func New(opts ...Option) (*Storage, error) {
	cfg := newStorageConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	s := &Storage{
		cfg:     cfg,
		logger:  cfg.logger,
		alloc:   heapAllocator{},
		scratch: pool.NewByteBuffer(pool.PageSize),
	}

	if cfg.mmap {
		if mmapSupported {
			s.alloc = newMmapAllocator()
		} else {
			s.logger.Warn("mmap blocks not supported on this platform, using heap")
		}
	}

	if cfg.dedup {
		s.dedup = dedup.NewIndex()
	}

	return s, nil
}

func (s *Storage) orDefault() *Storage {
	if s == nil {
		return Default()
	}

	return s
}

// Store copies data into the storage and returns its ID.
//
// flags selects an optional compression kind (FlagCompression) and, for
// format.CompressionRLEDiff, the lossy bitmap mode (FlagBitmap). In bitmap
// mode bytes above threshold are kept as "on" and the rest as "off";
// threshold 0 selects DefaultBitmapThreshold. Records of CompressionFloor
// bytes or less, and records the codec cannot shrink, are stored raw.
//
// Error conditions:
//   - errs.ErrEmptyData for empty data
//   - errs.ErrInvalidFlags for internal flag bits or an unknown compression kind
//   - errs.ErrOutOfMemory, errs.ErrTooManyBlocks or errs.ErrNoSpace when no
//     block can host the record; the storage is left unchanged
func (s *Storage) Store(data []byte, flags Flag, threshold uint8) (ID, error) {
	s = s.orDefault()
	if s.closed {
		return NoID, errs.ErrClosed
	}

	if len(data) == 0 {
		return NoID, errs.ErrEmptyData
	}

	if flags.HasInternal() || !flags.Compression().IsValid() {
		return NoID, fmt.Errorf("%w: %s", errs.ErrInvalidFlags, flags)
	}

	if flags.Compression() != format.CompressionRLEDiff {
		flags &^= FlagBitmap
	}

	// Bitmap records do not hold the caller's bytes, so they never dedup.
	deduping := s.dedup != nil && !flags.IsBitmap()

	var sum uint64
	if deduping {
		sum = hash.Content(uint16(flags), data)
		if id, ok := s.findDuplicate(sum, data); ok {
			return id, nil
		}
	}

	payload, flags := s.encode(data, flags, threshold)

	id, err := s.put(payload, len(data), flags)
	if err != nil {
		return NoID, err
	}

	if deduping {
		s.dedup.Track(sum, uint32(id))
	}

	return id, nil
}

// findDuplicate returns a new reference to a live record holding exactly
// data, if the dedup index knows one.
func (s *Storage) findDuplicate(sum uint64, data []byte) (ID, bool) {
	cand, ok := s.dedup.Lookup(sum)
	if !ok {
		return NoID, false
	}

	id := ID(cand)
	size := s.Size(id)
	if size != len(data) {
		s.dedup.Drop(sum, size != 0)
		return NoID, false
	}

	bb := pool.GetVerifyBuffer()
	defer pool.PutVerifyBuffer(bb)

	buf := bb.Resize(size)
	if _, err := s.Fetch(id, buf, 0, 0); err != nil || !bytes.Equal(buf, data) {
		s.dedup.Drop(sum, err == nil)
		return NoID, false
	}

	dup, err := s.Dup(id)
	if err != nil {
		s.logger.Debug("dedup candidate not aliased", "id", id, "error", err)
		return NoID, false
	}
	s.dedup.Hit()

	return dup, true
}

// encode compresses data as selected by flags and returns the payload to
// store along with the flags describing it.
func (s *Storage) encode(data []byte, flags Flag, threshold uint8) ([]byte, Flag) {
	kind := flags.Compression()
	if kind == format.CompressionNone || len(data) <= CompressionFloor {
		return data, flags.WithoutCompression()
	}

	var (
		out []byte
		err error
	)

	if kind == format.CompressionRLEDiff {
		out, err = s.encodeRLE(data, flags.IsBitmap(), threshold)
	} else {
		var codec compress.Codec
		if codec, err = compress.GetCodec(kind); err == nil {
			out, err = codec.Compress(data)
		}
	}

	if err != nil {
		s.logger.Debug("storing record uncompressed",
			"compression", kind,
			"size", len(data),
			"reason", err,
		)

		return data, flags.WithoutCompression()
	}

	s.compressedBytes += int64(len(out))
	s.uncompressedBytes += int64(len(data))

	return out, flags
}

// encodeRLE runs the delta-RLE codec into the scratch buffer.
func (s *Storage) encodeRLE(data []byte, bitmap bool, threshold uint8) ([]byte, error) {
	dst := s.scratch.Resize(len(data))

	var (
		n   int
		err error
	)

	if bitmap {
		if threshold == 0 {
			threshold = DefaultBitmapThreshold
		}
		n, err = encoding.EncodeBitmap(dst, data, threshold)
	} else {
		n, err = encoding.EncodeDelta(dst, data)
	}

	if err != nil {
		return nil, err
	}

	if n >= len(data) {
		return nil, errs.ErrIncompressible
	}

	return dst[:n], nil
}

// put stores an encoded payload in the first block with room, allocating a
// new block when none has.
func (s *Storage) put(payload []byte, size int, flags Flag) (ID, error) {
	r := section.UsableSize(len(payload))

	for bi, blk := range s.blocks {
		if blk == nil || blk.totalFree < r || blk.lastUsed >= MaxSlotsPerBlock-1 {
			continue
		}

		if si, ok := blk.store(payload, size, flags); ok {
			return MakeID(bi+1, si+1), nil
		}
	}

	bi, err := s.addBlock(r)
	if err != nil {
		return NoID, err
	}

	si, ok := s.blocks[bi].store(payload, size, flags)
	if !ok {
		s.releaseBlock(bi)
		return NoID, fmt.Errorf("%w: %d bytes in a new block", errs.ErrNoSpace, len(payload))
	}

	return MakeID(bi+1, si+1), nil
}

// addBlock allocates a block able to hold r usable bytes and returns its index.
func (s *Storage) addBlock(r int) (int, error) {
	size := ((headerSize+max(s.cfg.blockSize, r+headerSize))/PageSize + 1) * PageSize

	if limit := s.cfg.memoryLimit; limit > 0 && s.usedMemory+int64(size) > limit {
		s.logger.Warn("block allocation exceeds memory limit",
			"size", size,
			"used", s.usedMemory,
			"limit", limit,
		)

		return 0, fmt.Errorf("%w: %d bytes needed, %d of %d in use", errs.ErrOutOfMemory, size, s.usedMemory, limit)
	}

	bi := -1
	for i, blk := range s.blocks {
		if blk == nil {
			bi = i
			break
		}
	}

	if bi < 0 {
		if len(s.blocks) >= MaxBlocks {
			s.logger.Warn("block table full", "blocks", len(s.blocks))
			return 0, errs.ErrTooManyBlocks
		}

		bi = len(s.blocks)
		n := min(len(s.blocks)+BlocksBatch, MaxBlocks)
		s.blocks = append(s.blocks, make([]*block, n-len(s.blocks))...)
	}

	mem, err := s.alloc.alloc(size)
	if err != nil {
		s.logger.Warn("block allocation failed", "size", size, "allocator", s.alloc.name(), "error", err)
		return 0, fmt.Errorf("%w: %w", errs.ErrOutOfMemory, err)
	}

	s.blocks[bi] = newBlock(mem, bi+1, s.logger)
	s.usedMemory += int64(size)

	s.logger.Debug("block allocated",
		"block", bi+1,
		"size", size,
		"allocator", s.alloc.name(),
		"used_memory", s.usedMemory,
	)

	return bi, nil
}

// releaseBlock returns the memory of block bi and clears its entry.
func (s *Storage) releaseBlock(bi int) {
	blk := s.blocks[bi]
	s.blocks[bi] = nil
	s.usedMemory -= int64(len(blk.mem))
	s.releasedDefrags += blk.defrags

	if err := s.alloc.free(blk.mem); err != nil {
		s.logger.Warn("block release failed", "block", bi+1, "error", err)
	}

	s.logger.Debug("block released", "block", bi+1, "size", len(blk.mem), "used_memory", s.usedMemory)
}

// locate finds the slot addressed by id without following references.
func (s *Storage) locate(id ID) (location, bool) {
	bi, si := id.BlockIndex(), id.SlotIndex()
	if bi < 0 || bi >= len(s.blocks) || s.blocks[bi] == nil {
		return location{}, false
	}

	blk := s.blocks[bi]
	off, ok := blk.find(si)
	if !ok {
		return location{}, false
	}

	return location{blk: blk, bi: bi, si: si, off: off, hdr: blk.header(off)}, true
}

// resolve finds the slot holding the data of id, following references.
func (s *Storage) resolve(id ID) (location, bool) {
	loc, ok := s.locate(id)
	for depth := 0; ok && loc.hdr.Flags.IsReference(); depth++ {
		if depth == maxRefDepth {
			return location{}, false
		}
		loc, ok = s.locate(refTarget(loc))
	}

	return loc, ok
}

// refTarget reads the ID stored in a reference slot.
func refTarget(loc location) ID {
	return ID(engine.Uint32(loc.blk.payload(loc.off, &loc.hdr)))
}

// decode returns the logical bytes of the data slot at loc. The result may
// alias block memory or the scratch buffer.
func (s *Storage) decode(loc location, bitmapValue uint8) ([]byte, error) {
	payload := loc.blk.payload(loc.off, &loc.hdr)
	size := int(loc.hdr.UncompressedSize)

	switch kind := loc.hdr.Flags.Compression(); kind {
	case format.CompressionNone:
		return payload, nil
	case format.CompressionRLEDiff:
		dst := s.scratch.Resize(size)

		var (
			n   int
			err error
		)

		if loc.hdr.Flags.IsBitmap() {
			if bitmapValue == 0 {
				bitmapValue = DefaultBitmapValue
			}
			n, err = encoding.DecodeBitmap(dst, payload, bitmapValue)
		} else {
			n, err = encoding.DecodeDelta(dst, payload)
		}

		if err != nil {
			return nil, err
		}
		if n != size {
			return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", errs.ErrCorruptPayload, n, size)
		}

		return dst, nil
	default:
		codec, err := compress.GetCodec(kind)
		if err != nil {
			return nil, err
		}

		return codec.Decompress(payload, size)
	}
}

// Fetch copies the record addressed by id into buf and returns its logical
// size.
//
// The record is read as a cycle starting at byte offset: buf[k] receives
// src[(offset+k) mod n]. A buf longer than the record is filled by repeating
// it; a negative offset counts from the end. An empty buf only queries the
// size. In bitmap mode "on" bytes decode to bitmapValue, or
// DefaultBitmapValue when it is 0.
//
// Returns 0 and an error wrapping errs.ErrNotFound when id does not address a
// live record.
func (s *Storage) Fetch(id ID, buf []byte, offset int, bitmapValue uint8) (int, error) {
	s = s.orDefault()
	if s.closed {
		return 0, errs.ErrClosed
	}

	loc, ok := s.resolve(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrNotFound, id)
	}

	n := int(loc.hdr.UncompressedSize)
	if len(buf) == 0 {
		return n, nil
	}

	src, err := s.decode(loc, bitmapValue)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", id, err)
	}

	start := offset % n
	if start < 0 {
		start += n
	}

	k := copy(buf, src[start:])
	for k < len(buf) {
		k += copy(buf[k:], src)
	}

	return n, nil
}

// FetchBytes returns a newly allocated copy of the record addressed by id.
func (s *Storage) FetchBytes(id ID) ([]byte, error) {
	s = s.orDefault()

	n, err := s.Fetch(id, nil, 0, 0)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if _, err := s.Fetch(id, buf, 0, 0); err != nil {
		return nil, err
	}

	return buf, nil
}

// Size returns the logical size of the record addressed by id, or 0 if id
// does not address a live record.
func (s *Storage) Size(id ID) int {
	s = s.orDefault()
	if s.closed {
		return 0
	}

	loc, ok := s.resolve(id)
	if !ok {
		return 0
	}

	return int(loc.hdr.UncompressedSize)
}

// Forget drops one handle to a record. The record's memory is freed once its
// last handle is gone, and a block left empty is returned to the allocator.
// Forgetting NoID or an absent ID does nothing.
func (s *Storage) Forget(id ID) {
	s = s.orDefault()
	if s.closed {
		return
	}

	s.forget(id, 0)
}

func (s *Storage) forget(id ID, depth int) {
	loc, ok := s.locate(id)
	if !ok {
		return
	}

	// Freeing never moves slots, so loc stays valid across the recursion.
	if loc.hdr.Flags.IsReference() && depth < maxRefDepth {
		s.forget(refTarget(loc), depth+1)
	}

	if loc.hdr.RefCount > 1 {
		loc.hdr.RefCount--
		loc.blk.putHeader(loc.off, &loc.hdr)

		return
	}

	loc.blk.free(loc.si)
	if loc.blk.used == 0 {
		s.releaseBlock(loc.bi)
	}
}

// Dup returns a second ID for the record addressed by id without copying its
// data. Both IDs stay valid until forgotten; the data lives until the last
// one is.
//
// The first Dup of a record converts it in place: its bytes move to a new
// slot of the same block and the original slot becomes a reference, so id
// keeps working. This needs a little free space in that block.
//
// Error conditions:
//   - errs.ErrNotFound if id does not address a live record
//   - errs.ErrNoSpace if the record's block cannot hold the reference
//   - errs.ErrRefCountOverflow if the record already has 65535 aliases
//   - allocation errors from storing the new reference; the alias count is
//     restored
func (s *Storage) Dup(id ID) (ID, error) {
	s = s.orDefault()
	if s.closed {
		return NoID, errs.ErrClosed
	}

	loc, ok := s.locate(id)
	if !ok {
		return NoID, fmt.Errorf("%w: %s", errs.ErrNotFound, id)
	}

	var target ID
	if loc.hdr.Flags.IsReference() {
		target = refTarget(loc)
	} else {
		var err error
		if target, err = s.promote(loc); err != nil {
			return NoID, err
		}
	}

	tloc, ok := s.locate(target)
	if !ok || tloc.hdr.Flags.IsReference() {
		return NoID, fmt.Errorf("%w: reference target %s of %s", errs.ErrNotFound, target, id)
	}

	if tloc.hdr.RefCount == math.MaxUint16 {
		return NoID, fmt.Errorf("%w: %s", errs.ErrRefCountOverflow, id)
	}

	tloc.hdr.RefCount++
	tloc.blk.putHeader(tloc.off, &tloc.hdr)

	var rec [section.RefPayloadSize]byte
	engine.PutUint32(rec[:], uint32(target))

	dup, err := s.put(rec[:], section.RefPayloadSize, section.FlagReference)
	if err != nil {
		// put may have compacted the target's block.
		if tloc, ok = s.locate(target); ok {
			tloc.hdr.RefCount--
			tloc.blk.putHeader(tloc.off, &tloc.hdr)
		}

		return NoID, err
	}

	return dup, nil
}

// promote gives the data slot at loc a new index and turns its old index
// into a reference to it. It returns the ID of the data slot. No payload
// bytes are copied.
//
// A placeholder reference is stored in the same block first; then the two
// table entries are swapped so that loc's index addresses the reference.
func (s *Storage) promote(loc location) (ID, error) {
	blk := loc.blk
	if blk.totalFree < section.UsableSize(section.RefPayloadSize) {
		return NoID, fmt.Errorf("%w: block %d has no room for a reference", errs.ErrNoSpace, loc.bi+1)
	}

	var rec [section.RefPayloadSize]byte
	refIdx, ok := blk.store(rec[:], section.RefPayloadSize, section.FlagReference)
	if !ok {
		return NoID, fmt.Errorf("%w: block %d has no slot for a reference", errs.ErrNoSpace, loc.bi+1)
	}

	// store may have compacted the block, so re-read both offsets.
	bodyOff, refOff := blk.slots[loc.si], blk.slots[refIdx]
	blk.slots[loc.si], blk.slots[refIdx] = refOff, bodyOff

	body := blk.header(int(bodyOff))
	body.Index = uint32(refIdx)
	body.RefCount = 1
	blk.putHeader(int(bodyOff), &body)

	ref := blk.header(int(refOff))
	ref.Index = uint32(loc.si)
	blk.putHeader(int(refOff), &ref)

	target := MakeID(loc.bi+1, refIdx+1)
	engine.PutUint32(blk.payload(int(refOff), &ref), uint32(target))

	return target, nil
}

// Stats returns a snapshot of the storage's counters.
func (s *Storage) Stats() Stats {
	s = s.orDefault()

	st := Stats{
		UsedMemory:        s.usedMemory,
		CompressedBytes:   s.compressedBytes,
		UncompressedBytes: s.uncompressedBytes,
		Defragmentations:  s.releasedDefrags,
	}

	for _, blk := range s.blocks {
		if blk == nil {
			continue
		}
		st.Blocks++
		st.Slots += blk.used
		st.FreeBytes += int64(blk.totalFree)
		st.Defragmentations += blk.defrags
	}

	if s.dedup != nil {
		st.DedupHits = s.dedup.Hits()
		st.DedupCollisions = s.dedup.Collisions()
	}

	return st
}

// Close releases all blocks. IDs handed out before become invalid and further
// operations return errs.ErrClosed. Closing a nil Storage flushes the default
// instance.
func (s *Storage) Close() error {
	if s == nil {
		FlushDefault()
		return nil
	}

	if s.closed {
		return nil
	}

	var errList []error
	for bi, blk := range s.blocks {
		if blk == nil {
			continue
		}
		if err := s.alloc.free(blk.mem); err != nil {
			errList = append(errList, fmt.Errorf("block %d: %w", bi+1, err))
		}
		s.blocks[bi] = nil
	}

	s.blocks = nil
	s.usedMemory = 0
	s.closed = true
	if s.dedup != nil {
		s.dedup.Reset()
	}

	s.logger.Debug("storage closed")

	return errors.Join(errList...)
}

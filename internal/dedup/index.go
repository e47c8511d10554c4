// Package dedup maps record content hashes to the storage ID holding them.
package dedup

// Index tracks content hash to storage ID mappings and counts hash collisions.
//
// Entries are hints, not truth: the record behind an ID may have been
// forgotten, or the ID reused for other bytes. Callers must verify a candidate
// before aliasing it and call Drop when the check fails.
type Index struct {
	ids        map[uint64]uint32
	collisions int
	hits       int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		ids: make(map[uint64]uint32),
	}
}

// Lookup returns the candidate ID recorded for hash.
func (x *Index) Lookup(hash uint64) (uint32, bool) {
	id, ok := x.ids[hash]
	return id, ok
}

// Track records id as the holder of content with the given hash, replacing
// any previous entry.
func (x *Index) Track(hash uint64, id uint32) {
	x.ids[hash] = id
}

// Hit counts a verified duplicate.
func (x *Index) Hit() {
	x.hits++
}

// Drop removes the entry for hash. collision reports whether the candidate
// was live but held different bytes.
func (x *Index) Drop(hash uint64, collision bool) {
	delete(x.ids, hash)
	if collision {
		x.collisions++
	}
}

// Count returns the number of tracked hashes.
func (x *Index) Count() int {
	return len(x.ids)
}

// Hits returns the number of verified duplicates.
func (x *Index) Hits() int {
	return x.hits
}

// Collisions returns the number of hash collisions seen.
func (x *Index) Collisions() int {
	return x.collisions
}

// Reset clears all entries and counters.
func (x *Index) Reset() {
	clear(x.ids)
	x.collisions = 0
	x.hits = 0
}

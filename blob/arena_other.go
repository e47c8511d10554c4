//go:build !unix

package blob

const mmapSupported = false

// newMmapAllocator falls back to the heap where anonymous mappings are not
// available.
func newMmapAllocator() allocator {
	return heapAllocator{}
}

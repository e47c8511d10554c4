package blob

// allocator provides the backing memory of blocks.
type allocator interface {
	alloc(size int) ([]byte, error)
	free(mem []byte) error
	name() string
}

// heapAllocator allocates block memory on the Go heap.
type heapAllocator struct{}

var _ allocator = heapAllocator{}

func (heapAllocator) alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (heapAllocator) free([]byte) error {
	return nil
}

func (heapAllocator) name() string {
	return "heap"
}

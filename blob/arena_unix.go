//go:build unix

package blob

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const mmapSupported = true

// mmapAllocator maps anonymous private memory for each block, keeping large
// image planes outside the Go heap.
type mmapAllocator struct{}

var _ allocator = mmapAllocator{}

func newMmapAllocator() allocator {
	return mmapAllocator{}
}

func (mmapAllocator) alloc(size int) ([]byte, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}

	return mem, nil
}

func (mmapAllocator) free(mem []byte) error {
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	return nil
}

func (mmapAllocator) name() string {
	return "mmap"
}

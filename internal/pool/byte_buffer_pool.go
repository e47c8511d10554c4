package pool

import (
	"sync"
)

const (
	// PageSize is the growth granularity of scratch buffers.
	PageSize = 4096

	// VerifyBufferDefaultSize is the initial capacity of pooled verification buffers.
	VerifyBufferDefaultSize = 1024 * 16 // 16KiB
	// VerifyBufferMaxThreshold is the largest buffer returned to the pool.
	VerifyBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a reusable byte slice.
//
// Storage keeps one as its compression scratch area; it only ever grows, in
// whole pages, and is reused by every store and fetch.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow makes sure the buffer can hold n bytes in total.
//
// New capacity is rounded up to a whole number of pages. Existing content is
// not preserved across a reallocation: the buffer is scratch space.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B) >= n {
		return
	}

	size := (n/PageSize + 1) * PageSize
	bb.B = make([]byte, 0, size)
}

// Resize sets the length of the buffer to n, growing it if necessary, and
// returns the resized slice.
func (bb *ByteBuffer) Resize(n int) []byte {
	bb.Grow(n)
	bb.B = bb.B[:n]

	return bb.B
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers larger than maxThreshold are dropped on Put instead of being
// retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var verifyPool = NewByteBufferPool(VerifyBufferDefaultSize, VerifyBufferMaxThreshold)

// GetVerifyBuffer retrieves a buffer used to read back a stored record for
// comparison.
func GetVerifyBuffer() *ByteBuffer {
	return verifyPool.Get()
}

// PutVerifyBuffer returns a buffer obtained from GetVerifyBuffer.
func PutVerifyBuffer(bb *ByteBuffer) {
	verifyPool.Put(bb)
}

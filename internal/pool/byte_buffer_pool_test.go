package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Basic(t *testing.T) {
	bb := NewByteBuffer(64)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 64, bb.Cap())

	n, err := bb.Write([]byte("plane"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("plane"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 64, bb.Cap())
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("Page granularity", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(1)
		require.Equal(t, PageSize, bb.Cap())

		bb.Grow(PageSize)
		require.Equal(t, PageSize, bb.Cap(), "fits, no growth")

		bb.Grow(PageSize + 1)
		require.Equal(t, 2*PageSize, bb.Cap())

		bb.Grow(2*PageSize + 100)
		require.Equal(t, 3*PageSize, bb.Cap())
	})

	t.Run("Exact multiple gets an extra page", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(2*PageSize + 1)
		require.Equal(t, 3*PageSize, bb.Cap())

		bb2 := NewByteBuffer(PageSize)
		bb2.Grow(2 * PageSize)
		require.Equal(t, 3*PageSize, bb2.Cap())
	})

	t.Run("Never shrinks", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(10 * PageSize)
		capacity := bb.Cap()

		bb.Grow(10)
		require.Equal(t, capacity, bb.Cap())
	})
}

func TestByteBuffer_Resize(t *testing.T) {
	bb := NewByteBuffer(16)

	b := bb.Resize(8)
	require.Len(t, b, 8)
	require.Equal(t, 16, bb.Cap())

	b = bb.Resize(5000)
	require.Len(t, b, 5000)
	require.Equal(t, 2*PageSize, bb.Cap())

	b = bb.Resize(0)
	require.Empty(t, b)
	require.Equal(t, 2*PageSize, bb.Cap())
}

func TestByteBufferPool(t *testing.T) {
	t.Run("Get returns empty buffer", func(t *testing.T) {
		p := NewByteBufferPool(128, 1024)
		bb := p.Get()
		require.NotNil(t, bb)
		require.Equal(t, 0, bb.Len())
		require.GreaterOrEqual(t, bb.Cap(), 128)

		bb.Write([]byte{1, 2, 3})
		p.Put(bb)

		again := p.Get()
		require.Equal(t, 0, again.Len())
	})

	t.Run("Put ignores nil", func(t *testing.T) {
		p := NewByteBufferPool(128, 1024)
		require.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("Oversized buffers are dropped", func(t *testing.T) {
		p := NewByteBufferPool(16, 32)
		bb := NewByteBuffer(64)
		bb.Write([]byte("not retained"))
		p.Put(bb)
		require.Equal(t, 12, bb.Len(), "dropped buffer is not reset")
	})

	t.Run("Verify pool", func(t *testing.T) {
		bb := GetVerifyBuffer()
		require.NotNil(t, bb)
		require.GreaterOrEqual(t, bb.Cap(), VerifyBufferDefaultSize)
		PutVerifyBuffer(bb)
	})
}

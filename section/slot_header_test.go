package section

import (
	"testing"

	"github.com/arloliu/pixstore/endian"
	"github.com/arloliu/pixstore/errs"
	"github.com/arloliu/pixstore/format"
	"github.com/stretchr/testify/require"
)

func TestUsableSize(t *testing.T) {
	tests := []struct {
		size   int
		usable int
		full   int
	}{
		{0, 0, 16},
		{1, 16, 32},
		{4, 16, 32},
		{15, 16, 32},
		{16, 16, 32},
		{17, 32, 48},
		{1024, 1024, 1040},
		{1025, 1040, 1056},
	}

	for _, tt := range tests {
		require.Equal(t, tt.usable, UsableSize(tt.size), "usable size of %d", tt.size)
		require.Equal(t, tt.full, FullSize(tt.size), "full size of %d", tt.size)
	}
}

func TestSlotHeader_Parse(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("Valid header", func(t *testing.T) {
		original := SlotHeader{
			Flags:            FlagUsed | FlagCompression(format.CompressionRLEDiff) | FlagBitmap,
			RefCount:         7,
			Size:             120,
			UncompressedSize: 1024,
			Index:            42,
		}

		data := original.Bytes(engine)
		require.Len(t, data, HeaderSize)

		parsed, err := ParseSlotHeader(data, engine)
		require.NoError(t, err)
		require.Equal(t, original, parsed)
	})

	t.Run("Invalid size", func(t *testing.T) {
		h := &SlotHeader{}
		err := h.Parse([]byte{1, 2, 3}, engine)

		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Little endian layout", func(t *testing.T) {
		h := SlotHeader{Flags: FlagUsed, RefCount: 0x0203, Size: 0x04050607, UncompressedSize: 0x08, Index: 0x0a0b0c0d}
		data := h.Bytes(engine)

		require.Equal(t, []byte{
			0x01, 0x00,
			0x03, 0x02,
			0x07, 0x06, 0x05, 0x04,
			0x08, 0x00, 0x00, 0x00,
			0x0d, 0x0c, 0x0b, 0x0a,
		}, data)
	})

	t.Run("Big endian round trip", func(t *testing.T) {
		be := endian.GetBigEndianEngine()
		h := SlotHeader{Flags: FlagUsed | FlagReference, RefCount: 1, Size: 4, UncompressedSize: 4, Index: 9}

		parsed, err := ParseSlotHeader(h.Bytes(be), be)
		require.NoError(t, err)
		require.Equal(t, h, parsed)
	})
}

func TestSlotHeader_Put(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	mem := make([]byte, 64)

	h := SlotHeader{Flags: FlagUsed, Size: 20, UncompressedSize: 20, Index: 1}
	h.Put(mem[32:], engine)

	require.Equal(t, make([]byte, 32), mem[:32], "bytes before the header are untouched")

	parsed, err := ParseSlotHeader(mem[32:], engine)
	require.NoError(t, err)
	require.Equal(t, h, parsed)
	require.Equal(t, 32, parsed.UsableSize())
	require.Equal(t, 48, parsed.FullSize())

	require.Panics(t, func() { h.Put(make([]byte, 8), engine) })
}

package encoding

import (
	"testing"

	"github.com/arloliu/pixstore/errs"
	"github.com/stretchr/testify/require"
)

func TestEncodeBitmap(t *testing.T) {
	tests := []struct {
		name      string
		src       []byte
		threshold uint8
		want      []byte
	}{
		{
			name:      "starts below",
			src:       []byte{0, 10, 0x7F, 0x80, 0xFF, 0x90, 1, 2},
			threshold: 0x7F,
			want:      []byte{3, 3, 2},
		},
		{
			name:      "starts above",
			src:       []byte{0xFF, 0xFF, 0, 0, 0, 0, 0, 0xFF},
			threshold: 0x7F,
			want:      []byte{0, 2, 5, 1},
		},
		{
			name:      "custom threshold",
			src:       []byte{10, 20, 30, 40, 50, 60, 70, 80},
			threshold: 35,
			want:      []byte{3, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, len(tt.src))
			n, err := EncodeBitmap(dst, tt.src, tt.threshold)
			require.NoError(t, err)
			require.Equal(t, tt.want, dst[:n])
		})
	}
}

func TestEncodeBitmap_LongRun(t *testing.T) {
	src := make([]byte, 600)
	for i := 300; i < len(src); i++ {
		src[i] = 0xFF
	}

	dst := make([]byte, len(src))
	n, err := EncodeBitmap(dst, src, 0x7F)
	require.NoError(t, err)
	require.Equal(t, []byte{255, 0, 45, 255, 0, 45}, dst[:n])

	out := make([]byte, len(src))
	m, err := DecodeBitmap(out, dst[:n], 0xFF)
	require.NoError(t, err)
	require.Equal(t, len(src), m)
	require.Equal(t, src, out)
}

func TestBitmap_ClassificationRoundTrip(t *testing.T) {
	src := make([]byte, 1024)
	for i := range src {
		src[i] = byte((i / 37) * 29)
	}

	const threshold, value = 0x60, 0xC8

	dst := make([]byte, len(src))
	n, err := EncodeBitmap(dst, src, threshold)
	require.NoError(t, err)

	out := make([]byte, len(src))
	m, err := DecodeBitmap(out, dst[:n], value)
	require.NoError(t, err)
	require.Equal(t, len(src), m)

	for i := range src {
		if src[i] > threshold {
			require.Equal(t, byte(value), out[i], "byte %d", i)
		} else {
			require.Equal(t, byte(0), out[i], "byte %d", i)
		}
	}
}

func TestEncodeBitmap_Overflow(t *testing.T) {
	src := []byte{0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF}
	dst := make([]byte, 64)

	_, err := EncodeBitmap(dst, src, 0x7F)
	require.ErrorIs(t, err, errs.ErrCompressOverflow)
}

func TestDecodeBitmap_Corrupt(t *testing.T) {
	_, err := DecodeBitmap(make([]byte, 8), []byte{5, 5}, 0xFF)
	require.ErrorIs(t, err, errs.ErrCorruptPayload)

	n, err := DecodeBitmap(nil, nil, 0xFF)
	require.NoError(t, err)
	require.Zero(t, n)
}

package encoding

import (
	"math/rand"
	"testing"

	"github.com/arloliu/pixstore/errs"
	"github.com/stretchr/testify/require"
)

func encodeDelta(t *testing.T, src []byte) []byte {
	t.Helper()

	dst := make([]byte, len(src))
	n, err := EncodeDelta(dst, src)
	require.NoError(t, err)

	return dst[:n]
}

func requireDeltaRoundTrip(t *testing.T, src []byte) []byte {
	t.Helper()

	enc := encodeDelta(t, src)
	out := make([]byte, len(src))
	n, err := DecodeDelta(out, enc)
	require.NoError(t, err)
	require.Equal(t, len(src), n)
	require.Equal(t, src, out)

	return enc
}

func TestEncodeDelta_Tokens(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want []byte
	}{
		{
			name: "zero run then 2-bit diffs",
			src:  []byte{10, 10, 10, 11, 12, 13, 14},
			want: []byte{10, 0x01, 0xC3, 0x00},
		},
		{
			name: "4-bit diffs",
			src:  []byte{0, 5, 0},
			want: []byte{0, 0x81, 0x4C},
		},
		{
			name: "8-bit diffs",
			src:  []byte{0, 100, 50, 50, 50, 50},
			want: []byte{0, 0xD1, 0x63, 0xB1, 0x02},
		},
		{
			name: "9-bit diffs",
			src:  []byte{0, 200, 10, 10, 10, 10, 10},
			want: []byte{0, 0xE1, 0xC7, 0xBD, 0x03},
		},
		{
			name: "negative 9-bit diffs",
			src:  []byte{250, 1, 1, 1, 1, 1, 1},
			want: []byte{250, 0xF0, 0xF8, 0x04},
		},
		{
			name: "2-bit with negative signs",
			src:  []byte{8, 7, 5, 6, 6, 6, 6, 6},
			want: []byte{8, 0xC2, 0xB0, 0x03},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := requireDeltaRoundTrip(t, tt.src)
			require.Equal(t, tt.want, enc)
		})
	}
}

func TestEncodeDelta_RunLimits(t *testing.T) {
	t.Run("Zero run splits at 128", func(t *testing.T) {
		src := make([]byte, 300)
		enc := requireDeltaRoundTrip(t, src)
		// first byte, then 128 + 128 + 43 repeats
		require.Equal(t, []byte{0, 127, 127, 42}, enc)
	})

	t.Run("2-bit run stops at 16", func(t *testing.T) {
		src := make([]byte, 40)
		for i := range src {
			src[i] = byte(i)
		}
		enc := requireDeltaRoundTrip(t, src)
		require.Equal(t, byte(0xCF), enc[1])
	})

	t.Run("2-bit run kept before a larger diff", func(t *testing.T) {
		src := []byte{0, 1, 2, 3, 4, 9, 9, 9, 9, 9, 9, 9}
		enc := requireDeltaRoundTrip(t, src)
		require.Equal(t, byte(0xC3), enc[1])
		require.Equal(t, byte(0x80), enc[3], "diff of 5 starts a 4-bit run")
	})

	t.Run("4-bit run stops at 64", func(t *testing.T) {
		src := make([]byte, 200)
		v := byte(100)
		for i := range src {
			if i%2 == 0 {
				v += 5
			} else {
				v -= 3
			}
			src[i] = v
		}
		enc := requireDeltaRoundTrip(t, src)
		require.Equal(t, byte(0x80|63), enc[1])
	})

	t.Run("8-bit run stops at 16", func(t *testing.T) {
		src := make([]byte, 128)
		for i := 1; i <= 17; i += 2 {
			src[i] = 50
		}
		enc := requireDeltaRoundTrip(t, src)
		require.Equal(t, byte(0xDF), enc[1])
		require.Equal(t, byte(0xD1), enc[18], "remaining diffs start a new run")
	})
}

func TestEncodeDelta_SlowlyVarying(t *testing.T) {
	src := make([]byte, 1024)
	for i := range src {
		src[i] = byte(i / 4)
	}

	enc := requireDeltaRoundTrip(t, src)
	require.Less(t, len(enc), len(src))
	require.Less(t, len(enc), 800)
}

func TestEncodeDelta_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 200 {
		size := 2 + rng.Intn(2048)
		src := make([]byte, size)
		v := byte(rng.Intn(256))
		spread := 1 + rng.Intn(20)
		for i := range src {
			switch rng.Intn(4) {
			case 0:
				// repeat
			case 1:
				v = byte(rng.Intn(256))
			default:
				v += byte(rng.Intn(2*spread+1) - spread)
			}
			src[i] = v
		}

		dst := make([]byte, size)
		n, err := EncodeDelta(dst, src)
		if err != nil {
			require.ErrorIs(t, err, errs.ErrCompressOverflow)
			continue
		}
		require.LessOrEqual(t, n, size)

		out := make([]byte, size)
		m, err := DecodeDelta(out, dst[:n])
		require.NoError(t, err)
		require.Equal(t, size, m)
		require.Equal(t, src, out)
	}
}

func TestEncodeDelta_Overflow(t *testing.T) {
	t.Run("Noise does not fit", func(t *testing.T) {
		src := []byte{0, 200, 0, 200, 0, 200, 0, 200, 0}
		dst := make([]byte, len(src))
		_, err := EncodeDelta(dst, src)
		require.ErrorIs(t, err, errs.ErrCompressOverflow)
	})

	t.Run("Small destination", func(t *testing.T) {
		src := make([]byte, 64)
		for i := range src {
			src[i] = byte(i * 3)
		}
		dst := make([]byte, 4)
		_, err := EncodeDelta(dst, src)
		require.ErrorIs(t, err, errs.ErrCompressOverflow)
	})

	t.Run("Empty destination", func(t *testing.T) {
		_, err := EncodeDelta(nil, []byte{1})
		require.ErrorIs(t, err, errs.ErrCompressOverflow)
	})

	t.Run("Empty source", func(t *testing.T) {
		n, err := EncodeDelta(nil, nil)
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestDecodeDelta_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		dst  int
	}{
		{"truncated 4-bit body", []byte{0, 0x85, 0x11}, 16},
		{"truncated 2-bit body", []byte{0, 0xCF, 0x00}, 32},
		{"truncated 8-bit body", []byte{0, 0xD3, 0x10}, 16},
		{"truncated 9-bit body", []byte{0, 0xE1, 0xC7}, 16},
		{"zero run overflows output", []byte{0, 0x7F}, 16},
		{"no room for first byte", []byte{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDelta(make([]byte, tt.dst), tt.src)
			require.ErrorIs(t, err, errs.ErrCorruptPayload)
		})
	}
}

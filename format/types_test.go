package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		ct   CompressionType
		want string
	}{
		{CompressionNone, "None"},
		{CompressionRLEDiff, "RLEDiff"},
		{CompressionZlib, "Zlib"},
		{CompressionLZ4, "LZ4"},
		{CompressionS2, "S2"},
		{CompressionZstd, "Zstd"},
		{MaxCompressionType, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ct.String())
		})
	}
}

func TestCompressionType_IsValid(t *testing.T) {
	for ct := CompressionNone; ct <= CompressionZstd; ct++ {
		require.True(t, ct.IsValid(), ct.String())
	}
	require.False(t, CompressionType(6).IsValid())
	require.False(t, MaxCompressionType.IsValid())
}

func TestParseCompressionType(t *testing.T) {
	for ct := CompressionNone; ct <= CompressionZstd; ct++ {
		got, err := ParseCompressionType(ct.String())
		require.NoError(t, err)
		require.Equal(t, ct, got)
	}

	got, err := ParseCompressionType("RLE")
	require.NoError(t, err)
	require.Equal(t, CompressionRLEDiff, got)

	got, err = ParseCompressionType("")
	require.NoError(t, err)
	require.Equal(t, CompressionNone, got)

	_, err = ParseCompressionType("brotli")
	require.Error(t, err)
}

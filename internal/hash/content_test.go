package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestContent(t *testing.T) {
	data := []byte("red channel")

	require.Equal(t, Content(0, data), Content(0, data), "deterministic")
	require.NotEqual(t, Content(0, data), Content(0x10, data), "flags salt the hash")
	require.NotEqual(t, Content(0, data), Content(0, []byte("green channel")))
	require.NotEqual(t, Bytes(data), Content(0, data))
}

func TestBytes(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5}
	require.Equal(t, xxhash.Sum64(data), Bytes(data))
	require.Equal(t, xxhash.Sum64(nil), Bytes(nil))
}

package compress

import (
	"fmt"

	"github.com/arloliu/pixstore/errs"
	"github.com/arloliu/pixstore/format"
)

// Compressor compresses a slot payload before it is written into a block.
//
// Slot payloads are whole records, typically one image channel plane of a few
// hundred bytes up to a few megabytes.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//
	// Returns errs.ErrIncompressible when the result would not be smaller than
	// the input. Storage treats that as a signal to keep the raw bytes.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a slot payload to its original bytes.
//
// Every slot records its uncompressed size, so decompression always knows the
// exact output length and uses it both to size the output buffer and to
// validate the result.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses data whose original length was size.
	//
	// Error conditions:
	//   - Returns error if data is corrupted or uses an incompatible format
	//   - Returns an error wrapping errs.ErrCorruptPayload if the output length
	//     differs from size
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZlib: NewZlibCompressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionZstd: NewZstdCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
//
// format.CompressionRLEDiff has no Codec here: it needs a bitmap threshold and
// value, so storage drives the encoding package directly for it.
//
// Returns:
//   - Codec: Shared codec instance, safe for concurrent use
//   - error: Wraps errs.ErrUnsupportedCompression for other types
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// checkSize verifies a decompressed buffer against the recorded original size.
func checkSize(name string, out []byte, size int) ([]byte, error) {
	if len(out) != size {
		return nil, fmt.Errorf("%w: %s produced %d bytes, expected %d", errs.ErrCorruptPayload, name, len(out), size)
	}

	return out, nil
}

// checkRatio rejects compressed output that saves nothing.
func checkRatio(out, in []byte) ([]byte, error) {
	if len(out) >= len(in) {
		return nil, errs.ErrIncompressible
	}

	return out, nil
}

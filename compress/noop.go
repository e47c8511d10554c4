package compress

// NoOpCompressor passes data through unchanged.
//
// Selecting it as a slot's compression kind is equivalent to storing raw
// bytes; it exists so that every format.CompressionType with a Codec can be
// handled the same way.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, without copying.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is after checking its length.
//
// Parameters:
//   - data: Stored bytes
//   - size: Expected length
//
// Returns:
//   - []byte: Same slice as input data
//   - error: Wraps errs.ErrCorruptPayload if len(data) != size
func (c NoOpCompressor) Decompress(data []byte, size int) ([]byte, error) {
	return checkSize("noop", data, size)
}

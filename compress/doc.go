// Package compress provides the general-purpose codecs a pixstore slot can be
// compressed with.
//
// A slot's compression kind lives in bits 4-6 of its flags (see
// format.CompressionType). The delta run-length codec tuned for image planes
// is implemented in the encoding package; this package supplies the others:
//   - None: No compression
//   - Zlib: Deflate in a zlib stream, good ratio on mixed content
//   - LZ4: Fastest decompression, moderate ratio
//   - S2: Balanced compression and speed
//   - Zstd: Best ratio, moderate speed
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte, size int) ([]byte, error)
//	}
//
// Decompress receives the original length recorded in the slot header and
// fails with errs.ErrCorruptPayload when the output differs. Compress fails
// with errs.ErrIncompressible when the output would not be smaller than the
// input; storage then keeps the raw bytes and clears the compression kind.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(plane)
//	if errors.Is(err, errs.ErrIncompressible) {
//	    packed = plane
//	}
//
// All built-in codecs are stateless values backed by sync.Pool resources and
// are safe for concurrent use.
package compress

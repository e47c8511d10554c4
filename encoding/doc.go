// Package encoding implements the delta run-length codec used for slot payloads.
//
// The codec targets smoothly varying byte streams such as image channel
// planes, where neighboring bytes differ by small amounts and long runs of
// identical bytes are common. It has two modes:
//
//   - Delta mode (EncodeDelta/DecodeDelta) is lossless. The first byte is
//     stored verbatim and every following byte is expressed as the signed
//     difference from its predecessor, packed into runs of 2, 4, 8 or 9-bit
//     entries, or a plain repeat count when the difference is zero.
//   - Bitmap mode (EncodeBitmap/DecodeBitmap) is lossy. Each byte is only
//     classified as below or above a threshold, and the stream is stored as
//     alternating run lengths. Decoding yields 0 for below and a caller chosen
//     value for above.
//
// # Delta Token Layout
//
// After the leading verbatim byte, the stream is a sequence of tokens, each
// starting with a tag byte:
//
//	0lllllll            repeat previous byte l+1 times (1-128)
//	10llllll            l+1 diffs (1-64), two per byte:  s mmm s mmm
//	1100llll            l+1 diffs (1-16), four per byte: s m s m s m s m
//	1101llll            l+1 diffs (1-16), one per byte:  s mmmmmmm
//	1110llll, 1111llll  l+1 diffs (1-16), one per byte:  mmmmmmmm
//
// A diff entry stores magnitude-1 and a sign bit (set for negative). 9-bit
// entries carry no sign bit: the first sign comes from the tag (1110 positive,
// 1111 negative) and alternates for every following entry, since two
// consecutive byte differences above 128 can never share a sign.
//
// # Buffers
//
// All functions are stateless and write into a caller provided destination.
// Encoders never produce more than min(len(dst), len(src)) bytes; when the
// encoding would be larger they return errs.ErrCompressOverflow so the caller
// can keep the raw bytes instead. Decoders return errs.ErrCorruptPayload on
// truncated input or when the output does not fit dst.
package encoding

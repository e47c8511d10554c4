package encoding

import "github.com/arloliu/pixstore/errs"

const bitmapRunLimit = 255

// EncodeBitmap encodes src as alternating run lengths of bytes at or below
// threshold and bytes above it, starting with a below run.
//
// Each output byte is one run length. Runs longer than 255 continue after a
// zero-length run of the other class, and a stream that starts above the
// threshold begins with a zero-length below run.
//
// Returns errs.ErrCompressOverflow when the encoding exceeds min(len(dst), len(src)).
func EncodeBitmap(dst, src []byte, threshold uint8) (int, error) {
	limit := min(len(dst), len(src))
	n, i := 0, 0
	above := false

	for i < len(src) {
		count := 0
		for count < bitmapRunLimit && i < len(src) && (src[i] > threshold) == above {
			count++
			i++
		}

		if n >= limit {
			return 0, errs.ErrCompressOverflow
		}
		dst[n] = byte(count)
		n++
		above = !above
	}

	return n, nil
}

// DecodeBitmap expands a run-length stream produced by EncodeBitmap, writing 0
// for below runs and value for above runs.
//
// Returns the number of bytes written, or errs.ErrCorruptPayload when the
// runs do not fit dst.
func DecodeBitmap(dst, src []byte, value uint8) (int, error) {
	out := 0
	above := false

	for _, count := range src {
		if out+int(count) > len(dst) {
			return 0, errs.ErrCorruptPayload
		}

		var v byte
		if above {
			v = value
		}
		for k := range int(count) {
			dst[out+k] = v
		}
		out += int(count)
		above = !above
	}

	return out, nil
}

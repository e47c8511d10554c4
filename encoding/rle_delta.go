package encoding

import (
	"github.com/arloliu/pixstore/errs"
)

// Tag bytes and run limits of the delta token stream.
const (
	zeroRunMask  = 0x80
	zeroRunLimit = 128

	diff4Mask  = 0xC0
	diff4Tag   = 0x80
	diff4Len   = 0x3F
	diff4Limit = 64

	longMask  = 0xF0
	longLen   = 0x0F
	longLimit = 16

	diff2Tag    = 0xC0
	diff8Tag    = 0xD0
	diff9Tag    = 0xE0
	diff9NegTag = 0xF0

	diff2MaxMag = 2
	diff4MaxMag = 8
	diff8MaxMag = 128

	// diff2MinRun is the shortest run of small diffs kept in 2-bit form when a
	// larger diff follows.
	diff2MinRun = 4
)

// EncodeDelta encodes src into dst using the delta run-length codec.
//
// Parameters:
//   - dst: Destination buffer
//   - src: Bytes to encode
//
// Returns:
//   - int: Number of bytes written to dst
//   - error: errs.ErrCompressOverflow if the encoding exceeds min(len(dst), len(src))
func EncodeDelta(dst, src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	limit := min(len(dst), len(src))
	if limit < 1 {
		return 0, errs.ErrCompressOverflow
	}

	var (
		signs [diff4Limit]bool
		mags  [diff4Limit]uint8
	)

	last := src[0]
	dst[0] = last
	n, i := 1, 1

	for i < len(src) {
		_, d := delta(last, src[i])

		switch {
		case d == 0:
			run := 0
			for i < len(src) && run < zeroRunLimit && src[i] == last {
				run++
				i++
			}

			if n+1 > limit {
				return 0, errs.ErrCompressOverflow
			}
			dst[n] = byte(run - 1)
			n++

		case d <= diff4MaxMag:
			step, run2 := 0, 0
			for i < len(src) && step < diff4Limit {
				v := src[i]
				if v == last {
					break
				}

				s, m := delta(last, v)
				if m > diff4MaxMag {
					break
				}
				signs[step], mags[step] = s, m

				// While every diff so far fits 2 bits, run2 tracks them.
				if run2 == step {
					if m > diff2MaxMag {
						if run2 >= diff2MinRun {
							break
						}
					} else {
						run2++
						if run2 >= longLimit {
							last = v
							i++

							break
						}
					}
				}

				step++
				last = v
				i++
			}

			var err error
			if step > run2 {
				n, err = putDiff4(dst, n, limit, signs[:step], mags[:step])
			} else {
				n, err = putDiff2(dst, n, limit, signs[:run2], mags[:run2])
			}
			if err != nil {
				return 0, err
			}

		case d <= diff8MaxMag:
			step := 0
			for i < len(src) && step < longLimit {
				s, m := delta(last, src[i])
				if m <= diff4MaxMag || m > diff8MaxMag {
					break
				}
				signs[step], mags[step] = s, m
				step++
				last = src[i]
				i++
			}

			if n+1+step > limit {
				return 0, errs.ErrCompressOverflow
			}
			dst[n] = diff8Tag | byte(step-1)
			n++
			for k := range step {
				dst[n] = signBit(signs[k], 0x80) | (mags[k] - 1)
				n++
			}

		default:
			step := 0
			for i < len(src) && step < longLimit {
				s, m := delta(last, src[i])
				if m <= diff8MaxMag {
					break
				}
				signs[step], mags[step] = s, m
				step++
				last = src[i]
				i++
			}

			if n+1+step > limit {
				return 0, errs.ErrCompressOverflow
			}
			tag := byte(diff9Tag)
			if signs[0] {
				tag = diff9NegTag
			}
			dst[n] = tag | byte(step-1)
			n++
			for k := range step {
				dst[n] = mags[k] - 1
				n++
			}
		}
	}

	return n, nil
}

// putDiff4 writes a 4-bit diff token at dst[n:].
func putDiff4(dst []byte, n, limit int, signs []bool, mags []uint8) (int, error) {
	count := len(signs)
	if n+1+(count+1)/2 > limit {
		return 0, errs.ErrCompressOverflow
	}

	dst[n] = diff4Tag | byte(count-1)
	n++
	for k := 0; k < count; k += 2 {
		b := signBit(signs[k], 0x80) | (mags[k]-1)<<4
		if k+1 < count {
			b |= signBit(signs[k+1], 0x08) | (mags[k+1] - 1)
		}
		dst[n] = b
		n++
	}

	return n, nil
}

// putDiff2 writes a 2-bit diff token at dst[n:].
func putDiff2(dst []byte, n, limit int, signs []bool, mags []uint8) (int, error) {
	count := len(signs)
	if n+1+(count+3)/4 > limit {
		return 0, errs.ErrCompressOverflow
	}

	dst[n] = diff2Tag | byte(count-1)
	n++
	for k := 0; k < count; k += 4 {
		var b byte
		for j := 0; j < 4 && k+j < count; j++ {
			shift := 6 - 2*j
			b |= signBit(signs[k+j], 0x02<<shift) | (mags[k+j]-1)<<shift
		}
		dst[n] = b
		n++
	}

	return n, nil
}

// DecodeDelta decodes a delta run-length stream from src into dst.
//
// Parameters:
//   - dst: Destination buffer, at least as large as the decoded data
//   - src: Encoded stream produced by EncodeDelta
//
// Returns:
//   - int: Number of bytes written to dst
//   - error: errs.ErrCorruptPayload on truncated input or output overflow
func DecodeDelta(dst, src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	if len(dst) < 1 {
		return 0, errs.ErrCorruptPayload
	}

	last := src[0]
	dst[0] = last
	out, in := 1, 1

	for in < len(src) {
		c := src[in]
		in++

		if c&zeroRunMask == 0 {
			count := int(c) + 1
			if out+count > len(dst) {
				return 0, errs.ErrCorruptPayload
			}
			for k := range count {
				dst[out+k] = last
			}
			out += count

			continue
		}

		if c&diff4Mask == diff4Tag {
			count := int(c&diff4Len) + 1
			need := (count + 1) / 2
			if in+need > len(src) || out+count > len(dst) {
				return 0, errs.ErrCorruptPayload
			}
			for k := range count {
				nib := src[in+k/2] >> 4
				if k%2 == 1 {
					nib = src[in+k/2] & 0x0F
				}
				last = applyDiff(last, nib&0x08 != 0, nib&0x07+1)
				dst[out] = last
				out++
			}
			in += need

			continue
		}

		count := int(c&longLen) + 1
		switch c & longMask {
		case diff2Tag:
			need := (count + 3) / 4
			if in+need > len(src) || out+count > len(dst) {
				return 0, errs.ErrCorruptPayload
			}
			for k := range count {
				pair := src[in+k/4] >> (6 - 2*(k%4)) & 0x03
				last = applyDiff(last, pair&0x02 != 0, pair&0x01+1)
				dst[out] = last
				out++
			}
			in += need

		case diff8Tag:
			if in+count > len(src) || out+count > len(dst) {
				return 0, errs.ErrCorruptPayload
			}
			for k := range count {
				b := src[in+k]
				last = applyDiff(last, b&0x80 != 0, b&0x7F+1)
				dst[out] = last
				out++
			}
			in += count

		default:
			if in+count > len(src) || out+count > len(dst) {
				return 0, errs.ErrCorruptPayload
			}
			neg := c&longMask == diff9NegTag
			for k := range count {
				last = applyDiff(last, neg, src[in+k]+1)
				neg = !neg
				dst[out] = last
				out++
			}
			in += count
		}
	}

	return out, nil
}

// delta returns the sign (true when negative) and magnitude of to-from.
func delta(from, to byte) (bool, uint8) {
	if to >= from {
		return false, to - from
	}

	return true, from - to
}

func applyDiff(v byte, neg bool, mag uint8) byte {
	if neg {
		return v - mag
	}

	return v + mag
}

func signBit(neg bool, bit byte) byte {
	if neg {
		return bit
	}

	return 0
}

package hpack

import "math"

// RFC 7541 §5.1 variable-length integers. A value either fits in the
// low prefixBits of the first byte, or the prefix is saturated and the
// remainder follows in little-endian base-128 groups with the high bit
// as a continuation flag.

// Decoded integers must fit in 32 bits, so at most 28 bits of shift
// across continuation bytes.
const maxIntegerShift = 28

// writeInteger appends tag|v in an N-bit prefix representation. tag
// carries the representation type in the bits above the prefix.
func writeInteger(b *Buffer, tag byte, prefixBits uint8, v uint32) error {
	limit := uint32(1)<<prefixBits - 1
	if v < limit {
		if !b.writeByte(tag | byte(v)) {
			return ErrInsufficientBufferSpace
		}
		return nil
	}
	if !b.writeByte(tag | byte(limit)) {
		return ErrInsufficientBufferSpace
	}
	v -= limit
	for v >= 0x80 {
		if !b.writeByte(byte(v&0x7f) | 0x80) {
			return ErrInsufficientBufferSpace
		}
		v >>= 7
	}
	if !b.writeByte(byte(v)) {
		return ErrInsufficientBufferSpace
	}
	return nil
}

// readInteger decodes an N-bit prefix integer starting at data[pos].
// It returns the value and the position of the first byte after it.
// A truncated or >32-bit sequence yields errNeedMore respectively
// ErrMalformedInteger; the decoder maps errNeedMore to a hard error
// only on the final chunk.
func readInteger(data []byte, pos int, prefixBits uint8) (uint32, int, error) {
	if pos >= len(data) {
		return 0, 0, errNeedMore
	}
	limit := uint32(1)<<prefixBits - 1
	v := uint32(data[pos]) & limit
	pos++
	if v < limit {
		return v, pos, nil
	}

	total := uint64(v)
	shift := uint(0)
	for {
		if pos >= len(data) {
			return 0, 0, errNeedMore
		}
		c := data[pos]
		pos++
		if shift > maxIntegerShift {
			return 0, 0, ErrMalformedInteger
		}
		total += uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			if total > math.MaxUint32 {
				return 0, 0, ErrMalformedInteger
			}
			return uint32(total), pos, nil
		}
		shift += 7
	}
}

package fingerprint

import (
	"strings"
)

// BitVector is a perceptual fingerprint: one bit per index, order significant.
type BitVector []bool

// NewBitVector builds a vector from a string of '0' and '1' characters.
// Any character other than '1' is read as a zero bit.
func NewBitVector(s string) BitVector {
	v := make(BitVector, len(s))
	for i := range len(s) {
		v[i] = s[i] == '1'
	}
	return v
}

// Len returns the number of bits.
func (v BitVector) Len() int {
	return len(v)
}

// HammingDistance counts the index positions where v and o differ.
// The vectors must have the same length; ok is false otherwise.
func (v BitVector) HammingDistance(o BitVector) (distance int, ok bool) {
	if len(v) != len(o) {
		return 0, false
	}
	for i := range v {
		if v[i] != o[i] {
			distance++
		}
	}
	return distance, true
}

// Bytes packs the bits MSB-first. The last byte is zero-padded.
func (v BitVector) Bytes() []byte {
	out := make([]byte, (len(v)+7)/8)
	for i, bit := range v {
		if bit {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// String renders the vector as '0'/'1' characters.
func (v BitVector) String() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, bit := range v {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Package bitpack provides the low-level bit and word primitives used by the
// pixel-format codecs: packing N-bit quantities into machine words, assembling
// multi-word values, mask generation, and integer bit-depth rescaling.
//
// All multi-word values are assembled into a uint64 working value; formats are
// validated at construction so that no channel or compound ever exceeds 64 bits.
package bitpack

import (
	"math/bits"
	"unsafe"
)

// Uint is the set of word types a pixel buffer can be addressed in.
type Uint interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Mask returns a value with the low n bits set. n must be in [0, 64].
func Mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// WordBits returns the number of bits in the word type W.
func WordBits[W Uint]() int {
	var w W
	return int(unsafe.Sizeof(w)) * 8
}

// Assemble combines len(words) words of bitsPerWord used bits each into one
// value. With msbFirst, words[0] contributes the most significant bits;
// otherwise the least significant. Unused high bits of each word are masked
// off, so a buffer that violates the zero-at-rest invariant still assembles
// deterministically.
func Assemble[W Uint](words []W, bitsPerWord int, msbFirst bool) uint64 {
	m := Mask(bitsPerWord)
	var v uint64
	if msbFirst {
		for _, w := range words {
			v = v<<bitsPerWord | (uint64(w) & m)
		}
		return v
	}
	for i := len(words) - 1; i >= 0; i-- {
		v = v<<bitsPerWord | (uint64(words[i]) & m)
	}
	return v
}

// Split is the inverse of Assemble: it distributes the low
// len(dst)*bitsPerWord bits of v over dst, bitsPerWord bits per word.
// Unused high bits of every written word are zero.
func Split[W Uint](v uint64, dst []W, bitsPerWord int, msbFirst bool) {
	m := Mask(bitsPerWord)
	if msbFirst {
		for i := len(dst) - 1; i >= 0; i-- {
			dst[i] = W(v & m)
			v >>= bitsPerWord
		}
		return
	}
	for i := range dst {
		dst[i] = W(v & m)
		v >>= bitsPerWord
	}
}

// Rescale linearly maps a fromBits-deep value onto a toBits-deep scale with
// round-to-nearest, so that 0 maps to 0 and the maximum maps to the maximum.
// v must not exceed Mask(fromBits); fromBits and toBits must be in [1, 64].
func Rescale(v uint64, fromBits, toBits int) uint64 {
	if fromBits == toBits {
		return v
	}
	maxFrom := Mask(fromBits)
	maxTo := Mask(toBits)
	// Full 128-bit multiply keeps the scaling exact for deep formats where
	// v*maxTo would overflow 64 bits.
	hi, lo := bits.Mul64(v, maxTo)
	var carry uint64
	lo, carry = bits.Add64(lo, maxFrom/2, 0)
	hi += carry
	q, _ := bits.Div64(hi, lo, maxFrom)
	return q
}

package pixfmt

import (
	"encoding/binary"

	"github.com/gogpu/pixfmt/internal/bitpack"
)

// Word is the set of types a pixel buffer can be addressed in.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// WordOrder is the assembly order of multiple words into one channel value
// or pixel compound.
type WordOrder uint8

const (
	// BigEndian means the first (lowest-addressed) word holds the most
	// significant bits.
	BigEndian WordOrder = iota

	// LittleEndian means the first word holds the least significant bits.
	LittleEndian
)

// String returns a string representation of the word order.
func (o WordOrder) String() string {
	switch o {
	case BigEndian:
		return "big-endian"
	case LittleEndian:
		return "little-endian"
	default:
		return "unknown"
	}
}

// WordType identifies a buffer word kind at runtime, for use in
// [BufferFormat] descriptors. The float kinds only occur in float
// descriptors; codec buffers are always addressed in unsigned words.
type WordType uint8

const (
	Word8 WordType = iota
	Word16
	Word32
	Word64
	WordFloat32
	WordFloat64

	wordTypeCount
)

// Bits returns the number of bits in words of this type.
func (w WordType) Bits() int {
	switch w {
	case Word8:
		return 8
	case Word16:
		return 16
	case Word32, WordFloat32:
		return 32
	case Word64, WordFloat64:
		return 64
	default:
		return 0
	}
}

// Bytes returns the number of bytes in words of this type.
func (w WordType) Bytes() int {
	return w.Bits() / 8
}

// IsInteger reports whether this is an unsigned integer word kind.
func (w WordType) IsInteger() bool {
	switch w {
	case Word8, Word16, Word32, Word64:
		return true
	default:
		return false
	}
}

// IsValid reports whether the word type is a known kind.
func (w WordType) IsValid() bool {
	return w < wordTypeCount
}

// String returns a string representation of the word type.
func (w WordType) String() string {
	switch w {
	case Word8:
		return "uint8"
	case Word16:
		return "uint16"
	case Word32:
		return "uint32"
	case Word64:
		return "uint64"
	case WordFloat32:
		return "float32"
	case WordFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// wordTypeOf maps a Word type parameter to its runtime WordType.
func wordTypeOf[W Word]() WordType {
	switch bitpack.WordBits[W]() {
	case 8:
		return Word8
	case 16:
		return Word16
	case 32:
		return Word32
	default:
		return Word64
	}
}

// nativeOrder is the byte order multi-byte words are stored in on this
// machine, determined once at startup.
var nativeOrder = func() WordOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 0x0102)
	if b[0] == 0x01 {
		return BigEndian
	}
	return LittleEndian
}()

// NativeByteOrder reports the native byte order of the given word type, if
// it has a well-defined one. Single-byte words trivially report the native
// machine order. Float word kinds have no byte order usable for lossless
// reinterpretation and report ok == false; byte-view casts of such formats
// must fail rather than guess.
func NativeByteOrder(w WordType) (order WordOrder, ok bool) {
	if !w.IsInteger() {
		return 0, false
	}
	return nativeOrder, true
}

package pixfmt

import (
	"fmt"
	"strings"

	"github.com/gogpu/pixfmt/internal/bitpack"
)

// BitField describes where one channel's bits live within a shared pixel
// compound: Width bits for the channel itself, then Gap unused bits
// immediately above it (toward higher significance) before the next field.
type BitField struct {
	Width int
	Gap   int
}

// PackingSpec is an ordered sequence of bit fields laying out all channels
// of a [PackedFormat] within one compound. The first field occupies the
// least significant bits. The spec is immutable once built.
type PackingSpec struct {
	fields []BitField
	shifts []int
	total  int
	maxW   int
}

// NewPackingSpec builds a packing specification from the given fields, in
// storage order from least to most significant bits.
func NewPackingSpec(fields ...BitField) PackingSpec {
	p := PackingSpec{
		fields: append([]BitField(nil), fields...),
		shifts: make([]int, len(fields)),
	}
	shift := 0
	for i, f := range fields {
		p.shifts[i] = shift
		shift += f.Width + f.Gap
		if f.Width > p.maxW {
			p.maxW = f.Width
		}
	}
	p.total = shift
	return p
}

// EvenPacking builds a packing spec of n gap-free fields of equal width.
func EvenPacking(width, n int) PackingSpec {
	fields := make([]BitField, n)
	for i := range fields {
		fields[i] = BitField{Width: width}
	}
	return NewPackingSpec(fields...)
}

// NumFields returns the number of fields.
func (p PackingSpec) NumFields() int { return len(p.fields) }

// Field returns the i-th field in storage order.
func (p PackingSpec) Field(i int) BitField { return p.fields[i] }

// Shift returns the bit position of the i-th field's least significant bit
// within the compound.
func (p PackingSpec) Shift(i int) int { return p.shifts[i] }

// TotalBits returns the total span of the spec: the sum of all widths and
// gaps. This must equal the compound's declared pixel bit-width.
func (p PackingSpec) TotalBits() int { return p.total }

// MaxWidth returns the widest field's width. The transfer representation of
// a packed format is selected from this depth.
func (p PackingSpec) MaxWidth() int { return p.maxW }

// GapMask returns a mask with a 1 bit in every position of the compound not
// covered by any field. Codecs guarantee these positions stay zero.
func (p PackingSpec) GapMask() uint64 {
	covered := uint64(0)
	for i, f := range p.fields {
		covered |= bitpack.Mask(f.Width) << p.shifts[i]
	}
	return bitpack.Mask(p.total) &^ covered
}

// validate checks the spec against a compound of the given bit width and
// channel count.
func (p PackingSpec) validate(compoundBits, numChannels int) error {
	if len(p.fields) != numChannels {
		return fmt.Errorf("%w: %d fields for %d channels", ErrInvalidPacking, len(p.fields), numChannels)
	}
	for i, f := range p.fields {
		if f.Width < 1 || f.Gap < 0 {
			return fmt.Errorf("%w: field %d has width %d, gap %d", ErrInvalidPacking, i, f.Width, f.Gap)
		}
		if f.Width > 64 {
			return fmt.Errorf("%w: field %d exceeds 64 bits", ErrInvalidPacking, i)
		}
	}
	if p.total > compoundBits {
		return fmt.Errorf("%w: fields span %d bits, compound has %d", ErrInvalidPacking, p.total, compoundBits)
	}
	return nil
}

// String returns a compact description such as "5|6|5" or "5|5|5+1".
func (p PackingSpec) String() string {
	var b strings.Builder
	for i, f := range p.fields {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%d", f.Width)
		if f.Gap > 0 {
			fmt.Fprintf(&b, "+%d", f.Gap)
		}
	}
	return b.String()
}

package pixfmt

import (
	"errors"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestPackedRGB565 tests the classic 16-bit 5:6:5 layout end to end.
func TestPackedRGB565(t *testing.T) {
	packing := NewPackingSpec(BitField{Width: 5}, BitField{Width: 6}, BitField{Width: 5})
	f, err := NewPackedFormat[uint16](ChannelsRGB, packing)
	if err != nil {
		t.Fatal(err)
	}
	info := f.TransferInfo()
	if info.Repr != TransferUint8 || info.BitDepth != 6 {
		t.Fatalf("TransferInfo() = %+v", info)
	}

	// Pure red: the first canonical channel maps to the low field.
	buf := make([]uint16, 1)
	tray := NewTray(TransferUint8, 1, 1, 3)
	copy(tray.U8, []uint8{255, 0, 0})
	f.Write(buf, image.Pt(1, 1), image.Pt(0, 0), tray)
	if buf[0] != 0x001F {
		t.Errorf("red = %#04x, want 0x001f", buf[0])
	}

	copy(tray.U8, []uint8{0, 255, 0})
	f.Write(buf, image.Pt(1, 1), image.Pt(0, 0), tray)
	if buf[0] != 0x07E0 {
		t.Errorf("green = %#04x, want 0x07e0", buf[0])
	}

	copy(tray.U8, []uint8{255, 255, 255})
	f.Write(buf, image.Pt(1, 1), image.Pt(0, 0), tray)
	if buf[0] != 0xFFFF {
		t.Errorf("white = %#04x, want 0xffff", buf[0])
	}

	back := NewTray(TransferUint8, 1, 1, 3)
	f.Read(buf, image.Pt(1, 1), image.Pt(0, 0), back)
	for c := 0; c < 3; c++ {
		if back.U8[c] != 255 {
			t.Errorf("white channel %d = %d, want 255", c, back.U8[c])
		}
	}
}

// packedRoundTrip seeds a buffer through a random tray, then checks that
// decode followed by encode reproduces the buffer bit-exactly.
func packedRoundTrip[W Word](t *testing.T, channels ChannelSpec, packing PackingSpec, opts ...FormatOption) {
	t.Helper()
	f, err := NewPackedFormat[W](channels, packing, opts...)
	if err != nil {
		t.Fatal(err)
	}
	const w, h = 4, 3
	size := image.Pt(w, h)
	n, err := f.BufferSize(size)
	if err != nil {
		t.Fatal(err)
	}
	info := f.TransferInfo()
	rng := rand.New(rand.NewPCG(17, 19))
	tray := NewTray(info.Repr, w, h, channels.NumChannels())
	for i := range tray.U8 {
		tray.U8[i] = uint8(rng.Uint32())
	}
	for i := range tray.U16 {
		tray.U16[i] = uint16(rng.Uint32())
	}

	buf := make([]W, n)
	f.Write(buf, size, image.Pt(0, 0), tray)

	mid := NewTray(info.Repr, w, h, channels.NumChannels())
	f.Read(buf, size, image.Pt(0, 0), mid)
	buf2 := make([]W, n)
	f.Write(buf2, size, image.Pt(0, 0), mid)
	for i := range buf {
		if buf[i] != buf2[i] {
			t.Fatalf("%v: word %d: %#x after round trip, %#x before", f, i, buf2[i], buf[i])
		}
	}
}

// TestPackedRoundTripLayouts tests buffer-exact round trips across a
// spread of packed layouts.
func TestPackedRoundTripLayouts(t *testing.T) {
	t.Run("rgb565", func(t *testing.T) {
		packedRoundTrip[uint16](t, ChannelsRGB,
			NewPackingSpec(BitField{Width: 5}, BitField{Width: 6}, BitField{Width: 5}))
	})
	t.Run("rgba4444", func(t *testing.T) {
		packedRoundTrip[uint16](t, ChannelsRGBA, EvenPacking(4, 4))
	})
	t.Run("rgba1010102-like", func(t *testing.T) {
		packedRoundTrip[uint32](t, ChannelsRGBA,
			NewPackingSpec(BitField{Width: 10}, BitField{Width: 10}, BitField{Width: 10}, BitField{Width: 2}))
	})
	t.Run("xrgb1555", func(t *testing.T) {
		packedRoundTrip[uint16](t, ChannelsRGB,
			NewPackingSpec(BitField{Width: 5}, BitField{Width: 5}, BitField{Width: 5, Gap: 1}))
	})
	t.Run("two-byte-compound", func(t *testing.T) {
		packedRoundTrip[uint8](t, ChannelsRGB,
			NewPackingSpec(BitField{Width: 5}, BitField{Width: 6}, BitField{Width: 5}),
			WithWordsPerPixel(2))
	})
	t.Run("little-endian-compound", func(t *testing.T) {
		packedRoundTrip[uint8](t, ChannelsRGB,
			NewPackingSpec(BitField{Width: 5}, BitField{Width: 6}, BitField{Width: 5}),
			WithWordsPerPixel(2), WithWordOrder(LittleEndian))
	})
	t.Run("luma-uneven", func(t *testing.T) {
		packedRoundTrip[uint16](t, ChannelsLumA,
			NewPackingSpec(BitField{Width: 12}, BitField{Width: 4}))
	})
}

// TestPackedGapBitsStayZero tests that codec writes never set bits outside
// the declared fields.
func TestPackedGapBitsStayZero(t *testing.T) {
	packing := NewPackingSpec(BitField{Width: 5}, BitField{Width: 5}, BitField{Width: 5, Gap: 1})
	f, err := NewPackedFormat[uint16](ChannelsRGB, packing)
	if err != nil {
		t.Fatal(err)
	}
	gap := packing.GapMask()
	if gap == 0 {
		t.Fatal("layout has no gap bits")
	}

	rng := rand.New(rand.NewPCG(23, 29))
	buf := make([]uint16, 1)
	tray := NewTray(TransferUint8, 1, 1, 3)
	for trial := 0; trial < 200; trial++ {
		for c := range tray.U8 {
			tray.U8[c] = uint8(rng.Uint32())
		}
		// Pre-soil the word: even over dirty memory writes produce clean
		// gap bits.
		buf[0] = 0xFFFF
		f.Write(buf, image.Pt(1, 1), image.Pt(0, 0), tray)
		if uint64(buf[0])&gap != 0 {
			t.Fatalf("gap bits set: %#04x (mask %#04x)", buf[0], gap)
		}
	}

	// Fill takes the same encode path.
	buf2 := []uint16{0xFFFF, 0xFFFF}
	color := Pixel{Repr: TransferUint8, U8: []uint8{200, 100, 50}}
	f.Fill(buf2, image.Pt(2, 1), image.Rect(0, 0, 2, 1), color)
	for i, v := range buf2 {
		if uint64(v)&gap != 0 {
			t.Fatalf("fill left gap bits set in word %d: %#04x", i, v)
		}
	}
}

// TestPackedFillMatchesWrite tests that Fill produces bit-identical output
// to a Write of a constant tray.
func TestPackedFillMatchesWrite(t *testing.T) {
	packing := NewPackingSpec(BitField{Width: 5}, BitField{Width: 6}, BitField{Width: 5})
	f, err := NewPackedFormat[uint16](ChannelsRGB, packing)
	if err != nil {
		t.Fatal(err)
	}
	const w, h = 4, 4
	size := image.Pt(w, h)
	area := image.Rect(1, 0, 3, 4)

	comps := []uint8{77, 180, 3}
	tray := NewTray(TransferUint8, area.Dx(), area.Dy(), 3)
	for i := 0; i < area.Dx()*area.Dy(); i++ {
		copy(tray.U8[i*3:], comps)
	}
	written := make([]uint16, w*h)
	f.Write(written, size, area.Min, tray)

	filled := make([]uint16, w*h)
	f.Fill(filled, size, area, Pixel{Repr: TransferUint8, U8: comps})

	for i := range written {
		if written[i] != filled[i] {
			t.Fatalf("word %d: fill %#x, write %#x", i, filled[i], written[i])
		}
	}
}

// TestPackedFloatTransfer tests a packed layout deep enough to transfer as
// float.
func TestPackedFloatTransfer(t *testing.T) {
	f, err := NewPackedFormat[uint64](ChannelsLumA, EvenPacking(20, 2))
	if err != nil {
		t.Fatal(err)
	}
	if f.TransferInfo().Repr != TransferFloat {
		t.Fatalf("Repr = %v", f.TransferInfo().Repr)
	}

	tray := NewTray(TransferFloat, 2, 1, 2)
	copy(tray.F32, []float32{0.25, 0.5, 0, 0}) // premultiplied; second pixel fully transparent
	buf := make([]uint64, 2)
	f.Write(buf, image.Pt(2, 1), image.Pt(0, 0), tray)
	if buf[1] != 0 {
		t.Errorf("transparent pixel = %#x, want 0", buf[1])
	}

	back := NewTray(TransferFloat, 2, 1, 2)
	f.Read(buf, image.Pt(2, 1), image.Pt(0, 0), back)
	for i := range tray.F32 {
		diff := back.F32[i] - tray.F32[i]
		if diff < -1e-4 || diff > 1e-4 {
			t.Errorf("component %d = %f, want %f", i, back.F32[i], tray.F32[i])
		}
	}
}

// TestPackedConstructorErrors tests rejection of invalid packings.
func TestPackedConstructorErrors(t *testing.T) {
	if _, err := NewPackedFormat[uint16](ChannelsRGB, EvenPacking(6, 3)); !errors.Is(err, ErrInvalidPacking) {
		t.Errorf("18 bits in uint16: %v", err)
	}
	if _, err := NewPackedFormat[uint16](ChannelsRGBA, EvenPacking(4, 3)); !errors.Is(err, ErrInvalidPacking) {
		t.Errorf("3 fields for 4 channels: %v", err)
	}
	if _, err := NewPackedFormat[uint64](ChannelsRGB, EvenPacking(16, 3), WithWordsPerPixel(2)); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("128-bit compound: %v", err)
	}
}

// TestPackedDescribe tests the descriptor produced for a packed layout.
func TestPackedDescribe(t *testing.T) {
	packing := NewPackingSpec(BitField{Width: 5}, BitField{Width: 6}, BitField{Width: 5})
	f, err := NewPackedFormat[uint16](ChannelsRGB, packing)
	if err != nil {
		t.Fatal(err)
	}
	desc, ok := f.Describe()
	if !ok {
		t.Fatal("Describe() not ok")
	}
	want := PackedDesc{
		Word:          Word16,
		BitsPerWord:   16,
		WordsPerPixel: 1,
		Order:         BigEndian,
		Channels:      ChannelsRGB,
		Fields:        []BitField{{Width: 5}, {Width: 6}, {Width: 5}},
	}
	opts := cmp.Options{cmp.AllowUnexported(ChannelSpec{}, ColorSpace{})}
	if diff := cmp.Diff(want, desc, opts); diff != "" {
		t.Errorf("Describe() mismatch (-want +got):\n%s", diff)
	}
	if !want.IsValid() {
		t.Error("descriptor reported invalid")
	}
}

package pixmap

import (
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/pixfmt"
)

func lum8(t *testing.T) pixfmt.Format[uint8] {
	t.Helper()
	f, err := pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsLum)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// TestConvertIdentity tests that converting between equal formats over
// opaque pixels is lossless.
func TestConvertIdentity(t *testing.T) {
	src, err := New(rgba8(t), 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(41, 43))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{
				uint8(rng.Uint32()), uint8(rng.Uint32()), uint8(rng.Uint32()), 255,
			}})
		}
	}
	dst, err := New(rgba8(t), 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := Convert(dst, src); err != nil {
		t.Fatal(err)
	}
	sw, dw := src.Words(), dst.Words()
	for i := range sw {
		if sw[i] != dw[i] {
			t.Fatalf("word %d = %d, want %d", i, dw[i], sw[i])
		}
	}
}

// TestConvertAcrossLayouts tests 8-bit RGBA against packed 5:6:5 in both
// directions: a second pass over already-quantized data is stable.
func TestConvertAcrossLayouts(t *testing.T) {
	src, err := New(rgba8(t), 16, 9)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(47, 53))
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			src.Set(x, y, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{
				uint8(rng.Uint32()), uint8(rng.Uint32()), uint8(rng.Uint32()), 255,
			}})
		}
	}

	packed, err := New(rgb565(t), 16, 9)
	if err != nil {
		t.Fatal(err)
	}
	if err := Convert(packed, src); err != nil {
		t.Fatal(err)
	}

	wide, err := New(rgba8(t), 16, 9)
	if err != nil {
		t.Fatal(err)
	}
	if err := Convert(wide, packed); err != nil {
		t.Fatal(err)
	}
	packed2, err := New(rgb565(t), 16, 9)
	if err != nil {
		t.Fatal(err)
	}
	if err := Convert(packed2, wide); err != nil {
		t.Fatal(err)
	}

	pw, pw2 := packed.Words(), packed2.Words()
	for i := range pw {
		if pw[i] != pw2[i] {
			t.Fatalf("word %d = %#04x after second pass, %#04x after first", i, pw2[i], pw[i])
		}
	}
}

// TestConvertRGBToLum tests the Rec. 709 luma bridge.
func TestConvertRGBToLum(t *testing.T) {
	src, err := New(rgba8(t), 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	src.Set(0, 0, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{255, 0, 0, 255}})
	src.Set(1, 0, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{255, 255, 255, 255}})
	src.Set(2, 0, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{0, 0, 0, 255}})

	dst, err := New(lum8(t), 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := Convert(dst, src); err != nil {
		t.Fatal(err)
	}
	// Pure red carries 21.26% linear luminance, which gamma-encodes to
	// roughly half gray.
	if got := dst.Get(0, 0).U8[0]; got < 126 || got > 128 {
		t.Errorf("red luma = %d, want ~127", got)
	}
	if got := dst.Get(1, 0).U8[0]; got != 255 {
		t.Errorf("white luma = %d, want 255", got)
	}
	if got := dst.Get(2, 0).U8[0]; got != 0 {
		t.Errorf("black luma = %d, want 0", got)
	}
}

// TestConvertLumToRGB tests gray replication.
func TestConvertLumToRGB(t *testing.T) {
	src, err := New(lum8(t), 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	src.Set(0, 0, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{180}})
	src.Set(1, 0, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{0}})

	dst, err := New(rgba8(t), 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := Convert(dst, src); err != nil {
		t.Fatal(err)
	}
	got := dst.Get(0, 0)
	if got.U8[0] != 180 || got.U8[1] != 180 || got.U8[2] != 180 || got.U8[3] != 255 {
		t.Errorf("gray pixel = %v, want {180 180 180 255}", got.U8)
	}
}

// TestConvertSizeMismatch tests the extent precondition.
func TestConvertSizeMismatch(t *testing.T) {
	a, _ := New(rgba8(t), 2, 2)
	b, _ := New(rgba8(t), 3, 2)
	if err := Convert(a, b); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Convert() error = %v, want ErrSizeMismatch", err)
	}
}

// TestToImageFromImage tests the standard-library image bridge.
func TestToImageFromImage(t *testing.T) {
	p, err := New(rgba8(t), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(59, 61))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			p.Set(x, y, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{
				uint8(rng.Uint32()), uint8(rng.Uint32()), uint8(rng.Uint32()), 255,
			}})
		}
	}

	img, err := p.ToImage()
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromImage(rgba8(t), img)
	if err != nil {
		t.Fatal(err)
	}
	pw, bw := p.Words(), back.Words()
	for i := range pw {
		if pw[i] != bw[i] {
			t.Fatalf("word %d = %d after image round trip, want %d", i, bw[i], pw[i])
		}
	}
}

// TestToImageTranslucent tests that partially transparent pixels survive
// the image bridge to within one code per component.
func TestToImageTranslucent(t *testing.T) {
	p, err := New(rgba8(t), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint8{200, 100, 50, 128}
	p.Set(0, 0, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: want})

	img, err := p.ToImage()
	if err != nil {
		t.Fatal(err)
	}
	got := img.NRGBAAt(0, 0)
	for i, g := range []uint8{got.R, got.G, got.B, got.A} {
		d := int(g) - int(want[i])
		if d < -1 || d > 1 {
			t.Errorf("component %d = %d, want %d±1", i, g, want[i])
		}
	}
}

// TestFromImageSubimage tests images whose bounds do not start at the
// origin.
func TestFromImageSubimage(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			base.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(40 * y), A: 255})
		}
	}
	sub := base.SubImage(image.Rect(2, 2, 5, 5))

	p, err := FromImage(rgba8(t), sub)
	if err != nil {
		t.Fatal(err)
	}
	if p.Width() != 3 || p.Height() != 3 {
		t.Fatalf("extent = %dx%d", p.Width(), p.Height())
	}
	got := p.Get(0, 0)
	if got.U8[0] != 80 || got.U8[1] != 80 {
		t.Errorf("(0,0) = %v, want {80 80 0 255}", got.U8)
	}
}

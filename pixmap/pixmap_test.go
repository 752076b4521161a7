package pixmap

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/pixfmt"
)

func rgba8(t *testing.T) pixfmt.Format[uint8] {
	t.Helper()
	f, err := pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsRGBA)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func rgb565(t *testing.T) pixfmt.Format[uint16] {
	t.Helper()
	packing := pixfmt.NewPackingSpec(
		pixfmt.BitField{Width: 5}, pixfmt.BitField{Width: 6}, pixfmt.BitField{Width: 5})
	f, err := pixfmt.NewPackedFormat[uint16](pixfmt.ChannelsRGB, packing)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// TestSetGet tests single-pixel access through the codec.
func TestSetGet(t *testing.T) {
	p, err := New(rgba8(t), 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if p.Width() != 4 || p.Height() != 3 {
		t.Fatalf("extent = %dx%d", p.Width(), p.Height())
	}

	c := pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{200, 100, 50, 255}}
	p.Set(2, 1, c)
	got := p.Get(2, 1)
	for i := range c.U8 {
		if got.U8[i] != c.U8[i] {
			t.Errorf("component %d = %d, want %d", i, got.U8[i], c.U8[i])
		}
	}
	// Neighbors stay zero.
	if g := p.Get(1, 1); g.U8[0] != 0 || g.U8[3] != 0 {
		t.Errorf("neighbor = %v", g.U8)
	}
}

// TestClear tests whole-buffer fills.
func TestClear(t *testing.T) {
	p, err := New(rgba8(t), 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	p.Clear(pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{1, 2, 3, 4}})
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			got := p.Get(x, y)
			for i, want := range []uint8{1, 2, 3, 4} {
				if got.U8[i] != want {
					t.Fatalf("(%d,%d) component %d = %d, want %d", x, y, i, got.U8[i], want)
				}
			}
		}
	}
}

// TestWrap tests wrapping caller-owned buffers.
func TestWrap(t *testing.T) {
	words := make([]uint8, 2*2*4)
	p, err := Wrap(rgba8(t), words, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	p.Set(0, 0, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{9, 8, 7, 6}})
	if words[0] != 9 || words[3] != 6 {
		t.Errorf("wrapped buffer not written through: %v", words[:4])
	}

	if _, err := Wrap(rgba8(t), words[:7], 2, 2); !errors.Is(err, ErrBufferSize) {
		t.Errorf("short buffer error = %v", err)
	}
}

// TestReadWriteRegion tests tray access to a sub-rectangle.
func TestReadWriteRegion(t *testing.T) {
	p, err := New(rgb565(t), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	tray := pixfmt.NewTray(pixfmt.TransferUint8, 2, 2, 3)
	copy(tray.U8, []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})
	p.Write(image.Pt(1, 1), tray)

	back := pixfmt.NewTray(pixfmt.TransferUint8, 2, 2, 3)
	p.Read(image.Pt(1, 1), back)
	// 5-bit and 6-bit channels reproduce the 0/255 extremes exactly.
	for i := range tray.U8 {
		if back.U8[i] != tray.U8[i] {
			t.Errorf("component %d = %d, want %d", i, back.U8[i], tray.U8[i])
		}
	}
	if g := p.Get(0, 0); g.U8[0] != 0 {
		t.Errorf("pixel outside region = %v", g.U8)
	}
}

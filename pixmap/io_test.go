package pixmap

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/gogpu/pixfmt"
)

// TestSaveLoadRoundTrip tests file round trips through each lossless
// codec.
func TestSaveLoadRoundTrip(t *testing.T) {
	p, err := New(rgba8(t), 5, 4)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			p.Set(x, y, pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{
				uint8(37 * x), uint8(53 * y), uint8(11 * (x + y)), 255,
			}})
		}
	}

	dir := t.TempDir()
	for _, name := range []string{"img.png", "img.bmp", "img.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := p.Save(path); err != nil {
				t.Fatal(err)
			}
			back, err := Load(rgba8(t), path)
			if err != nil {
				t.Fatal(err)
			}
			pw, bw := p.Words(), back.Words()
			for i := range pw {
				if pw[i] != bw[i] {
					t.Fatalf("word %d = %d after %s round trip, want %d", i, bw[i], name, pw[i])
				}
			}
		})
	}
}

// TestSaveUnsupportedExtension tests the extension gate.
func TestSaveUnsupportedExtension(t *testing.T) {
	p, err := New(rgba8(t), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	err = p.Save(filepath.Join(t.TempDir(), "img.webp"))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("Save() error = %v, want ErrUnsupportedFile", err)
	}
}

// TestLoadIntoPackedFormat tests decoding straight into a non-byte layout.
func TestLoadIntoPackedFormat(t *testing.T) {
	p, err := New(rgba8(t), 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	p.Clear(pixfmt.Pixel{Repr: pixfmt.TransferUint8, U8: []uint8{255, 255, 255, 255}})
	path := filepath.Join(t.TempDir(), "white.png")
	if err := p.Save(path); err != nil {
		t.Fatal(err)
	}

	packed, err := Load(rgb565(t), path)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range packed.Words() {
		if w != 0xFFFF {
			t.Fatalf("white pixel = %#04x, want 0xffff", w)
		}
	}
}

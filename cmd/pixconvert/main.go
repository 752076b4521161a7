// Command pixconvert re-encodes an image file through a chosen pixel
// format, optionally resizing it on the way.
//
// The interesting part is the -format flag: the image is pushed through the
// named codec layout (packed, multi-word, indexed, ...) and written back
// out, so quantization and palette effects become visible in the output
// file.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/pixfmt"
	"github.com/gogpu/pixfmt/pixmap"
)

func main() {
	var (
		in      = flag.String("in", "", "input image (png, bmp, tiff)")
		out     = flag.String("out", "out.png", "output file")
		format  = flag.String("format", "rgba8", "pixel format: "+formatNames())
		width   = flag.Int("width", 0, "output width (0 keeps input size)")
		height  = flag.Int("height", 0, "output height (0 keeps input size)")
		verbose = flag.Bool("v", false, "log format construction")
	)
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		pixfmt.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	img, err := loadImage(*in)
	if err != nil {
		log.Fatalf("pixconvert: %v", err)
	}
	if *width > 0 || *height > 0 {
		img = scale(img, *width, *height)
	}

	run, ok := formats[*format]
	if !ok {
		log.Fatalf("pixconvert: unknown format %q (have %s)", *format, formatNames())
	}
	if err := run(img, *out); err != nil {
		log.Fatalf("pixconvert: %v", err)
	}
	b := img.Bounds()
	log.Printf("wrote %s (%dx%d, %s)", *out, b.Dx(), b.Dy(), *format)
}

// loadImage decodes the input file. The pixmap package import registers
// the PNG, BMP and TIFF codecs.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// scale resizes the image with Catmull-Rom resampling. A zero dimension is
// derived from the aspect ratio.
func scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 {
		w = b.Dx() * h / b.Dy()
	}
	if h <= 0 {
		h = b.Dy() * w / b.Dx()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// formats maps flag names to conversion runs. Each entry captures a codec
// layout; the word type varies per format, so the map holds closures over
// the generic pipeline.
var formats = map[string]func(image.Image, string) error{
	"rgba8":  runFormat(func() (pixfmt.Format[uint8], error) { return pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsRGBA) }),
	"rgb8":   runFormat(func() (pixfmt.Format[uint8], error) { return pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsRGB) }),
	"gray8":  runFormat(func() (pixfmt.Format[uint8], error) { return pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsLum) }),
	"rgba16": runFormat(func() (pixfmt.Format[uint16], error) { return pixfmt.NewIntegerFormat[uint16](pixfmt.ChannelsRGBA) }),
	"gray16": runFormat(func() (pixfmt.Format[uint16], error) { return pixfmt.NewIntegerFormat[uint16](pixfmt.ChannelsLum) }),
	"rgb565": runFormat(func() (pixfmt.Format[uint16], error) {
		return pixfmt.NewPackedFormat[uint16](pixfmt.ChannelsRGB, pixfmt.NewPackingSpec(
			pixfmt.BitField{Width: 5}, pixfmt.BitField{Width: 6}, pixfmt.BitField{Width: 5}))
	}),
	"rgba4444": runFormat(func() (pixfmt.Format[uint16], error) {
		return pixfmt.NewPackedFormat[uint16](pixfmt.ChannelsRGBA, pixfmt.EvenPacking(4, 4))
	}),
	"gray4": runFormat(func() (pixfmt.Format[uint8], error) {
		return pixfmt.NewIndexedFormat[uint8](pixfmt.ChannelsLum, grayPalette(16), pixfmt.WithBitsPerIndex(4))
	}),
	"mono": runFormat(func() (pixfmt.Format[uint8], error) {
		return pixfmt.NewIndexedFormat[uint8](pixfmt.ChannelsLum, grayPalette(2),
			pixfmt.WithBitsPerIndex(1), pixfmt.WithMSBBitOrder())
	}),
}

func formatNames() string {
	return "rgba8, rgb8, gray8, rgba16, gray16, rgb565, rgba4444, gray4, mono"
}

// runFormat builds the conversion pipeline for one codec layout.
func runFormat[W pixfmt.Word](build func() (pixfmt.Format[W], error)) func(image.Image, string) error {
	return func(img image.Image, out string) error {
		f, err := build()
		if err != nil {
			return err
		}
		if desc, ok := f.Describe(); ok {
			log.Printf("layout: %v", desc)
		}
		pm, err := pixmap.FromImage(f, img)
		if err != nil {
			return err
		}
		return pm.Save(out)
	}
}

// grayPalette returns n evenly spaced linear gray levels.
func grayPalette(n int) []float32 {
	p := make([]float32, n)
	for i := range p {
		p[i] = float32(i) / float32(n-1)
	}
	return p
}

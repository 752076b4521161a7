package pixmap

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/gogpu/pixfmt"
)

// nrgbaFormat lays out words exactly like image.NRGBA pixel memory:
// 8-bit RGBA, non-premultiplied, channels in canonical order.
var nrgbaFormat = sync.OnceValue(func() pixfmt.Format[uint8] {
	f, err := pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsRGBA)
	if err != nil {
		panic(err)
	}
	return f
})

// ToImage converts the pixmap to a non-premultiplied 8-bit RGBA image.
func (p *Pixmap[W]) ToImage() (*image.NRGBA, error) {
	img := image.NewNRGBA(p.Bounds())
	dst, err := Wrap(nrgbaFormat(), img.Pix, p.size.X, p.size.Y)
	if err != nil {
		return nil, err
	}
	if err := Convert(dst, p); err != nil {
		return nil, err
	}
	return img, nil
}

// FromImage builds a pixmap of the given format holding the image's pixels.
func FromImage[W pixfmt.Word](format pixfmt.Format[W], img image.Image) (*Pixmap[W], error) {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != image.Pt(0, 0) || nrgba.Stride != bounds.Dx()*4 {
		flat := image.NewNRGBA(image.Rectangle{Max: bounds.Size()})
		draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Src)
		nrgba = flat
	}
	src, err := Wrap(nrgbaFormat(), nrgba.Pix, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("pixmap: from image: %w", err)
	}
	dst, err := New(format, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	if err := Convert(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}

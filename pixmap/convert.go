package pixmap

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/pixfmt"
	icolor "github.com/gogpu/pixfmt/internal/color"
	"github.com/gogpu/pixfmt/internal/parallel"
)

// The conversion pool is shared by all Convert calls and sized to the
// machine. It is created on first use and lives for the process.
var convertPool = sync.OnceValue(func() *parallel.WorkerPool {
	return parallel.NewWorkerPool(0)
})

// Convert re-encodes src into dst, which must have the same extent. The
// pixel data meets in linear premultiplied float space, so any source
// format converts to any destination format; color spaces are bridged
// (luminance to RGB by replication, RGB to luminance by the Rec. 709 luma
// weights). Rows are converted in parallel bands.
func Convert[DW, SW pixfmt.Word](dst *Pixmap[DW], src *Pixmap[SW]) error {
	if dst.size != src.size {
		return fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, dst.size, src.size)
	}
	sinfo := src.format.TransferInfo()
	dinfo := dst.format.TransferInfo()
	if !bridgeable(sinfo.ColorSpace, dinfo.ColorSpace) {
		return fmt.Errorf("pixmap: convert %v to %v: %w",
			sinfo.ColorSpace, dinfo.ColorSpace, pixfmt.ErrUnsupportedColorSpace)
	}
	w, h := src.size.X, src.size.Y
	if w == 0 || h == 0 {
		return nil
	}

	pool := convertPool()
	rowsPerBand := (h + pool.Workers()*2 - 1) / (pool.Workers() * 2)
	if rowsPerBand < 1 {
		rowsPerBand = 1
	}
	var jobs []func()
	for y := 0; y < h; y += rowsPerBand {
		y0, y1 := y, min(y+rowsPerBand, h)
		jobs = append(jobs, func() {
			convertBand(dst, src, sinfo, dinfo, y0, y1)
		})
	}
	pool.ExecuteAll(jobs)
	return nil
}

// bridgeable reports whether color channels can be mapped between the two
// spaces.
func bridgeable(a, b *pixfmt.ColorSpace) bool {
	if a == b {
		return true
	}
	return (a == pixfmt.Lum && b == pixfmt.RGB) || (a == pixfmt.RGB && b == pixfmt.Lum)
}

// convertBand converts the rows [y0, y1).
func convertBand[DW, SW pixfmt.Word](dst *Pixmap[DW], src *Pixmap[SW], sinfo, dinfo pixfmt.TransferInfo, y0, y1 int) {
	w, rows := src.size.X, y1-y0
	sn, dn := numChannels(sinfo), numChannels(dinfo)

	stray := pixfmt.NewTray(sinfo.Repr, w, rows, sn)
	src.Read(image.Pt(0, y0), stray)

	fsrc := promote(stray, sinfo, sn)
	fdst := bridge(fsrc, sinfo, dinfo, w*rows)
	dtray := demote(fdst, dinfo, dn, w, rows)
	dst.Write(image.Pt(0, y0), dtray)
}

// promote converts a native tray into linear premultiplied float
// components. Float trays pass through unchanged.
func promote(tray *pixfmt.Tray, info pixfmt.TransferInfo, n int) []float32 {
	if info.Repr == pixfmt.TransferFloat {
		return tray.F32
	}
	depth := 8
	comp := func(i int) uint64 { return uint64(tray.U8[i]) }
	if info.Repr == pixfmt.TransferUint16 {
		depth = 16
		comp = func(i int) uint64 { return uint64(tray.U16[i]) }
	}

	out := make([]float32, tray.Width*tray.Height*n)
	colors := n
	if info.HasAlpha {
		colors--
	}
	for base := 0; base < len(out); base += n {
		alpha := float32(1)
		if info.HasAlpha {
			alpha = icolor.DecodeAlpha(comp(base+colors), depth)
			out[base+colors] = alpha
		}
		for c := 0; c < colors; c++ {
			out[base+c] = icolor.DecodeColor(comp(base+c), depth) * alpha
		}
	}
	return out
}

// demote converts linear premultiplied float components into a native tray
// of the destination representation.
func demote(comps []float32, info pixfmt.TransferInfo, n, w, rows int) *pixfmt.Tray {
	tray := pixfmt.NewTray(info.Repr, w, rows, n)
	if info.Repr == pixfmt.TransferFloat {
		copy(tray.F32, comps)
		return tray
	}
	depth := 8
	put := func(i int, v uint64) { tray.U8[i] = uint8(v) }
	if info.Repr == pixfmt.TransferUint16 {
		depth = 16
		put = func(i int, v uint64) { tray.U16[i] = uint16(v) }
	}

	colors := n
	if info.HasAlpha {
		colors--
	}
	for base := 0; base < len(comps); base += n {
		alpha := float32(1)
		if info.HasAlpha {
			alpha = comps[base+colors]
			put(base+colors, icolor.EncodeAlpha(alpha, depth))
		}
		for c := 0; c < colors; c++ {
			v := float32(0)
			if alpha != 0 {
				v = comps[base+c] / alpha
			}
			put(base+c, icolor.EncodeColor(v, depth))
		}
	}
	return tray
}

// Rec. 709 luma weights, applied to linear components.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// bridge maps float components between channel layouts: color space
// translation plus alpha channel addition or removal. Premultiplied color
// passes through unchanged when alpha is dropped, which composites the
// pixel over black.
func bridge(comps []float32, sinfo, dinfo pixfmt.TransferInfo, pixels int) []float32 {
	if sinfo.ColorSpace == dinfo.ColorSpace && sinfo.HasAlpha == dinfo.HasAlpha {
		return comps
	}
	sn := numChannels(sinfo)
	dn := numChannels(dinfo)
	scolors := sinfo.ColorSpace.NumChannels()

	out := make([]float32, pixels*dn)
	for i := 0; i < pixels; i++ {
		sbase, dbase := i*sn, i*dn
		alpha := float32(1)
		if sinfo.HasAlpha {
			alpha = comps[sbase+scolors]
		}
		switch {
		case sinfo.ColorSpace == dinfo.ColorSpace:
			copy(out[dbase:dbase+scolors], comps[sbase:sbase+scolors])
		case sinfo.ColorSpace == pixfmt.Lum:
			l := comps[sbase]
			out[dbase], out[dbase+1], out[dbase+2] = l, l, l
		default: // RGB to Lum
			out[dbase] = lumaR*comps[sbase] + lumaG*comps[sbase+1] + lumaB*comps[sbase+2]
		}
		if dinfo.HasAlpha {
			out[dbase+dn-1] = alpha
		}
	}
	return out
}

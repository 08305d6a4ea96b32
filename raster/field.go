package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/bruvrocketry/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// Field is a signed distance field sampled on a pixel grid and read back
// with bilinear interpolation. Coordinates and distances are in source
// pixels, with source pixel (i, j) centred on (i, j). A Field is immutable
// and safe for concurrent use.
type Field struct {
	w, h int
	d    []float64
	// k is grid pixels per source pixel.
	k float64
	// pad is the margin in source pixels added round the source extent.
	pad float64
	// srcW and srcH are the source extent in source pixels.
	srcW, srcH float64
}

var _ sdf.SDF2 = (*Field)(nil)

// NewField builds the distance field of a w×h row-major mask. oversample
// is the number of mask pixels per source pixel along each axis and pad is
// the margin, in source pixels, of background added round the mask so that
// sampling near and beyond the source extent stays in the domain.
func NewField(mask []bool, w, h, oversample, pad int) (*Field, error) {
	if oversample < 1 {
		return nil, fmt.Errorf("oversample %d < 1", oversample)
	}
	if pad < 0 {
		return nil, errors.New("negative padding")
	}
	if len(mask) != w*h || w <= 0 || h <= 0 {
		return nil, errors.New("mask size does not match dimensions")
	}
	p := pad * oversample
	pw, ph := w+2*p, h+2*p
	padded := make([]bool, pw*ph)
	for y := 0; y < h; y++ {
		copy(padded[(y+p)*pw+p:(y+p)*pw+p+w], mask[y*w:(y+1)*w])
	}
	d, err := EDT(padded, pw, ph)
	if err != nil {
		return nil, err
	}
	k := float64(oversample)
	for i := range d {
		d[i] /= k
	}
	sdf.Logger().Debug("raster field", "width", pw, "height", ph, "oversample", oversample)
	return &Field{
		w: pw, h: ph, d: d,
		k:    k,
		pad:  float64(pad),
		srcW: float64(w) / k,
		srcH: float64(h) / k,
	}, nil
}

// gridOf maps a source coordinate to fractional grid indices.
func (f *Field) gridOf(p r2.Vec) (u, v float64) {
	u = (p.X+f.pad+0.5)*f.k - 0.5
	v = (p.Y+f.pad+0.5)*f.k - 0.5
	return u, v
}

// Domain returns the region Evaluate accepts.
func (f *Field) Domain() r2.Box {
	lo := -f.pad - 0.5 + 0.5/f.k
	return r2.Box{
		Min: r2.Vec{X: lo, Y: lo},
		Max: r2.Vec{X: lo + float64(f.w-1)/f.k, Y: lo + float64(f.h-1)/f.k},
	}
}

// InDomain reports whether p may be evaluated.
func (f *Field) InDomain(p r2.Vec) bool {
	u, v := f.gridOf(p)
	return u >= 0 && v >= 0 && u <= float64(f.w-1) && v <= float64(f.h-1)
}

// Evaluate returns the interpolated signed distance at p. It panics when p
// is outside Domain.
func (f *Field) Evaluate(p r2.Vec) float64 {
	u, v := f.gridOf(p)
	if !(u >= 0 && v >= 0 && u <= float64(f.w-1) && v <= float64(f.h-1)) {
		panic(fmt.Sprintf("raster sample %v outside field domain %v", p, f.Domain()))
	}
	i0 := min(int(u), f.w-2)
	j0 := min(int(v), f.h-2)
	if f.w == 1 {
		i0 = 0
	}
	if f.h == 1 {
		j0 = 0
	}
	fu, fv := u-float64(i0), v-float64(j0)
	at := func(i, j int) float64 {
		return f.d[min(j, f.h-1)*f.w+min(i, f.w-1)]
	}
	top := sdf.Mix(at(i0, j0), at(i0+1, j0), fu)
	bot := sdf.Mix(at(i0, j0+1), at(i0+1, j0+1), fu)
	return sdf.Mix(top, bot, fv)
}

// Bounds returns the source extent, which holds every foreground pixel.
func (f *Field) Bounds() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: -0.5, Y: -0.5},
		Max: r2.Vec{X: f.srcW - 0.5, Y: f.srcH - 0.5},
	}
}

// Size returns the source extent in source pixels.
func (f *Field) Size() r2.Vec { return r2.Vec{X: f.srcW, Y: f.srcH} }

// Image re-rasterises the field over its grid for inspection. Distances at
// or below lo are black, at or above hi white.
func (f *Field) Image(lo, hi float64) *image.Gray {
	if !(hi > lo) {
		panic("image range empty")
	}
	img := image.NewGray(image.Rect(0, 0, f.w, f.h))
	for j := 0; j < f.h; j++ {
		for i := 0; i < f.w; i++ {
			t := sdf.Clamp((f.d[j*f.w+i]-lo)/(hi-lo), 0, 1)
			// Row 0 of the image is the top, the largest y.
			img.SetGray(i, f.h-1-j, color.Gray{Y: uint8(math.Round(255 * t))})
		}
	}
	return img
}

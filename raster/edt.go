// Package raster converts bitmaps into signed distance fields with the
// Felzenszwalb-Huttenlocher exact Euclidean distance transform, and places
// those fields on planes and cylinders as 3d shapes.
package raster

import (
	"errors"
	"math"
)

// far stands in for infinity in the parabola envelope so intersection
// arithmetic never sees inf-inf.
const far = 1e20

// EDT returns the signed Euclidean distance, in pixels, from every pixel
// of a w×h row-major mask to the mask outline. Foreground pixels are
// negative and measured to the nearest background pixel on the outline;
// background pixels are positive and measured to the nearest foreground
// pixel on the outline.
func EDT(mask []bool, w, h int) ([]float64, error) {
	if w <= 0 || h <= 0 || len(mask) != w*h {
		return nil, errors.New("mask size does not match dimensions")
	}
	inner := make([]float64, w*h)
	outer := make([]float64, w*h)
	var nin, nout int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			inner[i], outer[i] = far, far
			if !isBoundary(mask, w, h, x, y) {
				continue
			}
			if mask[i] {
				inner[i] = 0
				nin++
			} else {
				outer[i] = 0
				nout++
			}
		}
	}
	if nin == 0 || nout == 0 {
		return nil, errors.New("mask has no outline: it is empty or full")
	}
	transform2D(inner, w, h)
	transform2D(outer, w, h)
	out := inner
	for i, fg := range mask {
		if fg {
			out[i] = -math.Sqrt(outer[i])
		} else {
			out[i] = math.Sqrt(inner[i])
		}
	}
	return out, nil
}

// isBoundary reports whether any of the 8 neighbours of (x,y) differs from it.
func isBoundary(mask []bool, w, h, x, y int) bool {
	v := mask[y*w+x]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if (dx == 0 && dy == 0) || nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if mask[ny*w+nx] != v {
				return true
			}
		}
	}
	return false
}

// transform2D replaces seed costs with squared distances in place, rows
// first then columns.
func transform2D(g []float64, w, h int) {
	n := max(w, h)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)
	for y := 0; y < h; y++ {
		row := g[y*w : (y+1)*w]
		copy(f, row)
		transform1D(f[:w], d[:w], v, z)
		copy(row, d[:w])
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			f[y] = g[y*w+x]
		}
		transform1D(f[:h], d[:h], v, z)
		for y := 0; y < h; y++ {
			g[y*w+x] = d[y]
		}
	}
}

// transform1D computes d[q] = min_i (q-i)² + f[i] through the lower
// envelope of the parabolas rooted at each i. v holds the envelope's
// parabola indices and z the abscissas where they hand over.
func transform1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for q := 1; q < n; q++ {
		fq := f[q] + float64(q*q)
		s := intersect(fq, q, f, v[k])
		for s <= z[k] {
			k--
			s = intersect(fq, q, f, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}

func intersect(fq float64, q int, f []float64, p int) float64 {
	return (fq - (f[p] + float64(p*p))) / float64(2*q-2*p)
}

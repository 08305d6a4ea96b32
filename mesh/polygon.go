// Package mesh turns 2d profiles into triangle meshes: polygon checks and
// helpers, fillet insertion, ear clipping and revolve, extrude and sweep
// sampling along paths of frames.
package mesh

import (
	"fmt"
	"math"

	"github.com/bruvrocketry/sdf/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// SignedArea returns the area enclosed by a closed outline, positive when the
// vertices wind counter clockwise.
func SignedArea(v []r2.Vec) float64 {
	var a float64
	for i := range v {
		a += d2.Cross(v[i], v[(i+1)%len(v)])
	}
	return a / 2
}

// Area returns the unsigned area enclosed by a closed outline.
func Area(v []r2.Vec) float64 {
	return math.Abs(SignedArea(v))
}

// Perimeter returns the length of a closed outline.
func Perimeter(v []r2.Vec) float64 {
	var l float64
	for i := range v {
		l += r2.Norm(r2.Sub(v[(i+1)%len(v)], v[i]))
	}
	return l
}

// IsSimple reports whether the closed outline v is a simple polygon: at least
// three vertices, no repeated vertices, no corner that runs straight on or
// doubles back, and no two non-adjacent edges crossing. When the check fails
// the returned reason names the first offending feature.
func IsSimple(v []r2.Vec) (ok bool, reason string) {
	n := len(v)
	if n < 3 {
		return false, fmt.Sprintf("%d vertices, need at least 3", n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if v[i] == v[j] {
				return false, fmt.Sprintf("vertices %d and %d coincide", i, j)
			}
		}
	}
	for i := 0; i < n; i++ {
		a, b, c := v[(i-1+n)%n], v[i], v[(i+1)%n]
		ba, bc := r2.Sub(a, b), r2.Sub(c, b)
		if math.Abs(d2.Cross(ba, bc)) <= 1e-12*r2.Norm(ba)*r2.Norm(bc) {
			if r2.Dot(ba, bc) < 0 {
				return false, fmt.Sprintf("flat corner at vertex %d", i)
			}
			return false, fmt.Sprintf("spike corner at vertex %d", i)
		}
	}
	for i := 0; i < n; i++ {
		i1 := (i + 1) % n
		a0, a1 := v[i], v[i1]
		for j := i + 1; j < n; j++ {
			j1 := (j + 1) % n
			if i1 == j || j1 == i {
				continue // adjacent edges share a vertex
			}
			b0, b1 := v[j], v[j1]
			o1 := d2.Cross(r2.Sub(a1, a0), r2.Sub(b0, a0))
			o2 := d2.Cross(r2.Sub(a1, a0), r2.Sub(b1, a0))
			o3 := d2.Cross(r2.Sub(b1, b0), r2.Sub(a0, b0))
			o4 := d2.Cross(r2.Sub(b1, b0), r2.Sub(a1, b0))
			if o1*o2 < 0 && o3*o4 < 0 {
				return false, fmt.Sprintf("edges %d and %d cross", i, j)
			}
		}
	}
	return true, ""
}

// Simplify returns a copy of the closed outline v without repeated vertices
// and without vertices lying within tol of the chord joining their
// neighbours on a straight run. Sampled profiles need this before IsSimple
// since straight sections sample to flat corners. Spike corners are left
// for IsSimple to report.
func Simplify(v []r2.Vec, tol float64) []r2.Vec {
	out := append([]r2.Vec(nil), v...)
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(out) && len(out) > 3; {
			n := len(out)
			if redundant(out[(i-1+n)%n], out[i], out[(i+1)%n], tol) {
				out = append(out[:i], out[i+1:]...)
				changed = true
				continue
			}
			i++
		}
	}
	return out
}

func redundant(a, b, c r2.Vec, tol float64) bool {
	ba, bc := r2.Sub(a, b), r2.Sub(c, b)
	if r2.Norm(bc) <= tol {
		return true
	}
	chord := r2.Norm(r2.Sub(c, a))
	if chord <= tol {
		return false
	}
	return math.Abs(d2.Cross(ba, bc)) <= tol*chord && r2.Dot(ba, bc) < 0
}

// TriContains reports whether p lies inside or on the counter clockwise
// triangle abc.
func TriContains(p, a, b, c r2.Vec) bool {
	return d2.Cross(r2.Sub(b, a), r2.Sub(p, a)) >= 0 &&
		d2.Cross(r2.Sub(c, b), r2.Sub(p, b)) >= 0 &&
		d2.Cross(r2.Sub(a, c), r2.Sub(p, c)) >= 0
}

// LineIntersection returns the intersection of the infinite lines through
// a0,a1 and b0,b1. onA reports whether it lies on the segment a0a1. The lines
// must not be parallel.
func LineIntersection(a0, a1, b0, b1 r2.Vec) (p r2.Vec, onA bool) {
	da, db := r2.Sub(a1, a0), r2.Sub(b1, b0)
	den := d2.Cross(da, db)
	if math.Abs(den) < 1e-12 {
		panic("parallel lines do not intersect")
	}
	t := d2.Cross(r2.Sub(b0, a0), db) / den
	return r2.Add(a0, r2.Scale(t, da)), 0 <= t && t <= 1
}

// Resample returns n vertices spaced evenly by arc length along v. An open
// polyline keeps both end points; a closed one is measured around the loop
// including the closing edge.
func Resample(v []r2.Vec, n int, closed bool) []r2.Vec {
	if len(v) < 2 {
		panic("need at least 2 vertices to resample")
	}
	if n < 2 {
		panic("need at least 2 divisions")
	}
	edges := len(v) - 1
	if closed {
		edges = len(v)
	}
	var total float64
	for i := 0; i < edges; i++ {
		total += r2.Norm(r2.Sub(v[(i+1)%len(v)], v[i]))
	}
	if total == 0 {
		panic("zero length polyline")
	}
	step := total / float64(n-1)
	if closed {
		step = total / float64(n)
	}
	out := make([]r2.Vec, 0, n)
	out = append(out, v[0])
	var (
		seg   int
		prev  = v[0]
		accum float64
	)
	for len(out) < n {
		if !closed && len(out) == n-1 {
			out = append(out, v[len(v)-1])
			break
		}
		if seg >= edges {
			// Rounding left us short of the last sample.
			out = append(out, prev)
			continue
		}
		upto := v[(seg+1)%len(v)]
		l := r2.Norm(r2.Sub(upto, prev))
		if accum+l >= step {
			t := (step - accum) / l
			prev = r2.Add(prev, r2.Scale(t, r2.Sub(upto, prev)))
			out = append(out, prev)
			accum = 0
		} else {
			accum += l
			prev = upto
			seg++
		}
	}
	return out
}

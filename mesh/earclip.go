package mesh

import (
	"github.com/bruvrocketry/sdf/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Triangulate splits a simple polygon of either winding into len(v)-2
// triangles by ear clipping. Triangles index into v and share the winding of
// the polygon. It panics if no ear can be found, which only happens for
// outlines that fail IsSimple.
func Triangulate(v []r2.Vec) [][3]int {
	if len(v) < 3 {
		panic("need at least 3 vertices to triangulate")
	}
	ccw := SignedArea(v) >= 0
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	tris := make([][3]int, 0, len(v)-2)
	for len(idx) > 3 {
		m := len(idx)
		found := false
		for i := 0; i < m; i++ {
			ia, ib, ic := idx[(i-1+m)%m], idx[i], idx[(i+1)%m]
			if !isEar(v, idx, ia, ib, ic, ccw) {
				continue
			}
			tris = append(tris, [3]int{ia, ib, ic})
			idx = append(idx[:i], idx[i+1:]...)
			found = true
			break
		}
		if !found {
			panic("no ear found")
		}
	}
	return append(tris, [3]int{idx[0], idx[1], idx[2]})
}

// isEar reports whether the corner at b is convex in the polygon's winding
// and its triangle holds no other remaining vertex.
func isEar(v []r2.Vec, idx []int, ia, ib, ic int, ccw bool) bool {
	a, b, c := v[ia], v[ib], v[ic]
	w := d2.Cross(r2.Sub(c, b), r2.Sub(a, b))
	if w == 0 || (w < 0) == ccw {
		return false
	}
	for _, id := range idx {
		if id == ia || id == ib || id == ic {
			continue
		}
		p := v[id]
		if ccw && TriContains(p, a, b, c) || !ccw && TriContains(p, a, c, b) {
			return false
		}
	}
	return true
}

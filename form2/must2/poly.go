package must2

import (
	"math"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/internal/d2"
	"github.com/bruvrocketry/sdf/mesh"
	"gonum.org/v1/gonum/spatial/r2"
)

// polygon is an SDF2 made from a closed, simple outline.
type polygon struct {
	vertex []r2.Vec  // outline, not repeated at the end
	edge   []r2.Vec  // vertex[i+1] - vertex[i]
	inv    []float64 // 1/|edge|^2
	bb     r2.Box
}

// Polygon returns an SDF2 for the region enclosed by a simple outline of any
// winding. A repeated closing vertex is dropped.
func Polygon(vertex []r2.Vec) sdf.SDF2 {
	n := len(vertex)
	if n > 3 && d2.EqualWithin(vertex[0], vertex[n-1], 0) {
		n--
	}
	if n < 3 {
		panic("number of vertices < 3")
	}
	s := polygon{
		vertex: append([]r2.Vec(nil), vertex[:n]...),
		edge:   make([]r2.Vec, n),
		inv:    make([]float64, n),
	}
	if ok, reason := mesh.IsSimple(s.vertex); !ok {
		panic("polygon not simple: " + reason)
	}
	bb := d2.EmptyBox()
	for i, a := range s.vertex {
		b := s.vertex[(i+1)%n]
		s.edge[i] = r2.Sub(b, a)
		s.inv[i] = 1 / r2.Norm2(s.edge[i])
		bb = bb.Include(a)
	}
	s.bb = r2.Box(bb)
	return &s
}

// Evaluate returns the signed distance to the polygon outline. The sign
// comes from the winding number about p, the magnitude from the nearest
// edge.
func (s *polygon) Evaluate(p r2.Vec) float64 {
	n := len(s.vertex)
	winding := 0
	dd := math.Inf(1)
	for i, a := range s.vertex {
		b := s.vertex[(i+1)%n]
		ab := s.edge[i]
		ap := r2.Sub(p, a)
		if a.Y <= p.Y {
			if b.Y > p.Y && d2.Cross(ab, ap) > 0 {
				winding++ // upward crossing, p on the left
			}
		} else if b.Y <= p.Y && d2.Cross(ab, ap) < 0 {
			winding-- // downward crossing, p on the right
		}
		t := sdf.Clamp(r2.Dot(ap, ab)*s.inv[i], 0, 1)
		dd = math.Min(dd, r2.Norm2(r2.Sub(ap, r2.Scale(t, ab))))
	}
	d := math.Sqrt(dd)
	if winding != 0 {
		return -d
	}
	return d
}

// Bounds returns the bounding box of the polygon.
func (s *polygon) Bounds() r2.Box {
	return s.bb
}

// circle is a 2d disc.
type circle struct {
	radius float64
}

// Circle returns the SDF2 for a disc centred at the origin.
func Circle(radius float64) sdf.SDF2 {
	if radius <= 0 {
		panic("radius <= 0")
	}
	return &circle{radius: radius}
}

// Evaluate returns the minimum distance to the disc.
func (s *circle) Evaluate(p r2.Vec) float64 {
	return r2.Norm(p) - s.radius
}

// Bounds returns the bounding box of the disc.
func (s *circle) Bounds() r2.Box {
	return r2.Box{Min: d2.Elem(-s.radius), Max: d2.Elem(s.radius)}
}

package must3

import (
	"math"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/form2/must2"
	"github.com/bruvrocketry/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// localBounds returns the world box of a frame-local box.
func localBounds(f sdf.Frame, lo, hi r3.Vec) r3.Box {
	return f.ToGlobalBox(r3.Box{Min: lo, Max: hi})
}

// ball is a sphere.
type ball struct {
	centre r3.Vec
	radius float64
	bb     r3.Box
}

// Ball returns an SDF3 for a sphere.
func Ball(centre r3.Vec, radius float64) sdf.SDF3 {
	if radius <= 0 {
		panic("radius <= 0")
	}
	d := d3.Elem(radius)
	return &ball{
		centre: centre,
		radius: radius,
		bb:     r3.Box{Min: r3.Sub(centre, d), Max: r3.Add(centre, d)},
	}
}

// Evaluate returns the minimum distance to a sphere.
func (s *ball) Evaluate(p r3.Vec) float64 {
	return r3.Norm(r3.Sub(p, s.centre)) - s.radius
}

// Bounds returns the bounding box for a sphere.
func (s *ball) Bounds() r3.Box { return s.bb }

// pill is a capsule: all points within radius of a segment.
type pill struct {
	a      r3.Vec
	axis   r3.Vec // unit a->b
	length float64
	radius float64
	bb     r3.Box
}

// Pill returns an SDF3 for the capsule of the given radius around segment ab.
func Pill(a, b r3.Vec, radius float64) sdf.SDF3 {
	if radius <= 0 {
		panic("radius <= 0")
	}
	ab := r3.Sub(b, a)
	length := r3.Norm(ab)
	if length == 0 {
		panic("degenerate pill axis")
	}
	d := d3.Elem(radius)
	bb := d3.Box{Min: r3.Sub(a, d), Max: r3.Add(a, d)}
	bb = bb.Extend(d3.Box{Min: r3.Sub(b, d), Max: r3.Add(b, d)})
	return &pill{
		a:      a,
		axis:   r3.Scale(1/length, ab),
		length: length,
		radius: radius,
		bb:     r3.Box(bb),
	}
}

// Evaluate returns the minimum distance to the capsule.
func (s *pill) Evaluate(p r3.Vec) float64 {
	ap := r3.Sub(p, s.a)
	t := sdf.Clamp(r3.Dot(ap, s.axis), 0, s.length)
	return r3.Norm(r3.Sub(ap, r3.Scale(t, s.axis))) - s.radius
}

// Bounds returns the bounding box for the capsule.
func (s *pill) Bounds() r3.Box { return s.bb }

// cuboid is a box whose low-z face is centred on a frame origin.
type cuboid struct {
	frame  sdf.Frame
	half   r2.Vec // half extents in x and y
	length float64
	bb     r3.Box
}

// Cuboid returns an SDF3 for a box of size lx*ly*lz. The frame origin sits at
// the centre of the box face at local z=0 and the box extends along +Z.
func Cuboid(f sdf.Frame, lx, ly, lz float64) sdf.SDF3 {
	if lx <= 0 || ly <= 0 || lz <= 0 {
		panic("size <= 0")
	}
	half := r2.Vec{X: lx / 2, Y: ly / 2}
	return &cuboid{
		frame:  f,
		half:   half,
		length: lz,
		bb:     localBounds(f, r3.Vec{X: -half.X, Y: -half.Y}, r3.Vec{X: half.X, Y: half.Y, Z: lz}),
	}
}

// Box returns the axis aligned cuboid spanning corners a and b.
func Box(a, b r3.Vec) sdf.SDF3 {
	lo, hi := d3.MinElem(a, b), d3.MaxElem(a, b)
	size := r3.Sub(hi, lo)
	base := r3.Vec{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2, Z: lo.Z}
	return Cuboid(sdf.FrameAt(base), size.X, size.Y, size.Z)
}

// Evaluate returns the minimum distance to the cuboid.
func (s *cuboid) Evaluate(p r3.Vec) float64 {
	q := s.frame.FromGlobal(p)
	return sdf.Combine3(
		sdf.Band(q.X, -s.half.X, s.half.X),
		sdf.Band(q.Y, -s.half.Y, s.half.Y),
		sdf.Band(q.Z, 0, s.length),
	)
}

// Bounds returns the bounding box for the cuboid.
func (s *cuboid) Bounds() r3.Box { return s.bb }

// pipe is a tube between an inner and an outer radius along a frame's Z axis.
type pipe struct {
	frame    sdf.Frame
	length   float64
	rlo, rhi float64
	bb       r3.Box
}

// minBore is the inner radius below which a pipe is treated as a solid rod.
const minBore = 1e-3

// Pipe returns an SDF3 for a tube of the given length starting at the frame
// origin and extending along +Z. An inner radius of zero gives a solid rod.
func Pipe(f sdf.Frame, length, rlo, rhi float64) sdf.SDF3 {
	if length <= 0 || math.IsInf(length, 0) || math.IsNaN(length) {
		panic("length <= 0")
	}
	if rlo < 0 {
		panic("inner radius < 0")
	}
	if rhi <= rlo {
		panic("outer radius <= inner radius")
	}
	return &pipe{
		frame:  f,
		length: length,
		rlo:    rlo,
		rhi:    rhi,
		bb:     localBounds(f, r3.Vec{X: -rhi, Y: -rhi}, r3.Vec{X: rhi, Y: rhi, Z: length}),
	}
}

// Evaluate returns the minimum distance to the tube.
func (s *pipe) Evaluate(p r3.Vec) float64 {
	q := s.frame.FromGlobal(p)
	r := d3.HypotXY(q)
	radial := r - s.rhi
	if s.rlo > minBore {
		radial = math.Max(radial, s.rlo-r)
	}
	return sdf.Combine(radial, sdf.Band(q.Z, 0, s.length))
}

// Bounds returns the bounding box for the tube.
func (s *pipe) Bounds() r3.Box { return s.bb }

// cone is a right circular cone with its tip at the frame origin, opening
// along +Z with half angle phi and a flat base at z=length.
type cone struct {
	frame          sdf.Frame
	length         float64
	face           float64 // slant length, length/cos(phi)
	sinphi, cosphi float64
	thickness      float64 // zero for a solid cone
	bb             r3.Box
}

// Cone returns an SDF3 for a cone with its tip at the frame origin, half
// angle phi in (0, pi/2) and axial length. A positive thickness hollows the
// cone into a wall of that thickness measured inwards from the face.
func Cone(f sdf.Frame, length, phi, thickness float64) sdf.SDF3 {
	if length <= 0 {
		panic("length <= 0")
	}
	if phi <= 0 || phi >= math.Pi/2 {
		panic("cone half angle out of (0, pi/2)")
	}
	if thickness < 0 {
		panic("thickness < 0")
	}
	s := cone{frame: f, length: length, thickness: thickness}
	s.sinphi, s.cosphi = math.Sincos(phi)
	s.face = length / s.cosphi
	r := length * s.sinphi / s.cosphi
	s.bb = localBounds(f, r3.Vec{X: -r, Y: -r}, r3.Vec{X: r, Y: r, Z: length})
	return &s
}

// ConeBase returns a cone whose base of the given radius is centred on the
// frame origin and whose tip lies at z=length.
func ConeBase(f sdf.Frame, length, radius, thickness float64) sdf.SDF3 {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if length <= 0 {
		panic("length <= 0")
	}
	return Cone(f.TransZ(length).Flip(), length, math.Atan(radius/length), thickness)
}

// Evaluate returns the minimum distance to the cone.
func (s *cone) Evaluate(p r3.Vec) float64 {
	q := s.frame.FromGlobal(p)
	r := d3.HypotXY(q)
	d := s.cosphi*r - s.sinphi*q.Z
	along := s.sinphi*r + s.cosphi*q.Z
	switch {
	case along < 0:
		// Below the tip.
		d = math.Hypot(r, q.Z)
	case along > s.face && d > 0:
		// Beyond the rim.
		d = math.Hypot(d, along-s.face)
	}
	if s.thickness > 0 {
		d = math.Abs(d+s.thickness/2) - s.thickness/2
	}
	return math.Max(d, q.Z-s.length)
}

// Bounds returns the bounding box for the cone.
func (s *cone) Bounds() r3.Box { return s.bb }

// torus is a ring about a frame's Z axis.
type torus struct {
	frame        sdf.Frame
	major, minor float64
	bb           r3.Box
}

// Torus returns an SDF3 for a ring of tube radius minor whose centre line is
// the circle of radius major in the frame's XY plane.
func Torus(f sdf.Frame, major, minor float64) sdf.SDF3 {
	if minor <= 0 {
		panic("minor radius <= 0")
	}
	if major < minor {
		panic("major radius < minor radius")
	}
	r := major + minor
	return &torus{
		frame: f,
		major: major,
		minor: minor,
		bb:    localBounds(f, r3.Vec{X: -r, Y: -r, Z: -minor}, r3.Vec{X: r, Y: r, Z: minor}),
	}
}

// Evaluate returns the minimum distance to the torus.
func (s *torus) Evaluate(p r3.Vec) float64 {
	q := s.frame.FromGlobal(p)
	return math.Hypot(d3.HypotXY(q)-s.major, q.Z) - s.minor
}

// Bounds returns the bounding box for the torus.
func (s *torus) Bounds() r3.Box { return s.bb }

// prism is a polygon outline in a frame's XY plane extruded along +Z.
type prism struct {
	frame   sdf.Frame
	outline sdf.SDF2
	length  float64
	bb      r3.Box
}

// Prism returns an SDF3 for a simple polygon outline given in frame XY
// coordinates extruded from z=0 to z=length.
func Prism(f sdf.Frame, outline []r2.Vec, length float64) sdf.SDF3 {
	if length <= 0 {
		panic("length <= 0")
	}
	poly := must2.Polygon(outline)
	bb := poly.Bounds()
	return &prism{
		frame:   f,
		outline: poly,
		length:  length,
		bb:      localBounds(f, d3.FromR2(bb.Min, 0), d3.FromR2(bb.Max, length)),
	}
}

// Evaluate returns the minimum distance to the prism.
func (s *prism) Evaluate(p r3.Vec) float64 {
	q := s.frame.FromGlobal(p)
	return sdf.Combine(s.outline.Evaluate(r2.Vec{X: q.X, Y: q.Y}), sdf.Band(q.Z, 0, s.length))
}

// Bounds returns the bounding box for the prism.
func (s *prism) Bounds() r3.Box { return s.bb }

// slab is the region between two planes normal to a frame's Z axis.
type slab struct {
	frame  sdf.Frame
	lo, hi float64
}

// Slab returns the unbounded region lo <= z <= hi in frame coordinates. One
// side may be infinite to describe a half space.
func Slab(f sdf.Frame, lo, hi float64) sdf.Unbounded3 {
	if !(hi > lo) {
		panic("slab hi <= lo")
	}
	if math.IsInf(lo, 1) || math.IsInf(hi, -1) {
		panic("slab bound on wrong side of infinity")
	}
	if math.IsInf(lo, -1) && math.IsInf(hi, 1) {
		panic("slab unbounded on both sides")
	}
	return &slab{frame: f, lo: lo, hi: hi}
}

// Evaluate returns the signed distance to the slab.
func (s *slab) Evaluate(p r3.Vec) float64 {
	z := r3.Dot(r3.Sub(p, s.frame.Pos), s.frame.Z)
	return sdf.Band(z, s.lo, s.hi)
}

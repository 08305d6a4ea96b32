package contour

import (
	"fmt"
	"math"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// SegmentKind enumerates the section shapes a contour is made of.
type SegmentKind uint8

const (
	Line SegmentKind = iota
	Arc
	Conic
)

func (k SegmentKind) String() string {
	switch k {
	case Line:
		return "line"
	case Arc:
		return "arc"
	case Conic:
		return "conic"
	}
	return fmt.Sprintf("SegmentKind(%d)", uint8(k))
}

// conicTol is the Newton stopping criterion on the stationarity residual
// of the conic closest point search.
const conicTol = 1e-9

// Segment is one section of a contour in (axial, radial) coordinates, held
// as a tagged union over SegmentKind. Segments are travelled in increasing
// axial direction and the positive side is the one of increasing radius.
type Segment struct {
	Kind       SegmentKind
	Start, End r2.Vec
	// Centre of an Arc.
	Centre r2.Vec
	// Control is the tangent intersection point of a Conic.
	Control r2.Vec

	// line
	dir    r2.Vec
	normal r2.Vec
	length float64

	// arc
	radius  float64
	theta0  float64
	sweep   float64
	concave bool

	// conic, z(p) = az p² + bz p + cz and likewise for r, with p=1 at
	// Start and p=0 at End.
	az, bz, cz float64
	ar, br, cr float64
	branch     float64
	t0, t1     r2.Vec
	a0, b0     float64
	c0, d0     float64
}

func newLine(a, b r2.Vec) Segment {
	s := Segment{Kind: Line, Start: a, End: b}
	d := r2.Sub(b, a)
	s.length = r2.Norm(d)
	if s.length < epsilon {
		panic("zero length line segment")
	}
	s.dir = r2.Scale(1/s.length, d)
	s.normal = r2.Vec{X: -s.dir.Y, Y: s.dir.X}
	return s
}

func newArc(a, b, centre r2.Vec) Segment {
	s := Segment{Kind: Arc, Start: a, End: b, Centre: centre}
	ra := r2.Norm(r2.Sub(a, centre))
	rb := r2.Norm(r2.Sub(b, centre))
	if ra < epsilon {
		panic("zero radius arc")
	}
	if math.Abs(ra-rb) > 1e-6*ra {
		panic(fmt.Sprintf("arc end points not equidistant from centre: %g != %g", ra, rb))
	}
	s.radius = ra
	// Centre on the positive side bends the surface away from the solid.
	s.concave = d2.Cross(r2.Sub(b, a), r2.Sub(centre, a)) > 0
	s.theta0 = d2.Arg(r2.Sub(a, centre))
	s.sweep = s.spanOf(d2.Arg(r2.Sub(b, centre)))
	return s
}

// spanOf returns the angle travelled from the arc start to theta. Concave
// arcs are travelled counter clockwise, convex ones clockwise.
func (s *Segment) spanOf(theta float64) float64 {
	if s.concave {
		return sdf.WrapAngle(theta - s.theta0)
	}
	return sdf.WrapAngle(s.theta0 - theta)
}

func newConic(a, b, control r2.Vec) Segment {
	if !(a.X < control.X && control.X < b.X) {
		panic("conic control point must lie strictly between its end points axially")
	}
	s := Segment{Kind: Conic, Start: a, End: b, Control: control}
	s.az = a.X - 2*control.X + b.X
	s.bz = 2*control.X - 2*b.X
	s.cz = b.X
	s.ar = a.Y - 2*control.Y + b.Y
	s.br = 2*control.Y - 2*b.Y
	s.cr = b.Y
	// The root with p in [0,1] is the one that vanishes at the end point.
	s.branch = math.Copysign(1, s.bz)
	s.t0 = r2.Unit(r2.Sub(control, a))
	s.t1 = r2.Unit(r2.Sub(b, control))
	s.a0 = 2 * s.ar * s.ar
	s.b0 = 3 * s.ar * s.br
	s.c0 = 2*s.ar*s.cr + s.br*s.br
	s.d0 = s.br * s.cr
	return s
}

// param returns p(S) and its first two derivatives with respect to the
// axial coordinate S.
func (s *Segment) param(S float64) (p, dp, ddp float64) {
	if math.Abs(s.az) < epsilon*math.Abs(s.bz) {
		// Control point at the axial midpoint: z is linear in p.
		return (S - s.cz) / s.bz, 1 / s.bz, 0
	}
	disc := math.Max(0, s.bz*s.bz-4*s.az*(s.cz-S))
	term0 := math.Sqrt(disc)
	p = (-s.bz + s.branch*term0) / (2 * s.az)
	dp = s.branch / term0
	ddp = -s.branch * 2 * s.az / (term0 * term0 * term0)
	return p, dp, ddp
}

func (s *Segment) conicAt(p float64) r2.Vec {
	return r2.Vec{
		X: (s.az*p+s.bz)*p + s.cz,
		Y: (s.ar*p+s.br)*p + s.cr,
	}
}

// conicClosest returns the axial coordinate of the point on the conic
// closest to q. It roots the derivative of the squared distance with Newton
// iterations seeded from the chord projection.
func (s *Segment) conicClosest(q r2.Vec) float64 {
	chord := r2.Sub(s.End, s.Start)
	L := r2.Norm(chord)
	t := sdf.Clamp(r2.Dot(r2.Sub(q, s.Start), chord)/L, 0, L)
	S := s.Start.X + t*chord.X/L
	// Polynomial in p of (r(p) - q.r) r'(p).
	c0 := s.c0 - 2*q.Y*s.ar
	d0 := s.d0 - q.Y*s.br
	for i := 0; i < 10; i++ {
		p, dp, ddp := s.param(S)
		term1 := ((s.a0*p+s.b0)*p+c0)*p + d0
		f := S - q.X + dp*term1
		if math.Abs(f) < conicTol {
			break
		}
		df := 1 + ddp*term1 + dp*dp*((3*s.a0*p+2*s.b0)*p+c0)
		S = sdf.Clamp(S-f/df, s.Start.X, s.End.X)
	}
	return S
}

// distance returns the signed distance from q to the segment and whether q
// lies in the region the segment answers for.
func (s *Segment) distance(q r2.Vec) (float64, bool) {
	switch s.Kind {
	case Line:
		t := r2.Dot(r2.Sub(q, s.Start), s.dir)
		if t < 0 || t > s.length {
			return 0, false
		}
		return r2.Dot(r2.Sub(q, s.Start), s.normal), true
	case Arc:
		v := r2.Sub(q, s.Centre)
		if s.spanOf(d2.Arg(v)) > s.sweep {
			return 0, false
		}
		if s.concave {
			return s.radius - r2.Norm(v), true
		}
		return r2.Norm(v) - s.radius, true
	case Conic:
		after := r2.Dot(r2.Sub(q, s.Start), s.t0) >= 0
		before := r2.Dot(r2.Sub(q, s.End), s.t1) <= 0
		switch {
		case after && before:
			p, _, _ := s.param(s.conicClosest(q))
			P := s.conicAt(p)
			d := r2.Norm(r2.Sub(q, P))
			if q.Y < P.Y {
				d = -d
			}
			return d, true
		case !before && q.X <= s.End.X:
			// Past the end normal but short of the end: the end point is
			// closest and q is outside.
			return r2.Norm(r2.Sub(q, s.End)), true
		}
		return 0, false
	}
	panic("unknown segment kind " + s.Kind.String())
}

// radiusAt returns the radius of the segment at axial coordinate z, which
// must lie within the segment's axial range.
func (s *Segment) radiusAt(z float64) float64 {
	switch s.Kind {
	case Line:
		u := (z - s.Start.X) / (s.End.X - s.Start.X)
		return sdf.Mix(s.Start.Y, s.End.Y, u)
	case Arc:
		h := math.Sqrt(math.Max(0, s.radius*s.radius-(z-s.Centre.X)*(z-s.Centre.X)))
		if s.concave {
			return s.Centre.Y - h
		}
		return s.Centre.Y + h
	case Conic:
		p, _, _ := s.param(z)
		return s.conicAt(p).Y
	}
	panic("unknown segment kind " + s.Kind.String())
}

// maxRadius bounds the radial extent of the segment.
func (s *Segment) maxRadius() float64 {
	r := math.Max(s.Start.Y, s.End.Y)
	switch s.Kind {
	case Arc:
		if s.spanOf(math.Pi/2) <= s.sweep {
			r = math.Max(r, s.Centre.Y+s.radius)
		}
	case Conic:
		r = math.Max(r, s.Control.Y)
	}
	return r
}

// Package contour implements analytic signed distance fields of
// axisymmetric profiles. A contour is a chain of line, arc and conic
// sections in (axial, radial) coordinates, closed at both ends by caps, and
// revolved about the Z axis. Distances are memoized in an exact key cache.
package contour

import (
	"errors"
	"fmt"
	"math"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const epsilon = 1e-12

// CapKind selects how a contour end is closed.
type CapKind uint8

const (
	// FlatCap continues the end radius for Extension and ends in a face
	// normal to the axis.
	FlatCap CapKind = iota
	// RoundCap continues the end radius and ends in a quarter circle of the
	// end radius, meeting the axis Extension past the end point or one end
	// radius past it when Extension is shorter. Only valid as a back cap.
	RoundCap
)

// Cap closes one end of a contour.
type Cap struct {
	Kind      CapKind
	Extension float64
}

// Flat returns a FlatCap extending by x.
func Flat(x float64) Cap { return Cap{Kind: FlatCap, Extension: x} }

// Round returns a RoundCap extending by x.
func Round(x float64) Cap { return Cap{Kind: RoundCap, Extension: x} }

// Contour is the signed distance field of a revolved profile. Points at
// smaller radius than the profile are inside. A Contour is not safe for
// concurrent use unless its cache is; see WithCache.
type Contour struct {
	segs  []Segment
	front Cap
	back  Cap
	cache Cache

	first, last r2.Vec
	// Cap corners: zQ is the front face and zR the back face.
	zQ, zR float64
	// Rounded back cap centre.
	roundAt r2.Vec
}

var _ sdf.Unbounded3 = (*Contour)(nil)

// Builder assembles a Contour section by section. Axial coordinates must
// strictly increase along the profile.
type Builder struct {
	at   r2.Vec
	segs []Segment
}

// NewBuilder starts a profile at start (axial, radial).
func NewBuilder(start r2.Vec) *Builder {
	if start.Y < 0 {
		panic("contour start below axis")
	}
	return &Builder{at: start}
}

func (b *Builder) advance(p r2.Vec) {
	if !(p.X > b.at.X) {
		panic(fmt.Sprintf("contour axial coordinates not increasing: %g after %g", p.X, b.at.X))
	}
	if p.Y < 0 {
		panic("contour crosses axis")
	}
	b.at = p
}

// LineTo adds a straight section to p.
func (b *Builder) LineTo(p r2.Vec) *Builder {
	s := newLine(b.at, p)
	b.advance(p)
	b.segs = append(b.segs, s)
	return b
}

// ArcTo adds a circular section to p about centre. The arc runs the short
// way round on the side the centre implies.
func (b *Builder) ArcTo(p, centre r2.Vec) *Builder {
	s := newArc(b.at, p, centre)
	b.advance(p)
	b.segs = append(b.segs, s)
	return b
}

// ConicTo adds a parabolic section to p tangent to the lines joining the
// current point and p to control.
func (b *Builder) ConicTo(p, control r2.Vec) *Builder {
	s := newConic(b.at, p, control)
	b.advance(p)
	b.segs = append(b.segs, s)
	return b
}

// Build closes the profile with the given caps and returns the contour with
// an unbounded cache. The breakpoint radii must fall and then rise, each
// part possibly empty, as a chamber converges to its throat and diverges
// to the exit.
func (b *Builder) Build(front, back Cap) (*Contour, error) {
	switch {
	case len(b.segs) == 0:
		return nil, errors.New("empty contour")
	case front.Kind != FlatCap:
		return nil, errors.New("front cap must be flat")
	case front.Extension < 0 || back.Extension < 0:
		return nil, errors.New("negative cap extension")
	}
	if err := checkRadii(b.segs); err != nil {
		return nil, err
	}
	c := &Contour{
		segs:  append([]Segment(nil), b.segs...),
		front: front,
		back:  back,
		cache: NewCache(),
		first: b.segs[0].Start,
		last:  b.at,
	}
	c.zQ = c.first.X - front.Extension
	c.zR = c.last.X + back.Extension
	if back.Kind == RoundCap {
		c.zR = math.Max(c.zR, c.last.X+c.last.Y)
		c.roundAt = r2.Vec{X: c.zR - c.last.Y}
	}
	return c, nil
}

// checkRadii reports the first breakpoint where the radius falls again
// after having risen.
func checkRadii(segs []Segment) error {
	rising := false
	prev := segs[0].Start
	for i, s := range segs {
		switch {
		case s.End.Y > prev.Y:
			rising = true
		case s.End.Y < prev.Y && rising:
			return fmt.Errorf("contour radius falls from %g to %g at breakpoint %d after diverging", prev.Y, s.End.Y, i+1)
		}
		prev = s.End
	}
	return nil
}

// WithCache returns a shallow copy of c using cache. Contours share their
// immutable geometry so each worker can hold its own copy and cache. A nil
// cache disables memoization.
func (c *Contour) WithCache(cache Cache) *Contour {
	cc := *c
	cc.cache = cache
	return &cc
}

// Cache returns the contour's cache, which may be nil.
func (c *Contour) Cache() Cache { return c.cache }

// Segments returns a copy of the contour sections.
func (c *Contour) Segments() []Segment {
	return append([]Segment(nil), c.segs...)
}

// Domain returns the axial range over which RadiusAt is defined, from the
// front cap face to the back cap end.
func (c *Contour) Domain() (zlo, zhi float64) { return c.zQ, c.zR }

// Evaluate returns the signed distance from p to the revolved profile
// about the Z axis.
func (c *Contour) Evaluate(p r3.Vec) float64 {
	return c.Evaluate2(r2.Vec{X: p.Z, Y: d3.HypotXY(p)})
}

// Evaluate2 returns the signed distance from q = (axial, radial) to the
// profile.
func (c *Contour) Evaluate2(q r2.Vec) float64 {
	if c.cache == nil {
		return c.distance(q)
	}
	k := KeyOf(q)
	if d, ok := c.cache.Get(k); ok {
		return d
	}
	d := c.distance(q)
	c.cache.Put(k, d)
	return d
}

// distance checks every section and both caps, keeping the candidate of
// least magnitude. Earlier candidates win ties.
func (c *Contour) distance(q r2.Vec) float64 {
	dist := math.Inf(1)
	update := func(d float64) {
		if math.Abs(d) < math.Abs(dist) {
			dist = d
		}
	}
	for i := range c.segs {
		if d, ok := c.segs[i].distance(q); ok {
			update(d)
		}
	}
	if q.X <= c.first.X {
		update(sdf.Combine(c.zQ-q.X, q.Y-c.first.Y))
	}
	switch c.back.Kind {
	case FlatCap:
		if q.X >= c.last.X {
			update(sdf.Combine(q.X-c.zR, q.Y-c.last.Y))
		}
	case RoundCap:
		if q.X >= c.roundAt.X {
			update(r2.Norm(r2.Sub(q, c.roundAt)) - c.last.Y)
		} else if q.X >= c.last.X {
			update(q.Y - c.last.Y)
		}
	}
	return dist
}

// BoundsFor returns a box containing every point within maxOffset of the
// revolved profile's solid side.
func (c *Contour) BoundsFor(maxOffset float64) r3.Box {
	r := c.maxRadius() + maxOffset
	return r3.Box{
		Min: r3.Vec{X: -r, Y: -r, Z: c.zQ - maxOffset},
		Max: r3.Vec{X: r, Y: r, Z: c.zR + maxOffset},
	}
}

func (c *Contour) maxRadius() float64 {
	r := math.Max(c.first.Y, c.last.Y)
	for i := range c.segs {
		r = math.Max(r, c.segs[i].maxRadius())
	}
	return r
}

// Filled returns the bounded solid grown by offset from the contour.
func (c *Contour) Filled(offset float64) sdf.SDF3 {
	f := sdf.NewFilled(c, offset)
	return sdf.Bound3D(f, c.BoundsFor(math.Max(0, f.MaxOffset())))
}

// Shelled returns the bounded wall of given thickness centred offset from
// the contour.
func (c *Contour) Shelled(offset, thickness float64) sdf.SDF3 {
	s := sdf.NewShelled(c, offset, thickness)
	return sdf.Bound3D(s, c.BoundsFor(math.Max(0, s.MaxOffset())))
}

// LogStats writes the cache statistics to the package logger.
func (c *Contour) LogStats(name string) {
	if c.cache == nil {
		return
	}
	s := c.cache.Stats()
	sdf.Logger().Debug("contour cache", "name", name, "hits", s.Hits,
		"misses", s.Misses, "evictions", s.Evictions, "size", s.Size,
		"hitrate", s.HitRate())
}

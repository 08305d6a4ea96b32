package sdf

import (
	"math"

	"github.com/bruvrocketry/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is the interface to a bounded 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that contains every point
	// where the SDF3 may be negative.
	Bounds() r3.Box
}

// Unbounded3 is a 3d signed distance function with no finite extent of its
// own. It must be paired with an evaluation region with Bound3D before it is
// handed to a voxeliser.
type Unbounded3 interface {
	Evaluate(p r3.Vec) float64
}

// Func3 adapts an ordinary function to the Unbounded3 interface.
type Func3 func(p r3.Vec) float64

// Evaluate calls f(p).
func (f Func3) Evaluate(p r3.Vec) float64 { return f(p) }

// Offsetter is implemented by fields that move the surface of another field
// outwards. MaxOffset is the largest outwards displacement so callers can
// grow evaluation regions accordingly.
type Offsetter interface {
	MaxOffset() float64
}

type bounded3 struct {
	sdf Unbounded3
	bb  r3.Box
}

// Bound3D attaches an explicit evaluation region to an unbounded field.
func Bound3D(s Unbounded3, bb r3.Box) SDF3 {
	if s == nil {
		panic("nil sdf argument")
	}
	if bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y || bb.Min.Z > bb.Max.Z {
		panic("inverted bounding box")
	}
	return &bounded3{sdf: s, bb: bb}
}

func (s *bounded3) Evaluate(p r3.Vec) float64 { return s.sdf.Evaluate(p) }

func (s *bounded3) Bounds() r3.Box { return s.bb }

// Filled grows (offset > 0) or shrinks (offset < 0) the solid of a field.
type Filled struct {
	sdf Unbounded3
	off float64
}

// NewFilled returns the field f(p) - offset.
func NewFilled(s Unbounded3, offset float64) *Filled {
	if s == nil {
		panic("nil sdf argument")
	}
	return &Filled{sdf: s, off: offset}
}

// Evaluate returns the minimum distance to the filled solid.
func (f *Filled) Evaluate(p r3.Vec) float64 {
	return f.sdf.Evaluate(p) - f.off
}

// Offset returns the fill offset.
func (f *Filled) Offset() float64 { return f.off }

// MaxOffset returns how far the surface moved outwards.
func (f *Filled) MaxOffset() float64 { return f.off }

// Shelled is a hollow shell of constant thickness centred on an offset
// surface of another field.
type Shelled struct {
	sdf    Unbounded3
	off    float64
	semith float64
}

// NewShelled returns the field |f(p) - offset| - thickness/2.
func NewShelled(s Unbounded3, offset, thickness float64) *Shelled {
	if s == nil {
		panic("nil sdf argument")
	}
	if thickness <= 0 {
		panic("thickness <= 0")
	}
	return &Shelled{sdf: s, off: offset, semith: thickness / 2}
}

// Evaluate returns the minimum distance to the shell.
func (s *Shelled) Evaluate(p r3.Vec) float64 {
	return math.Abs(s.sdf.Evaluate(p)-s.off) - s.semith
}

// Offset returns the offset of the shell mid-surface.
func (s *Shelled) Offset() float64 { return s.off }

// Thickness returns the shell thickness.
func (s *Shelled) Thickness() float64 { return 2 * s.semith }

// InnerOffset is the offset of the inner face of the shell.
func (s *Shelled) InnerOffset() float64 { return s.off - s.semith }

// MaxOffset is the offset of the outer face of the shell.
func (s *Shelled) MaxOffset() float64 { return s.off + s.semith }

// Innered returns a shell of equal thickness whose inner face lies on the
// current mid-surface.
func (s *Shelled) Innered() *Shelled {
	return &Shelled{sdf: s.sdf, off: s.off + s.semith, semith: s.semith}
}

// Outered returns a shell of equal thickness whose outer face lies on the
// current mid-surface.
func (s *Shelled) Outered() *Shelled {
	return &Shelled{sdf: s.sdf, off: s.off - s.semith, semith: s.semith}
}

// Filled3D returns a bounded filled field. The box of s is grown by offset
// when offset is positive.
func Filled3D(s SDF3, offset float64) SDF3 {
	f := NewFilled(s, offset)
	return Bound3D(f, grow(s.Bounds(), f.MaxOffset()))
}

// Shelled3D returns a bounded shell of s with the given mid-surface offset and
// thickness.
func Shelled3D(s SDF3, offset, thickness float64) SDF3 {
	sh := NewShelled(s, offset, thickness)
	return Bound3D(sh, grow(s.Bounds(), sh.MaxOffset()))
}

func grow(bb r3.Box, by float64) r3.Box {
	if by <= 0 {
		return bb
	}
	return r3.Box(d3.Box(bb).Enlarge(d3.Elem(2 * by)))
}

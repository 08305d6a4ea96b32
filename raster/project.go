package raster

import (
	"fmt"
	"math"

	"github.com/bruvrocketry/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// sample returns the field distance at p in world units, with the image
// scaled by s world units per pixel and centred on the origin. Like
// Evaluate it panics beyond the padded domain.
func (f *Field) sample(p r2.Vec, s float64) float64 {
	q := r2.Vec{
		X: p.X/s + (f.srcW-1)/2,
		Y: p.Y/s + (f.srcH-1)/2,
	}
	return s * f.Evaluate(q)
}

// WrapPad returns the padding, in source pixels, a w×h image needs for
// OnCylinder to sample a full turn of the given radius when scaled to
// height.
func WrapPad(w, h int, radius, height float64) int {
	s := height / float64(h)
	need := math.Pi*radius/s - float64(w)/2 + 0.5
	return max(0, int(math.Ceil(need)))
}

func (f *Field) scale(height float64) float64 {
	if !(height > 0) {
		panic("raster height <= 0")
	}
	return height / f.srcH
}

type planar struct {
	f     *Field
	frame sdf.Frame
	s     float64
	depth float64
}

// OnPlane extrudes the field as a relief on the frame's XY plane. The image
// is scaled to the given height along Y, centred on the frame origin, and
// spans local z in [0, depth]. Evaluate panics for points whose projection
// leaves the padded domain.
func (f *Field) OnPlane(frame sdf.Frame, depth, height float64) sdf.SDF3 {
	if !(depth > 0) {
		panic("relief depth <= 0")
	}
	return &planar{f: f, frame: frame, s: f.scale(height), depth: depth}
}

func (pl *planar) Evaluate(p r3.Vec) float64 {
	q := pl.frame.FromGlobal(p)
	d := pl.f.sample(r2.Vec{X: q.X, Y: q.Y}, pl.s)
	return sdf.Combine(d, sdf.Band(q.Z, 0, pl.depth))
}

func (pl *planar) Bounds() r3.Box {
	hw := pl.s * pl.f.srcW / 2
	hh := pl.s * pl.f.srcH / 2
	return pl.frame.ToGlobalBox(r3.Box{
		Min: r3.Vec{X: -hw, Y: -hh},
		Max: r3.Vec{X: hw, Y: hh, Z: pl.depth},
	})
}

type cylindrical struct {
	f      *Field
	frame  sdf.Frame
	s      float64
	radius float64
	lo, hi float64
}

// OnCylinder wraps the field round a cylinder of the given radius about the
// frame's Z axis. Image x runs along the circumference, centred on the
// frame's X axis, and image y runs along Z, centred on the origin. The
// relief spans radii between radius and radius+depth, so a negative depth
// cuts into the cylinder. Distances along the circumference are measured
// at the nominal radius, making the field exact only close to it.
//
// The whole turn must lie in the field's domain, so the field needs at
// least WrapPad padding; OnCylinder panics otherwise. Points beyond the
// image height in Z are outside the domain as well.
func (f *Field) OnCylinder(frame sdf.Frame, radius, depth, height float64) sdf.SDF3 {
	if !(radius > 0) {
		panic("cylinder radius <= 0")
	}
	if depth == 0 || -depth >= radius {
		panic("bad relief depth")
	}
	s := f.scale(height)
	if s*f.srcW > 2*math.Pi*radius {
		panic("image wider than cylinder circumference")
	}
	c, half, dom := (f.srcW-1)/2, math.Pi*radius/s, f.Domain()
	if dom.Min.X > c-half || dom.Max.X < c+half {
		panic(fmt.Sprintf("field padding %g does not reach round the cylinder, need %d",
			f.pad, WrapPad(int(f.srcW), int(f.srcH), radius, height)))
	}
	return &cylindrical{
		f: f, frame: frame, s: s, radius: radius,
		lo: math.Min(radius, radius+depth),
		hi: math.Max(radius, radius+depth),
	}
}

func (c *cylindrical) Evaluate(p r3.Vec) float64 {
	q := c.frame.FromGlobal(p)
	r := math.Hypot(q.X, q.Y)
	arc := c.radius * math.Atan2(q.Y, q.X)
	d := c.f.sample(r2.Vec{X: arc, Y: q.Z}, c.s)
	return sdf.Combine(d, sdf.Band(r, c.lo, c.hi))
}

func (c *cylindrical) Bounds() r3.Box {
	hh := c.s * c.f.srcH / 2
	return c.frame.ToGlobalBox(r3.Box{
		Min: r3.Vec{X: -c.hi, Y: -c.hi, Z: -hh},
		Max: r3.Vec{X: c.hi, Y: c.hi, Z: hh},
	})
}

package sdf

import (
	"math"

	"github.com/bruvrocketry/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	unitX = r3.Vec{X: 1}
	unitY = r3.Vec{Y: 1}
	unitZ = r3.Vec{Z: 1}
)

// Frame is a right handed local coordinate system: an origin and three
// orthonormal axes. Primitives are placed in the world through a Frame and
// sweeps are described as a path of Frames.
type Frame struct {
	Pos     r3.Vec
	X, Y, Z r3.Vec
}

// WorldFrame returns the frame with world axes at the origin.
func WorldFrame() Frame {
	return Frame{X: unitX, Y: unitY, Z: unitZ}
}

// FrameAt returns a frame with world axes at pos.
func FrameAt(pos r3.Vec) Frame {
	return Frame{Pos: pos, X: unitX, Y: unitY, Z: unitZ}
}

// NewFrame returns the frame at pos with the given X and Z directions. The
// directions are normalised and must be non-zero and perpendicular.
func NewFrame(pos, x, z r3.Vec) Frame {
	if !d3.Finite(pos) {
		panic("non-finite frame position")
	}
	nx, nz := r3.Norm(x), r3.Norm(z)
	if nx < epsilon || nz < epsilon {
		panic("zero length frame axis")
	}
	x = r3.Scale(1/nx, x)
	z = r3.Scale(1/nz, z)
	if math.Abs(r3.Dot(x, z)) > 1e-6 {
		panic("frame axes not perpendicular")
	}
	return Frame{Pos: pos, X: x, Y: r3.Cross(z, x), Z: z}
}

// FrameAlong returns a frame at pos whose Z axis points along z. The X axis
// is an arbitrary perpendicular direction.
func FrameAlong(pos, z r3.Vec) Frame {
	n := r3.Norm(z)
	if n < epsilon {
		panic("zero length frame axis")
	}
	z = r3.Scale(1/n, z)
	other := unitY
	if math.Abs(r3.Dot(z, other)) > 0.99 {
		other = unitX
	}
	return NewFrame(pos, r3.Cross(z, other), z)
}

// ToGlobal maps a point in frame coordinates to world coordinates.
func (f Frame) ToGlobal(p r3.Vec) r3.Vec {
	return r3.Add(f.Pos, f.ToGlobalRot(p))
}

// FromGlobal maps a world point into frame coordinates.
func (f Frame) FromGlobal(p r3.Vec) r3.Vec {
	return f.FromGlobalRot(r3.Sub(p, f.Pos))
}

// ToGlobalRot maps a direction in frame coordinates to world coordinates.
func (f Frame) ToGlobalRot(v r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(v.X, f.X), r3.Scale(v.Y, f.Y)), r3.Scale(v.Z, f.Z))
}

// FromGlobalRot maps a world direction into frame coordinates.
func (f Frame) FromGlobalRot(v r3.Vec) r3.Vec {
	return r3.Vec{X: r3.Dot(v, f.X), Y: r3.Dot(v, f.Y), Z: r3.Dot(v, f.Z)}
}

// ToGlobalBox returns the world box enclosing a box given in frame coordinates.
func (f Frame) ToGlobalBox(bb r3.Box) r3.Box {
	out := d3.EmptyBox()
	for _, v := range d3.Box(bb).Vertices() {
		out = out.Include(f.ToGlobal(v))
	}
	return r3.Box(out)
}

// Translate moves the frame by v given in frame coordinates.
func (f Frame) Translate(v r3.Vec) Frame {
	f.Pos = r3.Add(f.Pos, f.ToGlobalRot(v))
	return f
}

// TransX moves the frame along its own X axis.
func (f Frame) TransX(by float64) Frame { return f.Translate(r3.Vec{X: by}) }

// TransY moves the frame along its own Y axis.
func (f Frame) TransY(by float64) Frame { return f.Translate(r3.Vec{Y: by}) }

// TransZ moves the frame along its own Z axis.
func (f Frame) TransZ(by float64) Frame { return f.Translate(r3.Vec{Z: by}) }

// RotXY rotates the frame about its own Z axis by theta radians.
func (f Frame) RotXY(theta float64) Frame {
	s, c := math.Sincos(theta)
	x := r3.Add(r3.Scale(c, f.X), r3.Scale(s, f.Y))
	f.Y = r3.Cross(f.Z, x)
	f.X = x
	return f
}

// Flip reverses all three axes. The flipped frame is left handed, which only
// matters to callers reading Y.
func (f Frame) Flip() Frame {
	f.X = r3.Scale(-1, f.X)
	f.Y = r3.Scale(-1, f.Y)
	f.Z = r3.Scale(-1, f.Z)
	return f
}

package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Elem returns a vector with all components set to v.
func Elem(v float64) r3.Vec {
	return r3.Vec{X: v, Y: v, Z: v}
}

// EqualWithin reports whether every component of a and b differs by at most tol.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// AbsElem returns the vector with absolute value of each component.
func AbsElem(a r3.Vec) r3.Vec {
	return r3.Vec{X: math.Abs(a.X), Y: math.Abs(a.Y), Z: math.Abs(a.Z)}
}

// Finite reports whether no component is NaN or infinite.
func Finite(a r3.Vec) bool {
	return !math.IsNaN(a.X+a.Y+a.Z) && !math.IsInf(a.X+a.Y+a.Z, 0)
}

// HypotXY returns the distance of a from the Z axis.
func HypotXY(a r3.Vec) float64 {
	return math.Hypot(a.X, a.Y)
}

// FromR2 lifts a planar vector to 3d at height z.
func FromR2(v r2.Vec, z float64) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: z}
}

// Set is a set of 3d points.
type Set []r3.Vec

// Min returns the element-wise minimum of the set.
func (a Set) Min() r3.Vec {
	m := Elem(math.Inf(1))
	for _, v := range a {
		m = MinElem(m, v)
	}
	return m
}

// Max returns the element-wise maximum of the set.
func (a Set) Max() r3.Vec {
	m := Elem(math.Inf(-1))
	for _, v := range a {
		m = MaxElem(m, v)
	}
	return m
}

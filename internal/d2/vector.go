package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Elem returns a vector with both components set to v.
func Elem(v float64) r2.Vec {
	return r2.Vec{X: v, Y: v}
}

// EqualWithin reports whether both components of a and b differ by at most tol.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Cross returns the z component of the cross product of a and b.
func Cross(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Arg returns the angle of a measured from the +X axis, in (-pi, pi].
func Arg(a r2.Vec) float64 {
	return math.Atan2(a.Y, a.X)
}

// Polar returns the point at radius r and angle theta.
func Polar(r, theta float64) r2.Vec {
	s, c := math.Sincos(theta)
	return r2.Vec{X: r * c, Y: r * s}
}

// Set is a set of 2d points.
type Set []r2.Vec

// Min returns the element-wise minimum of the set.
func (a Set) Min() r2.Vec {
	m := Elem(math.Inf(1))
	for _, v := range a {
		m = MinElem(m, v)
	}
	return m
}

// Max returns the element-wise maximum of the set.
func (a Set) Max() r2.Vec {
	m := Elem(math.Inf(-1))
	for _, v := range a {
		m = MaxElem(m, v)
	}
	return m
}

package sdf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	pi        = math.Pi
	tau       = 2 * pi
	tolerance = 1e-9
	epsilon   = 1e-12
)

// Combine joins two local distance components, such as the radial and axial
// distances of a tube. If either is non-positive the larger one describes
// the nearest feature; otherwise the nearest feature is the edge between
// them and the result is their hypotenuse.
func Combine(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return math.Max(a, b)
	}
	return math.Hypot(a, b)
}

// Combine3 is Combine over three components, as used by boxes. Positive
// components add in quadrature even when the third is negative.
func Combine3(a, b, c float64) float64 {
	return Combine(Combine(a, b), c)
}

// Band returns the signed distance of x to the closed interval [lo, hi],
// negative inside.
func Band(x, lo, hi float64) float64 {
	return math.Max(lo-x, x-hi)
}

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Mix does a linear interpolation from x to y, a = [0,1]
func Mix(x, y, a float64) float64 {
	return x + (a * (y - x))
}

// Sign returns the sign of x
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// WrapAngle maps an angle onto [0, 2pi).
func WrapAngle(theta float64) float64 {
	theta = math.Mod(theta, tau)
	if theta < 0 {
		theta += tau
	}
	if theta >= tau {
		theta = 0
	}
	return theta
}

// EqualFloat64 compares two float64 values for equality using relative error.
func EqualFloat64(a, b, epsilon float64) bool {
	const minNormal = 0x1p-1022
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if a == 0 || b == 0 || diff < minNormal {
		return diff < (epsilon * minNormal)
	}
	return diff/math.Min(math.Abs(a)+math.Abs(b), math.MaxFloat64) < epsilon
}

// Normal3 returns the normal of a field at a point (doesn't need to be on the surface).
// Computed by central differences with step eps.
func Normal3(s Unbounded3, p r3.Vec, eps float64) r3.Vec {
	return r3.Unit(r3.Vec{
		X: s.Evaluate(r3.Add(p, r3.Vec{X: eps})) - s.Evaluate(r3.Add(p, r3.Vec{X: -eps})),
		Y: s.Evaluate(r3.Add(p, r3.Vec{Y: eps})) - s.Evaluate(r3.Add(p, r3.Vec{Y: -eps})),
		Z: s.Evaluate(r3.Add(p, r3.Vec{Z: eps})) - s.Evaluate(r3.Add(p, r3.Vec{Z: -eps})),
	})
}

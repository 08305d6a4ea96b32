package sdf

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate returns the signed distance from p to the shape's outline,
	// negative inside.
	Evaluate(p r2.Vec) float64
	// Bounds returns a box containing every point where the SDF2 may be
	// negative.
	Bounds() r2.Box
}

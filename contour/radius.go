package contour

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	radiusTol    = 1e-3
	radiusIters  = 10
	widenedIters = 100
)

// field is a signed distance in (axial, radial) coordinates.
type field interface {
	Evaluate2(q r2.Vec) float64
}

// RadiusAt returns the radius at which the contour's signed distance equals
// offset at axial position z. z must lie in Domain. It panics if the
// correction does not settle to within 1e-3 in ten steps.
func (c *Contour) RadiusAt(z, offset float64) float64 {
	return solveRadius(c, c.guessRadius(z), z, offset)
}

// guessRadius returns the radius of the profile itself at z.
func (c *Contour) guessRadius(z float64) float64 {
	if !(z >= c.zQ && z <= c.zR) {
		panic(fmt.Sprintf("z=%g outside contour domain [%g, %g]", z, c.zQ, c.zR))
	}
	if z <= c.first.X {
		return c.first.Y
	}
	for i := range c.segs {
		if z <= c.segs[i].End.X {
			return c.segs[i].radiusAt(z)
		}
	}
	return c.last.Y
}

// solveRadius starts from the profile radius pushed out by offset and then
// treats the remaining error as purely radial.
func solveRadius(f field, guess, z, offset float64) float64 {
	r := guess + offset
	for i := 0; ; i++ {
		dr := offset - f.Evaluate2(r2.Vec{X: z, Y: r})
		r += dr
		if math.Abs(dr) < radiusTol {
			return r
		}
		if i == radiusIters-1 {
			panic(fmt.Sprintf("radius at z=%g offset=%g did not converge: dr=%g", z, offset, dr))
		}
	}
}

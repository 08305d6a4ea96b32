package contour

import (
	"fmt"
	"math"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Widened merges a wall contour with the mid-line of a channel that runs
// Offset outside it, min(primary, mid+Offset). This is not a general union:
// it is only a distance field where the mid-line stays on the outer side of
// the primary wall, as it does for a nozzle and its cooling channel.
type Widened struct {
	Primary *Contour
	Mid     *Contour
	Offset  float64
}

var _ sdf.Unbounded3 = (*Widened)(nil)

// Evaluate returns the widened distance at p.
func (w *Widened) Evaluate(p r3.Vec) float64 {
	return w.Evaluate2(r2.Vec{X: p.Z, Y: d3.HypotXY(p)})
}

// Evaluate2 returns the widened distance at q = (axial, radial).
func (w *Widened) Evaluate2(q r2.Vec) float64 {
	return math.Min(w.Primary.Evaluate2(q), w.Mid.Evaluate2(q)+w.Offset)
}

// RadiusAt returns the outermost radius at which the widened distance
// equals offset at z, which must lie in the primary contour's domain.
//
// The min of the two fields is flat along the radius wherever the channel
// face caps it, and the radial correction used by Contour.RadiusAt crawls
// across such plateaus. Instead the root is approached from outside both
// profiles. The field is 1-Lipschitz, so a step equal to the excess
// distance never passes the outermost crossing; steps are stretched by the
// secant slope, and a crossing that is overshot is closed by bisection. It
// panics if there is no crossing or the search does not settle.
func (w *Widened) RadiusAt(z, offset float64) float64 {
	w.Primary.guessRadius(z) // Domain check.
	f := func(r float64) float64 { return w.Evaluate2(r2.Vec{X: z, Y: r}) - offset }
	hi := math.Max(w.Primary.maxRadius(), w.Mid.maxRadius()) + math.Abs(w.Offset) + math.Abs(offset) + 1
	fhi := f(hi)
	var (
		lo, flo float64
		bracket bool
		slope   = 1.0
	)
	for i := 0; i < widenedIters; i++ {
		var r float64
		if bracket {
			r = 0.5 * (lo + hi)
		} else {
			r = math.Max(0, hi-fhi/slope)
		}
		fr := f(r)
		if math.Abs(fr) < radiusTol {
			return r
		}
		switch {
		case fr < 0:
			lo, flo, bracket = r, fr, true
		case r == 0:
			panic(fmt.Sprintf("no widened surface at z=%g offset=%g", z, offset))
		default:
			if !bracket {
				slope = sdf.Clamp((fhi-fr)/(hi-r), 0.1, 1)
			}
			hi, fhi = r, fr
		}
	}
	panic(fmt.Sprintf("widened radius at z=%g offset=%g did not converge: [%g, %g] f=%g", z, offset, lo, hi, flo))
}

// BoundsFor returns a box holding both contours grown by maxOffset.
func (w *Widened) BoundsFor(maxOffset float64) r3.Box {
	r := math.Max(w.Primary.maxRadius(), w.Mid.maxRadius()+w.Offset) + maxOffset
	zlo := math.Min(w.Primary.zQ, w.Mid.zQ) - maxOffset
	return r3.Box{
		Min: r3.Vec{X: -r, Y: -r, Z: zlo},
		Max: r3.Vec{X: r, Y: r, Z: math.Max(w.Primary.zR, w.Mid.zR) + maxOffset},
	}
}

// Filled returns the bounded solid grown by offset from the widened field.
func (w *Widened) Filled(offset float64) sdf.SDF3 {
	f := sdf.NewFilled(w, offset)
	return sdf.Bound3D(f, w.BoundsFor(math.Max(0, f.MaxOffset())))
}

// Shelled returns the bounded wall of given thickness centred offset from
// the widened field.
func (w *Widened) Shelled(offset, thickness float64) sdf.SDF3 {
	s := sdf.NewShelled(w, offset, thickness)
	return sdf.Bound3D(s, w.BoundsFor(math.Max(0, s.MaxOffset())))
}

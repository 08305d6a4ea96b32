package mesh

import (
	"fmt"
	"math"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// FilletOptions controls fillet insertion.
type FilletOptions struct {
	// Precision scales the automatic arc division count, which is 50
	// segments per full turn at Precision 1. Zero means 1.
	Precision float64
	// Divisions fixes the number of arc vertices when positive.
	Divisions int
	// AutoShrink lets a fillet that does not fit its corner remove the
	// shorter adjacent edge by extending its neighbour to a new corner, then
	// retry. This alters geometry away from the corner. When false such a
	// corner fails with a *FilletError.
	AutoShrink bool
}

// FilletError reports a fillet whose tangent points fall outside the
// adjacent edges.
type FilletError struct {
	Index     int     // corner vertex index
	Radius    float64 // requested radius
	Required  float64 // tangent length the radius needs along each edge
	Available float64 // length of the shorter adjacent edge
}

func (e *FilletError) Error() string {
	return fmt.Sprintf("fillet radius %g too large for corner %d: needs %g along each edge, shorter edge is %g",
		e.Radius, e.Index, e.Required, e.Available)
}

// Fillet replaces vertex i of the closed outline v by a circular arc of the
// given radius tangent to both adjacent edges. The input is not modified.
// A corner that is already straight is returned unchanged.
func Fillet(v []r2.Vec, i int, radius float64, opt FilletOptions) ([]r2.Vec, error) {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if opt.Precision == 0 {
		opt.Precision = 1
	}
	out := append([]r2.Vec(nil), v...)
	for {
		n := len(out)
		if i < 0 || i >= n {
			panic("fillet vertex index out of range")
		}
		ia, ic := (i-1+n)%n, (i+1)%n
		a, b, c := out[ia], out[i], out[ic]
		lba, lbc := r2.Norm(r2.Sub(a, b)), r2.Norm(r2.Sub(c, b))
		if lba < 1e-12 || lbc < 1e-12 {
			panic("fillet corner has coincident vertices")
		}
		ba := r2.Scale(1/lba, r2.Sub(a, b))
		bc := r2.Scale(1/lbc, r2.Sub(c, b))
		beta := math.Acos(sdf.Clamp(r2.Dot(ba, bc), -1, 1))
		if beta < 1e-9 {
			panic("fillet corner has zero angle")
		}
		if math.Pi-beta < 1e-9 {
			return out, nil
		}
		ell := radius / math.Tan(beta/2)
		if short := math.Min(lba, lbc); ell > short {
			if !opt.AutoShrink {
				return nil, &FilletError{Index: i, Radius: radius, Required: ell, Available: short}
			}
			if n < 4 {
				return nil, fmt.Errorf("fillet corner %d: %d vertices are too few to shrink", i, n)
			}
			if lba <= lbc {
				// Drop edge ab: extend the edge before it to meet bc.
				na, _ := LineIntersection(out[(i-2+n)%n], a, b, c)
				out[ia] = na
				out = append(out[:i], out[i+1:]...)
				i = ia
				if ia > len(out)-1 {
					i = len(out) - 1
				}
			} else {
				// Drop edge bc: extend the edge after it to meet ab.
				nc, _ := LineIntersection(out[(i+2)%n], c, b, a)
				out[ic] = nc
				out = append(out[:i], out[i+1:]...)
			}
			if i >= len(out) {
				i = 0
			}
			sdf.Logger().Debug("fillet shrank corner", "vertex", i, "radius", radius, "vertices", len(out))
			continue
		}
		d := r2.Add(b, r2.Scale(ell, ba))
		centre := r2.Add(b, r2.Scale(radius/math.Sin(beta/2), r2.Unit(r2.Add(ba, bc))))
		theta0 := d2.Arg(r2.Sub(b, centre))
		sweep := theta0 - d2.Arg(r2.Sub(d, centre))
		if math.Abs(sweep) > math.Pi {
			if sweep < 0 {
				sweep += 2 * math.Pi
			} else {
				sweep -= 2 * math.Pi
			}
		}
		theta0 -= sweep
		sweep *= 2
		divs := opt.Divisions
		if divs <= 0 {
			divs = int(math.Abs(sweep) / (2 * math.Pi) * 50 * opt.Precision)
		}
		if divs < 2 {
			divs = 2
		}
		arc := make([]r2.Vec, divs)
		for j := range arc {
			theta := theta0 + float64(j)*sweep/float64(divs-1)
			arc[j] = r2.Add(centre, d2.Polar(radius, theta))
		}
		res := make([]r2.Vec, 0, n-1+divs)
		res = append(res, out[:i]...)
		res = append(res, arc...)
		res = append(res, out[i+1:]...)
		return res, nil
	}
}

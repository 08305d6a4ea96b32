// Package ruled implements the signed distance to a twisted plane: the
// ruled saddle surface swept by a radial line that turns at a constant rate
// while it climbs the Z axis.
package ruled

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync/atomic"

	"github.com/bruvrocketry/sdf"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

const (
	maxIters = 12
	// tol is the accepted residual of the stationarity quintic.
	tol = 1e-9
	// gradTol is the accepted squared distance gradient at a returned
	// closest point before the root scan takes over.
	gradTol = 1e-6
	// MaxSlope bounds the magnitude of the twist, in radians of turn per
	// unit of climb at unit radius, in either direction.
	MaxSlope = 2
)

// TwistedPlane is the surface through the radial half lines at angles
// theta0 and theta1 about Z and heights z0 and z1. In its own frame, where
// the first line lies along +X at z=0, the surface is
//
//	surf(s, t) = (t, s·t·slope, s)
//
// The solid lies on the side of increasing local Y when positive is set.
type TwistedPlane struct {
	theta0, z0 float64
	slope      float64
	positive   bool
	scan       bool
	sin0, cos0 float64
	stats      counters
}

var _ sdf.Unbounded3 = (*TwistedPlane)(nil)

type counters struct {
	queries, halley, bisect, scans atomic.Uint64
}

// Stats counts how each closest point query was resolved.
type Stats struct {
	Queries uint64
	// Halley counts queries settled by Halley iterations alone.
	Halley uint64
	// Bisection counts fallbacks to bracketed bisection.
	Bisection uint64
	// Scans counts companion matrix root scans.
	Scans uint64
}

// NewTwistedPlane returns the twisted plane between the half lines at
// (theta0, z0) and (theta1, z1). It panics when the lines are at the same
// height or the twist is too steep to solve reliably. Every query confirms
// its root against all real roots of the quintic; see SetRootScan.
func NewTwistedPlane(theta0, theta1, z0, z1 float64, positive bool) *TwistedPlane {
	if math.Abs(z1-z0) <= 1e-5 {
		panic(fmt.Sprintf("twisted plane ends at equal height: z0=%g z1=%g", z0, z1))
	}
	slope := math.Tan(theta1-theta0) / (z1 - z0)
	if !(math.Abs(slope) < MaxSlope) {
		panic(fmt.Sprintf("twisted plane slope %g too steep", slope))
	}
	s, c := math.Sincos(theta0)
	return &TwistedPlane{
		theta0:   theta0,
		z0:       z0,
		slope:    slope,
		positive: positive,
		scan:     true,
		sin0:     s,
		cos0:     c,
	}
}

// TwistedPlaneThrough returns the twisted plane through points a and b,
// which must be equidistant from the Z axis.
func TwistedPlaneThrough(a, b r3.Vec, positive bool) *TwistedPlane {
	ra, rb := math.Hypot(a.X, a.Y), math.Hypot(b.X, b.Y)
	if math.Abs(ra-rb) > 1e-5*math.Max(1, ra) {
		panic(fmt.Sprintf("points at different radii: %g != %g", ra, rb))
	}
	return NewTwistedPlane(math.Atan2(a.Y, a.X), math.Atan2(b.Y, b.X), a.Z, b.Z, positive)
}

// Slope returns the twist rate of the surface.
func (tp *TwistedPlane) Slope() float64 { return tp.slope }

// SetRootScan sets whether every query confirms its root against all real
// roots of the quintic, which is the default. Turning it off keeps only the
// root reached from the axial seed, scanning just when that root fails the
// gradient check. The iterated root is stationary but may be a saddle or a
// farther local minimum, so distances can then come out too large.
func (tp *TwistedPlane) SetRootScan(always bool) { tp.scan = always }

// Stats returns the query counters.
func (tp *TwistedPlane) Stats() Stats {
	return Stats{
		Queries:   tp.stats.queries.Load(),
		Halley:    tp.stats.halley.Load(),
		Bisection: tp.stats.bisect.Load(),
		Scans:     tp.stats.scans.Load(),
	}
}

// Evaluate returns the signed distance from p to the surface.
func (tp *TwistedPlane) Evaluate(p r3.Vec) float64 {
	P := tp.toLocal(p)
	C := tp.closest(P)
	dist := r3.Norm(r3.Sub(P, C))
	if (P.Y > C.Y) == tp.positive {
		dist = -dist
	}
	return dist
}

// Closest returns the point on the surface closest to p.
func (tp *TwistedPlane) Closest(p r3.Vec) r3.Vec {
	return tp.toWorld(tp.closest(tp.toLocal(p)))
}

func (tp *TwistedPlane) toLocal(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: tp.cos0*p.X + tp.sin0*p.Y,
		Y: -tp.sin0*p.X + tp.cos0*p.Y,
		Z: p.Z - tp.z0,
	}
}

func (tp *TwistedPlane) toWorld(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: tp.cos0*p.X - tp.sin0*p.Y,
		Y: tp.sin0*p.X + tp.cos0*p.Y,
		Z: p.Z + tp.z0,
	}
}

func (tp *TwistedPlane) surf(s, t float64) r3.Vec {
	return r3.Vec{X: t, Y: s * t * tp.slope, Z: s}
}

// tOf eliminates t from the stationarity conditions.
func (tp *TwistedPlane) tOf(s float64, p r3.Vec) float64 {
	return (s*tp.slope*p.Y + p.X) / (s*s*tp.slope*tp.slope + 1)
}

// quintic holds the coefficients, highest power first, of eff(s) whose
// roots are the stationary points of |surf(s,t(s)) - p|².
type quintic [6]float64

func (tp *TwistedPlane) quintic(p r3.Vec) quintic {
	k := tp.slope
	k2 := k * k
	k3 := k2 * k
	k4 := k3 * k
	return quintic{
		k4,
		-p.Z * k4,
		2 * k2,
		p.X*p.Y*k3 - 2*p.Z*k2,
		p.X*p.X*k2 - p.Y*p.Y*k2 + 1,
		-p.X*p.Y*k - p.Z,
	}
}

func (q *quintic) eval(s float64) (f, df, ddf float64) {
	A, B, C, D, E, F := q[0], q[1], q[2], q[3], q[4], q[5]
	f = ((((A*s+B)*s+C)*s+D)*s+E)*s + F
	df = (((5*A*s+4*B)*s+3*C)*s+2*D)*s + E
	ddf = ((20*A*s+12*B)*s+6*C)*s + 2*D
	return f, df, ddf
}

func (q *quintic) f(s float64) float64 {
	f, _, _ := q.eval(s)
	return f
}

// closest solves for the closest point to p in local coordinates.
func (tp *TwistedPlane) closest(p r3.Vec) r3.Vec {
	tp.stats.queries.Add(1)
	q := tp.quintic(p)
	s := tp.solve(&q, p.Z)
	C := tp.surf(s, tp.tOf(s, p))
	if tp.scan || tp.gradient(s, p) > gradTol*math.Max(1, r3.Norm(p)) {
		C = tp.scanRoots(&q, p, C)
	}
	return C
}

// solve roots eff starting from s with Halley's method, falling back to
// bisection over a widening bracket.
func (tp *TwistedPlane) solve(q *quintic, s float64) float64 {
	var lo, hi float64
	f, df, ddf := q.eval(s)
	for i := 0; ; i++ {
		if math.Abs(f) < tol {
			tp.stats.halley.Add(1)
			return s
		}
		if i == maxIters {
			lo, hi = s-2, s+2
			break
		}
		ds := -f * df / (df*df - 0.5*f*ddf)
		if s+ds == s || math.IsNaN(ds) {
			// Stagnated without reaching tolerance.
			lo, hi = s-0.1, s+0.1
			break
		}
		s += ds
		f, df, ddf = q.eval(s)
	}
	tp.stats.bisect.Add(1)
	sdf.Logger().Debug("twisted plane bisection fallback", "s", s, "f", f)
	flo := q.f(lo)
	for flo*q.f(hi) > 0 {
		mid := 0.5 * (lo + hi)
		lo = mid + 2*(lo-mid)
		hi = mid + 2*(hi-mid)
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			panic("twisted plane root bracket diverged")
		}
		flo = q.f(lo)
	}
	for {
		mid := 0.5 * (lo + hi)
		fmid := q.f(mid)
		if math.Abs(fmid) < tol || mid == lo || mid == hi {
			return mid
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
}

// gradient returns the norm of the gradient of |surf(s,t) - p|²/2 at s and
// the t it implies.
func (tp *TwistedPlane) gradient(s float64, p r3.Vec) float64 {
	t := tp.tOf(s, p)
	k := tp.slope
	dy := s*t*k - p.Y
	gs := t*k*dy + s - p.Z
	gt := s*k*dy + t - p.X
	return math.Hypot(gs, gt)
}

// scanRoots finds every real root of eff as an eigenvalue of its companion
// matrix and returns the nearest surface point among them and best.
func (tp *TwistedPlane) scanRoots(q *quintic, p, best r3.Vec) r3.Vec {
	tp.stats.scans.Add(1)
	bestDist := r3.Norm(r3.Sub(p, best))
	for _, s := range realRoots(q[:]) {
		C := tp.surf(s, tp.tOf(s, p))
		if d := r3.Norm(r3.Sub(p, C)); d < bestDist {
			best, bestDist = C, d
		}
	}
	return best
}

// realRoots returns the real roots of the polynomial with coefficients c,
// highest power first. Negligible leading coefficients are dropped.
func realRoots(c []float64) []float64 {
	var scale float64
	for _, v := range c {
		scale = math.Max(scale, math.Abs(v))
	}
	for len(c) > 1 && math.Abs(c[0]) <= 1e-14*scale {
		c = c[1:]
	}
	n := len(c) - 1
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{-c[1] / c[0]}
	}
	companion := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}
	for i := 0; i < n; i++ {
		companion.Set(i, n-1, -c[n-i]/c[0])
	}
	var eig mat.Eigen
	if !eig.Factorize(companion, mat.EigenNone) {
		return nil
	}
	var roots []float64
	for _, v := range eig.Values(nil) {
		if math.Abs(imag(v)) <= 1e-8*math.Max(1, cmplx.Abs(v)) {
			roots = append(roots, real(v))
		}
	}
	return roots
}

// Residuals returns the mean and standard deviation of the distance
// gradient left at the closest points found for points. Zero means every
// query landed on an exact stationary point.
func (tp *TwistedPlane) Residuals(points []r3.Vec) (mean, std float64) {
	if len(points) == 0 {
		return 0, 0
	}
	res := make([]float64, len(points))
	for i, p := range points {
		P := tp.toLocal(p)
		q := tp.quintic(P)
		s := tp.solve(&q, P.Z)
		res[i] = tp.gradient(s, P)
	}
	return stat.MeanStdDev(res, nil)
}

package contour

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func testNozzleParams() NozzleParams {
	deg := math.Pi / 180
	return NozzleParams{
		ChamberRadius: 40,
		ChamberLength: 80,
		ThroatRadius:  15,
		ExitRadius:    35,
		PhiConv:       -40 * deg,
		PhiDiv:        30 * deg,
		PhiExit:       10 * deg,
		NLF:           0.8,
		Extension:     10,
	}
}

func testChannelParams() ChannelParams {
	return ChannelParams{
		MidRadius:     55,
		PhiWid:        -30 * math.Pi / 180,
		ChamberRadius: 40,
		InnerWall:     1.5,
		Thickness:     2,
		Extension:     10,
	}
}

func straightContour() *Contour {
	c, err := NewBuilder(r2.Vec{X: 0, Y: 10}).LineTo(r2.Vec{X: 5, Y: 10}).Build(Flat(0), Flat(0))
	if err != nil {
		panic(err)
	}
	return c
}

func TestStraightSection(t *testing.T) {
	c := straightContour()
	for _, test := range []struct {
		q    r2.Vec
		want float64
	}{
		{q: r2.Vec{X: 2, Y: 12}, want: 2},
		{q: r2.Vec{X: 2, Y: 8}, want: -2},
		{q: r2.Vec{X: 2, Y: 10}, want: 0},
		{q: r2.Vec{X: -3, Y: 0}, want: 3},
		{q: r2.Vec{X: 8, Y: 14}, want: 5},
	} {
		assert.InDelta(t, test.want, c.Evaluate2(test.q), 1e-3, "q=%v", test.q)
	}
	// Revolved about Z.
	assert.InDelta(t, 2, c.Evaluate(r3.Vec{X: 12 / math.Sqrt2, Y: 12 / math.Sqrt2, Z: 2}), 1e-9)
}

func TestStraightRadiusAt(t *testing.T) {
	c := straightContour()
	assert.InDelta(t, 11, c.RadiusAt(2, 1), 1e-9)
	assert.InDelta(t, 7, c.RadiusAt(2, -3), 1e-9)
	assert.Panics(t, func() { c.RadiusAt(6, 0) })
}

func TestBuilderRejectsBacktrack(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder(r2.Vec{X: 0, Y: 1}).LineTo(r2.Vec{X: 1, Y: 1}).LineTo(r2.Vec{X: 1, Y: 2})
	})
	assert.Panics(t, func() {
		NewBuilder(r2.Vec{X: 0, Y: 1}).ArcTo(r2.Vec{X: 1, Y: 2}, r2.Vec{X: 0, Y: 0})
	})
	_, err := NewBuilder(r2.Vec{X: 0, Y: 1}).Build(Flat(0), Flat(0))
	assert.Error(t, err)
}

func TestBuilderRadii(t *testing.T) {
	line := func(pts ...r2.Vec) *Builder {
		b := NewBuilder(pts[0])
		for _, p := range pts[1:] {
			b.LineTo(p)
		}
		return b
	}
	for _, test := range []struct {
		pts []r2.Vec
		ok  bool
	}{
		{pts: []r2.Vec{{X: 0, Y: 5}, {X: 1, Y: 5}, {X: 2, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 4}}, ok: true},
		{pts: []r2.Vec{{X: 0, Y: 5}, {X: 1, Y: 3}, {X: 2, Y: 1}}, ok: true},
		{pts: []r2.Vec{{X: 0, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 3}}, ok: true},
		// Bulge after the throat.
		{pts: []r2.Vec{{X: 0, Y: 5}, {X: 1, Y: 2}, {X: 2, Y: 4}, {X: 3, Y: 3}}},
		// Second throat.
		{pts: []r2.Vec{{X: 0, Y: 5}, {X: 1, Y: 2}, {X: 2, Y: 4}, {X: 3, Y: 1}, {X: 4, Y: 6}}},
	} {
		c, err := line(test.pts...).Build(Flat(0), Flat(0))
		if test.ok {
			assert.NoError(t, err, "%v", test.pts)
			assert.NotNil(t, c)
		} else {
			assert.Error(t, err, "%v", test.pts)
			assert.Nil(t, c)
		}
	}
	_, err := line(r2.Vec{X: 0, Y: 2}, r2.Vec{X: 1, Y: 2}).Build(Round(0), Flat(0))
	assert.Error(t, err)
	_, err = line(r2.Vec{X: 0, Y: 2}, r2.Vec{X: 1, Y: 2}).Build(Flat(0), Flat(-1))
	assert.Error(t, err)
}

func TestConicDistance(t *testing.T) {
	a, b := r2.Vec{X: 0, Y: 1}, r2.Vec{X: 2, Y: 3}
	for _, ctl := range []r2.Vec{{X: 1, Y: 1}, {X: 1.2, Y: 1}, {X: 0.7, Y: 1.4}} {
		c, err := NewBuilder(a).ConicTo(b, ctl).Build(Flat(1), Flat(1))
		require.NoError(t, err)
		for _, p := range []float64{0.2, 0.35, 0.5, 0.65, 0.8} {
			on := r2.Add(r2.Add(r2.Scale(p*p, a), r2.Scale(2*p*(1-p), ctl)), r2.Scale((1-p)*(1-p), b))
			deriv := r2.Add(r2.Add(r2.Scale(2*p, a), r2.Scale(2-4*p, ctl)), r2.Scale(-2*(1-p), b))
			travel := r2.Unit(r2.Scale(-1, deriv))
			n := r2.Vec{X: -travel.Y, Y: travel.X}
			assert.InDelta(t, 0, c.Evaluate2(on), 1e-6, "control=%v p=%g", ctl, p)
			assert.InDelta(t, 0.05, c.Evaluate2(r2.Add(on, r2.Scale(0.05, n))), 1e-6, "control=%v p=%g", ctl, p)
			assert.InDelta(t, -0.05, c.Evaluate2(r2.Sub(on, r2.Scale(0.05, n))), 1e-6, "control=%v p=%g", ctl, p)
		}
	}
}

func TestArcDistance(t *testing.T) {
	// Quarter circle of radius 2 bulging outwards from (0,3) down to (2,1).
	convex, err := NewBuilder(r2.Vec{X: 0, Y: 3}).ArcTo(r2.Vec{X: 2, Y: 1}, r2.Vec{X: 0, Y: 1}).Build(Flat(1), Flat(1))
	require.NoError(t, err)
	q := r2.Add(r2.Vec{X: 0, Y: 1}, r2.Scale(3, r2.Unit(r2.Vec{X: 1, Y: 1})))
	assert.InDelta(t, 1, convex.Evaluate2(q), 1e-12)
	assert.InDelta(t, -1, convex.Evaluate2(r2.Add(r2.Vec{X: 0, Y: 1}, r2.Unit(r2.Vec{X: 1, Y: 1}))), 1e-12)

	// Throat like arc with its centre outside the solid.
	concave, err := NewBuilder(r2.Vec{X: -1, Y: 3}).ArcTo(r2.Vec{X: 0, Y: 2}, r2.Vec{X: 0, Y: 3}).Build(Flat(1), Flat(1))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, concave.Evaluate2(r2.Vec{X: 0, Y: 2.5}), 1e-12)
	assert.InDelta(t, -0.5, concave.Evaluate2(r2.Vec{X: 0, Y: 1.5}), 1e-12)
}

func TestNozzleBreakpoints(t *testing.T) {
	p := testNozzleParams()
	c, err := NewNozzle(p)
	require.NoError(t, err)
	n := p.Points()
	for i, bp := range []r2.Vec{n.P0, n.P1, n.P2, n.P3, n.P4, n.P5, n.P6} {
		assert.InDelta(t, 0, c.Evaluate2(bp), 1e-9, "breakpoint %d", i)
	}
	assert.InDelta(t, p.ThroatRadius, c.RadiusAt(n.P4.X, 0), 1e-3)
	assert.InDelta(t, p.ExitRadius, c.RadiusAt(n.P6.X, 0), 1e-3)
	assert.InDelta(t, -p.ThroatRadius, c.Evaluate2(r2.Vec{X: n.P4.X}), 1e-9)
}

func TestNozzleValidate(t *testing.T) {
	p := testNozzleParams()
	p.PhiConv = -p.PhiConv
	_, err := NewNozzle(p)
	assert.Error(t, err)
	p = testNozzleParams()
	p.ExitRadius = p.ThroatRadius / 2
	_, err = NewNozzle(p)
	assert.Error(t, err)
}

func TestRadiusAtConsistency(t *testing.T) {
	c, err := NewNozzle(testNozzleParams())
	require.NoError(t, err)
	zlo, zhi := c.Domain()
	const n = 97
	for _, off := range []float64{-3, -1, 0, 1, 3} {
		for i := 0; i < n; i++ {
			z := zlo + 3 + (zhi-zlo-6)*float64(i)/(n-1)
			r := c.RadiusAt(z, off)
			assert.InDelta(t, off, c.Evaluate2(r2.Vec{X: z, Y: r}), 1e-2, "z=%g offset=%g", z, off)
		}
	}
}

func TestCacheTransparency(t *testing.T) {
	c, err := NewNozzle(testNozzleParams())
	require.NoError(t, err)
	uncached := c.WithCache(nil)
	lru := c.WithCache(NewLRUCache(64))
	var queries []r2.Vec
	for z := -12.0; z < 200; z += 3.7 {
		for r := 0.0; r < 60; r += 4.3 {
			queries = append(queries, r2.Vec{X: z, Y: r})
		}
	}
	first := make([]float64, len(queries))
	for i, q := range queries {
		first[i] = c.Evaluate2(q)
	}
	for i, q := range queries {
		require.Equal(t, math.Float64bits(first[i]), math.Float64bits(c.Evaluate2(q)))
		require.Equal(t, math.Float64bits(first[i]), math.Float64bits(uncached.Evaluate2(q)))
		require.Equal(t, math.Float64bits(first[i]), math.Float64bits(lru.Evaluate2(q)))
	}
	stats := c.Cache().Stats()
	assert.Equal(t, uint64(len(queries)), stats.Hits)
	assert.Equal(t, uint64(len(queries)), stats.Misses)
	assert.Equal(t, len(queries), stats.Size)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-12)

	c.Cache().Reset()
	assert.Zero(t, c.Cache().Stats().Size)
	for i, q := range queries {
		require.Equal(t, math.Float64bits(first[i]), math.Float64bits(c.Evaluate2(q)))
	}
	assert.LessOrEqual(t, lru.Cache().Stats().Size, 64)
	assert.NotZero(t, lru.Cache().Stats().Evictions)
}

func TestLRUCache(t *testing.T) {
	c := NewLRUCache(2)
	k1, k2, k3 := KeyOf(r2.Vec{X: 1}), KeyOf(r2.Vec{X: 2}), KeyOf(r2.Vec{X: 3})
	c.Put(k1, 1)
	c.Put(k2, 2)
	_, ok := c.Get(k1) // k1 is now most recent.
	require.True(t, ok)
	c.Put(k3, 3)
	_, ok = c.Get(k2)
	assert.False(t, ok)
	d, ok := c.Get(k1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, d)
	s := c.Stats()
	assert.Equal(t, uint64(1), s.Evictions)
	assert.Equal(t, 2, s.Size)
	// Signed zeros are distinct keys.
	assert.NotEqual(t, KeyOf(r2.Vec{X: 0}), KeyOf(r2.Vec{X: math.Copysign(0, -1)}))
}

func TestSyncCacheConcurrent(t *testing.T) {
	base, err := NewNozzle(testNozzleParams())
	require.NoError(t, err)
	c := base.WithCache(NewSyncCache(NewCache()))
	want := base.WithCache(nil)
	done := make(chan bool)
	for w := 0; w < 4; w++ {
		go func(w int) {
			ok := true
			for i := 0; i < 200; i++ {
				q := r2.Vec{X: float64(i%50) * 3, Y: float64(w) * 7}
				ok = ok && c.Evaluate2(q) == want.Evaluate2(q)
			}
			done <- ok
		}(w)
	}
	for w := 0; w < 4; w++ {
		assert.True(t, <-done)
	}
}

func TestChannelAndWidened(t *testing.T) {
	np, cp := testNozzleParams(), testChannelParams()
	w, err := NewWidened(np, cp)
	require.NoError(t, err)
	mid := w.Mid
	// The mid-line settles onto ChamberRadius + Offset.
	_, zhi := mid.Domain()
	settled := cp.ChamberRadius + cp.Offset()
	last := mid.Segments()[len(mid.Segments())-1].End
	assert.InDelta(t, settled, last.Y, 1e-9)
	assert.InDelta(t, cp.MidRadius, mid.RadiusAt(0.1, 0), 1e-3)
	assert.Less(t, last.X, zhi)

	for _, q := range []r2.Vec{{X: 5, Y: 20}, {X: 5, Y: 50}, {X: 30, Y: 45}, {X: 120, Y: 10}} {
		want := math.Min(w.Primary.Evaluate2(q), mid.Evaluate2(q)+w.Offset)
		assert.Equal(t, want, w.Evaluate2(q))
	}
	// Near the front the channel mid-line bulges past the chamber wall.
	r := w.RadiusAt(2, 0)
	assert.Greater(t, r, np.ChamberRadius+0.5)
	assert.InDelta(t, 0, w.Evaluate2(r2.Vec{X: 2, Y: r}), 1e-2)
	bb := w.BoundsFor(1)
	assert.GreaterOrEqual(t, bb.Max.X, cp.MidRadius+w.Offset)
}

func TestWidenedRadiusAtFace(t *testing.T) {
	w, err := NewWidened(testNozzleParams(), testChannelParams())
	require.NoError(t, err)
	zlo, zhi := w.Primary.Domain()
	// On the front face plane the channel term is flat at Offset out to the
	// channel radius.
	assert.InDelta(t, 41.5, w.RadiusAt(zlo, 1.5), 1e-3)
	assert.InDelta(t, 56, w.RadiusAt(zlo, 3.5), 1e-3)
	for _, off := range []float64{1.5, 3.5} {
		for i := 0; i <= 8; i++ {
			z := zlo + float64(i)*(zhi-zlo)/8
			r := w.RadiusAt(z, off)
			assert.InDelta(t, off, w.Evaluate2(r2.Vec{X: z, Y: r}), 1e-3, "z=%g offset=%g", z, off)
		}
	}
	assert.Panics(t, func() { w.RadiusAt(zhi+1, 0) })
}

func TestChannelValidate(t *testing.T) {
	cp := testChannelParams()
	cp.PhiWid = 0.2
	_, err := NewChannel(cp)
	assert.Error(t, err)
	cp = testChannelParams()
	cp.MidRadius = cp.ChamberRadius
	_, err = NewChannel(cp)
	assert.Error(t, err)
}

func TestRoundCap(t *testing.T) {
	c, err := NewBuilder(r2.Vec{X: 0, Y: 2}).LineTo(r2.Vec{X: 4, Y: 2}).Build(Flat(0), Round(5))
	require.NoError(t, err)
	// Extension line then a quarter circle reaching the axis at z=9.
	assert.InDelta(t, 1, c.Evaluate2(r2.Vec{X: 5, Y: 3}), 1e-12)
	assert.InDelta(t, 0, c.Evaluate2(r2.Vec{X: 9, Y: 0}), 1e-12)
	assert.InDelta(t, 1, c.Evaluate2(r2.Vec{X: 10, Y: 0}), 1e-12)

	// A cap shorter than the end radius still closes with a quarter circle
	// of that radius, and the domain and bounds grow to hold it.
	short, err := NewBuilder(r2.Vec{X: 0, Y: 2}).LineTo(r2.Vec{X: 4, Y: 2}).Build(Flat(0), Round(1))
	require.NoError(t, err)
	_, zhi := short.Domain()
	assert.Equal(t, 6.0, zhi)
	assert.InDelta(t, 0, short.Evaluate2(r2.Vec{X: 6, Y: 0}), 1e-12)
	assert.InDelta(t, 1, short.Evaluate2(r2.Vec{X: 7, Y: 0}), 1e-12)
	assert.InDelta(t, -1, short.Evaluate2(r2.Vec{X: 4, Y: 1}), 1e-12)
	bb := short.Filled(0).Bounds()
	assert.Equal(t, 6.0, bb.Max.Z)
}

func TestFilledOutsideBoundsIsPositive(t *testing.T) {
	mid, err := NewChannel(testChannelParams())
	require.NoError(t, err)
	_, zhi := mid.Domain()
	last := mid.Segments()[len(mid.Segments())-1].End
	require.GreaterOrEqual(t, zhi, last.X+last.Y)
	for _, off := range []float64{0, 2} {
		s := mid.Filled(off)
		bb := s.Bounds()
		for _, p := range []r3.Vec{
			{Z: bb.Max.Z + 0.01}, {Z: bb.Max.Z + 5}, {Z: bb.Min.Z - 0.01},
			{X: bb.Max.X + 0.01, Z: 10}, {X: 3, Y: 4, Z: bb.Max.Z + 1},
		} {
			assert.Greater(t, s.Evaluate(p), 0.0, "offset %g p=%v bounds=%v", off, p, bb)
		}
	}
	w, err := NewWidened(testNozzleParams(), testChannelParams())
	require.NoError(t, err)
	s := w.Filled(3.5)
	bb := s.Bounds()
	for z := bb.Min.Z; z <= bb.Max.Z; z += 2 {
		assert.Greater(t, s.Evaluate(r3.Vec{X: bb.Max.X + 0.01, Z: z}), 0.0, "z=%g", z)
	}
	assert.Greater(t, s.Evaluate(r3.Vec{Z: bb.Max.Z + 0.01}), 0.0)
}

func TestBoundsContainSurface(t *testing.T) {
	c, err := NewNozzle(testNozzleParams())
	require.NoError(t, err)
	bb := c.BoundsFor(2)
	zlo, zhi := c.Domain()
	for z := zlo; z <= zhi; z += 1 {
		r := c.RadiusAt(z, 2)
		assert.LessOrEqual(t, r, bb.Max.X+1e-9)
	}
	s := c.Shelled(1, 2)
	assert.Equal(t, c.BoundsFor(2), s.Bounds())
}

func BenchmarkNozzleEvaluate(b *testing.B) {
	c, _ := NewNozzle(testNozzleParams())
	uncached := c.WithCache(nil)
	b.Run("cached", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			c.Evaluate2(r2.Vec{X: float64(i % 190), Y: 30})
		}
	})
	b.Run("uncached", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			uncached.Evaluate2(r2.Vec{X: float64(i % 190), Y: 30})
		}
	})
}

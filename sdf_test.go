package sdf_test

import (
	"math"
	"testing"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/form3/must3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCombine(t *testing.T) {
	for _, test := range []struct {
		a, b, want float64
	}{
		{-3, 5, 5},
		{-3, -1, -1},
		{2, 0, 2},
		{3, 4, 5},
		{0, 0, 0},
	} {
		if got := sdf.Combine(test.a, test.b); got != test.want {
			t.Errorf("Combine(%g, %g) = %g, want %g", test.a, test.b, got, test.want)
		}
	}
	if got := sdf.Combine3(1, 2, 2); !scalar.EqualWithinAbs(got, 3, 1e-12) {
		t.Errorf("Combine3 = %g", got)
	}
	if got := sdf.Combine3(-1, -4, -2); got != -1 {
		t.Errorf("Combine3 = %g", got)
	}
	if got := sdf.Combine3(1, -2, 2); !scalar.EqualWithinAbs(got, math.Sqrt(5), 1e-12) {
		t.Errorf("Combine3 = %g", got)
	}
}

func TestBallBoundary(t *testing.T) {
	const R = 2.5
	ball := must3.Ball(r3.Vec{}, R)
	for _, axis := range []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}, {X: -1}, r3.Unit(r3.Vec{X: 1, Y: -2, Z: 3})} {
		if d := ball.Evaluate(r3.Scale(R, axis)); !scalar.EqualWithinAbs(d, 0, 1e-12) {
			t.Errorf("surface along %v: %g", axis, d)
		}
		if d := ball.Evaluate(r3.Scale(R+1, axis)); !scalar.EqualWithinAbs(d, 1, 1e-12) {
			t.Errorf("outside along %v: %g", axis, d)
		}
	}
	if d := ball.Evaluate(r3.Vec{}); d != -R {
		t.Errorf("centre: %g", d)
	}
}

func TestNormal3(t *testing.T) {
	centre := r3.Vec{X: 1, Y: -2, Z: 0.5}
	ball := must3.Ball(centre, 3)
	for _, dir := range []r3.Vec{{X: 1}, {Y: -1}, r3.Unit(r3.Vec{X: 1, Y: 2, Z: -2})} {
		for _, dist := range []float64{2, 3, 7} {
			p := r3.Add(centre, r3.Scale(dist, dir))
			n := sdf.Normal3(ball, p, 1e-4)
			if r3.Norm(r3.Sub(n, dir)) > 1e-6 {
				t.Errorf("normal at %v: got %v, want %v", p, n, dir)
			}
		}
	}
	slab := must3.Slab(sdf.WorldFrame(), 0, 1)
	if n := sdf.Normal3(slab, r3.Vec{X: 4, Y: 4, Z: 1.5}, 1e-3); r3.Norm(r3.Sub(n, r3.Vec{Z: 1})) > 1e-9 {
		t.Errorf("slab normal: %v", n)
	}
}

func TestFilledShelled(t *testing.T) {
	ball := must3.Ball(r3.Vec{}, 10)
	p := r3.Vec{X: 12}

	f := sdf.NewFilled(ball, 1)
	if got := f.Evaluate(p); got != 1 {
		t.Errorf("filled = %g, want 1", got)
	}
	if f.MaxOffset() != 1 {
		t.Error("filled max offset")
	}

	s := sdf.NewShelled(ball, 1, 2)
	for _, test := range []struct {
		x, want float64
	}{
		{11, -1}, {12, 0}, {10, 0}, {14, 2}, {0, 10},
	} {
		if got := s.Evaluate(r3.Vec{X: test.x}); !scalar.EqualWithinAbs(got, test.want, 1e-12) {
			t.Errorf("shell at %g = %g, want %g", test.x, got, test.want)
		}
	}
	if s.InnerOffset() != 0 || s.MaxOffset() != 2 || s.Thickness() != 2 {
		t.Error("shell offsets")
	}
	in := s.Innered()
	if in.InnerOffset() != 1 || in.Thickness() != 2 {
		t.Errorf("innered inner offset %g", in.InnerOffset())
	}
	out := s.Outered()
	if out.MaxOffset() != 1 {
		t.Errorf("outered max offset %g", out.MaxOffset())
	}

	bf := sdf.Filled3D(ball, 1)
	if bb := bf.Bounds(); bb.Max.X != 11 || bb.Min.Z != -11 {
		t.Errorf("filled bounds %v", bb)
	}
	bs := sdf.Shelled3D(ball, 1, 2)
	if bb := bs.Bounds(); bb.Max.Y != 12 {
		t.Errorf("shelled bounds %v", bb)
	}
	if bb := sdf.Filled3D(ball, -1).Bounds(); bb.Max.X != 10 {
		t.Errorf("shrunk bounds %v", bb)
	}
}

func TestFrame(t *testing.T) {
	f := sdf.NewFrame(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{Y: 2}, r3.Vec{X: 1})
	if f.Y != (r3.Vec{Z: 1}) {
		t.Fatalf("frame not right handed: Y = %v", f.Y)
	}
	p := r3.Vec{X: 0.5, Y: -1, Z: 4}
	g := f.ToGlobal(p)
	if g != (r3.Vec{X: 5, Y: 2.5, Z: 2}) {
		t.Errorf("ToGlobal = %v", g)
	}
	if back := f.FromGlobal(g); r3.Norm(r3.Sub(back, p)) > 1e-12 {
		t.Errorf("round trip %v", back)
	}
	moved := f.TransZ(2).TransX(1)
	if moved.Pos != (r3.Vec{X: 3, Y: 3, Z: 3}) {
		t.Errorf("translated to %v", moved.Pos)
	}
	rot := sdf.WorldFrame().RotXY(math.Pi / 2)
	if r3.Norm(r3.Sub(rot.X, r3.Vec{Y: 1})) > 1e-12 || r3.Norm(r3.Sub(rot.Y, r3.Vec{X: -1})) > 1e-12 {
		t.Errorf("rotated axes %v %v", rot.X, rot.Y)
	}
	along := sdf.FrameAlong(r3.Vec{}, r3.Vec{Y: 5})
	if r3.Norm(r3.Sub(along.Z, r3.Vec{Y: 1})) > 1e-12 || math.Abs(r3.Dot(along.X, along.Z)) > 1e-12 {
		t.Errorf("frame along Y: %+v", along)
	}
	bb := f.ToGlobalBox(r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}})
	if bb.Min != (r3.Vec{X: 1, Y: 2, Z: 3}) || bb.Max != (r3.Vec{X: 2, Y: 3, Z: 4}) {
		t.Errorf("global box %v", bb)
	}
	for _, bad := range []func(){
		func() { sdf.NewFrame(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}) },
		func() { sdf.NewFrame(r3.Vec{}, r3.Vec{}, r3.Vec{Z: 1}) },
		func() { sdf.NewFrame(r3.Vec{X: math.Inf(1)}, r3.Vec{X: 1}, r3.Vec{Z: 1}) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Error("bad frame accepted")
				}
			}()
			bad()
		}()
	}
}

func TestBound3D(t *testing.T) {
	slab := must3.Slab(sdf.WorldFrame(), 0, 1)
	bb := r3.Box{Min: r3.Vec{X: -1, Y: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}
	s := sdf.Bound3D(slab, bb)
	if s.Bounds() != bb {
		t.Error("bounds not kept")
	}
	if got := s.Evaluate(r3.Vec{Z: 3}); got != 2 {
		t.Errorf("evaluate = %g", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("inverted box accepted")
		}
	}()
	sdf.Bound3D(slab, r3.Box{Min: r3.Vec{X: 1}})
}

func TestWrapAngle(t *testing.T) {
	for _, test := range []struct{ in, want float64 }{
		{0, 0}, {-math.Pi / 2, 3 * math.Pi / 2}, {5 * math.Pi, math.Pi}, {2 * math.Pi, 0},
	} {
		if got := sdf.WrapAngle(test.in); !scalar.EqualWithinAbs(got, test.want, 1e-12) {
			t.Errorf("WrapAngle(%g) = %g, want %g", test.in, got, test.want)
		}
	}
}

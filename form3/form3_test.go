package form3_test

import (
	"math"
	"testing"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/form3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type known struct {
	p    r3.Vec
	want float64
}

func checkDistances(t *testing.T, name string, s interface{ Evaluate(r3.Vec) float64 }, points []known) {
	t.Helper()
	for _, pr := range points {
		if got := s.Evaluate(pr.p); !scalar.EqualWithinAbs(got, pr.want, 1e-9) {
			t.Errorf("%s at %v: got %g, want %g", name, pr.p, got, pr.want)
		}
	}
}

func TestPipeCombine(t *testing.T) {
	// The axis runs along world X.
	frame := sdf.NewFrame(r3.Vec{}, r3.Vec{Y: 1}, r3.Vec{X: 1})
	pipe, err := form3.Pipe(frame, 10, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	checkDistances(t, "rod", pipe, []known{
		{r3.Vec{X: 5}, -3},
		{r3.Vec{X: 5, Y: 4}, 1},
		{r3.Vec{X: 15}, 5},
		{r3.Vec{X: 13, Z: 7}, 5},
		{r3.Vec{X: -1, Y: 2}, 1},
	})
	tube, err := form3.Pipe(frame, 10, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	checkDistances(t, "tube", tube, []known{
		{r3.Vec{X: 5}, 2},
		{r3.Vec{X: 5, Y: 2.5}, -0.5},
		{r3.Vec{X: 5, Z: 4}, 1},
	})
	bb := tube.Bounds()
	if bb.Min != (r3.Vec{Y: -3, Z: -3}) || bb.Max != (r3.Vec{X: 10, Y: 3, Z: 3}) {
		t.Errorf("tube bounds %v", bb)
	}
}

func TestPrimitives(t *testing.T) {
	ball, _ := form3.Ball(r3.Vec{Z: 1}, 2)
	checkDistances(t, "ball", ball, []known{{r3.Vec{Z: 1}, -2}, {r3.Vec{Z: 4}, 1}})

	pill, _ := form3.Pill(r3.Vec{}, r3.Vec{Z: 4}, 1)
	checkDistances(t, "pill", pill, []known{
		{r3.Vec{Z: 2}, -1}, {r3.Vec{X: 3, Z: 2}, 2}, {r3.Vec{Z: -2}, 1}, {r3.Vec{Z: 7}, 2},
	})

	box, _ := form3.Cuboid(sdf.WorldFrame(), 2, 4, 6)
	checkDistances(t, "cuboid", box, []known{
		{r3.Vec{Z: 3}, -1},
		{r3.Vec{X: 3, Z: 3}, 2},
		{r3.Vec{X: 4, Y: 6, Z: 3}, 5},
		{r3.Vec{X: 4, Y: 6, Z: 9}, math.Sqrt(9 + 16 + 9)},
	})

	cone, _ := form3.Cone(sdf.WorldFrame(), 4, math.Pi/4, 0)
	checkDistances(t, "cone", cone, []known{
		{r3.Vec{Z: 2}, -math.Sqrt2},
		{r3.Vec{Z: -1}, 1},
		{r3.Vec{Z: 5}, 1},
	})
	shell, _ := form3.Cone(sdf.WorldFrame(), 4, math.Pi/4, 0.5)
	checkDistances(t, "cone shell", shell, []known{{r3.Vec{Z: 2}, math.Sqrt2 - 0.5}})

	torus, _ := form3.Torus(sdf.WorldFrame(), 5, 1)
	checkDistances(t, "torus", torus, []known{{r3.Vec{X: 5}, -1}, {r3.Vec{}, 4}, {r3.Vec{Y: 5, Z: 3}, 2}})

	square := []r2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	prism, _ := form3.Prism(sdf.FrameAt(r3.Vec{Z: 1}), square, 2)
	checkDistances(t, "prism", prism, []known{
		{r3.Vec{Z: 2}, -1}, {r3.Vec{X: 3, Z: 2}, 2}, {r3.Vec{X: 4, Z: 7}, 5},
	})

	slab, _ := form3.Slab(sdf.WorldFrame(), math.Inf(-1), 0)
	checkDistances(t, "half space", slab, []known{{r3.Vec{Z: -3}, -3}, {r3.Vec{Z: 2}, 2}})
}

func TestBadParameters(t *testing.T) {
	frame := sdf.WorldFrame()
	for name, f := range map[string]func() error{
		"ball":  func() error { _, err := form3.Ball(r3.Vec{}, 0); return err },
		"pill":  func() error { _, err := form3.Pill(r3.Vec{}, r3.Vec{}, 1); return err },
		"box":   func() error { _, err := form3.Cuboid(frame, 1, -1, 1); return err },
		"pipe":  func() error { _, err := form3.Pipe(frame, 1, 2, 1); return err },
		"cone":  func() error { _, err := form3.Cone(frame, 1, math.Pi/2, 0); return err },
		"torus": func() error { _, err := form3.Torus(frame, 1, 2); return err },
		"prism": func() error {
			_, err := form3.Prism(frame, []r2.Vec{{}, {X: 1, Y: 1}, {X: 1}, {Y: 1}}, 1)
			return err
		},
		"slab": func() error { _, err := form3.Slab(frame, math.Inf(-1), math.Inf(1)); return err },
	} {
		if err := f(); err == nil {
			t.Errorf("%s: bad parameters accepted", name)
		}
	}
}

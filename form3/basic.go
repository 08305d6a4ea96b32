package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

func recovered(a interface{}) error {
	return &shapeErr{panicObj: a, stack: string(debug.Stack())}
}

// Ball returns an SDF3 for a sphere.
func Ball(centre r3.Vec, radius float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Ball(centre, radius), err
}

// Pill returns an SDF3 for a capsule around the segment ab.
func Pill(a, b r3.Vec, radius float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Pill(a, b, radius), err
}

// Cuboid returns an SDF3 for a box extending along the frame's +Z axis.
func Cuboid(f sdf.Frame, lx, ly, lz float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Cuboid(f, lx, ly, lz), err
}

// Pipe returns an SDF3 for a tube along the frame's +Z axis.
func Pipe(f sdf.Frame, length, rlo, rhi float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Pipe(f, length, rlo, rhi), err
}

// Cone returns an SDF3 for a cone with its tip at the frame origin.
func Cone(f sdf.Frame, length, phi, thickness float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Cone(f, length, phi, thickness), err
}

// Torus returns an SDF3 for a ring in the frame's XY plane.
func Torus(f sdf.Frame, major, minor float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Torus(f, major, minor), err
}

// Prism returns an SDF3 for a polygon outline extruded along the frame's +Z axis.
func Prism(f sdf.Frame, outline []r2.Vec, length float64) (s sdf.SDF3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Prism(f, outline, length), err
}

// Slab returns the unbounded band lo <= z <= hi of a frame.
func Slab(f sdf.Frame, lo, hi float64) (s sdf.Unbounded3, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must3.Slab(f, lo, hi), err
}

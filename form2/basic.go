package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/bruvrocketry/sdf"
	"github.com/bruvrocketry/sdf/form2/must2"
	"gonum.org/v1/gonum/spatial/r2"
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

// Circle returns the SDF2 for a 2d disc.
func Circle(radius float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must2.Circle(radius), err
}

// Polygon returns the SDF2 for the region enclosed by a simple outline.
func Polygon(vertices []r2.Vec) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = recovered(a)
		}
	}()
	return must2.Polygon(vertices), err
}

package render

import (
	"errors"
	"fmt"

	"github.com/bruvrocketry/sdf"
	sdfxrender "github.com/deadsy/sdfx/render"
	sdfx "github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCells is the marching cubes resolution along the longest bounding
// box axis used when Voxelize is given a non-positive cell count.
const DefaultCells = 200

// sdfxShape presents an SDF3 to the sdfx isosurfacer.
type sdfxShape struct {
	s sdf.SDF3
}

func (a sdfxShape) Evaluate(p v3.Vec) float64 {
	return a.s.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (a sdfxShape) BoundingBox() sdfx.Box3 {
	bb := a.s.Bounds()
	return sdfx.Box3{
		Min: v3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: v3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// Voxelize isosurfaces s with uniform marching cubes. cells is the number
// of cubes along the longest axis of s.Bounds(). Shapes holding a contour
// cache should use a synchronized cache since the isosurfacer may call
// Evaluate from several goroutines.
func Voxelize(s sdf.SDF3, cells int) (model []Triangle3, err error) {
	if s == nil {
		return nil, errors.New("voxelize: nil shape")
	}
	if cells <= 0 {
		cells = DefaultCells
	}
	bb := s.Bounds()
	if !(bb.Min.X < bb.Max.X && bb.Min.Y < bb.Max.Y && bb.Min.Z < bb.Max.Z) {
		return nil, fmt.Errorf("voxelize: empty bounds %v", bb)
	}
	defer func() {
		// Out of domain queries panic in several shapes; report them as errors.
		if a := recover(); a != nil {
			model = nil
			err = fmt.Errorf("voxelize: %v", a)
		}
	}()
	tris := sdfxrender.ToTriangles(sdfxShape{s: s}, sdfxrender.NewMarchingCubesUniform(cells))
	model = make([]Triangle3, 0, len(tris))
	for _, t := range tris {
		tri := Triangle3{V: [3]r3.Vec{
			{X: t[0].X, Y: t[0].Y, Z: t[0].Z},
			{X: t[1].X, Y: t[1].Y, Z: t[1].Z},
			{X: t[2].X, Y: t[2].Y, Z: t[2].Z},
		}}
		if tri.Degenerate(0) {
			continue
		}
		model = append(model, tri)
	}
	if len(model) == 0 {
		return nil, errors.New("voxelize: no surface inside bounds")
	}
	sdf.Logger().Debug("voxelized", "cells", cells, "triangles", len(model))
	return model, nil
}

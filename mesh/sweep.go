package mesh

import (
	"math"

	"github.com/bruvrocketry/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSlices is the number of angular slices of a full revolution.
const DefaultSlices = 200

// Sweep builds a mesh by placing one outline slice in each frame and joining
// consecutive slices with quads. vertices holds len(frames) slices of equal
// size laid end to end, so each frame may carry its own outline. Outlines
// lie in the XY plane of their frame and frames should advance along their
// own +Z; either winding is accepted.
//
// With loop set the last slice joins back to the first and no caps are
// made, which closes a full turn. Otherwise the first and last slices are
// capped.
func Sweep(frames []sdf.Frame, vertices []r2.Vec, loop bool) *Mesh {
	count := len(frames)
	if count < 2 {
		panic("sweep needs at least 2 frames")
	}
	size := dividedInto(len(vertices), count)
	if size < 3 {
		panic("sweep slices need at least 3 vertices")
	}
	for n := 0; n < count; n++ {
		if ok, reason := IsSimple(vertices[n*size : (n+1)*size]); !ok {
			panic("sweep slice not simple: " + reason)
		}
	}
	ccw := SignedArea(vertices[:size]) >= 0
	m := &Mesh{Vertices: make([]r3.Vec, 0, len(vertices))}
	for n, f := range frames {
		for _, v := range vertices[n*size : (n+1)*size] {
			m.Vertices = append(m.Vertices, f.ToGlobal(r3.Vec{X: v.X, Y: v.Y}))
		}
	}
	if !loop {
		m.addCap(vertices[:size], 0, false)
		m.addCap(vertices[len(vertices)-size:], len(vertices)-size, true)
	}
	last := count - 1
	if loop {
		last = count
	}
	for n := 0; n < last; n++ {
		m.addSides(n*size, ((n+1)%count)*size, size, ccw)
	}
	return m
}

// addSides joins the ring of size vertices at i to the ring at j.
func (m *Mesh) addSides(i, j, size int, ccw bool) {
	for q0 := 0; q0 < size; q0++ {
		q1 := (q0 + 1) % size
		a0, a1 := i+q0, i+q1
		b0, b1 := j+q0, j+q1
		if ccw {
			m.addTriangle(0, a0, b1, b0)
			m.addTriangle(0, a0, a1, b1)
		} else {
			m.addTriangle(0, a0, b0, b1)
			m.addTriangle(0, a0, b1, a1)
		}
	}
}

// RevolveOptions control Revolve.
type RevolveOptions struct {
	// Donut marks the profile as a closed ring that does not touch the
	// axis. Otherwise the profile is an open polyline whose ends are closed
	// onto the axis.
	Donut bool
	// Theta0 is the angle of the first slice about the frame Z axis.
	Theta0 float64
	// Slices is the number of angular steps. Zero means DefaultSlices.
	// Ignored when SliceSize is set.
	Slices int
	// SliceSize, when positive, splits the profile into consecutive
	// slices of that many vertices, one per angular step. This revolves a
	// cross section that changes around the axis.
	SliceSize int
}

// Revolve spins an (axial, radial) profile a full turn about the Z axis of
// frame. Axial coordinates run along frame Z and radial coordinates must be
// non-negative.
func Revolve(frame sdf.Frame, profile []r2.Vec, opt RevolveOptions) *Mesh {
	size, count, reps := len(profile), 1, opt.Slices
	if opt.SliceSize > 0 {
		size = opt.SliceSize
		count = dividedInto(len(profile), size)
		reps = 1
	} else if reps <= 0 {
		reps = DefaultSlices
	}
	if !opt.Donut && size < 2 {
		panic("revolved profile needs at least 2 vertices")
	}
	if count*reps < 3 {
		panic("revolve needs at least 3 angular steps")
	}
	for _, v := range profile {
		if v.Y < 0 {
			panic("revolved profile crosses the axis")
		}
	}
	slices := profile
	if !opt.Donut {
		// Close each slice onto the axis.
		slices = make([]r2.Vec, 0, count*(size+2))
		for n := 0; n < count; n++ {
			s := profile[n*size : (n+1)*size]
			slices = append(slices, r2.Vec{X: s[0].X})
			slices = append(slices, s...)
			slices = append(slices, r2.Vec{X: s[len(s)-1].X})
		}
		size += 2
	}
	steps := count * reps
	vertices := make([]r2.Vec, 0, steps*size)
	for n := 0; n < reps; n++ {
		vertices = append(vertices, slices...)
	}
	frames := make([]sdf.Frame, steps)
	for n := range frames {
		theta := opt.Theta0 + 2*math.Pi*float64(n)/float64(steps)
		s, c := math.Sincos(theta)
		tangent := frame.ToGlobalRot(r3.Vec{X: -s, Y: c})
		frames[n] = sdf.NewFrame(frame.Pos, frame.Z, tangent)
	}
	sdf.Logger().Debug("revolve", "slices", steps, "slicesize", size, "donut", opt.Donut)
	return Sweep(frames, vertices, true)
}

// Extension selects which end of an extrusion grows.
type Extension int

const (
	ExtendUp Extension = iota
	ExtendDown
	ExtendBoth
)

// ExtrudeOptions control Extrude.
type ExtrudeOptions struct {
	// AtMiddle centres the extrusion on the frame XY plane.
	AtMiddle bool
	// ExtendBy lengthens the extrusion in the Extend direction.
	ExtendBy float64
	Extend   Extension
}

// Extrude sweeps a simple outline of either winding a distance length along
// frame Z, capping both ends.
func Extrude(frame sdf.Frame, length float64, outline []r2.Vec, opt ExtrudeOptions) *Mesh {
	if length <= 0 {
		panic("extrusion length <= 0")
	}
	if ok, reason := IsSimple(outline); !ok {
		panic("extruded outline not simple: " + reason)
	}
	z0, z1 := 0., length
	if opt.AtMiddle {
		z0, z1 = -length/2, length/2
	}
	z1 += opt.ExtendBy
	var dz float64
	switch opt.Extend {
	case ExtendDown:
		dz = -opt.ExtendBy
	case ExtendBoth:
		dz = -opt.ExtendBy / 2
	}
	z0 += dz
	z1 += dz
	n := len(outline)
	m := &Mesh{Vertices: make([]r3.Vec, 0, 2*n)}
	for _, z := range [2]float64{z0, z1} {
		for _, v := range outline {
			m.Vertices = append(m.Vertices, frame.ToGlobal(r3.Vec{X: v.X, Y: v.Y, Z: z}))
		}
	}
	m.addCap(outline, 0, false)
	m.addCap(outline, n, true)
	m.addSides(0, n, n, SignedArea(outline) >= 0)
	return m
}

func dividedInto(count, by int) int {
	if count <= 0 || by <= 0 || count%by != 0 {
		panic("vertex count not a multiple of slice count")
	}
	return count / by
}

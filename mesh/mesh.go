package mesh

import (
	"github.com/bruvrocketry/sdf/internal/d3"
	"github.com/bruvrocketry/sdf/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. Faces wind counter clockwise when seen
// from outside.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Triangles expands the mesh into a triangle soup. Faces with no area, such
// as the ones collapsed onto the axis of a revolved profile, are dropped.
func (m *Mesh) Triangles() []render.Triangle3 {
	out := make([]render.Triangle3, 0, len(m.Faces))
	for _, f := range m.Faces {
		t := render.Triangle3{V: [3]r3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}}
		if t.Degenerate(0) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Renderer returns the mesh triangles as a render.Renderer.
func (m *Mesh) Renderer() render.Renderer {
	return render.NewSliceRenderer(m.Triangles())
}

// Append adds the vertices and faces of other to m.
func (m *Mesh) Append(other *Mesh) {
	off := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		m.Faces = append(m.Faces, [3]int{f[0] + off, f[1] + off, f[2] + off})
	}
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() r3.Box {
	bb := d3.EmptyBox()
	for _, v := range m.Vertices {
		bb = bb.Include(v)
	}
	return r3.Box(bb)
}

// addTriangle appends a face offset by off.
func (m *Mesh) addTriangle(off, a, b, c int) {
	m.Faces = append(m.Faces, [3]int{off + a, off + b, off + c})
}

// addCap triangulates a planar outline whose vertices start at index off.
// The cap faces +Z of its frame when top is set and -Z otherwise.
func (m *Mesh) addCap(outline []r2.Vec, off int, top bool) {
	ccw := SignedArea(outline) >= 0
	for _, t := range Triangulate(outline) {
		if ccw != top {
			t[1], t[2] = t[2], t[1]
		}
		m.addTriangle(off, t[0], t[1], t[2])
	}
}

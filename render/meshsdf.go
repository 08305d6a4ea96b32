package render

import (
	"math"

	"github.com/bruvrocketry/sdf"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ sdf.SDF3         = (*MeshSDF)(nil)
	_ kdtree.Interface = kdFacets{}
	_ kdtree.Bounder   = kdFacets{}
)

// meshNeighbours is how many facet centroids are inspected per query.
const meshNeighbours = 8

// MeshSDF is an approximate signed distance field of a closed triangle
// mesh. Facets are indexed by centroid in a k-d tree and the exact
// distance is taken over the nearest few. The sign comes from the normal
// of the closest facet, so the mesh must be closed and consistently wound.
type MeshSDF struct {
	model []Triangle3
	tree  *kdtree.Tree
	bb    r3.Box
}

// NewMeshSDF indexes model for distance queries. It panics on an empty model.
func NewMeshSDF(model []Triangle3) *MeshSDF {
	if len(model) == 0 {
		panic("empty mesh")
	}
	facets := make(kdFacets, len(model))
	bb := model[0].Bounds()
	for i, t := range model {
		facets[i] = kdFacet{c: centroid(t), i: i}
		tb := t.Bounds()
		bb.Min = r3.Vec{X: math.Min(bb.Min.X, tb.Min.X), Y: math.Min(bb.Min.Y, tb.Min.Y), Z: math.Min(bb.Min.Z, tb.Min.Z)}
		bb.Max = r3.Vec{X: math.Max(bb.Max.X, tb.Max.X), Y: math.Max(bb.Max.Y, tb.Max.Y), Z: math.Max(bb.Max.Z, tb.Max.Z)}
	}
	return &MeshSDF{
		model: model,
		tree:  kdtree.New(facets, true),
		bb:    bb,
	}
}

// Evaluate returns the signed distance from p to the mesh surface.
func (m *MeshSDF) Evaluate(p r3.Vec) float64 {
	keep := kdtree.NewNKeeper(meshNeighbours)
	m.tree.NearestSet(keep, kdFacet{c: p, i: -1})
	best := math.Inf(1)
	sign := 1.0
	for _, cd := range keep.Heap {
		f, ok := cd.Comparable.(kdFacet)
		if !ok {
			continue
		}
		t := m.model[f.i]
		q := t.Closest(p)
		d := r3.Norm(r3.Sub(p, q))
		if d < best {
			best = d
			if r3.Dot(t.Normal(), r3.Sub(p, q)) < 0 {
				sign = -1
			} else {
				sign = 1
			}
		}
	}
	return sign * best
}

// Bounds returns the bounding box of all facets.
func (m *MeshSDF) Bounds() r3.Box { return m.bb }

func centroid(t Triangle3) r3.Vec {
	return r3.Scale(1./3, r3.Add(t.V[0], r3.Add(t.V[1], t.V[2])))
}

type kdFacet struct {
	c r3.Vec
	i int
}

func (a kdFacet) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return dimOf(a.c, int(d)) - dimOf(b.(kdFacet).c, int(d))
}

func (a kdFacet) Dims() int { return 3 }

// Distance returns the squared centroid distance.
func (a kdFacet) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.c, b.(kdFacet).c))
}

func dimOf(v r3.Vec, d int) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

type kdFacets []kdFacet

func (k kdFacets) Index(i int) kdtree.Comparable { return k[i] }
func (k kdFacets) Len() int                      { return len(k) }
func (k kdFacets) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k kdFacets) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), facets: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdFacets) Bounds() *kdtree.Bounding {
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Scale(-1, lo)
	for _, f := range k {
		lo = r3.Vec{X: math.Min(lo.X, f.c.X), Y: math.Min(lo.Y, f.c.Y), Z: math.Min(lo.Z, f.c.Z)}
		hi = r3.Vec{X: math.Max(hi.X, f.c.X), Y: math.Max(hi.Y, f.c.Y), Z: math.Max(hi.Z, f.c.Z)}
	}
	return &kdtree.Bounding{Min: kdFacet{c: lo, i: -1}, Max: kdFacet{c: hi, i: -1}}
}

type kdPlane struct {
	dim    int
	facets kdFacets
}

func (p kdPlane) Less(i, j int) bool {
	return dimOf(p.facets[i].c, p.dim) < dimOf(p.facets[j].c, p.dim)
}
func (p kdPlane) Swap(i, j int) { p.facets[i], p.facets[j] = p.facets[j], p.facets[i] }
func (p kdPlane) Len() int      { return len(p.facets) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.facets = p.facets[start:end]
	return p
}

package render

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/bruvrocketry/sdf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// octahedron returns a closed, outward wound octahedron of the given radius.
func octahedron(r float64) []Triangle3 {
	px, nx := r3.Vec{X: r}, r3.Vec{X: -r}
	py, ny := r3.Vec{Y: r}, r3.Vec{Y: -r}
	pz, nz := r3.Vec{Z: r}, r3.Vec{Z: -r}
	return []Triangle3{
		{V: [3]r3.Vec{px, py, pz}}, {V: [3]r3.Vec{py, nx, pz}},
		{V: [3]r3.Vec{nx, ny, pz}}, {V: [3]r3.Vec{ny, px, pz}},
		{V: [3]r3.Vec{py, px, nz}}, {V: [3]r3.Vec{nx, py, nz}},
		{V: [3]r3.Vec{ny, nx, nz}}, {V: [3]r3.Vec{px, ny, nz}},
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	input := octahedron(3.25)
	var b bytes.Buffer
	if err := WriteSTL(&b, input); err != nil {
		t.Fatal(err)
	}
	if b.Len() != stlHeaderSize+len(input)*stlTriangleSize {
		t.Fatalf("wrote %d bytes", b.Len())
	}
	output, err := ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	for iface, expect := range input {
		got := output[iface]
		if got.Degenerate(1e-12) {
			t.Fatalf("triangle degenerate: %+v", got)
		}
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], tol) {
				t.Errorf("%dth triangle vertex %d: got %0.5g, want %0.5g", iface, i, got.V[i], expect.V[i])
			}
		}
	}
}

func TestSTLReadErrors(t *testing.T) {
	_, err := ReadSTL(bytes.NewReader(make([]byte, 10)))
	if err == nil {
		t.Error("short header accepted")
	}
	_, err = ReadSTL(bytes.NewReader(make([]byte, stlHeaderSize)))
	if err == nil {
		t.Error("zero count accepted")
	}

	var b bytes.Buffer
	if err := WriteSTL(&b, octahedron(1)); err != nil {
		t.Fatal(err)
	}
	full := b.Bytes()
	_, err = ReadSTL(bytes.NewReader(full[:len(full)-7]))
	if err == nil {
		t.Error("truncated facet accepted")
	}

	// Corrupt the stored normal of the first facet.
	bad := append([]byte(nil), full...)
	facetOf(Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}).put(bad[stlHeaderSize:])
	put3F32(bad[stlHeaderSize:], [3]float32{1, 0, 0})
	out, err := ReadSTL(bytes.NewReader(bad))
	if !errors.Is(err, ErrNormalMismatch) {
		t.Errorf("got %v, want normal mismatch", err)
	}
	if len(out) != 8 {
		t.Errorf("mismatched normals should still return triangles, got %d", len(out))
	}

	// NaN vertex.
	bad = append([]byte(nil), full...)
	put3F32(bad[stlHeaderSize+12:], [3]float32{float32(math.NaN()), 0, 0})
	if _, err = ReadSTL(bytes.NewReader(bad)); err == nil || errors.Is(err, ErrNormalMismatch) {
		t.Errorf("NaN vertex: got %v", err)
	}
	if err := WriteSTL(&b, nil); err == nil {
		t.Error("empty model written")
	}
}

func TestTriangleClosest(t *testing.T) {
	tri := Triangle3{V: [3]r3.Vec{{}, {X: 2}, {Y: 2}}}
	for _, test := range []struct {
		p, want r3.Vec
	}{
		{r3.Vec{X: 0.5, Y: 0.5, Z: 3}, r3.Vec{X: 0.5, Y: 0.5}}, // face
		{r3.Vec{X: -1, Y: -1, Z: 1}, r3.Vec{}},                 // vertex a
		{r3.Vec{X: 5, Y: -1}, r3.Vec{X: 2}},                    // vertex b
		{r3.Vec{X: -1, Y: 4}, r3.Vec{Y: 2}},                    // vertex c
		{r3.Vec{X: 1, Y: -3}, r3.Vec{X: 1}},                    // edge ab
		{r3.Vec{X: -3, Y: 1}, r3.Vec{Y: 1}},                    // edge ac
		{r3.Vec{X: 2, Y: 2, Z: -1}, r3.Vec{X: 1, Y: 1}},        // edge bc
	} {
		got := tri.Closest(test.p)
		if !d3.EqualWithin(got, test.want, 1e-12) {
			t.Errorf("closest to %v: got %v, want %v", test.p, got, test.want)
		}
	}
	if n := tri.Normal(); n != (r3.Vec{Z: 1}) {
		t.Errorf("normal %v", n)
	}
	if a := tri.Area(); a != 2 {
		t.Errorf("area %g", a)
	}
	if !(Triangle3{V: [3]r3.Vec{{}, {X: 1}, {X: 2}}}).Degenerate(0) {
		t.Error("collinear triangle not degenerate")
	}
	if tri.Degenerate(0) {
		t.Error("triangle degenerate")
	}
	if bb := tri.Bounds(); bb.Max != (r3.Vec{X: 2, Y: 2}) || bb.Min != (r3.Vec{}) {
		t.Errorf("bounds %v", bb)
	}
}

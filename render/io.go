package render

import "io"

// RenderAll drains a Renderer into a slice. io.EOF is not reported as an error.
func RenderAll(r Renderer) ([]Triangle3, error) {
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err := r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return result, err
		}
	}
}

// SliceRenderer serves a fixed set of triangles through the Renderer
// interface.
type SliceRenderer struct {
	buf []Triangle3
}

// NewSliceRenderer returns a Renderer over model. The slice is not copied.
func NewSliceRenderer(model []Triangle3) *SliceRenderer {
	return &SliceRenderer{buf: model}
}

// ReadTriangles implements Renderer.
func (b *SliceRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if len(b.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n, nil
}

// Len returns the number of triangles not yet read.
func (b *SliceRenderer) Len() int { return len(b.buf) }

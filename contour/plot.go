package contour

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Profile is anything with an inverse radius query over an axial domain.
type Profile interface {
	RadiusAt(z, offset float64) float64
}

// PlotProfile draws the radius of p at each offset over [zlo, zhi] sampled
// at n points, one line per offset.
func PlotProfile(p Profile, zlo, zhi float64, offsets []float64, n int) (*plot.Plot, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", n)
	}
	if !(zlo < zhi) {
		return nil, fmt.Errorf("empty axial range [%g, %g]", zlo, zhi)
	}
	if len(offsets) == 0 {
		offsets = []float64{0}
	}
	plt := plot.New()
	plt.Title.Text = "Contour profile"
	plt.X.Label.Text = "axial"
	plt.Y.Label.Text = "radial"
	plt.Add(plotter.NewGrid())
	for i, off := range offsets {
		xys := make(plotter.XYs, n)
		for j := range xys {
			z := zlo + (zhi-zlo)*float64(j)/float64(n-1)
			xys[j].X = z
			xys[j].Y = p.RadiusAt(z, off)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		plt.Add(line)
		plt.Legend.Add(fmt.Sprintf("offset %g", off), line)
	}
	return plt, nil
}

// PlotBreakpoints adds the section end points of c to plt as markers.
func PlotBreakpoints(plt *plot.Plot, c *Contour) error {
	xys := make(plotter.XYs, 0, len(c.segs)+1)
	xys = append(xys, plotter.XY{X: c.first.X, Y: c.first.Y})
	for _, s := range c.segs {
		xys = append(xys, plotter.XY{X: s.End.X, Y: s.End.Y})
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(2)
	plt.Add(sc)
	plt.Legend.Add("breakpoints", sc)
	return nil
}

// SavePlot writes plt to path; the format follows the extension.
func SavePlot(plt *plot.Plot, path string) error {
	return plt.Save(8*vg.Inch, 4*vg.Inch, path)
}

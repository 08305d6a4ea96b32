package contour

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NozzleParams describe the gas side of a chamber and bell nozzle. Angles
// are in radians measured from the axis.
type NozzleParams struct {
	ChamberRadius float64
	ChamberLength float64
	ThroatRadius  float64
	ExitRadius    float64
	// PhiConv is the converging wall angle, negative.
	PhiConv float64
	// PhiDiv is the bell angle just past the throat, positive.
	PhiDiv float64
	// PhiExit is the exit lip angle, positive and less than PhiDiv.
	PhiExit float64
	// NLF is the nozzle length as a fraction of an equivalent 15 degree
	// cone.
	NLF float64
	// Extension lengthens both ends with flat caps.
	Extension float64
}

// Validate reports the first parameter out of range.
func (p NozzleParams) Validate() error {
	switch {
	case p.ChamberRadius <= 0 || p.ChamberLength <= 0:
		return errors.New("chamber radius and length must be positive")
	case p.ThroatRadius <= 0:
		return errors.New("throat radius must be positive")
	case p.ThroatRadius >= p.ChamberRadius:
		return errors.New("throat must be narrower than the chamber")
	case p.ExitRadius <= p.ThroatRadius:
		return errors.New("exit must be wider than the throat")
	case !(p.PhiConv < 0 && p.PhiConv > -math.Pi/2):
		return fmt.Errorf("converging angle %g not in (-pi/2, 0)", p.PhiConv)
	case !(p.PhiDiv > 0 && p.PhiDiv < math.Pi/2):
		return fmt.Errorf("diverging angle %g not in (0, pi/2)", p.PhiDiv)
	case !(p.PhiExit > 0 && p.PhiExit < p.PhiDiv):
		return fmt.Errorf("exit angle %g not in (0, diverging angle)", p.PhiExit)
	case p.NLF <= 0:
		return errors.New("nozzle length fraction must be positive")
	case p.Extension < 0:
		return errors.New("negative extension")
	}
	return nil
}

// NozzlePoints are the breakpoints of a nozzle profile: 0 chamber start, 1
// chamber end, 2 and 3 the converging line, 4 the throat, 5 the bell start,
// 6 the exit and P the tangent intersection controlling the bell.
type NozzlePoints struct {
	P0, P1, P2, P3, P4, P5, P6 r2.Vec
	P                          r2.Vec
	// ConvRadius is the radius of the arc leaving the chamber.
	ConvRadius float64
}

// Points computes the breakpoints. The parameters must be valid.
func (p NozzleParams) Points() NozzlePoints {
	rt := p.ThroatRadius
	var n NozzlePoints
	n.ConvRadius = 1.5 * rt
	n.P0 = r2.Vec{X: 0, Y: p.ChamberRadius}
	n.P1 = r2.Vec{X: p.ChamberLength, Y: p.ChamberRadius}
	sc, cc := math.Sincos(p.PhiConv)
	n.P2 = r2.Vec{
		X: n.P1.X - n.ConvRadius*sc,
		Y: p.ChamberRadius - n.ConvRadius*(1-cc),
	}
	r3 := rt * (2.5 - 1.5*cc)
	n.P3 = r2.Vec{X: n.P2.X + (r3-n.P2.Y)/math.Tan(p.PhiConv), Y: r3}
	n.P4 = r2.Vec{X: n.P3.X - 1.5*rt*sc, Y: rt}
	sd, cd := math.Sincos(p.PhiDiv)
	n.P5 = r2.Vec{X: n.P4.X + 0.382*rt*sd, Y: rt * (1.382 - 0.382*cd)}
	n.P6 = r2.Vec{X: n.P4.X + p.NLF*(3.732051*p.ExitRadius-3.683473*rt), Y: p.ExitRadius}
	td, te := math.Tan(p.PhiDiv), math.Tan(p.PhiExit)
	zP := (n.P5.X*td - n.P6.X*te + n.P6.Y - n.P5.Y) / (td - te)
	n.P = r2.Vec{X: zP, Y: te*(zP-n.P6.X) + n.P6.Y}
	return n
}

// NewNozzle builds the gas side contour of a chamber and nozzle.
func NewNozzle(p NozzleParams) (c *Contour, err error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.Points()
	if !(n.P1.X < n.P2.X && n.P2.X < n.P3.X && n.P3.X < n.P4.X && n.P4.X < n.P5.X && n.P5.X < n.P6.X) {
		return nil, fmt.Errorf("nozzle breakpoints not axially ordered: %v", n)
	}
	defer func() {
		if a := recover(); a != nil {
			c, err = nil, fmt.Errorf("nozzle contour: %v", a)
		}
	}()
	rt := p.ThroatRadius
	return NewBuilder(n.P0).
		LineTo(n.P1).
		ArcTo(n.P2, r2.Vec{X: n.P1.X, Y: n.P1.Y - n.ConvRadius}).
		LineTo(n.P3).
		ArcTo(n.P4, r2.Vec{X: n.P4.X, Y: 2.5 * rt}).
		ArcTo(n.P5, r2.Vec{X: n.P4.X, Y: 1.382 * rt}).
		ConicTo(n.P6, n.P).
		Build(Flat(p.Extension), Flat(p.Extension))
}

// ChannelParams describe the mid-line of a cooling channel that leaves the
// chamber wall at a larger radius and narrows onto the wall.
type ChannelParams struct {
	// MidRadius is the radius of the channel mid-line at the front.
	MidRadius float64
	// PhiWid is the angle of the narrowing section, negative.
	PhiWid float64
	// ChamberRadius is the gas side chamber radius.
	ChamberRadius float64
	// InnerWall and Thickness are the inner wall and channel
	// thicknesses. The mid-line settles at ChamberRadius + InnerWall +
	// Thickness/2.
	InnerWall float64
	Thickness float64
	// Extension lengthens the front with a flat cap and the back with a
	// rounded one.
	Extension float64
}

// Offset is the distance of the channel mid-line from the gas side wall.
func (p ChannelParams) Offset() float64 {
	return p.InnerWall + p.Thickness/2
}

// Validate reports the first parameter out of range.
func (p ChannelParams) Validate() error {
	switch {
	case !(p.PhiWid < 0 && p.PhiWid > -math.Pi/2):
		return fmt.Errorf("widening angle %g not in (-pi/2, 0)", p.PhiWid)
	case p.ChamberRadius <= 0:
		return errors.New("chamber radius must be positive")
	case p.InnerWall <= 0 || p.Thickness <= 0:
		return errors.New("wall and channel thickness must be positive")
	case p.MidRadius <= p.ChamberRadius+p.Offset():
		return errors.New("channel mid radius must clear the settled mid-line")
	case p.Extension < 0:
		return errors.New("negative extension")
	}
	return nil
}

// NewChannel builds the channel mid-line contour: a line at MidRadius, a
// convex arc, a line falling at PhiWid and a concave arc onto the settled
// radius.
func NewChannel(p ChannelParams) (c *Contour, err error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	const alpha = 2
	s, co := math.Sincos(p.PhiWid)
	rs := (p.MidRadius - p.ChamberRadius) / (2 - 2*co + alpha*p.PhiWid*s)
	if rs <= 0 {
		return nil, fmt.Errorf("channel bend radius %g not positive", rs)
	}
	p0 := r2.Vec{X: 0, Y: p.MidRadius}
	p1 := r2.Vec{X: -0.5 * p.PhiWid * rs, Y: p.MidRadius}
	p2 := r2.Vec{X: p1.X - rs*s, Y: p1.Y - rs*(1-co)}
	r4 := p.ChamberRadius + p.Offset()
	r3 := r4 + rs*(1-co)
	p3 := r2.Vec{X: p2.X + (r3-p2.Y)/math.Tan(p.PhiWid), Y: r3}
	p4 := r2.Vec{X: p3.X - rs*s, Y: r4}
	if !(p2.Y > p3.Y) {
		return nil, errors.New("channel too shallow for its bend radius")
	}
	defer func() {
		if a := recover(); a != nil {
			c, err = nil, fmt.Errorf("channel contour: %v", a)
		}
	}()
	return NewBuilder(p0).
		LineTo(p1).
		ArcTo(p2, r2.Vec{X: p1.X, Y: p1.Y - rs}).
		LineTo(p3).
		ArcTo(p4, r2.Vec{X: p4.X, Y: r4 + rs}).
		Build(Flat(p.Extension), Round(p.Extension))
}

// NewWidened builds the nozzle contour widened by its cooling channel.
func NewWidened(nozzle NozzleParams, channel ChannelParams) (*Widened, error) {
	if channel.ChamberRadius == 0 {
		channel.ChamberRadius = nozzle.ChamberRadius
	}
	primary, err := NewNozzle(nozzle)
	if err != nil {
		return nil, err
	}
	mid, err := NewChannel(channel)
	if err != nil {
		return nil, err
	}
	return &Widened{Primary: primary, Mid: mid, Offset: channel.Offset()}, nil
}

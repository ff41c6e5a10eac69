package cartesian

import (
	"fmt"

	"gioui.org/f32"
)

// PointConnector joins two consecutive points of a line. The path's current
// point is from.
type PointConnector interface {
	Connect(ctx *DrawContext, p *Path, from, to f32.Point)
}

// StraightConnector joins points with straight segments.
type StraightConnector struct{}

func (StraightConnector) Connect(_ *DrawContext, p *Path, _, to f32.Point) {
	p.LineTo(to)
}

// CubicConnector joins points with horizontal cubic Bézier curves. Curvature
// scales with the vertical distance between the points, so flat runs stay
// straight.
type CubicConnector struct {
	curvature float32
}

// DefaultCurvature is the curvature of the default line connector.
const DefaultCurvature = 0.5

// NewCubicConnector validates curvature, which must lie in [0, 1].
func NewCubicConnector(curvature float32) (CubicConnector, error) {
	if !(curvature >= 0 && curvature <= 1) {
		return CubicConnector{}, fmt.Errorf("connector curvature must be in [0, 1], got %v", curvature)
	}
	return CubicConnector{curvature: curvature}, nil
}

func (c CubicConnector) Curvature() float32 { return c.curvature }

func (c CubicConnector) Connect(ctx *DrawContext, p *Path, from, to f32.Point) {
	height := ctx.LayerBounds.Height()
	scale := float32(1)
	if height > 0 {
		scale = min(abs32(to.Y-from.Y)/height*4, 1)
	}
	d := (to.X - from.X) * c.curvature * scale
	p.CubeTo(f32.Pt(from.X+d, from.Y), f32.Pt(to.X-d, to.Y), to)
}

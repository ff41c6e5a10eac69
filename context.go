package cartesian

import (
	"gioui.org/f32"
	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// MeasureContext carries the inputs of one measure pass. It is created per
// frame and never retained.
type MeasureContext struct {
	CanvasBounds Rect
	Metric       unit.Metric
	LTR          bool
	Text         TextMeasurer
	// Cache memoizes computations for the duration of the frame. It may be
	// nil.
	Cache         *store.CacheStore
	Values        ChartValues
	Layout        HorizontalLayout
	ScrollEnabled bool
	ZoomEnabled   bool
}

// Dp converts v to pixels.
func (c *MeasureContext) Dp(v unit.Dp) float32 {
	scale := c.Metric.PxPerDp
	if scale == 0 {
		scale = 1
	}
	return float32(v) * scale
}

// Sp converts v to pixels.
func (c *MeasureContext) Sp(v unit.Sp) float32 {
	scale := c.Metric.PxPerSp
	if scale == 0 {
		scale = 1
	}
	return float32(v) * scale
}

// Direction is 1 for left-to-right layouts and -1 otherwise.
func (c *MeasureContext) Direction() float32 {
	if c.LTR {
		return 1
	}
	return -1
}

// Reset purges per-frame state. The host calls it at the end of each frame.
func (c *MeasureContext) Reset() {
	c.Cache.Purge()
}

// DrawContext extends MeasureContext with the state of one draw pass.
type DrawContext struct {
	*MeasureContext
	Canvas      Canvas
	LayerBounds Rect
	// Dimensions are the horizontal dimensions with the zoom factor
	// applied.
	Dimensions HorizontalDimensions
	Scroll     float32
	Zoom       float32
	// MarkerTouch is the pointer position the marker follows, if any.
	MarkerTouch *f32.Point
	// Extras holds the interpolated drawing models of the layers.
	Extras store.ExtraStore
}

// drawingStart is the canvas x of the chart's minimum x value.
func (c *DrawContext) drawingStart() float32 {
	return c.LayerBounds.Start(c.LTR) + c.Direction()*(c.Dimensions.StartPadding()-c.Scroll)
}

// CanvasX converts a data x value into a canvas x coordinate.
func (c *DrawContext) CanvasX(x float64) float32 {
	v := c.Values
	return c.drawingStart() + c.Direction()*c.Dimensions.XSpacing*float32((x-v.MinX)/v.XStep)
}

// CanvasY converts a data y value into a canvas y coordinate, using the y
// range of the given axis position.
func (c *DrawContext) CanvasY(y float64, pos AxisPosition) float32 {
	r := c.Values.YRange(pos)
	return c.LayerBounds.Bottom - float32((y-r.MinY)/r.Length())*c.LayerBounds.Height()
}

// VisibleXRange returns the data x values at the layer bounds' edges, clamped
// to the chart's x range.
func (c *DrawContext) VisibleXRange() (float64, float64) {
	v := c.Values
	if c.Dimensions.XSpacing <= 0 {
		return v.MinX, v.MaxX
	}
	start := float64(c.Scroll-c.Dimensions.StartPadding()) / float64(c.Dimensions.XSpacing) * v.XStep
	end := start + float64(c.LayerBounds.Width()/c.Dimensions.XSpacing)*v.XStep
	return max(v.MinX+start, v.MinX), min(v.MinX+end, v.MaxX)
}

package cartesian

import (
	"fmt"
	"math"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// HorizontalAxisConfig configures a HorizontalAxis.
type HorizontalAxisConfig struct {
	Style AxisStyle
	// ItemPlacer defaults to DefaultHorizontalItemPlacer().
	ItemPlacer HorizontalItemPlacer
	// Unrestricted lets labels overlap other axes.
	Unrestricted bool
}

// HorizontalAxis is an axis at the top or bottom edge of the chart.
type HorizontalAxis struct {
	axisBase
	cfg HorizontalAxisConfig
}

var _ Axis = (*HorizontalAxis)(nil)

// NewHorizontalAxis builds a horizontal axis at pos, which must be
// PositionTop or PositionBottom.
func NewHorizontalAxis(pos AxisPosition, cfg HorizontalAxisConfig) (*HorizontalAxis, error) {
	if pos != PositionTop && pos != PositionBottom {
		return nil, fmt.Errorf("horizontal axis cannot be placed at %s", pos)
	}
	if err := cfg.Style.applyDefaults(); err != nil {
		return nil, err
	}
	if cfg.ItemPlacer == nil {
		cfg.ItemPlacer = DefaultHorizontalItemPlacer()
	}
	return &HorizontalAxis{axisBase: axisBase{position: pos, ns: store.NewNamespace("horizontal axis label sizes")}, cfg: cfg}, nil
}

// MustHorizontalAxis is NewHorizontalAxis that panics on error.
func MustHorizontalAxis(pos AxisPosition, cfg HorizontalAxisConfig) *HorizontalAxis {
	a, err := NewHorizontalAxis(pos, cfg)
	if err != nil {
		panic(err)
	}
	return a
}

// Config returns the axis configuration with defaults applied.
func (a *HorizontalAxis) Config() HorizontalAxisConfig { return a.cfg }

func (a *HorizontalAxis) label(ctx *MeasureContext, value float64) string {
	return a.cfg.Style.ValueFormatter(value, ctx.Values, a.position)
}

// maxLabelSize returns the largest rotated label width and height over the
// measurement values.
func (a *HorizontalAxis) maxLabelSize(ctx *MeasureContext, d HorizontalDimensions) (float32, float32) {
	type size struct{ w, h float32 }
	s := store.GetOrSet(ctx.Cache, a.ns, func() size {
		var out size
		for _, v := range a.cfg.ItemPlacer.MeasurementLabelValues(ctx, d) {
			w, h := a.cfg.Style.Label.Bounds(ctx, a.label(ctx, v), 0, a.cfg.Style.LabelRotation)
			out.w = max(out.w, w)
			out.h = max(out.h, h)
		}
		return out
	}, "size")
	return s.w, s.h
}

// height resolves the axis height.
func (a *HorizontalAxis) height(ctx *MeasureContext, d HorizontalDimensions) float32 {
	s := &a.cfg.Style
	switch c := s.Size.(type) {
	case AutoSize:
		_, labels := a.maxLabelSize(ctx, d)
		var title float32
		if s.Title != "" {
			_, title = s.TitleComponent.Bounds(ctx, s.Title, ctx.CanvasBounds.Width(), 0)
		}
		return c.clamp(ctx, labels+s.tickLength(ctx)+s.lineThickness(ctx)+title)
	case ExactSize:
		return ctx.Dp(c.Size)
	case FractionSize:
		return ctx.CanvasBounds.Height() * c.fraction
	case TextWidthSize:
		return s.Label.Height(ctx, c.Text, s.LabelRotation) + s.tickLength(ctx) + s.lineThickness(ctx)/2
	default:
		panic(fmt.Sprintf("unexpected size constraint %T", c))
	}
}

// UpdateHorizontalDimensions reserves room for half of the first and last
// labels in the full-width layout.
func (a *HorizontalAxis) UpdateHorizontalDimensions(ctx *MeasureContext, d *HorizontalDimensions) {
	if ctx.Layout.Mode != LayoutFullWidth || !a.cfg.ItemPlacer.AddExtremeLabelPadding(ctx) || ctx.Values.Empty() {
		return
	}
	s := &a.cfg.Style
	first := s.Label.Width(ctx, a.label(ctx, ctx.Values.MinX), s.LabelRotation)
	last := s.Label.Width(ctx, a.label(ctx, ctx.Values.MaxX), s.LabelRotation)
	d.EnsureAtLeast(HorizontalDimensions{
		UnscalableStartPadding: first / 2,
		UnscalableEndPadding:   last / 2,
	})
}

func (a *HorizontalAxis) UpdateInsets(ctx *MeasureContext, d HorizontalDimensions, insets *Insets) {
	tick := a.cfg.Style.tickThickness(ctx)
	in := Insets{
		Start: a.cfg.ItemPlacer.StartInset(ctx, d, tick),
		End:   a.cfg.ItemPlacer.EndInset(ctx, d, tick),
	}
	if a.position == PositionTop {
		in.Top = a.height(ctx, d)
	} else {
		in.Bottom = a.height(ctx, d)
	}
	insets.EnsureAtLeast(in)
}

func (a *HorizontalAxis) UpdateHorizontalInsets(*MeasureContext, float32, *HorizontalInsets) {}

func (a *HorizontalAxis) allowed(r Rect) bool {
	return a.cfg.Unrestricted || a.notRestricted(r)
}

func (a *HorizontalAxis) values(ctx *DrawContext) (labels, lines []float64) {
	minX, maxX := ctx.VisibleXRange()
	labelWidth, _ := a.maxLabelSize(ctx.MeasureContext, ctx.Dimensions)
	labels = a.cfg.ItemPlacer.LabelValues(ctx, minX, maxX, labelWidth)
	lines = a.cfg.ItemPlacer.LineValues(ctx, minX, maxX)
	if lines == nil {
		lines = labels
	}
	return labels, lines
}

// lineX returns the canvas x of a tick or guideline at value. Lines at the
// edges of the x range are moved outward by half their thickness when the
// placer shifts extreme ticks.
func (a *HorizontalAxis) lineX(ctx *DrawContext, value float64, thickness float32) float32 {
	x := ctx.CanvasX(value)
	if !a.cfg.ItemPlacer.ShiftExtremeTicks(ctx.MeasureContext) {
		return x
	}
	v := ctx.Values
	first, last := v.MinX, v.MaxX
	if ctx.Layout.Mode == LayoutSegmented {
		first -= v.XStep / 2
		last += v.XStep / 2
	}
	tolerance := v.XStep * 1e-6
	switch {
	case math.Abs(value-first) < tolerance:
		return x - ctx.Direction()*thickness/2
	case math.Abs(value-last) < tolerance:
		return x + ctx.Direction()*thickness/2
	default:
		return x
	}
}

func (a *HorizontalAxis) lineY(ctx *MeasureContext) float32 {
	half := a.cfg.Style.lineThickness(ctx) / 2
	if a.position == PositionTop {
		return a.bounds.Bottom - half
	}
	return a.bounds.Top + half
}

// DrawUnderLayers draws the guidelines and the axis line.
func (a *HorizontalAxis) DrawUnderLayers(ctx *DrawContext) {
	mc := ctx.MeasureContext
	s := &a.cfg.Style
	lb := ctx.LayerBounds
	if s.Guideline != nil {
		_, lines := a.values(ctx)
		th := s.guidelineThickness(mc)
		for _, v := range lines {
			x := a.lineX(ctx, v, th)
			if x < lb.Left-th || x > lb.Right+th {
				continue
			}
			s.Guideline.DrawVertical(ctx, lb.Top, lb.Bottom, x)
		}
	}
	s.Line.DrawHorizontal(ctx, a.bounds.Left, a.bounds.Right, a.lineY(mc))
}

// DrawOverLayers draws ticks, labels and the title.
func (a *HorizontalAxis) DrawOverLayers(ctx *DrawContext) {
	mc := ctx.MeasureContext
	s := &a.cfg.Style
	lb := ctx.LayerBounds
	labels, lines := a.values(ctx)
	lineThickness := s.lineThickness(mc)
	tickLength := s.tickLength(mc)
	tickThickness := s.tickThickness(mc)

	tickTop, tickBottom := a.bounds.Top, a.bounds.Top+lineThickness+tickLength
	labelY, labelPos := tickBottom, VerticalBottom
	if a.position == PositionTop {
		tickTop, tickBottom = a.bounds.Bottom-lineThickness-tickLength, a.bounds.Bottom
		labelY, labelPos = tickTop, VerticalTop
	}

	if s.Tick != nil {
		for _, v := range lines {
			x := a.lineX(ctx, v, tickThickness)
			if x < lb.Left-tickThickness || x > lb.Right+tickThickness {
				continue
			}
			s.Tick.DrawVertical(ctx, tickTop, tickBottom, x)
		}
	}

	if s.Label != nil {
		for _, v := range labels {
			text := a.label(mc, v)
			x := ctx.CanvasX(v)
			w, h := s.Label.Bounds(mc, text, 0, s.LabelRotation)
			box := Rect{Left: x - w/2, Top: labelY, Right: x + w/2, Bottom: labelY + h}
			if labelPos == VerticalTop {
				box = box.Translate(0, -h)
			}
			if box.Right < lb.Left || box.Left > lb.Right || !a.allowed(box) {
				continue
			}
			s.Label.Draw(ctx, text, x, labelY, HorizontalCenter, labelPos, s.LabelRotation, 0)
		}
	}

	if s.Title != "" && s.TitleComponent != nil {
		y, pos := a.bounds.Bottom, VerticalTop
		if a.position == PositionTop {
			y, pos = a.bounds.Top, VerticalBottom
		}
		s.TitleComponent.Draw(ctx, s.Title, a.bounds.CenterX(), y, HorizontalCenter, pos, 0, a.bounds.Width())
	}
}

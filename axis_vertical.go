package cartesian

import (
	"fmt"

	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// LabelPlacement selects which side of a vertical axis line its labels are
// drawn on.
type LabelPlacement uint8

const (
	// LabelsOutside draws labels in the axis area, away from the layers.
	LabelsOutside LabelPlacement = iota
	// LabelsInside draws labels over the layers.
	LabelsInside
)

// VerticalAxisConfig configures a VerticalAxis.
type VerticalAxisConfig struct {
	Style          AxisStyle
	LabelPlacement LabelPlacement
	// LabelAnchor positions labels relative to their value's y.
	LabelAnchor VerticalPosition
	// MaxLabelWidth limits label width. Zero means half of the layer width
	// minus the tick length.
	MaxLabelWidth unit.Dp
	// ItemPlacer defaults to AutoStepItemPlacer(true).
	ItemPlacer VerticalItemPlacer
	// Unrestricted lets labels and guidelines overlap other axes.
	Unrestricted bool
}

// VerticalAxis is an axis at the start or end edge of the chart.
type VerticalAxis struct {
	axisBase
	cfg VerticalAxisConfig
}

var _ Axis = (*VerticalAxis)(nil)

// NewVerticalAxis builds a vertical axis at pos, which must be PositionStart
// or PositionEnd.
func NewVerticalAxis(pos AxisPosition, cfg VerticalAxisConfig) (*VerticalAxis, error) {
	if pos != PositionStart && pos != PositionEnd {
		return nil, fmt.Errorf("vertical axis cannot be placed at %s", pos)
	}
	if err := cfg.Style.applyDefaults(); err != nil {
		return nil, err
	}
	if cfg.ItemPlacer == nil {
		cfg.ItemPlacer = AutoStepItemPlacer(true)
	}
	return &VerticalAxis{axisBase: axisBase{position: pos, ns: store.NewNamespace("vertical axis label sizes")}, cfg: cfg}, nil
}

// MustVerticalAxis is NewVerticalAxis that panics on error.
func MustVerticalAxis(pos AxisPosition, cfg VerticalAxisConfig) *VerticalAxis {
	a, err := NewVerticalAxis(pos, cfg)
	if err != nil {
		panic(err)
	}
	return a
}

// Config returns the axis configuration with defaults applied.
func (a *VerticalAxis) Config() VerticalAxisConfig { return a.cfg }

func (a *VerticalAxis) label(ctx *MeasureContext, value float64) string {
	return a.cfg.Style.ValueFormatter(value, ctx.Values, a.position)
}

func (a *VerticalAxis) maxLabelHeight(ctx *MeasureContext) float32 {
	return store.GetOrSet(ctx.Cache, a.ns, func() float32 {
		var h float32
		for _, v := range a.cfg.ItemPlacer.HeightMeasurementLabelValues(ctx, a.position) {
			h = max(h, a.cfg.Style.Label.Height(ctx, a.label(ctx, v), a.cfg.Style.LabelRotation))
		}
		return h
	}, "height")
}

func (a *VerticalAxis) maxLabelWidth(ctx *MeasureContext, axisHeight float32) float32 {
	labelHeight := a.maxLabelHeight(ctx)
	return store.GetOrSet(ctx.Cache, a.ns, func() float32 {
		var w float32
		for _, v := range a.cfg.ItemPlacer.WidthMeasurementLabelValues(ctx, axisHeight, labelHeight, a.position) {
			w = max(w, a.cfg.Style.Label.Width(ctx, a.label(ctx, v), a.cfg.Style.LabelRotation))
		}
		return w
	}, "width", axisHeight)
}

// width resolves the axis width for the given free height.
func (a *VerticalAxis) width(ctx *MeasureContext, freeHeight float32) float32 {
	s := &a.cfg.Style
	switch c := s.Size.(type) {
	case AutoSize:
		var labels float32
		if a.cfg.LabelPlacement == LabelsOutside {
			labels = ceil(a.maxLabelWidth(ctx, freeHeight)) + s.tickLength(ctx)
		}
		var title float32
		if s.Title != "" {
			title, _ = s.TitleComponent.Bounds(ctx, s.Title, freeHeight, 90)
		}
		return c.clamp(ctx, labels+title+s.lineThickness(ctx))
	case ExactSize:
		return ctx.Dp(c.Size)
	case FractionSize:
		return ctx.CanvasBounds.Width() * c.fraction
	case TextWidthSize:
		return s.Label.Width(ctx, c.Text, s.LabelRotation) + s.tickLength(ctx) + s.lineThickness(ctx)/2
	default:
		panic(fmt.Sprintf("unexpected size constraint %T", c))
	}
}

func (a *VerticalAxis) UpdateHorizontalDimensions(*MeasureContext, *HorizontalDimensions) {}

func (a *VerticalAxis) UpdateInsets(ctx *MeasureContext, _ HorizontalDimensions, insets *Insets) {
	labelHeight := a.maxLabelHeight(ctx)
	lineThickness := max(a.cfg.Style.lineThickness(ctx), a.cfg.Style.tickThickness(ctx))
	insets.EnsureVertical(
		a.cfg.ItemPlacer.TopInset(ctx, a.cfg.LabelAnchor, labelHeight, lineThickness),
		a.cfg.ItemPlacer.BottomInset(ctx, a.cfg.LabelAnchor, labelHeight, lineThickness),
	)
}

func (a *VerticalAxis) UpdateHorizontalInsets(ctx *MeasureContext, freeHeight float32, insets *HorizontalInsets) {
	w := a.width(ctx, freeHeight)
	if a.position == PositionStart {
		insets.EnsureAtLeast(w, 0)
	} else {
		insets.EnsureAtLeast(0, w)
	}
}

// lineY returns the center y of a line of the given thickness at value.
// Lines sit just below their value, except a shifted top line, which sits
// just above it.
func (a *VerticalAxis) lineY(value float64, r YRange, thickness float32, shiftTop bool) float32 {
	y := a.bounds.Bottom - float32((value-r.MinY)/r.Length())*a.bounds.Height()
	if shiftTop && value == r.MaxY {
		return y - thickness/2
	}
	return y + thickness/2
}

func (a *VerticalAxis) values(ctx *DrawContext) (labels, lines []float64) {
	mc := ctx.MeasureContext
	axisHeight := a.bounds.Height()
	labelHeight := a.maxLabelHeight(mc)
	labels = a.cfg.ItemPlacer.LabelValues(ctx, axisHeight, labelHeight, a.position)
	lines = a.cfg.ItemPlacer.LineValues(ctx, axisHeight, labelHeight, a.position)
	if lines == nil {
		lines = labels
	}
	return labels, lines
}

func (a *VerticalAxis) allowed(r Rect) bool {
	return a.cfg.Unrestricted || a.notRestricted(r)
}

// DrawUnderLayers draws the guidelines and the axis line.
func (a *VerticalAxis) DrawUnderLayers(ctx *DrawContext) {
	mc := ctx.MeasureContext
	s := &a.cfg.Style
	_, lines := a.values(ctx)
	r := ctx.Values.YRange(a.position)
	shift := a.cfg.ItemPlacer.ShiftTopLines(mc)
	lb := ctx.LayerBounds

	if s.Guideline != nil {
		th := s.guidelineThickness(mc)
		for _, v := range lines {
			y := a.lineY(v, r, th, shift)
			if !a.allowed(Rect{Left: lb.Left, Top: y - th/2, Right: lb.Right, Bottom: y + th/2}) {
				continue
			}
			s.Guideline.DrawHorizontal(ctx, lb.Left, lb.Right, y)
		}
	}

	lineThickness := s.lineThickness(mc)
	top := a.bounds.Top
	if shift {
		top -= s.tickThickness(mc)
	}
	x := a.bounds.Left + lineThickness/2
	if a.position.Left(mc.LTR) {
		x = a.bounds.Right - lineThickness/2
	}
	s.Line.DrawVertical(ctx, top, a.bounds.Bottom+s.tickThickness(mc), x)
}

// DrawOverLayers draws ticks, labels and the title.
func (a *VerticalAxis) DrawOverLayers(ctx *DrawContext) {
	mc := ctx.MeasureContext
	s := &a.cfg.Style
	labels, lines := a.values(ctx)
	r := ctx.Values.YRange(a.position)
	shift := a.cfg.ItemPlacer.ShiftTopLines(mc)
	tickLength := s.tickLength(mc)
	lineThickness := s.lineThickness(mc)
	tickThickness := s.tickThickness(mc)
	outside := a.cfg.LabelPlacement == LabelsOutside

	var tickLeft float32
	switch left := a.position.Left(mc.LTR); {
	case left && outside:
		tickLeft = a.bounds.Right - lineThickness - tickLength
	case left:
		tickLeft = a.bounds.Right - lineThickness
	case outside:
		tickLeft = a.bounds.Left
	default:
		tickLeft = a.bounds.Left - tickLength
	}
	tickRight := tickLeft + lineThickness + tickLength

	for _, v := range lines {
		s.Tick.DrawHorizontal(ctx, tickLeft, tickRight, a.lineY(v, r, tickThickness, shift))
	}

	atStart := outside == (a.position == PositionStart)
	labelX := tickRight
	if atStart == mc.LTR {
		labelX = tickLeft
	}
	hpos := HorizontalEnd
	if atStart {
		hpos = HorizontalStart
	}
	maxWidth := ctx.LayerBounds.Width()/2 - tickLength
	if a.cfg.MaxLabelWidth > 0 {
		maxWidth = ctx.Dp(a.cfg.MaxLabelWidth)
	}
	if s.Label != nil {
		for _, v := range labels {
			text := a.label(mc, v)
			y := a.lineY(v, r, tickThickness, shift)
			if !outside {
				w, h := s.Label.Bounds(mc, text, maxWidth, s.LabelRotation)
				box := Rect{Left: labelX, Top: y - h/2, Right: labelX + w, Bottom: y + h/2}
				if (hpos == HorizontalStart) == mc.LTR {
					box = box.Translate(-w, 0)
				}
				if !a.allowed(box) {
					continue
				}
			}
			s.Label.Draw(ctx, text, labelX, y, hpos, a.cfg.LabelAnchor, s.LabelRotation, maxWidth)
		}
	}

	if s.Title != "" && s.TitleComponent != nil {
		x := a.bounds.Right
		if (a.position == PositionStart) == mc.LTR {
			x = a.bounds.Left
		}
		titlePos, rotation := HorizontalStart, float32(90)
		if a.position == PositionStart {
			titlePos, rotation = HorizontalEnd, -90
		}
		s.TitleComponent.Draw(ctx, s.Title, x, a.bounds.CenterY(), titlePos, VerticalCenter, rotation, a.bounds.Height())
	}
}

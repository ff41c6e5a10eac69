package cartesian

import (
	"fmt"
	"image/color"

	"gioui.org/f32"
	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// FadingEdges fades the content at the start and end edges of the layer
// bounds when more content is scrolled out of view there.
type FadingEdges struct {
	// Color is the background the content fades into.
	Color      color.NRGBA
	StartWidth unit.Dp
	EndWidth   unit.Dp
	// VisibilityThreshold is the scrolled-out distance at which an edge is
	// fully visible. It defaults to 16dp.
	VisibilityThreshold unit.Dp
}

func (f *FadingEdges) draw(ctx *DrawContext, maxScroll float32) {
	if f == nil {
		return
	}
	threshold := ctx.Dp(f.VisibilityThreshold)
	if threshold <= 0 {
		threshold = ctx.Dp(16)
	}
	lb := ctx.LayerBounds
	transparent := f.Color
	transparent.A = 0
	edge := func(width, hidden float32, atStart bool) {
		if width <= 0 || hidden <= 0 {
			return
		}
		alpha := clamp(hidden/threshold, 0, 1)
		left := atStart == ctx.LTR
		r := Rect{Left: lb.Left, Top: lb.Top, Right: lb.Left + width, Bottom: lb.Bottom}
		from, to := f.Color, transparent
		if !left {
			r = Rect{Left: lb.Right - width, Top: lb.Top, Right: lb.Right, Bottom: lb.Bottom}
			from, to = transparent, f.Color
		}
		b := Brush{Gradient: &LinearGradient{
			From: f32.Pt(r.Left, r.Top), To: f32.Pt(r.Right, r.Top),
			FromColor: from, ToColor: to,
		}}
		ctx.Canvas.FillRect(r, 0, b.WithAlpha(alpha))
	}
	edge(ctx.Dp(f.StartWidth), ctx.Scroll, true)
	edge(ctx.Dp(f.EndWidth), maxScroll-ctx.Scroll, false)
}

// ChartConfig configures a Chart. Every axis is optional.
type ChartConfig struct {
	Layers      []Layer
	StartAxis   Axis
	TopAxis     Axis
	EndAxis     Axis
	BottomAxis  Axis
	Decorations []Decoration
	Marker      Marker
	// OnMarker is called when the marker is shown, moves to another x, or
	// is hidden.
	OnMarker    func(MarkerEvent)
	FadingEdges *FadingEdges
}

// Chart composes layers, axes, decorations and a marker. Prepare measures a
// model into layer bounds; Draw then renders it.
type Chart struct {
	cfg ChartConfig

	layerBounds Rect
	insets      Insets
	targets     *MarkerTargets
	state       store.MutableExtraStore

	markerShown bool
	markerX     float64
}

// NewChart validates cfg: each axis must sit at the position of the field
// holding it.
func NewChart(cfg ChartConfig) (*Chart, error) {
	for _, a := range []struct {
		axis Axis
		pos  AxisPosition
	}{
		{cfg.StartAxis, PositionStart},
		{cfg.TopAxis, PositionTop},
		{cfg.EndAxis, PositionEnd},
		{cfg.BottomAxis, PositionBottom},
	} {
		if a.axis != nil && a.axis.Position() != a.pos {
			return nil, fmt.Errorf("axis at %s configured as the %s axis", a.axis.Position(), a.pos)
		}
	}
	return &Chart{cfg: cfg, targets: NewMarkerTargets()}, nil
}

// MustChart is NewChart that panics on error.
func MustChart(cfg ChartConfig) *Chart {
	c, err := NewChart(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Chart) axes() []Axis {
	axes := make([]Axis, 0, 4)
	for _, a := range []Axis{c.cfg.StartAxis, c.cfg.TopAxis, c.cfg.EndAxis, c.cfg.BottomAxis} {
		if a != nil {
			axes = append(axes, a)
		}
	}
	return axes
}

// layerModel returns the model rendered by layer i, or nil.
func (c *Chart) layerModel(m *model.ChartModel, i int) model.LayerModel {
	if m.Empty() || i >= len(m.Layers) || !c.cfg.Layers[i].Accepts(m.Layers[i]) {
		return nil
	}
	return m.Layers[i]
}

// Check reports layer models that no layer can render.
func (c *Chart) Check(m *model.ChartModel) error {
	if m.Empty() {
		return nil
	}
	if len(m.Layers) > len(c.cfg.Layers) {
		return fmt.Errorf("model has %d layers, chart has %d", len(m.Layers), len(c.cfg.Layers))
	}
	for i, l := range m.Layers {
		if !c.cfg.Layers[i].Accepts(l) {
			return fmt.Errorf("layer %d cannot render %T", i, l)
		}
	}
	return nil
}

// Values resolves the chart values of m.
func (c *Chart) Values(m *model.ChartModel) ChartValues {
	b := NewChartValuesBuilder(m)
	for i, l := range c.cfg.Layers {
		if lm := c.layerModel(m, i); lm != nil {
			l.UpdateChartValues(b, lm)
		}
	}
	return b.Freeze()
}

// Prepare measures m for ctx's canvas in a single pass: horizontal
// dimensions, then vertical insets, then horizontal insets for the height
// that remains, then the layer and axis bounds. It returns the base
// (unzoomed) horizontal dimensions.
func (c *Chart) Prepare(ctx *MeasureContext, m *model.ChartModel) HorizontalDimensions {
	var d HorizontalDimensions
	for i, l := range c.cfg.Layers {
		if lm := c.layerModel(m, i); lm != nil {
			l.UpdateHorizontalDimensions(ctx, &d, lm)
		}
	}
	axes := c.axes()
	for _, a := range axes {
		a.UpdateHorizontalDimensions(ctx, &d)
	}

	var insets Insets
	own := make(map[AxisPosition]Insets, len(axes))
	for _, a := range axes {
		var in Insets
		a.UpdateInsets(ctx, d, &in)
		own[a.Position()] = in
		insets.EnsureAtLeast(in)
	}
	for i, l := range c.cfg.Layers {
		if lm := c.layerModel(m, i); lm != nil {
			l.UpdateInsets(ctx, d, &insets, lm)
		}
	}
	if c.cfg.Marker != nil {
		c.cfg.Marker.UpdateInsets(ctx, d, &insets)
	}

	freeHeight := ctx.CanvasBounds.Height() - insets.Vertical()
	var h HorizontalInsets
	for _, a := range axes {
		a.UpdateHorizontalInsets(ctx, freeHeight, &h)
	}
	insets.Start = max(insets.Start, h.Start)
	insets.End = max(insets.End, h.End)
	c.insets = insets

	cb := ctx.CanvasBounds
	c.layerBounds = Rect{
		Left:   cb.Left + insets.Left(ctx.LTR),
		Top:    cb.Top + insets.Top,
		Right:  cb.Right - insets.Right(ctx.LTR),
		Bottom: cb.Bottom - insets.Bottom,
	}
	lb := c.layerBounds
	if lb.Empty() {
		return d
	}

	verticalBounds := func(width float32, start bool) Rect {
		if start == ctx.LTR {
			return Rect{Left: lb.Left - width, Top: lb.Top, Right: lb.Left, Bottom: lb.Bottom}
		}
		return Rect{Left: lb.Right, Top: lb.Top, Right: lb.Right + width, Bottom: lb.Bottom}
	}
	for _, a := range axes {
		switch a.Position() {
		case PositionStart:
			a.SetBounds(verticalBounds(h.Start, true))
		case PositionEnd:
			a.SetBounds(verticalBounds(h.End, false))
		case PositionTop:
			a.SetBounds(Rect{Left: lb.Left, Top: lb.Top - own[PositionTop].Top, Right: lb.Right, Bottom: lb.Top})
		case PositionBottom:
			a.SetBounds(Rect{Left: lb.Left, Top: lb.Bottom, Right: lb.Right, Bottom: lb.Bottom + own[PositionBottom].Bottom})
		default:
			panic(fmt.Sprintf("unexpected axis position %s", a.Position()))
		}
	}
	for _, a := range axes {
		var others []Rect
		for _, o := range axes {
			if o != a {
				others = append(others, o.Bounds())
			}
		}
		a.SetRestrictedBounds(others...)
	}
	return d
}

// LayerBounds returns the area the layers were measured into by the last
// Prepare.
func (c *Chart) LayerBounds() Rect { return c.layerBounds }

// Insets returns the insets resolved by the last Prepare.
func (c *Chart) Insets() Insets { return c.insets }

// PrepareForTransformation starts the difference animation toward m.
func (c *Chart) PrepareForTransformation(m *model.ChartModel, values ChartValues) {
	for i, l := range c.cfg.Layers {
		l.PrepareForTransformation(c.layerModel(m, i), values, &c.state)
	}
}

// Transform advances the difference animation to fraction.
func (c *Chart) Transform(fraction float32) {
	for _, l := range c.cfg.Layers {
		l.Transform(&c.state, fraction)
	}
}

// DrawingExtras returns the interpolated drawing models for DrawContext.Extras.
func (c *Chart) DrawingExtras() store.ExtraStore {
	return c.state.Freeze()
}

// MarkerTargets returns the targets recorded by the last Draw.
func (c *Chart) MarkerTargets() *MarkerTargets { return c.targets }

// Draw renders m: decorations under the layers, axis underlays, layers,
// axis overlays, decorations over the layers, fading edges, then the
// marker. It does nothing when the layer bounds have no area.
func (c *Chart) Draw(ctx *DrawContext, m *model.ChartModel) {
	if ctx.LayerBounds.Empty() || m.Empty() {
		return
	}
	axes := c.axes()
	for _, d := range c.cfg.Decorations {
		d.DrawUnderLayers(ctx)
	}
	for _, a := range axes {
		a.DrawUnderLayers(ctx)
	}

	c.targets.Reset()
	lb := ctx.LayerBounds
	ctx.Canvas.PushClip(Rect{Left: lb.Left, Top: ctx.CanvasBounds.Top, Right: lb.Right, Bottom: ctx.CanvasBounds.Bottom})
	for i, l := range c.cfg.Layers {
		if lm := c.layerModel(m, i); lm != nil {
			c.targets.setLayer(i)
			l.Draw(ctx, lm, c.targets)
		}
	}
	ctx.Canvas.PopClip()

	for _, a := range axes {
		a.DrawOverLayers(ctx)
	}
	for _, d := range c.cfg.Decorations {
		d.DrawOverLayers(ctx)
	}
	c.cfg.FadingEdges.draw(ctx, MaxScroll(ctx.Values, ctx.Dimensions, lb))
	c.drawMarker(ctx)
}

func (c *Chart) drawMarker(ctx *DrawContext) {
	var targets []*MarkerTarget
	if ctx.MarkerTouch != nil {
		targets = c.targets.Nearest(ctx.MarkerTouch.X)
	}
	if len(targets) == 0 {
		if c.markerShown {
			c.markerShown = false
			c.notify(MarkerEvent{Kind: MarkerHidden})
		}
		return
	}
	if c.cfg.Marker != nil {
		c.cfg.Marker.Draw(ctx, targets)
	}
	switch x := targets[0].X; {
	case !c.markerShown:
		c.markerShown, c.markerX = true, x
		c.notify(MarkerEvent{Kind: MarkerShown, Targets: targets, CanvasX: targets[0].CanvasX})
	case x != c.markerX:
		c.markerX = x
		c.notify(MarkerEvent{Kind: MarkerUpdated, Targets: targets, CanvasX: targets[0].CanvasX})
	}
}

func (c *Chart) notify(e MarkerEvent) {
	if c.cfg.OnMarker != nil {
		c.cfg.OnMarker(e)
	}
}

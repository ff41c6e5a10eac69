package cartesian

import "git.sr.ht/~whereswaldon/cartesian/model"

// Scroll is a scroll target, resolved against the content currently
// measured.
type Scroll interface {
	// Delta returns the change of the scroll value, currently value, that
	// reaches the target.
	Delta(ctx *MeasureContext, d HorizontalDimensions, bounds Rect, maxValue, value float32) float32
}

type absoluteScroll func(ctx *MeasureContext, d HorizontalDimensions, bounds Rect, maxValue float32) float32

func (a absoluteScroll) Delta(ctx *MeasureContext, d HorizontalDimensions, bounds Rect, maxValue, value float32) float32 {
	return a(ctx, d, bounds, maxValue) - value
}

type relativeScroll func(ctx *MeasureContext, d HorizontalDimensions) float32

func (r relativeScroll) Delta(ctx *MeasureContext, d HorizontalDimensions, _ Rect, _, _ float32) float32 {
	return r(ctx, d)
}

// AbsoluteStart scrolls to the start of the content.
func AbsoluteStart() Scroll {
	return absoluteScroll(func(*MeasureContext, HorizontalDimensions, Rect, float32) float32 { return 0 })
}

// AbsoluteEnd scrolls to the end of the content.
func AbsoluteEnd() Scroll {
	return absoluteScroll(func(_ *MeasureContext, _ HorizontalDimensions, _ Rect, maxValue float32) float32 { return maxValue })
}

// AbsolutePixels scrolls to the given scroll value.
func AbsolutePixels(px float32) Scroll {
	return absoluteScroll(func(*MeasureContext, HorizontalDimensions, Rect, float32) float32 { return px })
}

// AbsoluteX scrolls so that x sits bias (a fraction of the layer width) from
// the start edge.
func AbsoluteX(x float64, bias float32) Scroll {
	return absoluteScroll(func(ctx *MeasureContext, d HorizontalDimensions, bounds Rect, _ float32) float32 {
		v := ctx.Values
		return d.StartPadding() + float32((x-v.MinX)/v.XStep)*d.XSpacing - bias*bounds.Width()
	})
}

// RelativePixels scrolls by px.
func RelativePixels(px float32) Scroll {
	return relativeScroll(func(*MeasureContext, HorizontalDimensions) float32 { return px })
}

// RelativeX scrolls by the width of an x distance.
func RelativeX(x float64) Scroll {
	return relativeScroll(func(ctx *MeasureContext, d HorizontalDimensions) float32 {
		return float32(x/ctx.Values.XStep) * d.XSpacing
	})
}

// AutoScrollCondition decides whether a model update triggers an automatic
// scroll. old is nil for the first model.
type AutoScrollCondition func(old, new *model.ChartModel) bool

// AutoScrollNever never scrolls automatically.
func AutoScrollNever(_, _ *model.ChartModel) bool { return false }

// AutoScrollOnModelSizeIncreased scrolls when a layer is added or a layer
// gains entries.
func AutoScrollOnModelSizeIncreased(old, new *model.ChartModel) bool {
	if old.Empty() || new.Empty() {
		return false
	}
	if len(new.Layers) > len(old.Layers) {
		return true
	}
	for i, l := range new.Layers {
		if i >= len(old.Layers) || l.EntryCount() > old.Layers[i].EntryCount() {
			return true
		}
	}
	return false
}

// ScrollState is the horizontal scroll position of one chart, a pixel
// offset from the start of the content kept within [0, Max()].
type ScrollState struct {
	Enabled bool
	// Initial is applied on the first update. It defaults to
	// AbsoluteStart.
	Initial Scroll
	// Auto is the target of automatic scrolls. It defaults to AbsoluteEnd.
	Auto Scroll
	// AutoCondition defaults to AutoScrollNever.
	AutoCondition AutoScrollCondition

	value          float32
	maxValue       float32
	initialHandled bool
}

// NewScrollState returns a scroll state with the default targets.
func NewScrollState(enabled bool) *ScrollState {
	return &ScrollState{
		Enabled:       enabled,
		Initial:       AbsoluteStart(),
		Auto:          AbsoluteEnd(),
		AutoCondition: AutoScrollNever,
	}
}

func (s *ScrollState) Value() float32 { return s.value }
func (s *ScrollState) Max() float32   { return s.maxValue }

// SetValue moves to v, clamped to the scrollable range.
func (s *ScrollState) SetValue(v float32) {
	s.value = clamp(v, 0, s.maxValue)
}

// ScrollBy moves by delta and returns the distance actually moved.
func (s *ScrollState) ScrollBy(delta float32) float32 {
	old := s.value
	s.SetValue(s.value + delta)
	return s.value - old
}

// MaxScroll is the scrollable distance of content laid out with the zoomed
// dimensions d inside bounds.
func MaxScroll(v ChartValues, d HorizontalDimensions, bounds Rect) float32 {
	return max(d.ContentWidth(v)-bounds.Width(), 0)
}

// Update recomputes the scrollable range for the zoomed dimensions d and
// applies the initial scroll on the first call.
func (s *ScrollState) Update(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) {
	s.maxValue = MaxScroll(ctx.Values, d, bounds)
	if !s.initialHandled {
		s.initialHandled = true
		if s.Initial != nil {
			s.value += s.Initial.Delta(ctx, d, bounds, s.maxValue, s.value)
		}
	}
	s.SetValue(s.value)
}

// Target returns the clamped scroll value that t resolves to.
func (s *ScrollState) Target(ctx *MeasureContext, d HorizontalDimensions, bounds Rect, t Scroll) float32 {
	return clamp(s.value+t.Delta(ctx, d, bounds, s.maxValue, s.value), 0, s.maxValue)
}

func (s *ScrollState) shouldAutoScroll(old, new *model.ChartModel) bool {
	if s.AutoCondition == nil {
		return false
	}
	return s.AutoCondition(old, new)
}

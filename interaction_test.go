package cartesian

import (
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

func TestScrollClamps(t *testing.T) {
	s := NewScrollState(true)
	ctx := measureContext(400, 300)
	ctx.Values = valuesFor(0, 10, 0, 1)
	s.Update(ctx, HorizontalDimensions{XSpacing: 100}, Rect{Right: 400, Bottom: 300})
	approx(t, "max scroll", s.Max(), 600)

	s.SetValue(-5)
	approx(t, "scroll below zero", s.Value(), 0)
	s.SetValue(1000)
	approx(t, "scroll past the end", s.Value(), 600)
	approx(t, "scroll by at the end", s.ScrollBy(100), 0)
	approx(t, "scroll by", s.ScrollBy(-250), -250)
	approx(t, "scroll after scroll by", s.Value(), 350)
}

func TestScrollTargets(t *testing.T) {
	ctx := measureContext(400, 300)
	ctx.Values = valuesFor(0, 10, 0, 1)
	d := HorizontalDimensions{XSpacing: 100, ScalableStartPadding: 50, ScalableEndPadding: 50}
	bounds := Rect{Right: 400, Bottom: 300}
	s := NewScrollState(true)
	s.Update(ctx, d, bounds)

	type testcase struct {
		name     string
		target   Scroll
		from     float32
		expected float32
	}
	for _, tc := range []testcase{
		{name: "start", target: AbsoluteStart(), from: 300, expected: 0},
		{name: "end", target: AbsoluteEnd(), expected: 700},
		{name: "pixels", target: AbsolutePixels(123), expected: 123},
		{name: "x at start", target: AbsoluteX(4, 0), expected: 450},
		{name: "x centered", target: AbsoluteX(4, 0.5), expected: 250},
		{name: "relative pixels", target: RelativePixels(-50), from: 100, expected: 50},
		{name: "relative x", target: RelativeX(2), from: 100, expected: 300},
		{name: "clamped", target: RelativeX(20), from: 100, expected: 700},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s.SetValue(tc.from)
			approx(t, "target", s.Target(ctx, d, bounds, tc.target), tc.expected)
		})
	}
}

func newTestInteraction(t *testing.T) (*Interaction, *MeasureContext, HorizontalDimensions, Rect) {
	t.Helper()
	in := NewInteraction(NewScrollState(true), NewZoomState(true))
	in.Zoom.Initial = ZoomStatic(1)
	in.Zoom.Min = ZoomStatic(0.1)
	in.Zoom.Max = ZoomStatic(10)
	ctx := measureContext(400, 300)
	ctx.Values = valuesFor(0, 100, 0, 1)
	d := HorizontalDimensions{XSpacing: 10, ScalableStartPadding: 5, ScalableEndPadding: 5, UnscalableStartPadding: 20}
	return in, ctx, d, Rect{Right: 400, Bottom: 300}
}

func TestPinchKeepsCentroidInPlace(t *testing.T) {
	in, ctx, d, bounds := newTestInteraction(t)
	in.Update(ctx, d, bounds, time.Unix(0, 0))
	in.Scroll.SetValue(200)

	xAt := func(canvasX float32) float64 {
		dc := &DrawContext{MeasureContext: ctx, LayerBounds: bounds, Dimensions: in.Dimensions(), Scroll: in.Scroll.Value()}
		return float64((canvasX-dc.drawingStart())/dc.Dimensions.XSpacing)*ctx.Values.XStep + ctx.Values.MinX
	}
	before := xAt(150)
	in.Pinch(2, 150)
	if in.State() != StateZooming {
		t.Errorf("expected zooming state, got %s", in.State())
	}
	approx(t, "zoom", in.Zoom.Value(), 2)
	approx(t, "x under the centroid", float32(xAt(150)), float32(before))

	in.Release()
	if in.State() != StateIdle {
		t.Errorf("expected idle after release, got %s", in.State())
	}
	in.Update(ctx, d, bounds, time.Unix(1, 0))
	approx(t, "zoom kept after update", in.Zoom.Value(), 2)
}

func TestPinchClampsZoom(t *testing.T) {
	in, ctx, d, bounds := newTestInteraction(t)
	in.Update(ctx, d, bounds, time.Unix(0, 0))
	in.Pinch(100, 0)
	approx(t, "zoom", in.Zoom.Value(), 10)
	in.Pinch(0.0001, 0)
	approx(t, "zoom", in.Zoom.Value(), 0.1)
}

func TestInteractionStates(t *testing.T) {
	in, ctx, d, bounds := newTestInteraction(t)
	start := time.Unix(0, 0)
	in.Update(ctx, d, bounds, start)

	in.ScrollTo(AbsoluteEnd(), start)
	if in.State() != StateAnimating {
		t.Fatalf("expected animating state, got %s", in.State())
	}
	if !in.Update(ctx, d, bounds, start.Add(ScrollAnimationDuration/2)) {
		t.Errorf("expected the animation to request another frame")
	}
	mid := in.Scroll.Value()
	if mid <= 0 || mid >= in.Scroll.Max() {
		t.Errorf("expected a scroll between 0 and %v halfway through, got %v", in.Scroll.Max(), mid)
	}

	// Dragging cancels the animation.
	in.Drag(-10)
	if in.State() != StateDragging {
		t.Fatalf("expected dragging state, got %s", in.State())
	}
	in.Update(ctx, d, bounds, start.Add(ScrollAnimationDuration))
	approx(t, "scroll after cancelled animation", in.Scroll.Value(), mid-10)

	in.Pinch(2, 100)
	if got := in.Drag(10); got != 0 || in.State() != StateZooming {
		t.Errorf("expected drag to be ignored while zooming, moved %v in %s", got, in.State())
	}
	in.Release()
	if in.State() != StateIdle {
		t.Errorf("expected idle after release, got %s", in.State())
	}
}

func TestAutoScrollWaitsForGesture(t *testing.T) {
	in, ctx, d, bounds := newTestInteraction(t)
	in.Scroll.AutoCondition = func(_, _ *model.ChartModel) bool { return true }
	start := time.Unix(0, 0)
	in.Update(ctx, d, bounds, start)

	in.Drag(30)
	lm, err := model.NewLineModel([]model.LineEntry{{X: 0, Y: 1}, {X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("building model: %v", err)
	}
	in.SetModel(model.NewChartModel(lm))
	in.Update(ctx, d, bounds, start)
	if in.State() != StateDragging {
		t.Fatalf("expected the drag to continue, got %s", in.State())
	}
	in.Release()
	in.Update(ctx, d, bounds, start)
	if in.State() != StateAnimating {
		t.Fatalf("expected the automatic scroll to start after release, got %s", in.State())
	}
	in.Update(ctx, d, bounds, start.Add(ScrollAnimationDuration))
	approx(t, "scroll", in.Scroll.Value(), in.Scroll.Max())
}

func TestDisabledScroll(t *testing.T) {
	in := NewInteraction(NewScrollState(false), nil)
	if in.Zoom.Enabled {
		t.Errorf("expected zoom to follow the disabled scroll")
	}
	if got := in.Drag(50); got != 0 {
		t.Errorf("expected no movement, got %v", got)
	}
	if in.State() != StateIdle {
		t.Errorf("expected idle, got %s", in.State())
	}
}

func TestAutoScrollOnModelSizeIncreased(t *testing.T) {
	line := func(n int) model.LayerModel {
		entries := make([]model.LineEntry, n)
		for i := range entries {
			entries[i] = model.LineEntry{X: float64(i), Y: 1}
		}
		lm, err := model.NewLineModel(entries)
		if err != nil {
			t.Fatalf("building line model: %v", err)
		}
		return lm
	}
	type testcase struct {
		old, new *model.ChartModel
		expected bool
	}
	for name, tc := range map[string]testcase{
		"first model":    {old: nil, new: model.NewChartModel(line(2)), expected: false},
		"more entries":   {old: model.NewChartModel(line(2)), new: model.NewChartModel(line(3)), expected: true},
		"same entries":   {old: model.NewChartModel(line(2)), new: model.NewChartModel(line(2)), expected: false},
		"fewer entries":  {old: model.NewChartModel(line(3)), new: model.NewChartModel(line(2)), expected: false},
		"layer added":    {old: model.NewChartModel(line(2)), new: model.NewChartModel(line(2), line(2)), expected: true},
		"layer removed":  {old: model.NewChartModel(line(2), line(2)), new: model.NewChartModel(line(2)), expected: false},
		"removed, grown": {old: model.NewChartModel(line(2), line(2)), new: model.NewChartModel(line(5)), expected: true},
	} {
		t.Run(name, func(t *testing.T) {
			if got := AutoScrollOnModelSizeIncreased(tc.old, tc.new); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSessionDropsLayerWithAutoScroll(t *testing.T) {
	c := MustChart(ChartConfig{Layers: []Layer{
		MustColumnLayer(ColumnLayerConfig{}),
		MustLineLayer(LineLayerConfig{}),
	}})
	s := NewSession(c, nil)
	s.Interaction.Scroll.AutoCondition = AutoScrollOnModelSizeIncreased
	cm, err := model.NewColumnModel([]model.ColumnEntry{{X: 0, Y: 1}, {X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("building column model: %v", err)
	}
	lm, err := model.NewLineModel([]model.LineEntry{{X: 0, Y: 1}, {X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("building line model: %v", err)
	}
	if err := s.SetModel(model.NewChartModel(cm, lm)); err != nil {
		t.Fatalf("setting two layer model: %v", err)
	}
	if err := s.SetModel(model.NewChartModel(cm)); err != nil {
		t.Fatalf("setting one layer model: %v", err)
	}
	if got := len(s.Model().Layers); got != 1 {
		t.Errorf("expected the one layer model to be displayed, got %d layers", got)
	}
}

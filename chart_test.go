package cartesian

import (
	"image/color"
	"testing"
	"time"

	"gioui.org/f32"
	"github.com/google/go-cmp/cmp"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

func lineModel(t *testing.T, ys ...float64) *model.ChartModel {
	t.Helper()
	entries := make([]model.LineEntry, len(ys))
	for i, y := range ys {
		entries[i] = model.LineEntry{X: float64(i), Y: y}
	}
	lm, err := model.NewLineModel(entries)
	if err != nil {
		t.Fatalf("building line model: %v", err)
	}
	return model.NewChartModel(lm)
}

func columnModel(t *testing.T, series ...[]float64) *model.ChartModel {
	t.Helper()
	converted := make([][]model.ColumnEntry, len(series))
	for i, ys := range series {
		for x, y := range ys {
			converted[i] = append(converted[i], model.ColumnEntry{X: float64(x), Y: y})
		}
	}
	cm, err := model.NewColumnModel(converted...)
	if err != nil {
		t.Fatalf("building column model: %v", err)
	}
	return model.NewChartModel(cm)
}

func drawFrame(s *Session, c Canvas, width, height float32, now time.Time) bool {
	return s.Draw(Frame{
		Canvas: c,
		Text:   monoText{},
		Bounds: Rect{Right: width, Bottom: height},
		LTR:    true,
		Now:    now,
	})
}

func TestLineChartEndToEnd(t *testing.T) {
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{MustLineLayer(LineLayerConfig{})}}), nil)
	s.AnimationDuration = 0
	if err := s.SetModel(lineModel(t, 1, 5, 3, 8)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 400, 300, time.Unix(0, 0))

	if r := s.Values().YRange(PositionUnset); r != (YRange{MinY: 0, MaxY: 8}) {
		t.Errorf("expected y range [0, 8], got %+v", r)
	}
	lb := s.Chart.LayerBounds()
	approx(t, "layer width", lb.Width(), 400)
	approx(t, "x spacing", s.Interaction.Dimensions().XSpacing, 100)

	strokes := canvas.filter(opStrokePath)
	if len(strokes) != 1 {
		t.Fatalf("expected one stroked line, got %d", len(strokes))
	}
	pts := endpoints(strokes[0].path)
	if len(pts) != 4 {
		t.Fatalf("expected 4 line points, got %d", len(pts))
	}
	approx(t, "first x", pts[0].X, 50)
	approx(t, "last x", pts[3].X, 350)
	approx(t, "y of 8", pts[3].Y, lb.Top)
	approx(t, "y of 1", pts[0].Y, lb.Bottom-lb.Height()/8)

	ctx := &DrawContext{MeasureContext: &MeasureContext{Values: s.Values(), LTR: true}, LayerBounds: lb}
	approx(t, "y of 0", ctx.CanvasY(0, PositionUnset), lb.Bottom)
}

func TestStackedColumns(t *testing.T) {
	layer := MustColumnLayer(ColumnLayerConfig{MergeMode: MergeStacked})
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{layer}}), nil)
	s.AnimationDuration = 0
	if err := s.SetModel(columnModel(t, []float64{1, 2}, []float64{3, 4})); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 400, 300, time.Unix(0, 0))

	if r := s.Values().YRange(PositionUnset); r != (YRange{MinY: 0, MaxY: 6}) {
		t.Errorf("expected y range [0, 6], got %+v", r)
	}
	lb := s.Chart.LayerBounds()
	unit := lb.Height() / 6

	stacks := map[float32]Rect{}
	var order []float32
	for _, op := range canvas.filter(opFillRect) {
		x := op.rect.CenterX()
		r, ok := stacks[x]
		if !ok {
			order = append(order, x)
			stacks[x] = op.rect
			continue
		}
		r.Top = min(r.Top, op.rect.Top)
		r.Bottom = max(r.Bottom, op.rect.Bottom)
		stacks[x] = r
	}
	if len(order) != 2 {
		t.Fatalf("expected 2 stacks, got %d", len(order))
	}
	for i, want := range []float32{4, 6} {
		r := stacks[order[i]]
		approx(t, "stack height", r.Height()/unit, want)
		approx(t, "stack base", r.Bottom, lb.Bottom)
	}
}

func TestIdenticalModelKeepsScroll(t *testing.T) {
	in := NewInteraction(NewScrollState(true), NewZoomState(true))
	in.Zoom.Initial = ZoomStatic(1)
	in.Scroll.AutoCondition = func(_, _ *model.ChartModel) bool { return true }
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{MustLineLayer(LineLayerConfig{})}}), in)
	s.AnimationDuration = 0

	ys := make([]float64, 50)
	for i := range ys {
		ys[i] = float64(i % 7)
	}
	start := time.Unix(0, 0)
	if err := s.SetModel(lineModel(t, ys...)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	if !drawFrame(s, canvas, 400, 300, start) {
		t.Errorf("expected the automatic scroll to request another frame")
	}
	drawFrame(s, canvas, 400, 300, start.Add(time.Second))
	if in.State() != StateIdle {
		t.Fatalf("expected idle after the automatic scroll, got %s", in.State())
	}
	approx(t, "scroll after automatic scroll", in.Scroll.Value(), in.Scroll.Max())

	in.Drag(-500)
	in.Release()
	scrolled := in.Scroll.Value()

	same := lineModel(t, ys...)
	if same.ID() != s.Model().ID() {
		t.Fatalf("expected equal content to produce equal ids")
	}
	if err := s.SetModel(same); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	if drawFrame(s, canvas, 400, 300, start.Add(2*time.Second)) {
		t.Errorf("expected no animation for an identical model")
	}
	approx(t, "scroll after identical model", in.Scroll.Value(), scrolled)

	if err := s.SetModel(lineModel(t, append(ys, 3)...)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	drawFrame(s, canvas, 400, 300, start.Add(3*time.Second))
	drawFrame(s, canvas, 400, 300, start.Add(4*time.Second))
	approx(t, "scroll after new model", in.Scroll.Value(), in.Scroll.Max())
}

func TestChartRejectsMisplacedAxis(t *testing.T) {
	_, err := NewChart(ChartConfig{StartAxis: MustHorizontalAxis(PositionBottom, HorizontalAxisConfig{})})
	if err == nil {
		t.Errorf("expected a bottom axis in the start slot to be rejected")
	}
}

func TestChartCheck(t *testing.T) {
	c := MustChart(ChartConfig{Layers: []Layer{MustLineLayer(LineLayerConfig{})}})
	if err := c.Check(columnModel(t, []float64{1})); err == nil {
		t.Errorf("expected a column model to be rejected by a line layer")
	}
	if err := c.Check(nil); err != nil {
		t.Errorf("expected a nil model to be accepted, got %v", err)
	}
}

func TestInsetsTakeMaximum(t *testing.T) {
	start := MustVerticalAxis(PositionStart, VerticalAxisConfig{
		Style: AxisStyle{Label: &TextComponent{Size: 12}, Size: ExactSize{Size: 40}},
	})
	bottom := MustHorizontalAxis(PositionBottom, HorizontalAxisConfig{
		Style: AxisStyle{Label: &TextComponent{Size: 12}, Size: ExactSize{Size: 30}},
	})
	c := MustChart(ChartConfig{
		Layers:     []Layer{MustLineLayer(LineLayerConfig{})},
		StartAxis:  start,
		BottomAxis: bottom,
	})
	m := lineModel(t, 1, 2, 3)
	ctx := measureContext(400, 300)
	ctx.Values = c.Values(m)
	c.Prepare(ctx, m)

	in := c.Insets()
	approx(t, "start inset", in.Start, 40)
	approx(t, "bottom inset", in.Bottom, 30)
	lb := c.LayerBounds()
	approx(t, "layer left", lb.Left, 40)
	approx(t, "layer bottom", lb.Bottom, 270)
	if got := start.Bounds(); got.Right != lb.Left || got.Width() != 40 {
		t.Errorf("expected start axis beside the layers, got %+v", got)
	}
	if got := bottom.Bounds(); got.Top != lb.Bottom || got.Height() != 30 {
		t.Errorf("expected bottom axis below the layers, got %+v", got)
	}
}

func TestDrawSkipsEmptyBounds(t *testing.T) {
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{MustLineLayer(LineLayerConfig{})}}), nil)
	if err := s.SetModel(lineModel(t, 1, 2)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 0, 0, time.Unix(0, 0))
	if len(canvas.ops) != 0 {
		t.Errorf("expected nothing drawn into empty bounds, got %d ops", len(canvas.ops))
	}
}

func TestMarkerEvents(t *testing.T) {
	var events []MarkerEventKind
	c := MustChart(ChartConfig{
		Layers:   []Layer{MustLineLayer(LineLayerConfig{})},
		Marker:   &DefaultMarker{Indicator: &ShapeComponent{Color: color.NRGBA{A: 0xff}}},
		OnMarker: func(e MarkerEvent) { events = append(events, e.Kind) },
	})
	s := NewSession(c, nil)
	s.AnimationDuration = 0
	if err := s.SetModel(lineModel(t, 1, 5, 3, 8)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	frame := func(touch *f32.Point) {
		s.Draw(Frame{Canvas: &recordingCanvas{}, Text: monoText{}, Bounds: Rect{Right: 400, Bottom: 300}, LTR: true, MarkerTouch: touch})
	}
	frame(&f32.Point{X: 60, Y: 100})
	frame(&f32.Point{X: 70, Y: 100})
	frame(&f32.Point{X: 340, Y: 100})
	frame(nil)

	want := []MarkerEventKind{MarkerShown, MarkerUpdated, MarkerHidden}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("unexpected marker events (-want +got):\n%s", diff)
	}
}

func TestDifferenceAnimation(t *testing.T) {
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{MustLineLayer(LineLayerConfig{})}}), nil)
	if err := s.SetModel(lineModel(t, 0, 4, 8)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	start := time.Unix(0, 0)
	lastPoint := func(now time.Time) (f32.Point, bool) {
		canvas := &recordingCanvas{}
		redraw := drawFrame(s, canvas, 400, 300, now)
		strokes := canvas.filter(opStrokePath)
		if len(strokes) != 1 {
			t.Fatalf("expected one stroked line, got %d", len(strokes))
		}
		pts := endpoints(strokes[0].path)
		return pts[len(pts)-1], redraw
	}

	// New entries grow from the zero line.
	pt, redraw := lastPoint(start)
	lb := s.Chart.LayerBounds()
	approx(t, "initial y", pt.Y, lb.Bottom)
	if !redraw {
		t.Errorf("expected the animation to request another frame")
	}
	pt, redraw = lastPoint(start.Add(DefaultAnimationDuration))
	approx(t, "final y", pt.Y, lb.Top)
	if redraw {
		t.Errorf("expected the animation to be finished")
	}
}

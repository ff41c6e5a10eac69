package cartesian

import (
	"image/color"
	"slices"
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

func TestCandlestickBodies(t *testing.T) {
	cm, err := model.NewCandlestickModel([]model.CandlestickEntry{
		{X: 0, Open: 2, Close: 6, Low: 1, High: 8},
		{X: 1, Open: 6, Close: 4, Low: 3, High: 7},
		{X: 2, Open: 5, Close: 5, Low: 4, High: 6},
	})
	if err != nil {
		t.Fatalf("building model: %v", err)
	}
	layer := MustCandlestickLayer(CandlestickLayerConfig{})
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{layer}}), nil)
	s.AnimationDuration = 0
	if err := s.SetModel(model.NewChartModel(cm)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 400, 300, time.Unix(0, 0))

	lb := s.Chart.LayerBounds()
	unit := lb.Height() / 8
	bullish, neutral, bearish := DefaultCandles()
	var bodies []drawOp
	for _, op := range canvas.filter(opFillRect) {
		if w := op.rect.Width(); w > 7.99 && w < 8.01 {
			bodies = append(bodies, op)
		}
	}
	if len(bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(bodies))
	}
	for i, tc := range []struct {
		color         color.NRGBA
		top, bottom   float32
		minimalHeight bool
	}{
		{color: bullish.Body.Color, top: 6, bottom: 2},
		{color: bearish.Body.Color, top: 6, bottom: 4},
		{color: neutral.Body.Color, minimalHeight: true},
	} {
		b := bodies[i]
		if b.brush.Color != tc.color {
			t.Errorf("body %d: expected color %v, got %v", i, tc.color, b.brush.Color)
		}
		if tc.minimalHeight {
			approx(t, "flat body height", b.rect.Height(), 1)
			continue
		}
		approx(t, "body top", b.rect.Top, lb.Bottom-tc.top*unit)
		approx(t, "body bottom", b.rect.Bottom, lb.Bottom-tc.bottom*unit)
	}
}

func TestAxisLabels(t *testing.T) {
	label := &TextComponent{Size: 12}
	c := MustChart(ChartConfig{
		Layers: []Layer{MustLineLayer(LineLayerConfig{})},
		StartAxis: MustVerticalAxis(PositionStart, VerticalAxisConfig{
			Style:      AxisStyle{Label: label, Line: &LineComponent{Thickness: 1}},
			ItemPlacer: mustCountPlacer(t, 3),
		}),
		BottomAxis: MustHorizontalAxis(PositionBottom, HorizontalAxisConfig{
			Style: AxisStyle{Label: label, Tick: &LineComponent{Thickness: 1}, TickLength: 4},
		}),
	})
	s := NewSession(c, nil)
	s.AnimationDuration = 0
	if err := s.SetModel(lineModel(t, 1, 5, 3, 8)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 400, 300, time.Unix(0, 0))

	texts := canvas.texts()
	for _, want := range []string{"0", "1", "2", "3", "4", "8"} {
		if !slices.Contains(texts, want) {
			t.Errorf("expected label %q among %q", want, texts)
		}
	}
	lb := c.LayerBounds()
	if lb.Left <= 0 {
		t.Errorf("expected the start axis to reserve room, layer bounds start at %v", lb.Left)
	}
	if lb.Bottom >= 300 {
		t.Errorf("expected the bottom axis to reserve room, layer bounds end at %v", lb.Bottom)
	}
}

func TestAxisLabelSizesCached(t *testing.T) {
	ctx := measureContext(400, 600)
	ctx.Cache = store.NewCacheStore()
	ctx.Values = valuesFor(0, 10, 0, 100)
	start := MustVerticalAxis(PositionStart, VerticalAxisConfig{Style: AxisStyle{Label: &TextComponent{Size: 12}}})
	end := MustVerticalAxis(PositionEnd, VerticalAxisConfig{Style: AxisStyle{Label: &TextComponent{Size: 24}}})

	first := start.maxLabelHeight(ctx)
	// Bounds assigned between measuring and drawing must not change the key.
	start.SetBounds(Rect{Right: 40, Bottom: 600})
	if got := start.maxLabelHeight(ctx); got != first {
		t.Errorf("expected the cached height %v, got %v", first, got)
	}
	if hits, misses := ctx.Cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d hits and %d misses", hits, misses)
	}

	// Another axis with identical inputs keeps its own entry.
	end.maxLabelHeight(ctx)
	if _, misses := ctx.Cache.Stats(); misses != 2 {
		t.Errorf("expected the end axis to miss, got %d misses", misses)
	}
}

func TestDecorationOrder(t *testing.T) {
	under := &HorizontalBox{MinY: 2, MaxY: 4, Box: &ShapeComponent{Color: color.NRGBA{R: 1, A: 0xff}}}
	over := &HorizontalLine{Y: 6, Line: &LineComponent{Color: color.NRGBA{G: 1, A: 0xff}, Thickness: 2}, OverLayers: true}
	c := MustChart(ChartConfig{
		Layers:      []Layer{MustLineLayer(LineLayerConfig{})},
		Decorations: []Decoration{under, over},
	})
	s := NewSession(c, nil)
	s.AnimationDuration = 0
	if err := s.SetModel(lineModel(t, 1, 5, 3, 8)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 400, 300, time.Unix(0, 0))

	index := func(match func(drawOp) bool) int {
		return slices.IndexFunc(canvas.ops, match)
	}
	box := index(func(op drawOp) bool { return op.kind == opFillRect && op.brush.Color == under.Box.Color })
	line := index(func(op drawOp) bool { return op.kind == opStrokePath })
	threshold := index(func(op drawOp) bool { return op.kind == opFillRect && op.brush.Color == over.Line.Color })
	if box < 0 || line < 0 || threshold < 0 {
		t.Fatalf("expected box, line and threshold to be drawn, got indices %d %d %d", box, line, threshold)
	}
	if !(box < line && line < threshold) {
		t.Errorf("expected box, then line, then threshold; got indices %d %d %d", box, line, threshold)
	}
	lb := c.LayerBounds()
	approx(t, "box top", canvas.ops[box].rect.Top, lb.Bottom-lb.Height()/2)
}

func TestLineDataLabels(t *testing.T) {
	layer := MustLineLayer(LineLayerConfig{Lines: []LineSpec{{
		Color:             color.NRGBA{B: 0xff, A: 0xff},
		Point:             &ShapeComponent{Shape: ShapeEllipse, Color: color.NRGBA{A: 0xff}},
		DataLabel:         &TextComponent{Size: 10},
		DataLabelPosition: VerticalTop,
	}}})
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{layer}}), nil)
	s.AnimationDuration = 0
	if err := s.SetModel(lineModel(t, 1, 5, 3, 8)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 400, 300, time.Unix(0, 0))

	if got := len(canvas.filter(opFillEllipse)); got != 4 {
		t.Errorf("expected 4 points, got %d", got)
	}
	texts := canvas.texts()
	for _, want := range []string{"1", "5", "3", "8"} {
		if !slices.Contains(texts, want) {
			t.Errorf("expected data label %q among %q", want, texts)
		}
	}
}

func TestLineBackgroundSplitsAtZero(t *testing.T) {
	layer := MustLineLayer(LineLayerConfig{Lines: []LineSpec{{
		Color:      color.NRGBA{B: 0xff, A: 0xff},
		Background: SolidShader{Color: color.NRGBA{B: 0xff, A: 0x40}},
	}}})
	s := NewSession(MustChart(ChartConfig{Layers: []Layer{layer}}), nil)
	s.AnimationDuration = 0
	if err := s.SetModel(lineModel(t, -4, 4, -2, 4)); err != nil {
		t.Fatalf("setting model: %v", err)
	}
	canvas := &recordingCanvas{}
	drawFrame(s, canvas, 400, 300, time.Unix(0, 0))

	lb := s.Chart.LayerBounds()
	zero := lb.Bottom - lb.Height()/2
	fills := canvas.filter(opFillPath)
	if len(fills) != 2 {
		t.Fatalf("expected fills above and below the zero line, got %d", len(fills))
	}
	approx(t, "upper fill clip bottom", fills[0].clip.Bottom, zero)
	approx(t, "lower fill clip top", fills[1].clip.Top, zero)
}

package cartesian

import (
	"testing"

	"gioui.org/f32"
	"github.com/google/go-cmp/cmp"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

func TestOverriders(t *testing.T) {
	adaptive, err := NewAdaptiveOverrider(1.5, true)
	if err != nil {
		t.Fatalf("building adaptive overrider: %v", err)
	}
	type testcase struct {
		name      string
		overrider AxisValueOverrider
		raw       model.Bounds
		expected  model.Bounds
	}
	for _, tc := range []testcase{
		{name: "default keeps zero", overrider: DefaultOverrider{}, raw: model.Bounds{MaxX: 3, MinY: 2, MaxY: 9}, expected: model.Bounds{MaxX: 3, MaxY: 9}},
		{name: "default negative", overrider: DefaultOverrider{}, raw: model.Bounds{MinY: -4, MaxY: -1}, expected: model.Bounds{MinY: -4}},
		{name: "default all zero", overrider: DefaultOverrider{}, expected: model.Bounds{MaxY: 1}},
		{name: "auto rounds", overrider: AutoOverrider{}, raw: model.Bounds{MinY: -4.2, MaxY: 123}, expected: model.Bounds{MinY: -10, MaxY: 130}},
		{name: "fixed min", overrider: FixedOverrider{MinY: Fixed(2)}, raw: model.Bounds{MinY: 5, MaxY: 9}, expected: model.Bounds{MinY: 2, MaxY: 9}},
		{name: "fixed x", overrider: FixedOverrider{MinX: Fixed(-1), MaxX: Fixed(20)}, raw: model.Bounds{MaxX: 3, MaxY: 9}, expected: model.Bounds{MinX: -1, MaxX: 20, MaxY: 9}},
		{name: "adaptive", overrider: adaptive, raw: model.Bounds{MinY: 2, MaxY: 10}, expected: model.Bounds{MinY: 0, MaxY: 15}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.overrider.Override(tc.raw, store.ExtraStore{})
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("unexpected bounds (-want +got):\n%s", diff)
			}
		})
	}
	if _, err := NewAdaptiveOverrider(0, false); err == nil {
		t.Errorf("expected a zero fraction to be rejected")
	}
}

func TestChartValuesRanges(t *testing.T) {
	b := NewChartValuesBuilder(nil)
	b.TryUpdate(0, 4, 0, 10, PositionStart)
	b.TryUpdate(2, 8, -5, 3, PositionEnd)
	v := b.Freeze()

	if v.MinX != 0 || v.MaxX != 8 {
		t.Errorf("expected x range [0, 8], got [%v, %v]", v.MinX, v.MaxX)
	}
	if r := v.YRange(PositionStart); r != (YRange{MinY: 0, MaxY: 10}) {
		t.Errorf("unexpected start range %+v", r)
	}
	if r := v.YRange(PositionEnd); r != (YRange{MinY: -5, MaxY: 3}) {
		t.Errorf("unexpected end range %+v", r)
	}
	if r := v.YRange(PositionUnset); r != (YRange{MinY: -5, MaxY: 10}) {
		t.Errorf("unexpected chart-wide range %+v", r)
	}
	if v.XStep != 1 {
		t.Errorf("expected the default x step, got %v", v.XStep)
	}
}

func TestChartValuesWithEmptyLayer(t *testing.T) {
	c := MustChart(ChartConfig{Layers: []Layer{
		MustColumnLayer(ColumnLayerConfig{}),
		MustLineLayer(LineLayerConfig{}),
	}})
	empty, err := model.NewColumnModel()
	if err != nil {
		t.Fatalf("building empty column model: %v", err)
	}
	lm, err := model.NewLineModel([]model.LineEntry{{X: 0, Y: 2}, {X: 2, Y: 6}, {X: 4, Y: 3}})
	if err != nil {
		t.Fatalf("building line model: %v", err)
	}
	m := model.NewChartModel(empty, lm)
	if err := c.Check(m); err != nil {
		t.Fatalf("expected the model to be accepted, got %v", err)
	}
	v := c.Values(m)
	if v.MinX != 0 || v.MaxX != 4 {
		t.Errorf("expected x range [0, 4], got [%v, %v]", v.MinX, v.MaxX)
	}
	if r := v.YRange(PositionUnset); r != (YRange{MinY: 0, MaxY: 6}) {
		t.Errorf("unexpected chart-wide range %+v", r)
	}
	if v.XStep != 1 {
		t.Errorf("expected the empty layer to bring the x step to 1, got %v", v.XStep)
	}
}

func TestFractionSize(t *testing.T) {
	for _, f := range []float32{0, -0.1, 0.51, 1} {
		if _, err := NewFractionSize(f); err == nil {
			t.Errorf("expected fraction %v to be rejected", f)
		}
	}
	s, err := NewFractionSize(0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Fraction() != 0.5 {
		t.Errorf("expected fraction 0.5, got %v", s.Fraction())
	}
}

func TestAxisRejectsZeroFraction(t *testing.T) {
	if _, err := NewVerticalAxis(PositionStart, VerticalAxisConfig{Style: AxisStyle{Size: FractionSize{}}}); err == nil {
		t.Errorf("expected the vertical axis to reject an unset fraction")
	}
	if _, err := NewHorizontalAxis(PositionBottom, HorizontalAxisConfig{Style: AxisStyle{Size: FractionSize{}}}); err == nil {
		t.Errorf("expected the horizontal axis to reject an unset fraction")
	}
	a, err := NewVerticalAxis(PositionStart, VerticalAxisConfig{Style: AxisStyle{Size: MustFractionSize(0.25)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs, ok := a.Config().Style.Size.(FractionSize); !ok || fs.Fraction() != 0.25 {
		t.Errorf("expected the fraction to be kept, got %#v", a.Config().Style.Size)
	}
}

func TestCubicConnector(t *testing.T) {
	for _, c := range []float32{-0.1, 1.1} {
		if _, err := NewCubicConnector(c); err == nil {
			t.Errorf("expected curvature %v to be rejected", c)
		}
	}
	c, err := NewCubicConnector(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := &DrawContext{LayerBounds: Rect{Right: 100, Bottom: 100}}
	var p Path
	from := f32.Pt(0, 100)
	p.MoveTo(from)
	c.Connect(ctx, &p, from, f32.Pt(40, 0))
	last := p.Segments[len(p.Segments)-1]
	if last.Kind != SegmentCubic {
		t.Fatalf("expected a cubic segment, got %d", last.Kind)
	}
	approx(t, "first control x", last.Points[0].X, 40)
	approx(t, "second control x", last.Points[1].X, 0)

	// Flat runs stay straight.
	p.Reset()
	p.MoveTo(from)
	c.Connect(ctx, &p, from, f32.Pt(40, 100))
	last = p.Segments[len(p.Segments)-1]
	approx(t, "flat control x", last.Points[0].X, 0)
}

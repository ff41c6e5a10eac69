package style

import (
	"image/color"
	"strings"
	"testing"

	"gioui.org/unit"
	"github.com/google/go-cmp/cmp"

	"git.sr.ht/~whereswaldon/cartesian"
)

const doc = `
axes:
  default:
    label: {color: "#444444", size: 12}
    guideline: {color: "#dddddd", thickness: 1}
    decimals: 1
  start:
    size: 40
  bottom:
    label_rotation: -45
    guideline: {color: "#ff000080", thickness: 2}
lines:
  - color: "#3366cc"
    point_size: 8
    background_top: "#3366cc80"
    curvature: 0.25
  - color: "#cc6633"
columns:
  - {color: "#00ff00", thickness: 6, shape: rounded}
candles:
  bullish: "#00aa00"
  width: 10
marker:
  indicator: "#000000"
  indicator_size: 6
  tint: true
fading_edges:
  color: "#ffffff"
  width: 24
`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	d, err := Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("failed parsing style: %v", err)
	}
	return d
}

func TestColor(t *testing.T) {
	type testcase struct {
		in       Color
		expected color.NRGBA
		err      bool
	}
	for name, tc := range map[string]testcase{
		"empty":    {in: "", expected: color.NRGBA{}},
		"opaque":   {in: "#102030", expected: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		"alpha":    {in: "#10203040", expected: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		"no hash":  {in: "ffffff", expected: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		"short":    {in: "#fff", err: true},
		"not hex":  {in: "#gggggg", err: true},
		"too long": {in: "#1020304050", err: true},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := tc.in.NRGBA()
			if (err != nil) != tc.err {
				t.Fatalf("expected error %v, got %v", tc.err, err)
			}
			if got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestAxisFallback(t *testing.T) {
	d := mustParse(t, doc)

	start := d.AxisStyle(cartesian.PositionStart)
	if start.Label == nil || start.Label.Size != 12 {
		t.Errorf("expected the start axis to inherit the default label, got %+v", start.Label)
	}
	if diff := cmp.Diff(cartesian.ExactSize{Size: 40}, start.Size); diff != "" {
		t.Errorf("start axis size (-want +got):\n%s", diff)
	}
	if got := start.ValueFormatter(1.25, cartesian.ChartValues{}, cartesian.PositionStart); got != "1.2" && got != "1.3" {
		t.Errorf("expected one decimal, got %q", got)
	}

	bottom := d.AxisStyle(cartesian.PositionBottom)
	if bottom.LabelRotation != -45 {
		t.Errorf("expected rotation -45, got %v", bottom.LabelRotation)
	}
	if diff := cmp.Diff(&cartesian.LineComponent{Color: color.NRGBA{R: 0xff, A: 0x80}, Thickness: 2}, bottom.Guideline); diff != "" {
		t.Errorf("bottom guideline (-want +got):\n%s", diff)
	}
	if bottom.Size != nil {
		t.Errorf("expected the bottom axis size to be left to the axis, got %v", bottom.Size)
	}

	end := d.AxisStyle(cartesian.PositionEnd)
	if d.HasAxis(cartesian.PositionEnd) {
		t.Errorf("end axis is not styled explicitly")
	}
	if end.Guideline == nil || end.Guideline.Thickness != 1 {
		t.Errorf("expected the default guideline, got %+v", end.Guideline)
	}
}

func TestLayerStyles(t *testing.T) {
	d := mustParse(t, doc)
	lines := d.LineSpecs()
	if len(lines) != 2 {
		t.Fatalf("expected 2 line specs, got %d", len(lines))
	}
	if lines[0].Point == nil || lines[0].PointSize != 8 {
		t.Errorf("expected 8dp points on the first line, got %+v", lines[0].Point)
	}
	if lines[0].Point.Color != lines[0].Color {
		t.Errorf("expected points to default to the line color")
	}
	if lines[0].Background == nil {
		t.Errorf("expected a background on the first line")
	}
	if c, ok := lines[0].Connector.(cartesian.CubicConnector); !ok || c.Curvature() != 0.25 {
		t.Errorf("expected a cubic connector of curvature 0.25, got %#v", lines[0].Connector)
	}
	if lines[1].Point != nil || lines[1].Background != nil || lines[1].Connector != nil {
		t.Errorf("expected a plain second line, got %+v", lines[1])
	}

	cols := d.ColumnComponents()
	expected := []cartesian.LineComponent{{Color: color.NRGBA{G: 0xff, A: 0xff}, Thickness: 6, Shape: cartesian.ShapeRounded}}
	if diff := cmp.Diff(expected, cols); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}

	bullish, neutral, _ := d.CandleStyles()
	green := color.NRGBA{G: 0xaa, A: 0xff}
	if bullish.Body.Color != green || bullish.TopWick.Color != green {
		t.Errorf("expected a green bullish candle, got %+v", bullish)
	}
	if bullish.Body.Thickness != unit.Dp(10) || neutral.Body.Thickness != unit.Dp(10) {
		t.Errorf("expected 10dp candles, got %v and %v", bullish.Body.Thickness, neutral.Body.Thickness)
	}
	_, defNeutral, _ := cartesian.DefaultCandles()
	if neutral.Body.Color != defNeutral.Body.Color {
		t.Errorf("expected the default neutral color, got %v", neutral.Body.Color)
	}

	m := d.DefaultMarker()
	if m == nil || m.Indicator == nil || !m.TintIndicator || m.IndicatorSize != 6 {
		t.Errorf("unexpected marker %+v", m)
	}
	f := d.Fading()
	if f == nil || f.StartWidth != 24 || f.EndWidth != 24 {
		t.Errorf("unexpected fading edges %+v", f)
	}
}

func TestEmptyDocument(t *testing.T) {
	d := mustParse(t, "")
	if d.DefaultMarker() != nil || d.Fading() != nil {
		t.Errorf("expected no marker and no fading edges")
	}
	if len(d.LineSpecs()) != 0 {
		t.Errorf("expected no line specs")
	}
	s := d.AxisStyle(cartesian.PositionBottom)
	if s.Label != nil || s.Line != nil {
		t.Errorf("expected an empty axis style, got %+v", s)
	}
}

func TestParseErrors(t *testing.T) {
	for name, in := range map[string]string{
		"unknown key":      "colours: {}\n",
		"unknown axis":     "axes:\n  left: {}\n",
		"bad color":        "lines:\n  - color: red\n",
		"bad shape":        "columns:\n  - {shape: hexagon}\n",
		"bad curvature":    "lines:\n  - curvature: 2\n",
		"negative decimal": "axes:\n  start: {decimals: -1}\n",
		"malformed":        "axes: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(in)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestPalette(t *testing.T) {
	seen := map[color.NRGBA]bool{}
	for i := 0; i < paletteSize; i++ {
		c := PaletteColor(i)
		if c.A != 0xff {
			t.Errorf("color %d is not opaque: %v", i, c)
		}
		if seen[c] {
			t.Errorf("color %d repeats an earlier color: %v", i, c)
		}
		seen[c] = true
	}
	if PaletteColor(paletteSize) != PaletteColor(0) {
		t.Errorf("expected the palette to wrap around")
	}

	d := mustParse(t, "lines:\n  - point_size: 4\n  - {}\ncolumns:\n  - thickness: 3\n")
	lines := d.LineSpecs()
	if lines[0].Color != PaletteColor(0) || lines[1].Color != PaletteColor(1) {
		t.Errorf("expected unstyled lines to take palette colors, got %v and %v", lines[0].Color, lines[1].Color)
	}
	if lines[0].Point.Color != lines[0].Color {
		t.Errorf("expected points to follow the palette color")
	}
	if got := d.ColumnComponents()[0].Color; got != PaletteColor(2) {
		t.Errorf("expected the column to continue the palette, got %v", got)
	}
}

func TestOklchGray(t *testing.T) {
	for _, tc := range []struct {
		l        float64
		expected uint8
	}{
		{l: 0, expected: 0},
		{l: 1, expected: 0xff},
	} {
		c := oklch{L: tc.l}.NRGBA()
		if c.R != tc.expected || c.G != tc.expected || c.B != tc.expected {
			t.Errorf("lightness %v: expected gray %d, got %v", tc.l, tc.expected, c)
		}
	}
}

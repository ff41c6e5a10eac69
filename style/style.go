// Package style builds chart configuration from a YAML style document.
//
// Axis styles are given per axis position, with a "default" block that
// supplies every field a position leaves unset:
//
//	axes:
//	  default:
//	    label: {color: "#444444", size: 12}
//	    guideline: {color: "#dddddd", thickness: 1}
//	  bottom:
//	    label_rotation: -45
//	lines:
//	  - color: "#3366cc"
//	    point_size: 8
package style

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"gioui.org/unit"
	"gopkg.in/yaml.v3"

	"git.sr.ht/~whereswaldon/cartesian"
)

// Color is a color written as "#rrggbb" or "#rrggbbaa".
type Color string

// NRGBA parses the color. The empty color is transparent.
func (c Color) NRGBA() (color.NRGBA, error) {
	s := strings.TrimPrefix(string(c), "#")
	switch len(s) {
	case 0:
		return color.NRGBA{}, nil
	case 6:
		s += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("color %q: expected #rrggbb or #rrggbbaa", string(c))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", string(c), err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Line styles a line component.
type Line struct {
	Color     Color   `yaml:"color"`
	Thickness float32 `yaml:"thickness"`
	Shape     string  `yaml:"shape"`
}

// Text styles a text component.
type Text struct {
	Color      Color   `yaml:"color"`
	Size       float32 `yaml:"size"`
	MaxLines   int     `yaml:"max_lines"`
	Padding    float32 `yaml:"padding"`
	Background Color   `yaml:"background"`
}

// Axis styles one axis. Unset fields fall back to the default block.
type Axis struct {
	Line          *Line    `yaml:"line"`
	Label         *Text    `yaml:"label"`
	LabelRotation *float32 `yaml:"label_rotation"`
	Tick          *Line    `yaml:"tick"`
	TickLength    *float32 `yaml:"tick_length"`
	Guideline     *Line    `yaml:"guideline"`
	Title         *string  `yaml:"title"`
	Decimals      *int     `yaml:"decimals"`
	// Size is an exact axis size in dp.
	Size *float32 `yaml:"size"`
}

// LineSeries styles one series of a line layer.
type LineSeries struct {
	Color            Color    `yaml:"color"`
	Thickness        float32  `yaml:"thickness"`
	PointSize        float32  `yaml:"point_size"`
	PointColor       Color    `yaml:"point_color"`
	BackgroundTop    Color    `yaml:"background_top"`
	BackgroundBottom Color    `yaml:"background_bottom"`
	Curvature        *float32 `yaml:"curvature"`
	DataLabel        *Text    `yaml:"data_label"`
}

// Candles styles the candlestick directions.
type Candles struct {
	Bullish Color   `yaml:"bullish"`
	Neutral Color   `yaml:"neutral"`
	Bearish Color   `yaml:"bearish"`
	Width   float32 `yaml:"width"`
}

// Marker styles the default marker.
type Marker struct {
	Label         *Text   `yaml:"label"`
	Indicator     Color   `yaml:"indicator"`
	IndicatorSize float32 `yaml:"indicator_size"`
	Tint          bool    `yaml:"tint"`
	Guideline     *Line   `yaml:"guideline"`
}

// FadingEdges styles the fading edges.
type FadingEdges struct {
	Color Color   `yaml:"color"`
	Width float32 `yaml:"width"`
}

// Document is a parsed style document.
type Document struct {
	Axes        map[string]Axis `yaml:"axes"`
	Lines       []LineSeries    `yaml:"lines"`
	Columns     []Line          `yaml:"columns"`
	Candles     *Candles        `yaml:"candles"`
	Marker      *Marker         `yaml:"marker"`
	FadingEdges *FadingEdges    `yaml:"fading_edges"`
}

const fallbackAxis = "default"

var axisKeys = map[string]cartesian.AxisPosition{
	"start":  cartesian.PositionStart,
	"top":    cartesian.PositionTop,
	"end":    cartesian.PositionEnd,
	"bottom": cartesian.PositionBottom,
}

// Parse decodes and validates a style document. Unknown keys are errors.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Document
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed decoding style: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Document) validate() error {
	var errs []error
	check := func(where string, c Color) {
		if _, err := c.NRGBA(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}
	checkLine := func(where string, l *Line) {
		if l == nil {
			return
		}
		check(where, l.Color)
		if _, err := parseShape(l.Shape); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}
	checkText := func(where string, t *Text) {
		if t == nil {
			return
		}
		check(where, t.Color)
		check(where+" background", t.Background)
	}
	for key, a := range d.Axes {
		if _, ok := axisKeys[key]; !ok && key != fallbackAxis {
			errs = append(errs, fmt.Errorf("unknown axis %q", key))
		}
		checkLine("axes."+key+".line", a.Line)
		checkLine("axes."+key+".tick", a.Tick)
		checkLine("axes."+key+".guideline", a.Guideline)
		checkText("axes."+key+".label", a.Label)
		if a.Decimals != nil && *a.Decimals < 0 {
			errs = append(errs, fmt.Errorf("axes.%s.decimals must not be negative", key))
		}
	}
	for i, l := range d.Lines {
		where := fmt.Sprintf("lines[%d]", i)
		check(where, l.Color)
		check(where+" point", l.PointColor)
		check(where+" background", l.BackgroundTop)
		check(where+" background", l.BackgroundBottom)
		checkText(where+" data label", l.DataLabel)
		if l.Curvature != nil {
			if _, err := cartesian.NewCubicConnector(*l.Curvature); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", where, err))
			}
		}
	}
	for i := range d.Columns {
		checkLine(fmt.Sprintf("columns[%d]", i), &d.Columns[i])
	}
	if c := d.Candles; c != nil {
		check("candles.bullish", c.Bullish)
		check("candles.neutral", c.Neutral)
		check("candles.bearish", c.Bearish)
	}
	if m := d.Marker; m != nil {
		checkText("marker.label", m.Label)
		check("marker.indicator", m.Indicator)
		checkLine("marker.guideline", m.Guideline)
	}
	if f := d.FadingEdges; f != nil {
		check("fading_edges", f.Color)
	}
	return errors.Join(errs...)
}

func parseShape(s string) (cartesian.Shape, error) {
	switch s {
	case "", "rect":
		return cartesian.ShapeRect, nil
	case "rounded":
		return cartesian.ShapeRounded, nil
	case "pill":
		return cartesian.ShapePill, nil
	case "ellipse":
		return cartesian.ShapeEllipse, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", s)
	}
}

// nrgba parses a color already checked by validate.
func nrgba(c Color) color.NRGBA {
	v, _ := c.NRGBA()
	return v
}

func (l *Line) component() *cartesian.LineComponent {
	if l == nil {
		return nil
	}
	shape, _ := parseShape(l.Shape)
	return &cartesian.LineComponent{
		Color:     nrgba(l.Color),
		Thickness: unit.Dp(l.Thickness),
		Shape:     shape,
	}
}

func (t *Text) component() *cartesian.TextComponent {
	if t == nil {
		return nil
	}
	c := &cartesian.TextComponent{
		Color:    nrgba(t.Color),
		Size:     unit.Sp(t.Size),
		MaxLines: t.MaxLines,
		Padding:  cartesian.UniformMargins(unit.Dp(t.Padding)),
	}
	if t.Background != "" {
		c.Background = &cartesian.ShapeComponent{Color: nrgba(t.Background), Shape: cartesian.ShapeRounded, CornerRadius: 4}
	}
	return c
}

// merged returns a with its unset fields taken from fallback.
func (a Axis) merged(fallback Axis) Axis {
	if a.Line == nil {
		a.Line = fallback.Line
	}
	if a.Label == nil {
		a.Label = fallback.Label
	}
	if a.LabelRotation == nil {
		a.LabelRotation = fallback.LabelRotation
	}
	if a.Tick == nil {
		a.Tick = fallback.Tick
	}
	if a.TickLength == nil {
		a.TickLength = fallback.TickLength
	}
	if a.Guideline == nil {
		a.Guideline = fallback.Guideline
	}
	if a.Title == nil {
		a.Title = fallback.Title
	}
	if a.Decimals == nil {
		a.Decimals = fallback.Decimals
	}
	if a.Size == nil {
		a.Size = fallback.Size
	}
	return a
}

// AxisStyle returns the axis style for pos, falling back to the default
// block field by field.
func (d *Document) AxisStyle(pos cartesian.AxisPosition) cartesian.AxisStyle {
	a := d.Axes[pos.String()].merged(d.Axes[fallbackAxis])
	s := cartesian.AxisStyle{
		Line:      a.Line.component(),
		Label:     a.Label.component(),
		Tick:      a.Tick.component(),
		Guideline: a.Guideline.component(),
	}
	if a.LabelRotation != nil {
		s.LabelRotation = *a.LabelRotation
	}
	if a.TickLength != nil {
		s.TickLength = unit.Dp(*a.TickLength)
	}
	if a.Title != nil {
		s.Title = *a.Title
		s.TitleComponent = s.Label
	}
	if a.Decimals != nil {
		s.ValueFormatter = cartesian.DecimalFormatter(*a.Decimals)
	}
	if a.Size != nil {
		s.Size = cartesian.ExactSize{Size: unit.Dp(*a.Size)}
	}
	return s
}

// HasAxis reports whether the document styles the axis at pos itself.
func (d *Document) HasAxis(pos cartesian.AxisPosition) bool {
	_, ok := d.Axes[pos.String()]
	return ok
}

// LineSpecs returns one spec per styled line series.
func (d *Document) LineSpecs() []cartesian.LineSpec {
	specs := make([]cartesian.LineSpec, 0, len(d.Lines))
	for i, l := range d.Lines {
		col := PaletteColor(i)
		if l.Color != "" {
			col = nrgba(l.Color)
		}
		spec := cartesian.LineSpec{
			Color:     col,
			Thickness: unit.Dp(l.Thickness),
			DataLabel: l.DataLabel.component(),
		}
		if l.PointSize > 0 {
			pc := col
			if l.PointColor != "" {
				pc = nrgba(l.PointColor)
			}
			spec.Point = &cartesian.ShapeComponent{Color: pc, Shape: cartesian.ShapeEllipse}
			spec.PointSize = unit.Dp(l.PointSize)
		}
		if l.BackgroundTop != "" || l.BackgroundBottom != "" {
			spec.Background = cartesian.VerticalGradientShader{Top: nrgba(l.BackgroundTop), Bottom: nrgba(l.BackgroundBottom)}
		}
		if l.Curvature != nil {
			// Validated by Parse.
			spec.Connector, _ = cartesian.NewCubicConnector(*l.Curvature)
		}
		specs = append(specs, spec)
	}
	return specs
}

// ColumnComponents returns one component per styled column series.
func (d *Document) ColumnComponents() []cartesian.LineComponent {
	cols := make([]cartesian.LineComponent, 0, len(d.Columns))
	for i := range d.Columns {
		c := *d.Columns[i].component()
		if d.Columns[i].Color == "" {
			c.Color = PaletteColor(len(d.Lines) + i)
		}
		cols = append(cols, c)
	}
	return cols
}

// CandleStyles returns the candle styles, starting from the default candles.
func (d *Document) CandleStyles() (bullish, neutral, bearish cartesian.Candle) {
	bullish, neutral, bearish = cartesian.DefaultCandles()
	c := d.Candles
	if c == nil {
		return
	}
	apply := func(candle *cartesian.Candle, col Color) {
		if col != "" {
			v := nrgba(col)
			candle.Body.Color = v
			wick := *candle.TopWick
			wick.Color = v
			candle.TopWick, candle.BottomWick = &wick, &wick
		}
		if c.Width > 0 {
			candle.Body.Thickness = unit.Dp(c.Width)
		}
	}
	apply(&bullish, c.Bullish)
	apply(&neutral, c.Neutral)
	apply(&bearish, c.Bearish)
	return
}

// DefaultMarker returns the styled marker, or nil if the document has none.
func (d *Document) DefaultMarker() *cartesian.DefaultMarker {
	m := d.Marker
	if m == nil {
		return nil
	}
	out := &cartesian.DefaultMarker{
		Label:         m.Label.component(),
		IndicatorSize: unit.Dp(m.IndicatorSize),
		TintIndicator: m.Tint,
		Guideline:     m.Guideline.component(),
	}
	if m.Indicator != "" {
		out.Indicator = &cartesian.ShapeComponent{Color: nrgba(m.Indicator), Shape: cartesian.ShapeEllipse}
	}
	return out
}

// Fading returns the styled fading edges, or nil.
func (d *Document) Fading() *cartesian.FadingEdges {
	f := d.FadingEdges
	if f == nil {
		return nil
	}
	return &cartesian.FadingEdges{
		Color:      nrgba(f.Color),
		StartWidth: unit.Dp(f.Width),
		EndWidth:   unit.Dp(f.Width),
	}
}

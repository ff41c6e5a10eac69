package cartesian

import (
	"fmt"
	"math"
	"strconv"

	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// Axis is one of the chart's four edge axes. Implementations are
// *VerticalAxis and *HorizontalAxis.
type Axis interface {
	Position() AxisPosition
	// Bounds returns the area assigned to the axis by the last measure
	// pass.
	Bounds() Rect
	SetBounds(r Rect)
	// SetRestrictedBounds lists areas (usually other axes) that labels and
	// guidelines must not overlap.
	SetRestrictedBounds(restricted ...Rect)
	UpdateHorizontalDimensions(ctx *MeasureContext, d *HorizontalDimensions)
	UpdateInsets(ctx *MeasureContext, d HorizontalDimensions, insets *Insets)
	UpdateHorizontalInsets(ctx *MeasureContext, freeHeight float32, insets *HorizontalInsets)
	DrawUnderLayers(ctx *DrawContext)
	DrawOverLayers(ctx *DrawContext)
}

// ValueFormatter turns an axis or data label value into text.
type ValueFormatter func(value float64, values ChartValues, pos AxisPosition) string

// DecimalFormatter formats values with at most decimals fractional digits,
// dropping trailing zeros.
func DecimalFormatter(decimals int) ValueFormatter {
	return func(value float64, _ ChartValues, _ AxisPosition) string {
		scale := math.Pow(10, float64(decimals))
		rounded := math.Round(value*scale) / scale
		if rounded == 0 {
			rounded = 0 // no negative zero
		}
		return strconv.FormatFloat(rounded, 'f', -1, 64)
	}
}

// SizeConstraint decides the thickness of an axis across its direction.
// Implementations are AutoSize, ExactSize, FractionSize and TextWidthSize.
type SizeConstraint interface {
	sizeConstraint()
}

// AutoSize measures the axis content and clamps the result. A zero Max means
// unbounded.
type AutoSize struct {
	Min, Max unit.Dp
}

// ExactSize ignores the content.
type ExactSize struct {
	Size unit.Dp
}

// FractionSize is a fraction of the canvas in the axis' cross direction.
type FractionSize struct {
	fraction float32
}

// NewFractionSize validates f, which must lie in (0, 0.5].
func NewFractionSize(f float32) (FractionSize, error) {
	if !(f > 0 && f <= 0.5) {
		return FractionSize{}, fmt.Errorf("axis size fraction must be in (0, 0.5], got %v", f)
	}
	return FractionSize{fraction: f}, nil
}

// MustFractionSize is NewFractionSize that panics on invalid input.
func MustFractionSize(f float32) FractionSize {
	s, err := NewFractionSize(f)
	if err != nil {
		panic(err)
	}
	return s
}

func (f FractionSize) Fraction() float32 { return f.fraction }

// TextWidthSize sizes the axis to fit a label showing Text.
type TextWidthSize struct {
	Text string
}

func (AutoSize) sizeConstraint()      {}
func (ExactSize) sizeConstraint()     {}
func (FractionSize) sizeConstraint()  {}
func (TextWidthSize) sizeConstraint() {}

func (a AutoSize) clamp(ctx *MeasureContext, v float32) float32 {
	v = max(v, ctx.Dp(a.Min))
	if a.Max > 0 {
		v = min(v, ctx.Dp(a.Max))
	}
	return v
}

// AxisStyle holds the visual configuration shared by both axis variants.
// Every component is optional.
type AxisStyle struct {
	Line           *LineComponent
	Label          *TextComponent
	LabelRotation  float32
	ValueFormatter ValueFormatter
	Tick           *LineComponent
	TickLength     unit.Dp
	Guideline      *LineComponent
	Size           SizeConstraint
	Title          string
	TitleComponent *TextComponent
}

// applyDefaults fills unset fields. A FractionSize not built by
// NewFractionSize is rejected.
func (s *AxisStyle) applyDefaults() error {
	if s.ValueFormatter == nil {
		s.ValueFormatter = DecimalFormatter(2)
	}
	if s.Size == nil {
		s.Size = AutoSize{}
	}
	if fs, ok := s.Size.(FractionSize); ok && !(fs.fraction > 0 && fs.fraction <= 0.5) {
		return fmt.Errorf("axis size fraction must be in (0, 0.5], got %v; use NewFractionSize", fs.fraction)
	}
	return nil
}

func (s *AxisStyle) lineThickness(ctx *MeasureContext) float32 {
	return s.Line.ThicknessPx(ctx)
}

func (s *AxisStyle) tickThickness(ctx *MeasureContext) float32 {
	return s.Tick.ThicknessPx(ctx)
}

func (s *AxisStyle) guidelineThickness(ctx *MeasureContext) float32 {
	return s.Guideline.ThicknessPx(ctx)
}

func (s *AxisStyle) tickLength(ctx *MeasureContext) float32 {
	if s.Tick == nil {
		return 0
	}
	return ctx.Dp(s.TickLength)
}

// axisBase holds the measured state shared by both axis variants.
type axisBase struct {
	position AxisPosition
	// ns keys this axis' cached measurements.
	ns         store.Namespace
	bounds     Rect
	restricted []Rect
}

func (a *axisBase) Position() AxisPosition { return a.position }
func (a *axisBase) Bounds() Rect           { return a.bounds }
func (a *axisBase) SetBounds(r Rect)       { a.bounds = r }

func (a *axisBase) SetRestrictedBounds(restricted ...Rect) {
	a.restricted = a.restricted[:0]
	for _, r := range restricted {
		if !r.Empty() {
			a.restricted = append(a.restricted, r)
		}
	}
}

func (a *axisBase) notRestricted(r Rect) bool {
	for _, other := range a.restricted {
		if other.Intersects(r) {
			return false
		}
	}
	return true
}

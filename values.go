package cartesian

import (
	"fmt"
	"math"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// YRange is a resolved vertical domain.
type YRange struct {
	MinY, MaxY float64
}

// Length is MaxY-MinY, or 1 for a degenerate range.
func (r YRange) Length() float64 {
	if l := r.MaxY - r.MinY; l > 0 {
		return l
	}
	return 1
}

// ChartValues is the resolved numeric domain of one chart draw pass. Vertical
// ranges are kept per axis position so that layers bound to different
// vertical axes can use independent scales.
type ChartValues struct {
	MinX, MaxX float64
	// XStep is the x distance between consecutive major entries. It is
	// always positive.
	XStep  float64
	global YRange
	ranges map[AxisPosition]YRange
	Model  *model.ChartModel
}

// YRange returns the range used by layers bound to pos, or the chart-wide
// range for PositionUnset or positions no layer is bound to.
func (v ChartValues) YRange(pos AxisPosition) YRange {
	if r, ok := v.ranges[pos]; ok && pos != PositionUnset {
		return r
	}
	return v.global
}

// XLength is MaxX-MinX.
func (v ChartValues) XLength() float64 {
	return v.MaxX - v.MinX
}

// Steps is the number of x steps between MinX and MaxX.
func (v ChartValues) Steps() float64 {
	return v.XLength() / v.XStep
}

// Empty reports whether the values were resolved without any model.
func (v ChartValues) Empty() bool {
	return v.Model.Empty()
}

// Extras returns the extras of the model the values were resolved for.
func (v ChartValues) Extras() store.ExtraStore {
	if v.Model == nil {
		return store.ExtraStore{}
	}
	return v.Model.Extras()
}

// ChartValuesBuilder accumulates chart values during a measure pass.
type ChartValuesBuilder struct {
	values  ChartValues
	hasX    bool
	hasY    bool
	stepSet bool
}

// NewChartValuesBuilder starts resolving values for m. The x step defaults to
// the model's x-delta GCD.
func NewChartValuesBuilder(m *model.ChartModel) *ChartValuesBuilder {
	b := &ChartValuesBuilder{values: ChartValues{
		Model:  m,
		XStep:  1,
		ranges: make(map[AxisPosition]YRange),
	}}
	if !m.Empty() {
		b.values.XStep = m.XDeltaGCD()
	}
	return b
}

// SetXStep overrides the x step.
func (b *ChartValuesBuilder) SetXStep(step float64) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		panic(fmt.Sprintf("x step must be positive, got %v", step))
	}
	b.values.XStep = step
	b.stepSet = true
}

// TryUpdate widens the resolved values to include the given extremes. NaN
// arguments are ignored. The y extremes widen both the chart-wide range and
// the range of pos.
func (b *ChartValuesBuilder) TryUpdate(minX, maxX, minY, maxY float64, pos AxisPosition) {
	v := &b.values
	if !math.IsNaN(minX) && !math.IsNaN(maxX) {
		if b.hasX {
			v.MinX = min(v.MinX, minX)
			v.MaxX = max(v.MaxX, maxX)
		} else {
			v.MinX, v.MaxX = minX, maxX
			b.hasX = true
		}
	}
	if math.IsNaN(minY) || math.IsNaN(maxY) {
		return
	}
	if b.hasY {
		v.global = YRange{MinY: min(v.global.MinY, minY), MaxY: max(v.global.MaxY, maxY)}
	} else {
		v.global = YRange{MinY: minY, MaxY: maxY}
		b.hasY = true
	}
	if pos == PositionUnset {
		return
	}
	if r, ok := v.ranges[pos]; ok {
		v.ranges[pos] = YRange{MinY: min(r.MinY, minY), MaxY: max(r.MaxY, maxY)}
	} else {
		v.ranges[pos] = YRange{MinY: minY, MaxY: maxY}
	}
}

// Freeze returns the resolved values. Ranges whose maximum fell below their
// minimum are collapsed onto the minimum.
func (b *ChartValuesBuilder) Freeze() ChartValues {
	v := b.values
	v.MaxX = max(v.MaxX, v.MinX)
	v.global.MaxY = max(v.global.MaxY, v.global.MinY)
	ranges := make(map[AxisPosition]YRange, len(v.ranges))
	for pos, r := range v.ranges {
		r.MaxY = max(r.MaxY, r.MinY)
		ranges[pos] = r
	}
	v.ranges = ranges
	if v.XStep <= 0 {
		v.XStep = 1
	}
	return v
}

// AxisValueOverrider adjusts the raw extremes of a layer model before they
// are merged into the chart values. Implementations must be pure.
type AxisValueOverrider interface {
	Override(raw model.Bounds, extras store.ExtraStore) model.Bounds
}

// DefaultOverrider keeps zero within the y range and maps an all-zero range
// to 0..1.
type DefaultOverrider struct{}

func (DefaultOverrider) Override(raw model.Bounds, _ store.ExtraStore) model.Bounds {
	out := raw
	out.MinY = min(raw.MinY, 0)
	if raw.MinY == 0 && raw.MaxY == 0 {
		out.MaxY = 1
	} else {
		out.MaxY = max(raw.MaxY, 0)
	}
	return out
}

// AutoOverrider keeps zero within the y range and rounds the y extremes away
// from zero to two significant digits of the larger magnitude.
type AutoOverrider struct{}

func (AutoOverrider) Override(raw model.Bounds, _ store.ExtraStore) model.Bounds {
	out := raw
	allZero := raw.MinY == 0 && raw.MaxY == 0
	switch {
	case allZero || raw.MinY >= 0:
		out.MinY = 0
	default:
		out.MinY = roundAway(raw.MinY, raw.MaxY)
	}
	switch {
	case allZero:
		out.MaxY = 1
	case raw.MaxY <= 0:
		out.MaxY = 0
	default:
		out.MaxY = roundAway(raw.MaxY, raw.MinY)
	}
	return out
}

func roundAway(v, other float64) float64 {
	abs := math.Abs(v)
	base := math.Pow(10, math.Floor(math.Log10(max(abs, math.Abs(other))))-1)
	sign := 1.0
	if v < 0 {
		sign = -1
	}
	return sign * math.Ceil(abs/base) * base
}

// FixedOverrider replaces the extremes that are set. Unset y extremes fall
// back to DefaultOverrider; the default maximum is computed against the
// fixed minimum.
type FixedOverrider struct {
	MinX, MaxX, MinY, MaxY *float64
}

// Fixed returns a pointer to v, for use in FixedOverrider literals.
func Fixed(v float64) *float64 {
	return &v
}

func (f FixedOverrider) Override(raw model.Bounds, extras store.ExtraStore) model.Bounds {
	def := DefaultOverrider{}.Override(raw, extras)
	out := raw
	if f.MinX != nil {
		out.MinX = *f.MinX
	}
	if f.MaxX != nil {
		out.MaxX = *f.MaxX
	}
	out.MinY = def.MinY
	if f.MinY != nil {
		out.MinY = *f.MinY
	}
	if f.MaxY != nil {
		out.MaxY = *f.MaxY
	} else {
		out.MaxY = DefaultOverrider{}.Override(model.Bounds{MinY: out.MinY, MaxY: raw.MaxY}, extras).MaxY
	}
	return out
}

// AdaptiveOverrider scales the y maximum by YFraction and lowers the y
// minimum by the same amount (never below zero), optionally rounding both to
// integers.
type AdaptiveOverrider struct {
	yFraction float64
	round     bool
}

// NewAdaptiveOverrider validates yFraction, which must be positive.
func NewAdaptiveOverrider(yFraction float64, round bool) (AdaptiveOverrider, error) {
	if !(yFraction > 0) {
		return AdaptiveOverrider{}, fmt.Errorf("adaptive y fraction must be positive, got %v", yFraction)
	}
	return AdaptiveOverrider{yFraction: yFraction, round: round}, nil
}

func (a AdaptiveOverrider) maybeRound(v float64) float64 {
	if a.round {
		return math.Round(v)
	}
	return v
}

func (a AdaptiveOverrider) Override(raw model.Bounds, _ store.ExtraStore) model.Bounds {
	if a.yFraction <= 0 {
		panic("AdaptiveOverrider must be built with NewAdaptiveOverrider")
	}
	out := raw
	if raw.MinY == 0 && raw.MaxY == 0 {
		out.MaxY = 1
	} else {
		out.MaxY = a.maybeRound(a.yFraction * raw.MaxY)
	}
	difference := math.Abs(out.MaxY - raw.MaxY)
	out.MinY = max(a.maybeRound(raw.MinY-difference), 0)
	return out
}

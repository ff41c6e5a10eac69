package cartesian

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// VerticalItemPlacer decides which y values a vertical axis labels, ticks
// and draws guidelines for.
type VerticalItemPlacer interface {
	// ShiftTopLines reports whether the topmost line is moved up by half
	// its thickness so that it does not overlap the layer bounds.
	ShiftTopLines(ctx *MeasureContext) bool
	// LabelValues returns the labeled values for drawing.
	LabelValues(ctx *DrawContext, axisHeight, maxLabelHeight float32, pos AxisPosition) []float64
	// WidthMeasurementLabelValues returns the values whose labels determine
	// the axis width. They must match LabelValues for the same inputs.
	WidthMeasurementLabelValues(ctx *MeasureContext, axisHeight, maxLabelHeight float32, pos AxisPosition) []float64
	// HeightMeasurementLabelValues returns the values whose labels determine
	// the maximum label height.
	HeightMeasurementLabelValues(ctx *MeasureContext, pos AxisPosition) []float64
	// LineValues returns the values of ticks and guidelines, or nil to use
	// the label values.
	LineValues(ctx *DrawContext, axisHeight, maxLabelHeight float32, pos AxisPosition) []float64
	TopInset(ctx *MeasureContext, labelPosition VerticalPosition, maxLabelHeight, maxLineThickness float32) float32
	BottomInset(ctx *MeasureContext, labelPosition VerticalPosition, maxLabelHeight, maxLineThickness float32) float32
}

var (
	errNonPositiveStep  = errors.New("vertical item placer step must be positive")
	errNonPositiveCount = errors.New("vertical item placer count must be positive")
)

// NewStepItemPlacer returns a placer labeling every multiple of step (widened
// when labels would not fit).
func NewStepItemPlacer(step float64, shiftTopLines bool) (VerticalItemPlacer, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w, got %v", errNonPositiveStep, step)
	}
	return &verticalItemPlacer{
		mode:          stepMode{step: func(store.ExtraStore) (float64, bool) { return step, true }},
		shiftTopLines: shiftTopLines,
	}, nil
}

// AutoStepItemPlacer returns a step placer whose step is derived from the y
// range: a power of ten one order of magnitude below the maximum.
func AutoStepItemPlacer(shiftTopLines bool) VerticalItemPlacer {
	return &verticalItemPlacer{
		mode:          stepMode{step: func(store.ExtraStore) (float64, bool) { return 0, false }},
		shiftTopLines: shiftTopLines,
	}
}

// DynamicStepItemPlacer returns a step placer whose step is read from the
// model's extras on every pass; returning false selects the automatic step.
// A non-positive step returned with true is a programming error and panics.
func DynamicStepItemPlacer(step func(store.ExtraStore) (float64, bool), shiftTopLines bool) VerticalItemPlacer {
	return &verticalItemPlacer{mode: stepMode{step: step}, shiftTopLines: shiftTopLines}
}

// NewCountItemPlacer returns a placer labeling at most count evenly spaced
// values.
func NewCountItemPlacer(count int, shiftTopLines bool) (VerticalItemPlacer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w, got %d", errNonPositiveCount, count)
	}
	return &verticalItemPlacer{
		mode:          countMode{count: func(store.ExtraStore) (int, bool) { return count, true }},
		shiftTopLines: shiftTopLines,
	}, nil
}

// UnboundedCountItemPlacer returns a count placer that labels as many evenly
// spaced values as fit.
func UnboundedCountItemPlacer(shiftTopLines bool) VerticalItemPlacer {
	return &verticalItemPlacer{
		mode:          countMode{count: func(store.ExtraStore) (int, bool) { return 0, false }},
		shiftTopLines: shiftTopLines,
	}
}

// DynamicCountItemPlacer returns a count placer whose count is read from the
// model's extras on every pass; returning false means unbounded. A
// non-positive count returned with true is a programming error and panics.
func DynamicCountItemPlacer(count func(store.ExtraStore) (int, bool), shiftTopLines bool) VerticalItemPlacer {
	return &verticalItemPlacer{mode: countMode{count: count}, shiftTopLines: shiftTopLines}
}

type placerMode interface {
	simple(ctx *MeasureContext, axisHeight, maxLabelHeight float32, r YRange) []float64
	mixed(ctx *MeasureContext, axisHeight, maxLabelHeight float32, r YRange) []float64
	insetsRequired(ctx *MeasureContext) bool
}

type verticalItemPlacer struct {
	mode          placerMode
	shiftTopLines bool
}

func (p *verticalItemPlacer) ShiftTopLines(*MeasureContext) bool {
	return p.shiftTopLines
}

func (p *verticalItemPlacer) LabelValues(ctx *DrawContext, axisHeight, maxLabelHeight float32, pos AxisPosition) []float64 {
	return p.WidthMeasurementLabelValues(ctx.MeasureContext, axisHeight, maxLabelHeight, pos)
}

func (p *verticalItemPlacer) WidthMeasurementLabelValues(ctx *MeasureContext, axisHeight, maxLabelHeight float32, pos AxisPosition) []float64 {
	r := ctx.Values.YRange(pos)
	var values []float64
	if r.MinY*r.MaxY >= 0 {
		values = p.mode.simple(ctx, axisHeight, maxLabelHeight, r)
	} else {
		values = p.mode.mixed(ctx, axisHeight, maxLabelHeight, r)
	}
	slices.Sort(values)
	return values
}

func (p *verticalItemPlacer) HeightMeasurementLabelValues(ctx *MeasureContext, pos AxisPosition) []float64 {
	r := ctx.Values.YRange(pos)
	return []float64{r.MinY, (r.MinY + r.MaxY) / 2, r.MaxY}
}

func (p *verticalItemPlacer) LineValues(*DrawContext, float32, float32, AxisPosition) []float64 {
	return nil
}

func (p *verticalItemPlacer) TopInset(ctx *MeasureContext, labelPosition VerticalPosition, maxLabelHeight, maxLineThickness float32) float32 {
	shift := -maxLineThickness
	if p.shiftTopLines {
		shift = maxLineThickness
	}
	switch {
	case !p.mode.insetsRequired(ctx):
		return 0
	case labelPosition == VerticalTop:
		return maxLabelHeight + shift/2
	case labelPosition == VerticalCenter:
		return (max(maxLabelHeight, maxLineThickness) + shift) / 2
	case p.shiftTopLines:
		return maxLineThickness
	default:
		return 0
	}
}

func (p *verticalItemPlacer) BottomInset(ctx *MeasureContext, labelPosition VerticalPosition, maxLabelHeight, maxLineThickness float32) float32 {
	switch {
	case !p.mode.insetsRequired(ctx):
		return 0
	case labelPosition == VerticalTop:
		return maxLineThickness
	case labelPosition == VerticalCenter:
		return (max(maxLabelHeight, maxLineThickness) + maxLineThickness) / 2
	default:
		return maxLabelHeight + maxLineThickness/2
	}
}

var stepNamespace = store.NewNamespace("vertical step placer")

type stepMode struct {
	step func(store.ExtraStore) (float64, bool)
}

func (m stepMode) requested(ctx *MeasureContext) (float64, bool) {
	step, ok := m.step(ctx.Values.Extras())
	if ok && !(step > 0) {
		panic(fmt.Sprintf("%v, got %v", errNonPositiveStep, step))
	}
	return step, ok
}

// divisors returns the divisors of n below n, in ascending order.
func divisors(n int) []int {
	if n <= 1 {
		return nil
	}
	var low, high []int
	for d := 1; d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		low = append(low, d)
		if q := n / d; q != d && q != n {
			high = append(high, q)
		}
	}
	slices.Reverse(high)
	return append(low, high...)
}

// partial returns the values above minY up to maxY, multiplied by
// multiplier. Values fall on multiples of the requested step, widened to the
// smallest step that leaves maxLabelHeight per label.
func (m stepMode) partial(ctx *MeasureContext, minY, maxY float64, freeHeight, maxLabelHeight float32, multiplier float64) []float64 {
	requested, ok := m.requested(ctx)
	return store.GetOrSet(ctx.Cache, stepNamespace, func() []float64 {
		length := maxY - minY
		if !(length > 0) {
			return nil
		}
		step := requested
		if !ok {
			step = math.Pow(10, math.Floor(math.Log10(maxY))-1)
		}
		if maxLabelHeight != 0 {
			minStep := length / math.Floor(float64(freeHeight/maxLabelHeight))
			widened := math.Ceil(minStep/step) * step
			if q := length / step; q == math.Floor(q) && q < math.MaxInt32 {
				for _, d := range divisors(int(q)) {
					if float64(d)*step >= minStep {
						widened = float64(d) * step
						break
					}
				}
			}
			step = widened
		}
		if !(step > 0) || math.IsInf(step, 0) || math.IsNaN(step) {
			return nil
		}
		n := int(length / step)
		values := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			values = append(values, multiplier*(minY+float64(i+1)*step))
		}
		return values
	}, requested, ok, maxY, minY, freeHeight, maxLabelHeight, multiplier)
}

func (m stepMode) simple(ctx *MeasureContext, axisHeight, maxLabelHeight float32, r YRange) []float64 {
	if r.MaxY > 0 {
		values := slices.Clone(m.partial(ctx, r.MinY, r.MaxY, axisHeight, maxLabelHeight, 1))
		return append(values, r.MinY)
	}
	values := slices.Clone(m.partial(ctx, math.Abs(r.MaxY), math.Abs(r.MinY), axisHeight, maxLabelHeight, -1))
	return append(values, r.MaxY)
}

func (m stepMode) mixed(ctx *MeasureContext, axisHeight, maxLabelHeight float32, r YRange) []float64 {
	length := r.Length()
	top := m.partial(ctx, 0, r.MaxY, float32(r.MaxY/length)*axisHeight, maxLabelHeight, 1)
	bottom := m.partial(ctx, 0, math.Abs(r.MinY), float32(-r.MinY/length)*axisHeight, maxLabelHeight, -1)
	values := make([]float64, 0, len(top)+len(bottom)+1)
	values = append(values, top...)
	values = append(values, bottom...)
	return append(values, 0)
}

func (m stepMode) insetsRequired(*MeasureContext) bool {
	return true
}

type countMode struct {
	count func(store.ExtraStore) (int, bool)
}

func (m countMode) requested(ctx *MeasureContext) (int, bool) {
	count, ok := m.count(ctx.Values.Extras())
	if ok && count <= 0 {
		panic(fmt.Sprintf("%v, got %d", errNonPositiveCount, count))
	}
	return count, ok
}

func (m countMode) simple(ctx *MeasureContext, axisHeight, maxLabelHeight float32, r YRange) []float64 {
	count, bounded := m.requested(ctx)
	values := []float64{r.MinY}
	if bounded && count == 1 {
		return values
	}
	var extra int
	switch {
	case maxLabelHeight != 0:
		extra = int(axisHeight / maxLabelHeight)
		if bounded {
			extra = min(extra, count-1)
		}
	case bounded:
		extra = count - 1
	default:
		return append(values, r.MaxY)
	}
	if extra <= 0 {
		return values
	}
	step := r.Length() / float64(extra)
	for i := 0; i < extra; i++ {
		values = append(values, r.MinY+float64(i+1)*step)
	}
	return values
}

func (m countMode) mixed(ctx *MeasureContext, axisHeight, maxLabelHeight float32, r YRange) []float64 {
	count, bounded := m.requested(ctx)
	values := []float64{0}
	if bounded && count == 1 {
		return values
	}
	if maxLabelHeight == 0 {
		if !bounded {
			return append(values, r.MinY, r.MaxY)
		}
		return append(values, splitCount(count-1, r)...)
	}
	length := float32(r.Length())
	topHeight := float32(r.MaxY) / length * axisHeight
	bottomHeight := float32(-r.MinY) / length * axisHeight
	topByHeight := topHeight / maxLabelHeight
	bottomByHeight := bottomHeight / maxLabelHeight
	topLimit, bottomLimit := topByHeight, bottomByHeight
	if bounded {
		topLimit = min(topLimit, float32(count-1)*topHeight/axisHeight)
		bottomLimit = min(bottomLimit, float32(count-1)*bottomHeight/axisHeight)
	}
	topCount := int(topLimit)
	bottomCount := int(bottomLimit)
	if !bounded || topCount+bottomCount+1 < count {
		topNotDenser := float32(topCount)/topHeight <= float32(bottomCount)/bottomHeight
		topFillable := topByHeight-float32(topCount) >= 1
		bottomFillable := bottomByHeight-float32(bottomCount) >= 1
		if topFillable && (topNotDenser || !bottomFillable) {
			topCount++
		} else if bottomFillable {
			bottomCount++
		}
	}
	if topCount != 0 {
		step := r.MaxY / float64(topCount)
		for i := 0; i < topCount; i++ {
			values = append(values, float64(i+1)*step)
		}
	}
	if bottomCount != 0 {
		step := r.MinY / float64(bottomCount)
		for i := 0; i < bottomCount; i++ {
			values = append(values, float64(i+1)*step)
		}
	}
	return values
}

// splitCount spreads n values over both sides of zero in proportion to each
// side's share of r. A value left over by rounding goes to the side that is
// not denser, the top when both are equal.
func splitCount(n int, r YRange) []float64 {
	length := r.Length()
	topShare, bottomShare := r.MaxY/length, -r.MinY/length
	topCount := int(float64(n) * topShare)
	bottomCount := int(float64(n) * bottomShare)
	for topCount+bottomCount < n {
		if float64(topCount)/topShare <= float64(bottomCount)/bottomShare {
			topCount++
		} else {
			bottomCount++
		}
	}
	values := make([]float64, 0, n)
	for i := 0; i < topCount; i++ {
		values = append(values, float64(i+1)*r.MaxY/float64(topCount))
	}
	for i := 0; i < bottomCount; i++ {
		values = append(values, float64(i+1)*r.MinY/float64(bottomCount))
	}
	return values
}

func (m countMode) insetsRequired(ctx *MeasureContext) bool {
	m.requested(ctx)
	return true
}

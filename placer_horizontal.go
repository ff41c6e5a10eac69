package cartesian

import (
	"errors"
	"fmt"
	"math"
)

// HorizontalItemPlacer decides which x values a horizontal axis labels,
// ticks and draws guidelines for.
type HorizontalItemPlacer interface {
	// ShiftExtremeTicks reports whether the ticks at the edges of the x
	// range are moved outward by half their thickness.
	ShiftExtremeTicks(ctx *MeasureContext) bool
	// AddExtremeLabelPadding reports whether the full-width layout reserves
	// room for half of the first and last labels.
	AddExtremeLabelPadding(ctx *MeasureContext) bool
	LabelValues(ctx *DrawContext, visibleMinX, visibleMaxX float64, maxLabelWidth float32) []float64
	// MeasurementLabelValues returns the values whose labels determine the
	// axis height.
	MeasurementLabelValues(ctx *MeasureContext, d HorizontalDimensions) []float64
	// LineValues returns the values of ticks and guidelines, or nil to use
	// the label values.
	LineValues(ctx *DrawContext, visibleMinX, visibleMaxX float64) []float64
	StartInset(ctx *MeasureContext, d HorizontalDimensions, tickThickness float32) float32
	EndInset(ctx *MeasureContext, d HorizontalDimensions, tickThickness float32) float32
}

var errInvalidSpacing = errors.New("horizontal item placer spacing must be positive")

// labelOverflow is the number of labels placed beyond each visible edge so
// that partially visible labels are drawn while scrolling.
const labelOverflow = 1

// measurementLimit caps the number of labels measured for the axis height.
const measurementLimit = 64

type alignedPlacer struct {
	spacing                int
	offset                 int
	shiftExtremeTicks      bool
	addExtremeLabelPadding bool
}

// NewHorizontalItemPlacer returns a placer labeling every spacing-th x step,
// starting offset steps after the minimum x. Spacing is widened at draw time
// when labels would overlap.
func NewHorizontalItemPlacer(spacing, offset int, shiftExtremeTicks, addExtremeLabelPadding bool) (HorizontalItemPlacer, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("%w, got %d", errInvalidSpacing, spacing)
	}
	if offset < 0 {
		return nil, fmt.Errorf("horizontal item placer offset must not be negative, got %d", offset)
	}
	return &alignedPlacer{
		spacing:                spacing,
		offset:                 offset,
		shiftExtremeTicks:      shiftExtremeTicks,
		addExtremeLabelPadding: addExtremeLabelPadding,
	}, nil
}

// DefaultHorizontalItemPlacer labels every x step and shifts the extreme
// ticks.
func DefaultHorizontalItemPlacer() HorizontalItemPlacer {
	return &alignedPlacer{spacing: 1, shiftExtremeTicks: true, addExtremeLabelPadding: true}
}

func (p *alignedPlacer) ShiftExtremeTicks(*MeasureContext) bool     { return p.shiftExtremeTicks }
func (p *alignedPlacer) AddExtremeLabelPadding(*MeasureContext) bool { return p.addExtremeLabelPadding }

// stepsFromMin returns the number of x steps between the minimum x and x.
func stepsFromMin(v ChartValues, x float64) float64 {
	return (x - v.MinX) / v.XStep
}

func (p *alignedPlacer) LabelValues(ctx *DrawContext, visibleMinX, visibleMaxX float64, maxLabelWidth float32) []float64 {
	v := ctx.Values
	spacing := p.spacing
	if xs := ctx.Dimensions.XSpacing * float32(p.spacing); xs > 0 && maxLabelWidth > xs {
		spacing *= int(math.Ceil(float64(maxLabelWidth / xs)))
	}
	first := stepsFromMin(v, visibleMinX) - float64(p.offset)
	firstIndex := int(math.Ceil(first/float64(spacing)))*spacing + p.offset - labelOverflow*spacing
	var values []float64
	for i := max(firstIndex, p.offset); ; i += spacing {
		x := v.MinX + float64(i)*v.XStep
		if x > v.MaxX+v.XStep*1e-6 || x > visibleMaxX+float64(labelOverflow*spacing)*v.XStep {
			break
		}
		values = append(values, x)
	}
	return values
}

func (p *alignedPlacer) MeasurementLabelValues(ctx *MeasureContext, d HorizontalDimensions) []float64 {
	v := ctx.Values
	steps := int(math.Floor(v.Steps() + 1e-6))
	if steps < p.offset {
		return nil
	}
	count := (steps-p.offset)/p.spacing + 1
	stride := max(1, count/measurementLimit)
	values := make([]float64, 0, min(count, measurementLimit+1))
	for i := 0; i < count; i += stride {
		values = append(values, v.MinX+float64(p.offset+i*p.spacing)*v.XStep)
	}
	if last := v.MinX + float64(p.offset+(count-1)*p.spacing)*v.XStep; values[len(values)-1] != last {
		values = append(values, last)
	}
	return values
}

func (p *alignedPlacer) LineValues(ctx *DrawContext, visibleMinX, visibleMaxX float64) []float64 {
	if ctx.Layout.Mode != LayoutSegmented {
		return nil
	}
	v := ctx.Values
	half := v.XStep / 2
	first := int(math.Floor(stepsFromMin(v, visibleMinX-half)))
	first = max(first-first%p.spacing, 0)
	var values []float64
	for i := first; ; i += p.spacing {
		x := v.MinX - half + float64(i)*v.XStep
		if x > v.MaxX+half+v.XStep*1e-6 || x > visibleMaxX+v.XStep {
			break
		}
		values = append(values, x)
	}
	// The closing boundary after the last step.
	if last := v.MaxX + half; len(values) > 0 && values[len(values)-1] < last-v.XStep*1e-6 && last <= visibleMaxX+v.XStep {
		values = append(values, last)
	}
	return values
}

func (p *alignedPlacer) tickSpace(tickThickness float32) float32 {
	if p.shiftExtremeTicks {
		return tickThickness
	}
	return tickThickness / 2
}

func (p *alignedPlacer) StartInset(ctx *MeasureContext, d HorizontalDimensions, tickThickness float32) float32 {
	space := p.tickSpace(tickThickness)
	if ctx.Layout.Mode == LayoutSegmented {
		return space
	}
	return max(space-d.UnscalableStartPadding, 0)
}

func (p *alignedPlacer) EndInset(ctx *MeasureContext, d HorizontalDimensions, tickThickness float32) float32 {
	space := p.tickSpace(tickThickness)
	if ctx.Layout.Mode == LayoutSegmented {
		return space
	}
	return max(space-d.UnscalableEndPadding, 0)
}

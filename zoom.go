package cartesian

// Zoom is a zoom factor policy, resolved against the content currently
// measured.
type Zoom interface {
	// Value returns the factor for base (unzoomed) dimensions d laid out
	// inside bounds.
	Value(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) float32
}

type zoomFunc func(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) float32

func (z zoomFunc) Value(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) float32 {
	return z(ctx, d, bounds)
}

// ZoomStatic is a fixed factor.
func ZoomStatic(factor float32) Zoom {
	return zoomFunc(func(*MeasureContext, HorizontalDimensions, Rect) float32 { return factor })
}

// ZoomContent fits the whole content into the layer bounds. Unscalable
// padding keeps its size.
func ZoomContent() Zoom {
	return zoomFunc(func(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) float32 {
		scalable := d.XSpacing*float32(ctx.Values.Steps()) + d.ScalableStartPadding + d.ScalableEndPadding
		if scalable <= 0 {
			return 1
		}
		return max(bounds.Width()-d.UnscalableStartPadding-d.UnscalableEndPadding, 0) / scalable
	})
}

// ZoomX shows an x distance of length across the layer bounds.
func ZoomX(length float64) Zoom {
	return zoomFunc(func(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) float32 {
		width := d.XSpacing * float32(length/ctx.Values.XStep)
		if width <= 0 {
			return 1
		}
		return bounds.Width() / width
	})
}

// ZoomMin is the smallest of the given factors.
func ZoomMin(first Zoom, rest ...Zoom) Zoom {
	return zoomFunc(func(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) float32 {
		v := first.Value(ctx, d, bounds)
		for _, z := range rest {
			v = min(v, z.Value(ctx, d, bounds))
		}
		return v
	})
}

// ZoomMax is the largest of the given factors.
func ZoomMax(first Zoom, rest ...Zoom) Zoom {
	return zoomFunc(func(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) float32 {
		v := first.Value(ctx, d, bounds)
		for _, z := range rest {
			v = max(v, z.Value(ctx, d, bounds))
		}
		return v
	})
}

// ZoomState is the zoom factor of one chart, kept within [Min, Max].
type ZoomState struct {
	Enabled bool
	// Initial is used until the user zooms. It defaults to ZoomContent.
	Initial Zoom
	// Min defaults to the smaller of 1 and ZoomContent.
	Min Zoom
	// Max defaults to the larger of 10 and ZoomContent.
	Max Zoom

	value      float32
	minValue   float32
	maxValue   float32
	overridden bool
}

// NewZoomState returns a zoom state with the default policies.
func NewZoomState(enabled bool) *ZoomState {
	return &ZoomState{
		Enabled: enabled,
		Initial: ZoomContent(),
		Min:     ZoomMin(ZoomStatic(1), ZoomContent()),
		Max:     ZoomMax(ZoomStatic(10), ZoomContent()),
		value:   1,
	}
}

// Value returns the current factor.
func (z *ZoomState) Value() float32 {
	if z.value == 0 {
		return 1
	}
	return z.value
}

// Update resolves the policies against the base dimensions d.
func (z *ZoomState) Update(ctx *MeasureContext, d HorizontalDimensions, bounds Rect) {
	z.minValue, z.maxValue = 0, float32(1e9)
	if z.Min != nil {
		z.minValue = z.Min.Value(ctx, d, bounds)
	}
	if z.Max != nil {
		z.maxValue = max(z.Max.Value(ctx, d, bounds), z.minValue)
	}
	if !z.overridden && z.Initial != nil {
		z.value = z.Initial.Value(ctx, d, bounds)
	}
	z.value = clamp(z.Value(), z.minValue, z.maxValue)
}

// Zoom multiplies the factor, keeping the content under the zoom centroid
// in place. anchor is the centroid's distance from the start edge of the
// layer bounds and unscalableStart the unscalable start padding, which does
// not move. It returns the scroll delta that keeps the content in place.
func (z *ZoomState) Zoom(factor, anchor, scroll, unscalableStart float32) float32 {
	old := z.Value()
	next := clamp(old*factor, z.minValue, max(z.maxValue, z.minValue))
	if next == old {
		return 0
	}
	z.overridden = true
	z.value = next
	axis := scroll + anchor - unscalableStart
	return axis*(next/old) - axis
}

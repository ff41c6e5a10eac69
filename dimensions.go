package cartesian

import "gioui.org/unit"

// HorizontalDimensions describe how x values map onto the canvas. Scalable
// padding grows and shrinks with the zoom factor; unscalable padding (for
// example, half of a point's size) keeps its pixel size.
type HorizontalDimensions struct {
	XSpacing               float32
	ScalableStartPadding   float32
	ScalableEndPadding     float32
	UnscalableStartPadding float32
	UnscalableEndPadding   float32
}

func (d HorizontalDimensions) StartPadding() float32 {
	return d.ScalableStartPadding + d.UnscalableStartPadding
}

func (d HorizontalDimensions) EndPadding() float32 {
	return d.ScalableEndPadding + d.UnscalableEndPadding
}

// EnsureAtLeast raises every field to at least the corresponding field of o.
func (d *HorizontalDimensions) EnsureAtLeast(o HorizontalDimensions) {
	d.XSpacing = max(d.XSpacing, o.XSpacing)
	d.ScalableStartPadding = max(d.ScalableStartPadding, o.ScalableStartPadding)
	d.ScalableEndPadding = max(d.ScalableEndPadding, o.ScalableEndPadding)
	d.UnscalableStartPadding = max(d.UnscalableStartPadding, o.UnscalableStartPadding)
	d.UnscalableEndPadding = max(d.UnscalableEndPadding, o.UnscalableEndPadding)
}

// EnsureSegmented raises the spacing to at least xSpacing and the scalable
// paddings to half of the resulting spacing.
func (d *HorizontalDimensions) EnsureSegmented(xSpacing float32) {
	d.XSpacing = max(d.XSpacing, xSpacing)
	d.ScalableStartPadding = max(d.ScalableStartPadding, d.XSpacing/2)
	d.ScalableEndPadding = max(d.ScalableEndPadding, d.XSpacing/2)
}

// Scaled applies a zoom factor to the spacing and the scalable paddings.
func (d HorizontalDimensions) Scaled(factor float32) HorizontalDimensions {
	d.XSpacing *= factor
	d.ScalableStartPadding *= factor
	d.ScalableEndPadding *= factor
	return d
}

// ContentWidth is the width of the whole chart content at these dimensions.
func (d HorizontalDimensions) ContentWidth(v ChartValues) float32 {
	return d.XSpacing*float32(v.Steps()) + d.StartPadding() + d.EndPadding()
}

// LayoutMode selects how x steps are distributed horizontally.
type LayoutMode uint8

const (
	// LayoutSegmented gives every x step an equal segment, with half a
	// segment of padding at each end.
	LayoutSegmented LayoutMode = iota
	// LayoutFullWidth lets the first and last entries sit at the plot edges,
	// plus the configured padding.
	LayoutFullWidth
)

// HorizontalLayout configures the horizontal layout of a chart.
type HorizontalLayout struct {
	Mode                   LayoutMode
	ScalableStartPadding   unit.Dp
	ScalableEndPadding     unit.Dp
	UnscalableStartPadding unit.Dp
	UnscalableEndPadding   unit.Dp
}

// Segmented returns the segmented layout.
func Segmented() HorizontalLayout {
	return HorizontalLayout{Mode: LayoutSegmented}
}

// FullWidth returns the full-width layout with the given paddings.
func FullWidth(scalableStart, scalableEnd, unscalableStart, unscalableEnd unit.Dp) HorizontalLayout {
	return HorizontalLayout{
		Mode:                   LayoutFullWidth,
		ScalableStartPadding:   scalableStart,
		ScalableEndPadding:     scalableEnd,
		UnscalableStartPadding: unscalableStart,
		UnscalableEndPadding:   unscalableEnd,
	}
}

// ensureLayerDimensions applies the layout's rules to a layer that needs
// xSpacing pixels per step and extraUnscalable pixels beyond the extreme
// entries (for example, half a point's width).
func (ctx *MeasureContext) ensureLayerDimensions(d *HorizontalDimensions, xSpacing, extraUnscalable float32) {
	switch ctx.Layout.Mode {
	case LayoutSegmented:
		d.EnsureSegmented(xSpacing)
	case LayoutFullWidth:
		d.EnsureAtLeast(HorizontalDimensions{
			XSpacing:               xSpacing,
			ScalableStartPadding:   ctx.Dp(ctx.Layout.ScalableStartPadding),
			ScalableEndPadding:     ctx.Dp(ctx.Layout.ScalableEndPadding),
			UnscalableStartPadding: ctx.Dp(ctx.Layout.UnscalableStartPadding) + extraUnscalable,
			UnscalableEndPadding:   ctx.Dp(ctx.Layout.UnscalableEndPadding) + extraUnscalable,
		})
	default:
		panic("unexpected horizontal layout mode")
	}
}

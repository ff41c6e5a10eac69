package cartesian

import (
	"fmt"
	"sort"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

// Layer renders one layer model inside the layer bounds. The chart pairs its
// nth layer with the nth layer model of the chart model.
type Layer interface {
	Transformer
	// Accepts reports whether the layer can render m.
	Accepts(m model.LayerModel) bool
	// Axis is the vertical axis position whose y range the layer uses, or
	// PositionUnset for the chart-wide range.
	Axis() AxisPosition
	UpdateChartValues(b *ChartValuesBuilder, m model.LayerModel)
	UpdateHorizontalDimensions(ctx *MeasureContext, d *HorizontalDimensions, m model.LayerModel)
	UpdateInsets(ctx *MeasureContext, d HorizontalDimensions, insets *Insets, m model.LayerModel)
	// Draw renders m and records the layer's marker targets.
	Draw(ctx *DrawContext, m model.LayerModel, targets *MarkerTargets)
}

func checkLayerAxis(pos AxisPosition) error {
	switch pos {
	case PositionUnset, PositionStart, PositionEnd:
		return nil
	default:
		return fmt.Errorf("layers can only be bound to vertical axes, not %s", pos)
	}
}

func overriderOrDefault(o AxisValueOverrider) AxisValueOverrider {
	if o == nil {
		return DefaultOverrider{}
	}
	return o
}

// updateValues feeds bounds, adjusted by o, into b.
func updateValues(b *ChartValuesBuilder, o AxisValueOverrider, raw model.Bounds, m model.LayerModel, pos AxisPosition) {
	bounds := o.Override(raw, m.Extras())
	b.TryUpdate(bounds.MinX, bounds.MaxX, bounds.MinY, bounds.MaxY, pos)
}

// visibleIndices returns the half-open index range of the n entries whose x
// (read through x) falls within [minX, maxX], widened by one entry on each
// side.
func visibleIndices(n int, x func(int) float64, minX, maxX float64) (int, int) {
	start := sort.Search(n, func(i int) bool { return x(i) >= minX })
	end := sort.Search(n, func(i int) bool { return x(i) > maxX })
	return max(start-1, 0), min(end+1, n)
}

// pointWalker visits the entries of one series that are at least partially
// visible, with the canvas x of their neighbors.
type pointWalker struct {
	ctx *DrawContext
	n   int
	x   func(int) float64
}

func (w pointWalker) walk(visit func(i int, x float32, prev, next *float32)) {
	ctx := w.ctx
	if w.n == 0 {
		return
	}
	minX, maxX := ctx.VisibleXRange()
	from, to := visibleIndices(w.n, w.x, minX, maxX)
	boundsStart := ctx.LayerBounds.Start(ctx.LTR)
	boundsEnd := ctx.LayerBounds.End(ctx.LTR)
	before := func(x float32) bool {
		if ctx.LTR {
			return x < boundsStart
		}
		return x > boundsStart
	}
	after := func(x float32) bool {
		if ctx.LTR {
			return x > boundsEnd
		}
		return x < boundsEnd
	}
	var prev *float32
	for i := from; i < to; i++ {
		x := ctx.CanvasX(w.x(i))
		var next *float32
		if i+1 < w.n {
			nx := ctx.CanvasX(w.x(i + 1))
			next = &nx
		}
		if next != nil && before(x) && before(*next) {
			prev = &x
			continue
		}
		visit(i, x, prev, next)
		if after(x) {
			return
		}
		cur := x
		prev = &cur
	}
}

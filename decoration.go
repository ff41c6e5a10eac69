package cartesian

// Decoration annotates the chart independently of any layer.
type Decoration interface {
	DrawUnderLayers(ctx *DrawContext)
	DrawOverLayers(ctx *DrawContext)
}

// HorizontalLine marks a y value across the layer bounds, such as a
// threshold.
type HorizontalLine struct {
	Y    float64
	Line *LineComponent
	// Label is drawn at the end of the line, above it.
	Label          string
	LabelComponent *TextComponent
	// Axis selects the y range the value is resolved against.
	Axis AxisPosition
	// OverLayers draws the decoration over the layers instead of under
	// them.
	OverLayers bool
}

func (h *HorizontalLine) draw(ctx *DrawContext) {
	lb := ctx.LayerBounds
	y := ctx.CanvasY(h.Y, h.Axis)
	if y < lb.Top-1 || y > lb.Bottom+1 {
		return
	}
	h.Line.DrawHorizontal(ctx, lb.Left, lb.Right, y)
	if h.Label == "" {
		return
	}
	half := h.Line.ThicknessPx(ctx.MeasureContext) / 2
	h.LabelComponent.Draw(ctx, h.Label, lb.End(ctx.LTR), y-half, HorizontalStart, VerticalTop, 0, lb.Width())
}

func (h *HorizontalLine) DrawUnderLayers(ctx *DrawContext) {
	if !h.OverLayers {
		h.draw(ctx)
	}
}

func (h *HorizontalLine) DrawOverLayers(ctx *DrawContext) {
	if h.OverLayers {
		h.draw(ctx)
	}
}

// HorizontalBox shades the band between two y values.
type HorizontalBox struct {
	MinY, MaxY     float64
	Box            *ShapeComponent
	Label          string
	LabelComponent *TextComponent
	Axis           AxisPosition
	OverLayers     bool
}

func (h *HorizontalBox) draw(ctx *DrawContext) {
	lb := ctx.LayerBounds
	top := clamp(ctx.CanvasY(max(h.MinY, h.MaxY), h.Axis), lb.Top, lb.Bottom)
	bottom := clamp(ctx.CanvasY(min(h.MinY, h.MaxY), h.Axis), lb.Top, lb.Bottom)
	if bottom <= top {
		return
	}
	h.Box.Draw(ctx, Rect{Left: lb.Left, Top: top, Right: lb.Right, Bottom: bottom})
	if h.Label != "" {
		h.LabelComponent.Draw(ctx, h.Label, lb.End(ctx.LTR), top, HorizontalStart, VerticalBottom, 0, lb.Width())
	}
}

func (h *HorizontalBox) DrawUnderLayers(ctx *DrawContext) {
	if !h.OverLayers {
		h.draw(ctx)
	}
}

func (h *HorizontalBox) DrawOverLayers(ctx *DrawContext) {
	if h.OverLayers {
		h.draw(ctx)
	}
}

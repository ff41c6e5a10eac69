package cartesian

import (
	"image/color"

	"gioui.org/f32"
	"gioui.org/unit"
)

// Margins are edge distances in Dp.
type Margins struct {
	Start, Top, End, Bottom unit.Dp
}

// UniformMargins returns margins of d on every edge.
func UniformMargins(d unit.Dp) Margins {
	return Margins{Start: d, Top: d, End: d, Bottom: d}
}

func (m Margins) horizontal(ctx *MeasureContext) float32 {
	return ctx.Dp(m.Start + m.End)
}

func (m Margins) vertical(ctx *MeasureContext) float32 {
	return ctx.Dp(m.Top + m.Bottom)
}

func (m Margins) left(ctx *MeasureContext) float32 {
	if ctx.LTR {
		return ctx.Dp(m.Start)
	}
	return ctx.Dp(m.End)
}

// Shape selects the outline of a ShapeComponent.
type Shape uint8

const (
	ShapeRect Shape = iota
	// ShapeRounded uses the component's corner radius.
	ShapeRounded
	// ShapePill rounds the shorter side completely.
	ShapePill
	ShapeEllipse
)

// ShapeComponent fills a rectangle-bounded shape. A nil *ShapeComponent draws
// nothing.
type ShapeComponent struct {
	Color        color.NRGBA
	Shader       Shader
	Shape        Shape
	CornerRadius unit.Dp
	StrokeColor  color.NRGBA
	StrokeWidth  unit.Dp
}

func (s *ShapeComponent) brush(r Rect) Brush {
	if s.Shader != nil {
		return s.Shader.Brush(r)
	}
	return SolidBrush(s.Color)
}

// ColorAt is the color the component paints at p.
func (s *ShapeComponent) ColorAt(p f32.Point, r Rect) color.NRGBA {
	if s == nil {
		return color.NRGBA{}
	}
	if s.Shader != nil {
		return s.Shader.ColorAt(p, r)
	}
	return s.Color
}

// Draw fills r.
func (s *ShapeComponent) Draw(ctx *DrawContext, r Rect) {
	s.DrawAlpha(ctx, r, 1)
}

// DrawAlpha fills r with the component's opacity scaled by alpha.
func (s *ShapeComponent) DrawAlpha(ctx *DrawContext, r Rect, alpha float32) {
	if s == nil || r.Width() < 0 || r.Height() < 0 {
		return
	}
	b := s.brush(r).WithAlpha(alpha)
	switch s.Shape {
	case ShapeEllipse:
		ctx.Canvas.FillEllipse(r, b)
	case ShapePill:
		ctx.Canvas.FillRect(r, min(r.Width(), r.Height())/2, b)
	case ShapeRounded:
		ctx.Canvas.FillRect(r, min(ctx.Dp(s.CornerRadius), r.Width()/2, r.Height()/2), b)
	default:
		ctx.Canvas.FillRect(r, 0, b)
	}
	if s.StrokeWidth > 0 {
		var p Path
		p.MoveTo(f32.Pt(r.Left, r.Top))
		p.LineTo(f32.Pt(r.Right, r.Top))
		p.LineTo(f32.Pt(r.Right, r.Bottom))
		p.LineTo(f32.Pt(r.Left, r.Bottom))
		p.Close()
		ctx.Canvas.StrokePath(&p, ctx.Dp(s.StrokeWidth), SolidBrush(s.StrokeColor).WithAlpha(alpha))
	}
}

// LineComponent draws horizontal and vertical lines of a given thickness. A
// nil *LineComponent draws nothing and has no thickness.
type LineComponent struct {
	Color     color.NRGBA
	Shader    Shader
	Thickness unit.Dp
	Shape     Shape
}

// ThicknessPx returns the line's thickness in pixels.
func (l *LineComponent) ThicknessPx(ctx *MeasureContext) float32 {
	if l == nil {
		return 0
	}
	return ctx.Dp(l.Thickness)
}

func (l *LineComponent) shape() *ShapeComponent {
	return &ShapeComponent{Color: l.Color, Shader: l.Shader, Shape: l.Shape}
}

// DrawHorizontal draws a line from left to right centered on centerY.
func (l *LineComponent) DrawHorizontal(ctx *DrawContext, left, right, centerY float32) {
	l.DrawHorizontalAlpha(ctx, left, right, centerY, 1)
}

// DrawHorizontalAlpha is DrawHorizontal with the opacity scaled by alpha.
func (l *LineComponent) DrawHorizontalAlpha(ctx *DrawContext, left, right, centerY, alpha float32) {
	if l == nil {
		return
	}
	half := l.ThicknessPx(ctx.MeasureContext) / 2
	l.shape().DrawAlpha(ctx, Rect{Left: left, Top: centerY - half, Right: right, Bottom: centerY + half}, alpha)
}

// DrawVertical draws a line from top to bottom centered on centerX.
func (l *LineComponent) DrawVertical(ctx *DrawContext, top, bottom, centerX float32) {
	l.DrawVerticalAlpha(ctx, top, bottom, centerX, 1)
}

// DrawVerticalAlpha is DrawVertical with the opacity scaled by alpha.
func (l *LineComponent) DrawVerticalAlpha(ctx *DrawContext, top, bottom, centerX, alpha float32) {
	if l == nil {
		return
	}
	half := l.ThicknessPx(ctx.MeasureContext) / 2
	l.shape().DrawAlpha(ctx, Rect{Left: centerX - half, Top: top, Right: centerX + half, Bottom: bottom}, alpha)
}

// ColorAt is the color the line paints at p.
func (l *LineComponent) ColorAt(p f32.Point, r Rect) color.NRGBA {
	if l == nil {
		return color.NRGBA{}
	}
	return l.shape().ColorAt(p, r)
}

// TextComponent draws single- or multi-line labels. A nil *TextComponent
// draws nothing and measures as zero.
type TextComponent struct {
	Color color.NRGBA
	Size  unit.Sp
	// MaxLines limits wrapping; zero means one line.
	MaxLines   int
	Padding    Margins
	Margins    Margins
	Background *ShapeComponent
}

func (t *TextComponent) style(ctx *MeasureContext, maxWidth float32) TextStyle {
	lines := t.MaxLines
	if lines <= 0 {
		lines = 1
	}
	if maxWidth > 0 {
		maxWidth = max(maxWidth-t.Padding.horizontal(ctx)-t.Margins.horizontal(ctx), 0)
	}
	return TextStyle{Color: t.Color, Size: ctx.Sp(t.Size), MaxWidth: maxWidth, MaxLines: lines}
}

// unrotatedBox returns the size of the padded text box, without margins.
func (t *TextComponent) unrotatedBox(ctx *MeasureContext, text string, maxWidth float32) (float32, float32) {
	w, h := ctx.Text.MeasureText(text, t.style(ctx, maxWidth))
	return w + t.Padding.horizontal(ctx), h + t.Padding.vertical(ctx)
}

// Bounds returns the size of the rotated label, margins included. A
// maxWidth of zero means unbounded.
func (t *TextComponent) Bounds(ctx *MeasureContext, text string, maxWidth, rotation float32) (width, height float32) {
	if t == nil {
		return 0, 0
	}
	w, h := t.unrotatedBox(ctx, text, maxWidth)
	w, h = rotatedSize(w, h, rotation)
	return w + t.Margins.horizontal(ctx), h + t.Margins.vertical(ctx)
}

// Width returns the width of the rotated label, margins included.
func (t *TextComponent) Width(ctx *MeasureContext, text string, rotation float32) float32 {
	w, _ := t.Bounds(ctx, text, 0, rotation)
	return w
}

// Height returns the height of the rotated label, margins included.
func (t *TextComponent) Height(ctx *MeasureContext, text string, rotation float32) float32 {
	_, h := t.Bounds(ctx, text, 0, rotation)
	return h
}

// Draw draws text anchored at (x, y). The label box, margins included, is
// positioned relative to the anchor according to h and v.
func (t *TextComponent) Draw(ctx *DrawContext, text string, x, y float32, h HorizontalPosition, v VerticalPosition, rotation, maxWidth float32) {
	if t == nil || text == "" {
		return
	}
	mc := ctx.MeasureContext
	bw, bh := t.unrotatedBox(mc, text, maxWidth)
	rw, rh := rotatedSize(bw, bh, rotation)
	outerW := rw + t.Margins.horizontal(mc)
	outerH := rh + t.Margins.vertical(mc)

	var left float32
	switch {
	case h == HorizontalCenter:
		left = x - outerW/2
	case (h == HorizontalStart) == mc.LTR:
		left = x - outerW
	default:
		left = x
	}
	var top float32
	switch v {
	case VerticalTop:
		top = y - outerH
	case VerticalCenter:
		top = y - outerH/2
	default:
		top = y
	}
	box := Rect{Left: left + t.Margins.left(mc), Top: top + ctx.Dp(t.Margins.Top)}
	box.Right = box.Left + rw
	box.Bottom = box.Top + rh
	t.Background.Draw(ctx, box)

	center := f32.Pt(box.CenterX(), box.CenterY())
	// Padding is asymmetric when start and end differ; shift the text
	// within its box accordingly.
	if rotation == 0 {
		center.X += (t.Padding.left(mc) - (t.Padding.horizontal(mc) - t.Padding.left(mc))) / 2
		center.Y += (ctx.Dp(t.Padding.Top) - ctx.Dp(t.Padding.Bottom)) / 2
	}
	ctx.Canvas.DrawText(text, t.style(mc, maxWidth), center, rotation)
}

package giochart

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/x/stroke"

	"git.sr.ht/~whereswaldon/cartesian"
)

// kappa places cubic control points so that four curves approximate a
// circle.
const kappa = 0.5522847498

// Canvas draws chart primitives into Gio operations. It also measures text,
// using the same shaper it draws with. A Canvas is valid for one frame.
type Canvas struct {
	ops    *op.Ops
	shaper *text.Shaper
	font   font.Font
	clips  []clip.Stack
	// scratch receives the throwaway operations of text measurement.
	scratch op.Ops
}

var (
	_ cartesian.Canvas       = (*Canvas)(nil)
	_ cartesian.TextMeasurer = (*Canvas)(nil)
)

// NewCanvas returns a canvas drawing into ops.
func NewCanvas(ops *op.Ops, shaper *text.Shaper, f font.Font) *Canvas {
	return &Canvas{ops: ops, shaper: shaper, font: f}
}

// Close pops any clip left pushed.
func (c *Canvas) Close() {
	for len(c.clips) > 0 {
		c.PopClip()
	}
}

func (c *Canvas) paint(shape clip.Op, b cartesian.Brush) {
	if b.Gradient == nil {
		paint.FillShape(c.ops, b.Color, shape)
		return
	}
	defer shape.Push(c.ops).Pop()
	paint.LinearGradientOp{
		Stop1:  b.Gradient.From,
		Stop2:  b.Gradient.To,
		Color1: b.Gradient.FromColor,
		Color2: b.Gradient.ToColor,
	}.Add(c.ops)
	paint.PaintOp{}.Add(c.ops)
}

func (c *Canvas) FillRect(r cartesian.Rect, cornerRadius float32, b cartesian.Brush) {
	if r.Width() <= 0 || r.Height() <= 0 {
		return
	}
	var p clip.Path
	p.Begin(c.ops)
	roundedRect(&p, r, min(cornerRadius, r.Width()/2, r.Height()/2))
	c.paint(clip.Outline{Path: p.End()}.Op(), b)
}

func roundedRect(p *clip.Path, r cartesian.Rect, radius float32) {
	if radius <= 0 {
		p.MoveTo(f32.Pt(r.Left, r.Top))
		p.LineTo(f32.Pt(r.Right, r.Top))
		p.LineTo(f32.Pt(r.Right, r.Bottom))
		p.LineTo(f32.Pt(r.Left, r.Bottom))
		p.Close()
		return
	}
	k := radius * (1 - kappa)
	p.MoveTo(f32.Pt(r.Left+radius, r.Top))
	p.LineTo(f32.Pt(r.Right-radius, r.Top))
	p.CubeTo(f32.Pt(r.Right-k, r.Top), f32.Pt(r.Right, r.Top+k), f32.Pt(r.Right, r.Top+radius))
	p.LineTo(f32.Pt(r.Right, r.Bottom-radius))
	p.CubeTo(f32.Pt(r.Right, r.Bottom-k), f32.Pt(r.Right-k, r.Bottom), f32.Pt(r.Right-radius, r.Bottom))
	p.LineTo(f32.Pt(r.Left+radius, r.Bottom))
	p.CubeTo(f32.Pt(r.Left+k, r.Bottom), f32.Pt(r.Left, r.Bottom-k), f32.Pt(r.Left, r.Bottom-radius))
	p.LineTo(f32.Pt(r.Left, r.Top+radius))
	p.CubeTo(f32.Pt(r.Left, r.Top+k), f32.Pt(r.Left+k, r.Top), f32.Pt(r.Left+radius, r.Top))
	p.Close()
}

func (c *Canvas) FillEllipse(r cartesian.Rect, b cartesian.Brush) {
	if r.Width() <= 0 || r.Height() <= 0 {
		return
	}
	rx, ry := r.Width()/2, r.Height()/2
	cx, cy := r.CenterX(), r.CenterY()
	kx, ky := rx*kappa, ry*kappa
	var p clip.Path
	p.Begin(c.ops)
	p.MoveTo(f32.Pt(cx+rx, cy))
	p.CubeTo(f32.Pt(cx+rx, cy+ky), f32.Pt(cx+kx, cy+ry), f32.Pt(cx, cy+ry))
	p.CubeTo(f32.Pt(cx-kx, cy+ry), f32.Pt(cx-rx, cy+ky), f32.Pt(cx-rx, cy))
	p.CubeTo(f32.Pt(cx-rx, cy-ky), f32.Pt(cx-kx, cy-ry), f32.Pt(cx, cy-ry))
	p.CubeTo(f32.Pt(cx+kx, cy-ry), f32.Pt(cx+rx, cy-ky), f32.Pt(cx+rx, cy))
	p.Close()
	c.paint(clip.Outline{Path: p.End()}.Op(), b)
}

// gioPath replays a chart path into Gio path operations.
func (c *Canvas) gioPath(src *cartesian.Path) clip.PathSpec {
	var p clip.Path
	p.Begin(c.ops)
	for _, s := range src.Segments {
		switch s.Kind {
		case cartesian.SegmentMove:
			p.MoveTo(s.Points[0])
		case cartesian.SegmentLine:
			p.LineTo(s.Points[0])
		case cartesian.SegmentCubic:
			p.CubeTo(s.Points[0], s.Points[1], s.Points[2])
		case cartesian.SegmentClose:
			p.Close()
		}
	}
	return p.End()
}

func (c *Canvas) FillPath(p *cartesian.Path, b cartesian.Brush) {
	if p == nil || p.Empty() {
		return
	}
	c.paint(clip.Outline{Path: c.gioPath(p)}.Op(), b)
}

// strokeSegments converts a chart path to stroke segments. Closing a
// subpath draws a line back to its start.
func strokeSegments(src *cartesian.Path) []stroke.Segment {
	segs := make([]stroke.Segment, 0, len(src.Segments))
	var start f32.Point
	for _, s := range src.Segments {
		switch s.Kind {
		case cartesian.SegmentMove:
			start = s.Points[0]
			segs = append(segs, stroke.MoveTo(start))
		case cartesian.SegmentLine:
			segs = append(segs, stroke.LineTo(s.Points[0]))
		case cartesian.SegmentCubic:
			segs = append(segs, stroke.CubeTo(s.Points[0], s.Points[1], s.Points[2]))
		case cartesian.SegmentClose:
			segs = append(segs, stroke.LineTo(start))
		}
	}
	return segs
}

func (c *Canvas) StrokePath(p *cartesian.Path, width float32, b cartesian.Brush) {
	if p == nil || p.Empty() || width <= 0 {
		return
	}
	c.paint(stroke.Stroke{
		Path:  stroke.Path{Segments: strokeSegments(p)},
		Width: width,
		Cap:   stroke.RoundCap,
		Join:  stroke.RoundJoin,
	}.Op(c.ops), b)
}

func (c *Canvas) PushClip(r cartesian.Rect) {
	rect := image.Rect(
		int(math.Floor(float64(r.Left))),
		int(math.Floor(float64(r.Top))),
		int(math.Ceil(float64(r.Right))),
		int(math.Ceil(float64(r.Bottom))),
	)
	c.clips = append(c.clips, clip.Rect(rect).Push(c.ops))
}

func (c *Canvas) PopClip() {
	if len(c.clips) == 0 {
		return
	}
	last := len(c.clips) - 1
	c.clips[last].Pop()
	c.clips = c.clips[:last]
}

// pixelContext returns a layout context whose Sp unit is one pixel, so that
// pixel text sizes can be handed to the shaper unchanged.
func pixelContext(ops *op.Ops, maxWidth float32) layout.Context {
	w := math.MaxInt32
	if maxWidth > 0 {
		w = int(math.Ceil(float64(maxWidth)))
	}
	return layout.Context{
		Ops:         ops,
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: layout.Constraints{Max: image.Pt(w, math.MaxInt32)},
	}
}

func (c *Canvas) label(style cartesian.TextStyle) widget.Label {
	lines := style.MaxLines
	if lines <= 0 {
		lines = 1
	}
	return widget.Label{MaxLines: lines, Alignment: text.Middle}
}

func (c *Canvas) MeasureText(txt string, style cartesian.TextStyle) (float32, float32) {
	if txt == "" {
		return 0, 0
	}
	c.scratch.Reset()
	gtx := pixelContext(&c.scratch, style.MaxWidth)
	dims := c.label(style).Layout(gtx, c.shaper, c.font, unit.Sp(style.Size), txt, op.CallOp{})
	return float32(dims.Size.X), float32(dims.Size.Y)
}

func (c *Canvas) DrawText(txt string, style cartesian.TextStyle, center f32.Point, rotation float32) {
	if txt == "" {
		return
	}
	gtx := pixelContext(c.ops, style.MaxWidth)

	macro := op.Record(c.ops)
	paint.ColorOp{Color: style.Color}.Add(c.ops)
	material := macro.Stop()

	macro = op.Record(c.ops)
	dims := c.label(style).Layout(gtx, c.shaper, c.font, unit.Sp(style.Size), txt, material)
	call := macro.Stop()

	half := f32.Pt(float32(dims.Size.X)/2, float32(dims.Size.Y)/2)
	tr := f32.Affine2D{}.Offset(center.Sub(half))
	if rotation != 0 {
		tr = tr.Rotate(center, rotation*math.Pi/180)
	}
	defer op.Affine(tr).Push(c.ops).Pop()
	call.Add(c.ops)
}

// solid is a convenience for overlays drawn outside of chart components.
func (c *Canvas) solid(r cartesian.Rect, col color.NRGBA) {
	c.FillRect(r, 0, cartesian.SolidBrush(col))
}

// Package cartesian lays out and draws Cartesian charts: line, column and
// candlestick layers plotted against horizontal and vertical axes, with
// scrolling, zooming, markers and animated transitions between models.
//
// Drawing goes through the narrow Canvas and TextMeasurer interfaces; package
// giochart implements them on top of Gio.
package cartesian

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"golang.org/x/exp/constraints"
)

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	Left, Top, Right, Bottom float32
}

func (r Rect) Width() float32   { return r.Right - r.Left }
func (r Rect) Height() float32  { return r.Bottom - r.Top }
func (r Rect) CenterX() float32 { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() float32 { return (r.Top + r.Bottom) / 2 }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether p lies within the rectangle.
func (r Rect) Contains(p f32.Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Intersects reports whether the rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Translate moves the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Start returns the leading edge for the given layout direction.
func (r Rect) Start(ltr bool) float32 {
	if ltr {
		return r.Left
	}
	return r.Right
}

// End returns the trailing edge for the given layout direction.
func (r Rect) End(ltr bool) float32 {
	if ltr {
		return r.Right
	}
	return r.Left
}

// SegmentKind identifies a path command.
type SegmentKind uint8

const (
	SegmentMove SegmentKind = iota
	SegmentLine
	SegmentCubic
	SegmentClose
)

// Segment is one path command. Line and move segments use Points[0]; cubic
// segments use Points[0] and Points[1] as control points and Points[2] as the
// end point.
type Segment struct {
	Kind   SegmentKind
	Points [3]f32.Point
}

// Path is a sequence of drawing commands in pixel coordinates.
type Path struct {
	Segments []Segment
	start    f32.Point
	current  f32.Point
}

func (p *Path) MoveTo(to f32.Point) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentMove, Points: [3]f32.Point{to}})
	p.start, p.current = to, to
}

func (p *Path) LineTo(to f32.Point) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentLine, Points: [3]f32.Point{to}})
	p.current = to
}

func (p *Path) CubeTo(ctrl0, ctrl1, to f32.Point) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentCubic, Points: [3]f32.Point{ctrl0, ctrl1, to}})
	p.current = to
}

func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Kind: SegmentClose})
	p.current = p.start
}

// Reset empties the path, keeping its storage.
func (p *Path) Reset() {
	p.Segments = p.Segments[:0]
	p.start, p.current = f32.Point{}, f32.Point{}
}

// Empty reports whether the path has no commands.
func (p *Path) Empty() bool {
	return len(p.Segments) == 0
}

// Current is the pen position after the last command.
func (p *Path) Current() f32.Point {
	return p.current
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	c := *p
	c.Segments = append([]Segment(nil), p.Segments...)
	return &c
}

// Bounds returns the bounding box of every point of the path, control points
// included.
func (p *Path) Bounds() Rect {
	b := Rect{
		Left: math.MaxFloat32, Top: math.MaxFloat32,
		Right: -math.MaxFloat32, Bottom: -math.MaxFloat32,
	}
	n := 0
	for _, s := range p.Segments {
		points := 0
		switch s.Kind {
		case SegmentMove, SegmentLine:
			points = 1
		case SegmentCubic:
			points = 3
		}
		for _, pt := range s.Points[:points] {
			b.Left = min(b.Left, pt.X)
			b.Top = min(b.Top, pt.Y)
			b.Right = max(b.Right, pt.X)
			b.Bottom = max(b.Bottom, pt.Y)
			n++
		}
	}
	if n == 0 {
		return Rect{}
	}
	return b
}

// LinearGradient blends two colors along the segment From→To.
type LinearGradient struct {
	From, To           f32.Point
	FromColor, ToColor color.NRGBA
}

// Brush describes how a shape is filled: either a solid color or a two-stop
// linear gradient.
type Brush struct {
	Color    color.NRGBA
	Gradient *LinearGradient
}

// SolidBrush returns a brush painting a single color.
func SolidBrush(c color.NRGBA) Brush {
	return Brush{Color: c}
}

// WithAlpha scales the brush's opacity.
func (b Brush) WithAlpha(alpha float32) Brush {
	if alpha >= 1 {
		return b
	}
	b.Color = scaleAlpha(b.Color, alpha)
	if b.Gradient != nil {
		g := *b.Gradient
		g.FromColor = scaleAlpha(g.FromColor, alpha)
		g.ToColor = scaleAlpha(g.ToColor, alpha)
		b.Gradient = &g
	}
	return b
}

// Shader produces the brush used to fill a shape with the given bounds.
type Shader interface {
	Brush(bounds Rect) Brush
	// ColorAt returns the color painted at p, used to color markers.
	ColorAt(p f32.Point, bounds Rect) color.NRGBA
}

// SolidShader paints a single color.
type SolidShader struct {
	Color color.NRGBA
}

func (s SolidShader) Brush(Rect) Brush                     { return SolidBrush(s.Color) }
func (s SolidShader) ColorAt(f32.Point, Rect) color.NRGBA { return s.Color }

// VerticalGradientShader blends from Top at the top of the bounds to Bottom at
// the bottom.
type VerticalGradientShader struct {
	Top, Bottom color.NRGBA
}

func (s VerticalGradientShader) Brush(bounds Rect) Brush {
	return Brush{Gradient: &LinearGradient{
		From:      f32.Pt(bounds.Left, bounds.Top),
		To:        f32.Pt(bounds.Left, bounds.Bottom),
		FromColor: s.Top,
		ToColor:   s.Bottom,
	}}
}

func (s VerticalGradientShader) ColorAt(p f32.Point, bounds Rect) color.NRGBA {
	if bounds.Height() <= 0 {
		return s.Top
	}
	return lerpColor(s.Top, s.Bottom, clamp((p.Y-bounds.Top)/bounds.Height(), 0, 1))
}

// HorizontalGradientShader blends from Left to Right across the bounds.
type HorizontalGradientShader struct {
	Left, Right color.NRGBA
}

func (s HorizontalGradientShader) Brush(bounds Rect) Brush {
	return Brush{Gradient: &LinearGradient{
		From:      f32.Pt(bounds.Left, bounds.Top),
		To:        f32.Pt(bounds.Right, bounds.Top),
		FromColor: s.Left,
		ToColor:   s.Right,
	}}
}

func (s HorizontalGradientShader) ColorAt(p f32.Point, bounds Rect) color.NRGBA {
	if bounds.Width() <= 0 {
		return s.Left
	}
	return lerpColor(s.Left, s.Right, clamp((p.X-bounds.Left)/bounds.Width(), 0, 1))
}

// TextStyle configures text drawn on a Canvas. Sizes are in pixels.
type TextStyle struct {
	Color    color.NRGBA
	Size     float32
	MaxWidth float32
	MaxLines int
}

// TextMeasurer reports the unrotated size of text in pixels.
type TextMeasurer interface {
	MeasureText(text string, style TextStyle) (width, height float32)
}

// Canvas is the drawing surface of one frame.
type Canvas interface {
	FillRect(r Rect, cornerRadius float32, b Brush)
	FillEllipse(r Rect, b Brush)
	FillPath(p *Path, b Brush)
	StrokePath(p *Path, width float32, b Brush)
	// DrawText draws text centered on center, rotated clockwise by rotation
	// degrees about that center.
	DrawText(text string, style TextStyle, center f32.Point, rotation float32)
	// PushClip restricts drawing to r (intersected with the current clip)
	// until the matching PopClip.
	PushClip(r Rect)
	PopClip()
}

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

func lerp(from, to, fraction float32) float32 {
	return from + (to-from)*fraction
}

func lerpColor(from, to color.NRGBA, fraction float32) color.NRGBA {
	ch := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(lerp(float32(a), float32(b), fraction))))
	}
	return color.NRGBA{R: ch(from.R, to.R), G: ch(from.G, to.G), B: ch(from.B, to.B), A: ch(from.A, to.A)}
}

func scaleAlpha(c color.NRGBA, alpha float32) color.NRGBA {
	c.A = uint8(math.Round(float64(float32(c.A) * clamp(alpha, 0, 1))))
	return c
}

// rotatedSize returns the size of the bounding box of a w×h rectangle rotated
// by degrees.
func rotatedSize(w, h, degrees float32) (float32, float32) {
	if math.Mod(float64(degrees), 180) == 0 {
		return w, h
	}
	if math.Mod(float64(degrees), 90) == 0 {
		return h, w
	}
	rad := float64(degrees) * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return float32(float64(w)*cos + float64(h)*sin), float32(float64(w)*sin + float64(h)*cos)
}

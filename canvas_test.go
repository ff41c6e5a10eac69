package cartesian

import (
	"math"
	"testing"
	"unicode/utf8"

	"gioui.org/f32"
)

type opKind uint8

const (
	opFillRect opKind = iota
	opFillEllipse
	opFillPath
	opStrokePath
	opText
)

type drawOp struct {
	kind   opKind
	rect   Rect
	path   *Path
	brush  Brush
	text   string
	center f32.Point
	clip   Rect
}

// recordingCanvas records every drawing call along with the clip in effect.
type recordingCanvas struct {
	ops   []drawOp
	clips []Rect
}

func (c *recordingCanvas) clip() Rect {
	if len(c.clips) == 0 {
		return Rect{Left: -math.MaxFloat32, Top: -math.MaxFloat32, Right: math.MaxFloat32, Bottom: math.MaxFloat32}
	}
	return c.clips[len(c.clips)-1]
}

func (c *recordingCanvas) FillRect(r Rect, _ float32, b Brush) {
	c.ops = append(c.ops, drawOp{kind: opFillRect, rect: r, brush: b, clip: c.clip()})
}

func (c *recordingCanvas) FillEllipse(r Rect, b Brush) {
	c.ops = append(c.ops, drawOp{kind: opFillEllipse, rect: r, brush: b, clip: c.clip()})
}

func (c *recordingCanvas) FillPath(p *Path, b Brush) {
	c.ops = append(c.ops, drawOp{kind: opFillPath, path: p.Clone(), brush: b, clip: c.clip()})
}

func (c *recordingCanvas) StrokePath(p *Path, _ float32, b Brush) {
	c.ops = append(c.ops, drawOp{kind: opStrokePath, path: p.Clone(), brush: b, clip: c.clip()})
}

func (c *recordingCanvas) DrawText(text string, _ TextStyle, center f32.Point, _ float32) {
	c.ops = append(c.ops, drawOp{kind: opText, text: text, center: center, clip: c.clip()})
}

func (c *recordingCanvas) PushClip(r Rect) {
	cur := c.clip()
	c.clips = append(c.clips, Rect{
		Left:   max(cur.Left, r.Left),
		Top:    max(cur.Top, r.Top),
		Right:  min(cur.Right, r.Right),
		Bottom: min(cur.Bottom, r.Bottom),
	})
}

func (c *recordingCanvas) PopClip() {
	c.clips = c.clips[:len(c.clips)-1]
}

func (c *recordingCanvas) filter(kind opKind) []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (c *recordingCanvas) texts() []string {
	var out []string
	for _, op := range c.filter(opText) {
		out = append(out, op.text)
	}
	return out
}

// monoText measures every rune as half the text size wide and each line as
// the text size tall.
type monoText struct{}

func (monoText) MeasureText(text string, style TextStyle) (float32, float32) {
	w := float32(utf8.RuneCountInString(text)) * style.Size / 2
	if style.MaxWidth > 0 && w > style.MaxWidth {
		lines := int(math.Ceil(float64(w / style.MaxWidth)))
		lines = min(lines, max(style.MaxLines, 1))
		return style.MaxWidth, style.Size * float32(lines)
	}
	return w, style.Size
}

func measureContext(width, height float32) *MeasureContext {
	return &MeasureContext{
		CanvasBounds: Rect{Right: width, Bottom: height},
		LTR:          true,
		Text:         monoText{},
	}
}

func approx(t *testing.T, what string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > 1e-3 {
		t.Errorf("expected %s %v, got %v", what, want, got)
	}
}

// endpoints returns the end point of every segment of p.
func endpoints(p *Path) []f32.Point {
	var out []f32.Point
	for _, s := range p.Segments {
		switch s.Kind {
		case SegmentMove, SegmentLine:
			out = append(out, s.Points[0])
		case SegmentCubic:
			out = append(out, s.Points[2])
		}
	}
	return out
}

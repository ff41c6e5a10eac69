// Package giochart renders cartesian charts with Gio.
package giochart

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/text"
	"git.sr.ht/~gioverse/skel/stream"

	"git.sr.ht/~whereswaldon/cartesian"
	"git.sr.ht/~whereswaldon/cartesian/model"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// Chart is a Gio widget drawing a cartesian.Session. Horizontal drags and
// scrolls pan the chart, vertical scrolls zoom around the pointer, and the
// hovered position drives the marker.
type Chart struct {
	Session *cartesian.Session
	Shaper  *text.Shaper
	Font    font.Font
	// Background fills the widget before the chart is drawn.
	Background color.NRGBA
	// Placeholder is laid out instead of the chart while it has no model.
	Placeholder layout.Widget
	// Err holds the error of the last model that could not be displayed.
	Err error

	snapshots  *stream.Stream[*model.Snapshot]
	snapshot   *model.Snapshot
	generation uint64

	pan, zoom gesture.Scroll
	isHovered bool
	pos       f32.Point
}

// NewChart returns a widget drawing s with the given shaper.
func NewChart(s *cartesian.Session, shaper *text.Shaper) *Chart {
	return &Chart{Session: s, Shaper: shaper}
}

// Follow displays every snapshot published by p. The controller invalidates
// the window whenever a new snapshot arrives.
func (c *Chart) Follow(controller *stream.Controller, p *model.Producer) {
	c.snapshots = stream.New(controller, p.Stream)
}

// Update consumes new snapshots and input events. Layout calls it.
func (c *Chart) Update(gtx C) {
	if c.snapshots != nil {
		c.snapshots.ReadInto(gtx, &c.snapshot, nil)
	}
	if c.snapshot != nil && c.snapshot.Generation != c.generation {
		c.generation = c.snapshot.Generation
		c.Err = c.Session.SetModel(c.snapshot.Model)
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move,
		})
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case pointer.Event:
			switch ev.Kind {
			case pointer.Enter:
				c.isHovered = true
				c.pos = ev.Position
			case pointer.Leave, pointer.Cancel:
				c.isHovered = false
			case pointer.Move:
				c.pos = ev.Position
			}
		}
	}

	in := c.Session.Interaction
	dist := c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6))
	if dist != 0 && gtx.Constraints.Max.Y > 0 {
		factor := float32(math.Exp(-float64(dist) / float64(gtx.Constraints.Max.Y)))
		in.Pinch(factor, c.pos.X)
	}
	if c.zoom.State() == gesture.StateIdle && in.State() == cartesian.StateZooming {
		in.Release()
	}
	dist = c.pan.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Horizontal, image.Rect(-1e6, 0, 1e6, 0))
	if dist != 0 {
		if !ltr(gtx) {
			dist = -dist
		}
		in.Drag(float32(dist))
	}
	if c.pan.State() == gesture.StateIdle && in.State() == cartesian.StateDragging {
		in.Release()
	}
}

func ltr(gtx C) bool {
	return gtx.Locale.Direction.Progression() == system.FromOrigin
}

// Layout draws the chart filling the maximum constraints.
func (c *Chart) Layout(gtx C) D {
	c.Update(gtx)
	if c.Session.Model().Empty() && c.Placeholder != nil {
		return c.Placeholder(gtx)
	}
	size := gtx.Constraints.Max
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	c.pan.Add(gtx.Ops)
	c.zoom.Add(gtx.Ops)
	event.Op(gtx.Ops, c)

	canvas := NewCanvas(gtx.Ops, c.Shaper, c.Font)
	defer canvas.Close()
	bounds := cartesian.Rect{Right: float32(size.X), Bottom: float32(size.Y)}
	if c.Background.A > 0 {
		canvas.solid(bounds, c.Background)
	}
	var touch *f32.Point
	if c.isHovered {
		p := c.pos
		touch = &p
	}
	redraw := c.Session.Draw(cartesian.Frame{
		Canvas:      canvas,
		Text:        canvas,
		Bounds:      bounds,
		Metric:      gtx.Metric,
		LTR:         ltr(gtx),
		Now:         gtx.Now,
		MarkerTouch: touch,
	})
	if redraw || c.pan.State() == gesture.StateFlinging {
		gtx.Execute(op.InvalidateCmd{})
	}
	return D{Size: size}
}

package cartesian

import (
	"fmt"
	"time"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

// InteractionState is the gesture state of a chart.
type InteractionState uint8

const (
	StateIdle InteractionState = iota
	StateDragging
	// StateAnimating is a programmatic scroll in progress.
	StateAnimating
	StateZooming
)

func (s InteractionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateAnimating:
		return "animating"
	case StateZooming:
		return "zooming"
	default:
		panic(fmt.Sprintf("unexpected interaction state %d", uint8(s)))
	}
}

// ScrollAnimationDuration is the length of automatic scrolls.
const ScrollAnimationDuration = 500 * time.Millisecond

// Interaction drives the scroll and zoom state of one chart from pointer
// gestures and model updates. Update must be called once per frame, after
// the chart is prepared, before any other method is used in that frame.
type Interaction struct {
	Scroll *ScrollState
	Zoom   *ZoomState

	state InteractionState

	// Measured state of the last frame.
	measured bool
	values   ChartValues
	ltr      bool
	base     HorizontalDimensions
	bounds   Rect

	model       *model.ChartModel
	pendingAuto bool
	animTarget  Scroll
	animFrom    float32
	animStart   time.Time
}

// NewInteraction combines scroll and zoom states.
func NewInteraction(scroll *ScrollState, zoom *ZoomState) *Interaction {
	if scroll == nil {
		scroll = NewScrollState(true)
	}
	if zoom == nil {
		zoom = NewZoomState(scroll.Enabled)
	}
	return &Interaction{Scroll: scroll, Zoom: zoom}
}

// State returns the current gesture state.
func (in *Interaction) State() InteractionState { return in.state }

// Dimensions returns the zoomed horizontal dimensions of the last frame.
func (in *Interaction) Dimensions() HorizontalDimensions {
	return in.base.Scaled(in.Zoom.Value())
}

func (in *Interaction) refreshScroll() {
	if !in.measured {
		return
	}
	in.Scroll.Update(&MeasureContext{Values: in.values, LTR: in.ltr}, in.Dimensions(), in.bounds)
}

// Update resolves zoom and scroll against the frame's measured content: the
// base (unzoomed) dimensions d and the layer bounds. It advances automatic
// scrolls and reports whether another frame is needed.
func (in *Interaction) Update(ctx *MeasureContext, d HorizontalDimensions, bounds Rect, now time.Time) (animating bool) {
	in.measured = true
	in.values, in.ltr, in.base, in.bounds = ctx.Values, ctx.LTR, d, bounds
	in.Zoom.Update(ctx, d, bounds)
	in.Scroll.Update(ctx, in.Dimensions(), bounds)

	if in.pendingAuto && in.state == StateIdle {
		in.pendingAuto = false
		in.state = StateAnimating
		in.animTarget = in.Scroll.Auto
		in.animFrom = in.Scroll.Value()
		in.animStart = now
	}
	if in.state != StateAnimating {
		return false
	}
	// The target is resolved every frame so that content changes during
	// the animation are followed.
	target := in.Scroll.Target(ctx, in.Dimensions(), bounds, in.animTarget)
	f := float32(now.Sub(in.animStart)) / float32(ScrollAnimationDuration)
	if f >= 1 {
		in.Scroll.SetValue(target)
		in.state = StateIdle
		return false
	}
	in.Scroll.SetValue(lerp(in.animFrom, target, easeInOut(clamp(f, 0, 1))))
	return true
}

func easeInOut(f float32) float32 {
	if f < 0.5 {
		return 4 * f * f * f
	}
	g := 2*f - 2
	return 1 + g*g*g/2
}

// SetModel reports the model about to be drawn. A model with a different ID
// than the previous one may trigger an automatic scroll, which starts once
// no gesture is in progress. An identical ID changes nothing.
func (in *Interaction) SetModel(m *model.ChartModel) {
	old := in.model
	if old != nil && m != nil && old.ID() == m.ID() {
		in.model = m
		return
	}
	in.model = m
	if m == nil {
		return
	}
	if in.Scroll.shouldAutoScroll(old, m) {
		in.pendingAuto = true
	}
}

// ScrollTo starts an animated scroll toward target.
func (in *Interaction) ScrollTo(target Scroll, now time.Time) {
	if in.state == StateDragging || in.state == StateZooming {
		return
	}
	in.state = StateAnimating
	in.animTarget = target
	in.animFrom = in.Scroll.Value()
	in.animStart = now
}

// Drag moves the content by delta pixels. The first drag of a gesture
// enters the dragging state, cancelling any automatic scroll. It returns the
// distance actually scrolled.
func (in *Interaction) Drag(delta float32) float32 {
	if !in.Scroll.Enabled {
		return 0
	}
	switch in.state {
	case StateIdle, StateAnimating:
		in.state = StateDragging
	case StateZooming:
		return 0
	}
	return in.Scroll.ScrollBy(delta)
}

// Release ends a drag or pinch gesture.
func (in *Interaction) Release() {
	if in.state == StateDragging || in.state == StateZooming {
		in.state = StateIdle
	}
	in.refreshScroll()
}

// Pinch zooms by factor around the canvas x coordinate centroidX. The scroll
// range is recomputed for the new zoom before the scroll is adjusted.
func (in *Interaction) Pinch(factor, centroidX float32) {
	if !in.Zoom.Enabled || !in.Scroll.Enabled || !in.measured {
		return
	}
	in.state = StateZooming
	anchor := centroidX - in.bounds.Left
	if !in.ltr {
		anchor = in.bounds.Right - centroidX
	}
	delta := in.Zoom.Zoom(factor, anchor, in.Scroll.Value(), in.base.UnscalableStartPadding)
	in.refreshScroll()
	in.Scroll.ScrollBy(delta)
}

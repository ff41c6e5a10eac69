package cartesian

import (
	"time"

	"gioui.org/f32"
	"gioui.org/unit"

	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// DefaultAnimationDuration is the length of the difference animation
// between two models.
const DefaultAnimationDuration = 500 * time.Millisecond

// Frame holds the per-frame inputs a host passes to Session.Draw.
type Frame struct {
	Canvas Canvas
	Text   TextMeasurer
	Bounds Rect
	Metric unit.Metric
	LTR    bool
	Now    time.Time
	// MarkerTouch is the pointer position the marker follows, if any.
	MarkerTouch *f32.Point
}

// Session keeps the state of one chart across frames: the current model and
// its values, the interaction state and the difference animation. It is
// owned by the UI goroutine.
type Session struct {
	Chart       *Chart
	Interaction *Interaction
	Layout      HorizontalLayout
	// AnimationDuration is the length of the difference animation. Zero
	// disables it.
	AnimationDuration time.Duration
	Cache             *store.CacheStore

	model        *model.ChartModel
	values       ChartValues
	startPending bool
	animating    bool
	animStart    time.Time
}

// NewSession returns a session drawing c. A nil interaction gets
// scrolling and zooming enabled.
func NewSession(c *Chart, in *Interaction) *Session {
	if in == nil {
		in = NewInteraction(nil, nil)
	}
	return &Session{
		Chart:             c,
		Interaction:       in,
		AnimationDuration: DefaultAnimationDuration,
		Cache:             store.NewCacheStore(),
	}
}

// Model returns the model being drawn.
func (s *Session) Model() *model.ChartModel { return s.model }

// Values returns the chart values of the model being drawn.
func (s *Session) Values() ChartValues { return s.values }

// Animating reports whether the difference animation is in progress.
func (s *Session) Animating() bool { return s.animating || s.startPending }

// SetModel replaces the drawn model and starts the difference animation
// toward it. A model whose layers the chart cannot render is rejected and the
// previous model kept.
func (s *Session) SetModel(m *model.ChartModel) error {
	if err := s.Chart.Check(m); err != nil {
		return err
	}
	if s.model != nil && m != nil && s.model.ID() == m.ID() {
		s.model = m
		s.Interaction.SetModel(m)
		return nil
	}
	s.model = m
	s.values = s.Chart.Values(m)
	s.Chart.PrepareForTransformation(m, s.values)
	if s.AnimationDuration > 0 {
		s.startPending, s.animating = true, false
	} else {
		s.startPending, s.animating = false, false
		s.Chart.Transform(1)
	}
	s.Interaction.SetModel(m)
	return nil
}

func (s *Session) measureContext(f Frame) *MeasureContext {
	return &MeasureContext{
		CanvasBounds:  f.Bounds,
		Metric:        f.Metric,
		LTR:           f.LTR,
		Text:          f.Text,
		Cache:         s.Cache,
		Values:        s.values,
		Layout:        s.Layout,
		ScrollEnabled: s.Interaction.Scroll.Enabled,
		ZoomEnabled:   s.Interaction.Zoom.Enabled,
	}
}

// Draw renders one frame: it prepares the chart, updates zoom and scroll,
// advances the animations, draws, and purges the frame cache. It reports
// whether another frame is needed to continue an animation.
func (s *Session) Draw(f Frame) (redraw bool) {
	ctx := s.measureContext(f)
	defer ctx.Reset()
	if s.model.Empty() {
		return false
	}
	d := s.Chart.Prepare(ctx, s.model)
	lb := s.Chart.LayerBounds()
	if lb.Empty() {
		return false
	}
	redraw = s.Interaction.Update(ctx, d, lb, f.Now)

	if s.startPending {
		s.startPending, s.animating = false, true
		s.animStart = f.Now
	}
	if s.animating {
		fraction := float32(f.Now.Sub(s.animStart)) / float32(s.AnimationDuration)
		if fraction >= 1 {
			fraction = 1
			s.animating = false
		} else {
			redraw = true
		}
		s.Chart.Transform(fraction)
	}

	s.Chart.Draw(&DrawContext{
		MeasureContext: ctx,
		Canvas:         f.Canvas,
		LayerBounds:    lb,
		Dimensions:     s.Interaction.Dimensions(),
		Scroll:         s.Interaction.Scroll.Value(),
		Zoom:           s.Interaction.Zoom.Value(),
		MarkerTouch:    f.MarkerTouch,
		Extras:         s.Chart.DrawingExtras(),
	}, s.model)
	return redraw
}

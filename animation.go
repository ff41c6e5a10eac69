package cartesian

import (
	"git.sr.ht/~whereswaldon/cartesian/model"
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// DrawingModel is the normalized drawing state of one layer for one chart
// model. Each series maps entry x values to layer-specific point info, such
// as the fraction of the y range an entry sits at.
type DrawingModel[P any] struct {
	Series []map[float64]P
	// ZeroY is the fraction of the layer height, from the top, at which
	// y = 0 sits.
	ZeroY   float32
	Opacity float32
}

// Interpolator blends two drawing models.
type Interpolator[P any] interface {
	// Interpolate returns the drawing model shown at fraction, which runs
	// from 0 (old) to 1 (new). Either model may be nil.
	Interpolate(old, new *DrawingModel[P], fraction float32) *DrawingModel[P]
}

// DefaultInterpolator blends entries present in both models linearly.
// Entries only in the new model fade in from their neutral value, and entries
// only in the old model fade out toward it.
type DefaultInterpolator[P any] struct {
	Lerp func(from, to P, fraction float32) P
	// Neutral returns the value an entry appears from or disappears to,
	// typically its position on the zero line of the model it belongs to.
	Neutral func(p P, zeroY float32) P
}

func (d DefaultInterpolator[P]) Interpolate(old, new *DrawingModel[P], fraction float32) *DrawingModel[P] {
	switch {
	case fraction <= 0 && old != nil:
		return old
	case fraction >= 1 || old == nil && new == nil:
		return new
	}
	from, to := old, new
	if from == nil {
		from = &DrawingModel[P]{ZeroY: to.ZeroY}
	}
	if to == nil {
		to = &DrawingModel[P]{ZeroY: from.ZeroY}
	}
	out := &DrawingModel[P]{
		ZeroY:   lerp(from.ZeroY, to.ZeroY, fraction),
		Opacity: lerp(from.Opacity, to.Opacity, fraction),
		Series:  make([]map[float64]P, max(len(from.Series), len(to.Series))),
	}
	for i := range out.Series {
		var a, b map[float64]P
		if i < len(from.Series) {
			a = from.Series[i]
		}
		if i < len(to.Series) {
			b = to.Series[i]
		}
		s := make(map[float64]P, max(len(a), len(b)))
		for x, pb := range b {
			if pa, ok := a[x]; ok {
				s[x] = d.Lerp(pa, pb, fraction)
			} else {
				s[x] = d.Lerp(d.Neutral(pb, to.ZeroY), pb, fraction)
			}
		}
		for x, pa := range a {
			if _, ok := b[x]; !ok {
				s[x] = d.Lerp(pa, d.Neutral(pa, from.ZeroY), fraction)
			}
		}
		out.Series[i] = s
	}
	return out
}

// Animator tracks one layer's transition between drawing models.
type Animator[P any] struct {
	interpolator Interpolator[P]
	from, to     *DrawingModel[P]
	fraction     float32
}

// NewAnimator returns an animator showing nothing.
func NewAnimator[P any](i Interpolator[P]) *Animator[P] {
	return &Animator[P]{interpolator: i, fraction: 1}
}

// Retarget starts a transition toward next from whatever is currently
// displayed, so that a transition interrupted mid-flight continues from its
// current positions.
func (a *Animator[P]) Retarget(next *DrawingModel[P]) {
	a.from = a.Current()
	a.to = next
	a.fraction = 0
}

// SetFraction advances the transition. The fraction is clamped to [0, 1].
func (a *Animator[P]) SetFraction(f float32) {
	a.fraction = clamp(f, 0, 1)
}

// Fraction returns the current progress of the transition.
func (a *Animator[P]) Fraction() float32 { return a.fraction }

// Current returns the drawing model to display.
func (a *Animator[P]) Current() *DrawingModel[P] {
	return a.interpolator.Interpolate(a.from, a.to, a.fraction)
}

// Transformer is implemented by layers that animate between models.
type Transformer interface {
	// PrepareForTransformation computes the drawing model for the layer's
	// model m and starts a transition toward it. m is nil when the layer
	// has no model.
	PrepareForTransformation(m model.LayerModel, values ChartValues, state *store.MutableExtraStore)
	// Transform advances the transition and publishes the resulting
	// drawing model into state.
	Transform(state *store.MutableExtraStore, fraction float32)
}

// animate implements Transformer for layers whose drawing model is stored
// under key, with the animator kept under animKey.
func animate[P any](state *store.MutableExtraStore, animKey store.Key[*Animator[P]], key store.Key[*DrawingModel[P]], interp Interpolator[P], next *DrawingModel[P]) {
	a, ok := store.Get(state.ExtraStore, animKey)
	if !ok {
		a = NewAnimator(interp)
		store.Set(state, animKey, a)
	}
	a.Retarget(next)
	store.Set(state, key, a.Current())
}

func transform[P any](state *store.MutableExtraStore, animKey store.Key[*Animator[P]], key store.Key[*DrawingModel[P]], fraction float32) {
	a, ok := store.Get(state.ExtraStore, animKey)
	if !ok {
		return
	}
	a.SetFraction(fraction)
	store.Set(state, key, a.Current())
}

package cartesian

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func lineDrawing(zeroY float32, points map[float64]float32) *DrawingModel[LinePoint] {
	s := make(map[float64]LinePoint, len(points))
	for x, y := range points {
		s[x] = LinePoint{Y: y}
	}
	return &DrawingModel[LinePoint]{Series: []map[float64]LinePoint{s}, ZeroY: zeroY, Opacity: 1}
}

func TestInterpolatorEndpoints(t *testing.T) {
	interp := LinePointInterpolator()
	old := lineDrawing(1, map[float64]float32{0: 0.2, 1: 0.4})
	next := lineDrawing(1, map[float64]float32{1: 0.8, 2: 1})

	if got := interp.Interpolate(old, next, 0); got != old {
		t.Errorf("expected the old model at fraction 0")
	}
	if got := interp.Interpolate(old, next, 1); got != next {
		t.Errorf("expected the new model at fraction 1")
	}

	mid := interp.Interpolate(old, next, 0.5)
	want := map[float64]LinePoint{
		// Shared entries blend.
		1: {Y: 0.6},
		// New entries grow from the zero line, removed ones shrink toward
		// it.
		2: {Y: 0.5},
		0: {Y: 0.1},
	}
	if diff := cmp.Diff(want, mid.Series[0], cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("unexpected midpoint (-want +got):\n%s", diff)
	}
}

func TestInterpolatorFadesInFromNothing(t *testing.T) {
	interp := ColumnPointInterpolator()
	next := &DrawingModel[ColumnPoint]{
		Series:  []map[float64]ColumnPoint{{0: {Height: 0.5}}},
		ZeroY:   1,
		Opacity: 1,
	}
	got := interp.Interpolate(nil, next, 0.5)
	if got.Opacity != 0.5 {
		t.Errorf("expected opacity 0.5, got %v", got.Opacity)
	}
	if h := got.Series[0][0].Height; h != 0.25 {
		t.Errorf("expected height 0.25, got %v", h)
	}
	if interp.Interpolate(nil, nil, 0.5) != nil {
		t.Errorf("expected nothing to interpolate to nothing")
	}
}

func TestAnimatorRetargetsFromCurrent(t *testing.T) {
	a := NewAnimator(LinePointInterpolator())
	a.Retarget(lineDrawing(1, map[float64]float32{0: 0}))
	a.SetFraction(1)
	a.Retarget(lineDrawing(1, map[float64]float32{0: 1}))
	a.SetFraction(0.5)
	approx(t, "halfway", a.Current().Series[0][0].Y, 0.5)

	// An interrupted transition continues from where it was.
	a.Retarget(lineDrawing(1, map[float64]float32{0: 0}))
	approx(t, "restart", a.Current().Series[0][0].Y, 0.5)
	a.SetFraction(2)
	if a.Fraction() != 1 {
		t.Errorf("expected the fraction to be clamped, got %v", a.Fraction())
	}
	approx(t, "end", a.Current().Series[0][0].Y, 0)
}

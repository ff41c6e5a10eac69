package cartesian

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func valuesFor(minX, maxX, minY, maxY float64) ChartValues {
	b := NewChartValuesBuilder(nil)
	b.TryUpdate(minX, maxX, minY, maxY, PositionUnset)
	return b.Freeze()
}

func mustStepPlacer(t *testing.T, step float64) VerticalItemPlacer {
	t.Helper()
	p, err := NewStepItemPlacer(step, true)
	if err != nil {
		t.Fatalf("building step placer: %v", err)
	}
	return p
}

func mustCountPlacer(t *testing.T, count int) VerticalItemPlacer {
	t.Helper()
	p, err := NewCountItemPlacer(count, true)
	if err != nil {
		t.Fatalf("building count placer: %v", err)
	}
	return p
}

func TestVerticalItemPlacer(t *testing.T) {
	type testcase struct {
		name        string
		placer      VerticalItemPlacer
		minY, maxY  float64
		axisHeight  float32
		labelHeight float32
		expected    []float64
	}
	for _, tc := range []testcase{
		{
			name:   "step fits",
			placer: mustStepPlacer(t, 10), maxY: 100,
			axisHeight: 500, labelHeight: 10,
			expected: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		{
			name:   "step widened to a divisor",
			placer: mustStepPlacer(t, 10), maxY: 100,
			axisHeight: 100, labelHeight: 30,
			expected: []float64{0, 50, 100},
		},
		{
			name:   "step across zero",
			placer: mustStepPlacer(t, 10), minY: -20, maxY: 80,
			axisHeight: 1000, labelHeight: 10,
			expected: []float64{-20, -10, 0, 10, 20, 30, 40, 50, 60, 70, 80},
		},
		{
			name:   "count",
			placer: mustCountPlacer(t, 5), maxY: 100,
			axisHeight: 500, labelHeight: 10,
			expected: []float64{0, 25, 50, 75, 100},
		},
		{
			name:   "count without label height",
			placer: mustCountPlacer(t, 3), maxY: 100,
			axisHeight: 500,
			expected: []float64{0, 50, 100},
		},
		{
			name:   "single count",
			placer: mustCountPlacer(t, 1), maxY: 100,
			axisHeight: 500, labelHeight: 10,
			expected: []float64{0},
		},
		{
			name:   "count across zero without label height",
			placer: mustCountPlacer(t, 5), minY: -4, maxY: 4,
			axisHeight: 500,
			expected: []float64{-4, -2, 0, 2, 4},
		},
		{
			name:   "count across zero split by share",
			placer: mustCountPlacer(t, 5), minY: -10, maxY: 30,
			axisHeight: 500,
			expected: []float64{-10, 0, 10, 20, 30},
		},
		{
			name:   "count across zero with a rounding leftover",
			placer: mustCountPlacer(t, 4), minY: -4, maxY: 4,
			axisHeight: 500,
			expected: []float64{-4, 0, 2, 4},
		},
		{
			name:   "unbounded count without label height",
			placer: UnboundedCountItemPlacer(true), maxY: 100,
			axisHeight: 500,
			expected: []float64{0, 100},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := measureContext(400, 600)
			ctx.Values = valuesFor(0, 10, tc.minY, tc.maxY)
			got := tc.placer.WidthMeasurementLabelValues(ctx, tc.axisHeight, tc.labelHeight, PositionUnset)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("unexpected values (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDivisors(t *testing.T) {
	for n, expected := range map[int][]int{
		0:  nil,
		1:  nil,
		2:  {1},
		4:  {1, 2},
		12: {1, 2, 3, 4, 6},
		13: {1},
		36: {1, 2, 3, 4, 6, 9, 12, 18},
	} {
		if diff := cmp.Diff(expected, divisors(n)); diff != "" {
			t.Errorf("divisors of %d (-want +got):\n%s", n, diff)
		}
	}
	// Large quotients stay cheap to enumerate.
	if got := divisors(100_000_000); len(got) != 80 {
		t.Errorf("expected 80 proper divisors of 1e8, got %d", len(got))
	}
}

func TestPlacerValidation(t *testing.T) {
	if _, err := NewStepItemPlacer(0, false); !errors.Is(err, errNonPositiveStep) {
		t.Errorf("expected a zero step to be rejected, got %v", err)
	}
	if _, err := NewCountItemPlacer(0, false); !errors.Is(err, errNonPositiveCount) {
		t.Errorf("expected a zero count to be rejected, got %v", err)
	}
	if _, err := NewHorizontalItemPlacer(0, 0, true, true); !errors.Is(err, errInvalidSpacing) {
		t.Errorf("expected a zero spacing to be rejected, got %v", err)
	}
	if _, err := NewHorizontalItemPlacer(1, -1, true, true); err == nil {
		t.Errorf("expected a negative offset to be rejected")
	}
}

func TestHorizontalLabelValues(t *testing.T) {
	type testcase struct {
		name       string
		labelWidth float32
		expected   []float64
	}
	for _, tc := range []testcase{
		{name: "every step", labelWidth: 50, expected: []float64{0, 1, 2, 3, 4}},
		{name: "widened for wide labels", labelWidth: 250, expected: []float64{0, 3, 6}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &DrawContext{
				MeasureContext: measureContext(400, 300),
				LayerBounds:    Rect{Right: 300, Bottom: 300},
				Dimensions:     HorizontalDimensions{XSpacing: 100},
			}
			ctx.Values = valuesFor(0, 10, 0, 1)
			got := DefaultHorizontalItemPlacer().LabelValues(ctx, 0, 3, tc.labelWidth)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("unexpected values (-want +got):\n%s", diff)
			}
		})
	}
}

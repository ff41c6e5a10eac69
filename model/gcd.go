package model

import (
	"fmt"
	"math"
)

const (
	gcdPrecision = 4
	gcdThreshold = 1e-4
)

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// floatGCD computes the greatest common divisor of two non-negative values,
// treating remainders below 1e-4 as zero.
func floatGCD(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	for math.Abs(b) >= gcdThreshold {
		a, b = b, a-math.Floor(a/b)*b
	}
	return a
}

// gcdAccumulator folds consecutive x values of one or more series into the
// GCD of their deltas.
type gcdAccumulator struct {
	gcd   float64
	found bool
}

// series adds the deltas of one ascending series. It reports ErrUnsorted when
// xs is not ascending.
func (g *gcdAccumulator) series(n int, x func(int) float64) error {
	for i := 1; i < n; i++ {
		prev, next := x(i-1), x(i)
		if next < prev {
			return fmt.Errorf("x[%d]=%v follows x[%d]=%v: %w", i, next, i-1, prev, ErrUnsorted)
		}
		if next == prev {
			continue
		}
		g.add(next - prev)
	}
	return nil
}

func (g *gcdAccumulator) add(delta float64) {
	delta = roundTo(math.Abs(delta), gcdPrecision)
	if !g.found {
		g.gcd = delta
		g.found = true
		return
	}
	g.gcd = floatGCD(g.gcd, delta)
}

func (g *gcdAccumulator) result() (float64, error) {
	if !g.found {
		return 1, nil
	}
	gcd := roundTo(g.gcd, gcdPrecision)
	if gcd == 0 {
		return 0, ErrTooPrecise
	}
	return gcd, nil
}

// XDeltaGCD returns the greatest common divisor of the deltas between
// consecutive values of the given ascending x series. It returns 1 when there
// are fewer than two distinct values, and ErrTooPrecise when the values have
// more than four decimal places of precision.
func XDeltaGCD(series ...[]float64) (float64, error) {
	var acc gcdAccumulator
	for _, xs := range series {
		if err := acc.series(len(xs), func(i int) float64 { return xs[i] }); err != nil {
			return 0, err
		}
	}
	return acc.result()
}

// combineGCD folds per-layer steps into one.
func combineGCD(steps ...float64) float64 {
	var acc gcdAccumulator
	for _, s := range steps {
		if s > 0 {
			acc.add(s)
		}
	}
	gcd, err := acc.result()
	if err != nil {
		return 1
	}
	return gcd
}

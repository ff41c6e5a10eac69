package model

import (
	"context"
	"math/rand"
)

// FloatRange is a closed range of floats.
type FloatRange struct {
	Min, Max float64
}

func (r FloatRange) random(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func (r FloatRange) clamp(v float64) float64 {
	return min(max(v, r.Min), r.Max)
}

// RandomGenerator produces random layer data, mostly for demos and tests.
// The zero value is not usable; use NewRandomGenerator.
type RandomGenerator struct {
	Rand *rand.Rand
	// XCount is the number of entries per series, at x = 0..XCount-1.
	XCount         int
	Y              FloatRange
	OpenCloseRange FloatRange
	LowHighRange   FloatRange
}

// NewRandomGenerator returns a generator with the default ranges.
func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{
		Rand:           rand.New(rand.NewSource(seed)),
		XCount:         97,
		Y:              FloatRange{Min: 2, Max: 20},
		OpenCloseRange: FloatRange{Min: 5, Max: 15},
		LowHighRange:   FloatRange{Min: .5, Max: 5},
	}
}

func (g *RandomGenerator) ys() []float64 {
	ys := make([]float64, g.XCount)
	for i := range ys {
		ys[i] = g.Y.random(g.Rand)
	}
	return ys
}

// LineSeries returns seriesCount random line series.
func (g *RandomGenerator) LineSeries(seriesCount int) [][]LineEntry {
	out := make([][]LineEntry, seriesCount)
	for s := range out {
		for x, y := range g.ys() {
			out[s] = append(out[s], LineEntry{X: float64(x), Y: y})
		}
	}
	return out
}

// ColumnSeries returns seriesCount random column series.
func (g *RandomGenerator) ColumnSeries(seriesCount int) [][]ColumnEntry {
	out := make([][]ColumnEntry, seriesCount)
	for s := range out {
		for x, y := range g.ys() {
			out[s] = append(out[s], ColumnEntry{X: float64(x), Y: y})
		}
	}
	return out
}

// Candlesticks returns a random walk of candles. Each candle opens or closes
// at one of the previous candle's body edges.
func (g *RandomGenerator) Candlesticks() []CandlestickEntry {
	entries := make([]CandlestickEntry, 0, g.XCount)
	var prev *CandlestickEntry
	for x := 0; x < g.XCount; x++ {
		anchor := g.Y.random(g.Rand)
		if prev != nil {
			anchor = prev.Open
			if g.Rand.Intn(2) == 0 {
				anchor = prev.Close
			}
		}
		anchor = g.OpenCloseRange.clamp(anchor)
		e := CandlestickEntry{X: float64(x)}
		if g.Rand.Intn(2) == 0 {
			e.Open = anchor
			e.Close = anchor + g.LowHighRange.random(g.Rand)
		} else {
			e.Close = anchor
			e.Open = anchor + g.LowHighRange.random(g.Rand)
		}
		e.Low = min(e.Open, e.Close) - g.LowHighRange.random(g.Rand)
		e.High = max(e.Open, e.Close) + g.LowHighRange.random(g.Rand)
		entries = append(entries, e)
		prev = &entries[len(entries)-1]
	}
	return entries
}

// Build returns a transaction builder that adds a column layer followed by a
// line layer, and a candlestick layer when candles is set.
func (g *RandomGenerator) Build(columnSeries, lineSeries int, candles bool) func(context.Context, *Transaction) error {
	return func(ctx context.Context, tx *Transaction) error {
		if columnSeries > 0 {
			tx.Columns(g.ColumnSeries(columnSeries)...)
		}
		if lineSeries > 0 {
			tx.Line(g.LineSeries(lineSeries)...)
		}
		if candles {
			tx.Candlesticks(g.Candlesticks())
		}
		return ctx.Err()
	}
}

package model

import (
	"fmt"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// CandlestickEntry is one open/close/low/high quadruple.
type CandlestickEntry struct {
	X                      float64
	Open, Close, Low, High float64
}

// Direction classifies how a candle's price moved.
type Direction uint8

const (
	Neutral Direction = iota
	Bullish
	Bearish
)

// Direction reports whether the candle closed above, below or at its open.
func (e CandlestickEntry) Direction() Direction {
	switch {
	case e.Close > e.Open:
		return Bullish
	case e.Close < e.Open:
		return Bearish
	default:
		return Neutral
	}
}

// CandlestickModel holds the entries rendered by a candlestick layer.
type CandlestickModel struct {
	layerBase
	Entries []CandlestickEntry
}

var _ LayerModel = (*CandlestickModel)(nil)

// NewCandlestickModel builds a candlestick model. Entries must be sorted by x.
func NewCandlestickModel(entries []CandlestickEntry) (*CandlestickModel, error) {
	return newCandlestickModel(store.ExtraStore{}, entries)
}

func newCandlestickModel(extras store.ExtraStore, entries []CandlestickEntry) (*CandlestickModel, error) {
	m := &CandlestickModel{Entries: entries}
	m.extras = extras
	m.bounds = emptyBounds()
	m.entryCount = len(entries)
	var acc gcdAccumulator
	if err := acc.series(len(entries), func(i int) float64 { return entries[i].X }); err != nil {
		return nil, fmt.Errorf("candlesticks: %w", err)
	}
	h := newHasher('k')
	for i, e := range entries {
		if e.Low > e.High || min(e.Open, e.Close) < e.Low || max(e.Open, e.Close) > e.High {
			return nil, fmt.Errorf("candlestick %d at x=%v: %w", i, e.X, ErrInvalidCandle)
		}
		m.bounds = m.bounds.merge(Bounds{MinX: e.X, MaxX: e.X, MinY: e.Low, MaxY: e.High})
		h.float(e.X)
		h.float(e.Open)
		h.float(e.Close)
		h.float(e.Low)
		h.float(e.High)
	}
	gcd, err := acc.result()
	if err != nil {
		return nil, fmt.Errorf("candlestick model: %w", err)
	}
	m.gcd = gcd
	m.id = h.sum()
	return m, nil
}

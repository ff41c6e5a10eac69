package model

import (
	"fmt"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// ColumnEntry is one column of a column series.
type ColumnEntry struct {
	X, Y float64
}

// ColumnModel holds the series rendered by a column layer.
type ColumnModel struct {
	layerBase
	Series [][]ColumnEntry
	// MinAggregateY and MaxAggregateY are the extremes of the per-x sums of
	// negative and positive values, used when columns are stacked.
	MinAggregateY, MaxAggregateY float64
}

var _ LayerModel = (*ColumnModel)(nil)

// NewColumnModel builds a column model. Each series must be sorted by x.
func NewColumnModel(series ...[]ColumnEntry) (*ColumnModel, error) {
	return newColumnModel(store.ExtraStore{}, series)
}

func newColumnModel(extras store.ExtraStore, series [][]ColumnEntry) (*ColumnModel, error) {
	m := &ColumnModel{Series: series}
	m.extras = extras
	m.bounds = emptyBounds()
	var acc gcdAccumulator
	h := newHasher('c')
	positive := map[float64]float64{}
	negative := map[float64]float64{}
	for si, s := range series {
		if err := acc.series(len(s), func(i int) float64 { return s[i].X }); err != nil {
			return nil, fmt.Errorf("column series %d: %w", si, err)
		}
		h.uint(uint64(len(s)))
		for _, e := range s {
			m.bounds = m.bounds.merge(Bounds{MinX: e.X, MaxX: e.X, MinY: e.Y, MaxY: e.Y})
			if e.Y >= 0 {
				positive[e.X] += e.Y
			} else {
				negative[e.X] += e.Y
			}
			h.float(e.X)
			h.float(e.Y)
		}
		m.entryCount = max(m.entryCount, len(s))
	}
	for _, sum := range positive {
		m.MaxAggregateY = max(m.MaxAggregateY, sum)
	}
	for _, sum := range negative {
		m.MinAggregateY = min(m.MinAggregateY, sum)
	}
	gcd, err := acc.result()
	if err != nil {
		return nil, fmt.Errorf("column model: %w", err)
	}
	m.gcd = gcd
	m.id = h.sum()
	return m, nil
}

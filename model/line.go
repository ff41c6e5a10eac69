package model

import (
	"fmt"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

// LineEntry is one point of a line series.
type LineEntry struct {
	X, Y float64
}

// LineModel holds the series rendered by a line layer.
type LineModel struct {
	layerBase
	Series [][]LineEntry
}

var _ LayerModel = (*LineModel)(nil)

// NewLineModel builds a line model. Each series must be sorted by x.
func NewLineModel(series ...[]LineEntry) (*LineModel, error) {
	return newLineModel(store.ExtraStore{}, series)
}

func newLineModel(extras store.ExtraStore, series [][]LineEntry) (*LineModel, error) {
	m := &LineModel{Series: series}
	m.extras = extras
	m.bounds = emptyBounds()
	var acc gcdAccumulator
	h := newHasher('l')
	for si, s := range series {
		if err := acc.series(len(s), func(i int) float64 { return s[i].X }); err != nil {
			return nil, fmt.Errorf("line series %d: %w", si, err)
		}
		h.uint(uint64(len(s)))
		for _, e := range s {
			m.bounds = m.bounds.merge(Bounds{MinX: e.X, MaxX: e.X, MinY: e.Y, MaxY: e.Y})
			h.float(e.X)
			h.float(e.Y)
		}
		m.entryCount = max(m.entryCount, len(s))
	}
	gcd, err := acc.result()
	if err != nil {
		return nil, fmt.Errorf("line model: %w", err)
	}
	m.gcd = gcd
	m.id = h.sum()
	return m, nil
}

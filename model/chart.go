package model

import (
	"git.sr.ht/~whereswaldon/cartesian/store"
)

// ChartModel is the ordered list of layer models rendered by one chart. The
// nth layer model is drawn by the chart's nth layer.
type ChartModel struct {
	Layers []LayerModel
	id     uint64
	bounds Bounds
	gcd    float64
	extras store.ExtraStore
}

// NewChartModel combines layer models into a chart model.
func NewChartModel(layers ...LayerModel) *ChartModel {
	m := &ChartModel{Layers: layers, gcd: 1}
	if len(layers) == 0 {
		return m
	}
	m.bounds = emptyBounds()
	h := newHasher('m')
	steps := make([]float64, 0, len(layers))
	for _, l := range layers {
		m.bounds = m.bounds.merge(l.Bounds())
		h.uint(l.ID())
		steps = append(steps, l.XDeltaGCD())
	}
	m.id = h.sum()
	m.gcd = combineGCD(steps...)
	return m
}

// ID identifies the model's content across updates.
func (m *ChartModel) ID() uint64 { return m.id }

// Bounds merges the bounds of every layer model.
func (m *ChartModel) Bounds() Bounds { return m.bounds }

func (m *ChartModel) MinX() float64 { return m.bounds.MinX }
func (m *ChartModel) MaxX() float64 { return m.bounds.MaxX }
func (m *ChartModel) MinY() float64 { return m.bounds.MinY }
func (m *ChartModel) MaxY() float64 { return m.bounds.MaxY }

// XDeltaGCD combines the x steps of every layer model.
func (m *ChartModel) XDeltaGCD() float64 { return m.gcd }

// Extras holds side-channel data attached by the transaction that built the
// model.
func (m *ChartModel) Extras() store.ExtraStore { return m.extras }

// Empty reports whether the model has no layers.
func (m *ChartModel) Empty() bool { return m == nil || len(m.Layers) == 0 }

// EntryCount is the largest entry count across layers.
func (m *ChartModel) EntryCount() int {
	n := 0
	for _, l := range m.Layers {
		n = max(n, l.EntryCount())
	}
	return n
}

// WithExtras returns a copy of the model carrying the given extras.
func (m *ChartModel) WithExtras(extras store.ExtraStore) *ChartModel {
	c := *m
	c.extras = extras
	return &c
}

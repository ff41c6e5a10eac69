package model

import (
	"context"
	"fmt"

	"git.sr.ht/~whereswaldon/cartesian/store"
)

type partial interface {
	complete(extras store.ExtraStore) (LayerModel, error)
}

type linePartial [][]LineEntry

func (p linePartial) complete(extras store.ExtraStore) (LayerModel, error) {
	return newLineModel(extras, p)
}

type columnPartial [][]ColumnEntry

func (p columnPartial) complete(extras store.ExtraStore) (LayerModel, error) {
	return newColumnModel(extras, p)
}

type candlestickPartial []CandlestickEntry

func (p candlestickPartial) complete(extras store.ExtraStore) (LayerModel, error) {
	return newCandlestickModel(extras, p)
}

// Transaction collects the layers and extras of the next chart model. Layers
// are committed in the order they were added.
type Transaction struct {
	partials []partial
	extras   store.MutableExtraStore
}

// Line adds a line layer made of the given series.
func (t *Transaction) Line(series ...[]LineEntry) {
	t.partials = append(t.partials, linePartial(series))
}

// LineY adds a line layer whose x values are the indices of the y values.
func (t *Transaction) LineY(series ...[]float64) {
	converted := make([][]LineEntry, len(series))
	for i, ys := range series {
		converted[i] = make([]LineEntry, len(ys))
		for x, y := range ys {
			converted[i][x] = LineEntry{X: float64(x), Y: y}
		}
	}
	t.Line(converted...)
}

// Columns adds a column layer made of the given series.
func (t *Transaction) Columns(series ...[]ColumnEntry) {
	t.partials = append(t.partials, columnPartial(series))
}

// ColumnsY adds a column layer whose x values are the indices of the y values.
func (t *Transaction) ColumnsY(series ...[]float64) {
	converted := make([][]ColumnEntry, len(series))
	for i, ys := range series {
		converted[i] = make([]ColumnEntry, len(ys))
		for x, y := range ys {
			converted[i][x] = ColumnEntry{X: float64(x), Y: y}
		}
	}
	t.Columns(converted...)
}

// Candlesticks adds a candlestick layer.
func (t *Transaction) Candlesticks(entries []CandlestickEntry) {
	t.partials = append(t.partials, candlestickPartial(entries))
}

// SetExtra attaches a value to the committed model and each of its layer
// models.
func SetExtra[T any](t *Transaction, k store.Key[T], v T) {
	store.Set(&t.extras, k, v)
}

// Commit builds the chart model. It stops early if ctx is cancelled.
func (t *Transaction) Commit(ctx context.Context) (*ChartModel, error) {
	extras := t.extras.Freeze()
	layers := make([]LayerModel, 0, len(t.partials))
	for i, p := range t.partials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l, err := p.complete(extras)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, l)
	}
	return NewChartModel(layers...).WithExtras(extras), nil
}

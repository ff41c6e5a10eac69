// Package model holds the immutable data models rendered by cartesian charts
// and the machinery that produces them off the UI goroutine.
package model

import (
	"encoding/binary"
	"errors"
	"math"

	"git.sr.ht/~whereswaldon/cartesian/store"
	"github.com/cespare/xxhash/v2"
)

var (
	// ErrTooPrecise is returned when the x values of a model have more than
	// four decimal places of precision.
	ErrTooPrecise = errors.New("the x values are too precise; the maximum precision is four decimal places")
	// ErrUnsorted is returned when the x values of a series are not in
	// ascending order.
	ErrUnsorted = errors.New("x values must be sorted in ascending order")
	// ErrInvalidCandle is returned for candlesticks whose low exceeds their
	// high, or whose body lies outside of the wick.
	ErrInvalidCandle = errors.New("candlestick low/high do not contain its body")
)

// Bounds are the extremes of a model's values.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Empty reports whether the bounds hold no values. Empty bounds are NaN.
func (b Bounds) Empty() bool {
	return math.IsNaN(b.MinX)
}

func (b Bounds) merge(o Bounds) Bounds {
	if o.Empty() {
		return b
	}
	if b.Empty() {
		return o
	}
	return Bounds{
		MinX: min(b.MinX, o.MinX),
		MaxX: max(b.MaxX, o.MaxX),
		MinY: min(b.MinY, o.MinY),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

func emptyBounds() Bounds {
	nan := math.NaN()
	return Bounds{MinX: nan, MaxX: nan, MinY: nan, MaxY: nan}
}

// LayerModel is the data rendered by one cartesian layer.
type LayerModel interface {
	// ID identifies the model's content. Models built from identical
	// entries share an ID.
	ID() uint64
	Bounds() Bounds
	MinX() float64
	MaxX() float64
	MinY() float64
	MaxY() float64
	// XDeltaGCD is the greatest common divisor of the deltas between
	// consecutive x values, or 1 when there are fewer than two distinct x
	// values.
	XDeltaGCD() float64
	// Extras holds side-channel data attached to the model.
	Extras() store.ExtraStore
	// EntryCount is the number of entries in the longest series.
	EntryCount() int
}

type layerBase struct {
	id         uint64
	bounds     Bounds
	gcd        float64
	extras     store.ExtraStore
	entryCount int
}

func (l *layerBase) ID() uint64               { return l.id }
func (l *layerBase) Bounds() Bounds           { return l.bounds }
func (l *layerBase) MinX() float64            { return l.bounds.MinX }
func (l *layerBase) MaxX() float64            { return l.bounds.MaxX }
func (l *layerBase) MinY() float64            { return l.bounds.MinY }
func (l *layerBase) MaxY() float64            { return l.bounds.MaxY }
func (l *layerBase) XDeltaGCD() float64       { return l.gcd }
func (l *layerBase) Extras() store.ExtraStore { return l.extras }
func (l *layerBase) EntryCount() int          { return l.entryCount }

// hasher accumulates the content hash that becomes a model's ID.
type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher(kind byte) *hasher {
	h := &hasher{d: xxhash.New()}
	_, _ = h.d.Write([]byte{kind})
	return h
}

func (h *hasher) float(v float64) {
	binary.LittleEndian.PutUint64(h.buf[:], math.Float64bits(v))
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) uint(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) sum() uint64 {
	return h.d.Sum64()
}

// Package source feeds chart models from CSV data and periodic generators.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

// Kind selects the layer a table's value columns feed.
type Kind uint8

const (
	// KindLine turns every value column into a line series.
	KindLine Kind = iota
	// KindColumns turns every value column into a column series.
	KindColumns
	// KindCandlesticks reads open, close, low and high columns, in that
	// order.
	KindCandlesticks
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindColumns:
		return "columns"
	case KindCandlesticks:
		return "candlesticks"
	default:
		panic(fmt.Sprintf("unexpected table kind %d", uint8(k)))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindLine, KindColumns, KindCandlesticks} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown table kind %q", s)
}

var (
	// ErrNoData is returned when building a table without any values.
	ErrNoData   = errors.New("table has no values")
	errHeadings = errors.New("table needs an x column and at least one value column")
)

// Table accumulates CSV records. The first column holds x values; every
// other column holds the y values of one series. Empty cells are skipped.
type Table struct {
	Kind Kind
	// Headings names the value columns.
	Headings []string
	xs       []float64
	// values[i] holds the values of column i+1, NaN for empty cells.
	values [][]float64
}

// NewTable starts a table from a CSV heading record.
func NewTable(kind Kind, headings []string) (*Table, error) {
	if len(headings) < 2 {
		return nil, errHeadings
	}
	if kind == KindCandlesticks && len(headings) != 5 {
		return nil, fmt.Errorf("candlestick table needs x, open, close, low and high columns, got %d columns", len(headings))
	}
	t := &Table{Kind: kind, values: make([][]float64, len(headings)-1)}
	for _, h := range headings[1:] {
		t.Headings = append(t.Headings, strings.TrimSpace(h))
	}
	return t, nil
}

// Len is the number of records appended.
func (t *Table) Len() int { return len(t.xs) }

// Append parses one record. A malformed record leaves the table unchanged.
func (t *Table) Append(record []string) error {
	if len(record) != len(t.values)+1 {
		return fmt.Errorf("expected %d fields, got %d", len(t.values)+1, len(record))
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return fmt.Errorf("failed parsing x %q: %w", record[0], err)
	}
	row := make([]float64, len(t.values))
	for i, cell := range record[1:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			if t.Kind == KindCandlesticks {
				return fmt.Errorf("candlestick %s is empty", t.Headings[i])
			}
			row[i] = math.NaN()
			continue
		}
		if row[i], err = strconv.ParseFloat(cell, 64); err != nil {
			return fmt.Errorf("failed parsing %s=%q: %w", t.Headings[i], cell, err)
		}
	}
	t.xs = append(t.xs, x)
	for i, v := range row {
		t.values[i] = append(t.values[i], v)
	}
	return nil
}

// series returns the non-empty cells of value column i.
func (t *Table) series(i int) [][2]float64 {
	var out [][2]float64
	for j, y := range t.values[i] {
		if !math.IsNaN(y) {
			out = append(out, [2]float64{t.xs[j], y})
		}
	}
	return out
}

// Build adds the table's layer to tx. It has the signature of a producer
// transaction builder.
func (t *Table) Build(ctx context.Context, tx *model.Transaction) error {
	switch t.Kind {
	case KindLine:
		var all [][]model.LineEntry
		for i := range t.values {
			var entries []model.LineEntry
			for _, p := range t.series(i) {
				entries = append(entries, model.LineEntry{X: p[0], Y: p[1]})
			}
			if len(entries) > 0 {
				all = append(all, entries)
			}
		}
		if len(all) == 0 {
			return ErrNoData
		}
		tx.Line(all...)
	case KindColumns:
		var all [][]model.ColumnEntry
		for i := range t.values {
			var entries []model.ColumnEntry
			for _, p := range t.series(i) {
				entries = append(entries, model.ColumnEntry{X: p[0], Y: p[1]})
			}
			if len(entries) > 0 {
				all = append(all, entries)
			}
		}
		if len(all) == 0 {
			return ErrNoData
		}
		tx.Columns(all...)
	case KindCandlesticks:
		if t.Len() == 0 {
			return ErrNoData
		}
		entries := make([]model.CandlestickEntry, t.Len())
		for j, x := range t.xs {
			entries[j] = model.CandlestickEntry{
				X:     x,
				Open:  t.values[0][j],
				Close: t.values[1][j],
				Low:   t.values[2][j],
				High:  t.values[3][j],
			}
		}
		tx.Candlesticks(entries)
	default:
		panic(fmt.Sprintf("unexpected table kind %d", uint8(t.Kind)))
	}
	return ctx.Err()
}

func newCSVReader(r io.Reader) *csv.Reader {
	c := csv.NewReader(r)
	c.TrimLeadingSpace = true
	c.FieldsPerRecord = -1
	c.Comment = '#'
	return c
}

// ReadTable reads a whole CSV document. Malformed records are errors.
func ReadTable(r io.Reader, kind Kind) (*Table, error) {
	c := newCSVReader(r)
	headings, err := c.Read()
	if err != nil {
		return nil, fmt.Errorf("failed reading CSV headings: %w", err)
	}
	t, err := NewTable(kind, headings)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := c.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed reading CSV record: %w", err)
		}
		if err := t.Append(rec); err != nil {
			line, _ := c.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
}

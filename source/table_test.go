package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"git.sr.ht/~whereswaldon/cartesian/model"
)

func commit(t *testing.T, table *Table) *model.ChartModel {
	t.Helper()
	var tx model.Transaction
	if err := table.Build(context.Background(), &tx); err != nil {
		t.Fatalf("failed building transaction: %v", err)
	}
	m, err := tx.Commit(context.Background())
	if err != nil {
		t.Fatalf("failed committing transaction: %v", err)
	}
	return m
}

func TestReadLineTable(t *testing.T) {
	in := `x, a, b
# comment
0, 1, 10
1, 2,
2, 3, 30
`
	table, err := ReadTable(strings.NewReader(in), KindLine)
	if err != nil {
		t.Fatalf("failed reading table: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, table.Headings); diff != "" {
		t.Errorf("headings (-want +got):\n%s", diff)
	}
	if table.Len() != 3 {
		t.Errorf("expected 3 records, got %d", table.Len())
	}
	m := commit(t, table)
	if len(m.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(m.Layers))
	}
	line, ok := m.Layers[0].(*model.LineModel)
	if !ok {
		t.Fatalf("expected a line model, got %T", m.Layers[0])
	}
	expected := [][]model.LineEntry{
		{{X: 0, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 3}},
		{{X: 0, Y: 10}, {X: 2, Y: 30}},
	}
	if diff := cmp.Diff(expected, line.Series); diff != "" {
		t.Errorf("series (-want +got):\n%s", diff)
	}
	if m.MaxY() != 30 {
		t.Errorf("expected max y 30, got %v", m.MaxY())
	}
}

func TestReadColumnTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader("x,a\n0,4\n2,6\n"), KindColumns)
	if err != nil {
		t.Fatalf("failed reading table: %v", err)
	}
	m := commit(t, table)
	col, ok := m.Layers[0].(*model.ColumnModel)
	if !ok {
		t.Fatalf("expected a column model, got %T", m.Layers[0])
	}
	if diff := cmp.Diff([][]model.ColumnEntry{{{X: 0, Y: 4}, {X: 2, Y: 6}}}, col.Series); diff != "" {
		t.Errorf("series (-want +got):\n%s", diff)
	}
	if m.XDeltaGCD() != 2 {
		t.Errorf("expected x step 2, got %v", m.XDeltaGCD())
	}
}

func TestReadCandlestickTable(t *testing.T) {
	in := "x,open,close,low,high\n0,1,2,0.5,3\n1,2,1,1,2.5\n"
	table, err := ReadTable(strings.NewReader(in), KindCandlesticks)
	if err != nil {
		t.Fatalf("failed reading table: %v", err)
	}
	m := commit(t, table)
	c, ok := m.Layers[0].(*model.CandlestickModel)
	if !ok {
		t.Fatalf("expected a candlestick model, got %T", m.Layers[0])
	}
	expected := []model.CandlestickEntry{
		{X: 0, Open: 1, Close: 2, Low: 0.5, High: 3},
		{X: 1, Open: 2, Close: 1, Low: 1, High: 2.5},
	}
	if diff := cmp.Diff(expected, c.Entries); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestTableErrors(t *testing.T) {
	type testcase struct {
		in   string
		kind Kind
	}
	for name, tc := range map[string]testcase{
		"no headings":       {in: "", kind: KindLine},
		"only x":            {in: "x\n0\n", kind: KindLine},
		"bad x":             {in: "x,a\nzero,1\n", kind: KindLine},
		"bad value":         {in: "x,a\n0,one\n", kind: KindLine},
		"short record":      {in: "x,a,b\n0,1\n", kind: KindColumns},
		"candle columns":    {in: "x,open,close\n0,1,2\n", kind: KindCandlesticks},
		"empty candle cell": {in: "x,open,close,low,high\n0,1,,0,3\n", kind: KindCandlesticks},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadTable(strings.NewReader(tc.in), tc.kind); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestAppendLeavesTableOnError(t *testing.T) {
	table, err := NewTable(KindLine, []string{"x", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if err := table.Append([]string{"0", "nope"}); err == nil {
		t.Fatalf("expected an error")
	}
	if table.Len() != 0 {
		t.Errorf("expected no records, got %d", table.Len())
	}
	var tx model.Transaction
	if err := table.Build(context.Background(), &tx); !errors.Is(err, ErrNoData) {
		t.Errorf("expected %v, got %v", ErrNoData, err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindLine, KindColumns, KindCandlesticks} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("expected %v, got %v (%v)", k, got, err)
		}
	}
	if _, err := ParseKind("pie"); err == nil {
		t.Errorf("expected an error for an unknown kind")
	}
}

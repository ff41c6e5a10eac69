package store

import (
	"sync"
	"testing"
)

func TestExtraStore(t *testing.T) {
	a := NewKey[int]("a")
	b := NewKey[string]("b")
	sameName := NewKey[int]("a")

	var s MutableExtraStore
	if _, ok := Get(s.ExtraStore, a); ok {
		t.Errorf("expected empty store to miss")
	}
	Set(&s, a, 42)
	Set(&s, b, "hello")
	if v, ok := Get(s.ExtraStore, a); !ok || v != 42 {
		t.Errorf("expected 42, got %v (ok=%v)", v, ok)
	}
	if _, ok := Get(s.ExtraStore, sameName); ok {
		t.Errorf("keys with equal names must not alias")
	}

	frozen := s.Freeze()
	Set(&s, a, 7)
	if v, _ := Get(frozen, a); v != 42 {
		t.Errorf("expected frozen snapshot to keep 42, got %d", v)
	}

	Remove(&s, b)
	if _, ok := Get(s.ExtraStore, b); ok {
		t.Errorf("expected removed key to miss")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected cleared store to be empty, got %d values", s.Len())
	}
}

func TestExtraStoreMerge(t *testing.T) {
	k := NewKey[float64]("k")
	var base, over MutableExtraStore
	Set(&base, k, 1)
	Set(&over, k, 2)
	merged := base.Freeze().Merge(over.Freeze())
	if v, _ := Get(merged, k); v != 2 {
		t.Errorf("expected merged value 2, got %v", v)
	}
	if v, _ := Get(base.ExtraStore, k); v != 1 {
		t.Errorf("merge must not mutate its receiver, got %v", v)
	}
}

func TestCacheStore(t *testing.T) {
	c := NewCacheStore()
	ns := NewNamespace("test")
	other := NewNamespace("other")
	calls := 0
	compute := func() []float64 {
		calls++
		return []float64{1, 2, 3}
	}
	GetOrSet(c, ns, compute, 1.0, 2.0, true)
	GetOrSet(c, ns, compute, 1.0, 2.0, true)
	if calls != 1 {
		t.Errorf("expected one computation, got %d", calls)
	}
	GetOrSet(c, ns, compute, 1.0, 2.5, true)
	GetOrSet(c, other, compute, 1.0, 2.0, true)
	if calls != 3 {
		t.Errorf("expected differing keys and namespaces to miss, got %d computations", calls)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 3 {
		t.Errorf("expected 1 hit and 3 misses, got %d and %d", hits, misses)
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("expected purged cache to be empty, got %d", c.Len())
	}
	GetOrSet(c, ns, compute, 1.0, 2.0, true)
	if calls != 4 {
		t.Errorf("expected purge to force recomputation, got %d computations", calls)
	}
}

func TestNilCacheStore(t *testing.T) {
	var c *CacheStore
	calls := 0
	for i := 0; i < 3; i++ {
		GetOrSet(c, NewNamespace("nil"), func() int { calls++; return calls })
	}
	if calls != 3 {
		t.Errorf("expected nil cache to always compute, got %d", calls)
	}
	c.Purge()
}

func TestCacheStoreConcurrent(t *testing.T) {
	c := NewCacheStore()
	ns := NewNamespace("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := GetOrSet(c, ns, func() int { return j * 2 }, j)
				if got != j*2 {
					t.Errorf("expected %d, got %d", j*2, got)
				}
			}
		}(i)
	}
	wg.Wait()
}

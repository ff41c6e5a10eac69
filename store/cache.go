package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

var namespaceCounter atomic.Uint64

// Namespace separates the cached values of unrelated computations that might
// otherwise be keyed by identical inputs.
type Namespace struct {
	id   uint64
	name string
}

// NewNamespace allocates a new, unique namespace.
func NewNamespace(name string) Namespace {
	return Namespace{id: namespaceCounter.Add(1), name: name}
}

func (n Namespace) String() string {
	return n.name
}

type cacheEntry struct {
	ns    uint64
	keys  []any
	value any
}

// CacheStore memoizes computations for the duration of a frame. It is safe
// for concurrent use. A nil *CacheStore caches nothing.
type CacheStore struct {
	mu      sync.Mutex
	entries map[uint64]cacheEntry
	hits    int
	misses  int
}

// NewCacheStore returns an empty cache.
func NewCacheStore() *CacheStore {
	return &CacheStore{entries: make(map[uint64]cacheEntry)}
}

// GetOrSet returns the value previously computed for the given namespace and
// keys, invoking compute (outside of the cache's lock) on a miss. Keys must be
// comparable.
func GetOrSet[T any](c *CacheStore, ns Namespace, compute func() T, keys ...any) T {
	if c == nil {
		return compute()
	}
	h := hashKeys(ns, keys)
	c.mu.Lock()
	if e, ok := c.entries[h]; ok && e.ns == ns.id && sameKeys(e.keys, keys) {
		c.hits++
		c.mu.Unlock()
		return e.value.(T)
	}
	c.misses++
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[uint64]cacheEntry)
	}
	c.entries[h] = cacheEntry{ns: ns.id, keys: append([]any(nil), keys...), value: v}
	return v
}

// Purge drops every cached value. It is invoked at the end of every frame.
func (c *CacheStore) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached values.
func (c *CacheStore) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats reports the hit and miss counts since the cache was created.
func (c *CacheStore) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func sameKeys(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hashKeys(ns Namespace, keys []any) uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	put(ns.id)
	for _, k := range keys {
		switch k := k.(type) {
		case nil:
			_, _ = d.Write([]byte{0})
		case bool:
			if k {
				_, _ = d.Write([]byte{1, 1})
			} else {
				_, _ = d.Write([]byte{1, 0})
			}
		case int:
			_, _ = d.Write([]byte{2})
			put(uint64(k))
		case int64:
			_, _ = d.Write([]byte{3})
			put(uint64(k))
		case uint64:
			_, _ = d.Write([]byte{4})
			put(k)
		case float32:
			_, _ = d.Write([]byte{5})
			put(uint64(math.Float32bits(k)))
		case float64:
			_, _ = d.Write([]byte{6})
			put(math.Float64bits(k))
		case string:
			_, _ = d.Write([]byte{7})
			_, _ = d.WriteString(k)
		default:
			_, _ = d.Write([]byte{8})
			_, _ = fmt.Fprintf(d, "%#v", k)
		}
	}
	return d.Sum64()
}

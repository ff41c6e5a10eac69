// Package store provides the auxiliary stores shared by chart models and the
// measure/draw pipeline: a typed key-value extra store attached to models and
// a memoizing cache that is purged at the end of every frame.
package store

import "fmt"

type keyID struct {
	name string
}

// Key identifies a value of type T inside an ExtraStore. Keys compare by
// identity: two calls to NewKey never produce equal keys, even with the same
// name.
type Key[T any] struct {
	id *keyID
}

// NewKey allocates a new key. The name is only used for debugging.
func NewKey[T any](name string) Key[T] {
	return Key[T]{id: &keyID{name: name}}
}

func (k Key[T]) String() string {
	if k.id == nil {
		return "store.Key(<nil>)"
	}
	return fmt.Sprintf("store.Key(%s)", k.id.name)
}

// ExtraStore is a read-only view of side-channel values. The zero value is an
// empty store.
type ExtraStore struct {
	values map[*keyID]any
}

// Get returns the value stored under k.
func Get[T any](s ExtraStore, k Key[T]) (T, bool) {
	v, ok := s.values[k.id]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Len returns the number of stored values.
func (s ExtraStore) Len() int {
	return len(s.values)
}

// Merge returns a new store holding the values of both stores. Values in other
// win over values in s.
func (s ExtraStore) Merge(other ExtraStore) ExtraStore {
	if len(other.values) == 0 {
		return s
	}
	merged := make(map[*keyID]any, len(s.values)+len(other.values))
	for k, v := range s.values {
		merged[k] = v
	}
	for k, v := range other.values {
		merged[k] = v
	}
	return ExtraStore{values: merged}
}

// MutableExtraStore is an ExtraStore that can be written to. It must not be
// shared between goroutines without synchronization.
type MutableExtraStore struct {
	ExtraStore
}

// Set stores v under k, replacing any previous value.
func Set[T any](s *MutableExtraStore, k Key[T], v T) {
	if s.values == nil {
		s.values = make(map[*keyID]any)
	}
	s.values[k.id] = v
}

// Remove deletes the value stored under k, if any.
func Remove[T any](s *MutableExtraStore, k Key[T]) {
	delete(s.values, k.id)
}

// Clear removes every value.
func (s *MutableExtraStore) Clear() {
	clear(s.values)
}

// Freeze returns an immutable snapshot of the current contents.
func (s *MutableExtraStore) Freeze() ExtraStore {
	if len(s.values) == 0 {
		return ExtraStore{}
	}
	snapshot := make(map[*keyID]any, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return ExtraStore{values: snapshot}
}

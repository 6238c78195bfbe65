package ordered

import (
	"sort"
)

// Slice is an Index stored as a slice sorted by key. Lookups are binary
// searches; inserts and removals shift the tail, so it suits small sets.
type Slice[K, V any] struct {
	entries []Entry[K, V]
	compare Compare[K]
}

// NewSlice returns an empty sorted-slice index.
func NewSlice[K, V any](compare Compare[K]) *Slice[K, V] {
	return &Slice[K, V]{compare: compare}
}

// search returns the index of the first entry with key >= key.
func (s *Slice[K, V]) search(key K) int {
	return sort.Search(len(s.entries), func(i int) bool {
		return s.compare(s.entries[i].Key, key) >= 0
	})
}

func (s *Slice[K, V]) found(i int, key K) bool {
	return i < len(s.entries) && s.compare(s.entries[i].Key, key) == 0
}

func (s *Slice[K, V]) Get(key K) (V, bool) {
	i := s.search(key)
	if !s.found(i, key) {
		var zero V
		return zero, false
	}
	return s.entries[i].Value, true
}

func (s *Slice[K, V]) Insert(key K, value V) {
	i := s.search(key)
	if s.found(i, key) {
		s.entries[i] = Entry[K, V]{Key: key, Value: value}
		return
	}
	s.entries = append(s.entries, Entry[K, V]{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = Entry[K, V]{Key: key, Value: value}
}

func (s *Slice[K, V]) Remove(key K) (V, bool) {
	i := s.search(key)
	if !s.found(i, key) {
		var zero V
		return zero, false
	}
	v := s.entries[i].Value
	n := len(s.entries)
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	clear(s.entries[len(s.entries):n])
	return v, true
}

func (s *Slice[K, V]) Predecessor(key K) (Entry[K, V], bool) {
	i := s.search(key)
	if s.found(i, key) {
		return s.entries[i], true
	}
	if i == 0 {
		return Entry[K, V]{}, false
	}
	return s.entries[i-1], true
}

func (s *Slice[K, V]) Successor(key K) (Entry[K, V], bool) {
	i := s.search(key)
	if i == len(s.entries) {
		return Entry[K, V]{}, false
	}
	return s.entries[i], true
}

func (s *Slice[K, V]) DeleteRange(lo, hi K) []Entry[K, V] {
	if s.compare(lo, hi) > 0 {
		return nil
	}
	i := s.search(lo)
	j := sort.Search(len(s.entries), func(n int) bool {
		return s.compare(s.entries[n].Key, hi) > 0
	})
	if i >= j {
		return nil
	}
	doomed := make([]Entry[K, V], j-i)
	copy(doomed, s.entries[i:j])
	n := len(s.entries)
	s.entries = append(s.entries[:i], s.entries[j:]...)
	clear(s.entries[len(s.entries):n])
	return doomed
}

func (s *Slice[K, V]) Ascend(fn func(key K, value V) bool) {
	for _, e := range s.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

func (s *Slice[K, V]) Len() int {
	return len(s.entries)
}

package ordered

import (
	"fmt"
	"strings"
)

// Compare is a three-way comparison: negative when a < b, zero when equal
// and positive when a > b. cmp.Compare satisfies it for ordered builtins.
type Compare[K any] func(a, b K) int

// Entry is a single key/value pair stored in an Index.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Index is an ordered map from K to V.
//
// Implementations are not safe for concurrent use; callers that share an
// Index between goroutines must provide their own locking.
type Index[K, V any] interface {
	// Get returns the value stored under key.
	Get(key K) (V, bool)

	// Insert stores value under key, replacing any previous value.
	Insert(key K, value V)

	// Remove deletes key and returns the value it held.
	Remove(key K) (V, bool)

	// Predecessor returns the entry with the greatest key <= key.
	Predecessor(key K) (Entry[K, V], bool)

	// Successor returns the entry with the least key >= key.
	Successor(key K) (Entry[K, V], bool)

	// DeleteRange removes every entry whose key lies in the closed range
	// [lo, hi] and returns them in ascending key order.
	DeleteRange(lo, hi K) []Entry[K, V]

	// Ascend calls fn for every entry in ascending key order until fn
	// returns false.
	Ascend(fn func(key K, value V) bool)

	// Len returns the number of stored entries.
	Len() int
}

// Backend names an Index implementation.
type Backend string

const (
	// BackendBTree selects the B-tree backed index.
	BackendBTree Backend = "btree"

	// BackendSlice selects the sorted-slice index.
	BackendSlice Backend = "slice"
)

// DefaultDegree is the B-tree degree used when none is configured.
const DefaultDegree = 32

// String returns the backend name.
func (b Backend) String() string {
	return string(b)
}

// IsValid reports whether b names a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendBTree, BackendSlice:
		return true
	default:
		return false
	}
}

// ParseBackend converts a backend name to a Backend. The empty string
// selects BackendBTree.
func ParseBackend(s string) (Backend, error) {
	if s == "" {
		return BackendBTree, nil
	}
	b := Backend(strings.ToLower(s))
	if !b.IsValid() {
		return "", fmt.Errorf("invalid index backend: %q (valid: btree, slice)", s)
	}
	return b, nil
}

// New returns an empty Index of the given backend. degree is only used by
// BackendBTree; values below 2 fall back to DefaultDegree.
func New[K, V any](backend Backend, degree int, compare Compare[K]) Index[K, V] {
	if backend == BackendSlice {
		return NewSlice[K, V](compare)
	}
	return NewBTree[K, V](degree, compare)
}

// Entries collects every entry of idx in ascending key order.
func Entries[K, V any](idx Index[K, V]) []Entry[K, V] {
	out := make([]Entry[K, V], 0, idx.Len())
	idx.Ascend(func(key K, value V) bool {
		out = append(out, Entry[K, V]{Key: key, Value: value})
		return true
	})
	return out
}

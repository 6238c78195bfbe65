package ordered

import (
	"github.com/google/btree"
)

// BTree is an Index backed by a generic B-tree.
type BTree[K, V any] struct {
	tree    *btree.BTreeG[Entry[K, V]]
	compare Compare[K]
}

// NewBTree returns an empty B-tree index. A degree below 2 selects
// DefaultDegree.
func NewBTree[K, V any](degree int, compare Compare[K]) *BTree[K, V] {
	if degree < 2 {
		degree = DefaultDegree
	}
	less := func(a, b Entry[K, V]) bool {
		return compare(a.Key, b.Key) < 0
	}
	return &BTree[K, V]{
		tree:    btree.NewG[Entry[K, V]](degree, less),
		compare: compare,
	}
}

func (t *BTree[K, V]) pivot(key K) Entry[K, V] {
	return Entry[K, V]{Key: key}
}

func (t *BTree[K, V]) Get(key K) (V, bool) {
	e, ok := t.tree.Get(t.pivot(key))
	return e.Value, ok
}

func (t *BTree[K, V]) Insert(key K, value V) {
	t.tree.ReplaceOrInsert(Entry[K, V]{Key: key, Value: value})
}

func (t *BTree[K, V]) Remove(key K) (V, bool) {
	e, ok := t.tree.Delete(t.pivot(key))
	return e.Value, ok
}

func (t *BTree[K, V]) Predecessor(key K) (Entry[K, V], bool) {
	var (
		found Entry[K, V]
		ok    bool
	)
	t.tree.DescendLessOrEqual(t.pivot(key), func(e Entry[K, V]) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

func (t *BTree[K, V]) Successor(key K) (Entry[K, V], bool) {
	var (
		found Entry[K, V]
		ok    bool
	)
	t.tree.AscendGreaterOrEqual(t.pivot(key), func(e Entry[K, V]) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

// DeleteRange collects the doomed entries first; the tree must not be
// mutated while it is being iterated.
func (t *BTree[K, V]) DeleteRange(lo, hi K) []Entry[K, V] {
	if t.compare(lo, hi) > 0 {
		return nil
	}
	var doomed []Entry[K, V]
	t.tree.AscendGreaterOrEqual(t.pivot(lo), func(e Entry[K, V]) bool {
		if t.compare(e.Key, hi) > 0 {
			return false
		}
		doomed = append(doomed, e)
		return true
	})
	for _, e := range doomed {
		t.tree.Delete(e)
	}
	return doomed
}

func (t *BTree[K, V]) Ascend(fn func(key K, value V) bool) {
	t.tree.Ascend(func(e Entry[K, V]) bool {
		return fn(e.Key, e.Value)
	})
}

func (t *BTree[K, V]) Len() int {
	return t.tree.Len()
}

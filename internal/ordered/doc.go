// Package ordered provides the ordered associative index that the interval
// set is built on.
//
// An Index keeps entries sorted by key under a caller-supplied three-way
// comparison and answers predecessor/successor queries and closed-range
// deletions in logarithmic time. Two backends are provided:
//   - BTree, backed by github.com/google/btree (the default)
//   - Slice, a sorted slice searched with binary search, which is cheaper for
//     small sets and handy as an independent implementation in tests
//
// Callers select a backend by name through New, or construct one directly.
package ordered

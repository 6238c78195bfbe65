// Package domain validates, parses, orders and prints the values an
// interval set is built over.
//
// Validation happens here, once, before a value ever reaches the set:
// values that are not equal to themselves (NaN) have no position in a
// total order and are rejected with ErrNotComparable. Every other failure
// to construct a value is reported with one of the error kinds declared in
// errors.go, so callers can tell bad input apart from programming errors.
package domain

package domain

import (
	stderrors "errors"

	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrNotComparable is returned for values that fail reflexive equality.
	ErrNotComparable = errors.NewKind("value %v is not equal to itself and cannot be ordered")

	// ErrNotFinite is returned for infinite floats. Unbounded intervals are
	// not supported, so an infinity may not stand in for one.
	ErrNotFinite = errors.NewKind("value %v is not finite")

	// ErrUnparsable is returned when text is not a valid value of a kind.
	ErrUnparsable = errors.NewKind("cannot parse %q as a %s value")

	// ErrUnknownKind is returned by lookups of an unsupported value kind.
	ErrUnknownKind = errors.NewKind("unknown value kind %q (valid: int, float, decimal, string)")
)

// IsValueError reports whether err, or any error it wraps with %w, is one
// of the value construction errors of this package.
func IsValueError(err error) bool {
	return Is(err, ErrNotComparable, ErrNotFinite, ErrUnparsable)
}

// Is reports whether any error in err's %w chain is of one of the kinds.
// Kind.Is alone only follows causes attached with Kind.Wrap.
func Is(err error, kinds ...*errors.Kind) bool {
	for ; err != nil; err = stderrors.Unwrap(err) {
		for _, k := range kinds {
			if k.Is(err) {
				return true
			}
		}
	}
	return false
}

package intervalset

import (
	"fmt"
	"strings"
)

// Interval is a range of values with independently open or closed bounds.
// It is the argument type of Set.Add and the element type of Segments.
type Interval[T any] struct {
	Left      T
	Right     T
	LeftOpen  bool
	RightOpen bool
}

// NewInterval builds an interval from endpoints given in either order.
// When right < left the endpoints are swapped together with their open
// flags, so [5,1) becomes (1,5].
func NewInterval[T any](compare func(a, b T) int, left, right T, leftOpen, rightOpen bool) Interval[T] {
	if compare(right, left) < 0 {
		left, right = right, left
		leftOpen, rightOpen = rightOpen, leftOpen
	}
	return Interval[T]{Left: left, Right: right, LeftOpen: leftOpen, RightOpen: rightOpen}
}

// Closed builds the closed interval [left, right], swapping if needed.
func Closed[T any](compare func(a, b T) int, left, right T) Interval[T] {
	return NewInterval(compare, left, right, false, false)
}

// IsEmpty reports whether the interval holds no values: a single point
// with at least one open bound, or inverted endpoints.
func (iv Interval[T]) IsEmpty(compare func(a, b T) int) bool {
	c := compare(iv.Left, iv.Right)
	if c > 0 {
		return true
	}
	return c == 0 && (iv.LeftOpen || iv.RightOpen)
}

// IsPoint reports whether the interval is the single closed point [v,v].
func (iv Interval[T]) IsPoint(compare func(a, b T) int) bool {
	return compare(iv.Left, iv.Right) == 0 && !iv.LeftOpen && !iv.RightOpen
}

// Contains reports whether v lies within the interval, honouring open bounds.
func (iv Interval[T]) Contains(compare func(a, b T) int, v T) bool {
	l := compare(v, iv.Left)
	if l < 0 || (l == 0 && iv.LeftOpen) {
		return false
	}
	r := compare(v, iv.Right)
	return r < 0 || (r == 0 && !iv.RightOpen)
}

// Overlaps reports whether the two intervals share at least one value.
// [1,2] and [2,3] overlap at 2; [1,2) and [2,3] do not.
func (iv Interval[T]) Overlaps(compare func(a, b T) int, other Interval[T]) bool {
	if iv.IsEmpty(compare) || other.IsEmpty(compare) {
		return false
	}
	return reaches(compare, other.Right, other.RightOpen, iv.Left, iv.LeftOpen) &&
		reaches(compare, iv.Right, iv.RightOpen, other.Left, other.LeftOpen)
}

// reaches reports whether an upper bound lies at or beyond a lower bound
// such that some value satisfies both.
func reaches[T any](compare func(a, b T) int, upper T, upperOpen bool, lower T, lowerOpen bool) bool {
	c := compare(upper, lower)
	if upperOpen || lowerOpen {
		return c > 0
	}
	return c >= 0
}

// Format writes the interval in bracket notation using format for values,
// for example "[1,5)".
func (iv Interval[T]) Format(format func(T) string) string {
	var b strings.Builder
	writeInterval(&b, format, iv)
	return b.String()
}

// String prints the interval with fmt's default value formatting.
func (iv Interval[T]) String() string {
	return iv.Format(func(v T) string { return fmt.Sprint(v) })
}

func writeInterval[T any](b *strings.Builder, format func(T) string, iv Interval[T]) {
	if iv.LeftOpen {
		b.WriteByte('(')
	} else {
		b.WriteByte('[')
	}
	b.WriteString(format(iv.Left))
	b.WriteByte(',')
	b.WriteString(format(iv.Right))
	if iv.RightOpen {
		b.WriteByte(')')
	} else {
		b.WriteByte(']')
	}
}

package intervalset

import (
	"strings"

	"github.com/shinji-kodama/intervalset/internal/ordered"
)

// SingletonGlyph prefixes a lone value in the textual form. The glyph is
// shared by every singleton token regardless of how it came to be marked.
const SingletonGlyph = "≠"

// Segment is one token of the canonical form: either a run of members with
// open or closed bounds, or a lone member outside every interval.
type Segment[T any] struct {
	Interval[T]

	// Point is set for a lone member; Left and Right are then equal and
	// both bounds are closed.
	Point bool
}

// Segments walks markers and intervals together in ascending order and
// returns the set as maximal runs of members.
//
// A marker before an interval is a lone member. A marker at an interval's
// left edge opens it, one at the right edge closes it with an open bound,
// and one strictly inside splits it into two half-open runs.
func (s *Set[T]) Segments() []Segment[T] {
	points := ordered.Entries(s.points)
	var (
		out []Segment[T]
		pi  int
	)
	emit := func(iv Interval[T]) {
		if !iv.IsEmpty(s.compare) {
			out = append(out, Segment[T]{Interval: iv})
		}
	}

	s.intervals.Ascend(func(left, right T) bool {
		for pi < len(points) && s.compare(points[pi].Key, left) < 0 {
			out = append(out, pointSegment(points[pi].Key))
			pi++
		}

		run := Interval[T]{Left: left, Right: right}
		if pi < len(points) && s.compare(points[pi].Key, left) == 0 {
			run.LeftOpen = true
			pi++
		}
		closed := false
		for pi < len(points) && s.compare(points[pi].Key, right) <= 0 {
			p := points[pi].Key
			pi++
			if s.compare(p, right) == 0 {
				run.RightOpen = true
				emit(run)
				closed = true
				break
			}
			emit(Interval[T]{Left: run.Left, Right: p, LeftOpen: run.LeftOpen, RightOpen: true})
			run.Left, run.LeftOpen = p, true
		}
		if !closed {
			emit(run)
		}
		return true
	})

	for ; pi < len(points); pi++ {
		out = append(out, pointSegment(points[pi].Key))
	}
	return out
}

func pointSegment[T any](v T) Segment[T] {
	return Segment[T]{Interval: Interval[T]{Left: v, Right: v}, Point: true}
}

// Format prints the segment as one token without the trailing comma, for
// example "≠0" or "[1,5)".
func (seg Segment[T]) Format(format func(T) string) string {
	if seg.Point {
		return SingletonGlyph + format(seg.Left)
	}
	return seg.Interval.Format(format)
}

// String renders the set in its canonical textual form, every token
// followed by a comma:
//
//	≠0,[1,5),(5,10],
//
// The empty set renders as the empty string. The form is meant for
// debugging and golden tests, not as an interchange format.
func (s *Set[T]) String() string {
	return FormatSegments(s.Segments(), s.format)
}

// FormatSegments renders segments with the same grammar as Set.String.
func FormatSegments[T any](segments []Segment[T], format func(T) string) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Format(format))
		b.WriteByte(',')
	}
	return b.String()
}

// Format prints a single value with the set's formatter.
func (s *Set[T]) Format(v T) string {
	return s.format(v)
}

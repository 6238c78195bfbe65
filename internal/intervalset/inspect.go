package intervalset

import (
	"fmt"
)

// Rule names the structural invariant a Violation breaks.
type Rule string

const (
	// RuleCanonical: stored intervals are well formed, ordered, and neither
	// overlap nor touch.
	RuleCanonical Rule = "canonical-intervals"

	// RuleMarker: every marker contradicts what coverage alone implies.
	RuleMarker Rule = "redundant-marker"
)

// Violation describes one broken invariant found by Validate.
type Violation struct {
	Rule    Rule
	Message string
}

// Error implements the error interface.
func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// Intervals returns the stored closed ranges in ascending order, without
// the markers applied. Use Segments for the effective membership.
func (s *Set[T]) Intervals() []Interval[T] {
	out := make([]Interval[T], 0, s.intervals.Len())
	s.intervals.Ascend(func(left, right T) bool {
		out = append(out, Interval[T]{Left: left, Right: right})
		return true
	})
	return out
}

// MarkerEntry is a stored singleton override.
type MarkerEntry[T any] struct {
	Value  T
	Marker Marker
}

// Markers returns the stored singleton overrides in ascending order.
func (s *Set[T]) Markers() []MarkerEntry[T] {
	out := make([]MarkerEntry[T], 0, s.points.Len())
	s.points.Ascend(func(v T, m Marker) bool {
		out = append(out, MarkerEntry[T]{Value: v, Marker: m})
		return true
	})
	return out
}

// Covering returns the stored closed range that contains v, whether or not
// v itself is punched out by a marker.
func (s *Set[T]) Covering(v T) (Interval[T], bool) {
	e, ok := s.covering(v)
	if !ok {
		return Interval[T]{}, false
	}
	return Interval[T]{Left: e.Key, Right: e.Value}, true
}

// Validate scans both stores and reports every broken invariant. A set
// only mutated through its methods always validates clean; a non-empty
// result points at a bug or at a misbehaving injected index.
func (s *Set[T]) Validate() []Violation {
	var violations []Violation

	var (
		prev    Interval[T]
		hasPrev bool
	)
	s.intervals.Ascend(func(left, right T) bool {
		cur := Interval[T]{Left: left, Right: right}
		if s.compare(left, right) > 0 {
			violations = append(violations, Violation{
				Rule:    RuleCanonical,
				Message: fmt.Sprintf("interval %s has left > right", cur.Format(s.format)),
			})
		}
		if hasPrev && s.compare(prev.Right, left) >= 0 {
			violations = append(violations, Violation{
				Rule: RuleCanonical,
				Message: fmt.Sprintf("intervals %s and %s overlap or touch",
					prev.Format(s.format), cur.Format(s.format)),
			})
		}
		prev, hasPrev = cur, true
		return true
	})

	s.points.Ascend(func(v T, m Marker) bool {
		covered := s.Classify(v).Covered()
		switch {
		case m == Include && covered:
			violations = append(violations, Violation{
				Rule:    RuleMarker,
				Message: fmt.Sprintf("include marker at %s lies inside an interval", s.format(v)),
			})
		case m == Exclude && !covered:
			violations = append(violations, Violation{
				Rule:    RuleMarker,
				Message: fmt.Sprintf("exclude marker at %s lies outside every interval", s.format(v)),
			})
		case m != Include && m != Exclude:
			violations = append(violations, Violation{
				Rule:    RuleMarker,
				Message: fmt.Sprintf("marker at %s has unknown status %d", s.format(v), int(m)),
			})
		}
		return true
	})

	return violations
}

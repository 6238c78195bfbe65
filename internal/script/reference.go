package script

import (
	"github.com/shinji-kodama/intervalset/internal/intervalset"
	"github.com/shinji-kodama/intervalset/internal/model"
)

// Step is an operation with its values parsed into the script's domain.
type Step[T any] struct {
	Op model.OperationKind

	// Interval is meaningful when IsInterval is set; Point otherwise.
	Interval   intervalset.Interval[T]
	Point      T
	IsInterval bool
}

// Apply performs the step on s.
func (st Step[T]) Apply(s *intervalset.Set[T]) {
	switch {
	case st.IsInterval:
		s.Add(st.Interval)
	case st.Op == model.OpAdd:
		s.AddPoint(st.Point)
	default:
		s.RemovePoint(st.Point)
	}
}

// Reference decides membership by replaying every step against the single
// value asked about. It keeps no structure at all, so it shares no code
// path with Set beyond Interval.Contains, and serves as the oracle that
// Verify checks a Set against.
type Reference[T any] struct {
	compare func(a, b T) int
	steps   []Step[T]
}

// NewReference returns an evaluator for steps ordered by compare.
func NewReference[T any](compare func(a, b T) int, steps []Step[T]) *Reference[T] {
	return &Reference[T]{compare: compare, steps: steps}
}

// Contains reports whether v is a member after all steps.
func (r *Reference[T]) Contains(v T) bool {
	member := false
	for _, st := range r.steps {
		switch {
		case st.IsInterval:
			if st.Interval.Contains(r.compare, v) {
				member = true
			}
		case r.compare(st.Point, v) == 0:
			member = st.Op == model.OpAdd
		}
	}
	return member
}

// Boundaries returns every value a step mentions: interval endpoints and
// points, in step order and possibly repeated.
func (r *Reference[T]) Boundaries() []T {
	out := make([]T, 0, 2*len(r.steps))
	for _, st := range r.steps {
		if st.IsInterval {
			out = append(out, st.Interval.Left, st.Interval.Right)
		} else {
			out = append(out, st.Point)
		}
	}
	return out
}

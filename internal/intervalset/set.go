package intervalset

import (
	"cmp"
	"fmt"

	"github.com/shinji-kodama/intervalset/internal/ordered"
)

// Set is a subset of a totally ordered domain. The zero value is not
// usable; construct one with New or NewOrdered.
type Set[T any] struct {
	compare   func(a, b T) int
	format    func(T) string
	intervals ordered.Index[T, T]
	points    ordered.Index[T, Marker]
}

// options collects the settings applied by Option values.
type options[T any] struct {
	backend   ordered.Backend
	degree    int
	format    func(T) string
	intervals ordered.Index[T, T]
	points    ordered.Index[T, Marker]
}

// Option configures a Set at construction time.
type Option[T any] func(*options[T])

// WithBackend selects the ordered index implementation for both stores.
// degree only applies to the B-tree backend.
func WithBackend[T any](backend ordered.Backend, degree int) Option[T] {
	return func(o *options[T]) {
		o.backend = backend
		o.degree = degree
	}
}

// WithFormatter sets how values are printed by String and Segments users.
// The default is fmt.Sprint.
func WithFormatter[T any](format func(T) string) Option[T] {
	return func(o *options[T]) {
		o.format = format
	}
}

// WithIndexes injects ready-made, empty indexes for the interval and point
// stores. Both must order keys by the compare function given to New.
func WithIndexes[T any](intervals ordered.Index[T, T], points ordered.Index[T, Marker]) Option[T] {
	return func(o *options[T]) {
		o.intervals = intervals
		o.points = points
	}
}

// New returns an empty Set ordered by compare.
func New[T any](compare func(a, b T) int, opts ...Option[T]) *Set[T] {
	o := options[T]{
		backend: ordered.BackendBTree,
		format:  func(v T) string { return fmt.Sprint(v) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.intervals == nil {
		o.intervals = ordered.New[T, T](o.backend, o.degree, compare)
	}
	if o.points == nil {
		o.points = ordered.New[T, Marker](o.backend, o.degree, compare)
	}
	return &Set[T]{
		compare:   compare,
		format:    o.format,
		intervals: o.intervals,
		points:    o.points,
	}
}

// NewOrdered returns an empty Set over a builtin ordered type. Float NaN
// must be filtered out by the caller before it reaches the set.
func NewOrdered[T cmp.Ordered](opts ...Option[T]) *Set[T] {
	return New(cmp.Compare[T], opts...)
}

// covering returns the stored interval whose range contains v.
func (s *Set[T]) covering(v T) (ordered.Entry[T, T], bool) {
	e, ok := s.intervals.Predecessor(v)
	if !ok || s.compare(e.Value, v) < 0 {
		return ordered.Entry[T, T]{}, false
	}
	return e, true
}

// Classify reports the status of v: one predecessor lookup in the interval
// store plus one lookup in the point store.
func (s *Set[T]) Classify(v T) PointStatus {
	_, covered := s.covering(v)
	marker, marked := s.points.Get(v)
	if covered {
		if marked && marker == Exclude {
			return Excluded
		}
		return Inside
	}
	if marked && marker == Include {
		return Included
	}
	return Outside
}

// Contains reports whether v is a member of the set.
func (s *Set[T]) Contains(v T) bool {
	return s.Classify(v).Contained()
}

// AddPoint adds the single value v. Adding a member is a no-op.
func (s *Set[T]) AddPoint(v T) {
	switch s.Classify(v) {
	case Outside:
		s.points.Insert(v, Include)
	case Excluded:
		// Dropping the exclusion re-exposes the covering interval.
		s.points.Remove(v)
	}
}

// RemovePoint removes the single value v. Removing a non-member is a no-op.
func (s *Set[T]) RemovePoint(v T) {
	switch s.Classify(v) {
	case Included:
		s.points.Remove(v)
	case Inside:
		e, _ := s.covering(v)
		if s.compare(e.Key, e.Value) == 0 {
			// [v,v] minus v is empty; drop the interval rather than store
			// a range that holds nothing.
			s.intervals.Remove(e.Key)
			return
		}
		s.points.Insert(v, Exclude)
	}
}

// AddInterval unions the interval between left and right into the set.
// Endpoints may be given in either order. An empty interval (a single
// point with an open bound) leaves the set unchanged.
func (s *Set[T]) AddInterval(left, right T, leftOpen, rightOpen bool) {
	s.Add(NewInterval(s.compare, left, right, leftOpen, rightOpen))
}

// Add unions iv into the set.
//
// The stored intervals overlapping or touching [iv.Left, iv.Right] are
// merged into one closed range, markers inside [iv.Left, iv.Right] are
// superseded by the new coverage, and open bounds of iv are then realized
// as Exclude markers where the bound value was not already a member.
// Markers between an absorbed interval's edge and iv's edge are exclusions
// that remain inside the merged range and are kept.
func (s *Set[T]) Add(iv Interval[T]) {
	if iv.IsEmpty(s.compare) {
		return
	}

	// The bound statuses must be taken before anything moves.
	leftStatus := s.Classify(iv.Left)
	rightStatus := s.Classify(iv.Right)

	newLeft := iv.Left
	if e, ok := s.covering(iv.Left); ok {
		newLeft = e.Key
	}
	newRight := iv.Right
	if e, ok := s.covering(iv.Right); ok {
		newRight = e.Value
	}

	s.intervals.DeleteRange(newLeft, newRight)
	s.points.DeleteRange(iv.Left, iv.Right)
	s.intervals.Insert(newLeft, newRight)

	s.reconcileBound(iv.Left, leftStatus, iv.LeftOpen)
	s.reconcileBound(iv.Right, rightStatus, iv.RightOpen)
}

// reconcileBound restores the membership of an interval bound after Add
// has cleared the markers under the new range. A closed bound is now simply
// covered, which is what union asks for. An open bound must stay out of the
// set unless it was already a member before the union.
func (s *Set[T]) reconcileBound(bound T, before PointStatus, open bool) {
	if !open {
		return
	}
	switch before {
	case Outside, Excluded:
		s.points.Insert(bound, Exclude)
	case Included, Inside:
		// Union never retracts a member.
	}
}

// Len returns the number of stored intervals and markers.
func (s *Set[T]) Len() (intervals, markers int) {
	return s.intervals.Len(), s.points.Len()
}

// IsEmpty reports whether nothing is stored. A set whose intervals are
// entirely punched out by markers is not considered empty.
func (s *Set[T]) IsEmpty() bool {
	return s.intervals.Len() == 0 && s.points.Len() == 0
}

// Compare exposes the order the set was built with.
func (s *Set[T]) Compare(a, b T) int {
	return s.compare(a, b)
}

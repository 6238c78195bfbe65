// Package intervalset implements a mutable subset of a totally ordered
// domain, stored as a disjoint union of closed intervals plus singleton
// overrides.
//
// Two ordered indexes back a Set:
//
//	intervals: left -> right        closed ranges, never overlapping or touching
//	points:    value -> Include|Exclude
//
// A marker's meaning depends on where it sits. Include markers only exist
// outside every interval and add a lone value to the set; Exclude markers
// only exist inside an interval and punch a single value out of it. Open
// interval bounds are never stored on the interval itself: adding (1,10]
// stores the closed range [1,10] plus an Exclude marker at 1.
//
// Two invariants hold after every operation:
//   - canonical intervals: for stored intervals i < j, right_i < left_j
//   - no redundant markers: every marker contradicts what interval coverage
//     alone would say about its value
//
// Only ordering is required of the value type; no arithmetic is ever
// performed on values, which lets the set describe float or arbitrary
// precision domains where enumerating members is impossible.
//
// A Set is not safe for concurrent use. Each method updates both indexes
// and must be treated as one atomic unit by callers that share a Set.
package intervalset

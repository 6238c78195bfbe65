package intervalset

// Marker is the status stored with a singleton override.
type Marker int

const (
	// Include forces a value outside every interval into the set.
	Include Marker = iota + 1

	// Exclude punches a value inside an interval out of the set.
	Exclude
)

// String returns "include" or "exclude".
func (m Marker) String() string {
	switch m {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "unknown"
	}
}

// PointStatus classifies a value against the current contents of a Set.
type PointStatus int

const (
	// Outside: not covered by any interval and not marked.
	Outside PointStatus = iota

	// Included: not covered by any interval, forced in by an Include marker.
	Included

	// Inside: covered by an interval with no override.
	Inside

	// Excluded: covered by an interval, punched out by an Exclude marker.
	Excluded
)

// String returns the lower-case status name.
func (s PointStatus) String() string {
	switch s {
	case Outside:
		return "outside"
	case Included:
		return "included"
	case Inside:
		return "inside"
	case Excluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Contained reports whether a value with this status is a member of the set.
func (s PointStatus) Contained() bool {
	return s == Included || s == Inside
}

// Covered reports whether a value with this status lies in a stored interval.
func (s PointStatus) Covered() bool {
	return s == Inside || s == Excluded
}

package script

import (
	"strconv"

	"github.com/shinji-kodama/intervalset/internal/domain"
	"github.com/shinji-kodama/intervalset/internal/intervalset"
	"github.com/shinji-kodama/intervalset/internal/ordered"
)

// Verify compares set with a replay of steps on every value where the two
// could plausibly disagree: each interval endpoint and point, the values
// right next to them, and any extra values given. Membership is checked
// three ways per sample: Set.Contains, the rendered segments, and the
// reference evaluator.
func Verify[T any](d domain.Domain[T], set *intervalset.Set[T], steps []Step[T], extra []T) *Verification {
	ref := NewReference(set.Compare, steps)

	samples := ordered.NewBTree[T, struct{}](ordered.DefaultDegree, set.Compare)
	add := func(v T) {
		samples.Insert(v, struct{}{})
		for _, n := range d.Around(v) {
			samples.Insert(n, struct{}{})
		}
	}
	for _, v := range ref.Boundaries() {
		add(v)
	}
	for _, v := range extra {
		add(v)
	}

	segments := set.Segments()
	out := &Verification{Samples: samples.Len()}
	samples.Ascend(func(v T, _ struct{}) bool {
		want := ref.Contains(v)
		if got := set.Contains(v); got != want {
			out.Mismatches = append(out.Mismatches, Mismatch{
				Check: "reference", Value: d.Format(v),
				Want: strconv.FormatBool(want), Got: strconv.FormatBool(got),
			})
		}
		if got := segmentsContain(set.Compare, segments, v); got != want {
			out.Mismatches = append(out.Mismatches, Mismatch{
				Check: "segments", Value: d.Format(v),
				Want: strconv.FormatBool(want), Got: strconv.FormatBool(got),
			})
		}
		return true
	})
	return out
}

func segmentsContain[T any](compare func(a, b T) int, segments []intervalset.Segment[T], v T) bool {
	for _, seg := range segments {
		if seg.Contains(compare, v) {
			return true
		}
	}
	return false
}

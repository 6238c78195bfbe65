package script

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shinji-kodama/intervalset/internal/domain"
	"github.com/shinji-kodama/intervalset/internal/intervalset"
	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/ordered"
)

// Options controls how a script is run.
type Options struct {
	// Kind is used when the script does not name one. Empty means int.
	Kind model.ValueKind

	// Backend and Degree select the ordered index behind the set.
	Backend ordered.Backend
	Degree  int

	// Verify additionally checks the set against the reference evaluator.
	Verify bool
}

// Probe is the status of one probe value after the operations ran.
type Probe struct {
	Value  string `json:"value"`
	Status string `json:"status"`
	Member bool   `json:"member"`
}

// Mismatch is one failed check: an expectation that did not hold, or a
// value on which the set and the reference evaluator disagree.
type Mismatch struct {
	// Check is "render", "contains" or "excludes" for expectations, and
	// "reference" or "segments" for verification.
	Check string `json:"check"`
	Value string `json:"value,omitempty"`
	Want  string `json:"want"`
	Got   string `json:"got"`
}

// String formats the mismatch for text output.
func (m Mismatch) String() string {
	if m.Value == "" {
		return fmt.Sprintf("%s: want %q, got %q", m.Check, m.Want, m.Got)
	}
	return fmt.Sprintf("%s %s: want %s, got %s", m.Check, m.Value, m.Want, m.Got)
}

// Verification summarises a comparison against the reference evaluator.
type Verification struct {
	// Samples is the number of distinct values compared.
	Samples    int        `json:"samples"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether the set agreed with the reference on every sample.
func (v *Verification) OK() bool {
	return len(v.Mismatches) == 0
}

// Result is the outcome of running a script.
type Result struct {
	Name    string          `json:"name"`
	Kind    model.ValueKind `json:"kind"`
	Backend ordered.Backend `json:"backend"`

	// Render is the canonical text of the final set.
	Render string `json:"render"`

	// Segments are the tokens of Render without separators.
	Segments []string `json:"segments"`

	// Intervals and Markers count the stored entries.
	Intervals int `json:"intervals"`
	Markers   int `json:"markers"`

	Probes []Probe `json:"probes,omitempty"`

	// Violations lists broken structural invariants. Always empty unless
	// the set implementation has a bug.
	Violations []string `json:"violations,omitempty"`

	// Failures lists expectations that did not hold.
	Failures []Mismatch `json:"failures,omitempty"`

	// Verification is set when Options.Verify was requested.
	Verification *Verification `json:"verification,omitempty"`
}

// Passed reports whether every expectation held and no invariant broke.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0 && len(r.Violations) == 0
}

// Run applies a script's operations to an empty set of the script's value
// kind and evaluates its probes and expectations.
//
// Value parse errors are returned wrapped with the offending field, and
// satisfy domain.IsValueError. Failed expectations are not errors; they
// are reported in Result.Failures.
func Run(s *Script, opts Options) (*Result, error) {
	kind := s.Kind
	if kind == "" {
		kind = opts.Kind
	}
	if kind == "" {
		kind = model.KindInt
	}
	if opts.Backend == "" {
		opts.Backend = ordered.BackendBTree
	}

	switch kind {
	case model.KindInt:
		return run[int64](domain.Int{}, s, opts)
	case model.KindFloat:
		return run[float64](domain.Float{}, s, opts)
	case model.KindDecimal:
		return run[decimal.Decimal](domain.Decimal{}, s, opts)
	case model.KindString:
		return run[string](domain.String{}, s, opts)
	default:
		return nil, domain.ErrUnknownKind.New(kind)
	}
}

func run[T any](d domain.Domain[T], s *Script, opts Options) (*Result, error) {
	steps, err := ParseSteps(d, s.Operations)
	if err != nil {
		return nil, err
	}

	set := intervalset.New(d.Compare,
		intervalset.WithBackend[T](opts.Backend, opts.Degree),
		intervalset.WithFormatter(d.Format),
	)
	for _, st := range steps {
		st.Apply(set)
	}

	res := &Result{
		Name:     s.Name,
		Kind:     d.Kind(),
		Backend:  opts.Backend,
		Render:   set.String(),
		Segments: []string{},
	}
	res.Intervals, res.Markers = set.Len()
	for _, seg := range set.Segments() {
		res.Segments = append(res.Segments, seg.Format(d.Format))
	}
	for _, v := range set.Validate() {
		res.Violations = append(res.Violations, v.Error())
	}

	probes, err := parseValues(d, "probes", s.Probes)
	if err != nil {
		return nil, err
	}
	for _, v := range probes {
		status := set.Classify(v)
		res.Probes = append(res.Probes, Probe{
			Value:  d.Format(v),
			Status: status.String(),
			Member: status.Contained(),
		})
	}

	if s.Expect != nil {
		failures, err := checkExpectation(d, set, s.Expect)
		if err != nil {
			return nil, err
		}
		res.Failures = failures
	}

	if opts.Verify {
		res.Verification = Verify(d, set, steps, probes)
	}
	return res, nil
}

// ParseSteps parses every operation's values with d.
func ParseSteps[T any](d domain.Domain[T], ops []Operation) ([]Step[T], error) {
	steps := make([]Step[T], 0, len(ops))
	for i, op := range ops {
		field := fmt.Sprintf("operations[%d]", i)
		st := Step[T]{Op: op.Op}

		if !op.IsInterval() {
			v, err := d.Parse(string(op.Point))
			if err != nil {
				return nil, fmt.Errorf("%s (%s): %w", field, op, err)
			}
			st.Point = v
			steps = append(steps, st)
			continue
		}

		if op.Op != model.OpAdd {
			return nil, ErrInvalidOperation.New(op.String(), "remove takes a single point, not an interval")
		}
		left, err := d.Parse(string(op.Left))
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", field, op, err)
		}
		right, err := d.Parse(string(op.Right))
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", field, op, err)
		}
		st.IsInterval = true
		st.Interval = intervalset.NewInterval(d.Compare, left, right, op.LeftOpen, op.RightOpen)
		steps = append(steps, st)
	}
	return steps, nil
}

func parseValues[T any](d domain.Domain[T], field string, values []Value) ([]T, error) {
	out := make([]T, 0, len(values))
	for i, raw := range values {
		v, err := d.Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func checkExpectation[T any](d domain.Domain[T], set *intervalset.Set[T], want *Expectation) ([]Mismatch, error) {
	var failures []Mismatch

	if want.Render != nil && *want.Render != set.String() {
		failures = append(failures, Mismatch{Check: "render", Want: *want.Render, Got: set.String()})
	}

	contains, err := parseValues(d, "expect.contains", want.Contains)
	if err != nil {
		return nil, err
	}
	for _, v := range contains {
		if !set.Contains(v) {
			failures = append(failures, Mismatch{
				Check: "contains", Value: d.Format(v), Want: "member", Got: set.Classify(v).String(),
			})
		}
	}

	excludes, err := parseValues(d, "expect.excludes", want.Excludes)
	if err != nil {
		return nil, err
	}
	for _, v := range excludes {
		if set.Contains(v) {
			failures = append(failures, Mismatch{
				Check: "excludes", Value: d.Format(v), Want: "non-member", Got: set.Classify(v).String(),
			})
		}
	}

	return failures, nil
}

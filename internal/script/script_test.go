package script

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/intervalset/internal/domain"
	"github.com/shinji-kodama/intervalset/internal/model"
	"github.com/shinji-kodama/intervalset/internal/ordered"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

// --- ParseOperation tests ---

// TestParseOperation covers the compact form, including negative values
// that need their own sign after the operation sign.
func TestParseOperation(t *testing.T) {
	tests := []struct {
		input string
		want  Operation
	}{
		{"+7", Operation{Op: model.OpAdd, Point: "7"}},
		{"-5", Operation{Op: model.OpRemove, Point: "5"}},
		{"+-3", Operation{Op: model.OpAdd, Point: "-3"}},
		{"--3", Operation{Op: model.OpRemove, Point: "-3"}},
		{" + 2.5 ", Operation{Op: model.OpAdd, Point: "2.5"}},
		{"+[1,10)", Operation{Op: model.OpAdd, Left: "1", Right: "10", RightOpen: true}},
		{"+(1, 10]", Operation{Op: model.OpAdd, Left: "1", Right: "10", LeftOpen: true}},
		{"+(a,b)", Operation{Op: model.OpAdd, Left: "a", Right: "b", LeftOpen: true, RightOpen: true}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOperation(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseOperation_Invalid verifies that malformed compact operations
// are rejected with ErrInvalidOperation.
func TestParseOperation_Invalid(t *testing.T) {
	for _, input := range []string{"", "7", "+", "-[1,2]", "+[1,2", "+[1,2,3]", "+[,2]", "*5"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseOperation(input)
			require.Error(t, err)
			assert.True(t, ErrInvalidOperation.Is(err), "got %v", err)
		})
	}
}

// TestOperation_String verifies that the compact form round-trips through
// String for both operation shapes.
func TestOperation_String(t *testing.T) {
	for _, input := range []string{"+7", "-5", "+[1,10)", "+(1,10]", "+(0,1)"} {
		op, err := ParseOperation(input)
		require.NoError(t, err)
		assert.Equal(t, input, op.String())
	}
}

// --- Load tests ---

// TestLoad_YAML verifies a YAML script with compact operations, probes and
// expectations.
func TestLoad_YAML(t *testing.T) {
	s, err := Load(fixture("split.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "split", s.Name)
	assert.Equal(t, model.KindInt, s.Kind)
	require.Len(t, s.Operations, 3)
	assert.Equal(t, Operation{Op: model.OpAdd, Left: "1", Right: "10"}, s.Operations[0])
	assert.Equal(t, Operation{Op: model.OpRemove, Point: "5"}, s.Operations[1])
	assert.Equal(t, []Value{"0", "4", "5", "6", "11"}, s.Probes)
	require.NotNil(t, s.Expect)
	require.NotNil(t, s.Expect.Render)
	assert.Equal(t, "≠0,[1,5),(5,10],", *s.Expect.Render)
}

// TestLoad_JSONC verifies comment and trailing comma stripping and the
// mixed compact/object operation forms, including numeric values.
func TestLoad_JSONC(t *testing.T) {
	s, err := Load(fixture("merge.jsonc"))
	require.NoError(t, err)

	assert.Equal(t, "merge", s.Name)
	require.Len(t, s.Operations, 4)
	assert.Equal(t, Operation{Op: model.OpAdd, Left: "10", Right: "20", RightOpen: true}, s.Operations[1])
	assert.Equal(t, Operation{Op: model.OpAdd, Left: "30", Right: "40"}, s.Operations[2])
}

// TestLoad_DefaultName verifies that a script without a name is named after
// its file.
func TestLoad_DefaultName(t *testing.T) {
	s, err := Load(fixture("decimal.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "decimal", s.Name)
	assert.Equal(t, Operation{Op: model.OpRemove, Point: "0.5"}, s.Operations[1])
}

// TestLoad_Errors verifies the exit codes attached to load failures.
func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code model.ExitCode
	}{
		{"missing file", fixture("does-not-exist.yaml"), model.ExitScriptNotFound},
		{"unknown extension", fixture("split.toml"), model.ExitInvalidScript},
		{"unknown field", fixture("unknown-field.yaml"), model.ExitInvalidScript},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr), "expected a CLIError, got %T", err)
			assert.Equal(t, tt.code, cliErr.Code)
		})
	}
}

// --- ValidateScript tests ---

func TestValidateScript(t *testing.T) {
	s := &Script{
		Kind: "complex",
		Operations: []Operation{
			{Op: model.OpAdd, Left: "1", Right: "2"},
			{Op: model.OpRemove, Left: "1", Right: "2"},
			{Op: "toggle", Point: "3"},
			{Op: model.OpAdd, Left: "1"},
			{Op: model.OpAdd, Point: "4", LeftOpen: true},
			{Op: model.OpRemove},
		},
		Probes: []Value{"1", ""},
	}

	errs := ValidateScript(s)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		"kind",
		"operations[1]",
		"operations[2].op",
		"operations[3].right",
		"operations[4]",
		"operations[5].point",
		"probes[1]",
	}, fields)

	valid, err := Load(fixture("split.yaml"))
	require.NoError(t, err)
	assert.Empty(t, ValidateScript(valid))
}

// --- Run tests ---

// TestRun_Fixtures runs every passing fixture on both backends and checks
// the render and the absence of failures.
func TestRun_Fixtures(t *testing.T) {
	tests := []struct {
		file   string
		kind   model.ValueKind
		render string
	}{
		{"split.yaml", model.KindInt, "≠0,[1,5),(5,10],"},
		{"merge.jsonc", model.KindInt, "≠0,[1,20),[30,40],"},
		{"decimal.yaml", model.KindDecimal, "[0,0.5),(0.5,1],"},
		{"open.yaml", model.KindFloat, "(0,1),"},
	}
	for _, tt := range tests {
		for _, backend := range []ordered.Backend{ordered.BackendBTree, ordered.BackendSlice} {
			t.Run(tt.file+"/"+backend.String(), func(t *testing.T) {
				s, err := Load(fixture(tt.file))
				require.NoError(t, err)

				res, err := Run(s, Options{Backend: backend, Verify: true})
				require.NoError(t, err)

				assert.Equal(t, tt.kind, res.Kind)
				assert.Equal(t, backend, res.Backend)
				assert.Equal(t, tt.render, res.Render)
				assert.True(t, res.Passed(), "failures: %v violations: %v", res.Failures, res.Violations)
				require.NotNil(t, res.Verification)
				assert.True(t, res.Verification.OK(), "mismatches: %v", res.Verification.Mismatches)
				assert.Positive(t, res.Verification.Samples)
			})
		}
	}
}

// TestRun_Probes verifies probe statuses and the segment listing.
func TestRun_Probes(t *testing.T) {
	s, err := Load(fixture("split.yaml"))
	require.NoError(t, err)

	res, err := Run(s, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"≠0", "[1,5)", "(5,10]"}, res.Segments)
	assert.Equal(t, 1, res.Intervals)
	assert.Equal(t, 2, res.Markers)
	assert.Equal(t, []Probe{
		{Value: "0", Status: "included", Member: true},
		{Value: "4", Status: "inside", Member: true},
		{Value: "5", Status: "excluded", Member: false},
		{Value: "6", Status: "inside", Member: true},
		{Value: "11", Status: "outside", Member: false},
	}, res.Probes)
	assert.Nil(t, res.Verification, "verification only runs on request")
}

// TestRun_FailedExpectations verifies that unmet expectations are reported
// as failures rather than errors.
func TestRun_FailedExpectations(t *testing.T) {
	s, err := Load(fixture("failing.yaml"))
	require.NoError(t, err)

	res, err := Run(s, Options{})
	require.NoError(t, err)

	assert.False(t, res.Passed())
	assert.Equal(t, []Mismatch{
		{Check: "render", Want: "[1,10),", Got: "[1,10],"},
		{Check: "contains", Value: "11", Want: "member", Got: "outside"},
	}, res.Failures)
}

// TestRun_KindDefaults verifies that the script kind wins over the option
// and that int is the final fallback.
func TestRun_KindDefaults(t *testing.T) {
	s := &Script{Operations: []Operation{{Op: model.OpAdd, Point: "1.5"}}}

	_, err := Run(s, Options{})
	require.Error(t, err, "1.5 is not an int")
	assert.True(t, domain.IsValueError(err))

	res, err := Run(s, Options{Kind: model.KindFloat})
	require.NoError(t, err)
	assert.Equal(t, "≠1.5,", res.Render)

	s.Kind = model.KindString
	res, err = Run(s, Options{Kind: model.KindFloat})
	require.NoError(t, err)
	assert.Equal(t, model.KindString, res.Kind)

	s.Kind = "complex"
	_, err = Run(s, Options{})
	require.Error(t, err)
	assert.True(t, domain.ErrUnknownKind.Is(err))
}

// TestRun_BadValue verifies that an unparsable bound is reported as a value
// error naming the operation.
func TestRun_BadValue(t *testing.T) {
	s, err := Load(fixture("bad-value.yaml"))
	require.NoError(t, err)

	_, err = Run(s, Options{})
	require.Error(t, err)
	assert.True(t, domain.IsValueError(err))
	assert.Contains(t, err.Error(), "operations[0]")
}

// TestRun_StringDomain runs lexicographic intervals.
func TestRun_StringDomain(t *testing.T) {
	s := &Script{
		Kind: model.KindString,
		Operations: []Operation{
			{Op: model.OpAdd, Left: "apple", Right: "banana"},
			{Op: model.OpRemove, Point: "avocado"},
		},
		Probes: []Value{"apricot", "avocado", "cherry"},
	}

	res, err := Run(s, Options{Verify: true})
	require.NoError(t, err)
	assert.Equal(t, "[apple,avocado),(avocado,banana],", res.Render)
	assert.True(t, res.Probes[0].Member)
	assert.False(t, res.Probes[1].Member)
	assert.False(t, res.Probes[2].Member)
	assert.True(t, res.Verification.OK(), "mismatches: %v", res.Verification.Mismatches)
}

// --- Reference tests ---

// TestReference_Contains verifies the replay semantics on their own:
// removal only affects the exact value, later unions override it.
func TestReference_Contains(t *testing.T) {
	steps, err := ParseSteps[int64](domain.Int{}, []Operation{
		{Op: model.OpAdd, Left: "1", Right: "10", RightOpen: true},
		{Op: model.OpRemove, Point: "5"},
		{Op: model.OpAdd, Left: "9", Right: "12", LeftOpen: true},
	})
	require.NoError(t, err)

	ref := NewReference(domain.Int{}.Compare, steps)
	assert.False(t, ref.Contains(0))
	assert.True(t, ref.Contains(1))
	assert.False(t, ref.Contains(5))
	assert.True(t, ref.Contains(9), "covered by the first interval")
	assert.True(t, ref.Contains(10), "covered by the second interval")
	assert.False(t, ref.Contains(13))
	assert.Equal(t, []int64{1, 10, 5, 9, 12}, ref.Boundaries())
}

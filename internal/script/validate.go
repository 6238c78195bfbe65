package script

import (
	"fmt"

	"github.com/shinji-kodama/intervalset/internal/model"
)

// ValidateScript performs structural checks on a parsed script. It returns
// a list of validation errors (empty list = valid script).
//
// Values are not parsed here; whether "abc" is a valid int is decided by
// the value domain when the script runs.
//
// Checks performed:
//   - kind, when set, is a known value kind
//   - every operation is add or remove
//   - interval operations have both bounds, and only add takes an interval
//   - point operations have a point and no open flags
//   - probes and expectation values are non-empty
func ValidateScript(s *Script) []ValidationError {
	var errors []ValidationError

	if s.Kind != "" && !s.Kind.IsValid() {
		errors = append(errors, ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown value kind %q (valid: int, float, decimal, string)", s.Kind),
		})
	}

	for i, op := range s.Operations {
		field := fmt.Sprintf("operations[%d]", i)

		if !op.Op.IsValid() {
			errors = append(errors, ValidationError{
				Field:   field + ".op",
				Message: fmt.Sprintf("unknown operation %q (valid: add, remove)", op.Op),
			})
		}

		if op.IsInterval() {
			if op.Op == model.OpRemove {
				errors = append(errors, ValidationError{
					Field:   field,
					Message: "remove takes a single point, not an interval",
				})
			}
			if op.Left == "" {
				errors = append(errors, ValidationError{Field: field + ".left", Message: "interval needs a left bound"})
			}
			if op.Right == "" {
				errors = append(errors, ValidationError{Field: field + ".right", Message: "interval needs a right bound"})
			}
			if op.Point != "" {
				errors = append(errors, ValidationError{
					Field:   field + ".point",
					Message: "point cannot be combined with interval bounds",
				})
			}
			continue
		}

		if op.Point == "" {
			errors = append(errors, ValidationError{Field: field + ".point", Message: "operation needs a point or interval bounds"})
		}
		if op.LeftOpen || op.RightOpen {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "open bounds only apply to intervals",
			})
		}
	}

	errors = append(errors, validateValues("probes", s.Probes)...)
	if s.Expect != nil {
		errors = append(errors, validateValues("expect.contains", s.Expect.Contains)...)
		errors = append(errors, validateValues("expect.excludes", s.Expect.Excludes)...)
	}

	return errors
}

func validateValues(field string, values []Value) []ValidationError {
	var errors []ValidationError
	for i, v := range values {
		if v == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "value is empty",
			})
		}
	}
	return errors
}

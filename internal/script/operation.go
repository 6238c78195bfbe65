package script

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/intervalset/internal/model"
)

// Value is an operation argument kept as text until the script's value kind
// is known. Scripts may write values as YAML/JSON numbers or strings;
// both decode to the same text.
type Value string

// UnmarshalJSON accepts a JSON string or a bare JSON number.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value must be a string or a number, got %s", string(data))
	}
	*v = Value(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar and keeps its literal text.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: value must be a scalar", node.Line)
	}
	*v = Value(node.Value)
	return nil
}

// Operation is one set mutation in a script.
//
// In a script file an operation is written either as a compact scalar:
//
//	+[1,10)   add the interval 1 <= x < 10
//	+7        add the point 7
//	-5        remove the point 5
//
// or as a mapping:
//
//	{op: add, left: 1, right: 10, right_open: true}
//	{op: remove, point: 5}
type Operation struct {
	// Op is add or remove. Only add accepts an interval.
	Op model.OperationKind `json:"op" yaml:"op"`

	// Point is set for single-value operations.
	Point Value `json:"point,omitempty" yaml:"point,omitempty"`

	// Left and Right are set for interval operations. They may be given in
	// either order.
	Left  Value `json:"left,omitempty" yaml:"left,omitempty"`
	Right Value `json:"right,omitempty" yaml:"right,omitempty"`

	// LeftOpen and RightOpen mark the bounds that exclude their endpoint.
	LeftOpen  bool `json:"left_open,omitempty" yaml:"left_open,omitempty"`
	RightOpen bool `json:"right_open,omitempty" yaml:"right_open,omitempty"`
}

// IsInterval reports whether the operation carries interval bounds rather
// than a single point.
func (o Operation) IsInterval() bool {
	return o.Left != "" || o.Right != ""
}

// String prints the operation in compact form, for example "+[1,10)".
func (o Operation) String() string {
	sign := "+"
	if o.Op == model.OpRemove {
		sign = "-"
	}
	if !o.IsInterval() {
		return sign + string(o.Point)
	}
	open, closeBracket := "[", "]"
	if o.LeftOpen {
		open = "("
	}
	if o.RightOpen {
		closeBracket = ")"
	}
	return fmt.Sprintf("%s%s%s,%s%s", sign, open, o.Left, o.Right, closeBracket)
}

// operationFields mirrors Operation without its unmarshal methods, so the
// mapping form can be decoded with the default struct rules.
type operationFields Operation

// UnmarshalJSON accepts the compact string form or an object.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var compact string
	if err := json.Unmarshal(data, &compact); err == nil {
		parsed, err := ParseOperation(compact)
		if err != nil {
			return err
		}
		*o = parsed
		return nil
	}

	var fields operationFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("operation must be a string or an object: %w", err)
	}
	return o.setFields(fields)
}

// UnmarshalYAML accepts the compact scalar form or a mapping.
func (o *Operation) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseOperation(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*o = parsed
		return nil
	case yaml.MappingNode:
		var fields operationFields
		if err := node.Decode(&fields); err != nil {
			return err
		}
		if err := o.setFields(fields); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		return nil
	default:
		return fmt.Errorf("line %d: operation must be a string or a mapping", node.Line)
	}
}

// setFields stores a decoded mapping, normalizing the op name so that
// "+" and "-" work as aliases there too.
func (o *Operation) setFields(fields operationFields) error {
	op, err := model.ParseOperationKind(string(fields.Op))
	if err != nil {
		return err
	}
	fields.Op = op
	*o = Operation(fields)
	return nil
}

// ParseOperation reads one operation in compact form. The leading sign
// selects add (+) or remove (-); the rest is a point or a bracketed
// interval. A negative point therefore needs its own sign: "+-3" adds -3
// and "--3" removes it.
func ParseOperation(s string) (Operation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Operation{}, ErrInvalidOperation.New(s, "empty operation")
	}

	var op model.OperationKind
	switch s[0] {
	case '+':
		op = model.OpAdd
	case '-':
		op = model.OpRemove
	default:
		return Operation{}, ErrInvalidOperation.New(s, "must start with + or -")
	}

	body := strings.TrimSpace(s[1:])
	if body == "" {
		return Operation{}, ErrInvalidOperation.New(s, "missing value")
	}
	if body[0] != '[' && body[0] != '(' {
		return Operation{Op: op, Point: Value(body)}, nil
	}

	if op == model.OpRemove {
		return Operation{}, ErrInvalidOperation.New(s, "remove takes a single point, not an interval")
	}
	iv, err := ParseInterval(body)
	if err != nil {
		return Operation{}, ErrInvalidOperation.Wrap(err, s, "malformed interval")
	}
	iv.Op = op
	return iv, nil
}

// ParseInterval reads bracket notation such as "[1,10)" or "(a, b]" into
// an add operation. Values are trimmed and must not contain commas.
func ParseInterval(s string) (Operation, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Operation{}, fmt.Errorf("interval %q is too short", s)
	}

	var iv Operation
	switch s[0] {
	case '[':
	case '(':
		iv.LeftOpen = true
	default:
		return Operation{}, fmt.Errorf("interval %q must start with [ or (", s)
	}
	switch s[len(s)-1] {
	case ']':
	case ')':
		iv.RightOpen = true
	default:
		return Operation{}, fmt.Errorf("interval %q must end with ] or )", s)
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return Operation{}, fmt.Errorf("interval %q must have exactly two comma-separated bounds", s)
	}
	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return Operation{}, fmt.Errorf("interval %q has an empty bound", s)
	}

	iv.Op = model.OpAdd
	iv.Left, iv.Right = Value(left), Value(right)
	return iv, nil
}

package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"

	"github.com/shinji-kodama/intervalset/internal/model"
)

// Domain describes one value kind: how to read it from text, how two values
// order, how a value prints, and which values sit right next to it.
type Domain[T any] interface {
	// Kind names the domain.
	Kind() model.ValueKind

	// Parse reads a value from text. Surrounding whitespace is ignored
	// except by the string domain.
	Parse(s string) (T, error)

	// Compare is a three-way comparison consistent with the domain order.
	Compare(a, b T) int

	// Format prints a value the way Parse reads it.
	Format(v T) string

	// Around returns values immediately adjacent to v, smaller ones first.
	// Probing v together with Around(v) distinguishes open from closed
	// bounds at v. A domain may return fewer than two values when no
	// neighbour exists or can be expressed.
	Around(v T) []T
}

// Ordered returns v unchanged when it can take part in a total order.
// Only floating point NaN fails, since NaN != NaN.
func Ordered[T constraints.Ordered](v T) (T, error) {
	if v != v {
		return v, ErrNotComparable.New(v)
	}
	return v, nil
}

// Finite rejects NaN like Ordered and additionally rejects infinities.
func Finite[F constraints.Float](v F) (F, error) {
	if _, err := Ordered(v); err != nil {
		return v, err
	}
	if math.IsInf(float64(v), 0) {
		return v, ErrNotFinite.New(v)
	}
	return v, nil
}

// Int is the int64 domain.
type Int struct{}

func (Int) Kind() model.ValueKind { return model.KindInt }

func (Int) Parse(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrUnparsable.Wrap(err, s, model.KindInt)
	}
	return v, nil
}

func (Int) Compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (Int) Format(v int64) string { return strconv.FormatInt(v, 10) }

func (Int) Around(v int64) []int64 {
	var out []int64
	if v > math.MinInt64 {
		out = append(out, v-1)
	}
	if v < math.MaxInt64 {
		out = append(out, v+1)
	}
	return out
}

// Float is the float64 domain. NaN and infinities are rejected.
type Float struct{}

func (Float) Kind() model.ValueKind { return model.KindFloat }

func (Float) Parse(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrUnparsable.Wrap(err, s, model.KindFloat)
	}
	return Finite(v)
}

// Compare orders finite floats; -0 and +0 compare equal.
func (Float) Compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (Float) Format(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Around returns the nearest representable floats on either side.
func (Float) Around(v float64) []float64 {
	return []float64{math.Nextafter(v, math.Inf(-1)), math.Nextafter(v, math.Inf(1))}
}

// Decimal is the arbitrary precision decimal domain.
type Decimal struct{}

func (Decimal) Kind() model.ValueKind { return model.KindDecimal }

func (Decimal) Parse(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, ErrUnparsable.Wrap(err, s, model.KindDecimal)
	}
	return v, nil
}

func (Decimal) Compare(a, b decimal.Decimal) int { return a.Cmp(b) }

func (Decimal) Format(v decimal.Decimal) string { return v.String() }

// Around steps one digit past the precision v was written with, so 1.5
// yields 1.49 and 1.51.
func (Decimal) Around(v decimal.Decimal) []decimal.Decimal {
	eps := decimal.New(1, v.Exponent()-1)
	return []decimal.Decimal{v.Sub(eps), v.Add(eps)}
}

// String is the byte-wise lexicographic string domain.
type String struct{}

func (String) Kind() model.ValueKind { return model.KindString }

func (String) Parse(s string) (string, error) { return s, nil }

func (String) Compare(a, b string) int { return strings.Compare(a, b) }

func (String) Format(v string) string { return v }

// Around only returns the immediate successor v+"\x00"; a string's
// immediate predecessor does not exist in general.
func (String) Around(v string) []string { return []string{v + "\x00"} }

// Package aggregation computes scalar summaries over numeric field values.
package aggregation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is an aggregation function.
type Kind string

// Supported aggregation kinds.
const (
	KindAvg   Kind = "avg"
	KindSum   Kind = "sum"
	KindMin   Kind = "min"
	KindMax   Kind = "max"
	KindCount Kind = "count"
)

var (
	// ErrUnsupportedKind is returned for a kind outside the enumerated set.
	ErrUnsupportedKind = errors.New("unsupported aggregation type")
	// ErrNoNumericValues is returned when no value of the field could be coerced.
	ErrNoNumericValues = errors.New("no numeric values found for field")
)

// ParseKind resolves a kind case-insensitively. Unknown values are an error, never a default.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, s)
	}
	return k, nil
}

// IsValid reports whether k is one of the enumerated kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindAvg, KindSum, KindMin, KindMax, KindCount:
		return true
	}
	return false
}

// Spec names the field and function of a scalar aggregation.
type Spec struct {
	Field string
	Kind  Kind
}

// Result is a computed scalar. Count is the number of coerced values, not the match count.
type Result struct {
	Value float64 `json:"result"`
	Count int     `json:"count"`
	Kind  Kind    `json:"kind"`
	Field string  `json:"field"`
}

// Coerce converts a raw field value to float64.
// Accepts numbers, numeric strings and booleans (true=1, false=0); NaN and Inf are rejected.
func Coerce(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceAll keeps the values that coerce, silently dropping the rest.
func CoerceAll(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := Coerce(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Compute applies a valid kind to a non-empty value set.
func Compute(k Kind, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoNumericValues
	}
	switch k {
	case KindAvg:
		return sum(values) / float64(len(values)), nil
	case KindSum:
		return sum(values), nil
	case KindMin:
		m := values[0]
		for _, v := range values[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	case KindMax:
		m := values[0]
		for _, v := range values[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	case KindCount:
		return float64(len(values)), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

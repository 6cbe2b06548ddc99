// Package filter evaluates a handler's configured predicates against a
// decoded JSON payload: conjunctive pass/fail, left to right, short-circuit
// on the first failing predicate.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Postmaster-Live/postmaster/internal/jsonpath"
)

// Operator names accepted in a Filter.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpIn          = "in"
	OpNotIn       = "not_in"
	OpContains    = "contains"
	OpNotContains = "not_contains"
)

// Value is the tagged variant a Filter compares against: exactly one of
// the four arms is populated, mirroring the untagged enum in the handler
// spec's wire format. There is no implicit coercion between arms.
type Value struct {
	String      *string
	StringArray []string
	Number      *int64
	NumberArray []int64
}

// UnmarshalJSON accepts a bare string, array of strings, number, or array
// of numbers and tags the populated arm accordingly.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.String = &s
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		v.Number = &n
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("filter value: %w", err)
	}
	if len(raw) == 0 {
		v.StringArray = []string{}
		return nil
	}

	var strs []string
	if err := json.Unmarshal(data, &strs); err == nil {
		v.StringArray = strs
		return nil
	}
	var nums []int64
	if err := json.Unmarshal(data, &nums); err == nil {
		v.NumberArray = nums
		return nil
	}
	return fmt.Errorf("filter value: array elements must be all strings or all numbers")
}

// MarshalJSON renders the populated arm as the matching bare JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.String != nil:
		return json.Marshal(*v.String)
	case v.Number != nil:
		return json.Marshal(*v.Number)
	case v.StringArray != nil:
		return json.Marshal(v.StringArray)
	case v.NumberArray != nil:
		return json.Marshal(v.NumberArray)
	default:
		return json.Marshal(nil)
	}
}

// Filter is a single predicate: extract at Path, compare extracted value
// to Value using Operator.
type Filter struct {
	Path     string `json:"path"`
	Operator string `json:"operator"`
	Value    Value  `json:"value"`
}

// Error wraps a filter-evaluation failure: a path extraction error or an
// unknown operator. It always aborts request processing with a 500 (§7).
type Error struct {
	Path string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("filter: path %q operator %q: %s", e.Path, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ShouldProcess evaluates filters left to right; the first failing
// predicate short-circuits to false. An empty or nil list passes
// everything.
func ShouldProcess(payload any, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := evaluate(payload, f)
		if err != nil {
			return false, &Error{Path: f.Path, Op: f.Operator, Err: err}
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(payload any, f Filter) (bool, error) {
	extracted, err := jsonpath.Extract(payload, f.Path)
	if err != nil {
		return false, err
	}

	switch f.Operator {
	case OpEquals:
		return matchEquals(extracted, f.Value), nil
	case OpNotEquals:
		return !matchEquals(extracted, f.Value), nil
	case OpIn:
		return matchIn(extracted, f.Value), nil
	case OpNotIn:
		return !matchIn(extracted, f.Value), nil
	case OpContains:
		return matchContains(extracted, f.Value), nil
	case OpNotContains:
		return !matchContains(extracted, f.Value), nil
	default:
		return false, fmt.Errorf("unknown operator %q", f.Operator)
	}
}

// matchEquals handles (equals, String) and (equals, Number); any other
// (operator, arm) pair is false with no coercion across arms.
func matchEquals(extracted any, v Value) bool {
	switch {
	case v.String != nil:
		s, ok := extracted.(string)
		return ok && s == *v.String
	case v.Number != nil:
		n, ok := asInt64(extracted)
		return ok && n == *v.Number
	default:
		return false
	}
}

func matchIn(extracted any, v Value) bool {
	switch {
	case v.StringArray != nil:
		s, ok := extracted.(string)
		if !ok {
			return false
		}
		for _, candidate := range v.StringArray {
			if candidate == s {
				return true
			}
		}
		return false
	case v.NumberArray != nil:
		n, ok := asInt64(extracted)
		if !ok {
			return false
		}
		for _, candidate := range v.NumberArray {
			if candidate == n {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchContains(extracted any, v Value) bool {
	if v.String == nil {
		return false
	}
	s, ok := extracted.(string)
	if !ok {
		return false
	}
	return strings.Contains(s, *v.String)
}

// asInt64 reports whether extracted is a JSON number with no fractional
// part, as produced by encoding/json's float64 decoding.
func asInt64(extracted any) (int64, bool) {
	f, ok := extracted.(float64)
	if !ok {
		return 0, false
	}
	n := int64(f)
	if float64(n) != f {
		return 0, false
	}
	return n, true
}

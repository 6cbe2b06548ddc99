// Package route implements content-based topic selection: a list of
// (path, mapping) rules evaluated in order, first-hit-wins, against a
// stringified form of the extracted value.
package route

import (
	"fmt"
	"strconv"

	"github.com/Postmaster-Live/postmaster/internal/jsonpath"
)

// Mapping pairs a string value with the topic to route to when the
// extracted value's string form equals it.
type Mapping struct {
	Value string `json:"value"`
	Topic string `json:"topic"`
}

// Route extracts a value at Path and checks it against Mapping in order.
type Route struct {
	Path    string    `json:"path"`
	Mapping []Mapping `json:"mapping"`
}

// Error wraps a path-extraction failure encountered while routing.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("route: path %q: %s", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Resolve returns the topic of the first mapping, across all routes in
// order, whose stringified value matches the value extracted at its path.
// An empty or nil route list, or one that matches nothing, returns ("",
// false) so the caller falls back to the handler's default topic.
func Resolve(payload any, routes []Route) (string, bool, error) {
	for _, r := range routes {
		extracted, err := jsonpath.Extract(payload, r.Path)
		if err != nil {
			return "", false, &Error{Path: r.Path, Err: err}
		}

		text, ok := stringify(extracted)
		if !ok {
			continue
		}
		for _, m := range r.Mapping {
			if m.Value == text {
				return m.Topic, true, nil
			}
		}
	}
	return "", false, nil
}

// stringify renders the extracted value the way a route mapping's value
// string is compared: strings verbatim, integers in decimal, booleans as
// "true"/"false". Anything else (objects, arrays, floats, null) has no
// stringified form and cannot match.
func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		n := int64(val)
		if float64(n) == val {
			return strconv.FormatInt(n, 10), true
		}
		return "", false
	default:
		return "", false
	}
}

// Package jsonpath resolves a small, deliberately non-general path grammar
// against decoded JSON values: an optional leading "$.", then one or more
// "."-joined segments, each either a bare field name or "field[index]".
//
// There is no support for wildcards, slices, quoted keys, or recursive
// descent — see spec Non-goals for the JSON-Path Extractor.
package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a segment's target does not exist: a missing
// object field, a non-array value being indexed, or an out-of-bounds index.
var ErrNotFound = errors.New("jsonpath: not found")

// BadPathError is returned when the path text itself is malformed, such as
// an index segment whose index is not a non-negative decimal integer.
type BadPathError struct {
	Path   string
	Reason string
}

func (e *BadPathError) Error() string {
	return fmt.Sprintf("jsonpath: bad path %q: %s", e.Path, e.Reason)
}

// Extract resolves path against value, which must be the result of
// unmarshaling JSON into interface{} (so objects are map[string]any and
// arrays are []any).
func Extract(value any, path string) (any, error) {
	path = strings.TrimPrefix(path, "$.")
	if path == "" {
		return value, nil
	}

	current := value
	for _, segment := range strings.Split(path, ".") {
		field, index, hasIndex, err := splitSegment(segment)
		if err != nil {
			return nil, err
		}

		current, err = descendField(current, field)
		if err != nil {
			return nil, err
		}

		if hasIndex {
			current, err = descendIndex(current, index)
			if err != nil {
				return nil, err
			}
		}
	}
	return current, nil
}

// splitSegment splits "field[index]" into its field name and index. A
// segment with no "[" has hasIndex=false. Invalid index text is a
// BadPathError; it is checked before the segment's field lookup, so a
// malformed segment fails as BadPathError even when its field is absent.
// Segments are parsed as they are reached: if an earlier segment does not
// resolve, ErrNotFound is returned before a later segment is parsed.
func splitSegment(segment string) (field string, index int, hasIndex bool, err error) {
	bracket := strings.IndexByte(segment, '[')
	if bracket < 0 {
		return segment, 0, false, nil
	}

	field = segment[:bracket]
	rest := segment[bracket+1:]
	if !strings.HasSuffix(rest, "]") {
		return "", 0, false, &BadPathError{Path: segment, Reason: "missing closing ]"}
	}
	indexText := strings.TrimSuffix(rest, "]")
	n, convErr := strconv.Atoi(indexText)
	if convErr != nil || n < 0 {
		return "", 0, false, &BadPathError{Path: segment, Reason: "index must be a non-negative integer"}
	}
	return field, n, true, nil
}

func descendField(current any, field string) (any, error) {
	obj, ok := current.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an object", ErrNotFound, field)
	}
	v, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q", ErrNotFound, field)
	}
	return v, nil
}

func descendIndex(current any, index int) (any, error) {
	arr, ok := current.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: not an array for index [%d]", ErrNotFound, index)
	}
	if index < 0 || index >= len(arr) {
		return nil, fmt.Errorf("%w: index [%d] out of bounds (len %d)", ErrNotFound, index, len(arr))
	}
	return arr[index], nil
}

// Package handlerid wraps the UUID identity used to address a handler.
package handlerid

import (
	"strings"

	"github.com/google/uuid"
)

// ResourcePrefix is the metadata name prefix cluster resources use for
// handlers: the resource name is always "handler-<uuid>".
const ResourcePrefix = "handler-"

// ID identifies a handler. It is a UUID serialized in HTTP paths and used
// verbatim as the broker message key, so that messages from one handler
// are totally ordered at a single partition.
type ID = uuid.UUID

// New generates a fresh random handler id.
func New() ID {
	return uuid.New()
}

// Parse parses a handler id from its textual form.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// ResourceName returns the cluster resource name for an id ("handler-<uuid>").
func ResourceName(id ID) string {
	return ResourcePrefix + id.String()
}

// FromResourceName extracts the handler id from a resource name, returning
// false if the name does not have the "handler-" prefix or the remainder is
// not a valid UUID.
func FromResourceName(name string) (ID, bool) {
	suffix, ok := strings.CutPrefix(name, ResourcePrefix)
	if !ok {
		return ID{}, false
	}
	id, err := uuid.Parse(suffix)
	if err != nil {
		return ID{}, false
	}
	return id, true
}

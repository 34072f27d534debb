package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the record store. Callers use errors.Is to map these
// to their own not-found / read-only responses.
var (
	// ErrNotFound indicates an unknown entity type or an unknown
	// (entityType, entityID) pair.
	ErrNotFound = errors.New("not found")

	// ErrExternallyManaged indicates a create/update/delete/list attempt
	// against a schema whose canonical data lives outside the record store.
	ErrExternallyManaged = errors.New("record type is externally managed")
)

// ValidationError carries every field failure discovered while validating a
// payload, keyed by field name. Validation never stops at the first problem.
type ValidationError struct {
	Fields map[string]string
}

// Error returns a deterministic summary of all field failures.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "record validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

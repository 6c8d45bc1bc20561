package domain

import (
	"sort"
	"strings"
)

// ValidationError carries client-facing messages keyed by request field.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field string, messages ...string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: messages}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return strings.Join(parts, "; ")
}

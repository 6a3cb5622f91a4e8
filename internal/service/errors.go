package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"medsales/m/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("admin privileges required")
)

// ValidationError maps input field names to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ReferenceError reports a selected record that does not exist.
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Entity, e.ID)
}

// reference turns a not-found lookup into a ReferenceError and passes other errors through.
func reference(err error, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return &ReferenceError{Entity: entity, ID: id}
	}
	return err
}

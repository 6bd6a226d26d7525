package models

import (
	"errors"
	"fmt"
	"strings"
)

// FieldPath addresses a value inside a Result, in the JSON shape,
// e.g. "thread.messages[2].reactions[0].count".
type FieldPath string

// Field paths relative to their enclosing value.
const (
	PathRoot      FieldPath = ""
	PathError     FieldPath = "error"
	PathAuthor    FieldPath = "author"
	PathText      FieldPath = "text"
	PathTimestamp FieldPath = "timestamp"
	PathEmoji     FieldPath = "emoji"
	PathCount     FieldPath = "count"
)

// MessagePath addresses the i-th message of a thread result.
func MessagePath(i int) FieldPath {
	return FieldPath(fmt.Sprintf("thread.messages[%d]", i))
}

// ReactionPath addresses the i-th reaction of a message.
func ReactionPath(i int) FieldPath {
	return FieldPath(fmt.Sprintf("reactions[%d]", i))
}

// Join appends child to p.
func (p FieldPath) Join(child FieldPath) FieldPath {
	switch {
	case p == PathRoot:
		return child
	case child == PathRoot:
		return p
	default:
		return p + "." + child
	}
}

// FieldError is one broken invariant at a path.
type FieldError struct {
	Path FieldPath
	Err  error
}

func (e *FieldError) Error() string {
	if e.Path == PathRoot {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every broken invariant of a value.
type ValidationErrors struct {
	Errors []*FieldError
}

// Add records err at path. Nested ValidationErrors are flattened with
// their paths rebased under path. A nil err is ignored.
func (v *ValidationErrors) Add(path FieldPath, err error) {
	if err == nil {
		return
	}

	var nested *ValidationErrors
	if errors.As(err, &nested) {
		for _, sub := range nested.Errors {
			v.Errors = append(v.Errors, &FieldError{Path: path.Join(sub.Path), Err: sub.Err})
		}
		return
	}
	v.Errors = append(v.Errors, &FieldError{Path: path, Err: err})
}

// Paths lists the failing paths in the order they were recorded.
func (v *ValidationErrors) Paths() []FieldPath {
	paths := make([]FieldPath, 0, len(v.Errors))
	for _, err := range v.Errors {
		paths = append(paths, err.Path)
	}
	return paths
}

// Err returns nil when nothing was recorded.
func (v *ValidationErrors) Err() error {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Errors))
	for _, err := range v.Errors {
		parts = append(parts, err.Error())
	}
	return "invalid result: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is and errors.As reach each field error.
func (v *ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v.Errors))
	for _, err := range v.Errors {
		errs = append(errs, err)
	}
	return errs
}

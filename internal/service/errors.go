package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")

	// ErrInvalidSession means the session token is bad, expired or names a deleted user.
	ErrInvalidSession = errors.New("invalid session")
)

// FormError carries per-field validation messages back to the form that caused them.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *FormError {
	return &FormError{Fields: map[string]string{field: msg}}
}

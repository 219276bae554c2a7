package todo

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("todo not found")
	ErrValidation         = errors.New("validation failed")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// ValidationError is returned before any backend call when input is
// malformed or a required field is missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// NotFoundError is returned when the referenced id does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// BackendUnavailableError wraps a storage failure: the database could not be
// reached or a write did not commit.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("todo backend %s: %v", e.Op, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

func (e *BackendUnavailableError) Is(target error) bool { return target == ErrBackendUnavailable }

func (e *BackendUnavailableError) StatusCode() int { return http.StatusServiceUnavailable }

// Package server provides the JSON HTTP API for person research.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/person-researcher/internal/research"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing stored resource
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrUnavailable indicates a feature that is not configured on this server
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available: no database configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		requiredErr    *research.RequiredError
		notFoundErr    *ErrNotFound
		unavailableErr *ErrUnavailable
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &requiredErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts the first validator failure into an ErrValidation
// that names the JSON field, e.g. "searchQuery is required".
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Field: "request", Message: "is invalid: " + err.Error()}
	}

	fe := fieldErrs[0]
	field := fe.Field()
	if ns := fe.Namespace(); strings.Count(ns, ".") > 1 {
		// Nested fields keep their parent, e.g. "selectedProfile.name"
		field = ns[strings.Index(ns, ".")+1:]
	}

	switch fe.Tag() {
	case "required":
		return &ErrValidation{Field: field, Message: "is required"}
	default:
		return &ErrValidation{Field: field, Message: fmt.Sprintf("failed %q validation", fe.Tag())}
	}
}

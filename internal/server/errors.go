// Package server provides the HTTP API for the accessibility analyzer.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrPayloadTooLarge indicates the request body exceeded the configured limit
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// ErrMalformedBody indicates the request body is not valid JSON
type ErrMalformedBody struct {
	Cause error
}

func (e *ErrMalformedBody) Error() string {
	return fmt.Sprintf("malformed request body: %v", e.Cause)
}

func (e *ErrMalformedBody) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		tooLargeErr   *ErrPayloadTooLarge
		malformedErr  *ErrMalformedBody
	)
	switch {
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &malformedErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// validationErrors converts validator failures into field -> message pairs.
func validationErrors(err error) []*ErrValidation {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []*ErrValidation{{Field: "body", Message: err.Error()}}
	}

	out := make([]*ErrValidation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("The %s field is required.", field)
		default:
			message = fmt.Sprintf("The %s field failed the %s rule.", field, fe.Tag())
		}
		out = append(out, &ErrValidation{Field: field, Message: message})
	}
	return out
}

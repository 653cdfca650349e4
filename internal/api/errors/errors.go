package errors

import (
	stderrors "errors"
	"net/http"

	apperrors "fir-voice/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindBadRequest         ErrorKind = "bad_request"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
)

// APIError is the JSON body of every failed request: {"error": "..."}
type APIError struct {
	Kind      ErrorKind `json:"-"`
	Message   string    `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// FromError converts any error into an APIError. Validation failures of the
// pipeline become 400s; every other pipeline failure becomes a 500 carrying
// the failure's message. Errors without a classification are reported as a
// generic internal error.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	if pe, ok := apperrors.As(err); ok {
		if pe.Class() == apperrors.ClassValidation {
			return NewBadRequestError(pe.Public())
		}
		return NewInternalError(pe.Public())
	}

	return NewInternalError("Internal server error")
}

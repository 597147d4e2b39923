package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors implementations map API responses onto. Callers should
// match with errors.Is rather than comparing status codes.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrValidation  = errors.New("request rejected by validation")
	ErrUnavailable = errors.New("service unavailable")
)

// APIError is a non-2xx response from the console API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is maps well-known statuses onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case ErrUnavailable:
		return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
	}
	return false
}

// NotFound builds the 404 error for a missing resource.
func NotFound(kind, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: fmt.Sprintf("%s %q does not exist", kind, id),
	}
}

// Invalid builds the 422 error for a request that failed validation.
func Invalid(message string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "validation_failed",
		Message: message,
	}
}

// Unavailable builds the 503 error for a transport or upstream failure.
func Unavailable(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "unavailable",
		Message: message,
	}
}

// IsNotFound reports whether err denotes a missing resource.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err denotes a rejected request. Retrying the
// same input will not help.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsTransient reports whether err is worth retrying: upstream outages,
// throttling, and similar conditions that pass on their own.
func IsTransient(err error) bool { return errors.Is(err, ErrUnavailable) }

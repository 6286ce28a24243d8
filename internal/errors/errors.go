package errors

import (
	"errors"
	"net/http"
)

// Validation errors.
var (
	// ErrMissingField is returned when a required field is blank.
	ErrMissingField = errors.New("missing required field")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort is returned when the password has fewer than MinPasswordLength characters.
	ErrPasswordTooShort = errors.New("password is too short")
	// ErrMalformedSelection is returned when a shared trip selection cannot be parsed.
	ErrMalformedSelection = errors.New("malformed trip selection")
	// ErrInvalidTripSelector is returned for an unknown trip selector.
	ErrInvalidTripSelector = errors.New("invalid trip selector")
)

// Authentication errors.
var (
	// ErrInvalidPassword is returned when the password does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrMissingProof is returned when a protected request carries no proof.
	ErrMissingProof = errors.New("missing authentication proof")
	// ErrInvalidProof is returned when a proof fails verification.
	ErrInvalidProof = errors.New("invalid authentication proof")
)

// Not-found errors.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTargetNotFound is returned when the share target email matches no user.
	ErrTargetNotFound = errors.New("share target not found")
	// ErrRequesterNotFound is returned when the sharing user no longer exists.
	ErrRequesterNotFound = errors.New("requester not found")
)

// Conflict errors.
var (
	// ErrEmailTaken is returned when another user already owns the email.
	ErrEmailTaken = errors.New("email already registered")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// IsValidation reports whether err carries at least one validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrMalformedSelection) ||
		errors.Is(err, ErrInvalidTripSelector)
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unrecognised is treated as a storage failure and hides its cause.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case err == nil:
		return nil
	case IsValidation(err):
		httpErr := NewHTTPError(http.StatusUnprocessableEntity, "validation failed", "VALIDATION_ERROR")
		httpErr.Details = Details(err)
		return httpErr
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrMissingProof):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MISSING_PROOF")
	case errors.Is(err, ErrInvalidProof):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PROOF")
	case errors.Is(err, ErrInvalidPassword):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "INVALID_PASSWORD")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTargetNotFound):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "TARGET_NOT_FOUND")
	case errors.Is(err, ErrRequesterNotFound):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "REQUESTER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// Details flattens a possibly joined error into one message per failure.
func Details(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, Details(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing field", fmt.Errorf("%w: email", ErrMissingField), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"joined validation", errors.Join(ErrPasswordMismatch, ErrPasswordTooShort), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"malformed selection", ErrMalformedSelection, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"email taken", ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"missing proof", ErrMissingProof, http.StatusUnauthorized, "MISSING_PROOF"},
		{"invalid proof", fmt.Errorf("parse: %w", ErrInvalidProof), http.StatusBadRequest, "INVALID_PROOF"},
		{"invalid password", ErrInvalidPassword, http.StatusUnprocessableEntity, "INVALID_PASSWORD"},
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"target not found", ErrTargetNotFound, http.StatusUnprocessableEntity, "TARGET_NOT_FOUND"},
		{"requester not found", ErrRequesterNotFound, http.StatusUnprocessableEntity, "REQUESTER_NOT_FOUND"},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesStorageCause(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.Message)
	assert.Empty(t, httpErr.Details)
}

func TestDetails_FlattensJoinedErrors(t *testing.T) {
	err := errors.Join(
		fmt.Errorf("%w: name", ErrMissingField),
		errors.Join(ErrPasswordMismatch, ErrPasswordTooShort),
	)

	details := Details(err)
	assert.Equal(t, []string{
		"missing required field: name",
		"passwords do not match",
		"password is too short",
	}, details)

	resp := MapErrorToHTTP(err).ToErrorResponse()
	assert.Equal(t, details, resp.Details)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "travelshare/internal/errors"
)

// ContextKeyPrincipal is where the auth middleware stores the *Principal.
const ContextKeyPrincipal = "principal"

// Principal is the authenticated caller of a protected request.
type Principal struct {
	UserID uuid.UUID
	Proof  string
}

// MessageResponse is the body of successful mutations that return no data.
type MessageResponse struct {
	Msg string `json:"msg"`
}

func principalFrom(c echo.Context) (*Principal, error) {
	p, ok := c.Get(ContextKeyPrincipal).(*Principal)
	if !ok || p == nil {
		return nil, errorResponse(c, apperrors.ErrMissingProof)
	}
	return p, nil
}

// errorResponse converts a service error into an echo HTTP error carrying an
// errors.ErrorResponse. Storage failures are logged; their cause never
// reaches the client.
func errorResponse(c echo.Context, err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Errorf("request %s: %v", c.Response().Header().Get(echo.HeaderXRequestID), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// legacyErrorResponse is errorResponse for the /usuarios routes, which report
// an unknown user as 422.
func legacyErrorResponse(c echo.Context, err error) *echo.HTTPError {
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, apperrors.ErrorResponse{
			Error: err.Error(),
			Code:  "USER_NOT_FOUND",
		})
	}
	return errorResponse(c, err)
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

func validationError(err error) *echo.HTTPError {
	resp := apperrors.ErrorResponse{Error: "validation failed", Code: "VALIDATION_ERROR"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Details = append(resp.Details, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	} else {
		resp.Details = []string{err.Error()}
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, resp)
}

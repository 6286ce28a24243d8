package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"travelshare/internal/auth"
	"travelshare/internal/service"
)

// CookieConfig describes the session cookie written in session auth mode.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// RegisterRequest represents a user registration request. Field names follow
// the legacy sign-up form.
type RegisterRequest struct {
	Name            string `json:"user" form:"user"`
	Email           string `json:"mail" form:"mail"`
	Password        string `json:"senha" form:"senha"`
	ConfirmPassword string `json:"confirmsenha" form:"confirmsenha"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"mail" form:"mail" validate:"required"`
	Password string `json:"senha" form:"senha" validate:"required"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Msg  string      `json:"msg"`
	User interface{} `json:"user"`
}

// LoginResponse carries the issued proof. In session mode the same value is
// also set as a cookie.
type LoginResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Msg:  "user registered successfully",
		User: user,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	proof, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	if proof.Kind == auth.KindSession {
		c.SetCookie(h.sessionCookie(proof.Value, proof.ExpiresAt))
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Msg:   "logged in successfully",
		Token: proof.Value,
	})
}

// Logout godoc
// @Summary Logout user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), p.Proof); err != nil {
		return errorResponse(c, err)
	}

	if h.authService.ProofKind() == auth.KindSession {
		// Expire the cookie client side as well.
		c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	}

	return c.JSON(http.StatusOK, MessageResponse{Msg: "logged out successfully"})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !expires.IsZero() {
		cookie.Expires = expires
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

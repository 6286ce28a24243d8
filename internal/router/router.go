package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"travelshare/internal/config"
	apperrors "travelshare/internal/errors"
	"travelshare/internal/handler"
	"travelshare/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tripHandler *handler.TripHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// Secured routes (require a token or a session cookie)
	secured := e.Group("", ProofMiddleware(cfg, authService))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/user/:id", userHandler.GetUser)
	secured.POST("/usuarios/atualizar", userHandler.UpdateProfile)
	secured.POST("/usuarios/viagens", tripHandler.AddTrip)
	secured.POST("/usuarios/compartilhar", tripHandler.ShareTrip)
}

// verifyError marks errors returned by the proof verifier, as opposed to
// extraction failures (no header, no cookie).
type verifyError struct {
	err error
}

func (e *verifyError) Error() string { return e.err.Error() }
func (e *verifyError) Unwrap() error { return e.err }

// ProofMiddleware authenticates requests carrying a bearer token or the
// session cookie and stores a *handler.Principal in the context.
func ProofMiddleware(cfg *config.Config, authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + cfg.SessionCookie,
		ContextKey:  handler.ContextKeyPrincipal,
		ParseTokenFunc: func(c echo.Context, proof string) (interface{}, error) {
			userID, err := authService.Authenticate(c.Request().Context(), proof)
			if err != nil {
				return nil, &verifyError{err: err}
			}
			return &handler.Principal{UserID: userID, Proof: proof}, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var verr *verifyError
			if !errors.As(err, &verr) {
				err = apperrors.ErrMissingProof
			} else {
				err = verr.err
			}
			httpErr := apperrors.MapErrorToHTTP(err)
			if httpErr.StatusCode >= http.StatusInternalServerError {
				c.Logger().Errorf("verify proof: %v", err)
			}
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

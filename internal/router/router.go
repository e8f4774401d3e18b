package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	tokens *auth.TokenService,
	authHandler *handler.AuthHandler,
	todoHandler *handler.TodoHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/health", health)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes: every request passes the bearer-token gate before any
	// handler runs, and carries a typed identity afterwards.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:     auth.IdentityContextKey,
		ParseTokenFunc: parseToken(tokens),
		ErrorHandler:   unauthenticated,
	}))

	secured.GET("/auth/me", authHandler.Me)
	secured.PATCH("/auth/me", authHandler.UpdateMe)
	secured.DELETE("/auth/me", authHandler.DeleteMe)

	secured.GET("/todos", todoHandler.List)
	secured.POST("/todos", todoHandler.Create)
	secured.GET("/todos/:id", todoHandler.Get)
	secured.PUT("/todos/:id", todoHandler.Update)
	secured.DELETE("/todos/:id", todoHandler.Delete)
}

// parseToken verifies the bearer token and converts its claims into the
// typed identity stored on the context.
func parseToken(tokens *auth.TokenService) func(c echo.Context, token string) (interface{}, error) {
	return func(c echo.Context, token string) (interface{}, error) {
		claims, err := tokens.Verify(token)
		if err != nil {
			return nil, err
		}
		return auth.IdentityFromClaims(claims)
	}
}

// unauthenticated collapses every gate failure into one 401 response. The
// expired/invalid distinction is logged but never exposed to the caller.
func unauthenticated(c echo.Context, err error) error {
	log.WithError(err).WithField("path", c.Path()).Debug("request rejected by auth gate")
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: "invalid or expired token",
		Code:  "UNAUTHENTICATED",
	})
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
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

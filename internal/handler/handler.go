package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
)

// httpError maps a domain error onto the shared response shape.
func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// requireIdentity reads the identity the authorization middleware attached.
// Reaching a handler without one means the route was wired outside the
// secured group, so the request is refused rather than served unscoped.
func requireIdentity(c echo.Context) (*auth.Identity, error) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHENTICATED",
		})
	}
	return identity, nil
}

package auth

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IdentityContextKey is where the authorization middleware stores the
// verified identity on the echo context.
const IdentityContextKey = "identity"

// Identity is the authenticated caller attached to a request after the
// bearer token has been verified.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// IdentityFromClaims converts verified token claims into an Identity.
func IdentityFromClaims(claims *Claims) (*Identity, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return &Identity{UserID: userID, Email: claims.Email}, nil
}

// CurrentIdentity reads the identity set by the authorization middleware.
// The second return is false on routes the middleware did not cover.
func CurrentIdentity(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(IdentityContextKey).(*Identity)
	return id, ok
}

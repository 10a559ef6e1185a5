package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// Session cookie names.
const (
	UserCookie  = "user_token"
	AdminCookie = "admin_token"
)

// Context keys set by Auth.
const (
	ClaimsKey = "claims"
	RoleKey   = "role"
)

// TokenVerifier validates a session token.
type TokenVerifier interface {
	Verify(token string) (*domain.SessionClaims, error)
}

// Auth validates the session token and injects its claims into the context.
// The Authorization bearer header wins; the named cookie is the fallback.
func Auth(verifier TokenVerifier, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c, cookieName)
			if err != nil {
				return err
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session").SetInternal(err)
			}

			c.Set(ClaimsKey, claims)
			c.Set(RoleKey, claims.Role)

			return next(c)
		}
	}
}

func extractToken(c echo.Context, cookieName string) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

// Claims returns the session claims injected by Auth.
func Claims(c echo.Context) (*domain.SessionClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.SessionClaims)
	return claims, ok && claims != nil
}

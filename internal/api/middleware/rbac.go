package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// RBAC admits only sessions whose role is one of roles. It runs after Auth:
// a request with no session is unauthenticated, not forbidden.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return domain.ErrInvalidToken
			}
			if !hasRole(claims, roles) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

func hasRole(claims *domain.SessionClaims, roles []string) bool {
	for _, r := range roles {
		if claims.Role == r {
			return true
		}
	}
	return false
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/api/middleware"
	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// ctxClaims returns the session claims injected by the Auth middleware. A zero
// subject means the token is structurally valid but unusable.
func ctxClaims(c echo.Context) (*domain.SessionClaims, error) {
	claims, ok := middleware.Claims(c)
	if !ok || claims.UserID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// bindValid binds the request into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return c.Validate(req)
}

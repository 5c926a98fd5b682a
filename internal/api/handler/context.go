package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icisct/conference-system/internal/core/domain"
)

// currentUser extracts the user injected by the Auth middleware. A missing
// user on a protected route means the route was wired without the
// middleware; reject with 401 rather than proceed.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return user, nil
}

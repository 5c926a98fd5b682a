package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/icisct/conference-system/internal/core/ports"
)

// SessionCookieName is the cookie carrying the opaque session credential.
// Clients never parse its value.
const SessionCookieName = "conference_session"

// Auth resolves the session cookie to a user and injects it into context.
// Requests without a live session are rejected with 401.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			user, err := auth.Me(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("role", user.Role)

			return next(c)
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC enforces role-based access control. An empty allowedRoles list means
// any authenticated role passes.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if len(allowed) > 0 {
				if _, ok := allowed[role]; !ok {
					return c.JSON(http.StatusForbidden, map[string]string{"message": "forbidden"})
				}
			}
			return next(c)
		}
	}
}

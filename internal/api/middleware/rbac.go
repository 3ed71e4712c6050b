package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salonbook/booking-api/internal/core/domain"
)

// RBAC enforces role-based access control. Each route declares its exact
// allowed set; there is no hierarchy, so an admin only passes where the set
// names Admin explicitly.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

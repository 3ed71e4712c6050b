package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salonbook/booking-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: both fields must be present, so no
// operation ever runs with a partially populated identity.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(domain.Role)
	if userID == "" || !role.Valid() {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Identity{SubjectID: userID, Role: role}, nil
}

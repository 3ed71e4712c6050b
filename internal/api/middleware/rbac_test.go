package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/salonbook/booking-api/internal/core/domain"
)

func rbacContext(role interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/appointments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	return c, rec
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	c, _ := rbacContext(domain.RoleCustomer)
	called := false
	err := RBAC(domain.RoleCustomer)(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if !called {
		t.Fatalf("next handler was not called")
	}
}

func TestRBAC_ForbidsUnlistedRole(t *testing.T) {
	cases := map[string]interface{}{
		"other role":   domain.RoleStaff,
		"missing role": nil,
		"raw string":   "Customer",
	}
	for name, role := range cases {
		c, rec := rbacContext(role)
		err := RBAC(domain.RoleCustomer)(func(c echo.Context) error {
			t.Errorf("%s: next handler must not run", name)
			return nil
		})(c)
		if err != nil {
			t.Fatalf("%s: middleware returned error: %v", name, err)
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d", name, rec.Code)
		}
	}
}

func TestRBAC_NoAdminHierarchy(t *testing.T) {
	// each route names its exact set; Admin gets no implicit pass
	c, rec := rbacContext(domain.RoleAdmin)
	RBAC(domain.RoleCustomer)(func(c echo.Context) error {
		t.Errorf("admin must not pass a customer-only route")
		return nil
	})(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on a customer-only route, got %d", rec.Code)
	}
}

func TestRBAC_MultipleRoles(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer} {
		c, _ := rbacContext(role)
		called := false
		err := RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer)(func(c echo.Context) error {
			called = true
			return nil
		})(c)
		if err != nil || !called {
			t.Errorf("role %s should pass, err=%v called=%v", role, err, called)
		}
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func rbacContext(role interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/grievances", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	return c, rec
}

func TestRBAC_AllowedRole(t *testing.T) {
	c, _ := rbacContext("official")

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}

	if err := RBAC("official", "admin")(next)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next handler was not called")
	}
}

func TestRBAC_DeniedRole(t *testing.T) {
	c, rec := rbacContext("citizen")

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}

	if err := RBAC("official", "admin")(next)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("next handler must not be called for a denied role")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRBAC_MissingRole(t *testing.T) {
	c, rec := rbacContext(nil)

	err := RBAC("admin")(func(echo.Context) error { return nil })(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func authContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/grievances", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":        "user_1",
		"name":       "Asha Rao",
		"phone":      "+91-9800000001",
		"role":       "citizen",
		"department": "",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	c, _ := authContext("Bearer " + token)

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}

	if err := Auth(testSecret)(next)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next handler was not called")
	}
	if got := c.Get("user_id"); got != "user_1" {
		t.Errorf("user_id = %v, want user_1", got)
	}
	if got := c.Get("role"); got != "citizen" {
		t.Errorf("role = %v, want citizen", got)
	}
	if got := c.Get("phone"); got != "+91-9800000001" {
		t.Errorf("phone = %v", got)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	c, _ := authContext("")

	err := Auth(testSecret)(func(echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	c, _ := authContext("Token abc123")

	err := Auth(testSecret)(func(echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "another-secret", jwt.MapClaims{
		"sub":  "user_1",
		"role": "citizen",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	c, _ := authContext("Bearer " + token)

	err := Auth(testSecret)(func(echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user_1",
		"role": "citizen",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	c, _ := authContext("Bearer " + token)

	err := Auth(testSecret)(func(echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}

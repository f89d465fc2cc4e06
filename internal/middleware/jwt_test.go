package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/utils"
)

func runRequest(t *testing.T, secret, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/vehicles", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTAuth(secret)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuthInjectsIdentity(t *testing.T) {
	const secret = "s"
	tok, err := utils.NewAccessToken(secret, 9, 3, "Park", "STAFF", 10)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, c := runRequest(t, secret, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got, ok := c.Get("user_id").(uint64); !ok || got != 9 {
		t.Errorf("user_id = %v, want 9", c.Get("user_id"))
	}
	if got, ok := c.Get("company_id").(uint64); !ok || got != 3 {
		t.Errorf("company_id = %v, want 3", c.Get("company_id"))
	}
	if got, _ := c.Get("role").(string); got != "STAFF" {
		t.Errorf("role = %v, want STAFF", c.Get("role"))
	}
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runRequest(t, "s", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 9, 3, "Park", "STAFF", 10)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, _ := runRequest(t, "s", "Bearer "+tok.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsMangledToken(t *testing.T) {
	rec, _ := runRequest(t, "s", "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

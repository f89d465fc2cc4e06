package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 7, 42, "Kim Manager", "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tk.Method)
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v (valid=%v)", err, parsed != nil && parsed.Valid)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if got := claims["sub"].(float64); got != 7 {
		t.Errorf("sub = %v, want 7", got)
	}
	if got := claims["company_id"].(float64); got != 42 {
		t.Errorf("company_id = %v, want 42", got)
	}
	if got := claims["role"].(string); got != "ADMIN" {
		t.Errorf("role = %q, want ADMIN", got)
	}
	if got := claims["name"].(string); got != "Kim Manager" {
		t.Errorf("name = %q", got)
	}
	if tok.Exp.Before(time.Now().Add(14 * time.Minute)) {
		t.Error("expiry earlier than requested TTL")
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("right", 1, 1, "n", "STAFF", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	if err == nil && parsed.Valid {
		t.Error("token validated with the wrong secret")
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(14)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Errorf("raw length = %d, want 96 hex chars", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Error("hash of the same raw token differs between calls")
	}
	other, _ := NewRefreshToken(14)
	if rt.Raw == other.Raw {
		t.Error("two refresh tokens should never collide")
	}
}

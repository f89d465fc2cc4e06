// Package utils provides token creation and password hashing helpers.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT plus its expiry. Access tokens are
// short-lived and sent in the Authorization header.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is the long-lived token used to mint new access
// tokens. Raw goes to the client; the database stores only
// HashRefreshRaw(Raw).
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// NewAccessToken signs an HS256 JWT carrying the user's identity and
// tenant. company_id is the claim every protected endpoint scopes its
// queries by, so it rides in the token rather than in request input.
func NewAccessToken(secret string, userID, companyID uint64, name, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":        userID,
		"company_id": companyID,
		"name":       name,
		"role":       role,
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random token and its
// expiry, ttlDays from now.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token. Only
// this hash is persisted, so a leaked table cannot refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

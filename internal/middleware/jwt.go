package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token and injects the identity
// claims into the request context.  Handlers read the values via
// c.Get("user_id"), c.Get("company_id"), c.Get("name") and
// c.Get("role").  company_id is what scopes every query to the
// caller's tenant, so a request without a valid token never reaches a
// handler.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			userID, ok1 := claimUint64(claims, "sub")
			companyID, ok2 := claimUint64(claims, "company_id")
			if !ok1 || !ok2 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set("user_id", userID)
			c.Set("company_id", companyID)
			c.Set("name", claims["name"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}

// claimUint64 reads a numeric claim.  JSON numbers decode as float64,
// so the conversion happens once here instead of in every handler.
func claimUint64(claims jwt.MapClaims, key string) (uint64, bool) {
	switch v := claims[key].(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case uint64:
		return v, true
	default:
		return 0, false
	}
}

// Package handler contains the HTTP handlers.  Handlers bind and
// validate request payloads, call into repositories or the
// reservation service, and translate domain errors to status codes.
// Tenant identity always comes from the JWT claims placed in context
// by the auth middleware, never from request input.
package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

var errNoIdentity = errors.New("identity missing from context")

// getUserID returns the authenticated user id from context.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errNoIdentity
}

// getCompanyID returns the caller's tenant from context.
func getCompanyID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("company_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errNoIdentity
}

// Package repository implements the MySQL data access layer.  This
// file defines sentinel errors shared across repositories so that
// handlers can distinguish failure scenarios.  ErrForbidden marks an
// operation on a resource owned by another company, ErrConflict marks
// an operation blocked by dependent state (e.g. deleting a vehicle
// that still has reservations, or registering a phone number that
// another customer of the company already uses).
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource that belongs to a different company.  Handlers translate
// this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a mutation cannot proceed because of
// conflicting state.  Handlers translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// isDuplicateErr reports whether err is MySQL error 1062 (duplicate
// entry for a unique or primary key).
func isDuplicateErr(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// isForeignKeyErr reports whether err is MySQL error 1451 (cannot
// delete a parent row that child rows still reference).
func isForeignKeyErr(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1451
}

// Package schedule implements the scheduling rules for the rental
// calendar: interval conflict detection, the geometry used to draw a
// reservation bar inside a day cell, and the projection of the fleet
// onto a range of days.  Everything in this package is pure; it is
// the single authoritative implementation of the overlap rule and is
// shared by the write path and the conflict pre-check endpoint so the
// two can never diverge.
package schedule

import (
	"time"

	"github.com/iliyamo/rentcar-reservation/internal/model"
)

// Candidate describes a proposed rental interval for one vehicle.
// ExcludeID names a reservation to ignore during the check; it is set
// to the reservation's own id on updates so that a booking never
// conflicts with itself.  Zero means nothing is excluded.
type Candidate struct {
	VIN       string
	StartAt   time.Time
	EndAt     time.Time
	ExcludeID uint64
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.  Because the end instant is excluded, a
// rental ending exactly when another begins does not overlap it.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Conflicts reports whether the candidate collides with any existing
// reservation on the same vehicle.  Reservations on other vehicles
// never conflict.  The slice is not modified.
//
// The result is only as fresh as its inputs: callers on the write
// path must evaluate it against rows read from the database inside
// the same transaction as the insert or update, never against a
// client-side snapshot.
func Conflicts(existing []model.Reservation, cand Candidate) bool {
	for _, r := range existing {
		if r.VIN != cand.VIN {
			continue
		}
		if cand.ExcludeID != 0 && r.ID == cand.ExcludeID {
			continue
		}
		if Overlaps(cand.StartAt, cand.EndAt, r.StartAt, r.EndAt) {
			return true
		}
	}
	return false
}

package schedule

import (
	"testing"
	"time"

	"github.com/iliyamo/rentcar-reservation/internal/model"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(model.TimeLayout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func res(t *testing.T, id uint64, vin, start, end string) model.Reservation {
	t.Helper()
	return model.Reservation{ID: id, VIN: vin, StartAt: ts(t, start), EndAt: ts(t, end)}
}

func TestConflictsOverlapping(t *testing.T) {
	existing := []model.Reservation{
		res(t, 1, "VIN-A", "2024-01-01 10:00:00", "2024-01-01 14:00:00"),
	}
	cand := Candidate{VIN: "VIN-A", StartAt: ts(t, "2024-01-01 13:00:00"), EndAt: ts(t, "2024-01-01 15:00:00")}
	if !Conflicts(existing, cand) {
		t.Fatal("expected conflict for overlapping intervals on the same vehicle")
	}
}

func TestConflictsBackToBack(t *testing.T) {
	// Half-open intervals: ending at 12:00 and starting at 12:00 may coexist.
	existing := []model.Reservation{
		res(t, 1, "VIN-A", "2024-01-01 10:00:00", "2024-01-01 12:00:00"),
	}
	cand := Candidate{VIN: "VIN-A", StartAt: ts(t, "2024-01-01 12:00:00"), EndAt: ts(t, "2024-01-01 14:00:00")}
	if Conflicts(existing, cand) {
		t.Fatal("back-to-back reservations must not conflict")
	}
}

func TestConflictsSymmetry(t *testing.T) {
	cases := []struct {
		aStart, aEnd, bStart, bEnd string
	}{
		{"2024-01-01 10:00:00", "2024-01-01 14:00:00", "2024-01-01 13:00:00", "2024-01-01 15:00:00"},
		{"2024-01-01 10:00:00", "2024-01-01 12:00:00", "2024-01-01 12:00:00", "2024-01-01 14:00:00"},
		{"2024-01-01 00:00:00", "2024-01-05 00:00:00", "2024-01-02 00:00:00", "2024-01-03 00:00:00"},
		{"2024-01-01 10:00:00", "2024-01-01 11:00:00", "2024-01-02 10:00:00", "2024-01-02 11:00:00"},
	}
	for _, c := range cases {
		a := Candidate{VIN: "VIN-A", StartAt: ts(t, c.aStart), EndAt: ts(t, c.aEnd)}
		b := []model.Reservation{res(t, 2, "VIN-A", c.bStart, c.bEnd)}
		aAsExisting := []model.Reservation{res(t, 1, "VIN-A", c.aStart, c.aEnd)}
		bAsCand := Candidate{VIN: "VIN-A", StartAt: ts(t, c.bStart), EndAt: ts(t, c.bEnd)}
		if Conflicts(b, a) != Conflicts(aAsExisting, bAsCand) {
			t.Errorf("conflict check not symmetric for %v vs %v", c.aStart, c.bStart)
		}
	}
}

func TestConflictsDifferentVehicles(t *testing.T) {
	existing := []model.Reservation{
		res(t, 1, "VIN-B", "2024-01-01 10:00:00", "2024-01-01 14:00:00"),
	}
	cand := Candidate{VIN: "VIN-A", StartAt: ts(t, "2024-01-01 10:00:00"), EndAt: ts(t, "2024-01-01 14:00:00")}
	if Conflicts(existing, cand) {
		t.Fatal("identical intervals on different vehicles must not conflict")
	}
}

func TestConflictsExcludesSelfOnUpdate(t *testing.T) {
	// Updating reservation 5 to its current interval must not report a
	// conflict against itself.
	existing := []model.Reservation{
		res(t, 5, "VIN-A", "2024-01-01 10:00:00", "2024-01-01 14:00:00"),
	}
	cand := Candidate{VIN: "VIN-A", StartAt: ts(t, "2024-01-01 10:00:00"), EndAt: ts(t, "2024-01-01 14:00:00"), ExcludeID: 5}
	if Conflicts(existing, cand) {
		t.Fatal("reservation conflicted with itself during update")
	}
	// But it must still conflict with other bookings.
	existing = append(existing, res(t, 6, "VIN-A", "2024-01-01 13:00:00", "2024-01-01 16:00:00"))
	if !Conflicts(existing, cand) {
		t.Fatal("expected conflict with a different overlapping reservation")
	}
}

func TestConflictsContainment(t *testing.T) {
	// An interval fully inside an existing one conflicts, and vice versa.
	existing := []model.Reservation{
		res(t, 1, "VIN-A", "2024-01-01 00:00:00", "2024-01-10 00:00:00"),
	}
	inner := Candidate{VIN: "VIN-A", StartAt: ts(t, "2024-01-03 00:00:00"), EndAt: ts(t, "2024-01-04 00:00:00")}
	if !Conflicts(existing, inner) {
		t.Fatal("contained interval should conflict")
	}
	outer := Candidate{VIN: "VIN-A", StartAt: ts(t, "2023-12-01 00:00:00"), EndAt: ts(t, "2024-02-01 00:00:00")}
	if !Conflicts(existing, outer) {
		t.Fatal("containing interval should conflict")
	}
}

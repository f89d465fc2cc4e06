package schedule

import (
	"math"
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return v
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLayoutSingleDay(t *testing.T) {
	start := ts(t, "2024-01-01 09:00:00")
	end := ts(t, "2024-01-01 17:00:00")
	d := day(t, "2024-01-01")

	bar := Layout(start, end, d, d)
	if !approx(bar.LeftFraction, 9.0*60/1440) {
		t.Errorf("left = %v, want %v", bar.LeftFraction, 9.0*60/1440)
	}
	if !approx(bar.WidthFraction, 8.0*60/1440) {
		t.Errorf("width = %v, want %v", bar.WidthFraction, 8.0*60/1440)
	}
	if !bar.RoundedStart || !bar.RoundedEnd {
		t.Errorf("single-day bar should round both edges, got start=%v end=%v", bar.RoundedStart, bar.RoundedEnd)
	}
	if !bar.IsLabelCell {
		t.Error("single-day bar should carry its label")
	}
}

func TestLayoutFullDaySpan(t *testing.T) {
	// Runs from Jan 1 through Jan 3; Jan 2 is covered edge to edge.
	start := ts(t, "2024-01-01 00:00:00")
	end := ts(t, "2024-01-03 00:00:00")
	d := day(t, "2024-01-02")

	bar := Layout(start, end, d, day(t, "2024-01-01"))
	if !approx(bar.LeftFraction, 0) || !approx(bar.WidthFraction, 1) {
		t.Errorf("full-day span: left=%v width=%v, want 0 and 1", bar.LeftFraction, bar.WidthFraction)
	}
	if bar.RoundedStart || bar.RoundedEnd {
		t.Errorf("middle day must not round edges, got start=%v end=%v", bar.RoundedStart, bar.RoundedEnd)
	}
}

func TestLayoutEdgeRounding(t *testing.T) {
	start := ts(t, "2024-01-01 10:00:00")
	end := ts(t, "2024-01-03 15:00:00")
	first := day(t, "2024-01-01")

	firstBar := Layout(start, end, day(t, "2024-01-01"), first)
	if !firstBar.RoundedStart || firstBar.RoundedEnd {
		t.Errorf("start day: want start-only rounding, got start=%v end=%v", firstBar.RoundedStart, firstBar.RoundedEnd)
	}
	lastBar := Layout(start, end, day(t, "2024-01-03"), first)
	if lastBar.RoundedStart || !lastBar.RoundedEnd {
		t.Errorf("end day: want end-only rounding, got start=%v end=%v", lastBar.RoundedStart, lastBar.RoundedEnd)
	}
	if !approx(lastBar.LeftFraction, 0) {
		t.Errorf("end day bar should start at the left edge, got %v", lastBar.LeftFraction)
	}
	if !approx(lastBar.WidthFraction, 15.0*60/1440) {
		t.Errorf("end day width = %v, want %v", lastBar.WidthFraction, 15.0*60/1440)
	}
}

func TestLayoutLabelShownExactlyOnce(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		firstDay   string
	}{
		{"starts inside range", "2024-01-02 10:00:00", "2024-01-04 10:00:00", "2024-01-01"},
		{"starts before range", "2023-12-28 08:00:00", "2024-01-03 12:00:00", "2024-01-01"},
		{"single day", "2024-01-05 09:00:00", "2024-01-05 18:00:00", "2024-01-01"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start, end := ts(t, c.start), ts(t, c.end)
			first := day(t, c.firstDay)
			labels := 0
			for i := 0; i < 30; i++ {
				d := first.AddDate(0, 0, i)
				if !IntersectsDay(start, end, d) {
					continue
				}
				if Layout(start, end, d, first).IsLabelCell {
					labels++
				}
			}
			if labels != 1 {
				t.Errorf("label rendered %d times, want exactly once", labels)
			}
		})
	}
}

func TestIntersectsDayBoundaries(t *testing.T) {
	start := ts(t, "2024-01-01 10:00:00")
	end := ts(t, "2024-01-02 00:00:00")
	if !IntersectsDay(start, end, day(t, "2024-01-01")) {
		t.Error("reservation should be visible on its start day")
	}
	// Ends exactly at midnight: not visible on the following day.
	if IntersectsDay(start, end, day(t, "2024-01-02")) {
		t.Error("half-open interval ending at midnight must not bleed into the next day")
	}
}

func TestLayoutFractionsStayInRange(t *testing.T) {
	start := ts(t, "2023-12-20 06:30:00")
	end := ts(t, "2024-01-10 21:45:00")
	first := day(t, "2024-01-01")
	for i := 0; i < 30; i++ {
		d := first.AddDate(0, 0, i)
		if !IntersectsDay(start, end, d) {
			continue
		}
		bar := Layout(start, end, d, first)
		if bar.LeftFraction < 0 || bar.LeftFraction > 1 {
			t.Errorf("day %s: left fraction %v out of range", d.Format("2006-01-02"), bar.LeftFraction)
		}
		if bar.WidthFraction < 0 || bar.LeftFraction+bar.WidthFraction > 1+1e-9 {
			t.Errorf("day %s: width fraction %v out of range", d.Format("2006-01-02"), bar.WidthFraction)
		}
	}
}

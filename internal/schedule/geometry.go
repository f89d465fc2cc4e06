package schedule

import "time"

// minutesPerDay is the width of one calendar cell in minutes.
const minutesPerDay = 1440

// BarLayout describes where a reservation bar sits inside a single
// day cell.  Fractions are relative to the cell width and always fall
// in [0, 1].  RoundedStart/RoundedEnd control corner rounding: an
// edge is rounded only when the reservation truly begins or ends on
// the displayed day, so a bar spanning several days reads as one
// continuous block.  IsLabelCell is true on exactly one cell per
// visible reservation; that cell carries the customer-name label.
type BarLayout struct {
	LeftFraction  float64 `json:"left"`
	WidthFraction float64 `json:"width"`
	RoundedStart  bool    `json:"rounded_start"`
	RoundedEnd    bool    `json:"rounded_end"`
	IsLabelCell   bool    `json:"label"`
}

// DayStart returns midnight of the calendar day containing t, in t's
// location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IntersectsDay reports whether the half-open interval
// [startAt, endAt) is visible anywhere inside the 24-hour window of
// day.  day must be a midnight value such as returned by DayStart.
func IntersectsDay(startAt, endAt, day time.Time) bool {
	dayEnd := day.Add(24 * time.Hour)
	return startAt.Before(dayEnd) && endAt.After(day)
}

// Layout clips the interval [startAt, endAt) to the 24-hour window of
// day and converts it into cell-relative geometry.  firstVisibleDay
// is the first day of the displayed range; the label lands on the
// later of that day and the day the reservation starts, which is the
// first cell where any part of the bar is visible.
//
// Callers are expected to invoke Layout only for days on which the
// reservation is actually visible (IntersectsDay returned true) and
// with endAt after startAt; validation has happened long before this
// point.
func Layout(startAt, endAt, day, firstVisibleDay time.Time) BarLayout {
	dayEnd := day.Add(24 * time.Hour)

	effStart := startAt
	if effStart.Before(day) {
		effStart = day
	}
	effEnd := endAt
	if effEnd.After(dayEnd) {
		effEnd = dayEnd
	}

	fromMin := effStart.Sub(day).Minutes()
	toMin := effEnd.Sub(day).Minutes()

	labelDay := DayStart(startAt)
	if labelDay.Before(firstVisibleDay) {
		labelDay = firstVisibleDay
	}

	return BarLayout{
		LeftFraction:  fromMin / minutesPerDay,
		WidthFraction: (toMin - fromMin) / minutesPerDay,
		RoundedStart:  DayStart(startAt).Equal(day),
		RoundedEnd:    DayStart(endAt).Equal(day),
		IsLabelCell:   labelDay.Equal(day),
	}
}

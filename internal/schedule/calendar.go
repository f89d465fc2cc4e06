package schedule

import (
	"time"

	"github.com/iliyamo/rentcar-reservation/internal/model"
)

// Cell pairs a reservation with the geometry of its bar inside one
// day cell.
type Cell struct {
	Reservation model.Reservation
	Bar         BarLayout
}

// Row holds one vehicle's cells across the projected range.  Days has
// one entry per displayed day, in order; each entry lists the bars
// visible in that cell.
type Row struct {
	Vehicle model.Vehicle
	Days    [][]Cell
}

// Project builds the vehicles-by-days calendar grid.  firstDay must
// be a midnight value (see DayStart) and days the number of columns.
// For every (vehicle, day) pair it selects the reservations visible
// in that window and attaches their bar geometry.  Project is
// read-only: it composes IntersectsDay and Layout over data the
// caller already fetched and holds no state of its own.
func Project(vehicles []model.Vehicle, reservations []model.Reservation, firstDay time.Time, days int) []Row {
	rows := make([]Row, 0, len(vehicles))
	for _, v := range vehicles {
		row := Row{Vehicle: v, Days: make([][]Cell, days)}
		for i := 0; i < days; i++ {
			day := firstDay.AddDate(0, 0, i)
			cells := []Cell{}
			for _, r := range reservations {
				if r.VIN != v.VIN {
					continue
				}
				if !IntersectsDay(r.StartAt, r.EndAt, day) {
					continue
				}
				cells = append(cells, Cell{
					Reservation: r,
					Bar:         Layout(r.StartAt, r.EndAt, day, firstDay),
				})
			}
			row.Days[i] = cells
		}
		rows = append(rows, row)
	}
	return rows
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/repository"
	"github.com/iliyamo/rentcar-reservation/internal/schedule"
)

// CalendarHandler serves the schedule grid: one row per vehicle, one
// column per day, each cell holding the bars to draw.
type CalendarHandler struct {
	Vehicles     *repository.VehicleRepo
	Reservations *repository.ReservationRepo
}

func NewCalendarHandler(v *repository.VehicleRepo, r *repository.ReservationRepo) *CalendarHandler {
	return &CalendarHandler{Vehicles: v, Reservations: r}
}

const (
	defaultCalendarDays = 30
	maxCalendarDays     = 92
)

type calendarBar struct {
	ReservationID uint64             `json:"reservation_id"`
	CustomerName  string             `json:"customer_name"`
	Status        string             `json:"status"`
	Bar           schedule.BarLayout `json:"bar"`
}

type calendarRow struct {
	Vehicle model.Vehicle   `json:"vehicle"`
	Days    [][]calendarBar `json:"days"`
}

type calendarResp struct {
	Start string        `json:"start"`
	Days  int           `json:"days"`
	Rows  []calendarRow `json:"rows"`
}

// Get handles GET /v1/calendar?start=YYYY-MM-DD&days=N.  start
// defaults to today (UTC) and days to a month.
func (h *CalendarHandler) Get(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	start := schedule.DayStart(time.Now().UTC())
	if raw := c.QueryParam("start"); raw != "" {
		start, err = time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be YYYY-MM-DD"})
		}
	}
	days := defaultCalendarDays
	if raw := c.QueryParam("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxCalendarDays {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be between 1 and 92"})
		}
	}

	ctx := c.Request().Context()
	vehicles, err := h.Vehicles.List(ctx, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	details, err := h.Reservations.ListDetails(ctx, companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reservations := make([]model.Reservation, len(details))
	names := make(map[uint64]string, len(details))
	for i, d := range details {
		reservations[i] = d.Reservation()
		names[d.ReservationID] = d.CustomerName
	}

	rows := schedule.Project(vehicles, reservations, start, days)
	out := make([]calendarRow, len(rows))
	for i, row := range rows {
		cols := make([][]calendarBar, len(row.Days))
		for di, cells := range row.Days {
			bars := make([]calendarBar, len(cells))
			for bi, cell := range cells {
				bars[bi] = calendarBar{
					ReservationID: cell.Reservation.ID,
					CustomerName:  names[cell.Reservation.ID],
					Status:        cell.Reservation.Status,
					Bar:           cell.Bar,
				}
			}
			cols[di] = bars
		}
		out[i] = calendarRow{Vehicle: row.Vehicle, Days: cols}
	}

	return c.JSON(http.StatusOK, calendarResp{
		Start: start.Format("2006-01-02"),
		Days:  days,
		Rows:  out,
	})
}

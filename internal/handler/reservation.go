package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/queue"
	"github.com/iliyamo/rentcar-reservation/internal/repository"
	"github.com/iliyamo/rentcar-reservation/internal/schedule"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

// ReservationReader supplies the joined read projections.  The SQL
// implementation is repository.ReservationRepo; tests substitute a
// fake.
type ReservationReader interface {
	ListDetails(ctx context.Context, companyID uint64) ([]repository.ReservationDetail, error)
	GetDetail(ctx context.Context, companyID, id uint64) (*repository.ReservationDetail, error)
}

// ReservationHandler serves the reservation endpoints.  Writes go
// through the lifecycle service; reads use the joined detail queries
// so responses carry vehicle and customer display fields.
type ReservationHandler struct {
	Svc  *service.ReservationService
	Repo ReservationReader
}

func NewReservationHandler(svc *service.ReservationService, repo ReservationReader) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Repo: repo}
}

// reservationReq is the write payload.  Exactly one of customer_id
// and customer must be present: the latter creates the customer in
// the same transaction as the reservation.
type reservationReq struct {
	VIN              string          `json:"vin"`
	CustomerID       uint64          `json:"customer_id"`
	Customer         *model.Customer `json:"customer"`
	StartDatetime    string          `json:"start_datetime"`
	EndDatetime      string          `json:"end_datetime"`
	Status           string          `json:"status"`
	DailyPrice       *float64        `json:"daily_price"`
	Discount         *float64        `json:"discount"`
	DispatchLocation *string         `json:"dispatch_location"`
	ReturnLocation   *string         `json:"return_location"`
	PaymentStatus    *string         `json:"payment_status"`
	PaymentMethod    *string         `json:"payment_method"`
}

func parseDatetime(s string) (time.Time, error) {
	return time.ParseInLocation(model.TimeLayout, strings.TrimSpace(s), time.UTC)
}

func (r *reservationReq) toInput() (service.ReservationInput, error) {
	var in service.ReservationInput
	start, err := parseDatetime(r.StartDatetime)
	if err != nil {
		return in, errors.New("start_datetime must be YYYY-MM-DD HH:MM:SS")
	}
	end, err := parseDatetime(r.EndDatetime)
	if err != nil {
		return in, errors.New("end_datetime must be YYYY-MM-DD HH:MM:SS")
	}
	return service.ReservationInput{
		VIN:              strings.ToUpper(strings.TrimSpace(r.VIN)),
		CustomerID:       r.CustomerID,
		DraftCustomer:    r.Customer,
		StartAt:          start,
		EndAt:            end,
		Status:           strings.ToUpper(strings.TrimSpace(r.Status)),
		DailyPrice:       r.DailyPrice,
		Discount:         r.Discount,
		DispatchLocation: r.DispatchLocation,
		ReturnLocation:   r.ReturnLocation,
		PaymentStatus:    r.PaymentStatus,
		PaymentMethod:    r.PaymentMethod,
	}, nil
}

// writeError maps service errors to the API's status codes.  Updates
// and deletes answer 403 for a missing id on purpose: the response
// must not reveal whether the id exists under another company.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle already booked in this interval"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no permission or not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already registered"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
}

// List handles GET /v1/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Repo.ListDetails(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, details)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Repo.GetDetail(c.Request().Context(), companyID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	created, err := h.Svc.Create(c.Request().Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	go h.publishCreated(companyID, created.ID)
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": created.ID})
}

// Update handles PUT /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Svc.Update(c.Request().Context(), companyID, id, in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": id})
}

// Delete handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// Snapshot before the delete so the cancelled event can carry the
	// interval.
	detail, err := h.Repo.GetDetail(c.Request().Context(), companyID, id)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		c.Logger().Warnf("reservation %d: snapshot before delete failed, cancelled event will be skipped: %v", id, err)
	}
	if err := h.Svc.Delete(c.Request().Context(), companyID, id); err != nil {
		return writeError(c, err)
	}
	if detail != nil {
		go publishCancelled(*detail)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": id})
}

// CheckConflict handles GET /v1/reservations/conflicts.  It is an
// advisory pre-check for the booking form; the write path re-runs the
// same predicate inside its transaction.
func (h *ReservationHandler) CheckConflict(c echo.Context) error {
	companyID, err := getCompanyID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	vin := strings.ToUpper(strings.TrimSpace(c.QueryParam("vin")))
	start, err1 := parseDatetime(c.QueryParam("start"))
	end, err2 := parseDatetime(c.QueryParam("end"))
	if vin == "" || err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vin, start and end are required"})
	}
	var excludeID uint64
	if raw := c.QueryParam("exclude_id"); raw != "" {
		excludeID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude_id"})
		}
	}
	conflict, err := h.Svc.CheckConflict(c.Request().Context(), companyID, schedule.Candidate{
		VIN: vin, StartAt: start, EndAt: end, ExcludeID: excludeID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"conflict": conflict})
}

// publishCreated loads the joined detail and emits the created event.
// Runs in its own goroutine with a fresh context: the reservation is
// already committed, so a failed publish only costs the log line.
func (h *ReservationHandler) publishCreated(companyID, id uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	detail, err := h.Repo.GetDetail(ctx, companyID, id)
	if err != nil {
		return
	}
	_ = queue.PublishReservationCreated(ctx, queue.ReservationCreatedEvent{
		ReservationID: detail.ReservationID,
		CompanyID:     detail.CompanyID,
		VIN:           detail.VIN,
		VehicleModel:  detail.VehicleModel,
		CustomerID:    detail.CustomerID,
		CustomerName:  detail.CustomerName,
		StartAt:       detail.StartDatetime,
		EndAt:         detail.EndDatetime,
		Status:        detail.Status,
		CreatedAt:     time.Now().UTC().Format(model.TimeLayout),
	})
}

func publishCancelled(detail repository.ReservationDetail) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = queue.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
		ReservationID: detail.ReservationID,
		CompanyID:     detail.CompanyID,
		VIN:           detail.VIN,
		StartAt:       detail.StartDatetime,
		EndAt:         detail.EndDatetime,
		CancelledAt:   time.Now().UTC().Format(model.TimeLayout),
	})
}

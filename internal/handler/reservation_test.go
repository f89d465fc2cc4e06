package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/repository"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

// bookingStore is a minimal in-memory service.Store for handler
// tests.  Mutations apply directly; the handler tests only exercise
// status codes and response shapes, the transactional semantics are
// covered by the service tests.
type bookingStore struct {
	vehicles  map[string]bool
	customers map[uint64]bool
	rows      map[uint64]model.Reservation
	nextID    uint64
}

func newBookingStore() *bookingStore {
	return &bookingStore{
		vehicles:  map[string]bool{"VIN-A": true},
		customers: map[uint64]bool{5: true},
		rows:      map[uint64]model.Reservation{},
	}
}

func (s *bookingStore) ListReservations(_ context.Context, companyID uint64) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for _, r := range s.rows {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *bookingStore) GetReservation(_ context.Context, companyID, id uint64) (*model.Reservation, error) {
	r, ok := s.rows[id]
	if !ok || r.CompanyID != companyID {
		return nil, service.ErrNotFound
	}
	return &r, nil
}

func (s *bookingStore) Transact(_ context.Context, fn func(tx service.Tx) error) error {
	return fn(&bookingTx{s})
}

type bookingTx struct{ s *bookingStore }

func (t *bookingTx) ReservationsForVehicle(_ context.Context, companyID uint64, vin string) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for _, r := range t.s.rows {
		if r.CompanyID == companyID && r.VIN == vin {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *bookingTx) VehicleExists(_ context.Context, _ uint64, vin string) (bool, error) {
	return t.s.vehicles[vin], nil
}

func (t *bookingTx) CustomerExists(_ context.Context, _ uint64, id uint64) (bool, error) {
	return t.s.customers[id], nil
}

func (t *bookingTx) InsertCustomer(_ context.Context, c *model.Customer) (uint64, error) {
	t.s.nextID++
	t.s.customers[t.s.nextID] = true
	return t.s.nextID, nil
}

func (t *bookingTx) InsertReservation(_ context.Context, r *model.Reservation) (uint64, error) {
	t.s.nextID++
	row := *r
	row.ID = t.s.nextID
	t.s.rows[row.ID] = row
	return row.ID, nil
}

func (t *bookingTx) UpdateReservation(_ context.Context, r *model.Reservation) (int64, error) {
	old, ok := t.s.rows[r.ID]
	if !ok || old.CompanyID != r.CompanyID {
		return 0, nil
	}
	t.s.rows[r.ID] = *r
	return 1, nil
}

func (t *bookingTx) DeleteReservation(_ context.Context, companyID, id uint64) (int64, error) {
	r, ok := t.s.rows[id]
	if !ok || r.CompanyID != companyID {
		return 0, nil
	}
	delete(t.s.rows, id)
	return 1, nil
}

// detailReader fakes the joined read projection.
type detailReader struct {
	details map[uint64]repository.ReservationDetail
	err     error
}

func (r *detailReader) ListDetails(_ context.Context, _ uint64) ([]repository.ReservationDetail, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []repository.ReservationDetail{}
	for _, d := range r.details {
		out = append(out, d)
	}
	return out, nil
}

func (r *detailReader) GetDetail(_ context.Context, _ uint64, id uint64) (*repository.ReservationDetail, error) {
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.details[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return &d, nil
}

func newHandler(store *bookingStore, reader *detailReader) (*ReservationHandler, *echo.Echo) {
	return NewReservationHandler(service.NewReservationService(store), reader), echo.New()
}

func request(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("company_id", uint64(1))
	c.Set("user_id", uint64(1))
	return c, rec
}

func TestCreateReservationAnswers200WithID(t *testing.T) {
	h, e := newHandler(newBookingStore(), &detailReader{err: service.ErrNotFound})
	c, rec := request(e, http.MethodPost, "/v1/reservations",
		`{"vin":"VIN-A","customer_id":5,"start_datetime":"2024-01-02 10:00:00","end_datetime":"2024-01-04 10:00:00"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp map[string]uint64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["reservation_id"] == 0 {
		t.Error("response is missing the generated reservation_id")
	}
}

func TestDeleteReservationAnswers200(t *testing.T) {
	store := newBookingStore()
	store.rows[1] = model.Reservation{ID: 1, CompanyID: 1, VIN: "VIN-A"}
	h, e := newHandler(store, &detailReader{err: service.ErrNotFound})

	c, rec := request(e, http.MethodDelete, "/v1/reservations/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if _, ok := store.rows[1]; ok {
		t.Error("row still present after delete")
	}
}

func TestDeleteForeignReservationAnswers403(t *testing.T) {
	h, e := newHandler(newBookingStore(), &detailReader{err: service.ErrNotFound})
	c, rec := request(e, http.MethodDelete, "/v1/reservations/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// A failed pre-delete snapshot must not block the delete; it is
// logged and only the cancelled event is skipped.
func TestDeleteSurvivesSnapshotFailure(t *testing.T) {
	store := newBookingStore()
	store.rows[1] = model.Reservation{ID: 1, CompanyID: 1, VIN: "VIN-A"}
	h, e := newHandler(store, &detailReader{err: context.DeadlineExceeded})

	var logs bytes.Buffer
	e.Logger.SetOutput(&logs)
	e.Logger.SetLevel(log.WARN)

	c, rec := request(e, http.MethodDelete, "/v1/reservations/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(logs.String(), "snapshot before delete failed") {
		t.Error("snapshot failure was not logged")
	}
}

func TestCreateOverlapAnswers409(t *testing.T) {
	store := newBookingStore()
	h, e := newHandler(store, &detailReader{err: service.ErrNotFound})

	c, rec := request(e, http.MethodPost, "/v1/reservations",
		`{"vin":"VIN-A","customer_id":5,"start_datetime":"2024-01-02 10:00:00","end_datetime":"2024-01-04 10:00:00"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("first create status = %d, want 200", rec.Code)
	}

	c, rec = request(e, http.MethodPost, "/v1/reservations",
		`{"vin":"VIN-A","customer_id":5,"start_datetime":"2024-01-03 00:00:00","end_datetime":"2024-01-05 00:00:00"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("overlapping create status = %d, want 409", rec.Code)
	}
}

// Package service contains the reservation lifecycle manager.  It
// sits between the HTTP handlers and the store: handlers never talk
// to SQL for reservation writes, and the store never decides business
// rules.  All writes run inside a single store transaction so the
// overlap check and the row mutation commit or fail together.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/schedule"
)

// Sentinel errors surfaced to handlers.  Handlers map ErrValidation
// to 400, ErrConflict to 409 and ErrNotFound to the original API's
// 403 "not owned or missing" response, which deliberately does not
// reveal whether the id exists under another company.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("reservation conflict")
	ErrNotFound   = errors.New("not found")
)

// Store is the persistence boundary the lifecycle manager depends
// on.  Reads outside a transaction serve list/get; every mutation
// goes through Transact, whose callback observes and changes state
// atomically.  The SQL implementation lives in the repository
// package; tests supply an in-memory one.
type Store interface {
	ListReservations(ctx context.Context, companyID uint64) ([]model.Reservation, error)
	GetReservation(ctx context.Context, companyID, id uint64) (*model.Reservation, error)
	Transact(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the store operations available inside one transaction.
// ReservationsForVehicle must lock the returned rows against
// concurrent writers for the duration of the transaction; that lock
// is what closes the race between two requests that both pass the
// overlap check and both insert.
type Tx interface {
	ReservationsForVehicle(ctx context.Context, companyID uint64, vin string) ([]model.Reservation, error)
	VehicleExists(ctx context.Context, companyID uint64, vin string) (bool, error)
	CustomerExists(ctx context.Context, companyID, customerID uint64) (bool, error)
	InsertCustomer(ctx context.Context, c *model.Customer) (uint64, error)
	InsertReservation(ctx context.Context, r *model.Reservation) (uint64, error)
	UpdateReservation(ctx context.Context, r *model.Reservation) (int64, error)
	DeleteReservation(ctx context.Context, companyID, id uint64) (int64, error)
}

// ReservationInput carries every mutable reservation field for create
// and update.  Updates are full-record replaces; there is no partial
// patch.  Exactly one of CustomerID and DraftCustomer must be set on
// create: a draft customer is inserted inside the same transaction as
// the reservation, so an abandoned form never leaves an orphan row.
type ReservationInput struct {
	VIN              string
	CustomerID       uint64
	DraftCustomer    *model.Customer
	StartAt          time.Time
	EndAt            time.Time
	Status           string
	DailyPrice       *float64
	Discount         *float64
	DispatchLocation *string
	ReturnLocation   *string
	PaymentStatus    *string
	PaymentMethod    *string
}

// ReservationService implements the reservation lifecycle over an
// abstract Store.
type ReservationService struct {
	store Store
}

// NewReservationService returns a service bound to the given store.
func NewReservationService(store Store) *ReservationService {
	if store == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{store: store}
}

// List returns all reservations of a company ordered by start time.
func (s *ReservationService) List(ctx context.Context, companyID uint64) ([]model.Reservation, error) {
	return s.store.ListReservations(ctx, companyID)
}

// Get returns a single reservation or ErrNotFound.
func (s *ReservationService) Get(ctx context.Context, companyID, id uint64) (*model.Reservation, error) {
	return s.store.GetReservation(ctx, companyID, id)
}

// CheckConflict runs the overlap detector against the current state
// of the store.  It backs the advisory pre-check endpoint; the result
// may be stale by the time a write happens, which is why Create and
// Update re-run the same predicate inside their transaction.
func (s *ReservationService) CheckConflict(ctx context.Context, companyID uint64, cand schedule.Candidate) (bool, error) {
	existing, err := s.store.ListReservations(ctx, companyID)
	if err != nil {
		return false, err
	}
	return schedule.Conflicts(existing, cand), nil
}

// Create validates the input, resolves the customer (persisting a
// draft if one was supplied), verifies there is no overlapping
// booking for the vehicle and inserts the reservation.  All of it
// happens in one transaction; on any failure nothing is persisted,
// including the draft customer.  The created reservation with its
// generated id is returned.
func (s *ReservationService) Create(ctx context.Context, companyID uint64, in ReservationInput) (*model.Reservation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var created *model.Reservation
	err := s.store.Transact(ctx, func(tx Tx) error {
		if err := checkVehicle(ctx, tx, companyID, in.VIN); err != nil {
			return err
		}
		customerID, err := resolveCustomer(ctx, tx, companyID, in)
		if err != nil {
			return err
		}
		existing, err := tx.ReservationsForVehicle(ctx, companyID, in.VIN)
		if err != nil {
			return err
		}
		cand := schedule.Candidate{VIN: in.VIN, StartAt: in.StartAt, EndAt: in.EndAt}
		if schedule.Conflicts(existing, cand) {
			return fmt.Errorf("%w: vehicle %s already booked in this interval", ErrConflict, in.VIN)
		}
		r := buildReservation(companyID, customerID, in)
		id, err := tx.InsertReservation(ctx, r)
		if err != nil {
			return err
		}
		r.ID = id
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces every mutable field of an existing reservation.
// The target must belong to companyID; otherwise ErrNotFound is
// returned without touching the row.  The overlap check excludes the
// reservation itself so an unchanged interval never self-conflicts.
func (s *ReservationService) Update(ctx context.Context, companyID, id uint64, in ReservationInput) (*model.Reservation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.CustomerID == 0 {
		return nil, fmt.Errorf("%w: customer_id is required", ErrValidation)
	}
	var updated *model.Reservation
	err := s.store.Transact(ctx, func(tx Tx) error {
		if err := checkVehicle(ctx, tx, companyID, in.VIN); err != nil {
			return err
		}
		ok, err := tx.CustomerExists(ctx, companyID, in.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: customer %d not found in company", ErrValidation, in.CustomerID)
		}
		existing, err := tx.ReservationsForVehicle(ctx, companyID, in.VIN)
		if err != nil {
			return err
		}
		cand := schedule.Candidate{VIN: in.VIN, StartAt: in.StartAt, EndAt: in.EndAt, ExcludeID: id}
		if schedule.Conflicts(existing, cand) {
			return fmt.Errorf("%w: vehicle %s already booked in this interval", ErrConflict, in.VIN)
		}
		r := buildReservation(companyID, in.CustomerID, in)
		r.ID = id
		affected, err := tx.UpdateReservation(ctx, r)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a reservation owned by companyID.  Deleting an id
// that does not exist under the company yields ErrNotFound, never a
// silent no-op.
func (s *ReservationService) Delete(ctx context.Context, companyID, id uint64) error {
	return s.store.Transact(ctx, func(tx Tx) error {
		affected, err := tx.DeleteReservation(ctx, companyID, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// validateInput enforces the field-level rules shared by create and
// update: interval present and strictly ordered, vehicle named,
// payment enumerations recognised when supplied.
func validateInput(in ReservationInput) error {
	if in.VIN == "" {
		return fmt.Errorf("%w: vin is required", ErrValidation)
	}
	if in.StartAt.IsZero() || in.EndAt.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrValidation)
	}
	if !in.EndAt.After(in.StartAt) {
		return fmt.Errorf("%w: end must be after start", ErrValidation)
	}
	if in.PaymentStatus != nil {
		switch *in.PaymentStatus {
		case model.PaymentPaid, model.PaymentUnpaid:
		default:
			return fmt.Errorf("%w: unknown payment_status %q", ErrValidation, *in.PaymentStatus)
		}
	}
	if in.PaymentMethod != nil {
		switch *in.PaymentMethod {
		case "CASH", "CARD", "TRANSFER":
		default:
			return fmt.Errorf("%w: unknown payment_method %q", ErrValidation, *in.PaymentMethod)
		}
	}
	return nil
}

// checkVehicle verifies the vehicle exists under the company.  A VIN
// from another tenant is indistinguishable from an unknown one.
func checkVehicle(ctx context.Context, tx Tx, companyID uint64, vin string) error {
	ok, err := tx.VehicleExists(ctx, companyID, vin)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: vehicle %s not found in company", ErrValidation, vin)
	}
	return nil
}

// resolveCustomer turns the input into a concrete customer id.  An
// existing id is verified against the company; a draft payload is
// inserted through the transaction so the new row only survives if
// the reservation insert does too.
func resolveCustomer(ctx context.Context, tx Tx, companyID uint64, in ReservationInput) (uint64, error) {
	if in.CustomerID != 0 {
		ok, err := tx.CustomerExists(ctx, companyID, in.CustomerID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: customer %d not found in company", ErrValidation, in.CustomerID)
		}
		return in.CustomerID, nil
	}
	if in.DraftCustomer != nil {
		draft := *in.DraftCustomer
		draft.CompanyID = companyID
		id, err := tx.InsertCustomer(ctx, &draft)
		if err != nil {
			return 0, err
		}
		return id, nil
	}
	return 0, fmt.Errorf("%w: customer_id or draft customer is required", ErrValidation)
}

// buildReservation assembles the row to persist, applying defaults.
func buildReservation(companyID, customerID uint64, in ReservationInput) *model.Reservation {
	status := in.Status
	if status == "" {
		status = model.StatusPending
	}
	return &model.Reservation{
		CompanyID:        companyID,
		VIN:              in.VIN,
		CustomerID:       customerID,
		StartAt:          in.StartAt,
		EndAt:            in.EndAt,
		Status:           status,
		DailyPrice:       in.DailyPrice,
		Discount:         in.Discount,
		DispatchLocation: in.DispatchLocation,
		ReturnLocation:   in.ReturnLocation,
		PaymentStatus:    in.PaymentStatus,
		PaymentMethod:    in.PaymentMethod,
	}
}

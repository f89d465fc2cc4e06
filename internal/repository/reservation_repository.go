package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

// ReservationRepo provides persistence for reservations and is the
// SQL implementation of the lifecycle manager's store interface
// (service.Store).  All timestamp columns are DATETIME in UTC; the
// DSN uses parseTime so they scan directly into time.Time.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a repository bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `reservation_id, company_id, vin, customer_id,
       start_datetime, end_datetime, status, daily_price, discount,
       dispatch_location, return_location, payment_status, payment_method`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (model.Reservation, error) {
	var (
		res        model.Reservation
		dailyPrice sql.NullFloat64
		discount   sql.NullFloat64
		dispatch   sql.NullString
		ret        sql.NullString
		payStatus  sql.NullString
		payMethod  sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.CompanyID, &res.VIN, &res.CustomerID,
		&res.StartAt, &res.EndAt, &res.Status, &dailyPrice, &discount,
		&dispatch, &ret, &payStatus, &payMethod,
	)
	if err != nil {
		return model.Reservation{}, err
	}
	if dailyPrice.Valid {
		v := dailyPrice.Float64
		res.DailyPrice = &v
	}
	if discount.Valid {
		v := discount.Float64
		res.Discount = &v
	}
	if dispatch.Valid {
		v := dispatch.String
		res.DispatchLocation = &v
	}
	if ret.Valid {
		v := ret.String
		res.ReturnLocation = &v
	}
	if payStatus.Valid {
		v := payStatus.String
		res.PaymentStatus = &v
	}
	if payMethod.Valid {
		v := payMethod.String
		res.PaymentMethod = &v
	}
	return res, nil
}

// ListReservations returns every reservation of a company ordered by
// start time ascending.
func (r *ReservationRepo) ListReservations(ctx context.Context, companyID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
               FROM reservations
               WHERE company_id = ?
               ORDER BY start_datetime`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// GetReservation returns one reservation scoped to the company.  A
// missing id and an id owned by another company are both reported as
// service.ErrNotFound.
func (r *ReservationRepo) GetReservation(ctx context.Context, companyID, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
               FROM reservations
               WHERE company_id = ? AND reservation_id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, companyID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Transact runs fn inside a single database transaction.  The commit
// only happens when fn returns nil; any error (or panic unwinding)
// rolls everything back, including customer rows inserted while
// promoting a draft.
func (r *ReservationRepo) Transact(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&reservationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// reservationTx implements service.Tx over one *sql.Tx.
type reservationTx struct {
	tx *sql.Tx
}

// ReservationsForVehicle loads the vehicle's bookings and locks them
// (FOR UPDATE) until the surrounding transaction finishes.  The lock
// serialises concurrent writes for the same vehicle so two requests
// cannot both pass the overlap check on stale data and both commit.
func (t *reservationTx) ReservationsForVehicle(ctx context.Context, companyID uint64, vin string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
               FROM reservations
               WHERE company_id = ? AND vin = ?
               FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, companyID, vin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (t *reservationTx) VehicleExists(ctx context.Context, companyID uint64, vin string) (bool, error) {
	const q = `SELECT 1 FROM vehicles WHERE vin = ? AND company_id = ?`
	var one int
	err := t.tx.QueryRowContext(ctx, q, vin, companyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (t *reservationTx) CustomerExists(ctx context.Context, companyID, customerID uint64) (bool, error) {
	const q = `SELECT 1 FROM customers WHERE customer_id = ? AND company_id = ?`
	var one int
	err := t.tx.QueryRowContext(ctx, q, customerID, companyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// InsertCustomer persists a draft customer inside the transaction.
// It shares the insert statement with CustomerRepo.Create so both
// paths write identical rows.
func (t *reservationTx) InsertCustomer(ctx context.Context, c *model.Customer) (uint64, error) {
	return insertCustomer(ctx, t.tx, c)
}

func (t *reservationTx) InsertReservation(ctx context.Context, r *model.Reservation) (uint64, error) {
	const q = `INSERT INTO reservations
               (company_id, vin, customer_id, start_datetime, end_datetime, status,
                daily_price, discount, dispatch_location, return_location,
                payment_status, payment_method)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := t.tx.ExecContext(ctx, q,
		r.CompanyID, r.VIN, r.CustomerID,
		r.StartAt.UTC().Format(model.TimeLayout), r.EndAt.UTC().Format(model.TimeLayout),
		r.Status, r.DailyPrice, r.Discount, r.DispatchLocation, r.ReturnLocation,
		r.PaymentStatus, r.PaymentMethod)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateReservation overwrites every mutable column.  The affected
// count reflects matched rows (the DSN sets clientFoundRows), so an
// update that changes nothing still reports 1 and only a missing or
// foreign row reports 0.
func (t *reservationTx) UpdateReservation(ctx context.Context, r *model.Reservation) (int64, error) {
	const q = `UPDATE reservations SET
                 vin = ?, customer_id = ?, start_datetime = ?, end_datetime = ?,
                 status = ?, daily_price = ?, discount = ?, dispatch_location = ?,
                 return_location = ?, payment_status = ?, payment_method = ?
               WHERE reservation_id = ? AND company_id = ?`
	result, err := t.tx.ExecContext(ctx, q,
		r.VIN, r.CustomerID,
		r.StartAt.UTC().Format(model.TimeLayout), r.EndAt.UTC().Format(model.TimeLayout),
		r.Status, r.DailyPrice, r.Discount, r.DispatchLocation, r.ReturnLocation,
		r.PaymentStatus, r.PaymentMethod,
		r.ID, r.CompanyID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (t *reservationTx) DeleteReservation(ctx context.Context, companyID, id uint64) (int64, error) {
	const q = `DELETE FROM reservations WHERE reservation_id = ? AND company_id = ?`
	result, err := t.tx.ExecContext(ctx, q, id, companyID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ReservationDetail is the list/read projection joined with vehicle
// and customer display fields, shaped like the API response.  StartAt
// and EndAt carry the parsed timestamps for callers (the calendar
// projection) that need to compute with them.
type ReservationDetail struct {
	ReservationID    uint64    `json:"reservation_id"`
	VIN              string    `json:"vin"`
	VehicleModel     string    `json:"vehicle_model"`
	VehiclePlate     string    `json:"vehicle_plate"`
	CustomerID       uint64    `json:"customer_id"`
	CustomerName     string    `json:"customer_name"`
	StartDatetime    string    `json:"start_datetime"`
	EndDatetime      string    `json:"end_datetime"`
	Status           string    `json:"status"`
	DailyPrice       *float64  `json:"daily_price"`
	Discount         *float64  `json:"discount"`
	DispatchLocation *string   `json:"dispatch_location"`
	ReturnLocation   *string   `json:"return_location"`
	PaymentStatus    *string   `json:"payment_status"`
	PaymentMethod    *string   `json:"payment_method"`
	StartAt          time.Time `json:"-"`
	EndAt            time.Time `json:"-"`
	CompanyID        uint64    `json:"-"`
}

// Reservation converts the detail back into the core model, which is
// what the schedule package computes with.
func (d ReservationDetail) Reservation() model.Reservation {
	return model.Reservation{
		ID:               d.ReservationID,
		CompanyID:        d.CompanyID,
		VIN:              d.VIN,
		CustomerID:       d.CustomerID,
		StartAt:          d.StartAt,
		EndAt:            d.EndAt,
		Status:           d.Status,
		DailyPrice:       d.DailyPrice,
		Discount:         d.Discount,
		DispatchLocation: d.DispatchLocation,
		ReturnLocation:   d.ReturnLocation,
		PaymentStatus:    d.PaymentStatus,
		PaymentMethod:    d.PaymentMethod,
	}
}

const detailQuery = `SELECT
         r.reservation_id, r.company_id, r.vin,
         v.model, v.plate_number,
         r.customer_id, c.name,
         r.start_datetime, r.end_datetime, r.status,
         r.daily_price, r.discount, r.dispatch_location, r.return_location,
         r.payment_status, r.payment_method
       FROM reservations r
       JOIN customers c ON r.customer_id = c.customer_id
       JOIN vehicles  v ON r.vin         = v.vin
       WHERE r.company_id = ?`

func scanDetail(row rowScanner) (ReservationDetail, error) {
	var (
		d          ReservationDetail
		dailyPrice sql.NullFloat64
		discount   sql.NullFloat64
		dispatch   sql.NullString
		ret        sql.NullString
		payStatus  sql.NullString
		payMethod  sql.NullString
	)
	err := row.Scan(
		&d.ReservationID, &d.CompanyID, &d.VIN,
		&d.VehicleModel, &d.VehiclePlate,
		&d.CustomerID, &d.CustomerName,
		&d.StartAt, &d.EndAt, &d.Status,
		&dailyPrice, &discount, &dispatch, &ret,
		&payStatus, &payMethod,
	)
	if err != nil {
		return ReservationDetail{}, err
	}
	d.StartDatetime = d.StartAt.UTC().Format(model.TimeLayout)
	d.EndDatetime = d.EndAt.UTC().Format(model.TimeLayout)
	if dailyPrice.Valid {
		v := dailyPrice.Float64
		d.DailyPrice = &v
	}
	if discount.Valid {
		v := discount.Float64
		d.Discount = &v
	}
	if dispatch.Valid {
		v := dispatch.String
		d.DispatchLocation = &v
	}
	if ret.Valid {
		v := ret.String
		d.ReturnLocation = &v
	}
	if payStatus.Valid {
		v := payStatus.String
		d.PaymentStatus = &v
	}
	if payMethod.Valid {
		v := payMethod.String
		d.PaymentMethod = &v
	}
	return d, nil
}

// ListDetails returns every reservation of the company joined with
// vehicle and customer display fields, ordered by start time.
func (r *ReservationRepo) ListDetails(ctx context.Context, companyID uint64) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+` ORDER BY r.start_datetime`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDetail returns one joined reservation row or service.ErrNotFound.
func (r *ReservationRepo) GetDetail(ctx context.Context, companyID, id uint64) (*ReservationDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailQuery+` AND r.reservation_id = ? LIMIT 1`, companyID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

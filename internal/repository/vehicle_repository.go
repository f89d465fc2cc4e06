package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

// VehicleRepo provides persistence for the fleet.  Vehicles are keyed
// by VIN within a company; reservations reference the VIN directly,
// which is why renames migrate and deletes are guarded.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo returns a repository bound to the given database.
func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleCols = `vin, company_id, model, plate_number, year`

func scanVehicle(row rowScanner) (model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.VIN, &v.CompanyID, &v.Model, &v.PlateNumber, &v.Year)
	return v, err
}

// List returns the company's fleet ordered by model then plate, the
// same order the calendar shows its rows in.
func (r *VehicleRepo) List(ctx context.Context, companyID uint64) ([]model.Vehicle, error) {
	const q = `SELECT ` + vehicleCols + `
               FROM vehicles WHERE company_id = ? ORDER BY model, plate_number`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Get returns one vehicle or service.ErrNotFound.
func (r *VehicleRepo) Get(ctx context.Context, companyID uint64, vin string) (*model.Vehicle, error) {
	const q = `SELECT ` + vehicleCols + `
               FROM vehicles WHERE company_id = ? AND vin = ?`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, q, companyID, vin))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create registers a vehicle.  A VIN already present for the company
// violates the primary key and is reported as ErrConflict.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `INSERT INTO vehicles (vin, company_id, model, plate_number, year)
               VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, v.VIN, v.CompanyID, v.Model, v.PlateNumber, v.Year)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Update replaces a vehicle's fields.  When v.VIN differs from the
// current vin the rename and the migration of every reservation that
// references the old VIN commit in one transaction, so the schedule
// never points at a vehicle that no longer exists.
func (r *VehicleRepo) Update(ctx context.Context, companyID uint64, vin string, v *model.Vehicle) error {
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

	const upd = `UPDATE vehicles SET vin = ?, model = ?, plate_number = ?, year = ?
                 WHERE vin = ? AND company_id = ?`
	result, err := tx.ExecContext(ctx, upd, v.VIN, v.Model, v.PlateNumber, v.Year, vin, companyID)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrConflict
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return service.ErrNotFound
	}

	if v.VIN != vin {
		const mig = `UPDATE reservations SET vin = ?
                     WHERE vin = ? AND company_id = ?`
		if _, err := tx.ExecContext(ctx, mig, v.VIN, vin, companyID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a vehicle.  A vehicle with reservations (past or
// future) cannot be deleted; callers must cancel or reassign the
// bookings first.  The guard runs in the same transaction as the
// delete so a reservation created concurrently cannot slip in between
// check and removal.
func (r *VehicleRepo) Delete(ctx context.Context, companyID uint64, vin string) error {
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

	const cnt = `SELECT COUNT(*) FROM reservations
                 WHERE company_id = ? AND vin = ? FOR UPDATE`
	var n int64
	if err := tx.QueryRowContext(ctx, cnt, companyID, vin).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}

	const del = `DELETE FROM vehicles WHERE vin = ? AND company_id = ?`
	result, err := tx.ExecContext(ctx, del, vin, companyID)
	if err != nil {
		if isForeignKeyErr(err) {
			return ErrConflict
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return service.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/rentcar-reservation/internal/model"
	"github.com/iliyamo/rentcar-reservation/internal/service"
)

// CustomerRepo provides persistence for the customer roster.  Every
// query is scoped by company_id so one tenant can never read or write
// another tenant's customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a repository bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// execer is satisfied by *sql.DB and *sql.Tx, so the insert statement
// can run standalone or inside the reservation transaction that
// promotes a draft customer.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Normalize strips formatting characters from the identifying fields
// (phone, ssn, licence number) so "010-1234-5678" and "01012345678"
// are stored and matched as the same value, and converts empty
// optional strings to nil so they land as SQL NULL.
func Normalize(c *model.Customer) {
	c.PhoneNumber = stripSeparators(c.PhoneNumber)
	c.SSN = stripSeparators(c.SSN)
	c.LicenseNumber = stripSeparators(c.LicenseNumber)
	for _, p := range []**string{
		&c.Email, &c.Zipcode, &c.Address, &c.AddressDetail,
		&c.Birthdate, &c.Gender, &c.LicenseExpiry, &c.Note,
	} {
		*p = emptyToNil(*p)
	}
}

func stripSeparators(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// insertCustomer writes one customer row and returns its generated
// id.  A phone number already registered by another customer of the
// same company is rejected with ErrConflict before the insert.
func insertCustomer(ctx context.Context, ex execer, c *model.Customer) (uint64, error) {
	Normalize(c)
	if c.PhoneNumber != nil {
		taken, err := phoneTaken(ctx, ex, c.CompanyID, *c.PhoneNumber, 0)
		if err != nil {
			return 0, err
		}
		if taken {
			return 0, ErrConflict
		}
	}
	const q = `INSERT INTO customers
               (company_id, name, phone_number, email, zipcode, address,
                address_detail, ssn, birthdate, gender, license_number,
                license_expiry, note, is_blacklisted)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := ex.ExecContext(ctx, q,
		c.CompanyID, c.Name, c.PhoneNumber, c.Email, c.Zipcode, c.Address,
		c.AddressDetail, c.SSN, c.Birthdate, c.Gender, c.LicenseNumber,
		c.LicenseExpiry, c.Note, c.IsBlacklisted)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// phoneTaken reports whether another customer of the company already
// uses this phone number.  excludeID skips the customer being updated.
func phoneTaken(ctx context.Context, ex execer, companyID uint64, phone string, excludeID uint64) (bool, error) {
	const q = `SELECT 1 FROM customers
               WHERE company_id = ? AND phone_number = ? AND customer_id <> ?
               LIMIT 1`
	var one int
	err := ex.QueryRowContext(ctx, q, companyID, phone, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

const customerCols = `customer_id, company_id, name, phone_number, email,
       zipcode, address, address_detail, ssn, birthdate, gender,
       license_number, license_expiry, note, is_blacklisted`

func scanCustomer(row rowScanner) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.PhoneNumber, &c.Email,
		&c.Zipcode, &c.Address, &c.AddressDetail, &c.SSN, &c.Birthdate,
		&c.Gender, &c.LicenseNumber, &c.LicenseExpiry, &c.Note,
		&c.IsBlacklisted,
	)
	return c, err
}

// List returns the company's customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context, companyID uint64) ([]model.Customer, error) {
	const q = `SELECT ` + customerCols + `
               FROM customers WHERE company_id = ? ORDER BY name, customer_id`
	rows, err := r.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns one customer or service.ErrNotFound.
func (r *CustomerRepo) Get(ctx context.Context, companyID, id uint64) (*model.Customer, error) {
	const q = `SELECT ` + customerCols + `
               FROM customers WHERE company_id = ? AND customer_id = ?`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, companyID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a customer and returns its id.  Duplicate phone
// numbers within the company surface as ErrConflict.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) (uint64, error) {
	return insertCustomer(ctx, r.db, c)
}

// Update replaces every mutable field of a customer.  A zero affected
// count means the id does not exist under the company and is reported
// as service.ErrNotFound.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	Normalize(c)
	if c.PhoneNumber != nil {
		taken, err := phoneTaken(ctx, r.db, c.CompanyID, *c.PhoneNumber, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
	}
	const q = `UPDATE customers SET
                 name = ?, phone_number = ?, email = ?, zipcode = ?,
                 address = ?, address_detail = ?, ssn = ?, birthdate = ?,
                 gender = ?, license_number = ?, license_expiry = ?,
                 note = ?, is_blacklisted = ?
               WHERE customer_id = ? AND company_id = ?`
	result, err := r.db.ExecContext(ctx, q,
		c.Name, c.PhoneNumber, c.Email, c.Zipcode,
		c.Address, c.AddressDetail, c.SSN, c.Birthdate,
		c.Gender, c.LicenseNumber, c.LicenseExpiry,
		c.Note, c.IsBlacklisted,
		c.ID, c.CompanyID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// Delete removes a customer.  Customers still referenced by
// reservations cannot be deleted; the foreign key makes MySQL refuse,
// which we report as ErrConflict so the handler answers 409.
func (r *CustomerRepo) Delete(ctx context.Context, companyID, id uint64) error {
	const q = `DELETE FROM customers WHERE customer_id = ? AND company_id = ?`
	result, err := r.db.ExecContext(ctx, q, id, companyID)
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
	return nil
}

// SetBlacklisted flips the blacklist flag without touching the rest
// of the record.
func (r *CustomerRepo) SetBlacklisted(ctx context.Context, companyID, id uint64, blocked bool) error {
	const q = `UPDATE customers SET is_blacklisted = ?
               WHERE customer_id = ? AND company_id = ?`
	result, err := r.db.ExecContext(ctx, q, blocked, id, companyID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return service.ErrNotFound
	}
	return nil
}

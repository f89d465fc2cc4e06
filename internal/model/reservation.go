package model

import "time"

// TimeLayout is the wire and database format for reservation
// timestamps ("YYYY-MM-DD HH:MM:SS", UTC).  Handlers parse request
// bodies with it and repositories format values back into it.
const TimeLayout = "2006-01-02 15:04:05"

// StatusPending is the default reservation status.  The status column
// is stored and echoed back verbatim; no transition rules are
// enforced on it.
const StatusPending = "PENDING"

// Payment enumerations accepted by validation.
const (
	PaymentPaid   = "PAID"
	PaymentUnpaid = "UNPAID"
)

// Reservation mirrors the `reservations` table.  A reservation rents
// one vehicle to one customer for the half-open interval
// [StartAt, EndAt); a booking that ends exactly when another begins
// does not conflict with it.
//
// Fields:
//  ID               – surrogate primary key.
//  CompanyID        – owning company (tenant); must match the
//                     vehicle's and the customer's company.
//  VIN              – rented vehicle.
//  CustomerID       – renting customer.
//  StartAt, EndAt   – rental interval, EndAt strictly after StartAt.
//  Status           – enumerated state, defaults to PENDING.
//  DailyPrice       – daily fee (nullable).
//  Discount         – discount percentage (nullable).
//  DispatchLocation – where the car is handed over (nullable).
//  ReturnLocation   – where the car comes back (nullable).
//  PaymentStatus    – PAID | UNPAID (nullable).
//  PaymentMethod    – CASH | CARD | TRANSFER (nullable).
type Reservation struct {
	ID               uint64    // reservations.reservation_id
	CompanyID        uint64    // reservations.company_id
	VIN              string    // reservations.vin
	CustomerID       uint64    // reservations.customer_id
	StartAt          time.Time // reservations.start_datetime
	EndAt            time.Time // reservations.end_datetime
	Status           string    // reservations.status
	DailyPrice       *float64  // reservations.daily_price (nullable)
	Discount         *float64  // reservations.discount (nullable)
	DispatchLocation *string   // reservations.dispatch_location (nullable)
	ReturnLocation   *string   // reservations.return_location (nullable)
	PaymentStatus    *string   // reservations.payment_status (nullable)
	PaymentMethod    *string   // reservations.payment_method (nullable)
}

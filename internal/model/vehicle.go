package model

// Vehicle represents a car in a company's rental fleet as stored in
// the `vehicles` table.  Vehicles are identified by their VIN, which
// is globally unique and used as a foreign key by reservations.
// Renaming a VIN therefore requires migrating every referencing
// reservation in the same transaction.
//
// Fields:
//  VIN         – vehicle identification number (primary key).
//  Model       – display model name shown on the calendar.
//  PlateNumber – licence plate string.
//  Year        – model year.
//  CompanyID   – owning company (tenant).
type Vehicle struct {
	VIN         string `json:"vin"`          // vehicles.vin
	Model       string `json:"model"`        // vehicles.model
	PlateNumber string `json:"plate_number"` // vehicles.plate_number
	Year        int    `json:"year"`         // vehicles.year
	CompanyID   uint64 `json:"-"`            // vehicles.company_id
}

package model

// Customer mirrors the `customers` table.  Customers are scoped to a
// company and may be created standalone from the roster page or
// inline while saving a reservation (a "draft" customer that is only
// persisted once the reservation itself commits).  Optional columns
// are pointers so that absent values round-trip as SQL NULL instead
// of empty strings.
//
// Fields:
//  ID            – surrogate primary key.
//  CompanyID     – owning company (tenant).
//  Name          – customer display name.
//  PhoneNumber   – normalized phone number (digits only).
//  Email         – contact email.
//  Zipcode, Address, AddressDetail – postal address parts.
//  SSN           – legal id number, normalized.
//  Birthdate     – date of birth (YYYY-MM-DD).
//  Gender        – free-form gender string.
//  LicenseNumber – driving licence number, normalized.
//  LicenseExpiry – licence expiry date (YYYY-MM-DD).
//  Note          – free-text memo.
//  IsBlacklisted – whether the customer is blocked from renting.
type Customer struct {
	ID            uint64  `json:"customer_id"` // customers.customer_id
	CompanyID     uint64  `json:"-"`           // customers.company_id
	Name          string  `json:"name"`
	PhoneNumber   *string `json:"phone_number"`
	Email         *string `json:"email"`
	Zipcode       *string `json:"zipcode"`
	Address       *string `json:"address"`
	AddressDetail *string `json:"address_detail"`
	SSN           *string `json:"ssn"`
	Birthdate     *string `json:"birthdate"`
	Gender        *string `json:"gender"`
	LicenseNumber *string `json:"license_number"`
	LicenseExpiry *string `json:"license_expiry"`
	Note          *string `json:"note"`
	IsBlacklisted bool    `json:"is_blacklisted"`
}

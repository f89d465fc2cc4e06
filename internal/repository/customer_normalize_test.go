package repository

import (
	"testing"

	"github.com/iliyamo/rentcar-reservation/internal/model"
)

func strptr(s string) *string { return &s }

func TestNormalizeStripsSeparators(t *testing.T) {
	c := model.Customer{
		Name:          "홍길동",
		PhoneNumber:   strptr("010-1234-5678"),
		SSN:           strptr("900101-1234567"),
		LicenseNumber: strptr("11-22-334455-66"),
	}
	Normalize(&c)

	if got := *c.PhoneNumber; got != "01012345678" {
		t.Errorf("phone = %q, want digits only", got)
	}
	if got := *c.SSN; got != "9001011234567" {
		t.Errorf("ssn = %q, want digits only", got)
	}
	if got := *c.LicenseNumber; got != "112233445566" {
		t.Errorf("license = %q, want digits only", got)
	}
}

func TestNormalizeSpacesInsidePhone(t *testing.T) {
	c := model.Customer{PhoneNumber: strptr("010 1234 5678")}
	Normalize(&c)
	if got := *c.PhoneNumber; got != "01012345678" {
		t.Errorf("phone = %q, want %q", got, "01012345678")
	}
}

func TestNormalizeEmptyOptionalBecomesNil(t *testing.T) {
	c := model.Customer{
		Name:        "Kim",
		PhoneNumber: strptr("  "),
		Email:       strptr(""),
		Address:     strptr("   "),
		Note:        strptr("keeps content"),
	}
	Normalize(&c)

	if c.PhoneNumber != nil {
		t.Errorf("blank phone should normalize to nil, got %q", *c.PhoneNumber)
	}
	if c.Email != nil {
		t.Error("empty email should normalize to nil")
	}
	if c.Address != nil {
		t.Error("blank address should normalize to nil")
	}
	if c.Note == nil || *c.Note != "keeps content" {
		t.Error("non-empty note must survive normalization")
	}
}

func TestNormalizeNilPointersStayNil(t *testing.T) {
	c := model.Customer{Name: "Lee"}
	Normalize(&c)
	if c.PhoneNumber != nil || c.SSN != nil || c.LicenseNumber != nil || c.Email != nil {
		t.Error("nil optionals must stay nil")
	}
}

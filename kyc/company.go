package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CompanyStatus is the verification state of a business customer.
type CompanyStatus string

const (
	CompanyPending  CompanyStatus = "pending"
	CompanyVerified CompanyStatus = "verified"
	CompanyRejected CompanyStatus = "rejected"
)

// Company is a business undergoing KYB verification, including its declared
// ultimate beneficial owners.
type Company struct {
	ID                 string
	LegalName          string
	RegistrationNumber string
	Country            string
	Status             CompanyStatus
	UBOs               []UBO
	CreatedAt          time.Time
}

// UBO is one ultimate beneficial owner declared for a company.
type UBO struct {
	ID           string
	FullName     string
	OwnershipPct float64
	Verified     bool
}

// DeclaredOwnership sums the ownership declared across all UBOs.
func (c Company) DeclaredOwnership() float64 {
	var total float64
	for _, u := range c.UBOs {
		total += u.OwnershipPct
	}
	return total
}

// Validate checks the company schema, including each declared UBO.
func (c Company) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.LegalName, validation.Required, validation.Length(1, 256)),
		validation.Field(&c.RegistrationNumber, validation.Required),
		validation.Field(&c.Country, validation.Required, validation.Length(2, 2)),
		validation.Field(&c.Status, validation.Required, validation.In(
			CompanyPending, CompanyVerified, CompanyRejected,
		)),
		validation.Field(&c.UBOs),
	)
}

// Validate checks one UBO declaration.
func (u UBO) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.ID, validation.Required),
		validation.Field(&u.FullName, validation.Required),
		validation.Field(&u.OwnershipPct, validation.Min(0.0), validation.Max(100.0)),
	)
}

// CompanyFilter narrows company lists.
type CompanyFilter struct {
	Status   CompanyStatus
	Search   string
	Page     int
	PageSize int
}

package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ApplicantStatus is the review lifecycle state of an applicant.
type ApplicantStatus string

const (
	ApplicantPending     ApplicantStatus = "pending"
	ApplicantUnderReview ApplicantStatus = "under_review"
	ApplicantApproved    ApplicantStatus = "approved"
	ApplicantRejected    ApplicantStatus = "rejected"
	ApplicantOnHold      ApplicantStatus = "on_hold"
)

// RiskLevel is the coarse risk classification assigned during review.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Applicant is an individual undergoing identity verification. CompanyID is
// set when the applicant was submitted as part of a business verification.
type Applicant struct {
	ID         string
	CompanyID  string
	FirstName  string
	LastName   string
	Email      string
	Status     ApplicantStatus
	RiskLevel  RiskLevel
	Tags       []string
	CreatedAt  time.Time
	ReviewedAt *time.Time
}

// FullName joins the applicant's name parts for display.
func (a Applicant) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Decided reports whether review reached a final outcome.
func (a Applicant) Decided() bool {
	return a.Status == ApplicantApproved || a.Status == ApplicantRejected
}

// Validate checks the applicant schema.
func (a Applicant) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.FirstName, validation.Required, validation.Length(1, 128)),
		validation.Field(&a.LastName, validation.Required, validation.Length(1, 128)),
		validation.Field(&a.Email, validation.Required, is.Email),
		validation.Field(&a.Status, validation.Required, validation.In(
			ApplicantPending, ApplicantUnderReview, ApplicantApproved, ApplicantRejected, ApplicantOnHold,
		)),
		validation.Field(&a.RiskLevel, validation.In(RiskLow, RiskMedium, RiskHigh)),
		validation.Field(&a.CreatedAt, validation.Required),
	)
}

// ApplicantFilter narrows applicant lists. It doubles as a cache key segment,
// so identical filters share one cached page.
type ApplicantFilter struct {
	Status    ApplicantStatus
	RiskLevel RiskLevel
	Search    string
	Page      int
	PageSize  int
}

package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CheckKind names a screening list family.
type CheckKind string

const (
	CheckSanctions    CheckKind = "sanctions"
	CheckPEP          CheckKind = "pep"
	CheckAdverseMedia CheckKind = "adverse_media"
)

// CheckStatus is the processing state of a screening check.
type CheckStatus string

const (
	CheckPending    CheckStatus = "pending"
	CheckProcessing CheckStatus = "processing"
	CheckCompleted  CheckStatus = "completed"
	CheckFailed     CheckStatus = "failed"
)

// ScreeningCheck is one asynchronous screening run against an applicant.
// Checks are created pending, move through processing on the provider side,
// and settle as completed or failed.
type ScreeningCheck struct {
	ID          string
	ApplicantID string
	Kind        CheckKind
	Status      CheckStatus
	HitCount    int
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Terminal reports whether the check will never change again. It is the
// predicate convergence polls stop on.
func (c ScreeningCheck) Terminal() bool {
	return c.Status == CheckCompleted || c.Status == CheckFailed
}

// Validate checks the screening check schema.
func (c ScreeningCheck) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.ApplicantID, validation.Required),
		validation.Field(&c.Kind, validation.Required, validation.In(
			CheckSanctions, CheckPEP, CheckAdverseMedia,
		)),
		validation.Field(&c.Status, validation.Required, validation.In(
			CheckPending, CheckProcessing, CheckCompleted, CheckFailed,
		)),
		validation.Field(&c.HitCount, validation.Min(0)),
	)
}

// HitResolution is an analyst's verdict on one screening hit.
type HitResolution string

const (
	HitUnresolved    HitResolution = "unresolved"
	HitFalsePositive HitResolution = "false_positive"
	HitTruePositive  HitResolution = "true_positive"
)

// ScreeningHit is one potential match surfaced by a completed check. Hits
// start unresolved and are settled one by one during review.
type ScreeningHit struct {
	ID          string
	CheckID     string
	ApplicantID string
	ListName    string
	MatchScore  float64
	Resolution  HitResolution
	ResolvedBy  string
	ResolvedAt  *time.Time
}

// Resolved reports whether an analyst has settled the hit.
func (h ScreeningHit) Resolved() bool {
	return h.Resolution == HitFalsePositive || h.Resolution == HitTruePositive
}

// Validate checks the screening hit schema.
func (h ScreeningHit) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.ID, validation.Required),
		validation.Field(&h.CheckID, validation.Required),
		validation.Field(&h.ApplicantID, validation.Required),
		validation.Field(&h.ListName, validation.Required),
		validation.Field(&h.MatchScore, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&h.Resolution, validation.Required, validation.In(
			HitUnresolved, HitFalsePositive, HitTruePositive,
		)),
	)
}

// HitFilter narrows hit lists for one check.
type HitFilter struct {
	Resolution HitResolution
	MinScore   float64
	Page       int
	PageSize   int
}

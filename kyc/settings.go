package kyc

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ScreeningSettings controls how checks are run for the workspace.
type ScreeningSettings struct {
	AutoScreenOnCreate bool
	Lists              []string
	MatchThreshold     float64
	RescreenDays       int
}

// Validate checks the screening settings schema.
func (s ScreeningSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.MatchThreshold, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&s.RescreenDays, validation.Min(0)),
	)
}

// NotificationSettings controls which email digests the workspace receives.
type NotificationSettings struct {
	DigestEmail    string
	OnHit          bool
	OnCaseEscalate bool
	OnWebhookFail  bool
}

// RetentionSettings controls how long records are kept after decision.
type RetentionSettings struct {
	ApplicantDays int
	DocumentDays  int
	AuditDays     int
}

// Validate checks the retention settings schema.
func (r RetentionSettings) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ApplicantDays, validation.Min(0)),
		validation.Field(&r.DocumentDays, validation.Min(0)),
		validation.Field(&r.AuditDays, validation.Min(0)),
	)
}

// Settings is the workspace configuration aggregate, saved as one unit.
type Settings struct {
	Screening    ScreeningSettings
	Notification NotificationSettings
	Retention    RetentionSettings
}

// Validate checks every settings group.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Screening),
		validation.Field(&s.Notification),
		validation.Field(&s.Retention),
	)
}

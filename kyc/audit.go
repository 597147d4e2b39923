package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AuditEvent is one immutable row in the compliance audit trail.
type AuditEvent struct {
	ID         string
	ActorID    string
	ActorEmail string
	Action     string
	TargetKind string
	TargetID   string
	Detail     map[string]string
	OccurredAt time.Time
}

// Validate checks the audit event schema.
func (e AuditEvent) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.ActorID, validation.Required),
		validation.Field(&e.Action, validation.Required),
		validation.Field(&e.OccurredAt, validation.Required),
	)
}

// AuditFilter narrows audit searches. Zero time bounds are open-ended.
type AuditFilter struct {
	ActorID    string
	Action     string
	TargetKind string
	Search     string
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

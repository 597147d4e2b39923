package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CaseStatus is the workflow state of a review case.
type CaseStatus string

const (
	CaseOpen      CaseStatus = "open"
	CaseInReview  CaseStatus = "in_review"
	CaseEscalated CaseStatus = "escalated"
	CaseClosed    CaseStatus = "closed"
)

// CasePriority orders the review queue.
type CasePriority string

const (
	PriorityLow    CasePriority = "low"
	PriorityNormal CasePriority = "normal"
	PriorityHigh   CasePriority = "high"
	PriorityUrgent CasePriority = "urgent"
)

// Case is a manual review task opened against an applicant, typically when
// screening or document analysis needs a human decision.
type Case struct {
	ID          string
	ApplicantID string
	Title       string
	Status      CaseStatus
	Priority    CasePriority
	AssigneeID  string
	OpenedAt    time.Time
	ClosedAt    *time.Time
}

// Active reports whether the case still needs work.
func (c Case) Active() bool { return c.Status != CaseClosed }

// Validate checks the case schema.
func (c Case) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.ApplicantID, validation.Required),
		validation.Field(&c.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&c.Status, validation.Required, validation.In(
			CaseOpen, CaseInReview, CaseEscalated, CaseClosed,
		)),
		validation.Field(&c.Priority, validation.Required, validation.In(
			PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent,
		)),
		validation.Field(&c.OpenedAt, validation.Required),
	)
}

// CaseFilter narrows case lists.
type CaseFilter struct {
	Status     CaseStatus
	Priority   CasePriority
	AssigneeID string
	Page       int
	PageSize   int
}

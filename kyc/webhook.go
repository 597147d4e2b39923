package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// WebhookEvent names a notification the console can subscribe an endpoint to.
type WebhookEvent string

const (
	EventApplicantDecided WebhookEvent = "applicant.decided"
	EventCheckCompleted   WebhookEvent = "check.completed"
	EventHitResolved      WebhookEvent = "hit.resolved"
	EventCaseClosed       WebhookEvent = "case.closed"
	EventDocumentAnalyzed WebhookEvent = "document.analyzed"
)

// Webhook is a delivery endpoint plus the events routed to it.
type Webhook struct {
	ID             string
	URL            string
	Events         []WebhookEvent
	Active         bool
	Secret         string
	FailureCount   int
	LastDeliveryAt *time.Time
	CreatedAt      time.Time
}

// Validate checks the webhook schema.
func (w Webhook) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.ID, validation.Required),
		validation.Field(&w.URL, validation.Required, is.URL),
		validation.Field(&w.Events, validation.Required, validation.Each(validation.In(
			EventApplicantDecided, EventCheckCompleted, EventHitResolved, EventCaseClosed, EventDocumentAnalyzed,
		))),
		validation.Field(&w.FailureCount, validation.Min(0)),
	)
}

// WebhookDelivery is one attempt against an endpoint, kept for the delivery
// log view.
type WebhookDelivery struct {
	ID          string
	WebhookID   string
	Event       WebhookEvent
	StatusCode  int
	Succeeded   bool
	AttemptedAt time.Time
}

package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// DeviceStatus is the fraud-signal verdict recorded for a device.
type DeviceStatus string

const (
	DeviceClear   DeviceStatus = "clear"
	DeviceSuspect DeviceStatus = "suspect"
	DeviceBlocked DeviceStatus = "blocked"
)

// Device is a fingerprinted client an applicant has been seen on. RiskScore
// and Flags come from the fraud-signal pipeline and are read-only here.
type Device struct {
	ID          string
	ApplicantID string
	Fingerprint string
	IPAddress   string
	UserAgent   string
	RiskScore   float64
	Flags       []string
	Status      DeviceStatus
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// Validate checks the device schema.
func (d Device) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.ApplicantID, validation.Required),
		validation.Field(&d.Fingerprint, validation.Required),
		validation.Field(&d.IPAddress, is.IP),
		validation.Field(&d.RiskScore, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&d.Status, validation.Required, validation.In(
			DeviceClear, DeviceSuspect, DeviceBlocked,
		)),
	)
}

// DeviceFilter narrows device listings.
type DeviceFilter struct {
	ApplicantID string
	Status      DeviceStatus
	Page        int
	PageSize    int
}

package kyc

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Role is the permission tier of a console account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReviewer Role = "reviewer"
	RoleViewer   Role = "viewer"
)

// TeamMember is a console account.
type TeamMember struct {
	ID       string
	Email    string
	Name     string
	Role     Role
	Active   bool
	JoinedAt time.Time
}

// Validate checks the member schema.
func (m TeamMember) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Role, validation.Required, validation.In(RoleAdmin, RoleReviewer, RoleViewer)),
	)
}

// InvitationStatus tracks an invite through its lifecycle.
type InvitationStatus string

const (
	InvitePending  InvitationStatus = "pending"
	InviteAccepted InvitationStatus = "accepted"
	InviteExpired  InvitationStatus = "expired"
	InviteRevoked  InvitationStatus = "revoked"
)

// Invitation is a pending offer to join the team.
type Invitation struct {
	ID        string
	Email     string
	Role      Role
	Status    InvitationStatus
	InvitedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Pending reports whether the invite can still be accepted or revoked.
func (i Invitation) Pending() bool {
	return i.Status == InvitePending
}

// Validate checks the invitation schema.
func (i Invitation) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Role, validation.Required, validation.In(RoleAdmin, RoleReviewer, RoleViewer)),
		validation.Field(&i.Status, validation.Required, validation.In(
			InvitePending, InviteAccepted, InviteExpired, InviteRevoked,
		)),
	)
}

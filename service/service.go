package service

import (
	"context"

	"github.com/veraxid/go-console-cache/kyc"
)

// Applicants serves individual KYC subjects.
type Applicants interface {
	Applicant(ctx context.Context, id string) (kyc.Applicant, error)
	ListApplicants(ctx context.Context, filter kyc.ApplicantFilter) (kyc.Page[kyc.Applicant], error)
	UpdateApplicant(ctx context.Context, a kyc.Applicant) (kyc.Applicant, error)
	ApproveApplicant(ctx context.Context, id string) (kyc.Applicant, error)
	RejectApplicant(ctx context.Context, id, reason string) (kyc.Applicant, error)
	DeleteApplicant(ctx context.Context, id string) error
}

// Companies serves KYB subjects and their declared owners.
type Companies interface {
	Company(ctx context.Context, id string) (kyc.Company, error)
	ListCompanies(ctx context.Context, filter kyc.CompanyFilter) (kyc.Page[kyc.Company], error)
	UpdateCompany(ctx context.Context, c kyc.Company) (kyc.Company, error)
}

// Screening serves watchlist checks and their hits.
type Screening interface {
	Check(ctx context.Context, id string) (kyc.ScreeningCheck, error)
	ChecksForApplicant(ctx context.Context, applicantID string) ([]kyc.ScreeningCheck, error)
	Hits(ctx context.Context, checkID string, filter kyc.HitFilter) (kyc.Page[kyc.ScreeningHit], error)
	RunScreening(ctx context.Context, applicantID string, kind kyc.CheckKind) (kyc.ScreeningCheck, error)
	ResolveHit(ctx context.Context, hitID string, resolution kyc.HitResolution) (kyc.ScreeningHit, error)
}

// Cases serves manual review tasks.
type Cases interface {
	Case(ctx context.Context, id string) (kyc.Case, error)
	ListCases(ctx context.Context, filter kyc.CaseFilter) (kyc.Page[kyc.Case], error)
	AssignCase(ctx context.Context, caseID, assigneeID string) (kyc.Case, error)
	CloseCase(ctx context.Context, caseID string) (kyc.Case, error)
}

// Documents serves uploaded files and their extraction runs.
type Documents interface {
	Document(ctx context.Context, id string) (kyc.Document, error)
	DocumentsForApplicant(ctx context.Context, applicantID string) ([]kyc.Document, error)
	RequestAnalysis(ctx context.Context, documentID string) (kyc.Document, error)
}

// Webhooks serves delivery endpoint management.
type Webhooks interface {
	ListWebhooks(ctx context.Context) ([]kyc.Webhook, error)
	SaveWebhook(ctx context.Context, w kyc.Webhook) (kyc.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
	TestEndpoint(ctx context.Context, id string) (kyc.WebhookDelivery, error)
}

// Devices serves the fraud-signal device registry.
type Devices interface {
	Device(ctx context.Context, id string) (kyc.Device, error)
	ListDevices(ctx context.Context, filter kyc.DeviceFilter) (kyc.Page[kyc.Device], error)
	ReviewDevice(ctx context.Context, deviceID string, status kyc.DeviceStatus) (kyc.Device, error)
}

// AuditLog serves the immutable activity trail.
type AuditLog interface {
	SearchAudit(ctx context.Context, filter kyc.AuditFilter) (kyc.Page[kyc.AuditEvent], error)
}

// Team serves console accounts and invitations.
type Team interface {
	Members(ctx context.Context) ([]kyc.TeamMember, error)
	Invitations(ctx context.Context) ([]kyc.Invitation, error)
	Invite(ctx context.Context, email string, role kyc.Role) (kyc.Invitation, error)
	RevokeInvitation(ctx context.Context, id string) (kyc.Invitation, error)
}

// Settings serves the workspace configuration aggregate.
type Settings interface {
	Settings(ctx context.Context) (kyc.Settings, error)
	SaveSettings(ctx context.Context, s kyc.Settings) (kyc.Settings, error)
}

// Services bundles one implementation per family. A zero field means the
// family is not wired; consumers that need it should treat that as a
// programming error.
type Services struct {
	Applicants Applicants
	Companies  Companies
	Screening  Screening
	Cases      Cases
	Documents  Documents
	Webhooks   Webhooks
	Devices    Devices
	Audit      AuditLog
	Team       Team
	Settings   Settings
}

package consolecache

import (
	"reflect"

	"github.com/jinzhu/inflection"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
)

// namespaceFor derives a family's key namespace from its entity type: the
// pluralized snake_case type name. kyc.ScreeningCheck -> "screening_checks".
func namespaceFor[T any]() string {
	var zero T
	return inflection.Plural(toSnake(reflect.TypeOf(zero).Name()))
}

var (
	nsApplicants  = namespaceFor[kyc.Applicant]()
	nsCompanies   = namespaceFor[kyc.Company]()
	nsChecks      = namespaceFor[kyc.ScreeningCheck]()
	nsCases       = namespaceFor[kyc.Case]()
	nsDocuments   = namespaceFor[kyc.Document]()
	nsWebhooks    = namespaceFor[kyc.Webhook]()
	nsDevices     = namespaceFor[kyc.Device]()
	nsAuditEvents = namespaceFor[kyc.AuditEvent]()
	nsMembers     = namespaceFor[kyc.TeamMember]()
	nsInvitations = namespaceFor[kyc.Invitation]()

	// Settings is a singleton aggregate, not a pluralizable entity.
	nsSettings = "settings"
)

// ApplicantKeys builds the applicant family's key hierarchy.
type ApplicantKeys struct{}

// Root addresses everything cached for applicants.
func (ApplicantKeys) Root() cache.Key { return cache.NewKey(nsApplicants) }

// Detail addresses one applicant record.
func (ApplicantKeys) Detail(id string) cache.Key { return cache.NewKey(nsApplicants, "detail", id) }

// Details addresses every cached applicant record.
func (ApplicantKeys) Details() cache.Key { return cache.NewKey(nsApplicants, "detail") }

// List addresses one page of a filtered applicant listing.
func (ApplicantKeys) List(f kyc.ApplicantFilter) cache.Key {
	return cache.NewKey(nsApplicants, "list", f)
}

// Lists addresses every cached applicant listing, any filter.
func (ApplicantKeys) Lists() cache.Key { return cache.NewKey(nsApplicants, "list") }

// CompanyKeys builds the company family's key hierarchy.
type CompanyKeys struct{}

// Root addresses everything cached for companies.
func (CompanyKeys) Root() cache.Key { return cache.NewKey(nsCompanies) }

// Detail addresses one company record.
func (CompanyKeys) Detail(id string) cache.Key { return cache.NewKey(nsCompanies, "detail", id) }

// Details addresses every cached company record.
func (CompanyKeys) Details() cache.Key { return cache.NewKey(nsCompanies, "detail") }

// List addresses one page of a filtered company listing.
func (CompanyKeys) List(f kyc.CompanyFilter) cache.Key {
	return cache.NewKey(nsCompanies, "list", f)
}

// Lists addresses every cached company listing, any filter.
func (CompanyKeys) Lists() cache.Key { return cache.NewKey(nsCompanies, "list") }

// ScreeningKeys builds the screening family's key hierarchy. Hit pages are
// nested under their check's detail key, so invalidating a check covers the
// check record and all of its cached hit pages in one prefix.
type ScreeningKeys struct{}

// Root addresses everything cached for screening.
func (ScreeningKeys) Root() cache.Key { return cache.NewKey(nsChecks) }

// Check addresses one check record and, via nesting, its hit pages.
func (ScreeningKeys) Check(id string) cache.Key { return cache.NewKey(nsChecks, "detail", id) }

// Checks addresses every cached check record.
func (ScreeningKeys) Checks() cache.Key { return cache.NewKey(nsChecks, "detail") }

// ForApplicant addresses the cached check listing of one applicant.
func (ScreeningKeys) ForApplicant(applicantID string) cache.Key {
	return cache.NewKey(nsChecks, "for_applicant", applicantID)
}

// Hits addresses one page of a check's hit listing.
func (ScreeningKeys) Hits(checkID string, f kyc.HitFilter) cache.Key {
	return cache.NewKey(nsChecks, "detail", checkID, "hits", f)
}

// AllHits addresses every cached hit page of one check.
func (ScreeningKeys) AllHits(checkID string) cache.Key {
	return cache.NewKey(nsChecks, "detail", checkID, "hits")
}

// CaseKeys builds the case family's key hierarchy.
type CaseKeys struct{}

// Root addresses everything cached for cases.
func (CaseKeys) Root() cache.Key { return cache.NewKey(nsCases) }

// Detail addresses one case record.
func (CaseKeys) Detail(id string) cache.Key { return cache.NewKey(nsCases, "detail", id) }

// Details addresses every cached case record.
func (CaseKeys) Details() cache.Key { return cache.NewKey(nsCases, "detail") }

// List addresses one page of a filtered case listing.
func (CaseKeys) List(f kyc.CaseFilter) cache.Key { return cache.NewKey(nsCases, "list", f) }

// Lists addresses every cached case listing, any filter.
func (CaseKeys) Lists() cache.Key { return cache.NewKey(nsCases, "list") }

// DocumentKeys builds the document family's key hierarchy.
type DocumentKeys struct{}

// Root addresses everything cached for documents.
func (DocumentKeys) Root() cache.Key { return cache.NewKey(nsDocuments) }

// Detail addresses one document record.
func (DocumentKeys) Detail(id string) cache.Key { return cache.NewKey(nsDocuments, "detail", id) }

// Details addresses every cached document record.
func (DocumentKeys) Details() cache.Key { return cache.NewKey(nsDocuments, "detail") }

// ForApplicant addresses the cached document listing of one applicant.
func (DocumentKeys) ForApplicant(applicantID string) cache.Key {
	return cache.NewKey(nsDocuments, "for_applicant", applicantID)
}

// WebhookKeys builds the webhook family's key hierarchy. The console shows
// webhooks as one unfiltered list, so there is a single list key.
type WebhookKeys struct{}

// Root addresses everything cached for webhooks.
func (WebhookKeys) Root() cache.Key { return cache.NewKey(nsWebhooks) }

// List addresses the webhook list.
func (WebhookKeys) List() cache.Key { return cache.NewKey(nsWebhooks, "list") }

// DeviceKeys builds the device family's key hierarchy.
type DeviceKeys struct{}

// Root addresses everything cached for devices.
func (DeviceKeys) Root() cache.Key { return cache.NewKey(nsDevices) }

// Detail addresses one device record.
func (DeviceKeys) Detail(id string) cache.Key { return cache.NewKey(nsDevices, "detail", id) }

// Details addresses every cached device record.
func (DeviceKeys) Details() cache.Key { return cache.NewKey(nsDevices, "detail") }

// List addresses one page of a filtered device listing.
func (DeviceKeys) List(f kyc.DeviceFilter) cache.Key { return cache.NewKey(nsDevices, "list", f) }

// Lists addresses every cached device listing, any filter.
func (DeviceKeys) Lists() cache.Key { return cache.NewKey(nsDevices, "list") }

// AuditKeys builds the audit family's key hierarchy.
type AuditKeys struct{}

// Root addresses everything cached for the audit log.
func (AuditKeys) Root() cache.Key { return cache.NewKey(nsAuditEvents) }

// Search addresses one page of a filtered audit search.
func (AuditKeys) Search(f kyc.AuditFilter) cache.Key {
	return cache.NewKey(nsAuditEvents, "search", f)
}

// Searches addresses every cached audit search, any filter.
func (AuditKeys) Searches() cache.Key { return cache.NewKey(nsAuditEvents, "search") }

// TeamKeys builds the team family's key hierarchy. Members and invitations
// are distinct entities and keep distinct namespaces.
type TeamKeys struct{}

// Members addresses the member list.
func (TeamKeys) Members() cache.Key { return cache.NewKey(nsMembers, "list") }

// MembersRoot addresses everything cached for members.
func (TeamKeys) MembersRoot() cache.Key { return cache.NewKey(nsMembers) }

// Invitations addresses the invitation list.
func (TeamKeys) Invitations() cache.Key { return cache.NewKey(nsInvitations, "list") }

// InvitationsRoot addresses everything cached for invitations.
func (TeamKeys) InvitationsRoot() cache.Key { return cache.NewKey(nsInvitations) }

// SettingsKeys builds the settings key. Settings load and save as one
// aggregate, so a single key is the whole hierarchy.
type SettingsKeys struct{}

// Key addresses the settings aggregate.
func (SettingsKeys) Key() cache.Key { return cache.NewKey(nsSettings) }

// Package servicetest provides an in-memory implementation of every service
// family, with seedable state and scriptable failures, for tests and
// examples.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// Interface assertions so a missing method fails at compile time.
var (
	_ service.Applicants = (*Fake)(nil)
	_ service.Companies  = (*Fake)(nil)
	_ service.Screening  = (*Fake)(nil)
	_ service.Cases      = (*Fake)(nil)
	_ service.Documents  = (*Fake)(nil)
	_ service.Webhooks   = (*Fake)(nil)
	_ service.Devices    = (*Fake)(nil)
	_ service.AuditLog   = (*Fake)(nil)
	_ service.Team       = (*Fake)(nil)
	_ service.Settings   = (*Fake)(nil)
)

// Fake implements all service families against in-memory maps. Every method
// records a call count, honors context cancellation, and can be scripted to
// fail or stall. Values are deep-copied on the way in and out so callers
// never share state with the fake.
type Fake struct {
	mu sync.Mutex

	now        func() time.Time
	latency    time.Duration
	actorID    string
	actorEmail string

	calls    map[string]int
	failNext map[string][]error
	holds    map[string]chan struct{}

	applicants  map[string]kyc.Applicant
	companies   map[string]kyc.Company
	checks      map[string]kyc.ScreeningCheck
	hits        map[string]kyc.ScreeningHit
	cases       map[string]kyc.Case
	documents   map[string]kyc.Document
	webhooks    map[string]kyc.Webhook
	devices     map[string]kyc.Device
	audit       []kyc.AuditEvent
	members     map[string]kyc.TeamMember
	invitations map[string]kyc.Invitation
	settings    kyc.Settings
}

// New returns an empty fake.
func New() *Fake {
	return &Fake{
		now:         time.Now,
		actorID:     "usr_fake",
		actorEmail:  "reviewer@console.test",
		calls:       map[string]int{},
		failNext:    map[string][]error{},
		holds:       map[string]chan struct{}{},
		applicants:  map[string]kyc.Applicant{},
		companies:   map[string]kyc.Company{},
		checks:      map[string]kyc.ScreeningCheck{},
		hits:        map[string]kyc.ScreeningHit{},
		cases:       map[string]kyc.Case{},
		documents:   map[string]kyc.Document{},
		webhooks:    map[string]kyc.Webhook{},
		devices:     map[string]kyc.Device{},
		members:     map[string]kyc.TeamMember{},
		invitations: map[string]kyc.Invitation{},
	}
}

// Services returns the fake wired into every family slot.
func (f *Fake) Services() service.Services {
	return service.Services{
		Applicants: f,
		Companies:  f,
		Screening:  f,
		Cases:      f,
		Documents:  f,
		Webhooks:   f,
		Devices:    f,
		Audit:      f,
		Team:       f,
		Settings:   f,
	}
}

// SetClock replaces the time source used for timestamps.
func (f *Fake) SetClock(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// SetLatency makes every call sleep before answering, interruptible by ctx.
func (f *Fake) SetLatency(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency = d
}

// SetActor names the account mutations are attributed to in the audit trail.
func (f *Fake) SetActor(id, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actorID = id
	f.actorEmail = email
}

// FailNext queues an error for the named method. Queued errors are consumed
// in order, one per call, before the method touches any state.
func (f *Fake) FailNext(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[method] = append(f.failNext[method], err)
}

// Hold stalls all calls to the named method until the returned release func
// runs. Stalled calls still honor their context.
func (f *Fake) Hold(method string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[method] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls reports how many times the named method has been invoked, scripted
// failures included.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// begin runs the shared per-call bookkeeping: count, latency, hold, scripted
// failure, context check.
func (f *Fake) begin(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls[method]++
	var scripted error
	if q := f.failNext[method]; len(q) > 0 {
		scripted = q[0]
		f.failNext[method] = q[1:]
	}
	hold := f.holds[method]
	latency := f.latency
	f.mu.Unlock()

	if latency > 0 {
		t := time.NewTimer(latency)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if scripted != nil {
		return scripted
	}
	return ctx.Err()
}

// record appends an audit row. Callers hold f.mu.
func (f *Fake) record(action, targetKind, targetID string, detail map[string]string) {
	f.audit = append(f.audit, kyc.AuditEvent{
		ID:         uuid.NewString(),
		ActorID:    f.actorID,
		ActorEmail: f.actorEmail,
		Action:     action,
		TargetKind: targetKind,
		TargetID:   targetID,
		Detail:     detail,
		OccurredAt: f.now(),
	})
}

// Seeding. Each seed deep-copies its arguments in and returns the fake for
// chaining.

func (f *Fake) SeedApplicants(items ...kyc.Applicant) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.applicants[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedCompanies(items ...kyc.Company) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.companies[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedChecks(items ...kyc.ScreeningCheck) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.checks[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedHits(items ...kyc.ScreeningHit) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.hits[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedCases(items ...kyc.Case) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.cases[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedDocuments(items ...kyc.Document) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.documents[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedWebhooks(items ...kyc.Webhook) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.webhooks[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedDevices(items ...kyc.Device) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.devices[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedAudit(items ...kyc.AuditEvent) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.audit = append(f.audit, kyc.MustClone(it))
	}
	return f
}

func (f *Fake) SeedMembers(items ...kyc.TeamMember) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.members[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedInvitations(items ...kyc.Invitation) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.invitations[it.ID] = kyc.MustClone(it)
	}
	return f
}

func (f *Fake) SeedSettings(s kyc.Settings) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = kyc.MustClone(s)
	return f
}

// Applicants

func (f *Fake) Applicant(ctx context.Context, id string) (kyc.Applicant, error) {
	if err := f.begin(ctx, "Applicant"); err != nil {
		return kyc.Applicant{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applicants[id]
	if !ok {
		return kyc.Applicant{}, service.NotFound("applicant", id)
	}
	return kyc.MustClone(a), nil
}

func (f *Fake) ListApplicants(ctx context.Context, filter kyc.ApplicantFilter) (kyc.Page[kyc.Applicant], error) {
	if err := f.begin(ctx, "ListApplicants"); err != nil {
		return kyc.Page[kyc.Applicant]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.Applicant
	for _, a := range f.applicants {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.RiskLevel != "" && a.RiskLevel != filter.RiskLevel {
			continue
		}
		if !matchSearch(filter.Search, a.FullName(), a.Email) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return kyc.MustClone(paginate(matched, filter.Page, filter.PageSize)), nil
}

func (f *Fake) UpdateApplicant(ctx context.Context, a kyc.Applicant) (kyc.Applicant, error) {
	if err := f.begin(ctx, "UpdateApplicant"); err != nil {
		return kyc.Applicant{}, err
	}
	if err := a.Validate(); err != nil {
		return kyc.Applicant{}, service.Invalid(err.Error())
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.applicants[a.ID]; !ok {
		return kyc.Applicant{}, service.NotFound("applicant", a.ID)
	}
	f.applicants[a.ID] = kyc.MustClone(a)
	f.record("applicant.update", "applicant", a.ID, nil)
	return kyc.MustClone(a), nil
}

func (f *Fake) ApproveApplicant(ctx context.Context, id string) (kyc.Applicant, error) {
	if err := f.begin(ctx, "ApproveApplicant"); err != nil {
		return kyc.Applicant{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applicants[id]
	if !ok {
		return kyc.Applicant{}, service.NotFound("applicant", id)
	}
	now := f.now()
	a.Status = kyc.ApplicantApproved
	a.ReviewedAt = &now
	f.applicants[id] = a
	f.record("applicant.approve", "applicant", id, nil)
	return kyc.MustClone(a), nil
}

func (f *Fake) RejectApplicant(ctx context.Context, id, reason string) (kyc.Applicant, error) {
	if err := f.begin(ctx, "RejectApplicant"); err != nil {
		return kyc.Applicant{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.applicants[id]
	if !ok {
		return kyc.Applicant{}, service.NotFound("applicant", id)
	}
	now := f.now()
	a.Status = kyc.ApplicantRejected
	a.ReviewedAt = &now
	f.applicants[id] = a
	f.record("applicant.reject", "applicant", id, map[string]string{"reason": reason})
	return kyc.MustClone(a), nil
}

func (f *Fake) DeleteApplicant(ctx context.Context, id string) error {
	if err := f.begin(ctx, "DeleteApplicant"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.applicants[id]; !ok {
		return service.NotFound("applicant", id)
	}
	delete(f.applicants, id)
	f.record("applicant.delete", "applicant", id, nil)
	return nil
}

// Companies

func (f *Fake) Company(ctx context.Context, id string) (kyc.Company, error) {
	if err := f.begin(ctx, "Company"); err != nil {
		return kyc.Company{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[id]
	if !ok {
		return kyc.Company{}, service.NotFound("company", id)
	}
	return kyc.MustClone(c), nil
}

func (f *Fake) ListCompanies(ctx context.Context, filter kyc.CompanyFilter) (kyc.Page[kyc.Company], error) {
	if err := f.begin(ctx, "ListCompanies"); err != nil {
		return kyc.Page[kyc.Company]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.Company
	for _, c := range f.companies {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if !matchSearch(filter.Search, c.LegalName, c.RegistrationNumber) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return kyc.MustClone(paginate(matched, filter.Page, filter.PageSize)), nil
}

func (f *Fake) UpdateCompany(ctx context.Context, c kyc.Company) (kyc.Company, error) {
	if err := f.begin(ctx, "UpdateCompany"); err != nil {
		return kyc.Company{}, err
	}
	if err := c.Validate(); err != nil {
		return kyc.Company{}, service.Invalid(err.Error())
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.companies[c.ID]; !ok {
		return kyc.Company{}, service.NotFound("company", c.ID)
	}
	f.companies[c.ID] = kyc.MustClone(c)
	f.record("company.update", "company", c.ID, nil)
	return kyc.MustClone(c), nil
}

// Screening

func (f *Fake) Check(ctx context.Context, id string) (kyc.ScreeningCheck, error) {
	if err := f.begin(ctx, "Check"); err != nil {
		return kyc.ScreeningCheck{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.checks[id]
	if !ok {
		return kyc.ScreeningCheck{}, service.NotFound("check", id)
	}
	return kyc.MustClone(c), nil
}

func (f *Fake) ChecksForApplicant(ctx context.Context, applicantID string) ([]kyc.ScreeningCheck, error) {
	if err := f.begin(ctx, "ChecksForApplicant"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.ScreeningCheck
	for _, c := range f.checks {
		if c.ApplicantID == applicantID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].StartedAt.Equal(matched[j].StartedAt) {
			return matched[i].StartedAt.Before(matched[j].StartedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return kyc.MustClone(matched), nil
}

func (f *Fake) Hits(ctx context.Context, checkID string, filter kyc.HitFilter) (kyc.Page[kyc.ScreeningHit], error) {
	if err := f.begin(ctx, "Hits"); err != nil {
		return kyc.Page[kyc.ScreeningHit]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.ScreeningHit
	for _, h := range f.hits {
		if h.CheckID != checkID {
			continue
		}
		if filter.Resolution != "" && h.Resolution != filter.Resolution {
			continue
		}
		if filter.MinScore > 0 && h.MatchScore < filter.MinScore {
			continue
		}
		matched = append(matched, h)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].MatchScore != matched[j].MatchScore {
			return matched[i].MatchScore > matched[j].MatchScore
		}
		return matched[i].ID < matched[j].ID
	})
	return kyc.MustClone(paginate(matched, filter.Page, filter.PageSize)), nil
}

func (f *Fake) RunScreening(ctx context.Context, applicantID string, kind kyc.CheckKind) (kyc.ScreeningCheck, error) {
	if err := f.begin(ctx, "RunScreening"); err != nil {
		return kyc.ScreeningCheck{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.applicants[applicantID]; !ok {
		return kyc.ScreeningCheck{}, service.NotFound("applicant", applicantID)
	}
	check := kyc.ScreeningCheck{
		ID:          uuid.NewString(),
		ApplicantID: applicantID,
		Kind:        kind,
		Status:      kyc.CheckPending,
		StartedAt:   f.now(),
	}
	f.checks[check.ID] = check
	f.record("screening.run", "check", check.ID, map[string]string{"kind": string(kind)})
	return kyc.MustClone(check), nil
}

func (f *Fake) ResolveHit(ctx context.Context, hitID string, resolution kyc.HitResolution) (kyc.ScreeningHit, error) {
	if err := f.begin(ctx, "ResolveHit"); err != nil {
		return kyc.ScreeningHit{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hits[hitID]
	if !ok {
		return kyc.ScreeningHit{}, service.NotFound("hit", hitID)
	}
	now := f.now()
	h.Resolution = resolution
	h.ResolvedBy = f.actorID
	h.ResolvedAt = &now
	f.hits[hitID] = h
	f.record("hit.resolve", "hit", hitID, map[string]string{"resolution": string(resolution)})
	return kyc.MustClone(h), nil
}

// Cases

func (f *Fake) Case(ctx context.Context, id string) (kyc.Case, error) {
	if err := f.begin(ctx, "Case"); err != nil {
		return kyc.Case{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[id]
	if !ok {
		return kyc.Case{}, service.NotFound("case", id)
	}
	return kyc.MustClone(c), nil
}

func (f *Fake) ListCases(ctx context.Context, filter kyc.CaseFilter) (kyc.Page[kyc.Case], error) {
	if err := f.begin(ctx, "ListCases"); err != nil {
		return kyc.Page[kyc.Case]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.Case
	for _, c := range f.cases {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && c.Priority != filter.Priority {
			continue
		}
		if filter.AssigneeID != "" && c.AssigneeID != filter.AssigneeID {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OpenedAt.Equal(matched[j].OpenedAt) {
			return matched[i].OpenedAt.Before(matched[j].OpenedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return kyc.MustClone(paginate(matched, filter.Page, filter.PageSize)), nil
}

func (f *Fake) AssignCase(ctx context.Context, caseID, assigneeID string) (kyc.Case, error) {
	if err := f.begin(ctx, "AssignCase"); err != nil {
		return kyc.Case{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[caseID]
	if !ok {
		return kyc.Case{}, service.NotFound("case", caseID)
	}
	c.AssigneeID = assigneeID
	if c.Status == kyc.CaseOpen {
		c.Status = kyc.CaseInReview
	}
	f.cases[caseID] = c
	f.record("case.assign", "case", caseID, map[string]string{"assignee": assigneeID})
	return kyc.MustClone(c), nil
}

func (f *Fake) CloseCase(ctx context.Context, caseID string) (kyc.Case, error) {
	if err := f.begin(ctx, "CloseCase"); err != nil {
		return kyc.Case{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cases[caseID]
	if !ok {
		return kyc.Case{}, service.NotFound("case", caseID)
	}
	now := f.now()
	c.Status = kyc.CaseClosed
	c.ClosedAt = &now
	f.cases[caseID] = c
	f.record("case.close", "case", caseID, nil)
	return kyc.MustClone(c), nil
}

// Documents

func (f *Fake) Document(ctx context.Context, id string) (kyc.Document, error) {
	if err := f.begin(ctx, "Document"); err != nil {
		return kyc.Document{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[id]
	if !ok {
		return kyc.Document{}, service.NotFound("document", id)
	}
	return kyc.MustClone(d), nil
}

func (f *Fake) DocumentsForApplicant(ctx context.Context, applicantID string) ([]kyc.Document, error) {
	if err := f.begin(ctx, "DocumentsForApplicant"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.Document
	for _, d := range f.documents {
		if d.ApplicantID == applicantID {
			matched = append(matched, d)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return kyc.MustClone(matched), nil
}

func (f *Fake) RequestAnalysis(ctx context.Context, documentID string) (kyc.Document, error) {
	if err := f.begin(ctx, "RequestAnalysis"); err != nil {
		return kyc.Document{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[documentID]
	if !ok {
		return kyc.Document{}, service.NotFound("document", documentID)
	}
	d.Analysis = &kyc.DocumentAnalysis{Status: kyc.AnalysisQueued}
	f.documents[documentID] = d
	f.record("document.analyze", "document", documentID, nil)
	return kyc.MustClone(d), nil
}

// Webhooks

func (f *Fake) ListWebhooks(ctx context.Context) ([]kyc.Webhook, error) {
	if err := f.begin(ctx, "ListWebhooks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []kyc.Webhook
	for _, w := range f.webhooks {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return kyc.MustClone(out), nil
}

func (f *Fake) SaveWebhook(ctx context.Context, w kyc.Webhook) (kyc.Webhook, error) {
	if err := f.begin(ctx, "SaveWebhook"); err != nil {
		return kyc.Webhook{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
		w.CreatedAt = f.now()
	}
	if err := w.Validate(); err != nil {
		return kyc.Webhook{}, service.Invalid(err.Error())
	}
	f.webhooks[w.ID] = kyc.MustClone(w)
	f.record("webhook.save", "webhook", w.ID, nil)
	return kyc.MustClone(w), nil
}

func (f *Fake) DeleteWebhook(ctx context.Context, id string) error {
	if err := f.begin(ctx, "DeleteWebhook"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.webhooks[id]; !ok {
		return service.NotFound("webhook", id)
	}
	delete(f.webhooks, id)
	f.record("webhook.delete", "webhook", id, nil)
	return nil
}

func (f *Fake) TestEndpoint(ctx context.Context, id string) (kyc.WebhookDelivery, error) {
	if err := f.begin(ctx, "TestEndpoint"); err != nil {
		return kyc.WebhookDelivery{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.webhooks[id]
	if !ok {
		return kyc.WebhookDelivery{}, service.NotFound("webhook", id)
	}
	event := kyc.EventCheckCompleted
	if len(w.Events) > 0 {
		event = w.Events[0]
	}
	now := f.now()
	w.LastDeliveryAt = &now
	f.webhooks[id] = w
	f.record("webhook.test", "webhook", id, nil)
	return kyc.WebhookDelivery{
		ID:          uuid.NewString(),
		WebhookID:   id,
		Event:       event,
		StatusCode:  200,
		Succeeded:   true,
		AttemptedAt: now,
	}, nil
}

// Devices

func (f *Fake) Device(ctx context.Context, id string) (kyc.Device, error) {
	if err := f.begin(ctx, "Device"); err != nil {
		return kyc.Device{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[id]
	if !ok {
		return kyc.Device{}, service.NotFound("device", id)
	}
	return kyc.MustClone(d), nil
}

func (f *Fake) ListDevices(ctx context.Context, filter kyc.DeviceFilter) (kyc.Page[kyc.Device], error) {
	if err := f.begin(ctx, "ListDevices"); err != nil {
		return kyc.Page[kyc.Device]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.Device
	for _, d := range f.devices {
		if filter.ApplicantID != "" && d.ApplicantID != filter.ApplicantID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		matched = append(matched, d)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return kyc.MustClone(paginate(matched, filter.Page, filter.PageSize)), nil
}

func (f *Fake) ReviewDevice(ctx context.Context, deviceID string, status kyc.DeviceStatus) (kyc.Device, error) {
	if err := f.begin(ctx, "ReviewDevice"); err != nil {
		return kyc.Device{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[deviceID]
	if !ok {
		return kyc.Device{}, service.NotFound("device", deviceID)
	}
	d.Status = status
	f.devices[deviceID] = d
	f.record("device.review", "device", deviceID, map[string]string{"status": string(status)})
	return kyc.MustClone(d), nil
}

// Audit

func (f *Fake) SearchAudit(ctx context.Context, filter kyc.AuditFilter) (kyc.Page[kyc.AuditEvent], error) {
	if err := f.begin(ctx, "SearchAudit"); err != nil {
		return kyc.Page[kyc.AuditEvent]{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []kyc.AuditEvent
	for _, e := range f.audit {
		if filter.ActorID != "" && e.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.TargetKind != "" && e.TargetKind != filter.TargetKind {
			continue
		}
		if !matchSearch(filter.Search, e.Action, e.TargetID, e.ActorEmail) {
			continue
		}
		if !filter.From.IsZero() && e.OccurredAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && e.OccurredAt.After(filter.To) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return kyc.MustClone(paginate(matched, filter.Page, filter.PageSize)), nil
}

// Team

func (f *Fake) Members(ctx context.Context) ([]kyc.TeamMember, error) {
	if err := f.begin(ctx, "Members"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []kyc.TeamMember
	for _, m := range f.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return kyc.MustClone(out), nil
}

func (f *Fake) Invitations(ctx context.Context) ([]kyc.Invitation, error) {
	if err := f.begin(ctx, "Invitations"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []kyc.Invitation
	for _, i := range f.invitations {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return kyc.MustClone(out), nil
}

func (f *Fake) Invite(ctx context.Context, email string, role kyc.Role) (kyc.Invitation, error) {
	if err := f.begin(ctx, "Invite"); err != nil {
		return kyc.Invitation{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	inv := kyc.Invitation{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		Status:    kyc.InvitePending,
		InvitedBy: f.actorID,
		CreatedAt: now,
		ExpiresAt: now.Add(14 * 24 * time.Hour),
	}
	if err := inv.Validate(); err != nil {
		return kyc.Invitation{}, service.Invalid(err.Error())
	}
	f.invitations[inv.ID] = inv
	f.record("team.invite", "invitation", inv.ID, map[string]string{"email": email})
	return kyc.MustClone(inv), nil
}

func (f *Fake) RevokeInvitation(ctx context.Context, id string) (kyc.Invitation, error) {
	if err := f.begin(ctx, "RevokeInvitation"); err != nil {
		return kyc.Invitation{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[id]
	if !ok {
		return kyc.Invitation{}, service.NotFound("invitation", id)
	}
	if !inv.Pending() {
		return kyc.Invitation{}, service.Invalid("invitation is already " + string(inv.Status))
	}
	inv.Status = kyc.InviteRevoked
	f.invitations[id] = inv
	f.record("team.revoke", "invitation", id, nil)
	return kyc.MustClone(inv), nil
}

// Settings

func (f *Fake) Settings(ctx context.Context) (kyc.Settings, error) {
	if err := f.begin(ctx, "Settings"); err != nil {
		return kyc.Settings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return kyc.MustClone(f.settings), nil
}

func (f *Fake) SaveSettings(ctx context.Context, s kyc.Settings) (kyc.Settings, error) {
	if err := f.begin(ctx, "SaveSettings"); err != nil {
		return kyc.Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return kyc.Settings{}, service.Invalid(err.Error())
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = kyc.MustClone(s)
	f.record("settings.save", "settings", "workspace", nil)
	return kyc.MustClone(s), nil
}

// matchSearch reports whether needle is a case-insensitive substring of any
// haystack. An empty needle matches everything.
func matchSearch(needle string, haystacks ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// paginate slices a full result set down to the requested page. Pages are
// 1-based; a zero page size returns everything.
func paginate[T any](items []T, page, size int) kyc.Page[T] {
	total := len(items)
	if size <= 0 {
		return kyc.Page[T]{Items: items, Total: total}
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return kyc.Page[T]{Items: []T{}, Total: total}
	}
	end := start + size
	if end > total {
		end = total
	}
	return kyc.Page[T]{Items: items[start:end], Total: total}
}

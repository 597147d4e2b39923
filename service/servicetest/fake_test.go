package servicetest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/pkg/testsupport"
	"github.com/veraxid/go-console-cache/service"
	"github.com/veraxid/go-console-cache/service/servicetest"
)

type seedFile struct {
	Applicants  []kyc.Applicant
	Companies   []kyc.Company
	Checks      []kyc.ScreeningCheck
	Hits        []kyc.ScreeningHit
	Cases       []kyc.Case
	Documents   []kyc.Document
	Webhooks    []kyc.Webhook
	Devices     []kyc.Device
	Members     []kyc.TeamMember
	Invitations []kyc.Invitation
	Settings    kyc.Settings
}

func seededFake(t *testing.T) *servicetest.Fake {
	t.Helper()

	var seed seedFile
	testsupport.FixtureJSON(t, testsupport.Path("seed.json"), &seed)

	f := servicetest.New()
	f.SeedApplicants(seed.Applicants...).
		SeedCompanies(seed.Companies...).
		SeedChecks(seed.Checks...).
		SeedHits(seed.Hits...).
		SeedCases(seed.Cases...).
		SeedDocuments(seed.Documents...).
		SeedWebhooks(seed.Webhooks...).
		SeedDevices(seed.Devices...).
		SeedMembers(seed.Members...).
		SeedInvitations(seed.Invitations...).
		SeedSettings(seed.Settings)
	return f
}

func TestFakeSeedAndLookup(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	a, err := f.Applicant(ctx, "apl_1001")
	require.NoError(t, err)
	assert.Equal(t, "Dana Ibrahim", a.FullName())
	assert.Equal(t, kyc.ApplicantUnderReview, a.Status)

	_, err = f.Applicant(ctx, "apl_missing")
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
	assert.Equal(t, 2, f.Calls("Applicant"))
}

func TestFakeListApplicantsFilters(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	all, err := f.ListApplicants(ctx, kyc.ApplicantFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "apl_1001", all.Items[0].ID, "oldest first")

	pending, err := f.ListApplicants(ctx, kyc.ApplicantFilter{Status: kyc.ApplicantPending})
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Total)

	search, err := f.ListApplicants(ctx, kyc.ApplicantFilter{Search: "tanner"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "apl_1002", search.Items[0].ID)

	paged, err := f.ListApplicants(ctx, kyc.ApplicantFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, paged.Total)
	require.Len(t, paged.Items, 1)
	assert.Equal(t, "apl_1003", paged.Items[0].ID)
}

func TestFakeFailNextConsumedInOrder(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	first := errors.New("boom one")
	second := errors.New("boom two")
	f.FailNext("Applicant", first)
	f.FailNext("Applicant", second)

	_, err := f.Applicant(ctx, "apl_1001")
	assert.ErrorIs(t, err, first)
	_, err = f.Applicant(ctx, "apl_1001")
	assert.ErrorIs(t, err, second)
	_, err = f.Applicant(ctx, "apl_1001")
	assert.NoError(t, err)
	assert.Equal(t, 3, f.Calls("Applicant"))
}

func TestFakeLatencyHonorsContext(t *testing.T) {
	f := seededFake(t)
	f.SetLatency(500 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Applicant(ctx, "apl_1001")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	f.SetLatency(0)
	_, err = f.Applicant(context.Background(), "apl_1001")
	assert.NoError(t, err)
}

func TestFakeHoldBlocksUntilRelease(t *testing.T) {
	f := seededFake(t)
	release := f.Hold("Check")

	done := make(chan error, 1)
	go func() {
		_, err := f.Check(context.Background(), "chk_3001")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("call returned while held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("call never released")
	}
}

func TestFakeApproveWritesAudit(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	a, err := f.ApproveApplicant(ctx, "apl_1001")
	require.NoError(t, err)
	assert.Equal(t, kyc.ApplicantApproved, a.Status)
	require.NotNil(t, a.ReviewedAt)

	page, err := f.SearchAudit(ctx, kyc.AuditFilter{Action: "applicant.approve"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "apl_1001", page.Items[0].TargetID)
}

func TestFakeRevokeInvitationLifecycle(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	inv, err := f.RevokeInvitation(ctx, "inv_9101")
	require.NoError(t, err)
	assert.Equal(t, kyc.InviteRevoked, inv.Status)

	_, err = f.RevokeInvitation(ctx, "inv_9101")
	require.Error(t, err)
	assert.True(t, service.IsValidation(err), "revoking twice should be rejected")

	_, err = f.RevokeInvitation(ctx, "inv_missing")
	assert.True(t, service.IsNotFound(err))
}

func TestFakeRunScreeningCreatesCheck(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	check, err := f.RunScreening(ctx, "apl_1002", kyc.CheckPEP)
	require.NoError(t, err)
	assert.NotEmpty(t, check.ID)
	assert.Equal(t, kyc.CheckPending, check.Status)

	got, err := f.Check(ctx, check.ID)
	require.NoError(t, err)
	assert.Equal(t, kyc.CheckPEP, got.Kind)

	checks, err := f.ChecksForApplicant(ctx, "apl_1002")
	require.NoError(t, err)
	require.Len(t, checks, 1)

	_, err = f.RunScreening(ctx, "apl_missing", kyc.CheckPEP)
	assert.True(t, service.IsNotFound(err))
}

func TestFakeReturnsCopies(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	a, err := f.Applicant(ctx, "apl_1001")
	require.NoError(t, err)
	require.NotEmpty(t, a.Tags)
	a.Tags[0] = "tampered"

	again, err := f.Applicant(ctx, "apl_1001")
	require.NoError(t, err)
	assert.Equal(t, "manual-review", again.Tags[0], "returned values must not alias fake state")
}

func TestFakeSaveWebhookMintsID(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	saved, err := f.SaveWebhook(ctx, kyc.Webhook{
		URL:    "https://hooks.example.com/new",
		Events: []kyc.WebhookEvent{kyc.EventCaseClosed},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	delivery, err := f.TestEndpoint(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, delivery.Succeeded)
	assert.Equal(t, kyc.EventCaseClosed, delivery.Event)

	hooks, err := f.ListWebhooks(ctx)
	require.NoError(t, err)
	for _, h := range hooks {
		if h.ID == saved.ID {
			require.NotNil(t, h.LastDeliveryAt)
		}
	}

	_, err = f.SaveWebhook(ctx, kyc.Webhook{URL: "not a url", Events: []kyc.WebhookEvent{kyc.EventCaseClosed}})
	assert.True(t, service.IsValidation(err))
}

func TestFakeSettingsRoundTrip(t *testing.T) {
	f := seededFake(t)
	ctx := context.Background()

	s, err := f.Settings(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, s.Screening.MatchThreshold, 1e-9)

	s.Screening.MatchThreshold = 0.9
	saved, err := f.SaveSettings(ctx, s)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, saved.Screening.MatchThreshold, 1e-9)

	s.Screening.MatchThreshold = 7
	_, err = f.SaveSettings(ctx, s)
	assert.True(t, service.IsValidation(err))
}

package kyc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veraxid/go-console-cache/kyc"
)

func validApplicant() kyc.Applicant {
	return kyc.Applicant{
		ID:        "apl_01",
		CompanyID: "cmp_01",
		FirstName: "Dana",
		LastName:  "Ibrahim",
		Email:     "dana@example.com",
		Status:    kyc.ApplicantPending,
		CreatedAt: time.Unix(1755000000, 0),
	}
}

func TestApplicantValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*kyc.Applicant)
		wantField string
	}{
		{name: "valid", mutate: func(*kyc.Applicant) {}},
		{name: "missing id", mutate: func(a *kyc.Applicant) { a.ID = "" }, wantField: "ID"},
		{name: "bad email", mutate: func(a *kyc.Applicant) { a.Email = "not-an-email" }, wantField: "Email"},
		{name: "unknown status", mutate: func(a *kyc.Applicant) { a.Status = "archived" }, wantField: "Status"},
		{name: "unknown risk level", mutate: func(a *kyc.Applicant) { a.RiskLevel = "extreme" }, wantField: "RiskLevel"},
		{name: "empty risk level ok", mutate: func(a *kyc.Applicant) { a.RiskLevel = "" }},
		{name: "set risk level ok", mutate: func(a *kyc.Applicant) { a.RiskLevel = kyc.RiskHigh }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := validApplicant()
			tc.mutate(&a)
			err := a.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantField)
		})
	}
}

func TestCompanyValidate(t *testing.T) {
	valid := kyc.Company{
		ID:                 "cmp_01",
		LegalName:          "Verax Holdings Ltd",
		RegistrationNumber: "HRB-99123",
		Country:            "DE",
		Status:             kyc.CompanyPending,
		UBOs: []kyc.UBO{
			{ID: "ubo_01", FullName: "Mika Tanner", OwnershipPct: 60},
			{ID: "ubo_02", FullName: "Ro Chen", OwnershipPct: 25},
		},
	}
	require.NoError(t, valid.Validate())

	t.Run("country must be two letters", func(t *testing.T) {
		c := valid
		c.Country = "DEU"
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Country")
	})

	t.Run("ubo errors surface with their index", func(t *testing.T) {
		c := valid
		c.UBOs = []kyc.UBO{{ID: "ubo_01", FullName: "Mika Tanner", OwnershipPct: 140}}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OwnershipPct")
	})
}

func TestScreeningValidate(t *testing.T) {
	check := kyc.ScreeningCheck{
		ID:          "chk_01",
		ApplicantID: "apl_01",
		Kind:        kyc.CheckSanctions,
		Status:      kyc.CheckPending,
		StartedAt:   time.Unix(1755000000, 0),
	}
	require.NoError(t, check.Validate())

	check.Kind = "criminal"
	err := check.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kind")

	hit := kyc.ScreeningHit{
		ID:          "hit_01",
		CheckID:     "chk_01",
		ApplicantID: "apl_01",
		ListName:    "OFAC SDN",
		MatchScore:  0.92,
		Resolution:  kyc.HitUnresolved,
	}
	require.NoError(t, hit.Validate())

	hit.MatchScore = 1.4
	err = hit.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MatchScore")
}

func TestDocumentValidate(t *testing.T) {
	doc := kyc.Document{
		ID:          "doc_01",
		ApplicantID: "apl_01",
		Kind:        kyc.DocPassport,
		FileName:    "passport.pdf",
	}
	require.NoError(t, doc.Validate(), "nil analysis is valid")

	doc.Analysis = &kyc.DocumentAnalysis{Status: "stuck"}
	err := doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status")

	doc.Analysis.Status = kyc.AnalysisProcessing
	assert.NoError(t, doc.Validate())
}

func TestWebhookValidate(t *testing.T) {
	hook := kyc.Webhook{
		ID:     "wh_01",
		URL:    "https://hooks.example.com/kyc",
		Events: []kyc.WebhookEvent{kyc.EventCheckCompleted, kyc.EventHitResolved},
		Active: true,
	}
	require.NoError(t, hook.Validate())

	tests := []struct {
		name      string
		mutate    func(*kyc.Webhook)
		wantField string
	}{
		{name: "url required", mutate: func(w *kyc.Webhook) { w.URL = "" }, wantField: "URL"},
		{name: "url must parse", mutate: func(w *kyc.Webhook) { w.URL = "not a url" }, wantField: "URL"},
		{name: "events required", mutate: func(w *kyc.Webhook) { w.Events = nil }, wantField: "Events"},
		{name: "unknown event", mutate: func(w *kyc.Webhook) { w.Events = []kyc.WebhookEvent{"applicant.poked"} }, wantField: "Events"},
		{name: "negative failures", mutate: func(w *kyc.Webhook) { w.FailureCount = -1 }, wantField: "FailureCount"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := hook
			tc.mutate(&w)
			err := w.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantField)
		})
	}
}

func TestTeamValidate(t *testing.T) {
	member := kyc.TeamMember{ID: "usr_01", Email: "lee@example.com", Role: kyc.RoleReviewer}
	require.NoError(t, member.Validate())

	member.Role = "owner"
	err := member.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Role")

	invite := kyc.Invitation{
		ID:     "inv_01",
		Email:  "new@example.com",
		Role:   kyc.RoleViewer,
		Status: kyc.InvitePending,
	}
	require.NoError(t, invite.Validate())

	invite.Email = "nope"
	err = invite.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
}

func TestDeviceValidate(t *testing.T) {
	dev := kyc.Device{
		ID:          "dev_01",
		ApplicantID: "apl_01",
		Fingerprint: "fp_8d1c",
		Status:      kyc.DeviceClear,
	}
	require.NoError(t, dev.Validate(), "ip address is optional")

	dev.IPAddress = "203.0.113.40"
	assert.NoError(t, dev.Validate())

	dev.IPAddress = "999.0.0.1"
	err := dev.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IPAddress")
}

func TestSettingsValidate(t *testing.T) {
	s := kyc.Settings{
		Screening: kyc.ScreeningSettings{
			AutoScreenOnCreate: true,
			Lists:              []string{"ofac_sdn", "eu_consolidated"},
			MatchThreshold:     0.85,
			RescreenDays:       180,
		},
		Retention: kyc.RetentionSettings{ApplicantDays: 1825, DocumentDays: 365, AuditDays: 3650},
	}
	require.NoError(t, s.Validate())

	s.Screening.MatchThreshold = 1.2
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MatchThreshold")

	s.Screening.MatchThreshold = 0.85
	s.Retention.AuditDays = -1
	err = s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AuditDays")
}

func TestAuditEventValidate(t *testing.T) {
	ev := kyc.AuditEvent{
		ID:         "aud_01",
		ActorID:    "usr_01",
		Action:     "applicant.approve",
		OccurredAt: time.Unix(1755000000, 0),
	}
	require.NoError(t, ev.Validate())

	ev.Action = ""
	err := ev.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Action")
}

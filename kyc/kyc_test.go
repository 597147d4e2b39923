package kyc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veraxid/go-console-cache/kyc"
)

func TestApplicantHelpers(t *testing.T) {
	a := kyc.Applicant{FirstName: "Dana", LastName: "Ibrahim", Status: kyc.ApplicantPending}
	assert.Equal(t, "Dana Ibrahim", a.FullName())
	assert.False(t, a.Decided())

	a.Status = kyc.ApplicantApproved
	assert.True(t, a.Decided())
	a.Status = kyc.ApplicantRejected
	assert.True(t, a.Decided())
	a.Status = kyc.ApplicantOnHold
	assert.False(t, a.Decided())
}

func TestCheckTerminal(t *testing.T) {
	tests := []struct {
		status kyc.CheckStatus
		want   bool
	}{
		{kyc.CheckPending, false},
		{kyc.CheckProcessing, false},
		{kyc.CheckCompleted, true},
		{kyc.CheckFailed, true},
	}
	for _, tc := range tests {
		c := kyc.ScreeningCheck{Status: tc.status}
		assert.Equal(t, tc.want, c.Terminal(), "status %s", tc.status)
	}
}

func TestAnalysisTerminal(t *testing.T) {
	tests := []struct {
		status kyc.AnalysisStatus
		want   bool
	}{
		{kyc.AnalysisQueued, false},
		{kyc.AnalysisProcessing, false},
		{kyc.AnalysisCompleted, true},
		{kyc.AnalysisFailed, true},
	}
	for _, tc := range tests {
		a := kyc.DocumentAnalysis{Status: tc.status}
		assert.Equal(t, tc.want, a.Terminal(), "status %s", tc.status)
	}
}

func TestHitResolved(t *testing.T) {
	h := kyc.ScreeningHit{Resolution: kyc.HitUnresolved}
	assert.False(t, h.Resolved())
	h.Resolution = kyc.HitFalsePositive
	assert.True(t, h.Resolved())
	h.Resolution = kyc.HitTruePositive
	assert.True(t, h.Resolved())
}

func TestCaseActive(t *testing.T) {
	c := kyc.Case{Status: kyc.CaseOpen}
	assert.True(t, c.Active())
	c.Status = kyc.CaseEscalated
	assert.True(t, c.Active())
	c.Status = kyc.CaseClosed
	assert.False(t, c.Active())
}

func TestInvitationPending(t *testing.T) {
	i := kyc.Invitation{Status: kyc.InvitePending}
	assert.True(t, i.Pending())
	i.Status = kyc.InviteRevoked
	assert.False(t, i.Pending())
}

func TestDeclaredOwnership(t *testing.T) {
	c := kyc.Company{UBOs: []kyc.UBO{
		{OwnershipPct: 40.5},
		{OwnershipPct: 30},
	}}
	assert.InDelta(t, 70.5, c.DeclaredOwnership(), 1e-9)
	assert.Zero(t, kyc.Company{}.DeclaredOwnership())
}

func TestPageEmpty(t *testing.T) {
	assert.True(t, kyc.Page[kyc.Applicant]{}.Empty())
	assert.False(t, kyc.Page[kyc.Applicant]{Items: []kyc.Applicant{{}}, Total: 1}.Empty())
}

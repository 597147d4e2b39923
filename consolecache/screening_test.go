package consolecache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veraxid/go-console-cache/consolecache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

func testCheck(id, applicantID string, status kyc.CheckStatus) kyc.ScreeningCheck {
	return kyc.ScreeningCheck{
		ID:          id,
		ApplicantID: applicantID,
		Kind:        kyc.CheckSanctions,
		Status:      status,
		HitCount:    2,
		StartedAt:   time.Unix(1755000000, 0),
	}
}

func testHit(id, checkID, applicantID string, score float64) kyc.ScreeningHit {
	return kyc.ScreeningHit{
		ID:          id,
		CheckID:     checkID,
		ApplicantID: applicantID,
		ListName:    "OFAC SDN",
		MatchScore:  score,
		Resolution:  kyc.HitUnresolved,
	}
}

func TestResolveHitOptimisticallyEditsThePageOnScreen(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedApplicants(testApplicant("apl_1", kyc.ApplicantUnderReview))
	fake.SeedChecks(testCheck("chk_1", "apl_1", kyc.CheckCompleted))
	fake.SeedHits(
		testHit("hit_a", "chk_1", "apl_1", 0.92),
		testHit("hit_b", "chk_1", "apl_1", 0.41),
	)

	var filter kyc.HitFilter
	page, err := reg.Screening.Hits("chk_1", filter).Get(ctx)
	require.NoError(t, err)
	require.Len(t, page.Data.Items, 2)
	_, err = reg.Screening.CheckDetail("chk_1").Get(ctx)
	require.NoError(t, err)
	_, err = reg.Applicants.Detail("apl_1").Get(ctx)
	require.NoError(t, err)

	release := fake.Hold("ResolveHit")
	done := make(chan error, 1)
	reg.Screening.ResolveHit().Go(ctx, consolecache.ResolveHitInput{
		HitID:       "hit_a",
		CheckID:     "chk_1",
		ApplicantID: "apl_1",
		Resolution:  kyc.HitFalsePositive,
		Filter:      filter,
	}, func(_ kyc.ScreeningHit, err error) {
		done <- err
	})

	// The page on screen shows the verdict before the write returns; the
	// sibling hit is untouched.
	require.Eventually(t, func() bool {
		res := reg.Screening.Hits("chk_1", filter).Peek()
		return res.HasData && res.Data.Items[0].Resolution == kyc.HitFalsePositive
	}, time.Second, 5*time.Millisecond)

	during := reg.Screening.Hits("chk_1", filter).Peek()
	assert.Equal(t, kyc.HitUnresolved, during.Data.Items[1].Resolution)
	assert.False(t, during.Stale)
	assert.False(t, reg.Screening.CheckDetail("chk_1").Peek().Stale)

	release()
	require.NoError(t, <-done)

	// Settled: one prefix covers the check record and its hit pages, and
	// the applicant detail goes stale with them.
	assert.True(t, reg.Screening.CheckDetail("chk_1").Peek().Stale)
	assert.True(t, reg.Screening.Hits("chk_1", filter).Peek().Stale)
	assert.True(t, reg.Applicants.Detail("apl_1").Peek().Stale)

	canonical, err := reg.Screening.Hits("chk_1", filter).Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, kyc.HitFalsePositive, canonical.Data.Items[0].Resolution)
	assert.Equal(t, "usr_fake", canonical.Data.Items[0].ResolvedBy)
}

func TestResolveHitRollsBackThePageVerbatim(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedApplicants(testApplicant("apl_1", kyc.ApplicantUnderReview))
	fake.SeedChecks(testCheck("chk_1", "apl_1", kyc.CheckCompleted))
	fake.SeedHits(
		testHit("hit_a", "chk_1", "apl_1", 0.92),
		testHit("hit_b", "chk_1", "apl_1", 0.41),
	)

	var filter kyc.HitFilter
	_, err := reg.Screening.Hits("chk_1", filter).Get(ctx)
	require.NoError(t, err)

	fake.FailNext("ResolveHit", service.Unavailable("screening provider timeout"))
	_, err = reg.Screening.ResolveHit().Do(ctx, consolecache.ResolveHitInput{
		HitID:       "hit_a",
		CheckID:     "chk_1",
		ApplicantID: "apl_1",
		Resolution:  kyc.HitTruePositive,
		Filter:      filter,
	})
	require.Error(t, err)

	res := reg.Screening.Hits("chk_1", filter).Peek()
	require.True(t, res.HasData)
	assert.Equal(t, kyc.HitUnresolved, res.Data.Items[0].Resolution)
	assert.Equal(t, kyc.HitUnresolved, res.Data.Items[1].Resolution)
	assert.True(t, res.Stale)
}

func TestRunScreeningPrimesTheNewCheck(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedApplicants(testApplicant("apl_1", kyc.ApplicantUnderReview))

	_, err := reg.Screening.ChecksFor("apl_1").Get(ctx)
	require.NoError(t, err)

	out, err := reg.Screening.Run().Do(ctx, consolecache.RunScreeningInput{
		ApplicantID: "apl_1",
		Kind:        kyc.CheckSanctions,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.ID)

	// The created check is primed, so opening it costs no fetch.
	res := reg.Screening.CheckDetail(out.ID).Peek()
	require.True(t, res.HasData)
	assert.Equal(t, kyc.CheckPending, res.Data.Status)
	assert.False(t, res.Stale)
	assert.Equal(t, 0, fake.Calls("Check"))

	// The applicant's check listing has to refetch.
	assert.True(t, reg.Screening.ChecksFor("apl_1").Peek().Stale)
}

func TestWatchCheckConvergesAndCompletesOnce(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedApplicants(testApplicant("apl_1", kyc.ApplicantUnderReview))
	fake.SeedChecks(testCheck("chk_1", "apl_1", kyc.CheckProcessing))

	var mu sync.Mutex
	var updates []kyc.CheckStatus
	completions := 0

	watch, err := reg.Screening.WatchCheck("chk_1", consolecache.WatchConfig[kyc.ScreeningCheck]{
		Interval: 15 * time.Millisecond,
		OnUpdate: func(c kyc.ScreeningCheck) {
			mu.Lock()
			updates = append(updates, c.Status)
			mu.Unlock()
		},
		OnComplete: func(c kyc.ScreeningCheck) {
			mu.Lock()
			completions++
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	watch.Start(ctx)
	defer watch.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(updates) > 0
	}, time.Second, 5*time.Millisecond)

	done := testCheck("chk_1", "apl_1", kyc.CheckCompleted)
	completedAt := time.Unix(1755000300, 0)
	done.CompletedAt = &completedAt
	fake.SeedChecks(done)

	select {
	case <-watch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not reach the terminal check")
	}

	assert.True(t, watch.Completed())
	mu.Lock()
	assert.Equal(t, 1, completions)
	assert.Equal(t, kyc.CheckCompleted, updates[len(updates)-1])
	mu.Unlock()

	// Queries on the same key see what the watch stored.
	res := reg.Screening.CheckDetail("chk_1").Peek()
	require.True(t, res.HasData)
	assert.Equal(t, kyc.CheckCompleted, res.Data.Status)
}

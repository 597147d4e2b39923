package consolecache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/consolecache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

func testInvitation(id, email string) kyc.Invitation {
	return kyc.Invitation{
		ID:        id,
		Email:     email,
		Role:      kyc.RoleReviewer,
		Status:    kyc.InvitePending,
		InvitedBy: "usr_9001",
		CreatedAt: time.Unix(1755000000, 0),
		ExpiresAt: time.Unix(1756209600, 0),
	}
}

func TestRevokeStagesTheInvitationList(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedInvitations(
		testInvitation("inv_1", "ana@example.test"),
		testInvitation("inv_2", "ben@example.test"),
	)

	_, err := reg.Team.Invitations().Get(ctx)
	require.NoError(t, err)

	release := fake.Hold("RevokeInvitation")
	done := make(chan error, 1)
	reg.Team.Revoke().Go(ctx, "inv_2", func(_ kyc.Invitation, err error) {
		done <- err
	})

	require.Eventually(t, func() bool {
		res := reg.Team.Invitations().Peek()
		if !res.HasData {
			return false
		}
		for _, inv := range res.Data {
			if inv.ID == "inv_2" {
				return inv.Status == kyc.InviteRevoked
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	// The sibling invitation is untouched.
	res := reg.Team.Invitations().Peek()
	for _, inv := range res.Data {
		if inv.ID == "inv_1" {
			assert.Equal(t, kyc.InvitePending, inv.Status)
		}
	}

	release()
	require.NoError(t, <-done)
	assert.True(t, reg.Team.Invitations().Peek().Stale)
}

func TestRevokeInvitationsIsolatesFailures(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedInvitations(
		testInvitation("inv_1", "ana@example.test"),
		testInvitation("inv_2", "ben@example.test"),
		testInvitation("inv_3", "cy@example.test"),
	)

	_, err := reg.Team.Invitations().Get(ctx)
	require.NoError(t, err)

	// Serial execution makes the scripted failure hit the first id.
	fake.FailNext("RevokeInvitation", service.Unavailable("directory flake"))
	res := reg.Team.RevokeInvitations(ctx, []string{"inv_1", "inv_2", "inv_3"}, 1)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.Succeeded)
	assert.False(t, res.Ok())
	require.Len(t, res.Errors, 3)
	assert.Error(t, res.Errors[0])
	assert.NoError(t, res.Errors[1])
	assert.NoError(t, res.Errors[2])

	refreshed, err := reg.Team.Invitations().Refresh(ctx)
	require.NoError(t, err)
	statuses := map[string]kyc.InvitationStatus{}
	for _, inv := range refreshed.Data {
		statuses[inv.ID] = inv.Status
	}
	assert.Equal(t, kyc.InvitePending, statuses["inv_1"])
	assert.Equal(t, kyc.InviteRevoked, statuses["inv_2"])
	assert.Equal(t, kyc.InviteRevoked, statuses["inv_3"])
}

func TestRevokeInvitationsInvalidatesOnce(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedInvitations(
		testInvitation("inv_1", "ana@example.test"),
		testInvitation("inv_2", "ben@example.test"),
		testInvitation("inv_3", "cy@example.test"),
	)

	_, err := reg.Team.Invitations().Get(ctx)
	require.NoError(t, err)

	var mu sync.Mutex
	invalidations := 0
	sub := reg.Store().Subscribe(reg.Team.Keys().Invitations(), func(ev cache.Event) {
		if ev.Kind == cache.EventInvalidated {
			mu.Lock()
			invalidations++
			mu.Unlock()
		}
	})
	defer sub.Unsubscribe()

	res := reg.Team.RevokeInvitations(ctx, []string{"inv_1", "inv_2", "inv_3"}, 2)
	require.True(t, res.Ok())

	mu.Lock()
	assert.Equal(t, 1, invalidations)
	mu.Unlock()
}

func TestInviteInvalidatesTheInvitationList(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()

	before, err := reg.Team.Invitations().Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, before.Data)

	out, err := reg.Team.Invite().Do(ctx, consolecache.InviteInput{
		Email: "new@example.test",
		Role:  kyc.RoleViewer,
	})
	require.NoError(t, err)
	assert.True(t, out.Pending())

	assert.True(t, reg.Team.Invitations().Peek().Stale)

	after, err := reg.Team.Invitations().Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, after.Data, 1)
	assert.Equal(t, "new@example.test", after.Data[0].Email)
	assert.Equal(t, 2, fake.Calls("Invitations"))
}

func TestMembersListIsCached(t *testing.T) {
	reg, fake := newRegistry(t)
	ctx := context.Background()
	fake.SeedMembers(kyc.TeamMember{
		ID:       "usr_9001",
		Email:    "admin@example.test",
		Name:     "Ro Chen",
		Role:     kyc.RoleAdmin,
		Active:   true,
		JoinedAt: time.Unix(1755000000, 0),
	})

	first, err := reg.Team.Members().Get(ctx)
	require.NoError(t, err)
	require.Len(t, first.Data, 1)

	_, err = reg.Team.Members().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("Members"))
}

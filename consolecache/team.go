package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// InviteInput carries a new invitation's address and role.
type InviteInput struct {
	Email string
	Role  kyc.Role
}

// Team binds console membership: member and invitation reads, invitations
// and revocation, single or batched.
type Team struct {
	store *cache.Store
	svc   service.Team
	keys  TeamKeys

	invite *cache.Mutation[InviteInput, kyc.Invitation]
	revoke *cache.Mutation[string, kyc.Invitation]

	// revokeBatch runs the same write without optimistic staging. Batch
	// items stage against the one shared invitation list, where a failed
	// item's verbatim rollback would erase its siblings' edits, so the
	// batch path lets settle-time invalidation reconcile the list instead.
	revokeBatch *cache.Mutation[string, kyc.Invitation]
}

func newTeam(store *cache.Store, svc service.Team) (*Team, error) {
	t := &Team{store: store, svc: svc}

	var err error
	t.invite, err = cache.NewMutation(store, cache.MutationConfig[InviteInput, kyc.Invitation]{
		Run: func(ctx context.Context, in InviteInput) (kyc.Invitation, error) {
			return svc.Invite(ctx, in.Email, in.Role)
		},
		Invalidates: func(InviteInput) []cache.Key {
			return []cache.Key{t.keys.Invitations()}
		},
	})
	if err != nil {
		return nil, err
	}

	revokeRun := func(ctx context.Context, id string) (kyc.Invitation, error) {
		return svc.RevokeInvitation(ctx, id)
	}
	revokeTargets := func(string) []cache.Key {
		return []cache.Key{t.keys.Invitations()}
	}

	t.revoke, err = cache.NewMutation(store, cache.MutationConfig[string, kyc.Invitation]{
		Run: revokeRun,
		OnMutate: func(mc *cache.MutationContext, id string) {
			cache.StagePresent(mc, t.keys.Invitations(), func(cur []kyc.Invitation) []kyc.Invitation {
				next := kyc.MustClone(cur)
				for i := range next {
					if next[i].ID == id {
						next[i].Status = kyc.InviteRevoked
					}
				}
				return next
			})
		},
		Invalidates: revokeTargets,
	})
	if err != nil {
		return nil, err
	}

	t.revokeBatch, err = cache.NewMutation(store, cache.MutationConfig[string, kyc.Invitation]{
		Run:         revokeRun,
		Invalidates: revokeTargets,
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Keys exposes the family's key builder.
func (t *Team) Keys() TeamKeys { return t.keys }

// Members returns the query for the member list.
func (t *Team) Members() *cache.Query[[]kyc.TeamMember] {
	return cache.NewQuery(t.store, t.keys.Members(), func(ctx context.Context) ([]kyc.TeamMember, error) {
		return t.svc.Members(ctx)
	})
}

// Invitations returns the query for the invitation list.
func (t *Team) Invitations() *cache.Query[[]kyc.Invitation] {
	return cache.NewQuery(t.store, t.keys.Invitations(), func(ctx context.Context) ([]kyc.Invitation, error) {
		return t.svc.Invitations(ctx)
	})
}

// Invite returns the invitation mutation.
func (t *Team) Invite() *cache.Mutation[InviteInput, kyc.Invitation] { return t.invite }

// Revoke returns the single-invitation revocation mutation. Its optimistic
// write flips the entry in the cached invitation list.
func (t *Team) Revoke() *cache.Mutation[string, kyc.Invitation] { return t.revoke }

// RevokeInvitations revokes a set of invitations as one batch. Each id runs
// its own write, so one failure leaves the rest applied, and the invitation
// list is invalidated once at the end rather than once per id.
func (t *Team) RevokeInvitations(ctx context.Context, ids []string, concurrency int) cache.BatchResult {
	return t.revokeBatch.DoBatch(ctx, ids, cache.BatchOptions{
		Concurrency: concurrency,
		Invalidates: []cache.Key{t.keys.Invitations()},
	})
}

// InvalidateAll marks everything cached for members and invitations stale.
func (t *Team) InvalidateAll() int {
	return t.store.Invalidate(t.keys.MembersRoot()) + t.store.Invalidate(t.keys.InvitationsRoot())
}

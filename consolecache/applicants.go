package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// RejectInput identifies the applicant to reject and the reason recorded
// with the decision.
type RejectInput struct {
	ApplicantID string
	Reason      string
}

// Applicants binds the applicant family: detail and list reads plus the
// review decisions, with optimistic status flips on the cached detail.
type Applicants struct {
	store *cache.Store
	svc   service.Applicants
	keys  ApplicantKeys

	approve *cache.Mutation[string, kyc.Applicant]
	reject  *cache.Mutation[RejectInput, kyc.Applicant]
	update  *cache.Mutation[kyc.Applicant, kyc.Applicant]
	remove  *cache.Mutation[string, struct{}]
}

func newApplicants(store *cache.Store, svc service.Applicants) (*Applicants, error) {
	a := &Applicants{store: store, svc: svc}

	var err error
	a.approve, err = cache.NewMutation(store, cache.MutationConfig[string, kyc.Applicant]{
		Run: func(ctx context.Context, id string) (kyc.Applicant, error) {
			return svc.ApproveApplicant(ctx, id)
		},
		OnMutate: func(mc *cache.MutationContext, id string) {
			cache.StagePresent(mc, a.keys.Detail(id), func(cur kyc.Applicant) kyc.Applicant {
				next := kyc.MustClone(cur)
				next.Status = kyc.ApplicantApproved
				return next
			})
		},
		Invalidates: a.recordTargets,
	})
	if err != nil {
		return nil, err
	}

	a.reject, err = cache.NewMutation(store, cache.MutationConfig[RejectInput, kyc.Applicant]{
		Run: func(ctx context.Context, in RejectInput) (kyc.Applicant, error) {
			return svc.RejectApplicant(ctx, in.ApplicantID, in.Reason)
		},
		OnMutate: func(mc *cache.MutationContext, in RejectInput) {
			cache.StagePresent(mc, a.keys.Detail(in.ApplicantID), func(cur kyc.Applicant) kyc.Applicant {
				next := kyc.MustClone(cur)
				next.Status = kyc.ApplicantRejected
				return next
			})
		},
		Invalidates: func(in RejectInput) []cache.Key { return a.recordTargets(in.ApplicantID) },
	})
	if err != nil {
		return nil, err
	}

	a.update, err = cache.NewMutation(store, cache.MutationConfig[kyc.Applicant, kyc.Applicant]{
		Run: func(ctx context.Context, in kyc.Applicant) (kyc.Applicant, error) {
			return svc.UpdateApplicant(ctx, in)
		},
		OnMutate: func(mc *cache.MutationContext, in kyc.Applicant) {
			cache.StageValue(mc, a.keys.Detail(in.ID), func(kyc.Applicant, bool) kyc.Applicant {
				return kyc.MustClone(in)
			})
		},
		Invalidates: func(in kyc.Applicant) []cache.Key { return a.recordTargets(in.ID) },
	})
	if err != nil {
		return nil, err
	}

	a.remove, err = cache.NewMutation(store, cache.MutationConfig[string, struct{}]{
		Run: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, svc.DeleteApplicant(ctx, id)
		},
		OnMutate: func(mc *cache.MutationContext, id string) {
			mc.Drop(a.keys.Detail(id))
		},
		Invalidates: func(id string) []cache.Key { return []cache.Key{a.keys.Root()} },
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// recordTargets is the invalidation set of any write against one applicant:
// the record itself plus every cached listing.
func (a *Applicants) recordTargets(id string) []cache.Key {
	return []cache.Key{a.keys.Detail(id), a.keys.Lists()}
}

// Keys exposes the family's key builder for callers composing their own
// invalidations or subscriptions.
func (a *Applicants) Keys() ApplicantKeys { return a.keys }

// Detail returns the query for one applicant record.
func (a *Applicants) Detail(id string) *cache.Query[kyc.Applicant] {
	return cache.NewQuery(a.store, a.keys.Detail(id), func(ctx context.Context) (kyc.Applicant, error) {
		return a.svc.Applicant(ctx, id)
	})
}

// List returns the query for one page of a filtered applicant listing.
func (a *Applicants) List(filter kyc.ApplicantFilter) *cache.Query[kyc.Page[kyc.Applicant]] {
	return cache.NewQuery(a.store, a.keys.List(filter), func(ctx context.Context) (kyc.Page[kyc.Applicant], error) {
		return a.svc.ListApplicants(ctx, filter)
	})
}

// Approve returns the approval mutation. Its optimistic write flips the
// cached detail to approved.
func (a *Applicants) Approve() *cache.Mutation[string, kyc.Applicant] { return a.approve }

// Reject returns the rejection mutation. Its optimistic write flips the
// cached detail to rejected.
func (a *Applicants) Reject() *cache.Mutation[RejectInput, kyc.Applicant] { return a.reject }

// Update returns the profile edit mutation. The edited record is staged as
// the new cached detail whether or not one was cached before.
func (a *Applicants) Update() *cache.Mutation[kyc.Applicant, kyc.Applicant] { return a.update }

// Remove returns the deletion mutation. The cached detail is dropped
// optimistically and restored verbatim if the delete fails.
func (a *Applicants) Remove() *cache.Mutation[string, struct{}] { return a.remove }

// InvalidateAll marks everything cached for applicants stale.
func (a *Applicants) InvalidateAll() int { return a.store.Invalidate(a.keys.Root()) }

package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// AssignInput names the case to assign and the member taking it.
type AssignInput struct {
	CaseID     string
	AssigneeID string
}

// Cases binds the review queue: detail and list reads plus assignment and
// closure, with optimistic workflow transitions on the cached detail.
type Cases struct {
	store *cache.Store
	svc   service.Cases
	keys  CaseKeys

	assign *cache.Mutation[AssignInput, kyc.Case]
	close  *cache.Mutation[string, kyc.Case]
}

func newCases(store *cache.Store, svc service.Cases) (*Cases, error) {
	c := &Cases{store: store, svc: svc}

	var err error
	c.assign, err = cache.NewMutation(store, cache.MutationConfig[AssignInput, kyc.Case]{
		Run: func(ctx context.Context, in AssignInput) (kyc.Case, error) {
			return svc.AssignCase(ctx, in.CaseID, in.AssigneeID)
		},
		OnMutate: func(mc *cache.MutationContext, in AssignInput) {
			cache.StagePresent(mc, c.keys.Detail(in.CaseID), func(cur kyc.Case) kyc.Case {
				next := kyc.MustClone(cur)
				next.AssigneeID = in.AssigneeID
				if next.Status == kyc.CaseOpen {
					next.Status = kyc.CaseInReview
				}
				return next
			})
		},
		Invalidates: func(in AssignInput) []cache.Key { return c.recordTargets(in.CaseID) },
	})
	if err != nil {
		return nil, err
	}

	c.close, err = cache.NewMutation(store, cache.MutationConfig[string, kyc.Case]{
		Run: func(ctx context.Context, id string) (kyc.Case, error) {
			return svc.CloseCase(ctx, id)
		},
		OnMutate: func(mc *cache.MutationContext, id string) {
			cache.StagePresent(mc, c.keys.Detail(id), func(cur kyc.Case) kyc.Case {
				next := kyc.MustClone(cur)
				next.Status = kyc.CaseClosed
				return next
			})
		},
		Invalidates: func(id string) []cache.Key { return c.recordTargets(id) },
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Cases) recordTargets(id string) []cache.Key {
	return []cache.Key{c.keys.Detail(id), c.keys.Lists()}
}

// Keys exposes the family's key builder.
func (c *Cases) Keys() CaseKeys { return c.keys }

// Detail returns the query for one case record.
func (c *Cases) Detail(id string) *cache.Query[kyc.Case] {
	return cache.NewQuery(c.store, c.keys.Detail(id), func(ctx context.Context) (kyc.Case, error) {
		return c.svc.Case(ctx, id)
	})
}

// List returns the query for one page of a filtered case listing.
func (c *Cases) List(filter kyc.CaseFilter) *cache.Query[kyc.Page[kyc.Case]] {
	return cache.NewQuery(c.store, c.keys.List(filter), func(ctx context.Context) (kyc.Page[kyc.Case], error) {
		return c.svc.ListCases(ctx, filter)
	})
}

// Assign returns the assignment mutation. Its optimistic write records the
// assignee and moves an open case into review.
func (c *Cases) Assign() *cache.Mutation[AssignInput, kyc.Case] { return c.assign }

// Close returns the closure mutation. The closed timestamp is the server's
// to set; the optimistic write flips status only.
func (c *Cases) Close() *cache.Mutation[string, kyc.Case] { return c.close }

// InvalidateAll marks everything cached for cases stale.
func (c *Cases) InvalidateAll() int { return c.store.Invalidate(c.keys.Root()) }

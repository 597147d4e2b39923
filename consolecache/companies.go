package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// Companies binds the KYB family: detail and list reads plus profile edits
// covering the declared ownership graph.
type Companies struct {
	store *cache.Store
	svc   service.Companies
	keys  CompanyKeys

	update *cache.Mutation[kyc.Company, kyc.Company]
}

func newCompanies(store *cache.Store, svc service.Companies) (*Companies, error) {
	c := &Companies{store: store, svc: svc}

	var err error
	c.update, err = cache.NewMutation(store, cache.MutationConfig[kyc.Company, kyc.Company]{
		Run: func(ctx context.Context, in kyc.Company) (kyc.Company, error) {
			return svc.UpdateCompany(ctx, in)
		},
		OnMutate: func(mc *cache.MutationContext, in kyc.Company) {
			cache.StageValue(mc, c.keys.Detail(in.ID), func(kyc.Company, bool) kyc.Company {
				return kyc.MustClone(in)
			})
		},
		Invalidates: func(in kyc.Company) []cache.Key {
			return []cache.Key{c.keys.Detail(in.ID), c.keys.Lists()}
		},
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Keys exposes the family's key builder.
func (c *Companies) Keys() CompanyKeys { return c.keys }

// Detail returns the query for one company record.
func (c *Companies) Detail(id string) *cache.Query[kyc.Company] {
	return cache.NewQuery(c.store, c.keys.Detail(id), func(ctx context.Context) (kyc.Company, error) {
		return c.svc.Company(ctx, id)
	})
}

// List returns the query for one page of a filtered company listing.
func (c *Companies) List(filter kyc.CompanyFilter) *cache.Query[kyc.Page[kyc.Company]] {
	return cache.NewQuery(c.store, c.keys.List(filter), func(ctx context.Context) (kyc.Page[kyc.Company], error) {
		return c.svc.ListCompanies(ctx, filter)
	})
}

// Update returns the profile edit mutation.
func (c *Companies) Update() *cache.Mutation[kyc.Company, kyc.Company] { return c.update }

// InvalidateAll marks everything cached for companies stale.
func (c *Companies) InvalidateAll() int { return c.store.Invalidate(c.keys.Root()) }

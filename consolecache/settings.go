package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// SettingsCache binds the workspace configuration aggregate. Settings load
// and save as one unit under one key.
type SettingsCache struct {
	store *cache.Store
	svc   service.Settings
	keys  SettingsKeys

	save *cache.Mutation[kyc.Settings, kyc.Settings]
}

func newSettingsCache(store *cache.Store, svc service.Settings) (*SettingsCache, error) {
	s := &SettingsCache{store: store, svc: svc}

	var err error
	s.save, err = cache.NewMutation(store, cache.MutationConfig[kyc.Settings, kyc.Settings]{
		Run: func(ctx context.Context, in kyc.Settings) (kyc.Settings, error) {
			return svc.SaveSettings(ctx, in)
		},
		OnMutate: func(mc *cache.MutationContext, in kyc.Settings) {
			// The input is the complete aggregate, so staging it is valid
			// even when nothing was cached yet.
			cache.StageValue(mc, s.keys.Key(), func(kyc.Settings, bool) kyc.Settings {
				return kyc.MustClone(in)
			})
		},
		Invalidates: func(kyc.Settings) []cache.Key {
			return []cache.Key{s.keys.Key()}
		},
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Keys exposes the family's key builder.
func (s *SettingsCache) Keys() SettingsKeys { return s.keys }

// Get returns the query for the settings aggregate.
func (s *SettingsCache) Get() *cache.Query[kyc.Settings] {
	return cache.NewQuery(s.store, s.keys.Key(), func(ctx context.Context) (kyc.Settings, error) {
		return s.svc.Settings(ctx)
	})
}

// Save returns the settings save mutation.
func (s *SettingsCache) Save() *cache.Mutation[kyc.Settings, kyc.Settings] { return s.save }

// InvalidateAll marks the cached settings aggregate stale.
func (s *SettingsCache) InvalidateAll() int { return s.store.InvalidateKeys(s.keys.Key()) }

package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// Webhooks binds delivery endpoint management. The console shows one list,
// so optimistic writes edit the cached list in place.
type Webhooks struct {
	store *cache.Store
	svc   service.Webhooks
	keys  WebhookKeys

	save   *cache.Mutation[kyc.Webhook, kyc.Webhook]
	remove *cache.Mutation[string, struct{}]
	test   *cache.Mutation[string, kyc.WebhookDelivery]
}

func newWebhooks(store *cache.Store, svc service.Webhooks) (*Webhooks, error) {
	w := &Webhooks{store: store, svc: svc}

	var err error
	w.save, err = cache.NewMutation(store, cache.MutationConfig[kyc.Webhook, kyc.Webhook]{
		Run: func(ctx context.Context, in kyc.Webhook) (kyc.Webhook, error) {
			return svc.SaveWebhook(ctx, in)
		},
		OnMutate: func(mc *cache.MutationContext, in kyc.Webhook) {
			// Creates have no ID until the server mints one; they reach
			// the list through settle-time invalidation instead.
			if in.ID == "" {
				return
			}
			cache.StagePresent(mc, w.keys.List(), func(cur []kyc.Webhook) []kyc.Webhook {
				next := kyc.MustClone(cur)
				for i := range next {
					if next[i].ID == in.ID {
						next[i] = kyc.MustClone(in)
					}
				}
				return next
			})
		},
		Invalidates: func(kyc.Webhook) []cache.Key { return []cache.Key{w.keys.List()} },
	})
	if err != nil {
		return nil, err
	}

	w.remove, err = cache.NewMutation(store, cache.MutationConfig[string, struct{}]{
		Run: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, svc.DeleteWebhook(ctx, id)
		},
		OnMutate: func(mc *cache.MutationContext, id string) {
			cache.StagePresent(mc, w.keys.List(), func(cur []kyc.Webhook) []kyc.Webhook {
				next := make([]kyc.Webhook, 0, len(cur))
				for _, h := range cur {
					if h.ID != id {
						next = append(next, kyc.MustClone(h))
					}
				}
				return next
			})
		},
		Invalidates: func(string) []cache.Key { return []cache.Key{w.keys.List()} },
	})
	if err != nil {
		return nil, err
	}

	w.test, err = cache.NewMutation(store, cache.MutationConfig[string, kyc.WebhookDelivery]{
		Run: func(ctx context.Context, id string) (kyc.WebhookDelivery, error) {
			return svc.TestEndpoint(ctx, id)
		},
		// A test delivery updates the endpoint's last delivery marker, so
		// the cached list is stale either way.
		Invalidates: func(string) []cache.Key { return []cache.Key{w.keys.List()} },
	})
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Keys exposes the family's key builder.
func (w *Webhooks) Keys() WebhookKeys { return w.keys }

// List returns the query for the webhook list.
func (w *Webhooks) List() *cache.Query[[]kyc.Webhook] {
	return cache.NewQuery(w.store, w.keys.List(), func(ctx context.Context) ([]kyc.Webhook, error) {
		return w.svc.ListWebhooks(ctx)
	})
}

// Save returns the create-or-update mutation. Updates are staged into the
// cached list optimistically; creates wait for the server-assigned ID.
func (w *Webhooks) Save() *cache.Mutation[kyc.Webhook, kyc.Webhook] { return w.save }

// Remove returns the deletion mutation. The endpoint disappears from the
// cached list optimistically and reappears verbatim if the delete fails.
func (w *Webhooks) Remove() *cache.Mutation[string, struct{}] { return w.remove }

// Test returns the test delivery mutation.
func (w *Webhooks) Test() *cache.Mutation[string, kyc.WebhookDelivery] { return w.test }

// InvalidateAll marks everything cached for webhooks stale.
func (w *Webhooks) InvalidateAll() int { return w.store.Invalidate(w.keys.Root()) }

package consolecache

import (
	"context"
	"time"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// AuditLog binds the immutable activity trail. The trail is read-only from
// the console, so the family has queries and no mutations.
type AuditLog struct {
	store *cache.Store
	svc   service.AuditLog
	keys  AuditKeys
}

func newAuditLog(store *cache.Store, svc service.AuditLog) *AuditLog {
	return &AuditLog{store: store, svc: svc}
}

// Keys exposes the family's key builder.
func (a *AuditLog) Keys() AuditKeys { return a.keys }

// Search returns the query for one page of a filtered audit search.
func (a *AuditLog) Search(filter kyc.AuditFilter) *cache.Query[kyc.Page[kyc.AuditEvent]] {
	return cache.NewQuery(a.store, a.keys.Search(filter), func(ctx context.Context) (kyc.Page[kyc.AuditEvent], error) {
		return a.svc.SearchAudit(ctx, filter)
	})
}

// DebouncedSearch returns a debouncer that absorbs rapid filter changes,
// fetching only once input settles and handing each outcome to deliver.
// Filters already cached are answered from the cache. A non-positive delay
// uses the store's configured default.
func (a *AuditLog) DebouncedSearch(ctx context.Context, delay time.Duration, deliver func(cache.Result[kyc.Page[kyc.AuditEvent]])) *cache.Debouncer[kyc.AuditFilter] {
	if delay <= 0 {
		delay = a.store.Config().DebounceDelay
	}
	return cache.NewDebouncer(delay, func(filter kyc.AuditFilter) {
		// The Result carries any fetch error to deliver.
		res, _ := a.Search(filter).Get(ctx)
		deliver(res)
	})
}

// InvalidateAll marks everything cached for the audit log stale.
func (a *AuditLog) InvalidateAll() int { return a.store.Invalidate(a.keys.Root()) }

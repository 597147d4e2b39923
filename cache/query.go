package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidResultType reports that a cached value under a query's key is not
// of the query's type. It indicates two queries sharing a key with different
// types, which is a wiring bug.
var ErrInvalidResultType = errors.New("cache: cached value has wrong type")

// FetchFn produces the canonical value for a query's key.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Result is the renderable state of a query: the value if one is known, the
// last error if any, and whether a first load is still in progress. Data and
// Err are not mutually exclusive; a failed revalidation keeps the last good
// value so views can show it alongside the failure.
type Result[T any] struct {
	Data      T
	HasData   bool
	Err       error
	Loading   bool
	Stale     bool
	UpdatedAt time.Time
}

type queryOptions struct {
	staleTime time.Duration
	staleSet  bool
}

// QueryOption configures a Query at construction.
type QueryOption func(*queryOptions)

// WithStaleTime sets how long fetched values are served without
// revalidation. Zero means every read revalidates. The default comes from
// the store config.
func WithStaleTime(d time.Duration) QueryOption {
	return func(o *queryOptions) {
		o.staleTime = d
		o.staleSet = true
	}
}

// Query binds one cache key to one fetch function with a typed surface.
// Queries are cheap handles: every caller may build its own for the same key
// and the store coalesces their fetches.
type Query[T any] struct {
	store     *Store
	key       Key
	fetch     FetchFn[T]
	staleTime time.Duration
}

// NewQuery builds a query for key backed by fetch.
func NewQuery[T any](store *Store, key Key, fetch FetchFn[T], opts ...QueryOption) *Query[T] {
	if store == nil {
		panic("cache: query requires a store")
	}
	if key.IsZero() {
		panic("cache: query requires a key")
	}
	if fetch == nil {
		panic("cache: query requires a fetch function")
	}
	o := queryOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	q := &Query[T]{store: store, key: key, fetch: fetch, staleTime: store.cfg.DefaultStaleTime}
	if o.staleSet {
		q.staleTime = o.staleTime
	}
	return q
}

// Key returns the query's cache key.
func (q *Query[T]) Key() Key { return q.key }

// Get returns the query's value, fetching if the cache has none. A fresh
// cached value is returned immediately; a stale one is returned immediately
// while a background fetch revalidates it; on a miss, Get blocks until the
// in-flight fetch for the key completes or ctx is done.
func (q *Query[T]) Get(ctx context.Context) (Result[T], error) {
	view, err := q.store.read(ctx, q.key, q.fetchAny, q.staleTime, false)
	if err != nil {
		res := q.resultFromView(view)
		res.Err = err
		return res, err
	}
	return q.finish(view)
}

// Refresh bypasses freshness and fetches from the source of truth. If a
// fetch for the key is already in flight it joins that one instead of
// issuing another.
func (q *Query[T]) Refresh(ctx context.Context) (Result[T], error) {
	view, err := q.store.read(ctx, q.key, q.fetchAny, q.staleTime, true)
	if err != nil {
		res := q.resultFromView(view)
		res.Err = err
		return res, err
	}
	return q.finish(view)
}

// Peek returns the current state without triggering any fetch.
func (q *Query[T]) Peek() Result[T] {
	view, ok := q.store.Peek(q.key)
	if !ok {
		return Result[T]{Loading: q.store.flightPending(q.key)}
	}
	return q.resultFromView(view)
}

// Prime seeds the query's key with a value already in hand.
func (q *Query[T]) Prime(value T) {
	q.store.Prime(q.key, value, q.staleTime)
}

// Invalidate marks the query's key stale.
func (q *Query[T]) Invalidate() {
	q.store.InvalidateKeys(q.key)
}

func (q *Query[T]) fetchAny(ctx context.Context) (any, error) {
	return q.fetch(ctx)
}

// finish surfaces a type mismatch as a returned error; every other cached
// error stays inside the result, where stale-serving wants it.
func (q *Query[T]) finish(view EntryView) (Result[T], error) {
	res := q.resultFromView(view)
	if view.HasValue && !res.HasData {
		return res, res.Err
	}
	return res, nil
}

func (q *Query[T]) resultFromView(view EntryView) Result[T] {
	res := Result[T]{Err: view.Err, UpdatedAt: view.FetchedAt}
	if !view.HasValue {
		res.Loading = view.Err == nil && q.store.flightPending(q.key)
		return res
	}
	data, ok := view.Value.(T)
	if !ok {
		res.Err = fmt.Errorf("%w: key %s holds %T", ErrInvalidResultType, q.key, view.Value)
		return res
	}
	res.Data = data
	res.HasData = true
	res.Stale = view.Stale(q.store.clockNow())
	return res
}

// QuerySubscription is a live observer of one query. Unsubscribing releases
// the query's interest in its key; if that was the last interest, an
// in-flight fetch for the key is cancelled.
type QuerySubscription struct {
	sub    *Subscription
	cancel context.CancelFunc
	once   sync.Once
}

// Subscribe registers fn to observe the query's state. It is invoked once
// immediately with the current state, then on every change to the key. When
// the key is invalidated or reset while observed, the subscription refetches
// on the caller's behalf so observers converge on canonical data without
// polling. fn may be called from multiple goroutines.
func (q *Query[T]) Subscribe(fn func(Result[T])) *QuerySubscription {
	ctx, cancel := context.WithCancel(context.Background())
	qs := &QuerySubscription{cancel: cancel}

	refetch := func() {
		go func() {
			// Outcome arrives through the store event, not here.
			_, _ = q.Refresh(ctx)
		}()
	}

	qs.sub = q.store.Subscribe(q.key, func(ev Event) {
		switch ev.Kind {
		case EventUpdated, EventError, EventRolledBack:
			fn(q.resultFromView(ev.Entry))
		case EventInvalidated:
			refetch()
			res := q.resultFromView(ev.Entry)
			res.Loading = !res.HasData
			fn(res)
		case EventReset:
			refetch()
			fn(Result[T]{Loading: true})
		}
	})

	fn(q.Peek())
	return qs
}

// Unsubscribe detaches the observer. It is idempotent.
func (qs *QuerySubscription) Unsubscribe() {
	qs.once.Do(func() {
		// Drop the observer first, then release any refetch this
		// subscription started; whichever side releases the key's last
		// interest cancels the in-flight fetch.
		qs.sub.Unsubscribe()
		qs.cancel()
	})
}

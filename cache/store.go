package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// fetchAnyFn produces the canonical value for one key. The context is the
// flight's own context, not any single caller's: it is cancelled only when
// the last interested party walks away or the store is reset.
type fetchAnyFn func(ctx context.Context) (any, error)

// flight is one in-progress fetch for a key. All callers asking for the same
// key while a flight is running share it instead of issuing duplicate
// requests.
type flight struct {
	key  string
	okey Key
	// gen is the key generation captured when the flight started. If the
	// key is invalidated while the fetch runs, the stored generation moves
	// past this one and the result is written already stale.
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// refs counts callers blocked on done. Guarded by Store.mu.
	refs int
	// background marks stale-while-revalidate flights that nobody waits
	// on. They are never cancelled by waiter bookkeeping.
	background bool
	staleTime  time.Duration

	// result and err are written once under Store.mu before done is
	// closed; waiters may read them without the lock afterwards.
	result EntryView
	err    error
}

// Store is the session-scoped cache. It owns entry staleness, request
// coalescing, hierarchical invalidation, optimistic staging with rollback,
// and change notification. Entry bytes live in an EntryStorage; everything
// the storage is allowed to evict can be rebuilt from a refetch.
//
// All methods are safe for concurrent use.
type Store struct {
	cfg     Config
	storage EntryStorage
	log     zerolog.Logger
	now     func() time.Time

	mu      sync.Mutex
	flights map[string]*flight
	// gens tracks the invalidation generation per serialized key. Missing
	// means zero. Kept outside storage so eviction cannot erase it.
	gens map[string]uint64

	subs   *xsync.MapOf[string, *subscriberSet]
	subSeq atomic.Uint64
}

// StoreOption configures a Store at construction.
type StoreOption func(*Store)

// WithLogger sets the store's logger. The default discards everything.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the store's time source. Tests use this to control
// staleness deterministically.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore builds a Store on top of the given storage engine.
func NewStore(storage EntryStorage, cfg Config, opts ...StoreOption) (*Store, error) {
	if storage == nil {
		return nil, errors.New("cache: storage is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		cfg:     cfg,
		storage: storage,
		log:     zerolog.Nop(),
		now:     time.Now,
		flights: make(map[string]*flight),
		gens:    make(map[string]uint64),
		subs:    xsync.NewMapOf[string, *subscriberSet](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the configuration the store was built with.
func (s *Store) Config() Config { return s.cfg }

// Peek returns the current entry for key without fetching.
func (s *Store) Peek(key Key) (EntryView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entryLocked(key.String())
	if !ok {
		return EntryView{}, false
	}
	return e.view(), true
}

// Prime stores value under key as if it had just been fetched. It is used to
// seed the cache from data already in hand, so a detail view opened from a
// list renders instantly.
func (s *Store) Prime(key Key, value any, staleTime time.Duration) {
	k := key.String()
	s.mu.Lock()
	now := s.now()
	e := &entry{
		key:       key,
		value:     value,
		hasValue:  true,
		fetchedAt: now,
		staleAt:   now.Add(staleTime),
		gen:       s.gens[k],
	}
	s.storage.Set(k, e)
	view := e.view()
	s.mu.Unlock()
	s.notify(k, Event{Kind: EventUpdated, Key: key, Entry: view})
}

// Len reports the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Len()
}

// read is the workhorse behind Query.Get and Query.Refresh. A fresh entry is
// returned as-is. A stale entry is returned immediately while a background
// flight revalidates it. A miss, or force, joins the key's current flight or
// starts one, then blocks until it completes or ctx is done.
func (s *Store) read(ctx context.Context, key Key, fetch fetchAnyFn, staleTime time.Duration, force bool) (EntryView, error) {
	if err := ctx.Err(); err != nil {
		return EntryView{}, err
	}
	k := key.String()

	s.mu.Lock()
	now := s.now()
	if cur, ok := s.entryLocked(k); ok && !force && cur.hasValue {
		if !cur.isStale(now) {
			view := cur.view()
			s.mu.Unlock()
			return view, nil
		}
		// Serve stale, revalidate behind the caller's back.
		if f, ok := s.flights[k]; !ok || f.ctx.Err() != nil {
			s.startFlightLocked(key, k, fetch, staleTime, true)
		}
		view := cur.view()
		s.mu.Unlock()
		return view, nil
	}

	f, ok := s.flights[k]
	if !ok || f.ctx.Err() != nil {
		f = s.startFlightLocked(key, k, fetch, staleTime, false)
	}
	f.refs++
	s.mu.Unlock()

	select {
	case <-f.done:
	case <-ctx.Done():
		s.releaseWaiter(f)
		return EntryView{}, ctx.Err()
	}

	s.mu.Lock()
	f.refs--
	s.mu.Unlock()
	return f.result, f.err
}

// releaseWaiter drops one waiter from f after a caller gave up. When the last
// waiter leaves a foreground flight and no subscriber is watching the key,
// nobody is left to receive the result and the fetch is cancelled.
func (s *Store) releaseWaiter(f *flight) {
	s.mu.Lock()
	f.refs--
	cancel := f.refs == 0 && !f.background && s.flights[f.key] == f && !s.hasSubscribers(f.key)
	s.mu.Unlock()
	if cancel {
		s.log.Debug().Str("key", f.key).Msg("cancelling abandoned fetch")
		f.cancel()
	}
}

func (s *Store) startFlightLocked(key Key, k string, fetch fetchAnyFn, staleTime time.Duration, background bool) *flight {
	fctx, cancel := context.WithCancel(context.Background())
	f := &flight{
		key:        k,
		okey:       key,
		gen:        s.gens[k],
		ctx:        fctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		background: background,
		staleTime:  staleTime,
	}
	s.flights[k] = f
	s.log.Debug().Str("key", k).Bool("background", background).Msg("fetch started")
	go s.runFlight(f, fetch)
	return f
}

func (s *Store) runFlight(f *flight, fetch fetchAnyFn) {
	value, err := fetch(f.ctx)
	s.completeFlight(f, value, err)
}

// completeFlight records a flight's outcome. Cancelled flights never touch
// storage. A result whose generation was superseded by an invalidation is
// stored already stale, and one superseded by a newer write (an optimistic
// stage) is discarded so the newer value stays visible.
func (s *Store) completeFlight(f *flight, value any, err error) {
	s.mu.Lock()
	if s.flights[f.key] == f {
		delete(s.flights, f.key)
	}

	if f.ctx.Err() != nil {
		if err == nil {
			err = f.ctx.Err()
		}
		f.err = err
		close(f.done)
		f.cancel()
		s.mu.Unlock()
		return
	}

	now := s.now()
	cur, hadCur := s.entryLocked(f.key)
	if hadCur && cur.gen > f.gen {
		f.result = cur.view()
		f.err = err
		close(f.done)
		f.cancel()
		s.mu.Unlock()
		return
	}

	var (
		next *entry
		ev   Event
	)
	if err != nil {
		next = &entry{key: f.okey, err: err, fetchedAt: now, staleAt: now, gen: f.gen}
		if hadCur && cur.hasValue {
			// Keep the last good value alongside the error so views
			// can show data with a failure banner.
			next.value, next.hasValue = cur.value, true
		}
		ev = Event{Kind: EventError, Key: f.okey}
		s.log.Warn().Str("key", f.key).Err(err).Msg("fetch failed")
	} else {
		staleAt := now.Add(f.staleTime)
		superseded := f.gen != s.gens[f.key]
		if superseded {
			// Invalidated mid-flight: usable now, revalidate next read.
			staleAt = now
		}
		next = &entry{
			key:       f.okey,
			value:     value,
			hasValue:  true,
			fetchedAt: now,
			staleAt:   staleAt,
			gen:       f.gen,
		}
		if superseded {
			ev = Event{Kind: EventInvalidated, Key: f.okey}
		} else {
			ev = Event{Kind: EventUpdated, Key: f.okey}
		}
	}
	s.storage.Set(f.key, next)
	f.result = next.view()
	f.err = err
	ev.Entry = f.result
	close(f.done)
	f.cancel()
	s.mu.Unlock()

	s.notify(f.key, ev)
}

// flightPending reports whether a fetch is currently running for key.
func (s *Store) flightPending(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[key.String()]
	return ok && f.ctx.Err() == nil
}

// Invalidate marks every entry at or under prefix as stale and bumps the
// affected key generations so in-progress fetches cannot land fresh. Entries
// keep their values: readers continue to see them stale-while-revalidate.
// It returns the number of keys touched.
func (s *Store) Invalidate(prefix Key) int {
	if prefix.IsZero() {
		return 0
	}
	return s.invalidate(func(k string) bool { return matchesPrefix(k, prefix.String()) })
}

// InvalidateKeys marks exactly the given keys stale.
func (s *Store) InvalidateKeys(keys ...Key) int {
	if len(keys) == 0 {
		return 0
	}
	match := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if !key.IsZero() {
			match[key.String()] = struct{}{}
		}
	}
	return s.invalidate(func(k string) bool {
		_, ok := match[k]
		return ok
	})
}

// InvalidateAll marks every cached entry stale without discarding values.
func (s *Store) InvalidateAll() int {
	return s.invalidate(func(string) bool { return true })
}

func (s *Store) invalidate(match func(string) bool) int {
	s.mu.Lock()
	now := s.now()

	affected := make(map[string]struct{})
	for _, k := range s.storage.Keys() {
		if match(k) {
			affected[k] = struct{}{}
		}
	}
	for k := range s.flights {
		if match(k) {
			affected[k] = struct{}{}
		}
	}

	type pending struct {
		k  string
		ev Event
	}
	var notes []pending
	for k := range affected {
		s.gens[k]++
		e, ok := s.entryLocked(k)
		if !ok {
			continue
		}
		next := e.clone()
		next.staleAt = now
		s.storage.Set(k, next)
		notes = append(notes, pending{k: k, ev: Event{Kind: EventInvalidated, Key: next.key, Entry: next.view()}})
	}
	n := len(affected)
	s.mu.Unlock()

	if n > 0 {
		s.log.Debug().Int("keys", n).Msg("invalidated")
	}
	for _, p := range notes {
		s.notify(p.k, p.ev)
	}
	return n
}

// Reset drops every entry, cancels every in-progress fetch and clears all
// generation tracking. It is the session boundary: after logout nothing
// fetched before may be served again. Subscriptions survive; each subscriber
// receives a reset event so live views can fall back to loading state.
func (s *Store) Reset() {
	s.mu.Lock()
	for k, f := range s.flights {
		f.cancel()
		delete(s.flights, k)
	}
	for _, k := range s.storage.Keys() {
		s.storage.Delete(k)
	}
	s.gens = make(map[string]uint64)
	s.mu.Unlock()

	s.log.Info().Msg("store reset")
	s.subs.Range(func(k string, set *subscriberSet) bool {
		set.dispatch(Event{Kind: EventReset, Key: set.key})
		return true
	})
}

// applyStaged snapshots the current state of key and replaces it with the
// value produced by transform. The returned snapshot restores the exact prior
// state, including absence. The staged entry is written under a bumped
// generation so an in-flight fetch that started earlier cannot clobber it.
func (s *Store) applyStaged(key Key, transform func(cur any, ok bool) any) entrySnapshot {
	k := key.String()
	s.mu.Lock()
	now := s.now()
	cur, existed := s.entryLocked(k)
	snap := entrySnapshot{key: key, existed: existed, e: cur}

	var curVal any
	hasVal := false
	if existed && cur.hasValue {
		curVal, hasVal = cur.value, true
	}
	s.gens[k]++
	next := &entry{
		key:       key,
		value:     transform(curVal, hasVal),
		hasValue:  true,
		fetchedAt: now,
		staleAt:   now.Add(s.cfg.DefaultStaleTime),
		gen:       s.gens[k],
	}
	s.storage.Set(k, next)
	view := next.view()
	s.mu.Unlock()

	s.notify(k, Event{Kind: EventUpdated, Key: key, Entry: view})
	return snap
}

// applyStagedPresent is applyStaged restricted to keys that already hold a
// value. When the key holds nothing it stages nothing and reports false, so
// optimistic transforms of cached records never invent entries.
func (s *Store) applyStagedPresent(key Key, transform func(cur any) any) (entrySnapshot, bool) {
	k := key.String()
	s.mu.Lock()
	cur, existed := s.entryLocked(k)
	if !existed || !cur.hasValue {
		s.mu.Unlock()
		return entrySnapshot{}, false
	}
	now := s.now()
	snap := entrySnapshot{key: key, existed: true, e: cur}
	s.gens[k]++
	next := &entry{
		key:       key,
		value:     transform(cur.value),
		hasValue:  true,
		fetchedAt: now,
		staleAt:   now.Add(s.cfg.DefaultStaleTime),
		gen:       s.gens[k],
	}
	s.storage.Set(k, next)
	view := next.view()
	s.mu.Unlock()

	s.notify(k, Event{Kind: EventUpdated, Key: key, Entry: view})
	return snap, true
}

// dropStaged snapshots key and removes its entry, for optimistic deletes.
func (s *Store) dropStaged(key Key) entrySnapshot {
	k := key.String()
	s.mu.Lock()
	cur, existed := s.entryLocked(k)
	snap := entrySnapshot{key: key, existed: existed, e: cur}
	s.gens[k]++
	s.storage.Delete(k)
	s.mu.Unlock()

	s.notify(k, Event{Kind: EventInvalidated, Key: key})
	return snap
}

// restoreSnapshots rolls staged keys back to their captured state, newest
// first. Restoration is verbatim: the prior entry returns byte for byte, and
// a key that did not exist is deleted again.
func (s *Store) restoreSnapshots(snaps []entrySnapshot) {
	if len(snaps) == 0 {
		return
	}
	type pending struct {
		k  string
		ev Event
	}
	notes := make([]pending, 0, len(snaps))

	s.mu.Lock()
	for i := len(snaps) - 1; i >= 0; i-- {
		snap := snaps[i]
		k := snap.key.String()
		ev := Event{Kind: EventRolledBack, Key: snap.key}
		if snap.existed {
			s.storage.Set(k, snap.e)
			ev.Entry = snap.e.view()
		} else {
			s.storage.Delete(k)
		}
		notes = append(notes, pending{k: k, ev: ev})
	}
	s.mu.Unlock()

	s.log.Debug().Int("keys", len(snaps)).Msg("rolled back staged entries")
	for _, p := range notes {
		s.notify(p.k, p.ev)
	}
}

func (s *Store) entryLocked(k string) (*entry, bool) {
	raw, ok := s.storage.Get(k)
	if !ok {
		return nil, false
	}
	e, ok := raw.(*entry)
	return e, ok
}

func (s *Store) clockNow() time.Time { return s.now() }

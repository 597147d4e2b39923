package cache

import "sync"

// EventKind classifies a store notification.
type EventKind string

const (
	// EventUpdated fires when a key receives a new value, from a fetch,
	// a Prime or an optimistic stage.
	EventUpdated EventKind = "updated"
	// EventError fires when a fetch for a key fails.
	EventError EventKind = "error"
	// EventInvalidated fires when a key is marked stale or dropped.
	EventInvalidated EventKind = "invalidated"
	// EventRolledBack fires when a staged key is restored after a failed
	// mutation.
	EventRolledBack EventKind = "rolledback"
	// EventReset fires on every subscribed key when the store is reset.
	EventReset EventKind = "reset"
)

// Event describes one change to a cached key. Entry is the state after the
// change; it is zero for reset events and for invalidations that dropped the
// key outright.
type Event struct {
	Kind  EventKind
	Key   Key
	Entry EntryView
}

// subscriberSet holds the observers of one key.
type subscriberSet struct {
	key Key
	mu  sync.Mutex
	fns map[uint64]func(Event)
}

func (set *subscriberSet) dispatch(ev Event) {
	set.mu.Lock()
	fns := make([]func(Event), 0, len(set.fns))
	for _, fn := range set.fns {
		fns = append(fns, fn)
	}
	set.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (set *subscriberSet) len() int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.fns)
}

// Subscription is a handle on one registered observer. Unsubscribe is
// idempotent.
type Subscription struct {
	store *Store
	key   Key
	k     string
	id    uint64
	once  sync.Once
}

// Subscribe registers fn to receive every event for key. Callbacks run on
// whichever goroutine produced the change, possibly several at once, and
// must not block; hand work that can block to another goroutine.
func (s *Store) Subscribe(key Key, fn func(Event)) *Subscription {
	k := key.String()
	id := s.subSeq.Add(1)
	// Compute serializes with the removal in Unsubscribe, so an observer
	// never lands on a set that just left the map.
	s.subs.Compute(k, func(set *subscriberSet, loaded bool) (*subscriberSet, bool) {
		if !loaded {
			set = &subscriberSet{key: key, fns: make(map[uint64]func(Event))}
		}
		set.mu.Lock()
		set.fns[id] = fn
		set.mu.Unlock()
		return set, false
	})
	return &Subscription{store: s, key: key, k: k, id: id}
}

// Unsubscribe removes the observer. If it was the key's last observer and a
// fetch is in flight with no callers waiting on it, the fetch is cancelled:
// nobody is left to receive the result.
func (sub *Subscription) Unsubscribe() {
	sub.once.Do(func() {
		s := sub.store
		empty := false
		s.subs.Compute(sub.k, func(set *subscriberSet, loaded bool) (*subscriberSet, bool) {
			if !loaded {
				return nil, true
			}
			set.mu.Lock()
			delete(set.fns, sub.id)
			empty = len(set.fns) == 0
			set.mu.Unlock()
			// A set with no observers leaves the map; a session
			// touches many keys and must not keep a set per key it
			// ever watched.
			return set, empty
		})
		if !empty {
			return
		}

		s.mu.Lock()
		f, ok := s.flights[sub.k]
		cancel := ok && f.refs == 0 && !f.background
		s.mu.Unlock()
		if cancel {
			s.log.Debug().Str("key", sub.k).Msg("cancelling fetch after last unsubscribe")
			f.cancel()
		}
	})
}

func (s *Store) notify(k string, ev Event) {
	if set, ok := s.subs.Load(k); ok {
		set.dispatch(ev)
	}
}

func (s *Store) hasSubscribers(k string) bool {
	set, ok := s.subs.Load(k)
	return ok && set.len() > 0
}

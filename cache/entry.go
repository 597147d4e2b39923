package cache

import "time"

// entry is one cached record. Entries are immutable once stored: every state
// transition writes a fresh copy, so a snapshot taken for rollback can never
// be corrupted by a later fetch completing against the same key.
type entry struct {
	key      Key
	value    any
	hasValue bool
	err      error
	// fetchedAt is when the value was produced; staleAt is when it stops
	// being served without revalidation.
	fetchedAt time.Time
	staleAt   time.Time
	// gen is the key generation the value was fetched under. A fetch that
	// started before an invalidation carries the old generation and its
	// result is stored already stale.
	gen uint64
}

func (e *entry) clone() *entry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (e *entry) isStale(now time.Time) bool {
	return !now.Before(e.staleAt)
}

// EntryView is the read-only projection of a cached entry handed to
// subscribers and returned by store reads.
type EntryView struct {
	Key       Key
	Value     any
	HasValue  bool
	Err       error
	FetchedAt time.Time
	StaleAt   time.Time
}

func (e *entry) view() EntryView {
	if e == nil {
		return EntryView{}
	}
	return EntryView{
		Key:       e.key,
		Value:     e.value,
		HasValue:  e.hasValue,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
		StaleAt:   e.staleAt,
	}
}

// Stale reports whether the view's value has passed its freshness window.
func (v EntryView) Stale(now time.Time) bool {
	return !now.Before(v.StaleAt)
}

// entrySnapshot captures the exact pre-write state of one key, including
// absence. Restoring a snapshot where existed is false deletes the key again
// rather than writing a zero-valued entry.
type entrySnapshot struct {
	key     Key
	existed bool
	e       *entry
}

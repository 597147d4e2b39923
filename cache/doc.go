// Package cache provides the session-scoped query cache and convergence
// primitives for compliance console clients.
//
// # Overview
//
// This package exports one central type and four primitives built on it:
//
//   - Store: keyed entry storage with staleness tracking, request
//     coalescing, hierarchical invalidation and change notification
//   - Query: a typed read binding one cache key to one fetch function
//   - Mutation: a write with optimistic cache staging, verbatim rollback on
//     failure and settle-time invalidation
//   - Poller: a fixed-interval refetch loop that stops at a terminal value
//   - Debouncer: burst coalescing for high-frequency inputs such as search
//
// The package has no opinion about where data comes from: fetch and run
// functions talk to whatever backend the caller wires in. The consolecache
// package binds these primitives to the compliance service surface.
//
// # Keys
//
// Cache keys are hierarchical. A key is built from segments, most general
// first, and a key addresses the whole subtree beneath it:
//
//	applicants := cache.NewKey("applicants")
//	list := applicants.Child("list", filter)
//	detail := applicants.Child("detail", id)
//
// Invalidating the applicants key marks both the list and the detail stale.
// Identical segment inputs always produce equal keys, so two call sites
// asking for the same data share one cache slot and one in-flight fetch.
//
// # Reads
//
// Queries serve fresh values from the cache, serve stale values immediately
// while revalidating in the background, and otherwise fetch:
//
//	q := cache.NewQuery(store, detail, fetchApplicant)
//	res, err := q.Get(ctx)
//
// Concurrent Gets for one key share a single fetch. A caller abandoning a
// blocked Get does not disturb the others; the fetch itself is cancelled
// only when the last interested caller or subscriber is gone.
//
// # Writes
//
// Mutations stage optimistic values before running, roll them back verbatim
// if the run fails, and invalidate the affected key prefixes once settled,
// succeed or fail. See the Mutation type for the full lifecycle and
// DoBatch for running many inputs with failure isolation.
//
// # Session Boundary
//
// Store.Reset drops every entry, cancels every in-flight fetch and clears
// generation tracking. Call it on logout; nothing cached before a reset is
// ever served after it.
package cache

package cache

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// MutationConfig describes one kind of write against the source of truth and
// how the cache reconciles around it.
type MutationConfig[In, Out any] struct {
	// Run performs the write. Required.
	Run func(ctx context.Context, input In) (Out, error)

	// Invalidates names the key prefixes whose cached data the write makes
	// unreliable. They are invalidated after Run settles, on success and
	// on failure alike, so observers converge on canonical data either way.
	Invalidates func(input In) []Key

	// OnMutate runs synchronously before Run. It stages optimistic cache
	// writes through the MutationContext; everything staged is rolled
	// back verbatim if Run fails.
	OnMutate func(mc *MutationContext, input In)

	// OnSuccess runs after Run succeeds, before invalidation.
	OnSuccess func(input In, out Out)

	// OnError runs after staged writes have been rolled back. mc exposes
	// the pre-mutation state of the staged keys, so callers can report
	// what the rollback restored.
	OnError func(err error, input In, mc *MutationContext)

	// OnSettled runs last, after invalidation, on success and failure.
	OnSettled func(input In, mc *MutationContext)
}

// Mutation executes writes with optimistic cache updates and automatic
// reconciliation: stage, run, roll back on failure, invalidate on settle.
type Mutation[In, Out any] struct {
	store   *Store
	cfg     MutationConfig[In, Out]
	pending atomic.Int64
}

// NewMutation builds a mutation against store.
func NewMutation[In, Out any](store *Store, cfg MutationConfig[In, Out]) (*Mutation[In, Out], error) {
	if store == nil {
		return nil, errors.New("cache: mutation requires a store")
	}
	if cfg.Run == nil {
		return nil, errors.New("cache: mutation requires a Run function")
	}
	return &Mutation[In, Out]{store: store, cfg: cfg}, nil
}

// Pending reports how many executions of this mutation are currently in
// progress.
func (m *Mutation[In, Out]) Pending() int {
	return int(m.pending.Load())
}

// Do executes the mutation's full lifecycle for one input: stage optimistic
// writes, run, roll back and report on failure, then invalidate the affected
// key prefixes and settle.
func (m *Mutation[In, Out]) Do(ctx context.Context, input In) (Out, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)

	out, mc, err := m.run(ctx, input)
	m.invalidate(append(m.keysFor(input), invalidationsFromContext(ctx)...))
	if m.cfg.OnSettled != nil {
		m.cfg.OnSettled(input, mc)
	}
	return out, err
}

// Go runs Do on its own goroutine and delivers the outcome to done, which
// may be nil for fire-and-forget writes.
func (m *Mutation[In, Out]) Go(ctx context.Context, input In, done func(Out, error)) {
	go func() {
		out, err := m.Do(ctx, input)
		if done != nil {
			done(out, err)
		}
	}()
}

// run is the per-input lifecycle without settle-invalidation, shared by Do
// and DoBatch. The returned MutationContext carries the attempt's staged
// snapshots for the settle hook.
func (m *Mutation[In, Out]) run(ctx context.Context, input In) (Out, *MutationContext, error) {
	mc := &MutationContext{store: m.store}
	if m.cfg.OnMutate != nil {
		m.cfg.OnMutate(mc, input)
	}

	out, err := m.cfg.Run(ctx, input)
	if err != nil {
		m.store.restoreSnapshots(mc.staged)
		if m.cfg.OnError != nil {
			m.cfg.OnError(err, input, mc)
		}
		return out, mc, err
	}
	if m.cfg.OnSuccess != nil {
		m.cfg.OnSuccess(input, out)
	}
	return out, mc, nil
}

func (m *Mutation[In, Out]) keysFor(input In) []Key {
	if m.cfg.Invalidates == nil {
		return nil
	}
	return m.cfg.Invalidates(input)
}

func (m *Mutation[In, Out]) invalidate(keys []Key) {
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key.IsZero() {
			continue
		}
		if _, ok := seen[key.String()]; ok {
			continue
		}
		seen[key.String()] = struct{}{}
		m.store.Invalidate(key)
	}
}

// BatchOptions tunes DoBatch.
type BatchOptions struct {
	// Concurrency caps how many inputs run at once. Zero means the store
	// config's BatchConcurrency.
	Concurrency int
	// Invalidates overrides the per-input invalidation targets with one
	// set covering the whole batch. Leave nil to invalidate the union of
	// the per-input targets.
	Invalidates []Key
}

// BatchResult summarizes a batch execution. Errors is index-aligned with the
// inputs; a nil slot means that input succeeded.
type BatchResult struct {
	Succeeded int
	Failed    int
	Total     int
	Errors    []error
}

// Ok reports whether every input succeeded.
func (r BatchResult) Ok() bool { return r.Failed == 0 }

// DoBatch executes the mutation for every input with bounded concurrency.
// Each input gets the full stage/run/rollback lifecycle in isolation, so one
// failure never disturbs the others, and invalidation happens once at the
// end instead of once per input.
func (m *Mutation[In, Out]) DoBatch(ctx context.Context, inputs []In, opts BatchOptions) BatchResult {
	res := BatchResult{Total: len(inputs), Errors: make([]error, len(inputs))}
	if len(inputs) == 0 {
		return res
	}
	m.pending.Add(1)
	defer m.pending.Add(-1)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = m.store.cfg.BatchConcurrency
	}

	mcs := make([]*MutationContext, len(inputs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mcs[i] = &MutationContext{store: m.store}
				res.Errors[i] = err
				return nil
			}
			_, mc, err := m.run(ctx, input)
			mcs[i] = mc
			res.Errors[i] = err
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range res.Errors {
		if err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}

	keys := opts.Invalidates
	if keys == nil {
		for _, input := range inputs {
			keys = append(keys, m.keysFor(input)...)
		}
	}
	m.invalidate(append(keys, invalidationsFromContext(ctx)...))
	if m.cfg.OnSettled != nil {
		for i, input := range inputs {
			m.cfg.OnSettled(input, mcs[i])
		}
	}
	return res
}

// MutationContext stages optimistic cache writes during OnMutate. Every
// staged key's prior state is snapshotted, absence included, so a failed run
// restores the cache exactly as it was. One context lives for one mutation
// attempt: OnMutate stages through it, and OnError and OnSettled may read
// the snapshots back. Staging outside OnMutate is a wiring bug.
type MutationContext struct {
	store  *Store
	staged []entrySnapshot
}

// StagedKeys returns the keys OnMutate staged, in staging order.
func (mc *MutationContext) StagedKeys() []Key {
	keys := make([]Key, len(mc.staged))
	for i, snap := range mc.staged {
		keys[i] = snap.key
	}
	return keys
}

// Previous returns the value key held before OnMutate staged it. It reports
// false for keys that were never staged and for staged keys that held no
// value, which is also what a rollback restores them to.
func (mc *MutationContext) Previous(key Key) (any, bool) {
	for _, snap := range mc.staged {
		if snap.key.Equal(key) {
			if snap.existed && snap.e.hasValue {
				return snap.e.value, true
			}
			return nil, false
		}
	}
	return nil, false
}

// Stage replaces the value under key with the result of transform, which
// receives the current value and whether one exists. The prior state is
// snapshotted for rollback.
func (mc *MutationContext) Stage(key Key, transform func(cur any, ok bool) any) {
	mc.staged = append(mc.staged, mc.store.applyStaged(key, transform))
}

// StageIfPresent transforms the value under key only when one is cached.
// Absent keys are left untouched, so optimistic edits to records the user is
// looking at never invent entries for records that were never loaded.
func (mc *MutationContext) StageIfPresent(key Key, transform func(cur any) any) {
	if snap, ok := mc.store.applyStagedPresent(key, transform); ok {
		mc.staged = append(mc.staged, snap)
	}
}

// Drop removes the entry under key, for optimistic deletes. The prior state
// is snapshotted for rollback.
func (mc *MutationContext) Drop(key Key) {
	mc.staged = append(mc.staged, mc.store.dropStaged(key))
}

// StageValue is the typed flavor of MutationContext.Stage. A cached value of
// the wrong type is treated as absent.
func StageValue[T any](mc *MutationContext, key Key, transform func(cur T, ok bool) T) {
	mc.Stage(key, func(cur any, ok bool) any {
		v, good := cur.(T)
		return transform(v, ok && good)
	})
}

// PreviousValue is the typed flavor of MutationContext.Previous. A prior
// value of the wrong type reports false.
func PreviousValue[T any](mc *MutationContext, key Key) (T, bool) {
	var zero T
	v, ok := mc.Previous(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// StagePresent is the typed flavor of MutationContext.StageIfPresent. A
// cached value of the wrong type is staged unchanged.
func StagePresent[T any](mc *MutationContext, key Key, transform func(cur T) T) {
	mc.StageIfPresent(key, func(cur any) any {
		v, ok := cur.(T)
		if !ok {
			return cur
		}
		return transform(v)
	})
}

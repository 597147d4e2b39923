package consolecache

import "time"

// WatchConfig configures a convergence watch started from a binding, such
// as Screening.WatchCheck or Documents.WatchAnalysis. The terminal
// condition belongs to the binding; callers only say how often to look and
// what to do with progress.
type WatchConfig[T any] struct {
	// Interval between polls. Zero means the store's configured default.
	Interval time.Duration

	// OnUpdate fires after every successful poll, terminal included.
	OnUpdate func(T)
	// OnComplete fires exactly once, when the value first reaches a
	// terminal state.
	OnComplete func(T)
	// OnError fires when a poll fails. The watch keeps going.
	OnError func(error)
}

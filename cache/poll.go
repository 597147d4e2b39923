package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// PollConfig describes a convergence poll: refetch a key on an interval
// until its value reaches a terminal state.
type PollConfig[T any] struct {
	// Key is the cache key the poll refreshes. Required.
	Key Key
	// Fetch produces the current value from the source of truth. Required.
	Fetch FetchFn[T]
	// Terminal reports whether the value has reached a state that will
	// never change again. Required.
	Terminal func(T) bool
	// Interval between ticks. Zero means the store config's PollInterval.
	Interval time.Duration

	// OnUpdate fires after every successful tick, terminal included.
	OnUpdate func(T)
	// OnComplete fires exactly once, when Terminal first returns true.
	OnComplete func(T)
	// OnError fires when a tick fails. The poll keeps going; transient
	// failures should not end a convergence watch.
	OnError func(err error)
}

// Poller drives one convergence poll. Every tick forces a fetch and stores
// the result, so queries and subscribers on the same key see live progress
// without any wiring of their own. A Poller is single-use: once stopped or
// complete it cannot be started again.
type Poller[T any] struct {
	store    *Store
	cfg      PollConfig[T]
	interval time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc

	done      chan struct{}
	completed atomic.Bool
}

// NewPoller builds a poller from cfg.
func NewPoller[T any](store *Store, cfg PollConfig[T]) (*Poller[T], error) {
	if store == nil {
		return nil, errors.New("cache: poller requires a store")
	}
	if cfg.Key.IsZero() {
		return nil, errors.New("cache: poller requires a key")
	}
	if cfg.Fetch == nil {
		return nil, errors.New("cache: poller requires a fetch function")
	}
	if cfg.Terminal == nil {
		return nil, errors.New("cache: poller requires a terminal predicate")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = store.cfg.PollInterval
	}
	return &Poller[T]{
		store:    store,
		cfg:      cfg,
		interval: interval,
		done:     make(chan struct{}),
	}, nil
}

// Start begins polling: one tick immediately, then one per interval. Ticks
// run sequentially; a fetch slower than the interval delays the next tick
// rather than overlapping it. Start is a no-op after the first call and
// after Stop.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(ctx)
}

// Stop ends the poll. It is idempotent and safe to call whether or not the
// poll already completed.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	cancel := p.cancel
	started := p.started
	p.mu.Unlock()

	if started {
		cancel()
	} else {
		close(p.done)
	}
}

// Done is closed when the poll has ended, by reaching a terminal value, by
// Stop, or by context cancellation.
func (p *Poller[T]) Done() <-chan struct{} { return p.done }

// Completed reports whether the poll ended because Terminal returned true.
func (p *Poller[T]) Completed() bool { return p.completed.Load() }

func (p *Poller[T]) loop(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if p.tick(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick forces one fetch. It reports whether the poll is over.
func (p *Poller[T]) tick(ctx context.Context) bool {
	view, err := p.store.read(ctx, p.cfg.Key, p.fetchAny, p.interval, true)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		if p.cfg.OnError != nil {
			p.cfg.OnError(err)
		}
		return false
	}
	val, ok := view.Value.(T)
	if !ok {
		if p.cfg.OnError != nil {
			p.cfg.OnError(fmt.Errorf("%w: key %s holds %T", ErrInvalidResultType, p.cfg.Key, view.Value))
		}
		return true
	}
	if p.cfg.OnUpdate != nil {
		p.cfg.OnUpdate(val)
	}
	if p.cfg.Terminal(val) {
		p.completed.Store(true)
		if p.cfg.OnComplete != nil {
			p.cfg.OnComplete(val)
		}
		return true
	}
	return false
}

func (p *Poller[T]) fetchAny(ctx context.Context) (any, error) {
	return p.cfg.Fetch(ctx)
}

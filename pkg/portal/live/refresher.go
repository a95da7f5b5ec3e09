package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"go.uber.org/atomic"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	MinDebounce     = 300 * time.Millisecond
	MaxDebounce     = time.Second
)

// ClampDebounce keeps a window inside the allowed range. Zero selects the
// default.
func ClampDebounce(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultDebounce
	case d < MinDebounce:
		return MinDebounce
	case d > MaxDebounce:
		return MaxDebounce
	}
	return d
}

// FetchFunc reloads a view from the server.
type FetchFunc func(ctx context.Context) error

// Refresher re-fetches one view when its quotations change. Bursts of
// events inside the debounce window collapse into a single fetch, and a
// steady stream still fetches at least once per MaxDebounce.
type Refresher struct {
	notifier ChangeNotifier
	scope    Scope
	events   []string
	fetch    FetchFunc
	window   time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending time.Time
	gen     uint64
	unsub   func()
	ctx     context.Context
	cancel  context.CancelFunc
	running bool

	// fetches never overlap
	fetchMu sync.Mutex

	signals  *atomic.Int64
	fetches  *atomic.Int64
	failures *atomic.Int64
}

type RefresherOption func(*Refresher)

func WithDebounce(d time.Duration) RefresherOption {
	return func(r *Refresher) { r.window = ClampDebounce(d) }
}

// WithEvents replaces the default quotation event set.
func WithEvents(events ...string) RefresherOption {
	return func(r *Refresher) { r.events = events }
}

func WithRefresherLogger(l *slog.Logger) RefresherOption {
	return func(r *Refresher) { r.logger = l }
}

func NewRefresher(n ChangeNotifier, scope Scope, fetch FetchFunc, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		notifier: n,
		scope:    scope,
		events:   quotation.ChangeEvents,
		fetch:    fetch,
		window:   DefaultDebounce,
		logger:   slog.Default(),
		signals:  atomic.NewInt64(0),
		fetches:  atomic.NewInt64(0),
		failures: atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start subscribes the view. Calling Start on a running refresher is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.unsub = r.notifier.Subscribe(r.scope, r.events, r.signal)
	r.running = true
}

// Stop releases every subscription and drops a pending fetch.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	r.unsub()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = time.Time{}
	r.cancel()
}

func (r *Refresher) signal(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.signals.Inc()
	if r.timer != nil {
		r.timer.Stop()
	}
	now := time.Now()
	if r.pending.IsZero() {
		r.pending = now
	}
	wait := r.window
	if left := MaxDebounce - now.Sub(r.pending); left < wait {
		wait = max(left, 0)
	}
	r.gen++
	ctx, gen := r.ctx, r.gen
	r.timer = time.AfterFunc(wait, func() { r.fire(ctx, gen, ev.Name) })
}

func (r *Refresher) fire(ctx context.Context, gen uint64, cause string) {
	r.mu.Lock()
	if gen != r.gen {
		// superseded by a later signal
		r.mu.Unlock()
		return
	}
	r.pending = time.Time{}
	r.timer = nil
	r.mu.Unlock()
	r.refresh(ctx, cause)
}

func (r *Refresher) refresh(ctx context.Context, cause string) {
	if ctx.Err() != nil {
		return
	}
	r.fetchMu.Lock()
	defer r.fetchMu.Unlock()

	r.fetches.Inc()
	if err := r.fetch(ctx); err != nil && ctx.Err() == nil {
		r.failures.Inc()
		r.logger.Warn("refresh failed", "scope", r.scope.QuotationID, "cause", cause, "error", err)
	}
}

func (r *Refresher) Window() time.Duration { return r.window }

// Signals counts events received; Fetches counts re-fetches run.
func (r *Refresher) Signals() int64  { return r.signals.Load() }
func (r *Refresher) Fetches() int64  { return r.fetches.Load() }
func (r *Refresher) Failures() int64 { return r.failures.Load() }

package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// manualNotifier delivers events only when the test emits them.
type manualNotifier struct {
	reg *registry
}

func newManualNotifier() *manualNotifier { return &manualNotifier{reg: newRegistry()} }

func (m *manualNotifier) Subscribe(scope Scope, events []string, fn func(Event)) func() {
	return m.reg.subscribe(scope, events, fn)
}

func (m *manualNotifier) Close() error { m.reg.clear(); return nil }

func (m *manualNotifier) emit(ev Event) int { return m.reg.dispatch(ev) }

func TestClampDebounce(t *testing.T) {
	assert.Equal(t, DefaultDebounce, ClampDebounce(0))
	assert.Equal(t, MinDebounce, ClampDebounce(10*time.Millisecond))
	assert.Equal(t, MaxDebounce, ClampDebounce(5*time.Second))
	assert.Equal(t, 700*time.Millisecond, ClampDebounce(700*time.Millisecond))
}

func TestRefresherCollapsesBursts(t *testing.T) {
	n := newManualNotifier()
	fetches := atomic.NewInt32(0)
	r := NewRefresher(n, Dashboard(), func(context.Context) error {
		fetches.Inc()
		return nil
	}, WithDebounce(MinDebounce))
	r.Start(context.Background())
	r.Start(context.Background())
	defer r.Stop()
	require.Equal(t, 1, n.reg.len())

	for i := 0; i < 5; i++ {
		n.emit(Event{Name: quotation.EventRaised, QuotationID: "q1"})
	}
	n.emit(Event{Name: quotation.EventDecision, QuotationID: "q2"})

	require.Eventually(t, func() bool { return fetches.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(MinDebounce + 100*time.Millisecond)
	assert.Equal(t, int32(1), fetches.Load())
	assert.Equal(t, int64(6), r.Signals())
	assert.Equal(t, int64(1), r.Fetches())
}

func TestRefresherFetchesDuringSteadyStream(t *testing.T) {
	n := newManualNotifier()
	fetches := atomic.NewInt32(0)
	r := NewRefresher(n, Dashboard(), func(context.Context) error {
		fetches.Inc()
		return nil
	}, WithDebounce(MinDebounce))
	r.Start(context.Background())
	defer r.Stop()

	// each event lands inside the previous quiet window
	start := time.Now()
	for time.Since(start) < 3*time.Second {
		n.emit(Event{Name: quotation.EventUpdated, QuotationID: "q1"})
		time.Sleep(150 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, fetches.Load(), int32(2))
	assert.Less(t, fetches.Load(), int32(r.Signals()))
}

func TestRefresherScopeAndEvents(t *testing.T) {
	n := newManualNotifier()
	r := NewRefresher(n, ForQuotation("q1"), func(context.Context) error { return nil })
	r.Start(context.Background())
	defer r.Stop()

	n.emit(Event{Name: quotation.EventRaised, QuotationID: "q2"})
	n.emit(Event{Name: "notification:new", NotificationID: "n1"})
	assert.Zero(t, r.Signals())

	n.emit(Event{Name: quotation.EventUserUpdated})
	n.emit(Event{Name: EventPoll})
	assert.Equal(t, int64(2), r.Signals())
}

func TestRefresherStopDropsPendingFetch(t *testing.T) {
	n := newManualNotifier()
	fetches := atomic.NewInt32(0)
	r := NewRefresher(n, Dashboard(), func(context.Context) error {
		fetches.Inc()
		return nil
	}, WithDebounce(MinDebounce))
	r.Start(context.Background())

	n.emit(Event{Name: quotation.EventCompleted, QuotationID: "q1"})
	r.Stop()
	r.Stop()
	assert.Equal(t, 0, n.reg.len())

	time.Sleep(MinDebounce + 150*time.Millisecond)
	assert.Zero(t, fetches.Load())
	assert.Zero(t, n.emit(Event{Name: quotation.EventCompleted}))
}

func TestRefresherCountsFailures(t *testing.T) {
	n := newManualNotifier()
	r := NewRefresher(n, Dashboard(), func(context.Context) error {
		return errors.New("offline")
	}, WithDebounce(MinDebounce), WithEvents("custom:event"))
	r.Start(context.Background())
	defer r.Stop()

	n.emit(Event{Name: quotation.EventRaised})
	assert.Zero(t, r.Signals())

	n.emit(Event{Name: "custom:event"})
	require.Eventually(t, func() bool { return r.Failures() == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, MinDebounce, r.Window())
}

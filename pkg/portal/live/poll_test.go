package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestPollingNotifierTicks(t *testing.T) {
	p := NewPollingNotifier(20 * time.Millisecond)
	defer p.Close()

	got := atomic.NewInt32(0)
	p.Subscribe(ForQuotation("q1"), []string{"quotation:raised"}, func(ev Event) {
		assert.Equal(t, EventPoll, ev.Name)
		got.Inc()
	})

	require.Eventually(t, func() bool { return got.Load() >= 2 }, time.Second, 10*time.Millisecond)
	assert.True(t, p.Active())
	assert.GreaterOrEqual(t, p.Ticks(), int64(2))
}

func TestPollingNotifierPause(t *testing.T) {
	p := NewPollingNotifier(10 * time.Millisecond)
	defer p.Close()

	p.Pause()
	assert.False(t, p.Active())
	// let a tick already past the active check land
	time.Sleep(20 * time.Millisecond)
	before := p.Ticks()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, before, p.Ticks())

	p.Resume()
	require.Eventually(t, func() bool { return p.Ticks() > before }, time.Second, 10*time.Millisecond)
}

func TestPollingNotifierDefaultsAndClose(t *testing.T) {
	p := NewPollingNotifier(0)
	assert.Equal(t, DefaultPollInterval, p.interval)
	p.Subscribe(Dashboard(), nil, func(Event) {})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 0, p.reg.len())
}

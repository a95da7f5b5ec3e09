package live

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

const DefaultPollInterval = 20 * time.Second

// PollingNotifier emits a synthetic poll event on every tick while active.
// It tolerates staleness up to one interval.
type PollingNotifier struct {
	interval time.Duration
	reg      *registry
	active   *atomic.Bool
	ticks    *atomic.Int64

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

var _ ChangeNotifier = (*PollingNotifier)(nil)

func NewPollingNotifier(interval time.Duration) *PollingNotifier {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &PollingNotifier{
		interval: interval,
		reg:      newRegistry(),
		active:   atomic.NewBool(true),
		ticks:    atomic.NewInt64(0),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *PollingNotifier) Subscribe(scope Scope, events []string, fn func(Event)) func() {
	return p.reg.subscribe(scope, events, fn)
}

// Pause suppresses ticks without stopping the timer.
func (p *PollingNotifier) Pause() { p.active.Store(false) }

func (p *PollingNotifier) Resume() { p.active.Store(true) }

func (p *PollingNotifier) Active() bool { return p.active.Load() }

// Ticks counts emitted poll events.
func (p *PollingNotifier) Ticks() int64 { return p.ticks.Load() }

func (p *PollingNotifier) Close() error {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
	p.reg.clear()
	return nil
}

func (p *PollingNotifier) loop() {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if !p.active.Load() {
				continue
			}
			p.ticks.Inc()
			p.reg.dispatch(Event{Name: EventPoll})
		}
	}
}

package live

import "errors"

// FallbackNotifier forwards socket events and polls only while the socket
// is down.
type FallbackNotifier struct {
	socket *SocketNotifier
	poll   *PollingNotifier
}

var _ ChangeNotifier = (*FallbackNotifier)(nil)

func NewFallbackNotifier(socket *SocketNotifier, poll *PollingNotifier) *FallbackNotifier {
	f := &FallbackNotifier{socket: socket, poll: poll}
	socket.Watch(func(up bool) {
		if up {
			poll.Pause()
		} else {
			poll.Resume()
		}
	})
	if socket.Connected() {
		poll.Pause()
	}
	return f
}

func (f *FallbackNotifier) Subscribe(scope Scope, events []string, fn func(Event)) func() {
	a := f.socket.Subscribe(scope, events, fn)
	b := f.poll.Subscribe(scope, events, fn)
	return func() {
		a()
		b()
	}
}

// Polling reports whether the fallback is currently in effect.
func (f *FallbackNotifier) Polling() bool { return f.poll.Active() }

func (f *FallbackNotifier) Close() error {
	return errors.Join(f.socket.Close(), f.poll.Close())
}

// Package live keeps client views in step with the server. Server events are
// invalidation signals only: subscribers re-fetch, they never read payloads.
package live

import (
	"sync"
)

// EventPoll is emitted by the polling fallback in place of a server event.
const EventPoll = "poll"

// Event mirrors the server's socket frame.
type Event struct {
	Name           string `json:"event"`
	QuotationID    string `json:"quotationId,omitempty"`
	NotificationID string `json:"notificationId,omitempty"`
}

// Scope narrows a subscription to one quotation. The zero Scope is the
// dashboard and sees every event.
type Scope struct {
	QuotationID string
}

func Dashboard() Scope { return Scope{} }

func ForQuotation(id string) Scope { return Scope{QuotationID: id} }

// Events without a quotation id reach every scope.
func (s Scope) matches(ev Event) bool {
	return s.QuotationID == "" || ev.QuotationID == "" || ev.QuotationID == s.QuotationID
}

// ChangeNotifier delivers named invalidation events. Socket and polling
// transports are interchangeable behind it.
type ChangeNotifier interface {
	// Subscribe registers fn for the named events in scope. The returned
	// func releases the subscription and is safe to call more than once.
	Subscribe(scope Scope, events []string, fn func(Event)) (unsubscribe func())
	Close() error
}

type subscription struct {
	scope  Scope
	events map[string]struct{}
	fn     func(Event)
}

func (s subscription) wants(ev Event) bool {
	if ev.Name != EventPoll {
		if _, ok := s.events[ev.Name]; !ok {
			return false
		}
	}
	return s.scope.matches(ev)
}

// registry is the subscriber table shared by the notifier implementations.
type registry struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscription
}

func newRegistry() *registry {
	return &registry{subs: map[int]subscription{}}
}

func (r *registry) subscribe(scope Scope, events []string, fn func(Event)) func() {
	set := make(map[string]struct{}, len(events))
	for _, e := range events {
		set[e] = struct{}{}
	}

	r.mu.Lock()
	id := r.next
	r.next++
	r.subs[id] = subscription{scope: scope, events: set, fn: fn}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

func (r *registry) dispatch(ev Event) int {
	r.mu.RLock()
	targets := make([]func(Event), 0, len(r.subs))
	for _, s := range r.subs {
		if s.wants(ev) {
			targets = append(targets, s.fn)
		}
	}
	r.mu.RUnlock()

	for _, fn := range targets {
		fn(ev)
	}
	return len(targets)
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *registry) clear() {
	r.mu.Lock()
	r.subs = map[int]subscription{}
	r.mu.Unlock()
}

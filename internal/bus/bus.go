// Package bus is the synchronization bus: one subscription surface fed by
// local mutations and by storage changes made in other tabs.
//
// Subscribers must treat every event the same way regardless of origin:
// re-read from the store and refresh. Events carry identifiers, not state.
package bus

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/evcraddock/rentapp/internal/kv"
	"github.com/evcraddock/rentapp/internal/metrics"
)

// Kind names an event.
type Kind string

const (
	PropertyCreated  Kind = "property.created"
	PropertyUpdated  Kind = "property.updated"
	PropertyDeleted  Kind = "property.deleted"
	BookmarksChanged Kind = "bookmarks.changed"
	StatusChanged    Kind = "status.changed"
	StatusConfirmed  Kind = "status.confirmed"
	NotesChanged     Kind = "notes.changed"

	// Legacy names still emitted alongside StatusChanged for older listeners.
	PropertyStatusChanged Kind = "propertyStatusChanged"
	StaffStatusUpdated    Kind = "staffStatusUpdated"

	// Storage is a change made to the store by another tab.
	Storage Kind = "storage"
)

// Event announces a mutation.
type Event struct {
	Kind       Kind   `json:"kind"`
	PropertyID string `json:"property_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Key        string `json:"key,omitempty"`
	SourceID   string `json:"source_id,omitempty"`
	Remote     bool   `json:"remote,omitempty"`
}

// Handler receives events.
type Handler func(Event)

// Publisher is the producing side of the bus.
type Publisher interface {
	Publish(Event)
}

// Bus dispatches events synchronously to subscribers in subscription order.
type Bus struct {
	mu      sync.Mutex
	next    int
	subs    map[int]subscription
	metrics *metrics.Metrics
}

type subscription struct {
	fn    Handler
	kinds map[Kind]bool
}

// New creates an empty bus. m may be nil.
func New(m *metrics.Metrics) *Bus {
	return &Bus{subs: make(map[int]subscription), metrics: m}
}

// Subscribe registers fn for every event. The returned func unsubscribes.
func (b *Bus) Subscribe(fn Handler) func() {
	return b.subscribe(subscription{fn: fn})
}

// SubscribeKinds registers fn for the listed kinds only.
func (b *Bus) SubscribeKinds(fn Handler, kinds ...Kind) func() {
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return b.subscribe(subscription{fn: fn, kinds: set})
}

func (b *Bus) subscribe(s subscription) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = s
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every matching subscriber before returning.
// A panicking subscriber is logged and does not stop delivery.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	targets := make([]Handler, 0, len(ids))
	for _, id := range ids {
		s := b.subs[id]
		if s.kinds == nil || s.kinds[e.Kind] {
			targets = append(targets, s.fn)
		}
	}
	b.mu.Unlock()

	b.metrics.Published(string(e.Kind))
	for _, fn := range targets {
		deliver(fn, e)
	}
}

func deliver(fn Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("bus subscriber panicked", "kind", e.Kind, "panic", r)
		}
	}()
	fn(e)
}

// Attach feeds storage changes from n into b as Storage events.
// The returned func detaches.
func Attach(b Publisher, n kv.Notifier) func() {
	return n.OnChange(func(c kv.Change) {
		b.Publish(Event{
			Kind:     Storage,
			Key:      c.Key,
			SourceID: c.SourceID,
			Remote:   true,
		})
	})
}

// Package kv provides the shared key-value store every tab reads and writes.
//
// A store is one origin. Any number of tabs may hold handles to the same
// origin; a write through one handle is immediately visible to all others,
// and other handles are told about it through their change listeners.
package kv

import (
	"errors"
	"sort"
	"sync"
)

// ErrQuotaExceeded is returned by Set when the origin has no room left.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// Store is synchronous get/set/remove over string values.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Change describes a mutation made by another tab.
type Change struct {
	Key      string `json:"key"`
	Value    string `json:"value,omitempty"`
	Removed  bool   `json:"removed,omitempty"`
	SourceID string `json:"source_id"`
}

// Notifier delivers changes written by other tabs of the same origin.
type Notifier interface {
	OnChange(fn func(Change)) (cancel func())
}

// listeners is a registry of change callbacks.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Change)
}

func (l *listeners) add(fn func(Change)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(Change))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.fns, id)
		})
	}
}

// fire calls every listener in registration order. Callbacks run without
// the registry lock held so they may read the store or unsubscribe.
func (l *listeners) fire(c Change) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

package kv

import (
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process origin. Tabs obtained from it share one map.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]string
	size  int
	quota int
	tabs  map[string]*Tab
}

// MemoryOption configures a Memory origin.
type MemoryOption func(*Memory)

// WithQuota limits the total bytes of keys and values. Zero means unlimited.
func WithQuota(bytes int) MemoryOption {
	return func(m *Memory) {
		m.quota = bytes
	}
}

// NewMemory creates an empty in-process origin.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		data: make(map[string]string),
		tabs: make(map[string]*Tab),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tab opens a new handle on the origin.
func (m *Memory) Tab() *Tab {
	t := &Tab{origin: m, id: uuid.NewString()}
	m.mu.Lock()
	m.tabs[t.id] = t
	m.mu.Unlock()
	return t
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Memory) get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// set writes the value and returns the tabs that must hear about it.
func (m *Memory) set(from, key, value string) ([]*Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, existed := m.data[key]
	if existed && old == value {
		return nil, nil
	}

	size := m.size + len(value)
	if existed {
		size -= len(old)
	} else {
		size += len(key)
	}
	if m.quota > 0 && size > m.quota {
		return nil, ErrQuotaExceeded
	}

	m.data[key] = value
	m.size = size
	return m.others(from), nil
}

func (m *Memory) remove(from, key string) []*Tab {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.data[key]
	if !ok {
		return nil
	}
	delete(m.data, key)
	m.size -= len(key) + len(old)
	return m.others(from)
}

func (m *Memory) others(from string) []*Tab {
	var out []*Tab
	for id, t := range m.tabs {
		if id != from {
			out = append(out, t)
		}
	}
	return out
}

func (m *Memory) detach(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tabs, id)
}

// Tab is one view's handle on a Memory origin.
type Tab struct {
	origin    *Memory
	id        string
	listeners listeners
}

var (
	_ Store    = (*Tab)(nil)
	_ Notifier = (*Tab)(nil)
)

// ID returns the tab identifier stamped on the changes it makes.
func (t *Tab) ID() string {
	return t.id
}

// Get returns the value for key.
func (t *Tab) Get(key string) (string, bool) {
	return t.origin.get(key)
}

// Set writes value and signals every other tab. Writing an identical value
// is not a change.
func (t *Tab) Set(key, value string) error {
	targets, err := t.origin.set(t.id, key, value)
	if err != nil {
		return err
	}
	for _, other := range targets {
		other.listeners.fire(Change{Key: key, Value: value, SourceID: t.id})
	}
	return nil
}

// Remove deletes key and signals every other tab.
func (t *Tab) Remove(key string) error {
	for _, other := range t.origin.remove(t.id, key) {
		other.listeners.fire(Change{Key: key, Removed: true, SourceID: t.id})
	}
	return nil
}

// OnChange registers fn for changes made by other tabs.
func (t *Tab) OnChange(fn func(Change)) func() {
	return t.listeners.add(fn)
}

// Close detaches the tab; it stops receiving changes.
func (t *Tab) Close() {
	t.origin.detach(t.id)
}

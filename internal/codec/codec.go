// Package codec converts domain values to and from the store's string form.
//
// Decoding fails open: a value that cannot be decoded is logged, removed from
// the store, and replaced by the caller's fallback so that one corrupted key
// degrades to "no data" instead of breaking every reader.
package codec

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evcraddock/rentapp/internal/kv"
	"github.com/evcraddock/rentapp/internal/metrics"
)

// Codec reads and writes JSON values in a store.
type Codec struct {
	store   kv.Store
	metrics *metrics.Metrics
}

// New creates a codec over store. m may be nil.
func New(store kv.Store, m *metrics.Metrics) *Codec {
	return &Codec{store: store, metrics: m}
}

// Raw returns the undecoded value for key.
func (c *Codec) Raw(key string) (string, bool) {
	return c.store.Get(key)
}

// Encode marshals v as JSON and writes it under key.
func (c *Codec) Encode(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := c.store.Set(key, string(data)); err != nil {
		c.metrics.WriteFailed(component(key))
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (c *Codec) Remove(key string) error {
	if err := c.store.Remove(key); err != nil {
		c.metrics.WriteFailed(component(key))
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Discard logs a malformed value under key and removes it.
func (c *Codec) Discard(key string, cause error) {
	slog.Warn("discarding malformed stored value", "key", key, "error", cause)
	c.metrics.Corrupted()
	if err := c.store.Remove(key); err != nil {
		slog.Warn("removing malformed value failed", "key", key, "error", err)
	}
}

// Decode reads key into a T. It returns fallback when the key is absent,
// holds JSON null, or cannot be decoded; in the last case the key is removed.
func Decode[T any](c *Codec, key string, fallback T) T {
	raw, ok := c.store.Get(key)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "null" {
		return fallback
	}

	var v T
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		c.Discard(key, err)
		return fallback
	}
	return v
}

// component names the owner of a key for write-failure metrics.
func component(key string) string {
	switch {
	case key == kv.PropertiesKey:
		return "property"
	case key == kv.PropertyStatusKey, key == kv.StatusConfirmationsKey:
		return "status"
	case strings.HasPrefix(key, "rentapp_bookmarks_"),
		strings.HasPrefix(key, "rentapp_recently_removed_bookmarks_"):
		return "bookmark"
	case strings.HasPrefix(key, "rentapp_notes_"),
		strings.HasPrefix(key, "rentapp_user_notes_"):
		return "note"
	default:
		return "other"
	}
}

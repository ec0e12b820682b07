// Package bookmark keeps each user's active and recently removed bookmarks.
//
// A bookmark is absent, active, or removed. Removal is a soft delete: the
// entry moves to the removed list with a timestamp, from where it can be
// restored or purged. Removed entries past the retention window are purged
// the next time the removed list is read.
package bookmark

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/codec"
	"github.com/evcraddock/rentapp/internal/kv"
)

// DefaultRetention is how long a removed bookmark can still be restored.
const DefaultRetention = 30 * 24 * time.Hour

// Removed is an entry in the removed list.
type Removed struct {
	PropertyID string    `json:"propertyId"`
	RemovedAt  time.Time `json:"removedAt"`
}

// Lifecycle drives bookmark transitions. It holds no state between calls.
type Lifecycle struct {
	codec     *codec.Codec
	clock     clock.Clock
	bus       bus.Publisher
	retention time.Duration
}

// NewLifecycle creates a lifecycle. A non-positive retention means
// DefaultRetention.
func NewLifecycle(c *codec.Codec, clk clock.Clock, pub bus.Publisher, retention time.Duration) *Lifecycle {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Lifecycle{codec: c, clock: clk, bus: pub, retention: retention}
}

func (l *Lifecycle) active(userID string) []string {
	return codec.Decode(l.codec, kv.BookmarksKey(userID), []string{})
}

func (l *Lifecycle) removed(userID string) []Removed {
	return codec.Decode(l.codec, kv.RemovedBookmarksKey(userID), []Removed{})
}

func (l *Lifecycle) saveActive(userID string, ids []string) error {
	return l.codec.Encode(kv.BookmarksKey(userID), ids)
}

func (l *Lifecycle) saveRemoved(userID string, entries []Removed) error {
	return l.codec.Encode(kv.RemovedBookmarksKey(userID), entries)
}

func (l *Lifecycle) changed(userID, propertyID string) {
	if userID == "" {
		userID = kv.GuestUser
	}
	l.bus.Publish(bus.Event{Kind: bus.BookmarksChanged, UserID: userID, PropertyID: propertyID})
}

// Add bookmarks propertyID. Adding an active bookmark is a no-op; adding
// one that sits in the removed list takes it out of that list.
func (l *Lifecycle) Add(userID, propertyID string) error {
	active := l.active(userID)
	removed := l.removed(userID)
	wasRemoved := indexRemoved(removed, propertyID) >= 0

	if slices.Contains(active, propertyID) && !wasRemoved {
		return nil
	}

	if !slices.Contains(active, propertyID) {
		if err := l.saveActive(userID, append(active, propertyID)); err != nil {
			return fmt.Errorf("adding bookmark: %w", err)
		}
	}
	if wasRemoved {
		if err := l.saveRemoved(userID, dropRemoved(removed, propertyID)); err != nil {
			return fmt.Errorf("adding bookmark: %w", err)
		}
	}

	l.changed(userID, propertyID)
	return nil
}

// Remove moves an active bookmark to the removed list stamped with the
// current time. Removing an already removed bookmark refreshes its stamp.
// It reports false when the bookmark is absent; a removed entry past the
// retention window counts as absent.
func (l *Lifecycle) Remove(userID, propertyID string) (bool, error) {
	now := l.clock.Now()
	active := l.active(userID)
	removed := l.live(userID, now)

	isActive := slices.Contains(active, propertyID)
	idx := indexRemoved(removed, propertyID)
	if !isActive && idx < 0 {
		return false, nil
	}

	if idx >= 0 {
		removed[idx].RemovedAt = now
	} else {
		removed = append(removed, Removed{PropertyID: propertyID, RemovedAt: now})
	}

	// Removed list is written before the active list. Removed hides entries
	// that are still active.
	if err := l.saveRemoved(userID, removed); err != nil {
		return false, fmt.Errorf("removing bookmark: %w", err)
	}
	if isActive {
		if err := l.saveActive(userID, dropID(active, propertyID)); err != nil {
			return false, fmt.Errorf("removing bookmark: %w", err)
		}
	}

	l.changed(userID, propertyID)
	return true, nil
}

// Restore moves a removed bookmark back to the active list. It reports
// false when the bookmark is not in the removed list or has expired there.
func (l *Lifecycle) Restore(userID, propertyID string) (bool, error) {
	removed := l.live(userID, l.clock.Now())
	if indexRemoved(removed, propertyID) < 0 {
		return false, nil
	}

	active := l.active(userID)
	if !slices.Contains(active, propertyID) {
		if err := l.saveActive(userID, append(active, propertyID)); err != nil {
			return false, fmt.Errorf("restoring bookmark: %w", err)
		}
	}
	if err := l.saveRemoved(userID, dropRemoved(removed, propertyID)); err != nil {
		return false, fmt.Errorf("restoring bookmark: %w", err)
	}

	l.changed(userID, propertyID)
	return true, nil
}

// Purge permanently deletes a removed bookmark. Active bookmarks are not
// touched. It reports false when the bookmark is not in the removed list.
func (l *Lifecycle) Purge(userID, propertyID string) (bool, error) {
	removed := l.live(userID, l.clock.Now())
	if indexRemoved(removed, propertyID) < 0 {
		return false, nil
	}
	if err := l.saveRemoved(userID, dropRemoved(removed, propertyID)); err != nil {
		return false, fmt.Errorf("purging bookmark: %w", err)
	}

	l.changed(userID, propertyID)
	return true, nil
}

// PurgeAll empties the removed list and returns how many entries it held.
func (l *Lifecycle) PurgeAll(userID string) (int, error) {
	removed := l.removed(userID)
	if len(removed) == 0 {
		return 0, nil
	}
	if err := l.codec.Remove(kv.RemovedBookmarksKey(userID)); err != nil {
		return 0, fmt.Errorf("purging bookmarks: %w", err)
	}

	l.changed(userID, "")
	return len(removed), nil
}

// Active returns the active bookmark ids in the order they were added.
func (l *Lifecycle) Active(userID string) []string {
	return l.active(userID)
}

// IsBookmarked reports whether propertyID is active for the user.
func (l *Lifecycle) IsBookmarked(userID, propertyID string) bool {
	return slices.Contains(l.active(userID), propertyID)
}

// Removed returns the removed list, newest removal first. Entries past the
// retention window are purged as part of the read. Entries that are also
// active are hidden.
func (l *Lifecycle) Removed(userID string) []Removed {
	kept := l.live(userID, l.clock.Now())

	active := l.active(userID)
	visible := make([]Removed, 0, len(kept))
	for _, r := range kept {
		if !slices.Contains(active, r.PropertyID) {
			visible = append(visible, r)
		}
	}
	slices.SortStableFunc(visible, func(a, b Removed) int {
		return b.RemovedAt.Compare(a.RemovedAt)
	})
	return visible
}

// live returns the removed list without entries past the retention window.
// Expired entries found on the way are purged from the store.
func (l *Lifecycle) live(userID string, now time.Time) []Removed {
	removed := l.removed(userID)
	kept := slices.DeleteFunc(slices.Clone(removed), func(r Removed) bool {
		return l.expired(r, now)
	})
	if len(kept) == len(removed) {
		return removed
	}

	if err := l.saveRemoved(userID, kept); err != nil {
		// Expired entries stay hidden; the purge is retried on the next read.
		slog.Warn("purging expired bookmarks failed", "user_id", userID, "error", err)
	} else {
		l.changed(userID, "")
	}
	return kept
}

func (l *Lifecycle) expired(r Removed, now time.Time) bool {
	return now.Sub(r.RemovedAt) >= l.retention
}

// DaysRemaining returns whole days left before r is purged, rounded up.
func (l *Lifecycle) DaysRemaining(r Removed) int {
	left := r.RemovedAt.Add(l.retention).Sub(l.clock.Now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

func indexRemoved(entries []Removed, propertyID string) int {
	return slices.IndexFunc(entries, func(r Removed) bool {
		return r.PropertyID == propertyID
	})
}

func dropRemoved(entries []Removed, propertyID string) []Removed {
	return slices.DeleteFunc(entries, func(r Removed) bool {
		return r.PropertyID == propertyID
	})
}

func dropID(ids []string, propertyID string) []string {
	return slices.DeleteFunc(ids, func(id string) bool {
		return id == propertyID
	})
}

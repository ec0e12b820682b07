package property

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/rentapp/internal/auth"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/codec"
	"github.com/evcraddock/rentapp/internal/kv"
)

var (
	// ErrOwnerRequired is returned by Create for a record without an owner.
	ErrOwnerRequired = errors.New("property owner is required")
	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("property id already exists")
)

// Repository provides owner-scoped CRUD over property records stored as one
// list under kv.PropertiesKey. It re-reads the store on every call.
type Repository struct {
	codec *codec.Codec
	clock clock.Clock

	mu    sync.Mutex
	hooks []Hook
}

// NewRepository creates a property repository.
func NewRepository(c *codec.Codec, clk clock.Clock, hooks ...Hook) *Repository {
	return &Repository{codec: c, clock: clk, hooks: hooks}
}

// Use appends post-mutation hooks.
func (r *Repository) Use(hooks ...Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hooks...)
}

func (r *Repository) load() []*Record {
	return codec.Decode(r.codec, kv.PropertiesKey, []*Record{})
}

func (r *Repository) save(records []*Record) error {
	return r.codec.Encode(kv.PropertiesKey, records)
}

func (r *Repository) after(m Mutation) {
	r.mu.Lock()
	hooks := append([]Hook(nil), r.hooks...)
	r.mu.Unlock()

	for _, h := range hooks {
		h(m)
	}
}

// Create stores a new record. CreatedAt and UpdatedAt are set to now; an
// empty ID is replaced by a fresh UUID.
func (r *Repository) Create(rec *Record) (*Record, error) {
	if rec.OwnerID == "" {
		return nil, ErrOwnerRequired
	}

	records := r.load()
	saved := rec.clone()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	for _, existing := range records {
		if existing.ID == saved.ID {
			return nil, fmt.Errorf("creating property %s: %w", saved.ID, ErrDuplicateID)
		}
	}
	if saved.Status == "" {
		saved.Status = StatusAvailable
	}
	now := r.clock.Now()
	saved.CreatedAt = now
	saved.UpdatedAt = now

	if err := r.save(append(records, saved)); err != nil {
		slog.Error("saving new property failed", "property_id", saved.ID, "error", err)
		return nil, fmt.Errorf("saving property: %w", err)
	}

	r.after(Mutation{Op: OpCreated, PropertyID: saved.ID, OwnerID: saved.OwnerID})
	return saved.clone(), nil
}

// GetByID returns the record with id. When requestingOwnerID is not empty
// and differs from the record's owner, the record is reported as not found.
func (r *Repository) GetByID(id, requestingOwnerID string) (*Record, bool) {
	for _, rec := range r.load() {
		if rec.ID != id {
			continue
		}
		if requestingOwnerID != "" && rec.OwnerID != requestingOwnerID {
			return nil, false
		}
		return rec, true
	}
	return nil, false
}

// canModify reports whether userID may change rec. Ownerless records are
// open to anyone.
func canModify(rec *Record, userID string) bool {
	return rec.OwnerID == "" || rec.OwnerID == userID
}

// Update merges patch over the record. It returns false when the record
// does not exist, the requester is neither the owner nor an admin, or the
// write fails. ID, OwnerID and CreatedAt never change; UpdatedAt always
// moves forward.
func (r *Repository) Update(id string, patch Patch, userID string, role auth.Role) bool {
	records := r.load()
	idx := indexOf(records, id)
	if idx < 0 {
		slog.Debug("update of missing property", "property_id", id)
		return false
	}

	rec := records[idx]
	if role != auth.RoleAdmin && !canModify(rec, userID) {
		slog.Info("property update denied", "property_id", id, "user_id", userID, "role", role)
		return false
	}

	updated := rec.clone()
	patch.apply(updated)
	updated.ID = rec.ID
	updated.OwnerID = rec.OwnerID
	updated.CreatedAt = rec.CreatedAt
	updated.UpdatedAt = r.nextUpdate(rec.LastModified())
	records[idx] = updated

	if err := r.save(records); err != nil {
		slog.Error("saving property update failed", "property_id", id, "error", err)
		return false
	}

	r.after(Mutation{Op: OpUpdated, PropertyID: id, OwnerID: rec.OwnerID})
	return true
}

// nextUpdate returns now, or a moment past prev when the clock has not
// moved since the last write.
func (r *Repository) nextUpdate(prev time.Time) time.Time {
	now := r.clock.Now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}

// Delete removes the record. Only its owner may delete it; there is no
// admin bypass here.
func (r *Repository) Delete(id, userID string) bool {
	records := r.load()
	idx := indexOf(records, id)
	if idx < 0 {
		return false
	}

	rec := records[idx]
	if !canModify(rec, userID) {
		slog.Info("property delete denied", "property_id", id, "user_id", userID)
		return false
	}

	records = append(records[:idx], records[idx+1:]...)
	if err := r.save(records); err != nil {
		slog.Error("saving property delete failed", "property_id", id, "error", err)
		return false
	}

	r.after(Mutation{Op: OpDeleted, PropertyID: id, OwnerID: rec.OwnerID})
	return true
}

// ListByOwner returns the owner's records, most recently modified first.
func (r *Repository) ListByOwner(ownerID string) []*Record {
	var out []*Record
	for _, rec := range r.load() {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	SortByModified(out)
	return out
}

// List returns every record, most recently modified first.
func (r *Repository) List() []*Record {
	records := r.load()
	SortByModified(records)
	return records
}

// SortByModified orders records by LastModified, newest first.
func SortByModified(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastModified().After(records[j].LastModified())
	})
}

func indexOf(records []*Record, id string) int {
	for i, rec := range records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

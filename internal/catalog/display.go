// Package catalog merges the static seed catalog with user records into the
// display list every read path uses, behind a short-lived cache.
package catalog

import (
	"time"

	"github.com/evcraddock/rentapp/internal/property"
)

// Source says where a display property came from.
type Source string

const (
	SourceSeed Source = "seed"
	SourceUser Source = "user"
)

// DisplayProperty is the read-only projection of a listing.
type DisplayProperty struct {
	ID          string                 `json:"id" yaml:"id"`
	OwnerID     string                 `json:"ownerId,omitempty" yaml:"-"`
	Title       string                 `json:"title" yaml:"title"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Price       *int64                 `json:"price,omitempty" yaml:"price,omitempty"`
	Rooms       *int64                 `json:"rooms,omitempty" yaml:"rooms,omitempty"`
	Area        *float64               `json:"area,omitempty" yaml:"area,omitempty"`
	Location    property.Location      `json:"location" yaml:"location"`
	Images      []string               `json:"images,omitempty" yaml:"images,omitempty"`
	Status      property.ListingStatus `json:"status" yaml:"status"`
	CreatedAt   time.Time              `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time              `json:"updatedAt,omitzero" yaml:"updated_at,omitempty"`
	Source      Source                 `json:"source" yaml:"-"`
}

// LastModified returns UpdatedAt, or CreatedAt when UpdatedAt is unset.
func (d DisplayProperty) LastModified() time.Time {
	if d.UpdatedAt.IsZero() {
		return d.CreatedAt
	}
	return d.UpdatedAt
}

// FromRecord projects a repository record.
func FromRecord(r *property.Record) DisplayProperty {
	status := r.Status
	if status == "" {
		status = property.StatusAvailable
	}
	return DisplayProperty{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Rooms:       r.Rooms,
		Area:        r.Area,
		Location:    r.Location,
		Images:      r.Images,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Source:      SourceUser,
	}
}

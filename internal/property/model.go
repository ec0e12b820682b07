// Package property provides the property record model and its repository.
package property

import (
	"time"
)

// ListingStatus is whether a listed property can currently be rented.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusOccupied  ListingStatus = "occupied"
)

// ValidListingStatus returns true if s is a known listing status.
func ValidListingStatus(s string) bool {
	switch ListingStatus(s) {
	case StatusAvailable, StatusOccupied:
		return true
	}
	return false
}

// Location describes where a property is.
type Location struct {
	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	District string `json:"district,omitempty" yaml:"district,omitempty"`
	Address  string `json:"address,omitempty" yaml:"address,omitempty"`
}

// Record is a user-submitted property listing.
type Record struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"ownerId,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Price       *int64        `json:"price,omitempty"`
	Rooms       *int64        `json:"rooms,omitempty"`
	Area        *float64      `json:"area,omitempty"`
	Location    Location      `json:"location"`
	Images      []string      `json:"images,omitempty"`
	Status      ListingStatus `json:"status,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt,omitzero"`
}

// LastModified returns UpdatedAt, or CreatedAt for records that predate it.
func (r *Record) LastModified() time.Time {
	if r.UpdatedAt.IsZero() {
		return r.CreatedAt
	}
	return r.UpdatedAt
}

// clone returns a deep copy so callers never alias stored slices.
func (r *Record) clone() *Record {
	c := *r
	if r.Price != nil {
		v := *r.Price
		c.Price = &v
	}
	if r.Rooms != nil {
		v := *r.Rooms
		c.Rooms = &v
	}
	if r.Area != nil {
		v := *r.Area
		c.Area = &v
	}
	if r.Images != nil {
		c.Images = append([]string(nil), r.Images...)
	}
	return &c
}

// Patch lists fields to change. Nil fields are left alone.
type Patch struct {
	Title       *string
	Description *string
	Price       *int64
	Rooms       *int64
	Area        *float64
	Location    *Location
	Images      []string
	Status      *ListingStatus
}

// apply merges p over r. Identity and timestamps are not patchable.
func (p Patch) apply(r *Record) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Price != nil {
		v := *p.Price
		r.Price = &v
	}
	if p.Rooms != nil {
		v := *p.Rooms
		r.Rooms = &v
	}
	if p.Area != nil {
		v := *p.Area
		r.Area = &v
	}
	if p.Location != nil {
		r.Location = *p.Location
	}
	if p.Images != nil {
		r.Images = append([]string(nil), p.Images...)
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
}

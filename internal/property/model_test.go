package property

import (
	"testing"
	"time"
)

func TestValidListingStatus(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"available", true},
		{"occupied", true},
		{"sold", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidListingStatus(tt.in); got != tt.want {
			t.Errorf("ValidListingStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLastModifiedFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r := &Record{CreatedAt: created}
	if got := r.LastModified(); !got.Equal(created) {
		t.Errorf("got %v, want %v", got, created)
	}

	updated := created.Add(time.Hour)
	r.UpdatedAt = updated
	if got := r.LastModified(); !got.Equal(updated) {
		t.Errorf("got %v, want %v", got, updated)
	}
}

func TestPatchApply(t *testing.T) {
	price := int64(100)
	r := &Record{ID: "p1", OwnerID: "u1", Title: "Old", Price: &price, Images: []string{"a.jpg"}}

	title := "New"
	newPrice := int64(200)
	occupied := StatusOccupied
	Patch{
		Title:    &title,
		Price:    &newPrice,
		Status:   &occupied,
		Location: &Location{City: "Almaty"},
	}.apply(r)

	if r.Title != "New" {
		t.Errorf("title = %q", r.Title)
	}
	if r.Price == nil || *r.Price != 200 {
		t.Errorf("price = %v", r.Price)
	}
	if r.Status != StatusOccupied {
		t.Errorf("status = %q", r.Status)
	}
	if r.Location.City != "Almaty" {
		t.Errorf("city = %q", r.Location.City)
	}
	if len(r.Images) != 1 {
		t.Errorf("nil images patch must leave images alone, got %v", r.Images)
	}
	if price != 100 {
		t.Error("patch must not write through the old price pointer")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	price := int64(1)
	r := &Record{Price: &price, Images: []string{"a"}}
	c := r.clone()

	*c.Price = 2
	c.Images[0] = "b"

	if *r.Price != 1 || r.Images[0] != "a" {
		t.Error("clone shares memory with the original")
	}
}

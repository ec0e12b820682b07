package kv

import (
	"errors"
	"testing"
)

func TestMemorySharedBetweenTabs(t *testing.T) {
	origin := NewMemory()
	a, b := origin.Tab(), origin.Tab()

	if err := a.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := b.Get("k")
	if !ok || got != "v" {
		t.Errorf("tab b get = %q, %v; want %q, true", got, ok, "v")
	}
}

func TestMemoryChangeFiresOnOtherTabsOnly(t *testing.T) {
	origin := NewMemory()
	a, b, c := origin.Tab(), origin.Tab(), origin.Tab()

	var onA, onB, onC []Change
	a.OnChange(func(ch Change) { onA = append(onA, ch) })
	b.OnChange(func(ch Change) { onB = append(onB, ch) })
	c.OnChange(func(ch Change) { onC = append(onC, ch) })

	if err := a.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if len(onA) != 0 {
		t.Errorf("writer tab got %d changes, want 0", len(onA))
	}
	if len(onB) != 1 || len(onC) != 1 {
		t.Fatalf("other tabs got %d and %d changes, want 1 each", len(onB), len(onC))
	}
	if onB[0].Key != "k" || onB[0].Value != "v" || onB[0].SourceID != a.ID() {
		t.Errorf("change = %+v", onB[0])
	}
}

func TestMemoryIdenticalWriteIsNotAChange(t *testing.T) {
	origin := NewMemory()
	a, b := origin.Tab(), origin.Tab()

	count := 0
	b.OnChange(func(Change) { count++ })

	for i := 0; i < 3; i++ {
		if err := a.Set("k", "same"); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if count != 1 {
		t.Errorf("got %d changes, want 1", count)
	}
}

func TestMemoryRemove(t *testing.T) {
	origin := NewMemory()
	a, b := origin.Tab(), origin.Tab()

	var changes []Change
	b.OnChange(func(ch Change) { changes = append(changes, ch) })

	if err := a.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := a.Remove("k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := a.Remove("missing"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}

	if _, ok := b.Get("k"); ok {
		t.Error("expected key to be gone")
	}
	if len(changes) != 2 || !changes[1].Removed {
		t.Errorf("changes = %+v, want set then removed", changes)
	}
	if origin.Len() != 0 {
		t.Errorf("len = %d, want 0", origin.Len())
	}
}

func TestMemoryQuota(t *testing.T) {
	origin := NewMemory(WithQuota(10))
	tab := origin.Tab()

	if err := tab.Set("ab", "cdef"); err != nil {
		t.Fatalf("set within quota: %v", err)
	}

	err := tab.Set("gh", "ijklmnop")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if _, ok := tab.Get("gh"); ok {
		t.Error("rejected write must not be stored")
	}

	// Replacing a value only counts the difference.
	if err := tab.Set("ab", "cdefghij"); err != nil {
		t.Errorf("replace within quota: %v", err)
	}
}

func TestMemoryUnsubscribeAndClose(t *testing.T) {
	origin := NewMemory()
	a, b := origin.Tab(), origin.Tab()

	count := 0
	cancel := b.OnChange(func(Change) { count++ })

	if err := a.Set("k", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	cancel()
	cancel()
	if err := a.Set("k", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if count != 1 {
		t.Errorf("after cancel got %d changes, want 1", count)
	}

	b.OnChange(func(Change) { count++ })
	b.Close()
	if err := a.Set("k", "3"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if count != 1 {
		t.Errorf("closed tab got a change")
	}
}

func TestListenerCanReadStore(t *testing.T) {
	origin := NewMemory()
	a, b := origin.Tab(), origin.Tab()

	var seen string
	b.OnChange(func(ch Change) {
		seen, _ = b.Get(ch.Key)
	})

	if err := a.Set("k", "fresh"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if seen != "fresh" {
		t.Errorf("listener read %q, want %q", seen, "fresh")
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{BookmarksKey("u1"), "rentapp_bookmarks_u1"},
		{BookmarksKey(""), "rentapp_bookmarks_guest"},
		{RemovedBookmarksKey(""), "rentapp_recently_removed_bookmarks_guest"},
		{StaffNotesKey("p1"), "rentapp_notes_staff_p1"},
		{UserStaffNotesKey("u1"), "rentapp_user_notes_staff_u1"},
		{PrivateNotesKey("u1", "p1"), "rentapp_notes_u1_p1"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}
}

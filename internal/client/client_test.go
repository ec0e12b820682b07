package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evcraddock/rentapp/internal/app"
	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/kv"
	"github.com/evcraddock/rentapp/internal/property"
	"github.com/evcraddock/rentapp/internal/web"
)

func TestListProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/properties" {
			t.Errorf("path = %q, want /api/properties", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]catalog.DisplayProperty{{ID: "p1", Title: "Loft"}}); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	props, err := c.ListProperties(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(props) != 1 || props[0].Title != "Loft" {
		t.Errorf("props = %+v", props)
	}
}

func TestGetPropertyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"property not found"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetProperty(context.Background(), "nope")
	if err == nil || err.Error() != "property not found" {
		t.Errorf("err = %v, want property not found", err)
	}
}

func TestServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).Health(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Internal Server Error") {
		t.Errorf("err = %v", err)
	}
}

func TestReadEvents(t *testing.T) {
	stream := ": connected\n\n" +
		"event: status.changed\ndata: {\"kind\":\"status.changed\",\"property_id\":\"p1\"}\n\n" +
		"event: broken\ndata: {not json\n\n" +
		"event: storage\ndata: {\"kind\":\"storage\",\"key\":\"rentapp_properties\",\"remote\":true}\n\n"

	var got []bus.Event
	if err := readEvents(strings.NewReader(stream), func(e bus.Event) { got = append(got, e) }); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Kind != bus.StatusChanged || got[0].PropertyID != "p1" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Kind != bus.Storage || !got[1].Remote {
		t.Errorf("second = %+v", got[1])
	}
}

func TestAgainstServer(t *testing.T) {
	tab := app.New(kv.NewMemory().Tab(), app.Options{Clock: clock.NewManual(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))})
	defer tab.Close()
	srv := httptest.NewServer(web.NewServer(tab))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	received := make(chan bus.Event, 64)
	done := make(chan error, 1)
	go func() {
		done <- c.Events(ctx, func(e bus.Event) {
			select {
			case received <- e:
			default:
			}
		})
	}()

	// The stream subscribes asynchronously; publish until it is listening.
waiting:
	for {
		tab.Bus.Publish(bus.Event{Kind: bus.BookmarksChanged, UserID: "ping"})
		select {
		case <-received:
			break waiting
		case <-time.After(20 * time.Millisecond):
		case <-ctx.Done():
			t.Fatal("timed out waiting for stream")
		}
	}

	created, err := tab.Properties.Create(&property.Record{OwnerID: "u1", Title: "Loft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for {
		select {
		case e := <-received:
			if e.Kind != bus.PropertyCreated {
				continue
			}
			if e.PropertyID != created.ID {
				t.Errorf("event property = %q, want %q", e.PropertyID, created.ID)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for property.created")
		}
		break
	}

	props, err := c.ListProperties(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(props) != 1 || props[0].ID != created.ID {
		t.Errorf("props = %+v", props)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("events after cancel: %v", err)
	}
}

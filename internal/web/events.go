package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evcraddock/rentapp/internal/bus"
)

// eventBuffer bounds how far a slow client may lag before events are dropped.
const eventBuffer = 64

// handleEvents streams bus events as Server-Sent Events until the client
// goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		apiError(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	events := make(chan bus.Event, eventBuffer)
	unsubscribe := s.tab.Bus.Subscribe(func(e bus.Event) {
		select {
		case events <- e:
		default:
			slog.Warn("event stream lagging, dropping event", "kind", e.Kind)
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-events:
			if err := writeEvent(w, e); err != nil {
				slog.Debug("event stream closed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, e bus.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
	return err
}

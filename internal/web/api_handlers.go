package web

import (
	"net/http"

	"github.com/evcraddock/rentapp/internal/auth"
	"github.com/evcraddock/rentapp/internal/bookmark"
	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/status"
)

// propertyDetail is one catalog entry with its workflow state.
type propertyDetail struct {
	catalog.DisplayProperty
	WorkflowStatus status.Status         `json:"workflowStatus"`
	Confirmations  []status.Confirmation `json:"confirmations,omitempty"`
}

// handleListProperties returns the merged catalog, newest first.
func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props := s.tab.Catalog.GetAll()
	if props == nil {
		props = []catalog.DisplayProperty{}
	}
	apiJSON(w, props, http.StatusOK)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.tab.Catalog.GetByID(id)
	if !ok {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}

	apiJSON(w, propertyDetail{
		DisplayProperty: p,
		WorkflowStatus:  s.tab.Status.Get(id),
		Confirmations:   s.tab.Status.Confirmations(id),
	}, http.StatusOK)
}

// bookmarkList is the caller's bookmark set.
type bookmarkList struct {
	Active  []string           `json:"active"`
	Removed []bookmark.Removed `json:"removed"`
}

// handleBookmarks returns the caller's bookmarks. Guests share one set.
func (s *Server) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	who := auth.FromContext(r.Context())
	list := bookmarkList{
		Active:  s.tab.Bookmarks.Active(who.UserID),
		Removed: s.tab.Bookmarks.Removed(who.UserID),
	}
	if list.Active == nil {
		list.Active = []string{}
	}
	if list.Removed == nil {
		list.Removed = []bookmark.Removed{}
	}
	apiJSON(w, list, http.StatusOK)
}

// Package staff derives the per-staff views over the shared status map.
package staff

import (
	"github.com/evcraddock/rentapp/internal/kv"
	"github.com/evcraddock/rentapp/internal/note"
	"github.com/evcraddock/rentapp/internal/status"
)

// Views filters global statuses for one staff member.
type Views struct {
	status *status.Engine
	notes  *note.Ledger
}

// NewViews creates staff views.
func NewViews(s *status.Engine, n *note.Ledger) *Views {
	return &Views{status: s, notes: n}
}

// MyFollowUps returns follow-up properties that me put in follow-up, plus
// follow-up properties where me wrote a shared note, whoever set the status.
// Notes are attributed by editor name.
func (v *Views) MyFollowUps(me status.Actor) []string {
	all := v.status.All()
	var ids []string
	for _, id := range v.status.InState(status.FollowUp) {
		if all[id].UpdatedBy.ID == me.ID {
			ids = append(ids, id)
			continue
		}
		if me.Name != "" && note.EditedBy(v.notes.Load(kv.StaffNotesKey(id)), me.Name) {
			ids = append(ids, id)
		}
	}
	return ids
}

// MyClosed returns the properties me closed.
func (v *Views) MyClosed(me status.Actor) []string {
	all := v.status.All()
	var ids []string
	for _, id := range v.status.InState(status.Closed) {
		if all[id].UpdatedBy.ID == me.ID {
			ids = append(ids, id)
		}
	}
	return ids
}

// Counts is the number of properties in each state.
type Counts struct {
	Default  int `json:"default"`
	FollowUp int `json:"followup"`
	Closed   int `json:"closed"`
}

// Counts tallies the states of the given properties. Properties without a
// status count as default.
func (v *Views) Counts(propertyIDs []string) Counts {
	all := v.status.All()
	var c Counts
	for _, id := range propertyIDs {
		switch all[id].State {
		case status.FollowUp:
			c.FollowUp++
		case status.Closed:
			c.Closed++
		default:
			c.Default++
		}
	}
	return c
}

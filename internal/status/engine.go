// Package status is the shared staff workflow state per property.
//
// There is one status record per property for everybody. Any state may move
// to any state; the last writer wins and takes the attribution.
package status

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/codec"
	"github.com/evcraddock/rentapp/internal/kv"
)

// State is a workflow state.
type State string

const (
	Default  State = "default"
	FollowUp State = "followup"
	Closed   State = "closed"
)

// ErrUnknownState is returned for state names outside the workflow.
var ErrUnknownState = errors.New("unknown status state")

// ParseState maps a name to a State. "follow-up" is accepted for FollowUp.
func ParseState(s string) (State, error) {
	switch st := State(strings.ToLower(strings.TrimSpace(s))); st {
	case Default, FollowUp, Closed:
		return st, nil
	case "follow-up", "follow_up":
		return FollowUp, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownState, s)
}

// Actor is the staff member behind a change.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Status is the record for one property. A zero UpdatedAt means the
// property was never touched.
type Status struct {
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	UpdatedBy Actor     `json:"updatedBy"`
}

// Records persists the map of property id to status. It is the only seam
// between the engine and storage.
type Records interface {
	Load() map[string]Status
	Save(map[string]Status) error
}

type kvRecords struct {
	codec *codec.Codec
}

// KVRecords keeps statuses under kv.PropertyStatusKey.
func KVRecords(c *codec.Codec) Records {
	return kvRecords{codec: c}
}

func (r kvRecords) Load() map[string]Status {
	m := codec.Decode(r.codec, kv.PropertyStatusKey, map[string]Status{})
	if m == nil {
		m = map[string]Status{}
	}
	return m
}

func (r kvRecords) Save(m map[string]Status) error {
	return r.codec.Encode(kv.PropertyStatusKey, m)
}

// Engine applies status transitions.
type Engine struct {
	records Records
	clock   clock.Clock
	bus     bus.Publisher
	confirm *confirmations
}

// NewEngine creates an engine. c backs the status confirmations.
func NewEngine(records Records, c *codec.Codec, clk clock.Clock, pub bus.Publisher) *Engine {
	return &Engine{
		records: records,
		clock:   clk,
		bus:     pub,
		confirm: &confirmations{codec: c},
	}
}

// Set moves the property to target, whatever its current state, and
// attributes the change to actor.
func (e *Engine) Set(propertyID string, target State, actor Actor) (Status, error) {
	if _, err := ParseState(string(target)); err != nil {
		return Status{}, err
	}

	all := e.records.Load()
	st := Status{State: target, UpdatedAt: e.clock.Now(), UpdatedBy: actor}
	all[propertyID] = st
	if err := e.records.Save(all); err != nil {
		return Status{}, fmt.Errorf("saving status for %s: %w", propertyID, err)
	}

	for _, kind := range []bus.Kind{bus.StatusChanged, bus.PropertyStatusChanged, bus.StaffStatusUpdated} {
		e.bus.Publish(bus.Event{Kind: kind, PropertyID: propertyID, UserID: actor.ID})
	}
	return st, nil
}

// Get returns the property's status; untouched properties are Default.
func (e *Engine) Get(propertyID string) Status {
	if st, ok := e.records.Load()[propertyID]; ok && st.State != "" {
		return st
	}
	return Status{State: Default}
}

// All returns every touched property's status.
func (e *Engine) All() map[string]Status {
	return e.records.Load()
}

// InState returns the ids of properties currently in state, sorted.
// Default only lists properties explicitly set back to default.
func (e *Engine) InState(state State) []string {
	var ids []string
	for id, st := range e.records.Load() {
		if st.State == state {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

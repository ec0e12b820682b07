package status

import (
	"fmt"
	"slices"
	"time"

	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/codec"
	"github.com/evcraddock/rentapp/internal/kv"
)

// Confirmation records a staff member vouching that a listing's
// availability is still accurate.
type Confirmation struct {
	PropertyID  string    `json:"propertyId"`
	StaffID     string    `json:"staffId"`
	StaffName   string    `json:"staffName"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

type confirmations struct {
	codec *codec.Codec
}

func (c *confirmations) load() []Confirmation {
	return codec.Decode(c.codec, kv.StatusConfirmationsKey, []Confirmation{})
}

// Confirm records that actor checked the property now. Each staff member
// holds at most one confirmation per property; the newest replaces it.
func (e *Engine) Confirm(propertyID string, actor Actor) (Confirmation, error) {
	list := e.confirm.load()
	list = slices.DeleteFunc(list, func(c Confirmation) bool {
		return c.PropertyID == propertyID && c.StaffID == actor.ID
	})

	conf := Confirmation{
		PropertyID:  propertyID,
		StaffID:     actor.ID,
		StaffName:   actor.Name,
		ConfirmedAt: e.clock.Now(),
	}
	if err := e.confirm.codec.Encode(kv.StatusConfirmationsKey, append(list, conf)); err != nil {
		return Confirmation{}, fmt.Errorf("saving confirmation for %s: %w", propertyID, err)
	}

	e.bus.Publish(bus.Event{Kind: bus.StatusConfirmed, PropertyID: propertyID, UserID: actor.ID})
	return conf, nil
}

// Confirmations returns the property's confirmations, newest first.
func (e *Engine) Confirmations(propertyID string) []Confirmation {
	var out []Confirmation
	for _, c := range e.confirm.load() {
		if c.PropertyID == propertyID {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b Confirmation) int {
		return b.ConfirmedAt.Compare(a.ConfirmedAt)
	})
	return out
}

// LastConfirmation returns the newest confirmation for the property.
func (e *Engine) LastConfirmation(propertyID string) (Confirmation, bool) {
	list := e.Confirmations(propertyID)
	if len(list) == 0 {
		return Confirmation{}, false
	}
	return list[0], true
}

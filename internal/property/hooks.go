package property

import (
	"github.com/evcraddock/rentapp/internal/bus"
)

// Op is the kind of mutation a repository performed.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Mutation describes a successful repository write.
type Mutation struct {
	Op         Op
	PropertyID string
	OwnerID    string
}

// Hook runs after every successful mutation, before the mutating call
// returns. Hooks run in registration order.
type Hook func(Mutation)

// Invalidator drops derived state.
type Invalidator interface {
	Invalidate()
}

// InvalidateHook clears a derived cache.
func InvalidateHook(inv Invalidator) Hook {
	return func(Mutation) {
		inv.Invalidate()
	}
}

// PublishHook announces the mutation on the bus.
func PublishHook(p bus.Publisher) Hook {
	return func(m Mutation) {
		p.Publish(bus.Event{
			Kind:       eventKind(m.Op),
			PropertyID: m.PropertyID,
			UserID:     m.OwnerID,
		})
	}
}

func eventKind(op Op) bus.Kind {
	switch op {
	case OpCreated:
		return bus.PropertyCreated
	case OpDeleted:
		return bus.PropertyDeleted
	default:
		return bus.PropertyUpdated
	}
}

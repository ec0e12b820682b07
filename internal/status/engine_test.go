package status

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/clock"
	"github.com/evcraddock/rentapp/internal/codec"
	"github.com/evcraddock/rentapp/internal/kv"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

var (
	staffA = Actor{ID: "staff-a", Name: "Aigerim"}
	staffB = Actor{ID: "staff-b", Name: "Bolat"}
)

type fixture struct {
	engine *Engine
	clock  *clock.Manual
	store  *kv.Tab
	events []bus.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: clock.NewManual(t0), store: kv.NewMemory().Tab()}
	b := bus.New(nil)
	b.Subscribe(func(e bus.Event) { f.events = append(f.events, e) })
	c := codec.New(f.store, nil)
	f.engine = NewEngine(KVRecords(c), c, f.clock, b)
	return f
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in   string
		want State
	}{
		{"default", Default},
		{"followup", FollowUp},
		{"Follow-Up", FollowUp},
		{"follow_up", FollowUp},
		{" closed ", Closed},
	}
	for _, tt := range tests {
		got, err := ParseState(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseState("archived")
	assert.True(t, errors.Is(err, ErrUnknownState))
}

func TestUntouchedIsDefault(t *testing.T) {
	f := newFixture(t)

	st := f.engine.Get("p1")
	assert.Equal(t, Default, st.State)
	assert.True(t, st.UpdatedAt.IsZero())
	assert.Empty(t, f.engine.All())
}

func TestEveryTransitionAllowed(t *testing.T) {
	f := newFixture(t)
	states := []State{Default, FollowUp, Closed}

	for _, from := range states {
		for _, to := range states {
			_, err := f.engine.Set("p1", from, staffA)
			require.NoError(t, err)
			st, err := f.engine.Set("p1", to, staffA)
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, st.State)
			assert.Equal(t, to, f.engine.Get("p1").State)
		}
	}
}

func TestSetRejectsUnknownState(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Set("p1", State("archived"), staffA)
	assert.True(t, errors.Is(err, ErrUnknownState))
	assert.Empty(t, f.events)
}

func TestLastWriteWins(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Set("p1", Closed, staffA)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.engine.Set("p1", FollowUp, staffB)
	require.NoError(t, err)

	all := f.engine.All()
	require.Len(t, all, 1)
	st := all["p1"]
	assert.Equal(t, FollowUp, st.State)
	assert.Equal(t, staffB, st.UpdatedBy)
	assert.Equal(t, t0.Add(time.Minute), st.UpdatedAt)
}

func TestSetPublishesCurrentAndLegacyEvents(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Set("p1", FollowUp, staffA)
	require.NoError(t, err)

	require.Len(t, f.events, 3)
	assert.Equal(t, bus.StatusChanged, f.events[0].Kind)
	assert.Equal(t, bus.PropertyStatusChanged, f.events[1].Kind)
	assert.Equal(t, bus.StaffStatusUpdated, f.events[2].Kind)
	for _, e := range f.events {
		assert.Equal(t, "p1", e.PropertyID)
		assert.Equal(t, staffA.ID, e.UserID)
	}
}

func TestStatusesAreGlobalAcrossTabs(t *testing.T) {
	origin := kv.NewMemory()
	clk := clock.NewManual(t0)
	newEngine := func() *Engine {
		c := codec.New(origin.Tab(), nil)
		return NewEngine(KVRecords(c), c, clk, bus.New(nil))
	}
	tabA, tabB := newEngine(), newEngine()

	_, err := tabA.Set("p1", Closed, staffA)
	require.NoError(t, err)
	_, err = tabB.Set("p2", FollowUp, staffB)
	require.NoError(t, err)

	assert.Equal(t, Closed, tabB.Get("p1").State)
	assert.Equal(t, FollowUp, tabA.Get("p2").State)
}

func TestInState(t *testing.T) {
	f := newFixture(t)

	for id, st := range map[string]State{"p3": FollowUp, "p1": FollowUp, "p2": Closed} {
		_, err := f.engine.Set(id, st, staffA)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"p1", "p3"}, f.engine.InState(FollowUp))
	assert.Equal(t, []string{"p2"}, f.engine.InState(Closed))
	assert.Empty(t, f.engine.InState(Default))
}

func TestCorruptedStatusMapReadsAsEmpty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(kv.PropertyStatusKey, `["not","a","map"]`))

	assert.Equal(t, Default, f.engine.Get("p1").State)
	_, err := f.engine.Set("p1", Closed, staffA)
	require.NoError(t, err)
	assert.Equal(t, Closed, f.engine.Get("p1").State)
}

type failingRecords struct{}

func (failingRecords) Load() map[string]Status        { return map[string]Status{} }
func (failingRecords) Save(map[string]Status) error { return errors.New("disk full") }

func TestSaveFailureReturnsErrorWithoutEvents(t *testing.T) {
	var events []bus.Event
	b := bus.New(nil)
	b.Subscribe(func(e bus.Event) { events = append(events, e) })
	e := NewEngine(failingRecords{}, codec.New(kv.NewMemory().Tab(), nil), clock.NewManual(t0), b)

	_, err := e.Set("p1", Closed, staffA)
	assert.Error(t, err)
	assert.Empty(t, events)
}

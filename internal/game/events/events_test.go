package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmcore/achievement-server-go/internal/game/world"
)

func TestBusSubscribeTyped(t *testing.T) {
	bus := NewBus()
	owner := world.PlayerOwner(7)

	updates := 0
	earned := 0
	h1 := bus.SubscribeTyped(EventCriteriaUpdate, func(Event) { updates++ })
	bus.SubscribeTyped(EventAchievementEarned, func(Event) { earned++ })

	bus.Publish(NewCriteriaUpdate(owner, 10, 1, 7, time.Now()))
	assert.Equal(t, 1, updates)
	assert.Equal(t, 0, earned)

	bus.Publish(NewAchievementEvent(EventAchievementEarned, owner, 100, time.Now()))
	assert.Equal(t, 1, earned)

	bus.Unsubscribe(h1)
	bus.Publish(NewCriteriaUpdate(owner, 10, 2, 7, time.Now()))
	assert.Equal(t, 1, updates, "unsubscribed listener must not fire")
}

func TestBusSubscribeAllInOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Subscribe(func(Event) { order = append(order, i) })
	}
	bus.Publish(NewCriteriaDeleted(world.GuildOwner(3), 11))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestBusNilListener(t *testing.T) {
	bus := NewBus()
	assert.Equal(t, -1, bus.Subscribe(nil))
	assert.Equal(t, -1, bus.SubscribeTyped(EventCriteriaUpdate, nil))
	assert.NotPanics(t, func() { bus.Publish(Event{Type: EventCriteriaUpdate}) })
}

func TestBusStampsTimestamp(t *testing.T) {
	bus := NewBus()
	var got Event
	bus.Subscribe(func(e Event) { got = e })

	bus.Publish(Event{Type: EventAchievementDeleted})
	assert.False(t, got.Timestamp.IsZero())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	owner := world.PlayerOwner(1)

	r.Publish(NewCriteriaUpdate(owner, 1, 1, 1, time.Time{}))
	r.Publish(NewCriteriaDeleted(owner, 1))
	r.Publish(NewCriteriaUpdate(owner, 2, 5, 1, time.Time{}))

	require.Len(t, r.Events(), 3)
	updates := r.OfType(EventCriteriaUpdate)
	require.Len(t, updates, 2)
	assert.Equal(t, uint32(2), updates[1].CriteriaID)

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestOwnerString(t *testing.T) {
	assert.Equal(t, "player:42", world.PlayerOwner(42).String())
	assert.Equal(t, "guild:9", world.GuildOwner(9).String())
}

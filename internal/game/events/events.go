// Package events carries the outbound notifications produced while owners
// progress criteria and earn achievements.
package events

import (
	"sort"
	"sync"
	"time"

	"github.com/realmcore/achievement-server-go/internal/game/world"
)

// EventType indicates the category of a notification.
type EventType string

const (
	// Progress events
	EventCriteriaUpdate  EventType = "CRITERIA_UPDATE"
	EventCriteriaDeleted EventType = "CRITERIA_DELETED"

	// Achievement events
	EventAchievementEarned    EventType = "ACHIEVEMENT_EARNED"
	EventAchievementDeleted   EventType = "ACHIEVEMENT_DELETED"
	EventAchievementBroadcast EventType = "ACHIEVEMENT_BROADCAST"
)

// BroadcastScope says who hears an ACHIEVEMENT_BROADCAST.
type BroadcastScope string

const (
	BroadcastRealm BroadcastScope = "realm"
	BroadcastGuild BroadcastScope = "guild"
)

// Event is a single notification. Fields that do not apply to the type are
// left zero.
type Event struct {
	Type          EventType        `json:"type"`
	Owner         world.Owner      `json:"owner"`
	CriteriaID    uint32           `json:"criteria_id,omitempty"`
	AchievementID uint32           `json:"achievement_id,omitempty"`
	Counter       uint64           `json:"counter,omitempty"`
	Actor         world.ObjectGUID `json:"actor,omitempty"`
	Date          time.Time        `json:"date,omitempty"`
	TimeElapsed   uint32           `json:"time_elapsed,omitempty"` // seconds since the tree timer started
	Timed         bool             `json:"timed,omitempty"`
	Scope         BroadcastScope   `json:"scope,omitempty"`
	GuildID       uint64           `json:"guild_id,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// Listener receives every published event.
type Listener func(Event)

// TypedListener wraps a callback bound to a single event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// Publisher is the sending side of a bus.
type Publisher interface {
	Publish(event Event)
}

// Bus dispatches events synchronously to subscribers in subscription order.
type Bus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewBus constructs a fresh bus.
func NewBus() *Bus {
	return &Bus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *Bus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *Bus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by handle, typed or not.
func (bus *Bus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not subscribe or unsubscribe from inside the callback.
func (bus *Bus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	handles := make([]int, 0, len(bus.listeners))
	for handle := range bus.listeners {
		handles = append(handles, handle)
	}
	sort.Ints(handles)
	for _, handle := range handles {
		bus.listeners[handle](event)
	}

	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// Discard is a Publisher that drops everything.
type Discard struct{}

// Publish drops the event.
func (Discard) Publish(Event) {}

// Recorder is a Publisher that keeps every event, for tests and replay.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish appends the event.
func (r *Recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events of one type.
func (r *Recorder) OfType(eventType EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// NewCriteriaUpdate creates a progress-changed notification.
func NewCriteriaUpdate(owner world.Owner, criteriaID uint32, counter uint64, actor world.ObjectGUID, date time.Time) Event {
	return Event{
		Type:       EventCriteriaUpdate,
		Owner:      owner,
		CriteriaID: criteriaID,
		Counter:    counter,
		Actor:      actor,
		Date:       date,
		Timestamp:  time.Now(),
	}
}

// NewCriteriaDeleted creates a progress-removed notification.
func NewCriteriaDeleted(owner world.Owner, criteriaID uint32) Event {
	return Event{
		Type:       EventCriteriaDeleted,
		Owner:      owner,
		CriteriaID: criteriaID,
		Timestamp:  time.Now(),
	}
}

// NewAchievementEvent creates an earned, deleted or broadcast notification.
func NewAchievementEvent(eventType EventType, owner world.Owner, achievementID uint32, date time.Time) Event {
	return Event{
		Type:          eventType,
		Owner:         owner,
		AchievementID: achievementID,
		Date:          date,
		Timestamp:     time.Now(),
	}
}

var (
	_ Publisher = (*Bus)(nil)
	_ Publisher = Discard{}
	_ Publisher = (*Recorder)(nil)
)

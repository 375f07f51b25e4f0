package game

import (
	"sync"
	"time"
)

// EventType names a game event
type EventType string

const (
	EventTypeState EventType = "state"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything published on an EventBus
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// Op names the Engine operation that produced a StateEvent
type Op string

const (
	OpNewGame    Op = "new_game"
	OpBet        Op = "bet"
	OpDeal       Op = "deal"
	OpActivate   Op = "activate"
	OpHit        Op = "hit"
	OpStand      Op = "stand"
	OpDoubleDown Op = "double_down"
	OpSplit      Op = "split"
	OpDealerPlay Op = "dealer_play"
	OpEndRound   Op = "end_round"
	OpClearHands Op = "clear_hands"
)

// StateEvent is published after every Engine mutation. Seq increases by one
// per mutation so subscribers can verify nothing was dropped or reordered.
type StateEvent struct {
	Seq       uint64
	Op        Op
	Seat      int // -1 when the operation is not seat specific
	State     Snapshot
	timestamp time.Time
}

func (e StateEvent) EventType() EventType { return EventTypeState }
func (e StateEvent) Timestamp() time.Time { return e.timestamp }

// NewStateEvent creates a state event stamped with the current time
func NewStateEvent(seq uint64, op Op, seat int, state Snapshot) StateEvent {
	return StateEvent{
		Seq:       seq,
		Op:        op,
		Seat:      seat,
		State:     state,
		timestamp: time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus delivers events to subscribers synchronously, in publish order.
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers map[int]EventSubscriber
	order       []int
	nextID      int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make(map[int]EventSubscriber),
	}
}

// Subscribe adds a subscriber and returns a function that removes it again
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		delete(bus.subscribers, id)
		for i, v := range bus.order {
			if v == id {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
	}
}

// Publish sends an event to every subscriber in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, sub := range subs {
		sub.OnEvent(event)
	}
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string
	bus.Subscribe(SubscriberFunc(func(e GameEvent) {
		got = append(got, "a:"+string(e.(StateEvent).Op))
	}))
	bus.Subscribe(SubscriberFunc(func(e GameEvent) {
		got = append(got, "b:"+string(e.(StateEvent).Op))
	}))

	bus.Publish(NewStateEvent(1, OpHit, 0, Snapshot{}))
	bus.Publish(NewStateEvent(2, OpStand, 0, Snapshot{}))

	assert.Equal(t, []string{"a:hit", "b:hit", "a:stand", "b:stand"}, got)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.Subscribe(SubscriberFunc(func(GameEvent) { count++ }))

	bus.Publish(NewStateEvent(1, OpDeal, -1, Snapshot{}))
	unsubscribe()
	bus.Publish(NewStateEvent(2, OpDeal, -1, Snapshot{}))

	assert.Equal(t, 1, count)
}

func TestStateEventType(t *testing.T) {
	e := NewStateEvent(7, OpSplit, 2, Snapshot{})
	assert.Equal(t, EventTypeState, e.EventType())
	assert.Equal(t, "state", e.EventType().String())
	assert.False(t, e.Timestamp().IsZero())
}

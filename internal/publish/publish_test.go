package publish

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/deck"
)

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	sent []message
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message{subject, data})
	return nil
}

func TestSinkPublishesEnvelopes(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewSink(pub, "blackjack.events", "table-1", log.New(io.Discard))
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	sink.now = func() time.Time { return fixed }

	sink.Notify(controller.Notification{Kind: controller.TurnChanged, Phase: controller.PlayerTurns, Round: 1, Seat: 2})
	sink.Notify(controller.Notification{Kind: controller.Message, Text: "Dealer busts"})

	require.Len(t, pub.sent, 2)
	assert.Equal(t, "blackjack.events.turn_changed", pub.sent[0].subject)
	assert.Equal(t, "blackjack.events.message", pub.sent[1].subject)

	var env struct {
		Table        string    `json:"table"`
		Seq          uint64    `json:"seq"`
		Timestamp    time.Time `json:"timestamp"`
		Notification struct {
			Kind  string `json:"kind"`
			Round int    `json:"round"`
			Seat  int    `json:"seat"`
			Text  string `json:"text"`
		} `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(pub.sent[0].data, &env))
	assert.Equal(t, "table-1", env.Table)
	assert.Equal(t, uint64(1), env.Seq)
	assert.True(t, fixed.Equal(env.Timestamp))
	assert.Equal(t, "turn_changed", env.Notification.Kind)
	assert.Equal(t, 1, env.Notification.Round)
	assert.Equal(t, 2, env.Notification.Seat)

	require.NoError(t, json.Unmarshal(pub.sent[1].data, &env))
	assert.Equal(t, uint64(2), env.Seq)
	assert.Equal(t, "Dealer busts", env.Notification.Text)
}

func TestSinkFollowsController(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewSink(pub, "bj", "t", nil)

	c := controller.New()
	c.AddListener(sink)
	require.NoError(t, c.NewGame([]controller.Seat{{Name: "You", Bankroll: 100, Wager: 10}}, 1, deck.Fixed))
	require.NoError(t, c.StartBetting())
	c.Stop()

	require.NotEmpty(t, pub.sent)
	for _, m := range pub.sent {
		assert.Contains(t, m.subject, "bj.")
		assert.True(t, json.Valid(m.data))
	}
}

func TestSinkSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	sink := NewSink(pub, "bj", "t", nil)

	assert.NotPanics(t, func() {
		sink.Notify(controller.Notification{Kind: controller.GameOver})
	})
	assert.Empty(t, pub.sent)
}

func TestSubject(t *testing.T) {
	sink := NewSink(&fakePublisher{}, "blackjack.events", "t", nil)
	assert.Equal(t, "blackjack.events.hand_split", sink.Subject(controller.HandSplit))
	assert.Equal(t, "blackjack.events.game_over", sink.Subject(controller.GameOver))
}

package controller

import (
	"fmt"

	"github.com/lox/blackjack/internal/game"
)

// Kind names a controller notification
type Kind int

const (
	PlayerUpdated Kind = iota
	DealerUpdated
	TurnChanged
	DealerCardShown
	BettingEnded
	HandSplit
	RoundEnded
	GameOver
	Message
)

var kinds = [...]Kind{PlayerUpdated, DealerUpdated, TurnChanged, DealerCardShown, BettingEnded, HandSplit, RoundEnded, GameOver, Message}

func (k Kind) String() string {
	switch k {
	case PlayerUpdated:
		return "player_updated"
	case DealerUpdated:
		return "dealer_updated"
	case TurnChanged:
		return "turn_changed"
	case DealerCardShown:
		return "dealer_card_shown"
	case BettingEnded:
		return "betting_ended"
	case HandSplit:
		return "hand_split"
	case RoundEnded:
		return "round_ended"
	case GameOver:
		return "game_over"
	case Message:
		return "message"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind parses a notification kind as written by MarshalText
func ParseKind(name string) (Kind, error) {
	for _, k := range kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return PlayerUpdated, fmt.Errorf("unknown notification kind %q", name)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Notification tells the presentation layer something changed. Only the
// fields relevant to Kind are set.
type Notification struct {
	Kind  Kind  `json:"kind"`
	Phase Phase `json:"phase"`
	Round int   `json:"round"`

	// Seat is the hand index for PlayerUpdated, TurnChanged and HandSplit.
	Seat   int                   `json:"seat"`
	Player *game.PlayerSnapshot  `json:"player,omitempty"`
	Split  *game.PlayerSnapshot  `json:"split,omitempty"`
	Dealer *game.HandSnapshot    `json:"dealer,omitempty"`
	Table  []game.PlayerSnapshot `json:"table,omitempty"`

	// HoleVisible is set on DealerCardShown and DealerUpdated.
	HoleVisible bool   `json:"holeVisible"`
	Text        string `json:"text,omitempty"`
}

// Listener receives notifications in the order they happen. Notify is called
// with the controller locked, so it must not call back into the controller
// on the same goroutine.
type Listener interface {
	Notify(n Notification)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(Notification)

func (f ListenerFunc) Notify(n Notification) { f(n) }

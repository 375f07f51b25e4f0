// Package bot holds the agents that play bot seats: how much to bet at the
// start of a round and which action to take on their turn.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// Situation is the read-only state a bot decides from
type Situation struct {
	Seat      game.PlayerSnapshot
	Upcard    deck.Card
	CanDouble bool
	CanSplit  bool
}

// Decision is a bot's chosen action with a human readable reason
type Decision struct {
	Action    strategy.Action
	Reasoning string
}

// Agent chooses bets and actions for a bot seat. Agents receive snapshots
// only; the controller applies their decisions.
type Agent interface {
	Bet(seat game.PlayerSnapshot) int
	Decide(s Situation) Decision
}

// Kind names a bot implementation on the command line and in config files
type Kind string

const (
	KindStrategy Kind = "strategy"
	KindDealer   Kind = "dealer"
	KindRandom   Kind = "random"
)

// Kinds lists every bot kind
func Kinds() []Kind {
	return []Kind{KindStrategy, KindDealer, KindRandom}
}

// ParseKind parses a bot kind, defaulting to the basic strategy bot
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindStrategy, nil
	case KindStrategy, KindDealer, KindRandom:
		return k, nil
	}
	return "", fmt.Errorf("unknown bot kind %q", s)
}

// New creates an agent of the given kind. rng is only used by the random bot.
func New(kind Kind, rng *rand.Rand, logger *log.Logger) (Agent, error) {
	switch kind {
	case KindStrategy, "":
		return NewStrategyBot(logger), nil
	case KindDealer:
		return NewDealerBot(logger), nil
	case KindRandom:
		if rng == nil {
			return nil, fmt.Errorf("random bot needs an rng")
		}
		return NewRandBot(rng, logger), nil
	}
	return nil, fmt.Errorf("unknown bot kind %q", kind)
}

// TenthOfBankroll is the standard bot bet: a tenth of the bankroll, at least 1.
func TenthOfBankroll(seat game.PlayerSnapshot) int {
	return max(seat.Bankroll/10, 1)
}

// Legal returns the actions open to a seat in s
func Legal(s Situation) []strategy.Action {
	actions := []strategy.Action{strategy.Hit, strategy.Stand}
	if s.CanDouble {
		actions = append(actions, strategy.Double)
	}
	if s.CanSplit {
		actions = append(actions, strategy.Split)
	}
	return actions
}

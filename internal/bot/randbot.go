package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger.WithPrefix("rand-bot")}
}

// Bet picks a random amount up to a fifth of the bankroll
func (r *RandBot) Bet(seat game.PlayerSnapshot) int {
	limit := max(seat.Bankroll/5, 1)
	return 1 + r.rng.IntN(limit)
}

func (r *RandBot) Decide(s Situation) Decision {
	legal := Legal(s)
	action := legal[r.rng.IntN(len(legal))]
	return Decision{Action: action, Reasoning: "rand-bot random action"}
}

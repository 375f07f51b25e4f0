package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// StrategyBot plays the basic strategy chart. A recommended double it cannot
// afford becomes a hit; a pair it cannot split is played by its total.
type StrategyBot struct {
	logger *log.Logger
}

// NewStrategyBot creates a new StrategyBot instance
func NewStrategyBot(logger *log.Logger) *StrategyBot {
	return &StrategyBot{logger: logger.WithPrefix("strategy-bot")}
}

func (b *StrategyBot) Bet(seat game.PlayerSnapshot) int {
	return TenthOfBankroll(seat)
}

func (b *StrategyBot) Decide(s Situation) Decision {
	hand := s.Seat.Hand

	var (
		action strategy.Action
		err    error
	)
	if s.CanSplit {
		action, err = strategy.Recommend(hand, s.Upcard)
	} else {
		action, err = strategy.RecommendWithoutSplit(hand, s.Upcard)
	}
	if err != nil {
		b.logger.Warn("No chart entry, falling back to dealer rules", "hand", hand.Cards(), "upcard", s.Upcard, "error", err)
		return dealerRule(hand.Total(), "strategy-bot off chart")
	}

	reasoning := "strategy-bot chart " + action.String()
	if action == strategy.Double && !s.CanDouble {
		action = strategy.Hit
		reasoning = "strategy-bot cannot double, hitting"
	}

	b.logger.Debug("Bot decision", "seat", s.Seat.Name, "total", hand.Total(), "soft", hand.IsSoft(),
		"upcard", s.Upcard, "action", action)
	return Decision{Action: action, Reasoning: reasoning}
}

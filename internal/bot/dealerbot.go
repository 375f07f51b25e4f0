package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// DealerBot copies the house: hit below 17, stand otherwise. It never
// doubles or splits.
type DealerBot struct {
	logger *log.Logger
}

// NewDealerBot creates a new DealerBot instance
func NewDealerBot(logger *log.Logger) *DealerBot {
	return &DealerBot{logger: logger.WithPrefix("dealer-bot")}
}

func (b *DealerBot) Bet(seat game.PlayerSnapshot) int {
	return TenthOfBankroll(seat)
}

func (b *DealerBot) Decide(s Situation) Decision {
	return dealerRule(s.Seat.Hand.Total(), "dealer-bot")
}

func dealerRule(total int, who string) Decision {
	if total < 17 {
		return Decision{Action: strategy.Hit, Reasoning: who + " hits below 17"}
	}
	return Decision{Action: strategy.Stand, Reasoning: who + " stands on 17+"}
}

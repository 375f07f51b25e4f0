package game

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// HandSnapshot is an immutable copy of a hand. It satisfies strategy.Hand so
// the advisor can be consulted from a snapshot alone.
type HandSnapshot struct {
	CardList []deck.Card `json:"cards"`
	Points   int         `json:"total"`
	Soft     bool        `json:"soft"`
	Wager    int         `json:"wager"`
	Split    bool        `json:"split,omitempty"`
}

// Cards returns the cards in deal order
func (h HandSnapshot) Cards() []deck.Card { return h.CardList }

// Total returns the Blackjack total
func (h HandSnapshot) Total() int { return h.Points }

// IsSoft reports whether an ace still counts 11
func (h HandSnapshot) IsSoft() bool { return h.Soft }

// Len returns the number of cards
func (h HandSnapshot) Len() int { return len(h.CardList) }

// IsPair reports whether the hand is two cards of the same rank
func (h HandSnapshot) IsPair() bool {
	return len(h.CardList) == 2 && h.CardList[0].Rank == h.CardList[1].Rank
}

// Concealed returns the dealer hand as players see it before the hole card
// is turned: the first card is dropped and the total scored from the rest.
func (h HandSnapshot) Concealed() HandSnapshot {
	if len(h.CardList) == 0 {
		return h
	}
	rest := slices.Clone(h.CardList[1:])
	h.CardList = rest
	h.Points, h.Soft = Score(rest)
	return h
}

func snapshotHand(h *Hand) HandSnapshot {
	total, soft := Score(h.cards)
	return HandSnapshot{
		CardList: h.Cards(),
		Points:   total,
		Soft:     soft,
		Wager:    h.wager,
		Split:    h.split,
	}
}

// PlayerSnapshot is an immutable copy of one hand at the table. Bankroll is
// always the owning seat's bankroll, even for split hands.
type PlayerSnapshot struct {
	Index      int          `json:"index"`
	ID         SeatID       `json:"id"`
	Owner      SeatID       `json:"owner"`
	OwnerIndex int          `json:"ownerIndex"`
	Name       string       `json:"name"`
	Hand       HandSnapshot `json:"hand"`
	Bankroll   int          `json:"bankroll"`
	IsUser     bool         `json:"isUser"`
	Status     Status       `json:"status"`
	IsOriginal bool         `json:"isOriginal"`
	HandCount  int          `json:"handCount,omitempty"`
}

// Snapshot is the whole table at one instant
type Snapshot struct {
	Players []PlayerSnapshot `json:"players"`
	Dealer  HandSnapshot     `json:"dealer"`
}

// Player returns the snapshot of the hand at index i and whether it exists
func (s Snapshot) Player(i int) (PlayerSnapshot, bool) {
	if i < 0 || i >= len(s.Players) {
		return PlayerSnapshot{}, false
	}
	return s.Players[i], true
}

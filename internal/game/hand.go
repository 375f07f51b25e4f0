package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is an ordered sequence of cards plus the wager riding on it. Totals are
// recomputed on demand; hands are small and mutate rarely.
type Hand struct {
	cards []deck.Card
	wager int
	split bool
}

// NewHand creates an empty hand carrying wager
func NewHand(wager int) *Hand {
	return &Hand{wager: wager}
}

// AddCard appends a card in deal order
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
}

// RemoveLastCard pops the most recently added card. It panics on an empty hand.
func (h *Hand) RemoveLastCard() deck.Card {
	if len(h.cards) == 0 {
		panic("game: RemoveLastCard on empty hand")
	}
	c := h.cards[len(h.cards)-1]
	h.cards = h.cards[:len(h.cards)-1]
	return c
}

// Cards returns a copy of the cards in deal order
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

// Wager returns the amount riding on the hand
func (h *Hand) Wager() int {
	return h.wager
}

// SetWager replaces the amount riding on the hand
func (h *Hand) SetWager(amount int) {
	h.wager = amount
}

// Total returns the best Blackjack total of the hand
func (h *Hand) Total() int {
	total, _ := Score(h.cards)
	return total
}

// IsSoft reports whether an ace is still counted as 11
func (h *Hand) IsSoft() bool {
	_, soft := Score(h.cards)
	return soft
}

// IsBust reports whether the total exceeds 21 with every ace demoted
func (h *Hand) IsBust() bool {
	return h.Total() > 21
}

// IsPair reports whether the hand is exactly two cards of the same rank
func (h *Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// IsSplit reports whether the hand came out of a split
func (h *Hand) IsSplit() bool {
	return h.split
}

// IsNatural reports a two card 21 that was dealt, not made by splitting
func (h *Hand) IsNatural() bool {
	return !h.split && h.IsTwoCardTwentyOne()
}

// IsTwoCardTwentyOne reports any two card 21, split or not
func (h *Hand) IsTwoCardTwentyOne() bool {
	return len(h.cards) == 2 && h.Total() == 21
}

func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Score sums cards counting aces as 11, then demotes aces to 1 one at a time
// while the total exceeds 21. The hand is soft when an ace is still worth 11.
func Score(cards []deck.Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
		}
		total += c.Value()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// Package strategy maps a player hand and the dealer upcard to the basic
// strategy move using three static lookup tables.
package strategy

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// ErrOutsideTable is returned when a hand or upcard has no entry in the
// strategy tables, e.g. a busted total or a hand with fewer than two cards.
var ErrOutsideTable = errors.New("hand outside strategy tables")

// Hand is the read-only view of a hand the advisor needs. Both game.Hand and
// game.HandSnapshot satisfy it.
type Hand interface {
	Cards() []deck.Card
	Total() int
	IsSoft() bool
}

// Kind names which table a lookup used
type Kind int

const (
	HardHand Kind = iota
	SoftHand
	PairHand
)

func (k Kind) String() string {
	switch k {
	case SoftHand:
		return "soft"
	case PairHand:
		return "pair"
	default:
		return "hard"
	}
}

// Advice is a recommendation together with the table cell it came from
type Advice struct {
	Action Action
	Kind   Kind
	Row    int
	Column int
}

// Recommend returns the basic strategy move for hand against the dealer upcard.
func Recommend(hand Hand, upcard deck.Card) (Action, error) {
	advice, err := Advise(hand, upcard)
	return advice.Action, err
}

// RecommendWithoutSplit ignores the pair table. It is used when a pair cannot
// be split (for example when the bankroll cannot cover a second wager). A
// pair of aces (soft 12) or twos (hard 4) played this way has no row and
// returns ErrOutsideTable.
func RecommendWithoutSplit(hand Hand, upcard deck.Card) (Action, error) {
	advice, err := lookup(hand, upcard, false)
	return advice.Action, err
}

// Advise is Recommend with the table coordinates used for the decision.
func Advise(hand Hand, upcard deck.Card) (Advice, error) {
	return lookup(hand, upcard, true)
}

// AdviseWithoutSplit is RecommendWithoutSplit with table coordinates.
func AdviseWithoutSplit(hand Hand, upcard deck.Card) (Advice, error) {
	return lookup(hand, upcard, false)
}

func lookup(hand Hand, upcard deck.Card, allowSplit bool) (Advice, error) {
	cards := hand.Cards()
	if len(cards) < 2 {
		return Advice{}, fmt.Errorf("%w: %d cards", ErrOutsideTable, len(cards))
	}
	col, err := column(upcard)
	if err != nil {
		return Advice{}, err
	}

	if allowSplit && IsPair(cards) {
		row := cards[0].Value() - 2
		if row < 0 || row >= len(PairTable) {
			return Advice{}, fmt.Errorf("%w: pair of %s", ErrOutsideTable, cards[0].Rank)
		}
		return Advice{Action: PairTable[row][col], Kind: PairHand, Row: row, Column: col}, nil
	}

	total := hand.Total()
	if hand.IsSoft() {
		row := total - softMin
		if row < 0 || row >= len(SoftTable) {
			return Advice{}, fmt.Errorf("%w: soft %d", ErrOutsideTable, total)
		}
		return Advice{Action: SoftTable[row][col], Kind: SoftHand, Row: row, Column: col}, nil
	}

	row := total - hardMin
	if row < 0 || row >= len(HardTable) {
		return Advice{}, fmt.Errorf("%w: hard %d", ErrOutsideTable, total)
	}
	return Advice{Action: HardTable[row][col], Kind: HardHand, Row: row, Column: col}, nil
}

func column(upcard deck.Card) (int, error) {
	col := upcard.Value() - 2
	if col < 0 || col > 9 {
		return 0, fmt.Errorf("%w: upcard %s", ErrOutsideTable, upcard)
	}
	return col, nil
}

// IsPair reports whether cards are exactly two cards of the same rank
func IsPair(cards []deck.Card) bool {
	return len(cards) == 2 && cards[0].Rank == cards[1].Rank
}

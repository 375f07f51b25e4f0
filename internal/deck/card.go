package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Clubs
	Diamonds
)

// Suits lists every suit in master-deck order
var Suits = [...]Suit{Spades, Hearts, Clubs, Diamonds}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	default:
		return "?"
	}
}

// Name returns the English name of the suit
func (s Suit) Name() string {
	switch s {
	case Spades:
		return "Spades"
	case Hearts:
		return "Hearts"
	case Clubs:
		return "Clubs"
	case Diamonds:
		return "Diamonds"
	default:
		return "Unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in master-deck order
var Ranks = [...]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the single character code of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Value returns the Blackjack value of the rank. Aces count 11 here; hands
// demote them to 1 as needed.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the two character rank+suit code used by card scripts (e.g., "AS")
func (c Card) Code() string {
	return c.Rank.String() + strings.ToUpper(c.Suit.Name()[:1])
}

// Value returns the Blackjack value of the card
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// ParseCard parses a two character code such as "TS", "7c" or "Ah"
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q: want 2 characters", code)
	}
	rank, err := parseRank(code[0])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card code %q: %w", code, err)
	}
	suit, err := parseSuit(code[1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card code %q: %w", code, err)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a list of card codes
func ParseCards(codes ...string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on a bad code.
func MustParseCards(codes ...string) []Card {
	cards, err := ParseCards(codes...)
	if err != nil {
		panic(err)
	}
	return cards
}

func parseRank(b byte) (Rank, error) {
	switch b {
	case 'T', 't':
		return Ten, nil
	case 'J', 'j':
		return Jack, nil
	case 'Q', 'q':
		return Queen, nil
	case 'K', 'k':
		return King, nil
	case 'A', 'a':
		return Ace, nil
	}
	if b >= '2' && b <= '9' {
		return Rank(b - '0'), nil
	}
	return 0, fmt.Errorf("unknown rank %q", b)
}

func parseSuit(b byte) (Suit, error) {
	switch b {
	case 'S', 's':
		return Spades, nil
	case 'H', 'h':
		return Hearts, nil
	case 'C', 'c':
		return Clubs, nil
	case 'D', 'd':
		return Diamonds, nil
	}
	return 0, fmt.Errorf("unknown suit %q", b)
}

// NewDeck returns the 52 unique cards in master order: ranks ascending, and
// within a rank Spades, Hearts, Clubs, Diamonds.
func NewDeck() []Card {
	cards := make([]Card, 0, 52)
	for _, r := range Ranks {
		for _, s := range Suits {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// MarshalText implements encoding.TextMarshaler using the card code
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

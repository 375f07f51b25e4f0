package deck

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
)

// Mode selects how a Shoe orders its cards
type Mode int

const (
	// Random shuffles every deck in the shoe uniformly.
	Random Mode = iota
	// Tutorial replays the scripted tutorial order, then pads with random cards.
	Tutorial
	// Fixed deals nothing but the two of spades.
	Fixed
)

const (
	tutorialShoeSize = 104
	fixedShoeSize    = 100
)

// String returns the name of the mode
func (m Mode) String() string {
	switch m {
	case Random:
		return "random"
	case Tutorial:
		return "tutorial"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as accepted on the command line and in config files
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return Random, nil
	case "tutorial":
		return Tutorial, nil
	case "fixed", "twos":
		return Fixed, nil
	}
	return Random, fmt.Errorf("unknown shuffle mode %q", s)
}

// Shoe is the working sequence of cards a game draws from. It is built from
// one or more copies of the master deck and reorders itself once 80% of the
// sequence has been dealt, so Draw never runs dry.
type Shoe struct {
	master []Card
	cards  []Card
	next   int
	decks  int
	mode   Mode
	rng    *rand.Rand
}

// NewShoe creates a shoe of decks copies of the master deck ordered per mode
func NewShoe(rng *rand.Rand, decks int, mode Mode) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if decks < 1 {
		panic("at least one deck required")
	}

	s := &Shoe{
		master: NewDeck(),
		decks:  decks,
		mode:   mode,
		rng:    rng,
	}
	s.cards = make([]Card, 0, decks*len(s.master))
	for range decks {
		s.cards = append(s.cards, s.master...)
	}

	s.Shuffle()
	return s
}

// Shuffle reorders the shoe according to its mode. A random shoe restarts
// from the top; scripted and fixed shoes keep their cursor so a tutorial
// script carries on across rounds.
func (s *Shoe) Shuffle() {
	switch s.mode {
	case Tutorial:
		s.cards = s.cards[:0]
		s.cards = append(s.cards, tutorialScript...)
		for len(s.cards) < tutorialShoeSize {
			s.cards = append(s.cards, s.master[s.rng.IntN(len(s.master))])
		}
	case Fixed:
		s.cards = s.cards[:0]
		for range fixedShoeSize {
			s.cards = append(s.cards, Card{Rank: Two, Suit: Spades})
		}
	default:
		s.restock()
		for i := len(s.cards) - 1; i > 0; i-- {
			j := s.rng.IntN(i + 1)
			s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
		}
		s.next = 0
	}
}

// restock makes sure a random shoe holds exactly decks full decks, which a
// previous mode switch may have disturbed.
func (s *Shoe) restock() {
	if len(s.cards) == s.decks*len(s.master) {
		return
	}
	s.cards = s.cards[:0]
	for range s.decks {
		s.cards = append(s.cards, s.master...)
	}
}

// Draw returns the next card, reordering the shoe first when the cursor has
// reached the 80% cut.
func (s *Shoe) Draw() Card {
	if s.pastCut() {
		s.Shuffle()
		s.next = 0
	}
	c := s.cards[s.next]
	s.next++
	return c
}

func (s *Shoe) pastCut() bool {
	return s.next*5 >= len(s.cards)*4
}

// IsExhausted reports whether the cursor has run off the end of the shoe.
// Draw reorders well before this can happen.
func (s *Shoe) IsExhausted() bool {
	return s.next >= len(s.cards)
}

// Len returns the length of the working sequence
func (s *Shoe) Len() int {
	return len(s.cards)
}

// Cursor returns the index of the next card to be drawn
func (s *Shoe) Cursor() int {
	return s.next
}

// Remaining returns the number of cards left before the end of the sequence
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.next
}

// Decks returns the number of decks the shoe was built from
func (s *Shoe) Decks() int {
	return s.decks
}

// Mode returns the ordering mode of the shoe
func (s *Shoe) Mode() Mode {
	return s.mode
}

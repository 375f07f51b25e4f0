package strategy

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHand is a minimal Hand for exercising the tables without the game package.
type testHand []deck.Card

func (h testHand) Cards() []deck.Card { return h }

func (h testHand) Total() int {
	total, _ := h.totalAndSoft()
	return total
}

func (h testHand) IsSoft() bool {
	_, soft := h.totalAndSoft()
	return soft
}

func (h testHand) totalAndSoft() (int, bool) {
	total, aces := 0, 0
	for _, c := range h {
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

func hand(codes ...string) testHand {
	return testHand(deck.MustParseCards(codes...))
}

func card(code string) deck.Card {
	return deck.MustParseCards(code)[0]
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name   string
		hand   testHand
		upcard string
		want   Action
		kind   Kind
	}{
		{"hard 16 vs 10 hits", hand("TS", "6C"), "KD", Hit, HardHand},
		{"hard 16 vs 6 stands", hand("TS", "6C"), "6D", Stand, HardHand},
		{"hard 11 vs 10 doubles", hand("5S", "6C"), "TD", Double, HardHand},
		{"hard 11 vs ace hits", hand("5S", "6C"), "AD", Hit, HardHand},
		{"hard 12 vs 4 stands", hand("TS", "2C"), "4H", Stand, HardHand},
		{"hard 9 vs 3 doubles", hand("4S", "5C"), "3H", Double, HardHand},
		{"hard 20 stands", hand("KS", "QC"), "AH", Stand, HardHand},
		{"soft 18 vs 9 hits", hand("AS", "7C"), "9H", Hit, SoftHand},
		{"soft 18 vs 2 stands", hand("AS", "7C"), "2H", Stand, SoftHand},
		{"soft 18 vs 5 doubles", hand("AS", "7C"), "5H", Double, SoftHand},
		{"soft 13 vs 5 doubles", hand("AS", "2C"), "5H", Double, SoftHand},
		{"soft 21 stands", hand("AS", "KC"), "TH", Stand, SoftHand},
		{"three card soft 17 hits vs 7", hand("AS", "2C", "4D"), "7H", Hit, SoftHand},
		{"aces split", hand("AS", "AC"), "TH", Split, PairHand},
		{"eights split vs ace", hand("8S", "8C"), "AH", Split, PairHand},
		{"tens stand", hand("TS", "TC"), "6H", Stand, PairHand},
		{"nines stand vs 7", hand("9S", "9C"), "7H", Stand, PairHand},
		{"fives double vs 9", hand("5S", "5C"), "9H", Double, PairHand},
		{"king queen is not a pair", hand("KS", "QC"), "6H", Stand, HardHand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice, err := Advise(tt.hand, card(tt.upcard))
			require.NoError(t, err)
			assert.Equal(t, tt.want, advice.Action)
			assert.Equal(t, tt.kind, advice.Kind)
		})
	}
}

func TestRecommendIsPure(t *testing.T) {
	for _, up := range deck.NewDeck() {
		h := hand("9S", "7D")
		a, err := Recommend(h, up)
		require.NoError(t, err)
		b, err := Recommend(h, up)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestRecommendRejectsOutOfTableHands(t *testing.T) {
	_, err := Recommend(hand("KS", "QC", "5D"), card("6H"))
	assert.ErrorIs(t, err, ErrOutsideTable, "busted hands have no row")

	_, err = Recommend(hand("KS"), card("6H"))
	assert.ErrorIs(t, err, ErrOutsideTable, "single cards have no row")

	_, err = Recommend(hand("KS", "5C"), deck.Card{Rank: 1, Suit: deck.Spades})
	assert.ErrorIs(t, err, ErrOutsideTable, "bogus upcard has no column")
}

func TestEveryCellInBounds(t *testing.T) {
	// Walk every two and three card hand against every upcard and make sure the
	// advisor only ever answers from inside the tables.
	master := deck.NewDeck()
	for _, up := range master {
		for i, a := range master {
			for _, b := range master[i:] {
				advice, err := Advise(testHand{a, b}, up)
				require.NoError(t, err, "%s %s vs %s", a, b, up)
				assertInBounds(t, advice)
			}
		}
	}
}

func TestPairOfTwosDefinedForEveryColumn(t *testing.T) {
	twos := hand("2S", "2S")
	for col, up := range []string{"2S", "3S", "4S", "5S", "6S", "7S", "8S", "9S", "TS", "AS"} {
		advice, err := Advise(twos, card(up))
		require.NoError(t, err)
		assert.Equal(t, PairHand, advice.Kind)
		assert.Equal(t, 0, advice.Row)
		assert.Equal(t, col, advice.Column)
		assert.Equal(t, PairTable[0][col], advice.Action)
	}
}

func TestRecommendWithoutSplit(t *testing.T) {
	got, err := RecommendWithoutSplit(hand("8S", "8C"), card("TH"))
	require.NoError(t, err)
	assert.Equal(t, Hit, got, "unsplit 8-8 is hard 16")

	_, err = RecommendWithoutSplit(hand("AS", "AC"), card("6H"))
	assert.ErrorIs(t, err, ErrOutsideTable, "soft 12 has no row")

	advice, err := AdviseWithoutSplit(hand("2S", "2C"), card("6H"))
	assert.ErrorIs(t, err, ErrOutsideTable, "hard 4 has no row")
	assert.Equal(t, Advice{}, advice)

	got, err = Recommend(hand("2S", "2C"), card("6H"))
	require.NoError(t, err)
	assert.Equal(t, Split, got, "the pair table still covers 2-2")
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		parsed, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)

		parsed, err = ParseAction(a.Short())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
	_, err := ParseAction("surrender")
	assert.Error(t, err)
}

func assertInBounds(t *testing.T, advice Advice) {
	t.Helper()
	assert.GreaterOrEqual(t, advice.Column, 0)
	assert.LessOrEqual(t, advice.Column, 9)
	switch advice.Kind {
	case HardHand:
		assert.True(t, advice.Row >= 0 && advice.Row < len(HardTable), "hard row %d", advice.Row)
	case SoftHand:
		assert.True(t, advice.Row >= 0 && advice.Row < len(SoftTable), "soft row %d", advice.Row)
	case PairHand:
		assert.True(t, advice.Row >= 0 && advice.Row < len(PairTable), "pair row %d", advice.Row)
	}
}

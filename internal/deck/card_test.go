package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Card
		wantErr  bool
	}{
		{name: "ten of spades", input: "TS", expected: Card{Rank: Ten, Suit: Spades}},
		{name: "seven of clubs", input: "7C", expected: Card{Rank: Seven, Suit: Clubs}},
		{name: "lower case", input: "ah", expected: Card{Rank: Ace, Suit: Hearts}},
		{name: "king of diamonds", input: "KD", expected: Card{Rank: King, Suit: Diamonds}},
		{name: "invalid rank", input: "XS", wantErr: true},
		{name: "invalid suit", input: "AX", wantErr: true},
		{name: "too long", input: "10S", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRankValue(t *testing.T) {
	expected := map[Rank]int{
		Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8, Nine: 9,
		Ten: 10, Jack: 10, Queen: 10, King: 10, Ace: 11,
	}
	for rank, value := range expected {
		assert.Equal(t, value, rank.Value(), "rank %s", rank)
	}
}

func TestCardStringAndCode(t *testing.T) {
	c := NewCard(Ace, Spades)
	assert.Equal(t, "A♠", c.String())
	assert.Equal(t, "AS", c.Code())

	c = NewCard(Ten, Diamonds)
	assert.Equal(t, "T♦", c.String())
	assert.Equal(t, "TD", c.Code())
	assert.True(t, c.IsRed())
}

func TestCodeRoundTrip(t *testing.T) {
	for _, c := range NewDeck() {
		parsed, err := ParseCard(c.Code())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestNewDeckMasterOrder(t *testing.T) {
	d := NewDeck()
	require.Len(t, d, 52)

	assert.Equal(t, Card{Rank: Two, Suit: Spades}, d[0])
	assert.Equal(t, Card{Rank: Two, Suit: Hearts}, d[1])
	assert.Equal(t, Card{Rank: Three, Suit: Spades}, d[4])
	assert.Equal(t, Card{Rank: Ace, Suit: Diamonds}, d[51])

	seen := make(map[Card]bool)
	for _, c := range d {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

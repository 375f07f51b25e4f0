package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

func seats(n, bankroll, wager int) []SeatConfig {
	out := make([]SeatConfig, n)
	for i := range out {
		out[i] = SeatConfig{Name: string(rune('A' + i)), Bankroll: bankroll, Wager: wager}
	}
	return out
}

func newTestEngine(t *testing.T, cfg []SeatConfig, mode deck.Mode, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithRNG(randutil.New(1))}, opts...)
	return NewEngine(cfg, 1, mode, opts...)
}

// stack replaces a hand's cards, bypassing the shoe.
func stack(h *Hand, codes ...string) {
	h.cards = deck.MustParseCards(codes...)
}

func TestDealAllTwos(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	e.DealInitialCards()

	p := e.Player(0)
	assert.Equal(t, "2S 2S", codes(p.Hand.Cards()))
	assert.Equal(t, 4, p.Hand.Total())
	assert.True(t, p.Hand.IsPair())
	assert.Equal(t, Waiting, p.Status)

	dealer := e.DealerHand()
	assert.Equal(t, "2S 2S", codes(dealer.Cards()))
	assert.Equal(t, 4, dealer.Total())
}

func TestDealOrderIsSeatsThenDealerEachPass(t *testing.T) {
	t.Parallel()

	shoe := deck.NewShoe(randutil.New(1), 2, deck.Tutorial)
	script := deck.TutorialScript()

	e := NewEngine(seats(2, 100, 10), 2, deck.Tutorial, WithShoe(shoe))
	e.DealInitialCards()

	assert.Equal(t, []deck.Card{script[0], script[3]}, e.Player(0).Hand.Cards())
	assert.Equal(t, []deck.Card{script[1], script[4]}, e.Player(1).Hand.Cards())
	assert.Equal(t, []deck.Card{script[2], script[5]}, e.DealerHand().Cards())

	up, ok := e.DealerUpcard()
	require.True(t, ok)
	assert.Equal(t, script[5], up)
}

func TestDealSkipsBankruptSeats(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(2, 100, 10), deck.Fixed)
	e.players[0].Status = Bankrupt
	e.DealInitialCards()

	assert.Equal(t, 0, e.Player(0).Hand.Len())
	assert.Equal(t, Bankrupt, e.Player(0).Status)
	assert.Equal(t, 2, e.Player(1).Hand.Len())
}

func TestHitBusts(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	e.DealInitialCards()
	stack(e.players[0].Hand, "KS", "QS")
	e.SetPlayerActive(0)

	e.Hit(0)
	assert.Equal(t, 22, e.Player(0).Hand.Total())
	assert.Equal(t, Bust, e.Player(0).Status)
}

func TestHitBelowTwentyOneKeepsStatus(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	e.DealInitialCards()
	e.SetPlayerActive(0)

	e.Hit(0)
	assert.Equal(t, 6, e.Player(0).Hand.Total())
	assert.Equal(t, Active, e.Player(0).Status)

	e.Stand(0)
	assert.Equal(t, Stand, e.Player(0).Status)
}

func TestDoubleDownAccounting(t *testing.T) {
	t.Parallel()

	t.Run("stands on one card", func(t *testing.T) {
		e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
		e.DealInitialCards()
		e.DoubleDown(0)

		p := e.Player(0)
		assert.Equal(t, 90, p.Bankroll)
		assert.Equal(t, 20, p.Hand.Wager)
		assert.Equal(t, 3, p.Hand.Len())
		assert.Equal(t, Stand, p.Status)
	})

	t.Run("busts over twenty one", func(t *testing.T) {
		e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
		e.DealInitialCards()
		stack(e.players[0].Hand, "TS", "TH")
		e.DoubleDown(0)

		p := e.Player(0)
		assert.Equal(t, 90, p.Bankroll)
		assert.Equal(t, 20, p.Hand.Wager)
		assert.Equal(t, 22, p.Hand.Total())
		assert.Equal(t, Bust, p.Status)
	})

	t.Run("split hand charges the owner", func(t *testing.T) {
		e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
		e.DealInitialCards()
		e.Split(0)
		e.DoubleDown(1)

		assert.Equal(t, 80, e.Player(0).Bankroll)
		assert.Equal(t, 80, e.Player(1).Bankroll)
		assert.Equal(t, 0, e.players[1].Bankroll)
		assert.Equal(t, 20, e.Player(1).Hand.Wager)
	})
}

func TestSplit(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(2, 100, 10), deck.Fixed)
	e.DealInitialCards()
	e.SetPlayerActive(0)
	e.Split(0)

	require.Equal(t, 3, e.SeatCount())

	first, second := e.Player(0), e.Player(1)
	assert.Equal(t, 2, first.Hand.Len())
	assert.Equal(t, 2, second.Hand.Len())
	assert.Equal(t, 4, first.Hand.Len()+second.Hand.Len())
	assert.Equal(t, Active, first.Status)
	assert.Equal(t, Waiting, second.Status)

	assert.True(t, first.IsOriginal)
	assert.False(t, second.IsOriginal)
	assert.Equal(t, first.ID, second.Owner)
	assert.Equal(t, 0, second.OwnerIndex)
	assert.Equal(t, 2, first.HandCount)
	assert.Equal(t, 90, first.Bankroll)
	assert.Equal(t, 10, second.Hand.Wager)
	assert.True(t, first.Hand.Split)
	assert.True(t, second.Hand.Split)

	// The other seat moved down one place but kept its identity.
	assert.Equal(t, "B", e.Player(2).Name)
	idx, ok := e.IndexOf(e.players[2].ID)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	owner := e.OriginalOwner(1)
	assert.Equal(t, first.ID, owner.ID)
	assert.Equal(t, 0, owner.Index)
}

func TestSplitAgainKeepsLineage(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	e.DealInitialCards()
	e.Split(0)
	e.Split(1)

	require.Equal(t, 3, e.SeatCount())
	for i := 0; i < 3; i++ {
		assert.Equal(t, e.players[0].ID, e.Player(i).Owner)
		assert.Equal(t, 2, e.Player(i).Hand.Len())
	}
	assert.Equal(t, 3, e.Player(0).HandCount)
	assert.Equal(t, 80, e.Player(0).Bankroll)
}

func TestSplitAcesStand(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	e.DealInitialCards()
	stack(e.players[0].Hand, "AS", "AH")
	e.SetPlayerActive(0)
	e.Split(0)

	assert.Equal(t, Stand, e.Player(0).Status)
	assert.Equal(t, Stand, e.Player(1).Status)
	assert.Equal(t, "AS 2S", codes(e.Player(0).Hand.Cards()))
	assert.Equal(t, "AH 2S", codes(e.Player(1).Hand.Cards()))
}

func TestDealerPlayStandsOnSeventeen(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	e.DealInitialCards()
	e.DealerPlay()

	assert.Equal(t, 18, e.DealerHand().Total())
	assert.Equal(t, 9, e.DealerHand().Len())

	soft := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	soft.DealInitialCards()
	stack(soft.dealer, "AS", "6S")
	soft.DealerPlay()
	assert.Equal(t, 2, soft.DealerHand().Len(), "dealer stands on soft 17")
}

func TestEndRoundSettlement(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(3, 90, 10), deck.Fixed)
	e.DealInitialCards()
	stack(e.dealer, "TS", "QS")
	stack(e.players[0].Hand, "AS", "KH")
	stack(e.players[1].Hand, "TH", "QH")
	stack(e.players[2].Hand, "TC", "8C")
	for i := range 3 {
		e.Stand(i)
	}

	e.EndRound()

	assert.Equal(t, Blackjack, e.Player(0).Status)
	assert.Equal(t, 115, e.Player(0).Bankroll)
	assert.Equal(t, Pushed, e.Player(1).Status)
	assert.Equal(t, 100, e.Player(1).Bankroll)
	assert.Equal(t, Lost, e.Player(2).Status)
	assert.Equal(t, 90, e.Player(2).Bankroll)

	assert.Equal(t, "T♠ Q♠", handString(e.DealerHand()), "settlement leaves the dealer alone")
}

func TestEndRoundDealerBust(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(2, 90, 10), deck.Fixed)
	e.players[1].Status = Bankrupt
	e.DealInitialCards()
	stack(e.dealer, "TS", "6S", "QS")
	stack(e.players[0].Hand, "2H", "3H")
	e.Stand(0)

	e.EndRound()

	assert.Equal(t, Won, e.Player(0).Status)
	assert.Equal(t, 110, e.Player(0).Bankroll)
	assert.Equal(t, Bankrupt, e.Player(1).Status, "undealt seats are not paid")
	assert.Equal(t, 90, e.Player(1).Bankroll)
}

func TestEndRoundBustLosesEvenWhenDealerBusts(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 90, 10), deck.Fixed)
	e.DealInitialCards()
	stack(e.dealer, "TS", "6S", "QS")
	stack(e.players[0].Hand, "TH", "6H", "QH")
	e.players[0].Status = Bust

	e.EndRound()

	assert.Equal(t, Lost, e.Player(0).Status)
	assert.Equal(t, 90, e.Player(0).Bankroll)
}

func TestEndRoundBankrupt(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 10, 10), deck.Fixed)
	e.SetPlayerBet(0, 10)
	e.DealInitialCards()
	stack(e.dealer, "TS", "QS")
	stack(e.players[0].Hand, "TH", "8H")
	e.Stand(0)

	e.EndRound()
	assert.Equal(t, Bankrupt, e.Player(0).Status)
	assert.Equal(t, 0, e.Player(0).Bankroll)

	e.ClearHands()
	assert.Equal(t, Bankrupt, e.Player(0).Status, "bankruptcy persists")
}

func TestEndRoundSplitHandsBothLosingBankruptOwner(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 20, 10), deck.Fixed)
	e.SetPlayerBet(0, 10)
	e.DealInitialCards()
	e.Split(0)
	require.Equal(t, 0, e.Player(0).Bankroll)

	stack(e.dealer, "TS", "8S")
	stack(e.players[0].Hand, "8H", "7H")
	stack(e.players[1].Hand, "8C", "6C")
	e.Stand(0)
	e.Stand(1)

	e.EndRound()

	assert.Equal(t, Bankrupt, e.Player(0).Status)
	assert.Equal(t, Bankrupt, e.Player(1).Status)
	assert.Equal(t, 0, e.Player(0).Bankroll)
}

func TestEndRoundSplitLoserNotBankruptWhenSiblingWins(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 20, 10), deck.Fixed)
	e.SetPlayerBet(0, 10)
	e.DealInitialCards()
	e.Split(0)
	require.Equal(t, 0, e.Player(0).Bankroll)

	stack(e.dealer, "TS", "8S")
	stack(e.players[0].Hand, "8H", "7H")
	stack(e.players[1].Hand, "8C", "QC")
	e.Stand(0)
	e.Stand(1)

	e.EndRound()

	assert.Equal(t, Lost, e.Player(0).Status)
	assert.Equal(t, Pushed, e.Player(1).Status)
	assert.Equal(t, 10, e.Player(0).Bankroll)
}

func TestEndRoundSplitTwentyOne(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name           string
		splitBlackjack bool
		status         Status
		bankroll       int
	}{
		// 100, less 10 bet and 10 split, plus the payout on the 21
		{"pays even money by default", false, Won, 100},
		{"pays three to two when enabled", true, Blackjack, 105},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, seats(1, 100, 0), deck.Fixed, WithSplitBlackjack(tt.splitBlackjack))
			e.SetPlayerBet(0, 10)
			e.DealInitialCards()
			e.Split(0)
			assert.Equal(t, 80, e.Player(0).Bankroll)
			stack(e.dealer, "TS", "8S")
			stack(e.players[0].Hand, "AS", "KS")
			stack(e.players[1].Hand, "AH", "2H", "3H")
			e.Stand(0)
			e.Stand(1)

			e.EndRound()

			assert.Equal(t, tt.status, e.Player(0).Status)
			assert.Equal(t, Lost, e.Player(1).Status)
			assert.Equal(t, tt.bankroll, e.Player(0).Bankroll)
		})
	}
}

func TestClearHands(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(2, 100, 10), deck.Fixed)
	e.SetPlayerBet(0, 20)
	e.SetPlayerBet(1, 5)
	e.DealInitialCards()
	e.Split(0)
	require.Equal(t, 3, e.SeatCount())

	e.ClearHands()

	require.Equal(t, 2, e.SeatCount())
	assert.Equal(t, 0, e.DealerHand().Len())
	for i, wager := range []int{20, 5} {
		p := e.Player(i)
		assert.True(t, p.IsOriginal)
		assert.Equal(t, 0, p.Hand.Len())
		assert.Equal(t, wager, p.Hand.Wager)
		assert.False(t, p.Hand.Split)
		assert.Equal(t, 1, p.HandCount)
		assert.Equal(t, Waiting, p.Status)
	}
}

func TestSetPlayerBet(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	e.SetPlayerBet(0, 25)

	p := e.Player(0)
	assert.Equal(t, 75, p.Bankroll)
	assert.Equal(t, 25, p.Hand.Wager)
	assert.Equal(t, BetSubmitted, p.Status)

	e.players[0].Status = Bankrupt
	e.SetPlayerBet(0, 1)
	assert.Equal(t, Bankrupt, e.Player(0).Status)
}

func TestEngineOutOfRangePanics(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed)
	assert.Panics(t, func() { e.Hit(1) })
	assert.Panics(t, func() { e.Player(-1) })
	assert.Panics(t, func() { e.OriginalOwner(3) })
}

func TestEnginePublishesEveryMutation(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	var events []StateEvent
	bus.Subscribe(SubscriberFunc(func(e GameEvent) {
		events = append(events, e.(StateEvent))
	}))

	e := newTestEngine(t, seats(1, 100, 10), deck.Fixed, WithEventBus(bus))
	e.SetPlayerBet(0, 10)
	e.DealInitialCards()
	e.SetPlayerActive(0)
	e.Hit(0)
	e.Stand(0)
	e.DealerPlay()
	e.EndRound()
	e.ClearHands()

	ops := make([]Op, len(events))
	for i, ev := range events {
		ops[i] = ev.Op
		assert.Equal(t, uint64(i+1), ev.Seq)
	}
	assert.Equal(t, []Op{
		OpNewGame, OpBet, OpDeal, OpActivate, OpHit, OpStand, OpDealerPlay, OpEndRound, OpClearHands,
	}, ops)

	hit := events[4]
	assert.Equal(t, 0, hit.Seat)
	assert.Equal(t, 3, hit.State.Players[0].Hand.Len(), "snapshot is taken after the mutation")
	assert.Same(t, bus, e.Events())
}

func codes(cards []deck.Card) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		out += c.Code()
	}
	return out
}

func handString(h HandSnapshot) string {
	out := ""
	for i, c := range h.Cards() {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}

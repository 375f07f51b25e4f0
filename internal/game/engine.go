package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// dealerStandsOn is the lowest total the dealer stands on, soft or hard.
const dealerStandsOn = 17

// Engine is the authoritative round state: the seat list (original seats and
// the hands split off them), the shoe and the dealer hand.
//
// Engine trusts its caller. Bankroll, card count and pair checks belong to
// the caller (see Table); a seat index out of range panics. Every mutating
// call publishes one StateEvent after it has finished.
type Engine struct {
	players        []*Player
	dealer         *Hand
	shoe           *deck.Shoe
	nextID         SeatID
	splitBlackjack bool

	logger *log.Logger
	bus    EventBus
	seq    uint64
}

// NewEngine creates a game for the given seats, drawing from a shoe of decks
// decks ordered per mode.
func NewEngine(seats []SeatConfig, decks int, mode deck.Mode, opts ...Option) *Engine {
	cfg := newEngineConfig(decks, mode, opts)

	e := &Engine{
		dealer:         NewHand(0),
		shoe:           cfg.shoe,
		splitBlackjack: cfg.splitBlackjack,
		logger:         cfg.logger,
		bus:            cfg.bus,
	}

	e.players = make([]*Player, 0, len(seats))
	for _, seat := range seats {
		id := e.allocID()
		e.players = append(e.players, &Player{
			ID:        id,
			Owner:     id,
			Name:      seat.Name,
			Hand:      NewHand(seat.Wager),
			IsUser:    seat.IsUser,
			Status:    Waiting,
			Bankroll:  seat.Bankroll,
			HandCount: 1,
		})
	}

	e.logger.Debug("New game", "seats", len(seats), "decks", e.shoe.Decks(), "mode", e.shoe.Mode())
	e.publish(OpNewGame, -1)
	return e
}

// Events returns the bus state events are published on
func (e *Engine) Events() EventBus {
	return e.bus
}

func (e *Engine) allocID() SeatID {
	id := e.nextID
	e.nextID++
	return id
}

func (e *Engine) at(i int) *Player {
	if i < 0 || i >= len(e.players) {
		panic(fmt.Sprintf("game: seat index %d out of range [0,%d)", i, len(e.players)))
	}
	return e.players[i]
}

func (e *Engine) ownerOf(p *Player) *Player {
	if p.IsOriginal() {
		return p
	}
	for _, o := range e.players {
		if o.ID == p.Owner {
			return o
		}
	}
	panic(fmt.Sprintf("game: owner %d of seat %d missing", p.Owner, p.ID))
}

func (e *Engine) draw() deck.Card {
	return e.shoe.Draw()
}

// DealInitialCards shuffles the shoe and deals two passes, one card to every
// seat that is not bankrupt and then one to the dealer. Dealt seats wait for
// their turn.
func (e *Engine) DealInitialCards() {
	e.shoe.Shuffle()

	for pass := 0; pass < 2; pass++ {
		for i, p := range e.players {
			if p.Status == Bankrupt {
				continue
			}
			c := e.draw()
			p.Hand.AddCard(c)
			p.Status = Waiting
			e.logger.Debug("Dealt card", "seat", i, "card", c)
		}
		c := e.draw()
		e.dealer.AddCard(c)
		e.logger.Debug("Dealt card", "seat", "dealer", "card", c)
	}

	e.publish(OpDeal, -1)
}

// Hit draws one card into the seat's hand and marks it Bust above 21
func (e *Engine) Hit(i int) {
	p := e.at(i)
	c := e.draw()
	p.Hand.AddCard(c)
	if p.Hand.IsBust() {
		p.Status = Bust
	}
	e.logger.Debug("Hit", "seat", i, "card", c, "total", p.Hand.Total(), "status", p.Status)
	e.publish(OpHit, i)
}

// Stand ends the seat's turn
func (e *Engine) Stand(i int) {
	e.at(i).Status = Stand
	e.logger.Debug("Stand", "seat", i)
	e.publish(OpStand, i)
}

// DoubleDown takes the wager again from the owning seat, doubles the hand's
// wager and draws exactly one card. The hand then stands, or busts.
func (e *Engine) DoubleDown(i int) {
	p := e.at(i)
	owner := e.ownerOf(p)

	wager := p.Hand.Wager()
	owner.Bankroll -= wager
	p.Hand.SetWager(wager * 2)

	c := e.draw()
	p.Hand.AddCard(c)
	p.Status = Stand
	if p.Hand.IsBust() {
		p.Status = Bust
	}

	e.logger.Debug("Double down", "seat", i, "card", c, "wager", p.Hand.Wager(), "status", p.Status)
	e.publish(OpDoubleDown, i)
}

// Split moves the seat's second card into a new hand inserted directly after
// it, charges the owning seat one more wager and draws a card into each hand.
// Split aces both stand immediately.
func (e *Engine) Split(i int) {
	p := e.at(i)
	owner := e.ownerOf(p)

	wager := p.Hand.Wager()
	owner.Bankroll -= wager
	owner.HandCount++

	moved := p.Hand.RemoveLastCard()
	p.Hand.split = true

	sibling := &Player{
		ID:     e.allocID(),
		Owner:  owner.ID,
		Name:   fmt.Sprintf("%s #%d", owner.Name, owner.HandCount),
		Hand:   &Hand{wager: wager, split: true},
		IsUser: p.IsUser,
	}
	sibling.Hand.AddCard(moved)

	p.Hand.AddCard(e.draw())
	sibling.Hand.AddCard(e.draw())

	if moved.IsAce() {
		p.Status = Stand
		sibling.Status = Stand
	} else {
		p.Status = Active
		sibling.Status = Waiting
	}

	e.players = append(e.players, nil)
	copy(e.players[i+2:], e.players[i+1:])
	e.players[i+1] = sibling

	e.logger.Debug("Split", "seat", i, "hands", owner.HandCount, "first", p.Hand, "second", sibling.Hand)
	e.publish(OpSplit, i)
}

// DealerPlay draws for the dealer until the total reaches 17
func (e *Engine) DealerPlay() {
	for e.dealer.Total() < dealerStandsOn {
		e.dealer.AddCard(e.draw())
	}
	e.logger.Debug("Dealer played", "hand", e.dealer, "total", e.dealer.Total())
	e.publish(OpDealerPlay, -1)
}

// EndRound settles every dealt hand against the dealer total. Payouts go to
// the owning seat. Once every hand is paid, losing hands whose owner has no
// money left become Bankrupt.
func (e *Engine) EndRound() {
	dealerTotal := e.dealer.Total()
	dealerBust := e.dealer.IsBust()

	for _, p := range e.players {
		if p.Status == Bankrupt || p.Hand.Len() == 0 {
			continue
		}
		owner := e.ownerOf(p)
		wager := p.Hand.Wager()

		if p.Status == Bust {
			p.Status = Lost
			continue
		}

		total := p.Hand.Total()
		switch {
		case dealerBust || total > dealerTotal:
			if e.paysBlackjack(p.Hand) {
				owner.Bankroll += wager * 5 / 2
				p.Status = Blackjack
			} else {
				owner.Bankroll += wager * 2
				p.Status = Won
			}
		case total == dealerTotal:
			owner.Bankroll += wager
			p.Status = Pushed
		default:
			p.Status = Lost
		}
	}

	for _, p := range e.players {
		if p.Status == Lost && e.ownerOf(p).Bankroll <= 0 {
			p.Status = Bankrupt
		}
	}

	e.logger.Debug("Round settled", "dealer", dealerTotal, "dealerBust", dealerBust)
	e.publish(OpEndRound, -1)
}

func (e *Engine) paysBlackjack(h *Hand) bool {
	if e.splitBlackjack {
		return h.IsTwoCardTwentyOne()
	}
	return h.IsNatural()
}

// ClearHands empties the dealer hand, removes every split hand and gives each
// original seat a fresh hand carrying its last wager. Seats that are not
// bankrupt go back to Waiting.
func (e *Engine) ClearHands() {
	e.dealer = NewHand(0)

	kept := e.players[:0]
	for _, p := range e.players {
		if !p.IsOriginal() {
			continue
		}
		p.Hand = NewHand(p.Hand.Wager())
		p.HandCount = 1
		if p.Status != Bankrupt {
			p.Status = Waiting
		}
		kept = append(kept, p)
	}
	clear(e.players[len(kept):])
	e.players = kept

	e.publish(OpClearHands, -1)
}

// SetPlayerBet takes amount from the seat's bankroll and places it on the
// hand. Bankrupt seats keep their status.
func (e *Engine) SetPlayerBet(i int, amount int) {
	p := e.at(i)
	p.Bankroll -= amount
	p.Hand.SetWager(amount)
	if p.Status != Bankrupt {
		p.Status = BetSubmitted
	}
	e.logger.Debug("Bet", "seat", i, "amount", amount, "bankroll", p.Bankroll)
	e.publish(OpBet, i)
}

// SetPlayerActive marks the seat as the one to act
func (e *Engine) SetPlayerActive(i int) {
	e.at(i).Status = Active
	e.publish(OpActivate, i)
}

// Player returns a snapshot of the hand at index i
func (e *Engine) Player(i int) PlayerSnapshot {
	return e.snapshotPlayer(i, e.at(i))
}

// OriginalOwner returns a snapshot of the original seat owning hand i
func (e *Engine) OriginalOwner(i int) PlayerSnapshot {
	owner := e.ownerOf(e.at(i))
	idx, _ := e.IndexOf(owner.ID)
	return e.snapshotPlayer(idx, owner)
}

// IndexOf returns the current index of a seat ID
func (e *Engine) IndexOf(id SeatID) (int, bool) {
	for i, p := range e.players {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// DealerHand returns a snapshot of the dealer hand
func (e *Engine) DealerHand() HandSnapshot {
	return snapshotHand(e.dealer)
}

// DealerUpcard returns the dealer's face up card, the second card dealt. The
// first is the hole card.
func (e *Engine) DealerUpcard() (deck.Card, bool) {
	if e.dealer.Len() < 2 {
		return deck.Card{}, false
	}
	return e.dealer.cards[1], true
}

// SeatCount returns the number of hands at the table, split hands included
func (e *Engine) SeatCount() int {
	return len(e.players)
}

// AllPlayers returns a snapshot of every hand in seat order
func (e *Engine) AllPlayers() []PlayerSnapshot {
	out := make([]PlayerSnapshot, len(e.players))
	for i, p := range e.players {
		out[i] = e.snapshotPlayer(i, p)
	}
	return out
}

// Snapshot returns the whole table
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Players: e.AllPlayers(),
		Dealer:  e.DealerHand(),
	}
}

// ShoeRemaining returns the number of cards left before the end of the shoe
func (e *Engine) ShoeRemaining() int {
	return e.shoe.Remaining()
}

func (e *Engine) snapshotPlayer(i int, p *Player) PlayerSnapshot {
	owner := e.ownerOf(p)
	ownerIdx := i
	if !p.IsOriginal() {
		ownerIdx, _ = e.IndexOf(owner.ID)
	}
	return PlayerSnapshot{
		Index:      i,
		ID:         p.ID,
		Owner:      p.Owner,
		OwnerIndex: ownerIdx,
		Name:       p.Name,
		Hand:       snapshotHand(p.Hand),
		Bankroll:   owner.Bankroll,
		IsUser:     p.IsUser,
		Status:     p.Status,
		IsOriginal: p.IsOriginal(),
		HandCount:  owner.HandCount,
	}
}

func (e *Engine) publish(op Op, seat int) {
	e.seq++
	e.bus.Publish(NewStateEvent(e.seq, op, seat, e.Snapshot()))
}

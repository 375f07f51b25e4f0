package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is returned when an action breaks the rules of the
	// table: not enough money, the wrong number of cards, a split without a
	// pair, or a seat that cannot act.
	ErrInvalidAction = errors.New("invalid action")

	// ErrSeatOutOfRange is returned for a seat index the table does not have.
	ErrSeatOutOfRange = errors.New("seat out of range")
)

// Table is the validating front of an Engine. Its seat actions check every
// precondition the Engine leaves to its caller and return an error instead of
// mutating state when one fails. Round level operations (DealInitialCards,
// DealerPlay, EndRound, ClearHands) and queries are the Engine's own.
type Table struct {
	*Engine
}

// NewTable wraps engine
func NewTable(engine *Engine) *Table {
	return &Table{Engine: engine}
}

func (t *Table) seat(i int) (*Player, error) {
	if i < 0 || i >= len(t.players) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSeatOutOfRange, i, len(t.players))
	}
	return t.players[i], nil
}

func (t *Table) actor(i int, action string) (*Player, error) {
	p, err := t.seat(i)
	if err != nil {
		return nil, err
	}
	if p.Hand.Len() < 2 {
		return nil, fmt.Errorf("%w: cannot %s before the deal", ErrInvalidAction, action)
	}
	if p.Status != Active {
		return nil, fmt.Errorf("%w: cannot %s, seat %d is %s", ErrInvalidAction, action, i, p.Status)
	}
	return p, nil
}

// Bet places amount on an original seat's hand
func (t *Table) Bet(i int, amount int) error {
	p, err := t.seat(i)
	if err != nil {
		return err
	}
	switch {
	case !p.IsOriginal():
		return fmt.Errorf("%w: seat %d is a split hand", ErrInvalidAction, i)
	case p.Status == Bankrupt:
		return fmt.Errorf("%w: seat %d is bankrupt", ErrInvalidAction, i)
	case p.Status != Waiting:
		return fmt.Errorf("%w: seat %d already %s", ErrInvalidAction, i, p.Status)
	case amount <= 0:
		return fmt.Errorf("%w: bet must be positive, got %d", ErrInvalidAction, amount)
	case amount > p.Bankroll:
		return fmt.Errorf("%w: bet %d exceeds bankroll %d", ErrInvalidAction, amount, p.Bankroll)
	}
	t.Engine.SetPlayerBet(i, amount)
	return nil
}

// Activate makes a dealt, waiting hand the one to act
func (t *Table) Activate(i int) error {
	p, err := t.seat(i)
	if err != nil {
		return err
	}
	if p.Status != Waiting || p.Hand.Len() < 2 {
		return fmt.Errorf("%w: seat %d is %s", ErrInvalidAction, i, p.Status)
	}
	t.Engine.SetPlayerActive(i)
	return nil
}

// Hit draws a card for the seat
func (t *Table) Hit(i int) error {
	if _, err := t.actor(i, "hit"); err != nil {
		return err
	}
	t.Engine.Hit(i)
	return nil
}

// Stand ends the seat's turn
func (t *Table) Stand(i int) error {
	if _, err := t.actor(i, "stand"); err != nil {
		return err
	}
	t.Engine.Stand(i)
	return nil
}

// DoubleDown doubles the wager on a two card hand and draws one card
func (t *Table) DoubleDown(i int) error {
	if err := t.checkDouble(i); err != nil {
		return err
	}
	t.Engine.DoubleDown(i)
	return nil
}

// Split splits a pair into two hands
func (t *Table) Split(i int) error {
	if err := t.checkSplit(i); err != nil {
		return err
	}
	t.Engine.Split(i)
	return nil
}

// CanDouble reports whether DoubleDown would be accepted
func (t *Table) CanDouble(i int) bool {
	return t.checkDouble(i) == nil
}

// CanSplit reports whether Split would be accepted
func (t *Table) CanSplit(i int) bool {
	return t.checkSplit(i) == nil
}

func (t *Table) checkDouble(i int) error {
	p, err := t.actor(i, "double down")
	if err != nil {
		return err
	}
	if n := p.Hand.Len(); n != 2 {
		return fmt.Errorf("%w: double down needs two cards, hand has %d", ErrInvalidAction, n)
	}
	return t.checkFunds(p, "double down")
}

func (t *Table) checkSplit(i int) error {
	p, err := t.actor(i, "split")
	if err != nil {
		return err
	}
	if !p.Hand.IsPair() {
		return fmt.Errorf("%w: split needs a pair, hand is %s", ErrInvalidAction, p.Hand)
	}
	return t.checkFunds(p, "split")
}

func (t *Table) checkFunds(p *Player, action string) error {
	owner := t.ownerOf(p)
	if owner.Bankroll < p.Hand.Wager() {
		return fmt.Errorf("%w: %s needs %d, bankroll is %d", ErrInvalidAction, action, p.Hand.Wager(), owner.Bankroll)
	}
	return nil
}

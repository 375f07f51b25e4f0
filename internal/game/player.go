package game

// SeatID identifies a hand for the lifetime of a game. IDs are never reused,
// so split hands can name their owning seat without index arithmetic.
type SeatID int

// Player is one hand at the table. Original seats own a bankroll; hands made
// by splitting point at their owner and keep a zero bankroll of their own.
type Player struct {
	ID     SeatID
	Owner  SeatID
	Name   string
	Hand   *Hand
	IsUser bool
	Status Status

	// Bankroll is only meaningful on an original seat.
	Bankroll int

	// HandCount is the number of hands an original seat controls this round.
	HandCount int
}

// IsOriginal reports whether this is a seat's own hand rather than a split
func (p *Player) IsOriginal() bool {
	return p.ID == p.Owner
}

// SeatConfig describes a seat when a game is created
type SeatConfig struct {
	Name     string
	Bankroll int
	Wager    int
	IsUser   bool
}

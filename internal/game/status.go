package game

import (
	"fmt"
	"strings"
)

// Status is where a seat is in the round lifecycle:
//
//	Waiting -> BetSubmitted -> Active -> {Stand | Bust}
//	        -> {Won | Lost | Pushed | Blackjack} -> {Bankrupt | Waiting}
//
// Only Engine operations move a seat between statuses.
type Status int

const (
	Waiting Status = iota
	BetSubmitted
	Active
	Stand
	Bust
	Pushed
	Won
	Blackjack
	Lost
	Bankrupt
)

// Statuses lists every status in lifecycle order
var Statuses = [...]Status{Waiting, BetSubmitted, Active, Stand, Bust, Pushed, Won, Blackjack, Lost, Bankrupt}

// String returns the display label of the status
func (s Status) String() string {
	switch s {
	case Waiting:
		return "Waiting"
	case BetSubmitted:
		return "Bet Submitted"
	case Active:
		return "Active"
	case Stand:
		return "Stood"
	case Bust:
		return "Bust"
	case Pushed:
		return "Pushed"
	case Won:
		return "Won"
	case Blackjack:
		return "Blackjack"
	case Lost:
		return "Lost"
	case Bankrupt:
		return "Bankrupt"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsSettled reports whether the status is a settlement outcome
func (s Status) IsSettled() bool {
	switch s {
	case Pushed, Won, Blackjack, Lost, Bankrupt:
		return true
	}
	return false
}

// TurnOver reports whether a hand can take no further action this round
func (s Status) TurnOver() bool {
	return s == Stand || s == Bust || s.IsSettled()
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus parses a status display label, ignoring case
func ParseStatus(label string) (Status, error) {
	label = strings.TrimSpace(label)
	for _, s := range Statuses {
		if strings.EqualFold(s.String(), label) {
			return s, nil
		}
	}
	return Waiting, fmt.Errorf("unknown status %q", label)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

package controller

import "fmt"

// Phase is where the table is in the round
type Phase int

const (
	Idle Phase = iota
	Betting
	Dealing
	PlayerTurns
	DealerTurn
	Settled
	Over
)

var phases = [...]Phase{Idle, Betting, Dealing, PlayerTurns, DealerTurn, Settled, Over}

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Betting:
		return "betting"
	case Dealing:
		return "dealing"
	case PlayerTurns:
		return "player_turns"
	case DealerTurn:
		return "dealer_turn"
	case Settled:
		return "settled"
	case Over:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePhase parses a phase name as written by MarshalText
func ParsePhase(name string) (Phase, error) {
	for _, p := range phases {
		if p.String() == name {
			return p, nil
		}
	}
	return Idle, fmt.Errorf("unknown phase %q", name)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

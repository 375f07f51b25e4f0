package strategy

import (
	"fmt"
	"strings"
)

// Action is a move the advisor can recommend
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// Actions lists every action in display order
var Actions = [...]Action{Hit, Stand, Double, Split}

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Short returns the one letter chart code for the action
func (a Action) Short() string {
	switch a {
	case Hit:
		return "H"
	case Stand:
		return "S"
	case Double:
		return "D"
	case Split:
		return "P"
	default:
		return "?"
	}
}

// ParseAction parses an action name or its chart letter
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hit", "h":
		return Hit, nil
	case "stand", "s", "stay":
		return Stand, nil
	case "double", "d", "doubledown", "double-down":
		return Double, nil
	case "split", "p":
		return Split, nil
	}
	return Hit, fmt.Errorf("unknown action %q", s)
}

// MarshalText implements encoding.TextMarshaler so actions travel as names
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

const helpText = "Commands: deal, bet <amount>, hit, stand, double, split, hint, new, quit"

// execute parses a typed command. Controller calls run as commands so the
// event loop is never blocked on the controller's lock.
func (m *Model) execute(input string) tea.Cmd {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) > 0 {
		m.AddLogEntry(InfoStyle.Render("> " + strings.Join(parts, " ")))
	}

	if len(parts) == 0 {
		switch {
		case m.userTurn() && m.phase == controller.Betting:
			return m.bet(m.lastBet)
		case m.phase == controller.Idle || m.phase == controller.Settled:
			return m.call(m.ctrl.StartBetting)
		}
		return nil
	}

	cmd, args := parts[0], parts[1:]
	switch cmd {
	case "quit", "q", "exit":
		m.quitting = true
		return nil

	case "help":
		m.AddLogEntry(helpText)
		return nil

	case "deal", "next", "n":
		return m.call(m.ctrl.StartBetting)

	case "bet", "b":
		if len(args) == 0 {
			return m.bet(m.lastBet)
		}
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("not an amount: %q", args[0])))
			return nil
		}
		return m.bet(amount)

	case "hint", "?":
		ctrl := m.ctrl
		return func() tea.Msg {
			advice, err := ctrl.Hint()
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{text: SuccessStyle.Render(fmt.Sprintf("Hint: %s (%s table)", advice.Action, advice.Kind))}
		}

	case "new":
		if m.restart == nil {
			m.AddLogEntry(ErrorStyle.Render("cannot start a new game here"))
			return nil
		}
		m.gameOver = false
		m.players = nil
		m.dealer = game.HandSnapshot{}
		m.current = -1
		m.AddLogEntry(HeaderStyle.Render("New game"))
		return m.call(m.restart)
	}

	if amount, err := strconv.Atoi(cmd); err == nil {
		return m.bet(amount)
	}

	action, err := strategy.ParseAction(cmd)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("unknown command %q. %s", cmd, helpText)))
		return nil
	}
	ctrl := m.ctrl
	return func() tea.Msg {
		return resultMsg{err: ctrl.Act(action)}
	}
}

func (m *Model) bet(amount int) tea.Cmd {
	m.lastBet = amount
	ctrl := m.ctrl
	return func() tea.Msg {
		return resultMsg{err: ctrl.Bet(amount)}
	}
}

func (m *Model) call(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{err: fn()}
	}
}

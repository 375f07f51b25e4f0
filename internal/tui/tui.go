// Package tui is the terminal table: a Bubble Tea program that renders the
// seats and dealer from controller notifications and turns typed commands
// into controller calls.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// Controller is what the TUI drives. *controller.Controller satisfies it.
type Controller interface {
	StartBetting() error
	Bet(amount int) error
	Act(action strategy.Action) error
	Hint() (strategy.Advice, error)
}

// resultMsg reports the outcome of a command run off the event loop
type resultMsg struct {
	text string
	err  error
}

const defaultBet = 10

// Model is the Bubble Tea model for the table
type Model struct {
	ctrl    Controller
	restart func() error
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model
	focusedPane int // 0 = log, 1 = input

	// Table state, built only from notifications
	players     []game.PlayerSnapshot
	dealer      game.HandSnapshot
	holeVisible bool
	phase       controller.Phase
	round       int
	current     int
	gameOver    bool
	lastBet     int

	gameLog  []string
	quitting bool

	width       int
	height      int
	initialized bool
}

// NewModel creates a model driving ctrl. restart, if set, backs the "new"
// command.
func NewModel(ctrl Controller, restart func() error, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "deal, bet 10, hit, stand, double, split, hint, new, quit"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		ctrl:        ctrl,
		restart:     restart,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
		current:     -1,
		lastBet:     defaultBet,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case NotificationMsg:
		m.apply(msg.Notification)

	case resultMsg:
		if msg.err != nil {
			m.AddLogEntry(ErrorStyle.Render(msg.err.Error()))
		} else if msg.text != "" {
			m.AddLogEntry(msg.text)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := m.actionInput.Value()
				m.actionInput.SetValue("")
				if cmd := m.execute(input); cmd != nil {
					cmds = append(cmds, cmd)
				}
				if m.quitting {
					return m, tea.Quit
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// apply folds a notification into the table state
func (m *Model) apply(n controller.Notification) {
	m.phase = n.Phase
	m.round = n.Round

	switch n.Kind {
	case controller.DealerCardShown:
		m.holeVisible = n.HoleVisible
		if n.Phase == controller.Betting {
			m.players = m.players[:0]
			m.current = -1
			m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf("Round %d", n.Round+1)))
		}

	case controller.PlayerUpdated:
		m.setPlayer(n.Seat, n.Player)

	case controller.TurnChanged:
		m.current = n.Seat
		m.setPlayer(n.Seat, n.Player)
		if n.Player != nil && n.Player.IsUser {
			if n.Phase == controller.Betting {
				m.AddLogEntry(ActionsStyle.Render(fmt.Sprintf("%s, place your bet (bankroll %d)", n.Player.Name, n.Player.Bankroll)))
			} else {
				m.AddLogEntry(ActionsStyle.Render(fmt.Sprintf("%s to act: %s", n.Player.Name, m.formatHand(n.Player.Hand))))
			}
		}

	case controller.DealerUpdated:
		if n.Dealer != nil {
			m.dealer = *n.Dealer
		}
		m.holeVisible = n.HoleVisible

	case controller.BettingEnded:
		m.players = slices.Clone(n.Table)
		m.current = -1
		m.AddLogEntry(InfoStyle.Render("Bets are in"))

	case controller.HandSplit:
		m.setPlayer(n.Seat, n.Player)
		if n.Split != nil {
			at := min(n.Seat+1, len(m.players))
			m.players = slices.Insert(m.players, at, *n.Split)
		}

	case controller.RoundEnded:
		m.players = slices.Clone(n.Table)
		m.current = -1
		m.holeVisible = true
		m.logResults()

	case controller.GameOver:
		m.gameOver = true
		m.AddLogEntry(ErrorStyle.Render("Game over. Type new to play again or quit to leave."))

	case controller.Message:
		m.AddLogEntry(n.Text)
	}
}

func (m *Model) setPlayer(i int, p *game.PlayerSnapshot) {
	if p == nil || i < 0 {
		return
	}
	for len(m.players) <= i {
		m.players = append(m.players, game.PlayerSnapshot{Index: len(m.players)})
	}
	m.players[i] = *p
}

func (m *Model) logResults() {
	m.AddLogEntry(fmt.Sprintf("Dealer: %s", m.formatHand(m.dealer)))
	for _, p := range m.players {
		line := fmt.Sprintf("%s: %s %s", p.Name, m.formatHand(p.Hand), statusStyle(p.Status).Render(p.Status.String()))
		if p.IsOriginal {
			line += fmt.Sprintf(" (bankroll %d)", p.Bankroll)
		}
		m.AddLogEntry(line)
	}
}

// userTurn reports whether the seat due to act is played from the keyboard
func (m *Model) userTurn() bool {
	if m.current < 0 || m.current >= len(m.players) {
		return false
	}
	return m.players[m.current].IsUser && (m.phase == controller.Betting || m.phase == controller.PlayerTurns)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	tableContent := m.renderTablePane()
	tableWidth := max(lipgloss.Width(tableContent), 30)
	paneHeight := max(m.height-actionHeight-4, 1)
	tablePane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(tableWidth).
		Height(paneHeight).
		Render(tableContent)

	logWidth := max(m.width-tableWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, tablePane, logPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderTablePane draws the dealer and every hand
func (m *Model) renderTablePane() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Blackjack • round %d", m.round)))
	b.WriteString("\n\n")
	b.WriteString(HandInfoStyle.Render("Dealer"))
	b.WriteString("  ")
	b.WriteString(m.formatDealer())
	b.WriteString("\n\n")

	for i, p := range m.players {
		name := p.Name
		if i == m.current {
			name = ActiveSeatStyle.Render("▶ " + name)
		} else {
			name = "  " + name
		}
		b.WriteString(name)
		if p.IsOriginal {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("  $%d", p.Bankroll)))
		}
		b.WriteString("\n    ")
		if p.Hand.Len() > 0 {
			b.WriteString(m.formatHand(p.Hand))
			b.WriteString("  ")
		}
		if p.Hand.Wager > 0 {
			b.WriteString(WarningStyle.Render(fmt.Sprintf("bet %d", p.Hand.Wager)))
			b.WriteString("  ")
		}
		b.WriteString(statusStyle(p.Status).Render(p.Status.String()))
		b.WriteString("\n")
	}
	return b.String()
}

// renderActionPane shows what the user can do and the input
func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch {
	case m.gameOver:
		b.WriteString(ErrorStyle.Render("Game over"))
	case m.userTurn() && m.phase == controller.Betting:
		b.WriteString(ActionsStyle.Render(fmt.Sprintf("Your bet: bet <amount> (enter repeats %d)", m.lastBet)))
	case m.userTurn():
		b.WriteString(ActionsStyle.Render("Actions: [hit] [stand] [double] [split] [hint]"))
	case m.phase == controller.Idle || m.phase == controller.Settled:
		b.WriteString(HandInfoStyle.Render("Press enter to deal"))
	default:
		b.WriteString(HandInfoStyle.Render("Waiting..."))
	}
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, Home/End, Tab to input"
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

func (m *Model) formatDealer() string {
	cards := m.dealer.Cards()
	if len(cards) == 0 {
		return ""
	}
	if m.holeVisible {
		return m.formatHand(m.dealer)
	}
	shown := m.dealer.Concealed()
	return "[" + HiddenCardStyle.Render("??") + " " + strings.Trim(formatCards(shown.Cards()), "[]") + "]" +
		fmt.Sprintf(" %d", shown.Total())
}

func (m *Model) formatHand(h game.HandSnapshot) string {
	if h.Len() == 0 {
		return "[]"
	}
	total := fmt.Sprintf("%d", h.Total())
	if h.IsSoft() {
		total = "soft " + total
	}
	return formatCards(h.Cards()) + " " + total
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// AddLogEntry appends a line to the log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the log lines
func (m *Model) Log() []string {
	return slices.Clone(m.gameLog)
}

// Players returns the hands as last notified
func (m *Model) Players() []game.PlayerSnapshot {
	return slices.Clone(m.players)
}

// Run starts a full screen program for ctrl. The bridge must already be
// registered as a listener on the controller.
func Run(m *Model, bridge *Bridge) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go bridge.Run(p)
	defer bridge.Close()

	_, err := p.Run()
	return err
}

// Package controller sequences a Blackjack table: who bets, whose turn it
// is, when bots act and when the dealer plays. Delays between automatic
// steps run on a quartz clock and exist only for presentation pacing.
package controller

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

var (
	// ErrWrongPhase is returned when a call does not fit the current phase.
	ErrWrongPhase = errors.New("wrong phase")
	// ErrNotUserTurn is returned when a user action arrives while a bot seat
	// is due to act.
	ErrNotUserTurn = errors.New("not a user's turn")
	// ErrNoGame is returned before NewGame has been called.
	ErrNoGame = errors.New("no game in progress")
)

// Seat describes one seat of a new game. Seats without an Agent are played
// by a user.
type Seat struct {
	Name     string
	Bankroll int
	Wager    int
	Agent    bot.Agent
}

// Controller drives one table. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	clock      quartz.Clock
	logger     *log.Logger
	pacing     Pacing
	listeners  []Listener
	engineOpts []game.Option

	table   *game.Table
	agents  map[game.SeatID]bot.Agent
	phase   Phase
	current int
	round   int
	holeUp  bool

	gen    uint64
	timers map[*quartz.Timer]struct{}
}

// New creates a controller with no game
func New(opts ...Option) *Controller {
	c := &Controller{
		current: -1,
		timers:  make(map[*quartz.Timer]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.applyDefaults()
	c.logger = c.logger.WithPrefix("controller")
	return c
}

// AddListener registers a listener for notifications
func (c *Controller) AddListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// NewGame cancels anything pending and seats a fresh table
func (c *Controller) NewGame(seats []Seat, decks int, mode deck.Mode) error {
	if len(seats) == 0 {
		return fmt.Errorf("a game needs at least one seat")
	}
	if decks < 1 {
		return fmt.Errorf("a game needs at least one deck, got %d", decks)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelTimers()

	configs := make([]game.SeatConfig, len(seats))
	for i, s := range seats {
		if s.Bankroll <= 0 {
			return fmt.Errorf("seat %q needs a positive bankroll", s.Name)
		}
		configs[i] = game.SeatConfig{
			Name:     s.Name,
			Bankroll: s.Bankroll,
			Wager:    s.Wager,
			IsUser:   s.Agent == nil,
		}
	}

	opts := append([]game.Option{game.WithLogger(c.logger)}, c.engineOpts...)
	engine := game.NewEngine(configs, decks, mode, opts...)

	c.table = game.NewTable(engine)
	c.agents = make(map[game.SeatID]bot.Agent)
	for i, s := range seats {
		if s.Agent != nil {
			c.agents[engine.Player(i).ID] = s.Agent
		}
	}
	c.phase = Idle
	c.current = -1
	c.round = 0
	c.holeUp = false

	c.logger.Info("New game", "seats", len(seats), "decks", decks, "mode", mode)
	return nil
}

// Stop cancels every pending delayed step. The table is left as it is.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimers()
}

// StartBetting clears the table and opens betting for a new round
func (c *Controller) StartBetting() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table == nil {
		return ErrNoGame
	}
	if c.phase != Idle && c.phase != Settled {
		return fmt.Errorf("%w: cannot start betting during %s", ErrWrongPhase, c.phase)
	}

	c.current = -1
	c.holeUp = false
	c.table.ClearHands()
	c.phase = Betting

	c.notify(Notification{Kind: DealerCardShown})
	for i := range c.table.SeatCount() {
		c.notifyPlayer(PlayerUpdated, i)
	}
	c.notifyDealer()

	c.advanceToNextBet()
	return nil
}

// Bet places the current user seat's bet
func (c *Controller) Bet(amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.userTurn(Betting); err != nil {
		return err
	}
	if err := c.table.Bet(c.current, amount); err != nil {
		return err
	}
	c.advanceToNextBet()
	return nil
}

// Hit draws a card for the current user hand
func (c *Controller) Hit() error {
	return c.userAction(strategy.Hit)
}

// Stand ends the current user hand's turn
func (c *Controller) Stand() error {
	return c.userAction(strategy.Stand)
}

// DoubleDown doubles the current user hand's wager and draws one card
func (c *Controller) DoubleDown() error {
	return c.userAction(strategy.Double)
}

// Split splits the current user hand's pair
func (c *Controller) Split() error {
	return c.userAction(strategy.Split)
}

// Act performs action on the current user hand
func (c *Controller) Act(action strategy.Action) error {
	return c.userAction(action)
}

func (c *Controller) userAction(action strategy.Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.userTurn(PlayerTurns); err != nil {
		return err
	}
	return c.apply(action)
}

func (c *Controller) userTurn(phase Phase) error {
	if c.table == nil {
		return ErrNoGame
	}
	if c.phase != phase {
		return fmt.Errorf("%w: %s", ErrWrongPhase, c.phase)
	}
	if c.current < 0 || c.current >= c.table.SeatCount() || !c.table.Player(c.current).IsUser {
		return ErrNotUserTurn
	}
	return nil
}

// apply performs an action on the current hand and moves the turn on
func (c *Controller) apply(action strategy.Action) error {
	i := c.current

	var err error
	switch action {
	case strategy.Hit:
		err = c.table.Hit(i)
	case strategy.Stand:
		err = c.table.Stand(i)
	case strategy.Double:
		err = c.table.DoubleDown(i)
	case strategy.Split:
		err = c.table.Split(i)
	default:
		err = fmt.Errorf("%w: unknown action %v", game.ErrInvalidAction, action)
	}
	if err != nil {
		return err
	}

	if action == strategy.Split {
		first, second := c.table.Player(i), c.table.Player(i+1)
		c.notify(Notification{Kind: HandSplit, Seat: i, Player: &first, Split: &second})
		c.message("%s: split", first.Name)
	}
	c.checkTurnEnd()
	return nil
}

func (c *Controller) checkTurnEnd() {
	p := c.table.Player(c.current)
	c.notifyPlayer(PlayerUpdated, c.current)

	switch p.Status {
	case game.Bust:
		c.message("%s: bust with %d", p.Name, p.Hand.Total())
		c.advanceToNextPlayer()
	case game.Stand:
		c.advanceToNextPlayer()
	default:
		if !p.IsUser {
			c.botMove()
		}
	}
}

func (c *Controller) advanceToNextBet() {
	if c.current >= 0 {
		c.notifyPlayer(PlayerUpdated, c.current)
	}

	c.current++
	for c.current < c.table.SeatCount() && c.table.Player(c.current).Status == game.Bankrupt {
		c.current++
	}

	if c.current >= c.table.SeatCount() {
		c.notify(Notification{Kind: BettingEnded, Table: c.table.AllPlayers()})
		c.dealCards()
		return
	}

	p := c.table.Player(c.current)
	c.notifyPlayer(TurnChanged, c.current)
	if !p.IsUser {
		c.botBet()
	}
}

func (c *Controller) botBet() {
	seat := c.current
	p := c.table.Player(seat)
	amount := min(max(c.agentFor(p).Bet(p), 1), p.Bankroll)

	c.schedule(c.pacing.BotBet, func() {
		if err := c.table.Bet(seat, amount); err != nil {
			c.logger.Error("Bot bet rejected", "seat", seat, "amount", amount, "error", err)
		}
		c.advanceToNextBet()
	})
}

func (c *Controller) dealCards() {
	c.phase = Dealing
	c.current = -1
	c.holeUp = false
	c.table.DealInitialCards()

	c.notify(Notification{Kind: DealerCardShown})
	for i := range c.table.SeatCount() {
		c.notifyPlayer(PlayerUpdated, i)
	}
	c.notifyDealer()

	c.schedule(c.pacing.Deal, func() {
		c.phase = PlayerTurns
		c.advanceToNextPlayer()
	})
}

func (c *Controller) advanceToNextPlayer() {
	c.current++
	for c.current < c.table.SeatCount() {
		status := c.table.Player(c.current).Status
		if status != game.Bankrupt && status != game.Stand {
			break
		}
		c.current++
	}

	if c.current >= c.table.SeatCount() || c.table.DealerHand().Total() == 21 {
		c.dealerTurn()
		return
	}

	if err := c.table.Activate(c.current); err != nil {
		c.logger.Error("Cannot activate seat", "seat", c.current, "error", err)
		c.advanceToNextPlayer()
		return
	}

	p := c.table.Player(c.current)
	c.notifyPlayer(TurnChanged, c.current)
	if !p.IsUser {
		c.botMove()
	}
}

func (c *Controller) dealerTurn() {
	c.phase = DealerTurn
	c.current = -1

	if c.table.DealerHand().Total() == 21 {
		c.message("Dealer has 21")
	}
	if c.anyStood() {
		c.table.DealerPlay()
	}

	c.holeUp = true
	c.notify(Notification{Kind: DealerCardShown, HoleVisible: true})
	c.notifyDealer()
	if c.table.DealerHand().Total() > 21 {
		c.message("Dealer busts")
	}

	c.schedule(c.pacing.Dealer, c.settle)
}

func (c *Controller) anyStood() bool {
	for _, p := range c.table.AllPlayers() {
		if p.Status == game.Stand {
			return true
		}
	}
	return false
}

func (c *Controller) settle() {
	c.table.EndRound()
	c.round++
	c.phase = Settled

	c.notify(Notification{Kind: RoundEnded, Table: c.table.AllPlayers()})
	c.logger.Debug("Round settled", "round", c.round, "dealer", c.table.DealerHand().Total())

	if c.finished() {
		c.phase = Over
		c.notify(Notification{Kind: GameOver})
		c.logger.Info("Game over", "rounds", c.round)
	}
}

// finished reports whether no seat that matters can play on: every user
// seat is bankrupt, or in a game without users, every seat is.
func (c *Controller) finished() bool {
	users, solventUsers, solvent := 0, 0, 0
	for _, p := range c.table.AllPlayers() {
		if !p.IsOriginal {
			continue
		}
		if p.Status != game.Bankrupt {
			solvent++
		}
		if p.IsUser {
			users++
			if p.Status != game.Bankrupt {
				solventUsers++
			}
		}
	}
	if users > 0 {
		return solventUsers == 0
	}
	return solvent == 0
}

func (c *Controller) botMove() {
	seat := c.current
	p := c.table.Player(seat)
	agent := c.agentFor(p)
	sit := c.situation(seat)
	decision := agent.Decide(sit)

	c.schedule(c.pacing.BotMove, func() {
		action := decision.Action
		if action == strategy.Double && !c.table.CanDouble(seat) {
			action = strategy.Hit
		}
		if action == strategy.Split && !c.table.CanSplit(seat) {
			sit.CanSplit = false
			action = agent.Decide(sit).Action
			if action == strategy.Split {
				action = strategy.Hit
			}
		}

		c.logger.Debug("Bot acts", "seat", seat, "name", p.Name, "action", action, "reasoning", decision.Reasoning)
		if err := c.apply(action); err != nil {
			c.logger.Error("Bot action rejected, standing", "seat", seat, "action", action, "error", err)
			if err := c.apply(strategy.Stand); err != nil {
				c.logger.Error("Bot cannot stand", "seat", seat, "error", err)
			}
		}
	})
}

func (c *Controller) situation(seat int) bot.Situation {
	upcard, _ := c.table.DealerUpcard()
	return bot.Situation{
		Seat:      c.table.Player(seat),
		Upcard:    upcard,
		CanDouble: c.table.CanDouble(seat),
		CanSplit:  c.table.CanSplit(seat),
	}
}

func (c *Controller) agentFor(p game.PlayerSnapshot) bot.Agent {
	if a, ok := c.agents[p.Owner]; ok {
		return a
	}
	return bot.NewStrategyBot(c.logger)
}

// Hint returns the basic strategy advice for the hand due to act
func (c *Controller) Hint() (strategy.Advice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table == nil {
		return strategy.Advice{}, ErrNoGame
	}
	if c.phase != PlayerTurns || c.current < 0 {
		return strategy.Advice{}, fmt.Errorf("%w: no hand is acting", ErrWrongPhase)
	}
	upcard, ok := c.table.DealerUpcard()
	if !ok {
		return strategy.Advice{}, fmt.Errorf("%w: dealer has no upcard", ErrWrongPhase)
	}
	hand := c.table.Player(c.current).Hand
	if c.table.CanSplit(c.current) {
		return strategy.Advise(hand, upcard)
	}
	return strategy.AdviseWithoutSplit(hand, upcard)
}

// Phase returns the current phase
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Current returns the index of the seat due to bet or act, or -1
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Round returns the number of settled rounds
func (c *Controller) Round() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// Snapshot returns the table, and whether a game exists
func (c *Controller) Snapshot() (game.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		return game.Snapshot{}, false
	}
	return c.table.Snapshot(), true
}

// HoleVisible reports whether the dealer's hole card has been revealed
func (c *Controller) HoleVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holeUp
}

// schedule runs fn after d, or immediately when d is zero. Delayed steps
// scheduled before the last Stop or NewGame never run.
func (c *Controller) schedule(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}

	gen := c.gen
	var t *quartz.Timer
	t = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.timers, t)
		if gen != c.gen {
			return
		}
		fn()
	}, "controller", "step")
	c.timers[t] = struct{}{}
}

func (c *Controller) cancelTimers() {
	c.gen++
	for t := range c.timers {
		t.Stop()
	}
	clear(c.timers)
}

func (c *Controller) notifyPlayer(kind Kind, i int) {
	p := c.table.Player(i)
	c.notify(Notification{Kind: kind, Seat: i, Player: &p})
}

func (c *Controller) notifyDealer() {
	d := c.table.DealerHand()
	c.notify(Notification{Kind: DealerUpdated, Dealer: &d, HoleVisible: c.holeUp})
}

func (c *Controller) message(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	c.notify(Notification{Kind: Message, Text: text})
}

func (c *Controller) notify(n Notification) {
	n.Phase = c.phase
	n.Round = c.round
	if n.Kind != PlayerUpdated && n.Kind != TurnChanged && n.Kind != HandSplit {
		n.Seat = -1
	}
	for _, l := range c.listeners {
		l.Notify(n)
	}
}

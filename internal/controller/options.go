package controller

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
)

// Pacing holds the presentation delays between automatic steps. A zero delay
// runs the step immediately.
type Pacing struct {
	BotBet  time.Duration
	BotMove time.Duration
	Deal    time.Duration
	Dealer  time.Duration
}

// DefaultPacing matches the delays of the desktop table
var DefaultPacing = Pacing{
	BotBet:  500 * time.Millisecond,
	BotMove: time.Second,
	Deal:    time.Second,
	Dealer:  time.Second,
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the clock delayed steps are scheduled on
func WithClock(clock quartz.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithPacing sets the delays between automatic steps
func WithPacing(p Pacing) Option {
	return func(c *Controller) {
		c.pacing = p
	}
}

// WithListener adds a listener for notifications
func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, l)
	}
}

// WithEngineOptions passes options through to every Engine the controller
// creates
func WithEngineOptions(opts ...game.Option) Option {
	return func(c *Controller) {
		c.engineOpts = append(c.engineOpts, opts...)
	}
}

func (c *Controller) applyDefaults() {
	if c.clock == nil {
		c.clock = quartz.NewReal()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
}

package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// Option configures an Engine during creation.
type Option func(*engineConfig)

type engineConfig struct {
	rng            *rand.Rand
	shoe           *deck.Shoe
	logger         *log.Logger
	bus            EventBus
	splitBlackjack bool
}

// WithRNG sets the random source used to build the shoe. Without it the
// engine seeds one from the clock.
func WithRNG(rng *rand.Rand) Option {
	return func(c *engineConfig) {
		c.rng = rng
	}
}

// WithShoe supplies a prebuilt shoe, overriding the deck count, mode and RNG.
func WithShoe(shoe *deck.Shoe) Option {
	return func(c *engineConfig) {
		c.shoe = shoe
	}
}

// WithLogger sets the logger for debug output
func WithLogger(logger *log.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithEventBus sets the bus state events are published on
func WithEventBus(bus EventBus) Option {
	return func(c *engineConfig) {
		c.bus = bus
	}
}

// WithSplitBlackjack pays 3:2 on any two card 21, including hands made by
// splitting. By default only a dealt natural pays Blackjack.
func WithSplitBlackjack(enabled bool) Option {
	return func(c *engineConfig) {
		c.splitBlackjack = enabled
	}
}

func newEngineConfig(decks int, mode deck.Mode, opts []Option) *engineConfig {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}
	if cfg.shoe == nil {
		if cfg.rng == nil {
			cfg.rng = randutil.New(randutil.Seed(nil))
		}
		cfg.shoe = deck.NewShoe(cfg.rng, decks, mode)
	}
	return cfg
}

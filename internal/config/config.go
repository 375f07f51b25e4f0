// Package config loads the HCL file describing a table, its pacing, the
// server and the event sink.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// Config represents the complete configuration file
type Config struct {
	Table  TableConfig   `hcl:"table,block"`
	Pacing *PacingConfig `hcl:"pacing,block"`
	Server *ServerConfig `hcl:"server,block"`
	NATS   *NATSConfig   `hcl:"nats,block"`
	Log    *LogConfig    `hcl:"log,block"`
}

// TableConfig defines the table and who sits at it
type TableConfig struct {
	Decks          int          `hcl:"decks,optional"`
	Mode           string       `hcl:"mode,optional"`
	SplitBlackjack bool         `hcl:"split_blackjack,optional"`
	Seats          []SeatConfig `hcl:"seat,block"`
}

// SeatConfig defines one seat. A seat is played by a user unless it names a
// bot kind.
type SeatConfig struct {
	Name     string `hcl:"name,label"`
	Bankroll int    `hcl:"bankroll,optional"`
	Bot      string `hcl:"bot,optional"`
}

// PacingConfig holds the delays between automatic steps as Go durations
type PacingConfig struct {
	BotBet  string `hcl:"bot_bet,optional"`
	BotMove string `hcl:"bot_move,optional"`
	Deal    string `hcl:"deal,optional"`
	Dealer  string `hcl:"dealer,optional"`
}

// ServerConfig contains server-level configuration
type ServerConfig struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// NATSConfig configures the event sink
type NATSConfig struct {
	Enabled bool   `hcl:"enabled,optional"`
	URL     string `hcl:"url,optional"`
	Subject string `hcl:"subject,optional"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
	File   string `hcl:"file,optional"`
}

const (
	DefaultBankroll    = 1000
	DefaultDecks       = 6
	DefaultAddress     = "localhost"
	DefaultPort        = 8080
	DefaultNATSURL     = "nats://127.0.0.1:4222"
	DefaultNATSSubject = "blackjack.events"
	maxSeats           = 7
)

// Default returns the configuration used when no file is given: one user
// and two basic strategy bots at a six deck table.
func Default() *Config {
	c := &Config{
		Table: TableConfig{
			Seats: []SeatConfig{
				{Name: "You"},
				{Name: "Ada", Bot: string(bot.KindStrategy)},
				{Name: "Max", Bot: string(bot.KindDealer)},
			},
		},
	}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source, applies defaults and validates the result
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	c.Table.applyDefaults()

	if c.Pacing == nil {
		c.Pacing = &PacingConfig{}
	}
	if c.Pacing.BotBet == "" {
		c.Pacing.BotBet = controller.DefaultPacing.BotBet.String()
	}
	if c.Pacing.BotMove == "" {
		c.Pacing.BotMove = controller.DefaultPacing.BotMove.String()
	}
	if c.Pacing.Deal == "" {
		c.Pacing.Deal = controller.DefaultPacing.Deal.String()
	}
	if c.Pacing.Dealer == "" {
		c.Pacing.Dealer = controller.DefaultPacing.Dealer.String()
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.NATS == nil {
		c.NATS = &NATSConfig{}
	}
	if c.NATS.URL == "" {
		c.NATS.URL = DefaultNATSURL
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = DefaultNATSSubject
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Table.Validate(); err != nil {
		return err
	}

	if _, err := c.Pacing.Durations(); err != nil {
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	return nil
}

func (t *TableConfig) applyDefaults() {
	if t.Decks == 0 {
		t.Decks = DefaultDecks
	}
	if t.Mode == "" {
		t.Mode = deck.Random.String()
	}
	for i := range t.Seats {
		if t.Seats[i].Bankroll == 0 {
			t.Seats[i].Bankroll = DefaultBankroll
		}
	}
}

// Validate checks the table and its seats
func (t *TableConfig) Validate() error {
	if t.Decks < 1 || t.Decks > 8 {
		return fmt.Errorf("table: decks must be between 1 and 8, got %d", t.Decks)
	}
	if _, err := deck.ParseMode(t.Mode); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if len(t.Seats) == 0 {
		return fmt.Errorf("table: at least one seat must be configured")
	}
	if len(t.Seats) > maxSeats {
		return fmt.Errorf("table: at most %d seats, got %d", maxSeats, len(t.Seats))
	}

	names := make(map[string]bool)
	for _, seat := range t.Seats {
		if seat.Name == "" {
			return fmt.Errorf("table: every seat needs a name")
		}
		if names[seat.Name] {
			return fmt.Errorf("seat %s: duplicate name", seat.Name)
		}
		names[seat.Name] = true
		if seat.Bankroll <= 0 {
			return fmt.Errorf("seat %s: bankroll must be positive", seat.Name)
		}
		if seat.Bot != "" {
			if _, err := bot.ParseKind(seat.Bot); err != nil {
				return fmt.Errorf("seat %s: %w", seat.Name, err)
			}
		}
	}
	return nil
}

// Normalize fills table defaults and validates the result. It is used for
// tables that arrive outside a config file.
func (t *TableConfig) Normalize() error {
	t.applyDefaults()
	return t.Validate()
}

// ShuffleMode returns the parsed shuffle mode
func (t TableConfig) ShuffleMode() deck.Mode {
	mode, _ := deck.ParseMode(t.Mode)
	return mode
}

// ControllerSeats builds the seats for a new game. Each bot seat gets its own
// agent; random bots draw from a stream derived from seed.
func (t TableConfig) ControllerSeats(seed int64, logger *log.Logger) ([]controller.Seat, error) {
	seats := make([]controller.Seat, len(t.Seats))
	for i, s := range t.Seats {
		seats[i] = controller.Seat{Name: s.Name, Bankroll: s.Bankroll}
		if s.Bot == "" {
			continue
		}
		kind, err := bot.ParseKind(s.Bot)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", s.Name, err)
		}
		agent, err := bot.New(kind, randutil.New(randutil.Derive(seed, i)), logger)
		if err != nil {
			return nil, fmt.Errorf("seat %s: %w", s.Name, err)
		}
		seats[i].Agent = agent
	}
	return seats, nil
}

// Durations parses the pacing into controller delays
func (p *PacingConfig) Durations() (controller.Pacing, error) {
	var out controller.Pacing
	for _, f := range []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"bot_bet", p.BotBet, &out.BotBet},
		{"bot_move", p.BotMove, &out.BotMove},
		{"deal", p.Deal, &out.Deal},
		{"dealer", p.Dealer, &out.Dealer},
	} {
		d, err := time.ParseDuration(f.src)
		if err != nil {
			return controller.Pacing{}, fmt.Errorf("pacing: %s: %w", f.name, err)
		}
		if d < 0 {
			return controller.Pacing{}, fmt.Errorf("pacing: %s must not be negative", f.name)
		}
		*f.dst = d
	}
	return out, nil
}

// Addr returns the full server address
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

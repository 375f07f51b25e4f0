package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/publish"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Mode    string `short:"m" help:"Shuffle mode: random, tutorial or fixed (default from config)"`
	Decks   int    `short:"d" help:"Number of decks in the shoe (default from config)"`
	Seed    *int64 `help:"Deterministic RNG seed (optional)"`
	LogFile string `default:"blackjack.log" help:"Where to write logs while the table is on screen"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	logPath := c.LogFile
	if cfg.Log.File != "" {
		logPath = cfg.Log.File
	}
	logFile, err := shared.OpenLogFile(logPath)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger, err := g.logger(cfg, logFile)
	if err != nil {
		return err
	}

	table := cfg.Table
	if c.Mode != "" {
		table.Mode = c.Mode
	}
	if c.Decks != 0 {
		table.Decks = c.Decks
	}
	if err := table.Normalize(); err != nil {
		return err
	}
	pacing, err := cfg.Pacing.Durations()
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting table", "seed", seed, "mode", table.Mode, "decks", table.Decks, "seats", len(table.Seats))

	bridge := tui.NewBridge()
	opts := []controller.Option{
		controller.WithLogger(logger),
		controller.WithPacing(pacing),
		controller.WithListener(bridge),
		controller.WithEngineOptions(
			game.WithRNG(randutil.New(seed)),
			game.WithSplitBlackjack(table.SplitBlackjack),
		),
	}

	if cfg.NATS.Enabled {
		nc, err := publish.Connect(cfg.NATS.URL, "blackjack-play")
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer drain(nc, logger)
		opts = append(opts, controller.WithListener(publish.NewSink(nc, cfg.NATS.Subject, "local", logger)))
	}

	ctrl := controller.New(opts...)
	defer ctrl.Stop()

	mode := table.ShuffleMode()
	games := 0
	newGame := func() error {
		seats, err := table.ControllerSeats(randutil.Derive(seed, games), logger)
		if err != nil {
			return err
		}
		games++
		return ctrl.NewGame(seats, table.Decks, mode)
	}
	if err := newGame(); err != nil {
		return err
	}

	model := tui.NewModel(ctrl, newGame, logger)
	if mode == deck.Tutorial {
		model.AddLogEntry("Tutorial shoe: the cards follow a fixed script.")
	}
	model.AddLogEntry("Press enter to deal. Type help for commands.")
	return tui.Run(model, bridge)
}

func drain(nc *nats.Conn, logger *log.Logger) {
	if err := nc.Drain(); err != nil {
		logger.Warn("Failed to drain NATS connection", "error", err)
	}
}

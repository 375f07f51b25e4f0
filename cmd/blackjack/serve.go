package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/publish"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
)

type ServeCmd struct {
	Addr  string `help:"Listen address (default from config)"`
	Seed  *int64 `help:"Deterministic RNG seed for session shoes (optional)"`
	NATS  bool   `name:"nats" help:"Publish table notifications to NATS"`
	NoBot bool   `help:"Seat only the user at new tables that do not name seats"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.load(os.Stderr)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}
	pacing, err := cfg.Pacing.Durations()
	if err != nil {
		return err
	}

	table := cfg.Table
	if c.NoBot {
		table.Seats = nil
		for _, s := range cfg.Table.Seats {
			if s.Bot == "" {
				table.Seats = append(table.Seats, s)
			}
		}
		if err := table.Normalize(); err != nil {
			return fmt.Errorf("no user seat left: %w", err)
		}
	}

	seed := randutil.Seed(c.Seed)
	opts := []server.Option{
		server.WithLogger(logger),
		server.WithPacing(pacing),
		server.WithTable(table),
		server.WithSeed(seed),
	}

	if c.NATS || cfg.NATS.Enabled {
		nc, err := publish.Connect(cfg.NATS.URL, "blackjack-server")
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer drain(nc, logger)
		logger.Info("Publishing notifications", "url", cfg.NATS.URL, "subject", cfg.NATS.Subject)
		opts = append(opts, server.WithListenerFactory(func(id string) controller.Listener {
			return publish.NewSink(nc, cfg.NATS.Subject, id, logger)
		}))
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	logger.Info("Serving tables", "addr", addr, "seed", seed)
	return server.NewServer(addr, opts...).Start(ctx)
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Sessions       int           `default:"100" help:"Number of sessions to play"`
	Rounds         int           `default:"1000" help:"Rounds per session"`
	Bots           string        `default:"strategy,dealer,random" help:"Comma separated bot kinds, one per seat"`
	Bankroll       int           `default:"1000" help:"Starting bankroll per seat"`
	Decks          int           `default:"6" help:"Number of decks in the shoe"`
	Mode           string        `default:"random" help:"Shuffle mode: random, tutorial or fixed"`
	SplitBlackjack bool          `help:"Pay 3:2 on two-card 21s after a split"`
	Seed           *int64        `help:"Deterministic RNG seed (optional)"`
	Workers        int           `default:"0" help:"Parallel workers (0 = number of CPUs)"`
	Timeout        time.Duration `default:"0s" help:"Give up after this long (0 = no limit)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	_, logger, err := g.load(os.Stderr)
	if err != nil {
		return err
	}

	bots, err := simulator.ParseBots(c.Bots)
	if err != nil {
		return err
	}
	mode, err := deck.ParseMode(c.Mode)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	seed := randutil.Seed(c.Seed)
	logger.Info("Simulating", "sessions", c.Sessions, "rounds", c.Rounds, "bots", c.Bots, "seed", seed)

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Sessions:       c.Sessions,
		Rounds:         c.Rounds,
		Bots:           bots,
		Bankroll:       c.Bankroll,
		Decks:          c.Decks,
		Mode:           mode,
		SplitBlackjack: c.SplitBlackjack,
		Seed:           seed,
		Workers:        c.Workers,
		Timeout:        c.Timeout,
		Logger:         logger,
	})
	report, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, report)
	fmt.Printf("\nSeed: %d, took %s\n", seed, time.Since(start).Round(time.Millisecond))
	return nil
}

// Package simulator plays many all-bot sessions without pacing and reports
// how each seat's strategy fared in units of its bet.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions       int
	Rounds         int // Rounds per session, fewer if every seat goes broke
	Bots           []bot.Kind
	Bankroll       int
	Decks          int
	Mode           deck.Mode
	SplitBlackjack bool
	Seed           int64
	Workers        int
	Timeout        time.Duration
	Logger         *log.Logger
}

// SeatReport is one seat's results across every session
type SeatReport struct {
	Seat  int
	Kind  bot.Kind
	Stats *statistics.Statistics
}

// Report is the result of a simulation
type Report struct {
	Seats    []SeatReport
	Total    *statistics.Statistics
	Sessions int
	Rounds   int
}

// Simulator runs Blackjack session simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Decks <= 0 {
		config.Decks = 6
	}
	if config.Bankroll <= 0 {
		config.Bankroll = 1000
	}
	return &Simulator{config: config}
}

type sessionResult struct {
	ledger *statistics.Ledger
	rounds int
}

// Run executes the simulation and returns results. Sessions run in parallel,
// each from its own seed derived from Config.Seed, so a report is the same
// for the same seed whatever the worker count.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	cfg := s.config
	if cfg.Sessions <= 0 || cfg.Rounds <= 0 {
		return nil, fmt.Errorf("sessions and rounds must be positive")
	}
	if len(cfg.Bots) == 0 || len(cfg.Bots) > statistics.MaxSeats {
		return nil, fmt.Errorf("between 1 and %d bots required, got %d", statistics.MaxSeats, len(cfg.Bots))
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	results := make([]sessionResult, cfg.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := range cfg.Sessions {
		seed := randutil.Derive(cfg.Seed, i)
		g.Go(func() error {
			res, err := s.playSession(ctx, seed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Total: &statistics.Statistics{}, Sessions: cfg.Sessions}
	for seat, kind := range cfg.Bots {
		stats := &statistics.Statistics{}
		for _, res := range results {
			if st := res.ledger.Seat(seat); st != nil {
				stats.Merge(st)
			}
		}
		report.Seats = append(report.Seats, SeatReport{Seat: seat, Kind: kind, Stats: stats})
		report.Total.Merge(stats)
	}
	for _, res := range results {
		report.Rounds += res.rounds
	}

	if err := report.Total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return report, nil
}

func (s *Simulator) playSession(ctx context.Context, seed int64) (sessionResult, error) {
	cfg := s.config
	ledger := statistics.NewLedger(seed)

	engineOpts := []game.Option{
		game.WithRNG(randutil.New(seed)),
		game.WithSplitBlackjack(cfg.SplitBlackjack),
	}
	c := controller.New(
		controller.WithLogger(cfg.Logger),
		controller.WithPacing(controller.Pacing{}),
		controller.WithListener(ledger),
		controller.WithEngineOptions(engineOpts...),
	)

	seats := make([]controller.Seat, len(cfg.Bots))
	for i, kind := range cfg.Bots {
		agent, err := bot.New(kind, randutil.New(randutil.Derive(seed, i+1)), cfg.Logger)
		if err != nil {
			return sessionResult{}, err
		}
		seats[i] = controller.Seat{
			Name:     fmt.Sprintf("%s-%d", kind, i),
			Bankroll: cfg.Bankroll,
			Agent:    agent,
		}
	}
	if err := c.NewGame(seats, cfg.Decks, cfg.Mode); err != nil {
		return sessionResult{}, err
	}

	rounds := 0
	for rounds < cfg.Rounds && c.Phase() != controller.Over {
		if err := ctx.Err(); err != nil {
			return sessionResult{}, err
		}
		if err := c.StartBetting(); err != nil {
			return sessionResult{}, err
		}
		if phase := c.Phase(); phase != controller.Settled && phase != controller.Over {
			return sessionResult{}, fmt.Errorf("round %d stalled in %s", rounds+1, phase)
		}
		rounds++
	}

	cfg.Logger.Debug("Session finished", "seed", seed, "rounds", rounds)
	return sessionResult{ledger: ledger, rounds: rounds}, nil
}

// ParseBots parses a comma separated list of bot kinds
func ParseBots(s string) ([]bot.Kind, error) {
	var kinds []bot.Kind
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kind, err := bot.ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no bots given")
	}
	return kinds, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, report *Report) {
	fmt.Fprintf(w, "\n=== SIMULATION ===\n")
	fmt.Fprintf(w, "Sessions: %d, rounds played: %d\n", report.Sessions, report.Rounds)

	for _, seat := range report.Seats {
		stats := seat.Stats
		low, high := stats.ConfidenceInterval95()

		fmt.Fprintf(w, "\n=== SEAT %d: %s ===\n", seat.Seat+1, seat.Kind)
		fmt.Fprintf(w, "Rounds: %d\n", stats.Rounds)
		fmt.Fprintf(w, "Mean: %.4f units/round\n", stats.Mean())
		fmt.Fprintf(w, "Median: %.4f units/round\n", stats.Median())
		fmt.Fprintf(w, "Std Dev: %.4f units\n", stats.StdDev())
		fmt.Fprintf(w, "Std Error: %.4f units\n", stats.StdError())
		fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

		if stats.Rounds > 0 {
			n := float64(stats.Rounds)
			fmt.Fprintf(w, "Outcomes: %.1f%% won, %.1f%% lost, %.1f%% pushed\n",
				float64(stats.Wins)/n*100, float64(stats.Losses)/n*100, float64(stats.Pushes)/n*100)
			fmt.Fprintf(w, "Blackjacks: %d (%.2f%%), busts: %d (%.1f%%)\n",
				stats.Blackjacks, float64(stats.Blackjacks)/n*100, stats.Busts, float64(stats.Busts)/n*100)
			fmt.Fprintf(w, "Doubles: %d, %.2f units; splits: %d, %.2f units\n",
				stats.Doubles, stats.DoubleUnits, stats.Splits, stats.SplitUnits)
		}
	}
}

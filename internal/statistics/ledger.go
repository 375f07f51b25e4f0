package statistics

import (
	"sync"

	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/game"
)

type stake struct {
	seat  int
	start int
	bet   int
}

// Ledger is a controller.Listener that turns each settled round into one
// RoundResult per seat that bet, and adds it to that seat's Statistics.
type Ledger struct {
	mu     sync.Mutex
	seed   int64
	stakes map[game.SeatID]stake
	seats  map[int]*Statistics
}

// NewLedger creates a ledger that stamps results with seed
func NewLedger(seed int64) *Ledger {
	return &Ledger{
		seed:   seed,
		stakes: make(map[game.SeatID]stake),
		seats:  make(map[int]*Statistics),
	}
}

// Notify implements controller.Listener
func (l *Ledger) Notify(n controller.Notification) {
	switch n.Kind {
	case controller.BettingEnded:
		l.openRound(n.Table)
	case controller.RoundEnded:
		l.closeRound(n.Table)
	}
}

func (l *Ledger) openRound(table []game.PlayerSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.stakes)
	for _, p := range table {
		if !p.IsOriginal || p.Status != game.BetSubmitted {
			continue
		}
		l.stakes[p.ID] = stake{seat: p.Index, start: p.Bankroll + p.Hand.Wager, bet: p.Hand.Wager}
	}
}

func (l *Ledger) closeRound(table []game.PlayerSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	results := make(map[game.SeatID]*RoundResult)
	for _, p := range table {
		st, ok := l.stakes[p.Owner]
		if !ok || st.bet <= 0 {
			continue
		}
		r, ok := results[p.Owner]
		if !ok {
			r = &RoundResult{Seed: l.seed, Seat: st.seat}
			results[p.Owner] = r
		}
		if p.IsOriginal {
			r.NetUnits = float64(p.Bankroll-st.start) / float64(st.bet)
			r.Split = p.HandCount > 1
		}
		if p.Status == game.Blackjack {
			r.Blackjack = true
		}
		if p.Hand.Total() > 21 {
			r.Busted = true
		}
		if p.Hand.Wager > st.bet {
			r.Doubled = true
		}
	}

	for _, r := range results {
		s, ok := l.seats[r.Seat]
		if !ok {
			s = &Statistics{}
			l.seats[r.Seat] = s
		}
		s.Add(*r)
	}
	clear(l.stakes)
}

// Seat returns the statistics of a seat index, or nil if it never bet
func (l *Ledger) Seat(i int) *Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seats[i]
}

// Total merges every seat into one Statistics
func (l *Ledger) Total() *Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := &Statistics{}
	for i := range MaxSeats {
		if s, ok := l.seats[i]; ok {
			total.Merge(s)
		}
	}
	return total
}

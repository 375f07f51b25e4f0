// Package statistics accumulates per round results of a seat and reports the
// mean, spread and confidence interval of units won per round.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// MaxSeats bounds the per seat breakdown
const MaxSeats = 7

// RoundResult represents the outcome of one round for one seat, with every
// split hand of the seat folded in
type RoundResult struct {
	NetUnits  float64 // Net result in units of the initial bet
	Seed      int64   // RNG seed of the session (for replay)
	Seat      int     // Seat index, 0 based
	Blackjack bool    // A natural paid 3:2
	Busted    bool    // At least one hand busted
	Doubled   bool    // At least one hand doubled down
	Split     bool    // The seat split this round
}

// SeatStats tracks statistics for one seat position
type SeatStats struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64
}

// Statistics tracks simulation results in units of the initial bet
type Statistics struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Busts      int

	// Ledger buckets, wins AND losses
	WinUnits  float64
	LossUnits float64
	AllUnits  float64 // Total for sanity check

	Doubles     int
	DoubleUnits float64
	Splits      int
	SplitUnits  float64

	SeatResults [MaxSeats]SeatStats
}

// Mean returns the arithmetic mean in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.NetUnits
	s.Rounds++
	s.SumUnits += net
	s.SumUnits2 += net * net
	s.Values = append(s.Values, net)

	switch {
	case net > 0:
		s.Wins++
		s.WinUnits += net
	case net < 0:
		s.Losses++
		s.LossUnits += net
	default:
		s.Pushes++
	}
	s.AllUnits += net

	if result.Blackjack {
		s.Blackjacks++
	}
	if result.Busted {
		s.Busts++
	}
	if result.Doubled {
		s.Doubles++
		s.DoubleUnits += net
	}
	if result.Split {
		s.Splits++
		s.SplitUnits += net
	}

	if result.Seat >= 0 && result.Seat < MaxSeats {
		seat := &s.SeatResults[result.Seat]
		seat.Rounds++
		seat.SumUnits += net
		seat.SumUnits2 += net * net
	}
}

// Merge folds other into s. Values keep s's results first.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumUnits += other.SumUnits
	s.SumUnits2 += other.SumUnits2
	s.Values = append(s.Values, other.Values...)

	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts

	s.WinUnits += other.WinUnits
	s.LossUnits += other.LossUnits
	s.AllUnits += other.AllUnits

	s.Doubles += other.Doubles
	s.DoubleUnits += other.DoubleUnits
	s.Splits += other.Splits
	s.SplitUnits += other.SplitUnits

	for i := range s.SeatResults {
		s.SeatResults[i].Rounds += other.SeatResults[i].Rounds
		s.SeatResults[i].SumUnits += other.SeatResults[i].SumUnits
		s.SeatResults[i].SumUnits2 += other.SeatResults[i].SumUnits2
	}
}

// WinRate returns the share of rounds with a positive result
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result for a seat index
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat >= MaxSeats {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Rounds == 0 {
		return 0
	}
	return ss.SumUnits / float64(ss.Rounds)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllUnits-s.WinUnits-s.LossUnits) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllUnits=%.6f, WinUnits=%.6f, LossUnits=%.6f",
			s.AllUnits, s.WinUnits, s.LossUnits)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("outcomes (%d) do not match rounds (%d)", s.Wins+s.Losses+s.Pushes, s.Rounds)
	}

	if s.Blackjacks > s.Wins {
		return fmt.Errorf("blackjacks (%d) exceed wins (%d)", s.Blackjacks, s.Wins)
	}

	seatRounds := 0
	for _, seat := range s.SeatResults {
		seatRounds += seat.Rounds
	}
	if seatRounds != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match total rounds (%d)", seatRounds, s.Rounds)
	}

	return nil
}

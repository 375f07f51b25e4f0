package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.WinRate())
	assert.Error(t, stats.Validate(), "no rounds")
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{NetUnits: 1.5, Seed: 12345, Seat: 2, Blackjack: true})

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 1.5, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 1.5, stats.Median())
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, 1.5, stats.SeatMean(2))
	require.NoError(t, stats.Validate())
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}
	results := []RoundResult{
		{NetUnits: 1, Seat: 0},
		{NetUnits: -1, Seat: 0, Busted: true},
		{NetUnits: 0, Seat: 1},
		{NetUnits: 2, Seat: 1, Doubled: true},
		{NetUnits: -2, Seat: 2, Split: true},
	}
	for _, r := range results {
		stats.Add(r)
	}

	assert.Equal(t, 5, stats.Rounds)
	assert.InDelta(t, 0.0, stats.Mean(), 1e-9)
	// Sample variance of {1,-1,0,2,-2} is 10/4.
	assert.InDelta(t, 2.5, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(2.5), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(2.5)/math.Sqrt(5), stats.StdError(), 1e-9)

	lo, hi := stats.ConfidenceInterval95()
	assert.InDelta(t, -1.96*stats.StdError(), lo, 1e-9)
	assert.InDelta(t, 1.96*stats.StdError(), hi, 1e-9)

	assert.Equal(t, 0.0, stats.Median())
	assert.Equal(t, -2.0, stats.Percentile(0))
	assert.Equal(t, 2.0, stats.Percentile(1))
	assert.InDelta(t, 1.5, stats.Percentile(0.875), 1e-9)

	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 2, stats.Losses)
	assert.Equal(t, 1, stats.Pushes)
	assert.Equal(t, 1, stats.Busts)
	assert.Equal(t, 1, stats.Doubles)
	assert.Equal(t, 2.0, stats.DoubleUnits)
	assert.Equal(t, 1, stats.Splits)
	assert.Equal(t, -2.0, stats.SplitUnits)
	assert.InDelta(t, 0.4, stats.WinRate(), 1e-9)
	assert.Equal(t, 1.0, stats.SeatMean(1))
	assert.Zero(t, stats.SeatMean(-1))
	assert.True(t, stats.IsLedgerBalanced())
	require.NoError(t, stats.Validate())
}

func TestStatistics_Merge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	for i, net := range []float64{1, -1, 1.5, 0, -2, 2, -1} {
		r := RoundResult{NetUnits: net, Seat: i % 3, Doubled: net == 2}
		if i < 3 {
			a.Add(r)
		} else {
			b.Add(r)
		}
		all.Add(r)
	}

	a.Merge(b)
	assert.Equal(t, all.Rounds, a.Rounds)
	assert.InDelta(t, all.Mean(), a.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.Equal(t, all.SeatResults, a.SeatResults)
	assert.Equal(t, all.Values, a.Values)
	require.NoError(t, a.Validate())
}

func TestStatistics_ValidateCatchesLedgerDrift(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{NetUnits: 1})
	stats.AllUnits += 0.5

	assert.ErrorContains(t, stats.Validate(), "ledger mismatch")
}

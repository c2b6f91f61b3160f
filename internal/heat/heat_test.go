package heat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PEAScout/internal/model"
)

func benchmarkSeries(closes []float64) *model.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Close: c}
	}
	return &model.PriceSeries{Symbol: "CAC40", Bars: bars}
}

func TestComputeMarketHeat_MissingDataIsNeutral(t *testing.T) {
	h := ComputeMarketHeat(nil)
	assert.Equal(t, LevelWarm, h.Level)
	assert.Equal(t, 3, h.PositionsAdvised)
	assert.Equal(t, 50.0, h.RSI)

	h = ComputeMarketHeat(benchmarkSeries([]float64{100}))
	assert.Equal(t, LevelWarm, h.Level)
}

func TestComputeMarketHeat_HotMarket(t *testing.T) {
	// Monotonic rise: RSI 100, sitting on the 52-week high.
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	h := ComputeMarketHeat(benchmarkSeries(closes))
	require.Equal(t, LevelHot, h.Level)
	assert.Equal(t, 2, h.PositionsAdvised)
	assert.InDelta(t, 100.0, h.Score, 0.5)
	assert.InDelta(t, 0.0, h.DistFrom52wHigh, 0.01)
}

func TestComputeMarketHeat_CoolMarket(t *testing.T) {
	// Monotonic fall: RSI near 0, far below the high.
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 400 - float64(i)
	}
	h := ComputeMarketHeat(benchmarkSeries(closes))
	require.Equal(t, LevelCool, h.Level)
	assert.Equal(t, 5, h.PositionsAdvised)
	assert.Less(t, h.Score, 50.0)
}

func TestKellyFraction(t *testing.T) {
	// 60% win rate, 2:1 payoff → kelly = 0.6 - 0.4/2 = 0.4, capped at 0.25.
	assert.Equal(t, 0.25, KellyFraction(0.60, 10, 5, 0.25))

	// 50% win rate, 1:1 payoff → kelly 0.
	assert.Equal(t, 0.0, KellyFraction(0.50, 5, 5, 0.25))

	// Negative edge clamps to 0.
	assert.Equal(t, 0.0, KellyFraction(0.30, 5, 5, 0.25))

	// No losing trades yet → cap.
	assert.Equal(t, 0.25, KellyFraction(1.0, 5, 0, 0.25))

	// Zero cap falls back to the default.
	assert.Equal(t, DefaultKellyCap, KellyFraction(1.0, 5, 0, 0))
}

func TestPositionSizeAdvice(t *testing.T) {
	h := Heat{PositionsAdvised: 3, Advice: "Marché modéré – acheter 3-4 positions"}
	a := PositionSizeAdvice(1000, h, 100)
	assert.Equal(t, 3, a.PositionsCount)
	assert.Equal(t, 300.0, a.TotalDeployed)
	assert.Equal(t, 30.0, a.PctDeployed)

	// Zero capital must not divide by zero.
	a = PositionSizeAdvice(0, h, 100)
	assert.Equal(t, 0.0, a.PctDeployed)
}

package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PEAScout/internal/fetcher"
	"PEAScout/internal/model"
	"PEAScout/internal/universe"
)

var testParams = Params{
	Investment:     100,
	GrossTargetPct: 0.045,
	Fees:           model.FeeConfig{Mode: model.FeeFlat, FlatFee: 1.99},
}

// growthSeries builds n daily bars with a constant daily growth rate.
func growthSeries(symbol string, n int, dailyGrowth, volume float64) *model.PriceSeries {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	price := 100.0
	for i := 0; i < n; i++ {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: volume}
		price *= 1 + dailyGrowth
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
}

func testUniverse(t *testing.T, tickers ...string) *universe.Catalog {
	t.Helper()
	ins := make([]model.Instrument, len(tickers))
	for i, tk := range tickers {
		ins[i] = model.Instrument{Ticker: tk, Name: tk, Sector: "Test"}
	}
	cat, err := universe.New(ins)
	require.NoError(t, err)
	return cat
}

func TestComputeScores_RanksDominantCandidateFirst(t *testing.T) {
	mock := &fetcher.MockFetcher{Series: map[string]*model.PriceSeries{
		"CAC40": growthSeries("CAC40", 260, 0.0002, 0),
		"FAST":  growthSeries("FAST", 260, 0.002, 2_000_000), // wins return, momentum and liquidity
		"SLOW":  growthSeries("SLOW", 260, 0.0005, 500_000),
		"FLAT":  growthSeries("FLAT", 260, 0.0, 100_000),
	}}
	scorer := New(mock, testUniverse(t, "FAST", "SLOW", "FLAT"), "CAC40")

	candidates, skips, err := scorer.ComputeScores(context.Background(), testParams)
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, candidates, 3)

	assert.Equal(t, "FAST", candidates[0].Ticker)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score, "ranking must be descending")
	}
	for _, c := range candidates {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 100.0)
		assert.Greater(t, c.TargetPrice, c.Price, "target must sit above entry for a positive objective")
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 100.0)
	}
}

func TestComputeScores_TopFiveCap(t *testing.T) {
	series := map[string]*model.PriceSeries{"CAC40": growthSeries("CAC40", 260, 0.0002, 0)}
	tickers := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, tk := range tickers {
		series[tk] = growthSeries(tk, 260, 0.0001*float64(i+1), float64(100_000*(i+1)))
	}
	scorer := New(&fetcher.MockFetcher{Series: series}, testUniverse(t, tickers...), "CAC40")

	candidates, _, err := scorer.ComputeScores(context.Background(), testParams)
	require.NoError(t, err)
	assert.Len(t, candidates, 5)
}

func TestComputeScores_Deterministic(t *testing.T) {
	series := map[string]*model.PriceSeries{
		"CAC40": growthSeries("CAC40", 260, 0.0002, 0),
		"A":     growthSeries("A", 260, 0.001, 800_000),
		"B":     growthSeries("B", 260, 0.0008, 900_000),
	}
	scorer := New(&fetcher.MockFetcher{Series: series}, testUniverse(t, "A", "B"), "CAC40")

	first, _, err := scorer.ComputeScores(context.Background(), testParams)
	require.NoError(t, err)
	second, _, err := scorer.ComputeScores(context.Background(), testParams)
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical frozen input must yield identical ranking")
}

func TestComputeScores_SkipsThinAndBrokenSeries(t *testing.T) {
	series := map[string]*model.PriceSeries{
		"CAC40": growthSeries("CAC40", 260, 0.0002, 0),
		"OK":    growthSeries("OK", 260, 0.001, 800_000),
		"THIN":  growthSeries("THIN", 30, 0.001, 800_000), // < 60 observations
		// "MISSING" is absent: the mock returns an error for it
	}
	scorer := New(&fetcher.MockFetcher{Series: series}, testUniverse(t, "OK", "THIN", "MISSING"), "CAC40")

	candidates, skips, err := scorer.ComputeScores(context.Background(), testParams)
	require.NoError(t, err, "one bad ticker must not abort the run")
	require.Len(t, candidates, 1)
	assert.Equal(t, "OK", candidates[0].Ticker)

	require.Len(t, skips, 2)
	reasons := map[string]string{}
	for _, s := range skips {
		reasons[s.Ticker] = s.Reason
	}
	assert.Contains(t, reasons["THIN"], "insufficient history")
	assert.Contains(t, reasons["MISSING"], "fetch failed")
}

func TestComputeScores_AllSkippedReturnsErrNoCandidates(t *testing.T) {
	series := map[string]*model.PriceSeries{
		"CAC40": growthSeries("CAC40", 260, 0.0002, 0),
		"THIN":  growthSeries("THIN", 10, 0.001, 800_000),
	}
	scorer := New(&fetcher.MockFetcher{Series: series}, testUniverse(t, "THIN"), "CAC40")

	_, skips, err := scorer.ComputeScores(context.Background(), testParams)
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Len(t, skips, 1)
}

func TestComputeScores_SingleSurvivorGetsNeutralNormalization(t *testing.T) {
	// With one survivor every factor column is degenerate, so every
	// normalized factor is 0.5 and the composite is exactly 50.
	series := map[string]*model.PriceSeries{
		"CAC40": growthSeries("CAC40", 260, 0.0002, 0),
		"ONLY":  growthSeries("ONLY", 260, 0.001, 800_000),
	}
	scorer := New(&fetcher.MockFetcher{Series: series}, testUniverse(t, "ONLY"), "CAC40")

	candidates, _, err := scorer.ComputeScores(context.Background(), testParams)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 50.0, candidates[0].Score)
	assert.Equal(t, 0.5, candidates[0].NormMomentum)
}

func TestComputeScores_BenchmarkFailureDegradesToRawReturn(t *testing.T) {
	// No benchmark series in the mock: relative return falls back to the
	// raw 12-month return instead of failing the run.
	series := map[string]*model.PriceSeries{
		"A": growthSeries("A", 260, 0.001, 800_000),
		"B": growthSeries("B", 260, 0.0005, 800_000),
	}
	scorer := New(&fetcher.MockFetcher{Series: series}, testUniverse(t, "A", "B"), "CAC40")

	candidates, _, err := scorer.ComputeScores(context.Background(), testParams)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "A", candidates[0].Ticker)
}

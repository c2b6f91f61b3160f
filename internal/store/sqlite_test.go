package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PEAScout/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RecommendationsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	runDate := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	candidates := []model.ScoredCandidate{
		{FactorRow: model.FactorRow{Ticker: "MC.PA", Name: "LVMH", Sector: "Luxe",
			Price: 650.5, Confidence: 72.5, TargetPrice: 721.6121, GrossTargetPct: 0.045}, Score: 88.3},
		{FactorRow: model.FactorRow{Ticker: "AI.PA", Name: "Air Liquide", Sector: "Matériaux",
			Price: 180.2, Confidence: 81.0, TargetPrice: 199.9, GrossTargetPct: 0.045}, Score: 75.1},
	}
	require.NoError(t, s.SaveRecommendations("run-1", runDate, candidates))

	rows, err := s.RecommendationHistory(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "MC.PA", rows[0].Ticker, "highest score first within a run")
	assert.Equal(t, 88.3, rows[0].Score)
	assert.Equal(t, "run-1", rows[0].RunID)
	assert.True(t, rows[0].RunDate.Equal(runDate))
	assert.InDelta(t, 4.5, rows[0].GrossPct, 0.001)
}

func TestSQLiteStore_RecommendationHistoryLimit(t *testing.T) {
	s := openTestStore(t)
	runDate := time.Now().UTC().Truncate(time.Second)
	var candidates []model.ScoredCandidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, model.ScoredCandidate{
			FactorRow: model.FactorRow{Ticker: "T" + string(rune('A'+i))},
			Score:     float64(i),
		})
	}
	require.NoError(t, s.SaveRecommendations("run-1", runDate, candidates))

	rows, err := s.RecommendationHistory(3)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSQLiteStore_SaveBacktest(t *testing.T) {
	s := openTestStore(t)

	result := &model.BacktestResult{
		Trades: []model.SimulatedTrade{
			{Ticker: "AI.PA", BuyDate: time.Now().AddDate(0, 0, -14), SellDate: time.Now(),
				BuyPrice: 100, TargetPrice: 108.65, SellPrice: 109, Qty: 0.9801,
				NetPnL: 4.84, Outcome: model.OutcomeTargetHit},
		},
		Summary: model.BacktestSummary{TotalPnL: 4.84, Trades: 1, WinRate: 100, BestTrade: 4.84, WorstTrade: 4.84, AvgTrade: 4.84},
	}
	params := BacktestParams{
		Tickers: []string{"AI.PA"}, Investment: 100, GrossTargetPct: 0.045,
		FeeMode: "flat", IntervalDays: 14, LookbackDays: 90,
	}
	assert.NoError(t, s.SaveBacktest("bt-1", time.Now(), params, result))
}

func TestSQLiteStore_Settings(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Setting("fee_mode")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSetting("fee_mode", "flat"))
	v, ok, err := s.Setting("fee_mode")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "flat", v)

	// Upsert overwrites.
	require.NoError(t, s.SetSetting("fee_mode", "pct"))
	v, _, _ = s.Setting("fee_mode")
	assert.Equal(t, "pct", v)
}

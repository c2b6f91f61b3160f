package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PEAScout/internal/backtest"
	"PEAScout/internal/fetcher"
	"PEAScout/internal/model"
	"PEAScout/internal/scoring"
	"PEAScout/internal/store"
	"PEAScout/internal/universe"
)

func testDeps(t *testing.T) Deps {
	t.Helper()

	catalog, err := universe.New([]model.Instrument{
		{Ticker: "AAA.PA", Name: "Alpha", Sector: "Industrie"},
		{Ticker: "BBB.PA", Name: "Beta", Sector: "Santé"},
	})
	require.NoError(t, err)

	mock := &fetcher.MockFetcher{Price: 100}
	fees := model.FeeConfig{Mode: model.FeeFlat, FlatFee: 1.99}

	return Deps{
		Scorer:    scoring.New(mock, catalog, "CAC40"),
		Runner:    backtest.NewRunner(mock),
		Fetcher:   mock,
		Store:     store.NewNoopStore(),
		Catalog:   catalog,
		Benchmark: "CAC40",
		ScoringParams: scoring.Params{
			Investment:     100,
			GrossTargetPct: 0.045,
			Fees:           fees,
		},
		BacktestParams: backtest.Params{
			Investment:     100,
			GrossTargetPct: 0.045,
			Fees:           fees,
			IntervalDays:   14,
			LookbackDays:   90,
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := New("127.0.0.1:0", testDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecommendationsEndpoint(t *testing.T) {
	srv := New("127.0.0.1:0", testDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		RunDate    string                  `json:"run_date"`
		Candidates []model.ScoredCandidate `json:"candidates"`
		Skipped    []model.SkipReason      `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Candidates, 2)
	assert.NotEmpty(t, body.RunDate)
}

func TestBacktestEndpointRejectsBadQuery(t *testing.T) {
	srv := New("127.0.0.1:0", testDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/backtest?days=abc", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBacktestEndpointRunsSimulation(t *testing.T) {
	srv := New("127.0.0.1:0", testDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/backtest?tickers=AAA.PA,BBB.PA&days=60&interval=10", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.BacktestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Trades)
	assert.Equal(t, len(result.Trades), result.Summary.Trades)
}

func TestHeatEndpointDegradesWhenBenchmarkMissing(t *testing.T) {
	deps := testDeps(t)
	deps.Fetcher = &fetcher.MockFetcher{Err: assert.AnError}
	deps.Scorer = scoring.New(deps.Fetcher, deps.Catalog, "CAC40")
	srv := New("127.0.0.1:0", deps)

	req := httptest.NewRequest(http.MethodGet, "/api/heat", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Heat struct {
			RSI  float64 `json:"rsi"`
			Heat string  `json:"heat"`
		} `json:"heat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 50.0, body.Heat.RSI)
	assert.Equal(t, "warm", body.Heat.Heat)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	srv := New("127.0.0.1:0", testDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

// Package store persists scoring runs, backtest results and user
// settings. The engine itself never touches persistence; callers decide
// what is worth keeping.
package store

import (
	"time"

	"PEAScout/internal/model"
)

// Store persists engine outputs for later inspection.
type Store interface {
	// SaveRecommendations records one scoring run under runID.
	SaveRecommendations(runID string, runDate time.Time, candidates []model.ScoredCandidate) error
	// RecommendationHistory returns the most recent saved rows, newest first.
	RecommendationHistory(limit int) ([]RecommendationRow, error)

	// SaveBacktest records a backtest run, its summary and its trades.
	SaveBacktest(runID string, runDate time.Time, params BacktestParams, result *model.BacktestResult) error

	// Settings are simple key/value overrides surviving restarts.
	Setting(key string) (string, bool, error)
	SetSetting(key, value string) error

	Close() error
}

// RecommendationRow is one persisted line of a scoring run.
type RecommendationRow struct {
	RunID      string
	RunDate    time.Time
	Ticker     string
	Name       string
	Sector     string
	Score      float64
	Confidence float64
	Price      float64
	Target     float64
	GrossPct   float64
}

// BacktestParams is the persisted shape of a simulation's inputs.
type BacktestParams struct {
	Tickers        []string
	Investment     float64
	GrossTargetPct float64
	FeeMode        string
	IntervalDays   int
	LookbackDays   int
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"PEAScout/internal/backtest"
	"PEAScout/internal/heat"
	"PEAScout/internal/model"
	"PEAScout/internal/scoring"
	"PEAScout/internal/store"
)

const defaultHistoryLimit = 50

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
}

// handleRecommendations runs a live scoring pass over the universe.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	candidates, skips, err := s.deps.Scorer.ComputeScores(r.Context(), s.deps.ScoringParams)
	if err != nil {
		if errors.Is(err, scoring.ErrNoCandidates) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_date":   time.Now().UTC().Format("2006-01-02"),
		"candidates": candidates,
		"skipped":    skipList(skips),
	})
}

// handleHistory returns persisted scoring rows, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	rows, err := s.deps.Store.RecommendationHistory(limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	if rows == nil {
		rows = []store.RecommendationRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// handleBacktest runs a simulation with optional query overrides:
// tickers (comma separated), days, interval.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	params := s.deps.BacktestParams
	q := r.URL.Query()

	if v := q.Get("tickers"); v != "" {
		params.Tickers = splitTickers(v)
	}
	if len(params.Tickers) == 0 {
		params.Tickers = s.deps.Catalog.Tickers()
	}
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "days must be a positive integer"})
			return
		}
		params.LookbackDays = n
	}
	if v := q.Get("interval"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "interval must be a positive integer"})
			return
		}
		params.IntervalDays = n
	}

	result, err := s.deps.Runner.Run(r.Context(), params)
	if err != nil {
		if errors.Is(err, backtest.ErrInsufficientData) || errors.Is(err, backtest.ErrNoTrades) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleHeat computes the current market-heat reading from the benchmark
// and the allocation it implies.
func (s *Server) handleHeat(w http.ResponseWriter, r *http.Request) {
	series, err := s.deps.Fetcher.History(r.Context(), s.deps.Benchmark, 365)
	if err != nil {
		// ComputeMarketHeat degrades the nil series to a neutral reading.
		log.Warn().Err(err).Str("benchmark", s.deps.Benchmark).Msg("heat: benchmark fetch failed")
		series = nil
	}

	h := heat.ComputeMarketHeat(series)
	perPosition := s.deps.ScoringParams.Investment
	capital := perPosition * 5
	advice := heat.PositionSizeAdvice(capital, h, perPosition)

	writeJSON(w, http.StatusOK, map[string]any{
		"heat":       h,
		"allocation": advice,
	})
}

func skipList(skips []model.SkipReason) []model.SkipReason {
	if skips == nil {
		return []model.SkipReason{}
	}
	return skips
}

func splitTickers(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

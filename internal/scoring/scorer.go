// Package scoring ranks the investable universe by a four-factor
// momentum composite: 12-month return relative to the benchmark,
// 3-month momentum, 4-week stability and daily traded value.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"PEAScout/internal/confidence"
	"PEAScout/internal/fetcher"
	"PEAScout/internal/model"
	"PEAScout/internal/pricing"
	"PEAScout/internal/universe"
)

// ErrNoCandidates is returned when no instrument survives filtering:
// distinct from an empty-but-valid ranking, which cannot happen (the
// ranking always carries at least one survivor).
var ErrNoCandidates = errors.New("scoring: no instrument survived filtering")

// Factor weights of the composite score. Fixed design constants
// reflecting factor reliability, not fitted to data.
const (
	weightRelativeReturn = 0.35
	weightMomentum       = 0.30
	weightStability      = 0.20
	weightLiquidity      = 0.15
)

// topN is the size of the ranked output.
const topN = 5

// historyDays is the calendar window requested per instrument: one year,
// matching the 12-month relative-return factor.
const historyDays = 365

// Params are the explicit knobs of one scoring run. No ambient state is
// consulted.
type Params struct {
	Investment     float64
	GrossTargetPct float64
	Fees           model.FeeConfig
}

// Scorer computes ranked candidates over a fixed universe.
type Scorer struct {
	fetcher   fetcher.Fetcher
	catalog   *universe.Catalog
	benchmark string
}

// New creates a Scorer. benchmark is the reference index symbol used for
// the relative-return factor.
func New(f fetcher.Fetcher, catalog *universe.Catalog, benchmark string) *Scorer {
	return &Scorer{fetcher: f, catalog: catalog, benchmark: benchmark}
}

// ComputeScores runs the full pipeline: fetch, per-instrument factors,
// cross-sectional normalization, weighted composite, rank. It returns the
// top 5 candidates sorted descending by score, plus the skip reasons of
// every excluded instrument. Per-instrument failures never abort the
// batch; zero survivors returns ErrNoCandidates.
func (s *Scorer) ComputeScores(ctx context.Context, params Params) ([]model.ScoredCandidate, []model.SkipReason, error) {
	benchmarkReturn := s.benchmarkReturn(ctx)

	var rows []model.FactorRow
	var skips []model.SkipReason

	for _, ins := range s.catalog.Instruments() {
		row, skip := s.scoreInstrument(ctx, ins, benchmarkReturn, params)
		if skip != nil {
			skips = append(skips, *skip)
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, skips, ErrNoCandidates
	}

	candidates := rank(rows)
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, skips, nil
}

// benchmarkReturn fetches the reference index and computes its
// full-window return. Benchmark trouble degrades to 0 (raw instead of
// relative returns) rather than failing the run.
func (s *Scorer) benchmarkReturn(ctx context.Context) float64 {
	series, err := s.fetcher.History(ctx, s.benchmark, historyDays)
	if err != nil {
		log.Warn().Err(err).Str("benchmark", s.benchmark).Msg("benchmark fetch failed, using zero benchmark return")
		return 0
	}
	closes := series.Closes()
	if len(closes) < 2 || closes[0] == 0 {
		log.Warn().Str("benchmark", s.benchmark).Msg("benchmark series too thin, using zero benchmark return")
		return 0
	}
	return closes[len(closes)-1]/closes[0] - 1
}

func (s *Scorer) scoreInstrument(ctx context.Context, ins model.Instrument, benchmarkReturn float64, params Params) (model.FactorRow, *model.SkipReason) {
	series, err := s.fetcher.History(ctx, ins.Ticker, historyDays)
	if err != nil {
		return model.FactorRow{}, &model.SkipReason{Ticker: ins.Ticker, Reason: fmt.Sprintf("fetch failed: %v", err)}
	}
	closes := series.Closes()
	if len(closes) < minObservations {
		return model.FactorRow{}, &model.SkipReason{
			Ticker: ins.Ticker,
			Reason: fmt.Sprintf("insufficient history: %d observations, need %d", len(closes), minObservations),
		}
	}
	price := closes[len(closes)-1]
	if price <= 0 {
		return model.FactorRow{}, &model.SkipReason{Ticker: ins.Ticker, Reason: "non-positive last close"}
	}

	return model.FactorRow{
		Ticker:         ins.Ticker,
		Name:           ins.Name,
		Sector:         ins.Sector,
		RelativeReturn: relativeReturn(closes, benchmarkReturn),
		Momentum3M:     momentum3M(closes),
		Stability4W:    stability4W(series.Bars),
		Liquidity:      liquidity(series.Bars),
		Price:          price,
		Confidence:     confidence.Score(closes, confidence.DefaultWindow),
		TargetPrice:    pricing.ComputeTarget(price, params.Investment, params.GrossTargetPct, params.Fees),
		GrossTargetPct: params.GrossTargetPct,
	}, nil
}

// rank normalizes each factor column across the surviving set, combines
// them into the weighted composite and sorts descending. Ties break on
// ticker so identical inputs always produce identical output order.
func rank(rows []model.FactorRow) []model.ScoredCandidate {
	n := len(rows)
	relRet := make([]float64, n)
	mom := make([]float64, n)
	stab := make([]float64, n)
	liq := make([]float64, n)
	for i, r := range rows {
		relRet[i] = r.RelativeReturn
		mom[i] = r.Momentum3M
		stab[i] = r.Stability4W
		liq[i] = r.Liquidity
	}

	normRet := minMaxNormalize(relRet)
	normMom := minMaxNormalize(mom)
	normStab := minMaxNormalize(stab)
	normLiq := minMaxNormalize(liq)

	candidates := make([]model.ScoredCandidate, n)
	for i, r := range rows {
		score := 100 * (weightRelativeReturn*normRet[i] +
			weightMomentum*normMom[i] +
			weightStability*normStab[i] +
			weightLiquidity*normLiq[i])
		candidates[i] = model.ScoredCandidate{
			FactorRow:          r,
			NormRelativeReturn: normRet[i],
			NormMomentum:       normMom[i],
			NormStability:      normStab[i],
			NormLiquidity:      normLiq[i],
			Score:              math.Round(score*10) / 10,
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Ticker < candidates[j].Ticker
	})
	return candidates
}

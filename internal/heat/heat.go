// Package heat derives a market-heat index from the benchmark and turns
// it into position-count and capital-allocation advice.
package heat

import (
	"math"

	"github.com/rs/zerolog/log"

	"PEAScout/internal/calculator"
	"PEAScout/internal/model"
)

// Level buckets the heat score.
type Level string

const (
	LevelHot  Level = "hot"
	LevelWarm Level = "warm"
	LevelCool Level = "cool"
)

// Heat is the market-heat reading for the benchmark index.
type Heat struct {
	RSI              float64 `json:"rsi"`
	DistFrom52wHigh  float64 `json:"dist_52w_high_pct"`
	Score            float64 `json:"heat_pct"` // 0 (cool) .. 100 (hot)
	Level            Level   `json:"heat"`
	Advice           string  `json:"advice"`
	PositionsAdvised int     `json:"positions_recommended"`
}

// neutral is the degraded reading when benchmark data is unavailable.
func neutral() Heat {
	return Heat{
		RSI:              50.0,
		DistFrom52wHigh:  0.0,
		Score:            50.0,
		Level:            LevelWarm,
		Advice:           "Données indisponibles – procédez avec prudence",
		PositionsAdvised: 3,
	}
}

// ComputeMarketHeat scores how overheated the reference market is:
// RSI(14) weighted 60%, proximity to the 52-week high weighted 40%.
// Hot markets cap the advised position count at 2, cool ones allow all 5.
// Missing or thin benchmark data degrades to a neutral reading.
func ComputeMarketHeat(benchmark *model.PriceSeries) Heat {
	closes := benchmark.Closes()
	if len(closes) < 2 {
		log.Warn().Msg("heat: benchmark series unavailable, using neutral reading")
		return neutral()
	}

	rsi, err := calculator.RSI(closes, 14)
	if err != nil {
		return neutral()
	}
	high, err := calculator.High52w(closes)
	if err != nil {
		return neutral()
	}
	dist, err := calculator.DistanceFromHighPct(closes[len(closes)-1], high)
	if err != nil {
		return neutral()
	}

	// Close to the high = hot.
	distNorm := math.Max(0, 100-dist*3)
	score := 0.6*rsi + 0.4*distNorm

	h := Heat{
		RSI:             math.Round(rsi*10) / 10,
		DistFrom52wHigh: math.Round(dist*100) / 100,
		Score:           math.Round(score*10) / 10,
	}
	switch {
	case score >= 75:
		h.Level = LevelHot
		h.Advice = "Marché surchauffé – acheter maximum 2 positions"
		h.PositionsAdvised = 2
	case score >= 50:
		h.Level = LevelWarm
		h.Advice = "Marché modéré – acheter 3-4 positions"
		h.PositionsAdvised = 3
	default:
		h.Level = LevelCool
		h.Advice = "Marché favorable – acheter les 5 positions"
		h.PositionsAdvised = 5
	}
	return h
}

// DefaultKellyCap bounds the Kelly fraction for safety.
const DefaultKellyCap = 0.25

// KellyFraction returns the Kelly-optimal fraction of capital per trade,
// clamped to [0, maxFraction]. avgLoss is passed as a positive number; a
// zero avgLoss (no losing trades yet) returns the cap.
func KellyFraction(winRate, avgWin, avgLoss, maxFraction float64) float64 {
	if maxFraction <= 0 {
		maxFraction = DefaultKellyCap
	}
	if avgLoss == 0 {
		return maxFraction
	}
	ratio := avgWin / avgLoss
	kelly := winRate - (1-winRate)/ratio
	kelly = math.Max(0, math.Min(kelly, maxFraction))
	return math.Round(kelly*10000) / 10000
}

// Advice is the per-cycle capital allocation suggestion.
type Advice struct {
	CapitalTotal   float64 `json:"capital_total"`
	PositionsCount int     `json:"positions_count"`
	PerPosition    float64 `json:"per_position"`
	TotalDeployed  float64 `json:"total_deployed"`
	PctDeployed    float64 `json:"pct_deployed"`
	Advice         string  `json:"advice"`
}

// PositionSizeAdvice maps a heat reading to a concrete allocation for the
// coming cycle.
func PositionSizeAdvice(capital float64, h Heat, perPosition float64) Advice {
	total := float64(h.PositionsAdvised) * perPosition
	var pct float64
	if capital > 0 {
		pct = total / capital * 100
	}
	return Advice{
		CapitalTotal:   math.Round(capital*100) / 100,
		PositionsCount: h.PositionsAdvised,
		PerPosition:    perPosition,
		TotalDeployed:  math.Round(total*100) / 100,
		PctDeployed:    math.Round(pct*10) / 10,
		Advice:         h.Advice,
	}
}

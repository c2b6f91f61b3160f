package model

// FactorRow holds one instrument's raw factor values for a scoring run.
// Created per run, immutable, consumed to build the ranked output.
type FactorRow struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`

	// Raw factors
	RelativeReturn float64 `json:"relative_return"` // 12-month return minus benchmark return, fraction
	Momentum3M     float64 `json:"momentum_3m"`     // 63-session rate of change, fraction
	Stability4W    float64 `json:"stability_4w"`    // 1/(1+std of last 4 weekly returns)
	Liquidity      float64 `json:"liquidity"`       // trailing 20-day mean of close*volume

	Price          float64 `json:"price"`
	Confidence     float64 `json:"confidence"`
	TargetPrice    float64 `json:"target_price"`
	GrossTargetPct float64 `json:"gross_target_pct"`
}

// ScoredCandidate is a FactorRow augmented with normalized factors in
// [0,1] and a composite score in [0,100].
type ScoredCandidate struct {
	FactorRow

	NormRelativeReturn float64 `json:"norm_relative_return"`
	NormMomentum       float64 `json:"norm_momentum"`
	NormStability      float64 `json:"norm_stability"`
	NormLiquidity      float64 `json:"norm_liquidity"`

	Score float64 `json:"score"`
}

// SkipReason records why an instrument was excluded from a scoring run.
// Kept for observability instead of being swallowed.
type SkipReason struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

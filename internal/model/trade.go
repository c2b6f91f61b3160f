package model

import "time"

// TradeOutcome tags how a simulated trade was closed.
type TradeOutcome string

const (
	// OutcomeTargetHit means a close met or exceeded the target price
	// during the cycle; the trade exits on the first such date.
	OutcomeTargetHit TradeOutcome = "target_hit"
	// OutcomeCycleEnd means no close reached the target and the trade
	// exits at the cycle's last close.
	OutcomeCycleEnd TradeOutcome = "cycle_end"
)

// SimulatedTrade is one backtest record: a single buy/sell round trip
// within one cycle.
type SimulatedTrade struct {
	Ticker      string       `json:"ticker"`
	BuyDate     time.Time    `json:"buy_date"`
	SellDate    time.Time    `json:"sell_date"`
	BuyPrice    float64      `json:"buy_price"`
	TargetPrice float64      `json:"target_price"`
	SellPrice   float64      `json:"sell_price"`
	Qty         float64      `json:"qty"`
	NetPnL      float64      `json:"net_pnl"`
	Outcome     TradeOutcome `json:"outcome"`
}

// EquityPoint is one step of the cumulative P&L curve, ordered by exit date.
type EquityPoint struct {
	Date          time.Time `json:"date"`
	CumulativePnL float64   `json:"cumulative_pnl"`
}

// BacktestSummary aggregates trade-log statistics. All fields are
// derived from the trade log, never independently stored.
type BacktestSummary struct {
	TotalPnL   float64 `json:"total_pnl"`
	Trades     int     `json:"trades"`
	WinRate    float64 `json:"win_rate"` // percent of trades with positive P&L
	BestTrade  float64 `json:"best_trade"`
	WorstTrade float64 `json:"worst_trade"`
	AvgTrade   float64 `json:"avg_trade"`
}

// BacktestResult is the full output of one simulation run.
type BacktestResult struct {
	Trades      []SimulatedTrade `json:"trades"`
	EquityCurve []EquityPoint    `json:"equity_curve"`
	Summary     BacktestSummary  `json:"summary"`
}

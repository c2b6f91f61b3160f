// Package backtest replays the bi-weekly strategy over historical closes:
// fixed-length cycles, one entry per instrument per cycle, first-touch
// target exits, forced exit at cycle end.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"PEAScout/internal/fetcher"
	"PEAScout/internal/model"
	"PEAScout/internal/pricing"
)

var (
	// ErrInsufficientData is returned when the tickers share fewer common
	// trading dates than one full cycle needs.
	ErrInsufficientData = errors.New("backtest: not enough common trading dates")
	// ErrNoTrades is returned when the simulation produced zero trades:
	// "could not run" rather than "ran and found nothing".
	ErrNoTrades = errors.New("backtest: no trades simulated")
)

// Defaults for the cycle partition.
const (
	DefaultIntervalDays = 14
	DefaultLookbackDays = 90
)

// Params are the explicit knobs of one simulation run.
type Params struct {
	Tickers        []string
	Investment     float64
	GrossTargetPct float64
	Fees           model.FeeConfig
	IntervalDays   int
	LookbackDays   int

	// Now anchors the lookback cutoff; zero value means time.Now().
	// Exposed so simulations over canned series stay reproducible.
	Now time.Time
}

func (p *Params) applyDefaults() {
	if p.IntervalDays <= 0 {
		p.IntervalDays = DefaultIntervalDays
	}
	if p.LookbackDays <= 0 {
		p.LookbackDays = DefaultLookbackDays
	}
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
}

// Runner simulates the strategy using closes from a Fetcher.
type Runner struct {
	fetcher fetcher.Fetcher
}

// NewRunner creates a Runner.
func NewRunner(f fetcher.Fetcher) *Runner {
	return &Runner{fetcher: f}
}

// Run executes the walk-forward simulation. Per-trade failures (missing
// date, degenerate entry price) are skipped individually; only an empty
// result escalates, as ErrNoTrades or ErrInsufficientData.
func (r *Runner) Run(ctx context.Context, params Params) (*model.BacktestResult, error) {
	params.applyDefaults()

	closesByTicker := r.fetchCloses(ctx, params)
	if len(closesByTicker) == 0 {
		return nil, fmt.Errorf("%w: no usable series for any ticker", ErrInsufficientData)
	}

	dates := commonDates(closesByTicker, params.Now.AddDate(0, 0, -params.LookbackDays))
	if len(dates) < params.IntervalDays {
		return nil, fmt.Errorf("%w: %d common dates, need %d", ErrInsufficientData, len(dates), params.IntervalDays)
	}

	var trades []model.SimulatedTrade
	for ci := 0; ci < len(dates)-params.IntervalDays; ci += params.IntervalDays {
		sellIdx := ci + params.IntervalDays - 1
		if sellIdx > len(dates)-1 {
			sellIdx = len(dates) - 1
		}
		for ticker, closes := range closesByTicker {
			trade, ok := simulateTrade(ticker, closes, dates, ci, sellIdx, params)
			if !ok {
				continue
			}
			trades = append(trades, trade)
		}
	}

	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	// Order by exit date so the equity curve accumulates chronologically;
	// ticker breaks ties for deterministic output.
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].SellDate.Equal(trades[j].SellDate) {
			return trades[i].SellDate.Before(trades[j].SellDate)
		}
		return trades[i].Ticker < trades[j].Ticker
	})

	equity := make([]model.EquityPoint, len(trades))
	var cumulative float64
	for i, tr := range trades {
		cumulative += tr.NetPnL
		equity[i] = model.EquityPoint{Date: tr.SellDate, CumulativePnL: round2(cumulative)}
	}

	return &model.BacktestResult{
		Trades:      trades,
		EquityCurve: equity,
		Summary:     summarize(trades),
	}, nil
}

// simulateTrade plays one ticker through one cycle. The exit rule is
// first-touch: the first close at or above the target wins, not the best
// price achieved; otherwise the trade stops at the cycle's last close.
func simulateTrade(ticker string, closes map[time.Time]float64, dates []time.Time, buyIdx, sellIdx int, params Params) (model.SimulatedTrade, bool) {
	buyDate := dates[buyIdx]
	buyPrice, ok := closes[buyDate]
	if !ok || buyPrice <= 0 {
		return model.SimulatedTrade{}, false
	}

	target := pricing.ComputeTarget(buyPrice, params.Investment, params.GrossTargetPct, params.Fees)
	qty := (params.Investment - params.Fees.BuyFee(params.Investment)) / buyPrice
	if qty <= 0 {
		return model.SimulatedTrade{}, false
	}

	sellDate := dates[sellIdx]
	sellPrice, ok := closes[sellDate]
	if !ok {
		return model.SimulatedTrade{}, false
	}
	outcome := model.OutcomeCycleEnd

	for i := buyIdx; i <= sellIdx; i++ {
		p, ok := closes[dates[i]]
		if !ok {
			continue
		}
		if p >= target {
			sellDate = dates[i]
			sellPrice = p
			outcome = model.OutcomeTargetHit
			break
		}
	}

	return model.SimulatedTrade{
		Ticker:      ticker,
		BuyDate:     buyDate,
		SellDate:    sellDate,
		BuyPrice:    buyPrice,
		TargetPrice: target,
		SellPrice:   sellPrice,
		Qty:         qty,
		NetPnL:      pricing.ComputeNetGain(buyPrice, sellPrice, qty, params.Fees),
		Outcome:     outcome,
	}, true
}

// fetchCloses downloads every ticker's history and indexes closes by
// normalized trading date. A failed or empty series drops that ticker
// with a warning instead of aborting the run.
func (r *Runner) fetchCloses(ctx context.Context, params Params) map[string]map[time.Time]float64 {
	// Fetch roughly double the lookback so the window is fully covered
	// even across holidays.
	fetchDays := params.LookbackDays * 2

	out := make(map[string]map[time.Time]float64, len(params.Tickers))
	for _, ticker := range params.Tickers {
		series, err := r.fetcher.History(ctx, ticker, fetchDays)
		if err != nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("backtest: dropping ticker, fetch failed")
			continue
		}
		if series.Len() == 0 {
			log.Warn().Str("ticker", ticker).Msg("backtest: dropping ticker, empty series")
			continue
		}
		closes := make(map[time.Time]float64, series.Len())
		for _, bar := range series.Bars {
			closes[tradingDate(bar.Time)] = bar.Close
		}
		out[ticker] = closes
	}
	return out
}

// commonDates intersects the trading dates of every ticker, since a
// cycle must use dates valid for every instrument it touches, then drops
// dates before the cutoff and sorts ascending.
func commonDates(closesByTicker map[string]map[time.Time]float64, cutoff time.Time) []time.Time {
	counts := make(map[time.Time]int)
	for _, closes := range closesByTicker {
		for d := range closes {
			counts[d]++
		}
	}

	cutoff = tradingDate(cutoff)
	var dates []time.Time
	for d, n := range counts {
		if n == len(closesByTicker) && !d.Before(cutoff) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// tradingDate normalizes a timestamp to its UTC calendar day.
func tradingDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func summarize(trades []model.SimulatedTrade) model.BacktestSummary {
	var total, best, worst float64
	wins := 0
	best = trades[0].NetPnL
	worst = trades[0].NetPnL
	for _, tr := range trades {
		total += tr.NetPnL
		if tr.NetPnL > 0 {
			wins++
		}
		if tr.NetPnL > best {
			best = tr.NetPnL
		}
		if tr.NetPnL < worst {
			worst = tr.NetPnL
		}
	}
	n := len(trades)
	return model.BacktestSummary{
		TotalPnL:   round2(total),
		Trades:     n,
		WinRate:    round1(float64(wins) / float64(n) * 100),
		BestTrade:  best,
		WorstTrade: worst,
		AvgTrade:   round2(total / float64(n)),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

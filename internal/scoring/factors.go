package scoring

import (
	"math"

	"PEAScout/internal/calculator"
	"PEAScout/internal/model"
)

const (
	// minObservations is the minimum close count for an instrument to be
	// scored at all; thinner histories are skipped, not failed.
	minObservations = 60
	// momentumSessions is the 3-month lookback in trading sessions.
	momentumSessions = 63
	// stabilityWeeks is how many weekly returns feed the stability factor.
	stabilityWeeks = 4
	// liquidityWindow is the trailing day count for average traded value.
	liquidityWindow = 20
)

// relativeReturn is the full-window return minus the benchmark return
// over the identical window: alpha versus the reference market, not raw
// performance.
func relativeReturn(closes []float64, benchmarkReturn float64) float64 {
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return closes[len(closes)-1]/closes[0] - 1 - benchmarkReturn
}

// momentum3M is the rate of change from the observation momentumSessions
// back, clamped to the earliest available close for shorter histories.
func momentum3M(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	idx := len(closes) - momentumSessions
	if idx < 0 {
		idx = 0
	}
	if closes[idx] == 0 {
		return 0
	}
	return closes[len(closes)-1]/closes[idx] - 1
}

// stability4W inverts the dispersion of the last stabilityWeeks weekly
// returns: 1/(1+std). Fewer than 2 weekly returns, or exactly zero
// dispersion, defaults to the maximal 1.0 rather than failing.
func stability4W(bars []model.OHLCV) float64 {
	weekly := weeklyCloses(bars)
	if len(weekly) < 2 {
		return 1.0
	}
	returns := make([]float64, 0, len(weekly)-1)
	for i := 1; i < len(weekly); i++ {
		if weekly[i-1] == 0 {
			continue
		}
		returns = append(returns, weekly[i]/weekly[i-1]-1)
	}
	if len(returns) > stabilityWeeks {
		returns = returns[len(returns)-stabilityWeeks:]
	}
	if len(returns) < 2 {
		return 1.0
	}
	std := sampleStd(returns)
	if std == 0 || math.IsNaN(std) {
		return 1.0
	}
	return 1.0 / (1.0 + std)
}

// weeklyCloses reduces daily bars to the last close of each ISO week.
func weeklyCloses(bars []model.OHLCV) []float64 {
	if len(bars) == 0 {
		return nil
	}
	var closes []float64
	currentKey := -1
	for _, b := range bars {
		year, week := b.Time.ISOWeek()
		key := year*100 + week
		if key != currentKey {
			closes = append(closes, b.Close)
			currentKey = key
		} else {
			closes[len(closes)-1] = b.Close
		}
	}
	return closes
}

// liquidity is the trailing liquidityWindow-day average of close*volume,
// i.e. the average daily traded value in currency units. Series without
// volume contribute 0.
func liquidity(bars []model.OHLCV) float64 {
	if len(bars) == 0 {
		return 0
	}
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Close * b.Volume
	}
	window := liquidityWindow
	if len(values) < window {
		window = len(values)
	}
	avg, err := calculator.SMA(values, window)
	if err != nil {
		return 0
	}
	return avg
}

func sampleStd(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / (n - 1))
}

// Package confidence scores entry-timing confidence from recent realized
// volatility: the calmer the series, the higher the score.
package confidence

import "math"

// DefaultWindow is the trailing number of daily returns used.
const DefaultWindow = 20

const tradingDaysPerYear = 252

// Score returns a confidence score in [0,100] from a close series.
//
// The last `window` daily percentage returns are annualized via their
// sample standard deviation; score = max(0, 100 - annualVolPct*2),
// rounded to 1 decimal. A series near 0% annualized vol scores near 100;
// 50%+ annualized vol floors at 0. Fewer than window+1 observations
// (including empty or nil input) degrades to a neutral 50.0 rather than
// failing.
func Score(closes []float64, window int) float64 {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(closes) < window+1 {
		return 50.0
	}

	returns := dailyReturns(closes)
	if len(returns) > window {
		returns = returns[len(returns)-window:]
	}
	if len(returns) < 2 {
		return 50.0
	}

	annualVolPct := sampleStd(returns) * math.Sqrt(tradingDaysPerYear) * 100

	score := 100.0 - annualVolPct*2
	if score < 0 {
		score = 0
	}
	return math.Round(score*10) / 10
}

// Label buckets a confidence score for display.
func Label(score float64) string {
	switch {
	case score >= 75:
		return "Élevée"
	case score >= 50:
		return "Modérée"
	case score >= 25:
		return "Faible"
	default:
		return "Très faible"
	}
}

// dailyReturns computes percentage changes, skipping zero-price bases so
// a malformed bar cannot produce an infinite return.
func dailyReturns(closes []float64) []float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// sampleStd is the n-1 standard deviation.
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

package calculator

import "errors"

// High52w returns the highest close over the most recent 252 trading days.
func High52w(closes []float64) (float64, error) {
	if len(closes) == 0 {
		return 0, errors.New("no closes provided")
	}
	start := len(closes) - 252
	if start < 0 {
		start = 0
	}
	high := closes[start]
	for i := start + 1; i < len(closes); i++ {
		if closes[i] > high {
			high = closes[i]
		}
	}
	return high, nil
}

// DistanceFromHighPct returns how far below `high` the current price sits,
// as a percentage of the high.
func DistanceFromHighPct(current, high float64) (float64, error) {
	if high <= 0 {
		return 0, errors.New("high must be positive")
	}
	return (high - current) / high * 100, nil
}

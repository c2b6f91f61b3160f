package confidence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func constantSeries(price float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

func TestScore_InsufficientDataReturnsNeutral(t *testing.T) {
	assert.Equal(t, 50.0, Score(nil, DefaultWindow))
	assert.Equal(t, 50.0, Score([]float64{}, DefaultWindow))
	assert.Equal(t, 50.0, Score(constantSeries(100, DefaultWindow), DefaultWindow)) // needs window+1
}

func TestScore_FlatSeriesScoresMax(t *testing.T) {
	// Zero volatility → score 100.
	assert.Equal(t, 100.0, Score(constantSeries(42, 60), DefaultWindow))
}

func TestScore_HighVolatilityFloorsAtZero(t *testing.T) {
	// Alternate +10%/-10% daily: annualized vol far beyond 50%.
	closes := make([]float64, 60)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 0 {
			closes[i] = closes[i-1] * 1.10
		} else {
			closes[i] = closes[i-1] * 0.90
		}
	}
	assert.Equal(t, 0.0, Score(closes, DefaultWindow))
}

func TestScore_Bounded(t *testing.T) {
	closes := make([]float64, 100)
	closes[0] = 50
	for i := 1; i < len(closes); i++ {
		// deterministic mild wiggle
		closes[i] = closes[i-1] * (1 + 0.002*math.Sin(float64(i)))
	}
	s := Score(closes, DefaultWindow)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 100.0)
}

func TestScore_KnownVolatility(t *testing.T) {
	// Constant +1%/-1% alternation has a daily std slightly above 1%;
	// check the score against the hand-computed annualization.
	closes := make([]float64, 30)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 0 {
			closes[i] = closes[i-1] * 1.01
		} else {
			closes[i] = closes[i-1] * 0.99
		}
	}
	s := Score(closes, 20)

	rets := make([]float64, 0, 20)
	for i := len(closes) - 20; i < len(closes); i++ {
		rets = append(rets, closes[i]/closes[i-1]-1)
	}
	vol := sampleStd(rets) * math.Sqrt(252) * 100
	want := math.Round(math.Max(0, 100-vol*2)*10) / 10
	assert.Equal(t, want, s)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{90, "Élevée"},
		{75, "Élevée"},
		{60, "Modérée"},
		{50, "Modérée"},
		{30, "Faible"},
		{25, "Faible"},
		{10, "Très faible"},
		{0, "Très faible"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.score), "score %.0f", tt.score)
	}
}

package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}

	got, err := SMA(prices, 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	got, err = SMA(prices, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got) // trailing window

	_, err = SMA(prices, 6)
	assert.Error(t, err)
	_, err = SMA(prices, 0)
	assert.Error(t, err)
}

func TestRSI_Defaults(t *testing.T) {
	// Insufficient data → neutral 50
	got, err := RSI([]float64{1, 2, 3}, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)

	_, err = RSI([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestRSI_Extremes(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(100 - i)
	}

	rsi, err := RSI(up, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi, "monotonic rise has no losses")

	rsi, err = RSI(down, 14)
	require.NoError(t, err)
	assert.Less(t, rsi, 5.0, "monotonic fall should be deeply oversold")
}

func TestHigh52w(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100
	}
	closes[10] = 500 // outside the 252-day window
	closes[299] = 120

	high, err := High52w(closes)
	require.NoError(t, err)
	assert.Equal(t, 120.0, high)

	_, err = High52w(nil)
	assert.Error(t, err)
}

func TestDistanceFromHighPct(t *testing.T) {
	d, err := DistanceFromHighPct(90, 100)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, d, 0.0001)

	_, err = DistanceFromHighPct(90, 0)
	assert.Error(t, err)
}

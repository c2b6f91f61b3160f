package fetcher

import (
	"context"
	"fmt"
	"time"

	"PEAScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	// Series maps symbol to a canned series; symbols not present fall
	// back to generated bars around Price, or Err when set.
	Series map[string]*model.PriceSeries
	Price  float64
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) History(_ context.Context, symbol string, days int) (*model.PriceSeries, error) {
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Price <= 0 {
		return nil, fmt.Errorf("mock: no series for %s", symbol)
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Bars:      GenerateBars(m.Price, days),
		FetchedAt: time.Now(),
	}, nil
}

// GenerateBars produces a gently drifting daily series around basePrice.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// FlatBars produces a constant-price series, useful for fee-drag scenarios.
func FlatBars(price float64, count int, start time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 500000,
		}
	}
	return bars
}

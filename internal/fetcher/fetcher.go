// Package fetcher is the market-data boundary: it turns an external
// provider into validated, chronologically ordered price series. The
// engine packages only ever see the Fetcher interface.
package fetcher

import (
	"context"

	"PEAScout/internal/model"
)

// Fetcher fetches daily history for one instrument.
type Fetcher interface {
	// History returns at most `days` most recent daily bars for symbol.
	History(ctx context.Context, symbol string, days int) (*model.PriceSeries, error)
	Name() string
}

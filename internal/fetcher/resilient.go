package fetcher

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"PEAScout/internal/model"
)

// Resilient wraps a Fetcher with a token-bucket rate limiter and a
// circuit breaker so a misbehaving provider cannot be hammered during a
// batch scoring or backtest run.
type Resilient struct {
	inner   Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewResilient builds the decorator. rps bounds outbound request rate;
// burst is the bucket capacity.
func NewResilient(inner Fetcher, rps float64, burst int) *Resilient {
	settings := gobreaker.Settings{
		Name:     inner.Name(),
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 3 {
				return true
			}
			if counts.Requests < 20 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
		},
	}
	return &Resilient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (r *Resilient) Name() string { return r.inner.Name() }

func (r *Resilient) History(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.inner.History(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.PriceSeries), nil
}

package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"PEAScout/internal/backtest"
	"PEAScout/internal/config"
	"PEAScout/internal/fetcher"
	"PEAScout/internal/scoring"
	"PEAScout/internal/store"
	"PEAScout/internal/universe"
)

// buildFetcher assembles the data source: Alpha Vantage when a key is
// configured, Yahoo otherwise, wrapped in rate limiting, a circuit
// breaker and a TTL cache.
func buildFetcher(cfg *config.Config) fetcher.Fetcher {
	var base fetcher.Fetcher
	if cfg.DataSource.AlphaVantageKey != "" {
		base = fetcher.NewAlphaVantageFetcher(cfg.DataSource.AlphaVantageKey, cfg.Proxy)
	} else {
		base = fetcher.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("source", base.Name()).Msg("data source selected")

	resilient := fetcher.NewResilient(base, cfg.DataSource.RateLimitRPS, cfg.DataSource.RateLimitBurst)
	return fetcher.NewCached(resilient, time.Duration(cfg.DataSource.CacheTTLMinutes)*time.Minute)
}

func buildCatalog(cfg *config.Config) (*universe.Catalog, error) {
	return universe.Load(cfg.Universe.Path)
}

// buildStore opens SQLite, degrading to a no-op store on failure so
// read-only commands still work.
func buildStore(cfg *config.Config) store.Store {
	if cfg.Database.SQLitePath == "" {
		return store.NewNoopStore()
	}
	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("open sqlite failed, persistence disabled")
		return store.NewNoopStore()
	}
	return st
}

func scoringParams(cfg *config.Config) scoring.Params {
	return scoring.Params{
		Investment:     cfg.Strategy.InvestmentAmount,
		GrossTargetPct: cfg.Strategy.GrossTargetPct,
		Fees:           cfg.Fees,
	}
}

func backtestParams(cfg *config.Config, tickers []string) backtest.Params {
	return backtest.Params{
		Tickers:        tickers,
		Investment:     cfg.Strategy.InvestmentAmount,
		GrossTargetPct: cfg.Strategy.GrossTargetPct,
		Fees:           cfg.Fees,
		IntervalDays:   cfg.Strategy.IntervalDays,
		LookbackDays:   cfg.Strategy.LookbackDays,
	}
}

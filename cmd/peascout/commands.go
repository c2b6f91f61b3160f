package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PEAScout/internal/backtest"
	"PEAScout/internal/config"
	"PEAScout/internal/heat"
	"PEAScout/internal/render"
	"PEAScout/internal/scheduler"
	"PEAScout/internal/scoring"
	"PEAScout/internal/server"
	"PEAScout/internal/store"
)

func newScoreCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank the universe and print the top candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := buildCatalog(cfg)
			if err != nil {
				return err
			}
			f := buildFetcher(cfg)
			scorer := scoring.New(f, catalog, cfg.DataSource.Benchmark)

			candidates, skips, err := scorer.ComputeScores(cmd.Context(), scoringParams(cfg))
			if err != nil {
				return err
			}
			fmt.Print(render.Recommendations(candidates, skips))

			if save {
				st := buildStore(cfg)
				defer st.Close()
				runID := uuid.New().String()
				if err := st.SaveRecommendations(runID, time.Now(), candidates); err != nil {
					return fmt.Errorf("save recommendations: %w", err)
				}
				log.Info().Str("run_id", runID).Msg("run persisted")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "persist the run to the database")
	return cmd
}

func newBacktestCmd() *cobra.Command {
	var (
		tickers  []string
		days     int
		interval int
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay the strategy over historical closes",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := buildCatalog(cfg)
			if err != nil {
				return err
			}
			if len(tickers) == 0 {
				tickers = catalog.Tickers()
			}

			params := backtestParams(cfg, tickers)
			if days > 0 {
				params.LookbackDays = days
			}
			if interval > 0 {
				params.IntervalDays = interval
			}

			runner := backtest.NewRunner(buildFetcher(cfg))
			result, err := runner.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Print(render.BacktestReport(result))

			if save {
				st := buildStore(cfg)
				defer st.Close()
				runID := uuid.New().String()
				sp := store.BacktestParams{
					Tickers:        params.Tickers,
					Investment:     params.Investment,
					GrossTargetPct: params.GrossTargetPct,
					FeeMode:        string(params.Fees.Mode),
					IntervalDays:   params.IntervalDays,
					LookbackDays:   params.LookbackDays,
				}
				if err := st.SaveBacktest(runID, time.Now(), sp, result); err != nil {
					return fmt.Errorf("save backtest: %w", err)
				}
				log.Info().Str("run_id", runID).Msg("backtest persisted")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tickers, "tickers", nil, "tickers to simulate (default: full universe)")
	cmd.Flags().IntVar(&days, "days", 0, "lookback window in days")
	cmd.Flags().IntVar(&interval, "interval", 0, "cycle length in trading days")
	cmd.Flags().BoolVar(&save, "save", false, "persist the run to the database")
	return cmd
}

func newHeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heat",
		Short: "Show the market-heat reading and allocation advice",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := buildFetcher(cfg)
			series, err := f.History(cmd.Context(), cfg.DataSource.Benchmark, 365)
			if err != nil {
				log.Warn().Err(err).Msg("benchmark fetch failed, neutral reading")
				series = nil
			}
			h := heat.ComputeMarketHeat(series)
			advice := heat.PositionSizeAdvice(cfg.Strategy.InvestmentAmount*5, h, cfg.Strategy.InvestmentAmount)
			fmt.Print(render.HeatReport(h, advice))
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, st, err := buildServer(cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			return runUntilSignal(srv, nil)
		},
	}
}

func newRunCmd() *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler and the JSON API together",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, st, err := buildServer(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			catalog, err := buildCatalog(cfg)
			if err != nil {
				return err
			}
			scorer := scoring.New(buildFetcher(cfg), catalog, cfg.DataSource.Benchmark)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.New(ctx, scorer, st, scoringParams(cfg), cfg.Strategy.IntervalDays)
			if err := sched.Register(cfg.Schedule.ScoringCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				go sched.RunNow()
			}
			return runUntilSignal(srv, cancel)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "execute a scoring run immediately")
	return cmd
}

// buildServer wires the full dependency graph behind the API.
func buildServer(cfg *config.Config) (*server.Server, store.Store, error) {
	catalog, err := buildCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	f := buildFetcher(cfg)
	st := buildStore(cfg)

	deps := server.Deps{
		Scorer:         scoring.New(f, catalog, cfg.DataSource.Benchmark),
		Runner:         backtest.NewRunner(f),
		Fetcher:        f,
		Store:          st,
		Catalog:        catalog,
		Benchmark:      cfg.DataSource.Benchmark,
		ScoringParams:  scoringParams(cfg),
		BacktestParams: backtestParams(cfg, catalog.Tickers()),
	}
	return server.New(cfg.Server.ListenAddr, deps), st, nil
}

// runUntilSignal serves HTTP until SIGINT or SIGTERM, then drains.
func runUntilSignal(srv *server.Server, onStop func()) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	if onStop != nil {
		onStop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

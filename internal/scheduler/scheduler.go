// Package scheduler runs the scoring pipeline on a cron cadence and
// persists each run.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"PEAScout/internal/scoring"
	"PEAScout/internal/store"
)

// lastRunKey is the settings key holding the date of the last scoring
// run, used to enforce the bi-weekly cadence across restarts.
const lastRunKey = "last_scoring_run"

// Scheduler manages the recurring scoring job.
type Scheduler struct {
	cron   *cron.Cron
	scorer *scoring.Scorer
	store  store.Store
	ctx    context.Context

	params       scoring.Params
	intervalDays int
}

// New creates a Scheduler. intervalDays spaces out runs: a cron tick
// arriving sooner than intervalDays after the last persisted run is
// skipped, so a weekly cron line still yields a bi-weekly cadence.
func New(ctx context.Context, scorer *scoring.Scorer, st store.Store, params scoring.Params, intervalDays int) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		scorer:       scorer,
		store:        st,
		ctx:          ctx,
		params:       params,
		intervalDays: intervalDays,
	}
}

// Register adds the scoring job under the given cron expression
// (six fields, seconds first).
func (s *Scheduler) Register(scoringCron string) error {
	if _, err := s.cron.AddFunc(scoringCron, s.scoringTask); err != nil {
		return fmt.Errorf("register scoring task: %w", err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron loop gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the scoring job immediately, ignoring the cadence
// guard. Used for manual triggers and RUN_ON_START.
func (s *Scheduler) RunNow() {
	s.runScoring(time.Now())
}

func (s *Scheduler) scoringTask() {
	now := time.Now()
	if !s.dueAt(now) {
		log.Info().Msg("scoring tick skipped, inside the current cycle")
		return
	}
	s.runScoring(now)
}

// dueAt reports whether a full cycle has elapsed since the last
// persisted run. Missing or unparseable state counts as due.
func (s *Scheduler) dueAt(now time.Time) bool {
	raw, ok, err := s.store.Setting(lastRunKey)
	if err != nil {
		log.Warn().Err(err).Msg("read last run date")
		return true
	}
	if !ok {
		return true
	}
	last, err := time.Parse("2006-01-02", raw)
	if err != nil {
		log.Warn().Err(err).Str("value", raw).Msg("parse last run date")
		return true
	}
	return now.Sub(last) >= time.Duration(s.intervalDays)*24*time.Hour
}

func (s *Scheduler) runScoring(now time.Time) {
	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().Msg("scoring run started")

	candidates, skips, err := s.scorer.ComputeScores(s.ctx, s.params)
	if err != nil {
		logger.Error().Err(err).Msg("scoring run failed")
		return
	}

	for i, c := range candidates {
		logger.Info().
			Int("rank", i+1).
			Str("ticker", c.Ticker).
			Float64("score", c.Score).
			Float64("price", c.Price).
			Float64("target", c.TargetPrice).
			Float64("confidence", c.Confidence).
			Msg("candidate")
	}
	if len(skips) > 0 {
		logger.Info().Int("skipped", len(skips)).Msg("instruments excluded")
	}

	if err := s.store.SaveRecommendations(runID, now, candidates); err != nil {
		logger.Error().Err(err).Msg("persist recommendations")
		return
	}
	if err := s.store.SetSetting(lastRunKey, now.Format("2006-01-02")); err != nil {
		logger.Warn().Err(err).Msg("persist last run date")
	}
	logger.Info().Int("candidates", len(candidates)).Msg("scoring run complete")
}

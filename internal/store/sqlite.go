package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"PEAScout/internal/model"
)

// SQLiteStore persists engine outputs to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recommendations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			run_date    INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			name        TEXT,
			sector      TEXT,
			score       REAL,
			confidence  REAL,
			price       REAL,
			target      REAL,
			gross_pct   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reco_run ON recommendations(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reco_date ON recommendations(run_date)`,

		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			run_date      INTEGER NOT NULL,
			tickers       TEXT,
			investment    REAL,
			gross_pct     REAL,
			fee_mode      TEXT,
			interval_days INTEGER,
			lookback_days INTEGER,
			total_pnl     REAL,
			trades        INTEGER,
			win_rate      REAL,
			best_trade    REAL,
			worst_trade   REAL,
			avg_trade     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bt_run ON backtest_runs(run_id)`,

		`CREATE TABLE IF NOT EXISTS backtest_trades (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			ticker       TEXT NOT NULL,
			buy_date     INTEGER,
			sell_date    INTEGER,
			buy_price    REAL,
			target_price REAL,
			sell_price   REAL,
			qty          REAL,
			net_pnl      REAL,
			outcome      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bt_trades_run ON backtest_trades(run_id)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRecommendations(runID string, runDate time.Time, candidates []model.ScoredCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO recommendations
		(run_id, run_date, ticker, name, sector, score, confidence, price, target, gross_pct)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candidates {
		if _, err := stmt.Exec(runID, runDate.Unix(), c.Ticker, c.Name, c.Sector,
			c.Score, c.Confidence, c.Price, c.TargetPrice, c.GrossTargetPct*100); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) RecommendationHistory(limit int) ([]RecommendationRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT run_id, run_date, ticker, name, sector, score, confidence, price, target, gross_pct
		FROM recommendations ORDER BY run_date DESC, score DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecommendationRow
	for rows.Next() {
		var r RecommendationRow
		var ts int64
		if err := rows.Scan(&r.RunID, &ts, &r.Ticker, &r.Name, &r.Sector,
			&r.Score, &r.Confidence, &r.Price, &r.Target, &r.GrossPct); err != nil {
			return nil, err
		}
		r.RunDate = time.Unix(ts, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveBacktest(runID string, runDate time.Time, params BacktestParams, result *model.BacktestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sum := result.Summary
	if _, err := tx.Exec(`INSERT INTO backtest_runs
		(run_id, run_date, tickers, investment, gross_pct, fee_mode, interval_days, lookback_days,
		 total_pnl, trades, win_rate, best_trade, worst_trade, avg_trade)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, runDate.Unix(), strings.Join(params.Tickers, ","),
		params.Investment, params.GrossTargetPct*100, params.FeeMode,
		params.IntervalDays, params.LookbackDays,
		sum.TotalPnL, sum.Trades, sum.WinRate, sum.BestTrade, sum.WorstTrade, sum.AvgTrade,
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO backtest_trades
		(run_id, ticker, buy_date, sell_date, buy_price, target_price, sell_price, qty, net_pnl, outcome)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tr := range result.Trades {
		if _, err := stmt.Exec(runID, tr.Ticker, tr.BuyDate.Unix(), tr.SellDate.Unix(),
			tr.BuyPrice, tr.TargetPrice, tr.SellPrice, tr.Qty, tr.NetPnL, string(tr.Outcome)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Setting(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO settings (key, value, updated_at) VALUES (?,?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().Unix())
	return err
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite store")
	return s.db.Close()
}

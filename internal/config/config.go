package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"PEAScout/internal/model"
)

// Config holds all application configuration. The engine packages never
// read it directly; main threads the relevant pieces in as parameters.
type Config struct {
	Strategy struct {
		InvestmentAmount float64 `yaml:"investment_amount"`
		GrossTargetPct   float64 `yaml:"gross_target_pct"`
		IntervalDays     int     `yaml:"interval_days"`
		LookbackDays     int     `yaml:"lookback_days"`
	} `yaml:"strategy"`
	Fees       model.FeeConfig `yaml:"fees"`
	DataSource struct {
		AlphaVantageKey string  `yaml:"alpha_vantage_key"`
		Benchmark       string  `yaml:"benchmark"`
		RateLimitRPS    float64 `yaml:"rate_limit_rps"`
		RateLimitBurst  int     `yaml:"rate_limit_burst"`
		CacheTTLMinutes int     `yaml:"cache_ttl_minutes"`
	} `yaml:"data_source"`
	Universe struct {
		Path string `yaml:"path"`
	} `yaml:"universe"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Schedule struct {
		ScoringCron string `yaml:"scoring_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine: defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.DataSource.AlphaVantageKey = v
	}
	if v := os.Getenv("BENCHMARK_SYMBOL"); v != "" {
		cfg.DataSource.Benchmark = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("UNIVERSE_PATH"); v != "" {
		cfg.Universe.Path = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("CRON_SCORING"); v != "" {
		cfg.Schedule.ScoringCron = v
	}
	if v := os.Getenv("INVESTMENT_AMOUNT"); v != "" {
		var amount float64
		if _, err := fmt.Sscanf(v, "%f", &amount); err == nil {
			cfg.Strategy.InvestmentAmount = amount
		}
	}

	// Defaults
	if cfg.Strategy.InvestmentAmount == 0 {
		cfg.Strategy.InvestmentAmount = 100
	}
	if cfg.Strategy.GrossTargetPct == 0 {
		cfg.Strategy.GrossTargetPct = 0.045
	}
	if cfg.Strategy.IntervalDays == 0 {
		cfg.Strategy.IntervalDays = 14
	}
	if cfg.Strategy.LookbackDays == 0 {
		cfg.Strategy.LookbackDays = 90
	}
	if cfg.Fees.Mode == "" {
		cfg.Fees.Mode = model.FeeFlat
	}
	if cfg.Fees.FlatFee == 0 {
		cfg.Fees.FlatFee = 1.99
	}
	if cfg.Fees.PctFee == 0 {
		cfg.Fees.PctFee = 0.005
	}
	if cfg.DataSource.Benchmark == "" {
		cfg.DataSource.Benchmark = "CAC40"
	}
	if cfg.DataSource.RateLimitRPS == 0 {
		cfg.DataSource.RateLimitRPS = 2
	}
	if cfg.DataSource.RateLimitBurst == 0 {
		cfg.DataSource.RateLimitBurst = 4
	}
	if cfg.DataSource.CacheTTLMinutes == 0 {
		cfg.DataSource.CacheTTLMinutes = 60
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/peascout.db"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "127.0.0.1:8080"
	}
	if cfg.Schedule.ScoringCron == "" {
		// Monday 08:00, with seconds field
		cfg.Schedule.ScoringCron = "0 0 8 * * 1"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Strategy.InvestmentAmount <= 0 {
		return fmt.Errorf("strategy.investment_amount must be positive")
	}
	if c.Strategy.GrossTargetPct <= 0 {
		return fmt.Errorf("strategy.gross_target_pct must be positive")
	}
	if c.Strategy.IntervalDays < 1 {
		return fmt.Errorf("strategy.interval_days must be at least 1")
	}
	if c.Strategy.LookbackDays < c.Strategy.IntervalDays {
		return fmt.Errorf("strategy.lookback_days must cover at least one interval")
	}
	if c.Fees.Mode != model.FeeFlat && c.Fees.Mode != model.FeePct {
		return fmt.Errorf("fees.mode must be %q or %q", model.FeeFlat, model.FeePct)
	}
	if c.Fees.Mode == model.FeeFlat && c.Fees.FlatFee < 0 {
		return fmt.Errorf("fees.flat_fee must not be negative")
	}
	if c.Fees.Mode == model.FeePct && (c.Fees.PctFee < 0 || c.Fees.PctFee >= 1) {
		return fmt.Errorf("fees.pct_fee must be a fraction in [0,1)")
	}
	return nil
}

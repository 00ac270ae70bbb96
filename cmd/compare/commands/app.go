package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"MarketCompare/internal/analysis"
	"MarketCompare/internal/collector"
	"MarketCompare/internal/config"
	"MarketCompare/internal/correction"
	"MarketCompare/internal/logger"
	"MarketCompare/internal/recorder"
)

const defaultConfigPath = "configs/config.yaml"

// app bundles what every command derives from the configuration.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	rules correction.Rules
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return defaultConfigPath
}

// loadApp reads and validates the configuration and builds the logger.
// override may adjust the config before validation.
func loadApp(override func(cfg *config.Config)) (*app, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(cfg)
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	rules, err := cfg.CorrectionRules()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, rules: rules}, nil
}

func (a *app) source() collector.SourceConfig {
	ds := a.cfg.DataSource
	return collector.SourceConfig{
		Provider:  ds.Provider,
		BaseURL:   ds.BaseURL,
		APIKey:    ds.APIKey,
		Proxy:     a.cfg.Proxy,
		RateLimit: ds.RateLimit,
		Timeout:   ds.Timeout,
	}
}

func (a *app) newRunner() (*analysis.Runner, error) {
	fetcher, err := collector.NewFetcher(a.source(), a.log)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("provider", fetcher.Name()).Msg("data source ready")
	col := collector.NewCollector(fetcher, a.rules, a.cfg.DataSource.Concurrency, a.log)
	return analysis.NewRunner(col, a.log), nil
}

// openRecorder returns the SQLite recorder when configured, otherwise a no-op.
// required turns a missing path into an error.
func (a *app) openRecorder(required bool) (recorder.Recorder, error) {
	path := a.cfg.Database.SQLitePath
	if path == "" {
		if required {
			return nil, fmt.Errorf("database.sqlite_path (or SQLITE_PATH) is not configured")
		}
		return recorder.NewNoopRecorder(), nil
	}
	rec, err := recorder.NewSQLiteRecorder(path, a.log)
	if err != nil {
		if required {
			return nil, err
		}
		a.log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder(), nil
	}
	return rec, nil
}

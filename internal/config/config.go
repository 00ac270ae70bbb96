package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MarketCompare/internal/correction"
	"MarketCompare/internal/model"
)

// Providers lists the supported data source names.
var Providers = []string{"yahoo", "eodhd", "yfinance"}

// CorrectionRule is a config-file price correction.
type CorrectionRule struct {
	Symbol  string  `yaml:"symbol"`
	Cutoff  string  `yaml:"cutoff"`
	Divisor float64 `yaml:"divisor"`
}

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Compare struct {
		Symbols        []string `yaml:"symbols"`
		StartDate      string   `yaml:"start_date"`
		EndDate        string   `yaml:"end_date"` // empty means today
		InitialCapital float64  `yaml:"initial_capital"`
	} `yaml:"compare"`
	DataSource struct {
		Provider    string        `yaml:"provider"`
		BaseURL     string        `yaml:"base_url"`
		APIKey      string        `yaml:"api_key"`
		RateLimit   int           `yaml:"rate_limit"`
		Concurrency int           `yaml:"concurrency"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy       string           `yaml:"proxy"`
	Corrections []CorrectionRule `yaml:"corrections"`
}

// Load reads .env, then the YAML file at path (a missing file is not an
// error), then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

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

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// loadEnvFile loads the first .env found. A missing file is fine; one that
// cannot be read or parsed is an error.
func loadEnvFile() error {
	for _, p := range []string{".env", "configs/.env"} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				return fmt.Errorf("load %s: %w", p, err)
			}
			return nil
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		c.Schedule.ReportCron = v
	}
	if v := os.Getenv("INITIAL_CAPITAL"); v != "" {
		if capital, err := strconv.ParseFloat(v, 64); err == nil {
			c.Compare.InitialCapital = capital
		}
	}
	if v := os.Getenv("COMPARE_SYMBOLS"); v != "" {
		c.Compare.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("COMPARE_START"); v != "" {
		c.Compare.StartDate = v
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Compare.Symbols) == 0 {
		c.Compare.Symbols = []string{"0050.TW", "0052.TW", "QQQ"}
	}
	if c.Compare.StartDate == "" {
		c.Compare.StartDate = "2010-01-01"
	}
	if c.Compare.InitialCapital == 0 {
		c.Compare.InitialCapital = model.DefaultInitialCapital
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.RateLimit == 0 {
		c.DataSource.RateLimit = 5
	}
	if c.DataSource.Concurrency == 0 {
		c.DataSource.Concurrency = 4
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 0 18 * * 1-5"
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if !isProvider(c.DataSource.Provider) {
		return fmt.Errorf("data_source.provider must be one of %s", strings.Join(Providers, ", "))
	}
	if c.DataSource.Provider == "eodhd" && c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required for eodhd")
	}
	if c.DataSource.RateLimit < 0 || c.DataSource.Concurrency < 0 {
		return fmt.Errorf("data_source.rate_limit and concurrency must not be negative")
	}
	if c.Compare.InitialCapital <= 0 {
		return fmt.Errorf("compare.initial_capital must be positive")
	}
	if _, err := model.ParseDate(c.Compare.StartDate); err != nil {
		return fmt.Errorf("compare.start_date: %w", err)
	}
	if c.Compare.EndDate != "" {
		if _, err := model.ParseDate(c.Compare.EndDate); err != nil {
			return fmt.Errorf("compare.end_date: %w", err)
		}
	}
	if _, err := c.CorrectionRules(); err != nil {
		return err
	}
	return nil
}

// ValidateService checks the extra settings needed by the long-running service.
func (c *Config) ValidateService() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// CorrectionRules returns the built-in rules merged with configured ones.
func (c *Config) CorrectionRules() (correction.Rules, error) {
	extra := correction.Rules{}
	for _, r := range c.Corrections {
		cutoff, err := model.ParseDate(r.Cutoff)
		if err != nil {
			return nil, fmt.Errorf("corrections %s: %w", r.Symbol, err)
		}
		sym := strings.ToUpper(strings.TrimSpace(r.Symbol))
		extra[sym] = append(extra[sym], correction.Rule{Cutoff: cutoff, Divisor: r.Divisor})
	}
	rules := correction.Default.Merge(extra)
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Request builds the configured comparison; an empty end date means today.
func (c *Config) Request(now time.Time) (model.Request, error) {
	start, err := model.ParseDate(c.Compare.StartDate)
	if err != nil {
		return model.Request{}, err
	}
	end := model.Day(now)
	if c.Compare.EndDate != "" {
		if end, err = model.ParseDate(c.Compare.EndDate); err != nil {
			return model.Request{}, err
		}
	}
	return model.Request{
		Start:          start,
		End:            end,
		InitialCapital: c.Compare.InitialCapital,
		Symbols:        c.Compare.Symbols,
	}.Normalize(), nil
}

func isProvider(name string) bool {
	for _, p := range Providers {
		if p == name {
			return true
		}
	}
	return false
}

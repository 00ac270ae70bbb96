package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketCompare/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"0050.TW", "0052.TW", "QQQ"}, cfg.Compare.Symbols)
	assert.Equal(t, "2010-01-01", cfg.Compare.StartDate)
	assert.Equal(t, 10000.0, cfg.Compare.InitialCapital)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
compare:
  symbols: [spy, qqq]
  start_date: "2015-03-01"
  end_date: "2020-12-31"
data_source:
  provider: eodhd
  timeout: 10s
corrections:
  - symbol: spy
    cutoff: "2016-01-04"
    divisor: 2
`)
	t.Setenv("EODHD_API_KEY", "secret")
	t.Setenv("INITIAL_CAPITAL", "25000")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "secret", cfg.DataSource.APIKey)
	assert.Equal(t, 25000.0, cfg.Compare.InitialCapital)
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)

	req, err := cfg.Request(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY", "QQQ"}, req.Symbols)
	assert.Equal(t, model.Date(2015, time.March, 1), req.Start)
	assert.Equal(t, model.Date(2020, time.December, 31), req.End)

	rules, err := cfg.CorrectionRules()
	require.NoError(t, err)
	require.Len(t, rules["SPY"], 1)
	assert.Equal(t, 2.0, rules["SPY"][0].Divisor)
	assert.Len(t, rules["0050.TW"], 1)
}

func TestRequest_EmptyEndMeansToday(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	req, err := cfg.Request(time.Date(2024, 6, 7, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.Date(2024, time.June, 7), req.End)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"eodhd without key", func(c *Config) { c.DataSource.Provider = "eodhd"; c.DataSource.APIKey = "" }},
		{"negative capital", func(c *Config) { c.Compare.InitialCapital = -1 }},
		{"bad start", func(c *Config) { c.Compare.StartDate = "01/01/2010" }},
		{"bad correction", func(c *Config) {
			c.Corrections = []CorrectionRule{{Symbol: "X", Cutoff: "2020-01-01", Divisor: 0}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateService(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Telegram.BotToken = ""
	cfg.Telegram.ChatID = ""
	assert.Error(t, cfg.ValidateService())

	cfg.Telegram.BotToken = "t"
	cfg.Telegram.ChatID = "c"
	assert.NoError(t, cfg.ValidateService())
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "compare: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_UnreadableEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".env"), 0o755))
	t.Chdir(dir)

	_, err := Load(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COMPARE_START=2012-05-01\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("COMPARE_START", "")
	require.NoError(t, os.Unsetenv("COMPARE_START"))

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "2012-05-01", cfg.Compare.StartDate)
}

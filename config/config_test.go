package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dreamvillians/tradeville-journal/metrics"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, SourceSQLite, cfg.Journal.Source)
	assert.Equal(t, "./journal.db", cfg.Journal.DBPath)
	assert.Equal(t, 5, cfg.Report.TopN)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown source", func(c *Config) { c.Journal.Source = "csv" }, "journal.source must be"},
		{"sqlite without path", func(c *Config) { c.Journal.DBPath = "" }, "journal.db_path required"},
		{"backend without url", func(c *Config) {
			c.Journal.Source = SourceBackend
			c.Backend.APIKey = "k"
		}, "backend.url required"},
		{"backend without key", func(c *Config) {
			c.Journal.Source = SourceBackend
			c.Backend.URL = "https://x.example"
		}, "backend.api_key required"},
		{"backend complete", func(c *Config) {
			c.Journal.Source = SourceBackend
			c.Backend.URL = "https://x.example"
			c.Backend.APIKey = "k"
		}, ""},
		{"negative page size", func(c *Config) { c.Backend.PageSize = -1 }, "backend.page_size"},
		{"negative rps", func(c *Config) { c.Backend.RequestsPerSecond = -2 }, "backend.requests_per_second"},
		{"bad timeout", func(c *Config) { c.Backend.Timeout = "soon" }, "backend.timeout"},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = "-1s" }, "backend.timeout must not be negative"},
		{"bad period", func(c *Config) { c.Report.Period = "decade" }, "report.period"},
		{"bad weekday", func(c *Config) { c.Report.WeekStart = "funday" }, "report.week_start"},
		{"bad timezone", func(c *Config) { c.Report.Timezone = "Mars/Olympus" }, "report.timezone"},
		{"negative top", func(c *Config) { c.Report.TopN = -1 }, "report.top_n"},
		{"bad encoding", func(c *Config) { c.Log.Encoding = "xml" }, "log.encoding"},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"upper-case level", func(c *Config) { c.Log.Level = "Debug" }, ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestValidatePeriodError(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Report.Period = "decade"
	assert.ErrorIs(t, cfg.Validate(), metrics.ErrUnknownPeriod)
}

func TestReportWeekday(t *testing.T) {
	t.Parallel()

	tests := map[string]time.Weekday{
		"":       time.Sunday,
		"monday": time.Monday,
		"MON":    time.Monday,
		"Sat":    time.Saturday,
	}
	for in, want := range tests {
		got, err := ReportConfig{WeekStart: in}.Weekday()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestReportLocation(t *testing.T) {
	t.Parallel()

	loc, err := ReportConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = ReportConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	d, err := BackendConfig{}.ParseTimeout()
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = BackendConfig{Timeout: "1m30s"}.ParseTimeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestSaveAndLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Journal.DBPath = filepath.Join(dir, "trades.db")
	cfg.Report.TopN = 3
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "db_path:")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveAndLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Report.WeekStart = "monday"
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"week_start": "monday"`)

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  top_n: 9\n"), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Report.TopN)
	assert.Equal(t, SourceSQLite, cfg.Journal.Source)
	assert.Equal(t, "sunday", cfg.Report.WeekStart)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("journal: [unclosed"), 0o600))
	_, err = LoadFromFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("journal:\n  source: ftp\n"), 0o600))
	_, err = LoadFromFile(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TJ_SOURCE", "backend")
	t.Setenv("TJ_BACKEND_URL", "https://journal.example")
	t.Setenv("TJ_BACKEND_API_KEY", "secret")
	t.Setenv("TJ_BACKEND_PAGE_SIZE", "50")
	t.Setenv("TJ_TOP_N", "7")
	t.Setenv("TJ_LOG_DEVELOPMENT", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceBackend, cfg.Journal.Source)
	assert.Equal(t, "https://journal.example", cfg.Backend.URL)
	assert.Equal(t, "secret", cfg.Backend.APIKey)
	assert.Equal(t, 50, cfg.Backend.PageSize)
	assert.Equal(t, 7, cfg.Report.TopN)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "trades", cfg.Backend.Table, "unset variables keep defaults")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  top_n: 2\n"), 0o600))
	t.Setenv("TJ_TOP_N", "11")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.Report.TopN)
}

func TestReadSkipsValidation(t *testing.T) {
	t.Setenv("TJ_SOURCE", "backend")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.url required")

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, SourceBackend, cfg.Journal.Source)

	cfg.Journal.Source = SourceSQLite
	assert.NoError(t, cfg.Validate())
}

func TestEnvironmentBadValue(t *testing.T) {
	t.Setenv("TJ_TOP_N", "many")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment overrides")
}

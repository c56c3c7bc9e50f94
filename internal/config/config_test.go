package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("configs/none.yaml")
	require.NoError(t, err)

	assert.Equal(t, ModelPath, cfg.ModelPath)
	assert.Equal(t, "input", cfg.Inference.InputName)
	assert.Equal(t, "dense", cfg.Inference.OutputName)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "data/predictions.db", cfg.Database.SQLitePath)
	assert.Equal(t, 60, cfg.Refresh.Days)
	assert.False(t, cfg.Refresh.Enabled)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
refresh:
  enabled: true
  symbol: AAPL
  days: 90
database:
  sqlite_path: from-yaml.db
`), 0o644))
	t.Setenv("SQLITE_PATH", "from-env.db")
	t.Setenv("REFRESH_CRON", "0 0 * * * *")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Refresh.Enabled)
	assert.Equal(t, "AAPL", cfg.Refresh.Symbol)
	assert.Equal(t, 90, cfg.Refresh.Days)
	assert.Equal(t, "from-env.db", cfg.Database.SQLitePath)
	assert.Equal(t, "0 0 * * * *", cfg.Refresh.Cron)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REFRESH_SYMBOL=MSFT\nSQLITE_DISABLED=true\n"), 0o644))
	// godotenv does not override variables that are already set
	t.Setenv("REFRESH_SYMBOL", "")
	os.Unsetenv("REFRESH_SYMBOL")
	t.Setenv("SQLITE_DISABLED", "")
	os.Unsetenv("SQLITE_DISABLED")

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)

	assert.Equal(t, "MSFT", cfg.Refresh.Symbol)
	assert.True(t, cfg.Database.Disabled)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyArgs(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.ApplyArgs([]string{"data/AAPL.csv", "12", "8080"}))

	assert.Equal(t, "data/AAPL.csv", cfg.CSVPath)
	assert.Equal(t, 12, cfg.Window)
	assert.Equal(t, 8080, cfg.Port)
	assert.NoError(t, cfg.Validate())
}

func TestApplyArgs_Errors(t *testing.T) {
	tests := [][]string{
		{"a.csv", "10"},
		{"a.csv", "ten", "8080"},
		{"a.csv", "10", "http"},
	}
	for _, args := range tests {
		cfg := &Config{}
		assert.Error(t, cfg.ApplyArgs(args), "args %v", args)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{CSVPath: "a.csv", Window: 10, Port: 8080}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no csv", func(c *Config) { c.CSVPath = "" }},
		{"zero window", func(c *Config) { c.Window = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"refresh without symbol", func(c *Config) { c.Refresh.Enabled = true; c.Refresh.Days = 60 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, valid().Validate())
}

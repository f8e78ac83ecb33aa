package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("sheet", "", "")
	flags.StringSlice("key", nil, "")
	flags.String("out", "", "")
	flags.Bool("strict-empty", false, "")
	flags.BoolP("verbose", "v", false, "")
	flags.String("config", "", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Keys)
	assert.False(t, cfg.StrictEmpty)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheetdiff.yaml")
	yaml := "sheet: People\nkey: [id]\ntrim: true\nlog:\n  level: debug\nserver:\n  port: 9000\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	t.Setenv("SHEETDIFF_SERVER_PORT", "9100")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--key", "order,line", "--strict-empty"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "People", cfg.Sheet, "from file")
	assert.True(t, cfg.Trim, "from file")
	assert.Equal(t, "debug", cfg.Log.Level, "from file")
	assert.Equal(t, 9100, cfg.Server.Port, "env overrides file")
	assert.Equal(t, []string{"order", "line"}, cfg.Keys, "flag overrides file")
	assert.True(t, cfg.StrictEmpty)

	options := cfg.DiffOptions()
	assert.Equal(t, []string{"order", "line"}, options.KeyColumns)
	assert.True(t, options.StrictEmpty)
	assert.True(t, options.Trim)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn"}}
	assert.Equal(t, zapcore.WarnLevel, cfg.LogLevel())

	cfg.Verbose = true
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel())

	cfg.Log.Level = "debug"
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Out:    "diff.xlsx",
			Report: "summary.html",
			Log:    LogConfig{Level: "info"},
			Server: ServerConfig{Port: 8080},
		}
	}
	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"out type", func(c *Config) { c.Out = "diff.csv" }},
		{"report type", func(c *Config) { c.Report = "summary.txt" }},
		{"input type", func(c *Config) { c.TypeA = "ods" }},
		{"blank key", func(c *Config) { c.Keys = []string{" "} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

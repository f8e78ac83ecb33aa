// Package config loads run settings from a YAML file, the environment and
// command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/TFMV/sheetdiff/pkg/readers"
	"github.com/TFMV/sheetdiff/pkg/writers"
	"github.com/TFMV/sheetdiff/report"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. SHEETDIFF_LOG_LEVEL.
const EnvPrefix = "SHEETDIFF"

// --- Configuration Structs ---

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

type Config struct {
	Sheet       string       `mapstructure:"sheet" yaml:"sheet,omitempty"`
	Keys        []string     `mapstructure:"key" yaml:"key,omitempty"`
	Ignore      []string     `mapstructure:"ignore" yaml:"ignore,omitempty"`
	Out         string       `mapstructure:"out" yaml:"out,omitempty"`
	Report      string       `mapstructure:"report" yaml:"report,omitempty"`
	StrictEmpty bool         `mapstructure:"strict_empty" yaml:"strict_empty"`
	Trim        bool         `mapstructure:"trim" yaml:"trim"`
	TypeA       string       `mapstructure:"type_a" yaml:"type_a,omitempty"`
	TypeB       string       `mapstructure:"type_b" yaml:"type_b,omitempty"`
	Progress    bool         `mapstructure:"progress" yaml:"progress"`
	Verbose     bool         `mapstructure:"verbose" yaml:"verbose"`
	Log         LogConfig    `mapstructure:"log" yaml:"log"`
	Server      ServerConfig `mapstructure:"server" yaml:"server"`
}

// DiffOptions returns the comparison options of the configuration.
func (c *Config) DiffOptions() core.DiffOptions {
	return core.DiffOptions{
		KeyColumns:    c.Keys,
		IgnoreColumns: c.Ignore,
		StrictEmpty:   c.StrictEmpty,
		Trim:          c.Trim,
	}
}

// LogLevel returns the configured level, raised to info by Verbose when no
// level below warn was asked for.
func (c *Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}
	if c.Verbose && level > zapcore.InfoLevel {
		level = zapcore.InfoLevel
	}
	return level
}

// --- Load Configuration ---

func setDefaults(v *viper.Viper) {
	v.SetDefault("sheet", "")
	v.SetDefault("key", []string{})
	v.SetDefault("ignore", []string{})
	v.SetDefault("out", "")
	v.SetDefault("report", "")
	v.SetDefault("strict_empty", false)
	v.SetDefault("trim", false)
	v.SetDefault("type_a", "")
	v.SetDefault("type_b", "")
	v.SetDefault("progress", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("server.port", 8080)
}

// Load reads the configuration. Values come, from lowest to highest
// precedence, from defaults, the YAML file at configPath (if any), SHEETDIFF_
// environment variables and the flags explicitly set in flags (may be nil).
// Flag names map to keys with dashes replaced by underscores.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(flag *pflag.Flag) {
			if flag.Name == "config" || bindErr != nil {
				return
			}
			key := strings.ReplaceAll(flag.Name, "-", "_")
			if flag.Name == "port" {
				key = "server.port"
			}
			bindErr = v.BindPFlag(key, flag)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf(format, a...)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log configuration error: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server configuration error: %w", err)
	}
	if c.Out != "" {
		typ := writers.DetectType(c.Out)
		if err := validate(writers.DefaultFactory.Supports(typ), "unsupported output type %q for %s", typ, c.Out); err != nil {
			return err
		}
	}
	if c.Report != "" {
		if _, err := report.GeneratorFor(c.Report); err != nil {
			return fmt.Errorf("report %s: %w", c.Report, err)
		}
	}
	for _, typ := range []string{c.TypeA, c.TypeB} {
		if err := validate(readers.DefaultFactory.Supports(typ), "unsupported input type %q", typ); err != nil {
			return err
		}
	}
	for _, key := range c.Keys {
		if err := validate(strings.TrimSpace(key) != "", "key column names must not be empty"); err != nil {
			return err
		}
	}
	return nil
}

func (lc *LogConfig) Validate() error {
	_, err := zapcore.ParseLevel(lc.Level)
	return validate(err == nil, "unknown log level %q", lc.Level)
}

func (sc *ServerConfig) Validate() error {
	return validate(sc.Port > 0 && sc.Port <= 65535, "port must be between 1 and 65535, got %d", sc.Port)
}

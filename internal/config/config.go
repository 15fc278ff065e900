package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Data sources the loader can read from.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config holds application configuration from environment variables.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`  // directory holding the city CSV files
	DBPath   string `mapstructure:"db_path"`   // SQLite file used by -import and the sqlite source
	Source   string `mapstructure:"source"`    // "csv" or "sqlite"
	PageSize int    `mapstructure:"page_size"` // raw rows shown per request
	LogLevel string `mapstructure:"log_level"`

	ImportData bool `mapstructure:"-"` // CLI flag: import CSVs into SQLite, then exit
}

// Load reads configuration from BIKESHARE_* environment variables with defaults.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("bikeshare")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "./data")
	v.SetDefault("db_path", "./bikeshare.db")
	v.SetDefault("source", SourceCSV)
	v.SetDefault("page_size", 5)
	v.SetDefault("log_level", "warn")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		// Unparseable values (e.g. a non-numeric page size) fall back to defaults.
		cfg = &Config{
			DataDir:  v.GetString("data_dir"),
			DBPath:   v.GetString("db_path"),
			Source:   v.GetString("source"),
			PageSize: 5,
			LogLevel: v.GetString("log_level"),
		}
	}
	cfg.Source = strings.ToLower(cfg.Source)
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	return cfg
}

// Level maps LogLevel to a slog level, defaulting to warn.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

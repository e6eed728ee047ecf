package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete remedy configuration
type Config struct {
	Planner PlannerConfig `mapstructure:"planner" yaml:"planner"`
	Ingest  IngestConfig  `mapstructure:"ingest" yaml:"ingest"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// PlannerConfig controls how plans are generated
type PlannerConfig struct {
	// IDStrategy selects task ids: "uuid" (random, default) or "sequential"
	// ("<id_prefix>-1", "<id_prefix>-2", ...), which makes output reproducible.
	IDStrategy string `mapstructure:"id_strategy" yaml:"id_strategy"`
	// IDPrefix is the prefix for sequential ids (default: "task")
	IDPrefix string `mapstructure:"id_prefix" yaml:"id_prefix"`
}

// IngestConfig filters analysis documents before planning
type IngestConfig struct {
	// Exclude drops issues whose file matches any of these path.Match globs,
	// and removes matching files from patterns.
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
	// MinSeverity drops issues below this severity. Empty keeps everything.
	MinSeverity string `mapstructure:"min_severity" yaml:"min_severity"`
}

// OutputConfig controls plan rendering
type OutputConfig struct {
	// Format is the default output format: text, markdown, json or yaml
	Format string `mapstructure:"format" yaml:"format"`
	// Color is auto (colour only on a terminal), always or never
	Color string `mapstructure:"color" yaml:"color"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn or error (default: warn)
	Level string `mapstructure:"level" yaml:"level"`
	// File receives JSON logs when set; otherwise logs go to stderr as text
	File string `mapstructure:"file" yaml:"file"`
	// MaxSizeMB is the size at which File is rotated (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated files
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// WatchConfig controls `remedy plan --watch`
type WatchConfig struct {
	// DebounceMs collapses bursts of file events into one re-plan (default: 250)
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// BatchConfig controls planning of several inputs at once
type BatchConfig struct {
	// MaxParallel bounds how many inputs are planned concurrently (default: 4)
	MaxParallel int `mapstructure:"max_parallel" yaml:"max_parallel"`
}

// ServerConfig controls `remedy serve`
type ServerConfig struct {
	// Addr is the listen address (default: "127.0.0.1:8088")
	Addr string `mapstructure:"addr" yaml:"addr"`
	// MaxBodyBytes caps the size of a posted analysis document (default: 8 MiB)
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			IDStrategy: IDStrategyUUID,
			IDPrefix:   "task",
		},
		Ingest: IngestConfig{
			Exclude:     []string{},
			MinSeverity: "",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		Watch: WatchConfig{
			DebounceMs: 250,
		},
		Batch: BatchConfig{
			MaxParallel: 4,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8088",
			MaxBodyBytes: 8 << 20,
		},
	}
}

// ID strategies accepted by planner.id_strategy
const (
	IDStrategyUUID       = "uuid"
	IDStrategySequential = "sequential"
)

// Debounce returns the debounce interval as a time.Duration
func (c *WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("planner.id_strategy", defaults.Planner.IDStrategy)
	viper.SetDefault("planner.id_prefix", defaults.Planner.IDPrefix)

	viper.SetDefault("ingest.exclude", defaults.Ingest.Exclude)
	viper.SetDefault("ingest.min_severity", defaults.Ingest.MinSeverity)

	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	viper.SetDefault("batch.max_parallel", defaults.Batch.MaxParallel)

	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.max_body_bytes", defaults.Server.MaxBodyBytes)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if it
// cannot be loaded.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "remedy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".remedy"
	}
	return filepath.Join(home, ".config", "remedy")
}

// ConfigFile returns the path to the user config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LocalConfigName is the per-project config file looked up in the working
// directory, without its extension.
const LocalConfigName = "remedy"

// Locate returns the config file to read: ./remedy.yaml when present,
// otherwise the user config file when present, otherwise "".
func Locate() string {
	for _, candidate := range []string{LocalConfigName + ".yaml", ConfigFile()} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName is the application name used for config paths and the
// environment variable prefix.
const AppName = "fdk"

// configSearchPaths returns the paths to search for config files in order of precedence
// (later paths have higher priority in Viper)
func configSearchPaths() []string {
	paths := []string{}

	// System-wide (lowest priority)
	paths = append(paths, filepath.Join("/etc", AppName))

	// User-specific
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", AppName))
	}

	// Current directory (highest priority for files)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}

	return paths
}

// UserConfigDir returns the user-specific config directory
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// newViper creates and configures a new Viper instance
func newViper() *viper.Viper {
	v := viper.New()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml") // default, but will auto-detect

	// Add search paths
	for _, path := range configSearchPaths() {
		v.AddConfigPath(path)
	}

	// Environment variable settings, e.g. FDK_CACHE_BACKEND
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads the configuration, merging defaults, an optional config
// file, and FDK_* environment variables.
func Load(cfgFile string) (*Config, error) {
	v := newViper()

	// Set defaults
	setViperDefaults(v, Default())

	// Load config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Resolve any secrets
	if err := resolveSecrets(&cfg); err != nil {
		return nil, fmt.Errorf("failed to resolve secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setViperDefaults sets default values in Viper from a config struct
func setViperDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.output", c.Log.Output)
	v.SetDefault("log.file_path", c.Log.FilePath)
	v.SetDefault("log.max_size_mb", c.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", c.Log.MaxBackups)
	v.SetDefault("log.max_age_days", c.Log.MaxAgeDays)
	v.SetDefault("log.enable_caller", c.Log.EnableCaller)
	v.SetDefault("log.no_color", c.Log.NoColor)
	v.SetDefault("log.journal_path", c.Log.JournalPath)
	v.SetDefault("log.journal_max_age_days", c.Log.JournalMaxAgeDays)
	v.SetDefault("log.redact_fields", c.Log.RedactFields)

	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.color", c.Output.Color)

	v.SetDefault("source.base_url", c.Source.BaseURL)
	v.SetDefault("source.timeout", c.Source.Timeout)
	v.SetDefault("source.rate_limit", c.Source.RateLimit)
	v.SetDefault("source.rate_burst", c.Source.RateBurst)
	v.SetDefault("source.language", c.Source.Language)

	v.SetDefault("cache.enabled", c.Cache.Enabled)
	v.SetDefault("cache.backend", c.Cache.Backend)
	v.SetDefault("cache.sqlite.path", c.Cache.SQLite.Path)
	v.SetDefault("cache.sqlite.max_open_conns", c.Cache.SQLite.MaxOpenConns)
	v.SetDefault("cache.sqlite.compression", c.Cache.SQLite.Compression)
	v.SetDefault("cache.sqlite.compression_level", c.Cache.SQLite.CompressionLevel)
	v.SetDefault("cache.postgres.dsn", c.Cache.Postgres.DSN)
	v.SetDefault("cache.postgres.max_conns", c.Cache.Postgres.MaxConns)

	v.SetDefault("fetch.max_concurrent", c.Fetch.MaxConcurrent)
	v.SetDefault("fetch.search_concurrent", c.Fetch.SearchConcurrent)
	v.SetDefault("fetch.max_attempts", c.Fetch.MaxAttempts)
	v.SetDefault("fetch.base_delay", c.Fetch.BaseDelay)
	v.SetDefault("fetch.estimate_seconds_per_object", c.Fetch.EstimateSecondsPerObject)

	v.SetDefault("data_dir", c.DataDir)
}

// ConfigFileUsed returns the config file path that was loaded, if any
func ConfigFileUsed() string {
	v := newViper()
	_ = v.ReadInConfig()
	return v.ConfigFileUsed()
}

// NewViperFromConfig creates a viper instance populated with values from a config struct
func NewViperFromConfig(c *Config) *viper.Viper {
	v := viper.New()

	v.Set("log.level", c.Log.Level)
	v.Set("log.format", c.Log.Format)
	v.Set("log.output", c.Log.Output)
	v.Set("log.file_path", c.Log.FilePath)
	v.Set("log.max_size_mb", c.Log.MaxSizeMB)
	v.Set("log.max_backups", c.Log.MaxBackups)
	v.Set("log.max_age_days", c.Log.MaxAgeDays)
	v.Set("log.enable_caller", c.Log.EnableCaller)
	v.Set("log.no_color", c.Log.NoColor)
	v.Set("log.journal_path", c.Log.JournalPath)
	v.Set("log.journal_max_age_days", c.Log.JournalMaxAgeDays)
	v.Set("log.redact_fields", c.Log.RedactFields)

	v.Set("output.format", c.Output.Format)
	v.Set("output.color", c.Output.Color)

	v.Set("source.base_url", c.Source.BaseURL)
	v.Set("source.timeout", c.Source.Timeout)
	v.Set("source.rate_limit", c.Source.RateLimit)
	v.Set("source.rate_burst", c.Source.RateBurst)
	v.Set("source.language", c.Source.Language)

	v.Set("cache.enabled", c.Cache.Enabled)
	v.Set("cache.backend", c.Cache.Backend)
	v.Set("cache.sqlite.path", c.Cache.SQLite.Path)
	v.Set("cache.sqlite.max_open_conns", c.Cache.SQLite.MaxOpenConns)
	v.Set("cache.sqlite.compression", c.Cache.SQLite.Compression)
	v.Set("cache.sqlite.compression_level", c.Cache.SQLite.CompressionLevel)
	v.Set("cache.postgres.dsn", c.Cache.Postgres.DSN)
	v.Set("cache.postgres.max_conns", c.Cache.Postgres.MaxConns)

	v.Set("fetch.max_concurrent", c.Fetch.MaxConcurrent)
	v.Set("fetch.search_concurrent", c.Fetch.SearchConcurrent)
	v.Set("fetch.max_attempts", c.Fetch.MaxAttempts)
	v.Set("fetch.base_delay", c.Fetch.BaseDelay)
	v.Set("fetch.estimate_seconds_per_object", c.Fetch.EstimateSecondsPerObject)

	v.Set("data_dir", c.DataDir)

	return v
}

// ResolveDataDir expands the configured data directory and ensures it
// exists.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		dir = Default().DataDir
	}

	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dir, nil
}

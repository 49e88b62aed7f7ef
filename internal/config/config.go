// Package config loads dbimpact configuration from .dbimpact/config.json
// with DBIMPACT_ environment overrides.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigVersion is the supported config schema version.
const ConfigVersion = 1

// Config represents the complete dbimpact configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Store    StoreConfig    `json:"store" mapstructure:"store"`
	Export   ExportConfig   `json:"export" mapstructure:"export"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig bounds one analysis run. Both limits are mandatory inputs
// to the engine; these are the values the CLI passes when no flag overrides
// them.
type AnalysisConfig struct {
	MaxDepth       int `json:"maxDepth" mapstructure:"maxDepth"`
	MaxPaths       int `json:"maxPaths" mapstructure:"maxPaths"`
	FetchTimeoutMs int `json:"fetchTimeoutMs" mapstructure:"fetchTimeoutMs"`
}

// StoreConfig locates the metadata sources.
type StoreConfig struct {
	// Path to the SQLite metadata store, relative to the workspace root.
	DatabasePath string `json:"databasePath" mapstructure:"databasePath"`
	// Optional YAML rows file used instead of the database when set.
	RowsFile string `json:"rowsFile,omitempty" mapstructure:"rowsFile"`
	// Optional TOML entity catalog with criticality overrides.
	CatalogFile string `json:"catalogFile,omitempty" mapstructure:"catalogFile"`
}

// ExportConfig controls audit bundle output.
type ExportConfig struct {
	Directory string `json:"directory" mapstructure:"directory"`
	// Zstd compression level, 1 (fastest) to 4 (best).
	CompressionLevel int `json:"compressionLevel" mapstructure:"compressionLevel"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: ConfigVersion,
		Analysis: AnalysisConfig{
			MaxDepth:       5,
			MaxPaths:       500,
			FetchTimeoutMs: 10000,
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(".dbimpact", "metadata.db"),
		},
		Export: ExportConfig{
			Directory:        filepath.Join(".dbimpact", "audit"),
			CompressionLevel: 2,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <workspaceRoot>/.dbimpact/config.json.
// A missing file yields the defaults; a malformed or invalid one is an error.
func LoadConfig(workspaceRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("analysis.maxDepth", defaults.Analysis.MaxDepth)
	v.SetDefault("analysis.maxPaths", defaults.Analysis.MaxPaths)
	v.SetDefault("analysis.fetchTimeoutMs", defaults.Analysis.FetchTimeoutMs)
	v.SetDefault("store.databasePath", defaults.Store.DatabasePath)
	v.SetDefault("export.directory", defaults.Export.Directory)
	v.SetDefault("export.compressionLevel", defaults.Export.CompressionLevel)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workspaceRoot, ".dbimpact"))
	v.SetEnvPrefix("DBIMPACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <workspaceRoot>/.dbimpact/config.json.
func (c *Config) Save(workspaceRoot string) error {
	dir := filepath.Join(workspaceRoot, ".dbimpact")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks the configuration. Limits are rejected, never clamped:
// a config that asks for a non-positive bound is a mistake to surface.
func (c *Config) Validate() error {
	if c.Version != ConfigVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analysis.MaxDepth <= 0 {
		return &ConfigError{Field: "analysis.maxDepth", Message: "must be positive"}
	}
	if c.Analysis.MaxPaths <= 0 {
		return &ConfigError{Field: "analysis.maxPaths", Message: "must be positive"}
	}
	if c.Analysis.FetchTimeoutMs <= 0 {
		return &ConfigError{Field: "analysis.fetchTimeoutMs", Message: "must be positive"}
	}
	if c.Export.CompressionLevel < 1 || c.Export.CompressionLevel > 4 {
		return &ConfigError{Field: "export.compressionLevel", Message: "must be between 1 and 4"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

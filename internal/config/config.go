package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete sqlport configuration (v1 schema)
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	AI         AIConfig         `json:"ai" mapstructure:"ai"`
	Cache      CacheConfig      `json:"cache" mapstructure:"cache"`
	Analyzer   AnalyzerConfig   `json:"analyzer" mapstructure:"analyzer"`
	Conversion ConversionConfig `json:"conversion" mapstructure:"conversion"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// AIConfig contains the Azure OpenAI collaborator configuration. The
// API key itself is never stored in the file; APIKeyEnv names the
// environment variable that carries it.
type AIConfig struct {
	Endpoint      string `json:"endpoint" mapstructure:"endpoint"`
	Deployment    string `json:"deployment" mapstructure:"deployment"`
	Model         string `json:"model" mapstructure:"model"`
	PromptVersion string `json:"promptVersion" mapstructure:"promptVersion"`
	APIKeyEnv     string `json:"apiKeyEnv" mapstructure:"apiKeyEnv"`
	TimeoutMs     int    `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// CacheConfig contains two-tier cache configuration
type CacheConfig struct {
	Enabled             bool   `json:"enabled" mapstructure:"enabled"`
	Dir                 string `json:"dir" mapstructure:"dir"`
	NominalHitLatencyMs int    `json:"nominalHitLatencyMs" mapstructure:"nominalHitLatencyMs"`
}

// AnalyzerConfig contains static analysis configuration
type AnalyzerConfig struct {
	MaintainabilityStrategy string `json:"maintainabilityStrategy" mapstructure:"maintainabilityStrategy"`
}

// ConversionConfig contains orchestration configuration
type ConversionConfig struct {
	Coalesce      bool `json:"coalesce" mapstructure:"coalesce"`
	MaxConcurrent int  `json:"maxConcurrent" mapstructure:"maxConcurrent"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		AI: AIConfig{
			Model:         "gpt-4",
			PromptVersion: "v1",
			APIKeyEnv:     "AZURE_OPENAI_API_KEY",
			TimeoutMs:     120000,
		},
		Cache: CacheConfig{
			Enabled:             true,
			NominalHitLatencyMs: 50,
		},
		Analyzer: AnalyzerConfig{
			MaintainabilityStrategy: "penalty",
		},
		Conversion: ConversionConfig{
			Coalesce:      true,
			MaxConcurrent: 4,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .sqlport/config.json
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".sqlport"))

	if err := v.ReadInConfig(); err != nil {
		// Missing config file means defaults, anything else is fatal
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// APIKey resolves the collaborator credential from the environment.
func (c *Config) APIKey() string {
	if c.AI.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.AI.APIKeyEnv)
}

// Save writes the configuration to .sqlport/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".sqlport")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	switch c.Analyzer.MaintainabilityStrategy {
	case "", "penalty", "halstead":
	default:
		return &ConfigError{Field: "analyzer.maintainabilityStrategy", Message: "must be 'penalty' or 'halstead'"}
	}
	switch c.Logging.Format {
	case "", "json", "human":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be 'json' or 'human'"}
	}
	if c.AI.TimeoutMs < 0 {
		return &ConfigError{Field: "ai.timeoutMs", Message: "must not be negative"}
	}
	if c.Cache.NominalHitLatencyMs < 0 {
		return &ConfigError{Field: "cache.nominalHitLatencyMs", Message: "must not be negative"}
	}
	if c.Conversion.MaxConcurrent < 1 {
		return &ConfigError{Field: "conversion.maxConcurrent", Message: "must be at least 1"}
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

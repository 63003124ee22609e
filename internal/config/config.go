// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig configures outbound HTTP behavior for search and page fetches.
type ScrapeConfig struct {
	TimeoutSecs    int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int      `yaml:"max_retries" mapstructure:"max_retries"`
	RequestDelayMs int      `yaml:"request_delay_ms" mapstructure:"request_delay_ms"`
	MaxConcurrent  int      `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	UseProxies     bool     `yaml:"use_proxies" mapstructure:"use_proxies"`
	ProxyList      []string `yaml:"proxy_list" mapstructure:"proxy_list"`
	MaxBodyKB      int      `yaml:"max_body_kb" mapstructure:"max_body_kb"`
	CatalogPath    string   `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// Timeout returns the request timeout as a duration.
func (c ScrapeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// RequestDelay returns the mandatory inter-request delay as a duration.
func (c ScrapeConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMs) * time.Millisecond
}

// SearchConfig configures the search backend rotation.
type SearchConfig struct {
	// Backends lists enabled retrieval strategies in rotation order.
	// Known values: "google", "bing", "api".
	Backends []string `yaml:"backends" mapstructure:"backends"`
	// APIKey authenticates the "api" backend. Required when that backend is
	// enabled; the factory rejects the backend (not the run) without it.
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	APIBaseURL string `yaml:"api_base_url" mapstructure:"api_base_url"`
	// MaxResults caps links returned per query after priority partitioning.
	MaxResults int `yaml:"max_results" mapstructure:"max_results"`
}

// PipelineConfig configures the discovery orchestrator.
type PipelineConfig struct {
	// MaxQueries bounds how many expanded queries a run may issue.
	MaxQueries int `yaml:"max_queries" mapstructure:"max_queries"`
	// EnableFallback turns on synthetic placeholder leads when a run yields
	// nothing. Off by default: fabricated data is opt-in.
	EnableFallback bool `yaml:"enable_fallback" mapstructure:"enable_fallback"`
}

// AnthropicConfig holds Anthropic API settings for the analysis and
// enrichment collaborator.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// StoreConfig configures lead persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures flat-file export.
type ExportConfig struct {
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	DefaultFormat string `yaml:"default_format" mapstructure:"default_format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.request_delay_ms", 2000)
	v.SetDefault("scrape.max_concurrent", 5)
	v.SetDefault("scrape.max_body_kb", 512)
	v.SetDefault("search.backends", []string{"google", "bing"})
	v.SetDefault("search.max_results", 10)
	v.SetDefault("pipeline.max_queries", 30)
	v.SetDefault("pipeline.enable_fallback", false)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("store.path", "leadscout.db")
	v.SetDefault("export.output_dir", "data")
	v.SetDefault("export.default_format", "csv")
	v.SetDefault("server.port", 8080)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Tools   ToolsConfig   `yaml:"tools"`
	Browser BrowserConfig `yaml:"browser"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// ServerConfig holds MCP server identity settings.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ToolsConfig holds tool system settings.
type ToolsConfig struct {
	SearchBackend  string        `yaml:"search_backend"` // "chromedp" or "static"
	SearchCacheTTL time.Duration `yaml:"search_cache_ttl"`

	// StrictErrors surfaces scraper failures as error blocks instead of
	// an empty-result success. The upstream behavior is false (swallow).
	StrictErrors bool `yaml:"strict_errors"`
}

// BrowserConfig holds headless browser settings for the scraper backend.
type BrowserConfig struct {
	CDPURL     string        `yaml:"cdp_url"` // remote CDP endpoint; empty launches a local Chrome
	Timeout    time.Duration `yaml:"timeout"` // per-search budget
	MaxScrolls int           `yaml:"max_scrolls"`

	// Politeness limiter for outbound scrapes.
	RatePerMinute int `yaml:"rate_per_minute"`

	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the scraper backend.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "pinterest-mcp",
			Version: "1.0.0",
		},
		Tools: ToolsConfig{
			SearchBackend:  "chromedp",
			SearchCacheTTL: 15 * time.Minute,
			StrictErrors:   false,
		},
		Browser: BrowserConfig{
			Timeout:       60 * time.Second,
			MaxScrolls:    8,
			RatePerMinute: 10,
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 3,
				Timeout:     60 * time.Second,
				Interval:    2 * time.Minute,
			},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides.
// A missing file is not an error; defaults plus env overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps PINMCP_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PINMCP_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("PINMCP_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("PINMCP_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("PINMCP_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("PINMCP_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("PINMCP_TOOLS_SEARCH_BACKEND"); v != "" {
		cfg.Tools.SearchBackend = v
	}
	if v := os.Getenv("PINMCP_TOOLS_SEARCH_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Tools.SearchCacheTTL = d
		}
	}
	if v := os.Getenv("PINMCP_TOOLS_STRICT_ERRORS"); v == "true" {
		cfg.Tools.StrictErrors = true
	}
	if v := os.Getenv("PINMCP_BROWSER_CDP_URL"); v != "" {
		cfg.Browser.CDPURL = v
	}
	if v := os.Getenv("PINMCP_BROWSER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Browser.Timeout = d
		}
	}
	if v := os.Getenv("PINMCP_BROWSER_MAX_SCROLLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Browser.MaxScrolls = n
		}
	}
	if v := os.Getenv("PINMCP_BROWSER_RATE_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Browser.RatePerMinute = n
		}
	}
	if v := os.Getenv("PINMCP_BROWSER_BREAKER_ENABLED"); v == "false" {
		cfg.Browser.Breaker.Enabled = false
	}
	if v := os.Getenv("PINMCP_BROWSER_BREAKER_MAX_FAILURES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			cfg.Browser.Breaker.MaxFailures = uint32(n)
		}
	}
}

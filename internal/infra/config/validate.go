package config

import (
	"fmt"
	"strings"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats    = []string{"text", "json"}
	validExporters     = []string{"noop", "stdout", ""}
	validSearchBackend = []string{"chromedp", "static"}
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if !contains(validLogLevels, strings.ToLower(cfg.Logger.Level)) {
		return fmt.Errorf("logger.level: unknown level %q (want one of: %s)",
			cfg.Logger.Level, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, strings.ToLower(cfg.Logger.Format)) {
		return fmt.Errorf("logger.format: unknown format %q (want one of: %s)",
			cfg.Logger.Format, strings.Join(validLogFormats, ", "))
	}
	if !contains(validExporters, cfg.Tracer.Exporter) {
		return fmt.Errorf("tracer.exporter: unknown exporter %q (want one of: noop, stdout)",
			cfg.Tracer.Exporter)
	}
	if !contains(validSearchBackend, cfg.Tools.SearchBackend) {
		return fmt.Errorf("tools.search_backend: unknown backend %q (want one of: %s)",
			cfg.Tools.SearchBackend, strings.Join(validSearchBackend, ", "))
	}
	if cfg.Tools.SearchCacheTTL < 0 {
		return fmt.Errorf("tools.search_cache_ttl: must not be negative")
	}
	if cfg.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout: must be positive")
	}
	if cfg.Browser.MaxScrolls <= 0 {
		return fmt.Errorf("browser.max_scrolls: must be positive")
	}
	if cfg.Browser.RatePerMinute <= 0 {
		return fmt.Errorf("browser.rate_per_minute: must be positive")
	}
	if cfg.Browser.Breaker.Enabled && cfg.Browser.Breaker.MaxFailures == 0 {
		return fmt.Errorf("browser.breaker.max_failures: must be positive when breaker is enabled")
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

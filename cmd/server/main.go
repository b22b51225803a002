package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pinterest-mcp/internal/adapter/mcpserv"
	"pinterest-mcp/internal/adapter/pinterest"
	"pinterest-mcp/internal/adapter/tool"
	"pinterest-mcp/internal/infra/config"
	"pinterest-mcp/internal/infra/logger"
	"pinterest-mcp/internal/infra/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "./config.yaml", "path to config file")
	flag.Parse()

	// .env is optional; real environment wins either way.
	_ = godotenv.Load()

	// 1. Config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Search backend
	backend, err := buildBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("backend close error", "error", err)
		}
	}()

	// 4. Tools
	reg := tool.NewRegistry()

	searchTool := tool.NewSearchTool(backend, cfg.Tools.SearchCacheTTL, cfg.Tools.StrictErrors, log)
	if err := reg.Register(searchTool); err != nil {
		return fmt.Errorf("tools: %w", err)
	}

	infoTool, err := tool.WithSchemaValidation(tool.NewImageInfoTool(log))
	if err != nil {
		return fmt.Errorf("tools: %w", err)
	}
	if err := reg.Register(infoTool); err != nil {
		return fmt.Errorf("tools: %w", err)
	}

	// 5. MCP server over stdio
	srv := mcpserv.New(cfg.Server.Name, cfg.Server.Version, reg, log)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("server starting",
		"name", cfg.Server.Name,
		"version", cfg.Server.Version,
		"backend", backend.Name(),
	)

	if err := srv.ListenStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildBackend selects the configured search backend and wraps it with
// rate limiting and circuit breaking.
func buildBackend(cfg *config.Config, log *slog.Logger) (pinterest.Backend, error) {
	var base pinterest.Backend
	switch cfg.Tools.SearchBackend {
	case "static":
		base = &pinterest.StaticBackend{}
	case "chromedp", "":
		base = pinterest.NewChromeDPBackend(pinterest.ChromeDPConfig{
			RemoteURL:  cfg.Browser.CDPURL,
			Timeout:    cfg.Browser.Timeout,
			MaxScrolls: cfg.Browser.MaxScrolls,
		}, log)
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Tools.SearchBackend)
	}

	return pinterest.NewResilientBackend(base, pinterest.ResilientConfig{
		RatePerMinute:  cfg.Browser.RatePerMinute,
		BreakerEnabled: cfg.Browser.Breaker.Enabled,
		MaxFailures:    cfg.Browser.Breaker.MaxFailures,
		BreakerTimeout: cfg.Browser.Breaker.Timeout,
		Interval:       cfg.Browser.Breaker.Interval,
	}, log), nil
}

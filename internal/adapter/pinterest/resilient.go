package pinterest

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"pinterest-mcp/internal/domain"
)

// ResilientConfig tunes the breaker and politeness limiter around a scraper
// backend.
type ResilientConfig struct {
	RatePerMinute  int
	BreakerEnabled bool
	MaxFailures    uint32
	BreakerTimeout time.Duration
	Interval       time.Duration
}

// ResilientBackend wraps a Backend with a circuit breaker and an outbound
// rate limiter. A tripped breaker or saturated limiter surfaces as a backend
// error; the search tool's swallow policy decides what the caller sees.
type ResilientBackend struct {
	inner   Backend
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]domain.PinResult]
	logger  *slog.Logger
}

// NewResilientBackend wraps inner with resilience controls.
func NewResilientBackend(inner Backend, cfg ResilientConfig, logger *slog.Logger) *ResilientBackend {
	b := &ResilientBackend{
		inner:  inner,
		logger: logger,
	}

	if cfg.RatePerMinute > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60), 1)
	}

	if cfg.BreakerEnabled {
		maxFailures := cfg.MaxFailures
		if maxFailures == 0 {
			maxFailures = 3
		}
		b.breaker = gobreaker.NewCircuitBreaker[[]domain.PinResult](gobreaker.Settings{
			Name:     inner.Name(),
			Timeout:  cfg.BreakerTimeout,
			Interval: cfg.Interval,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("scraper breaker state change",
					"backend", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return b
}

func (b *ResilientBackend) Name() string { return b.inner.Name() }

func (b *ResilientBackend) Close() error { return b.inner.Close() }

func (b *ResilientBackend) Search(ctx context.Context, keyword string, limit int, headless bool) ([]domain.PinResult, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, domain.WrapOp("rate limit wait", err)
		}
	}

	if b.breaker == nil {
		return b.inner.Search(ctx, keyword, limit, headless)
	}

	results, err := b.breaker.Execute(func() ([]domain.PinResult, error) {
		return b.inner.Search(ctx, keyword, limit, headless)
	})
	return results, domain.WrapOp("scrape", err)
}

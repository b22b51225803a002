package pinterest

import (
	"context"

	"pinterest-mcp/internal/domain"
)

// Backend abstracts the Pinterest scraper. Implementations may fail or
// return nothing; the search tool decides how those outcomes surface.
type Backend interface {
	// Search scrapes up to limit pins matching keyword. The headless flag
	// controls how a local browser is launched; backends without a browser
	// ignore it.
	Search(ctx context.Context, keyword string, limit int, headless bool) ([]domain.PinResult, error)
	// Name returns the backend identifier (e.g. "chromedp").
	Name() string
	// Close releases any resources held by the backend.
	Close() error
}

// StaticBackend returns a fixed result set (or error). Used for tests and
// for running the server without a browser.
type StaticBackend struct {
	Results []domain.PinResult
	Err     error

	// Calls counts Search invocations, for cache and breaker tests.
	Calls int
}

func (b *StaticBackend) Search(_ context.Context, _ string, limit int, _ bool) ([]domain.PinResult, error) {
	b.Calls++
	if b.Err != nil {
		return nil, b.Err
	}
	if len(b.Results) > limit {
		return b.Results[:limit], nil
	}
	return b.Results, nil
}

func (b *StaticBackend) Name() string { return "static" }

func (b *StaticBackend) Close() error { return nil }

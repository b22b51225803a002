package pinterest

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"pinterest-mcp/internal/domain"
)

func testLogger() *slog.Logger { return slog.Default() }

func TestResilientBackendPassthrough(t *testing.T) {
	inner := &StaticBackend{Results: []domain.PinResult{
		{Title: "a", ImageURL: "https://i.pinimg.com/originals/a.jpg"},
	}}
	rb := NewResilientBackend(inner, ResilientConfig{}, testLogger())

	results, err := rb.Search(context.Background(), "cats", 5, true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
	if rb.Name() != "static" {
		t.Errorf("Name() = %q, want static", rb.Name())
	}
}

func TestResilientBackendBreakerOpens(t *testing.T) {
	inner := &StaticBackend{Err: errors.New("scrape failed")}
	rb := NewResilientBackend(inner, ResilientConfig{
		BreakerEnabled: true,
		MaxFailures:    3,
		BreakerTimeout: time.Minute,
	}, testLogger())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := rb.Search(ctx, "cats", 5, true); err == nil {
			t.Fatalf("call %d succeeded, want error", i+1)
		}
	}

	// Breaker is now open: the inner backend must not be reached.
	before := inner.Calls
	if _, err := rb.Search(ctx, "cats", 5, true); err == nil {
		t.Fatal("Search succeeded with open breaker")
	}
	if inner.Calls != before {
		t.Errorf("inner backend called with open breaker (%d -> %d)", before, inner.Calls)
	}
}

func TestResilientBackendBreakerStaysClosedOnSuccess(t *testing.T) {
	inner := &StaticBackend{}
	rb := NewResilientBackend(inner, ResilientConfig{
		BreakerEnabled: true,
		MaxFailures:    2,
		BreakerTimeout: time.Minute,
	}, testLogger())

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := rb.Search(ctx, "cats", 5, true); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	if inner.Calls != 5 {
		t.Errorf("inner called %d times, want 5", inner.Calls)
	}
}

func TestResilientBackendLimiterHonorsContext(t *testing.T) {
	inner := &StaticBackend{}
	rb := NewResilientBackend(inner, ResilientConfig{RatePerMinute: 1}, testLogger())

	ctx := context.Background()
	// First call consumes the single burst token.
	if _, err := rb.Search(ctx, "cats", 5, true); err != nil {
		t.Fatalf("first Search: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if _, err := rb.Search(ctx, "cats", 5, true); err == nil {
		t.Fatal("second Search succeeded, want rate limit wait error")
	}
	if inner.Calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.Calls)
	}
}

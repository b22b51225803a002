package pinterest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"pinterest-mcp/internal/domain"
)

const searchBaseURL = "https://www.pinterest.com/search/pins/?q="

// userAgent is a desktop UA; Pinterest serves a degraded markup to unknown
// agents.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// ChromeDPConfig holds configuration for the chromedp scraper.
type ChromeDPConfig struct {
	// RemoteURL is the CDP WebSocket endpoint for connecting to a remote
	// Chrome. If empty, a local Chrome instance is launched per search.
	RemoteURL string
	// Timeout is the per-search budget.
	Timeout time.Duration
	// MaxScrolls bounds how many viewport scrolls are attempted while
	// waiting for enough pins to render.
	MaxScrolls int
}

// ChromeDPBackend scrapes Pinterest search pages using chromedp. Each
// Search launches (or attaches to) a browser, runs to completion, and tears
// it down, so the per-call headless flag can be honored.
type ChromeDPBackend struct {
	cfg    ChromeDPConfig
	logger *slog.Logger
}

// NewChromeDPBackend creates a Pinterest scraper backed by chromedp.
func NewChromeDPBackend(cfg ChromeDPConfig, logger *slog.Logger) *ChromeDPBackend {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 8
	}
	return &ChromeDPBackend{cfg: cfg, logger: logger}
}

func (b *ChromeDPBackend) Name() string { return "chromedp" }

// Close is a no-op: browser lifetime is per-search.
func (b *ChromeDPBackend) Close() error { return nil }

func (b *ChromeDPBackend) Search(ctx context.Context, keyword string, limit int, headless bool) ([]domain.PinResult, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if b.cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, b.cfg.RemoteURL)
		b.logger.Debug("chromedp attaching to remote browser", "url", b.cfg.RemoteURL)
	} else {
		// Copy default options to avoid mutating the package-level slice.
		opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
		copy(opts, chromedp.DefaultExecAllocatorOptions[:])
		opts = append(opts,
			chromedp.Flag("headless", headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
			chromedp.WindowSize(1280, 800),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
		b.logger.Debug("chromedp launching local browser", "headless", headless)
	}
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	// The browser is per-search, so binding the session to the timeout
	// context is intentional: cancellation tears the whole browser down.
	tctx, tcancel := context.WithTimeout(browserCtx, b.cfg.Timeout)
	defer tcancel()

	searchURL := searchBaseURL + url.QueryEscape(keyword)

	if err := chromedp.Run(tctx,
		network.Enable(),
		// Pinterest localizes markup from Accept-Language; pin it so the
		// extraction selectors see a consistent page.
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return nil, domain.NewSubSystemError("browser", "navigate", domain.ErrProviderError, err.Error())
	}

	pins, err := b.collectPins(tctx, limit)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("pinterest scrape completed", "keyword", keyword, "pins", len(pins))
	return pins, nil
}

// collectPins repeatedly extracts rendered pins, scrolling to trigger lazy
// loading until limit pins are visible or the scroll budget runs out.
func (b *ChromeDPBackend) collectPins(ctx context.Context, limit int) ([]domain.PinResult, error) {
	var pins []domain.PinResult

	for scroll := 0; ; scroll++ {
		var raw string
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(pinExtractionJS(limit), &raw),
		); err != nil {
			return nil, domain.NewSubSystemError("browser", "extract pins", domain.ErrProviderError, err.Error())
		}

		parsed, err := parsePins(raw)
		if err != nil {
			return nil, domain.WrapOp("parse pins", err)
		}
		pins = parsed

		if len(pins) >= limit || scroll >= b.cfg.MaxScrolls {
			break
		}

		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollBy(0, window.innerHeight * 2)`, nil),
			chromedp.Sleep(800*time.Millisecond),
		); err != nil {
			return nil, domain.NewSubSystemError("browser", "scroll", domain.ErrProviderError, err.Error())
		}
	}

	if len(pins) > limit {
		pins = pins[:limit]
	}
	return pins, nil
}

// pinExtractionJS returns a JavaScript snippet that extracts rendered pins
// as a JSON array string of {title, image_url, link} records.
func pinExtractionJS(max int) string {
	return fmt.Sprintf(`(function() {
  var out = [];
  var seen = {};
  var cards = document.querySelectorAll('div[data-test-id="pin"], div[data-grid-item="true"]');
  for (var i = 0; i < cards.length && out.length < %d; i++) {
    var card = cards[i];
    var img = card.querySelector('img');
    if (!img || !img.src) continue;
    if (seen[img.src]) continue;
    seen[img.src] = true;
    var a = card.querySelector('a[href^="/pin/"]');
    var link = a ? new URL(a.getAttribute('href'), location.origin).href : '';
    out.push({
      title: img.alt || '',
      image_url: img.src,
      link: link
    });
  }
  return JSON.stringify(out);
})()`, max)
}

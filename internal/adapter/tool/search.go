package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"pinterest-mcp/internal/adapter/pinterest"
	"pinterest-mcp/internal/domain"
	"pinterest-mcp/internal/infra/tracer"
)

const defaultCacheTTL = 15 * time.Minute

// cacheEntry holds a cached rendered response with its expiration time.
type cacheEntry struct {
	blocks    []string
	expiresAt time.Time
}

// SearchTool implements pinterest_search: normalize arguments, scrape,
// sanitize image URLs, and render the results as ordered text blocks.
//
// The scraper failing (or returning nothing) is not an error here: the
// response degrades to a zero-result summary unless strict mode is on.
type SearchTool struct {
	backend  pinterest.Backend
	cacheTTL time.Duration
	strict   bool
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewSearchTool creates the search tool. strict surfaces scraper failures
// as error blocks instead of an empty-result success.
func NewSearchTool(backend pinterest.Backend, cacheTTL time.Duration, strict bool, logger *slog.Logger) *SearchTool {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &SearchTool{
		backend:  backend,
		cacheTTL: cacheTTL,
		strict:   strict,
		logger:   logger,
		cache:    make(map[string]cacheEntry),
	}
}

func (t *SearchTool) Name() string { return "pinterest_search" }

func (t *SearchTool) Description() string {
	return "Search Pinterest images by keyword and return full-resolution image links"
}

func (t *SearchTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"keyword": {"type": "string", "description": "Search keyword"},
				"limit": {"type": "integer", "description": "Maximum number of results (default: 10)"},
				"headless": {"type": "boolean", "description": "Run the browser headless (default: true)"}
			},
			"required": ["keyword"]
		}`),
	}
}

// Execute bypasses the typed parse pipeline: arguments are normalized by
// the tolerant extractor, so malformed payloads can never fail the call.
func (t *SearchTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	callID := ulid.Make().String()
	ctx, span := tracer.StartSpan(ctx, "tool.pinterest_search",
		trace.WithAttributes(
			tracer.StringAttr("tool.name", "pinterest_search"),
			tracer.StringAttr("tool.call_id", callID),
		),
	)
	defer span.End()

	q := NormalizeSearchArgs(params)
	span.SetAttributes(
		tracer.StringAttr("search.keyword", q.Keyword),
		tracer.IntAttr("search.limit", q.Limit),
		tracer.BoolAttr("search.headless", q.Headless),
	)

	cacheKey := fmt.Sprintf("%s|%d|%t", q.Keyword, q.Limit, q.Headless)
	if blocks, ok := t.getCached(cacheKey); ok {
		t.logger.Debug("pinterest search cache hit", "call_id", callID, "keyword", q.Keyword)
		span.SetAttributes(tracer.StringAttr("search.cache", "hit"))
		tracer.SetOK(span)
		return BlocksResult(blocks), nil
	}

	results, err := t.backend.Search(ctx, q.Keyword, q.Limit, q.Headless)
	if err != nil {
		tracer.RecordError(span, err)
		t.logger.Warn("pinterest search failed",
			"call_id", callID, "keyword", q.Keyword,
			"error", err, "code", domain.ErrorCodeOf(err))
		if t.strict {
			return ErrResult("pinterest search failed: %v", err)
		}
		// Degraded zero-result response; not cached, so the next call
		// retries the backend instead of replaying the failure for the
		// whole TTL.
		return BlocksResult(renderSearchBlocks(q.Keyword, nil)), nil
	}

	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	results = SanitizeResults(results)

	blocks := renderSearchBlocks(q.Keyword, results)
	t.putCache(cacheKey, blocks)

	t.logger.Debug("pinterest search completed",
		"call_id", callID, "keyword", q.Keyword, "results", len(results))
	tracer.SetOK(span)
	return BlocksResult(blocks), nil
}

// renderSearchBlocks builds the ordered response blocks: a count-prefixed
// summary, then per result a title block, an image link block, an optional
// original-page block (only when it differs from the image URL), and a
// separator between (not after) entries.
func renderSearchBlocks(keyword string, results []domain.PinResult) []string {
	blocks := []string{
		fmt.Sprintf("Found %d images related to %q", len(results), keyword),
	}

	for i, r := range results {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = "Untitled"
		}
		blocks = append(blocks,
			fmt.Sprintf("%d. %s", i+1, title),
			"Image: "+r.ImageURL,
		)
		if r.Link != "" && r.Link != r.ImageURL {
			blocks = append(blocks, "Source: "+r.Link)
		}
		if i < len(results)-1 {
			blocks = append(blocks, "---")
		}
	}

	return blocks
}

// getCached returns a cached rendering if it exists and has not expired.
func (t *SearchTool) getCached(key string) ([]string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.cache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(t.cache, key)
		return nil, false
	}
	return entry.blocks, true
}

// putCache stores a rendering with the configured TTL.
func (t *SearchTool) putCache(key string, blocks []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cache[key] = cacheEntry{
		blocks:    blocks,
		expiresAt: time.Now().Add(t.cacheTTL),
	}

	// Lazy eviction: remove expired entries if the cache grows large.
	if len(t.cache) > 100 {
		now := time.Now()
		for k, v := range t.cache {
			if now.After(v.expiresAt) {
				delete(t.cache, k)
			}
		}
	}
}

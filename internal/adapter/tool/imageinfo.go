package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"pinterest-mcp/internal/domain"
	"pinterest-mcp/internal/infra/tracer"
)

// imageSourceLabel is the fixed provenance label attached to every record.
const imageSourceLabel = "Pinterest"

// ImageInfoTool implements pinterest_get_image_info: a static enrichment of
// a given image URL. Unlike the search tool, arguments get no normalization
// tolerance — the payload must carry an image_url key.
type ImageInfoTool struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewImageInfoTool creates the image info tool.
func NewImageInfoTool(logger *slog.Logger) *ImageInfoTool {
	return &ImageInfoTool{logger: logger, now: time.Now}
}

func (t *ImageInfoTool) Name() string { return "pinterest_get_image_info" }

func (t *ImageInfoTool) Description() string {
	return "Describe a Pinterest image URL with source and retrieval metadata"
}

func (t *ImageInfoTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"image_url": {"type": "string", "description": "The image URL to describe"}
			},
			"required": ["image_url"]
		}`),
	}
}

type imageInfoParams struct {
	ImageURL string `json:"image_url"`
}

type imageInfoRecord struct {
	ImageURL  string `json:"image_url"`
	Source    string `json:"source"`
	FetchedAt string `json:"fetched_at"`
}

func (t *ImageInfoTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.pinterest_get_image_info", t.logger, params,
		func(ctx context.Context, span trace.Span, p imageInfoParams) (any, error) {
			if strings.TrimSpace(p.ImageURL) == "" {
				return nil, domain.NewDomainError("image info", domain.ErrInvalidInput, "image_url is required")
			}

			span.SetAttributes(tracer.StringAttr("image.url", p.ImageURL))

			record := imageInfoRecord{
				ImageURL:  p.ImageURL,
				Source:    imageSourceLabel,
				FetchedAt: t.now().Format(time.RFC3339),
			}
			data, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return nil, domain.WrapOp("marshal record", err)
			}

			return BlocksResult([]string{
				fmt.Sprintf("Image info for %s", p.ImageURL),
				string(data),
			}), nil
		},
	)
}

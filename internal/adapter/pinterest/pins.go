package pinterest

import (
	"encoding/json"
	"fmt"
	"strings"

	"pinterest-mcp/internal/domain"
)

// parsePins decodes the JSON array produced by the extraction snippet.
// Entries without an image URL are dropped.
func parsePins(raw string) ([]domain.PinResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var pins []domain.PinResult
	if err := json.Unmarshal([]byte(raw), &pins); err != nil {
		return nil, fmt.Errorf("decode pin list: %w", err)
	}

	out := pins[:0]
	for _, p := range pins {
		if strings.TrimSpace(p.ImageURL) == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

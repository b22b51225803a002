package domain

// Fallback search parameters applied when argument normalization cannot
// recover a field. These are fixed module-level defaults, not configuration.
const (
	DefaultKeyword  = "landscape"
	DefaultLimit    = 10
	MaxLimit        = 50
	DefaultHeadless = true
)

// SearchQuery is the fully-defaulted, validated set of search parameters
// used to invoke the scraper backend. Invariants: Keyword is non-empty and
// Limit is in [1, MaxLimit].
type SearchQuery struct {
	Keyword  string
	Limit    int
	Headless bool
}

// PinResult is a single image search result produced by the scraper.
// Only ImageURL is rewritten after the fact (thumbnail → original).
type PinResult struct {
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Link     string `json:"link,omitempty"`
}

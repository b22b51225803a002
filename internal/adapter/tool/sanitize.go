package tool

import (
	"regexp"
	"strings"

	"pinterest-mcp/internal/domain"
)

// Known thumbnail path segments, checked before the generic pattern.
var thumbMarkers = []string{"/60x60/", "/236x/", "/474x/", "/736x/"}

// thumbSegmentRe matches any /<digits>x<optional digits>/ path segment.
var thumbSegmentRe = regexp.MustCompile(`/\d+x\d*/`)

const originalsSegment = "/originals/"

// SanitizeImageURL rewrites a thumbnail-sized image URL to its
// full-resolution variant. URLs without a detectable thumbnail segment are
// returned unchanged. The rewrite touches exactly one path segment, so the
// function is idempotent.
func SanitizeImageURL(u string) string {
	for _, marker := range thumbMarkers {
		if strings.Contains(u, marker) {
			return strings.Replace(u, marker, originalsSegment, 1)
		}
	}
	if loc := thumbSegmentRe.FindStringIndex(u); loc != nil {
		return u[:loc[0]] + originalsSegment + u[loc[1]:]
	}
	return u
}

// SanitizeResults rewrites each result's ImageURL in place and returns the
// same slice. Order is preserved; elements never interact.
func SanitizeResults(results []domain.PinResult) []domain.PinResult {
	for i := range results {
		results[i].ImageURL = SanitizeImageURL(results[i].ImageURL)
	}
	return results
}

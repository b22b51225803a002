package tool

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"pinterest-mcp/internal/domain"
)

// NormalizeSearchArgs converts an arbitrarily-shaped argument payload into a
// fully-populated SearchQuery. It never fails: fields that cannot be
// recovered fall back to the domain defaults. Tolerated shapes include a
// JSON object, a stringified object with non-standard quoting (backticks,
// single quotes, bare keys), and a missing payload entirely.
func NormalizeSearchArgs(raw json.RawMessage) domain.SearchQuery {
	var e extracted

	switch v := decodeRaw(raw).(type) {
	case map[string]any:
		e.merge(fromMap(v))
	case string:
		// Known upstream quoting quirk: some callers send backtick-quoted
		// pseudo-JSON. Isolated here so it can be removed independently.
		s := normalizeBackticks(v)
		for _, strat := range stringStrategies {
			e.merge(strat(s))
			if e.complete() {
				break
			}
		}
	}

	return e.finalize()
}

// decodeRaw unmarshals the payload, falling back to the raw text when it is
// not valid JSON at all.
func decodeRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// normalizeBackticks rewrites backtick quoting to double quotes.
func normalizeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", `"`)
}

// extracted holds per-field extraction results. A field is only considered
// recovered when its OK flag is set; merge keeps the first success per field.
type extracted struct {
	keyword    string
	keywordOK  bool
	limit      int
	limitOK    bool
	headless   bool
	headlessOK bool
}

func (e *extracted) merge(o extracted) {
	if !e.keywordOK && o.keywordOK {
		e.keyword, e.keywordOK = o.keyword, true
	}
	if !e.limitOK && o.limitOK {
		e.limit, e.limitOK = o.limit, true
	}
	if !e.headlessOK && o.headlessOK {
		e.headless, e.headlessOK = o.headless, true
	}
}

func (e *extracted) complete() bool {
	return e.keywordOK && e.limitOK && e.headlessOK
}

// finalize applies defaults and clamps the limit.
func (e *extracted) finalize() domain.SearchQuery {
	q := domain.SearchQuery{
		Keyword:  domain.DefaultKeyword,
		Limit:    domain.DefaultLimit,
		Headless: domain.DefaultHeadless,
	}
	if e.keywordOK {
		q.Keyword = e.keyword
	}
	if e.limitOK && e.limit > 0 {
		q.Limit = e.limit
		if q.Limit > domain.MaxLimit {
			q.Limit = domain.MaxLimit
		}
	}
	if e.headlessOK {
		q.Headless = e.headless
	}
	return q
}

// stringStrategies are tried in order against string payloads; the first
// successful value per field wins.
var stringStrategies = []func(string) extracted{
	fromStrictJSON,
	fromRepairedJSON,
	fromPattern,
}

// fromMap reads fields from an already-parsed object. Keys literally wrapped
// in backticks are accepted as an alternate spelling of the same field.
func fromMap(m map[string]any) extracted {
	var e extracted

	if v, ok := lookup(m, "keyword"); ok {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(normalizeBackticks(s)); s != "" {
				e.keyword, e.keywordOK = strings.Trim(s, `"`), true
			}
		}
	}
	if v, ok := lookup(m, "limit"); ok {
		if n, ok := toInt(v); ok {
			e.limit, e.limitOK = n, true
		}
	}
	if v, ok := lookup(m, "headless"); ok {
		if b, ok := v.(bool); ok {
			e.headless, e.headlessOK = b, true
		}
	}

	return e
}

// lookup finds key or its backtick-wrapped spelling.
func lookup(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	if v, ok := m["`"+key+"`"]; ok {
		return v, true
	}
	return nil, false
}

// toInt accepts numeric or numeric-string values.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// fromStrictJSON attempts a strict object parse of the string payload.
func fromStrictJSON(s string) extracted {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return extracted{}
	}
	return fromMap(m)
}

// bareKeyRe matches unquoted identifier keys at an object or element start.
var bareKeyRe = regexp.MustCompile(`(^|[{,]\s*)([A-Za-z_][A-Za-z0-9_-]*)\s*:`)

// fromRepairedJSON retries the parse after converting single quotes to
// double quotes and auto-quoting bare identifier keys.
func fromRepairedJSON(s string) extracted {
	repaired := strings.ReplaceAll(s, "'", `"`)
	repaired = bareKeyRe.ReplaceAllString(repaired, `$1"$2":`)
	return fromStrictJSON(repaired)
}

// Last-resort key/value extraction with flexible quoting and separators.
var (
	keywordPatternRe = regexp.MustCompile(`(?i)["']?keyword["']?\s*[:=]\s*["']?([^"',}{]+)`)
	limitPatternRe   = regexp.MustCompile(`(?i)["']?limit["']?\s*[:=]\s*["']?(\d+)`)
)

// fromPattern scans the payload for keyword/limit fragments when no parse
// succeeds. Headless is never recovered this way.
func fromPattern(s string) extracted {
	var e extracted

	if m := keywordPatternRe.FindStringSubmatch(s); m != nil {
		if kw := strings.TrimSpace(m[1]); kw != "" {
			e.keyword, e.keywordOK = kw, true
		}
	}
	if m := limitPatternRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			e.limit, e.limitOK = n, true
		}
	}

	return e
}

package summarize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SummarizedGrant is the structured summary extracted from the model output.
// Entries without both a title and a link are dropped during parsing.
type SummarizedGrant struct {
	Title         string   `json:"title"`
	Link          string   `json:"link"`
	Funder        string   `json:"funder"`
	AmountMin     *float64 `json:"amount_min"`
	AmountMax     *float64 `json:"amount_max"`
	AmountDisplay string   `json:"amount_display"`
	Summary       string   `json:"summary"`
	Eligibility   []string `json:"eligibility"`
	Deadline      string   `json:"deadline"`
}

// ParseBatchResponse turns raw model text into validated grants. Every stage
// is total: a response that is not valid or extractable JSON yields an empty
// slice, never an error. The cascade is
//
//	raw text -> candidate JSON span -> coerced objects -> validated objects
//
// which keeps callers free of try/catch-style handling around parsing.
func ParseBatchResponse(text string) []SummarizedGrant {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	items := decodeGrantArray(text)
	if items == nil {
		// Models sometimes wrap the array in commentary or code fences
		// despite instructions; fall back to the first [...] span.
		if span, ok := extractFirstJSONArray(text); ok {
			items = decodeGrantArray(span)
		}
	}

	out := make([]SummarizedGrant, 0, len(items))
	for _, item := range items {
		g := coerceGrant(item)
		if g.Title == "" || g.Link == "" {
			continue
		}
		out = append(out, g)
	}
	return out
}

// decodeGrantArray parses a JSON array of loosely shaped objects. Returns
// nil when the text is not a JSON array.
func decodeGrantArray(text string) []map[string]any {
	var items []map[string]any
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil
	}
	return items
}

// coerceGrant maps an arbitrary JSON object onto the SummarizedGrant shape:
// strings trimmed, numbers coerced or nil, eligibility reduced to trimmed
// non-empty strings.
func coerceGrant(item map[string]any) SummarizedGrant {
	return SummarizedGrant{
		Title:         coerceString(item["title"]),
		Link:          coerceString(item["link"]),
		Funder:        coerceString(item["funder"]),
		AmountMin:     coerceNumber(item["amount_min"]),
		AmountMax:     coerceNumber(item["amount_max"]),
		AmountDisplay: coerceString(item["amount_display"]),
		Summary:       coerceString(item["summary"]),
		Eligibility:   coerceStringList(item["eligibility"]),
		Deadline:      coerceString(item["deadline"]),
	}
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func coerceNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(n, "$", ""), ",", ""))
		if cleaned == "" {
			return nil
		}
		if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return &parsed
		}
	}
	return nil
}

func coerceStringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if s := coerceString(entry); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// extractFirstJSONArray finds the first outermost balanced [...] span,
// skipping brackets inside JSON strings.
func extractFirstJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '[' {
				depth++
			} else if char == ']' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}

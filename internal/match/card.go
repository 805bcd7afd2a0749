package match

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchCard is a display-ready grant summary. Cards are recomputed on every
// search and never persisted; ID correlates a card with an application via
// the same link hash.
type MatchCard struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Funder      string   `json:"funder"`
	Amount      string   `json:"amount"`
	Deadline    string   `json:"deadline"`
	MatchScore  int      `json:"match_score"`
	Description string   `json:"description"`
	Eligibility []string `json:"eligibility"`
	Link        string   `json:"link"`
}

// HashID derives a stable non-negative id from a string via a 32-bit rolling
// hash (h = h*31 + c with int32 wraparound, absolute value). The same link
// always hashes to the same id within and across calls.
func HashID(value string) int64 {
	var h int32
	for _, r := range value {
		h = (h << 5) - h + int32(r)
	}
	if h < 0 {
		// abs of math.MinInt32 stays negative in int32, widen first
		return -int64(h)
	}
	return int64(h)
}

// formatCurrency renders a whole-dollar amount with thousands separators,
// e.g. 25000 -> "$25,000".
func formatCurrency(v float64) string {
	n := int64(v + 0.5)
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// formatAmountRange builds the award range string for a card. Returns ""
// when neither bound is present (the record is excluded upstream anyway).
func formatAmountRange(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s - %s", formatCurrency(*min), formatCurrency(*max))
	case max != nil:
		return "Up to " + formatCurrency(*max)
	case min != nil:
		return "Minimum " + formatCurrency(*min)
	}
	return ""
}

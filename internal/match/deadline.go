package match

import (
	"regexp"
	"strings"
	"time"
)

// RollingDeadline is shown when a record carries no parseable deadline.
const RollingDeadline = "Rolling deadline"

var deadlineFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
}

var isoDateRegex = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)

// FormatDeadline renders a raw deadline string as "Jan 2, 2006". Absent or
// unparseable input yields RollingDeadline.
func FormatDeadline(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RollingDeadline
	}

	for _, layout := range deadlineFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}

	// Dates embedded in surrounding text, e.g. "Deadline: 2026-03-15"
	if m := isoDateRegex.FindString(raw); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}

	return RollingDeadline
}

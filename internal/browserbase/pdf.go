package browserbase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	rpdf "rsc.io/pdf"
)

var pdfDateRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b20\d{2}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}/\d{1,2}/20\d{2}\b`),
	regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+\d{1,2},?\s+20\d{2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+20\d{2}\b`),
}

var pdfDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ExtractDeadlineFromPDF downloads a captured application PDF and returns
// the earliest date the document mentions, as YYYY-MM-DD. Empty string when
// the document carries no parseable date.
func ExtractDeadlineFromPDF(ctx context.Context, httpClient *http.Client, pdfURL string) (string, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating pdf request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pdf download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pdf download returned %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, 20*1024*1024))
	if err != nil {
		return "", fmt.Errorf("pdf read failed: %w", err)
	}

	text, err := extractPDFText(content)
	if err != nil {
		return "", fmt.Errorf("pdf text extraction failed: %w", err)
	}

	candidates := dateCandidatesFromText(text)
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

// extractPDFText pulls visible text from all pages. The parser panics on
// some malformed documents, so recovery turns that into an error.
func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, fragment := range page.Content().Text {
			builder.WriteString(fragment.S)
			builder.WriteString(" ")
		}
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// dateCandidatesFromText finds date tokens, parses them, and returns the
// distinct dates in ascending order as YYYY-MM-DD.
func dateCandidatesFromText(text string) []string {
	seen := make(map[string]bool)
	for _, expr := range pdfDateRegexes {
		for _, token := range expr.FindAllString(text, -1) {
			parsed, ok := parsePDFDate(strings.TrimSpace(token))
			if !ok {
				continue
			}
			seen[parsed.Format("2006-01-02")] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]string, 0, len(seen))
	for iso := range seen {
		out = append(out, iso)
	}
	sort.Strings(out)
	return out
}

func parsePDFDate(token string) (time.Time, bool) {
	for _, layout := range pdfDateLayouts {
		if parsed, err := time.Parse(layout, token); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

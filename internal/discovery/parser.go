package discovery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nmercer/grantscout/internal/config"
	"github.com/nmercer/grantscout/internal/models"
)

var amountPattern = regexp.MustCompile(`\$\s?([\d,]+(?:\.\d+)?)`)

// parseSearchResults converts ranked search documents into grant records.
// Documents outside the allowed domains are skipped; missing sponsor, region
// and currency fall back to the configured defaults.
func parseSearchResults(results []SearchResult, defaults config.DiscoveryDefaults) []models.Grant {
	grants := make([]models.Grant, 0, len(results))
	for _, r := range results {
		link := strings.TrimSpace(r.ResolvedURL())
		if link == "" || !onAllowedDomain(link, defaults.SearchDomains) {
			continue
		}

		g := models.Grant{
			Title:   strings.TrimSpace(r.Title),
			Link:    link,
			Summary: snippetToText(r.ResolvedSnippet()),
			Sponsor: defaults.DefaultSponsor,
			Region:  defaults.DefaultRegion,
			Tags:    r.Tags,
		}

		min, max, ok := amountsFromText(g.Summary)
		if ok {
			g.AmountMin = min
			g.AmountMax = max
			g.Currency = defaults.DefaultCurrency
		}

		grants = append(grants, g)
	}
	return grants
}

func onAllowedDomain(link string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// snippetToText strips any HTML markup a snippet may carry and collapses
// whitespace. Plain-text snippets pass through unchanged.
func snippetToText(snippet string) string {
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return ""
	}
	if strings.ContainsAny(snippet, "<>") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
		if err == nil {
			snippet = doc.Text()
		}
	}
	return strings.Join(strings.Fields(snippet), " ")
}

// amountsFromText pulls dollar figures out of free text. One figure becomes
// a maximum when preceded by "up to", otherwise an exact amount; two or more
// figures become a range.
func amountsFromText(text string) (min, max *float64, ok bool) {
	matches := amountPattern.FindAllStringSubmatch(text, 2)
	if len(matches) == 0 {
		return nil, nil, false
	}

	first, err := strconv.ParseFloat(strings.ReplaceAll(matches[0][1], ",", ""), 64)
	if err != nil {
		return nil, nil, false
	}

	if len(matches) >= 2 {
		second, err := strconv.ParseFloat(strings.ReplaceAll(matches[1][1], ",", ""), 64)
		if err == nil {
			lo, hi := first, second
			if lo > hi {
				lo, hi = hi, lo
			}
			return &lo, &hi, true
		}
	}

	// Index into the lowered string: ToLower can change byte offsets.
	lower := strings.ToLower(text)
	idx := strings.Index(lower, strings.ToLower(matches[0][0]))
	if idx >= 0 && strings.Contains(lower[:idx], "up to") {
		return nil, &first, true
	}
	v := first
	return &v, &v, true
}

package discovery

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/nmercer/grantscout/internal/models"
)

// Enricher fills gaps in live search results by fetching the grant page and
// pulling visible text. Only records missing a summary or eligibility are
// fetched; everything else passes through untouched.
type Enricher struct {
	UserAgent      string
	RequestTimeout time.Duration
	DomainDelay    time.Duration
	MaxSummaryLen  int
}

func NewEnricher() *Enricher {
	return &Enricher{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		RequestTimeout: 20 * time.Second,
		DomainDelay:    1 * time.Second,
		MaxSummaryLen:  600,
	}
}

func (e *Enricher) Enrich(ctx context.Context, grants []models.Grant) []models.Grant {
	for i := range grants {
		if grants[i].Summary != "" && grants[i].Eligibility != "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		summary, eligibility := e.fetchPage(grants[i].Link)
		if grants[i].Summary == "" && summary != "" {
			grants[i].Summary = summary
		}
		if grants[i].Eligibility == "" && eligibility != "" {
			grants[i].Eligibility = eligibility
		}
	}
	return grants
}

// fetchPage pulls the page body text and, when present, the text under an
// eligibility heading. Failures are logged and the record is left as-is.
func (e *Enricher) fetchPage(pageURL string) (summary, eligibility string) {
	c := colly.NewCollector(
		colly.UserAgent(e.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(e.RequestTimeout)
	c.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      e.DomainDelay,
	})

	c.OnHTML("body", func(el *colly.HTMLElement) {
		el.DOM.Find("script, style, nav, header, footer").Remove()

		text := strings.Join(strings.Fields(el.DOM.Text()), " ")
		if len(text) > e.MaxSummaryLen {
			// Cut on a rune boundary so truncation never corrupts UTF-8.
			if runes := []rune(text); len(runes) > e.MaxSummaryLen {
				text = string(runes[:e.MaxSummaryLen])
			}
		}
		summary = text

		eligibility = eligibilitySection(el.DOM)
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("[Enricher] fetch failed for %s: %v", pageURL, err)
	})

	if err := c.Visit(pageURL); err != nil {
		log.Printf("[Enricher] visit failed for %s: %v", pageURL, err)
		return "", ""
	}
	c.Wait()

	return summary, eligibility
}

// eligibilitySection finds a heading mentioning eligibility and collects the
// list items or paragraphs that follow it, up to the next heading.
func eligibilitySection(doc *goquery.Selection) string {
	var lines []string
	doc.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), "eligib") {
			return true
		}
		for sib := h.Next(); sib.Length() > 0; sib = sib.Next() {
			if goquery.NodeName(sib) == "h1" || goquery.NodeName(sib) == "h2" ||
				goquery.NodeName(sib) == "h3" || goquery.NodeName(sib) == "h4" {
				break
			}
			sib.Find("li").Each(func(_ int, li *goquery.Selection) {
				if t := strings.TrimSpace(li.Text()); t != "" {
					lines = append(lines, "- "+t)
				}
			})
			if goquery.NodeName(sib) == "p" {
				if t := strings.TrimSpace(sib.Text()); t != "" {
					lines = append(lines, t)
				}
			}
		}
		return false
	})
	return strings.Join(lines, "\n")
}

package match

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/nmercer/grantscout/internal/models"
)

// eligibilityFallback is shown when a record has no extractable criteria.
const eligibilityFallback = "See program link for eligibility details"

// descriptionFallback is shown when the search backend returned no summary.
const descriptionFallback = "Learn more about this program using the program details link provided."

// Search snippets occasionally carry markup; cards render plain text only.
var textPolicy = bluemonday.StrictPolicy()

// Normalizer reshapes raw search records into display-ready match cards.
type Normalizer struct {
	Scorer ScoreEstimator
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Scorer: PositionScorer{}}
}

// NormalizeForDisplay filters and reshapes raw records, preserving input
// order. Records missing a title, a sponsor, or both amount bounds are
// dropped, not defaulted.
func (n *Normalizer) NormalizeForDisplay(grants []models.Grant) []MatchCard {
	cards := make([]MatchCard, 0, len(grants))
	for i, g := range grants {
		if card, ok := n.normalizeOne(g, i); ok {
			cards = append(cards, card)
		}
	}
	return cards
}

func (n *Normalizer) normalizeOne(g models.Grant, position int) (MatchCard, bool) {
	if g.Title == "" || g.Sponsor == "" {
		return MatchCard{}, false
	}

	amount := formatAmountRange(g.AmountMin, g.AmountMax)
	if amount == "" {
		return MatchCard{}, false
	}

	description := cleanText(textPolicy.Sanitize(g.Summary))
	if description == "" {
		description = descriptionFallback
	}

	key := g.Link
	if key == "" {
		key = fmt.Sprintf("%s-%d", g.Title, position)
	}

	return MatchCard{
		ID:          HashID(key),
		Title:       g.Title,
		Funder:      g.Sponsor,
		Amount:      amount,
		Deadline:    FormatDeadline(g.Deadline),
		MatchScore:  n.Scorer.EstimateScore(g, position),
		Description: description,
		Eligibility: ParseEligibility(g.Eligibility),
		Link:        g.Link,
	}, true
}

// ParseEligibility splits free-text eligibility into short phrases on
// newlines, bullets and hyphens, trimming and de-duplicating tokens.
func ParseEligibility(raw string) []string {
	tokens := splitEligibility(raw)
	if len(tokens) == 0 {
		return []string{eligibilityFallback}
	}
	return tokens
}

func splitEligibility(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == '•' || r == '-' || r == '–' || r == '*'
	})

	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		f = cleanText(f)
		if f == "" {
			continue
		}
		key := strings.ToLower(f)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

// cleanText collapses whitespace and trims the string.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

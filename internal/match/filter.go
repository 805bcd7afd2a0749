package match

import "strings"

// FilterVisible applies the display-time rules the caller owns: cards whose
// application already went through are hidden, and a free-text query filters
// the rest case-insensitively across title, funder, description and
// eligibility tags.
func FilterVisible(cards []MatchCard, alreadyStarted func(id int64) bool, query string) []MatchCard {
	query = strings.ToLower(strings.TrimSpace(query))

	visible := make([]MatchCard, 0, len(cards))
	for _, card := range cards {
		if alreadyStarted != nil && alreadyStarted(card.ID) {
			continue
		}
		if query != "" && !cardMatchesQuery(card, query) {
			continue
		}
		visible = append(visible, card)
	}
	return visible
}

func cardMatchesQuery(card MatchCard, query string) bool {
	if strings.Contains(strings.ToLower(card.Title), query) ||
		strings.Contains(strings.ToLower(card.Funder), query) ||
		strings.Contains(strings.ToLower(card.Description), query) {
		return true
	}
	for _, tag := range card.Eligibility {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

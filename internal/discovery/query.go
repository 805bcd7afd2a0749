package discovery

import (
	"fmt"
	"strings"

	"github.com/nmercer/grantscout/internal/models"
)

// buildSearchQuery turns an organization profile and filters into a single
// search string for the web search API.
func buildSearchQuery(org models.OrganizationInfo, filters *models.GrantFilters) string {
	var parts []string

	parts = append(parts, "grant funding programs")

	if len(org.SectorTags) > 0 {
		parts = append(parts, strings.Join(org.SectorTags, " "))
	}
	if org.OrgStructure != "" {
		parts = append(parts, "for "+org.OrgStructure+" organizations")
	}

	region := "Canada"
	if filters != nil && filters.Province != "" && !strings.EqualFold(filters.Province, "National") {
		region = provinceName(filters.Province) + " Canada"
	}
	parts = append(parts, "in "+region)

	if filters != nil && filters.MinAmount != nil && *filters.MinAmount > 0 {
		parts = append(parts, fmt.Sprintf("minimum $%.0f", *filters.MinAmount))
	}

	parts = append(parts, "application deadlines eligibility")

	return strings.Join(parts, " ")
}

var provinceNames = map[string]string{
	"AB": "Alberta",
	"BC": "British Columbia",
	"MB": "Manitoba",
	"NB": "New Brunswick",
	"NL": "Newfoundland and Labrador",
	"NS": "Nova Scotia",
	"NT": "Northwest Territories",
	"NU": "Nunavut",
	"ON": "Ontario",
	"PE": "Prince Edward Island",
	"QC": "Quebec",
	"SK": "Saskatchewan",
	"YT": "Yukon",
}

func provinceName(code string) string {
	if name, ok := provinceNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

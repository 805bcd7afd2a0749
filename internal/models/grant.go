package models

import "time"

// Grant is a raw search record as returned by the discovery backend.
// Only Link is guaranteed present; every other field may be absent.
type Grant struct {
	Title           string   `json:"title"`
	Link            string   `json:"link"`
	Summary         string   `json:"summary,omitempty"`
	Eligibility     string   `json:"eligibility,omitempty"`
	Deadline        string   `json:"deadline,omitempty"`
	AmountMin       *float64 `json:"amount_min"`
	AmountMax       *float64 `json:"amount_max"`
	Currency        string   `json:"currency,omitempty"`
	Sponsor         string   `json:"sponsor,omitempty"`
	Program         string   `json:"program,omitempty"`
	Region          string   `json:"region,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	SourceCitations []string `json:"source_citations,omitempty"`
}

// OrganizationInfo describes the searching organization.
type OrganizationInfo struct {
	LegalName     string   `json:"legal_name"`
	OperatingName string   `json:"operating_name,omitempty"`
	OrgStructure  string   `json:"org_structure,omitempty"`
	NAICSCode     string   `json:"naics_code,omitempty"`
	SectorTags    []string `json:"sector_tags,omitempty"`
	Address       *Address `json:"address,omitempty"`
}

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// GrantFilters narrows a search. DeadlineBefore is a YYYY-MM-DD date string.
type GrantFilters struct {
	Province       string   `json:"province,omitempty"`
	MinAmount      *float64 `json:"min_amount,omitempty"`
	DeadlineBefore string   `json:"deadline_before,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
}

type GrantSearchRequest struct {
	Organization OrganizationInfo `json:"organization"`
	Filters      *GrantFilters    `json:"filters,omitempty"`
}

// GrantSearchResponse is the envelope returned by /api/grants/search.
// Mode is "mock" or "live".
type GrantSearchResponse struct {
	Mode        string    `json:"mode"`
	Count       int       `json:"count"`
	Results     []Grant   `json:"results"`
	GeneratedAt time.Time `json:"generated_at"`
}

package discovery

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nmercer/grantscout/internal/config"
	"github.com/nmercer/grantscout/internal/models"
)

const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Searcher is the live discovery backend. *PerplexityClient satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, domains []string, maxTokensPerPage int) (*SearchDocumentsResponse, error)
}

// Service answers grant search requests, either from the bundled sample
// dataset (mock mode) or from a live web search.
type Service struct {
	Searcher Searcher
	Defaults config.DiscoveryDefaults
	Mock     bool
	Enricher *Enricher
}

func NewService(searcher Searcher, defaults config.DiscoveryDefaults, mock bool) *Service {
	return &Service{
		Searcher: searcher,
		Defaults: defaults,
		Mock:     mock,
	}
}

func (s *Service) FindGrants(ctx context.Context, req models.GrantSearchRequest) (*models.GrantSearchResponse, error) {
	mode := ModeLive
	if s.Mock || s.Searcher == nil {
		mode = ModeMock
	}

	var grants []models.Grant
	var err error
	if mode == ModeMock {
		grants, err = loadMockGrants()
		if err != nil {
			return nil, err
		}
	} else {
		grants, err = s.searchLive(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	grants = applyFilters(grants, req.Filters)

	maxResults := 0
	if req.Filters != nil {
		maxResults = req.Filters.MaxResults
	}
	if maxResults > 0 && len(grants) > maxResults {
		grants = grants[:maxResults]
	}

	if s.Enricher != nil {
		grants = s.Enricher.Enrich(ctx, grants)
	}

	return &models.GrantSearchResponse{
		Mode:        mode,
		Count:       len(grants),
		Results:     grants,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) searchLive(ctx context.Context, req models.GrantSearchRequest) ([]models.Grant, error) {
	query := buildSearchQuery(req.Organization, req.Filters)

	maxResults := 10
	if req.Filters != nil && req.Filters.MaxResults > 0 {
		maxResults = req.Filters.MaxResults
	}

	log.Printf("[Discovery] live search: %q (max %d)", query, maxResults)

	resp, err := s.Searcher.Search(ctx, query, maxResults, s.Defaults.SearchDomains, s.Defaults.MaxTokensPerPage)
	if err != nil {
		return nil, fmt.Errorf("live search failed: %w", err)
	}

	grants := parseSearchResults(resp.Results, s.Defaults)
	log.Printf("[Discovery] live search returned %d documents, %d usable", len(resp.Results), len(grants))
	return grants, nil
}

// applyFilters narrows a result set. Records missing the filtered field pass
// through untouched except for min_amount, which needs at least one bound.
func applyFilters(grants []models.Grant, filters *models.GrantFilters) []models.Grant {
	if filters == nil {
		return grants
	}

	out := make([]models.Grant, 0, len(grants))
	for _, g := range grants {
		if !matchesProvince(g, filters.Province) {
			continue
		}
		if !matchesMinAmount(g, filters.MinAmount) {
			continue
		}
		if !matchesDeadline(g, filters.DeadlineBefore) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// matchesProvince keeps national programs and records without region data;
// a province filter only excludes records explicitly scoped elsewhere.
func matchesProvince(g models.Grant, province string) bool {
	if province == "" || g.Region == "" {
		return true
	}
	if strings.EqualFold(g.Region, "National") {
		return true
	}
	return strings.EqualFold(g.Region, province) ||
		strings.EqualFold(g.Region, provinceName(province))
}

// matchesMinAmount compares against the largest bound the record offers.
func matchesMinAmount(g models.Grant, min *float64) bool {
	if min == nil || *min <= 0 {
		return true
	}
	best := 0.0
	if g.AmountMin != nil && *g.AmountMin > best {
		best = *g.AmountMin
	}
	if g.AmountMax != nil && *g.AmountMax > best {
		best = *g.AmountMax
	}
	if best == 0 {
		// No amount data at all. Keep it; the normalizer drops these later
		// if nothing fills the gap.
		return true
	}
	return best >= *min
}

func matchesDeadline(g models.Grant, before string) bool {
	if before == "" || g.Deadline == "" {
		return true
	}
	cutoff, err := time.Parse("2006-01-02", before)
	if err != nil {
		return true
	}
	deadline, err := time.Parse("2006-01-02", g.Deadline)
	if err != nil {
		// Rolling or free-text deadlines pass through.
		return true
	}
	return !deadline.After(cutoff)
}

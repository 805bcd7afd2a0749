package summarize

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nmercer/grantscout/internal/models"
)

// ErrMissingAPIKey is returned before any batch is attempted when the
// generation client has no credential.
var ErrMissingAPIKey = errors.New("missing Gemini API key: set GEMINI_API_KEY")

// TextGenerator is the slice of the Gemini client the batcher needs.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// Summarizer partitions raw records into fixed-size batches, sends each to
// the model sequentially with an inter-batch delay, and merges the parsed
// results. A failed batch contributes zero results; the call as a whole
// still succeeds with whatever the other batches produced.
type Summarizer struct {
	Gen            TextGenerator
	BatchSize      int
	Delay          time.Duration
	MaxInputGrants int
	MaxFieldLength int

	sleep func(time.Duration)
}

func NewSummarizer(gen TextGenerator) *Summarizer {
	return &Summarizer{
		Gen:            gen,
		BatchSize:      3,
		Delay:          500 * time.Millisecond,
		MaxInputGrants: 12,
		MaxFieldLength: 800,
		sleep:          time.Sleep,
	}
}

// Summarize runs the full batch pipeline. Zero input records return an empty
// list before the credential check; a missing credential is the only way the
// call fails outright.
func (s *Summarizer) Summarize(ctx context.Context, grants []models.Grant) ([]SummarizedGrant, error) {
	if len(grants) == 0 {
		return []SummarizedGrant{}, nil
	}
	if s.Gen == nil || !s.Gen.Configured() {
		return nil, ErrMissingAPIKey
	}

	if s.MaxInputGrants > 0 && len(grants) > s.MaxInputGrants {
		grants = grants[:s.MaxInputGrants]
	}

	batches := splitBatches(grants, s.BatchSize)
	var merged []SummarizedGrant

	for i, batch := range batches {
		if i > 0 && s.Delay > 0 {
			s.sleep(s.Delay)
		}

		text, err := s.Gen.GenerateContent(ctx, buildPrompt(batch, s.MaxFieldLength))
		if err != nil {
			log.Printf("[Summarizer] batch %d/%d failed: %v", i+1, len(batches), err)
			continue
		}

		parsed := ParseBatchResponse(text)
		log.Printf("[Summarizer] batch %d/%d: %d of %d grants parsed", i+1, len(batches), len(parsed), len(batch))
		merged = append(merged, parsed...)
	}

	return dedupeByLink(merged), nil
}

func splitBatches(grants []models.Grant, size int) [][]models.Grant {
	if size <= 0 {
		size = 3
	}
	var batches [][]models.Grant
	for start := 0; start < len(grants); start += size {
		end := start + size
		if end > len(grants) {
			end = len(grants)
		}
		batches = append(batches, grants[start:end])
	}
	return batches
}

// dedupeByLink keeps the first occurrence of each canonical link; later
// duplicates are discarded silently.
func dedupeByLink(grants []SummarizedGrant) []SummarizedGrant {
	seen := make(map[string]struct{}, len(grants))
	out := make([]SummarizedGrant, 0, len(grants))
	for _, g := range grants {
		if _, ok := seen[g.Link]; ok {
			continue
		}
		seen[g.Link] = struct{}{}
		out = append(out, g)
	}
	return out
}

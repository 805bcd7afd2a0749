package match

import "github.com/nmercer/grantscout/internal/models"

// ScoreEstimator assigns a match-quality score in [0, 100] to a raw grant
// record at a given result position.
type ScoreEstimator interface {
	EstimateScore(grant models.Grant, position int) int
}

// PositionScorer is a deterministic placeholder: it differentiates cards
// visually by result position and is not a relevance computation. Swap in a
// real estimator here without touching call sites.
type PositionScorer struct{}

func (PositionScorer) EstimateScore(_ models.Grant, position int) int {
	return 70 + ((position * 7) % 25)
}

package tracker

import (
	"math/rand"
	"sync"

	"github.com/nmercer/grantscout/internal/models"
)

// OutcomeSimulator decides what a submission attempt resolves to. The real
// agent pipeline will replace this; the interface keeps callers unchanged.
type OutcomeSimulator interface {
	SimulateOutcome(app models.Application) models.ApplicationStatus
}

// CoinFlipSimulator is the stub simulator: roughly 70% of attempts land as
// submitted, the rest fail. One instance is shared across requests, so the
// rng is mutex-guarded.
type CoinFlipSimulator struct {
	SuccessRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCoinFlipSimulator(seed int64) *CoinFlipSimulator {
	return &CoinFlipSimulator{
		SuccessRate: 0.7,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *CoinFlipSimulator) SimulateOutcome(models.Application) models.ApplicationStatus {
	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	if roll < s.SuccessRate {
		return models.StatusSubmitted
	}
	return models.StatusFailed
}

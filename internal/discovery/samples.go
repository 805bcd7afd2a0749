package discovery

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nmercer/grantscout/internal/models"
)

//go:embed samples/grants_sample.json
var samplesFS embed.FS

// loadMockGrants returns the bundled sample dataset used when live discovery
// is disabled. Callers receive a fresh slice on every call.
func loadMockGrants() ([]models.Grant, error) {
	raw, err := samplesFS.ReadFile("samples/grants_sample.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded samples: %w", err)
	}
	var grants []models.Grant
	if err := json.Unmarshal(raw, &grants); err != nil {
		return nil, fmt.Errorf("parsing embedded samples: %w", err)
	}
	return grants, nil
}

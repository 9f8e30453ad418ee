package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/application/location"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
)

//go:embed states.json
var statesJSON []byte

type stateFixture struct {
	Name string `json:"name"`
}

// StateNames returns the bundled state names in fixture order.
func StateNames() ([]string, error) {
	var fx []stateFixture
	if err := json.Unmarshal(statesJSON, &fx); err != nil {
		return nil, fmt.Errorf("decode states fixture: %w", err)
	}
	names := make([]string, 0, len(fx))
	for _, f := range fx {
		names = append(names, f.Name)
	}
	return names, nil
}

// SeedStates inserts the bundled states that are not stored yet and returns how many were created.
// Existing states are skipped, so running it on every boot is safe.
func SeedStates(ctx context.Context, repo location.StateRepo, log zerolog.Logger) (int, error) {
	names, err := StateNames()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, name := range names {
		s, err := domain.NewState(name)
		if err != nil {
			return created, fmt.Errorf("state fixture %q: %w", name, err)
		}
		err = repo.CreateState(ctx, s)
		if domain.HasCode(err, domain.CodeConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed state %q: %w", name, err)
		}
		created++
	}

	log.Info().Int("created", created).Int("total", len(names)).Msg("states seeded")
	return created, nil
}

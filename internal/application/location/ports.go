package location

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
)

type StateRepo interface {
	CreateState(ctx context.Context, s *domain.State) error
	GetStateBySlug(ctx context.Context, slug string) (*domain.State, error)
}

// CityRepo.CreateCity must perform the uniqueness check and the insert as one atomic step
// and report duplicates with domain.ErrConflict.
type CityRepo interface {
	ListCitiesByStateSlug(ctx context.Context, stateSlug string) ([]*domain.City, error)
	GetCityBySlugs(ctx context.Context, stateSlug, citySlug string) (*domain.City, error)
	CreateCity(ctx context.Context, c *domain.City) error
}

type Repo interface {
	StateRepo
	CityRepo
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}

type Clock interface {
	Now() time.Time
}

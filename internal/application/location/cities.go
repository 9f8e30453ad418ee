package location

import (
	"context"
	"strings"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/location-service/internal/pkg/context"
)

type CreateCityCmd struct {
	StateSlug string
	Name      string
}

// GetState resolves a state from a raw path segment.
func (s *Service) GetState(ctx context.Context, stateSlugRaw string) (*domain.State, error) {
	slug := domain.Slugify(stateSlugRaw)
	if slug == "" {
		return nil, domain.ErrNotFound("state not found")
	}
	return s.repo.GetStateBySlug(ctx, slug)
}

// ListCitiesOfState returns the cities of a state in insertion order.
// An unknown state and a state without cities are both reported as not found.
func (s *Service) ListCitiesOfState(ctx context.Context, stateSlugRaw string) ([]*domain.City, error) {
	slug := domain.Slugify(stateSlugRaw)
	if slug == "" {
		return nil, domain.ErrNotFound("no cities found")
	}
	cities, err := s.repo.ListCitiesByStateSlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, domain.ErrNotFound("no cities found")
	}
	return cities, nil
}

func (s *Service) GetCity(ctx context.Context, stateSlugRaw, citySlugRaw string) (*domain.City, error) {
	stateSlug := domain.Slugify(stateSlugRaw)
	citySlug := domain.Slugify(citySlugRaw)
	if stateSlug == "" || citySlug == "" {
		return nil, domain.ErrNotFound("city not found")
	}
	return s.repo.GetCityBySlugs(ctx, stateSlug, citySlug)
}

func (s *Service) CreateCity(ctx context.Context, cmd CreateCityCmd) (*domain.City, error) {
	state, err := s.GetState(ctx, cmd.StateSlug)
	if err != nil {
		return nil, err
	}

	c, err := domain.NewCity(cmd.Name, state)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCity(ctx, c); err != nil {
		return nil, err
	}

	s.publishCityCreated(ctx, c)
	return c, nil
}

// publishCityCreated is best effort: the city is already committed.
func (s *Service) publishCityCreated(ctx context.Context, c *domain.City) {
	env := DomainEventEnvelope[CityCreatedPayload]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  uuid.NewString(),
		TraceID:    strings.TrimSpace(appCtx.GetRequestID(ctx)),
		OccurredAt: s.clock.Now().UTC(),
		Payload: CityCreatedPayload{
			CityID:    c.ID,
			Name:      c.Name,
			Slug:      c.Slug,
			StateID:   c.StateID,
			StateSlug: c.StateSlug,
		},
	}

	if err := s.pub.PublishEvent(ctx, RoutingKeyCityCreated, env); err != nil {
		zlog.Error().
			Err(err).
			Str("rk", RoutingKeyCityCreated).
			Int64("city_id", c.ID).
			Msg("publish domain event failed")
	}
}

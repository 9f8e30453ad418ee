package location

import (
	"time"
)

const (
	EventVersion  = 1
	EventProducer = "location-service"

	RoutingKeyCityCreated = "city.created"
)

// DomainEventEnvelope is the stable contract for all domain events emitted by location-service.
// trace_id carries the HTTP request id when one is present.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// CityCreatedPayload is the business payload for routing key: city.created
type CityCreatedPayload struct {
	CityID    int64  `json:"city_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	StateID   int64  `json:"state_id"`
	StateSlug string `json:"state_slug"`
}

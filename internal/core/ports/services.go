package ports

import (
	"context"
	"errors"
	"time"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

// ErrCacheMiss is returned by CacheService.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// GeoEvent is a change notification exchanged between replicas.
type GeoEvent struct {
	Kind    string // "points" | "messages"
	ID      int64
	Subject string
	Payload []byte // protobuf-encoded event body
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPointCreated(ctx context.Context, p *domain.GeoPoint) error
	PublishMessageCreated(ctx context.Context, m *domain.PointMessage) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeGeoEvents(ctx context.Context, handler func(ctx context.Context, ev GeoEvent) error) error
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(u *domain.User) (token string, expiresAt time.Time, err error)
	Verify(token string) (*domain.UserRef, error)
}

package ports

import (
	"context"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

// PointStore is the read side used by radius search.
type PointStore interface {
	// AllPoints returns every stored point ordered by id.
	AllPoints(ctx context.Context) ([]domain.GeoPoint, error)
	// AllMessagesWithPointAndUser returns every message with its point and
	// author resolved, ordered by id.
	AllMessagesWithPointAndUser(ctx context.Context) ([]domain.PointMessage, error)
}

// PointRepository persists points.
type PointRepository interface {
	Create(ctx context.Context, p *domain.GeoPoint) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// MessageRepository persists point messages.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.PointMessage) error
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

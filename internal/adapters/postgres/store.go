package postgres

import (
	"context"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

// Store implements ports.PointStore over the point and message tables.
type Store struct {
	points   *PointRepo
	messages *MessageRepo
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{points: NewPointRepo(db), messages: NewMessageRepo(db)}
}

func (s *Store) AllPoints(ctx context.Context) ([]domain.GeoPoint, error) {
	return s.points.AllPoints(ctx)
}

func (s *Store) AllMessagesWithPointAndUser(ctx context.Context) ([]domain.PointMessage, error) {
	return s.messages.AllMessagesWithPointAndUser(ctx)
}

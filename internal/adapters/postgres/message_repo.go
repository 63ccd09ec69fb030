package postgres

import (
	"context"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

// MessageRepo implements ports.MessageRepository with pgx.
type MessageRepo struct {
	db *DB
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create inserts a message. A missing point surfaces as domain.ErrNotFound.
func (r *MessageRepo) Create(ctx context.Context, m *domain.PointMessage) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO point_messages (point_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.PointID, m.UserID, m.Text).Scan(&m.ID, &m.CreatedAt)
	return mapError(err)
}

// AllMessagesWithPointAndUser returns every message joined with its point,
// the point owner and the author, ordered by id.
func (r *MessageRepo) AllMessagesWithPointAndUser(ctx context.Context) ([]domain.PointMessage, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT m.id, m.text, m.created_at,
		       a.id, a.username,
		       p.id, p.name, p.description, p.coordinates,
		       p.created_by, o.username, p.created_at, p.updated_at
		FROM point_messages m
		JOIN users a ON a.id = m.user_id
		JOIN geo_points p ON p.id = m.point_id
		JOIN users o ON o.id = p.created_by
		ORDER BY m.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.PointMessage
	for rows.Next() {
		var (
			m      domain.PointMessage
			author domain.UserRef
			point  domain.GeoPoint
			raw    []byte
		)
		if err := rows.Scan(&m.ID, &m.Text, &m.CreatedAt,
			&author.ID, &author.Username,
			&point.ID, &point.Name, &point.Description, &raw,
			&point.CreatedBy, &point.Owner, &point.CreatedAt, &point.UpdatedAt); err != nil {
			return nil, err
		}
		point.Coordinates = decodeJSONB(raw)
		m.PointID = point.ID
		m.UserID = author.ID
		m.Point = &point
		m.Author = &author
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

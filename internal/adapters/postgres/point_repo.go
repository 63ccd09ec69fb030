package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

// PointRepo implements ports.PointRepository with pgx.
type PointRepo struct {
	db *DB
}

// NewPointRepo creates a new PointRepo.
func NewPointRepo(db *DB) *PointRepo {
	return &PointRepo{db: db}
}

const insertPoint = `
	INSERT INTO geo_points (name, description, coordinates, created_by)
	VALUES ($1, $2, $3::jsonb, $4)
	RETURNING id, created_at, updated_at
`

// Create inserts a point and fills in its id and timestamps.
func (r *PointRepo) Create(ctx context.Context, p *domain.GeoPoint) error {
	coords, err := json.Marshal(p.Coordinates)
	if err != nil {
		return fmt.Errorf("encode coordinates: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, insertPoint, p.Name, p.Description, string(coords), p.CreatedBy).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err)
}

// CreateBatch inserts points in one transaction and fills in their ids and
// timestamps. Either every point is stored or none is; on failure the ids
// are left at zero.
func (r *PointRepo) CreateBatch(ctx context.Context, points []*domain.GeoPoint) error {
	if len(points) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range points {
		coords, err := json.Marshal(p.Coordinates)
		if err != nil {
			return fmt.Errorf("encode coordinates for %q: %w", p.Name, err)
		}
		batch.Queue(insertPoint, p.Name, p.Description, string(coords), p.CreatedBy).
			QueryRow(func(row pgx.Row) error {
				return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
			})
	}

	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		for _, p := range points {
			p.ID = 0
		}
		return fmt.Errorf("flush batch of %d: %w", len(points), mapError(err))
	}
	return nil
}

// Exists reports whether a point with the id exists.
func (r *PointRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM geo_points WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// AllPoints returns every point with its owner, ordered by id.
func (r *PointRepo) AllPoints(ctx context.Context) ([]domain.GeoPoint, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.coordinates,
		       p.created_by, u.username, p.created_at, p.updated_at
		FROM geo_points p
		JOIN users u ON u.id = p.created_by
		ORDER BY p.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.GeoPoint
	for rows.Next() {
		var p domain.GeoPoint
		var raw []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &raw,
			&p.CreatedBy, &p.Owner, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Coordinates = decodeJSONB(raw)
		points = append(points, p)
	}
	return points, rows.Err()
}

// decodeJSONB returns the decoded document. Rows written by older clients may
// hold a JSON string wrapping the serialized object; it is returned as is and
// resolved by the search filter.
func decodeJSONB(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

package usecases

import (
	"log/slog"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/pkg/geospatial"
)

// FilterPoints keeps the points whose unrounded distance from the query
// center is within the radius, in candidate order. Points with an
// undecodable coordinate are skipped and counted.
func FilterPoints(q domain.SearchQuery, candidates []domain.GeoPoint) ([]domain.ProjectedPoint, int) {
	out := make([]domain.ProjectedPoint, 0)
	skipped := 0

	for i := range candidates {
		p := &candidates[i]
		lon, lat, err := geospatial.ParseCoordinate(p.Coordinates)
		if err != nil {
			skipped++
			slog.Debug("skipping point with corrupt coordinates", "point_id", p.ID, "error", err)
			continue
		}

		d := geospatial.DistanceKm(q.Center.Lat, q.Center.Lon, lat, lon)
		if d > q.RadiusKm {
			continue
		}

		out = append(out, domain.ProjectedPoint{
			ID:                p.ID,
			Name:              p.Name,
			Description:       p.Description,
			DistanceKm:        geospatial.RoundKm(d),
			Coordinates:       domain.Coordinate{Lon: lon, Lat: lat}.GeoJSON(),
			CreatedBy:         p.CreatedBy,
			CreatedByUsername: p.Owner,
		})
	}
	return out, skipped
}

// FilterMessages applies the point filter to each message's resolved point.
// Messages without a point or with a corrupt point coordinate are skipped.
func FilterMessages(q domain.SearchQuery, candidates []domain.PointMessage) ([]domain.ProjectedMessage, int) {
	out := make([]domain.ProjectedMessage, 0)
	skipped := 0

	for i := range candidates {
		m := &candidates[i]
		if m.Point == nil {
			skipped++
			slog.Debug("skipping message without point", "message_id", m.ID)
			continue
		}

		lon, lat, err := geospatial.ParseCoordinate(m.Point.Coordinates)
		if err != nil {
			skipped++
			slog.Debug("skipping message with corrupt point coordinates",
				"message_id", m.ID, "point_id", m.Point.ID, "error", err)
			continue
		}

		d := geospatial.DistanceKm(q.Center.Lat, q.Center.Lon, lat, lon)
		if d > q.RadiusKm {
			continue
		}

		author := domain.UserRef{ID: m.UserID}
		if m.Author != nil {
			author = *m.Author
		}

		out = append(out, domain.ProjectedMessage{
			ID:         m.ID,
			Text:       m.Text,
			CreatedAt:  m.CreatedAt,
			DistanceKm: geospatial.RoundKm(d),
			Point: domain.PointSummary{
				ID:          m.Point.ID,
				Name:        m.Point.Name,
				Coordinates: domain.Coordinate{Lon: lon, Lat: lat}.GeoJSON(),
			},
			User: author,
		})
	}
	return out, skipped
}

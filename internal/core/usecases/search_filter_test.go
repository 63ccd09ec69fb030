package usecases_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/usecases"
	"github.com/samirrijal/geonotes/internal/pkg/geospatial"
)

func TestFilterPoints_Radius50(t *testing.T) {
	points, skipped := usecases.FilterPoints(moscowQuery(50), moscowFixtures())
	if skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", skipped)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Name != "Moscow Kremlin" || points[1].Name != "Zelenograd" {
		t.Errorf("unexpected order: %s, %s", points[0].Name, points[1].Name)
	}
	if points[0].DistanceKm != 0 {
		t.Errorf("expected 0 km for the center, got %v", points[0].DistanceKm)
	}
	if points[1].DistanceKm != 37.06 {
		t.Errorf("expected Zelenograd at 37.06 km, got %v", points[1].DistanceKm)
	}
	if points[1].CreatedBy != 8 || points[1].CreatedByUsername != "olga" {
		t.Errorf("owner not projected: %+v", points[1])
	}
	c := points[1].Coordinates
	if c.Type != "Point" || c.Coordinates[0] != 37.1818 || c.Coordinates[1] != 55.9825 {
		t.Errorf("unexpected coordinates %+v", c)
	}
}

func TestFilterPoints_Radius5(t *testing.T) {
	points, _ := usecases.FilterPoints(moscowQuery(5), moscowFixtures())
	if len(points) != 1 || points[0].Name != "Moscow Kremlin" {
		t.Fatalf("expected only Moscow Kremlin, got %+v", points)
	}
}

func TestFilterPoints_InclusiveBoundary(t *testing.T) {
	d := geospatial.DistanceKm(55.7558, 37.6173, 55.9825, 37.1818)
	points, _ := usecases.FilterPoints(moscowQuery(d), moscowFixtures())
	if len(points) != 2 {
		t.Errorf("candidate at exactly the radius must be included, got %d", len(points))
	}

	points, _ = usecases.FilterPoints(moscowQuery(math.Nextafter(d, 0)), moscowFixtures())
	if len(points) != 1 {
		t.Errorf("candidate just beyond the radius must be excluded, got %d", len(points))
	}
}

func TestFilterPoints_EmittedWithinRadius(t *testing.T) {
	q := moscowQuery(700)
	points, _ := usecases.FilterPoints(q, moscowFixtures())
	if len(points) != 3 {
		t.Fatalf("expected all 3 points, got %d", len(points))
	}
	for _, p := range points {
		d := geospatial.DistanceKm(q.Center.Lat, q.Center.Lon, p.Coordinates.Coordinates[1], p.Coordinates.Coordinates[0])
		if d > q.RadiusKm {
			t.Errorf("%s emitted at %v km beyond radius %v", p.Name, d, q.RadiusKm)
		}
		if p.DistanceKm != geospatial.RoundKm(d) {
			t.Errorf("%s: distance_km %v is not the rounded distance %v", p.Name, p.DistanceKm, d)
		}
	}
}

func TestFilterPoints_SkipsCorrupt(t *testing.T) {
	candidates := append(moscowFixtures(),
		domain.GeoPoint{ID: 10, Name: "broken json", Coordinates: `{"type": "Point", "coord`},
		domain.GeoPoint{ID: 11, Name: "no coordinates", Coordinates: nil},
		domain.GeoPoint{ID: 12, Name: "out of range", Coordinates: geoJSON(37.6, 95)},
		domain.GeoPoint{ID: 13, Name: "polygon", Coordinates: map[string]any{"type": "Polygon", "coordinates": []any{}}},
		domain.GeoPoint{ID: 14, Name: "serialized", Coordinates: `{"type": "Point", "coordinates": [37.6173, 55.7558]}`},
	)

	points, skipped := usecases.FilterPoints(moscowQuery(50), candidates)
	if skipped != 4 {
		t.Errorf("expected 4 skipped, got %d", skipped)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[2].ID != 14 {
		t.Errorf("serialized coordinates should be accepted, got %+v", points[2])
	}
}

func TestFilterPoints_Empty(t *testing.T) {
	points, skipped := usecases.FilterPoints(moscowQuery(10), nil)
	if points == nil || len(points) != 0 || skipped != 0 {
		t.Errorf("expected empty non-nil result, got %v (%d skipped)", points, skipped)
	}
}

func TestFilterMessages(t *testing.T) {
	fixtures := moscowFixtures()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	messages := []domain.PointMessage{
		{ID: 1, PointID: 1, UserID: 7, Text: "Message in Moscow", CreatedAt: created, Point: &fixtures[0], Author: &domain.UserRef{ID: 7, Username: "ivan"}},
		{ID: 2, PointID: 2, UserID: 7, Text: "Message in SPB", Point: &fixtures[1], Author: &domain.UserRef{ID: 7, Username: "ivan"}},
		{ID: 3, PointID: 3, UserID: 8, Text: "Message in Zelenograd", Point: &fixtures[2]},
		{ID: 4, PointID: 99, UserID: 8, Text: "orphan"},
		{ID: 5, PointID: 5, UserID: 8, Text: "corrupt", Point: &domain.GeoPoint{ID: 5, Coordinates: "garbage"}},
	}

	out, skipped := usecases.FilterMessages(moscowQuery(50), messages)
	if skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", skipped)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out))
	}
	if out[0].Text != "Message in Moscow" || out[1].Text != "Message in Zelenograd" {
		t.Errorf("unexpected messages %q, %q", out[0].Text, out[1].Text)
	}
	if !out[0].CreatedAt.Equal(created) {
		t.Errorf("created_at not projected")
	}
	if out[0].User.Username != "ivan" || out[0].Point.Name != "Moscow Kremlin" {
		t.Errorf("unexpected projection %+v", out[0])
	}
	if out[1].User.ID != 8 {
		t.Errorf("expected fallback author id 8, got %+v", out[1].User)
	}
	if out[1].DistanceKm != 37.06 {
		t.Errorf("expected 37.06 km, got %v", out[1].DistanceKm)
	}
}

func TestFilterPoints_Antipode(t *testing.T) {
	q := domain.SearchQuery{Center: domain.Coordinate{Lon: 0, Lat: -89.98}, RadiusKm: 10}
	candidates := []domain.GeoPoint{{ID: 1, Name: "Antipode", Coordinates: geoJSON(180, 89.98)}}

	points, skipped := usecases.FilterPoints(q, candidates)
	if len(points) != 0 || skipped != 0 {
		t.Fatalf("antipode must be out of a 10 km radius, got %+v (skipped %d)", points, skipped)
	}

	q.RadiusKm = 20100
	points, _ = usecases.FilterPoints(q, candidates)
	if len(points) != 1 {
		t.Fatalf("expected the antipode within 20100 km, got %d", len(points))
	}
	if d := points[0].DistanceKm; math.IsNaN(d) || d > q.RadiusKm || d < 20015 {
		t.Errorf("unexpected antipode distance %v", d)
	}
	if _, err := json.Marshal(domain.PointSearchResult{Points: points}); err != nil {
		t.Errorf("result not encodable: %v", err)
	}
}

func TestFilterMessages_Antipode(t *testing.T) {
	q := domain.SearchQuery{Center: domain.Coordinate{Lon: 0, Lat: -89.98}, RadiusKm: 10}
	point := domain.GeoPoint{ID: 1, Name: "Antipode", Coordinates: geoJSON(180, 89.98)}
	messages, _ := usecases.FilterMessages(q, []domain.PointMessage{{ID: 5, PointID: 1, Text: "far", Point: &point}})
	if len(messages) != 0 {
		t.Errorf("antipode message must be out of a 10 km radius, got %+v", messages)
	}
}

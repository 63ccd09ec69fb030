package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/usecases"
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string `json:"type"`
	Geometry   any    `json:"geometry"`
	Properties struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"properties"`
}

// featureError reports a feature that was skipped.
type featureError struct {
	Index int
	Err   error
}

func (e featureError) Error() string {
	return fmt.Sprintf("feature %d: %v", e.Index, e.Err)
}

// parseFeatures reads a GeoJSON FeatureCollection of Point features and
// returns the points it describes, owned by owner. Features are validated
// exactly like API point submissions; invalid ones are skipped and reported.
// A malformed document is an error.
func parseFeatures(r io.Reader, owner domain.UserRef) ([]*domain.GeoPoint, []featureError, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, nil, fmt.Errorf("decode feature collection: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, nil, fmt.Errorf("expected a FeatureCollection, got %q", fc.Type)
	}

	var (
		points  []*domain.GeoPoint
		skipped []featureError
	)
	for i, f := range fc.Features {
		in := usecases.CreatePointInput{
			Name:        f.Properties.Name,
			Description: f.Properties.Description,
			Coordinates: f.Geometry,
		}
		p, err := in.Point(owner)
		if err != nil {
			skipped = append(skipped, featureError{Index: i, Err: err})
			continue
		}
		points = append(points, p)
	}
	return points, skipped, nil
}

// chunk splits points into batches of at most size.
func chunk(points []*domain.GeoPoint, size int) [][]*domain.GeoPoint {
	var out [][]*domain.GeoPoint
	for len(points) > size {
		out = append(out, points[:size])
		points = points[size:]
	}
	if len(points) > 0 {
		out = append(out, points)
	}
	return out
}

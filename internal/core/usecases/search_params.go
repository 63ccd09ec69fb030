package usecases

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/pkg/geospatial"
)

// RequiredSearchParams lists the query parameters every radius search needs.
var RequiredSearchParams = []string{"latitude", "longitude", "radius"}

const searchExample = "/v1/points/search?latitude=55.7558&longitude=37.6173&radius=10"

// RawSearchParams holds the search parameters exactly as received.
type RawSearchParams struct {
	Latitude  string
	Longitude string
	Radius    string
}

// ParseSearchQuery validates raw parameters in a fixed order: presence,
// numeric parse, latitude range, longitude range, radius sign. The first
// failing check is returned as a *domain.ValidationError.
func ParseSearchQuery(raw RawSearchParams) (domain.SearchQuery, error) {
	if raw.Latitude == "" || raw.Longitude == "" || raw.Radius == "" {
		return domain.SearchQuery{}, &domain.ValidationError{
			Kind:     domain.MissingParameter,
			Message:  "Missing required parameters: latitude, longitude, radius",
			Required: RequiredSearchParams,
			Example:  searchExample,
		}
	}

	lat, errLat := parseFinite(raw.Latitude)
	lon, errLon := parseFinite(raw.Longitude)
	radius, errRadius := parseFinite(raw.Radius)
	if errLat != nil || errLon != nil || errRadius != nil {
		return domain.SearchQuery{}, &domain.ValidationError{
			Kind:    domain.NotANumber,
			Message: "Latitude, longitude and radius must be valid numbers",
		}
	}

	if err := geospatial.CheckRange(lat, lon); err != nil {
		kind := domain.LongitudeOutOfRange
		if errors.Is(err, geospatial.ErrLatitudeOutOfRange) {
			kind = domain.LatitudeOutOfRange
		}
		return domain.SearchQuery{}, &domain.ValidationError{Kind: kind, Message: err.Error()}
	}

	if radius <= 0 {
		return domain.SearchQuery{}, &domain.ValidationError{
			Kind:    domain.NonPositiveRadius,
			Message: "Radius must be a positive number",
		}
	}

	return domain.SearchQuery{
		Center:   domain.Coordinate{Lon: lon, Lat: lat},
		RadiusKm: radius,
	}, nil
}

var errNotFinite = errors.New("not a finite number")

// parseFinite accepts plain decimal notation with optional surrounding
// whitespace. Hex floats and digit separators are rejected.
func parseFinite(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX_") {
		return 0, errNotFinite
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

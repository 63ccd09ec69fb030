package geospatial

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validation errors for GeoJSON Point payloads. The messages are user-facing.
var (
	ErrNotObject           = errors.New("Coordinates must be a JSON object")
	ErrMissingType         = errors.New("Missing 'type' field in GeoJSON")
	ErrMissingCoordinates  = errors.New("Missing 'coordinates' field in GeoJSON")
	ErrNotPoint            = errors.New("GeoJSON type must be 'Point'")
	ErrNotArray            = errors.New("Coordinates must be an array")
	ErrWrongLength         = errors.New("Coordinates array must contain exactly 2 values: [longitude, latitude]")
	ErrNotNumbers          = errors.New("Longitude and latitude must be numbers")
	ErrLatitudeOutOfRange  = errors.New("Latitude must be between -90 and 90 degrees")
	ErrLongitudeOutOfRange = errors.New("Longitude must be between -180 and 180 degrees")
)

// CheckRange checks search coordinates against the inclusive WGS 84 bounds,
// latitude first.
func CheckRange(lat, lon float64) error {
	if err := checkLatitude(lat); err != nil {
		return err
	}
	return checkLongitude(lon)
}

func checkLatitude(lat float64) error {
	if !(lat >= -90 && lat <= 90) {
		return ErrLatitudeOutOfRange
	}
	return nil
}

func checkLongitude(lon float64) error {
	if !(lon >= -180 && lon <= 180) {
		return ErrLongitudeOutOfRange
	}
	return nil
}

// ValidatePoint checks a decoded GeoJSON value of the form
// {"type": "Point", "coordinates": [lon, lat]} and returns its coordinates.
func ValidatePoint(v any) (lon, lat float64, err error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return 0, 0, ErrNotObject
	}

	typ, ok := obj["type"]
	if !ok {
		return 0, 0, ErrMissingType
	}
	coords, ok := obj["coordinates"]
	if !ok {
		return 0, 0, ErrMissingCoordinates
	}
	if s, _ := typ.(string); s != "Point" {
		return 0, 0, ErrNotPoint
	}

	arr, ok := coords.([]any)
	if !ok {
		return 0, 0, ErrNotArray
	}
	if len(arr) != 2 {
		return 0, 0, ErrWrongLength
	}

	lon, lonOK := arr[0].(float64)
	lat, latOK := arr[1].(float64)
	if !lonOK || !latOK {
		return 0, 0, ErrNotNumbers
	}

	// Payloads are checked in GeoJSON order, longitude first.
	if err := checkLongitude(lon); err != nil {
		return 0, 0, err
	}
	if err := checkLatitude(lat); err != nil {
		return 0, 0, err
	}
	return lon, lat, nil
}

// ParseCoordinate decodes a stored coordinate in whatever shape the store
// handed it over: a decoded object, serialized JSON text or bytes (possibly a
// JSON string wrapping the serialized object), or any value that marshals to
// a GeoJSON Point.
func ParseCoordinate(raw any) (lon, lat float64, err error) {
	v, err := decodeRaw(raw, 2)
	if err != nil {
		return 0, 0, err
	}
	return ValidatePoint(v)
}

func decodeRaw(raw any, depth int) (any, error) {
	switch r := raw.(type) {
	case nil:
		return nil, ErrNotObject
	case map[string]any:
		return r, nil
	case string:
		return decodeText([]byte(r), depth)
	case []byte:
		return decodeText(r, depth)
	case json.RawMessage:
		return decodeText(r, depth)
	default:
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode coordinate: %w", err)
		}
		return decodeText(b, depth)
	}
}

func decodeText(b []byte, depth int) (any, error) {
	if depth == 0 {
		return nil, ErrNotObject
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode coordinate: %w", err)
	}
	if s, ok := v.(string); ok {
		return decodeText([]byte(s), depth-1)
	}
	return v, nil
}

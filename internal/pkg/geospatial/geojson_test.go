package geospatial

import (
	"encoding/json"
	"errors"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func TestValidatePoint_Valid(t *testing.T) {
	lon, lat, err := ValidatePoint(decode(t, `{"type": "Point", "coordinates": [37.6173, 55.7558]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lon != 37.6173 || lat != 55.7558 {
		t.Errorf("expected (37.6173, 55.7558), got (%v, %v)", lon, lat)
	}
}

func TestValidatePoint_Boundaries(t *testing.T) {
	for _, s := range []string{
		`{"type": "Point", "coordinates": [180, 90]}`,
		`{"type": "Point", "coordinates": [-180, -90]}`,
		`{"type": "Point", "coordinates": [0, 0]}`,
	} {
		if _, _, err := ValidatePoint(decode(t, s)); err != nil {
			t.Errorf("%s: unexpected error %v", s, err)
		}
	}
}

func TestValidatePoint_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not an object", `"not a dict"`, ErrNotObject},
		{"array instead of object", `[37.6, 55.7]`, ErrNotObject},
		{"missing type", `{"coordinates": [10, 20]}`, ErrMissingType},
		{"missing coordinates", `{"type": "Point"}`, ErrMissingCoordinates},
		{"polygon", `{"type": "Polygon", "coordinates": [[[0, 0], [1, 1]]]}`, ErrNotPoint},
		{"coordinates not array", `{"type": "Point", "coordinates": "not an array"}`, ErrNotArray},
		{"one element", `{"type": "Point", "coordinates": [10]}`, ErrWrongLength},
		{"three elements", `{"type": "Point", "coordinates": [10, 20, 30]}`, ErrWrongLength},
		{"lon is string", `{"type": "Point", "coordinates": ["not-a-number", 50]}`, ErrNotNumbers},
		{"lat is string", `{"type": "Point", "coordinates": [50, "not-a-number"]}`, ErrNotNumbers},
		{"lon is null", `{"type": "Point", "coordinates": [null, 50]}`, ErrNotNumbers},
		{"lat is list", `{"type": "Point", "coordinates": [50, []]}`, ErrNotNumbers},
		{"longitude too large", `{"type": "Point", "coordinates": [200, 50]}`, ErrLongitudeOutOfRange},
		{"latitude too large", `{"type": "Point", "coordinates": [50, 100]}`, ErrLatitudeOutOfRange},
		{"both out of range", `{"type": "Point", "coordinates": [200, 100]}`, ErrLongitudeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ValidatePoint(decode(t, tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCheckRange(t *testing.T) {
	if err := CheckRange(90, 180); err != nil {
		t.Errorf("inclusive bounds rejected: %v", err)
	}
	if err := CheckRange(-90.0001, 0); !errors.Is(err, ErrLatitudeOutOfRange) {
		t.Errorf("expected latitude error, got %v", err)
	}
	if err := CheckRange(0, 180.0001); !errors.Is(err, ErrLongitudeOutOfRange) {
		t.Errorf("expected longitude error, got %v", err)
	}
	if err := CheckRange(100, 200); !errors.Is(err, ErrLatitudeOutOfRange) {
		t.Errorf("search coordinates report latitude first, got %v", err)
	}
}

type pointValue struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func TestParseCoordinate_Representations(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"decoded object", map[string]any{"type": "Point", "coordinates": []any{37.1818, 55.9825}}},
		{"serialized string", `{"type": "Point", "coordinates": [37.1818, 55.9825]}`},
		{"bytes", []byte(`{"type": "Point", "coordinates": [37.1818, 55.9825]}`)},
		{"raw message", json.RawMessage(`{"type":"Point","coordinates":[37.1818,55.9825]}`)},
		{"double encoded", `"{\"type\": \"Point\", \"coordinates\": [37.1818, 55.9825]}"`},
		{"struct value", pointValue{Type: "Point", Coordinates: []float64{37.1818, 55.9825}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, lat, err := ParseCoordinate(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lon != 37.1818 || lat != 55.9825 {
				t.Errorf("expected lon/lat (37.1818, 55.9825), got (%v, %v)", lon, lat)
			}
		})
	}
}

func TestParseCoordinate_Corrupt(t *testing.T) {
	for name, raw := range map[string]any{
		"nil":             nil,
		"broken json":     `{"type": "Point", "coordinates": [37.1`,
		"missing key":     map[string]any{"type": "Point"},
		"plain number":    42,
		"triple encoded":  `"\"{\\\"type\\\":\\\"Point\\\",\\\"coordinates\\\":[1,2]}\""`,
		"out of range":    `{"type": "Point", "coordinates": [37.1818, 95]}`,
		"empty string":    "",
		"channel value":   make(chan int),
		"swapped strings": `{"type": "Point", "coordinates": ["37.1", "55.9"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, _, err := ParseCoordinate(raw); err == nil {
				t.Errorf("expected error for %v", raw)
			}
		})
	}
}

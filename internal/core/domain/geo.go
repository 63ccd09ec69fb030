package domain

// Coordinate is a WGS 84 position. GeoJSON order is longitude first.
type Coordinate struct {
	Lon float64
	Lat float64
}

// GeoJSON returns the coordinate as a GeoJSON Point.
func (c Coordinate) GeoJSON() PointGeometry {
	return PointGeometry{Type: "Point", Coordinates: []float64{c.Lon, c.Lat}}
}

// PointGeometry is the GeoJSON wire form {"type": "Point", "coordinates": [lon, lat]}.
type PointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// SearchQuery is a validated radius search.
type SearchQuery struct {
	Center   Coordinate
	RadiusKm float64
}

// SearchCenter echoes the query center in responses.
type SearchCenter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Echo returns the center in response form.
func (q SearchQuery) Echo() SearchCenter {
	return SearchCenter{Latitude: q.Center.Lat, Longitude: q.Center.Lon}
}

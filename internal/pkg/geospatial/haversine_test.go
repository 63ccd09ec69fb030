package geospatial

import (
	"math"
	"testing"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{55.7558, 37.6173},
		{-90, 180},
		{90, -180},
		{-33.8688, 151.2093},
	}
	for _, p := range points {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{55.7558, 37.6173, 59.9398, 30.3141},
		{55.7558, 37.6173, 55.9825, 37.1818},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0, -179.9, 0, 179.9},
		{89.9, 10, -89.9, -170},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric distance for %v: %v vs %v", p, ab, ba)
		}
		if ab < 0 {
			t.Errorf("negative distance for %v: %v", p, ab)
		}
	}
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"Moscow to Zelenograd", 55.7558, 37.6173, 55.9825, 37.1818, 37.06, 0.01},
		{"Moscow to St. Petersburg", 55.7558, 37.6173, 59.9398, 30.3141, 634.29, 0.01},
		{"half equator", 0, 0, 0, 180, math.Pi * earthRadiusKm, 1e-6},
		{"one degree of latitude", 0, 0, 1, 0, math.Pi * earthRadiusKm / 180, 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("got %.6f km, want %.6f ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestRoundKm(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{37.06315731718189, 37.06},
		{0, 0},
		{1.005000001, 1.01},
		{2.5, 2.5},
		{634.2864974736268, 634.29},
		{0.125, 0.13},
	}
	for _, tt := range tests {
		if got := RoundKm(tt.in); got != tt.want {
			t.Errorf("RoundKm(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDistanceKm_Antipodes(t *testing.T) {
	halfCircumference := math.Pi * earthRadiusKm
	for i := -9000; i <= 9000; i++ {
		lat := float64(i) / 100
		for _, lon := range []float64{0, 37.6173, -120} {
			antiLon := lon + 180
			if antiLon > 180 {
				antiLon -= 360
			}
			d := DistanceKm(lat, lon, -lat, antiLon)
			if math.IsNaN(d) || d < 0 || d > halfCircumference+1e-6 {
				t.Fatalf("DistanceKm(%v, %v, %v, %v) = %v", lat, lon, -lat, antiLon, d)
			}
			if math.Abs(d-halfCircumference) > 0.01 {
				t.Fatalf("antipode of (%v, %v) at %v km, want %v", lat, lon, d, halfCircumference)
			}
		}
	}
}

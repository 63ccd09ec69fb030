package natsadapter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

func TestPointEventRoundTrip(t *testing.T) {
	p := &domain.GeoPoint{
		ID:          42,
		Name:        "Zelenograd",
		Coordinates: domain.Coordinate{Lon: 37.1818, Lat: 55.9825}.GeoJSON(),
		CreatedBy:   7,
		CreatedAt:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	data, err := encodePoint(p)
	if err != nil {
		t.Fatal(err)
	}

	ev, err := DecodeEvent(SubjectPointCreated, data)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "points" || ev.ID != 42 {
		t.Errorf("unexpected event %+v", ev)
	}

	out, err := EventJSON(SubjectPointCreated, data)
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Subject string `json:"subject"`
		Data    struct {
			ID        float64 `json:"id"`
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out, &body); err != nil {
		t.Fatalf("invalid json %s: %v", out, err)
	}
	if body.Subject != SubjectPointCreated || body.Data.Name != "Zelenograd" || body.Data.Latitude != 55.9825 {
		t.Errorf("unexpected json %s", out)
	}
}

func TestMessageEvent(t *testing.T) {
	data, err := encodeMessage(&domain.PointMessage{ID: 5, PointID: 42, UserID: 7, Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	ev, err := DecodeEvent(SubjectMessageCreated, data)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "messages" || ev.ID != 5 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestDecodeEvent_Errors(t *testing.T) {
	if _, err := DecodeEvent(SubjectPointCreated, []byte{0xff, 0xff}); err == nil {
		t.Error("expected error for garbage payload")
	}
	data, _ := encodeMessage(&domain.PointMessage{ID: 1})
	if _, err := DecodeEvent("geo.unknown", data); err == nil {
		t.Error("expected error for unknown subject")
	}
}

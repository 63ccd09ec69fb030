package natsadapter

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/ports"
	"github.com/samirrijal/geonotes/internal/pkg/geospatial"
)

// Subjects carried by the GEO_EVENTS stream.
const (
	SubjectAll            = "geo.>"
	SubjectPointCreated   = "geo.points.created"
	SubjectMessageCreated = "geo.messages.created"

	streamName = "GEO_EVENTS"
	pointsKind = "points"
	msgsKind   = "messages"
)

func encodePoint(p *domain.GeoPoint) ([]byte, error) {
	fields := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"created_by":  p.CreatedBy,
		"created_at":  p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if lon, lat, err := geospatial.ParseCoordinate(p.Coordinates); err == nil {
		fields["longitude"] = lon
		fields["latitude"] = lat
	}
	return encode(fields)
}

func encodeMessage(m *domain.PointMessage) ([]byte, error) {
	return encode(map[string]any{
		"id":         m.ID,
		"point":      m.PointID,
		"user":       m.UserID,
		"text":       m.Text,
		"created_at": m.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}

func encode(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build event: %w", err)
	}
	return proto.Marshal(s)
}

// DecodeEvent parses a geo event received on subject.
func DecodeEvent(subject string, data []byte) (ports.GeoEvent, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return ports.GeoEvent{}, fmt.Errorf("decode event: %w", err)
	}

	ev := ports.GeoEvent{Subject: subject, Payload: data}
	switch {
	case strings.HasPrefix(subject, "geo.points."):
		ev.Kind = pointsKind
	case strings.HasPrefix(subject, "geo.messages."):
		ev.Kind = msgsKind
	default:
		return ports.GeoEvent{}, fmt.Errorf("unknown subject %q", subject)
	}
	if v, ok := s.GetFields()["id"]; ok {
		ev.ID = int64(v.GetNumberValue())
	}
	return ev, nil
}

// EventJSON transcodes a protobuf event body into a JSON envelope.
func EventJSON(subject string, data []byte) ([]byte, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	envelope, err := structpb.NewStruct(map[string]any{"subject": subject})
	if err != nil {
		return nil, err
	}
	envelope.Fields["data"] = structpb.NewStructValue(&s)
	return protojson.Marshal(envelope)
}

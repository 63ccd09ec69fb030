package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/ports"
	"github.com/samirrijal/geonotes/internal/pkg/geospatial"
	"github.com/samirrijal/geonotes/internal/pkg/metrics"
	"github.com/samirrijal/geonotes/internal/pkg/telemetry"
	"github.com/samirrijal/geonotes/internal/pkg/validator"
)

const (
	msgRequired        = "This field is required."
	msgPointNotInteger = "Point ID must be an integer."
	msgPointNotFound   = "Point does not exist. Please provide a valid point ID."
)

// CreatePointInput is the body of a point creation request.
type CreatePointInput struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description"`
	Coordinates any    `json:"coordinates"`
}

// Point validates the input and returns the point it describes, owned by
// owner. Validation failures are returned as domain.FieldErrors.
func (in CreatePointInput) Point(owner domain.UserRef) (*domain.GeoPoint, error) {
	errs := domain.FieldErrors(validator.Struct(in))
	if errs == nil {
		errs = domain.FieldErrors{}
	}

	var lon, lat float64
	if in.Coordinates == nil {
		errs["coordinates"] = msgRequired
	} else {
		var err error
		if lon, lat, err = geospatial.ValidatePoint(in.Coordinates); err != nil {
			errs["coordinates"] = err.Error()
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.GeoPoint{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Coordinates: domain.Coordinate{Lon: lon, Lat: lat}.GeoJSON(),
		CreatedBy:   owner.ID,
		Owner:       owner.Username,
	}, nil
}

// CreateMessageInput is the body of a message creation request.
type CreateMessageInput struct {
	Point any    `json:"point"`
	Text  string `json:"text" validate:"notblank"`
}

// PointService handles point and message ingestion.
type PointService struct {
	points    ports.PointRepository
	messages  ports.MessageRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewPointService creates a new PointService. cache and publisher may be nil.
func NewPointService(
	points ports.PointRepository,
	messages ports.MessageRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
) *PointService {
	return &PointService{points: points, messages: messages, cache: cache, publisher: publisher}
}

// CreatePoint validates the input and stores a point owned by owner.
// Validation failures are returned as domain.FieldErrors.
func (s *PointService) CreatePoint(ctx context.Context, owner domain.UserRef, in CreatePointInput) (*domain.GeoPoint, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "PointService.CreatePoint")
	defer span.End()

	p, err := in.Point(owner)
	if err != nil {
		return nil, err
	}
	if err := s.points.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create point: %w", err)
	}
	span.SetAttributes(attribute.Int64("point.id", p.ID))

	metrics.RecordsCreated.WithLabelValues("points").Inc()
	s.invalidate(ctx, PointCandidatesKey, MessageCandidatesKey)
	if s.publisher != nil {
		if err := s.publisher.PublishPointCreated(ctx, p); err != nil {
			slog.WarnContext(ctx, "publish point created", "point_id", p.ID, "error", err)
		}
	}
	return p, nil
}

// CreateMessage validates the input and stores a message authored by author.
func (s *PointService) CreateMessage(ctx context.Context, author domain.UserRef, in CreateMessageInput) (*domain.PointMessage, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "PointService.CreateMessage")
	defer span.End()

	errs := domain.FieldErrors(validator.Struct(in))
	if errs == nil {
		errs = domain.FieldErrors{}
	}

	pointID, msg := pointIDFrom(in.Point)
	if msg == "" {
		exists, err := s.points.Exists(ctx, pointID)
		if err != nil {
			return nil, fmt.Errorf("check point: %w", err)
		}
		if !exists {
			msg = msgPointNotFound
		}
	}
	if msg != "" {
		errs["point"] = msg
	}
	if len(errs) > 0 {
		return nil, errs
	}

	m := &domain.PointMessage{
		PointID: pointID,
		UserID:  author.ID,
		Text:    strings.TrimSpace(in.Text),
		Author:  &author,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.FieldErrors{"point": msgPointNotFound}
		}
		return nil, fmt.Errorf("create message: %w", err)
	}
	span.SetAttributes(attribute.Int64("message.id", m.ID))

	metrics.RecordsCreated.WithLabelValues("messages").Inc()
	s.invalidate(ctx, MessageCandidatesKey)
	if s.publisher != nil {
		if err := s.publisher.PublishMessageCreated(ctx, m); err != nil {
			slog.WarnContext(ctx, "publish message created", "message_id", m.ID, "error", err)
		}
	}
	return m, nil
}

func (s *PointService) invalidate(ctx context.Context, keys ...string) {
	InvalidateSnapshots(ctx, s.cache, keys...)
}

// pointIDFrom accepts a JSON number without fraction or a decimal string.
func pointIDFrom(v any) (int64, string) {
	switch id := v.(type) {
	case nil:
		return 0, msgRequired
	case float64:
		if id != math.Trunc(id) || math.Abs(id) > 1<<53 {
			return 0, msgPointNotInteger
		}
		return int64(id), ""
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0, msgPointNotInteger
		}
		return n, ""
	default:
		return 0, msgPointNotInteger
	}
}

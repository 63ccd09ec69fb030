package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/ports"
	"github.com/samirrijal/geonotes/internal/pkg/metrics"
	"github.com/samirrijal/geonotes/internal/pkg/telemetry"
)

// Cache keys of the candidate snapshots.
const (
	PointCandidatesKey   = "geo:candidates:points"
	MessageCandidatesKey = "geo:candidates:messages"
)

const defaultSnapshotTTL = 60

// SearchService answers radius searches over points and messages.
type SearchService struct {
	store ports.PointStore
	cache ports.CacheService
	ttl   int
}

// NewSearchService creates a new SearchService. cache may be nil.
func NewSearchService(store ports.PointStore, cache ports.CacheService, ttlSeconds int) *SearchService {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultSnapshotTTL
	}
	return &SearchService{store: store, cache: cache, ttl: ttlSeconds}
}

// SearchPoints returns every point within the query radius.
func (s *SearchService) SearchPoints(ctx context.Context, q domain.SearchQuery) (*domain.PointSearchResult, error) {
	ctx, span := startSearchSpan(ctx, "SearchService.SearchPoints", q)
	defer span.End()

	candidates, err := s.pointCandidates(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load candidates")
		metrics.Searches.WithLabelValues("points", "error").Inc()
		return nil, err
	}

	points, skipped := FilterPoints(q, candidates)
	observe(ctx, span, "points", len(candidates), skipped, len(points))

	return &domain.PointSearchResult{
		SearchCenter: q.Echo(),
		RadiusKm:     q.RadiusKm,
		PointsFound:  len(points),
		Points:       points,
	}, nil
}

// SearchMessages returns every message whose point is within the query radius.
func (s *SearchService) SearchMessages(ctx context.Context, q domain.SearchQuery) (*domain.MessageSearchResult, error) {
	ctx, span := startSearchSpan(ctx, "SearchService.SearchMessages", q)
	defer span.End()

	candidates, err := s.messageCandidates(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load candidates")
		metrics.Searches.WithLabelValues("messages", "error").Inc()
		return nil, err
	}

	messages, skipped := FilterMessages(q, candidates)
	observe(ctx, span, "messages", len(candidates), skipped, len(messages))

	return &domain.MessageSearchResult{
		SearchCenter:  q.Echo(),
		RadiusKm:      q.RadiusKm,
		MessagesFound: len(messages),
		Messages:      messages,
	}, nil
}

// Invalidate drops the cached candidate snapshots.
func (s *SearchService) Invalidate(ctx context.Context) {
	InvalidateSnapshots(ctx, s.cache, PointCandidatesKey, MessageCandidatesKey)
}

func (s *SearchService) pointCandidates(ctx context.Context) ([]domain.GeoPoint, error) {
	var points []domain.GeoPoint
	gen, ok := s.fromCache(ctx, PointCandidatesKey, &points)
	if ok {
		return points, nil
	}

	points, err := s.store.AllPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	s.toCache(ctx, PointCandidatesKey, gen, points)
	return points, nil
}

func (s *SearchService) messageCandidates(ctx context.Context) ([]domain.PointMessage, error) {
	var messages []domain.PointMessage
	gen, ok := s.fromCache(ctx, MessageCandidatesKey, &messages)
	if ok {
		return messages, nil
	}

	messages, err := s.store.AllMessagesWithPointAndUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	s.toCache(ctx, MessageCandidatesKey, gen, messages)
	return messages, nil
}

// fromCache decodes the snapshot under key into dst when it belongs to the
// current generation. The generation is returned either way so a fresh
// snapshot can be tagged with it; it must be read before the store is.
func (s *SearchService) fromCache(ctx context.Context, key string, dst any) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen := currentGeneration(ctx, s.cache, key)
	if gen == "" {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return "", false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return gen, false
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("discarding unreadable cache entry", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return gen, false
	}
	if snap.Generation != gen {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return gen, false
	}
	if err := json.Unmarshal(snap.Data, dst); err != nil {
		slog.Warn("discarding unreadable cache entry", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return gen, false
	}
	metrics.CacheHits.WithLabelValues(key).Inc()
	return gen, true
}

func (s *SearchService) toCache(ctx context.Context, key, gen string, v any) {
	if s.cache == nil || gen == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("snapshot not cacheable", "key", key, "error", err)
		return
	}
	b, err := json.Marshal(snapshot{Generation: gen, Data: data})
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, b, s.ttl)
}

func startSearchSpan(ctx context.Context, name string, q domain.SearchQuery) (context.Context, trace.Span) {
	return telemetry.Tracer().Start(ctx, name, trace.WithAttributes(
		attribute.Float64("search.latitude", q.Center.Lat),
		attribute.Float64("search.longitude", q.Center.Lon),
		attribute.Float64("search.radius_km", q.RadiusKm),
	))
}

func observe(ctx context.Context, span trace.Span, kind string, scanned, skipped, found int) {
	span.SetAttributes(
		attribute.Int("search.scanned", scanned),
		attribute.Int("search.skipped", skipped),
		attribute.Int("search.found", found),
	)
	metrics.Searches.WithLabelValues(kind, "ok").Inc()
	metrics.CandidatesScanned.WithLabelValues(kind).Add(float64(scanned))
	metrics.CandidatesSkipped.WithLabelValues(kind).Add(float64(skipped))
	metrics.SearchResults.WithLabelValues(kind).Observe(float64(found))
	if skipped > 0 {
		slog.DebugContext(ctx, "corrupt candidates skipped", "kind", kind, "skipped", skipped)
	}
}

package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/samirrijal/geonotes/internal/core/ports"
)

// generationTTL keeps generation keys well past any snapshot TTL.
const generationTTL = 24 * 60 * 60

// snapshot is a cached candidate list tagged with the generation that was
// current before the store was read. A snapshot is served only while its
// generation is still current.
type snapshot struct {
	Generation string          `json:"generation"`
	Data       json.RawMessage `json:"data"`
}

func generationKey(key string) string {
	return key + ":gen"
}

// InvalidateSnapshots moves each snapshot key to a fresh generation and drops
// the cached value. Snapshots built from reads that started before the call
// are never served afterwards, even if they are written back late.
func InvalidateSnapshots(ctx context.Context, cache ports.CacheService, keys ...string) {
	if cache == nil {
		return
	}
	for _, key := range keys {
		if err := cache.Set(ctx, generationKey(key), []byte(uuid.NewString()), generationTTL); err != nil {
			slog.WarnContext(ctx, "cache generation bump failed", "key", key, "error", err)
		}
		if err := cache.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "cache invalidate failed", "key", key, "error", err)
		}
	}
}

// currentGeneration returns the generation of key, starting a new one when
// none is stored. An empty result means snapshots must not be cached.
func currentGeneration(ctx context.Context, cache ports.CacheService, key string) string {
	b, err := cache.Get(ctx, generationKey(key))
	if err == nil && len(b) > 0 {
		return string(b)
	}
	if err != nil && !errors.Is(err, ports.ErrCacheMiss) {
		return ""
	}

	gen := uuid.NewString()
	if err := cache.Set(ctx, generationKey(key), []byte(gen), generationTTL); err != nil {
		return ""
	}
	return gen
}

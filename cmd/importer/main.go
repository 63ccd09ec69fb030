// Command importer bulk-loads GeoJSON FeatureCollections of Point features
// as points owned by an existing user.
//
//	importer <username> <file.geojson> [file.geojson ...]
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	natsadapter "github.com/samirrijal/geonotes/internal/adapters/nats"
	"github.com/samirrijal/geonotes/internal/adapters/postgres"
	"github.com/samirrijal/geonotes/internal/adapters/valkey"
	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/usecases"
	"github.com/samirrijal/geonotes/internal/pkg/config"
	"github.com/samirrijal/geonotes/internal/pkg/logging"
	"github.com/samirrijal/geonotes/internal/pkg/metrics"
)

const batchSize = 500

func main() {
	if len(os.Args) < 3 {
		log.Fatal("usage: importer <username> <file.geojson> [file.geojson ...]")
	}

	cfg, err := config.Load("geonotes-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	owner, err := postgres.NewUserRepo(db).GetByUsername(ctx, os.Args[1])
	if err != nil {
		log.Fatalf("owner %q: %v", os.Args[1], err)
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, replicas will refresh on cache expiry", "error", err)
	} else {
		defer pub.Close()
	}

	repo := postgres.NewPointRepo(db)
	files := os.Args[2:]
	slog.Info("import starting", "owner", owner.Username, "files", len(files))

	var (
		wg       sync.WaitGroup
		imported atomic.Int64
		sem      = make(chan struct{}, 4) // max 4 files in flight
	)
	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			n, err := importFile(ctx, repo, pub, owner, path)
			imported.Add(int64(n))
			if err != nil {
				slog.Error("import failed", "file", path, "imported", n, "error", err)
			}
		}(path)
	}
	wg.Wait()

	invalidate(ctx, cfg.Valkey.Addr)
	slog.Info("import complete", "points", imported.Load())
}

func importFile(ctx context.Context, repo *postgres.PointRepo, pub *natsadapter.Publisher, owner *domain.User, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	points, skipped, err := parseFeatures(f, owner.Ref())
	if err != nil {
		return 0, err
	}
	for _, s := range skipped {
		slog.Warn("skipping feature", "file", path, "index", s.Index, "error", s.Err)
	}

	start := time.Now()
	done := 0
	for _, b := range chunk(points, batchSize) {
		// Batches are all-or-nothing, so done counts exactly the stored rows.
		if err := repo.CreateBatch(ctx, b); err != nil {
			return done, fmt.Errorf("batch at %d: %w", done, err)
		}
		done += len(b)
		metrics.RecordsCreated.WithLabelValues("points").Add(float64(len(b)))

		if pub != nil {
			for _, p := range b {
				if err := pub.PublishPointCreated(ctx, p); err != nil {
					slog.Warn("publish point created", "point_id", p.ID, "error", err)
				}
			}
		}
	}

	slog.Info("file imported", "file", path, "points", done, "skipped", len(skipped), "took", time.Since(start))
	return done, nil
}

// invalidate drops the shared candidate snapshots so searches see the import
// immediately.
func invalidate(ctx context.Context, addr string) {
	cache, err := valkey.New(addr)
	if err != nil {
		slog.Warn("valkey unavailable, snapshots expire on their own", "error", err)
		return
	}
	defer cache.Close()

	usecases.InvalidateSnapshots(ctx, cache, usecases.PointCandidatesKey, usecases.MessageCandidatesKey)
}

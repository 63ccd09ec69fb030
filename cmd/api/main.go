package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/geonotes/internal/adapters/http"
	"github.com/samirrijal/geonotes/internal/adapters/memcache"
	natsadapter "github.com/samirrijal/geonotes/internal/adapters/nats"
	"github.com/samirrijal/geonotes/internal/adapters/postgres"
	"github.com/samirrijal/geonotes/internal/adapters/valkey"
	"github.com/samirrijal/geonotes/internal/core/ports"
	"github.com/samirrijal/geonotes/internal/core/usecases"
	"github.com/samirrijal/geonotes/internal/pkg/auth"
	"github.com/samirrijal/geonotes/internal/pkg/config"
	"github.com/samirrijal/geonotes/internal/pkg/logging"
	"github.com/samirrijal/geonotes/internal/pkg/metrics"
	"github.com/samirrijal/geonotes/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geonotes-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Valkey is shared across replicas; the in-process LRU only serves this one.
	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, using in-process cache", "error", err)
		cache = memcache.New(cfg.Cache.LRUSize)
	} else {
		defer vc.Close()
		cache = vc
	}

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	userRepo := postgres.NewUserRepo(db)
	pointRepo := postgres.NewPointRepo(db)
	messageRepo := postgres.NewMessageRepo(db)
	tokens := auth.NewJWTService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute, cfg.Auth.Issuer)

	searchSvc := usecases.NewSearchService(postgres.NewStore(db), cache, cfg.Cache.TTLSeconds)
	pointSvc := usecases.NewPointService(pointRepo, messageRepo, cache, publisher)
	authSvc := usecases.NewAuthService(userRepo, tokens)

	deps := &http.Dependencies{
		Search: searchSvc,
		Points: pointSvc,
		Auth:   authSvc,
		DB:     db,
		Cache:  cache,
	}

	if pub != nil {
		deps.NATS = pub.Conn()

		sub := natsadapter.NewSubscriber(pub.Conn())
		err := sub.SubscribeGeoEvents(ctx, func(ctx context.Context, ev ports.GeoEvent) error {
			metrics.EventsReceived.WithLabelValues(ev.Kind).Inc()
			searchSvc.Invalidate(ctx)
			return nil
		})
		if err != nil {
			slog.Warn("geo event subscription failed", "error", err)
		} else {
			defer sub.Close()
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "GeoNotes API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats refreshes the db pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

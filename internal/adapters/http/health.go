package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geonotes/internal/core/ports"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// HealthHandler reports liveness.
func HealthHandler() fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"version": Version,
		})
	}
}

// dependencyCheck probes one backing service. Only required checks affect
// readiness; the others degrade gracefully.
type dependencyCheck struct {
	name     string
	required bool
	probe    func(ctx context.Context) error // nil when not configured
}

var errDisconnected = errors.New("disconnected")

func readinessChecks(deps *Dependencies) []dependencyCheck {
	db := dependencyCheck{name: "database", required: true}
	if deps.DB != nil {
		db.probe = func(ctx context.Context) error { return deps.DB.Pool.Ping(ctx) }
	}

	nc := dependencyCheck{name: "nats"}
	if deps.NATS != nil {
		nc.probe = func(context.Context) error {
			if !deps.NATS.IsConnected() {
				return errDisconnected
			}
			return nil
		}
	}

	cache := dependencyCheck{name: "cache"}
	if deps.Cache != nil {
		cache.probe = func(ctx context.Context) error {
			_, err := deps.Cache.Get(ctx, "__health_check__")
			if errors.Is(err, ports.ErrCacheMiss) {
				return nil
			}
			return err
		}
	}

	return []dependencyCheck{db, nc, cache}
}

// ReadyHandler checks the database, NATS, and the cache.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	checks := readinessChecks(deps)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		results := make(map[string]string, len(checks))
		ready := true
		for _, chk := range checks {
			switch {
			case chk.probe == nil:
				results[chk.name] = "not configured"
				ready = ready && !chk.required
			default:
				if err := chk.probe(ctx); err != nil {
					results[chk.name] = "error: " + err.Error()
					ready = ready && !chk.required
				} else {
					results[chk.name] = "ok"
				}
			}
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "checks": results})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": results})
	}
}

package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geonotes/internal/adapters/postgres"
	"github.com/samirrijal/geonotes/internal/core/ports"
	"github.com/samirrijal/geonotes/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Search *usecases.SearchService
	Points *usecases.PointService
	Auth   *usecases.AuthService
	NATS   *nats.Conn
	DB     *postgres.DB
	Cache  ports.CacheService
}

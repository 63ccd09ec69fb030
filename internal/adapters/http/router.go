package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geonotes/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// legacySunset is when the /api/points aliases stop being served.
var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/v1/health", HealthHandler())
	app.Get("/v1/ready", ReadyHandler(deps))

	authn := app.Group("/v1/auth")
	authn.Post("/register", timeout.NewWithContext(RegisterHandler(deps), requestTimeout))
	authn.Post("/token", timeout.NewWithContext(TokenHandler(deps), requestTimeout))

	registerPointRoutes(app.Group("/v1"), deps)

	legacy := app.Group("/api", DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/api/points/search", SunsetDate: legacySunset, Alternative: "/v1/points/search"},
		{Path: "/api/points/messages/search", SunsetDate: legacySunset, Alternative: "/v1/points/messages/search"},
		{Path: "/api/points/messages", SunsetDate: legacySunset, Alternative: "/v1/points/messages"},
		{Path: "/api/points", SunsetDate: legacySunset, Alternative: "/v1/points"},
	}))
	registerPointRoutes(legacy, deps)

	app.Post("/graphql", RequireAuth(deps), timeout.NewWithContext(GraphQLHandler(deps), requestTimeout))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, RequireAuth(deps))
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}

// registerPointRoutes mounts the authenticated point endpoints on r.
func registerPointRoutes(r fiber.Router, deps *Dependencies) {
	auth := RequireAuth(deps)
	r.Get("/points/search", auth, timeout.NewWithContext(SearchPointsHandler(deps), requestTimeout))
	r.Get("/points/messages/search", auth, timeout.NewWithContext(SearchMessagesHandler(deps), requestTimeout))
	r.Post("/points/messages", auth, timeout.NewWithContext(CreateMessageHandler(deps), requestTimeout))
	r.Post("/points", auth, timeout.NewWithContext(CreatePointHandler(deps), requestTimeout))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geonotes/internal/core/usecases"
)

func searchParams(c *fiber.Ctx) usecases.RawSearchParams {
	return usecases.RawSearchParams{
		Latitude:  c.Query("latitude"),
		Longitude: c.Query("longitude"),
		Radius:    c.Query("radius"),
	}
}

// SearchPointsHandler returns the points within a radius of a center.
func SearchPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := usecases.ParseSearchQuery(searchParams(c))
		if err != nil {
			return respondError(c, err)
		}

		res, err := deps.Search.SearchPoints(c.UserContext(), q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// SearchMessagesHandler returns the messages attached to points within a
// radius of a center.
func SearchMessagesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := usecases.ParseSearchQuery(searchParams(c))
		if err != nil {
			return respondError(c, err)
		}

		res, err := deps.Search.SearchMessages(c.UserContext(), q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// CreatePointHandler stores a point owned by the caller.
func CreatePointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreatePointInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		p, err := deps.Points.CreatePoint(c.UserContext(), currentUser(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// CreateMessageHandler stores a message authored by the caller.
func CreateMessageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateMessageInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		m, err := deps.Points.CreateMessage(c.UserContext(), currentUser(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// RegisterHandler creates an account.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.Credentials
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		u, err := deps.Auth.Register(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// TokenHandler exchanges credentials for a bearer token.
func TokenHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.Credentials
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		tok, err := deps.Auth.Login(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(tok)
	}
}

package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geonotes/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int               `json:"status"`
	Code      string            `json:"code"`  // bad_request, not_found, internal_error, ...
	Message   string            `json:"error"` // Human-readable message
	RequestID string            `json:"request_id,omitempty"`
	Required  []string          `json:"required,omitempty"`
	Example   string            `json:"example,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func requestID(c *fiber.Ctx) string {
	reqID, _ := c.Locals("requestid").(string)
	return reqID
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: requestID(c),
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnauthorized, "unauthorized", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusConflict, "conflict", msg)
}

// errInternal logs err and returns a 500 without leaking details.
func errInternal(c *fiber.Ctx, err error) error {
	LoggerFromCtx(c.UserContext()).Error("request failed",
		slog.String("path", c.Path()), slog.String("error", err.Error()))
	return newError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
}

// errValidation renders a search parameter failure.
func errValidation(c *fiber.Ctx, verr *domain.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(APIError{
		Status:    fiber.StatusBadRequest,
		Code:      string(verr.Kind),
		Message:   verr.Message,
		RequestID: requestID(c),
		Required:  verr.Required,
		Example:   verr.Example,
	})
}

// errFields renders per-field ingestion failures.
func errFields(c *fiber.Ctx, fe domain.FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(APIError{
		Status:    fiber.StatusBadRequest,
		Code:      "validation_error",
		Message:   fe.Error(),
		RequestID: requestID(c),
		Fields:    fe,
	})
}

// respondError maps use case errors onto HTTP responses.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	var fe domain.FieldErrors
	switch {
	case errors.As(err, &verr):
		return errValidation(c, verr)
	case errors.As(err, &fe):
		return errFields(c, fe)
	case errors.Is(err, domain.ErrUsernameTaken):
		return errConflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errUnauthorized(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	default:
		return errInternal(c, err)
	}
}

package api

import (
	"errors"
	"log"
	"math"
	"strconv"

	"github.com/example/taskboard/domain/todo"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// respondDomainError translates domain errors into HTTP responses.
// Unrecognized errors are logged and masked as 500s.
func respondDomainError(c *fiber.Ctx, err error) error {
	var invalid *todo.InvalidInputError
	var limited *todo.RateLimitedError

	switch {
	case errors.Is(err, todo.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
	case errors.Is(err, todo.ErrNotAuthorized):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "You do not have access to this resource",
		})
	case errors.Is(err, todo.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_input",
			Message: invalid.Reason,
			Field:   invalid.Field,
		})
	case errors.As(err, &limited):
		seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
			Error:      "rate_limited",
			Message:    "Too many " + limited.Operation + " requests, slow down",
			RetryAfter: seconds,
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// badRequest returns a generic malformed-body response.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

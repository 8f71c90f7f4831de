package handlers

import (
	"errors"

	"lendtrack/internal/core/domain"
	"lendtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondDomainError maps a domain error to the matching HTTP response.
// Retry exhaustion means the write kept conflicting; the client should try
// again later, so it maps to 503 rather than 409.
func respondDomainError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrRetryExhausted):
		return response.ServiceUnavailable(c, "Operation kept conflicting with concurrent writes, please retry")
	case domain.IsNotFound(err):
		return response.NotFound(c, err.Error())
	case domain.IsConflict(err):
		return response.Conflict(c, err.Error())
	case domain.IsInvalidArgument(err):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}

package middlewares

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"facturation-backend/imagestudio"
	"facturation-backend/logger"
	"facturation-backend/pricing"
	"facturation-backend/settings"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info, keyed by json name)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	log := logger.WithComponent("http")

	// 3) Domain errors
	switch {
	case errors.Is(err, settings.ErrUnknownKind):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, settings.ErrUnknownColumnOp),
		errors.Is(err, settings.ErrUnknownDirection),
		errors.Is(err, pricing.ErrInvalidRate),
		errors.Is(err, pricing.ErrUnknownMode),
		errors.Is(err, imagestudio.ErrInvalidSource),
		errors.Is(err, imagestudio.ErrInvalidResolution):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, imagestudio.ErrNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "image service not configured"})
	}

	// Persistence failures keep their cause so the client can show it and retry.
	var se *settings.SaveError
	if errors.As(err, &se) {
		log.Error().Err(se.Err).Str("path", c.Path()).Msg("settings save failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": se.Error()})
	}

	// External image API: static message, no partial result.
	var ie *imagestudio.Error
	if errors.As(err, &ie) || errors.Is(err, imagestudio.ErrNoImage) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("image service failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "image service failed"})
	}

	// 4) Unknown errors (500)
	log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

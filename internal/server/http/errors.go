package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/lockzilla/lockzilla/internal/common"
)

// fail writes a JSON error body with the status mapped from err.
func fail(c fiber.Ctx, err error) error {
	return c.Status(mapErrorToStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps domain errors to HTTP status codes.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrorDuplicateUsername):
		return http.StatusConflict

	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorUnauthenticated),
		errors.Is(err, common.ErrorInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound

	case errors.Is(err, common.ErrorMissingParameter):
		return http.StatusBadRequest

	case errors.Is(err, common.ErrorSecretExposed):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

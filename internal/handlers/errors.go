package handlers

import (
	"errors"

	"etalase/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindValidation: fiber.StatusBadRequest,
	apperrors.KindAuth:       fiber.StatusUnauthorized,
	apperrors.KindForbidden:  fiber.StatusForbidden,
	apperrors.KindNotFound:   fiber.StatusNotFound,
	apperrors.KindConflict:   fiber.StatusConflict,
	apperrors.KindFetch:      fiber.StatusServiceUnavailable,
	apperrors.KindInternal:   fiber.StatusInternalServerError,
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	if status, ok := kindStatus[apperrors.KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as JSON. Validation errors carry their field
// messages, auth errors their user-facing text, fetch errors a retry hint.
func respondError(c *fiber.Ctx, logger *zap.Logger, message string, err error) error {
	kind := apperrors.KindOf(err)
	status := StatusOf(err)
	body := fiber.Map{
		"message": message,
		"kind":    kind,
		"error":   err.Error(),
	}

	var verr *apperrors.ValidationError
	var aerr *apperrors.AuthError
	switch {
	case errors.As(err, &verr):
		body["message"] = verr.Message
		if len(verr.Fields) > 0 {
			body["errors"] = verr.Fields
		}
	case errors.As(err, &aerr):
		body["message"] = aerr.Message()
		body["category"] = aerr.Category
	case kind == apperrors.KindFetch:
		body["retry"] = true
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	} else {
		logger.Debug(message, zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"kind":    apperrors.KindValidation,
		"error":   err.Error(),
	})
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/services"
)

// serviceError maps service sentinels to HTTP statuses with the error body
// shape used across the API. Unrecognized errors surface as 400 with the
// service's user-facing message.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrRateLimited):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrAppNotFound), errors.Is(err, services.ErrReportNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrNotOwner):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrApprovedLocked),
		errors.Is(err, services.ErrDuplicateWebsite),
		errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrDuplicateReport),
		errors.Is(err, services.ErrAlreadyUnlocked):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrQuotaExceeded):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrNotUnlocked):
		status = fiber.StatusPaymentRequired
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

package handlers

import (
	"errors"

	"salonsuite/configs/configslog"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrTimeClockInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidPIN):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrJobNotFound),
		errors.Is(err, services.ErrTimeEntryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrPINInUse),
		errors.Is(err, services.ErrAlreadyClockedIn),
		errors.Is(err, services.ErrNotClockedIn),
		errors.Is(err, services.ErrJobInactive),
		errors.Is(err, services.ErrJobNameTaken),
		errors.Is(err, services.ErrOpenEntryExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		configslog.Log.Error("Mesai isteği başarısız", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": services.ErrTimeClockFailed.Error()})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

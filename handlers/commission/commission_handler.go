package handlers

import (
	"errors"

	"salonsuite/configs/configslog"
	"salonsuite/pkg/renderer"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type calculateRequest struct {
	StartDate string `json:"startDate" query:"startDate"`
	EndDate   string `json:"endDate" query:"endDate"`
	Refresh   bool   `json:"refresh" query:"refresh"`
}

type CommissionHandler struct {
	service services.ICommissionService
}

func NewCommissionHandler(service services.ICommissionService) *CommissionHandler {
	return &CommissionHandler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrCommissionInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrCommissionUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Calculate POST /api/commissions
func (h *CommissionHandler) Calculate(c *fiber.Ctx) error {
	var req calculateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	result, err := h.service.Calculate(c.UserContext(), req.StartDate, req.EndDate, req.Refresh)
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusInternalServerError {
			configslog.Log.Error("Komisyon hesaplanamadı", zap.String("start", req.StartDate), zap.String("end", req.EndDate), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// ClearCache DELETE /api/commissions/cache
func (h *CommissionHandler) ClearCache(c *fiber.Ctx) error {
	removed, err := h.service.ClearExpired(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// Page GET /commissions; tarih verilmişse raporu sunucu tarafında çizer.
func (h *CommissionHandler) Page(c *fiber.Ctx) error {
	var req calculateRequest
	_ = c.QueryParser(&req)
	data := fiber.Map{
		"Title":     "Commission Calculator",
		"StartDate": req.StartDate,
		"EndDate":   req.EndDate,
	}
	if req.StartDate == "" || req.EndDate == "" {
		return renderer.Render(c, "commission/index", "layouts/base", data)
	}

	result, err := h.service.Calculate(c.UserContext(), req.StartDate, req.EndDate, req.Refresh)
	if err != nil {
		data[renderer.FlashErrorKeyView] = err.Error()
		return renderer.Render(c, "commission/index", "layouts/base", data, statusFor(err))
	}
	data["Result"] = result
	return renderer.Render(c, "commission/index", "layouts/base", data)
}

package handlers

import (
	"salonsuite/pkg/renderer"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
)

type kioskRequest struct {
	PIN   string `json:"pin" form:"pin"`
	JobID *uint  `json:"jobId" form:"jobId"`
	Notes string `json:"notes" form:"notes"`
}

// KioskHandler PIN ile çalışan, oturum gerektirmeyen mesai uçları.
type KioskHandler struct {
	service services.IKioskService
	jobs    services.IJobService
}

func NewKioskHandler(service services.IKioskService, jobs services.IJobService) *KioskHandler {
	return &KioskHandler{service: service, jobs: jobs}
}

func (h *KioskHandler) parse(c *fiber.Ctx) (kioskRequest, error) {
	var req kioskRequest
	err := c.BodyParser(&req)
	return req, err
}

func (h *KioskHandler) Identify(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	status, err := h.service.Identify(c.UserContext(), req.PIN)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

func (h *KioskHandler) ClockIn(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	entry, err := h.service.ClockIn(c.UserContext(), req.PIN, req.JobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *KioskHandler) ClockOut(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	entry, err := h.service.ClockOut(c.UserContext(), req.PIN, req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func (h *KioskHandler) Punch(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	result, err := h.service.Punch(c.UserContext(), req.PIN)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Page GET /kiosk
func (h *KioskHandler) Page(c *fiber.Ctx) error {
	jobs, err := h.jobs.List(c.UserContext(), true)
	data := fiber.Map{"Title": "Time Clock", "Jobs": jobs}
	if err != nil {
		data[renderer.FlashErrorKeyView] = "Jobs could not be loaded."
	}
	return renderer.Render(c, "kiosk/index", "layouts/kiosk", data)
}

// PunchForm POST /kiosk; tek düğmeli kiosk formu.
func (h *KioskHandler) PunchForm(c *fiber.Ctx) error {
	req, _ := h.parse(c)
	data := fiber.Map{"Title": "Time Clock"}
	if jobs, err := h.jobs.List(c.UserContext(), true); err == nil {
		data["Jobs"] = jobs
	}

	var (
		result = &services.PunchResult{}
		err    error
	)
	switch c.FormValue("action") {
	case "clock_in":
		result.Action = "clock_in"
		result.Entry, err = h.service.ClockIn(c.UserContext(), req.PIN, req.JobID)
	case "clock_out":
		result.Action = "clock_out"
		result.Entry, err = h.service.ClockOut(c.UserContext(), req.PIN, req.Notes)
	default:
		result, err = h.service.Punch(c.UserContext(), req.PIN)
	}
	data["Result"] = result
	if err != nil {
		delete(data, "Result")
		msg := err.Error()
		if statusFor(err) == fiber.StatusInternalServerError {
			msg = services.ErrTimeClockFailed.Error()
		}
		data[renderer.FlashErrorKeyView] = msg
		return renderer.Render(c, "kiosk/index", "layouts/kiosk", data, statusFor(err))
	}
	return renderer.Render(c, "kiosk/index", "layouts/kiosk", data)
}

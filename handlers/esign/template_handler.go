package handlers

import (
	"salonsuite/pkg/queryparams"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
)

type fromTemplateRequest struct {
	Recipients map[string]services.RoleAssignment `json:"recipients"`
}

type saveAsTemplateRequest struct {
	Name string `json:"name"`
}

type TemplateHandler struct {
	service services.ITemplateService
}

func NewTemplateHandler(service services.ITemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	result, err := h.service.List(c.UserContext(), actorFrom(c), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	tpl, err := h.service.Get(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tpl)
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var input services.TemplateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	tpl, err := h.service.Create(c.UserContext(), actorFrom(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tpl)
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var input services.TemplateInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	tpl, err := h.service.Update(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tpl)
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.service.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateEnvelope POST /api/esign/templates/:id/envelopes
func (h *TemplateHandler) CreateEnvelope(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req fromTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	env, err := h.service.CreateEnvelopeFromTemplate(c.UserContext(), actorFrom(c), id, req.Recipients)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}

// ApplyFields POST /api/esign/envelopes/:id/apply-template
func (h *TemplateHandler) ApplyFields(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	env, err := h.service.ApplyTemplateFields(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(env)
}

// SaveEnvelope POST /api/esign/envelopes/:id/save-as-template
func (h *TemplateHandler) SaveEnvelope(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req saveAsTemplateRequest
	_ = c.BodyParser(&req)
	tpl, err := h.service.SaveEnvelopeAsTemplate(c.UserContext(), actorFrom(c), id, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tpl)
}

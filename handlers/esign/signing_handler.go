package handlers

import (
	"strconv"
	"strings"

	"salonsuite/middlewares"
	"salonsuite/pkg/renderer"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
)

type submitRequest struct {
	Values map[string]string `json:"values"`
}

type declineRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// SigningHandler /sign/:token altındaki genel imza uçları; kimlik token'dır.
type SigningHandler struct {
	service services.ISigningService
}

func NewSigningHandler(service services.ISigningService) *SigningHandler {
	return &SigningHandler{service: service}
}

// fieldValues JSON gövdesini veya "field_<id>" adlı form alanlarını okur.
func fieldValues(c *fiber.Ctx) (map[uint]string, error) {
	values := make(map[uint]string)
	if c.Is("json") {
		var req submitRequest
		if err := c.BodyParser(&req); err != nil {
			return nil, err
		}
		for k, v := range req.Values {
			id, err := strconv.ParseUint(k, 10, 64)
			if err != nil {
				return nil, err
			}
			values[uint(id)] = v
		}
		return values, nil
	}
	var parseErr error
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		name := string(key)
		if !strings.HasPrefix(name, "field_") {
			return
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(name, "field_"), 10, 64)
		if err != nil {
			parseErr = err
			return
		}
		values[uint(id)] = string(value)
	})
	return values, parseErr
}

func (h *SigningHandler) renderError(c *fiber.Ctx, err error) error {
	if middlewares.WantsJSON(c) {
		return respondError(c, err)
	}
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = services.ErrEnvelopeFailed.Error()
	}
	return renderer.Render(c, "sign/error", "layouts/base", fiber.Map{"Title": "Signing", "Message": msg}, status)
}

// Open GET /sign/:token
func (h *SigningHandler) Open(c *fiber.Ctx) error {
	token := c.Params("token")
	session, err := h.service.OpenSession(c.UserContext(), token, metaFrom(c))
	if err != nil {
		return h.renderError(c, err)
	}
	if middlewares.WantsJSON(c) {
		return c.JSON(session)
	}
	return renderer.Render(c, "sign/index", "layouts/base", fiber.Map{
		"Title":   session.Envelope.Title,
		"Token":   token,
		"Session": session,
	})
}

// Submit POST /sign/:token
func (h *SigningHandler) Submit(c *fiber.Ctx) error {
	token := c.Params("token")
	values, err := fieldValues(c)
	if err != nil {
		return h.renderError(c, services.ErrSigningInvalidInput)
	}
	result, err := h.service.Submit(c.UserContext(), token, values, metaFrom(c))
	if err != nil {
		return h.renderError(c, err)
	}
	if middlewares.WantsJSON(c) || c.Is("json") {
		return c.JSON(result)
	}
	return renderer.Render(c, "sign/done", "layouts/base", fiber.Map{"Title": "Signed", "Result": result})
}

// Decline POST /sign/:token/decline
func (h *SigningHandler) Decline(c *fiber.Ctx) error {
	var req declineRequest
	_ = c.BodyParser(&req)
	if err := h.service.Decline(c.UserContext(), c.Params("token"), req.Reason, metaFrom(c)); err != nil {
		return h.renderError(c, err)
	}
	if middlewares.WantsJSON(c) || c.Is("json") {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return renderer.Render(c, "sign/done", "layouts/base", fiber.Map{"Title": "Declined", "Declined": true})
}

// Document GET /sign/:token/documents/:documentId
func (h *SigningHandler) Document(c *fiber.Ctx) error {
	docID, ok := paramUint(c, "documentId")
	if !ok {
		return badRequest(c, "invalid id")
	}
	content, err := h.service.DownloadDocument(c.UserContext(), c.Params("token"), docID)
	if err != nil {
		return respondError(c, err)
	}
	return sendDocument(c, content, true)
}

package handlers

import (
	"io"

	"salonsuite/pkg/queryparams"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
)

type voidRequest struct {
	Reason string `json:"reason"`
}

type reorderRequest struct {
	DocumentIDs []uint `json:"documentIds"`
}

// EnvelopeHandler zarf sahibinin (veya yöneticinin) yönetim uçları.
type EnvelopeHandler struct {
	service        services.IEnvelopeService
	maxUploadBytes int64
}

func NewEnvelopeHandler(service services.IEnvelopeService, maxUploadBytes int64) *EnvelopeHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = services.DefaultMaxUploadBytes
	}
	return &EnvelopeHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *EnvelopeHandler) List(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	result, err := h.service.ListEnvelopes(c.UserContext(), actorFrom(c), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *EnvelopeHandler) Create(c *fiber.Ctx) error {
	var input services.EnvelopeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	env, err := h.service.CreateEnvelope(c.UserContext(), actorFrom(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}

func (h *EnvelopeHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	env, err := h.service.GetEnvelope(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(env)
}

func (h *EnvelopeHandler) Update(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var input services.EnvelopeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	env, err := h.service.UpdateEnvelope(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(env)
}

func (h *EnvelopeHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.service.DeleteEnvelope(c.UserContext(), actorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddDocument multipart "file" alanındaki PDF'i ekler.
func (h *EnvelopeHandler) AddDocument(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "a PDF file is required in the \"file\" field")
	}
	if header.Size > h.maxUploadBytes {
		return respondError(c, services.ErrDocumentTooLarge)
	}
	file, err := header.Open()
	if err != nil {
		return badRequest(c, "uploaded file could not be read")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return badRequest(c, "uploaded file could not be read")
	}
	doc, err := h.service.AddDocument(c.UserContext(), actorFrom(c), id, header.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *EnvelopeHandler) RemoveDocument(c *fiber.Ctx) error {
	id, ok1 := paramUint(c, "id")
	docID, ok2 := paramUint(c, "documentId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	if err := h.service.RemoveDocument(c.UserContext(), actorFrom(c), id, docID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EnvelopeHandler) ReorderDocuments(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	docs, err := h.service.ReorderDocuments(c.UserContext(), actorFrom(c), id, req.DocumentIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": docs})
}

func (h *EnvelopeHandler) DownloadDocument(c *fiber.Ctx) error {
	id, ok1 := paramUint(c, "id")
	docID, ok2 := paramUint(c, "documentId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	content, err := h.service.DownloadDocument(c.UserContext(), actorFrom(c), id, docID)
	if err != nil {
		return respondError(c, err)
	}
	return sendDocument(c, content, c.QueryBool("inline", false))
}

func (h *EnvelopeHandler) AddRecipient(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var input services.RecipientInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	rec, err := h.service.AddRecipient(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *EnvelopeHandler) UpdateRecipient(c *fiber.Ctx) error {
	id, ok1 := paramUint(c, "id")
	recID, ok2 := paramUint(c, "recipientId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	var input services.RecipientInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	rec, err := h.service.UpdateRecipient(c.UserContext(), actorFrom(c), id, recID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *EnvelopeHandler) RemoveRecipient(c *fiber.Ctx) error {
	id, ok1 := paramUint(c, "id")
	recID, ok2 := paramUint(c, "recipientId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	if err := h.service.RemoveRecipient(c.UserContext(), actorFrom(c), id, recID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EnvelopeHandler) AddField(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var input services.FieldInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	field, err := h.service.AddField(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(field)
}

func (h *EnvelopeHandler) UpdateField(c *fiber.Ctx) error {
	id, ok1 := paramUint(c, "id")
	fieldID, ok2 := paramUint(c, "fieldId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	var input services.FieldInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}
	field, err := h.service.UpdateField(c.UserContext(), actorFrom(c), id, fieldID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(field)
}

func (h *EnvelopeHandler) RemoveField(c *fiber.Ctx) error {
	id, ok1 := paramUint(c, "id")
	fieldID, ok2 := paramUint(c, "fieldId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	if err := h.service.RemoveField(c.UserContext(), actorFrom(c), id, fieldID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EnvelopeHandler) Send(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	result, err := h.service.Send(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *EnvelopeHandler) Void(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req voidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	env, err := h.service.Void(c.UserContext(), actorFrom(c), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(env)
}

func (h *EnvelopeHandler) AuditTrail(c *fiber.Ctx) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	entries, err := h.service.AuditTrail(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": entries})
}

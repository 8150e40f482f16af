package handlers

import (
	"errors"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/middlewares"
	"salonsuite/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrEnvelopeInvalidInput),
		errors.Is(err, services.ErrSigningInvalidInput),
		errors.Is(err, services.ErrInvalidDocument),
		errors.Is(err, services.ErrEnvelopeNotReady):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrEnvelopeForbidden),
		errors.Is(err, services.ErrCannotSign):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrEnvelopeNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrFieldNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrSigningNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrEnvelopeNotEditable),
		errors.Is(err, services.ErrEnvelopeInvalidTransition),
		errors.Is(err, services.ErrDuplicateRecipient),
		errors.Is(err, services.ErrNotYourTurn),
		errors.Is(err, services.ErrAlreadySigned):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrDocumentTooLarge):
		return fiber.StatusRequestEntityTooLarge
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		configslog.Log.Error("E-imza isteği başarısız", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": services.ErrEnvelopeFailed.Error()})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func paramUint(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *fiber.Ctx) services.Actor {
	actor := services.Actor{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
	if user, ok := middlewares.CurrentUser(c); ok {
		actor.UserID = user.ID
		actor.IsAdmin = user.IsAdmin
	}
	return actor
}

func metaFrom(c *fiber.Ctx) services.RequestMeta {
	return services.RequestMeta{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}

func sendDocument(c *fiber.Ctx, content *services.DocumentContent, inline bool) error {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Set(fiber.HeaderContentType, content.Document.ContentType)
	name := strings.ReplaceAll(content.Document.Name, `"`, "'")
	c.Set(fiber.HeaderContentDisposition, disposition+`; filename="`+name+`"`)
	return c.Send(content.Data)
}

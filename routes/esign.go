package routes

import (
	esign_handlers "salonsuite/handlers/esign"
	"salonsuite/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerESignRoutes(app *fiber.App, svc *Services, authRequired fiber.Handler) {
	envelopes := esign_handlers.NewEnvelopeHandler(svc.Envelopes, svc.MaxUploadBytes)
	templates := esign_handlers.NewTemplateHandler(svc.Templates)
	signing := esign_handlers.NewSigningHandler(svc.Signing)

	api := app.Group("/api/esign", authRequired, middlewares.StatusMiddleware)

	api.Get("/envelopes", envelopes.List)
	api.Post("/envelopes", envelopes.Create)
	api.Get("/envelopes/:id", envelopes.Get)
	api.Put("/envelopes/:id", envelopes.Update)
	api.Delete("/envelopes/:id", envelopes.Delete)

	api.Post("/envelopes/:id/documents", envelopes.AddDocument)
	api.Put("/envelopes/:id/documents/order", envelopes.ReorderDocuments)
	api.Get("/envelopes/:id/documents/:documentId", envelopes.DownloadDocument)
	api.Delete("/envelopes/:id/documents/:documentId", envelopes.RemoveDocument)

	api.Post("/envelopes/:id/recipients", envelopes.AddRecipient)
	api.Put("/envelopes/:id/recipients/:recipientId", envelopes.UpdateRecipient)
	api.Delete("/envelopes/:id/recipients/:recipientId", envelopes.RemoveRecipient)

	api.Post("/envelopes/:id/fields", envelopes.AddField)
	api.Put("/envelopes/:id/fields/:fieldId", envelopes.UpdateField)
	api.Delete("/envelopes/:id/fields/:fieldId", envelopes.RemoveField)

	api.Post("/envelopes/:id/send", envelopes.Send)
	api.Post("/envelopes/:id/void", envelopes.Void)
	api.Get("/envelopes/:id/audit", envelopes.AuditTrail)
	api.Post("/envelopes/:id/apply-template", templates.ApplyFields)
	api.Post("/envelopes/:id/save-as-template", templates.SaveEnvelope)

	api.Get("/templates", templates.List)
	api.Post("/templates", templates.Create)
	api.Get("/templates/:id", templates.Get)
	api.Put("/templates/:id", templates.Update)
	api.Delete("/templates/:id", templates.Delete)
	api.Post("/templates/:id/envelopes", templates.CreateEnvelope)

	// Genel imza sayfası; oturum yerine alıcı token'ı.
	sign := app.Group("/sign")
	sign.Get("/:token", signing.Open)
	sign.Post("/:token", signing.Submit)
	sign.Post("/:token/decline", signing.Decline)
	sign.Get("/:token/documents/:documentId", signing.Document)
}

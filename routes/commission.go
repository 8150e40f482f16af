package routes

import (
	commission_handlers "salonsuite/handlers/commission"
	"salonsuite/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerCommissionRoutes(app *fiber.App, svc *Services, authRequired fiber.Handler) {
	h := commission_handlers.NewCommissionHandler(svc.Commission)

	app.Get("/commissions", authRequired, middlewares.StatusMiddleware, h.Page)

	api := app.Group("/api/commissions", authRequired, middlewares.StatusMiddleware)
	api.Post("/", h.Calculate)
	api.Delete("/cache", middlewares.RequireAdmin(), h.ClearCache)
}

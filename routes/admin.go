package routes

import (
	admin_handlers "salonsuite/handlers/admin"
	"salonsuite/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAdminRoutes(app *fiber.App, svc *Services, authRequired fiber.Handler) {
	users := admin_handlers.NewUserHandler(svc.Users)

	adminGroup := app.Group("/api/admin",
		authRequired,
		middlewares.StatusMiddleware,
		middlewares.RequireAdmin(),
	)
	adminGroup.Get("/users", users.List)
	adminGroup.Post("/users", users.Create)
	adminGroup.Get("/users/:id", users.Get)
	adminGroup.Put("/users/:id", users.Update)
	adminGroup.Delete("/users/:id", users.Deactivate)
}

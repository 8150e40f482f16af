package routes

import (
	auth_handlers "salonsuite/handlers/auth"
	"salonsuite/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, svc *Services, authRequired fiber.Handler) {
	authHandler := auth_handlers.NewAuthHandler(svc.Auth)
	authGroup := app.Group("/auth")

	authGroup.Get("/login", middlewares.GuestMiddleware, authHandler.ShowLogin)
	authGroup.Post("/login", authHandler.Login)

	authGroup.Get("/logout", authHandler.Logout)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authRequired, middlewares.StatusMiddleware, authHandler.Me)
}

package routes

import (
	"time"

	"salonsuite/configs/configslog"
	timeclock_handlers "salonsuite/handlers/timeclock"
	"salonsuite/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// kioskLimiter oturumsuz kiosk uçlarında IP başına PIN denemesini sınırlar.
func kioskLimiter(max int) fiber.Handler {
	if max <= 0 {
		max = DefaultKioskRateLimit
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			configslog.Log.Warn("Kiosk istek sınırı aşıldı", zap.String("ip", c.IP()))
			if middlewares.WantsJSON(c) {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again in a minute"})
			}
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many attempts, try again in a minute.")
		},
	})
}

// registerTimeClockRoutes kiosk uçları oturumsuzdur; kimlik PIN ile sağlanır.
func registerTimeClockRoutes(app *fiber.App, svc *Services, authRequired fiber.Handler) {
	kiosk := timeclock_handlers.NewKioskHandler(svc.Kiosk, svc.Jobs)
	limited := kioskLimiter(svc.KioskRateLimit)

	app.Get("/kiosk", kiosk.Page)
	app.Post("/kiosk", limited, kiosk.PunchForm)

	kioskAPI := app.Group("/api/timeclock/kiosk", limited)
	kioskAPI.Post("/identify", kiosk.Identify)
	kioskAPI.Post("/clock-in", kiosk.ClockIn)
	kioskAPI.Post("/clock-out", kiosk.ClockOut)
	kioskAPI.Post("/punch", kiosk.Punch)

	admin := timeclock_handlers.NewAdminHandler(svc.Employees, svc.Jobs, svc.Entries, svc.Settings, svc.Reports)
	adminGroup := app.Group("/api/timeclock/admin",
		authRequired,
		middlewares.StatusMiddleware,
		middlewares.RequireAdmin(),
	)

	adminGroup.Get("/employees", admin.ListEmployees)
	adminGroup.Post("/employees", admin.CreateEmployee)
	adminGroup.Get("/employees/:id", admin.GetEmployee)
	adminGroup.Put("/employees/:id", admin.UpdateEmployee)
	adminGroup.Delete("/employees/:id", admin.DeactivateEmployee)

	adminGroup.Get("/jobs", admin.ListJobs)
	adminGroup.Post("/jobs", admin.CreateJob)
	adminGroup.Put("/jobs/:id", admin.UpdateJob)
	adminGroup.Delete("/jobs/:id", admin.DeactivateJob)

	adminGroup.Get("/entries", admin.ListEntries)
	adminGroup.Post("/entries", admin.CreateEntry)
	adminGroup.Put("/entries/:id", admin.UpdateEntry)
	adminGroup.Delete("/entries/:id", admin.DeleteEntry)

	adminGroup.Get("/settings", admin.GetSettings)
	adminGroup.Put("/settings/overtime", admin.UpdateOvertime)
	adminGroup.Put("/settings/location", admin.UpdateLocation)

	adminGroup.Get("/reports/hours", admin.HoursReport)
	adminGroup.Get("/reports/hours/export", admin.ExportHoursReport)
}

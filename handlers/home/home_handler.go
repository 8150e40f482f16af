package handlers

import (
	"salonsuite/middlewares"
	"salonsuite/pkg/renderer"
	"salonsuite/utils"

	"github.com/gofiber/fiber/v2"
)

type app struct {
	Name        string
	Description string
	URL         string
	AdminOnly   bool
}

var apps = []app{
	{Name: "Commission Calculator", Description: "New-client commissions by branch and stylist.", URL: "/commissions"},
	{Name: "Time Clock Kiosk", Description: "Clock in and out with your PIN.", URL: "/kiosk"},
	{Name: "Time Clock Reports", Description: "Employee hours and overtime.", URL: "/api/timeclock/admin/employees", AdminOnly: true},
	{Name: "Signed to Sealed", Description: "Send PDFs out for signature.", URL: "/api/esign/envelopes"},
	{Name: "Users", Description: "Manage who can sign in.", URL: "/api/admin/users", AdminOnly: true},
}

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Root oturum varsa /home'a, yoksa girişe yönlendirir.
func (h *HomeHandler) Root(c *fiber.Ctx) error {
	if sess, err := utils.SessionFromContext(c); err == nil {
		if _, err := utils.SessionUserID(sess); err == nil {
			return c.Redirect("/home", fiber.StatusFound)
		}
	}
	return c.Redirect("/auth/login", fiber.StatusFound)
}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	user, _ := middlewares.CurrentUser(c)
	visible := make([]app, 0, len(apps))
	for _, a := range apps {
		if a.AdminOnly && (user == nil || !user.IsAdmin) {
			continue
		}
		visible = append(visible, a)
	}
	return renderer.Render(c, "home/index", "layouts/base", fiber.Map{
		"Title": "Salon Suite",
		"Apps":  visible,
	})
}

func (h *HomeHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// NotFound Accept başlığına göre JSON veya HTML 404 döner.
func (h *HomeHandler) NotFound(c *fiber.Ctx) error {
	if middlewares.WantsJSON(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource not found"})
	}
	return renderer.Render(c, "errors/404", "layouts/base", fiber.Map{"Title": "Page not found"}, fiber.StatusNotFound)
}

package handlers

import (
	"errors"

	"salonsuite/configs/configslog"
	"salonsuite/middlewares"
	"salonsuite/pkg/flashmessages"
	"salonsuite/pkg/renderer"
	"salonsuite/services"
	"salonsuite/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthHandler giriş, çıkış ve oturum bilgisi uçları.
type AuthHandler struct {
	service services.IAuthService
}

func NewAuthHandler(service services.IAuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return renderer.Render(c, "auth/login", "layouts/base", fiber.Map{
		"Title":    "Sign in",
		"FormData": flashmessages.GetFlashFormData(c),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	asJSON := middlewares.WantsJSON(c) || c.Is("json")
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		if asJSON {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Invalid form data.")
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	user, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		status := fiber.StatusUnauthorized
		if !errors.Is(err, services.ErrInvalidCredentials) && !errors.Is(err, services.ErrUserInactive) {
			status = fiber.StatusInternalServerError
		}
		if asJSON {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		_ = flashmessages.SetFlashFormData(c, fiber.Map{"email": req.Email})
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	sess, err := utils.SessionFromContext(c)
	if err == nil {
		err = utils.LoginSession(sess, user.ID, user.IsAdmin)
	}
	if err != nil {
		configslog.Log.Error("Oturum başlatılamadı", zap.Uint("user_id", user.ID), zap.Error(err))
		if asJSON {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not start a session"})
		}
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	configslog.Log.Info("Kullanıcı giriş yaptı", zap.Uint("user_id", user.ID))
	if asJSON {
		return c.JSON(fiber.Map{"user": user})
	}
	return c.Redirect("/home", fiber.StatusSeeOther)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sess, err := utils.SessionFromContext(c); err == nil {
		if err := utils.LogoutSession(sess); err != nil {
			configslog.Log.Warn("Oturum kapatılamadı", zap.Error(err))
		}
	}
	if middlewares.WantsJSON(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/auth/login", fiber.StatusSeeOther)
}

// Me oturumdaki kullanıcıyı JSON olarak döndürür.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}
	return c.JSON(fiber.Map{"user": user})
}

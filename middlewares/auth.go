package middlewares

import (
	"errors"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/services"
	"salonsuite/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const loginPath = "/auth/login"

// WantsJSON API isteklerini ve JSON bekleyen istemcileri tanır.
func WantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

func deny(c *fiber.Ctx, status int, message string) error {
	if WantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
	if status == fiber.StatusUnauthorized {
		return c.Redirect(loginPath, fiber.StatusSeeOther)
	}
	return c.Status(status).SendString(message)
}

// CurrentUser AuthMiddleware'in yüklediği kullanıcıyı döndürür.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(utils.LocalsUserKey).(*models.User)
	return user, ok && user != nil
}

// NewAuthMiddleware oturumdaki kullanıcıyı yükler; oturum yoksa 401 veya login'e yönlendirme.
func NewAuthMiddleware(auth services.IAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := utils.SessionFromContext(c)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "authentication required")
		}
		userID, err := utils.SessionUserID(sess)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "authentication required")
		}
		user, err := auth.CurrentUser(c.UserContext(), userID)
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			_ = utils.LogoutSession(sess)
			return deny(c, fiber.StatusUnauthorized, "authentication required")
		case err != nil && !errors.Is(err, services.ErrUserInactive):
			configslog.Log.Error("Oturum kullanıcısı yüklenemedi", zap.Uint("user_id", userID), zap.Error(err))
			return deny(c, fiber.StatusInternalServerError, "could not load the current user")
		}
		c.Locals(utils.LocalsUserKey, user)
		c.SetUserContext(models.ContextWithUserID(c.UserContext(), user.ID))
		return c.Next()
	}
}

// StatusMiddleware pasifleştirilmiş hesapların oturumunu kapatır.
func StatusMiddleware(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return deny(c, fiber.StatusUnauthorized, "authentication required")
	}
	if user.Status {
		return c.Next()
	}
	configslog.Log.Info("Pasif hesapla erişim engellendi", zap.Uint("user_id", user.ID))
	if sess, err := utils.SessionFromContext(c); err == nil {
		_ = utils.LogoutSession(sess)
	}
	return deny(c, fiber.StatusUnauthorized, services.ErrUserInactive.Error())
}

// RequireAdmin yönetici olmayan kullanıcılara 403 döner.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "authentication required")
		}
		if !user.IsAdmin {
			return deny(c, fiber.StatusForbidden, "administrator access required")
		}
		return c.Next()
	}
}

// GuestMiddleware giriş yapmış kullanıcıyı ana sayfaya gönderir.
func GuestMiddleware(c *fiber.Ctx) error {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		return c.Next()
	}
	if _, err := utils.SessionUserID(sess); err == nil {
		return c.Redirect("/home", fiber.StatusSeeOther)
	}
	return c.Next()
}

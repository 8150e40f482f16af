// Package renderer sayfaları ortak şablon verisiyle (flash mesajları, kullanıcı) çizer.
package renderer

import (
	"salonsuite/configs/configslog"
	"salonsuite/pkg/flashmessages"
	"salonsuite/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	FlashSuccessKeyView = "Success"
	FlashErrorKeyView   = "Error"
)

// SetFlashMessages flash mesajlarını şablon verisine ekler; mevcut değerleri ezmez.
func SetFlashMessages(data fiber.Map, flash flashmessages.FlashMessages) {
	if flash.Success != "" {
		if _, exists := data[FlashSuccessKeyView]; !exists {
			data[FlashSuccessKeyView] = flash.Success
		}
	}
	if flash.Error != "" {
		if _, exists := data[FlashErrorKeyView]; !exists {
			data[FlashErrorKeyView] = flash.Error
		}
	}
}

// Render şablonu layout ile çizer. status verilmezse 200 kullanılır.
func Render(c *fiber.Ctx, view, layout string, data fiber.Map, status ...int) error {
	if data == nil {
		data = fiber.Map{}
	}
	SetFlashMessages(data, flashmessages.GetFlashMessages(c))
	if user := c.Locals(utils.LocalsUserKey); user != nil {
		data["CurrentUser"] = user
	}
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	c.Status(code)
	if err := c.Render(view, data, layout); err != nil {
		configslog.Log.Error("Şablon çizilemedi", zap.String("view", view), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Sayfa oluşturulamadı")
	}
	return nil
}

// Package flashmessages yönlendirmeler arasında bir kez gösterilecek mesajları oturumda taşır.
package flashmessages

import (
	"encoding/json"

	"salonsuite/configs/configslog"
	"salonsuite/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	FlashSuccessKey  = "flash_success"
	FlashErrorKey    = "flash_error"
	flashFormDataKey = "flash_form_data"
)

type FlashMessages struct {
	Success string
	Error   string
}

func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		return err
	}
	sess.Set(key, message)
	return sess.Save()
}

// GetFlashMessages mesajları okur ve oturumdan siler.
func GetFlashMessages(c *fiber.Ctx) FlashMessages {
	var out FlashMessages
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		return out
	}
	success, _ := sess.Get(FlashSuccessKey).(string)
	failure, _ := sess.Get(FlashErrorKey).(string)
	if success == "" && failure == "" {
		return out
	}
	out.Success, out.Error = success, failure
	sess.Delete(FlashSuccessKey)
	sess.Delete(FlashErrorKey)
	if err := sess.Save(); err != nil {
		configslog.Log.Warn("Flash mesajları temizlenemedi", zap.Error(err))
	}
	return out
}

// SetFlashFormData hatalı form verisini bir sonraki sayfada doldurmak için saklar.
func SetFlashFormData(c *fiber.Ctx, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		return err
	}
	sess.Set(flashFormDataKey, string(raw))
	return sess.Save()
}

func GetFlashFormData(c *fiber.Ctx) map[string]interface{} {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		return nil
	}
	raw, _ := sess.Get(flashFormDataKey).(string)
	if raw == "" {
		return nil
	}
	sess.Delete(flashFormDataKey)
	_ = sess.Save()
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}
	return data
}

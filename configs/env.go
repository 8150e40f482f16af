package configs

import (
	"os"
	"strconv"
	"strings"

	"salonsuite/configs/configslog"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv .env dosyasını yükler. Dosya yoksa ortam değişkenleriyle devam edilir.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			configslog.Log.Warn(".env dosyası okunamadı", zap.Error(err))
			return
		}
		configslog.SLog.Info(".env dosyası bulunamadı, ortam değişkenleri kullanılacak.")
	}
}

// GetEnv ortam değişkenini döndürür, boşsa fallback kullanılır.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		configslog.Log.Warn("Geçersiz sayısal ortam değişkeni, varsayılan kullanılıyor", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return v
}

func GetEnvBool(key string, fallback bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

// IsProduction APP_ENV=production ise true döner.
func IsProduction() bool {
	return GetEnv("APP_ENV", "development") == "production"
}

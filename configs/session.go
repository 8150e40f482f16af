package configs

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionCookieName tarayıcıda tutulan oturum çerezinin adı.
const SessionCookieName = "salonsuite_session"

// SetupSession cookie tabanlı oturum deposunu oluşturur.
func SetupSession() *session.Store {
	return session.New(session.Config{
		Expiration:     time.Duration(GetEnvInt("SESSION_EXPIRATION_HOURS", 12)) * time.Hour,
		KeyLookup:      "cookie:" + SessionCookieName,
		CookieHTTPOnly: true,
		CookieSecure:   IsProduction(),
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

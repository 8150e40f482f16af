package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	SessionUserIDKey      = "user_id"
	SessionIsAdminKey     = "is_admin"
	LocalsUserKey         = "user"
	LocalsSessionStoreKey = "session_store"
)

var ErrNoSession = errors.New("oturum bulunamadı")

// SessionFromContext router'ın Locals'a koyduğu depodan oturumu açar.
func SessionFromContext(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals(LocalsSessionStoreKey).(*session.Store)
	if !ok || store == nil {
		return nil, ErrNoSession
	}
	return store.Get(c)
}

// SessionStart isteğe ait oturumu döndürür.
func SessionStart(c *fiber.Ctx, store *session.Store) (*session.Session, error) {
	return store.Get(c)
}

// SessionUserID oturumdaki kullanıcı ID'si; yoksa ErrNoSession.
func SessionUserID(sess *session.Session) (uint, error) {
	switch v := sess.Get(SessionUserIDKey).(type) {
	case uint:
		if v != 0 {
			return v, nil
		}
	case int:
		if v > 0 {
			return uint(v), nil
		}
	case float64:
		if v > 0 {
			return uint(v), nil
		}
	}
	return 0, ErrNoSession
}

// LoginSession oturum sabitleme saldırısına karşı ID'yi yeniler ve kullanıcıyı yazar.
func LoginSession(sess *session.Session, userID uint, isAdmin bool) error {
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(SessionUserIDKey, userID)
	sess.Set(SessionIsAdminKey, isAdmin)
	return sess.Save()
}

func LogoutSession(sess *session.Session) error {
	return sess.Destroy()
}

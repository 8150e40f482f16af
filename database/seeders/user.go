package seeders

import (
	"errors"
	"strings"

	"salonsuite/configs"
	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

func AdminFromEnv() AdminSeed {
	return AdminSeed{
		Name:     configs.GetEnv("ADMIN_NAME", "Administrator"),
		Email:    configs.GetEnv("ADMIN_EMAIL", "admin@example.com"),
		Password: configs.GetEnv("ADMIN_PASSWORD", ""),
	}
}

// SeedAdminUser yönetici hesabını oluşturur; varsa yalnızca yetki ve durumunu düzeltir.
// Mevcut şifreye dokunulmaz.
func SeedAdminUser(db *gorm.DB, seed AdminSeed) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" {
		return errors.New("ADMIN_EMAIL boş olamaz")
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.IsAdmin && existing.Status {
			configslog.SLog.Debugf("Yönetici '%s' zaten mevcut.", email)
			return nil
		}
		configslog.SLog.Infof("Yönetici '%s' yetkileri güncelleniyor...", email)
		return db.Model(&existing).Updates(map[string]interface{}{"is_admin": true, "status": true}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Yönetici kontrol edilirken veritabanı hatası", zap.String("email", email), zap.Error(err))
		return err
	}

	if len(seed.Password) < 8 {
		return errors.New("ADMIN_PASSWORD en az 8 karakter olmalı")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     seed.Name,
		Email:    email,
		Password: string(hash),
		IsAdmin:  true,
		Status:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("Yönetici oluşturulamadı", zap.String("email", email), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Yönetici '%s' oluşturuldu (ID: %d).", email, admin.ID)
	return nil
}

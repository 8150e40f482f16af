package models

// User uygulama kabuğuna giriş yapan personel ve yöneticiler.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(150);not null" json:"name"`
	Email    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin  bool   `gorm:"default:false;index" json:"isAdmin"`
	Status   bool   `gorm:"default:true;index" json:"status"` // Hesap aktif mi?
}

package models

import "time"

// CommissionCache hesaplanmış komisyon sonucunu tarih aralığı anahtarıyla saklar.
type CommissionCache struct {
	BaseModel
	RangeKey  string    `gorm:"type:varchar(32);uniqueIndex;not null"` // "2024-01-01_2024-01-31"
	StartDate string    `gorm:"type:varchar(10);not null"`
	EndDate   string    `gorm:"type:varchar(10);not null"`
	Payload   string    `gorm:"type:text;not null"` // JSON
	ExpiresAt time.Time `gorm:"index;not null"`
}

// IsFresh verilen anda kaydın hâlâ geçerli olup olmadığını söyler.
func (c CommissionCache) IsFresh(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}

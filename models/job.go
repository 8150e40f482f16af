package models

// Job zaman kaydına eklenebilen opsiyonel iş etiketi.
type Job struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	IsActive bool   `gorm:"default:true;index" json:"isActive"`
}

package models

// EnvelopeDocument zarfa eklenmiş sıralı PDF eki. İçerik nesne deposunda tutulur.
type EnvelopeDocument struct {
	BaseModel
	EnvelopeID  uint   `gorm:"index;not null" json:"envelopeId"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	StorageKey  string `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	ContentType string `gorm:"type:varchar(100);not null;default:'application/pdf'" json:"contentType"`
	SizeBytes   int64  `gorm:"not null" json:"sizeBytes"`
	SHA256      string `gorm:"type:varchar(64);not null" json:"sha256"`
	SortOrder   int    `gorm:"not null;default:0" json:"sortOrder"`
}

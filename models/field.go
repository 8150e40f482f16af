package models

import (
	"strings"
	"time"
)

type FieldType string

const (
	FieldTypeSignature FieldType = "signature"
	FieldTypeInitials  FieldType = "initials"
	FieldTypeDate      FieldType = "date"
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeDropdown  FieldType = "dropdown"
)

// ValidFieldTypes desteklenen alan türleri.
var ValidFieldTypes = map[FieldType]bool{
	FieldTypeSignature: true,
	FieldTypeInitials:  true,
	FieldTypeDate:      true,
	FieldTypeText:      true,
	FieldTypeCheckbox:  true,
	FieldTypeDropdown:  true,
}

// Field bir alıcıya ve bir belge sayfasına bağlı, konumlandırılmış giriş alanı.
// Koordinatlar sayfa boyutunun yüzdesidir.
type Field struct {
	BaseModel
	EnvelopeID  uint       `gorm:"index;not null" json:"envelopeId"`
	DocumentID  uint       `gorm:"index;not null" json:"documentId"`
	RecipientID uint       `gorm:"index;not null" json:"recipientId"`
	Type        FieldType  `gorm:"type:varchar(20);not null" json:"type"`
	Label       string     `gorm:"type:varchar(150)" json:"label,omitempty"`
	Page        int        `gorm:"not null;default:1" json:"page"`
	X           float64    `gorm:"not null" json:"x"`
	Y           float64    `gorm:"not null" json:"y"`
	Width       float64    `gorm:"not null" json:"width"`
	Height      float64    `gorm:"not null" json:"height"`
	Required    bool       `gorm:"not null" json:"required"`
	Options     string     `gorm:"type:text" json:"-"` // dropdown seçenekleri, satır sonu ile ayrılmış
	Value       string     `gorm:"type:text" json:"value,omitempty"`
	FilledAt    *time.Time `json:"filledAt,omitempty"`
}

// OptionList dropdown seçeneklerini döndürür.
func (f Field) OptionList() []string {
	if strings.TrimSpace(f.Options) == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(f.Options, "\n") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// JoinOptions seçenek listesini saklama biçimine çevirir.
func JoinOptions(options []string) string {
	var cleaned []string
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	return strings.Join(cleaned, "\n")
}

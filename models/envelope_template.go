package models

import "encoding/json"

// EnvelopeTemplate tekrar kullanılabilir zarf yapılandırması. Config JSON olarak saklanır.
type EnvelopeTemplate struct {
	BaseModel
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	OwnerUserID uint   `gorm:"index;not null" json:"ownerUserId"`
	Config      string `gorm:"type:text;not null" json:"-"`
}

// TemplateConfig şablondan zarf üretmek için gereken bilgiler.
type TemplateConfig struct {
	Title                string              `json:"title"`
	Message              string              `json:"message,omitempty"`
	SigningOrderEnforced bool                `json:"signingOrderEnforced"`
	Roles                []TemplateRole      `json:"roles"`
	Fields               []TemplateFieldSpec `json:"fields"`
}

type TemplateRole struct {
	Name         string        `json:"name" validate:"required"`
	Role         RecipientRole `json:"role" validate:"required,oneof=signer viewer cc"`
	SigningOrder int           `json:"signingOrder" validate:"gte=1"`
}

type TemplateFieldSpec struct {
	RoleName      string    `json:"roleName" validate:"required"`
	DocumentIndex int       `json:"documentIndex" validate:"gte=0"`
	Type          FieldType `json:"type" validate:"required"`
	Label         string    `json:"label,omitempty"`
	Page          int       `json:"page" validate:"gte=1"`
	X             float64   `json:"x" validate:"gte=0,lte=100"`
	Y             float64   `json:"y" validate:"gte=0,lte=100"`
	Width         float64   `json:"width" validate:"gt=0,lte=100"`
	Height        float64   `json:"height" validate:"gt=0,lte=100"`
	Required      bool      `json:"required"`
	Options       []string  `json:"options,omitempty"`
}

func (t EnvelopeTemplate) ParseConfig() (TemplateConfig, error) {
	var cfg TemplateConfig
	err := json.Unmarshal([]byte(t.Config), &cfg)
	return cfg, err
}

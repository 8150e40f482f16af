package models

import "time"

// EnvelopeStatus zarfın yaşam döngüsü durumu.
type EnvelopeStatus string

const (
	EnvelopeStatusDraft      EnvelopeStatus = "draft"
	EnvelopeStatusSent       EnvelopeStatus = "sent"
	EnvelopeStatusInProgress EnvelopeStatus = "in_progress"
	EnvelopeStatusCompleted  EnvelopeStatus = "completed"
	EnvelopeStatusVoided     EnvelopeStatus = "voided"
)

// Envelope bir veya daha fazla belge ve alıcıyı bir araya getiren imza talebi.
type Envelope struct {
	BaseModel
	UUID                 string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	Title                string         `gorm:"type:varchar(200);not null" json:"title"`
	Message              string         `gorm:"type:text" json:"message,omitempty"`
	Status               EnvelopeStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	SigningOrderEnforced bool           `gorm:"default:false" json:"signingOrderEnforced"`
	OwnerUserID          uint           `gorm:"index;not null" json:"ownerUserId"`
	TemplateID           *uint          `gorm:"index" json:"templateId,omitempty"`
	SentAt               *time.Time     `json:"sentAt,omitempty"`
	CompletedAt          *time.Time     `json:"completedAt,omitempty"`
	VoidedAt             *time.Time     `json:"voidedAt,omitempty"`
	VoidReason           string         `gorm:"type:text" json:"voidReason,omitempty"`

	Documents  []EnvelopeDocument `gorm:"foreignKey:EnvelopeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"documents,omitempty"`
	Recipients []Recipient        `gorm:"foreignKey:EnvelopeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recipients,omitempty"`
	Fields     []Field            `gorm:"foreignKey:EnvelopeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"fields,omitempty"`
}

// IsOpenForSigning alıcıların imza oturumu açabileceği durumlar.
func (e Envelope) IsOpenForSigning() bool {
	return e.Status == EnvelopeStatusSent || e.Status == EnvelopeStatusInProgress
}

package models

import "time"

type RecipientRole string

const (
	RecipientRoleSigner RecipientRole = "signer"
	RecipientRoleViewer RecipientRole = "viewer"
	RecipientRoleCC     RecipientRole = "cc"
)

type RecipientStatus string

const (
	RecipientStatusPending  RecipientStatus = "pending"
	RecipientStatusSent     RecipientStatus = "sent"
	RecipientStatusViewed   RecipientStatus = "viewed"
	RecipientStatusSigned   RecipientStatus = "signed"
	RecipientStatusDeclined RecipientStatus = "declined"
)

// Recipient zarfı görüntüleyen, imzalayan veya kopyasını alan kişi.
// AccessToken zarf gönderildiğinde üretilir ve imza linkinde taşınır.
type Recipient struct {
	BaseModel
	EnvelopeID    uint            `gorm:"index;not null" json:"envelopeId"`
	Name          string          `gorm:"type:varchar(150);not null" json:"name"`
	Email         string          `gorm:"type:varchar(150);not null" json:"email"`
	Role          RecipientRole   `gorm:"type:varchar(10);not null;default:'signer'" json:"role"`
	SigningOrder  int             `gorm:"not null;default:1" json:"signingOrder"`
	TemplateRole  string          `gorm:"type:varchar(150)" json:"templateRole,omitempty"` // şablondan geldiyse rol adı
	Status        RecipientStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	AccessToken   *string         `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	ViewedAt      *time.Time      `json:"viewedAt,omitempty"`
	SignedAt      *time.Time      `json:"signedAt,omitempty"`
	DeclinedAt    *time.Time      `json:"declinedAt,omitempty"`
	DeclineReason string          `gorm:"type:text" json:"declineReason,omitempty"`
}

func (r Recipient) IsSigner() bool {
	return r.Role == RecipientRoleSigner
}

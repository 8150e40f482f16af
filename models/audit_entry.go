package models

import "time"

type AuditAction string

const (
	AuditActionCreated          AuditAction = "created"
	AuditActionUpdated          AuditAction = "updated"
	AuditActionDocumentAdded    AuditAction = "document_added"
	AuditActionDocumentRemoved  AuditAction = "document_removed"
	AuditActionRecipientAdded   AuditAction = "recipient_added"
	AuditActionRecipientRemoved AuditAction = "recipient_removed"
	AuditActionFieldAdded       AuditAction = "field_added"
	AuditActionFieldRemoved     AuditAction = "field_removed"
	AuditActionSent             AuditAction = "sent"
	AuditActionViewed           AuditAction = "viewed"
	AuditActionSigned           AuditAction = "signed"
	AuditActionDeclined         AuditAction = "declined"
	AuditActionCompleted        AuditAction = "completed"
	AuditActionVoided           AuditAction = "voided"
)

// AuditEntry zarf olaylarının yalnızca eklenebilen kaydı. BaseModel kullanılmaz:
// güncelleme ve silme alanları bilinçli olarak yok.
type AuditEntry struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	EnvelopeID  uint        `gorm:"index;not null" json:"envelopeId"`
	RecipientID *uint       `gorm:"index" json:"recipientId,omitempty"`
	Action      AuditAction `gorm:"type:varchar(30);not null;index" json:"action"`
	Actor       string      `gorm:"type:varchar(50);not null" json:"actor"`
	Detail      string      `gorm:"type:text" json:"detail,omitempty"`
	IPAddress   string      `gorm:"type:varchar(64)" json:"ipAddress,omitempty"`
	UserAgent   string      `gorm:"type:varchar(255)" json:"userAgent,omitempty"`
	CreatedAt   time.Time   `gorm:"index;not null" json:"createdAt"`
}

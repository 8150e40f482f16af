package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/storage"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnvelopeServiceError string

func (e EnvelopeServiceError) Error() string { return string(e) }

const (
	ErrEnvelopeNotFound          EnvelopeServiceError = "envelope not found"
	ErrEnvelopeForbidden         EnvelopeServiceError = "you do not have access to this envelope"
	ErrEnvelopeNotEditable       EnvelopeServiceError = "envelope can only be changed while it is a draft"
	ErrEnvelopeInvalidTransition EnvelopeServiceError = "envelope cannot move to the requested state"
	ErrEnvelopeInvalidInput      EnvelopeServiceError = "invalid envelope input"
	ErrEnvelopeNotReady          EnvelopeServiceError = "envelope is not ready to send"
	ErrDocumentNotFound          EnvelopeServiceError = "document not found"
	ErrRecipientNotFound         EnvelopeServiceError = "recipient not found"
	ErrFieldNotFound             EnvelopeServiceError = "field not found"
	ErrDuplicateRecipient        EnvelopeServiceError = "a recipient with this email already exists on the envelope"
	ErrInvalidDocument           EnvelopeServiceError = "only PDF documents can be uploaded"
	ErrDocumentTooLarge          EnvelopeServiceError = "document exceeds the upload size limit"
	ErrTemplateNotFound          EnvelopeServiceError = "template not found"
	ErrEnvelopeFailed            EnvelopeServiceError = "envelope operation failed"

	ErrSigningNotFound     EnvelopeServiceError = "this signing link is invalid or no longer active"
	ErrNotYourTurn         EnvelopeServiceError = "earlier signers must sign first"
	ErrAlreadySigned       EnvelopeServiceError = "you have already signed this envelope"
	ErrCannotSign          EnvelopeServiceError = "only signers can submit this envelope"
	ErrSigningInvalidInput EnvelopeServiceError = "invalid signing input"
)

// Actor yönetim uçlarında işlemi yapan oturum kullanıcısı.
type Actor struct {
	UserID    uint
	IsAdmin   bool
	IP        string
	UserAgent string
}

func (a Actor) label() string {
	return fmt.Sprintf("user:%d", a.UserID)
}

// RequestMeta imza sayfası istekleri için denetim bilgisi.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// DocumentContent indirme için belge ve içerik.
type DocumentContent struct {
	Document *models.EnvelopeDocument
	Data     []byte
}

// esignCore zarf, imza ve şablon servislerinin paylaştığı depolar.
type esignCore struct {
	db         *gorm.DB
	envelopes  repositories.IEnvelopeRepository
	documents  repositories.IDocumentRepository
	recipients repositories.IRecipientRepository
	fields     repositories.IFieldRepository
	audit      repositories.IAuditRepository
	templates  repositories.ITemplateRepository
	storage    storage.ObjectStorage
}

func newESignCore(db *gorm.DB, store storage.ObjectStorage) esignCore {
	return esignCore{
		db:         db,
		envelopes:  repositories.NewEnvelopeRepository(db),
		documents:  repositories.NewDocumentRepository(db),
		recipients: repositories.NewRecipientRepository(db),
		fields:     repositories.NewFieldRepository(db),
		audit:      repositories.NewAuditRepository(db),
		templates:  repositories.NewTemplateRepository(db),
		storage:    store,
	}
}

// inTx fn'i transaction içinde, tx'i taşıyan context ile çalıştırır.
func (c *esignCore) inTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repositories.ContextWithTx(ctx, tx))
	})
}

// loadEnvelope zarfı yükler ve erişimi kontrol eder.
func (c *esignCore) loadEnvelope(ctx context.Context, actor Actor, id uint) (*models.Envelope, error) {
	env, err := c.envelopes.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrEnvelopeNotFound
	}
	if err != nil {
		return nil, ErrEnvelopeFailed
	}
	if !actor.IsAdmin && env.OwnerUserID != actor.UserID {
		return nil, ErrEnvelopeForbidden
	}
	return env, nil
}

func (c *esignCore) editableEnvelope(ctx context.Context, actor Actor, id uint) (*models.Envelope, error) {
	env, err := c.loadEnvelope(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !ValidEnvelopeTransition(EnvelopeActionEdit, env.Status) {
		return nil, ErrEnvelopeNotEditable
	}
	return env, nil
}

type auditEvent struct {
	envelopeID  uint
	recipientID *uint
	action      models.AuditAction
	actor       string
	detail      string
	ip          string
	userAgent   string
}

func (c *esignCore) record(ctx context.Context, ev auditEvent) error {
	entry := &models.AuditEntry{
		EnvelopeID:  ev.envelopeID,
		RecipientID: ev.recipientID,
		Action:      ev.action,
		Actor:       ev.actor,
		Detail:      ev.detail,
		IPAddress:   ev.ip,
		UserAgent:   truncate(ev.userAgent, 255),
		CreatedAt:   timeNow(),
	}
	if err := c.audit.Append(ctx, entry); err != nil {
		configslog.Log.Error("Denetim kaydı yazılamadı", zap.Uint("envelope_id", ev.envelopeID), zap.String("action", string(ev.action)), zap.Error(err))
		return err
	}
	return nil
}

func (c *esignCore) recordByActor(ctx context.Context, actor Actor, envelopeID uint, action models.AuditAction, detail string) error {
	return c.record(ctx, auditEvent{
		envelopeID: envelopeID,
		action:     action,
		actor:      actor.label(),
		detail:     detail,
		ip:         actor.IP,
		userAgent:  actor.UserAgent,
	})
}

func (c *esignCore) readDocument(ctx context.Context, doc *models.EnvelopeDocument) (*DocumentContent, error) {
	data, err := c.storage.Get(ctx, doc.StorageKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		configslog.Log.Error("Belge nesnesi depoda yok", zap.Uint("document_id", doc.ID), zap.String("key", doc.StorageKey))
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, ErrEnvelopeFailed
	}
	return &DocumentContent{Document: doc, Data: data}, nil
}

// esignError servis hatalarını olduğu gibi bırakır, diğerlerini loglayıp genel hataya çevirir.
func esignError(err error, msg string, fields ...zap.Field) error {
	if err == nil {
		return nil
	}
	var svcErr EnvelopeServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	configslog.Log.Error(msg, append(fields, zap.Error(err))...)
	return ErrEnvelopeFailed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func uintPtr(v uint) *uint { return &v }

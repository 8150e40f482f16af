package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/queryparams"
	"salonsuite/pkg/storage"
	"salonsuite/pkg/validation"
	"salonsuite/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pdfContentType        = "application/pdf"
	DefaultMaxUploadBytes = 25 << 20
)

var pdfMagic = []byte("%PDF-")

type EnvelopeInput struct {
	Title                string `json:"title" validate:"required,max=200"`
	Message              string `json:"message" validate:"max=5000"`
	SigningOrderEnforced bool   `json:"signingOrderEnforced"`
}

type RecipientInput struct {
	Name         string               `json:"name" validate:"required,max=150"`
	Email        string               `json:"email" validate:"required,email,max=150"`
	Role         models.RecipientRole `json:"role" validate:"required,oneof=signer viewer cc"`
	SigningOrder int                  `json:"signingOrder" validate:"omitempty,gte=1"`
}

type FieldInput struct {
	DocumentID  uint             `json:"documentId" validate:"required"`
	RecipientID uint             `json:"recipientId" validate:"required"`
	Type        models.FieldType `json:"type" validate:"required"`
	Label       string           `json:"label" validate:"max=150"`
	Page        int              `json:"page" validate:"gte=1"`
	X           float64          `json:"x" validate:"gte=0,lte=100"`
	Y           float64          `json:"y" validate:"gte=0,lte=100"`
	Width       float64          `json:"width" validate:"gt=0,lte=100"`
	Height      float64          `json:"height" validate:"gt=0,lte=100"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options"`
}

// SigningLink gönderimden sonra alıcıya iletilecek imza bağlantısı.
type SigningLink struct {
	RecipientID uint                 `json:"recipientId"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Role        models.RecipientRole `json:"role"`
	URL         string               `json:"url"`
}

type SendResult struct {
	Envelope *models.Envelope `json:"envelope"`
	Links    []SigningLink    `json:"links"`
}

type EnvelopeServiceOptions struct {
	BaseURL        string
	MaxUploadBytes int64
}

type IEnvelopeService interface {
	CreateEnvelope(ctx context.Context, actor Actor, input EnvelopeInput) (*models.Envelope, error)
	UpdateEnvelope(ctx context.Context, actor Actor, id uint, input EnvelopeInput) (*models.Envelope, error)
	GetEnvelope(ctx context.Context, actor Actor, id uint) (*models.Envelope, error)
	ListEnvelopes(ctx context.Context, actor Actor, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	DeleteEnvelope(ctx context.Context, actor Actor, id uint) error

	AddDocument(ctx context.Context, actor Actor, envelopeID uint, name string, data []byte) (*models.EnvelopeDocument, error)
	RemoveDocument(ctx context.Context, actor Actor, envelopeID, documentID uint) error
	ReorderDocuments(ctx context.Context, actor Actor, envelopeID uint, documentIDs []uint) ([]models.EnvelopeDocument, error)
	DownloadDocument(ctx context.Context, actor Actor, envelopeID, documentID uint) (*DocumentContent, error)

	AddRecipient(ctx context.Context, actor Actor, envelopeID uint, input RecipientInput) (*models.Recipient, error)
	UpdateRecipient(ctx context.Context, actor Actor, envelopeID, recipientID uint, input RecipientInput) (*models.Recipient, error)
	RemoveRecipient(ctx context.Context, actor Actor, envelopeID, recipientID uint) error

	AddField(ctx context.Context, actor Actor, envelopeID uint, input FieldInput) (*models.Field, error)
	UpdateField(ctx context.Context, actor Actor, envelopeID, fieldID uint, input FieldInput) (*models.Field, error)
	RemoveField(ctx context.Context, actor Actor, envelopeID, fieldID uint) error

	Send(ctx context.Context, actor Actor, envelopeID uint) (*SendResult, error)
	Void(ctx context.Context, actor Actor, envelopeID uint, reason string) (*models.Envelope, error)
	AuditTrail(ctx context.Context, actor Actor, envelopeID uint) ([]models.AuditEntry, error)
}

type EnvelopeService struct {
	esignCore
	opts EnvelopeServiceOptions
}

func NewEnvelopeService(db *gorm.DB, store storage.ObjectStorage, opts EnvelopeServiceOptions) IEnvelopeService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &EnvelopeService{esignCore: newESignCore(db, store), opts: opts}
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", ErrEnvelopeInvalidInput, err)
}

func (s *EnvelopeService) CreateEnvelope(ctx context.Context, actor Actor, input EnvelopeInput) (*models.Envelope, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	env := &models.Envelope{
		UUID:                 uuid.NewString(),
		Title:                input.Title,
		Message:              strings.TrimSpace(input.Message),
		Status:               models.EnvelopeStatusDraft,
		SigningOrderEnforced: input.SigningOrderEnforced,
		OwnerUserID:          actor.UserID,
	}
	ctx = models.ContextWithUserID(ctx, actor.UserID)
	err := s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.envelopes.Create(txCtx, env); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionCreated, env.Title)
	})
	if err != nil {
		return nil, esignError(err, "Zarf oluşturulamadı", zap.Uint("user_id", actor.UserID))
	}
	configslog.Log.Info("Zarf oluşturuldu", zap.Uint("envelope_id", env.ID), zap.String("uuid", env.UUID))
	return env, nil
}

func (s *EnvelopeService) UpdateEnvelope(ctx context.Context, actor Actor, id uint, input EnvelopeInput) (*models.Envelope, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	env, err := s.editableEnvelope(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	env.Title = input.Title
	env.Message = strings.TrimSpace(input.Message)
	env.SigningOrderEnforced = input.SigningOrderEnforced

	ctx = models.ContextWithUserID(ctx, actor.UserID)
	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.envelopes.Update(txCtx, env); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionUpdated, "details")
	})
	if err != nil {
		return nil, esignError(err, "Zarf güncellenemedi", zap.Uint("envelope_id", id))
	}
	return env, nil
}

func (s *EnvelopeService) GetEnvelope(ctx context.Context, actor Actor, id uint) (*models.Envelope, error) {
	return s.loadEnvelope(ctx, actor, id)
}

// ListEnvelopes yöneticiler tüm zarfları, diğer kullanıcılar yalnızca kendi zarflarını görür.
func (s *EnvelopeService) ListEnvelopes(ctx context.Context, actor Actor, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	var owner *uint
	if !actor.IsAdmin {
		owner = uintPtr(actor.UserID)
	}
	envelopes, total, err := s.envelopes.FindAllPaginated(ctx, owner, params)
	if err != nil {
		return nil, ErrEnvelopeFailed
	}
	return queryparams.NewPaginatedResult(envelopes, total, params), nil
}

func (s *EnvelopeService) DeleteEnvelope(ctx context.Context, actor Actor, id uint) error {
	env, err := s.editableEnvelope(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.envelopes.Delete(models.ContextWithUserID(ctx, actor.UserID), env); err != nil {
		return esignError(err, "Zarf silinemedi", zap.Uint("envelope_id", id))
	}
	configslog.Log.Info("Taslak zarf silindi", zap.Uint("envelope_id", id), zap.Uint("user_id", actor.UserID))
	return nil
}

func documentName(name string) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		name = "document.pdf"
	}
	return truncate(name, 255)
}

func (s *EnvelopeService) AddDocument(ctx context.Context, actor Actor, envelopeID uint, name string, data []byte) (*models.EnvelopeDocument, error) {
	if int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, ErrDocumentTooLarge
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrInvalidDocument
	}
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	doc := &models.EnvelopeDocument{
		EnvelopeID:  env.ID,
		Name:        documentName(name),
		StorageKey:  fmt.Sprintf("envelopes/%s/%s.pdf", env.UUID, uuid.NewString()),
		ContentType: pdfContentType,
		SizeBytes:   int64(len(data)),
		SHA256:      hex.EncodeToString(sum[:]),
	}
	if err := s.storage.Put(ctx, doc.StorageKey, data, pdfContentType); err != nil {
		configslog.Log.Error("Belge depoya yazılamadı", zap.Uint("envelope_id", env.ID), zap.Error(err))
		return nil, ErrEnvelopeFailed
	}

	ctx = models.ContextWithUserID(ctx, actor.UserID)
	err = s.inTx(ctx, func(txCtx context.Context) error {
		order, err := s.documents.NextSortOrder(txCtx, env.ID)
		if err != nil {
			return err
		}
		doc.SortOrder = order
		if err := s.documents.Create(txCtx, doc); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionDocumentAdded, doc.Name)
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, doc.StorageKey); delErr != nil {
			configslog.Log.Warn("Yetim belge nesnesi silinemedi", zap.String("key", doc.StorageKey), zap.Error(delErr))
		}
		return nil, esignError(err, "Belge kaydı oluşturulamadı", zap.Uint("envelope_id", env.ID))
	}
	return doc, nil
}

func findDocument(env *models.Envelope, id uint) *models.EnvelopeDocument {
	for i := range env.Documents {
		if env.Documents[i].ID == id {
			return &env.Documents[i]
		}
	}
	return nil
}

func findRecipient(env *models.Envelope, id uint) *models.Recipient {
	for i := range env.Recipients {
		if env.Recipients[i].ID == id {
			return &env.Recipients[i]
		}
	}
	return nil
}

func findField(env *models.Envelope, id uint) *models.Field {
	for i := range env.Fields {
		if env.Fields[i].ID == id {
			return &env.Fields[i]
		}
	}
	return nil
}

func (s *EnvelopeService) RemoveDocument(ctx context.Context, actor Actor, envelopeID, documentID uint) error {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return err
	}
	doc := findDocument(env, documentID)
	if doc == nil {
		return ErrDocumentNotFound
	}

	ctx = models.ContextWithUserID(ctx, actor.UserID)
	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.fields.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		if err := s.documents.Delete(txCtx, doc); err != nil {
			return err
		}
		order := 0
		for _, other := range env.Documents {
			if other.ID == doc.ID {
				continue
			}
			if err := s.documents.UpdateSortOrder(txCtx, other.ID, order); err != nil {
				return err
			}
			order++
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionDocumentRemoved, doc.Name)
	})
	if err != nil {
		return esignError(err, "Belge kaldırılamadı", zap.Uint("document_id", documentID))
	}
	if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
		configslog.Log.Warn("Kaldırılan belgenin nesnesi silinemedi", zap.String("key", doc.StorageKey), zap.Error(err))
	}
	return nil
}

// ReorderDocuments ids zarfın tüm belgelerini tam olarak bir kez içermelidir.
func (s *EnvelopeService) ReorderDocuments(ctx context.Context, actor Actor, envelopeID uint, documentIDs []uint) ([]models.EnvelopeDocument, error) {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	if len(documentIDs) != len(env.Documents) {
		return nil, fmt.Errorf("%w: every document must be listed exactly once", ErrEnvelopeInvalidInput)
	}
	seen := make(map[uint]bool, len(documentIDs))
	for _, id := range documentIDs {
		if seen[id] || findDocument(env, id) == nil {
			return nil, fmt.Errorf("%w: every document must be listed exactly once", ErrEnvelopeInvalidInput)
		}
		seen[id] = true
	}

	var docs []models.EnvelopeDocument
	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		for i, id := range documentIDs {
			if err := s.documents.UpdateSortOrder(txCtx, id, i); err != nil {
				return err
			}
		}
		if err := s.recordByActor(txCtx, actor, env.ID, models.AuditActionUpdated, "document order"); err != nil {
			return err
		}
		var err error
		docs, err = s.documents.FindByEnvelope(txCtx, env.ID)
		return err
	})
	if err != nil {
		return nil, esignError(err, "Belge sırası güncellenemedi", zap.Uint("envelope_id", envelopeID))
	}
	return docs, nil
}

func (s *EnvelopeService) DownloadDocument(ctx context.Context, actor Actor, envelopeID, documentID uint) (*DocumentContent, error) {
	env, err := s.loadEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	doc := findDocument(env, documentID)
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return s.readDocument(ctx, doc)
}

func (s *EnvelopeService) validateRecipient(ctx context.Context, envelopeID, excludeID uint, input *RecipientInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.SigningOrder == 0 {
		input.SigningOrder = 1
	}
	if err := validation.Struct(*input); err != nil {
		return invalidInput(err)
	}
	exists, err := s.recipients.EmailExists(ctx, envelopeID, input.Email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateRecipient
	}
	return nil
}

func (s *EnvelopeService) AddRecipient(ctx context.Context, actor Actor, envelopeID uint, input RecipientInput) (*models.Recipient, error) {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	if err := s.validateRecipient(ctx, env.ID, 0, &input); err != nil {
		return nil, esignError(err, "Alıcı doğrulanamadı", zap.Uint("envelope_id", env.ID))
	}
	rec := &models.Recipient{
		EnvelopeID:   env.ID,
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		SigningOrder: input.SigningOrder,
		Status:       models.RecipientStatusPending,
	}
	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		if err := s.recipients.Create(txCtx, rec); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionRecipientAdded, fmt.Sprintf("%s <%s> as %s", rec.Name, rec.Email, rec.Role))
	})
	if err != nil {
		return nil, esignError(err, "Alıcı eklenemedi", zap.Uint("envelope_id", env.ID))
	}
	return rec, nil
}

func (s *EnvelopeService) UpdateRecipient(ctx context.Context, actor Actor, envelopeID, recipientID uint, input RecipientInput) (*models.Recipient, error) {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	rec := findRecipient(env, recipientID)
	if rec == nil {
		return nil, ErrRecipientNotFound
	}
	if err := s.validateRecipient(ctx, env.ID, rec.ID, &input); err != nil {
		return nil, esignError(err, "Alıcı doğrulanamadı", zap.Uint("envelope_id", env.ID))
	}

	roleChangedFromSigner := rec.IsSigner() && input.Role != models.RecipientRoleSigner
	rec.Name = input.Name
	rec.Email = input.Email
	rec.Role = input.Role
	rec.SigningOrder = input.SigningOrder

	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		// imzacı olmayan alıcının alanı olamaz
		if roleChangedFromSigner {
			if err := s.fields.DeleteByRecipient(txCtx, rec.ID); err != nil {
				return err
			}
		}
		if err := s.recipients.Update(txCtx, rec); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionUpdated, fmt.Sprintf("recipient %d", rec.ID))
	})
	if err != nil {
		return nil, esignError(err, "Alıcı güncellenemedi", zap.Uint("recipient_id", recipientID))
	}
	return rec, nil
}

func (s *EnvelopeService) RemoveRecipient(ctx context.Context, actor Actor, envelopeID, recipientID uint) error {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return err
	}
	rec := findRecipient(env, recipientID)
	if rec == nil {
		return ErrRecipientNotFound
	}
	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		if err := s.fields.DeleteByRecipient(txCtx, rec.ID); err != nil {
			return err
		}
		if err := s.recipients.Delete(txCtx, rec); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionRecipientRemoved, fmt.Sprintf("%s <%s>", rec.Name, rec.Email))
	})
	return esignError(err, "Alıcı kaldırılamadı", zap.Uint("recipient_id", recipientID))
}

// validateField alan girdisini zarfın belge ve alıcılarına göre doğrular.
func validateField(env *models.Envelope, input *FieldInput) error {
	input.Label = strings.TrimSpace(input.Label)
	if input.Page == 0 {
		input.Page = 1
	}
	if err := validation.Struct(*input); err != nil {
		return invalidInput(err)
	}
	if !models.ValidFieldTypes[input.Type] {
		return fmt.Errorf("%w: unknown field type %q", ErrEnvelopeInvalidInput, input.Type)
	}
	if input.X+input.Width > 100 || input.Y+input.Height > 100 {
		return fmt.Errorf("%w: field must fit on the page", ErrEnvelopeInvalidInput)
	}
	if findDocument(env, input.DocumentID) == nil {
		return ErrDocumentNotFound
	}
	rec := findRecipient(env, input.RecipientID)
	if rec == nil {
		return ErrRecipientNotFound
	}
	if !rec.IsSigner() {
		return fmt.Errorf("%w: fields can only be assigned to signers", ErrEnvelopeInvalidInput)
	}
	if input.Type == models.FieldTypeDropdown {
		if models.JoinOptions(input.Options) == "" {
			return fmt.Errorf("%w: dropdown fields need at least one option", ErrEnvelopeInvalidInput)
		}
	} else {
		input.Options = nil
	}
	return nil
}

func applyFieldInput(f *models.Field, input FieldInput) {
	f.DocumentID = input.DocumentID
	f.RecipientID = input.RecipientID
	f.Type = input.Type
	f.Label = input.Label
	f.Page = input.Page
	f.X, f.Y = input.X, input.Y
	f.Width, f.Height = input.Width, input.Height
	f.Required = input.Required
	f.Options = models.JoinOptions(input.Options)
}

func (s *EnvelopeService) AddField(ctx context.Context, actor Actor, envelopeID uint, input FieldInput) (*models.Field, error) {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	if err := validateField(env, &input); err != nil {
		return nil, err
	}
	field := &models.Field{EnvelopeID: env.ID}
	applyFieldInput(field, input)

	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		if err := s.fields.Create(txCtx, field); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionFieldAdded, fmt.Sprintf("%s for recipient %d", field.Type, field.RecipientID))
	})
	if err != nil {
		return nil, esignError(err, "Alan eklenemedi", zap.Uint("envelope_id", env.ID))
	}
	return field, nil
}

func (s *EnvelopeService) UpdateField(ctx context.Context, actor Actor, envelopeID, fieldID uint, input FieldInput) (*models.Field, error) {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	field := findField(env, fieldID)
	if field == nil {
		return nil, ErrFieldNotFound
	}
	if err := validateField(env, &input); err != nil {
		return nil, err
	}
	applyFieldInput(field, input)

	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		if err := s.fields.Update(txCtx, field); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionUpdated, fmt.Sprintf("field %d", field.ID))
	})
	if err != nil {
		return nil, esignError(err, "Alan güncellenemedi", zap.Uint("field_id", fieldID))
	}
	return field, nil
}

func (s *EnvelopeService) RemoveField(ctx context.Context, actor Actor, envelopeID, fieldID uint) error {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return err
	}
	field := findField(env, fieldID)
	if field == nil {
		return ErrFieldNotFound
	}
	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		if err := s.fields.Delete(txCtx, field); err != nil {
			return err
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionFieldRemoved, fmt.Sprintf("field %d", field.ID))
	})
	return esignError(err, "Alan kaldırılamadı", zap.Uint("field_id", fieldID))
}

// readyToSend gönderim ön koşullarını kontrol eder.
func readyToSend(env *models.Envelope) error {
	if len(env.Documents) == 0 {
		return fmt.Errorf("%w: add at least one document", ErrEnvelopeNotReady)
	}
	fieldCount := make(map[uint]int)
	for _, f := range env.Fields {
		fieldCount[f.RecipientID]++
	}
	signers := 0
	for _, r := range env.Recipients {
		if !r.IsSigner() {
			continue
		}
		signers++
		if fieldCount[r.ID] == 0 {
			return fmt.Errorf("%w: signer %s has no fields", ErrEnvelopeNotReady, r.Email)
		}
	}
	if signers == 0 {
		return fmt.Errorf("%w: add at least one signer", ErrEnvelopeNotReady)
	}
	return nil
}

func (s *EnvelopeService) signingURL(token string) string {
	return s.opts.BaseURL + "/sign/" + token
}

func (s *EnvelopeService) Send(ctx context.Context, actor Actor, envelopeID uint) (*SendResult, error) {
	env, err := s.loadEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	if !ValidEnvelopeTransition(EnvelopeActionSend, env.Status) {
		return nil, ErrEnvelopeInvalidTransition
	}
	if err := readyToSend(env); err != nil {
		return nil, err
	}

	now := timeNow()
	links := make([]SigningLink, 0, len(env.Recipients))
	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		ok, err := s.envelopes.UpdateStatus(txCtx, env.ID, allowedFrom(EnvelopeActionSend), map[string]interface{}{
			"status":  models.EnvelopeStatusSent,
			"sent_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrEnvelopeInvalidTransition
		}
		for i := range env.Recipients {
			rec := &env.Recipients[i]
			token, err := utils.GenerateToken(utils.AccessTokenBytes)
			if err != nil {
				return err
			}
			rec.AccessToken = &token
			rec.Status = models.RecipientStatusSent
			if err := s.recipients.Update(txCtx, rec); err != nil {
				return err
			}
			links = append(links, SigningLink{RecipientID: rec.ID, Name: rec.Name, Email: rec.Email, Role: rec.Role, URL: s.signingURL(token)})
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionSent, fmt.Sprintf("%d recipients", len(env.Recipients)))
	})
	if err != nil {
		return nil, esignError(err, "Zarf gönderilemedi", zap.Uint("envelope_id", envelopeID))
	}
	env.Status = models.EnvelopeStatusSent
	env.SentAt = &now
	configslog.Log.Info("Zarf gönderildi", zap.Uint("envelope_id", env.ID), zap.Int("recipients", len(links)))
	return &SendResult{Envelope: env, Links: links}, nil
}

func (s *EnvelopeService) Void(ctx context.Context, actor Actor, envelopeID uint, reason string) (*models.Envelope, error) {
	env, err := s.loadEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	if !ValidEnvelopeTransition(EnvelopeActionVoid, env.Status) {
		return nil, ErrEnvelopeInvalidTransition
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required to void an envelope", ErrEnvelopeInvalidInput)
	}

	now := timeNow()
	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		ok, err := s.envelopes.UpdateStatus(txCtx, env.ID, allowedFrom(EnvelopeActionVoid), map[string]interface{}{
			"status":      models.EnvelopeStatusVoided,
			"voided_at":   now,
			"void_reason": reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrEnvelopeInvalidTransition
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionVoided, reason)
	})
	if err != nil {
		return nil, esignError(err, "Zarf iptal edilemedi", zap.Uint("envelope_id", envelopeID))
	}
	env.Status = models.EnvelopeStatusVoided
	env.VoidedAt = &now
	env.VoidReason = reason
	return env, nil
}

func (s *EnvelopeService) AuditTrail(ctx context.Context, actor Actor, envelopeID uint) ([]models.AuditEntry, error) {
	env, err := s.loadEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	entries, err := s.audit.FindByEnvelope(ctx, env.ID)
	if err != nil {
		return nil, esignError(err, "Denetim kaydı okunamadı", zap.Uint("envelope_id", envelopeID))
	}
	return entries, nil
}

var _ IEnvelopeService = (*EnvelopeService)(nil)

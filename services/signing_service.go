package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/storage"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SigningSession imza bağlantısını açan alıcıya gösterilenler.
type SigningSession struct {
	Envelope  *models.Envelope          `json:"envelope"`
	Recipient *models.Recipient         `json:"recipient"`
	Documents []models.EnvelopeDocument `json:"documents"`
	Fields    []models.Field            `json:"fields"`
	CanSubmit bool                      `json:"canSubmit"`
	// WaitingFor sıralı imzada önce imzalaması gereken alıcı sayısı.
	WaitingFor int `json:"waitingFor"`
}

type SubmitResult struct {
	Recipient      *models.Recipient     `json:"recipient"`
	EnvelopeStatus models.EnvelopeStatus `json:"envelopeStatus"`
	Completed      bool                  `json:"completed"`
}

type ISigningService interface {
	OpenSession(ctx context.Context, token string, meta RequestMeta) (*SigningSession, error)
	Submit(ctx context.Context, token string, values map[uint]string, meta RequestMeta) (*SubmitResult, error)
	Decline(ctx context.Context, token string, reason string, meta RequestMeta) error
	DownloadDocument(ctx context.Context, token string, documentID uint) (*DocumentContent, error)
}

type SigningService struct {
	esignCore
}

func NewSigningService(db *gorm.DB, store storage.ObjectStorage) ISigningService {
	return &SigningService{esignCore: newESignCore(db, store)}
}

// resolve token'ı alıcıya ve imzaya açık zarfa çözer. Tamamlanmış, iptal edilmiş
// veya silinmiş zarfların bağlantıları bulunamadı olarak görünür.
func (s *SigningService) resolve(ctx context.Context, token string) (*models.Envelope, *models.Recipient, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, ErrSigningNotFound
	}
	rec, err := s.recipients.FindByToken(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrSigningNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	env, err := s.envelopes.FindByID(ctx, rec.EnvelopeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrSigningNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if !ValidEnvelopeTransition(EnvelopeActionSign, env.Status) {
		return nil, nil, ErrSigningNotFound
	}
	if r := findRecipient(env, rec.ID); r != nil {
		rec = r
	}
	return env, rec, nil
}

// pendingBefore sıralı imzada bu alıcıdan önce imzalaması gereken imzacı sayısı.
func pendingBefore(env *models.Envelope, rec *models.Recipient) int {
	if !env.SigningOrderEnforced {
		return 0
	}
	pending := 0
	for _, other := range env.Recipients {
		if other.ID == rec.ID || !other.IsSigner() {
			continue
		}
		if other.SigningOrder < rec.SigningOrder && other.Status != models.RecipientStatusSigned {
			pending++
		}
	}
	return pending
}

func recipientFields(env *models.Envelope, recipientID uint) []models.Field {
	out := make([]models.Field, 0)
	for _, f := range env.Fields {
		if f.RecipientID == recipientID {
			out = append(out, f)
		}
	}
	return out
}

func (s *SigningService) recordByRecipient(ctx context.Context, rec *models.Recipient, action models.AuditAction, detail string, meta RequestMeta) error {
	return s.record(ctx, auditEvent{
		envelopeID:  rec.EnvelopeID,
		recipientID: uintPtr(rec.ID),
		action:      action,
		actor:       fmt.Sprintf("recipient:%d", rec.ID),
		detail:      detail,
		ip:          meta.IP,
		userAgent:   meta.UserAgent,
	})
}

// markViewed ilk açılışta alıcıyı viewed, zarfı in_progress yapar.
func (s *SigningService) markViewed(txCtx context.Context, env *models.Envelope, rec *models.Recipient, meta RequestMeta, now time.Time) error {
	if rec.ViewedAt != nil {
		return nil
	}
	rec.ViewedAt = &now
	if rec.Status == models.RecipientStatusPending || rec.Status == models.RecipientStatusSent {
		rec.Status = models.RecipientStatusViewed
	}
	if err := s.recipients.Update(txCtx, rec); err != nil {
		return err
	}
	if env.Status == models.EnvelopeStatusSent {
		if _, err := s.envelopes.UpdateStatus(txCtx, env.ID, []models.EnvelopeStatus{models.EnvelopeStatusSent}, map[string]interface{}{
			"status": models.EnvelopeStatusInProgress,
		}); err != nil {
			return err
		}
		env.Status = models.EnvelopeStatusInProgress
	}
	return s.recordByRecipient(txCtx, rec, models.AuditActionViewed, "", meta)
}

func (s *SigningService) OpenSession(ctx context.Context, token string, meta RequestMeta) (*SigningSession, error) {
	env, rec, err := s.resolve(ctx, token)
	if err != nil {
		return nil, esignError(err, "İmza oturumu açılamadı")
	}
	if rec.ViewedAt == nil {
		err = s.inTx(ctx, func(txCtx context.Context) error {
			return s.markViewed(txCtx, env, rec, meta, timeNow())
		})
		if err != nil {
			return nil, esignError(err, "Görüntüleme kaydedilemedi", zap.Uint("recipient_id", rec.ID))
		}
	}

	waiting := pendingBefore(env, rec)
	return &SigningSession{
		Envelope:   env,
		Recipient:  rec,
		Documents:  env.Documents,
		Fields:     recipientFields(env, rec.ID),
		CanSubmit:  rec.IsSigner() && rec.Status != models.RecipientStatusSigned && rec.Status != models.RecipientStatusDeclined && waiting == 0,
		WaitingFor: waiting,
	}, nil
}

// validateFieldValue türüne göre tek bir alan değerini doğrular.
func validateFieldValue(f models.Field, value string) error {
	if value == "" {
		if f.Required {
			return fmt.Errorf("%w: field %d is required", ErrSigningInvalidInput, f.ID)
		}
		return nil
	}
	switch f.Type {
	case models.FieldTypeCheckbox:
		if value != "true" && value != "false" {
			return fmt.Errorf("%w: field %d must be true or false", ErrSigningInvalidInput, f.ID)
		}
		if f.Required && value != "true" {
			return fmt.Errorf("%w: field %d must be checked", ErrSigningInvalidInput, f.ID)
		}
	case models.FieldTypeDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return fmt.Errorf("%w: field %d must be a date in YYYY-MM-DD format", ErrSigningInvalidInput, f.ID)
		}
	case models.FieldTypeDropdown:
		for _, opt := range f.OptionList() {
			if opt == value {
				return nil
			}
		}
		return fmt.Errorf("%w: field %d must be one of the listed options", ErrSigningInvalidInput, f.ID)
	}
	return nil
}

// lockForRecipient zarf satırını transaction sonuna kadar kilitler ve zarfla alıcıyı
// kilit altında yeniden okur. Aynı zarfa eşzamanlı gönderim ve retler burada sıraya girer.
func (s *SigningService) lockForRecipient(txCtx context.Context, envelopeID, recipientID uint) (*models.Envelope, *models.Recipient, error) {
	env, err := s.envelopes.FindByIDForUpdate(txCtx, envelopeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrSigningNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if !ValidEnvelopeTransition(EnvelopeActionSign, env.Status) {
		return nil, nil, ErrSigningNotFound
	}
	rec := findRecipient(env, recipientID)
	if rec == nil {
		return nil, nil, ErrSigningNotFound
	}
	return env, rec, nil
}

// checkSubmission alıcının imzalayabileceğini ve değerlerin geçerli olduğunu doğrular;
// alıcının alanlarını döndürür.
func checkSubmission(env *models.Envelope, rec *models.Recipient, values map[uint]string) ([]models.Field, error) {
	if !rec.IsSigner() {
		return nil, ErrCannotSign
	}
	switch rec.Status {
	case models.RecipientStatusSigned:
		return nil, ErrAlreadySigned
	case models.RecipientStatusDeclined:
		return nil, ErrSigningNotFound
	}
	if pendingBefore(env, rec) > 0 {
		return nil, ErrNotYourTurn
	}

	owned := recipientFields(env, rec.ID)
	ownedIDs := make(map[uint]bool, len(owned))
	for _, f := range owned {
		ownedIDs[f.ID] = true
	}
	for id := range values {
		if !ownedIDs[id] {
			return nil, fmt.Errorf("%w: field %d is not assigned to you", ErrSigningInvalidInput, id)
		}
	}
	for _, f := range owned {
		if err := validateFieldValue(f, strings.TrimSpace(values[f.ID])); err != nil {
			return nil, err
		}
	}
	return owned, nil
}

func (s *SigningService) Submit(ctx context.Context, token string, values map[uint]string, meta RequestMeta) (*SubmitResult, error) {
	env, rec, err := s.resolve(ctx, token)
	if err != nil {
		return nil, esignError(err, "İmza gönderimi çözümlenemedi")
	}
	// Kilit almadan önce hızlı ret; asıl kontrol kilit altında tekrarlanır.
	if _, err := checkSubmission(env, rec, values); err != nil {
		return nil, err
	}

	now := timeNow()
	result := &SubmitResult{}
	err = s.inTx(ctx, func(txCtx context.Context) error {
		locked, current, err := s.lockForRecipient(txCtx, env.ID, rec.ID)
		if err != nil {
			return err
		}
		owned, err := checkSubmission(locked, current, values)
		if err != nil {
			return err
		}
		if err := s.markViewed(txCtx, locked, current, meta, now); err != nil {
			return err
		}
		for i := range owned {
			f := &owned[i]
			f.Value = strings.TrimSpace(values[f.ID])
			if f.Value != "" {
				f.FilledAt = &now
			}
			if err := s.fields.Update(txCtx, f); err != nil {
				return err
			}
		}
		current.Status = models.RecipientStatusSigned
		current.SignedAt = &now
		if err := s.recipients.Update(txCtx, current); err != nil {
			return err
		}
		if err := s.recordByRecipient(txCtx, current, models.AuditActionSigned, fmt.Sprintf("%d fields", len(owned)), meta); err != nil {
			return err
		}
		result.Recipient = current

		recipients, err := s.recipients.FindByEnvelope(txCtx, locked.ID)
		if err != nil {
			return err
		}
		result.EnvelopeStatus = locked.Status
		if !CanComplete(recipients) {
			return nil
		}
		ok, err := s.envelopes.UpdateStatus(txCtx, locked.ID, allowedFrom(EnvelopeActionComplete), map[string]interface{}{
			"status":       models.EnvelopeStatusCompleted,
			"completed_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrEnvelopeInvalidTransition
		}
		result.EnvelopeStatus = models.EnvelopeStatusCompleted
		result.Completed = true
		return s.record(txCtx, auditEvent{envelopeID: locked.ID, action: models.AuditActionCompleted, actor: "system"})
	})
	if err != nil {
		return nil, esignError(err, "İmza kaydedilemedi", zap.Uint("recipient_id", rec.ID))
	}
	configslog.Log.Info("Alıcı imzaladı", zap.Uint("envelope_id", env.ID), zap.Uint("recipient_id", rec.ID), zap.Bool("completed", result.Completed))
	return result, nil
}

func checkDecline(rec *models.Recipient) error {
	if !rec.IsSigner() {
		return ErrCannotSign
	}
	switch rec.Status {
	case models.RecipientStatusSigned:
		return ErrAlreadySigned
	case models.RecipientStatusDeclined:
		return ErrSigningNotFound
	}
	return nil
}

// Decline imzacının reddi zarfı iptal eder. İzleyici ve bilgi alıcıları reddedemez.
func (s *SigningService) Decline(ctx context.Context, token string, reason string, meta RequestMeta) error {
	env, rec, err := s.resolve(ctx, token)
	if err != nil {
		return esignError(err, "Red işlemi çözümlenemedi")
	}
	if err := checkDecline(rec); err != nil {
		return err
	}
	reason = truncate(strings.TrimSpace(reason), 2000)

	now := timeNow()
	err = s.inTx(ctx, func(txCtx context.Context) error {
		locked, current, err := s.lockForRecipient(txCtx, env.ID, rec.ID)
		if err != nil {
			return err
		}
		if err := checkDecline(current); err != nil {
			return err
		}
		current.Status = models.RecipientStatusDeclined
		current.DeclinedAt = &now
		current.DeclineReason = reason
		if err := s.recipients.Update(txCtx, current); err != nil {
			return err
		}
		if err := s.recordByRecipient(txCtx, current, models.AuditActionDeclined, reason, meta); err != nil {
			return err
		}
		voidReason := fmt.Sprintf("declined by %s", current.Email)
		if reason != "" {
			voidReason += ": " + reason
		}
		ok, err := s.envelopes.UpdateStatus(txCtx, locked.ID, allowedFrom(EnvelopeActionVoid), map[string]interface{}{
			"status":      models.EnvelopeStatusVoided,
			"voided_at":   now,
			"void_reason": voidReason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrEnvelopeInvalidTransition
		}
		return s.recordByRecipient(txCtx, current, models.AuditActionVoided, voidReason, meta)
	})
	if err != nil {
		return esignError(err, "Red kaydedilemedi", zap.Uint("recipient_id", rec.ID))
	}
	configslog.Log.Info("Alıcı zarfı reddetti", zap.Uint("envelope_id", env.ID), zap.Uint("recipient_id", rec.ID))
	return nil
}

func (s *SigningService) DownloadDocument(ctx context.Context, token string, documentID uint) (*DocumentContent, error) {
	env, _, err := s.resolve(ctx, token)
	if err != nil {
		return nil, esignError(err, "İndirme bağlantısı çözümlenemedi")
	}
	doc := findDocument(env, documentID)
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return s.readDocument(ctx, doc)
}

var _ ISigningService = (*SigningService)(nil)

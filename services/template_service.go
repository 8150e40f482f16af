package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/queryparams"
	"salonsuite/pkg/storage"
	"salonsuite/pkg/validation"
	"salonsuite/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TemplateInput struct {
	Name        string                `json:"name" validate:"required,max=150"`
	Description string                `json:"description" validate:"max=2000"`
	Config      models.TemplateConfig `json:"config"`
}

// TemplateView şablonu çözümlenmiş yapılandırmasıyla döndürür.
type TemplateView struct {
	models.EnvelopeTemplate
	Config models.TemplateConfig `json:"config"`
}

// RoleAssignment şablondaki bir role atanan kişi.
type RoleAssignment struct {
	Name  string `json:"name" validate:"required,max=150"`
	Email string `json:"email" validate:"required,email,max=150"`
}

type ITemplateService interface {
	List(ctx context.Context, actor Actor, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, actor Actor, id uint) (*TemplateView, error)
	Create(ctx context.Context, actor Actor, input TemplateInput) (*TemplateView, error)
	Update(ctx context.Context, actor Actor, id uint, input TemplateInput) (*TemplateView, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	SaveEnvelopeAsTemplate(ctx context.Context, actor Actor, envelopeID uint, name string) (*TemplateView, error)
	CreateEnvelopeFromTemplate(ctx context.Context, actor Actor, templateID uint, assignments map[string]RoleAssignment) (*models.Envelope, error)
	ApplyTemplateFields(ctx context.Context, actor Actor, envelopeID uint) (*models.Envelope, error)
}

type TemplateService struct {
	esignCore
}

func NewTemplateService(db *gorm.DB, store storage.ObjectStorage) ITemplateService {
	return &TemplateService{esignCore: newESignCore(db, store)}
}

// validateTemplateConfig rol adlarının tekilliğini ve alanların imzacı rollere bağlı olmasını denetler.
func validateTemplateConfig(cfg *models.TemplateConfig) error {
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.Title == "" {
		return fmt.Errorf("%w: config.title is required", ErrEnvelopeInvalidInput)
	}
	if len(cfg.Roles) == 0 {
		return fmt.Errorf("%w: at least one role is required", ErrEnvelopeInvalidInput)
	}
	roles := make(map[string]models.TemplateRole, len(cfg.Roles))
	for i := range cfg.Roles {
		r := &cfg.Roles[i]
		r.Name = strings.TrimSpace(r.Name)
		if r.SigningOrder == 0 {
			r.SigningOrder = 1
		}
		if err := validation.Struct(*r); err != nil {
			return invalidInput(err)
		}
		if _, dup := roles[r.Name]; dup {
			return fmt.Errorf("%w: duplicate role %q", ErrEnvelopeInvalidInput, r.Name)
		}
		roles[r.Name] = *r
	}
	for i := range cfg.Fields {
		f := &cfg.Fields[i]
		if f.Page == 0 {
			f.Page = 1
		}
		if err := validation.Struct(*f); err != nil {
			return invalidInput(err)
		}
		role, ok := roles[f.RoleName]
		if !ok {
			return fmt.Errorf("%w: field %d references unknown role %q", ErrEnvelopeInvalidInput, i, f.RoleName)
		}
		if role.Role != models.RecipientRoleSigner {
			return fmt.Errorf("%w: field %d must belong to a signer role", ErrEnvelopeInvalidInput, i)
		}
		if !models.ValidFieldTypes[f.Type] {
			return fmt.Errorf("%w: field %d has unknown type %q", ErrEnvelopeInvalidInput, i, f.Type)
		}
		if f.Type == models.FieldTypeDropdown && models.JoinOptions(f.Options) == "" {
			return fmt.Errorf("%w: dropdown field %d needs options", ErrEnvelopeInvalidInput, i)
		}
		if f.X+f.Width > 100 || f.Y+f.Height > 100 {
			return fmt.Errorf("%w: field %d must fit on the page", ErrEnvelopeInvalidInput, i)
		}
	}
	return nil
}

func toView(tpl *models.EnvelopeTemplate) (*TemplateView, error) {
	cfg, err := tpl.ParseConfig()
	if err != nil {
		configslog.Log.Error("Şablon yapılandırması bozuk", zap.Uint("template_id", tpl.ID), zap.Error(err))
		return nil, ErrEnvelopeFailed
	}
	return &TemplateView{EnvelopeTemplate: *tpl, Config: cfg}, nil
}

func (s *TemplateService) load(ctx context.Context, actor Actor, id uint) (*models.EnvelopeTemplate, error) {
	tpl, err := s.templates.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, ErrEnvelopeFailed
	}
	if !actor.IsAdmin && tpl.OwnerUserID != actor.UserID {
		return nil, ErrEnvelopeForbidden
	}
	return tpl, nil
}

func (s *TemplateService) List(ctx context.Context, actor Actor, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	var owner *uint
	if !actor.IsAdmin {
		owner = uintPtr(actor.UserID)
	}
	templates, total, err := s.templates.FindAllPaginated(ctx, owner, params)
	if err != nil {
		return nil, ErrEnvelopeFailed
	}
	return queryparams.NewPaginatedResult(templates, total, params), nil
}

func (s *TemplateService) Get(ctx context.Context, actor Actor, id uint) (*TemplateView, error) {
	tpl, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toView(tpl)
}

func encodeTemplate(tpl *models.EnvelopeTemplate, input *TemplateInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(*input); err != nil {
		return invalidInput(err)
	}
	if err := validateTemplateConfig(&input.Config); err != nil {
		return err
	}
	raw, err := json.Marshal(input.Config)
	if err != nil {
		return err
	}
	tpl.Name = input.Name
	tpl.Description = strings.TrimSpace(input.Description)
	tpl.Config = string(raw)
	return nil
}

func (s *TemplateService) Create(ctx context.Context, actor Actor, input TemplateInput) (*TemplateView, error) {
	tpl := &models.EnvelopeTemplate{OwnerUserID: actor.UserID}
	if err := encodeTemplate(tpl, &input); err != nil {
		return nil, esignError(err, "Şablon kodlanamadı")
	}
	if err := s.templates.Create(models.ContextWithUserID(ctx, actor.UserID), tpl); err != nil {
		return nil, esignError(err, "Şablon oluşturulamadı", zap.Uint("user_id", actor.UserID))
	}
	return &TemplateView{EnvelopeTemplate: *tpl, Config: input.Config}, nil
}

func (s *TemplateService) Update(ctx context.Context, actor Actor, id uint, input TemplateInput) (*TemplateView, error) {
	tpl, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := encodeTemplate(tpl, &input); err != nil {
		return nil, esignError(err, "Şablon kodlanamadı")
	}
	if err := s.templates.Update(models.ContextWithUserID(ctx, actor.UserID), tpl); err != nil {
		return nil, esignError(err, "Şablon güncellenemedi", zap.Uint("template_id", id))
	}
	return &TemplateView{EnvelopeTemplate: *tpl, Config: input.Config}, nil
}

func (s *TemplateService) Delete(ctx context.Context, actor Actor, id uint) error {
	tpl, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	return esignError(s.templates.Delete(models.ContextWithUserID(ctx, actor.UserID), tpl), "Şablon silinemedi", zap.Uint("template_id", id))
}

// SaveEnvelopeAsTemplate zarfın alıcılarını role, alanlarını rol alanlarına çevirir.
// Rol adı olarak alıcının şablon rolü, yoksa sırasına göre "Recipient N" kullanılır.
func (s *TemplateService) SaveEnvelopeAsTemplate(ctx context.Context, actor Actor, envelopeID uint, name string) (*TemplateView, error) {
	env, err := s.loadEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	docIndex := make(map[uint]int, len(env.Documents))
	for i, d := range env.Documents {
		docIndex[d.ID] = i
	}
	roleNames := make(map[uint]string, len(env.Recipients))
	cfg := models.TemplateConfig{
		Title:                env.Title,
		Message:              env.Message,
		SigningOrderEnforced: env.SigningOrderEnforced,
	}
	for i, r := range env.Recipients {
		roleName := r.TemplateRole
		if roleName == "" {
			roleName = fmt.Sprintf("Recipient %d", i+1)
		}
		roleNames[r.ID] = roleName
		cfg.Roles = append(cfg.Roles, models.TemplateRole{Name: roleName, Role: r.Role, SigningOrder: r.SigningOrder})
	}
	for _, f := range env.Fields {
		cfg.Fields = append(cfg.Fields, models.TemplateFieldSpec{
			RoleName:      roleNames[f.RecipientID],
			DocumentIndex: docIndex[f.DocumentID],
			Type:          f.Type,
			Label:         f.Label,
			Page:          f.Page,
			X:             f.X,
			Y:             f.Y,
			Width:         f.Width,
			Height:        f.Height,
			Required:      f.Required,
			Options:       f.OptionList(),
		})
	}
	if strings.TrimSpace(name) == "" {
		name = env.Title
	}
	return s.Create(ctx, actor, TemplateInput{Name: name, Config: cfg})
}

// CreateEnvelopeFromTemplate şablondaki her rol için atanmış kişiyle taslak zarf oluşturur.
func (s *TemplateService) CreateEnvelopeFromTemplate(ctx context.Context, actor Actor, templateID uint, assignments map[string]RoleAssignment) (*models.Envelope, error) {
	tpl, err := s.load(ctx, actor, templateID)
	if err != nil {
		return nil, err
	}
	cfg, err := tpl.ParseConfig()
	if err != nil {
		return nil, esignError(err, "Şablon yapılandırması okunamadı", zap.Uint("template_id", templateID))
	}

	seenEmails := make(map[string]bool)
	for _, role := range cfg.Roles {
		a, ok := assignments[role.Name]
		if !ok {
			return nil, fmt.Errorf("%w: role %q needs a recipient", ErrEnvelopeInvalidInput, role.Name)
		}
		if err := validation.Struct(a); err != nil {
			return nil, invalidInput(err)
		}
		email := normalizeEmail(a.Email)
		if seenEmails[email] {
			return nil, ErrDuplicateRecipient
		}
		seenEmails[email] = true
	}

	env := &models.Envelope{
		UUID:                 uuid.NewString(),
		Title:                cfg.Title,
		Message:              cfg.Message,
		Status:               models.EnvelopeStatusDraft,
		SigningOrderEnforced: cfg.SigningOrderEnforced,
		OwnerUserID:          actor.UserID,
		TemplateID:           uintPtr(tpl.ID),
	}
	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		if err := s.envelopes.Create(txCtx, env); err != nil {
			return err
		}
		if err := s.recordByActor(txCtx, actor, env.ID, models.AuditActionCreated, fmt.Sprintf("from template %d", tpl.ID)); err != nil {
			return err
		}
		for _, role := range cfg.Roles {
			a := assignments[role.Name]
			rec := &models.Recipient{
				EnvelopeID:   env.ID,
				Name:         strings.TrimSpace(a.Name),
				Email:        normalizeEmail(a.Email),
				Role:         role.Role,
				SigningOrder: role.SigningOrder,
				TemplateRole: role.Name,
				Status:       models.RecipientStatusPending,
			}
			if err := s.recipients.Create(txCtx, rec); err != nil {
				return err
			}
			if err := s.recordByActor(txCtx, actor, env.ID, models.AuditActionRecipientAdded, fmt.Sprintf("%s <%s> as %s", rec.Name, rec.Email, role.Name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, esignError(err, "Şablondan zarf oluşturulamadı", zap.Uint("template_id", templateID))
	}
	return s.loadEnvelope(ctx, actor, env.ID)
}

// ApplyTemplateFields şablon alanlarını documentIndex'e göre zarfın sıralı belgelerine yerleştirir.
// Zarfta zaten alan varsa uygulanmaz.
func (s *TemplateService) ApplyTemplateFields(ctx context.Context, actor Actor, envelopeID uint) (*models.Envelope, error) {
	env, err := s.editableEnvelope(ctx, actor, envelopeID)
	if err != nil {
		return nil, err
	}
	if env.TemplateID == nil {
		return nil, fmt.Errorf("%w: envelope was not created from a template", ErrEnvelopeInvalidInput)
	}
	if len(env.Fields) > 0 {
		return nil, fmt.Errorf("%w: envelope already has fields", ErrEnvelopeInvalidInput)
	}
	tpl, err := s.templates.FindByID(ctx, *env.TemplateID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, ErrEnvelopeFailed
	}
	cfg, err := tpl.ParseConfig()
	if err != nil {
		return nil, esignError(err, "Şablon yapılandırması okunamadı", zap.Uint("template_id", tpl.ID))
	}

	byRole := make(map[string]*models.Recipient)
	for i := range env.Recipients {
		if env.Recipients[i].TemplateRole != "" {
			byRole[env.Recipients[i].TemplateRole] = &env.Recipients[i]
		}
	}
	fields := make([]*models.Field, 0, len(cfg.Fields))
	for i, spec := range cfg.Fields {
		if spec.DocumentIndex >= len(env.Documents) {
			return nil, fmt.Errorf("%w: template field %d needs document #%d; upload %d documents first",
				ErrEnvelopeInvalidInput, i, spec.DocumentIndex+1, spec.DocumentIndex+1)
		}
		rec, ok := byRole[spec.RoleName]
		if !ok {
			return nil, fmt.Errorf("%w: no recipient for role %q", ErrEnvelopeInvalidInput, spec.RoleName)
		}
		if !rec.IsSigner() {
			return nil, fmt.Errorf("%w: role %q is no longer a signer", ErrEnvelopeInvalidInput, spec.RoleName)
		}
		fields = append(fields, &models.Field{
			EnvelopeID:  env.ID,
			DocumentID:  env.Documents[spec.DocumentIndex].ID,
			RecipientID: rec.ID,
			Type:        spec.Type,
			Label:       spec.Label,
			Page:        spec.Page,
			X:           spec.X,
			Y:           spec.Y,
			Width:       spec.Width,
			Height:      spec.Height,
			Required:    spec.Required,
			Options:     models.JoinOptions(spec.Options),
		})
	}

	err = s.inTx(models.ContextWithUserID(ctx, actor.UserID), func(txCtx context.Context) error {
		for _, f := range fields {
			if err := s.fields.Create(txCtx, f); err != nil {
				return err
			}
		}
		return s.recordByActor(txCtx, actor, env.ID, models.AuditActionFieldAdded, fmt.Sprintf("%d fields from template %d", len(fields), tpl.ID))
	})
	if err != nil {
		return nil, esignError(err, "Şablon alanları uygulanamadı", zap.Uint("envelope_id", envelopeID))
	}
	return s.loadEnvelope(ctx, actor, env.ID)
}

var _ ITemplateService = (*TemplateService)(nil)

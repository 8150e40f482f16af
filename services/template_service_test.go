package services

import (
	"context"
	"testing"

	"salonsuite/models"
	"salonsuite/pkg/queryparams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consentTemplate() TemplateInput {
	return TemplateInput{
		Name: "Color consent",
		Config: models.TemplateConfig{
			Title:                "Color service consent",
			SigningOrderEnforced: true,
			Roles: []models.TemplateRole{
				{Name: "Client", Role: models.RecipientRoleSigner, SigningOrder: 1},
				{Name: "Stylist", Role: models.RecipientRoleSigner, SigningOrder: 2},
				{Name: "Manager", Role: models.RecipientRoleCC, SigningOrder: 3},
			},
			Fields: []models.TemplateFieldSpec{
				{RoleName: "Client", DocumentIndex: 0, Type: models.FieldTypeSignature, Page: 1, X: 10, Y: 80, Width: 30, Height: 5, Required: true},
				{RoleName: "Client", DocumentIndex: 0, Type: models.FieldTypeCheckbox, Label: "Patch test done", Page: 1, X: 10, Y: 70, Width: 3, Height: 3, Required: true},
				{RoleName: "Stylist", DocumentIndex: 1, Type: models.FieldTypeInitials, Page: 2, X: 60, Y: 80, Width: 10, Height: 5},
			},
		},
	}
}

func TestTemplate_ConfigValidation(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()

	dupRole := consentTemplate()
	dupRole.Config.Roles[1].Name = "Client"
	_, err := f.templates.Create(ctx, f.owner, dupRole)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput)

	unknownRole := consentTemplate()
	unknownRole.Config.Fields[0].RoleName = "Receptionist"
	_, err = f.templates.Create(ctx, f.owner, unknownRole)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput)

	ccField := consentTemplate()
	ccField.Config.Fields[0].RoleName = "Manager"
	_, err = f.templates.Create(ctx, f.owner, ccField)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput)

	emptyDropdown := consentTemplate()
	emptyDropdown.Config.Fields[0].Type = models.FieldTypeDropdown
	_, err = f.templates.Create(ctx, f.owner, emptyDropdown)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput)

	noRoles := consentTemplate()
	noRoles.Config.Roles = nil
	noRoles.Config.Fields = nil
	_, err = f.templates.Create(ctx, f.owner, noRoles)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput)
}

func TestTemplate_CRUD(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()

	tpl, err := f.templates.Create(ctx, f.owner, consentTemplate())
	require.NoError(t, err)
	assert.Len(t, tpl.Config.Roles, 3)

	_, err = f.templates.Get(ctx, Actor{UserID: 99}, tpl.ID)
	assert.ErrorIs(t, err, ErrEnvelopeForbidden)

	input := consentTemplate()
	input.Name = "Renamed"
	input.Config.Fields = input.Config.Fields[:1]
	updated, err := f.templates.Update(ctx, f.owner, tpl.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	got, err := f.templates.Get(ctx, f.owner, tpl.ID)
	require.NoError(t, err)
	assert.Len(t, got.Config.Fields, 1)

	list, err := f.templates.List(ctx, f.owner, queryparams.DefaultListParams("id"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Meta.TotalItems)

	require.NoError(t, f.templates.Delete(ctx, f.owner, tpl.ID))
	_, err = f.templates.Get(ctx, f.owner, tpl.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplate_EnvelopeFromTemplate(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	tpl, err := f.templates.Create(ctx, f.owner, consentTemplate())
	require.NoError(t, err)

	assignments := map[string]RoleAssignment{
		"Client":  {Name: "Jane Client", Email: "jane@example.com"},
		"Stylist": {Name: "Sam Stylist", Email: "sam@example.com"},
	}
	_, err = f.templates.CreateEnvelopeFromTemplate(ctx, f.owner, tpl.ID, assignments)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput, "manager role unassigned")

	assignments["Manager"] = RoleAssignment{Name: "Dup", Email: "JANE@example.com"}
	_, err = f.templates.CreateEnvelopeFromTemplate(ctx, f.owner, tpl.ID, assignments)
	assert.ErrorIs(t, err, ErrDuplicateRecipient)

	assignments["Manager"] = RoleAssignment{Name: "Mia Manager", Email: "mia@example.com"}
	env, err := f.templates.CreateEnvelopeFromTemplate(ctx, f.owner, tpl.ID, assignments)
	require.NoError(t, err)
	assert.Equal(t, "Color service consent", env.Title)
	assert.True(t, env.SigningOrderEnforced)
	require.NotNil(t, env.TemplateID)
	assert.Equal(t, tpl.ID, *env.TemplateID)
	require.Len(t, env.Recipients, 3)
	assert.Equal(t, "Client", env.Recipients[0].TemplateRole)
	assert.Equal(t, models.RecipientRoleCC, env.Recipients[2].Role)

	// İkinci belge yüklenmeden alanlar yerleştirilemez.
	_, err = f.envelopes.AddDocument(ctx, f.owner, env.ID, "consent.pdf", samplePDF)
	require.NoError(t, err)
	_, err = f.templates.ApplyTemplateFields(ctx, f.owner, env.ID)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput)

	second, err := f.envelopes.AddDocument(ctx, f.owner, env.ID, "aftercare.pdf", samplePDF)
	require.NoError(t, err)
	env, err = f.templates.ApplyTemplateFields(ctx, f.owner, env.ID)
	require.NoError(t, err)
	require.Len(t, env.Fields, 3)
	var stylistField *models.Field
	for i := range env.Fields {
		if env.Fields[i].Type == models.FieldTypeInitials {
			stylistField = &env.Fields[i]
		}
	}
	require.NotNil(t, stylistField)
	assert.Equal(t, second.ID, stylistField.DocumentID)
	assert.Equal(t, env.Recipients[1].ID, stylistField.RecipientID)

	_, err = f.templates.ApplyTemplateFields(ctx, f.owner, env.ID)
	assert.ErrorIs(t, err, ErrEnvelopeInvalidInput, "fields already applied")

	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	assert.Len(t, sent.Links, 3)
}

func TestTemplate_SaveEnvelopeAsTemplate(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, _ := f.draft(t, true)

	tpl, err := f.templates.SaveEnvelopeAsTemplate(ctx, f.owner, env.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Lease", tpl.Name)
	assert.True(t, tpl.Config.SigningOrderEnforced)
	require.Len(t, tpl.Config.Roles, 2)
	assert.Len(t, tpl.Config.Fields, 2)
	assert.Equal(t, 2, tpl.Config.Roles[1].SigningOrder)
}

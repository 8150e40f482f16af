package services

import (
	"context"
	"testing"

	"salonsuite/models"
	"salonsuite/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldIDs(session *SigningSession) []uint {
	ids := make([]uint, 0, len(session.Fields))
	for _, f := range session.Fields {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestSigning_CompletesWhenAllSignersSign(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, recipients := f.draft(t, false)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	firstToken := tokenFromLink(t, sent, recipients[0].ID)
	secondToken := tokenFromLink(t, sent, recipients[1].ID)
	meta := RequestMeta{IP: "203.0.113.9", UserAgent: "browser"}

	_, err = f.signing.OpenSession(ctx, "bogus", meta)
	assert.ErrorIs(t, err, ErrSigningNotFound)

	session, err := f.signing.OpenSession(ctx, firstToken, meta)
	require.NoError(t, err)
	assert.True(t, session.CanSubmit)
	assert.Equal(t, models.RecipientStatusViewed, session.Recipient.Status)
	assert.Equal(t, models.EnvelopeStatusInProgress, session.Envelope.Status)
	require.Len(t, session.Fields, 1)

	_, err = f.signing.Submit(ctx, firstToken, map[uint]string{}, meta)
	assert.ErrorIs(t, err, ErrSigningInvalidInput, "required signature missing")

	other, err := f.signing.OpenSession(ctx, secondToken, meta)
	require.NoError(t, err)
	_, err = f.signing.Submit(ctx, firstToken, map[uint]string{other.Fields[0].ID: "x"}, meta)
	assert.ErrorIs(t, err, ErrSigningInvalidInput, "field owned by another recipient")

	result, err := f.signing.Submit(ctx, firstToken, map[uint]string{session.Fields[0].ID: "Ana Signer"}, meta)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, models.RecipientStatusSigned, result.Recipient.Status)

	_, err = f.signing.Submit(ctx, firstToken, map[uint]string{session.Fields[0].ID: "again"}, meta)
	assert.ErrorIs(t, err, ErrAlreadySigned)

	result, err = f.signing.Submit(ctx, secondToken, map[uint]string{other.Fields[0].ID: "Second Signer"}, meta)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, models.EnvelopeStatusCompleted, result.EnvelopeStatus)

	got, err := f.envelopes.GetEnvelope(ctx, f.owner, env.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnvelopeStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	for _, field := range got.Fields {
		assert.NotEmpty(t, field.Value)
		assert.NotNil(t, field.FilledAt)
	}

	// Tamamlanan zarfın bağlantıları artık açılmaz.
	_, err = f.signing.OpenSession(ctx, firstToken, meta)
	assert.ErrorIs(t, err, ErrSigningNotFound)

	trail, err := f.envelopes.AuditTrail(ctx, f.owner, env.ID)
	require.NoError(t, err)
	last := trail[len(trail)-1]
	assert.Equal(t, models.AuditActionCompleted, last.Action)
	assert.Equal(t, "system", last.Actor)
	var signed int
	for _, e := range trail {
		if e.Action == models.AuditActionSigned {
			signed++
			assert.Equal(t, "203.0.113.9", e.IPAddress)
			require.NotNil(t, e.RecipientID)
		}
	}
	assert.Equal(t, 2, signed)
}

func TestSigning_EnforcedOrder(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, recipients := f.draft(t, true)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	firstToken := tokenFromLink(t, sent, recipients[0].ID)
	secondToken := tokenFromLink(t, sent, recipients[1].ID)

	second, err := f.signing.OpenSession(ctx, secondToken, RequestMeta{})
	require.NoError(t, err)
	assert.False(t, second.CanSubmit)
	assert.Equal(t, 1, second.WaitingFor)

	_, err = f.signing.Submit(ctx, secondToken, map[uint]string{fieldIDs(second)[0]: "too early"}, RequestMeta{})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	first, err := f.signing.OpenSession(ctx, firstToken, RequestMeta{})
	require.NoError(t, err)
	_, err = f.signing.Submit(ctx, firstToken, map[uint]string{fieldIDs(first)[0]: "First"}, RequestMeta{})
	require.NoError(t, err)

	second, err = f.signing.OpenSession(ctx, secondToken, RequestMeta{})
	require.NoError(t, err)
	assert.True(t, second.CanSubmit)
	assert.Equal(t, 0, second.WaitingFor)
}

func TestSigning_DeclineVoidsEnvelope(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, recipients := f.draft(t, false)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	token := tokenFromLink(t, sent, recipients[1].ID)

	require.NoError(t, f.signing.Decline(ctx, token, "terms changed", RequestMeta{}))

	got, err := f.envelopes.GetEnvelope(ctx, f.owner, env.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnvelopeStatusVoided, got.Status)
	assert.Contains(t, got.VoidReason, "second@example.com")
	assert.Contains(t, got.VoidReason, "terms changed")

	assert.ErrorIs(t, f.signing.Decline(ctx, token, "", RequestMeta{}), ErrSigningNotFound)
}

func TestSigning_ViewerCannotSubmit(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, _ := f.draft(t, false)
	viewer, err := f.envelopes.AddRecipient(ctx, f.owner, env.ID, RecipientInput{Name: "Watcher", Email: "viewer@example.com", Role: models.RecipientRoleViewer})
	require.NoError(t, err)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	token := tokenFromLink(t, sent, viewer.ID)

	session, err := f.signing.OpenSession(ctx, token, RequestMeta{})
	require.NoError(t, err)
	assert.False(t, session.CanSubmit)
	assert.Empty(t, session.Fields)
	require.Len(t, session.Documents, 1)

	content, err := f.signing.DownloadDocument(ctx, token, session.Documents[0].ID)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, content.Data)

	_, err = f.signing.Submit(ctx, token, nil, RequestMeta{})
	assert.ErrorIs(t, err, ErrCannotSign)
}

func TestSigning_ViewerCannotDecline(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, _ := f.draft(t, false)
	viewer, err := f.envelopes.AddRecipient(ctx, f.owner, env.ID, RecipientInput{Name: "Watcher", Email: "viewer@example.com", Role: models.RecipientRoleViewer})
	require.NoError(t, err)
	cc, err := f.envelopes.AddRecipient(ctx, f.owner, env.ID, RecipientInput{Name: "Office", Email: "cc@example.com", Role: models.RecipientRoleCC})
	require.NoError(t, err)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)

	for _, id := range []uint{viewer.ID, cc.ID} {
		err := f.signing.Decline(ctx, tokenFromLink(t, sent, id), "not mine", RequestMeta{})
		assert.ErrorIs(t, err, ErrCannotSign)
	}

	got, err := f.envelopes.GetEnvelope(ctx, f.owner, env.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnvelopeStatusSent, got.Status)
	assert.Empty(t, got.VoidReason)
}

// interleavedEnvelopes satır kilidi alınmadan hemen önce başka bir işlemin
// commit'ini taklit eder.
type interleavedEnvelopes struct {
	repositories.IEnvelopeRepository
	beforeLock func(ctx context.Context)
}

func (r *interleavedEnvelopes) FindByIDForUpdate(ctx context.Context, id uint) (*models.Envelope, error) {
	if r.beforeLock != nil {
		r.beforeLock(ctx)
		r.beforeLock = nil
	}
	return r.IEnvelopeRepository.FindByIDForUpdate(ctx, id)
}

func (f *esignFixture) interleave(t *testing.T, fn func(ctx context.Context)) {
	t.Helper()
	svc, ok := f.signing.(*SigningService)
	require.True(t, ok)
	svc.envelopes = &interleavedEnvelopes{IEnvelopeRepository: svc.envelopes, beforeLock: fn}
}

func (f *esignFixture) markSigned(t *testing.T, ctx context.Context, recipientID uint) {
	t.Helper()
	recipients := repositories.NewRecipientRepository(f.db)
	rec, err := recipients.FindByID(ctx, recipientID)
	require.NoError(t, err)
	signedAt := timeNow()
	rec.Status = models.RecipientStatusSigned
	rec.SignedAt = &signedAt
	require.NoError(t, recipients.Update(ctx, rec))
}

func TestSigning_ConcurrentSignersComplete(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, recipients := f.draft(t, false)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	token := tokenFromLink(t, sent, recipients[0].ID)
	session, err := f.signing.OpenSession(ctx, token, RequestMeta{})
	require.NoError(t, err)

	// İkinci imzacı, ilk imzacının kontrolleri ile kilit arasında imzalar.
	f.interleave(t, func(txCtx context.Context) { f.markSigned(t, txCtx, recipients[1].ID) })

	result, err := f.signing.Submit(ctx, token, map[uint]string{fieldIDs(session)[0]: "First"}, RequestMeta{})
	require.NoError(t, err)
	assert.True(t, result.Completed)

	got, err := f.envelopes.GetEnvelope(ctx, f.owner, env.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnvelopeStatusCompleted, got.Status)
}

func TestSigning_DuplicateSubmitRejectedUnderLock(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, recipients := f.draft(t, false)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	token := tokenFromLink(t, sent, recipients[0].ID)
	session, err := f.signing.OpenSession(ctx, token, RequestMeta{})
	require.NoError(t, err)

	f.interleave(t, func(txCtx context.Context) { f.markSigned(t, txCtx, recipients[0].ID) })

	_, err = f.signing.Submit(ctx, token, map[uint]string{fieldIDs(session)[0]: "Again"}, RequestMeta{})
	assert.ErrorIs(t, err, ErrAlreadySigned)

	trail, err := f.envelopes.AuditTrail(ctx, f.owner, env.ID)
	require.NoError(t, err)
	for _, e := range trail {
		assert.NotEqual(t, models.AuditActionSigned, e.Action)
	}
}

func TestSigning_DeclineAfterConcurrentSignRejected(t *testing.T) {
	f := newESignFixture(t)
	ctx := context.Background()
	env, recipients := f.draft(t, false)
	sent, err := f.envelopes.Send(ctx, f.owner, env.ID)
	require.NoError(t, err)
	token := tokenFromLink(t, sent, recipients[0].ID)

	f.interleave(t, func(txCtx context.Context) { f.markSigned(t, txCtx, recipients[0].ID) })

	assert.ErrorIs(t, f.signing.Decline(ctx, token, "changed my mind", RequestMeta{}), ErrAlreadySigned)

	got, err := f.envelopes.GetEnvelope(ctx, f.owner, env.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.EnvelopeStatusVoided, got.Status)
}

func TestValidateFieldValue(t *testing.T) {
	tests := []struct {
		name  string
		field models.Field
		value string
		ok    bool
	}{
		{"optional empty", models.Field{Type: models.FieldTypeText}, "", true},
		{"required empty", models.Field{Type: models.FieldTypeText, Required: true}, "", false},
		{"checkbox checked", models.Field{Type: models.FieldTypeCheckbox, Required: true}, "true", true},
		{"required checkbox unchecked", models.Field{Type: models.FieldTypeCheckbox, Required: true}, "false", false},
		{"checkbox garbage", models.Field{Type: models.FieldTypeCheckbox}, "yes", false},
		{"date ok", models.Field{Type: models.FieldTypeDate}, "2024-02-29", true},
		{"date bad", models.Field{Type: models.FieldTypeDate}, "29/02/2024", false},
		{"dropdown listed", models.Field{Type: models.FieldTypeDropdown, Options: "Cut\nColor"}, "Color", true},
		{"dropdown unlisted", models.Field{Type: models.FieldTypeDropdown, Options: "Cut\nColor"}, "Perm", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldValue(tt.field, tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrSigningInvalidInput)
			}
		})
	}
}

package services

import (
	"testing"

	"salonsuite/models"

	"github.com/stretchr/testify/assert"
)

func TestValidEnvelopeTransition(t *testing.T) {
	tests := []struct {
		action EnvelopeAction
		from   models.EnvelopeStatus
		want   bool
	}{
		{EnvelopeActionEdit, models.EnvelopeStatusDraft, true},
		{EnvelopeActionEdit, models.EnvelopeStatusSent, false},
		{EnvelopeActionSend, models.EnvelopeStatusDraft, true},
		{EnvelopeActionSend, models.EnvelopeStatusSent, false},
		{EnvelopeActionSign, models.EnvelopeStatusSent, true},
		{EnvelopeActionSign, models.EnvelopeStatusInProgress, true},
		{EnvelopeActionSign, models.EnvelopeStatusDraft, false},
		{EnvelopeActionSign, models.EnvelopeStatusVoided, false},
		{EnvelopeActionComplete, models.EnvelopeStatusInProgress, true},
		{EnvelopeActionComplete, models.EnvelopeStatusSent, false},
		{EnvelopeActionVoid, models.EnvelopeStatusDraft, true},
		{EnvelopeActionVoid, models.EnvelopeStatusInProgress, true},
		{EnvelopeActionVoid, models.EnvelopeStatusCompleted, false},
		{EnvelopeActionVoid, models.EnvelopeStatusVoided, false},
		{"unknown", models.EnvelopeStatusDraft, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.action)+"_from_"+string(tt.from), func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEnvelopeTransition(tt.action, tt.from))
		})
	}
}

func TestCanComplete(t *testing.T) {
	signed := models.Recipient{Role: models.RecipientRoleSigner, Status: models.RecipientStatusSigned}
	viewed := models.Recipient{Role: models.RecipientRoleSigner, Status: models.RecipientStatusViewed}
	cc := models.Recipient{Role: models.RecipientRoleCC, Status: models.RecipientStatusSent}

	assert.True(t, CanComplete([]models.Recipient{signed, cc}))
	assert.False(t, CanComplete([]models.Recipient{signed, viewed}))
	assert.False(t, CanComplete([]models.Recipient{cc}))
	assert.False(t, CanComplete(nil))
}

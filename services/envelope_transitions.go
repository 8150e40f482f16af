package services

import "salonsuite/models"

type EnvelopeAction string

const (
	EnvelopeActionEdit     EnvelopeAction = "edit"
	EnvelopeActionSend     EnvelopeAction = "send"
	EnvelopeActionSign     EnvelopeAction = "sign"
	EnvelopeActionComplete EnvelopeAction = "complete"
	EnvelopeActionVoid     EnvelopeAction = "void"
)

var envelopeTransitions = map[EnvelopeAction][]models.EnvelopeStatus{
	EnvelopeActionEdit:     {models.EnvelopeStatusDraft},
	EnvelopeActionSend:     {models.EnvelopeStatusDraft},
	EnvelopeActionSign:     {models.EnvelopeStatusSent, models.EnvelopeStatusInProgress},
	EnvelopeActionComplete: {models.EnvelopeStatusInProgress},
	EnvelopeActionVoid:     {models.EnvelopeStatusDraft, models.EnvelopeStatusSent, models.EnvelopeStatusInProgress},
}

func ValidEnvelopeTransition(action EnvelopeAction, from models.EnvelopeStatus) bool {
	for _, status := range envelopeTransitions[action] {
		if status == from {
			return true
		}
	}
	return false
}

// allowedFrom koşullu durum güncellemeleri için izinli kaynak durumlar.
func allowedFrom(action EnvelopeAction) []models.EnvelopeStatus {
	return envelopeTransitions[action]
}

// CanComplete tüm imzacılar imzalamadan zarf tamamlanamaz. İmzacısı olmayan zarf da tamamlanamaz.
func CanComplete(recipients []models.Recipient) bool {
	signers := 0
	for _, r := range recipients {
		if !r.IsSigner() {
			continue
		}
		signers++
		if r.Status != models.RecipientStatusSigned {
			return false
		}
	}
	return signers > 0
}

package services

import (
	"context"
	"errors"
	"fmt"

	"eventregistry/internal/domain"
)

// projectRegistration flattens a registration link and its participant
// identity into a ParticipantView. A missing identity or payment method
// here means the stored data is inconsistent, so both surface as
// ErrIntegrity rather than a not-found condition.
func projectRegistration(ctx context.Context, reg *domain.Registration, participantRepo domain.ParticipantRepository, paymentMethodRepo domain.PaymentMethodRepository) (*domain.ParticipantView, error) {
	participant, err := participantRepo.GetByID(ctx, reg.ParticipantID)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, fmt.Errorf("%w: registration (%s, %s) references a missing participant", domain.ErrIntegrity, reg.EventID, reg.ParticipantID)
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	method, err := paymentMethodRepo.GetByID(ctx, reg.PaymentMethodID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentMethodNotFound) {
			return nil, fmt.Errorf("%w: registration (%s, %s) references missing payment method %d", domain.ErrIntegrity, reg.EventID, reg.ParticipantID, reg.PaymentMethodID)
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}

	view := &domain.ParticipantView{
		ParticipantID: participant.ID,
		EventID:       reg.EventID,
		Kind:          participant.Kind,
		PaymentMethod: method.Name,
		Note:          reg.Note,
		Email:         reg.Email,
	}
	switch participant.Kind {
	case domain.KindIndividual:
		view.FirstName = participant.FirstName
		view.LastName = participant.LastName
		view.PersonalCode = participant.PersonalCode
	case domain.KindCompany:
		view.LegalName = participant.LegalName
		view.RegistryCode = participant.RegistryCode
		view.Headcount = reg.Headcount
	default:
		return nil, fmt.Errorf("%w: participant %s has unknown kind %q", domain.ErrIntegrity, participant.ID, participant.Kind)
	}
	return view, nil
}

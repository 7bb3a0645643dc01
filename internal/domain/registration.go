package domain

import (
	"context"
	"fmt"
	"time"
)

// Note limits per registration variant.
const (
	IndividualNoteMaxLen = 1500
	CompanyNoteMaxLen    = 5000
)

// Registration is the link between an event and a participant identity.
// The (EventID, ParticipantID) pair is unique: a given identity holds at
// most one registration per event. Headcount belongs to the link, never to
// the company identity, and is zero for individuals.
// swagger:model Registration
type Registration struct {
	EventID         string    `json:"event_id"`
	ParticipantID   string    `json:"participant_id"`
	PaymentMethodID int       `json:"payment_method_id"`
	Note            string    `json:"note,omitempty"`
	Headcount       int       `json:"headcount,omitempty"`
	Email           string    `json:"email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewRegistration validates the per-link fields for the given participant
// kind and returns a new link.
func NewRegistration(eventID, participantID string, kind ParticipantKind, paymentMethodID int, note string, headcount int, email string, now time.Time) (*Registration, error) {
	if err := ValidateRegistrationFields(kind, note, headcount); err != nil {
		return nil, err
	}
	return &Registration{
		EventID:         eventID,
		ParticipantID:   participantID,
		PaymentMethodID: paymentMethodID,
		Note:            note,
		Headcount:       headcount,
		Email:           email,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}, nil
}

// ValidateRegistrationFields checks the per-link fields against the limits
// of the given participant kind.
func ValidateRegistrationFields(kind ParticipantKind, note string, headcount int) error {
	switch kind {
	case KindIndividual:
		if len(note) > IndividualNoteMaxLen {
			return fmt.Errorf("%w: note cannot exceed %d characters", ErrInvalidInput, IndividualNoteMaxLen)
		}
		if headcount != 0 {
			return fmt.Errorf("%w: headcount applies to company registrations only", ErrInvalidInput)
		}
	case KindCompany:
		if len(note) > CompanyNoteMaxLen {
			return fmt.Errorf("%w: note cannot exceed %d characters", ErrInvalidInput, CompanyNoteMaxLen)
		}
		if headcount < 1 {
			return fmt.Errorf("%w: headcount must be at least 1", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown participant kind %q", ErrInvalidInput, kind)
	}
	return nil
}

// RegistrationRepository defines storage operations for registration links.
// Create must surface the storage-level (event_id, participant_id)
// uniqueness violation as ErrDuplicateRegistration so concurrent duplicate
// submissions race safely to exactly one winner.
type RegistrationRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]*Registration, error)
	GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*Registration, error)
	Create(ctx context.Context, reg *Registration) error
	Update(ctx context.Context, reg *Registration) error
	Delete(ctx context.Context, eventID, participantID string) error
}

// IndividualRegistration carries the input for registering an individual.
type IndividualRegistration struct {
	EventID         string
	FirstName       string
	LastName        string
	PersonalCode    string
	PaymentMethodID int
	Note            string
	Email           string
}

// CompanyRegistration carries the input for registering a company.
type CompanyRegistration struct {
	EventID         string
	LegalName       string
	RegistryCode    string
	Headcount       int
	PaymentMethodID int
	Note            string
	Email           string
}

// RegistrationService is the registration engine: identity resolution,
// deduplication, and lifecycle-guarded mutation of links. All mutating
// operations fail with ErrEventClosed once the event has started.
type RegistrationService interface {
	RegisterIndividual(ctx context.Context, in IndividualRegistration) (*Registration, error)
	RegisterCompany(ctx context.Context, in CompanyRegistration) (*Registration, error)
	GetRegistration(ctx context.Context, eventID, participantID string) (*ParticipantView, error)
	UpdateIndividualRegistration(ctx context.Context, eventID, participantID string, in IndividualRegistration) error
	UpdateCompanyRegistration(ctx context.Context, eventID, participantID string, in CompanyRegistration) error
	// DeleteRegistration removes only the link; the participant identity
	// remains and may be linked to other events.
	DeleteRegistration(ctx context.Context, eventID, participantID string) error
	ListPaymentMethods(ctx context.Context) ([]*PaymentMethod, error)
	// Lookup* return the stored identity for a code so registration forms
	// can prefill known participants.
	LookupIndividual(ctx context.Context, personalCode string) (*Participant, error)
	LookupCompany(ctx context.Context, registryCode string) (*Participant, error)
}

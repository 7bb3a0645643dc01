package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParticipantKind discriminates the two participant variants.
type ParticipantKind string

const (
	KindIndividual ParticipantKind = "individual"
	KindCompany    ParticipantKind = "company"
)

// Field limits for participants.
const (
	PersonNameMaxLen = 100
	LegalNameMaxLen  = 200
)

var (
	// Estonian personal identification code: century/sex digit 3-6
	// followed by ten digits.
	personalCodeRegex = regexp.MustCompile(`^[3-6]\d{10}$`)
	// Estonian company registry code: exactly eight digits.
	registryCodeRegex = regexp.MustCompile(`^\d{8}$`)
)

// ValidPersonalCode reports whether code is a well-formed personal
// identification code. Exact match, no normalization.
func ValidPersonalCode(code string) bool {
	return personalCodeRegex.MatchString(code)
}

// ValidRegistryCode reports whether code is a well-formed company registry
// code.
func ValidRegistryCode(code string) bool {
	return registryCodeRegex.MatchString(code)
}

// Participant is the deduplicated identity record of an individual or a
// company, modeled as a tagged union. Individual fields are set iff Kind is
// KindIndividual, company fields iff Kind is KindCompany. At most one
// Participant exists per distinct personal code and per distinct registry
// code system-wide.
// swagger:model Participant
type Participant struct {
	ID   string          `json:"id"`
	Kind ParticipantKind `json:"kind"`

	// Individual variant.
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	PersonalCode string `json:"personal_code,omitempty"`

	// Company variant.
	LegalName    string `json:"legal_name,omitempty"`
	RegistryCode string `json:"registry_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewIndividual validates and constructs an individual identity with a
// fresh ID.
func NewIndividual(firstName, lastName, personalCode string, now time.Time) (*Participant, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if err := validatePersonName(firstName, "first name"); err != nil {
		return nil, err
	}
	if err := validatePersonName(lastName, "last name"); err != nil {
		return nil, err
	}
	if !ValidPersonalCode(personalCode) {
		return nil, fmt.Errorf("%w: invalid personal identification code", ErrInvalidInput)
	}
	return &Participant{
		ID:           uuid.NewString(),
		Kind:         KindIndividual,
		FirstName:    firstName,
		LastName:     lastName,
		PersonalCode: personalCode,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}, nil
}

// ValidateLegalName checks the length bounds for a company legal name.
// Applies to creation and to name refreshes on an existing identity alike.
func ValidateLegalName(name string) error {
	if name == "" || len(name) > LegalNameMaxLen {
		return fmt.Errorf("%w: legal name must be between 1 and %d characters", ErrInvalidInput, LegalNameMaxLen)
	}
	return nil
}

// NewCompany validates and constructs a company identity with a fresh ID.
func NewCompany(legalName, registryCode string, now time.Time) (*Participant, error) {
	legalName = strings.TrimSpace(legalName)
	if err := ValidateLegalName(legalName); err != nil {
		return nil, err
	}
	if !ValidRegistryCode(registryCode) {
		return nil, fmt.Errorf("%w: invalid registry code", ErrInvalidInput)
	}
	return &Participant{
		ID:           uuid.NewString(),
		Kind:         KindCompany,
		LegalName:    legalName,
		RegistryCode: registryCode,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}, nil
}

// Code returns the identity code for the participant's variant.
func (p *Participant) Code() string {
	if p.Kind == KindCompany {
		return p.RegistryCode
	}
	return p.PersonalCode
}

func validatePersonName(name, field string) error {
	if name == "" || len(name) > PersonNameMaxLen {
		return fmt.Errorf("%w: %s must be between 1 and %d characters", ErrInvalidInput, field, PersonNameMaxLen)
	}
	return nil
}

// ParticipantRepository defines storage operations for participant
// identities. Find* lookups match codes exactly and return
// ErrParticipantNotFound when no identity exists for the code.
type ParticipantRepository interface {
	GetByID(ctx context.Context, id string) (*Participant, error)
	FindIndividualByCode(ctx context.Context, personalCode string) (*Participant, error)
	FindCompanyByCode(ctx context.Context, registryCode string) (*Participant, error)
	Create(ctx context.Context, p *Participant) error
	Update(ctx context.Context, p *Participant) error
}

// ParticipantView is the flattened projection of a registration link and
// its participant identity, discriminated by Kind.
// swagger:model ParticipantView
type ParticipantView struct {
	ParticipantID string          `json:"participant_id"`
	EventID       string          `json:"event_id"`
	Kind          ParticipantKind `json:"kind"`

	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	PersonalCode string `json:"personal_code,omitempty"`

	LegalName    string `json:"legal_name,omitempty"`
	RegistryCode string `json:"registry_code,omitempty"`
	Headcount    int    `json:"headcount,omitempty"`

	PaymentMethod string `json:"payment_method"`
	Note          string `json:"note,omitempty"`
	Email         string `json:"email,omitempty"`
}

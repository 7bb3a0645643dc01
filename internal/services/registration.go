package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eventregistry/internal/domain"
)

type registrationService struct {
	eventRepo         domain.EventRepository
	participantRepo   domain.ParticipantRepository
	registrationRepo  domain.RegistrationRepository
	paymentMethodRepo domain.PaymentMethodRepository
	emailService      domain.EmailService
	clock             domain.Clock
	contextTimeout    time.Duration
}

// NewRegistrationService creates the registration engine with the given
// repositories, confirmation email service, and clock.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	registrationRepo domain.RegistrationRepository,
	paymentMethodRepo domain.PaymentMethodRepository,
	emailService domain.EmailService,
	clock domain.Clock,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:         eventRepo,
		participantRepo:   participantRepo,
		registrationRepo:  registrationRepo,
		paymentMethodRepo: paymentMethodRepo,
		emailService:      emailService,
		clock:             clock,
		contextTimeout:    timeout,
	}
}

func (s *registrationService) RegisterIndividual(ctx context.Context, in domain.IndividualRegistration) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	event, method, err := s.checkEventAndPayment(ctx, in.EventID, in.PaymentMethodID, now)
	if err != nil {
		return nil, err
	}

	participant, err := s.resolveIndividual(ctx, in, now)
	if err != nil {
		return nil, err
	}

	reg, err := s.createLink(ctx, event, participant, in.PaymentMethodID, in.Note, 0, in.Email, now)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, event, method, participant.FirstName+" "+participant.LastName, in.Email)
	return reg, nil
}

func (s *registrationService) RegisterCompany(ctx context.Context, in domain.CompanyRegistration) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	event, method, err := s.checkEventAndPayment(ctx, in.EventID, in.PaymentMethodID, now)
	if err != nil {
		return nil, err
	}

	participant, err := s.resolveCompany(ctx, in, now)
	if err != nil {
		return nil, err
	}

	reg, err := s.createLink(ctx, event, participant, in.PaymentMethodID, in.Note, in.Headcount, in.Email, now)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, event, method, participant.LegalName, in.Email)
	return reg, nil
}

// checkEventAndPayment verifies the target event exists and is still open
// and that the chosen payment method exists.
func (s *registrationService) checkEventAndPayment(ctx context.Context, eventID string, paymentMethodID int, now time.Time) (*domain.Event, *domain.PaymentMethod, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, nil, domain.ErrEventNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsOpen(now) {
		return nil, nil, domain.ErrEventClosed
	}
	method, err := s.paymentMethodRepo.GetByID(ctx, paymentMethodID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentMethodNotFound) {
			return nil, nil, domain.ErrPaymentMethodNotFound
		}
		return nil, nil, fmt.Errorf("get payment method: %w", err)
	}
	return event, method, nil
}

// resolveIndividual finds the identity for the personal code or creates a
// new one. A lost creation race against a concurrent registration falls
// back to the winner's row, so exactly one identity exists per code.
func (s *registrationService) resolveIndividual(ctx context.Context, in domain.IndividualRegistration, now time.Time) (*domain.Participant, error) {
	existing, err := s.participantRepo.FindIndividualByCode(ctx, in.PersonalCode)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrParticipantNotFound) {
		return nil, fmt.Errorf("find individual by code: %w", err)
	}

	participant, err := domain.NewIndividual(in.FirstName, in.LastName, in.PersonalCode, now)
	if err != nil {
		return nil, err
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if errors.Is(err, domain.ErrDuplicateParticipantCode) {
			return s.participantRepo.FindIndividualByCode(ctx, in.PersonalCode)
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return participant, nil
}

// resolveCompany finds the identity for the registry code or creates a new
// one. An existing company's legal name is refreshed when it has changed;
// the per-event headcount never touches the identity.
func (s *registrationService) resolveCompany(ctx context.Context, in domain.CompanyRegistration, now time.Time) (*domain.Participant, error) {
	existing, err := s.participantRepo.FindCompanyByCode(ctx, in.RegistryCode)
	if err == nil {
		if name := strings.TrimSpace(in.LegalName); name != existing.LegalName {
			if err := domain.ValidateLegalName(name); err != nil {
				return nil, err
			}
			existing.LegalName = name
			existing.UpdatedAt = now
			if err := s.participantRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update participant: %w", err)
			}
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrParticipantNotFound) {
		return nil, fmt.Errorf("find company by code: %w", err)
	}

	participant, err := domain.NewCompany(in.LegalName, in.RegistryCode, now)
	if err != nil {
		return nil, err
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if errors.Is(err, domain.ErrDuplicateParticipantCode) {
			return s.participantRepo.FindCompanyByCode(ctx, in.RegistryCode)
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return participant, nil
}

// createLink rejects a duplicate (event, participant) pair and persists the
// registration. The storage-level unique constraint backs the same check,
// so a concurrent duplicate surfaces as ErrDuplicateRegistration from
// Create rather than succeeding twice.
func (s *registrationService) createLink(ctx context.Context, event *domain.Event, participant *domain.Participant, paymentMethodID int, note string, headcount int, email string, now time.Time) (*domain.Registration, error) {
	if _, err := s.registrationRepo.GetByEventAndParticipant(ctx, event.ID, participant.ID); err == nil {
		return nil, domain.ErrDuplicateRegistration
	} else if !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	reg, err := domain.NewRegistration(event.ID, participant.ID, participant.Kind, paymentMethodID, note, headcount, email, now)
	if err != nil {
		return nil, err
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) sendConfirmation(ctx context.Context, event *domain.Event, method *domain.PaymentMethod, name, email string) {
	if s.emailService == nil || email == "" {
		return
	}
	data := &domain.RegistrationConfirmationEmailData{
		Email:           email,
		ParticipantName: name,
		EventName:       event.Name,
		EventTime:       event.ScheduledAt.Format(time.RFC1123),
		EventLocation:   event.Location,
	}
	// Confirmation is best effort; a mail failure never fails the registration.
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		log.Printf("[EMAIL] Failed to send registration confirmation to %s: %v", email, err)
	}
}

func (s *registrationService) GetRegistration(ctx context.Context, eventID, participantID string) (*domain.ParticipantView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByEventAndParticipant(ctx, eventID, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return projectRegistration(ctx, reg, s.participantRepo, s.paymentMethodRepo)
}

func (s *registrationService) UpdateIndividualRegistration(ctx context.Context, eventID, participantID string, in domain.IndividualRegistration) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, participant, err := s.checkUpdate(ctx, eventID, participantID, domain.KindIndividual, in.PaymentMethodID)
	if err != nil {
		return err
	}
	if err := domain.ValidateRegistrationFields(domain.KindIndividual, in.Note, 0); err != nil {
		return err
	}
	updated, err := domain.NewIndividual(in.FirstName, in.LastName, in.PersonalCode, s.clock.Now())
	if err != nil {
		return err
	}

	now := s.clock.Now()
	participant.FirstName = updated.FirstName
	participant.LastName = updated.LastName
	participant.PersonalCode = updated.PersonalCode
	participant.UpdatedAt = now
	if err := s.participantRepo.Update(ctx, participant); err != nil {
		if errors.Is(err, domain.ErrDuplicateParticipantCode) {
			return domain.ErrDuplicateParticipantCode
		}
		return fmt.Errorf("update participant: %w", err)
	}

	reg.PaymentMethodID = in.PaymentMethodID
	reg.Note = in.Note
	reg.Email = in.Email
	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

func (s *registrationService) UpdateCompanyRegistration(ctx context.Context, eventID, participantID string, in domain.CompanyRegistration) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, participant, err := s.checkUpdate(ctx, eventID, participantID, domain.KindCompany, in.PaymentMethodID)
	if err != nil {
		return err
	}
	if err := domain.ValidateRegistrationFields(domain.KindCompany, in.Note, in.Headcount); err != nil {
		return err
	}
	updated, err := domain.NewCompany(in.LegalName, in.RegistryCode, s.clock.Now())
	if err != nil {
		return err
	}

	now := s.clock.Now()
	participant.LegalName = updated.LegalName
	participant.RegistryCode = updated.RegistryCode
	participant.UpdatedAt = now
	if err := s.participantRepo.Update(ctx, participant); err != nil {
		if errors.Is(err, domain.ErrDuplicateParticipantCode) {
			return domain.ErrDuplicateParticipantCode
		}
		return fmt.Errorf("update participant: %w", err)
	}

	reg.PaymentMethodID = in.PaymentMethodID
	reg.Note = in.Note
	reg.Headcount = in.Headcount
	reg.Email = in.Email
	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// checkUpdate loads the link and its participant, verifies the stored
// variant matches the submitted payload's variant, and applies the
// lifecycle guard and payment method check.
func (s *registrationService) checkUpdate(ctx context.Context, eventID, participantID string, kind domain.ParticipantKind, paymentMethodID int) (*domain.Registration, *domain.Participant, error) {
	reg, err := s.registrationRepo.GetByEventAndParticipant(ctx, eventID, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, nil, domain.ErrRegistrationNotFound
		}
		return nil, nil, fmt.Errorf("get registration: %w", err)
	}

	participant, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, nil, fmt.Errorf("%w: registration (%s, %s) references a missing participant", domain.ErrIntegrity, eventID, participantID)
		}
		return nil, nil, fmt.Errorf("get participant: %w", err)
	}
	if participant.Kind != kind {
		return nil, nil, domain.ErrParticipantTypeMismatch
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, nil, fmt.Errorf("%w: registration (%s, %s) references a missing event", domain.ErrIntegrity, eventID, participantID)
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsOpen(s.clock.Now()) {
		return nil, nil, domain.ErrEventClosed
	}

	if _, err := s.paymentMethodRepo.GetByID(ctx, paymentMethodID); err != nil {
		if errors.Is(err, domain.ErrPaymentMethodNotFound) {
			return nil, nil, domain.ErrPaymentMethodNotFound
		}
		return nil, nil, fmt.Errorf("get payment method: %w", err)
	}
	return reg, participant, nil
}

func (s *registrationService) DeleteRegistration(ctx context.Context, eventID, participantID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.registrationRepo.GetByEventAndParticipant(ctx, eventID, participantID); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return domain.ErrRegistrationNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return fmt.Errorf("%w: registration (%s, %s) references a missing event", domain.ErrIntegrity, eventID, participantID)
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !event.IsOpen(s.clock.Now()) {
		return domain.ErrEventClosed
	}

	// Only the link is removed; the identity may be registered elsewhere.
	if err := s.registrationRepo.Delete(ctx, eventID, participantID); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return domain.ErrRegistrationNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationService) LookupIndividual(ctx context.Context, personalCode string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.participantRepo.FindIndividualByCode(ctx, personalCode)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("find individual by code: %w", err)
	}
	return p, nil
}

func (s *registrationService) LookupCompany(ctx context.Context, registryCode string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.participantRepo.FindCompanyByCode(ctx, registryCode)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("find company by code: %w", err)
	}
	return p, nil
}

func (s *registrationService) ListPaymentMethods(ctx context.Context) ([]*domain.PaymentMethod, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	methods, err := s.paymentMethodRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	if methods == nil {
		methods = []*domain.PaymentMethod{}
	}
	return methods, nil
}

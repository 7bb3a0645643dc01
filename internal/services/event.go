package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventregistry/internal/domain"
)

type eventService struct {
	eventRepo         domain.EventRepository
	registrationRepo  domain.RegistrationRepository
	participantRepo   domain.ParticipantRepository
	paymentMethodRepo domain.PaymentMethodRepository
	clock             domain.Clock
	contextTimeout    time.Duration
}

// NewEventService creates an EventService with the given repositories and
// clock.
func NewEventService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	participantRepo domain.ParticipantRepository,
	paymentMethodRepo domain.PaymentMethodRepository,
	clock domain.Clock,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:         eventRepo,
		registrationRepo:  registrationRepo,
		participantRepo:   participantRepo,
		paymentMethodRepo: paymentMethodRepo,
		clock:             clock,
		contextTimeout:    timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, name string, scheduledAt time.Time, location, note string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := domain.NewEvent(name, scheduledAt, location, note, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	regs, err := s.registrationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	views := make([]*domain.ParticipantView, 0, len(regs))
	total := 0
	for _, reg := range regs {
		view, err := projectRegistration(ctx, reg, s.participantRepo, s.paymentMethodRepo)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
		if view.Kind == domain.KindCompany {
			total += view.Headcount
		} else {
			total++
		}
	}

	return &domain.EventDetail{
		Event:          event,
		Participants:   views,
		TotalAttendees: total,
	}, nil
}

func (s *eventService) ListUpcomingEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListUpcoming(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListPastEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListPast(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list past events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, name string, scheduledAt time.Time, location, note string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := s.clock.Now()
	if !event.IsOpen(now) {
		return nil, domain.ErrEventClosed
	}
	if err := event.UpdateDetails(name, scheduledAt, location, note, now); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !event.IsOpen(s.clock.Now()) {
		return domain.ErrEventClosed
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field limits for events.
const (
	EventNameMinLen = 3
	EventNameMaxLen = 100
	LocationMinLen  = 3
	LocationMaxLen  = 100
	EventNoteMaxLen = 1000
)

// Event represents a scheduled happening with a future-validated time.
// ScheduledAt is stored in UTC; conversion to a display zone is strictly a
// presentation concern.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent validates the fields against the given current time and returns
// a new Event with a fresh ID. The scheduled time must be strictly in the
// future; an event scheduled exactly at now is rejected.
func NewEvent(name string, scheduledAt time.Time, location, note string, now time.Time) (*Event, error) {
	if err := validateEventFields(name, scheduledAt, location, note, now); err != nil {
		return nil, err
	}
	return &Event{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		ScheduledAt: scheduledAt.UTC(),
		Location:    strings.TrimSpace(location),
		Note:        note,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// UpdateDetails re-validates and overwrites all four mutable fields. On
// validation failure the event is left unchanged.
func (e *Event) UpdateDetails(name string, scheduledAt time.Time, location, note string, now time.Time) error {
	if err := validateEventFields(name, scheduledAt, location, note, now); err != nil {
		return err
	}
	e.Name = strings.TrimSpace(name)
	e.ScheduledAt = scheduledAt.UTC()
	e.Location = strings.TrimSpace(location)
	e.Note = note
	e.UpdatedAt = now.UTC()
	return nil
}

// IsOpen reports whether the event may still be mutated: true iff the
// scheduled time is strictly after now. Both sides are compared in UTC.
func (e *Event) IsOpen(now time.Time) bool {
	return e.ScheduledAt.After(now.UTC())
}

func validateEventFields(name string, scheduledAt time.Time, location, note string, now time.Time) error {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if l := len(name); l < EventNameMinLen || l > EventNameMaxLen {
		return fmt.Errorf("%w: event name must be between %d and %d characters", ErrInvalidInput, EventNameMinLen, EventNameMaxLen)
	}
	if l := len(location); l < LocationMinLen || l > LocationMaxLen {
		return fmt.Errorf("%w: location must be between %d and %d characters", ErrInvalidInput, LocationMinLen, LocationMaxLen)
	}
	if len(note) > EventNoteMaxLen {
		return fmt.Errorf("%w: note cannot exceed %d characters", ErrInvalidInput, EventNoteMaxLen)
	}
	if !scheduledAt.UTC().After(now.UTC()) {
		return ErrPastEventTime
	}
	return nil
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]*Event, error)
	ListPast(ctx context.Context, now time.Time) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventDetail bundles an event with its projected registrations.
type EventDetail struct {
	Event        *Event             `json:"event"`
	Participants []*ParticipantView `json:"participants"`
	// TotalAttendees counts individuals as one and companies by their
	// registered headcount.
	TotalAttendees int `json:"total_attendees"`
}

// EventService defines event-facing operations.
type EventService interface {
	CreateEvent(ctx context.Context, name string, scheduledAt time.Time, location, note string) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*EventDetail, error)
	ListUpcomingEvents(ctx context.Context) ([]*Event, error)
	ListPastEvents(ctx context.Context) ([]*Event, error)
	// UpdateEvent overwrites name, time, location, and note. Fails with
	// ErrEventClosed once the event has started.
	UpdateEvent(ctx context.Context, eventID, name string, scheduledAt time.Time, location, note string) (*Event, error)
	// DeleteEvent removes a future event and its registrations.
	DeleteEvent(ctx context.Context, eventID string) error
}

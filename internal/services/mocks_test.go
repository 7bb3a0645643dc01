package services

import (
	"context"
	"time"

	"eventregistry/internal/domain"
)

// fixedClock returns a constant time so lifecycle checks are deterministic.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type memEventRepo struct {
	events map[string]*domain.Event
	err    error
}

func newMemEventRepo(events ...*domain.Event) *memEventRepo {
	m := &memEventRepo{events: make(map[string]*domain.Event)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *memEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events[e.ID] = e
	return nil
}

func (m *memEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

func (m *memEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

func (m *memEventRepo) ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Event
	for _, e := range m.events {
		if e.ScheduledAt.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEventRepo) ListPast(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Event
	for _, e := range m.events {
		if !e.ScheduledAt.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	m.events[e.ID] = e
	return nil
}

func (m *memEventRepo) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

type memParticipantRepo struct {
	participants map[string]*domain.Participant
	createErr    error
	// findMisses forces the next n code lookups to miss, so a lost
	// creation race can be simulated against a seeded participant.
	findMisses int
}

func newMemParticipantRepo(participants ...*domain.Participant) *memParticipantRepo {
	m := &memParticipantRepo{participants: make(map[string]*domain.Participant)}
	for _, p := range participants {
		m.participants[p.ID] = p
	}
	return m
}

func (m *memParticipantRepo) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	p, ok := m.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return p, nil
}

func (m *memParticipantRepo) FindIndividualByCode(ctx context.Context, code string) (*domain.Participant, error) {
	if m.findMisses > 0 {
		m.findMisses--
		return nil, domain.ErrParticipantNotFound
	}
	for _, p := range m.participants {
		if p.Kind == domain.KindIndividual && p.PersonalCode == code {
			return p, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

func (m *memParticipantRepo) FindCompanyByCode(ctx context.Context, code string) (*domain.Participant, error) {
	if m.findMisses > 0 {
		m.findMisses--
		return nil, domain.ErrParticipantNotFound
	}
	for _, p := range m.participants {
		if p.Kind == domain.KindCompany && p.RegistryCode == code {
			return p, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

func (m *memParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.participants {
		if existing.Kind == p.Kind && existing.Code() == p.Code() {
			return domain.ErrDuplicateParticipantCode
		}
	}
	m.participants[p.ID] = p
	return nil
}

func (m *memParticipantRepo) Update(ctx context.Context, p *domain.Participant) error {
	if _, ok := m.participants[p.ID]; !ok {
		return domain.ErrParticipantNotFound
	}
	m.participants[p.ID] = p
	return nil
}

type memRegistrationRepo struct {
	links map[string]*domain.Registration
	err   error
}

func newMemRegistrationRepo() *memRegistrationRepo {
	return &memRegistrationRepo{links: make(map[string]*domain.Registration)}
}

func linkKey(eventID, participantID string) string {
	return eventID + "|" + participantID
}

func (m *memRegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Registration
	for _, reg := range m.links {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (m *memRegistrationRepo) GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	reg, ok := m.links[linkKey(eventID, participantID)]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return reg, nil
}

func (m *memRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if m.err != nil {
		return m.err
	}
	key := linkKey(reg.EventID, reg.ParticipantID)
	// Mirrors the storage-level composite uniqueness constraint.
	if _, ok := m.links[key]; ok {
		return domain.ErrDuplicateRegistration
	}
	m.links[key] = reg
	return nil
}

func (m *memRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	key := linkKey(reg.EventID, reg.ParticipantID)
	if _, ok := m.links[key]; !ok {
		return domain.ErrRegistrationNotFound
	}
	m.links[key] = reg
	return nil
}

func (m *memRegistrationRepo) Delete(ctx context.Context, eventID, participantID string) error {
	key := linkKey(eventID, participantID)
	if _, ok := m.links[key]; !ok {
		return domain.ErrRegistrationNotFound
	}
	delete(m.links, key)
	return nil
}

type memPaymentMethodRepo struct {
	methods map[int]*domain.PaymentMethod
}

func newMemPaymentMethodRepo() *memPaymentMethodRepo {
	return &memPaymentMethodRepo{methods: map[int]*domain.PaymentMethod{
		1: {ID: 1, Name: "Sularaha"},
		2: {ID: 2, Name: "Pangaülekanne"},
	}}
}

func (m *memPaymentMethodRepo) GetByID(ctx context.Context, id int) (*domain.PaymentMethod, error) {
	method, ok := m.methods[id]
	if !ok {
		return nil, domain.ErrPaymentMethodNotFound
	}
	return method, nil
}

func (m *memPaymentMethodRepo) List(ctx context.Context) ([]*domain.PaymentMethod, error) {
	var out []*domain.PaymentMethod
	for id := 1; id <= len(m.methods); id++ {
		out = append(out, m.methods[id])
	}
	return out, nil
}

type memEmailService struct {
	sent []*domain.RegistrationConfirmationEmailData
	err  error
}

func (m *memEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, data)
	return nil
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventregistry/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type registrationFixture struct {
	events       *memEventRepo
	participants *memParticipantRepo
	links        *memRegistrationRepo
	methods      *memPaymentMethodRepo
	emails       *memEmailService
	svc          domain.RegistrationService
	event        *domain.Event
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	event, err := domain.NewEvent("Conference", testNow.Add(7*24*time.Hour), "Tallinn", "", testNow)
	require.NoError(t, err)

	f := &registrationFixture{
		events:       newMemEventRepo(event),
		participants: newMemParticipantRepo(),
		links:        newMemRegistrationRepo(),
		methods:      newMemPaymentMethodRepo(),
		emails:       &memEmailService{},
		event:        event,
	}
	f.svc = NewRegistrationService(f.events, f.participants, f.links, f.methods, f.emails, fixedClock{testNow}, time.Second)
	return f
}

func individualInput(eventID string) domain.IndividualRegistration {
	return domain.IndividualRegistration{
		EventID:         eventID,
		FirstName:       "Mari",
		LastName:        "Maasikas",
		PersonalCode:    "39001011234",
		PaymentMethodID: 1,
	}
}

func companyInput(eventID string) domain.CompanyRegistration {
	return domain.CompanyRegistration{
		EventID:         eventID,
		LegalName:       "OÜ Näide",
		RegistryCode:    "12345678",
		Headcount:       5,
		PaymentMethodID: 2,
	}
}

func TestRegisterIndividual(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)
	require.Equal(t, f.event.ID, reg.EventID)
	require.Equal(t, 1, reg.PaymentMethodID)
	require.Zero(t, reg.Headcount)

	stored, err := f.participants.FindIndividualByCode(ctx, "39001011234")
	require.NoError(t, err)
	require.Equal(t, stored.ID, reg.ParticipantID)
}

func TestRegisterIndividual_EventNotFound(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.svc.RegisterIndividual(context.Background(), individualInput("11111111-1111-1111-1111-111111111111"))
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestRegisterIndividual_PaymentMethodNotFound(t *testing.T) {
	f := newRegistrationFixture(t)

	in := individualInput(f.event.ID)
	in.PaymentMethodID = 99
	_, err := f.svc.RegisterIndividual(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
}

func TestRegisterIndividual_EventClosed(t *testing.T) {
	f := newRegistrationFixture(t)
	// Simulate elapsed time by moving the stored event into the past.
	f.event.ScheduledAt = testNow.Add(-24 * time.Hour)

	_, err := f.svc.RegisterIndividual(context.Background(), individualInput(f.event.ID))
	require.ErrorIs(t, err, domain.ErrEventClosed)
}

func TestRegisterIndividual_Duplicate(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	_, err = f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.ErrorIs(t, err, domain.ErrDuplicateRegistration)

	regs, err := f.links.ListByEvent(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, regs, 1)
}

func TestRegisterIndividual_SameCodeTwoEvents_SharesIdentity(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	second, err := domain.NewEvent("Workshop", testNow.Add(48*time.Hour), "Tartu", "", testNow)
	require.NoError(t, err)
	require.NoError(t, f.events.Create(ctx, second))

	first, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)
	other, err := f.svc.RegisterIndividual(ctx, individualInput(second.ID))
	require.NoError(t, err)

	require.Equal(t, first.ParticipantID, other.ParticipantID, "one identity shared across events")
	require.NotEqual(t, first.EventID, other.EventID)
	require.Len(t, f.participants.participants, 1)
}

func TestRegisterIndividual_LostIdentityCreationRace(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	// A concurrent request created the identity between the lookup and the
	// insert; the repo reports the unique-code violation and the engine
	// falls back to the winner's row.
	winner, err := domain.NewIndividual("Mari", "Maasikas", "39001011234", testNow)
	require.NoError(t, err)
	f.participants.participants[winner.ID] = winner
	f.participants.findMisses = 1
	f.participants.createErr = domain.ErrDuplicateParticipantCode

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)
	require.Equal(t, winner.ID, reg.ParticipantID)
}

func TestRegisterIndividual_SendsConfirmationEmail(t *testing.T) {
	f := newRegistrationFixture(t)

	in := individualInput(f.event.ID)
	in.Email = "mari@example.com"
	_, err := f.svc.RegisterIndividual(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, f.emails.sent, 1)
	require.Equal(t, "mari@example.com", f.emails.sent[0].Email)
	require.Equal(t, "Conference", f.emails.sent[0].EventName)
}

func TestRegisterIndividual_EmailFailureDoesNotFailRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	f.emails.err = context.DeadlineExceeded

	in := individualInput(f.event.ID)
	in.Email = "mari@example.com"
	_, err := f.svc.RegisterIndividual(context.Background(), in)
	require.NoError(t, err)
}

func TestRegisterCompany(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterCompany(ctx, companyInput(f.event.ID))
	require.NoError(t, err)
	require.Equal(t, 5, reg.Headcount)

	stored, err := f.participants.FindCompanyByCode(ctx, "12345678")
	require.NoError(t, err)
	require.Equal(t, stored.ID, reg.ParticipantID)
	require.Equal(t, "OÜ Näide", stored.LegalName)
}

func TestRegisterCompany_RefreshesLegalName(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	second, err := domain.NewEvent("Workshop", testNow.Add(48*time.Hour), "Tartu", "", testNow)
	require.NoError(t, err)
	require.NoError(t, f.events.Create(ctx, second))

	first, err := f.svc.RegisterCompany(ctx, companyInput(f.event.ID))
	require.NoError(t, err)

	renamed := companyInput(second.ID)
	renamed.LegalName = "OÜ Näide Uus"
	renamed.Headcount = 2
	other, err := f.svc.RegisterCompany(ctx, renamed)
	require.NoError(t, err)

	require.Equal(t, first.ParticipantID, other.ParticipantID)
	stored, err := f.participants.GetByID(ctx, first.ParticipantID)
	require.NoError(t, err)
	require.Equal(t, "OÜ Näide Uus", stored.LegalName)

	// Headcount stays on each link, never on the identity.
	firstLink, err := f.links.GetByEventAndParticipant(ctx, f.event.ID, first.ParticipantID)
	require.NoError(t, err)
	require.Equal(t, 5, firstLink.Headcount)
	secondLink, err := f.links.GetByEventAndParticipant(ctx, second.ID, first.ParticipantID)
	require.NoError(t, err)
	require.Equal(t, 2, secondLink.Headcount)
}

func TestRegisterCompany_RefreshRejectsInvalidLegalName(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	second, err := domain.NewEvent("Workshop", testNow.Add(48*time.Hour), "Tartu", "", testNow)
	require.NoError(t, err)
	require.NoError(t, f.events.Create(ctx, second))

	first, err := f.svc.RegisterCompany(ctx, companyInput(f.event.ID))
	require.NoError(t, err)

	// The refresh path enforces the same name bounds as creation.
	oversized := companyInput(second.ID)
	oversized.LegalName = strings.Repeat("a", domain.LegalNameMaxLen+1)
	_, err = f.svc.RegisterCompany(ctx, oversized)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := f.participants.GetByID(ctx, first.ParticipantID)
	require.NoError(t, err)
	require.Equal(t, "OÜ Näide", stored.LegalName)

	empty := companyInput(second.ID)
	empty.LegalName = "   "
	_, err = f.svc.RegisterCompany(ctx, empty)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterCompany_InvalidHeadcount(t *testing.T) {
	f := newRegistrationFixture(t)

	in := companyInput(f.event.ID)
	in.Headcount = 0
	_, err := f.svc.RegisterCompany(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterCompany(ctx, companyInput(f.event.ID))
	require.NoError(t, err)

	view, err := f.svc.GetRegistration(ctx, f.event.ID, reg.ParticipantID)
	require.NoError(t, err)
	require.Equal(t, domain.KindCompany, view.Kind)
	require.Equal(t, "OÜ Näide", view.LegalName)
	require.Equal(t, "12345678", view.RegistryCode)
	require.Equal(t, 5, view.Headcount)
	require.Equal(t, "Pangaülekanne", view.PaymentMethod)

	_, err = f.svc.GetRegistration(ctx, f.event.ID, "22222222-2222-2222-2222-222222222222")
	require.ErrorIs(t, err, domain.ErrRegistrationNotFound)
}

func TestGetRegistration_MissingParticipantIsIntegrityError(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	// Corrupt the store: the link survives but the identity row is gone.
	delete(f.participants.participants, reg.ParticipantID)

	_, err = f.svc.GetRegistration(ctx, f.event.ID, reg.ParticipantID)
	require.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestGetRegistration_MissingPaymentMethodIsIntegrityError(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	delete(f.methods.methods, 1)

	_, err = f.svc.GetRegistration(ctx, f.event.ID, reg.ParticipantID)
	require.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestUpdateIndividualRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	in := individualInput(f.event.ID)
	in.FirstName = "Maarja"
	in.PaymentMethodID = 2
	in.Note = "vegetarian"
	require.NoError(t, f.svc.UpdateIndividualRegistration(ctx, f.event.ID, reg.ParticipantID, in))

	view, err := f.svc.GetRegistration(ctx, f.event.ID, reg.ParticipantID)
	require.NoError(t, err)
	require.Equal(t, "Maarja", view.FirstName)
	require.Equal(t, "Pangaülekanne", view.PaymentMethod)
	require.Equal(t, "vegetarian", view.Note)
}

func TestUpdateIndividualRegistration_NotFound(t *testing.T) {
	f := newRegistrationFixture(t)

	err := f.svc.UpdateIndividualRegistration(context.Background(), f.event.ID, "22222222-2222-2222-2222-222222222222", individualInput(f.event.ID))
	require.ErrorIs(t, err, domain.ErrRegistrationNotFound)
}

func TestUpdateRegistration_TypeMismatch(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	individual, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)
	company, err := f.svc.RegisterCompany(ctx, companyInput(f.event.ID))
	require.NoError(t, err)

	err = f.svc.UpdateCompanyRegistration(ctx, f.event.ID, individual.ParticipantID, companyInput(f.event.ID))
	require.ErrorIs(t, err, domain.ErrParticipantTypeMismatch)

	err = f.svc.UpdateIndividualRegistration(ctx, f.event.ID, company.ParticipantID, individualInput(f.event.ID))
	require.ErrorIs(t, err, domain.ErrParticipantTypeMismatch)
}

func TestUpdateRegistration_EventClosed(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	f.event.ScheduledAt = testNow.Add(-time.Hour)
	err = f.svc.UpdateIndividualRegistration(ctx, f.event.ID, reg.ParticipantID, individualInput(f.event.ID))
	require.ErrorIs(t, err, domain.ErrEventClosed)
}

func TestDeleteRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRegistration(ctx, f.event.ID, reg.ParticipantID))

	regs, err := f.links.ListByEvent(ctx, f.event.ID)
	require.NoError(t, err)
	require.Empty(t, regs)

	// The identity survives and a re-registration resolves to it.
	stored, err := f.participants.FindIndividualByCode(ctx, "39001011234")
	require.NoError(t, err)

	again, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)
	require.Equal(t, stored.ID, again.ParticipantID)
}

func TestDeleteRegistration_NotFound(t *testing.T) {
	f := newRegistrationFixture(t)

	err := f.svc.DeleteRegistration(context.Background(), f.event.ID, "22222222-2222-2222-2222-222222222222")
	require.ErrorIs(t, err, domain.ErrRegistrationNotFound)
}

func TestDeleteRegistration_EventClosed(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	f.event.ScheduledAt = testNow.Add(-time.Hour)
	err = f.svc.DeleteRegistration(ctx, f.event.ID, reg.ParticipantID)
	require.ErrorIs(t, err, domain.ErrEventClosed)
}

func TestLookupIndividual(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := f.svc.LookupIndividual(ctx, "39001011234")
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)

	reg, err := f.svc.RegisterIndividual(ctx, individualInput(f.event.ID))
	require.NoError(t, err)

	found, err := f.svc.LookupIndividual(ctx, "39001011234")
	require.NoError(t, err)
	require.Equal(t, reg.ParticipantID, found.ID)
	require.Equal(t, "Mari", found.FirstName)
}

func TestLookupCompany(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.RegisterCompany(ctx, companyInput(f.event.ID))
	require.NoError(t, err)

	found, err := f.svc.LookupCompany(ctx, "12345678")
	require.NoError(t, err)
	require.Equal(t, reg.ParticipantID, found.ID)
	require.Equal(t, "OÜ Näide", found.LegalName)

	_, err = f.svc.LookupCompany(ctx, "87654321")
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestListPaymentMethods(t *testing.T) {
	f := newRegistrationFixture(t)

	methods, err := f.svc.ListPaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 2)
	require.Equal(t, "Sularaha", methods[0].Name)
	require.Equal(t, "Pangaülekanne", methods[1].Name)
}

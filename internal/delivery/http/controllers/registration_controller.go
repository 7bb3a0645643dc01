package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// IndividualRegistrationRequest is the request body for registering or
// updating an individual participant.
type IndividualRegistrationRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PersonalCode    string `json:"personal_code"`
	PaymentMethodID int    `json:"payment_method_id"`
	Note            string `json:"note"`
	Email           string `json:"email"`
}

// Validate implements helpers.Validator.
func (i IndividualRegistrationRequest) Validate() []string {
	var errs []string
	if name := strings.TrimSpace(i.FirstName); name == "" || len(name) > domain.PersonNameMaxLen {
		errs = append(errs, "first_name must be between 1 and 100 characters")
	}
	if name := strings.TrimSpace(i.LastName); name == "" || len(name) > domain.PersonNameMaxLen {
		errs = append(errs, "last_name must be between 1 and 100 characters")
	}
	if !domain.ValidPersonalCode(i.PersonalCode) {
		errs = append(errs, "personal_code must be 11 digits starting with 3-6")
	}
	if i.PaymentMethodID <= 0 {
		errs = append(errs, "payment_method_id is required")
	}
	if len(i.Note) > domain.IndividualNoteMaxLen {
		errs = append(errs, "note cannot exceed 1500 characters")
	}
	if i.Email != "" && !emailRegex.MatchString(i.Email) {
		errs = append(errs, "email must be a valid address")
	}
	return errs
}

// CompanyRegistrationRequest is the request body for registering or
// updating a company participant.
type CompanyRegistrationRequest struct {
	LegalName       string `json:"legal_name"`
	RegistryCode    string `json:"registry_code"`
	Headcount       int    `json:"headcount"`
	PaymentMethodID int    `json:"payment_method_id"`
	Note            string `json:"note"`
	Email           string `json:"email"`
}

// Validate implements helpers.Validator.
func (c CompanyRegistrationRequest) Validate() []string {
	var errs []string
	if name := strings.TrimSpace(c.LegalName); name == "" || len(name) > domain.LegalNameMaxLen {
		errs = append(errs, "legal_name must be between 1 and 200 characters")
	}
	if !domain.ValidRegistryCode(c.RegistryCode) {
		errs = append(errs, "registry_code must be exactly 8 digits")
	}
	if c.Headcount < 1 {
		errs = append(errs, "headcount must be at least 1")
	}
	if c.PaymentMethodID <= 0 {
		errs = append(errs, "payment_method_id is required")
	}
	if len(c.Note) > domain.CompanyNoteMaxLen {
		errs = append(errs, "note cannot exceed 5000 characters")
	}
	if c.Email != "" && !emailRegex.MatchString(c.Email) {
		errs = append(errs, "email must be a valid address")
	}
	return errs
}

// RegistrationSuccessResponse is the success response envelope for registration creation (201).
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegisterIndividual godoc
// @Summary Register an individual for an event
// @Description Registers an individual by personal code. The identity is deduplicated system-wide; a second registration for the same event yields 409.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param registration body IndividualRegistrationRequest true "Registration data"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/individual [post]
func (c *RegistrationController) RegisterIndividual(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req IndividualRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.RegisterIndividual(r.Context(), domain.IndividualRegistration{
		EventID:         eventID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PersonalCode:    req.PersonalCode,
		PaymentMethodID: req.PaymentMethodID,
		Note:            req.Note,
		Email:           req.Email,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// RegisterCompany godoc
// @Summary Register a company for an event
// @Description Registers a company by registry code with a per-event headcount. The identity is deduplicated system-wide; a second registration for the same event yields 409.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param registration body CompanyRegistrationRequest true "Registration data"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/company [post]
func (c *RegistrationController) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req CompanyRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.RegisterCompany(r.Context(), domain.CompanyRegistration{
		EventID:         eventID,
		LegalName:       req.LegalName,
		RegistryCode:    req.RegistryCode,
		Headcount:       req.Headcount,
		PaymentMethodID: req.PaymentMethodID,
		Note:            req.Note,
		Email:           req.Email,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ParticipantViewSuccessResponse is the success response envelope for GET /events/{eventID}/registrations/{participantID}.
type ParticipantViewSuccessResponse struct {
	Data  *domain.ParticipantView `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// GetRegistration godoc
// @Summary Get a registration
// @Description Returns the projected view of one registration: participant fields by kind plus payment method and note.
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param participantID path string true "Participant ID (UUID)"
// @Success 200 {object} controllers.ParticipantViewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/{participantID} [get]
func (c *RegistrationController) GetRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	participantID, ok := pathUUID(w, r, "participantID")
	if !ok {
		return
	}
	view, err := c.Service.GetRegistration(r.Context(), eventID, participantID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateIndividualRegistration godoc
// @Summary Update an individual registration
// @Description Overwrites the individual's identity fields and the registration's payment method, note, and email. Fails with 400 if the stored participant is a company.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param participantID path string true "Participant ID (UUID)"
// @Param registration body IndividualRegistrationRequest true "New registration data"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/{participantID}/individual [put]
func (c *RegistrationController) UpdateIndividualRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	participantID, ok := pathUUID(w, r, "participantID")
	if !ok {
		return
	}
	var req IndividualRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.UpdateIndividualRegistration(r.Context(), eventID, participantID, domain.IndividualRegistration{
		EventID:         eventID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PersonalCode:    req.PersonalCode,
		PaymentMethodID: req.PaymentMethodID,
		Note:            req.Note,
		Email:           req.Email,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "updated"})
}

// UpdateCompanyRegistration godoc
// @Summary Update a company registration
// @Description Overwrites the company's identity fields and the registration's payment method, note, headcount, and email. Fails with 400 if the stored participant is an individual.
// @Tags registrations
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param participantID path string true "Participant ID (UUID)"
// @Param registration body CompanyRegistrationRequest true "New registration data"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/{participantID}/company [put]
func (c *RegistrationController) UpdateCompanyRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	participantID, ok := pathUUID(w, r, "participantID")
	if !ok {
		return
	}
	var req CompanyRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.UpdateCompanyRegistration(r.Context(), eventID, participantID, domain.CompanyRegistration{
		EventID:         eventID,
		LegalName:       req.LegalName,
		RegistryCode:    req.RegistryCode,
		Headcount:       req.Headcount,
		PaymentMethodID: req.PaymentMethodID,
		Note:            req.Note,
		Email:           req.Email,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteRegistration godoc
// @Summary Delete a registration
// @Description Removes only the event-participant link; the participant identity remains for other events.
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param participantID path string true "Participant ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/{participantID} [delete]
func (c *RegistrationController) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	participantID, ok := pathUUID(w, r, "participantID")
	if !ok {
		return
	}
	if err := c.Service.DeleteRegistration(r.Context(), eventID, participantID); err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ParticipantSuccessResponse is the success response envelope for the participant lookup endpoints.
type ParticipantSuccessResponse struct {
	Data  *domain.Participant `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// LookupIndividual godoc
// @Summary Look up an individual by personal code
// @Description Returns the stored individual identity for a personal code, for prefilling registration forms.
// @Tags participants
// @Produce json
// @Param personalCode path string true "Personal identification code"
// @Success 200 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/individual/{personalCode} [get]
func (c *RegistrationController) LookupIndividual(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("personalCode")
	if !domain.ValidPersonalCode(code) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "personal_code must be 11 digits starting with 3-6")
		return
	}
	p, err := c.Service.LookupIndividual(r.Context(), code)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// LookupCompany godoc
// @Summary Look up a company by registry code
// @Description Returns the stored company identity for a registry code, for prefilling registration forms.
// @Tags participants
// @Produce json
// @Param registryCode path string true "Company registry code"
// @Success 200 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/company/{registryCode} [get]
func (c *RegistrationController) LookupCompany(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("registryCode")
	if !domain.ValidRegistryCode(code) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "registry_code must be exactly 8 digits")
		return
	}
	p, err := c.Service.LookupCompany(r.Context(), code)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// ListPaymentMethodsSuccessResponse is the success response envelope for GET /payment-methods.
type ListPaymentMethodsSuccessResponse struct {
	Data  []*domain.PaymentMethod `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// ListPaymentMethods godoc
// @Summary List payment methods
// @Description Returns the available payment methods for registration forms.
// @Tags registrations
// @Produce json
// @Success 200 {object} controllers.ListPaymentMethodsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payment-methods [get]
func (c *RegistrationController) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := c.Service.ListPaymentMethods(r.Context())
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, methods)
}

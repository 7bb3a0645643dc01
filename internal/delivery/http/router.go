package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventregistry/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, registrationController *controllers.RegistrationController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListUpcomingEvents)
	mux.HandleFunc("GET /events/past", eventController.ListPastEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PUT /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{eventID}", eventController.DeleteEvent)

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations/individual", registrationController.RegisterIndividual)
	mux.HandleFunc("POST /events/{eventID}/registrations/company", registrationController.RegisterCompany)
	mux.HandleFunc("GET /events/{eventID}/registrations/{participantID}", registrationController.GetRegistration)
	mux.HandleFunc("PUT /events/{eventID}/registrations/{participantID}/individual", registrationController.UpdateIndividualRegistration)
	mux.HandleFunc("PUT /events/{eventID}/registrations/{participantID}/company", registrationController.UpdateCompanyRegistration)
	mux.HandleFunc("DELETE /events/{eventID}/registrations/{participantID}", registrationController.DeleteRegistration)

	// Participant lookup for form prefill
	mux.HandleFunc("GET /participants/individual/{personalCode}", registrationController.LookupIndividual)
	mux.HandleFunc("GET /participants/company/{registryCode}", registrationController.LookupCompany)

	// Payment methods
	mux.HandleFunc("GET /payment-methods", registrationController.ListPaymentMethods)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

package http

import (
	"net/http"

	"clinicdesk/internal/delivery/http/handler"
	"clinicdesk/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	patientHandler      *handler.PatientHandler
	tokenHandler        *handler.TokenHandler
	prescriptionHandler *handler.PrescriptionHandler
	billingHandler      *handler.BillingHandler
	appointmentHandler  *handler.AppointmentHandler
	auditLogHandler     *handler.AuditLogHandler
	dashboardHandler    *handler.DashboardHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	tokenHandler *handler.TokenHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	billingHandler *handler.BillingHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	dashboardHandler *handler.DashboardHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		patientHandler:      patientHandler,
		tokenHandler:        tokenHandler,
		prescriptionHandler: prescriptionHandler,
		billingHandler:      billingHandler,
		appointmentHandler:  appointmentHandler,
		auditLogHandler:     auditLogHandler,
		dashboardHandler:    dashboardHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.RegisterStaff).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Waiting-room display (public, read-only)
	api.HandleFunc("/queue/board", r.tokenHandler.Board).Methods(http.MethodGet)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Staff routes (protected - any staff role). Role-specific rules are
	// enforced again inside the usecases.
	staff := api.PathPrefix("").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)

	staff.HandleFunc("/patients", r.patientHandler.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", r.patientHandler.GetByID).Methods(http.MethodGet)
	staff.HandleFunc("/tokens", r.tokenHandler.GetQueue).Methods(http.MethodGet)
	staff.HandleFunc("/prescriptions", r.prescriptionHandler.List).Methods(http.MethodGet)
	staff.HandleFunc("/bills", r.billingHandler.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/bills/{id}", r.billingHandler.GetByID).Methods(http.MethodGet)
	staff.HandleFunc("/appointments", r.appointmentHandler.List).Methods(http.MethodGet)
	staff.HandleFunc("/audit-logs", r.auditLogHandler.List).Methods(http.MethodGet)
	staff.HandleFunc("/dashboard/stats", r.dashboardHandler.Stats).Methods(http.MethodGet)

	// Front-desk routes (protected - receptionist only)
	frontDesk := api.PathPrefix("").Subrouter()
	frontDesk.Use(r.authMiddleware.Authenticate)
	frontDesk.Use(middleware.RequireReceptionist)

	frontDesk.HandleFunc("/patients", r.patientHandler.Register).Methods(http.MethodPost)
	frontDesk.HandleFunc("/patients/{id}", r.patientHandler.Update).Methods(http.MethodPut)
	frontDesk.HandleFunc("/tokens", r.tokenHandler.Issue).Methods(http.MethodPost)
	frontDesk.HandleFunc("/bills", r.billingHandler.Create).Methods(http.MethodPost)
	frontDesk.HandleFunc("/bills/{id}/pay", r.billingHandler.Pay).Methods(http.MethodPatch)
	frontDesk.HandleFunc("/bills/{id}/cancel", r.billingHandler.Cancel).Methods(http.MethodPatch)
	frontDesk.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)
	frontDesk.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)

	// Consultation routes (protected - doctor only)
	doctor := api.PathPrefix("").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)

	doctor.HandleFunc("/prescriptions", r.prescriptionHandler.Create).Methods(http.MethodPost)

	// Token status moves are shared: doctors start and complete
	// consultations, either role can cancel. The usecase decides.
	staff.HandleFunc("/tokens/{id}/status", r.tokenHandler.UpdateStatus).Methods(http.MethodPatch)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/marham/hospital-backend/internal/auth"
	"github.com/marham/hospital-backend/internal/booking"
	"github.com/marham/hospital-backend/internal/directory"
	"github.com/marham/hospital-backend/internal/encounter"
	"github.com/marham/hospital-backend/internal/schedule"
	"github.com/marham/hospital-backend/internal/ward"
)

type RouterConfig struct {
	Auth      *auth.Service
	Schedule  *schedule.Service
	Booking   *booking.Service
	Encounter *encounter.Service
	Ward      *ward.Service
	Directory directory.Repository
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Logger    zerolog.Logger
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/signup/doctor", signupDoctorHandler(cfg.Auth))
		r.Post("/auth/signup/patient", signupPatientHandler(cfg.Auth))
		r.Post("/auth/signup/receptionist", signupReceptionistHandler(cfg.Auth))
		r.Post("/auth/signin", signinHandler(cfg.Auth))

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Auth))

			r.Get("/specializations", listSpecializationsHandler(cfg.Directory))
			r.Get("/doctors", listDoctorsHandler(cfg.Directory))
			r.Get("/doctors/{id}", getDoctorHandler(cfg.Directory))
			r.Get("/patients", listPatientsHandler(cfg.Directory))
			r.Get("/patients/{id}", getPatientHandler(cfg.Directory))
			r.Get("/patients/{id}/medical-history", medicalHistoryHandler(cfg.Encounter))
			r.Get("/receptionists", listReceptionistsHandler(cfg.Directory))

			r.Get("/time-slots", listTimeSlotsHandler(cfg.Schedule))
			r.Put("/doctors/{id}/slots", replaceTemplateHandler(cfg.Schedule))
			r.Get("/doctors/{id}/slots", getTemplateHandler(cfg.Schedule))

			r.Get("/appointments/availability", checkAvailabilityHandler(cfg.Booking))
			r.Post("/appointments", createAppointmentHandler(cfg.Booking))
			r.Get("/appointments", listAppointmentsHandler(cfg.Booking))
			r.Get("/appointments/{id}", getAppointmentHandler(cfg.Booking))
			r.Patch("/appointments/{id}/status", updateAppointmentStatusHandler(cfg.Booking))
			r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Booking))

			r.Post("/consultations", createConsultationHandler(cfg.Encounter))
			r.Get("/consultations", listConsultationsHandler(cfg.Encounter))
			r.Get("/consultations/{id}", getConsultationHandler(cfg.Encounter))
			r.Patch("/consultations/{id}/vitals", updateVitalsHandler(cfg.Encounter))
			r.Post("/consultations/{id}/prescriptions", addPrescriptionHandler(cfg.Encounter))

			r.Get("/room-types", listRoomTypesHandler(cfg.Ward))
			r.Post("/rooms", createRoomHandler(cfg.Ward))
			r.Get("/rooms", listRoomsHandler(cfg.Ward))
			r.Get("/rooms/{id}", getRoomHandler(cfg.Ward))
			r.Get("/rooms/{id}/occupants", roomOccupantsHandler(cfg.Ward))
			r.Patch("/rooms/{id}/beds", setRoomBedsHandler(cfg.Ward))

			r.Post("/admissions", admitPatientHandler(cfg.Ward))
			r.Get("/admissions", listAdmissionsHandler(cfg.Ward))
			r.Get("/admissions/stats", admissionStatsHandler(cfg.Ward))
			r.Get("/admissions/{id}", getAdmissionHandler(cfg.Ward))
			r.Post("/admissions/{id}/discharge", dischargePatientHandler(cfg.Ward))
			r.Post("/admissions/{id}/transfer", transferPatientHandler(cfg.Ward))
		})
	})

	return r
}

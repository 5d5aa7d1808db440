package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marham/hospital-backend/internal/booking"
	"github.com/marham/hospital-backend/internal/encounter"
	"github.com/marham/hospital-backend/internal/ward"
)

func createConsultationHandler(svc *encounter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateConsultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appointmentID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "appointment_id must be a valid UUID")
			return
		}

		var roomID *uuid.UUID
		if req.AssignedRoomID != nil {
			id, err := uuid.Parse(*req.AssignedRoomID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_room_id", "assigned_room_id must be a valid UUID")
				return
			}
			roomID = &id
		}

		prescriptions := make([]encounter.PrescriptionInput, 0, len(req.Prescriptions))
		for _, p := range req.Prescriptions {
			prescriptions = append(prescriptions, encounter.PrescriptionInput{
				MedicineName: p.MedicineName,
				Dosage:       p.Dosage,
				Frequency:    p.Frequency,
				Duration:     p.Duration,
				Instructions: p.Instructions,
			})
		}

		c, err := svc.Create(r.Context(), encounter.CreateInput{
			AppointmentID:     appointmentID,
			Vitals:            req.Vitals.toVitals(),
			RequiresAdmission: bool(req.RequiresAdmission),
			AssignedRoomID:    roomID,
			Prescriptions:     prescriptions,
		})
		if err != nil {
			handleEncounterError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toConsultationResponse(c))
	}
}

func getConsultationHandler(svc *encounter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_consultation_id", "id must be a valid UUID")
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			handleEncounterError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toConsultationDetailResponse(detail))
	}
}

func listConsultationsHandler(svc *encounter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var filter encounter.ListFilter

		if raw := q.Get("patient_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
				return
			}
			filter.PatientID = &id
		}
		if raw := q.Get("doctor_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
				return
			}
			filter.DoctorID = &id
		}
		if raw := q.Get("appointment_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_appointment_id", "appointment_id must be a valid UUID")
				return
			}
			filter.AppointmentID = &id
		}

		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		details, err := svc.List(r.Context(), filter, limit, offset)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]ConsultationDetailResponse, 0, len(details))
		for i := range details {
			resp = append(resp, toConsultationDetailResponse(&details[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func medicalHistoryHandler(svc *encounter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		details, err := svc.MedicalHistory(r.Context(), patientID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]ConsultationDetailResponse, 0, len(details))
		for i := range details {
			resp = append(resp, toConsultationDetailResponse(&details[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func updateVitalsHandler(svc *encounter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_consultation_id", "id must be a valid UUID")
			return
		}

		var req VitalsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.UpdateVitals(r.Context(), id, req.toVitals()); err != nil {
			handleEncounterError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func addPrescriptionHandler(svc *encounter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_consultation_id", "id must be a valid UUID")
			return
		}

		var req PrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		p, err := svc.AddPrescription(r.Context(), id, encounter.PrescriptionInput{
			MedicineName: req.MedicineName,
			Dosage:       req.Dosage,
			Frequency:    req.Frequency,
			Duration:     req.Duration,
			Instructions: req.Instructions,
		})
		if err != nil {
			handleEncounterError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPrescriptionResponse(*p))
	}
}

func handleEncounterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, encounter.ErrConsultationNotFound):
		writeError(w, http.StatusNotFound, "consultation_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, ward.ErrNoBedsAvailable):
		writeError(w, http.StatusConflict, "no_beds_available", err.Error())
	case errors.Is(err, encounter.ErrMissingAppointment),
		errors.Is(err, encounter.ErrMissingMedicineName):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

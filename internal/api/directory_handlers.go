package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marham/hospital-backend/internal/directory"
)

func listSpecializationsHandler(repo directory.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specs, err := repo.ListSpecializations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, specs)
	}
}

func listDoctorsHandler(repo directory.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var specializationID *int
		if raw := r.URL.Query().Get("specialization_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_specialization_id", "specialization_id must be an integer")
				return
			}
			specializationID = &id
		}

		doctors, err := repo.ListDoctors(r.Context(), specializationID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func getDoctorHandler(repo directory.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		doctor, err := repo.GetDoctor(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctor)
	}
}

func listPatientsHandler(repo directory.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := repo.ListPatients(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, patients)
	}
}

func getPatientHandler(repo directory.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}

		patient, err := repo.GetPatient(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patient)
	}
}

func listReceptionistsHandler(repo directory.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receptionists, err := repo.ListReceptionists(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, receptionists)
	}
}

func handleDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, directory.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

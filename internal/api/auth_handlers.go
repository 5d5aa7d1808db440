package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/marham/hospital-backend/internal/auth"
)

func signupDoctorHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		session, err := svc.SignupDoctor(r.Context(), auth.DoctorSignup{
			Name:               req.Name,
			Password:           req.Password,
			Age:                req.Age,
			SpecializationID:   req.SpecializationID,
			ExperienceYears:    req.ExperienceYears,
			RegistrationNumber: req.RegistrationNumber,
		})
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(session))
	}
}

func signupPatientHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		session, err := svc.SignupPatient(r.Context(), auth.PatientSignup{
			Name:       req.Name,
			Password:   req.Password,
			Age:        req.Age,
			Gender:     req.Gender,
			BloodGroup: req.BloodGroup,
		})
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(session))
	}
}

func signupReceptionistHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupReceptionistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		session, err := svc.SignupReceptionist(r.Context(), auth.ReceptionistSignup{
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(session))
	}
}

func signinHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SigninRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
			return
		}

		session, err := svc.Signin(r.Context(), auth.UserType(req.UserType), userID, req.Password)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSessionResponse(session))
	}
}

func toSessionResponse(s *auth.Session) SessionResponse {
	return SessionResponse{
		UserID:    s.UserID,
		Name:      s.Name,
		UserType:  string(s.UserType),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, auth.ErrInactiveAccount):
		writeError(w, http.StatusForbidden, "inactive_account", err.Error())
	case errors.Is(err, auth.ErrInvalidUserType),
		errors.Is(err, auth.ErrMissingName),
		errors.Is(err, auth.ErrMissingPassword):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marham/hospital-backend/internal/ward"
)

func listRoomTypesHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		types, err := svc.RoomTypes(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]RoomTypeResponse, 0, len(types))
		for _, t := range types {
			resp = append(resp, RoomTypeResponse{ID: t.ID, Name: t.Name, Description: t.Description})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createRoomHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		roomTypeID, err := uuid.Parse(req.RoomTypeID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_room_type_id", "room_type_id must be a valid UUID")
			return
		}

		room, err := svc.CreateRoom(r.Context(), &ward.Room{
			RoomNumber:  req.RoomNumber,
			RoomTypeID:  roomTypeID,
			FloorNumber: req.FloorNumber,
			TotalBeds:   req.TotalBeds,
		})
		if err != nil {
			handleWardError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRoomResponse(room))
	}
}

func listRoomsHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var filter ward.RoomFilter

		if raw := q.Get("room_type_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_room_type_id", "room_type_id must be a valid UUID")
				return
			}
			filter.RoomTypeID = &id
		}
		filter.AvailableOnly = q.Get("available_only") == "true" || q.Get("available_only") == "1"

		rooms, err := svc.Rooms(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]RoomResponse, 0, len(rooms))
		for i := range rooms {
			resp = append(resp, toRoomDetailResponse(&rooms[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getRoomHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_room_id", "id must be a valid UUID")
			return
		}

		room, err := svc.Room(r.Context(), id)
		if err != nil {
			handleWardError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRoomDetailResponse(room))
	}
}

func roomOccupantsHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_room_id", "id must be a valid UUID")
			return
		}

		occupants, err := svc.Occupants(r.Context(), id)
		if err != nil {
			handleWardError(w, err)
			return
		}

		resp := make([]OccupantResponse, 0, len(occupants))
		for _, o := range occupants {
			resp = append(resp, OccupantResponse{
				AdmissionID: o.AdmissionID,
				PatientID:   o.PatientID,
				PatientName: o.PatientName,
				DoctorName:  o.DoctorName,
				AdmittedAt:  o.AdmittedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func setRoomBedsHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_room_id", "id must be a valid UUID")
			return
		}

		var req SetBedsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.SetAvailableBeds(r.Context(), id, req.AvailableBeds); err != nil {
			handleWardError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func admitPatientHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		consultationID, err := uuid.Parse(req.ConsultationID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_consultation_id", "consultation_id must be a valid UUID")
			return
		}
		roomID, err := uuid.Parse(req.RoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_room_id", "room_id must be a valid UUID")
			return
		}
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		adm, err := svc.Admit(r.Context(), ward.AdmitInput{
			PatientID:      patientID,
			ConsultationID: consultationID,
			RoomID:         roomID,
			DoctorID:       doctorID,
		})
		if err != nil {
			handleWardError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAdmissionResponse(adm))
	}
}

func getAdmissionHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_admission_id", "id must be a valid UUID")
			return
		}

		detail, err := svc.Admission(r.Context(), id)
		if err != nil {
			handleWardError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAdmissionDetailResponse(detail))
	}
}

func listAdmissionsHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var filter ward.AdmissionFilter

		if raw := q.Get("patient_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
				return
			}
			filter.PatientID = &id
		}
		if raw := q.Get("status"); raw != "" {
			status := ward.AdmissionStatus(raw)
			filter.Status = &status
		}

		details, err := svc.Admissions(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]AdmissionDetailResponse, 0, len(details))
		for i := range details {
			resp = append(resp, toAdmissionDetailResponse(&details[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func dischargePatientHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_admission_id", "id must be a valid UUID")
			return
		}

		var req DischargeRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
				return
			}
		}

		if err := svc.Discharge(r.Context(), id, req.Notes); err != nil {
			handleWardError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func transferPatientHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_admission_id", "id must be a valid UUID")
			return
		}

		var req TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		newRoomID, err := uuid.Parse(req.NewRoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_room_id", "new_room_id must be a valid UUID")
			return
		}

		if err := svc.Transfer(r.Context(), id, newRoomID); err != nil {
			handleWardError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func admissionStatsHandler(svc *ward.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, StatsResponse{
			TotalAdmissions: stats.TotalAdmissions,
			Active:          stats.Active,
			Discharged:      stats.Discharged,
		})
	}
}

func handleWardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ward.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room_not_found", err.Error())
	case errors.Is(err, ward.ErrAdmissionNotFound):
		writeError(w, http.StatusNotFound, "admission_not_found", err.Error())
	case errors.Is(err, ward.ErrNoBedsAvailable):
		writeError(w, http.StatusConflict, "no_beds_available", err.Error())
	case errors.Is(err, ward.ErrNoBedsInNewRoom):
		writeError(w, http.StatusConflict, "no_beds_in_new_room", err.Error())
	case errors.Is(err, ward.ErrAlreadyDischarged):
		writeError(w, http.StatusConflict, "already_discharged", err.Error())
	case errors.Is(err, ward.ErrNotAdmitted):
		writeError(w, http.StatusConflict, "not_admitted", err.Error())
	case errors.Is(err, ward.ErrMissingField),
		errors.Is(err, ward.ErrInvalidBedCount),
		errors.Is(err, ward.ErrInvalidTotalBeds),
		errors.Is(err, ward.ErrMissingRoomNumber):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

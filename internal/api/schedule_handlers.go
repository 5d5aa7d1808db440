package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marham/hospital-backend/internal/schedule"
)

func listTimeSlotsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots, err := svc.TimeSlots(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]TimeSlotResponse, 0, len(slots))
		for _, s := range slots {
			resp = append(resp, TimeSlotResponse{
				ID:         s.ID,
				SlotNumber: s.SlotNumber,
				StartTime:  s.StartTime,
				EndTime:    s.EndTime,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func replaceTemplateHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		var req ReplaceTemplateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		entries := make([]schedule.TemplateSlot, 0, len(req.Slots))
		for _, s := range req.Slots {
			slotID, err := uuid.Parse(s.SlotID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_slot_id", "slot_id must be a valid UUID")
				return
			}
			entries = append(entries, schedule.TemplateSlot{
				DayOfWeek: s.DayOfWeek,
				SlotID:    slotID,
				Available: bool(s.Available),
			})
		}

		saved, err := svc.ReplaceTemplate(r.Context(), doctorID, entries)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ReplaceTemplateResponse{SlotsSaved: saved})
	}
}

func getTemplateHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		var dayOfWeek *int
		if raw := r.URL.Query().Get("day_of_week"); raw != "" {
			day, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_day_of_week", "day_of_week must be an integer")
				return
			}
			dayOfWeek = &day
		}

		entries, err := svc.Template(r.Context(), doctorID, dayOfWeek)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := make([]TemplateEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toTemplateEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidDayOfWeek),
		errors.Is(err, schedule.ErrMissingSlotID):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, schedule.ErrTimeSlotNotFound):
		writeError(w, http.StatusNotFound, "time_slot_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

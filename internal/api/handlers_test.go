package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marham/hospital-backend/internal/booking"
	"github.com/marham/hospital-backend/internal/schedule"
	"github.com/marham/hospital-backend/internal/ward"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`1`, true},
		{`"1"`, true},
		{`false`, false},
		{`0`, false},
		{`"0"`, false},
		{`"yes"`, false},
	}
	for _, tt := range tests {
		var b flexBool
		if err := json.Unmarshal([]byte(tt.raw), &b); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if bool(b) != tt.want {
			t.Errorf("flexBool(%s) = %v, want %v", tt.raw, b, tt.want)
		}
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		handle func(http.ResponseWriter, error)
		err    error
		want   int
	}{
		{"appointment not found", handleBookingError, booking.ErrAppointmentNotFound, http.StatusNotFound},
		{"slot taken", handleBookingError, booking.ErrSlotTaken, http.StatusConflict},
		{"slot busy", handleBookingError, booking.ErrSlotBusy, http.StatusConflict},
		{"invalid transition", handleBookingError, fmt.Errorf("%w: Completed -> Scheduled", booking.ErrInvalidTransition), http.StatusConflict},
		{"unknown status", handleBookingError, booking.ErrUnknownStatus, http.StatusBadRequest},
		{"no beds", handleWardError, ward.ErrNoBedsAvailable, http.StatusConflict},
		{"already discharged", handleWardError, ward.ErrAlreadyDischarged, http.StatusConflict},
		{"room not found", handleWardError, ward.ErrRoomNotFound, http.StatusNotFound},
		{"bad bed count", handleWardError, ward.ErrInvalidBedCount, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handle(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("expected an error code in the body")
			}
		})
	}
}

// stubScheduleRepo backs the real calendar service in handler tests.
type stubScheduleRepo struct {
	entries  []schedule.TemplateEntry
	replaced []schedule.TemplateSlot
}

func (s *stubScheduleRepo) ListTimeSlots(context.Context) ([]schedule.TimeSlot, error) {
	return nil, nil
}

func (s *stubScheduleRepo) ReplaceTemplate(_ context.Context, _ uuid.UUID, entries []schedule.TemplateSlot) (int, error) {
	s.replaced = entries
	return len(entries), nil
}

func (s *stubScheduleRepo) Template(context.Context, uuid.UUID, *int) ([]schedule.TemplateEntry, error) {
	return s.entries, nil
}

func (s *stubScheduleRepo) HasSlot(context.Context, uuid.UUID, int, uuid.UUID) (bool, error) {
	return false, nil
}

func TestReplaceTemplateHandler(t *testing.T) {
	repo := &stubScheduleRepo{}
	svc := schedule.NewService(repo, zerolog.Nop())
	handler := replaceTemplateHandler(svc)

	doctorID := uuid.New()
	slotA, slotB := uuid.New(), uuid.New()
	body := fmt.Sprintf(`{"slots":[
		{"day_of_week":1,"slot_id":%q,"is_available":"1"},
		{"day_of_week":1,"slot_id":%q,"is_available":false}
	]}`, slotA, slotB)

	req := httptest.NewRequest(http.MethodPut, "/api/doctors/"+doctorID.String()+"/slots", strings.NewReader(body))
	req = withURLParam(req, "id", doctorID.String())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ReplaceTemplateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SlotsSaved != 1 {
		t.Errorf("slots_saved = %d, want 1 (unavailable entries dropped)", resp.SlotsSaved)
	}
	if len(repo.replaced) != 1 || repo.replaced[0].SlotID != slotA {
		t.Errorf("repo got %+v, want only slot %s", repo.replaced, slotA)
	}
}

func TestReplaceTemplateHandlerBadDoctorID(t *testing.T) {
	svc := schedule.NewService(&stubScheduleRepo{}, zerolog.Nop())
	handler := replaceTemplateHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/doctors/nope/slots", strings.NewReader(`{}`))
	req = withURLParam(req, "id", "nope")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

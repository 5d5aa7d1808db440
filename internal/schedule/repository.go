package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrTimeSlotNotFound = errors.New("time slot not found")
)

// Repository contains all DB interactions needed by the calendar service.
type Repository interface {
	ListTimeSlots(ctx context.Context) ([]TimeSlot, error)

	// ReplaceTemplate deletes every calendar entry of the doctor and inserts
	// the given entries, all in one transaction. It returns the inserted count.
	ReplaceTemplate(ctx context.Context, doctorID uuid.UUID, entries []TemplateSlot) (int, error)

	// Template returns the doctor's calendar ordered by (day_of_week,
	// slot_number), optionally filtered to one weekday.
	Template(ctx context.Context, doctorID uuid.UUID, dayOfWeek *int) ([]TemplateEntry, error)

	// HasSlot reports whether (dayOfWeek, slotID) is in the doctor's calendar.
	HasSlot(ctx context.Context, doctorID uuid.UUID, dayOfWeek int, slotID uuid.UUID) (bool, error)
}

package schedule

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is an entry of the shared, immutable slot catalog.
type TimeSlot struct {
	ID         uuid.UUID
	SlotNumber int
	StartTime  string // "HH:MM"
	EndTime    string // "HH:MM"
	CreatedAt  time.Time
}

// TemplateSlot is one (day, slot) pair submitted when a doctor's weekly
// template is replaced.
type TemplateSlot struct {
	DayOfWeek int // 0 = Sunday .. 6 = Saturday
	SlotID    uuid.UUID
	Available bool
}

// TemplateEntry is a persisted calendar entry joined with its catalog slot.
// Only available entries are ever persisted.
type TemplateEntry struct {
	DoctorID   uuid.UUID
	DayOfWeek  int
	SlotID     uuid.UUID
	SlotNumber int
	StartTime  string
	EndTime    string
}

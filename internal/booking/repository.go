package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotTaken is the domain translation of the unique constraint on
	// (doctor, date, slot) over non-terminal appointments.
	ErrSlotTaken = errors.New("this slot is already booked")
)

// Repository contains all DB interactions needed by the booking service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// FindActive returns the non-terminal appointment occupying
	// (doctor, date, slot), or ErrAppointmentNotFound when the slot is free.
	FindActive(ctx context.Context, doctorID uuid.UUID, date time.Time, slotID uuid.UUID) (*Appointment, error)

	// Create inserts a Scheduled appointment. A unique-constraint violation
	// is returned as ErrSlotTaken.
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error)

	List(ctx context.Context, filter ListFilter, limit, offset int) ([]AppointmentDetail, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error)

	// FindScheduledBefore returns appointments still Scheduled whose date is
	// strictly before the given day. Used by the no-show worker.
	FindScheduledBefore(ctx context.Context, day time.Time) ([]Appointment, error)
}

package booking

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	Date         time.Time // calendar date, midnight UTC
	SlotID       uuid.UUID
	Status       Status
	BookedByType string // patient, doctor or receptionist
	BookedByID   uuid.UUID
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AppointmentDetail is an appointment joined with display fields for listings.
type AppointmentDetail struct {
	Appointment
	PatientName string
	DoctorName  string
	SlotNumber  int
	StartTime   string
	EndTime     string
	StatusName  string
}

// ListFilter narrows appointment listings. Nil fields match everything.
type ListFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Date      *time.Time
	Status    *Status
}

// Availability is the result of the two-step slot check.
type Availability struct {
	Available bool
	Reason    string
}

const (
	ReasonNotInSchedule = "Slot not in doctor schedule"
	ReasonAlreadyBooked = "Slot already booked"
)

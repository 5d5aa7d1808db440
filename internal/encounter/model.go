package encounter

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is the clinical record written when an appointment is seen.
// It is 1:1 with its appointment and owns its prescriptions.
type Consultation struct {
	ID                uuid.UUID
	AppointmentID     uuid.UUID
	BloodPressure     *string
	HeartRate         *int
	Temperature       *float64
	OxygenLevel       *int
	Symptoms          *string
	Diagnosis         *string
	Notes             *string
	RequiresAdmission bool
	AssignedRoomID    *uuid.UUID
	CreatedAt         time.Time
}

type Prescription struct {
	ID             uuid.UUID
	ConsultationID uuid.UUID
	MedicineName   string
	Dosage         *string
	Frequency      *string
	Duration       *string
	Instructions   *string
	CreatedAt      time.Time
}

// ConsultationDetail is a consultation joined with appointment context and
// its prescriptions.
type ConsultationDetail struct {
	Consultation
	AppointmentDate time.Time
	PatientID       uuid.UUID
	PatientName     string
	DoctorID        uuid.UUID
	DoctorName      string
	Prescriptions   []Prescription
}

// Vitals carries the updatable clinical fields of a consultation.
type Vitals struct {
	BloodPressure *string
	HeartRate     *int
	Temperature   *float64
	OxygenLevel   *int
	Symptoms      *string
	Diagnosis     *string
	Notes         *string
}

type ListFilter struct {
	PatientID     *uuid.UUID
	DoctorID      *uuid.UUID
	AppointmentID *uuid.UUID
}

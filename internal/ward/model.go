package ward

import (
	"time"

	"github.com/google/uuid"
)

type RoomType struct {
	ID          uuid.UUID
	Name        string
	Description *string
}

type Room struct {
	ID            uuid.UUID
	RoomNumber    string
	RoomTypeID    uuid.UUID
	FloorNumber   int
	TotalBeds     int
	AvailableBeds int
	Active        bool
	CreatedAt     time.Time
}

// RoomDetail is a room joined with its type for listings.
type RoomDetail struct {
	Room
	TypeName        string
	TypeDescription *string
}

type AdmissionStatus string

const (
	AdmissionAdmitted   AdmissionStatus = "Admitted"
	AdmissionDischarged AdmissionStatus = "Discharged"
)

// Admission is the append-only record of one bed claim. Its decrement is
// reversed exactly once, by discharge, or moved exactly once, by transfer.
type Admission struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	ConsultationID uuid.UUID
	RoomID         uuid.UUID
	DoctorID       uuid.UUID
	Status         AdmissionStatus
	AdmittedAt     time.Time
	DischargedAt   *time.Time
	DischargeNotes *string
}

type AdmissionDetail struct {
	Admission
	PatientName string
	DoctorName  string
	RoomNumber  string
	RoomType    string
}

// Occupant is a currently admitted patient of one room.
type Occupant struct {
	AdmissionID uuid.UUID
	PatientID   uuid.UUID
	PatientName string
	DoctorName  string
	AdmittedAt  time.Time
}

type Stats struct {
	TotalAdmissions int
	Active          int
	Discharged      int
}

type RoomFilter struct {
	RoomTypeID    *uuid.UUID
	AvailableOnly bool
}

type AdmissionFilter struct {
	PatientID *uuid.UUID
	Status    *AdmissionStatus
}

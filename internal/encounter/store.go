package encounter

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
)

// Store is the transactional relational store behind the encounter workflow.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetConsultation(ctx context.Context, id uuid.UUID) (*ConsultationDetail, error)
	ListConsultations(ctx context.Context, filter ListFilter, limit, offset int) ([]ConsultationDetail, error)

	// ListByPatient returns the patient's medical history: consultations with
	// nested prescriptions, most recent first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]ConsultationDetail, error)

	UpdateVitals(ctx context.Context, id uuid.UUID, v Vitals) error
	AddPrescription(ctx context.Context, p *Prescription) (*Prescription, error)
}

// Tx is the set of statements available inside one encounter transaction.
type Tx interface {
	InsertConsultation(ctx context.Context, c *Consultation) (*Consultation, error)
	InsertPrescription(ctx context.Context, p *Prescription) error

	// CompleteAppointment marks the parent appointment Completed.
	CompleteAppointment(ctx context.Context, appointmentID uuid.UUID) error

	// ClaimBed decrements the room's available beds. A full or unknown room
	// returns ward.ErrNoBedsAvailable so the whole consultation rolls back
	// instead of silently skipping the claim.
	ClaimBed(ctx context.Context, roomID uuid.UUID) error
}

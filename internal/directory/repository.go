package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// Repository serves the read-only people directory. Writes happen through
// the auth signup flow.
type Repository interface {
	ListDoctors(ctx context.Context, specializationID *int) ([]Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
	ListReceptionists(ctx context.Context) ([]Receptionist, error)
	ListSpecializations(ctx context.Context) ([]Specialization, error)
}

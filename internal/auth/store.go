package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// Store contains the identity and audit-log DB interactions.
type Store interface {
	CreateDoctor(ctx context.Context, in DoctorSignup, passwordHash string) (uuid.UUID, error)
	CreatePatient(ctx context.Context, in PatientSignup, passwordHash string) (uuid.UUID, error)
	CreateReceptionist(ctx context.Context, in ReceptionistSignup, passwordHash string) (uuid.UUID, error)

	// Credentials loads the signin row of the given user type.
	Credentials(ctx context.Context, userType UserType, id uuid.UUID) (*Credential, error)

	// Audit trail. Failures here must never fail the calling operation.
	LogSignin(ctx context.Context, userType UserType, enteredID uuid.UUID, status string) error
	LogSignup(ctx context.Context, userType UserType, name string) error
}

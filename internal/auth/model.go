package auth

import (
	"time"

	"github.com/google/uuid"
)

// UserType selects which identity table a signup or signin targets.
type UserType string

const (
	UserDoctor       UserType = "doctor"
	UserPatient      UserType = "patient"
	UserReceptionist UserType = "receptionist"
)

func (t UserType) Valid() bool {
	switch t {
	case UserDoctor, UserPatient, UserReceptionist:
		return true
	}
	return false
}

// Credential is the subset of an identity row needed to verify a signin.
type Credential struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	Active       bool
}

type DoctorSignup struct {
	Name               string
	Password           string
	Age                int
	SpecializationID   int
	ExperienceYears    int
	RegistrationNumber *string
}

type PatientSignup struct {
	Name       string
	Password   string
	Age        int
	Gender     string
	BloodGroup string
}

type ReceptionistSignup struct {
	Name     string
	Password string
}

// Session is returned on successful signin.
type Session struct {
	UserID    uuid.UUID
	Name      string
	UserType  UserType
	Token     string
	ExpiresAt time.Time
}

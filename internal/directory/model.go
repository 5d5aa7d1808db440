package directory

import (
	"time"

	"github.com/google/uuid"
)

type Specialization struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Doctor struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Age                int       `json:"age"`
	SpecializationID   int       `json:"specialization_id"`
	SpecializationName string    `json:"specialization_name"`
	ExperienceYears    int       `json:"experience_years"`
	RegistrationNumber *string   `json:"registration_number,omitempty"`
	Active             bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type Patient struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	BloodGroup string    `json:"blood_group,omitempty"`
	Active     bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type Receptionist struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

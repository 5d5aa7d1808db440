package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) CreateDoctor(ctx context.Context, in DoctorSignup, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO doctors (id, name, password_hash, age, specialization_id, experience_years, registration_number, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, now())
	`, id, in.Name, passwordHash, in.Age, in.SpecializationID, in.ExperienceYears, in.RegistrationNumber)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert doctor: %w", err)
	}
	return id, nil
}

func (s *PgStore) CreatePatient(ctx context.Context, in PatientSignup, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO patients (id, name, password_hash, age, gender, blood_group, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now())
	`, id, in.Name, passwordHash, in.Age, in.Gender, in.BloodGroup)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert patient: %w", err)
	}
	return id, nil
}

func (s *PgStore) CreateReceptionist(ctx context.Context, in ReceptionistSignup, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO receptionists (id, name, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, true, now())
	`, id, in.Name, passwordHash)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert receptionist: %w", err)
	}
	return id, nil
}

var credentialTables = map[UserType]string{
	UserDoctor:       "doctors",
	UserPatient:      "patients",
	UserReceptionist: "receptionists",
}

func (s *PgStore) Credentials(ctx context.Context, userType UserType, id uuid.UUID) (*Credential, error) {
	table, ok := credentialTables[userType]
	if !ok {
		return nil, fmt.Errorf("no credential table for user type %q", userType)
	}

	var c Credential
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, password_hash, is_active
		FROM `+table+`
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.PasswordHash, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PgStore) LogSignin(ctx context.Context, userType UserType, enteredID uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO signin_logs (signin_type, entered_id, signin_status, created_at)
		VALUES ($1, $2, $3, now())
	`, userType, enteredID, status)
	return err
}

func (s *PgStore) LogSignup(ctx context.Context, userType UserType, name string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO signup_logs (signup_type, name, created_at)
		VALUES ($1, $2, now())
	`, userType, name)
	return err
}

package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const doctorQuery = `
	SELECT d.id, d.name, d.age, d.specialization_id, s.name,
	       d.experience_years, d.registration_number, d.is_active, d.created_at
	FROM doctors d
	JOIN specializations s ON s.id = d.specialization_id
`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Age, &d.SpecializationID, &d.SpecializationName,
		&d.ExperienceYears, &d.RegistrationNumber, &d.Active, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgRepository) ListDoctors(ctx context.Context, specializationID *int) ([]Doctor, error) {
	query := doctorQuery + ` WHERE d.is_active = true`
	args := []any{}
	if specializationID != nil {
		query += ` AND d.specialization_id = $1`
		args = append(args, *specializationID)
	}
	query += ` ORDER BY d.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, *d)
	}
	return doctors, rows.Err()
}

func (r *PgRepository) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, doctorQuery+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return d, nil
}

const patientQuery = `
	SELECT id, name, age, gender, COALESCE(blood_group, ''), is_active, created_at
	FROM patients
`

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, patientQuery+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.BloodGroup, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *PgRepository) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx, patientQuery+` WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.BloodGroup, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PgRepository) ListReceptionists(ctx context.Context) ([]Receptionist, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, is_active, created_at
		FROM receptionists
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receptionists []Receptionist
	for rows.Next() {
		var rec Receptionist
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Active, &rec.CreatedAt); err != nil {
			return nil, err
		}
		receptionists = append(receptionists, rec)
	}
	return receptionists, rows.Err()
}

func (r *PgRepository) ListSpecializations(ctx context.Context) ([]Specialization, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM specializations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []Specialization
	for rows.Next() {
		var s Specialization
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, rows.Err()
}

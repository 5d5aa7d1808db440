package encounter

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marham/hospital-backend/internal/booking"
	"github.com/marham/hospital-backend/internal/db"
	"github.com/marham/hospital-backend/internal/ward"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

const detailColumns = `
	c.id, c.appointment_id, c.blood_pressure, c.heart_rate, c.temperature,
	c.oxygen_level, c.symptoms, c.diagnosis, c.notes, c.requires_admission,
	c.assigned_room_id, c.created_at,
	a.appointment_date, a.patient_id, p.name, a.doctor_id, d.name
`

const detailFrom = `
	FROM consultations c
	JOIN appointments a ON c.appointment_id = a.id
	JOIN patients p ON a.patient_id = p.id
	JOIN doctors d ON a.doctor_id = d.id
`

func scanDetail(row pgx.Row) (*ConsultationDetail, error) {
	var d ConsultationDetail
	err := row.Scan(
		&d.ID,
		&d.AppointmentID,
		&d.BloodPressure,
		&d.HeartRate,
		&d.Temperature,
		&d.OxygenLevel,
		&d.Symptoms,
		&d.Diagnosis,
		&d.Notes,
		&d.RequiresAdmission,
		&d.AssignedRoomID,
		&d.CreatedAt,
		&d.AppointmentDate,
		&d.PatientID,
		&d.PatientName,
		&d.DoctorID,
		&d.DoctorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *PgStore) GetConsultation(ctx context.Context, id uuid.UUID) (*ConsultationDetail, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+detailColumns+detailFrom+` WHERE c.id = $1`, id)
	detail, err := scanDetail(row)
	if err != nil {
		return nil, err
	}

	if err := s.attachPrescriptions(ctx, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *PgStore) ListConsultations(ctx context.Context, filter ListFilter, limit, offset int) ([]ConsultationDetail, error) {
	query := `SELECT ` + detailColumns + detailFrom + ` WHERE 1=1`
	args := []any{}

	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		query += ` AND a.patient_id = $` + strconv.Itoa(len(args))
	}
	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		query += ` AND a.doctor_id = $` + strconv.Itoa(len(args))
	}
	if filter.AppointmentID != nil {
		args = append(args, *filter.AppointmentID)
		query += ` AND c.appointment_id = $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	query += ` ORDER BY c.created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ConsultationDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (s *PgStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]ConsultationDetail, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+detailColumns+detailFrom+`
		WHERE a.patient_id = $1
		ORDER BY c.created_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ConsultationDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := s.attachPrescriptions(ctx, &result[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *PgStore) attachPrescriptions(ctx context.Context, d *ConsultationDetail) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, consultation_id, medicine_name, dosage, frequency, duration, instructions, created_at
		FROM prescriptions
		WHERE consultation_id = $1
		ORDER BY created_at
	`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.ConsultationID, &p.MedicineName, &p.Dosage, &p.Frequency, &p.Duration, &p.Instructions, &p.CreatedAt); err != nil {
			return err
		}
		d.Prescriptions = append(d.Prescriptions, p)
	}

	return rows.Err()
}

func (s *PgStore) UpdateVitals(ctx context.Context, id uuid.UUID, v Vitals) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE consultations
		SET blood_pressure = $2,
		    heart_rate = $3,
		    temperature = $4,
		    oxygen_level = $5,
		    symptoms = $6,
		    diagnosis = $7,
		    notes = $8
		WHERE id = $1
	`, id, v.BloodPressure, v.HeartRate, v.Temperature, v.OxygenLevel, v.Symptoms, v.Diagnosis, v.Notes)
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConsultationNotFound
	}
	return nil
}

func (s *PgStore) AddPrescription(ctx context.Context, p *Prescription) (*Prescription, error) {
	id := uuid.New()

	var created Prescription
	err := s.pool.QueryRow(ctx, `
		INSERT INTO prescriptions (id, consultation_id, medicine_name, dosage, frequency, duration, instructions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, consultation_id, medicine_name, dosage, frequency, duration, instructions, created_at
	`, id, p.ConsultationID, p.MedicineName, p.Dosage, p.Frequency, p.Duration, p.Instructions).Scan(
		&created.ID,
		&created.ConsultationID,
		&created.MedicineName,
		&created.Dosage,
		&created.Frequency,
		&created.Duration,
		&created.Instructions,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert prescription: %w", err)
	}

	return &created, nil
}

// -- transaction-scoped statements --

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) InsertConsultation(ctx context.Context, c *Consultation) (*Consultation, error) {
	id := uuid.New()

	var created Consultation
	err := t.tx.QueryRow(ctx, `
		INSERT INTO consultations
			(id, appointment_id, blood_pressure, heart_rate, temperature, oxygen_level,
			 symptoms, diagnosis, notes, requires_admission, assigned_room_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		RETURNING id, appointment_id, blood_pressure, heart_rate, temperature, oxygen_level,
		          symptoms, diagnosis, notes, requires_admission, assigned_room_id, created_at
	`, id, c.AppointmentID, c.BloodPressure, c.HeartRate, c.Temperature, c.OxygenLevel,
		c.Symptoms, c.Diagnosis, c.Notes, c.RequiresAdmission, c.AssignedRoomID).Scan(
		&created.ID,
		&created.AppointmentID,
		&created.BloodPressure,
		&created.HeartRate,
		&created.Temperature,
		&created.OxygenLevel,
		&created.Symptoms,
		&created.Diagnosis,
		&created.Notes,
		&created.RequiresAdmission,
		&created.AssignedRoomID,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (t *pgTx) InsertPrescription(ctx context.Context, p *Prescription) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO prescriptions (id, consultation_id, medicine_name, dosage, frequency, duration, instructions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`, uuid.New(), p.ConsultationID, p.MedicineName, p.Dosage, p.Frequency, p.Duration, p.Instructions)
	return err
}

func (t *pgTx) CompleteAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE appointments
		SET status_id = $2,
		    updated_at = now()
		WHERE id = $1
	`, appointmentID, booking.StatusCompleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrAppointmentNotFound
	}
	return nil
}

func (t *pgTx) ClaimBed(ctx context.Context, roomID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE rooms
		SET available_beds = available_beds - 1
		WHERE id = $1
		  AND available_beds > 0
	`, roomID)
	if err != nil {
		return fmt.Errorf("claim bed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ward.ErrNoBedsAvailable
	}
	return nil
}

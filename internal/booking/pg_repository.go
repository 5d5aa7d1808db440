package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// slotConstraint guards one non-terminal appointment per (doctor, date, slot)
// at the database level. Kept in sync with migrations.
const slotConstraint = "uq_appt_doctor_date_slot"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.Date,
		&a.SlotID,
		&a.Status,
		&a.BookedByType,
		&a.BookedByID,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Notes = notes
	return &a, nil
}

const appointmentColumns = `
	id, patient_id, doctor_id, appointment_date, slot_id, status_id,
	booked_by_type, booked_by_id, notes, created_at, updated_at
`

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) FindActive(ctx context.Context, doctorID uuid.UUID, date time.Time, slotID uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND slot_id = $3
		  AND status_id NOT IN ($4, $5)
	`, doctorID, date, slotID, StatusCancelled, StatusNoShow)
	return scanAppointment(row)
}

func (r *PgRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, patient_id, doctor_id, appointment_date, slot_id, status_id,
			 booked_by_type, booked_by_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, appt.PatientID, appt.DoctorID, appt.Date, appt.SlotID, StatusScheduled,
		appt.BookedByType, appt.BookedByID, appt.Notes)

	created, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == slotConstraint {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	return created, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status_id = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, to)
	return scanAppointment(row)
}

const detailQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.slot_id,
	       a.status_id, a.booked_by_type, a.booked_by_id, a.notes,
	       a.created_at, a.updated_at,
	       p.name, d.name, ts.slot_number, ts.start_time, ts.end_time, ast.name
	FROM appointments a
	JOIN patients p ON a.patient_id = p.id
	JOIN doctors d ON a.doctor_id = d.id
	JOIN time_slots ts ON a.slot_id = ts.id
	JOIN appointment_statuses ast ON a.status_id = ast.id
`

func scanDetail(row pgx.Row) (*AppointmentDetail, error) {
	var d AppointmentDetail
	var notes *string

	err := row.Scan(
		&d.ID,
		&d.PatientID,
		&d.DoctorID,
		&d.Date,
		&d.SlotID,
		&d.Status,
		&d.BookedByType,
		&d.BookedByID,
		&notes,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.PatientName,
		&d.DoctorName,
		&d.SlotNumber,
		&d.StartTime,
		&d.EndTime,
		&d.StatusName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	d.Notes = notes
	return &d, nil
}

func (r *PgRepository) GetDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx, detailQuery+` WHERE a.id = $1`, id)
	return scanDetail(row)
}

func (r *PgRepository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]AppointmentDetail, error) {
	query := detailQuery + ` WHERE 1=1`
	args := []any{}

	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		query += ` AND a.doctor_id = $` + itoa(len(args))
	}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		query += ` AND a.patient_id = $` + itoa(len(args))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		query += ` AND a.appointment_date = $` + itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND a.status_id = $` + itoa(len(args))
	}

	args = append(args, limit)
	query += ` ORDER BY a.appointment_date DESC, ts.slot_number LIMIT $` + itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AppointmentDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (r *PgRepository) FindScheduledBefore(ctx context.Context, day time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status_id = $1
		  AND appointment_date < $2
	`, StatusScheduled, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

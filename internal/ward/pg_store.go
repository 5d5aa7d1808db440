package ward

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marham/hospital-backend/internal/db"
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

const roomDetailColumns = `
	r.id, r.room_number, r.room_type_id, r.floor_number, r.total_beds,
	r.available_beds, r.is_active, r.created_at, rt.name, rt.description
`

func scanRoomDetail(row pgx.Row) (*RoomDetail, error) {
	var d RoomDetail
	err := row.Scan(
		&d.ID,
		&d.RoomNumber,
		&d.RoomTypeID,
		&d.FloorNumber,
		&d.TotalBeds,
		&d.AvailableBeds,
		&d.Active,
		&d.CreatedAt,
		&d.TypeName,
		&d.TypeDescription,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *PgStore) GetRoom(ctx context.Context, id uuid.UUID) (*RoomDetail, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+roomDetailColumns+`
		FROM rooms r
		JOIN room_types rt ON r.room_type_id = rt.id
		WHERE r.id = $1
	`, id)
	return scanRoomDetail(row)
}

func (s *PgStore) ListRooms(ctx context.Context, filter RoomFilter) ([]RoomDetail, error) {
	query := `
		SELECT ` + roomDetailColumns + `
		FROM rooms r
		JOIN room_types rt ON r.room_type_id = rt.id
		WHERE r.is_active = true
	`
	args := []any{}

	if filter.RoomTypeID != nil {
		args = append(args, *filter.RoomTypeID)
		query += ` AND r.room_type_id = $` + strconv.Itoa(len(args))
	}
	if filter.AvailableOnly {
		query += ` AND r.available_beds > 0`
	}

	query += ` ORDER BY r.floor_number, r.room_number`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoomDetail
	for rows.Next() {
		d, err := scanRoomDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (s *PgStore) ListRoomTypes(ctx context.Context) ([]RoomType, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description
		FROM room_types
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoomType
	for rows.Next() {
		var rt RoomType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Description); err != nil {
			return nil, err
		}
		result = append(result, rt)
	}

	return result, rows.Err()
}

func (s *PgStore) CreateRoom(ctx context.Context, room *Room) (*Room, error) {
	id := uuid.New()

	row := s.pool.QueryRow(ctx, `
		INSERT INTO rooms (id, room_number, room_type_id, floor_number, total_beds, available_beds, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $5, true, now())
		RETURNING id, room_number, room_type_id, floor_number, total_beds, available_beds, is_active, created_at
	`, id, room.RoomNumber, room.RoomTypeID, room.FloorNumber, room.TotalBeds)

	var created Room
	err := row.Scan(
		&created.ID,
		&created.RoomNumber,
		&created.RoomTypeID,
		&created.FloorNumber,
		&created.TotalBeds,
		&created.AvailableBeds,
		&created.Active,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	return &created, nil
}

func (s *PgStore) Occupants(ctx context.Context, roomID uuid.UUID) ([]Occupant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT adm.id, adm.patient_id, p.name, d.name, adm.admitted_at
		FROM admissions adm
		JOIN patients p ON adm.patient_id = p.id
		JOIN doctors d ON adm.doctor_id = d.id
		WHERE adm.room_id = $1
		  AND adm.status = $2
		ORDER BY adm.admitted_at
	`, roomID, AdmissionAdmitted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Occupant
	for rows.Next() {
		var o Occupant
		if err := rows.Scan(&o.AdmissionID, &o.PatientID, &o.PatientName, &o.DoctorName, &o.AdmittedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}

	return result, rows.Err()
}

const admissionDetailColumns = `
	adm.id, adm.patient_id, adm.consultation_id, adm.room_id, adm.doctor_id,
	adm.status, adm.admitted_at, adm.discharged_at, adm.discharge_notes,
	p.name, d.name, r.room_number, rt.name
`

func scanAdmissionDetail(row pgx.Row) (*AdmissionDetail, error) {
	var a AdmissionDetail
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ConsultationID,
		&a.RoomID,
		&a.DoctorID,
		&a.Status,
		&a.AdmittedAt,
		&a.DischargedAt,
		&a.DischargeNotes,
		&a.PatientName,
		&a.DoctorName,
		&a.RoomNumber,
		&a.RoomType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}
	return &a, nil
}

const admissionDetailFrom = `
	FROM admissions adm
	JOIN patients p ON adm.patient_id = p.id
	JOIN doctors d ON adm.doctor_id = d.id
	JOIN rooms r ON adm.room_id = r.id
	JOIN room_types rt ON r.room_type_id = rt.id
`

func (s *PgStore) GetAdmission(ctx context.Context, id uuid.UUID) (*AdmissionDetail, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+admissionDetailColumns+admissionDetailFrom+`
		WHERE adm.id = $1
	`, id)
	return scanAdmissionDetail(row)
}

func (s *PgStore) ListAdmissions(ctx context.Context, filter AdmissionFilter) ([]AdmissionDetail, error) {
	query := `SELECT ` + admissionDetailColumns + admissionDetailFrom + ` WHERE 1=1`
	args := []any{}

	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		query += ` AND adm.patient_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND adm.status = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY adm.admitted_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AdmissionDetail
	for rows.Next() {
		a, err := scanAdmissionDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func (s *PgStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1),
		       COUNT(*) FILTER (WHERE status = $2)
		FROM admissions
	`, AdmissionAdmitted, AdmissionDischarged).Scan(&st.TotalAdmissions, &st.Active, &st.Discharged)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// -- transaction-scoped statements --

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) RoomForUpdate(ctx context.Context, roomID uuid.UUID) (*Room, error) {
	var r Room
	err := t.tx.QueryRow(ctx, `
		SELECT id, room_number, room_type_id, floor_number, total_beds, available_beds, is_active, created_at
		FROM rooms
		WHERE id = $1
		FOR UPDATE
	`, roomID).Scan(
		&r.ID,
		&r.RoomNumber,
		&r.RoomTypeID,
		&r.FloorNumber,
		&r.TotalBeds,
		&r.AvailableBeds,
		&r.Active,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (t *pgTx) AdjustBeds(ctx context.Context, roomID uuid.UUID, delta int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE rooms
		SET available_beds = available_beds + $2
		WHERE id = $1
		  AND available_beds + $2 >= 0
		  AND available_beds + $2 <= total_beds
	`, roomID, delta)
	if err != nil {
		return fmt.Errorf("adjust beds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if delta < 0 {
			return ErrNoBedsAvailable
		}
		return ErrLedgerOutOfRange
	}
	return nil
}

func (t *pgTx) SetAvailableBeds(ctx context.Context, roomID uuid.UUID, beds int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE rooms
		SET available_beds = $2
		WHERE id = $1
		  AND $2 BETWEEN 0 AND total_beds
	`, roomID, beds)
	if err != nil {
		return fmt.Errorf("set beds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLedgerOutOfRange
	}
	return nil
}

func (t *pgTx) AdmissionForUpdate(ctx context.Context, id uuid.UUID) (*Admission, error) {
	var a Admission
	err := t.tx.QueryRow(ctx, `
		SELECT id, patient_id, consultation_id, room_id, doctor_id, status, admitted_at, discharged_at, discharge_notes
		FROM admissions
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&a.ID,
		&a.PatientID,
		&a.ConsultationID,
		&a.RoomID,
		&a.DoctorID,
		&a.Status,
		&a.AdmittedAt,
		&a.DischargedAt,
		&a.DischargeNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (t *pgTx) InsertAdmission(ctx context.Context, adm *Admission) (*Admission, error) {
	id := uuid.New()

	var created Admission
	err := t.tx.QueryRow(ctx, `
		INSERT INTO admissions (id, patient_id, consultation_id, room_id, doctor_id, status, admitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, patient_id, consultation_id, room_id, doctor_id, status, admitted_at, discharged_at, discharge_notes
	`, id, adm.PatientID, adm.ConsultationID, adm.RoomID, adm.DoctorID, adm.Status).Scan(
		&created.ID,
		&created.PatientID,
		&created.ConsultationID,
		&created.RoomID,
		&created.DoctorID,
		&created.Status,
		&created.AdmittedAt,
		&created.DischargedAt,
		&created.DischargeNotes,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (t *pgTx) SetAdmissionDischarged(ctx context.Context, id uuid.UUID, notes *string) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE admissions
		SET status = $2,
		    discharged_at = now(),
		    discharge_notes = $3
		WHERE id = $1
	`, id, AdmissionDischarged, notes)
	return err
}

func (t *pgTx) SetAdmissionRoom(ctx context.Context, id uuid.UUID, roomID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE admissions
		SET room_id = $2
		WHERE id = $1
	`, id, roomID)
	return err
}

func (t *pgTx) FlagConsultationAdmitted(ctx context.Context, consultationID, roomID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE consultations
		SET requires_admission = true,
		    assigned_room_id = $2
		WHERE id = $1
	`, consultationID, roomID)
	return err
}

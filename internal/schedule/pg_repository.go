package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marham/hospital-backend/internal/db"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) ListTimeSlots(ctx context.Context) ([]TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, slot_number, start_time, end_time, created_at
		FROM time_slots
		ORDER BY slot_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TimeSlot
	for rows.Next() {
		var s TimeSlot
		if err := rows.Scan(&s.ID, &s.SlotNumber, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	return result, rows.Err()
}

func (r *PgRepository) ReplaceTemplate(ctx context.Context, doctorID uuid.UUID, entries []TemplateSlot) (int, error) {
	inserted := 0

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM doctor_slots
			WHERE doctor_id = $1
		`, doctorID); err != nil {
			return fmt.Errorf("clear doctor slots: %w", err)
		}

		for _, e := range entries {
			if _, err := tx.Exec(ctx, `
				INSERT INTO doctor_slots (doctor_id, day_of_week, slot_id)
				VALUES ($1, $2, $3)
			`, doctorID, e.DayOfWeek, e.SlotID); err != nil {
				return fmt.Errorf("insert doctor slot: %w", err)
			}
			inserted++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (r *PgRepository) Template(ctx context.Context, doctorID uuid.UUID, dayOfWeek *int) ([]TemplateEntry, error) {
	query := `
		SELECT ds.doctor_id, ds.day_of_week, ds.slot_id, ts.slot_number, ts.start_time, ts.end_time
		FROM doctor_slots ds
		JOIN time_slots ts ON ds.slot_id = ts.id
		WHERE ds.doctor_id = $1
	`
	args := []any{doctorID}

	if dayOfWeek != nil {
		query += ` AND ds.day_of_week = $2`
		args = append(args, *dayOfWeek)
	}

	query += ` ORDER BY ds.day_of_week, ts.slot_number`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TemplateEntry
	for rows.Next() {
		var e TemplateEntry
		if err := rows.Scan(&e.DoctorID, &e.DayOfWeek, &e.SlotID, &e.SlotNumber, &e.StartTime, &e.EndTime); err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	return result, rows.Err()
}

func (r *PgRepository) HasSlot(ctx context.Context, doctorID uuid.UUID, dayOfWeek int, slotID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctor_slots
			WHERE doctor_id = $1 AND day_of_week = $2 AND slot_id = $3
		)
	`, doctorID, dayOfWeek, slotID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/marham/hospital-backend/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	bg := context.Background()
	if err := seedSpecializations(bg, pool); err != nil {
		log.Fatalf("seed specializations: %v", err)
	}
	if err := seedTimeSlots(bg, pool); err != nil {
		log.Fatalf("seed time slots: %v", err)
	}
	if err := seedRooms(bg, pool); err != nil {
		log.Fatalf("seed rooms: %v", err)
	}
	if err := seedDoctors(bg, pool, 50); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(bg, pool, 2000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedReceptionists(bg, pool, 10); err != nil {
		log.Fatalf("seed receptionists: %v", err)
	}

	log.Println("seed complete")
}

var specializations = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func seedSpecializations(ctx context.Context, pool *pgxpool.Pool) error {
	log.Printf("seeding %d specializations", len(specializations))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, name := range specializations {
		_, err := tx.Exec(ctx, `
			INSERT INTO specializations (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, i+1, name)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// seedTimeSlots creates twelve 30-minute slots from 09:00 to 15:00.
func seedTimeSlots(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding time slots")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	start := 9 * 60
	for i := 0; i < 12; i++ {
		from := start + i*30
		to := from + 30

		_, err := tx.Exec(ctx, `
			INSERT INTO time_slots (id, slot_number, start_time, end_time, created_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (slot_number) DO NOTHING
		`, uuid.New(), i+1, minutesToClock(from), minutesToClock(to))
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func seedRooms(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding room types and rooms")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	types := []struct {
		name string
		beds int
	}{
		{"General Ward", 6},
		{"Semi-Private", 2},
		{"Private", 1},
		{"ICU", 1},
	}

	for i, rt := range types {
		typeID := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO room_types (id, name, description)
			VALUES ($1, $2, NULL)
		`, typeID, rt.name)
		if err != nil {
			return err
		}

		for room := 0; room < 5; room++ {
			number := fmt.Sprintf("%d%02d", i+1, room+1)
			_, err := tx.Exec(ctx, `
				INSERT INTO rooms (id, room_number, room_type_id, floor_number, total_beds, available_beds, is_active, created_at)
				VALUES ($1, $2, $3, $4, $5, $5, true, now())
			`, uuid.New(), number, typeID, i+1, rt.beds)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d doctors", count)

	hash := devPasswordHash()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		regNo := fmt.Sprintf("REG-%06d", gofakeit.Number(100000, 999999))
		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, password_hash, age, specialization_id, experience_years, registration_number, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, true, now())
		`, uuid.New(), gofakeit.Name(), hash,
			gofakeit.Number(28, 65),
			gofakeit.Number(1, len(specializations)),
			gofakeit.Number(1, 35),
			regNo)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	hash := devPasswordHash()
	bloodGroups := []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, password_hash, age, gender, blood_group, is_active, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, true, now())
			`, uuid.New(), gofakeit.Name(), hash,
				gofakeit.Number(1, 95),
				gofakeit.Gender(),
				bloodGroups[gofakeit.Number(0, len(bloodGroups)-1)])
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	return nil
}

func seedReceptionists(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d receptionists", count)

	hash := devPasswordHash()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO receptionists (id, name, password_hash, is_active, created_at)
			VALUES ($1, $2, $3, true, now())
		`, uuid.New(), gofakeit.Name(), hash)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// devPasswordHash is the bcrypt hash every seeded account signs in with
// (password "password123"). Seed data is for local development only.
func devPasswordHash() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}
	return string(hash)
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	redisclient "github.com/marham/hospital-backend/internal/redis"
)

var (
	ErrSlotBusy            = errors.New("slot is currently being booked, please retry")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrUnknownStatus       = errors.New("unknown appointment status")
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidBookedByType = errors.New("booked_by_type must be patient, doctor or receptionist")
)

var bookedByTypes = map[string]bool{
	"patient":      true,
	"doctor":       true,
	"receptionist": true,
}

// Calendar is the slice of the slot calendar the booking engine needs.
// Implemented by schedule.Service.
type Calendar interface {
	SlotBookable(ctx context.Context, doctorID uuid.UUID, dayOfWeek int, slotID uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	calendar Calendar
	locker   redisclient.Locker
	logger   zerolog.Logger
}

func NewService(repo Repository, calendar Calendar, locker redisclient.Locker, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		calendar: calendar,
		locker:   locker,
		logger:   logger,
	}
}

// CheckAvailability runs the two-step slot check: the slot must be in the
// doctor's weekly calendar for that date's weekday, and no non-terminal
// appointment may already occupy (doctor, date, slot).
func (s *Service) CheckAvailability(ctx context.Context, doctorID uuid.UUID, date time.Time, slotID uuid.UUID) (Availability, error) {
	inSchedule, err := s.calendar.SlotBookable(ctx, doctorID, int(date.Weekday()), slotID)
	if err != nil {
		return Availability{}, fmt.Errorf("check doctor schedule: %w", err)
	}
	if !inSchedule {
		return Availability{Available: false, Reason: ReasonNotInSchedule}, nil
	}

	_, err = s.repo.FindActive(ctx, doctorID, date, slotID)
	if err == nil {
		return Availability{Available: false, Reason: ReasonAlreadyBooked}, nil
	}
	if !errors.Is(err, ErrAppointmentNotFound) {
		return Availability{}, fmt.Errorf("check existing booking: %w", err)
	}

	return Availability{Available: true}, nil
}

type CreateInput struct {
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	Date         time.Time
	SlotID       uuid.UUID
	BookedByType string
	BookedByID   uuid.UUID
	Notes        *string
}

// Create books (doctor, date, slot) for a patient. A Redis lock keyed on the
// triple serializes concurrent attempts; the database unique constraint stays
// the authoritative guard, so a racing insert still surfaces as ErrSlotTaken.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	if in.PatientID == uuid.Nil || in.DoctorID == uuid.Nil || in.SlotID == uuid.Nil || in.Date.IsZero() {
		return nil, ErrMissingField
	}
	if !bookedByTypes[in.BookedByType] {
		return nil, ErrInvalidBookedByType
	}

	var created *Appointment

	err := s.locker.WithBookingLock(ctx, in.DoctorID, in.Date, in.SlotID, func(lockCtx context.Context) error {
		// Re-check inside the critical section
		existing, err := s.repo.FindActive(lockCtx, in.DoctorID, in.Date, in.SlotID)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check existing booking: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		appt, err := s.repo.Create(lockCtx, &Appointment{
			PatientID:    in.PatientID,
			DoctorID:     in.DoctorID,
			Date:         in.Date,
			SlotID:       in.SlotID,
			BookedByType: in.BookedByType,
			BookedByID:   in.BookedByID,
			Notes:        in.Notes,
		})
		if err != nil {
			return err
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", created.ID.String()).
		Str("doctor_id", in.DoctorID.String()).
		Str("date", in.Date.Format("2006-01-02")).
		Msg("appointment booked")

	return created, nil
}

// UpdateStatus moves an appointment along the legal transition table.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	if !to.Valid() {
		return nil, ErrUnknownStatus
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appt.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}

	return s.repo.UpdateStatus(ctx, id, to)
}

// Cancel sets the reserved Cancelled code, freeing the slot for rebooking.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]AppointmentDetail, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// SweepNoShows marks every appointment still Scheduled on a past date as
// NoShow. Called periodically by the no-show worker; returns how many
// appointments were swept.
func (s *Service) SweepNoShows(ctx context.Context, today time.Time) (int, error) {
	candidates, err := s.repo.FindScheduledBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("find stale scheduled appointments: %w", err)
	}

	swept := 0
	for _, appt := range candidates {
		if _, err := s.repo.UpdateStatus(ctx, appt.ID, StatusNoShow); err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				continue
			}
			s.logger.Error().Err(err).
				Str("appointment_id", appt.ID.String()).
				Msg("failed to mark appointment no-show")
			continue
		}
		swept++
	}

	return swept, nil
}

package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidDayOfWeek = errors.New("day_of_week must be between 0 and 6")
	ErrMissingSlotID    = errors.New("slot_id is required")
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ReplaceTemplate swaps a doctor's whole weekly calendar for the given
// entries. Entries marked unavailable are dropped rather than persisted, so
// the stored template holds bookable slots only.
func (s *Service) ReplaceTemplate(ctx context.Context, doctorID uuid.UUID, entries []TemplateSlot) (int, error) {
	available := make([]TemplateSlot, 0, len(entries))
	for _, e := range entries {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
			return 0, ErrInvalidDayOfWeek
		}
		if e.SlotID == uuid.Nil {
			return 0, ErrMissingSlotID
		}
		if e.Available {
			available = append(available, e)
		}
	}

	inserted, err := s.repo.ReplaceTemplate(ctx, doctorID, available)
	if err != nil {
		return 0, fmt.Errorf("replace template: %w", err)
	}

	s.logger.Info().
		Str("doctor_id", doctorID.String()).
		Int("slots", inserted).
		Msg("doctor template replaced")

	return inserted, nil
}

// Template returns the doctor's calendar, optionally for a single weekday.
func (s *Service) Template(ctx context.Context, doctorID uuid.UUID, dayOfWeek *int) ([]TemplateEntry, error) {
	if dayOfWeek != nil && (*dayOfWeek < 0 || *dayOfWeek > 6) {
		return nil, ErrInvalidDayOfWeek
	}

	entries, err := s.repo.Template(ctx, doctorID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return entries, nil
}

// TimeSlots returns the shared slot catalog ordered by slot number.
func (s *Service) TimeSlots(ctx context.Context) ([]TimeSlot, error) {
	slots, err := s.repo.ListTimeSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// SlotBookable reports whether the doctor's calendar contains (dayOfWeek,
// slotID). The booking engine uses this as its first availability check.
func (s *Service) SlotBookable(ctx context.Context, doctorID uuid.UUID, dayOfWeek int, slotID uuid.UUID) (bool, error) {
	return s.repo.HasSlot(ctx, doctorID, dayOfWeek, slotID)
}

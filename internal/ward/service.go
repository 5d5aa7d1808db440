package ward

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidBedCount   = errors.New("available beds must be between 0 and total beds")
	ErrInvalidTotalBeds  = errors.New("total_beds must be at least 1")
	ErrMissingRoomNumber = errors.New("room_number is required")
)

type Service struct {
	store  Store
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

type AdmitInput struct {
	PatientID      uuid.UUID
	ConsultationID uuid.UUID
	RoomID         uuid.UUID
	DoctorID       uuid.UUID
}

// Admit claims one bed of the target room for a patient. Room lookup, bed
// check, admission insert, ledger decrement and consultation flagging all
// happen in a single transaction.
func (s *Service) Admit(ctx context.Context, in AdmitInput) (*Admission, error) {
	if in.PatientID == uuid.Nil || in.ConsultationID == uuid.Nil || in.RoomID == uuid.Nil || in.DoctorID == uuid.Nil {
		return nil, ErrMissingField
	}

	var created *Admission

	err := s.store.InTx(ctx, func(tx Tx) error {
		room, err := tx.RoomForUpdate(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if room.AvailableBeds <= 0 {
			return ErrNoBedsAvailable
		}

		adm, err := tx.InsertAdmission(ctx, &Admission{
			PatientID:      in.PatientID,
			ConsultationID: in.ConsultationID,
			RoomID:         in.RoomID,
			DoctorID:       in.DoctorID,
			Status:         AdmissionAdmitted,
		})
		if err != nil {
			return fmt.Errorf("insert admission: %w", err)
		}

		if err := tx.AdjustBeds(ctx, in.RoomID, -1); err != nil {
			return err
		}

		if err := tx.FlagConsultationAdmitted(ctx, in.ConsultationID, in.RoomID); err != nil {
			return fmt.Errorf("flag consultation: %w", err)
		}

		created = adm
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("admission_id", created.ID.String()).
		Str("room_id", in.RoomID.String()).
		Msg("patient admitted")

	return created, nil
}

// Discharge closes an admission and returns its bed to the room. Calling it
// twice on the same admission fails the second time; the bed is never
// incremented twice.
func (s *Service) Discharge(ctx context.Context, admissionID uuid.UUID, notes *string) error {
	err := s.store.InTx(ctx, func(tx Tx) error {
		adm, err := tx.AdmissionForUpdate(ctx, admissionID)
		if err != nil {
			return err
		}
		if adm.Status == AdmissionDischarged {
			return ErrAlreadyDischarged
		}

		if err := tx.SetAdmissionDischarged(ctx, admissionID, notes); err != nil {
			return fmt.Errorf("mark discharged: %w", err)
		}

		return tx.AdjustBeds(ctx, adm.RoomID, +1)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("admission_id", admissionID.String()).
		Msg("patient discharged")

	return nil
}

// Transfer moves an admitted patient to another room. The old room gains a
// bed and the new room loses one, so the net ledger effect is zero.
func (s *Service) Transfer(ctx context.Context, admissionID, newRoomID uuid.UUID) error {
	if newRoomID == uuid.Nil {
		return ErrMissingField
	}

	err := s.store.InTx(ctx, func(tx Tx) error {
		adm, err := tx.AdmissionForUpdate(ctx, admissionID)
		if err != nil {
			return err
		}
		if adm.Status != AdmissionAdmitted {
			return ErrNotAdmitted
		}

		newRoom, err := tx.RoomForUpdate(ctx, newRoomID)
		if err != nil {
			return err
		}
		if newRoom.AvailableBeds <= 0 {
			return ErrNoBedsInNewRoom
		}

		if err := tx.SetAdmissionRoom(ctx, admissionID, newRoomID); err != nil {
			return fmt.Errorf("move admission: %w", err)
		}

		if err := tx.AdjustBeds(ctx, adm.RoomID, +1); err != nil {
			return err
		}
		if err := tx.AdjustBeds(ctx, newRoomID, -1); err != nil {
			if errors.Is(err, ErrNoBedsAvailable) {
				return ErrNoBedsInNewRoom
			}
			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("admission_id", admissionID.String()).
		Str("new_room_id", newRoomID.String()).
		Msg("patient transferred")

	return nil
}

// CreateRoom registers a room with all beds available.
func (s *Service) CreateRoom(ctx context.Context, room *Room) (*Room, error) {
	if room.RoomNumber == "" {
		return nil, ErrMissingRoomNumber
	}
	if room.TotalBeds < 1 {
		return nil, ErrInvalidTotalBeds
	}
	if room.FloorNumber == 0 {
		room.FloorNumber = 1
	}
	room.AvailableBeds = room.TotalBeds
	room.Active = true

	return s.store.CreateRoom(ctx, room)
}

// SetAvailableBeds is the manual ledger override. The new count must respect
// 0 <= beds <= total_beds.
func (s *Service) SetAvailableBeds(ctx context.Context, roomID uuid.UUID, beds int) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		room, err := tx.RoomForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		if beds < 0 || beds > room.TotalBeds {
			return ErrInvalidBedCount
		}
		return tx.SetAvailableBeds(ctx, roomID, beds)
	})
}

func (s *Service) Room(ctx context.Context, id uuid.UUID) (*RoomDetail, error) {
	return s.store.GetRoom(ctx, id)
}

func (s *Service) Rooms(ctx context.Context, filter RoomFilter) ([]RoomDetail, error) {
	return s.store.ListRooms(ctx, filter)
}

func (s *Service) RoomTypes(ctx context.Context) ([]RoomType, error) {
	return s.store.ListRoomTypes(ctx)
}

func (s *Service) Occupants(ctx context.Context, roomID uuid.UUID) ([]Occupant, error) {
	return s.store.Occupants(ctx, roomID)
}

func (s *Service) Admission(ctx context.Context, id uuid.UUID) (*AdmissionDetail, error) {
	return s.store.GetAdmission(ctx, id)
}

func (s *Service) Admissions(ctx context.Context, filter AdmissionFilter) ([]AdmissionDetail, error) {
	return s.store.ListAdmissions(ctx, filter)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx)
}

package ward

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrNoBedsAvailable   = errors.New("no beds available in this room")
	ErrNoBedsInNewRoom   = errors.New("no beds available in new room")
	ErrAdmissionNotFound = errors.New("admission not found")
	ErrAlreadyDischarged = errors.New("patient already discharged")
	ErrNotAdmitted       = errors.New("can only transfer admitted patients")
	ErrLedgerOutOfRange  = errors.New("bed count outside room capacity")
)

// Store is the transactional relational store behind the bed ledger. All
// multi-step mutations run through InTx so they apply atomically.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetRoom(ctx context.Context, id uuid.UUID) (*RoomDetail, error)
	ListRooms(ctx context.Context, filter RoomFilter) ([]RoomDetail, error)
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	CreateRoom(ctx context.Context, room *Room) (*Room, error)
	Occupants(ctx context.Context, roomID uuid.UUID) ([]Occupant, error)

	GetAdmission(ctx context.Context, id uuid.UUID) (*AdmissionDetail, error)
	ListAdmissions(ctx context.Context, filter AdmissionFilter) ([]AdmissionDetail, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Tx is the set of statements available inside one ledger transaction.
type Tx interface {
	// RoomForUpdate loads a room row with a row lock so concurrent ledger
	// mutations on the same room serialize.
	RoomForUpdate(ctx context.Context, roomID uuid.UUID) (*Room, error)

	// AdjustBeds moves available_beds by delta. The statement itself guards
	// 0 <= available_beds <= total_beds; a guarded-out decrement returns
	// ErrNoBedsAvailable, any other guarded-out change ErrLedgerOutOfRange.
	AdjustBeds(ctx context.Context, roomID uuid.UUID, delta int) error

	SetAvailableBeds(ctx context.Context, roomID uuid.UUID, beds int) error

	AdmissionForUpdate(ctx context.Context, id uuid.UUID) (*Admission, error)
	InsertAdmission(ctx context.Context, adm *Admission) (*Admission, error)
	SetAdmissionDischarged(ctx context.Context, id uuid.UUID, notes *string) error
	SetAdmissionRoom(ctx context.Context, id uuid.UUID, roomID uuid.UUID) error

	// FlagConsultationAdmitted sets requires_admission on the source
	// consultation and records the assigned room.
	FlagConsultationAdmitted(ctx context.Context, consultationID, roomID uuid.UUID) error
}

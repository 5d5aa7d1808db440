package encounter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrMissingAppointment  = errors.New("appointment_id is required")
	ErrMissingMedicineName = errors.New("medicine_name is required")
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

type PrescriptionInput struct {
	MedicineName string
	Dosage       *string
	Frequency    *string
	Duration     *string
	Instructions *string
}

type CreateInput struct {
	AppointmentID     uuid.UUID
	Vitals            Vitals
	RequiresAdmission bool
	AssignedRoomID    *uuid.UUID
	Prescriptions     []PrescriptionInput
}

// Create records a consultation in one transaction: the consultation row, all
// its prescriptions, the parent appointment moving to Completed, and, when a
// room is assigned, one bed claimed from that room. Any failure, including a
// full assigned room, rolls the whole encounter back.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Consultation, error) {
	if in.AppointmentID == uuid.Nil {
		return nil, ErrMissingAppointment
	}
	for _, p := range in.Prescriptions {
		if p.MedicineName == "" {
			return nil, ErrMissingMedicineName
		}
	}

	var created *Consultation

	err := s.store.InTx(ctx, func(tx Tx) error {
		c, err := tx.InsertConsultation(ctx, &Consultation{
			AppointmentID:     in.AppointmentID,
			BloodPressure:     in.Vitals.BloodPressure,
			HeartRate:         in.Vitals.HeartRate,
			Temperature:       in.Vitals.Temperature,
			OxygenLevel:       in.Vitals.OxygenLevel,
			Symptoms:          in.Vitals.Symptoms,
			Diagnosis:         in.Vitals.Diagnosis,
			Notes:             in.Vitals.Notes,
			RequiresAdmission: in.RequiresAdmission,
			AssignedRoomID:    in.AssignedRoomID,
		})
		if err != nil {
			return fmt.Errorf("insert consultation: %w", err)
		}

		for _, p := range in.Prescriptions {
			err := tx.InsertPrescription(ctx, &Prescription{
				ConsultationID: c.ID,
				MedicineName:   p.MedicineName,
				Dosage:         p.Dosage,
				Frequency:      p.Frequency,
				Duration:       p.Duration,
				Instructions:   p.Instructions,
			})
			if err != nil {
				return fmt.Errorf("insert prescription: %w", err)
			}
		}

		if err := tx.CompleteAppointment(ctx, in.AppointmentID); err != nil {
			return fmt.Errorf("complete appointment: %w", err)
		}

		if in.AssignedRoomID != nil {
			if err := tx.ClaimBed(ctx, *in.AssignedRoomID); err != nil {
				return err
			}
		}

		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("consultation_id", created.ID.String()).
		Str("appointment_id", in.AppointmentID.String()).
		Int("prescriptions", len(in.Prescriptions)).
		Msg("consultation recorded")

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ConsultationDetail, error) {
	return s.store.GetConsultation(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]ConsultationDetail, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListConsultations(ctx, filter, limit, offset)
}

// MedicalHistory returns the patient's consultations with prescriptions.
func (s *Service) MedicalHistory(ctx context.Context, patientID uuid.UUID) ([]ConsultationDetail, error) {
	return s.store.ListByPatient(ctx, patientID)
}

// UpdateVitals rewrites the clinical fields of an existing consultation.
func (s *Service) UpdateVitals(ctx context.Context, id uuid.UUID, v Vitals) error {
	return s.store.UpdateVitals(ctx, id, v)
}

// AddPrescription appends one prescription to an existing consultation.
func (s *Service) AddPrescription(ctx context.Context, consultationID uuid.UUID, in PrescriptionInput) (*Prescription, error) {
	if in.MedicineName == "" {
		return nil, ErrMissingMedicineName
	}
	return s.store.AddPrescription(ctx, &Prescription{
		ConsultationID: consultationID,
		MedicineName:   in.MedicineName,
		Dosage:         in.Dosage,
		Frequency:      in.Frequency,
		Duration:       in.Duration,
		Instructions:   in.Instructions,
	})
}

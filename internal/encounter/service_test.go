package encounter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marham/hospital-backend/internal/booking"
	"github.com/marham/hospital-backend/internal/ward"
)

// -- In-memory transactional store --

type memState struct {
	consultations map[uuid.UUID]*Consultation
	prescriptions map[uuid.UUID][]Prescription // by consultation id
	// appointment id -> status code
	appointments map[uuid.UUID]booking.Status
	// room id -> available beds
	beds map[uuid.UUID]int
}

func (st *memState) clone() *memState {
	cp := &memState{
		consultations: make(map[uuid.UUID]*Consultation, len(st.consultations)),
		prescriptions: make(map[uuid.UUID][]Prescription, len(st.prescriptions)),
		appointments:  make(map[uuid.UUID]booking.Status, len(st.appointments)),
		beds:          make(map[uuid.UUID]int, len(st.beds)),
	}
	for id, c := range st.consultations {
		v := *c
		cp.consultations[id] = &v
	}
	for id, ps := range st.prescriptions {
		cp.prescriptions[id] = append([]Prescription(nil), ps...)
	}
	for id, s := range st.appointments {
		cp.appointments[id] = s
	}
	for id, n := range st.beds {
		cp.beds[id] = n
	}
	return cp
}

type memStore struct {
	state *memState

	prescriptionErr error // injected failure for rollback tests
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		consultations: make(map[uuid.UUID]*Consultation),
		prescriptions: make(map[uuid.UUID][]Prescription),
		appointments:  make(map[uuid.UUID]booking.Status),
		beds:          make(map[uuid.UUID]int),
	}}
}

func (s *memStore) addAppointment() uuid.UUID {
	id := uuid.New()
	s.state.appointments[id] = booking.StatusScheduled
	return id
}

func (s *memStore) addRoom(beds int) uuid.UUID {
	id := uuid.New()
	s.state.beds[id] = beds
	return id
}

func (s *memStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	work := s.state.clone()
	if err := fn(&memTx{state: work, store: s}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *memStore) GetConsultation(_ context.Context, id uuid.UUID) (*ConsultationDetail, error) {
	c, ok := s.state.consultations[id]
	if !ok {
		return nil, ErrConsultationNotFound
	}
	return &ConsultationDetail{
		Consultation:  *c,
		Prescriptions: append([]Prescription(nil), s.state.prescriptions[id]...),
	}, nil
}

func (s *memStore) ListConsultations(_ context.Context, _ ListFilter, _, _ int) ([]ConsultationDetail, error) {
	return nil, nil
}

func (s *memStore) ListByPatient(_ context.Context, _ uuid.UUID) ([]ConsultationDetail, error) {
	return nil, nil
}

func (s *memStore) UpdateVitals(_ context.Context, id uuid.UUID, v Vitals) error {
	c, ok := s.state.consultations[id]
	if !ok {
		return ErrConsultationNotFound
	}
	c.BloodPressure = v.BloodPressure
	c.HeartRate = v.HeartRate
	c.Temperature = v.Temperature
	c.OxygenLevel = v.OxygenLevel
	c.Symptoms = v.Symptoms
	c.Diagnosis = v.Diagnosis
	c.Notes = v.Notes
	return nil
}

func (s *memStore) AddPrescription(_ context.Context, p *Prescription) (*Prescription, error) {
	if _, ok := s.state.consultations[p.ConsultationID]; !ok {
		return nil, ErrConsultationNotFound
	}
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	s.state.prescriptions[p.ConsultationID] = append(s.state.prescriptions[p.ConsultationID], cp)
	out := cp
	return &out, nil
}

type memTx struct {
	state *memState
	store *memStore
}

func (t *memTx) InsertConsultation(_ context.Context, c *Consultation) (*Consultation, error) {
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	t.state.consultations[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (t *memTx) InsertPrescription(_ context.Context, p *Prescription) error {
	if t.store.prescriptionErr != nil {
		return t.store.prescriptionErr
	}
	cp := *p
	cp.ID = uuid.New()
	t.state.prescriptions[p.ConsultationID] = append(t.state.prescriptions[p.ConsultationID], cp)
	return nil
}

func (t *memTx) CompleteAppointment(_ context.Context, appointmentID uuid.UUID) error {
	if _, ok := t.state.appointments[appointmentID]; !ok {
		return booking.ErrAppointmentNotFound
	}
	t.state.appointments[appointmentID] = booking.StatusCompleted
	return nil
}

func (t *memTx) ClaimBed(_ context.Context, roomID uuid.UUID) error {
	if t.state.beds[roomID] <= 0 {
		return ward.ErrNoBedsAvailable
	}
	t.state.beds[roomID]--
	return nil
}

// -- Helpers --

func strPtr(s string) *string { return &s }

func newTestService(store Store) *Service {
	return NewService(store, zerolog.Nop())
}

// -- Tests --

func TestCreateConsultationCompletesAppointment(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	apptID := store.addAppointment()

	c, err := svc.Create(context.Background(), CreateInput{
		AppointmentID: apptID,
		Vitals: Vitals{
			BloodPressure: strPtr("120/80"),
			Diagnosis:     strPtr("viral infection"),
		},
		Prescriptions: []PrescriptionInput{
			{MedicineName: "Paracetamol", Dosage: strPtr("500mg")},
			{MedicineName: "Ibuprofen"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if store.state.appointments[apptID] != booking.StatusCompleted {
		t.Errorf("appointment status = %s, want Completed", store.state.appointments[apptID])
	}

	detail, err := store.GetConsultation(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetConsultation: %v", err)
	}
	if len(detail.Prescriptions) != 2 {
		t.Errorf("prescriptions = %d, want 2", len(detail.Prescriptions))
	}
}

func TestCreateConsultationClaimsAssignedBed(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	apptID := store.addAppointment()
	roomID := store.addRoom(1)

	_, err := svc.Create(context.Background(), CreateInput{
		AppointmentID:     apptID,
		RequiresAdmission: true,
		AssignedRoomID:    &roomID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if store.state.beds[roomID] != 0 {
		t.Errorf("beds = %d, want 0", store.state.beds[roomID])
	}
}

func TestCreateConsultationFullRoomRollsBack(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	apptID := store.addAppointment()
	roomID := store.addRoom(0)

	_, err := svc.Create(context.Background(), CreateInput{
		AppointmentID:  apptID,
		AssignedRoomID: &roomID,
		Prescriptions:  []PrescriptionInput{{MedicineName: "Paracetamol"}},
	})
	if !errors.Is(err, ward.ErrNoBedsAvailable) {
		t.Fatalf("err = %v, want ward.ErrNoBedsAvailable", err)
	}

	// The full-room conflict aborts the whole encounter.
	if len(store.state.consultations) != 0 {
		t.Errorf("consultations = %d, want 0 after rollback", len(store.state.consultations))
	}
	if store.state.appointments[apptID] != booking.StatusScheduled {
		t.Errorf("appointment status = %s, want Scheduled after rollback", store.state.appointments[apptID])
	}
}

func TestCreateConsultationPrescriptionFailureRollsBack(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	apptID := store.addAppointment()
	roomID := store.addRoom(2)

	store.prescriptionErr = errors.New("prescriptions table unreachable")

	_, err := svc.Create(context.Background(), CreateInput{
		AppointmentID:  apptID,
		AssignedRoomID: &roomID,
		Prescriptions:  []PrescriptionInput{{MedicineName: "Amoxicillin"}},
	})
	if err == nil {
		t.Fatal("expected create to fail")
	}

	if len(store.state.consultations) != 0 {
		t.Errorf("consultations = %d, want 0 after rollback", len(store.state.consultations))
	}
	if store.state.beds[roomID] != 2 {
		t.Errorf("beds = %d, want 2 after rollback", store.state.beds[roomID])
	}
	if store.state.appointments[apptID] != booking.StatusScheduled {
		t.Errorf("appointment status = %s, want Scheduled after rollback", store.state.appointments[apptID])
	}
}

func TestCreateConsultationValidation(t *testing.T) {
	svc := newTestService(newMemStore())

	if _, err := svc.Create(context.Background(), CreateInput{}); !errors.Is(err, ErrMissingAppointment) {
		t.Errorf("missing appointment: err = %v", err)
	}

	store := newMemStore()
	svc = newTestService(store)
	if _, err := svc.Create(context.Background(), CreateInput{
		AppointmentID: store.addAppointment(),
		Prescriptions: []PrescriptionInput{{}},
	}); !errors.Is(err, ErrMissingMedicineName) {
		t.Errorf("empty medicine name: err = %v", err)
	}
}

func TestAddPrescriptionRequiresMedicineName(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	apptID := store.addAppointment()

	c, err := svc.Create(context.Background(), CreateInput{AppointmentID: apptID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AddPrescription(context.Background(), c.ID, PrescriptionInput{}); !errors.Is(err, ErrMissingMedicineName) {
		t.Errorf("err = %v, want ErrMissingMedicineName", err)
	}

	p, err := svc.AddPrescription(context.Background(), c.ID, PrescriptionInput{MedicineName: "Cetirizine"})
	if err != nil {
		t.Fatalf("AddPrescription: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("prescription id not assigned")
	}
}

func TestUpdateVitals(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	c, err := svc.Create(context.Background(), CreateInput{AppointmentID: store.addAppointment()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	hr := 88
	if err := svc.UpdateVitals(context.Background(), c.ID, Vitals{HeartRate: &hr, Diagnosis: strPtr("allergy")}); err != nil {
		t.Fatalf("UpdateVitals: %v", err)
	}

	detail, err := svc.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.HeartRate == nil || *detail.HeartRate != 88 {
		t.Errorf("heart rate not updated: %+v", detail.HeartRate)
	}

	if err := svc.UpdateVitals(context.Background(), uuid.New(), Vitals{}); !errors.Is(err, ErrConsultationNotFound) {
		t.Errorf("unknown consultation: err = %v", err)
	}
}

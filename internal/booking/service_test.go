package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -- Mock Repository --

type slotKey struct {
	doctor uuid.UUID
	date   string
	slot   uuid.UUID
}

// mockRepo mimics the appointments table including its unique constraint on
// non-terminal (doctor, date, slot) rows.
type mockRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func key(doctorID uuid.UUID, date time.Time, slotID uuid.UUID) slotKey {
	return slotKey{doctor: doctorID, date: date.Format("2006-01-02"), slot: slotID}
}

func (m *mockRepo) activeLocked(k slotKey) *Appointment {
	for _, a := range m.appointments {
		if key(a.DoctorID, a.Date, a.SlotID) == k && !a.Status.Terminal() {
			return a
		}
	}
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) FindActive(_ context.Context, doctorID uuid.UUID, date time.Time, slotID uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.activeLocked(key(doctorID, date, slotID)); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, ErrAppointmentNotFound
}

func (m *mockRepo) Create(_ context.Context, appt *Appointment) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeLocked(key(appt.DoctorID, appt.Date, appt.SlotID)) != nil {
		return nil, ErrSlotTaken
	}
	cp := *appt
	cp.ID = uuid.New()
	cp.Status = StatusScheduled
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, to Status) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (m *mockRepo) List(_ context.Context, filter ListFilter, limit, offset int) ([]AppointmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []AppointmentDetail
	for _, a := range m.appointments {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		result = append(result, AppointmentDetail{Appointment: *a, StatusName: a.Status.String()})
	}
	return result, nil
}

func (m *mockRepo) GetDetail(_ context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	a, err := m.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return &AppointmentDetail{Appointment: *a, StatusName: a.Status.String()}, nil
}

func (m *mockRepo) FindScheduledBefore(_ context.Context, day time.Time) ([]Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []Appointment
	for _, a := range m.appointments {
		if a.Status == StatusScheduled && a.Date.Before(day) {
			result = append(result, *a)
		}
	}
	return result, nil
}

// -- Fakes --

// passLocker serializes callers with a plain mutex, standing in for the Redis
// lock in tests.
type passLocker struct {
	mu sync.Mutex
}

func (l *passLocker) WithBookingLock(ctx context.Context, _ uuid.UUID, _ time.Time, _ uuid.UUID, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

type fakeCalendar struct {
	bookable map[slotKey]bool
}

func (c *fakeCalendar) allow(doctorID uuid.UUID, day int, slotID uuid.UUID) {
	if c.bookable == nil {
		c.bookable = make(map[slotKey]bool)
	}
	c.bookable[slotKey{doctor: doctorID, date: time.Weekday(day).String(), slot: slotID}] = true
}

func (c *fakeCalendar) SlotBookable(_ context.Context, doctorID uuid.UUID, dayOfWeek int, slotID uuid.UUID) (bool, error) {
	return c.bookable[slotKey{doctor: doctorID, date: time.Weekday(dayOfWeek).String(), slot: slotID}], nil
}

func newTestService(repo Repository, cal Calendar) *Service {
	return NewService(repo, cal, &passLocker{}, zerolog.Nop())
}

func validInput(doctorID, slotID uuid.UUID, date time.Time) CreateInput {
	return CreateInput{
		PatientID:    uuid.New(),
		DoctorID:     doctorID,
		Date:         date,
		SlotID:       slotID,
		BookedByType: "receptionist",
		BookedByID:   uuid.New(),
	}
}

// monday is a fixed Monday used across tests.
var monday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

// -- Tests --

func TestCheckAvailabilityReasons(t *testing.T) {
	repo := newMockRepo()
	cal := &fakeCalendar{}
	svc := newTestService(repo, cal)

	doctorID := uuid.New()
	slotID := uuid.New()
	cal.allow(doctorID, int(monday.Weekday()), slotID)

	// In schedule, not yet booked.
	avail, err := svc.CheckAvailability(context.Background(), doctorID, monday, slotID)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !avail.Available {
		t.Fatalf("expected available, got reason %q", avail.Reason)
	}

	// Not in schedule at all.
	avail, err = svc.CheckAvailability(context.Background(), doctorID, monday, uuid.New())
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if avail.Available || avail.Reason != ReasonNotInSchedule {
		t.Errorf("got %+v, want reason %q", avail, ReasonNotInSchedule)
	}

	// Book it, then the same triple reports already booked.
	if _, err := svc.Create(context.Background(), validInput(doctorID, slotID, monday)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	avail, err = svc.CheckAvailability(context.Background(), doctorID, monday, slotID)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if avail.Available || avail.Reason != ReasonAlreadyBooked {
		t.Errorf("got %+v, want reason %q", avail, ReasonAlreadyBooked)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMockRepo(), &fakeCalendar{})

	in := validInput(uuid.New(), uuid.New(), monday)
	in.PatientID = uuid.Nil
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrMissingField) {
		t.Errorf("missing patient: err = %v, want ErrMissingField", err)
	}

	in = validInput(uuid.New(), uuid.New(), monday)
	in.BookedByType = "robot"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidBookedByType) {
		t.Errorf("bad booked_by_type: err = %v, want ErrInvalidBookedByType", err)
	}
}

func TestConcurrentDoubleBooking(t *testing.T) {
	repo := newMockRepo()
	cal := &fakeCalendar{}
	svc := newTestService(repo, cal)

	doctorID := uuid.New()
	slotID := uuid.New()
	cal.allow(doctorID, int(monday.Weekday()), slotID)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), validInput(doctorID, slotID, monday))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotTaken):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != attempts-1 {
		t.Errorf("successes = %d, conflicts = %d; want 1 and %d", successes, conflicts, attempts-1)
	}
}

func TestRebookAfterCancel(t *testing.T) {
	repo := newMockRepo()
	cal := &fakeCalendar{}
	svc := newTestService(repo, cal)

	doctorID := uuid.New()
	slotID := uuid.New()
	cal.allow(doctorID, int(monday.Weekday()), slotID)

	first, err := svc.Create(context.Background(), validInput(doctorID, slotID, monday))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Create(context.Background(), validInput(doctorID, slotID, monday)); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second booking err = %v, want ErrSlotTaken", err)
	}

	if _, err := svc.Cancel(context.Background(), first.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// Cancelled is terminal, so the slot is free again.
	if _, err := svc.Create(context.Background(), validInput(doctorID, slotID, monday)); err != nil {
		t.Errorf("rebooking after cancel: %v", err)
	}
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	repo := newMockRepo()
	cal := &fakeCalendar{}
	svc := newTestService(repo, cal)

	doctorID := uuid.New()
	slotID := uuid.New()
	cal.allow(doctorID, int(monday.Weekday()), slotID)

	appt, err := svc.Create(context.Background(), validInput(doctorID, slotID, monday))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), appt.ID, Status(42)); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("unknown status: err = %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), appt.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus to Completed: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Fatalf("status = %s, want Completed", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), appt.ID, StatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Completed -> Cancelled: err = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusCancelled); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("unknown id: err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestSweepNoShows(t *testing.T) {
	repo := newMockRepo()
	cal := &fakeCalendar{}
	svc := newTestService(repo, cal)

	doctorID := uuid.New()
	yesterday := monday
	today := monday.AddDate(0, 0, 1)

	slotA, slotB := uuid.New(), uuid.New()
	cal.allow(doctorID, int(yesterday.Weekday()), slotA)
	cal.allow(doctorID, int(yesterday.Weekday()), slotB)
	cal.allow(doctorID, int(today.Weekday()), slotA)

	stale, err := svc.Create(context.Background(), validInput(doctorID, slotA, yesterday))
	if err != nil {
		t.Fatalf("Create stale: %v", err)
	}
	completedID := func() uuid.UUID {
		a, err := svc.Create(context.Background(), validInput(doctorID, slotB, yesterday))
		if err != nil {
			t.Fatalf("Create completed: %v", err)
		}
		if _, err := svc.UpdateStatus(context.Background(), a.ID, StatusCompleted); err != nil {
			t.Fatalf("complete: %v", err)
		}
		return a.ID
	}()
	upcoming, err := svc.Create(context.Background(), validInput(doctorID, slotA, today))
	if err != nil {
		t.Fatalf("Create upcoming: %v", err)
	}

	swept, err := svc.SweepNoShows(context.Background(), today)
	if err != nil {
		t.Fatalf("SweepNoShows: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}

	check := func(id uuid.UUID, want Status) {
		t.Helper()
		a, err := repo.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if a.Status != want {
			t.Errorf("appointment %s status = %s, want %s", id, a.Status, want)
		}
	}
	check(stale.ID, StatusNoShow)
	check(completedID, StatusCompleted)
	check(upcoming.ID, StatusScheduled)
}

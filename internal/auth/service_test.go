package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type signinLogEntry struct {
	userType UserType
	id       uuid.UUID
	status   string
}

type mockStore struct {
	credentials map[uuid.UUID]*Credential
	signinLogs  []signinLogEntry
	signupLogs  []string
	logErr      error
}

func newMockStore() *mockStore {
	return &mockStore{credentials: make(map[uuid.UUID]*Credential)}
}

func (m *mockStore) addUser(password string, active bool) uuid.UUID {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	id := uuid.New()
	m.credentials[id] = &Credential{ID: id, Name: "Test User", PasswordHash: string(hash), Active: active}
	return id
}

func (m *mockStore) CreateDoctor(_ context.Context, in DoctorSignup, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	m.credentials[id] = &Credential{ID: id, Name: in.Name, PasswordHash: passwordHash, Active: true}
	return id, nil
}

func (m *mockStore) CreatePatient(_ context.Context, in PatientSignup, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	m.credentials[id] = &Credential{ID: id, Name: in.Name, PasswordHash: passwordHash, Active: true}
	return id, nil
}

func (m *mockStore) CreateReceptionist(_ context.Context, in ReceptionistSignup, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	m.credentials[id] = &Credential{ID: id, Name: in.Name, PasswordHash: passwordHash, Active: true}
	return id, nil
}

func (m *mockStore) Credentials(_ context.Context, _ UserType, id uuid.UUID) (*Credential, error) {
	cred, ok := m.credentials[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cred, nil
}

func (m *mockStore) LogSignin(_ context.Context, userType UserType, id uuid.UUID, status string) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.signinLogs = append(m.signinLogs, signinLogEntry{userType, id, status})
	return nil
}

func (m *mockStore) LogSignup(_ context.Context, _ UserType, name string) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.signupLogs = append(m.signupLogs, name)
	return nil
}

func newTestService(store Store) *Service {
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewService(store, tokens, zerolog.Nop())
}

func TestSigninSuccess(t *testing.T) {
	store := newMockStore()
	id := store.addUser("correct-horse", true)
	svc := newTestService(store)

	session, err := svc.Signin(context.Background(), UserDoctor, id, "correct-horse")
	if err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}
	if session.UserID != id {
		t.Errorf("session UserID = %s, want %s", session.UserID, id)
	}
	if session.Token == "" {
		t.Error("expected a non-empty token")
	}
	if len(store.signinLogs) != 1 || store.signinLogs[0].status != signinSuccess {
		t.Errorf("expected one success signin log, got %+v", store.signinLogs)
	}
}

func TestSigninWrongPassword(t *testing.T) {
	store := newMockStore()
	id := store.addUser("correct-horse", true)
	svc := newTestService(store)

	_, err := svc.Signin(context.Background(), UserDoctor, id, "battery-staple")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(store.signinLogs) != 1 || store.signinLogs[0].status != signinFailed {
		t.Errorf("expected one failed signin log, got %+v", store.signinLogs)
	}
}

func TestSigninUnknownUser(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	_, err := svc.Signin(context.Background(), UserPatient, uuid.New(), "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(store.signinLogs) != 1 || store.signinLogs[0].status != signinFailed {
		t.Errorf("expected one failed signin log, got %+v", store.signinLogs)
	}
}

func TestSigninInactiveAccount(t *testing.T) {
	store := newMockStore()
	id := store.addUser("correct-horse", false)
	svc := newTestService(store)

	_, err := svc.Signin(context.Background(), UserDoctor, id, "correct-horse")
	if !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
	if got := err.Error(); got != "account is inactive" {
		t.Errorf("error message = %q, want %q", got, "account is inactive")
	}
}

func TestSigninInvalidUserType(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	_, err := svc.Signin(context.Background(), UserType("admin"), uuid.New(), "pw")
	if !errors.Is(err, ErrInvalidUserType) {
		t.Fatalf("expected ErrInvalidUserType, got %v", err)
	}
}

func TestSigninSurvivesAuditFailure(t *testing.T) {
	store := newMockStore()
	id := store.addUser("correct-horse", true)
	store.logErr = errors.New("log table unavailable")
	svc := newTestService(store)

	if _, err := svc.Signin(context.Background(), UserDoctor, id, "correct-horse"); err != nil {
		t.Fatalf("signin should succeed despite audit failure, got %v", err)
	}
}

func TestSignupStoresHashNotPassword(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store)

	session, err := svc.SignupPatient(context.Background(), PatientSignup{
		Name:     "Asha Verma",
		Password: "s3cret",
		Age:      34,
		Gender:   "female",
	})
	if err != nil {
		t.Fatalf("SignupPatient returned error: %v", err)
	}

	cred := store.credentials[session.UserID]
	if cred.PasswordHash == "s3cret" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not verify against original password: %v", err)
	}
	if len(store.signupLogs) != 1 {
		t.Errorf("expected one signup log, got %d", len(store.signupLogs))
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(newMockStore())

	if _, err := svc.SignupDoctor(context.Background(), DoctorSignup{Password: "pw"}); !errors.Is(err, ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
	if _, err := svc.SignupReceptionist(context.Background(), ReceptionistSignup{Name: "Ravi"}); !errors.Is(err, ErrMissingPassword) {
		t.Errorf("expected ErrMissingPassword, got %v", err)
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrInvalidUserType    = errors.New("invalid user type")
	ErrMissingName        = errors.New("name is required")
	ErrMissingPassword    = errors.New("password is required")
)

const (
	signinSuccess = "success"
	signinFailed  = "failed"
)

type Service struct {
	store  Store
	tokens *TokenManager
	logger zerolog.Logger
}

func NewService(store Store, tokens *TokenManager, logger zerolog.Logger) *Service {
	return &Service{store: store, tokens: tokens, logger: logger}
}

func (s *Service) SignupDoctor(ctx context.Context, in DoctorSignup) (*Session, error) {
	if err := validateSignup(in.Name, in.Password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.store.CreateDoctor(ctx, in, hash)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, UserDoctor, in.Name)
	return s.startSession(id, in.Name, UserDoctor)
}

func (s *Service) SignupPatient(ctx context.Context, in PatientSignup) (*Session, error) {
	if err := validateSignup(in.Name, in.Password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.store.CreatePatient(ctx, in, hash)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, UserPatient, in.Name)
	return s.startSession(id, in.Name, UserPatient)
}

func (s *Service) SignupReceptionist(ctx context.Context, in ReceptionistSignup) (*Session, error) {
	if err := validateSignup(in.Name, in.Password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.store.CreateReceptionist(ctx, in, hash)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, UserReceptionist, in.Name)
	return s.startSession(id, in.Name, UserReceptionist)
}

// Signin verifies the password for the given account and issues a session
// token. Every attempt is recorded in the signin log, including failures.
func (s *Service) Signin(ctx context.Context, userType UserType, id uuid.UUID, password string) (*Session, error) {
	if !userType.Valid() {
		return nil, ErrInvalidUserType
	}

	cred, err := s.store.Credentials(ctx, userType, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logAttempt(ctx, userType, id, signinFailed)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !cred.Active {
		s.logAttempt(ctx, userType, id, signinFailed)
		return nil, ErrInactiveAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		s.logAttempt(ctx, userType, id, signinFailed)
		return nil, ErrInvalidCredentials
	}

	s.logAttempt(ctx, userType, id, signinSuccess)
	return s.startSession(cred.ID, cred.Name, userType)
}

func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}

func (s *Service) startSession(id uuid.UUID, name string, userType UserType) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(id, userType)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:    id,
		Name:      name,
		UserType:  userType,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// logAttempt records a signin attempt. Audit writes must never fail the
// signin itself.
func (s *Service) logAttempt(ctx context.Context, userType UserType, id uuid.UUID, status string) {
	if err := s.store.LogSignin(ctx, userType, id, status); err != nil {
		s.logger.Warn().Err(err).Str("user_type", string(userType)).Msg("failed to write signin log")
	}
}

func (s *Service) audit(ctx context.Context, userType UserType, name string) {
	if err := s.store.LogSignup(ctx, userType, name); err != nil {
		s.logger.Warn().Err(err).Str("user_type", string(userType)).Msg("failed to write signup log")
	}
}

func validateSignup(name, password string) error {
	if name == "" {
		return ErrMissingName
	}
	if password == "" {
		return ErrMissingPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

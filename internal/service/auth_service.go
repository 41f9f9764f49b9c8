package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kloudcart/internal/model"
	"kloudcart/internal/repository"
	"kloudcart/internal/session"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	sessions session.Store
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, sessions session.Store, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates an account with a bcrypt password hash.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, "", model.ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.logger.Debug().Str("email", email).Msg("login attempt for unknown email")
		return nil, "", model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug().Str("email", email).Msg("login attempt with wrong password")
		return nil, "", model.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("user logged in")
	return user, token, nil
}

// Logout invalidates a session token.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// validateRegisterRequest validates a registration payload.
func validateRegisterRequest(req *model.RegisterRequest) error {
	if req == nil {
		return fmt.Errorf("registration request is nil")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(req.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

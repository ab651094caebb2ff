package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/sandeepkv93/statuspage-service/internal/domain"
	"github.com/sandeepkv93/statuspage-service/internal/observability"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
	"github.com/sandeepkv93/statuspage-service/internal/security"
)

var validate = validator.New()

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type AuthResult struct {
	User    *domain.User
	Session *domain.Session
}

type AuthService struct {
	users    repository.UserRepository
	sessions *SessionService
	clock    clockwork.Clock
}

func NewAuthService(users repository.UserRepository, sessions *SessionService, clock clockwork.Clock) *AuthService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuthService{users: users, sessions: sessions, clock: clock}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	var problems []string
	if email == "" {
		problems = append(problems, "Email is required")
	}
	if in.Password == "" {
		problems = append(problems, "Password is required")
	}
	if name == "" {
		problems = append(problems, "Name is required")
	}
	if len(problems) > 0 {
		observability.RecordAuthSignup(ctx, "invalid")
		return nil, newValidationError(problems...)
	}
	if !validEmail(email) {
		observability.RecordAuthSignup(ctx, "invalid")
		return nil, newValidationError("Invalid email format")
	}
	if weak := security.PasswordProblems(in.Password); len(weak) > 0 {
		observability.RecordAuthSignup(ctx, "weak_password")
		return nil, newValidationError(weak...)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		observability.RecordAuthSignup(ctx, "conflict")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	id, err := security.NewUserID()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	user := &domain.User{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailUsed) {
			observability.RecordAuthSignup(ctx, "conflict")
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthSignup(ctx, "success")
	return &AuthResult{User: user, Session: session}, nil
}

// Login never reveals whether the address exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		observability.RecordAuthLogin(ctx, "invalid")
		return nil, newValidationError("Email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthLogin(ctx, "failure")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.PasswordHash == nil {
		observability.RecordAuthLogin(ctx, "failure")
		return nil, ErrInvalidCredentials
	}
	ok, err := security.VerifyPassword(password, *user.PasswordHash)
	if err != nil || !ok {
		observability.RecordAuthLogin(ctx, "failure")
		return nil, ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}
	user.LastLoginAt = &now
	observability.RecordAuthLogin(ctx, "success")
	return &AuthResult{User: user, Session: session}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, err := s.sessions.Destroy(ctx, token)
	return err
}

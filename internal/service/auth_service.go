package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventup/eventup/internal/auth"
	"github.com/eventup/eventup/internal/clock"
	"github.com/eventup/eventup/internal/model"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Insert(ctx context.Context, u model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListParticipants(ctx context.Context) ([]model.User, error)
}

// AuthService handles registration, login, and token issuance.
type AuthService struct {
	users  UserStore
	tokens *auth.Manager
	clock  clock.Clock
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, tokens *auth.Manager, clk clock.Clock) *AuthService {
	return &AuthService{users: users, tokens: tokens, clock: clk}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a PARTICIPANT account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, "", fmt.Errorf("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, "", fmt.Errorf("first and last name are required")
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", fmt.Errorf("%w: email already registered", model.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         model.RoleParticipant,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Sign(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks credentials and returns the user with a fresh token. Both a
// missing account and a wrong password yield the same unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)
	}

	token, err := s.tokens.Sign(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ListParticipants returns all participant accounts, for the admin
// reservation form.
func (s *AuthService) ListParticipants(ctx context.Context) ([]model.User, error) {
	return s.users.ListParticipants(ctx)
}
